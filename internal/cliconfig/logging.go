package cliconfig

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/bft-labs/multbell/pkg/log"
)

// Logger returns the CLI's stderr console logger at level. Unknown levels
// fall back to info.
func Logger(level string) zerolog.Logger {
	return log.NewConsoleLogger(os.Stderr, level)
}
