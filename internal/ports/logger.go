package ports

import "github.com/bft-labs/multbell/pkg/log"

// Logger is the structured logger used by the core.
type Logger = log.Logger

// Field is a structured log field.
type Field = log.Field

// Field constructors, re-exported so adapters only import ports.
var (
	String   = log.String
	Int      = log.Int
	Float64  = log.Float64
	Bool     = log.Bool
	Duration = log.Duration
	Addr     = log.Addr
	Err      = log.Err
	Any      = log.Any
)
