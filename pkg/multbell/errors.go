package multbell

import "github.com/bft-labs/multbell/internal/domain"

// Errors returned by this package. Match them with errors.Is.
var (
	ErrAlreadyRunning  = domain.ErrAlreadyRunning
	ErrNotRunning      = domain.ErrNotRunning
	ErrShutdownTimeout = domain.ErrShutdownTimeout
	ErrInvalidConfig   = domain.ErrInvalidConfig
	ErrUnknownSound    = domain.ErrUnknownSound
	ErrSourceClosed    = domain.ErrSourceClosed
)
