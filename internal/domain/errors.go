package domain

import "errors"

// Sentinel errors; match with errors.Is.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running instance.
	ErrAlreadyRunning = errors.New("multbell: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped instance.
	ErrNotRunning = errors.New("multbell: not running")

	// ErrShutdownTimeout is returned when the listener does not exit in time.
	ErrShutdownTimeout = errors.New("multbell: shutdown timeout")

	// ErrInvalidConfig wraps configuration validation failures.
	ErrInvalidConfig = errors.New("multbell: invalid configuration")

	// ErrUnknownSound is returned for a sound mode outside file|tone|device.
	ErrUnknownSound = errors.New("multbell: unknown sound mode")

	// ErrUnknownField is returned for a field name outside the known tag set.
	ErrUnknownField = errors.New("multbell: unknown field")

	// ErrSourceClosed is returned by a DatagramSource once it has been closed
	// or exhausted.
	ErrSourceClosed = errors.New("multbell: datagram source closed")
)
