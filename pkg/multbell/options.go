package multbell

import (
	"io"

	"github.com/bft-labs/multbell/internal/domain"
	"github.com/bft-labs/multbell/internal/ports"
	"github.com/bft-labs/multbell/pkg/log"
	"github.com/bft-labs/multbell/pkg/tone"
)

// Re-exported so embedders can implement the hooks without importing
// internal packages.
type (
	// Logger is the structured logging interface from pkg/log.
	Logger = log.Logger

	// LogField is a structured log field.
	LogField = log.Field

	// Report is one classified contactinfo packet.
	Report = domain.Report

	// FieldName identifies a contactinfo tag.
	FieldName = domain.FieldName

	// Datagram is a received payload with its sender.
	Datagram = domain.Datagram

	// DatagramSource delivers datagrams to the listener.
	DatagramSource = ports.DatagramSource

	// AlertPlayer plays the cue.
	AlertPlayer = ports.AlertPlayer

	// ToneParams describes the synthesized cue.
	ToneParams = tone.Params
)

const (
	FieldCall   = domain.FieldCall
	FieldBand   = domain.FieldBand
	FieldMode   = domain.FieldMode
	FieldMult1  = domain.FieldMult1
	FieldMult2  = domain.FieldMult2
	FieldMult3  = domain.FieldMult3
	FieldNewQSO = domain.FieldNewQSO
	FieldXQSO   = domain.FieldXQSO
)

// Option configures optional behavior of Multbell.
type Option func(*options)

type options struct {
	logger         Logger
	eventHandler   EventHandler
	player         AlertPlayer
	source         DatagramSource
	output         io.Writer
	reportHandlers []func(Report)
	plugins        []Plugin
}

// WithLogger sets a custom logger. If not provided, nothing is logged.
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEventHandler sets a handler for lifecycle events.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithPlayer replaces the player selected by Config.Sound.
func WithPlayer(player AlertPlayer) Option {
	return func(o *options) {
		o.player = player
	}
}

// WithSource replaces the UDP socket. The source is used for a single run:
// Stop closes it.
func WithSource(source DatagramSource) Option {
	return func(o *options) {
		o.source = source
	}
}

// WithOutput redirects the report lines. Default: os.Stdout. Pass
// io.Discard to silence them.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithReportHandler registers fn to receive every report, after the line
// is printed and before the cue plays. fn runs on the listener goroutine.
func WithReportHandler(fn func(Report)) Option {
	return func(o *options) {
		o.reportHandlers = append(o.reportHandlers, fn)
	}
}

// WithPlugin registers a plugin to be initialized when Multbell starts.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}
