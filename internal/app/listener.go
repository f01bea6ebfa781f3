package app

import (
	"context"
	"errors"

	"github.com/bft-labs/multbell/internal/domain"
	"github.com/bft-labs/multbell/internal/ports"
)

// ListenerConfig tunes the listener loop.
type ListenerConfig struct {
	// Mute classifies and reports but never plays the cue.
	Mute bool
}

// Listener receives datagrams one at a time and runs each through the
// classifier, the report sink, and, when triggered, the alert player.
//
// There is no internal queue: while a datagram is being processed
// (including blocking playback) new datagrams wait in the kernel socket
// buffer.
type Listener struct {
	cfg        ListenerConfig
	source     ports.DatagramSource
	classifier *Classifier
	player     ports.AlertPlayer
	sink       ports.ReportSink
	logger     ports.Logger
	lifecycle  *Lifecycle
}

// NewListener wires a listener. player and sink may be nil.
func NewListener(
	cfg ListenerConfig,
	source ports.DatagramSource,
	classifier *Classifier,
	player ports.AlertPlayer,
	sink ports.ReportSink,
	logger ports.Logger,
	lifecycle *Lifecycle,
) *Listener {
	return &Listener{
		cfg:        cfg,
		source:     source,
		classifier: classifier,
		player:     player,
		sink:       sink,
		logger:     logger,
		lifecycle:  lifecycle,
	}
}

// Run loops until the source is closed or ctx is done. Receive errors are
// logged and the loop continues; none of them ends the run.
func (l *Listener) Run(ctx context.Context) {
	buf := make([]byte, domain.MaxDatagramSize)
	for {
		d, err := l.source.Receive(ctx, buf)
		if err != nil {
			if errors.Is(err, domain.ErrSourceClosed) || ctx.Err() != nil {
				return
			}
			l.logger.Error("receive failed", ports.Err(err))
			continue
		}
		l.Process(ctx, d)
	}
}

// Process handles a single datagram. The report is returned for callers
// that want it; ok is false for datagrams without an envelope.
func (l *Listener) Process(ctx context.Context, d domain.Datagram) (domain.Report, bool) {
	if l.lifecycle.transitionFrom(StateIdle, StateProcessing, "datagram received") {
		defer l.lifecycle.transitionFrom(StateProcessing, StateIdle, "datagram done")
	}

	report, ok := l.classifier.Classify(d)
	if !ok {
		return report, false
	}

	if l.sink != nil {
		if err := l.sink.WriteReport(report); err != nil {
			l.logger.Warn("report output failed", ports.Err(err))
		}
	}

	if report.Triggered {
		l.alert(ctx, report)
	}
	return report, true
}

func (l *Listener) alert(ctx context.Context, report domain.Report) {
	if l.cfg.Mute || l.player == nil {
		l.logger.Debug("alert suppressed",
			ports.String("call", report.Display(domain.FieldCall)),
			ports.Bool("mute", l.cfg.Mute),
		)
		return
	}
	if err := l.player.Play(ctx); err != nil {
		l.logger.Warn("alert playback failed",
			ports.String("player", l.player.Name()),
			ports.Err(err),
		)
	}
}
