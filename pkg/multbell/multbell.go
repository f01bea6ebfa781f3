package multbell

import (
	"context"
	"net"
	"os"
	"sync"

	"github.com/bft-labs/multbell/internal/adapters/audio"
	"github.com/bft-labs/multbell/internal/adapters/console"
	"github.com/bft-labs/multbell/internal/adapters/udp"
	"github.com/bft-labs/multbell/internal/app"
	"github.com/bft-labs/multbell/internal/domain"
	"github.com/bft-labs/multbell/internal/ports"
	"github.com/bft-labs/multbell/pkg/log"
)

// Multbell listens for DXLog contactinfo broadcasts and rings when a new
// QSO carries a multiplier. Use New to create an instance, then Start.
type Multbell struct {
	config     Config
	opts       options
	lifecycle  *app.Lifecycle
	classifier *app.Classifier
	player     ports.AlertPlayer
	sink       ports.ReportSink
	logger     ports.Logger
	plugins    []Plugin

	mu     sync.RWMutex
	source ports.DatagramSource
}

// New creates an instance in StateStopped. Nothing is bound until Start.
// Returns an error if the configuration is invalid or the player cannot be
// built.
func New(cfg Config, opts ...Option) (*Multbell, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	limits, err := cfg.limits()
	if err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	player := o.player
	if player == nil {
		player, err = audio.New(cfg.audioConfig(), logger)
		if err != nil {
			return nil, err
		}
	}

	out := o.output
	if out == nil {
		out = os.Stdout
	}
	sinks := app.MultiSink{console.NewPrinter(out)}
	for _, fn := range o.reportHandlers {
		sinks = append(sinks, app.SinkFunc(fn))
	}

	emitter := &eventEmitterWrapper{handler: o.eventHandler}

	return &Multbell{
		config:     cfg,
		opts:       o,
		lifecycle:  app.NewLifecycle(logger, emitter),
		classifier: app.NewClassifier(limits),
		player:     player,
		sink:       sinks,
		logger:     logger,
		plugins:    o.plugins,
	}, nil
}

// Start binds the socket, initializes plugins and starts the listener in
// the background. Bind errors are returned synchronously and leave the
// instance in StateCrashed. Cancelling ctx closes the socket; Stop must
// still be called to shut plugins down.
func (m *Multbell) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}
	if err := m.lifecycle.TransitionTo(app.StateStarting, "Start() called"); err != nil {
		return err
	}

	source := m.opts.source
	if source == nil {
		sock, err := udp.Listen(ctx, m.config.ListenAddr())
		if err != nil {
			m.logger.Error("socket bind failed",
				ports.String("addr", m.config.ListenAddr()),
				ports.Err(err))
			_ = m.lifecycle.TransitionTo(app.StateCrashed, "bind failed")
			return err
		}
		source = sock
	}
	m.source = source

	runCtx, cancel := context.WithCancel(ctx)
	m.lifecycle.SetCancel(cancel)

	pluginCfg := PluginConfig{
		Sound:   m.config.Sound,
		WAVFile: m.config.WAVFile,
		Mute:    m.config.Mute,
		Logger:  m.logger,
	}
	for i, p := range m.plugins {
		if err := p.Initialize(runCtx, pluginCfg); err != nil {
			m.logger.Error("plugin initialization failed",
				ports.String("plugin", p.Name()),
				ports.Err(err))
			cancel()
			m.shutdownPlugins(m.plugins[:i])
			_ = source.Close()
			_ = m.lifecycle.TransitionTo(app.StateCrashed, "plugin init failed: "+p.Name())
			return err
		}
		m.logger.Info("plugin initialized", ports.String("plugin", p.Name()))
	}

	listener := app.NewListener(
		app.ListenerConfig{Mute: m.config.Mute},
		source, m.classifier, m.player, m.sink, m.logger, m.lifecycle,
	)

	if err := m.lifecycle.TransitionTo(app.StateIdle, "listening"); err != nil {
		cancel()
		_ = source.Close()
		return err
	}
	m.logger.Info("listening", ports.Addr("addr", source.LocalAddr()))

	// A blocked Receive only returns once the source is closed.
	go func() {
		<-runCtx.Done()
		_ = source.Close()
	}()

	m.lifecycle.AddWorker()
	go func() {
		defer m.lifecycle.WorkerDone()
		listener.Run(runCtx)
	}()

	return nil
}

// Stop closes the socket and waits for the listener to return, letting an
// alert that is already playing finish. Returns ErrShutdownTimeout if the
// listener does not return within app.ShutdownTimeout.
func (m *Multbell) Stop() error {
	m.mu.Lock()

	if !m.lifecycle.CanStop() {
		m.mu.Unlock()
		return domain.ErrNotRunning
	}
	if err := m.lifecycle.TransitionTo(app.StateStopping, "Stop() called"); err != nil {
		m.mu.Unlock()
		return err
	}
	m.lifecycle.Cancel()
	if m.source != nil {
		_ = m.source.Close()
	}

	m.mu.Unlock()

	err := m.lifecycle.WaitWithTimeout(app.ShutdownTimeout)

	m.shutdownPlugins(m.plugins)

	if err != nil {
		_ = m.lifecycle.TransitionTo(app.StateCrashed, "shutdown timeout")
	} else {
		_ = m.lifecycle.TransitionTo(app.StateStopped, "graceful shutdown")
	}
	return err
}

// shutdownPlugins shuts plugins down in reverse order.
func (m *Multbell) shutdownPlugins(plugins []Plugin) {
	ctx := context.Background()
	for i := len(plugins) - 1; i >= 0; i-- {
		p := plugins[i]
		if err := p.Shutdown(ctx); err != nil {
			m.logger.Error("plugin shutdown failed",
				ports.String("plugin", p.Name()),
				ports.Err(err))
		} else {
			m.logger.Info("plugin shutdown complete", ports.String("plugin", p.Name()))
		}
	}
}

// Status returns the current lifecycle state. Safe for concurrent use.
func (m *Multbell) Status() State {
	return convertState(m.lifecycle.State())
}

// Addr returns the bound address, or nil before Start.
func (m *Multbell) Addr() net.Addr {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.source == nil {
		return nil
	}
	return m.source.LocalAddr()
}

// Config returns the configuration with defaults applied.
func (m *Multbell) Config() Config {
	return m.config
}

// Player returns the player built from the configuration, or the one passed
// with WithPlayer.
func (m *Multbell) Player() AlertPlayer {
	return m.player
}
