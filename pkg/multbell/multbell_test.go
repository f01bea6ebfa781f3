package multbell_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bft-labs/multbell/pkg/multbell"
)

const newMultPacket = `<?xml version="1.0"?><contactinfo><call>DL1ABC</call><band>20</band>` +
	`<mode>CW</mode><mult1>DL</mult1><mult2></mult2><mult3></mult3>` +
	`<newqso>true</newqso><xqso>false</xqso></contactinfo>`

const dupePacket = `<contactinfo><call>DL1ABC</call><mult1>DL</mult1><newqso>false</newqso></contactinfo>`

type testLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *testLogger) Debug(msg string, fields ...multbell.LogField) { l.log("DEBUG", msg) }
func (l *testLogger) Info(msg string, fields ...multbell.LogField)  { l.log("INFO", msg) }
func (l *testLogger) Warn(msg string, fields ...multbell.LogField)  { l.log("WARN", msg) }
func (l *testLogger) Error(msg string, fields ...multbell.LogField) { l.log("ERROR", msg) }

func (l *testLogger) log(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("[%s] %s", level, msg))
}

func (l *testLogger) contains(s string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.messages {
		if strings.Contains(m, s) {
			return true
		}
	}
	return false
}

type countingPlayer struct {
	plays atomic.Int32
}

func (p *countingPlayer) Play(ctx context.Context) error {
	p.plays.Add(1)
	return nil
}

func (p *countingPlayer) Name() string { return "counting" }

type trackingPlugin struct {
	name      string
	order     *[]string
	mu        *sync.Mutex
	initError error
	cfg       multbell.PluginConfig
}

func (p *trackingPlugin) Name() string { return p.name }

func (p *trackingPlugin) Initialize(ctx context.Context, cfg multbell.PluginConfig) error {
	if p.initError != nil {
		return p.initError
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg = cfg
	*p.order = append(*p.order, "init:"+p.name)
	return nil
}

func (p *trackingPlugin) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	*p.order = append(*p.order, "shutdown:"+p.name)
	return nil
}

type recordingHandler struct {
	multbell.BaseEventHandler
	mu     sync.Mutex
	events []multbell.StateChangeEvent
}

func (h *recordingHandler) OnStateChange(e multbell.StateChangeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHandler) states() []multbell.State {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]multbell.State, len(h.events))
	for i, e := range h.events {
		out[i] = e.Current
	}
	return out
}

func loopbackConfig() multbell.Config {
	cfg := multbell.DefaultConfig()
	cfg.BindAddr = "127.0.0.1"
	cfg.Port = 0
	return cfg
}

func send(t *testing.T, addr net.Addr, payload string) {
	t.Helper()
	conn, err := net.Dial("udp", addr.String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if _, err := conn.Write([]byte(payload)); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func waitReport(t *testing.T, ch <-chan multbell.Report) multbell.Report {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for report")
	}
	return multbell.Report{}
}

func waitStatus(t *testing.T, bell *multbell.Multbell, want multbell.State) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for bell.Status() != want {
		if time.Now().After(deadline) {
			t.Fatalf("Status() = %v, want %v", bell.Status(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := multbell.DefaultConfig()

	if cfg.Port != 12060 {
		t.Errorf("Port = %d, want 12060", cfg.Port)
	}
	if cfg.Sound != multbell.SoundFile {
		t.Errorf("Sound = %q, want file", cfg.Sound)
	}
	if cfg.WAVFile != "./handbell.wav" {
		t.Errorf("WAVFile = %q", cfg.WAVFile)
	}
	if cfg.Player != "aplay" {
		t.Errorf("Player = %q, want aplay", cfg.Player)
	}
	if cfg.Tone.Frequency != 880 || cfg.Tone.SampleRate != 44100 {
		t.Errorf("Tone = %+v", cfg.Tone)
	}
	if got := cfg.ListenAddr(); got != ":12060" {
		t.Errorf("ListenAddr() = %q, want :12060", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*multbell.Config)
		wantErr error
	}{
		{"negative port", func(c *multbell.Config) { c.Port = -1 }, multbell.ErrInvalidConfig},
		{"port too large", func(c *multbell.Config) { c.Port = 70000 }, multbell.ErrInvalidConfig},
		{"hostname bind", func(c *multbell.Config) { c.BindAddr = "localhost" }, multbell.ErrInvalidConfig},
		{"unknown sound", func(c *multbell.Config) { c.Sound = "trumpet" }, multbell.ErrUnknownSound},
		{"loud tone", func(c *multbell.Config) { c.Tone.Volume = 1.5 }, multbell.ErrInvalidConfig},
		{"long fade", func(c *multbell.Config) { c.Tone.Fade = time.Second }, multbell.ErrInvalidConfig},
		{"unknown field", func(c *multbell.Config) { c.FieldLimits = map[string]int{"grid": 6} }, multbell.ErrInvalidConfig},
		{"zero limit", func(c *multbell.Config) { c.FieldLimits = map[string]int{"call": 0} }, multbell.ErrInvalidConfig},
		{"valid limit", func(c *multbell.Config) { c.FieldLimits = map[string]int{"CALL": 12} }, nil},
		{"ipv6 bind", func(c *multbell.Config) { c.BindAddr = "::1" }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := multbell.DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew_ZeroVolume(t *testing.T) {
	cfg := multbell.DefaultConfig()
	cfg.Tone.Volume = 0
	bell, err := multbell.New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if got := bell.Config().Tone; got.Volume != 0 || got.Frequency != 880 {
		t.Errorf("Tone = %+v, want 880 Hz at volume 0", got)
	}

	bell, err = multbell.New(multbell.Config{Port: 12060})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if got := bell.Config().Tone.Volume; got != 0.6 {
		t.Errorf("zero Tone volume = %v, want the stock 0.6", got)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := multbell.DefaultConfig()
	cfg.Sound = "kazoo"
	if _, err := multbell.New(cfg); !errors.Is(err, multbell.ErrUnknownSound) {
		t.Fatalf("New() = %v, want ErrUnknownSound", err)
	}
}

func TestMultbell_ReceivesAndAlerts(t *testing.T) {
	player := &countingPlayer{}
	reports := make(chan multbell.Report, 4)
	var out bytes.Buffer
	var outMu sync.Mutex

	bell, err := multbell.New(loopbackConfig(),
		multbell.WithPlayer(player),
		multbell.WithOutput(lockedWriter{&outMu, &out}),
		multbell.WithReportHandler(func(r multbell.Report) { reports <- r }),
	)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	if bell.Status() != multbell.StateStopped {
		t.Fatalf("Status() = %v before Start", bell.Status())
	}
	if bell.Addr() != nil {
		t.Fatalf("Addr() = %v before Start", bell.Addr())
	}

	if err := bell.Start(context.Background()); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	defer bell.Stop()

	if !bell.Status().Running() {
		t.Fatalf("Status() = %v after Start", bell.Status())
	}

	send(t, bell.Addr(), "<radioinfo><freq>14025</freq></radioinfo>")
	send(t, bell.Addr(), newMultPacket)
	send(t, bell.Addr(), dupePacket)

	r := waitReport(t, reports)
	if !r.Triggered || r.Display(multbell.FieldCall) != "DL1ABC" {
		t.Errorf("first report = %+v, want triggered DL1ABC", r)
	}
	r = waitReport(t, reports)
	if r.Triggered {
		t.Errorf("dupe report triggered")
	}

	if err := bell.Stop(); err != nil {
		t.Fatalf("Stop() = %v", err)
	}
	if bell.Status() != multbell.StateStopped {
		t.Errorf("Status() = %v after Stop", bell.Status())
	}
	if got := player.plays.Load(); got != 1 {
		t.Errorf("plays = %d, want 1", got)
	}

	outMu.Lock()
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	outMu.Unlock()
	if len(lines) != 2 {
		t.Fatalf("printed %d lines, want 2:\n%s", len(lines), out.String())
	}
	if !strings.Contains(lines[0], "*** MULT → SOUND ***") {
		t.Errorf("first line lacks the marker: %q", lines[0])
	}
	if strings.Contains(lines[1], "***") {
		t.Errorf("second line has the marker: %q", lines[1])
	}
}

func TestMultbell_Mute(t *testing.T) {
	player := &countingPlayer{}
	reports := make(chan multbell.Report, 1)

	cfg := loopbackConfig()
	cfg.Mute = true
	bell, err := multbell.New(cfg,
		multbell.WithPlayer(player),
		multbell.WithOutput(&bytes.Buffer{}),
		multbell.WithReportHandler(func(r multbell.Report) { reports <- r }),
	)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	if err := bell.Start(context.Background()); err != nil {
		t.Fatalf("Start() = %v", err)
	}

	send(t, bell.Addr(), newMultPacket)
	if r := waitReport(t, reports); !r.Triggered {
		t.Errorf("report not triggered")
	}
	if err := bell.Stop(); err != nil {
		t.Fatalf("Stop() = %v", err)
	}
	if got := player.plays.Load(); got != 0 {
		t.Errorf("plays = %d while muted", got)
	}
}

func TestMultbell_StartStopErrors(t *testing.T) {
	bell, err := multbell.New(loopbackConfig(), multbell.WithPlayer(&countingPlayer{}))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	if err := bell.Stop(); !errors.Is(err, multbell.ErrNotRunning) {
		t.Errorf("Stop() before Start = %v, want ErrNotRunning", err)
	}
	if err := bell.Start(context.Background()); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	if err := bell.Start(context.Background()); !errors.Is(err, multbell.ErrAlreadyRunning) {
		t.Errorf("second Start() = %v, want ErrAlreadyRunning", err)
	}
	if err := bell.Stop(); err != nil {
		t.Fatalf("Stop() = %v", err)
	}

	// Restart rebinds a fresh socket.
	if err := bell.Start(context.Background()); err != nil {
		t.Fatalf("restart Start() = %v", err)
	}
	if err := bell.Stop(); err != nil {
		t.Fatalf("restart Stop() = %v", err)
	}
}

func TestMultbell_BindFailure(t *testing.T) {
	cfg := loopbackConfig()
	cfg.BindAddr = "192.0.2.1" // TEST-NET-1, never local
	logger := &testLogger{}

	bell, err := multbell.New(cfg, multbell.WithPlayer(&countingPlayer{}), multbell.WithLogger(logger))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	if err := bell.Start(context.Background()); err == nil {
		bell.Stop()
		t.Fatal("Start() bound a non-local address")
	}
	if bell.Status() != multbell.StateCrashed {
		t.Errorf("Status() = %v, want Crashed", bell.Status())
	}
	if !logger.contains("socket bind failed") {
		t.Error("bind failure was not logged")
	}
}

func TestMultbell_ContextCancelClosesSocket(t *testing.T) {
	bell, err := multbell.New(loopbackConfig(), multbell.WithPlayer(&countingPlayer{}))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := bell.Start(ctx); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	cancel()

	done := make(chan error, 1)
	go func() { done <- bell.Stop() }()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Stop() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Stop() did not return after cancel")
	}
}

func TestMultbell_Plugins(t *testing.T) {
	var order []string
	var mu sync.Mutex
	a := &trackingPlugin{name: "a", order: &order, mu: &mu}
	b := &trackingPlugin{name: "b", order: &order, mu: &mu}

	cfg := loopbackConfig()
	cfg.Sound = multbell.SoundTone
	bell, err := multbell.New(cfg,
		multbell.WithPlayer(&countingPlayer{}),
		multbell.WithPlugin(a),
		multbell.WithPlugin(b),
	)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	if err := bell.Start(context.Background()); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	if err := bell.Stop(); err != nil {
		t.Fatalf("Stop() = %v", err)
	}

	want := []string{"init:a", "init:b", "shutdown:b", "shutdown:a"}
	mu.Lock()
	defer mu.Unlock()
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", order, want)
	}
	if a.cfg.Sound != multbell.SoundTone || a.cfg.WAVFile != "./handbell.wav" || a.cfg.Logger == nil {
		t.Errorf("plugin config = %+v", a.cfg)
	}
}

func TestMultbell_PluginInitFailure(t *testing.T) {
	var order []string
	var mu sync.Mutex
	good := &trackingPlugin{name: "good", order: &order, mu: &mu}
	bad := &trackingPlugin{name: "bad", order: &order, mu: &mu, initError: errors.New("boom")}

	bell, err := multbell.New(loopbackConfig(),
		multbell.WithPlayer(&countingPlayer{}),
		multbell.WithPlugin(good),
		multbell.WithPlugin(bad),
	)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	if err := bell.Start(context.Background()); err == nil {
		t.Fatal("Start() succeeded with a failing plugin")
	}
	if bell.Status() != multbell.StateCrashed {
		t.Errorf("Status() = %v, want Crashed", bell.Status())
	}
	mu.Lock()
	defer mu.Unlock()
	if strings.Join(order, ",") != "init:good,shutdown:good" {
		t.Errorf("order = %v, want good initialized then shut down", order)
	}
}

func TestMultbell_EventHandler(t *testing.T) {
	handler := &recordingHandler{}
	reports := make(chan multbell.Report, 1)

	bell, err := multbell.New(loopbackConfig(),
		multbell.WithPlayer(&countingPlayer{}),
		multbell.WithOutput(&bytes.Buffer{}),
		multbell.WithEventHandler(handler),
		multbell.WithReportHandler(func(r multbell.Report) { reports <- r }),
	)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	if err := bell.Start(context.Background()); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	send(t, bell.Addr(), newMultPacket)
	waitReport(t, reports)
	waitStatus(t, bell, multbell.StateIdle)
	if err := bell.Stop(); err != nil {
		t.Fatalf("Stop() = %v", err)
	}

	got := handler.states()
	want := []multbell.State{
		multbell.StateStarting, multbell.StateIdle,
		multbell.StateProcessing, multbell.StateIdle,
		multbell.StateStopping, multbell.StateStopped,
	}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("states = %v, want %v", got, want)
	}
}

type sliceSource struct {
	mu       sync.Mutex
	payloads []string
	closed   chan struct{}
	once     sync.Once
}

func newSliceSource(payloads ...string) *sliceSource {
	return &sliceSource{payloads: payloads, closed: make(chan struct{})}
}

func (s *sliceSource) Receive(ctx context.Context, buf []byte) (multbell.Datagram, error) {
	s.mu.Lock()
	if len(s.payloads) > 0 {
		p := s.payloads[0]
		s.payloads = s.payloads[1:]
		s.mu.Unlock()
		n := copy(buf, p)
		return multbell.Datagram{
			Payload:    buf[:n],
			From:       &net.UDPAddr{IP: net.IPv4(10, 1, 2, 3), Port: 5000},
			ReceivedAt: time.Now(),
		}, nil
	}
	s.mu.Unlock()
	<-s.closed
	return multbell.Datagram{}, multbell.ErrSourceClosed
}

func (s *sliceSource) LocalAddr() net.Addr { return nil }

func (s *sliceSource) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

func TestMultbell_WithSource(t *testing.T) {
	reports := make(chan multbell.Report, 2)
	src := newSliceSource(dupePacket, newMultPacket)

	bell, err := multbell.New(multbell.DefaultConfig(),
		multbell.WithSource(src),
		multbell.WithPlayer(&countingPlayer{}),
		multbell.WithOutput(&bytes.Buffer{}),
		multbell.WithReportHandler(func(r multbell.Report) { reports <- r }),
	)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	if err := bell.Start(context.Background()); err != nil {
		t.Fatalf("Start() = %v", err)
	}

	first := waitReport(t, reports)
	second := waitReport(t, reports)
	if first.Triggered || !second.Triggered {
		t.Errorf("triggered = %v, %v; want false, true", first.Triggered, second.Triggered)
	}
	if second.SenderIP() != "10.1.2.3" {
		t.Errorf("SenderIP() = %q", second.SenderIP())
	}
	if err := bell.Stop(); err != nil {
		t.Fatalf("Stop() = %v", err)
	}
}

type flakySource struct {
	*sliceSource
	failed atomic.Bool
}

func (s *flakySource) Receive(ctx context.Context, buf []byte) (multbell.Datagram, error) {
	if s.failed.CompareAndSwap(false, true) {
		return multbell.Datagram{}, errors.New("recvfrom: no buffer space available")
	}
	return s.sliceSource.Receive(ctx, buf)
}

func TestMultbell_ReceiveErrorKeepsRunning(t *testing.T) {
	reports := make(chan multbell.Report, 1)
	logger := &testLogger{}
	src := &flakySource{sliceSource: newSliceSource(newMultPacket)}

	bell, err := multbell.New(multbell.DefaultConfig(),
		multbell.WithSource(src),
		multbell.WithLogger(logger),
		multbell.WithPlayer(&countingPlayer{}),
		multbell.WithOutput(&bytes.Buffer{}),
		multbell.WithReportHandler(func(r multbell.Report) { reports <- r }),
	)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	if err := bell.Start(context.Background()); err != nil {
		t.Fatalf("Start() = %v", err)
	}

	if r := waitReport(t, reports); !r.Triggered {
		t.Error("report after a receive error was not triggered")
	}
	waitStatus(t, bell, multbell.StateIdle)
	if !logger.contains("receive failed") {
		t.Error("receive error was not logged")
	}
	if err := bell.Stop(); err != nil {
		t.Fatalf("Stop() = %v", err)
	}
	if bell.Status() != multbell.StateStopped {
		t.Errorf("Status() = %v, want Stopped", bell.Status())
	}
}

type ctxPlugin struct {
	ctx context.Context
}

func (p *ctxPlugin) Name() string { return "ctx" }

func (p *ctxPlugin) Initialize(ctx context.Context, cfg multbell.PluginConfig) error {
	p.ctx = ctx
	return nil
}

func (p *ctxPlugin) Shutdown(ctx context.Context) error { return nil }

func TestMultbell_StopCancelsRunContext(t *testing.T) {
	plugin := &ctxPlugin{}
	bell, err := multbell.New(multbell.DefaultConfig(),
		multbell.WithSource(newSliceSource()),
		multbell.WithPlugin(plugin),
		multbell.WithOutput(&bytes.Buffer{}),
	)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	if err := bell.Start(context.Background()); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	if plugin.ctx.Err() != nil {
		t.Fatal("run context canceled before Stop()")
	}
	if err := bell.Stop(); err != nil {
		t.Fatalf("Stop() = %v", err)
	}
	if plugin.ctx.Err() == nil {
		t.Error("run context still live after Stop()")
	}
}

type lockedWriter struct {
	mu *sync.Mutex
	w  *bytes.Buffer
}

func (l lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func TestMultbell_Player(t *testing.T) {
	injected := &countingPlayer{}
	bell, err := multbell.New(loopbackConfig(), multbell.WithPlayer(injected))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	if bell.Player() != multbell.AlertPlayer(injected) {
		t.Errorf("Player() did not return the injected player")
	}

	tests := []struct {
		sound multbell.Sound
		want  string
	}{
		{multbell.SoundFile, "file"},
		{multbell.SoundTone, "tone"},
	}
	for _, tt := range tests {
		t.Run(string(tt.sound), func(t *testing.T) {
			cfg := loopbackConfig()
			cfg.Sound = tt.sound
			bell, err := multbell.New(cfg)
			if err != nil {
				t.Fatalf("New() = %v", err)
			}
			if got := bell.Player().Name(); got != tt.want {
				t.Errorf("Player().Name() = %q, want %q", got, tt.want)
			}
		})
	}
}
