// Package cuewatch warns when the WAV file used by the file playback
// strategy disappears, so the operator finds out before a multiplier goes
// by silently. The cue itself is never reloaded or changed.
package cuewatch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/multbell/pkg/log"
	"github.com/bft-labs/multbell/pkg/multbell"
)

// Plugin watches the cue file's directory.
type Plugin struct {
	mu sync.Mutex

	debounceDelay time.Duration

	path     string
	present  bool
	logger   multbell.Logger
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
}

// Config holds configuration options for the cue watcher.
type Config struct {
	// DebounceDelay is how long to wait after the last event before
	// checking the file. Editors and copies often produce bursts.
	// Default: 200 milliseconds
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{DebounceDelay: 200 * time.Millisecond}
}

// New creates a cue watcher.
func New(cfg Config) *Plugin {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 200 * time.Millisecond
	}
	return &Plugin{debounceDelay: cfg.DebounceDelay}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "cuewatch"
}

// Initialize starts watching when the file strategy is in use. Other
// strategies, and muted listeners, make it a no-op.
func (p *Plugin) Initialize(ctx context.Context, cfg multbell.PluginConfig) error {
	p.mu.Lock()
	p.logger = cfg.Logger
	if p.logger == nil {
		p.logger = log.NewNoopLogger()
	}
	p.mu.Unlock()

	if cfg.Sound != multbell.SoundFile || cfg.Mute || cfg.WAVFile == "" {
		p.logger.Debug("cue watcher idle", log.String("sound", string(cfg.Sound)), log.Bool("mute", cfg.Mute))
		return nil
	}

	path, err := filepath.Abs(cfg.WAVFile)
	if err != nil {
		path = filepath.Clean(cfg.WAVFile)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		p.logger.Warn("cue watcher: failed to create watcher", log.Err(err))
		return nil
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		p.logger.Warn("cue watcher: failed to watch directory",
			log.String("dir", filepath.Dir(path)), log.Err(err))
		return nil
	}

	p.mu.Lock()
	p.path = path
	p.present = exists(path)
	p.mu.Unlock()

	if !p.present {
		p.logger.Warn("alert cue file not found", log.String("path", path))
	}

	watchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.watchLoop(watchCtx, watcher)

	p.logger.Info("cue watcher started", log.String("path", path))
	return nil
}

// Shutdown stops the watcher.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()

	p.mu.Lock()
	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.mu.Unlock()
	return nil
}

// Present reports whether the cue file existed at the last check.
func (p *Plugin) Present() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.present
}

func (p *Plugin) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer p.wg.Done()
	defer watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != p.path {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			p.debounceCheck()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("cue watcher error", log.Err(err))
		}
	}
}

func (p *Plugin) debounceCheck() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.debounce = time.AfterFunc(p.debounceDelay, p.check)
}

func (p *Plugin) check() {
	p.mu.Lock()
	was := p.present
	now := exists(p.path)
	p.present = now
	p.mu.Unlock()

	path := log.String("path", p.path)
	switch {
	case was && !now:
		p.logger.Warn("alert cue file missing; multipliers will be silent", path)
	case !was && now:
		p.logger.Info("alert cue file restored", path)
	case now:
		p.logger.Info("alert cue file updated", path)
	}
}

func exists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

var _ multbell.Plugin = (*Plugin)(nil)
