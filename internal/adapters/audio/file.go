package audio

import (
	"context"
	"fmt"
	"os/exec"
	"sync"

	"github.com/bft-labs/multbell/internal/ports"
)

// FilePlayer launches the external player on a WAV file and returns
// without waiting. The child is reaped in the background.
type FilePlayer struct {
	command string
	path    string
	logger  ports.Logger
	wg      sync.WaitGroup
}

// NewFilePlayer creates a player running `command -q path`.
func NewFilePlayer(command, path string, logger ports.Logger) *FilePlayer {
	return &FilePlayer{command: command, path: path, logger: logger}
}

// Play starts the player. Only a launch failure is reported; the exit
// status is logged once the player finishes.
func (p *FilePlayer) Play(ctx context.Context) error {
	// Not tied to ctx: a started cue always plays out.
	cmd := exec.Command(p.command, "-q", p.path)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", p.command, err)
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := cmd.Wait(); err != nil {
			p.logger.Warn("file playback exited with error",
				ports.String("player", p.command),
				ports.String("file", p.path),
				ports.Err(err),
			)
		}
	}()
	return nil
}

// Wait blocks until every launched player has exited.
func (p *FilePlayer) Wait() {
	p.wg.Wait()
}

// Name implements ports.AlertPlayer.
func (p *FilePlayer) Name() string { return string(SoundFile) }

var _ ports.AlertPlayer = (*FilePlayer)(nil)
