package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/bft-labs/multbell/internal/ports"
	"github.com/bft-labs/multbell/pkg/tone"
)

// PipePlayer streams the synthesized cue as raw S16_LE mono PCM to the
// external player's stdin and waits for it to exit.
type PipePlayer struct {
	command string
	params  tone.Params
	pcm     []byte
}

// NewPipePlayer renders the cue once up front; it never changes afterwards.
func NewPipePlayer(command string, params tone.Params) *PipePlayer {
	return &PipePlayer{
		command: command,
		params:  params,
		pcm:     tone.EncodeS16LE(tone.Generate(params)),
	}
}

// Args returns the player arguments for raw PCM input.
func (p *PipePlayer) Args() []string {
	return []string{
		"-q",
		"-t", "raw",
		"-f", "S16_LE",
		"-r", strconv.Itoa(p.params.SampleRate),
		"-c", "1",
	}
}

// Play blocks until the player has consumed the cue and exited.
func (p *PipePlayer) Play(ctx context.Context) error {
	cmd := exec.Command(p.command, p.Args()...)
	cmd.Stdin = bytes.NewReader(p.pcm)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", p.command, err)
	}
	return nil
}

// Name implements ports.AlertPlayer.
func (p *PipePlayer) Name() string { return string(SoundTone) }

var _ ports.AlertPlayer = (*PipePlayer)(nil)
