// Package audio implements the alert cue strategies: a WAV file handed to
// an external player, a synthesized tone streamed to an external player,
// and a synthesized tone written straight to the audio device.
package audio

import (
	"fmt"
	"strings"

	"github.com/bft-labs/multbell/internal/domain"
	"github.com/bft-labs/multbell/internal/ports"
	"github.com/bft-labs/multbell/pkg/tone"
)

// Sound selects the playback strategy.
type Sound string

const (
	SoundFile   Sound = "file"
	SoundTone   Sound = "tone"
	SoundDevice Sound = "device"
)

// DefaultPlayerCommand is the external player used by the file and tone
// strategies.
const DefaultPlayerCommand = "aplay"

// DefaultDevice selects the system's default output.
const DefaultDevice = "default"

// ParseSound accepts file, tone, or device in any case.
func ParseSound(s string) (Sound, error) {
	switch Sound(strings.ToLower(strings.TrimSpace(s))) {
	case SoundFile:
		return SoundFile, nil
	case SoundTone:
		return SoundTone, nil
	case SoundDevice:
		return SoundDevice, nil
	}
	return "", fmt.Errorf("%w: %q (want file, tone or device)", domain.ErrUnknownSound, s)
}

// Describe renders the strategy for the startup banner.
func (s Sound) Describe(cfg Config) string {
	switch s {
	case SoundFile:
		return fmt.Sprintf("WAV file via %s (%s)", cfg.command(), cfg.WAVFile)
	case SoundTone:
		return fmt.Sprintf("synthesised tone via %s (no file needed)", cfg.command())
	case SoundDevice:
		return fmt.Sprintf("synthesised tone via audio device %q", cfg.device())
	}
	return string(s)
}

// Config selects and parameterizes a strategy.
type Config struct {
	Sound   Sound
	Command string // external player; DefaultPlayerCommand when empty
	WAVFile string
	Device  string
	Tone    tone.Params
}

func (c Config) command() string {
	if c.Command == "" {
		return DefaultPlayerCommand
	}
	return c.Command
}

func (c Config) device() string {
	if c.Device == "" {
		return DefaultDevice
	}
	return c.Device
}

// New builds the player for cfg.Sound. Nothing is launched or opened yet.
func New(cfg Config, logger ports.Logger) (ports.AlertPlayer, error) {
	switch cfg.Sound {
	case SoundFile:
		if cfg.WAVFile == "" {
			return nil, fmt.Errorf("%w: wav file is required for sound=file", domain.ErrInvalidConfig)
		}
		return NewFilePlayer(cfg.command(), cfg.WAVFile, logger), nil
	case SoundTone:
		if err := cfg.Tone.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
		}
		return NewPipePlayer(cfg.command(), cfg.Tone), nil
	case SoundDevice:
		if err := cfg.Tone.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
		}
		p, err := NewDevicePlayer(cfg.device(), cfg.Tone)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSound, cfg.Sound)
}
