package multbell

import (
	"fmt"
	"net"
	"strconv"

	"github.com/bft-labs/multbell/internal/adapters/audio"
	"github.com/bft-labs/multbell/internal/domain"
	"github.com/bft-labs/multbell/pkg/tone"
)

// DefaultPort is the UDP port DXLog broadcasts contactinfo packets on.
const DefaultPort = 12060

// DefaultWAVFile is the cue played by the file strategy.
const DefaultWAVFile = "./handbell.wav"

// Sound selects the playback strategy.
type Sound = audio.Sound

const (
	SoundFile   = audio.SoundFile
	SoundTone   = audio.SoundTone
	SoundDevice = audio.SoundDevice
)

// Config holds the listener configuration. Zero fields are filled in by
// SetDefaults.
type Config struct {
	// BindAddr is the local address to bind. Empty binds all interfaces.
	BindAddr string

	// Port is the UDP port. 0 picks a free port (see Multbell.Addr).
	Port int

	// Sound selects file, tone or device playback.
	Sound Sound

	// Player is the external player for the file and tone strategies.
	// Default: aplay
	Player string

	// WAVFile is the cue for the file strategy.
	WAVFile string

	// Device names the output for the device strategy.
	// Default: "default"
	Device string

	// Tone parameterizes the synthesized cue.
	Tone tone.Params

	// FieldLimits overrides per-field truncation limits, keyed by tag name.
	FieldLimits map[string]int

	// Mute prints reports without ever playing the cue.
	Mute bool
}

// DefaultConfig returns the stock configuration: port 12060, WAV file
// playback through aplay.
func DefaultConfig() Config {
	cfg := Config{Port: DefaultPort}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills in zero-valued fields. Port is left alone since 0 is
// meaningful. A zero Tone gets the stock cue; otherwise only its zero
// rate, frequency, duration and fade are filled in.
func (c *Config) SetDefaults() {
	if c.Sound == "" {
		c.Sound = SoundFile
	}
	if c.Player == "" {
		c.Player = audio.DefaultPlayerCommand
	}
	if c.WAVFile == "" {
		c.WAVFile = DefaultWAVFile
	}
	if c.Device == "" {
		c.Device = audio.DefaultDevice
	}
	def := tone.DefaultParams()
	if c.Tone == (tone.Params{}) {
		c.Tone = def
		return
	}
	// Volume is left alone: 0 is a valid (silent) level.
	if c.Tone.SampleRate == 0 {
		c.Tone.SampleRate = def.SampleRate
	}
	if c.Tone.Frequency == 0 {
		c.Tone.Frequency = def.Frequency
	}
	if c.Tone.Duration == 0 {
		c.Tone.Duration = def.Duration
	}
	if c.Tone.Fade == 0 {
		c.Tone.Fade = def.Fade
	}
}

// Validate checks the configuration. Errors wrap domain.ErrInvalidConfig
// or domain.ErrUnknownSound.
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", domain.ErrInvalidConfig, c.Port)
	}
	if c.BindAddr != "" && net.ParseIP(c.BindAddr) == nil {
		return fmt.Errorf("%w: bind address %q is not an IP address", domain.ErrInvalidConfig, c.BindAddr)
	}
	if _, err := audio.ParseSound(string(c.Sound)); err != nil {
		return err
	}
	if err := c.Tone.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	if _, err := c.limits(); err != nil {
		return err
	}
	return nil
}

// ListenAddr returns the host:port the socket binds.
func (c Config) ListenAddr() string {
	return net.JoinHostPort(c.BindAddr, strconv.Itoa(c.Port))
}

func (c Config) limits() (domain.FieldLimits, error) {
	overrides := make(map[domain.FieldName]int, len(c.FieldLimits))
	for name, n := range c.FieldLimits {
		f, err := domain.ParseFieldName(name)
		if err != nil {
			return domain.FieldLimits{}, fmt.Errorf("%w: field_limits: %v", domain.ErrInvalidConfig, err)
		}
		if n <= 0 {
			return domain.FieldLimits{}, fmt.Errorf("%w: field_limits.%s must be positive", domain.ErrInvalidConfig, name)
		}
		overrides[f] = n
	}
	return domain.DefaultFieldLimits().With(overrides), nil
}

func (c Config) audioConfig() audio.Config {
	sound, _ := audio.ParseSound(string(c.Sound))
	return audio.Config{
		Sound:   sound,
		Command: c.Player,
		WAVFile: c.WAVFile,
		Device:  c.Device,
		Tone:    c.Tone,
	}
}
