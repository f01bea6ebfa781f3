package cliconfig

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/multbell/internal/domain"
	"github.com/bft-labs/multbell/pkg/multbell"
)

// Config holds CLI configuration for multbell.
type Config struct {
	BindAddr string
	Port     int

	Sound   string
	WAVFile string
	Player  string
	Device  string

	ToneFreq     float64
	ToneDuration time.Duration
	ToneVolume   float64
	SampleRate   int
	Fade         time.Duration

	FieldLimits map[string]int

	LogLevel string
	Mute     bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	lib := multbell.DefaultConfig()
	return Config{
		BindAddr:     lib.BindAddr,
		Port:         lib.Port,
		Sound:        string(lib.Sound),
		WAVFile:      lib.WAVFile,
		Player:       lib.Player,
		Device:       lib.Device,
		ToneFreq:     lib.Tone.Frequency,
		ToneDuration: lib.Tone.Duration,
		ToneVolume:   lib.Tone.Volume,
		SampleRate:   lib.Tone.SampleRate,
		Fade:         lib.Tone.Fade,
		LogLevel:     "info",
	}
}

// Validate checks the configuration for errors and normalizes the sound
// and log level names.
func (c *Config) Validate() error {
	c.Sound = strings.ToLower(strings.TrimSpace(c.Sound))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", domain.ErrInvalidConfig, c.LogLevel)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range 1-65535", domain.ErrInvalidConfig, c.Port)
	}
	return c.Library().Validate()
}

// Library converts the CLI configuration to the embeddable one.
func (c Config) Library() multbell.Config {
	return multbell.Config{
		BindAddr: c.BindAddr,
		Port:     c.Port,
		Sound:    multbell.Sound(c.Sound),
		Player:   c.Player,
		WAVFile:  c.WAVFile,
		Device:   c.Device,
		Tone: multbell.ToneParams{
			SampleRate: c.SampleRate,
			Frequency:  c.ToneFreq,
			Duration:   c.ToneDuration,
			Volume:     c.ToneVolume,
			Fade:       c.Fade,
		},
		FieldLimits: c.FieldLimits,
		Mute:        c.Mute,
	}
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setFloat sets a float64 value if positive and flag not changed.
func (s *configSetter) setFloat(flag string, value float64, dst *float64) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setFloatPtr sets a float64 value from a pointer if not nil and flag not
// changed. Zero is kept.
func (s *configSetter) setFloatPtr(flag string, value *float64, dst *float64) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int for environment variables.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setFloatFromString parses a string to float64 for environment variables.
func (s *configSetter) setFloatFromString(flag, value string, dst *float64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if f <= 0 {
		return nil
	}
	*dst = f
	return nil
}

// setLevelFromString parses a level such as a volume. Unlike
// setFloatFromString it keeps 0; range checks are left to Validate.
func (s *configSetter) setLevelFromString(flag, value string, dst *float64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = f
	return nil
}

// setBoolFromString accepts "true" and "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}

// mergeLimits overlays src onto dst. Field limits have no flag, so the
// changed map is not consulted.
func mergeLimits(dst *map[string]int, src map[string]int) {
	if len(src) == 0 {
		return
	}
	if *dst == nil {
		*dst = make(map[string]int, len(src))
	}
	for k, v := range src {
		(*dst)[strings.ToLower(k)] = v
	}
}

// parseLimits reads "call=20,band=4" lists.
func parseLimits(s string) (map[string]int, error) {
	out := map[string]int{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, val, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("field limit %q: want name=bytes", part)
		}
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return nil, fmt.Errorf("field limit %q: %w", part, err)
		}
		out[strings.ToLower(strings.TrimSpace(name))] = n
	}
	return out, nil
}

// FormatLimits renders limits in parseLimits syntax, sorted by name.
func FormatLimits(limits map[string]int) string {
	names := make([]string, 0, len(limits))
	for k := range limits {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, k := range names {
		parts[i] = k + "=" + strconv.Itoa(limits[k])
	}
	return strings.Join(parts, ",")
}
