package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileConfig mirrors Config but uses strings for durations to keep the
// file format friendly. The same keys work in TOML and YAML.
type FileConfig struct {
	BindAddr     string         `toml:"bind_addr" yaml:"bind_addr"`
	Port         int            `toml:"port" yaml:"port"`
	Sound        string         `toml:"sound" yaml:"sound"`
	WAVFile      string         `toml:"wav_file" yaml:"wav_file"`
	Player       string         `toml:"player" yaml:"player"`
	Device       string         `toml:"device" yaml:"device"`
	ToneFreq     float64        `toml:"tone_freq_hz" yaml:"tone_freq_hz"`
	ToneDuration string         `toml:"tone_duration" yaml:"tone_duration"`
	ToneVolume   *float64       `toml:"tone_volume" yaml:"tone_volume"`
	SampleRate   int            `toml:"sample_rate" yaml:"sample_rate"`
	Fade         string         `toml:"fade_duration" yaml:"fade_duration"`
	LogLevel     string         `toml:"log_level" yaml:"log_level"`
	Mute         *bool          `toml:"mute" yaml:"mute"`
	FieldLimits  map[string]int `toml:"field_limits" yaml:"field_limits"`
}

// LoadFileConfig reads and parses a config file. Files ending in .yaml or
// .yml are read as YAML, anything else as TOML.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := toml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.multbell/config.toml, or "" if the home
// directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".multbell", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("bind", fc.BindAddr, &cfg.BindAddr)
	s.setString("sound", fc.Sound, &cfg.Sound)
	s.setString("wav-file", fc.WAVFile, &cfg.WAVFile)
	s.setString("player", fc.Player, &cfg.Player)
	s.setString("device", fc.Device, &cfg.Device)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setInt("port", fc.Port, &cfg.Port)
	s.setInt("sample-rate", fc.SampleRate, &cfg.SampleRate)

	s.setFloat("tone-freq", fc.ToneFreq, &cfg.ToneFreq)
	s.setFloatPtr("tone-volume", fc.ToneVolume, &cfg.ToneVolume)

	if err := s.setDuration("tone-duration", fc.ToneDuration, &cfg.ToneDuration); err != nil {
		return err
	}
	if err := s.setDuration("fade", fc.Fade, &cfg.Fade); err != nil {
		return err
	}

	s.setBool("mute", fc.Mute, &cfg.Mute)
	mergeLimits(&cfg.FieldLimits, fc.FieldLimits)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
