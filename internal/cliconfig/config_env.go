package cliconfig

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable the CLI reads.
const EnvPrefix = "MULTBELL_"

// DefaultEnvFile is loaded from the working directory when present.
const DefaultEnvFile = ".env"

// LoadDotEnv loads path into the process environment. Variables that are
// already set win over the file. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" || !FileExists(path) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnvConfig applies configuration from environment variables (MULTBELL_*).
// These override file config but are overridden by flags (checked via changed map).
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("bind", env("BIND_ADDR"), &cfg.BindAddr)
	s.setString("sound", env("SOUND"), &cfg.Sound)
	s.setString("wav-file", env("WAV_FILE"), &cfg.WAVFile)
	s.setString("player", env("PLAYER"), &cfg.Player)
	s.setString("device", env("DEVICE"), &cfg.Device)
	s.setString("log-level", env("LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("port", env("PORT"), &cfg.Port); err != nil {
		return err
	}
	if err := s.setIntFromString("sample-rate", env("SAMPLE_RATE"), &cfg.SampleRate); err != nil {
		return err
	}
	if err := s.setFloatFromString("tone-freq", env("TONE_FREQ_HZ"), &cfg.ToneFreq); err != nil {
		return err
	}
	if err := s.setLevelFromString("tone-volume", env("TONE_VOLUME"), &cfg.ToneVolume); err != nil {
		return err
	}
	if err := s.setDuration("tone-duration", env("TONE_DURATION"), &cfg.ToneDuration); err != nil {
		return err
	}
	if err := s.setDuration("fade", env("FADE_DURATION"), &cfg.Fade); err != nil {
		return err
	}

	s.setBoolFromString("mute", env("MUTE"), &cfg.Mute)

	if v := env("FIELD_LIMITS"); v != "" {
		limits, err := parseLimits(v)
		if err != nil {
			return fmt.Errorf("parse %sFIELD_LIMITS: %w", EnvPrefix, err)
		}
		mergeLimits(&cfg.FieldLimits, limits)
	}
	return nil
}

func env(key string) string {
	return os.Getenv(EnvPrefix + key)
}
