package main

import (
	"github.com/bft-labs/multbell/internal/adapters/audio"
	"github.com/bft-labs/multbell/pkg/multbell"
)

func describeSound(cfg multbell.Config) string {
	return cfg.Sound.Describe(audio.Config{
		Sound:   cfg.Sound,
		Command: cfg.Player,
		WAVFile: cfg.WAVFile,
		Device:  cfg.Device,
		Tone:    cfg.Tone,
	})
}
