package cuewatch

import "github.com/bft-labs/multbell/pkg/multbell"

// WithCueWatch returns a multbell Option that registers the cue watcher.
//
// Usage:
//
//	bell, err := multbell.New(cfg,
//	    cuewatch.WithCueWatch(cuewatch.Config{DebounceDelay: time.Second}),
//	)
func WithCueWatch(cfg Config) multbell.Option {
	return multbell.WithPlugin(New(cfg))
}

// WithDefaultCueWatch registers the cue watcher with default settings.
func WithDefaultCueWatch() multbell.Option {
	return WithCueWatch(DefaultConfig())
}
