// Package multbell provides an embeddable DXLog multiplier alert.
//
// Multbell listens on a UDP port for DXLog contactinfo broadcasts, prints
// one line per packet, and plays a cue when the logged contact is a new QSO
// that carries a multiplier (mult1, mult2 or mult3 non-empty and newqso
// true). It can be run with the multbell command or embedded in another Go
// program.
//
// # Basic Usage
//
//	cfg := multbell.DefaultConfig()
//	cfg.Sound = multbell.SoundTone
//
//	bell, err := multbell.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := bell.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	// ... run until shutdown signal ...
//
//	if err := bell.Stop(); err != nil {
//	    log.Printf("shutdown error: %v", err)
//	}
//
// # Reports
//
// Every contactinfo packet produces a [Report]. Reports are printed to
// stdout (see [WithOutput]) and handed to any [WithReportHandler] callbacks
// before the cue plays.
//
// # Dependency Injection
//
// The socket and player can be replaced for tests or other transports:
//
//	bell, err := multbell.New(cfg,
//	    multbell.WithSource(mySource),
//	    multbell.WithPlayer(myPlayer),
//	    multbell.WithLogger(myLogger),
//	)
//
// # Lifecycle States
//
// An instance moves through [StateStopped], [StateStarting], then
// alternates between [StateIdle] and [StateProcessing] while running, and
// ends in [StateStopping] and [StateStopped]. A failed Start leaves it in
// [StateCrashed]. Use [Multbell.Status] to query the state.
//
// # Plugins
//
// Plugins run alongside the listener:
//
//	import "github.com/bft-labs/multbell/plugins/cuewatch"
//
//	bell, err := multbell.New(cfg, cuewatch.WithDefaultCueWatch())
package multbell
