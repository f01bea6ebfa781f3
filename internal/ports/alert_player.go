package ports

import "context"

// AlertPlayer plays the alert cue. Implementations are best-effort: a
// returned error is logged by the caller and never stops the listener.
type AlertPlayer interface {
	// Play starts or performs playback. Blocking strategies return after
	// the cue has finished; fire-and-forget strategies return once the
	// player has been launched.
	Play(ctx context.Context) error

	// Name identifies the strategy in logs, e.g. "tone".
	Name() string
}
