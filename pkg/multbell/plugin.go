package multbell

import "context"

// Plugin extends a Multbell instance with work that lives as long as the
// listener. Plugins are initialized in registration order during Start and
// shut down in reverse order during Stop.
type Plugin interface {
	// Name identifies the plugin in logs.
	Name() string

	// Initialize starts the plugin. ctx is cancelled when the instance
	// stops. A returned error aborts Start.
	Initialize(ctx context.Context, cfg PluginConfig) error

	// Shutdown stops the plugin and waits for its goroutines.
	Shutdown(ctx context.Context) error
}

// PluginConfig is the subset of the configuration handed to plugins.
type PluginConfig struct {
	Sound   Sound
	WAVFile string
	Mute    bool
	Logger  Logger
}
