package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/multbell/internal/adapters/console"
	"github.com/bft-labs/multbell/internal/cliconfig"
	"github.com/bft-labs/multbell/pkg/log"
	"github.com/bft-labs/multbell/pkg/multbell"
	"github.com/bft-labs/multbell/plugins/cuewatch"
)

const helpDescription = `
Ring a bell when DXLog logs a new multiplier.

multbell listens for the <contactinfo> packets DXLog broadcasts after every
logged contact, prints a one-line summary of each, and plays a cue when
mult1, mult2 or mult3 is set and newqso is true.

Sound strategies:
  file    play a WAV file with an external player (default: aplay)
  tone    synthesize a short sine cue and pipe it to the external player
  device  synthesize the cue and play it on the audio device
          (builds with -tags audiodevice)

Configuration is read from $HOME/.multbell/config.toml (or --config),
then .env and MULTBELL_* environment variables, then flags.
`

var exampleUsage = strings.TrimSpace(`
  multbell
  multbell --sound tone --tone-freq 1000 --port 12060
  multbell play --sound tone
  multbell replay contest.pcapng --mute
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli carries the flag targets and the logger shared by every command.
type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	envPath string
	log     zerolog.Logger
}

func main() {
	c := &cli{
		cfg: cliconfig.DefaultConfig(),
		log: cliconfig.Logger("info"),
	}

	root := &cobra.Command{
		Use:           "multbell",
		Short:         "Ring a bell when DXLog logs a new multiplier",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd); err != nil {
				return err
			}
			return c.listen()
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&c.cfgPath, "config", "", "path to config file, .toml or .yaml (default: $HOME/.multbell/config.toml)")
	f.StringVar(&c.envPath, "env-file", cliconfig.DefaultEnvFile, "dotenv file with MULTBELL_* variables, loaded when present")
	f.StringVar(&c.cfg.BindAddr, "bind", c.cfg.BindAddr, "local address to bind (default: all interfaces)")
	f.IntVar(&c.cfg.Port, "port", c.cfg.Port, "UDP port DXLog broadcasts on")
	f.StringVar(&c.cfg.Sound, "sound", c.cfg.Sound, "alert strategy: file, tone or device")
	f.StringVar(&c.cfg.WAVFile, "wav-file", c.cfg.WAVFile, "WAV cue for --sound file")
	f.StringVar(&c.cfg.Player, "player", c.cfg.Player, "external player for the file and tone strategies")
	f.StringVar(&c.cfg.Device, "device", c.cfg.Device, "audio device for --sound device")
	f.Float64Var(&c.cfg.ToneFreq, "tone-freq", c.cfg.ToneFreq, "tone frequency in Hz")
	f.DurationVar(&c.cfg.ToneDuration, "tone-duration", c.cfg.ToneDuration, "tone length")
	f.Float64Var(&c.cfg.ToneVolume, "tone-volume", c.cfg.ToneVolume, "tone volume, 0 to 1")
	f.IntVar(&c.cfg.SampleRate, "sample-rate", c.cfg.SampleRate, "tone sample rate in Hz")
	f.DurationVar(&c.cfg.Fade, "fade", c.cfg.Fade, "tone fade-in and fade-out length")
	f.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "diagnostic log level: debug, info, warn, error")
	f.BoolVar(&c.cfg.Mute, "mute", c.cfg.Mute, "print reports but never play the cue")

	root.AddCommand(newPlayCommand(c), newReplayCommand(c))

	if err := root.Execute(); err != nil {
		c.log.Error().Err(err).Msg("multbell")
		os.Exit(1)
	}
}

// load layers the configuration: defaults < file < .env/environment < flags.
func (c *cli) load(cmd *cobra.Command) error {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
			return err
		}
	} else if c.cfgPath != "" {
		return fmt.Errorf("load config: %s does not exist", c.cfgPath)
	}

	if err := cliconfig.LoadDotEnv(c.envPath); err != nil {
		return err
	}
	if err := cliconfig.ApplyEnvConfig(&c.cfg, changed); err != nil {
		return err
	}

	if err := c.cfg.Validate(); err != nil {
		return err
	}

	c.log = cliconfig.Logger(c.cfg.LogLevel)
	c.log.Debug().
		Str("bind", c.cfg.BindAddr).
		Int("port", c.cfg.Port).
		Str("sound", c.cfg.Sound).
		Str("player", c.cfg.Player).
		Str("wav_file", c.cfg.WAVFile).
		Str("field_limits", cliconfig.FormatLimits(c.cfg.FieldLimits)).
		Bool("mute", c.cfg.Mute).
		Msg("configuration")
	return nil
}

func (c *cli) logger() multbell.Logger {
	return log.NewZerologAdapterWithLogger(c.log)
}

func (c *cli) banner(port int) console.Banner {
	lib := c.cfg.Library()
	lib.SetDefaults()
	sound := lib.Sound
	return console.Banner{
		Port:      port,
		Sound:     describeSound(lib),
		Mute:      c.cfg.Mute,
		ShowTone:  sound == multbell.SoundTone || sound == multbell.SoundDevice,
		ToneHz:    lib.Tone.Frequency,
		ToneDur:   lib.Tone.Duration,
		ToneLevel: lib.Tone.Volume,
	}
}

// listen runs the listener until SIGINT or SIGTERM.
func (c *cli) listen() error {
	bell, err := multbell.New(c.cfg.Library(),
		multbell.WithLogger(c.logger()),
		cuewatch.WithDefaultCueWatch(),
	)
	if err != nil {
		return fmt.Errorf("create listener: %w", err)
	}

	if err := console.WriteBanner(os.Stdout, c.banner(c.cfg.Port)); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := bell.Start(ctx); err != nil {
		return fmt.Errorf("start listener: %w", err)
	}
	_ = console.WriteListening(os.Stdout, bell.Addr().String())

	<-ctx.Done()
	c.log.Info().Msg("received signal, stopping...")

	if err := bell.Stop(); err != nil {
		return fmt.Errorf("stop listener: %w", err)
	}
	return nil
}
