package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bft-labs/multbell/pkg/multbell"
)

func newPlayCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play the configured cue once and exit",
		Long: "Play the configured cue once, the same way a multiplier would, " +
			"to check the audio setup before the contest starts.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd); err != nil {
				return err
			}
			bell, err := multbell.New(c.cfg.Library(), multbell.WithLogger(c.logger()))
			if err != nil {
				return fmt.Errorf("create player: %w", err)
			}
			cfg := bell.Config()
			player := bell.Player()
			fmt.Fprintf(os.Stdout, "Playing %s\n", describeSound(cfg))

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := player.Play(ctx); err != nil {
				return fmt.Errorf("play: %w", err)
			}
			// The file strategy returns as soon as the player starts.
			if w, ok := player.(interface{ Wait() }); ok {
				w.Wait()
			}
			return nil
		},
	}
}
