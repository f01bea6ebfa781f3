package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bft-labs/multbell/internal/adapters/console"
	"github.com/bft-labs/multbell/internal/adapters/pcap"
	"github.com/bft-labs/multbell/pkg/multbell"
)

func newReplayCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "replay <capture.pcap>",
		Short: "Run the UDP packets in a capture through the listener",
		Long: "Read a pcap or pcapng capture and feed every UDP datagram sent to " +
			"the configured port through the listener, as if it had just arrived. " +
			"Use --mute to check the reports without sound.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd); err != nil {
				return err
			}
			return c.replay(args[0])
		},
	}
}

func (c *cli) replay(path string) error {
	capture, err := pcap.Open(path, c.cfg.Port)
	if err != nil {
		return err
	}
	src := newDrainSource(capture)

	bell, err := multbell.New(c.cfg.Library(),
		multbell.WithLogger(c.logger()),
		multbell.WithSource(src),
	)
	if err != nil {
		_ = capture.Close()
		return fmt.Errorf("create listener: %w", err)
	}

	if err := console.WriteBanner(os.Stdout, c.banner(c.cfg.Port)); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := bell.Start(ctx); err != nil {
		return fmt.Errorf("start replay: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Replaying %s …\n\n", path)

	select {
	case <-src.drained:
	case <-ctx.Done():
		c.log.Info().Msg("received signal, stopping...")
	}

	if err := bell.Stop(); err != nil {
		return fmt.Errorf("stop replay: %w", err)
	}
	if err := capture.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

// drainSource signals when the wrapped source runs out of datagrams.
type drainSource struct {
	multbell.DatagramSource
	drained chan struct{}
	once    sync.Once
}

func newDrainSource(src multbell.DatagramSource) *drainSource {
	return &drainSource{DatagramSource: src, drained: make(chan struct{})}
}

func (s *drainSource) Receive(ctx context.Context, buf []byte) (multbell.Datagram, error) {
	d, err := s.DatagramSource.Receive(ctx, buf)
	if errors.Is(err, multbell.ErrSourceClosed) {
		s.once.Do(func() { close(s.drained) })
	}
	return d, err
}
