// Package udp provides the UDP socket datagram source.
package udp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/bft-labs/multbell/internal/domain"
	"github.com/bft-labs/multbell/internal/ports"
)

// Socket is a bound UDP socket. It is owned by a single listener loop.
type Socket struct {
	conn   net.PacketConn
	closed atomic.Bool
	now    func() time.Time
}

// Listen binds addr ("host:port") with SO_REUSEADDR where supported.
func Listen(ctx context.Context, addr string) (*Socket, error) {
	lc := net.ListenConfig{Control: reuseAddr}
	conn, err := lc.ListenPacket(ctx, "udp", addr)
	if err != nil {
		return nil, fmt.Errorf("bind udp %s: %w", addr, err)
	}
	return &Socket{conn: conn, now: time.Now}, nil
}

// Receive blocks for the next datagram. Payloads larger than buf are
// truncated by the kernel.
func (s *Socket) Receive(ctx context.Context, buf []byte) (domain.Datagram, error) {
	n, from, err := s.conn.ReadFrom(buf)
	if err != nil {
		if s.closed.Load() || errors.Is(err, net.ErrClosed) {
			return domain.Datagram{}, domain.ErrSourceClosed
		}
		return domain.Datagram{}, fmt.Errorf("recvfrom: %w", err)
	}
	return domain.Datagram{
		Payload:    buf[:n],
		From:       from,
		ReceivedAt: s.now(),
	}, nil
}

// LocalAddr returns the bound address.
func (s *Socket) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}

// Close closes the socket, unblocking a pending Receive. Safe to call twice.
func (s *Socket) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.conn.Close()
}

var _ ports.DatagramSource = (*Socket)(nil)
