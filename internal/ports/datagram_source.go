package ports

import (
	"context"
	"net"

	"github.com/bft-labs/multbell/internal/domain"
)

// DatagramSource delivers datagrams one at a time.
type DatagramSource interface {
	// Receive blocks for the next datagram and copies its payload into buf.
	// The returned Datagram's Payload aliases buf.
	// Returns domain.ErrSourceClosed once the source is closed or exhausted;
	// any other error is transient and the caller may keep receiving.
	Receive(ctx context.Context, buf []byte) (domain.Datagram, error)

	// LocalAddr is the address datagrams are received on, if any.
	LocalAddr() net.Addr

	// Close releases the source and unblocks a pending Receive.
	Close() error
}
