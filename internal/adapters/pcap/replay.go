// Package pcap replays UDP datagrams from a packet capture file.
package pcap

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"sync/atomic"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/bft-labs/multbell/internal/domain"
	"github.com/bft-labs/multbell/internal/ports"
)

var ngMagic = []byte{0x0a, 0x0d, 0x0d, 0x0a}

type packetReader interface {
	ReadPacketData() ([]byte, gopacket.CaptureInfo, error)
	LinkType() layers.LinkType
}

// Replay is a DatagramSource over a pcap or pcapng file. It yields the
// payload of every UDP packet addressed to the configured port, in capture
// order, stamped with the capture time.
type Replay struct {
	f        *os.File
	r        packetReader
	linkType layers.LinkType
	port     int
	done     bool // only touched by Receive
	closed   atomic.Bool

	mu  sync.Mutex
	err error
}

// Open opens path and detects pcap vs pcapng. port 0 accepts every UDP
// packet.
func Open(path string, port int) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(f)

	magic, err := br.Peek(4)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read capture header: %w", err)
	}

	var r packetReader
	if bytes.Equal(magic, ngMagic) {
		r, err = pcapgo.NewNgReader(br, pcapgo.DefaultNgReaderOptions)
	} else {
		r, err = pcapgo.NewReader(br)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open capture %s: %w", path, err)
	}
	return &Replay{f: f, r: r, linkType: r.LinkType(), port: port}, nil
}

// Receive returns the next matching datagram. At the end of the capture,
// or on a read error, it returns domain.ErrSourceClosed; the read error, if
// any, is available from Err.
func (s *Replay) Receive(ctx context.Context, buf []byte) (domain.Datagram, error) {
	for {
		if err := ctx.Err(); err != nil {
			return domain.Datagram{}, err
		}
		if s.done || s.closed.Load() {
			return domain.Datagram{}, domain.ErrSourceClosed
		}

		data, ci, err := s.r.ReadPacketData()
		if err != nil {
			s.done = true
			if !errors.Is(err, io.EOF) && !s.closed.Load() {
				s.mu.Lock()
				s.err = err
				s.mu.Unlock()
			}
			return domain.Datagram{}, domain.ErrSourceClosed
		}

		d, ok := s.decode(data, ci, buf)
		if ok {
			return d, nil
		}
	}
}

func (s *Replay) decode(data []byte, ci gopacket.CaptureInfo, buf []byte) (domain.Datagram, bool) {
	pkt := gopacket.NewPacket(data, s.linkType, gopacket.DecodeOptions{Lazy: true, NoCopy: true})

	udp, ok := pkt.Layer(layers.LayerTypeUDP).(*layers.UDP)
	if !ok {
		return domain.Datagram{}, false
	}
	if s.port != 0 && int(udp.DstPort) != s.port {
		return domain.Datagram{}, false
	}

	var src net.IP
	switch ip := pkt.NetworkLayer().(type) {
	case *layers.IPv4:
		src = ip.SrcIP
	case *layers.IPv6:
		src = ip.SrcIP
	}

	n := copy(buf, udp.Payload)
	return domain.Datagram{
		Payload:    buf[:n],
		From:       &net.UDPAddr{IP: src, Port: int(udp.SrcPort)},
		ReceivedAt: ci.Timestamp,
	}, true
}

// Err returns the read error that ended the replay early, if any.
func (s *Replay) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// LocalAddr has no meaning for a capture file.
func (s *Replay) LocalAddr() net.Addr {
	return nil
}

// Close closes the capture file. Safe to call twice.
func (s *Replay) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.f.Close()
}

var _ ports.DatagramSource = (*Replay)(nil)
