package domain

import (
	"net"
	"time"
)

// MaxDatagramSize bounds a single received payload.
const MaxDatagramSize = 65535

// Datagram is one received UDP payload. Payload may alias a receive buffer
// and is only valid for the duration of a single classification.
type Datagram struct {
	Payload    []byte
	From       net.Addr
	ReceivedAt time.Time
}
