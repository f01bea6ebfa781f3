package domain

import (
	"net"
	"strings"
	"time"
)

// Placeholder is rendered for absent or empty fields.
const Placeholder = "-"

// Report is the classification of a datagram that carried a contactinfo
// envelope.
type Report struct {
	From       net.Addr
	ReceivedAt time.Time
	Values     [numFields]FieldValue
	Triggered  bool
}

// Get returns the value recorded for f.
func (r Report) Get(f FieldName) FieldValue {
	if f < 0 || f >= numFields {
		return FieldValue{}
	}
	return r.Values[f]
}

// Display returns the field text, or Placeholder when absent or empty.
func (r Report) Display(f FieldName) string {
	v := r.Get(f)
	if v.Empty() {
		return Placeholder
	}
	return v.Value
}

// SenderIP returns the sender's IP without the port, or Placeholder.
func (r Report) SenderIP() string {
	switch a := r.From.(type) {
	case *net.UDPAddr:
		return a.IP.String()
	case nil:
		return Placeholder
	default:
		if host, _, err := net.SplitHostPort(a.String()); err == nil {
			return host
		}
		return a.String()
	}
}

// ShouldTrigger is the alert rule: at least one non-empty multiplier on a
// contact whose newqso flag is "true" (any case).
func ShouldTrigger(values [numFields]FieldValue) bool {
	hasMult := !values[FieldMult1].Empty() ||
		!values[FieldMult2].Empty() ||
		!values[FieldMult3].Empty()
	isNew := strings.EqualFold(values[FieldNewQSO].Value, "true")
	return hasMult && isNew
}
