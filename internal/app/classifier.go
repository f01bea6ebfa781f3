package app

import (
	"github.com/bft-labs/multbell/internal/domain"
	"github.com/bft-labs/multbell/pkg/markup"
)

// EnvelopeTag marks packets worth looking at. Its closing tag is not
// required.
const EnvelopeTag = "<contactinfo>"

// Classifier turns datagrams into reports. It holds no mutable state and is
// safe for concurrent use.
type Classifier struct {
	limits domain.FieldLimits
}

// NewClassifier creates a classifier truncating fields at limits.
func NewClassifier(limits domain.FieldLimits) *Classifier {
	return &Classifier{limits: limits}
}

// Classify extracts every known field from d and evaluates the trigger.
// ok is false when d carries no contactinfo envelope; such datagrams must
// produce no output at all.
func (c *Classifier) Classify(d domain.Datagram) (report domain.Report, ok bool) {
	if !markup.ContainsFold(d.Payload, EnvelopeTag) {
		return domain.Report{}, false
	}

	report.From = d.From
	report.ReceivedAt = d.ReceivedAt
	for _, f := range domain.Fields {
		v, present := markup.Extract(d.Payload, f.Tag(), c.limits[f])
		report.Values[f] = domain.FieldValue{Value: v, Present: present}
	}
	report.Triggered = domain.ShouldTrigger(report.Values)
	return report, true
}
