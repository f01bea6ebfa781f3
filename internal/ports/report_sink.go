package ports

import "github.com/bft-labs/multbell/internal/domain"

// ReportSink receives one report per datagram that passed the envelope
// pre-filter.
type ReportSink interface {
	WriteReport(r domain.Report) error
}
