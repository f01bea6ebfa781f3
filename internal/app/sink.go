package app

import (
	"errors"

	"github.com/bft-labs/multbell/internal/domain"
	"github.com/bft-labs/multbell/internal/ports"
)

// MultiSink fans a report out to several sinks. Every sink is called even
// if an earlier one fails.
type MultiSink []ports.ReportSink

// WriteReport implements ports.ReportSink.
func (m MultiSink) WriteReport(r domain.Report) error {
	var errs []error
	for _, s := range m {
		if err := s.WriteReport(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SinkFunc adapts a function to ports.ReportSink.
type SinkFunc func(domain.Report)

// WriteReport implements ports.ReportSink.
func (f SinkFunc) WriteReport(r domain.Report) error {
	f(r)
	return nil
}
