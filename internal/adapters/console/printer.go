// Package console renders reports and the startup banner for the operator.
package console

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bft-labs/multbell/internal/domain"
	"github.com/bft-labs/multbell/internal/ports"
)

// AlertMarker is appended to the line of a report that fired the alert.
const AlertMarker = "*** MULT → SOUND ***"

const timeLayout = "2006-01-02 15:04:05"

// Printer writes one line per report. Styling is dropped automatically when
// w is not a terminal.
type Printer struct {
	mu     sync.Mutex
	w      io.Writer
	marker lipgloss.Style
	stamp  lipgloss.Style
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:      w,
		marker: r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		stamp:  r.NewStyle().Faint(true),
	}
}

// WriteReport implements ports.ReportSink.
func (p *Printer) WriteReport(r domain.Report) error {
	line := formatLine(r, p.stamp.Render, p.marker.Render)

	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := fmt.Fprintln(p.w, line)
	return err
}

// formatLine lays out a report line. stamp and marker style the timestamp
// and the alert marker.
func formatLine(r domain.Report, stamp, marker func(...string) string) string {
	line := stamp("["+timestamp(r).Format(timeLayout)+"]") + " " + FormatFields(r)
	if r.Triggered {
		line += "  " + marker(AlertMarker)
	}
	return line
}

// FormatFields renders the sender and the eight fields, with "-" standing
// in for absent or empty values.
func FormatFields(r domain.Report) string {
	return fmt.Sprintf("PKT from %-15s call=%-8s band=%-3s mode=%-3s mult1=%-2s  mult2=%-2s  mult3=%-2s newqso=%-5s xqso=%-5s",
		r.SenderIP(),
		r.Display(domain.FieldCall),
		r.Display(domain.FieldBand),
		r.Display(domain.FieldMode),
		r.Display(domain.FieldMult1),
		r.Display(domain.FieldMult2),
		r.Display(domain.FieldMult3),
		r.Display(domain.FieldNewQSO),
		r.Display(domain.FieldXQSO),
	)
}

func timestamp(r domain.Report) time.Time {
	if r.ReceivedAt.IsZero() {
		return time.Now()
	}
	return r.ReceivedAt.Local()
}

var _ ports.ReportSink = (*Printer)(nil)
