package console

import (
	"fmt"
	"io"
	"time"
)

// Banner is the startup summary shown before listening begins.
type Banner struct {
	Port  int
	Sound string // human description of the playback strategy
	Mute  bool

	// Tone details are shown only for synthesized cues.
	ShowTone  bool
	ToneHz    float64
	ToneDur   time.Duration
	ToneLevel float64
}

// WriteBanner prints the banner to w.
func WriteBanner(w io.Writer, b Banner) error {
	_, err := fmt.Fprintf(w, "=== DXLog Multiplier Listener ===\n"+
		"Port      : UDP %d\n"+
		"Trigger   : mult1/mult2/mult3 non-empty AND newqso=true\n"+
		"Sound     : %s\n", b.Port, b.Sound)
	if err != nil {
		return err
	}
	if b.ShowTone {
		if _, err := fmt.Fprintf(w, "Tone      : %.0f Hz, %d ms, volume %.0f%%\n",
			b.ToneHz, b.ToneDur.Milliseconds(), b.ToneLevel*100); err != nil {
			return err
		}
	}
	if b.Mute {
		if _, err := fmt.Fprintln(w, "Muted     : reports only, no audio"); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(w)
	return err
}

// WriteListening announces the bound address.
func WriteListening(w io.Writer, addr string) error {
	_, err := fmt.Fprintf(w, "Listening on %s …\n\n", addr)
	return err
}
