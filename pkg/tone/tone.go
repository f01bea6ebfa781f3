// Package tone synthesizes the short sine alert used by the tone and device
// playback strategies.
package tone

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// Params describes a mono sine cue with linear fades at both ends.
type Params struct {
	SampleRate int
	Frequency  float64
	Duration   time.Duration
	Volume     float64 // 0..1
	Fade       time.Duration
}

// DefaultParams returns the stock cue: 880 Hz for 400 ms at 60% volume,
// 44.1 kHz, 20 ms fades.
func DefaultParams() Params {
	return Params{
		SampleRate: 44100,
		Frequency:  880,
		Duration:   400 * time.Millisecond,
		Volume:     0.6,
		Fade:       20 * time.Millisecond,
	}
}

// Validate reports parameters that cannot produce a sensible cue.
func (p Params) Validate() error {
	if p.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive")
	}
	if p.Frequency <= 0 {
		return fmt.Errorf("tone frequency must be positive")
	}
	if p.Duration <= 0 {
		return fmt.Errorf("tone duration must be positive")
	}
	if p.Volume < 0 || p.Volume > 1 {
		return fmt.Errorf("tone volume must be within 0..1, got %v", p.Volume)
	}
	if p.Fade < 0 || 2*p.Fade > p.Duration {
		return fmt.Errorf("fade %v must be between 0 and half the duration %v", p.Fade, p.Duration)
	}
	return nil
}

// NumSamples is the number of frames Generate produces for p.
func (p Params) NumSamples() int {
	return int(int64(p.SampleRate) * p.Duration.Milliseconds() / 1000)
}

func (p Params) fadeSamples() int {
	return int(int64(p.SampleRate) * p.Fade.Milliseconds() / 1000)
}

// Generate renders the cue as signed 16-bit samples:
//
//	s[i] = V * fade(i) * sin(2*pi*F*i/R) * 32767
//
// where fade ramps 0->1 across the first fade window and 1->0 across the
// last one.
func Generate(p Params) []int16 {
	n := p.NumSamples()
	if n <= 0 {
		return nil
	}
	fadeLen := p.fadeSamples()
	out := make([]int16, n)
	for i := range out {
		f := 1.0
		if fadeLen > 0 {
			if i < fadeLen {
				f = float64(i) / float64(fadeLen)
			} else if i > n-fadeLen {
				f = float64(n-i) / float64(fadeLen)
			}
		}
		t := float64(i) / float64(p.SampleRate)
		s := p.Volume * f * math.Sin(2*math.Pi*p.Frequency*t)
		out[i] = int16(s * math.MaxInt16)
	}
	return out
}

// EncodeS16LE packs samples as raw signed 16-bit little-endian PCM.
func EncodeS16LE(samples []int16) []byte {
	buf := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(s))
	}
	return buf
}
