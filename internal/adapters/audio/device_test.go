//go:build audiodevice

package audio

import (
	"errors"
	"testing"

	"github.com/bft-labs/multbell/internal/domain"
	"github.com/bft-labs/multbell/pkg/tone"
)

func TestNewDevicePlayer(t *testing.T) {
	p, err := NewDevicePlayer(DefaultDevice, tone.DefaultParams())
	if err != nil {
		t.Fatalf("NewDevicePlayer(default) = %v", err)
	}
	if p.Name() != "device" {
		t.Errorf("Name() = %q", p.Name())
	}
	if len(p.pcm) != 2*tone.DefaultParams().NumSamples() {
		t.Errorf("pcm length = %d", len(p.pcm))
	}

	if _, err := NewDevicePlayer("plughw:0,0", tone.DefaultParams()); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("NewDevicePlayer(plughw:0,0) err = %v, want ErrInvalidConfig", err)
	}
}
