//go:build audiodevice

package audio

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/bft-labs/multbell/internal/domain"
	"github.com/bft-labs/multbell/internal/ports"
	"github.com/bft-labs/multbell/pkg/tone"
)

// oto allows a single context per process; it is opened on first use.
var (
	deviceOnce sync.Once
	deviceCtx  *oto.Context
	deviceErr  error
)

func openDevice(sampleRate int) (*oto.Context, error) {
	deviceOnce.Do(func() {
		c, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 1,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			deviceErr = fmt.Errorf("open audio device: %w", err)
			return
		}
		<-ready
		deviceCtx = c
	})
	return deviceCtx, deviceErr
}

// DevicePlayer writes the synthesized cue straight to the system audio
// output and blocks until it has drained.
type DevicePlayer struct {
	device string
	params tone.Params
	pcm    []byte
}

// NewDevicePlayer prepares the cue. Only the system default output is
// addressable through oto.
func NewDevicePlayer(device string, params tone.Params) (*DevicePlayer, error) {
	if device != DefaultDevice {
		return nil, fmt.Errorf("%w: audio device %q not supported, only %q", domain.ErrInvalidConfig, device, DefaultDevice)
	}
	return &DevicePlayer{
		device: device,
		params: params,
		pcm:    tone.EncodeS16LE(tone.Generate(params)),
	}, nil
}

// Play blocks for the duration of the cue.
func (p *DevicePlayer) Play(ctx context.Context) error {
	c, err := openDevice(p.params.SampleRate)
	if err != nil {
		return err
	}

	player := c.NewPlayer(bytes.NewReader(p.pcm))
	defer player.Close()

	player.Play()
	for player.IsPlaying() {
		time.Sleep(5 * time.Millisecond)
	}
	return player.Err()
}

// Name implements ports.AlertPlayer.
func (p *DevicePlayer) Name() string { return string(SoundDevice) }

var _ ports.AlertPlayer = (*DevicePlayer)(nil)
