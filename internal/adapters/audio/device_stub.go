//go:build !audiodevice

package audio

import (
	"fmt"

	"github.com/bft-labs/multbell/internal/domain"
	"github.com/bft-labs/multbell/internal/ports"
	"github.com/bft-labs/multbell/pkg/tone"
)

// NewDevicePlayer is unavailable unless built with the audiodevice tag.
func NewDevicePlayer(device string, params tone.Params) (ports.AlertPlayer, error) {
	return nil, fmt.Errorf("%w: built without audio device support (rebuild with -tags audiodevice)", domain.ErrInvalidConfig)
}
