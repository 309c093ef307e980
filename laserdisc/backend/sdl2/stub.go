//go:build !sdl2

package sdl2

import (
	"errors"

	"github.com/valerio/go-laserdisc/laserdisc/backend"
	"github.com/valerio/go-laserdisc/laserdisc/video"
)

var ErrUnavailable = errors.New("SDL2 backend not available - build with -tags sdl2 to enable")

// Backend stub for when SDL2 is not available
type Backend struct{}

func New() *Backend {
	return &Backend{}
}

func (s *Backend) Init(backend.Config) error {
	return ErrUnavailable
}

func (s *Backend) Update(*video.FrameBuffer) ([]backend.InputEvent, error) {
	return nil, ErrUnavailable
}

func (s *Backend) QueueSamples([]int16) error {
	return nil
}

func (s *Backend) Cleanup() error {
	return nil
}
