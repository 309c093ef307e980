package backend

import (
	"github.com/valerio/go-laserdisc/laserdisc/input/action"
	"github.com/valerio/go-laserdisc/laserdisc/input/event"
	"github.com/valerio/go-laserdisc/laserdisc/video"
)

// Backend represents a complete frontend platform (rendering + input).
// Backends are responsible for:
// - Presenting the player's video output (terminal, SDL window, files)
// - Translating platform-specific input events to Actions
type Backend interface {
	// Init configures the backend. This is a required step before
	// calling Update.
	Init(config Config) error

	// Update presents a frame and returns the input events collected
	// since the last call. Backends poll their platform events here.
	Update(frame *video.FrameBuffer) ([]InputEvent, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// AudioOutput is implemented by backends that can play sound. Samples are
// interleaved stereo pairs, one field's worth per call.
type AudioOutput interface {
	QueueSamples(samples []int16) error
}

// Config holds configuration for backends
type Config struct {
	Title      string
	Scale      int
	SampleRate int

	// Status returns a one line summary of the player, shown by
	// backends that have room for it.
	Status func() string
}

// InputEvent is an action reported by a backend.
type InputEvent struct {
	Action action.Action
	Type   event.Type
}

// Press is shorthand for a press event of act.
func Press(act action.Action) InputEvent {
	return InputEvent{Action: act, Type: event.Press}
}
