//go:build sdl2

package sdl2

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/valerio/go-laserdisc/laserdisc/backend"
	"github.com/valerio/go-laserdisc/laserdisc/input/action"
	"github.com/valerio/go-laserdisc/laserdisc/video"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	defaultWidth  = 640
	defaultHeight = 480

	// queued audio beyond this many bytes is dropped to bound latency
	maxQueuedAudio = 8 * 4096
)

// Backend implements the Backend interface using SDL2 bindings
// Note: building this requires SDL2 development libraries installed.
// Default builds skip this and use a stubbed renderer, see build tags (sdl2)
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	texW     int
	texH     int
	pixels   []byte
	config   backend.Config

	audioID  sdl.AudioDeviceID
	audioBuf []byte

	events []backend.InputEvent
}

// New creates a new SDL2 backend
func New() *Backend {
	return &Backend{}
}

// Init initializes the SDL2 backend
func (s *Backend) Init(config backend.Config) error {
	s.config = config
	scale := config.Scale
	if scale < 1 {
		scale = 1
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS | sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %v", err)
	}

	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(defaultWidth*scale),
		int32(defaultHeight*scale),
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %v", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create renderer: %v", err)
	}
	s.renderer = renderer

	if config.SampleRate > 0 {
		s.openAudio(config.SampleRate)
	}

	slog.Info("SDL2 backend initialized")
	return nil
}

// openAudio starts a queued stereo output. Failure leaves the backend
// silent rather than failing Init.
func (s *Backend) openAudio(rate int) {
	spec := &sdl.AudioSpec{
		Freq:     int32(rate),
		Format:   sdl.AUDIO_S16LSB,
		Channels: 2,
		Samples:  1024,
	}
	var actual sdl.AudioSpec
	id, err := sdl.OpenAudioDevice("", false, spec, &actual, 0)
	if err != nil {
		slog.Warn("Audio unavailable", "error", err)
		return
	}
	s.audioID = id
	sdl.PauseAudioDevice(id, false)
}

// QueueSamples implements backend.AudioOutput
func (s *Backend) QueueSamples(samples []int16) error {
	if s.audioID == 0 || len(samples) == 0 {
		return nil
	}
	if sdl.GetQueuedAudioSize(s.audioID) > maxQueuedAudio {
		return nil
	}
	if cap(s.audioBuf) < len(samples)*2 {
		s.audioBuf = make([]byte, len(samples)*2)
	}
	buf := s.audioBuf[:len(samples)*2]
	for i, v := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(v))
	}
	return sdl.QueueAudio(s.audioID, buf)
}

// Update renders a frame and processes events
func (s *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		s.handleEvent(event)
	}
	events := s.events
	s.events = nil

	if err := s.renderFrame(frame); err != nil {
		return events, err
	}
	return events, nil
}

// Cleanup cleans up SDL2 resources
func (s *Backend) Cleanup() error {
	slog.Info("Cleaning up SDL2 backend")

	if s.audioID != 0 {
		sdl.CloseAudioDevice(s.audioID)
	}
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()
	return nil
}

func (s *Backend) handleEvent(event sdl.Event) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		s.events = append(s.events, backend.Press(action.EmulatorQuit))
	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
			if act, ok := keyMapping[e.Keysym.Sym]; ok {
				s.events = append(s.events, backend.Press(act))
			}
		}
	}
}

// keyMapping maps SDL2 keys to actions
var keyMapping = map[sdl.Keycode]action.Action{
	sdl.K_p:            action.PanelPlay,
	sdl.K_RETURN:       action.PanelPlay,
	sdl.K_r:            action.PanelPlayReverse,
	sdl.K_SPACE:        action.PanelStill,
	sdl.K_RIGHT:        action.PanelStepForward,
	sdl.K_LEFT:         action.PanelStepReverse,
	sdl.K_RIGHTBRACKET: action.PanelScanForward,
	sdl.K_LEFTBRACKET:  action.PanelScanReverse,
	sdl.K_s:            action.PanelSearch,
	sdl.K_e:            action.PanelEject,
	sdl.K_F1:           action.PanelAudio1,
	sdl.K_F2:           action.PanelAudio2,
	sdl.K_d:            action.PanelDisplay,
	sdl.K_0:            action.PanelDigit0,
	sdl.K_1:            action.PanelDigit1,
	sdl.K_2:            action.PanelDigit2,
	sdl.K_3:            action.PanelDigit3,
	sdl.K_4:            action.PanelDigit4,
	sdl.K_5:            action.PanelDigit5,
	sdl.K_6:            action.PanelDigit6,
	sdl.K_7:            action.PanelDigit7,
	sdl.K_8:            action.PanelDigit8,
	sdl.K_9:            action.PanelDigit9,
	sdl.K_F9:           action.EmulatorSnapshot,
	sdl.K_PAUSE:        action.EmulatorPauseToggle,
	sdl.K_ESCAPE:       action.EmulatorQuit,
	sdl.K_q:            action.EmulatorQuit,
}

func (s *Backend) renderFrame(frame *video.FrameBuffer) error {
	w, h := int(frame.Width()), int(frame.Height())
	if s.texture == nil || w != s.texW || h != s.texH {
		if s.texture != nil {
			s.texture.Destroy()
		}
		texture, err := s.renderer.CreateTexture(
			sdl.PIXELFORMAT_RGBA8888,
			sdl.TEXTUREACCESS_STREAMING,
			int32(w),
			int32(h),
		)
		if err != nil {
			return fmt.Errorf("failed to create texture: %v", err)
		}
		s.texture, s.texW, s.texH = texture, w, h
		s.pixels = make([]byte, w*h*4)
	}

	// RGBA8888 is a packed format, little-endian in memory
	for i, px := range frame.ToSlice() {
		binary.LittleEndian.PutUint32(s.pixels[i*4:], px)
	}
	s.texture.Update(nil, unsafe.Pointer(&s.pixels[0]), w*4)

	s.renderer.SetDrawColor(0, 0, 0, 255)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()
	return nil
}
