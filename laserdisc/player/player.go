// Package player emulates the disc mechanism of a laserdisc player: the
// playback state machine, the track position model and the command
// protocols of the supported players.
package player

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/valerio/go-laserdisc/laserdisc/audio"
	"github.com/valerio/go-laserdisc/laserdisc/disc"
	"github.com/valerio/go-laserdisc/laserdisc/timing"
	"github.com/valerio/go-laserdisc/laserdisc/track"
	"github.com/valerio/go-laserdisc/laserdisc/vbi"
	"github.com/valerio/go-laserdisc/laserdisc/video"
)

// Speeds are in tracks per frame.
const (
	SearchSpeed = 5000
	ScanSpeed   = 50
	FastSpeed   = 3
	PlaySpeed   = 1
	SlowDivisor = 5

	// LeadInSkip is how far a blind player moves per field while reading
	// lead-in.
	LeadInSkip = 20

	// DefaultMaxTrack bounds the position when no disc image is loaded.
	DefaultMaxTrack = 54000
)

// ErrUnknownModel is returned by New for a Model it cannot build.
var ErrUnknownModel = errors.New("unknown player model")

// Config selects the emulated player.
type Config struct {
	Model Model
	// Disc is the backing store. When nil, metadata is synthesized from
	// the track position and fields are rendered as frame numbers.
	Disc disc.Source
	// Clock times holds and pulse widths. When nil the player keeps its
	// own clock and advances it by one field per VSync.
	Clock timing.Clock
}

// Player is one emulated laserdisc player. It is not safe for concurrent
// use; the frame cache and audio ring it fills are.
type Player struct {
	model Model
	proto protocol
	buses buses

	clock    timing.Clock
	ownClock *timing.Manual
	fieldDur time.Duration

	src         disc.Source
	info        disc.Info
	hunkBuf     []byte
	readPending bool
	readField   int
	readOpts    disc.DecodeOptions

	state        State
	curfractrack track.Frac
	curfracspeed track.Frac
	maxfractrack track.Frac
	targetframe  int
	fieldnum     uint64

	lastframe      int
	lastframeTrack int
	lastframeField uint64
	lastchapter    int
	frameFresh     bool
	lastvsync      time.Duration

	holdfinished      time.Duration
	postholdstate     State
	postholdfracspeed track.Frac

	audio, video, display AVMask
	metadata              [2]vbi.Metadata

	frames *video.Cache
	ring   *audio.Ring
	synth  []byte

	commands uint64
}

// New builds a player and resets it, which starts spinning up to frame 1.
func New(cfg Config) (*Player, error) {
	p := &Player{
		model:    cfg.Model,
		clock:    cfg.Clock,
		src:      cfg.Disc,
		fieldDur: timing.FieldDuration(),
	}

	p.proto = newProtocol(p, cfg.Model)
	if p.proto == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownModel, int(cfg.Model))
	}
	p.buses = probeBuses(p.proto)

	if p.clock == nil {
		p.ownClock = timing.NewManual()
		p.clock = p.ownClock
	}

	p.info = disc.DefaultInfo()
	p.maxfractrack = track.FromInt(DefaultMaxTrack)
	if p.src != nil {
		p.info = p.src.Info()
		if err := p.info.Validate(); err != nil {
			return nil, fmt.Errorf("disc image: %w", err)
		}
		p.hunkBuf = make([]byte, p.info.HunkSize())
		p.maxfractrack = track.FromInt(p.src.Hunks()/2 + 1)
	}

	p.frames = video.NewCache(uint(p.info.Width), uint(p.info.Height))
	p.ring = audio.NewRing(p.info.SampleRate, p.info.FieldRate())
	p.synth = make([]byte, p.info.Width*p.info.FieldHeight())

	slog.Info("player created",
		"model", p.model,
		"disc", p.src != nil,
		"tracks", p.maxfractrack.Int()-1,
		"width", p.info.Width, "height", p.info.Height)

	p.Reset()
	return p, nil
}

// Reset returns the player to power-on: loading and seeking frame 1,
// with audio and video enabled and the overlay off.
func (p *Player) Reset() {
	p.holdfinished = 0
	p.audio = AudioChannel0 | AudioChannel1
	p.video = VideoEnabled
	p.display = 0
	p.lastframe, p.lastframeTrack, p.lastchapter = 0, 0, 0
	p.lastframeField = 0
	p.metadata = [2]vbi.Metadata{}
	p.frames.Reset()
	p.ring.Reset()
	p.proto.reset()

	p.curfractrack = track.One
	p.setState(Loading, track.FromInt(SearchSpeed))
	p.targetframe = 1

	p.issueRead()
	slog.Debug("player reset", "model", p.model)
}

// Close waits for an outstanding disc read. It does not close the disc.
func (p *Player) Close() {
	if p.src == nil || !p.readPending {
		return
	}
	for {
		done, err := p.src.PollRead()
		if done {
			if err != nil {
				slog.Warn("disc read failed during close", "error", err)
			}
			break
		}
		time.Sleep(time.Millisecond)
	}
	p.readPending = false
}

// VSync advances the player by one field.
func (p *Player) VSync() {
	now := p.clock.Now()
	p.lastvsync = now
	field := p.Field()

	p.processField(field)

	if p.holdfinished != 0 {
		if now < p.holdfinished {
			p.endField()
			return
		}
		slog.Debug("hold finished", "state", p.postholdstate)
		p.holdfinished = 0
		p.setState(p.postholdstate, p.postholdfracspeed)
	}

	prev := p.state
	hit := p.updatePosition(field)

	switch p.state {
	case Ejected, Ejecting, Loaded, Parked:

	case Loading, Spinup:
		if hit {
			p.setState(Stopped, 0)
			p.targetframe = 0
		}

	case SearchingFrame:
		if hit {
			p.setState(SearchFinished, 0)
			p.targetframe = 0
		}

	case SearchFinished, Stopped, Autostopped,
		PlayingForward, PlayingReverse,
		PlayingSlowForward, PlayingSlowReverse,
		PlayingFastForward, PlayingFastReverse,
		SteppingForward, SteppingReverse,
		ScanningForward, ScanningReverse:
		if hit {
			p.setState(Autostopped, 0)
			p.targetframe = 0
		}

	default:
		panic(fmt.Sprintf("player: invalid state %v", p.state))
	}

	if p.state != prev {
		p.curfractrack, _ = p.curfractrack.Round(field).Clamp(track.One, p.maxfractrack-track.One)
		slog.Debug("state changed", "from", prev, "to", p.state, "track", p.curfractrack.Int())
		if p.buses.notifier != nil {
			p.buses.notifier.stateChanged(prev)
		}
	}

	if p.buses.ticker != nil {
		p.buses.ticker.fieldTick()
	}
	p.endField()
}

// endField moves to the next field and starts reading it.
func (p *Player) endField() {
	p.fieldnum++
	p.issueRead()
	if p.ownClock != nil {
		p.ownClock.Advance(p.fieldDur)
	}
}

// processField collects the metadata, picture and sound of the field
// under the head.
func (p *Player) processField(field int) {
	var (
		meta    vbi.Metadata
		luma    []byte
		samples []int16
	)

	if p.src == nil {
		meta = vbi.Synthesize(p.curfractrack.Int(), field)
		if p.videoActive() {
			number, _ := meta.Frame()
			if number == 0 {
				number = p.lastframe
			}
			video.RenderNumberField(p.synth, p.info.Width, p.info.FieldHeight(), number)
			luma = p.synth
		}
	} else if p.readPending {
		done, err := p.src.PollRead()
		if done {
			p.readPending = false
			switch {
			case err != nil:
				slog.Debug("disc read failed", "error", err, "track", p.curfractrack.Int())
			case p.readField != field:
				slog.Debug("discarding late read", "field", p.readField)
			default:
				h := p.info.Decode(p.hunkBuf, p.readOpts)
				meta, _ = vbi.Parse(h.VBI)
				luma = h.Luma
				samples = h.Audio
			}
		}
	}

	p.metadata[field] = meta
	p.frameFresh = false

	frame, ok := meta.Frame()
	if ok {
		p.lastframe = frame
		p.lastframeTrack = p.curfractrack.Int()
		p.lastframeField = p.fieldnum
		p.frameFresh = true
	}
	if chapter, ok := meta.Chapter(); ok {
		p.lastchapter = chapter
	}

	if !p.videoActive() {
		luma = nil
	}
	p.frames.StoreField(field, luma, meta.StartsFrame(), frame)

	if samples != nil {
		p.ring.Write(samples, [audio.Channels]bool{p.audioActive(0), p.audioActive(1)})
	}
}

// issueRead starts reading the hunk for the current track and field.
func (p *Player) issueRead() {
	if p.src == nil || p.readPending {
		return
	}

	field := p.Field()
	hunk := (p.curfractrack.Int()-1)*2 + field
	if hunk >= p.src.Hunks() {
		hunk = p.src.Hunks() - 1 - (1 - field)
	}
	opts := disc.DecodeOptions{
		Video: p.videoActive(),
		Audio: p.audioActive(0) || p.audioActive(1),
	}

	if err := p.src.Configure(hunk, opts); err != nil {
		slog.Warn("disc configure failed", "hunk", hunk, "error", err)
		return
	}
	if err := p.src.BeginRead(hunk, p.hunkBuf); err != nil {
		slog.Warn("disc read not started", "hunk", hunk, "error", err)
		return
	}
	p.readPending = true
	p.readField = field
	p.readOpts = opts
}

// WriteData delivers a byte from the host and reports whether the
// protocol has a data input.
func (p *Player) WriteData(data byte) bool {
	if p.buses.writer == nil {
		return false
	}
	p.buses.writer.writeData(data)
	return true
}

// ReadData returns the next byte for the host. ok is false when the
// protocol has no data output or nothing to say.
func (p *Player) ReadData() (data byte, ok bool) {
	if p.buses.reader == nil {
		return 0, false
	}
	return p.buses.reader.readData()
}

// WriteLine drives an input line and reports whether the protocol
// listens to it.
func (p *Player) WriteLine(line Line, state LineState) bool {
	if p.buses.lineIn == nil {
		return false
	}
	return p.buses.lineIn.writeLine(line, state)
}

// ReadLine senses an output line. ok is false for lines the protocol
// does not drive.
func (p *Player) ReadLine(line Line) (state LineState, ok bool) {
	if p.buses.lineOut == nil {
		return Clear, false
	}
	return p.buses.lineOut.readLine(line)
}

func (p *Player) Model() Model                    { return p.model }
func (p *Player) State() State                    { return p.state }
func (p *Player) Track() track.Frac               { return p.curfractrack }
func (p *Player) Speed() track.Frac               { return p.curfracspeed }
func (p *Player) MaxTrack() track.Frac            { return p.maxfractrack }
func (p *Player) TargetFrame() int                { return p.targetframe }
func (p *Player) FrameNumber() int                { return p.lastframe }
func (p *Player) Chapter() int                    { return p.lastchapter }
func (p *Player) FieldCount() uint64              { return p.fieldnum }
func (p *Player) Field() int                      { return int(p.fieldnum & 1) }
func (p *Player) Commands() uint64                { return p.commands }
func (p *Player) Holding() bool                   { return p.holdfinished != 0 }
func (p *Player) Clock() timing.Clock             { return p.clock }
func (p *Player) Info() disc.Info                 { return p.info }
func (p *Player) Frames() *video.Cache            { return p.frames }
func (p *Player) Audio() *audio.Ring              { return p.ring }
func (p *Player) Metadata(field int) vbi.Metadata { return p.metadata[field&1] }

// Status is a snapshot for frontends.
type Status struct {
	Model    Model
	State    State
	Track    int
	Frame    int
	Chapter  int
	Target   int
	Speed    track.Frac
	Holding  bool
	Video    bool
	Audio    [audio.Channels]bool
	Display  bool
	Commands uint64
}

func (p *Player) Status() Status {
	return Status{
		Model:    p.model,
		State:    p.state,
		Track:    p.curfractrack.Int(),
		Frame:    p.lastframe,
		Chapter:  p.lastchapter,
		Target:   p.targetframe,
		Speed:    p.curfracspeed,
		Holding:  p.Holding(),
		Video:    p.videoActive(),
		Audio:    [audio.Channels]bool{p.audioActive(0), p.audioActive(1)},
		Display:  p.displayActive(),
		Commands: p.commands,
	}
}
