package player

import (
	"bytes"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-laserdisc/laserdisc/disc"
	"github.com/valerio/go-laserdisc/laserdisc/timing"
	"github.com/valerio/go-laserdisc/laserdisc/track"
	"github.com/valerio/go-laserdisc/laserdisc/vbi"
	"github.com/valerio/go-laserdisc/laserdisc/video"
)

type rig struct {
	t     *testing.T
	p     *Player
	clock *timing.Manual
}

func newRig(t *testing.T, model Model) *rig {
	t.Helper()
	clock := timing.NewManual()
	p, err := New(Config{Model: model, Clock: clock})
	require.NoError(t, err)
	return &rig{t: t, p: p, clock: clock}
}

func (r *rig) vsync(n int) {
	for i := 0; i < n; i++ {
		r.clock.Advance(timing.FieldDuration())
		r.p.VSync()
	}
}

// runUntil runs fields until cond holds and returns how many it took.
func (r *rig) runUntil(max int, cond func() bool) int {
	r.t.Helper()
	for n := 1; n <= max; n++ {
		r.vsync(1)
		if cond() {
			return n
		}
	}
	require.FailNow(r.t, "condition not reached", "state %v track %d frame %d", r.p.state, r.p.curfractrack.Int(), r.p.lastframe)
	return 0
}

// stopped brings a fresh player to a still picture on frame 1.
func (r *rig) stopped() {
	r.runUntil(10, func() bool { return r.p.state == Stopped })
}

func (r *rig) seek(frame int) int {
	require.True(r.t, r.p.search(frame))
	return r.runUntil(4*SearchSpeed, func() bool { return r.p.state == SearchFinished })
}

func TestNewRejectsUnknownModel(t *testing.T) {
	_, err := New(Config{Model: Model(42)})
	assert.ErrorIs(t, err, ErrUnknownModel)
}

func TestResetStartsLoading(t *testing.T) {
	r := newRig(t, ModelPR7820)

	assert.Equal(t, Loading, r.p.State())
	assert.Equal(t, 1, r.p.TargetFrame())
	assert.Equal(t, track.FromInt(SearchSpeed), r.p.Speed())
	assert.Equal(t, track.One, r.p.Track())
	assert.Equal(t, track.FromInt(DefaultMaxTrack), r.p.MaxTrack())
}

func TestLoadingStopsOnFirstField(t *testing.T) {
	r := newRig(t, ModelPR7820)
	r.vsync(1)

	assert.Equal(t, Stopped, r.p.State())
	assert.Equal(t, 1, r.p.FrameNumber())
	assert.Equal(t, 0, r.p.TargetFrame())
	assert.Equal(t, track.Frac(0), r.p.Speed())
	assert.Equal(t, track.One, r.p.Track())
	assert.Equal(t, uint64(1), r.p.FieldCount())
}

func TestOwnClockAdvancesPerField(t *testing.T) {
	p, err := New(Config{Model: ModelLDV1000})
	require.NoError(t, err)

	p.VSync()
	p.VSync()
	assert.Equal(t, 2*timing.FieldDuration(), p.Clock().Now())
}

func TestTrackStaysInRange(t *testing.T) {
	r := newRig(t, ModelPR7820)
	rng := rand.New(rand.NewSource(7))
	p := r.p

	ops := []func(){
		p.PanelPlay,
		p.PanelPlayReverse,
		p.PanelStill,
		p.PanelStepForward,
		p.PanelStepReverse,
		p.PanelScanForward,
		p.PanelScanReverse,
		p.PanelEject,
		func() { p.search(rng.Intn(DefaultMaxTrack) + 1) },
		func() { p.setVideo(rng.Intn(2) == 0) },
		func() { p.move(PlayingFastReverse, -track.FromInt(FastSpeed)) },
	}

	for i := 0; i < 5000; i++ {
		if rng.Intn(20) == 0 {
			ops[rng.Intn(len(ops))]()
		}
		r.vsync(1)
		require.GreaterOrEqual(t, p.Track(), track.One)
		require.LessOrEqual(t, p.Track(), p.MaxTrack()-track.One)
	}
}

func TestIdleStatesDoNotMove(t *testing.T) {
	setups := map[State]func(r *rig){
		Parked: func(r *rig) { r.p.park() },
		Ejected: func(r *rig) {
			r.p.eject()
			r.runUntil(200, func() bool { return r.p.state == Ejected })
		},
		Loaded: func(r *rig) {
			r.p.eject()
			r.runUntil(200, func() bool { return r.p.state == Ejected })
			r.p.load()
		},
	}

	for state, setup := range setups {
		t.Run(state.String(), func(t *testing.T) {
			r := newRig(t, ModelPR7820)
			r.stopped()
			require.True(t, r.p.search(500))
			r.runUntil(100, func() bool { return r.p.state == SearchFinished })

			setup(r)
			require.Equal(t, state, r.p.State())
			pos := r.p.Track()

			for i := 0; i < 100; i++ {
				r.vsync(1)
				assert.Equal(t, state, r.p.State())
				assert.Equal(t, pos, r.p.Track())
			}
		})
	}
}

func TestSeekConverges(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
	}{
		{"one forward", 100, 101},
		{"one back", 100, 99},
		{"two forward", 100, 102},
		{"two back", 100, 98},
		{"short back", 100, 90},
		{"long forward", 10, 40000},
		{"long back", 50000, 3},
		{"to end", 1, DefaultMaxTrack - 1},
		{"to start", 2000, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(t, ModelPR7820)
			r.stopped()
			if tt.from != 1 {
				r.seek(tt.from)
			}
			require.Equal(t, tt.from, r.p.FrameNumber())

			calls := r.seek(tt.to)
			assert.LessOrEqual(t, calls, 2*abs(tt.to-tt.from))
			assert.Equal(t, SearchFinished, r.p.State())
			assert.Equal(t, tt.to, r.p.FrameNumber())
			assert.Equal(t, 0, r.p.TargetFrame())
			assert.Equal(t, track.FromInt(tt.to), r.p.Track())
		})
	}
}

func TestSingleTrackSeekFromEitherField(t *testing.T) {
	for _, to := range []int{101, 99} {
		for field := 0; field < 2; field++ {
			r := newRig(t, ModelPR7820)
			r.stopped()
			r.seek(100)
			if r.p.Field() != field {
				r.vsync(1)
			}

			calls := r.seek(to)
			assert.LessOrEqual(t, calls, 2, "100->%d from field %d", to, field)
			assert.Equal(t, to, r.p.FrameNumber())
			assert.Equal(t, track.FromInt(to), r.p.Track())
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func TestSearchRejectsOutOfRange(t *testing.T) {
	r := newRig(t, ModelPR7820)
	r.stopped()

	assert.False(t, r.p.search(0))
	assert.False(t, r.p.search(vbi.MaxFrame+1))
	assert.Equal(t, Stopped, r.p.State())
}

func TestHoldFreezesThenResumes(t *testing.T) {
	r := newRig(t, ModelPR7820)
	r.stopped()
	r.p.PanelPlay()
	r.vsync(4)

	r.p.holdFor(500*time.Millisecond, Stopped, PlayingForward, track.One)
	require.True(t, r.p.Holding())
	deadline := r.clock.Now() + 500*time.Millisecond

	pos := r.p.Track()
	fields := r.p.FieldCount()
	for r.clock.Now()+timing.FieldDuration() < deadline {
		r.vsync(1)
		assert.Equal(t, Stopped, r.p.State())
		assert.Equal(t, pos, r.p.Track())
	}
	assert.Greater(t, r.p.FieldCount(), fields)

	r.vsync(1)
	assert.False(t, r.p.Holding())
	assert.Equal(t, PlayingForward, r.p.State())
	assert.Equal(t, track.One, r.p.Speed())
}

func TestHoldWithoutDurationAppliesAtOnce(t *testing.T) {
	r := newRig(t, ModelPR7820)
	r.stopped()

	r.p.holdFor(0, Stopped, PlayingForward, track.One)
	assert.False(t, r.p.Holding())
	assert.Equal(t, PlayingForward, r.p.State())
}

func TestPlayAdvancesOneTrackPerFrame(t *testing.T) {
	r := newRig(t, ModelPR7820)
	r.stopped()
	r.p.PanelPlay()

	r.vsync(20)
	assert.Equal(t, PlayingForward, r.p.State())
	assert.Equal(t, track.FromInt(11), r.p.Track())
	assert.Equal(t, 11, r.p.FrameNumber())
}

func TestBlindPlayMovesHalfSpeedPerField(t *testing.T) {
	r := newRig(t, ModelPR7820)
	r.stopped()
	r.p.PanelPlay()
	r.p.setVideo(false)

	start := r.p.Track()
	r.vsync(4)
	assert.Equal(t, start+2*track.One, r.p.Track())
	assert.False(t, r.p.VideoActive())
}

func TestAutostop(t *testing.T) {
	r := newRig(t, ModelPR7820)
	r.stopped()

	r.p.playTo(10)
	r.runUntil(40, func() bool { return r.p.state == Autostopped })
	assert.Equal(t, 10, r.p.FrameNumber())
	assert.Equal(t, track.FromInt(10), r.p.Track())
	assert.Equal(t, track.Frac(0), r.p.Speed())
}

func TestStep(t *testing.T) {
	r := newRig(t, ModelPR7820)
	r.stopped()

	r.p.PanelStepForward()
	assert.Equal(t, SteppingForward, r.p.State())
	r.runUntil(4, func() bool { return r.p.state == Autostopped })
	assert.Equal(t, 2, r.p.FrameNumber())

	r.p.PanelStepReverse()
	r.runUntil(4, func() bool { return r.p.state == Autostopped })
	assert.Equal(t, 1, r.p.FrameNumber())

	// nothing before frame 1
	r.p.PanelStepReverse()
	assert.Equal(t, Autostopped, r.p.State())
}

func TestScanReverseStopsAtStart(t *testing.T) {
	r := newRig(t, ModelPR7820)
	r.stopped()
	r.seek(200)

	r.p.PanelScanReverse()
	r.runUntil(20, func() bool { return r.p.state == Autostopped })
	assert.Equal(t, track.One, r.p.Track())
}

func TestRoundsAfterStateChange(t *testing.T) {
	r := newRig(t, ModelPR7820)
	r.stopped()
	require.Equal(t, 1, r.p.Field())

	r.p.PanelPlay()
	r.p.setVideo(false)
	r.p.curfractrack = track.FromInt(10) + track.Half
	r.p.lastframe, r.p.lastframeTrack = 10, 10
	r.p.targetframe = 5

	r.vsync(1)
	assert.Equal(t, Autostopped, r.p.State())
	assert.Equal(t, track.FromInt(11), r.p.Track())
}

func TestEjectAndReload(t *testing.T) {
	r := newRig(t, ModelPR7820)
	r.stopped()

	r.p.PanelEject()
	assert.Equal(t, Ejecting, r.p.State())
	r.runUntil(200, func() bool { return r.p.state == Ejected })

	assert.False(t, r.p.search(10), "no disc to search")

	r.p.PanelEject()
	assert.Equal(t, Spinup, r.p.State())
	r.runUntil(10, func() bool { return r.p.state == Stopped })
	assert.Equal(t, 1, r.p.FrameNumber())
}

func TestPlayFromParkedSpinsUpFirst(t *testing.T) {
	r := newRig(t, ModelPR7820)
	r.stopped()
	r.p.park()

	r.p.PanelPlay()
	assert.Equal(t, Spinup, r.p.State())
	assert.True(t, r.p.Holding())

	r.runUntil(200, func() bool { return r.p.state == PlayingForward })
	assert.InDelta(t, float64(spinupDelay), float64(r.clock.Now()), float64(2*timing.FieldDuration()))
}

func TestInvalidStatePanics(t *testing.T) {
	r := newRig(t, ModelPR7820)
	r.p.state = numStates
	assert.Panics(t, func() { r.p.VSync() })
}

func TestActivePredicates(t *testing.T) {
	r := newRig(t, ModelPR7820)
	assert.False(t, r.p.VideoActive(), "loading shows nothing")

	r.stopped()
	assert.True(t, r.p.VideoActive())
	assert.False(t, r.p.AudioActive(0), "audio only while playing forward")

	r.p.PanelPlay()
	assert.True(t, r.p.AudioActive(0))
	assert.True(t, r.p.AudioActive(1))

	r.p.PanelToggleAudio(1)
	assert.False(t, r.p.AudioActive(1))

	r.p.Squelch(true, true)
	assert.False(t, r.p.AudioActive(0))
	assert.False(t, r.p.VideoActive())

	r.p.Squelch(false, false)
	assert.False(t, r.p.DisplayActive())
	r.p.PanelToggleDisplay()
	assert.True(t, r.p.DisplayActive())
}

func TestSyntheticFramesShowNumber(t *testing.T) {
	r := newRig(t, ModelPR7820)
	r.stopped()
	r.p.PanelPlay()
	r.vsync(6)

	fb := video.NewFrameBuffer(uint(r.p.Info().Width), uint(r.p.Info().Height))
	number := r.p.Frames().Frame(fb)
	assert.Equal(t, r.p.FrameNumber()-1, number)
}

func testDisc(t *testing.T, leadIn, frames int) *disc.Memory {
	t.Helper()
	info := disc.DefaultInfo()
	info.Width, info.Height = 32, 24

	var buf bytes.Buffer
	require.NoError(t, disc.Generate(&buf, disc.GenerateOptions{
		Info:             info,
		Frames:           frames,
		LeadInTracks:     leadIn,
		FramesPerChapter: 10,
		ToneLeft:         440,
		ToneRight:        880,
	}))
	src, err := disc.NewMemory(buf.Bytes())
	require.NoError(t, err)
	return src
}

func TestDiscBackedLoadSkipsLeadIn(t *testing.T) {
	clock := timing.NewManual()
	p, err := New(Config{Model: ModelPR7820, Disc: testDisc(t, 3, 30), Clock: clock})
	require.NoError(t, err)
	r := &rig{t: t, p: p, clock: clock}

	assert.Equal(t, track.FromInt(34), p.MaxTrack())

	r.runUntil(20, func() bool { return p.state == Stopped })
	assert.Equal(t, 1, p.FrameNumber())
	assert.Equal(t, 1, p.Chapter())
	assert.Equal(t, track.FromInt(4), p.Track())
}

func TestDiscBackedPlayback(t *testing.T) {
	clock := timing.NewManual()
	p, err := New(Config{Model: ModelPR7820, Disc: testDisc(t, 0, 40), Clock: clock})
	require.NoError(t, err)
	r := &rig{t: t, p: p, clock: clock}
	r.stopped()

	r.seek(25)
	assert.Equal(t, 3, p.Chapter())

	p.PanelPlay()
	r.vsync(8)
	assert.Greater(t, p.Audio().Len(), 0)

	fb := video.NewFrameBuffer(uint(p.Info().Width), uint(p.Info().Height))
	assert.Greater(t, p.Frames().Frame(fb), 25)

	// end of the disc autostops
	r.runUntil(100, func() bool { return p.state == Autostopped })
	assert.Equal(t, 40, p.FrameNumber())
}

func TestStatusSnapshot(t *testing.T) {
	r := newRig(t, ModelLDP1450)
	r.stopped()

	s := r.p.Status()
	assert.Equal(t, ModelLDP1450, s.Model)
	assert.Equal(t, Stopped, s.State)
	assert.Equal(t, 1, s.Frame)
	assert.True(t, s.Video)
	assert.False(t, s.Holding)
}

func TestParseModel(t *testing.T) {
	for _, m := range Models() {
		got, err := ParseModel(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	m, err := ParseModel("LD-V1000")
	require.NoError(t, err)
	assert.Equal(t, ModelLDV1000, m)

	_, err = ParseModel("vp931")
	assert.Error(t, err)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "SearchingFrame", SearchingFrame.String())
	assert.Equal(t, "State(99)", State(99).String())
}
