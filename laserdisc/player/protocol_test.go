package player

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-laserdisc/laserdisc/timing"
	"github.com/valerio/go-laserdisc/laserdisc/track"
)

func (r *rig) enter7820(codes ...byte) {
	for _, b := range codes {
		require.True(r.t, r.p.WriteData(b))
		require.True(r.t, r.p.WriteLine(LineEnter, Asserted))
		require.True(r.t, r.p.WriteLine(LineEnter, Clear))
	}
}

func (r *rig) readAll() []byte {
	var out []byte
	for {
		b, ok := r.p.ReadData()
		if !ok {
			return out
		}
		out = append(out, b)
	}
}

func (r *rig) line(l Line) LineState {
	state, ok := r.p.ReadLine(l)
	require.True(r.t, ok, "line %v not driven", l)
	return state
}

func TestFIFODropsOldest(t *testing.T) {
	var f fifo
	for i := 0; i < fifoSize+3; i++ {
		f.push(byte(i))
	}
	first, ok := f.pop()
	require.True(t, ok)
	assert.Equal(t, byte(3), first)

	f.clear()
	assert.True(t, f.empty())
	_, ok = f.pop()
	assert.False(t, ok)
}

func TestParameter(t *testing.T) {
	p := newParameter()
	assert.False(t, p.set())
	assert.Equal(t, 7, p.get(7))

	for _, d := range []int{1, 2, 3, 4, 5, 6} {
		p.push(d)
	}
	assert.Equal(t, 23456, p.get(0), "keeps the last five digits")

	p.clear()
	assert.Equal(t, -1, p.get(-1))
}

func TestPR7820Search(t *testing.T) {
	r := newRig(t, ModelPR7820)
	r.stopped()
	assert.Equal(t, Asserted, r.line(LineReady))

	// digits 1 0 0, then search
	r.enter7820(0x0f, 0x3f, 0x3f, pr7820Search)
	assert.Equal(t, SearchingFrame, r.p.State())
	assert.Equal(t, 100, r.p.TargetFrame())
	assert.Equal(t, Clear, r.line(LineReady))
	assert.Equal(t, uint64(1), r.p.Commands())

	r.runUntil(10, func() bool { return r.p.state == SearchFinished })
	assert.Equal(t, 100, r.p.FrameNumber())
	assert.Equal(t, Asserted, r.line(LineReady))
}

func TestPR7820ExecutesOnRisingEdgeOnly(t *testing.T) {
	r := newRig(t, ModelPR7820)
	r.stopped()

	r.p.WriteData(pr7820Play)
	assert.Equal(t, Stopped, r.p.State(), "latched, not executed")

	r.p.WriteLine(LineEnter, Asserted)
	assert.Equal(t, PlayingForward, r.p.State())

	r.p.WriteData(pr7820Stop)
	r.p.WriteLine(LineEnter, Asserted)
	assert.Equal(t, PlayingForward, r.p.State(), "level held, no new edge")
}

func TestPR7820TimedStop(t *testing.T) {
	r := newRig(t, ModelPR7820)
	r.stopped()
	r.enter7820(pr7820Play)
	r.vsync(4)

	// wait 3 x 100ms then resume playing
	r.enter7820(0x4f, pr7820Stop)
	assert.Equal(t, Stopped, r.p.State())
	assert.True(t, r.p.Holding())

	fields := r.runUntil(40, func() bool { return r.p.state == PlayingForward })
	assert.InDelta(t, 18, fields, 1)
	assert.Equal(t, track.One, r.p.Speed())
}

func TestPR7820TimedStopDuringSpinup(t *testing.T) {
	r := newRig(t, ModelPR7820)
	r.stopped()
	r.p.park()

	start := r.clock.Now()
	r.enter7820(pr7820Start)
	require.Equal(t, Spinup, r.p.State())

	// a 100ms wait must not lose the pending play
	r.enter7820(0x0f, pr7820Stop)
	assert.Equal(t, Stopped, r.p.State())
	assert.True(t, r.p.Holding())

	r.runUntil(200, func() bool { return r.p.state == PlayingForward })
	assert.Equal(t, track.One, r.p.Speed())
	assert.InDelta(t, float64(spinupDelay), float64(r.clock.Now()-start), float64(2*timing.FieldDuration()))
	assert.Equal(t, Asserted, r.line(LineReady))
}

func TestPR7820TimedStopExtendsWait(t *testing.T) {
	r := newRig(t, ModelPR7820)
	r.stopped()
	r.enter7820(pr7820Play)
	r.vsync(4)

	r.enter7820(0x4f, pr7820Stop)
	r.vsync(2)
	start := r.clock.Now()
	r.enter7820(0xaf, pr7820Stop)
	assert.Equal(t, Stopped, r.p.State())

	r.runUntil(60, func() bool { return r.p.state == PlayingForward })
	assert.Equal(t, track.One, r.p.Speed())
	assert.InDelta(t, float64(500*time.Millisecond), float64(r.clock.Now()-start), float64(2*timing.FieldDuration()))
}

func TestPR7820StoreRecall(t *testing.T) {
	r := newRig(t, ModelPR7820)
	r.stopped()
	r.seek(321)

	// store into cell 4
	r.enter7820(0x2f, pr7820Store)
	r.seek(10)

	r.enter7820(0x2f, pr7820Recall)
	assert.Equal(t, 321, r.p.TargetFrame())
	r.runUntil(10, func() bool { return r.p.state == SearchFinished })
	assert.Equal(t, 321, r.p.FrameNumber())
}

func TestPR7820SlowUsesDivisor(t *testing.T) {
	r := newRig(t, ModelPR7820)
	r.stopped()

	r.enter7820(pr7820SlowFwd)
	assert.Equal(t, track.One/SlowDivisor, r.p.Speed())

	// divisor 2
	r.enter7820(0x8f, pr7820SlowRev)
	assert.Equal(t, PlayingSlowReverse, r.p.State())
	assert.Equal(t, -track.One/2, r.p.Speed())
}

func TestPR7820Program(t *testing.T) {
	r := newRig(t, ModelPR7820)
	r.stopped()
	c := r.p.proto.(*pr7820)

	// program at 0: digits 2 0, search, end
	r.enter7820(pr7820Program, 0x8f, 0x3f, pr7820Search, pr7820EndProgram)
	assert.False(t, c.programming)
	assert.Equal(t, Stopped, r.p.State(), "storing does not execute")
	assert.Equal(t, byte(pr7820Search), c.ram[2])

	r.enter7820(pr7820Run)
	assert.Equal(t, Clear, r.line(LineReady), "busy while running")

	r.runUntil(20, func() bool { return !c.running })
	assert.Equal(t, SearchFinished, r.p.State())
	assert.Equal(t, 20, r.p.FrameNumber())
	assert.Equal(t, Asserted, r.line(LineReady))
}

func TestPR7820IgnoresUnknown(t *testing.T) {
	r := newRig(t, ModelPR7820)
	r.stopped()

	r.enter7820(0x00, pr7820NoEntry)
	assert.Equal(t, uint64(0), r.p.Commands())
	assert.Equal(t, Stopped, r.p.State())
}

func TestPR7820ResetLine(t *testing.T) {
	r := newRig(t, ModelPR7820)
	r.stopped()
	r.enter7820(pr7820Play)

	assert.True(t, r.p.WriteLine(LineReset, Asserted))
	assert.Equal(t, Loading, r.p.State())
	assert.False(t, r.p.WriteLine(LineControl, Asserted))
}

func TestPR7820HasNoDataOutput(t *testing.T) {
	r := newRig(t, ModelPR7820)
	_, ok := r.p.ReadData()
	assert.False(t, ok)
	_, ok = r.p.ReadLine(LineStatusStrobe)
	assert.False(t, ok)
}

// pulse8210 sends a word three times, bit 0 first, after a word gap.
func (r *rig) pulse8210(words ...uint16) {
	r.clock.Advance(5 * time.Millisecond)
	r.p.WriteLine(LineControl, Asserted)
	r.p.WriteLine(LineControl, Clear)
	for _, w := range words {
		for i := 0; i < pr8210WordBits; i++ {
			if w&(1<<i) != 0 {
				r.clock.Advance(2110 * time.Microsecond)
			} else {
				r.clock.Advance(1050 * time.Microsecond)
			}
			r.p.WriteLine(LineControl, Asserted)
			r.p.WriteLine(LineControl, Clear)
		}
	}
}

func word8210(code byte) uint16 {
	return pr8210Valid | uint16(code)<<2
}

func (r *rig) send8210(codes ...byte) {
	for _, code := range codes {
		w := word8210(code)
		r.pulse8210(w, w, w)
	}
}

func TestPR8210DecodesTriplet(t *testing.T) {
	r := newRig(t, ModelPR8210)
	r.stopped()
	c := r.p.proto.(*pr8210)

	r.pulse8210(0x200, 0x200, 0x200)
	assert.Equal(t, [3]uint16{0x200, 0x200, 0x200}, c.words)
	assert.Equal(t, 0, c.wordCount)
	assert.Equal(t, uint64(1), r.p.Commands(), "clear dispatched once")
}

func TestPR8210WindowShift(t *testing.T) {
	r := newRig(t, ModelPR8210)
	r.stopped()

	scan := word8210(pr8210ScanFwd)
	r.pulse8210(word8210(pr8210FastFwd), scan, scan, scan)
	assert.Equal(t, uint64(1), r.p.Commands())
	assert.Equal(t, ScanningForward, r.p.State())
}

func TestPR8210IgnoresInvalidWords(t *testing.T) {
	r := newRig(t, ModelPR8210)
	r.stopped()

	w := uint16(pr8210Play) << 2
	r.pulse8210(w, w, w)
	assert.Equal(t, uint64(0), r.p.Commands())
	assert.Equal(t, Stopped, r.p.State())
}

func TestPR8210LongGapRestartsWord(t *testing.T) {
	r := newRig(t, ModelPR8210)
	r.stopped()
	c := r.p.proto.(*pr8210)

	r.pulse8210()
	r.clock.Advance(1050 * time.Microsecond)
	r.p.WriteLine(LineControl, Asserted)
	r.p.WriteLine(LineControl, Clear)
	assert.Equal(t, 1, c.bitCount)

	r.clock.Advance(4 * time.Millisecond)
	r.p.WriteLine(LineControl, Asserted)
	assert.Equal(t, 0, c.bitCount)
}

func TestPR8210Search(t *testing.T) {
	r := newRig(t, ModelPR8210)
	r.stopped()

	// arm, 4 2, commit
	r.send8210(pr8210Search, 0x05, 0x09, pr8210Search)
	assert.Equal(t, SearchingFrame, r.p.State())
	assert.Equal(t, 42, r.p.TargetFrame())

	r.runUntil(10, func() bool { return r.p.state == SearchFinished })
	assert.Equal(t, 42, r.p.FrameNumber())
}

func TestPR8210PlayFromParked(t *testing.T) {
	r := newRig(t, ModelPR8210)
	r.stopped()
	r.p.park()

	r.send8210(pr8210Play)
	assert.Equal(t, Spinup, r.p.State())
	r.runUntil(200, func() bool { return r.p.state == PlayingForward })
}

func TestPR8210AudioToggles(t *testing.T) {
	r := newRig(t, ModelPR8210)
	r.stopped()
	r.send8210(pr8210Play)

	r.send8210(pr8210Audio1)
	assert.False(t, r.p.AudioActive(0))
	assert.True(t, r.p.AudioActive(1))

	r.send8210(pr8210Audio2, pr8210Audio1)
	assert.True(t, r.p.AudioActive(0))
	assert.False(t, r.p.AudioActive(1))
}

func (r *rig) sendLDV(codes ...byte) {
	for _, b := range codes {
		r.p.WriteData(ldv1000Sync)
		r.p.WriteData(b)
	}
}

func TestLDV1000BusyReady(t *testing.T) {
	r := newRig(t, ModelLDV1000)
	r.stopped()

	status, ok := r.p.ReadData()
	require.True(t, ok)
	assert.Equal(t, byte(ldv1000Still), status)

	r.p.WriteData(pr7820Play)
	status, _ = r.p.ReadData()
	assert.Equal(t, byte(ldv1000Play&ldv1000BusyMask), status)

	r.p.WriteData(pr7820Stop)
	assert.Equal(t, PlayingForward, r.p.State(), "ignored while busy")

	r.p.WriteData(ldv1000Sync)
	status, _ = r.p.ReadData()
	assert.Equal(t, byte(ldv1000Play), status)

	r.p.WriteData(pr7820Stop)
	assert.Equal(t, Stopped, r.p.State())
}

func TestLDV1000StatusTable(t *testing.T) {
	r := newRig(t, ModelLDV1000)
	status := func() byte {
		r.p.WriteData(ldv1000Sync)
		b, _ := r.p.ReadData()
		return b
	}

	assert.Equal(t, byte(ldv1000Spinup), status())
	r.stopped()
	assert.Equal(t, byte(ldv1000Still), status())

	r.sendLDV(0x3f, 0x0f, pr7820Search)
	assert.Equal(t, byte(ldv1000Searching), status())

	r.sendLDV(pr7820ScanRev)
	assert.Equal(t, byte(ldv1000Fast), status())

	r.sendLDV(pr7820Reject)
	assert.Equal(t, Parked, r.p.State())
	assert.Equal(t, byte(ldv1000Parked), status())
}

func TestLDV1000Strobes(t *testing.T) {
	r := newRig(t, ModelLDV1000)
	r.vsync(1)
	base := r.clock.Now()

	tests := []struct {
		after           time.Duration
		status, command LineState
	}{
		{0, Clear, Clear},
		{599 * time.Microsecond, Clear, Clear},
		{600 * time.Microsecond, Asserted, Clear},
		{625 * time.Microsecond, Asserted, Clear},
		{626 * time.Microsecond, Clear, Clear},
		{684 * time.Microsecond, Clear, Asserted},
		{708 * time.Microsecond, Clear, Asserted},
		{709 * time.Microsecond, Clear, Clear},
	}
	for _, tt := range tests {
		r.clock.Set(base + tt.after)
		assert.Equal(t, tt.status, r.line(LineStatusStrobe), "status at %v", tt.after)
		assert.Equal(t, tt.command, r.line(LineCommandStrobe), "command at %v", tt.after)
	}
}

func TestLDV1000ReadBack(t *testing.T) {
	r := newRig(t, ModelLDV1000)
	r.stopped()

	// search 1234
	r.sendLDV(0x0f, 0x8f, 0x4f, 0x2f, pr7820Search)
	r.runUntil(10, func() bool { return r.p.state == SearchFinished })

	r.sendLDV(ldv1000GetFrame)
	got := make([]byte, 5)
	for i := range got {
		got[i], _ = r.p.ReadData()
	}
	assert.Equal(t, "01234", string(got))

	r.sendLDV(ldv1000GetDisplay)
	got = make([]byte, 8)
	for i := range got {
		got[i], _ = r.p.ReadData()
	}
	assert.Equal(t, "01234-00", string(got))

	// then back to status
	b, _ := r.p.ReadData()
	assert.Equal(t, byte(ldv1000Still&ldv1000BusyMask), b)
}

func TestLDV1000DumpRAM(t *testing.T) {
	r := newRig(t, ModelLDV1000)
	r.stopped()
	r.seek(300)

	// store frame 300 in cell 1, then dump
	r.sendLDV(0x0f, pr7820Store, ldv1000DumpRAM)
	dump := make([]byte, pr7820RAMSize)
	for i := range dump {
		dump[i], _ = r.p.ReadData()
	}
	assert.Equal(t, []byte{0x01, 0x2c}, dump[2:4])
}

func TestLDP1450SearchAckAndCompletion(t *testing.T) {
	r := newRig(t, ModelLDP1450)
	r.stopped()
	assert.Equal(t, Clear, r.line(LineDataAvailable))

	for _, b := range []byte{ldp1450Search, '1', '0', '0', ldp1450Enter} {
		r.p.WriteData(b)
	}
	assert.Equal(t, Asserted, r.line(LineDataAvailable))
	assert.Equal(t, []byte{ldp1450Ack, ldp1450Ack, ldp1450Ack, ldp1450Ack, ldp1450Ack}, r.readAll())
	assert.Equal(t, SearchingFrame, r.p.State())

	r.runUntil(10, func() bool { return r.p.state == SearchFinished })
	assert.Equal(t, []byte{ldp1450Complete}, r.readAll())
	assert.Equal(t, 100, r.p.FrameNumber())
}

func TestLDP1450Nak(t *testing.T) {
	r := newRig(t, ModelLDP1450)
	r.stopped()

	r.p.WriteData(0xff)
	r.p.WriteData(ldp1450Enter)
	assert.Equal(t, []byte{ldp1450Nak, ldp1450Nak}, r.readAll())
	assert.Equal(t, uint64(0), r.p.Commands())
}

func TestLDP1450Commands(t *testing.T) {
	r := newRig(t, ModelLDP1450)
	r.stopped()

	tests := []struct {
		code  byte
		state State
	}{
		{ldp1450Play, PlayingForward},
		{ldp1450FastRev, PlayingFastReverse},
		{ldp1450ScanFwd, ScanningForward},
		{ldp1450Still, Stopped},
		{ldp1450SlowFwd, PlayingSlowForward},
		{ldp1450Stop, Stopped},
		{ldp1450MotorOff, Parked},
		{ldp1450MotorOn, Spinup},
	}
	for _, tt := range tests {
		r.p.WriteData(tt.code)
		assert.Equal(t, tt.state, r.p.State(), "code 0x%02x", tt.code)
		assert.Equal(t, []byte{ldp1450Ack}, r.readAll())
	}
}

func TestLDP1450Inquiries(t *testing.T) {
	r := newRig(t, ModelLDP1450)
	r.stopped()
	r.seek(4321)

	r.p.WriteData(ldp1450AddrInq)
	assert.Equal(t, "04321", string(r.readAll()))

	r.p.WriteData(ldp1450Ch2Off)
	r.readAll()
	r.p.WriteData(ldp1450StatusInq)
	block := r.readAll()
	require.Len(t, block, 5)
	assert.Equal(t, byte(SearchFinished), block[0])
	assert.Equal(t, byte(0x01), block[2])
	assert.Equal(t, byte(0x01), block[4])
}

func (r *rig) sendVP932(line string) {
	for i := 0; i < len(line); i++ {
		r.p.WriteData(line[i])
	}
}

func TestVP932SearchReplies(t *testing.T) {
	r := newRig(t, Model22VP932)
	r.stopped()

	r.sendVP932("F500R\r")
	assert.Equal(t, SearchingFrame, r.p.State())
	assert.Equal(t, Clear, r.line(LineDataAvailable))

	r.runUntil(10, func() bool { return r.p.state == SearchFinished })
	assert.Equal(t, Asserted, r.line(LineDataAvailable))
	assert.Equal(t, "A0\r", string(r.readAll()))

	r.sendVP932("F20N\x00")
	r.runUntil(10, func() bool { return r.p.state == PlayingForward })
	assert.Equal(t, "A1\r", string(r.readAll()))
	assert.Equal(t, 20, r.p.FrameNumber())
}

func TestVP932Inquiries(t *testing.T) {
	r := newRig(t, Model22VP932)
	r.stopped()
	r.seek(77)

	r.sendVP932("?F\r?C\r?S\r")
	assert.Equal(t, "F00077\rC00\rS07\r", string(r.readAll()))
}

func TestVP932Lines(t *testing.T) {
	r := newRig(t, Model22VP932)
	r.stopped()

	r.sendVP932("N\r")
	assert.Equal(t, PlayingForward, r.p.State())

	r.sendVP932("*\r")
	assert.Equal(t, Stopped, r.p.State())

	r.sendVP932("A0\r")
	assert.Equal(t, AVMask(0), r.p.audio&(AudioChannel0|AudioChannel1))

	r.sendVP932("D1\r")
	assert.True(t, r.p.DisplayActive())

	commands := r.p.Commands()
	r.sendVP932("Q\r")
	r.sendVP932("F12Z\r")
	r.sendVP932(strings.Repeat("N", vp932MaxLine+1) + "\r")
	assert.Equal(t, commands, r.p.Commands())
	assert.Equal(t, Stopped, r.p.State())

	r.sendVP932("X\r")
	assert.Equal(t, Loading, r.p.State())
}
