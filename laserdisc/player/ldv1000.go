package player

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/valerio/go-laserdisc/laserdisc/track"
)

// LD-V1000 talks over a parallel port polled by the host at two strobe
// windows after each vsync. Command bytes share PR-7820's encoding.
const (
	ldv1000GetFrame   = 0xc2
	ldv1000GetDisplay = 0xc3
	ldv1000DumpRAM    = 0xcc
	ldv1000DisplayOn  = 0xce
	ldv1000DisplayOff = 0xcb
	ldv1000Sync       = 0xff

	ldv1000ReadyMask = 0xff
	ldv1000BusyMask  = 0x7f

	ldv1000StatusStart  = 600 * time.Microsecond
	ldv1000StatusEnd    = 626 * time.Microsecond
	ldv1000CommandStart = 684 * time.Microsecond
	ldv1000CommandEnd   = 709 * time.Microsecond
)

// status bytes reported for each state
const (
	ldv1000Parked    = 0xfc
	ldv1000Spinup    = 0xc8
	ldv1000Searching = 0xd0
	ldv1000Still     = 0xe5
	ldv1000Autostop  = 0xd4
	ldv1000Play      = 0xe4
	ldv1000Reverse   = 0xe6
	ldv1000Slow      = 0xe2
	ldv1000Fast      = 0xe8
)

type ldv1000 struct {
	p *Player

	ready    bool
	param    parameter
	readback []byte
	ram      [pr7820RAMSize]byte
}

func newLDV1000(p *Player) *ldv1000 {
	return &ldv1000{p: p, ready: true, param: newParameter()}
}

func (c *ldv1000) model() Model { return ModelLDV1000 }

func (c *ldv1000) reset() {
	c.ready = true
	c.param.clear()
	c.readback = nil
}

func (c *ldv1000) writeData(data byte) {
	if data == ldv1000Sync {
		c.ready = true
		return
	}
	if !c.ready {
		return
	}
	c.ready = false
	c.execute(data)
}

func (c *ldv1000) readData() (byte, bool) {
	if len(c.readback) > 0 {
		b := c.readback[0]
		c.readback = c.readback[1:]
		return b, true
	}
	mask := byte(ldv1000BusyMask)
	if c.ready {
		mask = ldv1000ReadyMask
	}
	return c.status() & mask, true
}

func (c *ldv1000) readLine(line Line) (LineState, bool) {
	since := c.p.clock.Now() - c.p.lastvsync
	switch line {
	case LineStatusStrobe:
		return lineState(since >= ldv1000StatusStart && since < ldv1000StatusEnd), true
	case LineCommandStrobe:
		return lineState(since >= ldv1000CommandStart && since < ldv1000CommandEnd), true
	}
	return Clear, false
}

func (c *ldv1000) status() byte {
	switch c.p.state {
	case Loading, Spinup:
		return ldv1000Spinup
	case SearchingFrame:
		return ldv1000Searching
	case SearchFinished, Stopped:
		return ldv1000Still
	case Autostopped:
		return ldv1000Autostop
	case PlayingForward:
		return ldv1000Play
	case PlayingReverse:
		return ldv1000Reverse
	case PlayingSlowForward, PlayingSlowReverse, SteppingForward, SteppingReverse:
		return ldv1000Slow
	case PlayingFastForward, PlayingFastReverse, ScanningForward, ScanningReverse:
		return ldv1000Fast
	}
	return ldv1000Parked
}

func (c *ldv1000) execute(data byte) {
	if d, ok := pr7820Digits.lookup(data); ok {
		c.param.push(d)
		return
	}

	p := c.p
	p.commands++
	switch data {
	case pr7820Play:
		p.move(PlayingForward, track.FromInt(PlaySpeed))
	case pr7820PlayReverse:
		p.move(PlayingReverse, -track.FromInt(PlaySpeed))
	case pr7820Stop:
		p.still()
	case pr7820Search:
		p.search(c.param.get(0))
	case pr7820Autostop:
		p.playTo(c.param.get(0))
	case pr7820Reject:
		p.park()
	case pr7820Clear:
	case pr7820StepFwd:
		p.step(1)
	case pr7820StepRev:
		p.step(-1)
	case pr7820SlowFwd:
		p.move(PlayingSlowForward, track.FromInt(PlaySpeed).Div(c.param.get(SlowDivisor)))
	case pr7820SlowRev:
		p.move(PlayingSlowReverse, -track.FromInt(PlaySpeed).Div(c.param.get(SlowDivisor)))
	case pr7820FastFwd:
		p.move(PlayingFastForward, track.FromInt(FastSpeed))
	case pr7820FastRev:
		p.move(PlayingFastReverse, -track.FromInt(FastSpeed))
	case pr7820ScanFwd:
		p.move(ScanningForward, track.FromInt(ScanSpeed))
	case pr7820ScanRev:
		p.move(ScanningReverse, -track.FromInt(ScanSpeed))
	case pr7820Store:
		storeFrame(c.ram[:], c.param.get(0), p.lastframe)
	case pr7820Recall:
		p.search(recallFrame(c.ram[:], c.param.get(0)))
	case pr7820Audio1:
		p.toggleAudio(0)
	case pr7820Audio2:
		p.toggleAudio(1)
	case pr7820VideoOn:
		p.setVideo(true)
	case pr7820VideoOff:
		p.setVideo(false)
	case pr7820Start:
		if p.state.idle() {
			p.spinupThenPlay()
		}
	case ldv1000GetFrame:
		c.readback = []byte(fmt.Sprintf("%05d", p.lastframe))
	case ldv1000GetDisplay:
		c.readback = []byte(fmt.Sprintf("%05d-%02d", p.lastframe, p.lastchapter))
	case ldv1000DumpRAM:
		c.readback = append([]byte(nil), c.ram[:]...)
	case ldv1000DisplayOn:
		p.setDisplay(true)
	case ldv1000DisplayOff:
		p.setDisplay(false)
	default:
		p.commands--
		slog.Debug("ldv1000: unknown command", "code", data)
	}
	c.param.clear()
}
