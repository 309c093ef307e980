package player

import (
	"log/slog"
	"time"

	"github.com/valerio/go-laserdisc/laserdisc/bit"
	"github.com/valerio/go-laserdisc/laserdisc/track"
)

// PR-7820 command codes. A data byte is latched and executed on the
// rising edge of ENTER.
const (
	pr7820Play        = 0xfd
	pr7820PlayReverse = 0xfa
	pr7820Stop        = 0xfb
	pr7820Search      = 0xf7
	pr7820Autostop    = 0xf3
	pr7820Reject      = 0xf9
	pr7820Clear       = 0xbf
	pr7820StepFwd     = 0xfe
	pr7820StepRev     = 0xfc
	pr7820SlowFwd     = 0xef
	pr7820SlowRev     = 0xed
	pr7820FastFwd     = 0xdf
	pr7820FastRev     = 0xdd
	pr7820ScanFwd     = 0xcf
	pr7820ScanRev     = 0xcd
	pr7820Store       = 0xf5
	pr7820Recall      = 0xf1
	pr7820Audio1      = 0xf4
	pr7820Audio2      = 0xf2
	pr7820VideoOn     = 0xf0
	pr7820VideoOff    = 0xeb
	pr7820DisplayOn   = 0xe9
	pr7820DisplayOff  = 0xe7
	pr7820Start       = 0xf6
	pr7820Reset       = 0xf8
	pr7820Program     = 0xe1
	pr7820EndProgram  = 0xe3
	pr7820Run         = 0xe5
	pr7820NoEntry     = 0xff

	pr7820RAMSize  = 1024
	pr7820WaitUnit = 100 * time.Millisecond
)

var pr7820Digits = digitTable{0x3f, 0x0f, 0x8f, 0x4f, 0x2f, 0xaf, 0x6f, 0x1f, 0x9f, 0x5f}

type pr7820 struct {
	p *Player

	latch byte
	enter LineState
	param parameter
	ram   [pr7820RAMSize]byte

	programming bool
	running     bool
	pc          int
}

func newPR7820(p *Player) *pr7820 {
	return &pr7820{p: p, param: newParameter()}
}

func (c *pr7820) model() Model { return ModelPR7820 }

func (c *pr7820) reset() {
	c.latch = 0
	c.enter = Clear
	c.param.clear()
	c.programming = false
	c.running = false
	c.pc = 0
}

func (c *pr7820) writeData(data byte) {
	c.latch = data
}

func (c *pr7820) writeLine(line Line, state LineState) bool {
	switch line {
	case LineEnter:
		if state == Asserted && c.enter == Clear {
			c.enter = state
			c.entered(c.latch)
			return true
		}
		c.enter = state
		return true
	case LineReset:
		if state == Asserted {
			c.p.reset()
		}
		return true
	}
	return false
}

func (c *pr7820) readLine(line Line) (LineState, bool) {
	if line != LineReady {
		return Clear, false
	}
	return lineState(c.ready() && !c.running), true
}

// ready is false while the mechanism is busy with a command.
func (c *pr7820) ready() bool {
	p := c.p
	if p.Holding() || p.targetframe != 0 {
		return false
	}
	switch p.state {
	case Ejecting, Loading, Spinup, SearchingFrame, SteppingForward, SteppingReverse:
		return false
	}
	return true
}

func (c *pr7820) entered(data byte) {
	if !c.programming {
		c.manual(data)
		return
	}

	c.ram[c.pc] = data
	c.pc = (c.pc + 1) % pr7820RAMSize
	if data == pr7820EndProgram {
		c.programming = false
		slog.Debug("pr7820: program stored", "end", c.pc)
	}
}

// fieldTick runs one program byte per field while the player is ready.
func (c *pr7820) fieldTick() {
	if !c.running || !c.ready() {
		return
	}
	data := c.ram[c.pc]
	c.pc = (c.pc + 1) % pr7820RAMSize
	if data == pr7820EndProgram || data == pr7820Run {
		c.running = false
		slog.Debug("pr7820: program finished", "pc", c.pc)
		return
	}
	c.manual(data)
}

func (c *pr7820) manual(data byte) {
	if d, ok := pr7820Digits.lookup(data); ok {
		c.param.push(d)
		return
	}
	if data == pr7820NoEntry {
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
		if wait := c.param.get(0); wait > 0 && !p.state.idle() {
			p.holdFor(time.Duration(wait)*pr7820WaitUnit, Stopped, p.state, p.curfracspeed)
		} else {
			p.still()
		}
	case pr7820Search:
		p.search(c.param.get(0))
	case pr7820Autostop:
		p.playTo(c.param.get(0))
	case pr7820Reject:
		p.eject()
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
	case pr7820DisplayOn:
		p.setDisplay(true)
	case pr7820DisplayOff:
		p.setDisplay(false)
	case pr7820Start:
		if p.state.idle() {
			p.spinupThenPlay()
		}
	case pr7820Reset:
		p.reset()
	case pr7820Program:
		c.programming = true
		c.pc = c.param.get(0) % pr7820RAMSize
	case pr7820Run:
		c.running = true
		c.pc = c.param.get(0) % pr7820RAMSize
	default:
		p.commands--
		slog.Debug("pr7820: unknown command", "code", data)
	}
	c.param.clear()
}

// storeFrame and recallFrame keep 16-bit frame numbers in 2-byte RAM
// cells, big endian.
func storeFrame(ram []byte, cell, frame int) {
	at := (cell * 2) % len(ram)
	ram[at] = bit.High(uint16(frame))
	ram[at+1] = bit.Low(uint16(frame))
}

func recallFrame(ram []byte, cell int) int {
	at := (cell * 2) % len(ram)
	return int(bit.Combine(ram[at], ram[at+1]))
}
