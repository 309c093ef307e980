package player

import (
	"log/slog"
	"time"

	"github.com/valerio/go-laserdisc/laserdisc/track"
)

// PR-8210 commands arrive as pulses on the control line. The gap between
// two pulses encodes one bit; a long gap starts a new word.
const (
	pr8210WordGap  = 3 * time.Millisecond
	pr8210OneWidth = 1580 * time.Microsecond
	pr8210WordBits = 10
	pr8210Valid    = 1 << 9

	pr8210Clear   = 0x00
	pr8210StepRev = 0x02
	pr8210ScanFwd = 0x04
	pr8210Audio2  = 0x07
	pr8210Pause   = 0x0a
	pr8210Search  = 0x0b
	pr8210ScanRev = 0x0c
	pr8210FastFwd = 0x10
	pr8210SlowFwd = 0x12
	pr8210Play    = 0x14
	pr8210Reject  = 0x16
	pr8210FastRev = 0x18
	pr8210StepFwd = 0x1a
	pr8210SlowRev = 0x1c
	pr8210Audio1  = 0x1e
)

var pr8210Digits = digitTable{0x01, 0x11, 0x09, 0x19, 0x05, 0x15, 0x0d, 0x1d, 0x03, 0x13}

type pr8210 struct {
	p *Player

	control   LineState
	lastPulse time.Duration
	pulsed    bool

	bits     uint16
	bitCount int

	words     [3]uint16
	wordCount int

	seekArmed bool
	param     parameter
}

func newPR8210(p *Player) *pr8210 {
	return &pr8210{p: p, param: newParameter()}
}

func (c *pr8210) model() Model { return ModelPR8210 }

func (c *pr8210) reset() {
	c.control = Clear
	c.pulsed = false
	c.bits, c.bitCount = 0, 0
	c.wordCount = 0
	c.seekArmed = false
	c.param.clear()
}

func (c *pr8210) writeLine(line Line, state LineState) bool {
	if line != LineControl {
		return false
	}
	if state == Asserted && c.control == Clear {
		c.pulse(c.p.clock.Now())
	}
	c.control = state
	return true
}

func (c *pr8210) pulse(now time.Duration) {
	delta := now - c.lastPulse
	first := !c.pulsed
	c.lastPulse = now
	c.pulsed = true

	if first || delta >= pr8210WordGap {
		c.bits, c.bitCount = 0, 0
		return
	}

	if delta >= pr8210OneWidth {
		c.bits |= 1 << c.bitCount
	}
	c.bitCount++
	if c.bitCount == pr8210WordBits {
		word := c.bits
		c.bits, c.bitCount = 0, 0
		c.word(word)
	}
}

// word collects words in threes. A second word that disagrees with the
// first replaces it; the third word of a run is executed.
func (c *pr8210) word(w uint16) {
	c.words[c.wordCount] = w
	c.wordCount++

	if c.wordCount == 2 && c.words[0] != c.words[1] {
		c.words[0] = c.words[1]
		c.wordCount = 1
		return
	}
	if c.wordCount == 3 {
		c.wordCount = 0
		c.execute(c.words[2])
	}
}

func (c *pr8210) execute(w uint16) {
	if w&pr8210Valid == 0 {
		slog.Debug("pr8210: invalid word", "word", w)
		return
	}
	code := byte(w>>2) & 0x1f

	p := c.p
	if d, ok := pr8210Digits.lookup(code); ok {
		c.param.push(d)
		return
	}

	p.commands++
	if code == pr8210Search {
		if !c.seekArmed {
			c.seekArmed = true
			c.param.clear()
			return
		}
		c.seekArmed = false
		p.search(c.param.get(0))
		c.param.clear()
		return
	}

	switch code {
	case pr8210Clear:
	case pr8210StepRev:
		p.step(-1)
	case pr8210ScanFwd:
		p.move(ScanningForward, track.FromInt(ScanSpeed))
	case pr8210Audio2:
		p.toggleAudio(1)
	case pr8210Pause:
		p.still()
	case pr8210ScanRev:
		p.move(ScanningReverse, -track.FromInt(ScanSpeed))
	case pr8210FastFwd:
		p.move(PlayingFastForward, track.FromInt(FastSpeed))
	case pr8210SlowFwd:
		p.move(PlayingSlowForward, track.FromInt(PlaySpeed).Div(SlowDivisor))
	case pr8210Play:
		if p.state.idle() {
			p.spinupThenPlay()
		} else {
			p.move(PlayingForward, track.FromInt(PlaySpeed))
		}
	case pr8210Reject:
		p.eject()
	case pr8210FastRev:
		p.move(PlayingFastReverse, -track.FromInt(FastSpeed))
	case pr8210StepFwd:
		p.step(1)
	case pr8210SlowRev:
		p.move(PlayingSlowReverse, -track.FromInt(PlaySpeed).Div(SlowDivisor))
	case pr8210Audio1:
		p.toggleAudio(0)
	default:
		p.commands--
		slog.Debug("pr8210: unknown command", "code", code)
		return
	}
	c.seekArmed = false
	c.param.clear()
}
