package player

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-laserdisc/laserdisc/track"
)

// LDP-1450 serial command bytes. Every byte the player understands is
// acknowledged; a search additionally reports completion.
const (
	ldp1450Ack       = 0x0a
	ldp1450Nak       = 0x0b
	ldp1450Complete  = 0x01
	ldp1450Enter     = 0x40
	ldp1450Search    = 0x43
	ldp1450Clear     = 0x41
	ldp1450ClearAll  = 0x56
	ldp1450Play      = 0x3a
	ldp1450FastFwd   = 0x3b
	ldp1450SlowFwd   = 0x3c
	ldp1450StepFwd   = 0x3d
	ldp1450ScanFwd   = 0x3e
	ldp1450Stop      = 0x3f
	ldp1450PlayRev   = 0x4a
	ldp1450FastRev   = 0x4b
	ldp1450SlowRev   = 0x4c
	ldp1450StepRev   = 0x4d
	ldp1450ScanRev   = 0x4e
	ldp1450Still     = 0x4f
	ldp1450Ch1On     = 0x46
	ldp1450Ch1Off    = 0x47
	ldp1450Ch2On     = 0x48
	ldp1450Ch2Off    = 0x49
	ldp1450VideoOff  = 0x26
	ldp1450VideoOn   = 0x27
	ldp1450Eject     = 0x2a
	ldp1450MotorOn   = 0x62
	ldp1450MotorOff  = 0x63
	ldp1450AddrInq   = 0x60
	ldp1450StatusInq = 0x67
)

var ldp1450Digits = digitTable{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9'}

type ldp1450 struct {
	p *Player

	param     parameter
	pending   byte
	out       fifo
	searching bool
}

func newLDP1450(p *Player) *ldp1450 {
	return &ldp1450{p: p, param: newParameter()}
}

func (c *ldp1450) model() Model { return ModelLDP1450 }

func (c *ldp1450) reset() {
	c.param.clear()
	c.pending = 0
	c.out.clear()
	c.searching = false
}

func (c *ldp1450) readData() (byte, bool) {
	return c.out.pop()
}

func (c *ldp1450) readLine(line Line) (LineState, bool) {
	if line != LineDataAvailable {
		return Clear, false
	}
	return lineState(!c.out.empty()), true
}

func (c *ldp1450) stateChanged(prev State) {
	if c.searching && prev == SearchingFrame && c.p.state == SearchFinished {
		c.searching = false
		c.out.push(ldp1450Complete)
	}
}

func (c *ldp1450) writeData(data byte) {
	if d, ok := ldp1450Digits.lookup(data); ok {
		c.param.push(d)
		c.out.push(ldp1450Ack)
		return
	}

	p := c.p
	switch data {
	case ldp1450AddrInq:
		p.commands++
		c.out.pushString(fmt.Sprintf("%05d", p.lastframe))
		return
	case ldp1450StatusInq:
		p.commands++
		for _, b := range c.statusBlock() {
			c.out.push(b)
		}
		return
	case ldp1450Search:
		c.pending = data
		c.param.clear()
		c.out.push(ldp1450Ack)
		return
	case ldp1450Enter:
		c.enter()
		return
	case ldp1450Clear:
		c.param.clear()
		c.out.push(ldp1450Ack)
		return
	}

	if !c.command(data) {
		slog.Debug("ldp1450: unknown command", "code", data)
		c.out.push(ldp1450Nak)
		return
	}
	p.commands++
	c.searching = false
	c.pending = 0
	c.param.clear()
	c.out.push(ldp1450Ack)
}

func (c *ldp1450) enter() {
	p := c.p
	if c.pending == ldp1450Search && p.search(c.param.get(0)) {
		p.commands++
		c.searching = true
		c.out.push(ldp1450Ack)
	} else {
		c.out.push(ldp1450Nak)
	}
	c.pending = 0
	c.param.clear()
}

// command runs an immediate command and reports whether it knew it.
func (c *ldp1450) command(data byte) bool {
	p := c.p
	switch data {
	case ldp1450ClearAll:
	case ldp1450Play:
		p.move(PlayingForward, track.FromInt(PlaySpeed))
	case ldp1450FastFwd:
		p.move(PlayingFastForward, track.FromInt(FastSpeed))
	case ldp1450SlowFwd:
		p.move(PlayingSlowForward, track.FromInt(PlaySpeed).Div(SlowDivisor))
	case ldp1450StepFwd:
		p.step(1)
	case ldp1450ScanFwd:
		p.move(ScanningForward, track.FromInt(ScanSpeed))
	case ldp1450Stop, ldp1450Still:
		p.still()
	case ldp1450PlayRev:
		p.move(PlayingReverse, -track.FromInt(PlaySpeed))
	case ldp1450FastRev:
		p.move(PlayingFastReverse, -track.FromInt(FastSpeed))
	case ldp1450SlowRev:
		p.move(PlayingSlowReverse, -track.FromInt(PlaySpeed).Div(SlowDivisor))
	case ldp1450StepRev:
		p.step(-1)
	case ldp1450ScanRev:
		p.move(ScanningReverse, -track.FromInt(ScanSpeed))
	case ldp1450Ch1On:
		p.setAudio(0, true)
	case ldp1450Ch1Off:
		p.setAudio(0, false)
	case ldp1450Ch2On:
		p.setAudio(1, true)
	case ldp1450Ch2Off:
		p.setAudio(1, false)
	case ldp1450VideoOff:
		p.setVideo(false)
	case ldp1450VideoOn:
		p.setVideo(true)
	case ldp1450Eject:
		p.eject()
	case ldp1450MotorOn:
		p.spinup()
	case ldp1450MotorOff:
		p.park()
	default:
		return false
	}
	return true
}

// statusBlock is the 5 byte reply to a status inquiry: mode, error,
// audio channels, video/overlay and mechanism flags.
func (c *ldp1450) statusBlock() [5]byte {
	p := c.p
	var b [5]byte

	b[0] = byte(p.state)
	if p.Holding() || p.state.seeking() {
		b[0] |= 0x80
	}
	if p.audio&AudioChannel0 != 0 {
		b[2] |= 0x01
	}
	if p.audio&AudioChannel1 != 0 {
		b[2] |= 0x02
	}
	if p.video&VideoEnabled != 0 {
		b[3] |= 0x01
	}
	if p.display&DisplayEnabled != 0 {
		b[3] |= 0x02
	}
	if !p.state.idle() {
		b[4] |= 0x01
	}
	if p.state == Ejected || p.state == Ejecting {
		b[4] |= 0x02
	}
	return b
}
