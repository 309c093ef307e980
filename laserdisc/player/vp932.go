package player

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-laserdisc/laserdisc/track"
)

// 22VP932 takes ASCII command lines ended by CR or NUL.
const (
	vp932MaxLine = 32

	vp932ReplyStill = "A0\r"
	vp932ReplyPlay  = "A1\r"
)

var vp932Digits = digitTable{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9'}

type vp932 struct {
	p *Player

	line     []byte
	overflow bool
	out      fifo

	reply           string
	playAfterSearch bool
}

func newVP932(p *Player) *vp932 {
	return &vp932{p: p, line: make([]byte, 0, vp932MaxLine)}
}

func (c *vp932) model() Model { return Model22VP932 }

func (c *vp932) reset() {
	c.line = c.line[:0]
	c.overflow = false
	c.out.clear()
	c.reply = ""
	c.playAfterSearch = false
}

func (c *vp932) readData() (byte, bool) {
	return c.out.pop()
}

func (c *vp932) readLine(line Line) (LineState, bool) {
	if line != LineDataAvailable {
		return Clear, false
	}
	return lineState(!c.out.empty()), true
}

func (c *vp932) writeData(data byte) {
	if data == '\r' || data == 0 {
		if c.overflow {
			slog.Debug("22vp932: discarding long line")
		} else if len(c.line) > 0 {
			c.execute(string(c.line))
		}
		c.line = c.line[:0]
		c.overflow = false
		return
	}
	if len(c.line) >= vp932MaxLine {
		c.overflow = true
		return
	}
	c.line = append(c.line, data)
}

func (c *vp932) stateChanged(prev State) {
	p := c.p
	if c.reply == "" || prev != SearchingFrame || p.state != SearchFinished {
		return
	}
	c.out.pushString(c.reply)
	c.reply = ""
	if c.playAfterSearch {
		c.playAfterSearch = false
		p.move(PlayingForward, track.FromInt(PlaySpeed))
	}
}

func (c *vp932) execute(cmd string) {
	p := c.p
	p.commands++

	if cmd[0] == 'F' {
		c.frameCommand(cmd[1:])
		return
	}

	switch cmd {
	case "N":
		p.move(PlayingForward, track.FromInt(PlaySpeed))
	case "O":
		p.move(PlayingReverse, -track.FromInt(PlaySpeed))
	case "*":
		p.still()
	case "+":
		p.step(1)
	case "-":
		p.step(-1)
	case "L":
		p.move(ScanningForward, track.FromInt(ScanSpeed))
	case "M":
		p.move(ScanningReverse, -track.FromInt(ScanSpeed))
	case "X":
		p.reset()
	case "E":
		p.eject()
	case "D0", "D1":
		p.setDisplay(cmd[1] == '1')
	case "V0", "V1":
		p.setVideo(cmd[1] == '1')
	case "A0", "A1":
		p.setAudio(0, cmd[1] == '1')
		p.setAudio(1, cmd[1] == '1')
	case "?F":
		c.out.pushString(fmt.Sprintf("F%05d\r", p.lastframe))
	case "?C":
		c.out.pushString(fmt.Sprintf("C%02d\r", p.lastchapter))
	case "?S":
		c.out.pushString(fmt.Sprintf("S%02d\r", int(p.state)))
	default:
		p.commands--
		slog.Debug("22vp932: unknown command", "line", cmd)
	}
}

// frameCommand handles F<frame>R (search and still) and F<frame>N
// (search and play).
func (c *vp932) frameCommand(arg string) {
	param := newParameter()
	i := 0
	for ; i < len(arg); i++ {
		d, ok := vp932Digits.lookup(arg[i])
		if !ok {
			break
		}
		param.push(d)
	}

	if !param.set() || i != len(arg)-1 || (arg[i] != 'R' && arg[i] != 'N') {
		c.p.commands--
		slog.Debug("22vp932: malformed frame command", "arg", arg)
		return
	}
	if !c.p.search(param.get(0)) {
		return
	}
	c.playAfterSearch = arg[i] == 'N'
	c.reply = vp932ReplyStill
	if c.playAfterSearch {
		c.reply = vp932ReplyPlay
	}
}
