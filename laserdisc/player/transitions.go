package player

import (
	"log/slog"
	"time"

	"github.com/valerio/go-laserdisc/laserdisc/track"
	"github.com/valerio/go-laserdisc/laserdisc/vbi"
)

const (
	spinupDelay = 2 * time.Second
	ejectDelay  = 1500 * time.Millisecond
)

func (p *Player) setState(s State, speed track.Frac) {
	p.state = s
	p.curfracspeed = speed
}

func (p *Player) cancelHold() {
	p.holdfinished = 0
}

// holdFor parks the machine in holdState with the head still for d,
// after which vsync switches to postState at postSpeed. A hold issued
// while another is pending keeps the pending transition and only moves
// the deadline later.
func (p *Player) holdFor(d time.Duration, holdState, postState State, postSpeed track.Frac) {
	if p.Holding() {
		postState, postSpeed = p.postholdstate, p.postholdfracspeed
	}
	if d <= 0 {
		if !p.Holding() {
			p.setState(postState, postSpeed)
		}
		return
	}
	deadline := p.clock.Now() + d
	if deadline < p.holdfinished {
		deadline = p.holdfinished
	}
	p.setState(holdState, 0)
	p.holdfinished = deadline
	p.postholdstate = postState
	p.postholdfracspeed = postSpeed
	slog.Debug("hold", "state", holdState, "then", postState, "for", d)
}

// search seeks to frame and stills there.
func (p *Player) search(frame int) bool {
	if frame <= 0 || frame > vbi.MaxFrame {
		slog.Debug("search out of range", "frame", frame)
		return false
	}
	if p.state == Ejected || p.state == Ejecting {
		slog.Debug("search with no disc", "state", p.state)
		return false
	}
	p.cancelHold()
	p.setState(SearchingFrame, track.FromInt(SearchSpeed))
	p.targetframe = frame
	return true
}

// playTo plays forward and autostops on frame.
func (p *Player) playTo(frame int) {
	if frame <= 0 {
		return
	}
	p.move(PlayingForward, track.FromInt(PlaySpeed))
	p.targetframe = frame
}

// move starts a motion mode. A stopped disc spins up first when asked to
// play; other modes need a spinning disc.
func (p *Player) move(s State, speed track.Frac) {
	if p.state.idle() || (p.state == Spinup && p.Holding()) {
		if s == PlayingForward {
			p.spinupThenPlay()
		} else {
			slog.Debug("ignoring motion on stopped disc", "state", p.state, "want", s)
		}
		return
	}
	p.cancelHold()
	p.targetframe = 0
	p.setState(s, speed)
}

func (p *Player) still() {
	if p.state.idle() {
		return
	}
	p.cancelHold()
	p.targetframe = 0
	p.setState(Stopped, 0)
}

// step moves one frame in direction dir (+1 or -1) and stops.
func (p *Player) step(dir int) {
	if p.state.idle() {
		return
	}
	target := p.estimatedFrame() + dir
	if target < 1 {
		return
	}
	p.cancelHold()
	if dir > 0 {
		p.setState(SteppingForward, track.One)
	} else {
		p.setState(SteppingReverse, -track.One)
	}
	p.targetframe = target
}

func (p *Player) eject() {
	if p.state == Ejected || p.state == Ejecting {
		return
	}
	p.cancelHold()
	p.targetframe = 0
	p.holdFor(ejectDelay, Ejecting, Ejected, 0)
}

// load closes the tray.
func (p *Player) load() {
	if p.state != Ejected {
		return
	}
	p.setState(Loaded, 0)
}

func (p *Player) park() {
	p.cancelHold()
	p.targetframe = 0
	p.setState(Parked, 0)
}

// spinup brings an idle disc up to speed and stops on frame 1.
func (p *Player) spinup() {
	if !p.state.idle() || p.state == Ejecting {
		return
	}
	p.cancelHold()
	p.setState(Spinup, track.FromInt(SearchSpeed))
	p.targetframe = 1
}

// spinupThenPlay gives an idle disc time to come up to speed and then
// plays from where the head rests.
func (p *Player) spinupThenPlay() {
	p.cancelHold()
	p.targetframe = 0
	p.holdFor(spinupDelay, Spinup, PlayingForward, track.FromInt(PlaySpeed))
}

func (p *Player) reset() {
	slog.Info("player reset by command", "model", p.model)
	p.Reset()
}
