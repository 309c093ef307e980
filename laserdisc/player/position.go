package player

import "github.com/valerio/go-laserdisc/laserdisc/track"

// backwardBias is how far past the target a blind reverse seek aims, so
// that it approaches the final frames moving forward.
const backwardBias = 2

// estimatedFrame extrapolates the frame under the head from the last
// decoded frame and the tracks moved since.
func (p *Player) estimatedFrame() int {
	return p.lastframe + (p.curfractrack.Int() - p.lastframeTrack)
}

// estimateExact reports whether the estimate can stand in for a decode:
// the previous field carried a frame code and the head has only moved
// by whole tracks since.
func (p *Player) estimateExact() bool {
	return p.fieldnum == p.lastframeField+1 &&
		p.curfractrack == track.FromInt(p.curfractrack.Int())
}

// updatePosition moves the head for one field and reports whether the
// target was reached or passed, or the head hit the end of the disc.
func (p *Player) updatePosition(field int) bool {
	if p.state.idle() {
		return false
	}

	var hit bool
	if p.videoActive() {
		hit = p.advanceWithVideo(field)
	} else {
		var stay bool
		if hit, stay = p.advanceBlind(field); stay {
			return hit
		}
	}

	var clamped bool
	p.curfractrack, clamped = p.curfractrack.Clamp(track.One, p.maxfractrack-track.One)
	return hit || clamped
}

// advanceBlind moves by half the commanded speed per field, steering
// toward the target from the estimated frame. stay is set when the head
// must not move this field.
func (p *Player) advanceBlind(field int) (hit, stay bool) {
	meta := p.metadata[field]
	advance := p.curfracspeed / 2

	switch {
	case p.targetframe != 0 && p.lastframe == 0:
		// nothing decoded yet: skip lead-in quickly, otherwise creep
		// forward until a frame code shows up
		advance = track.One
		if meta.IsLeadIn() {
			advance = track.FromInt(LeadInSkip)
		}

	case meta.IsLeadIn() && p.targetframe == 0 && p.curfracspeed != 0:
		advance = track.FromInt(LeadInSkip)

	case p.targetframe != 0:
		delta := p.targetframe - p.estimatedFrame()
		if delta == 0 {
			if !p.frameFresh && !p.estimateExact() {
				return false, true
			}
			p.lastframe, p.lastframeTrack = p.estimatedFrame(), p.curfractrack.Int()
			return true, true
		}
		if !p.state.seeking() && (delta > 0) != (p.curfracspeed > 0) {
			return true, true
		}

		limit := (p.curfracspeed / 2).Abs()
		if limit < track.One {
			limit = track.One
		}
		if delta < -backwardBias {
			delta -= backwardBias
		}
		advance = track.FromInt(delta)
		if advance > limit {
			advance = limit
		} else if advance < -limit {
			advance = -limit
		}
		// aim inside the disc; only the commanded speed may run off it
		if lo := track.One - p.curfractrack; advance < lo {
			advance = lo
		}
		if hi := p.maxfractrack - track.One - p.curfractrack; advance > hi {
			advance = hi
		}
	}

	p.curfractrack += advance
	return false, false
}

// advanceWithVideo moves by the commanded speed once per frame, on the
// second field, never carrying the head past the target track.
func (p *Player) advanceWithVideo(field int) bool {
	armed := p.targetframe != 0 && p.lastframe != 0

	if field == 1 {
		advance := p.curfracspeed
		if armed {
			dist := track.FromInt(p.targetframe - p.estimatedFrame())
			if advance > 0 && dist >= 0 && advance > dist {
				advance = dist
			}
			if advance < 0 && dist <= 0 && advance < dist {
				advance = dist
			}
		}
		p.curfractrack += advance
	}

	if !armed {
		return false
	}
	if p.curfracspeed >= 0 {
		return p.lastframe >= p.targetframe
	}
	return p.lastframe <= p.targetframe
}
