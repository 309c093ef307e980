package player

// AVMask holds the enable bits for audio channels, video or the overlay.
type AVMask uint8

const (
	AudioChannel0  AVMask = 0x01
	AudioChannel1  AVMask = 0x02
	VideoEnabled   AVMask = 0x01
	DisplayEnabled AVMask = 0x01

	// Squelched mutes the output regardless of the enable bits.
	Squelched AVMask = 0x80
)

func channelBit(ch int) AVMask {
	return AudioChannel0 << uint(ch&1)
}

func (p *Player) videoActive() bool {
	return p.state.showsVideo() && p.video&VideoEnabled != 0 && p.video&Squelched == 0
}

func (p *Player) audioActive(ch int) bool {
	return p.state == PlayingForward && p.audio&channelBit(ch) != 0 && p.audio&Squelched == 0
}

func (p *Player) displayActive() bool {
	return p.videoActive() && p.display&DisplayEnabled != 0
}

// VideoActive reports whether the current field is being shown.
func (p *Player) VideoActive() bool { return p.videoActive() }

// AudioActive reports whether channel ch is audible.
func (p *Player) AudioActive(ch int) bool { return p.audioActive(ch) }

// DisplayActive reports whether the frame number overlay is shown.
func (p *Player) DisplayActive() bool { return p.displayActive() }

func (p *Player) setAudio(ch int, on bool) {
	if on {
		p.audio |= channelBit(ch)
	} else {
		p.audio &^= channelBit(ch)
	}
}

func (p *Player) toggleAudio(ch int) {
	p.audio ^= channelBit(ch)
}

func (p *Player) setVideo(on bool) {
	if on {
		p.video |= VideoEnabled
	} else {
		p.video &^= VideoEnabled
	}
}

func (p *Player) setDisplay(on bool) {
	if on {
		p.display |= DisplayEnabled
	} else {
		p.display &^= DisplayEnabled
	}
}

// Squelch mutes (or unmutes) audio and video as a host mute line would.
func (p *Player) Squelch(audio, video bool) {
	if audio {
		p.audio |= Squelched
	} else {
		p.audio &^= Squelched
	}
	if video {
		p.video |= Squelched
	} else {
		p.video &^= Squelched
	}
}
