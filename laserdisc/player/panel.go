package player

import "github.com/valerio/go-laserdisc/laserdisc/track"

// Front panel controls. They drive the same transitions as the command
// protocols.

func (p *Player) PanelPlay()                 { p.move(PlayingForward, track.FromInt(PlaySpeed)) }
func (p *Player) PanelPlayReverse()          { p.move(PlayingReverse, -track.FromInt(PlaySpeed)) }
func (p *Player) PanelStill()                { p.still() }
func (p *Player) PanelStepForward()          { p.step(1) }
func (p *Player) PanelStepReverse()          { p.step(-1) }
func (p *Player) PanelScanForward()          { p.move(ScanningForward, track.FromInt(ScanSpeed)) }
func (p *Player) PanelScanReverse()          { p.move(ScanningReverse, -track.FromInt(ScanSpeed)) }
func (p *Player) PanelSearch(frame int) bool { return p.search(frame) }
func (p *Player) PanelToggleAudio(ch int)    { p.toggleAudio(ch) }
func (p *Player) PanelToggleDisplay()        { p.display ^= DisplayEnabled }

// PanelEject opens the tray, or closes it and starts the disc if it is
// already open.
func (p *Player) PanelEject() {
	if p.state == Ejected {
		p.load()
		p.spinup()
		return
	}
	p.eject()
}
