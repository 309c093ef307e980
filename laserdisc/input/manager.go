package input

import (
	"log/slog"
	"time"

	"github.com/valerio/go-laserdisc/laserdisc/input/action"
	"github.com/valerio/go-laserdisc/laserdisc/input/event"
	"github.com/valerio/go-laserdisc/laserdisc/player"
)

const (
	// debounceDuration is the minimum time between debounced events
	debounceDuration = 300 * time.Millisecond

	// entryLimit keeps typed frame numbers to five digits
	entryLimit = 100000
)

// Manager handles input actions and their associated callbacks
type Manager struct {
	handlers      map[action.Action]map[event.Type][]func()
	lastTriggered map[action.Action]map[event.Type]time.Time
	now           func() time.Time

	// entry is the frame number typed so far, -1 when empty
	entry int
}

func NewManager() *Manager {
	return &Manager{
		handlers:      make(map[action.Action]map[event.Type][]func()),
		lastTriggered: make(map[action.Action]map[event.Type]time.Time),
		now:           time.Now,
		entry:         -1,
	}
}

// On registers a callback for a specific action and event type
func (m *Manager) On(act action.Action, evt event.Type, callback func()) {
	if m.handlers[act] == nil {
		m.handlers[act] = make(map[event.Type][]func())
	}
	m.handlers[act][evt] = append(m.handlers[act][evt], callback)
}

// Trigger handles the given action and event type.
func (m *Manager) Trigger(act action.Action, evt event.Type) {
	if d, ok := act.Digit(); ok {
		// digits are typed in bursts, never debounced
		if evt == event.Press {
			m.enter(d)
		}
		return
	}

	if evt == event.Press || evt == event.Release {
		now := m.now()
		if m.lastTriggered[act] == nil {
			m.lastTriggered[act] = make(map[event.Type]time.Time)
		}
		if now.Sub(m.lastTriggered[act][evt]) < debounceDuration {
			return
		}
		m.lastTriggered[act][evt] = now
	}

	for _, callback := range m.handlers[act][evt] {
		callback()
	}
}

func (m *Manager) enter(d int) {
	if m.entry < 0 {
		m.entry = 0
	}
	m.entry = (m.entry*10 + d) % entryLimit
}

// Entry returns the frame number typed so far and clears it.
func (m *Manager) Entry() (int, bool) {
	n := m.entry
	m.entry = -1
	return n, n >= 0
}

// BindPanel routes the panel actions to the player's front panel.
func (m *Manager) BindPanel(p *player.Player) {
	press := func(act action.Action, fn func()) { m.On(act, event.Press, fn) }

	press(action.PanelPlay, p.PanelPlay)
	press(action.PanelPlayReverse, p.PanelPlayReverse)
	press(action.PanelStill, p.PanelStill)
	press(action.PanelStepForward, p.PanelStepForward)
	press(action.PanelStepReverse, p.PanelStepReverse)
	press(action.PanelScanForward, p.PanelScanForward)
	press(action.PanelScanReverse, p.PanelScanReverse)
	press(action.PanelEject, p.PanelEject)
	press(action.PanelAudio1, func() { p.PanelToggleAudio(0) })
	press(action.PanelAudio2, func() { p.PanelToggleAudio(1) })
	press(action.PanelDisplay, p.PanelToggleDisplay)
	press(action.PanelSearch, func() {
		frame, ok := m.Entry()
		if !ok {
			frame = 1
		}
		if !p.PanelSearch(frame) {
			slog.Info("search rejected", "frame", frame, "state", p.State())
		}
	})
}
