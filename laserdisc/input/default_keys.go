package input

import "github.com/valerio/go-laserdisc/laserdisc/input/action"

// DefaultKeyMap provides default key mappings that work across backends.
// Backends can use these mappings as a base and override/extend as needed.
var DefaultKeyMap = map[string]action.Action{
	// Front panel
	"p":         action.PanelPlay,
	"Enter":     action.PanelPlay,
	"r":         action.PanelPlayReverse,
	"Space":     action.PanelStill,
	"Right":     action.PanelStepForward,
	"Left":      action.PanelStepReverse,
	"]":         action.PanelScanForward,
	"[":         action.PanelScanReverse,
	"s":         action.PanelSearch,
	"e":         action.PanelEject,
	"Backspace": action.PanelEject,
	"F1":        action.PanelAudio1,
	"F2":        action.PanelAudio2,
	"d":         action.PanelDisplay,

	"0": action.PanelDigit0,
	"1": action.PanelDigit1,
	"2": action.PanelDigit2,
	"3": action.PanelDigit3,
	"4": action.PanelDigit4,
	"5": action.PanelDigit5,
	"6": action.PanelDigit6,
	"7": action.PanelDigit7,
	"8": action.PanelDigit8,
	"9": action.PanelDigit9,

	// Emulator controls
	"F9":     action.EmulatorSnapshot,
	"Pause":  action.EmulatorPauseToggle,
	"F5":     action.EmulatorPauseToggle, // Alternative key
	"Escape": action.EmulatorQuit,
	"q":      action.EmulatorQuit,
}

// GetDefaultMapping returns the default action for a key, if one exists
func GetDefaultMapping(key string) (action.Action, bool) {
	act, ok := DefaultKeyMap[key]
	return act, ok
}
