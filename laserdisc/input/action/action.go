package action

// Action represents input actions that can be performed in the emulator
type Action int

const (
	// Player front panel
	PanelPlay Action = iota
	PanelPlayReverse
	PanelStill
	PanelStepForward
	PanelStepReverse
	PanelScanForward
	PanelScanReverse
	PanelSearch
	PanelEject
	PanelAudio1
	PanelAudio2
	PanelDisplay

	// Number entry for PanelSearch
	PanelDigit0
	PanelDigit1
	PanelDigit2
	PanelDigit3
	PanelDigit4
	PanelDigit5
	PanelDigit6
	PanelDigit7
	PanelDigit8
	PanelDigit9

	// Emulator features
	EmulatorSnapshot
	EmulatorPauseToggle
	EmulatorQuit
)

// Digit returns the value of a number entry action.
func (a Action) Digit() (int, bool) {
	if a >= PanelDigit0 && a <= PanelDigit9 {
		return int(a - PanelDigit0), true
	}
	return 0, false
}
