package player

import "fmt"

// Line names a control line between the host and the player.
type Line int

const (
	// inputs, driven by the host
	LineEnter Line = iota
	LineControl
	LineReset

	// outputs, sensed by the host
	LineReady
	LineStatusStrobe
	LineCommandStrobe
	LineDataAvailable

	NumLines
)

var lineNames = [NumLines]string{
	"enter", "control", "reset", "ready", "status", "command", "data-available",
}

func (l Line) String() string {
	if l < 0 || l >= NumLines {
		return fmt.Sprintf("Line(%d)", int(l))
	}
	return lineNames[l]
}

// IsInput reports whether the host drives the line.
func (l Line) IsInput() bool {
	return l >= LineEnter && l <= LineReset
}

// ParseLine looks a line up by name.
func ParseLine(name string) (Line, error) {
	for i, n := range lineNames {
		if n == name {
			return Line(i), nil
		}
	}
	return 0, fmt.Errorf("unknown line %q", name)
}

// LineState is the level of a control line.
type LineState uint8

const (
	Clear LineState = iota
	Asserted
)

func (s LineState) String() string {
	if s == Asserted {
		return "asserted"
	}
	return "clear"
}

func lineState(asserted bool) LineState {
	if asserted {
		return Asserted
	}
	return Clear
}
