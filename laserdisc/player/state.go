package player

import "fmt"

// State is the playback state of the disc mechanism.
type State int

const (
	Ejected State = iota
	Ejecting
	Loaded
	Loading
	Parked
	Spinup
	SearchingFrame
	SearchFinished
	Stopped
	Autostopped
	PlayingForward
	PlayingReverse
	PlayingSlowForward
	PlayingSlowReverse
	PlayingFastForward
	PlayingFastReverse
	SteppingForward
	SteppingReverse
	ScanningForward
	ScanningReverse

	numStates
)

var stateNames = [numStates]string{
	"Ejected",
	"Ejecting",
	"Loaded",
	"Loading",
	"Parked",
	"Spinup",
	"SearchingFrame",
	"SearchFinished",
	"Stopped",
	"Autostopped",
	"PlayingForward",
	"PlayingReverse",
	"PlayingSlowForward",
	"PlayingSlowReverse",
	"PlayingFastForward",
	"PlayingFastReverse",
	"SteppingForward",
	"SteppingReverse",
	"ScanningForward",
	"ScanningReverse",
}

func (s State) String() string {
	if s < 0 || s >= numStates {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// idle states are the ones where the disc is not spinning.
func (s State) idle() bool {
	switch s {
	case Ejected, Ejecting, Loaded, Parked:
		return true
	}
	return false
}

// seeking states move toward a target without showing video.
func (s State) seeking() bool {
	switch s {
	case Loading, Spinup, SearchingFrame:
		return true
	}
	return false
}

// showsVideo reports whether the state presents a picture.
func (s State) showsVideo() bool {
	switch s {
	case SearchFinished, Stopped, Autostopped,
		PlayingForward, PlayingReverse,
		PlayingSlowForward, PlayingSlowReverse,
		PlayingFastForward, PlayingFastReverse,
		SteppingForward, SteppingReverse,
		ScanningForward, ScanningReverse:
		return true
	}
	return false
}
