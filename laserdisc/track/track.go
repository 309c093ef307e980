// Package track implements the fixed-point track arithmetic used by the
// position model. A track is one revolution of the disc; on CAV discs a
// track holds exactly one frame (two fields).
package track

// FracBits is the number of fractional bits in a Frac.
const FracBits = 12

const (
	// One is exactly one track.
	One Frac = 1 << FracBits
	// Half is half a track, the distance covered by one field at play speed.
	Half Frac = One / 2

	fracMask = One - 1
)

// Frac is a signed track position or per-frame track delta with
// FracBits bits of fraction.
type Frac int32

// FromInt converts a whole number of tracks.
func FromInt(tracks int) Frac {
	return Frac(tracks) << FracBits
}

// Int returns the whole track, truncated toward negative infinity.
func (f Frac) Int() int {
	return int(f >> FracBits)
}

// Div divides a track delta by an integer divisor, used for slow speeds.
func (f Frac) Div(n int) Frac {
	if n <= 1 {
		return f
	}
	return f / Frac(n)
}

// Abs returns the magnitude of f.
func (f Frac) Abs() Frac {
	if f < 0 {
		return -f
	}
	return f
}

// Round snaps to the nearest whole track after a state change. Ties on
// the first field of a frame round down, ties on the second round up.
func (f Frac) Round(field int) Frac {
	bias := Half
	if field&1 == 0 {
		bias--
	}
	return (f + bias) &^ fracMask
}

// Clamp limits f to [lo, hi] and reports whether it had to.
func (f Frac) Clamp(lo, hi Frac) (Frac, bool) {
	switch {
	case f < lo:
		return lo, true
	case f > hi:
		return hi, true
	}
	return f, false
}
