// Package vbi decodes the per-field metadata records stored alongside
// each field of a disc image: the frame continuity flags, the white flag
// and the Philips codes carried on lines 16, 17 and 18 of the vertical
// blanking interval.
package vbi

import (
	"github.com/valerio/go-laserdisc/laserdisc/bit"
)

const (
	// Version is the only record layout understood by Parse.
	Version = 2
	// RecordSize is the length in bytes of a version 2 record.
	RecordSize = 12
)

// Frame continuity flags.
const (
	FrameLastField  = 0x01
	FrameFirstField = 0x02
)

// Philips codes with a fixed meaning.
const (
	CodeLeadIn  = 0x88ffff
	CodeLeadOut = 0x80eeee
	CodeStop    = 0x82cfff

	frameMask   = 0xf80000
	chapterMask = 0xf00fff
	chapterCode = 0x800ddd

	// MaxFrame is the largest frame number a Philips frame code can carry.
	MaxFrame = 79999
)

// Metadata is the decoded record for one field.
type Metadata struct {
	Version    uint8
	FrameFlags uint8
	WhiteFlag  uint8
	Line16     uint32
	Line17     uint32
	Line18     uint32
}

// Valid reports whether the record came from a well-formed source.
func (m Metadata) Valid() bool {
	return m.Version == Version
}

// IsLeadIn reports whether the field carries the lead-in marker.
func (m Metadata) IsLeadIn() bool {
	return m.Line17 == CodeLeadIn || m.Line18 == CodeLeadIn
}

// IsLeadOut reports whether the field carries the lead-out marker.
func (m Metadata) IsLeadOut() bool {
	return m.Line17 == CodeLeadOut || m.Line18 == CodeLeadOut
}

// StartsFrame reports whether this field begins a new frame.
func (m Metadata) StartsFrame() bool {
	return m.FrameFlags&FrameFirstField != 0
}

// Parse decodes a raw record. ok is false for nil, short or unknown
// records; callers fall back to Synthesize or treat the field as blank.
func Parse(raw []byte) (m Metadata, ok bool) {
	if len(raw) < RecordSize || raw[0] != Version || raw[1] != RecordSize {
		return Metadata{}, false
	}

	m.Version = raw[0]
	m.FrameFlags = raw[2] & 0x0F
	if bit.IsSet(7, raw[2]) {
		m.WhiteFlag = 1
	}
	m.Line16 = bit.Combine24(raw[3], raw[4], raw[5])
	m.Line17 = bit.Combine24(raw[6], raw[7], raw[8])
	m.Line18 = bit.Combine24(raw[9], raw[10], raw[11])
	return m, true
}

// Encode writes m into dst, which must hold at least RecordSize bytes.
func Encode(m Metadata, dst []byte) {
	dst[0] = Version
	dst[1] = RecordSize
	dst[2] = m.FrameFlags & 0x0F
	if m.WhiteFlag != 0 {
		dst[2] = bit.Set(7, dst[2])
	}
	put24(dst[3:], m.Line16)
	put24(dst[6:], m.Line17)
	put24(dst[9:], m.Line18)
}

func put24(dst []byte, v uint32) {
	dst[0] = byte(v >> 16)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v)
}

// Synthesize builds the record a disc would carry for the given whole
// track and field when no backing store is available. The first field
// of each frame carries the frame code on lines 17 and 18, the second
// field carries nothing.
func Synthesize(track, field int) Metadata {
	m := Metadata{Version: Version}
	if field&1 != 0 {
		return m
	}

	m.FrameFlags = FrameFirstField
	m.WhiteFlag = 1
	code := FrameCode(track)
	m.Line17 = code
	m.Line18 = code
	return m
}

// FrameCode encodes a frame number as a Philips picture number code.
func FrameCode(frame int) uint32 {
	return frameMask | bit.ToBCD(frame, 5)
}

// ChapterCode encodes a chapter number as a Philips chapter code.
func ChapterCode(chapter int) uint32 {
	return chapterCode | bit.ToBCD(chapter, 2)<<12
}

// FrameFromCode extracts a frame number from a single line code. Picture
// numbers start at 1, so a zero code is rejected.
func FrameFromCode(code uint32) (int, bool) {
	if code&frameMask != frameMask {
		return 0, false
	}
	frame, ok := bit.FromBCD(code&0x7ffff, 5)
	if !ok || frame == 0 {
		return 0, false
	}
	return frame, true
}

// ChapterFromCode extracts a chapter number from a single line code.
func ChapterFromCode(code uint32) (int, bool) {
	if code&chapterMask != chapterCode {
		return 0, false
	}
	tens := int((code >> 16) & 0x07)
	units := int(bit.Nibble(code, 3))
	if units > 9 {
		return 0, false
	}
	return tens*10 + units, true
}

// Frame returns the frame number carried by the field, checking line 17
// before line 18.
func (m Metadata) Frame() (int, bool) {
	if frame, ok := FrameFromCode(m.Line17); ok {
		return frame, true
	}
	return FrameFromCode(m.Line18)
}

// Chapter returns the chapter number carried by the field. Lines 17
// and 18 are checked first; mastering tools also put it on line 16.
func (m Metadata) Chapter() (int, bool) {
	for _, code := range [...]uint32{m.Line17, m.Line18, m.Line16} {
		if chapter, ok := ChapterFromCode(code); ok {
			return chapter, true
		}
	}
	return 0, false
}
