// Package disc reads and writes laserdisc images: a header describing the
// video and audio format followed by one fixed-size hunk per field.
package disc

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrBadMagic         = errors.New("not a laserdisc image")
	ErrUnsupportedCodec = errors.New("unsupported codec")
	ErrBadMetadata      = errors.New("malformed AV metadata")
	ErrNotInterlaced    = errors.New("video is not interlaced")
	ErrBadHunkSize      = errors.New("hunk size does not match metadata")
	ErrHunkRange        = errors.New("hunk out of range")
	ErrReadPending      = errors.New("a read is already pending")
)

const metadataFormat = "FPS:%d.%06d WIDTH:%d HEIGHT:%d INTERLACED:%d CHANNELS:%d SAMPLERATE:%d"

// Info describes the audio/video format of an image.
type Info struct {
	FrameRate  float64
	Width      int
	Height     int
	Interlaced bool
	Channels   int
	SampleRate int
}

// DefaultInfo is the NTSC format used by generated images and by the
// player when no image is attached.
func DefaultInfo() Info {
	return Info{
		FrameRate:  30000.0 / 1001.0,
		Width:      720,
		Height:     480,
		Interlaced: true,
		Channels:   2,
		SampleRate: 44100,
	}
}

// ParseMetadata parses the AV metadata string stored in the header.
func ParseMetadata(s string) (Info, error) {
	var (
		fpsInt, fpsFrac, interlaced int
		info                        Info
	)

	n, err := fmt.Sscanf(s, metadataFormat, &fpsInt, &fpsFrac, &info.Width, &info.Height,
		&interlaced, &info.Channels, &info.SampleRate)
	if err != nil || n != 7 {
		return Info{}, fmt.Errorf("%w: %q", ErrBadMetadata, s)
	}
	info.FrameRate = float64(fpsInt) + float64(fpsFrac)/1000000
	info.Interlaced = interlaced != 0

	if err := info.Validate(); err != nil {
		return Info{}, err
	}
	return info, nil
}

// Validate checks that the format is one the player can use.
func (i Info) Validate() error {
	switch {
	case !i.Interlaced:
		return ErrNotInterlaced
	case i.Width <= 0 || i.Height <= 0 || i.Height%2 != 0:
		return fmt.Errorf("%w: bad dimensions %dx%d", ErrBadMetadata, i.Width, i.Height)
	case i.Channels != 2:
		return fmt.Errorf("%w: %d audio channels", ErrBadMetadata, i.Channels)
	case i.SampleRate <= 0 || i.FrameRate <= 0:
		return fmt.Errorf("%w: bad rates", ErrBadMetadata)
	}
	return nil
}

// MetadataString renders the header metadata string.
func (i Info) MetadataString() string {
	whole := int(i.FrameRate)
	frac := int(math.Round((i.FrameRate - float64(whole)) * 1000000))
	interlaced := 0
	if i.Interlaced {
		interlaced = 1
	}
	return fmt.Sprintf(metadataFormat, whole, frac, i.Width, i.Height, interlaced, i.Channels, i.SampleRate)
}

// FieldRate is twice the frame rate for interlaced video.
func (i Info) FieldRate() float64 {
	return i.FrameRate * 2
}

// FieldHeight is the number of rows in one field.
func (i Info) FieldHeight() int {
	return i.Height / 2
}

// MaxPairsPerField is the largest number of stereo sample pairs a hunk
// can carry.
func (i Info) MaxPairsPerField() int {
	return int(math.Ceil(float64(i.SampleRate)/i.FieldRate())) + 1
}

func (i Info) lumaSize() int {
	return i.Width * i.FieldHeight()
}

// HunkSize is the size of one field hunk in bytes.
func (i Info) HunkSize() int {
	return vbiSize + i.lumaSize() + 2 + i.MaxPairsPerField()*i.Channels*2
}
