package disc

import (
	"fmt"
	"io"
	"math"

	"github.com/valerio/go-laserdisc/laserdisc/vbi"
	"github.com/valerio/go-laserdisc/laserdisc/video"
)

// Writer appends field hunks to an image after its header.
type Writer struct {
	w       io.Writer
	info    Info
	hunks   int
	written int
	buf     []byte
}

// NewWriter writes the header and returns a Writer expecting exactly
// hunks fields.
func NewWriter(w io.Writer, info Info, hunks int) (*Writer, error) {
	if err := WriteHeader(w, info, hunks); err != nil {
		return nil, err
	}
	return &Writer{
		w:     w,
		info:  info,
		hunks: hunks,
		buf:   make([]byte, info.HunkSize()),
	}, nil
}

// WriteField appends one field.
func (w *Writer) WriteField(meta vbi.Metadata, luma []byte, audio []int16) error {
	if w.written >= w.hunks {
		return fmt.Errorf("%w: image already holds %d hunks", ErrHunkRange, w.hunks)
	}
	w.info.encodeHunk(w.buf, meta, luma, audio)
	if _, err := w.w.Write(w.buf); err != nil {
		return err
	}
	w.written++
	return nil
}

// Close checks that every declared hunk was written.
func (w *Writer) Close() error {
	if w.written != w.hunks {
		return fmt.Errorf("image declares %d hunks but %d were written", w.hunks, w.written)
	}
	return nil
}

// GenerateOptions describes a synthetic test disc.
type GenerateOptions struct {
	Info Info
	// Frames is the number of numbered frames after the lead-in.
	Frames int
	// LeadInTracks is the number of tracks carrying the lead-in code
	// before frame 1.
	LeadInTracks int
	// FramesPerChapter groups frames into chapters on line 16. Zero
	// disables chapter codes.
	FramesPerChapter int
	// ToneLeft and ToneRight are the test tone frequencies in Hz.
	ToneLeft, ToneRight float64
}

// Generate writes a synthetic disc whose fields show their frame number
// and whose audio carries a test tone on each channel.
func Generate(w io.Writer, opts GenerateOptions) error {
	info := opts.Info
	tracks := opts.LeadInTracks + opts.Frames
	out, err := NewWriter(w, info, tracks*2)
	if err != nil {
		return err
	}

	luma := make([]byte, info.Width*info.FieldHeight())
	fieldRate := info.FieldRate()
	var audio []int16

	for t := 0; t < tracks; t++ {
		frame := t - opts.LeadInTracks + 1
		for field := 0; field < 2; field++ {
			fieldIndex := t*2 + field

			var meta vbi.Metadata
			if frame < 1 {
				meta = vbi.Metadata{Version: vbi.Version, Line17: vbi.CodeLeadIn, Line18: vbi.CodeLeadIn}
				if field == 0 {
					meta.FrameFlags = vbi.FrameFirstField
				}
				video.RenderNumberField(luma, info.Width, info.FieldHeight(), 0)
			} else {
				meta = vbi.Synthesize(frame, field)
				if field == 1 {
					meta.FrameFlags = vbi.FrameLastField
				}
				if opts.FramesPerChapter > 0 {
					meta.Line16 = vbi.ChapterCode((frame-1)/opts.FramesPerChapter + 1)
				}
				video.RenderNumberField(luma, info.Width, info.FieldHeight(), frame)
			}

			// distribute the fractional samples per field evenly
			first := int(math.Floor(float64(fieldIndex) * float64(info.SampleRate) / fieldRate))
			next := int(math.Floor(float64(fieldIndex+1) * float64(info.SampleRate) / fieldRate))
			audio = audio[:0]
			for n := first; n < next; n++ {
				seconds := float64(n) / float64(info.SampleRate)
				audio = append(audio,
					toneSample(opts.ToneLeft, seconds),
					toneSample(opts.ToneRight, seconds))
			}

			if err := out.WriteField(meta, luma, audio); err != nil {
				return err
			}
		}
	}
	return out.Close()
}

func toneSample(freq, seconds float64) int16 {
	if freq <= 0 {
		return 0
	}
	return int16(8192 * math.Sin(2*math.Pi*freq*seconds))
}
