package disc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	magic = "LDIMAGE1"
	codec = "avhu"
)

// Source is the backing store the player reads fields from. Reads are
// asynchronous: BeginRead starts one and PollRead collects it without
// blocking. Only one read may be outstanding.
type Source interface {
	Info() Info
	// Hunks is the number of field hunks in the image.
	Hunks() int
	// Configure sets the decode options for the next read of hunk.
	Configure(hunk int, opts DecodeOptions) error
	// BeginRead starts reading hunk into buf, which must hold
	// Info().HunkSize() bytes and must not be touched until PollRead
	// reports completion.
	BeginRead(hunk int, buf []byte) error
	// PollRead reports whether a read completed since the last call. It
	// returns false when the read is still in flight or none is pending.
	PollRead() (bool, error)
	// Close waits for any pending read and releases the image.
	Close() error
}

// Header is the fixed part of an image file.
type Header struct {
	Info     Info
	Hunks    int
	HunkSize int
}

// Tracks is the number of whole tracks (frames) in the image.
func (h Header) Tracks() int {
	return h.Hunks / 2
}

// ReadHeader parses and validates the header at the start of r.
func ReadHeader(r io.Reader) (Header, int64, error) {
	var fixed [len(magic) + len(codec) + 2]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return Header{}, 0, fmt.Errorf("%w: %v", ErrBadMagic, err)
	}
	if string(fixed[:len(magic)]) != magic {
		return Header{}, 0, ErrBadMagic
	}
	if c := string(fixed[len(magic) : len(magic)+len(codec)]); c != codec {
		return Header{}, 0, fmt.Errorf("%w: %q", ErrUnsupportedCodec, c)
	}

	metaLen := binary.BigEndian.Uint16(fixed[len(magic)+len(codec):])
	meta := make([]byte, metaLen)
	if _, err := io.ReadFull(r, meta); err != nil {
		return Header{}, 0, fmt.Errorf("%w: %v", ErrBadMetadata, err)
	}
	info, err := ParseMetadata(string(meta))
	if err != nil {
		return Header{}, 0, err
	}

	var counts [8]byte
	if _, err := io.ReadFull(r, counts[:]); err != nil {
		return Header{}, 0, fmt.Errorf("%w: %v", ErrBadMetadata, err)
	}
	h := Header{
		Info:     info,
		Hunks:    int(binary.BigEndian.Uint32(counts[0:])),
		HunkSize: int(binary.BigEndian.Uint32(counts[4:])),
	}
	if h.HunkSize != info.HunkSize() {
		return Header{}, 0, fmt.Errorf("%w: header says %d, expected %d", ErrBadHunkSize, h.HunkSize, info.HunkSize())
	}

	offset := int64(len(fixed)) + int64(metaLen) + int64(len(counts))
	return h, offset, nil
}

// WriteHeader writes the header for an image of the given format.
func WriteHeader(w io.Writer, info Info, hunks int) error {
	if err := info.Validate(); err != nil {
		return err
	}

	meta := info.MetadataString()
	var buf bytes.Buffer
	buf.WriteString(magic)
	buf.WriteString(codec)
	binary.Write(&buf, binary.BigEndian, uint16(len(meta)))
	buf.WriteString(meta)
	binary.Write(&buf, binary.BigEndian, uint32(hunks))
	binary.Write(&buf, binary.BigEndian, uint32(info.HunkSize()))

	_, err := w.Write(buf.Bytes())
	return err
}

// readHunk copies the parts of a hunk selected by opts from r.
func readHunk(r io.ReaderAt, base int64, h Header, hunk int, buf []byte, opts DecodeOptions) error {
	if hunk < 0 || hunk >= h.Hunks {
		return fmt.Errorf("%w: %d", ErrHunkRange, hunk)
	}
	if len(buf) < h.HunkSize {
		return fmt.Errorf("buffer too small for hunk: %d < %d", len(buf), h.HunkSize)
	}

	start := base + int64(hunk)*int64(h.HunkSize)
	lumaEnd := vbiSize + h.Info.lumaSize()

	head := buf[:vbiSize]
	if opts.Video {
		head = buf[:lumaEnd]
	}
	if err := readAt(r, head, start); err != nil {
		return err
	}

	if opts.Audio {
		return readAt(r, buf[lumaEnd:h.HunkSize], start+int64(lumaEnd))
	}
	return nil
}

func readAt(r io.ReaderAt, p []byte, off int64) error {
	n, err := r.ReadAt(p, off)
	if n == len(p) {
		return nil
	}
	if err == nil || err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}
