package disc

import (
	"bytes"
	"fmt"
)

// Memory is a Source over an image held in memory. Reads complete
// immediately and are reported by the next PollRead.
type Memory struct {
	data     *bytes.Reader
	header   Header
	base     int64
	opts     DecodeOptions
	complete bool
	err      error
}

// NewMemory parses an image held in a byte slice.
func NewMemory(image []byte) (*Memory, error) {
	header, base, err := ReadHeader(bytes.NewReader(image))
	if err != nil {
		return nil, err
	}
	return &Memory{
		data:   bytes.NewReader(image),
		header: header,
		base:   base,
		opts:   DecodeOptions{Video: true, Audio: true},
	}, nil
}

func (m *Memory) Info() Info     { return m.header.Info }
func (m *Memory) Hunks() int     { return m.header.Hunks }
func (m *Memory) Header() Header { return m.header }

func (m *Memory) Configure(hunk int, opts DecodeOptions) error {
	if hunk < 0 || hunk >= m.header.Hunks {
		return fmt.Errorf("%w: %d", ErrHunkRange, hunk)
	}
	m.opts = opts
	return nil
}

func (m *Memory) BeginRead(hunk int, buf []byte) error {
	if m.complete {
		return ErrReadPending
	}
	m.err = readHunk(m.data, m.base, m.header, hunk, buf, m.opts)
	m.complete = true
	return nil
}

func (m *Memory) PollRead() (bool, error) {
	if !m.complete {
		return false, nil
	}
	m.complete = false
	return true, m.err
}

func (m *Memory) Close() error {
	m.complete = false
	return nil
}
