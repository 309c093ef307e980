package disc

import (
	"fmt"
	"log/slog"
	"os"
)

// File is a Source backed by an image on disk. Each read runs on its own
// goroutine; PollRead collects the result without blocking.
type File struct {
	f       *os.File
	header  Header
	base    int64
	opts    DecodeOptions
	sync    bool
	pending chan error
	done    error
	hasDone bool
}

type FileOption func(*File)

// WithSynchronousReads completes every read inside BeginRead, making
// playback deterministic when fields are not paced in real time.
func WithSynchronousReads() FileOption { return func(f *File) { f.sync = true } }

// Open opens and validates an image file.
func Open(path string, opts ...FileOption) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	header, base, err := ReadHeader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	file := &File{
		f:      f,
		header: header,
		base:   base,
		opts:   DecodeOptions{Video: true, Audio: true},
	}
	for _, opt := range opts {
		opt(file)
	}

	slog.Info("Opened disc image", "path", path, "tracks", header.Tracks(),
		"width", header.Info.Width, "height", header.Info.Height, "sample_rate", header.Info.SampleRate)
	return file, nil
}

func (f *File) Info() Info     { return f.header.Info }
func (f *File) Hunks() int     { return f.header.Hunks }
func (f *File) Header() Header { return f.header }

func (f *File) Configure(hunk int, opts DecodeOptions) error {
	if hunk < 0 || hunk >= f.header.Hunks {
		return fmt.Errorf("%w: %d", ErrHunkRange, hunk)
	}
	f.opts = opts
	return nil
}

func (f *File) BeginRead(hunk int, buf []byte) error {
	if f.pending != nil || f.hasDone {
		return ErrReadPending
	}

	opts := f.opts
	if f.sync {
		f.done = readHunk(f.f, f.base, f.header, hunk, buf, opts)
		f.hasDone = true
		return nil
	}

	ch := make(chan error, 1)
	f.pending = ch
	go func() {
		ch <- readHunk(f.f, f.base, f.header, hunk, buf, opts)
	}()
	return nil
}

func (f *File) PollRead() (bool, error) {
	if f.hasDone {
		f.hasDone = false
		return true, f.done
	}
	if f.pending == nil {
		return false, nil
	}

	select {
	case err := <-f.pending:
		f.pending = nil
		return true, err
	default:
		return false, nil
	}
}

func (f *File) Close() error {
	if f.pending != nil {
		<-f.pending
		f.pending = nil
	}
	f.hasDone = false
	return f.f.Close()
}
