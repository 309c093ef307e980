// Package serial traces the bytes exchanged between a host and a player.
package serial

import (
	"encoding/hex"
	"log/slog"
)

// Direction tells which side sent a byte.
type Direction int

const (
	ToPlayer Direction = iota
	FromPlayer
)

func (d Direction) String() string {
	if d == ToPlayer {
		return "tx"
	}
	return "rx"
}

// maxHexRun is the number of bytes shown per hex trace line.
const maxHexRun = 16

// LogSink logs traffic as text, one line per CR, LF or NUL terminated
// run. In hex mode, for binary protocols, runs are flushed every
// maxHexRun bytes or on Flush.
type LogSink struct {
	logger *slog.Logger
	hex    bool
	lines  [2][]byte
}

type LogSinkOption func(*LogSink)

// WithHex traces bytes as hex instead of text.
func WithHex() LogSinkOption { return func(s *LogSink) { s.hex = true } }

// WithLogger sends the trace to logger instead of the default logger.
func WithLogger(logger *slog.Logger) LogSinkOption {
	return func(s *LogSink) { s.logger = logger }
}

func NewLogSink(opts ...LogSinkOption) *LogSink {
	s := &LogSink{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Write records one byte going in direction dir.
func (s *LogSink) Write(dir Direction, b byte) {
	line := &s.lines[dir&1]

	if s.hex {
		*line = append(*line, b)
		if len(*line) >= maxHexRun {
			s.flush(dir)
		}
		return
	}

	if b == 0 || b == '\n' || b == '\r' {
		s.flush(dir)
		return
	}
	*line = append(*line, b)
}

// Flush logs whatever is buffered in both directions.
func (s *LogSink) Flush() {
	s.flush(ToPlayer)
	s.flush(FromPlayer)
}

func (s *LogSink) flush(dir Direction) {
	line := &s.lines[dir&1]
	if len(*line) == 0 {
		return
	}
	if s.hex {
		s.logger.Info("serial", "dir", dir.String(), "bytes", hex.EncodeToString(*line))
	} else {
		s.logger.Info("serial", "dir", dir.String(), "line", string(*line))
	}
	*line = (*line)[:0]
}

// Reset drops anything buffered.
func (s *LogSink) Reset() {
	s.lines[0] = s.lines[0][:0]
	s.lines[1] = s.lines[1][:0]
}
