package audio

import (
	"fmt"
	"log/slog"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WavWriter captures the samples handed to the sound stream into a 16
// bit stereo WAV file.
type WavWriter struct {
	filename string
	file     *os.File
	encoder  *wav.Encoder
	buffer   *goaudio.IntBuffer
	pairs    int
}

// NewWavWriter creates the output file and prepares the encoder.
func NewWavWriter(filename string, sampleRate int) (*WavWriter, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}

	return &WavWriter{
		filename: filename,
		file:     f,
		encoder:  wav.NewEncoder(f, sampleRate, 16, Channels, 1),
		buffer: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: Channels, SampleRate: sampleRate},
			SourceBitDepth: 16,
		},
	}, nil
}

// Write appends interleaved stereo samples.
func (w *WavWriter) Write(samples []int16) error {
	if cap(w.buffer.Data) < len(samples) {
		w.buffer.Data = make([]int, len(samples))
	}
	w.buffer.Data = w.buffer.Data[:len(samples)]
	for i, s := range samples {
		w.buffer.Data[i] = int(s)
	}
	w.pairs += len(samples) / Channels

	if err := w.encoder.Write(w.buffer); err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	return nil
}

// Close finalises the WAV header and closes the file.
func (w *WavWriter) Close() error {
	slog.Info("Writing audio capture", "file", w.filename, "sample_pairs", w.pairs)

	if err := w.encoder.Close(); err != nil {
		w.file.Close()
		return fmt.Errorf("wav: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	return nil
}
