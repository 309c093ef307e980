// Package laserdisc is the host-facing side of an emulated laserdisc
// player: the data latch and control lines a host CPU sees, plus the
// picture and sound it produces each field.
package laserdisc

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/valerio/go-laserdisc/laserdisc/disc"
	"github.com/valerio/go-laserdisc/laserdisc/player"
	"github.com/valerio/go-laserdisc/laserdisc/serial"
	"github.com/valerio/go-laserdisc/laserdisc/video"
)

// Device wraps a player with the bus defaults a host sees when the
// player does not drive an output.
type Device struct {
	player *player.Player

	dataDefault  byte
	lineDefaults [player.NumLines]player.LineState

	trace *serial.LogSink
	owned io.Closer

	frame *video.FrameBuffer
	blank *video.FrameBuffer
}

type Option func(*Device)

// WithTrace logs every byte crossing the data bus.
func WithTrace(sink *serial.LogSink) Option {
	return func(d *Device) { d.trace = sink }
}

// New builds a device around a new player.
func New(cfg player.Config, opts ...Option) (*Device, error) {
	p, err := player.New(cfg)
	if err != nil {
		return nil, err
	}

	info := p.Info()
	d := &Device{
		player: p,
		frame:  video.NewFrameBuffer(uint(info.Width), uint(info.Height)),
		blank:  video.NewFrameBuffer(uint(info.Width), uint(info.Height)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Open loads a disc image from path and builds a device that owns it.
// An empty path runs without a disc.
func Open(path string, cfg player.Config, opts ...Option) (*Device, error) {
	if path == "" {
		return New(cfg, opts...)
	}

	f, err := disc.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening disc: %w", err)
	}
	cfg.Disc = f

	d, err := New(cfg, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	d.owned = f
	return d, nil
}

func (d *Device) Player() *player.Player {
	return d.player
}

// SetDataDefault sets the byte read back when the player has nothing to
// put on the bus.
func (d *Device) SetDataDefault(data byte) {
	d.dataDefault = data
}

// SetLineDefault sets the level sensed on a line the player does not
// drive.
func (d *Device) SetLineDefault(line player.Line, state player.LineState) {
	if line < 0 || line >= player.NumLines {
		return
	}
	d.lineDefaults[line] = state
}

func (d *Device) WriteData(data byte) {
	if d.trace != nil {
		d.trace.Write(serial.ToPlayer, data)
	}
	if !d.player.WriteData(data) {
		slog.Debug("data write ignored", "model", d.player.Model(), "data", data)
	}
}

func (d *Device) ReadData() byte {
	data, ok := d.player.ReadData()
	if !ok {
		return d.dataDefault
	}
	if d.trace != nil {
		d.trace.Write(serial.FromPlayer, data)
	}
	return data
}

func (d *Device) WriteLine(line player.Line, state player.LineState) {
	if !d.player.WriteLine(line, state) {
		slog.Debug("line write ignored", "model", d.player.Model(), "line", line, "state", state)
	}
}

func (d *Device) ReadLine(line player.Line) player.LineState {
	state, ok := d.player.ReadLine(line)
	if !ok {
		if line < 0 || line >= player.NumLines {
			return player.Clear
		}
		return d.lineDefaults[line]
	}
	return state
}

// VSync advances one field.
func (d *Device) VSync() {
	d.player.VSync()
	if d.trace != nil {
		d.trace.Flush()
	}
}

// Frame returns the picture to show for the current field. It is black
// while video is muted or the disc is not playing. The returned buffer
// is reused by the next call.
func (d *Device) Frame() *video.FrameBuffer {
	if !d.player.VideoActive() {
		return d.blank
	}
	d.player.Frames().Frame(d.frame)
	if d.player.DisplayActive() {
		video.OverlayNumber(d.frame, d.player.FrameNumber())
	}
	return d.frame
}

// Samples fills dst with interleaved stereo samples, zero-filling what
// the player has not produced, and returns the number of real pairs.
func (d *Device) Samples(dst []int16) int {
	return d.player.Audio().Read(dst)
}

// Close stops the player and releases a disc opened by Open.
func (d *Device) Close() error {
	d.player.Close()
	if d.trace != nil {
		d.trace.Flush()
	}
	if d.owned != nil {
		return d.owned.Close()
	}
	return nil
}
