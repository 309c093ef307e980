package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli"
	"github.com/valerio/go-laserdisc/laserdisc"
	"github.com/valerio/go-laserdisc/laserdisc/audio"
	"github.com/valerio/go-laserdisc/laserdisc/host"
	"github.com/valerio/go-laserdisc/laserdisc/player"
	"github.com/valerio/go-laserdisc/laserdisc/serial"
	"github.com/valerio/go-laserdisc/laserdisc/timing"
)

// session is a player wired to a host, built from the device flags.
type session struct {
	dev   *laserdisc.Device
	clock *timing.Manual
	host  *host.Host
	wav   *audio.WavWriter

	// samples holds one field of audio
	samples []int16
}

func openSession(c *cli.Context, out io.Writer) (*session, error) {
	model, err := player.ParseModel(c.String("player"))
	if err != nil {
		return nil, err
	}

	var opts []laserdisc.Option
	if c.Bool("trace") || c.Bool("trace-hex") {
		sinkOpts := []serial.LogSinkOption{serial.WithLogger(slog.Default())}
		if c.Bool("trace-hex") {
			sinkOpts = append(sinkOpts, serial.WithHex())
		}
		opts = append(opts, laserdisc.WithTrace(serial.NewLogSink(sinkOpts...)))
	}

	clock := timing.NewManual()
	dev, err := laserdisc.Open(c.String("disc"), player.Config{Model: model, Clock: clock}, opts...)
	if err != nil {
		return nil, err
	}

	info := dev.Player().Info()
	s := &session{
		dev:     dev,
		clock:   clock,
		host:    host.New(dev, clock, out),
		samples: make([]int16, audio.PairsPerField(info.SampleRate, info.FieldRate())*audio.Channels),
	}

	if path := c.String("wav"); path != "" {
		s.wav, err = audio.NewWavWriter(path, info.SampleRate)
		if err != nil {
			dev.Close()
			return nil, err
		}
	}

	slog.Info("Player ready", "model", model, "disc", c.String("disc"), "width", info.Width, "height", info.Height)
	return s, nil
}

// drainAudio takes one field of samples from the player and records
// them.
func (s *session) drainAudio() []int16 {
	s.dev.Samples(s.samples)
	if s.wav != nil {
		if err := s.wav.Write(s.samples); err != nil {
			slog.Error("WAV capture failed, stopping it", "error", err)
			s.wav.Close()
			s.wav = nil
		}
	}
	return s.samples
}

func (s *session) Close() error {
	var errs []error
	if s.wav != nil {
		if err := s.wav.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.dev.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func runConsole(c *cli.Context) error {
	s, err := openSession(c, os.Stdout)
	if err != nil {
		return err
	}
	defer s.Close()

	s.host.OnVSync = func() error {
		s.drainAudio()
		return nil
	}

	console, err := host.NewConsole(s.host)
	if err != nil {
		return err
	}
	defer console.Close()

	fmt.Println("Type help for commands, quit to exit.")
	return console.Run()
}
