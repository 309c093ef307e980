package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"
	"github.com/valerio/go-laserdisc/laserdisc/backend"
	"github.com/valerio/go-laserdisc/laserdisc/backend/headless"
	"github.com/valerio/go-laserdisc/laserdisc/backend/sdl2"
	"github.com/valerio/go-laserdisc/laserdisc/backend/terminal"
	"github.com/valerio/go-laserdisc/laserdisc/debug"
	"github.com/valerio/go-laserdisc/laserdisc/host"
	"github.com/valerio/go-laserdisc/laserdisc/input"
	"github.com/valerio/go-laserdisc/laserdisc/input/action"
	"github.com/valerio/go-laserdisc/laserdisc/input/event"
	"github.com/valerio/go-laserdisc/laserdisc/timing"
)

var errQuit = errors.New("quit requested")

// frontend presents the player through a backend, one field at a time.
type frontend struct {
	s       *session
	be      backend.Backend
	limiter timing.Limiter
	input   *input.Manager

	paused bool
	quit   bool
}

func runPlay(c *cli.Context) error {
	if c.Bool("headless") && c.Int("fields") <= 0 && c.String("script") == "" {
		return errors.New("headless mode requires --fields or --script")
	}

	s, err := openSession(c, os.Stdout)
	if err != nil {
		return err
	}
	defer s.Close()

	be, err := selectBackend(c)
	if err != nil {
		return err
	}

	limiter, err := selectLimiter(c)
	if err != nil {
		return err
	}
	if stopper, ok := limiter.(interface{ Stop() }); ok {
		defer stopper.Stop()
	}
	if counter, ok := limiter.(interface{ Skipped() uint64 }); ok {
		defer func() {
			if n := counter.Skipped(); n > 0 {
				slog.Info("Fields skipped by limiter", "count", n)
			}
		}()
	}

	f := &frontend{
		s:       s,
		be:      be,
		limiter: limiter,
		input:   input.NewManager(),
	}
	f.bindActions()

	info := s.dev.Player().Info()
	if err := be.Init(backend.Config{
		Title:      "laserdisc",
		Scale:      c.Int("scale"),
		SampleRate: info.SampleRate,
		Status:     s.host.Status,
	}); err != nil {
		return err
	}
	defer be.Cleanup()

	s.host.OnVSync = f.present

	if path := c.String("script"); path != "" {
		script := host.NewScript(s.host)
		defer script.Close()
		slog.Info("Running host script", "path", path)
		err := script.RunFile(path)
		if f.quit {
			return nil
		}
		if err != nil {
			return err
		}
		if c.Bool("headless") && c.Int("fields") == 0 {
			return nil
		}
	}
	return f.run()
}

func selectBackend(c *cli.Context) (backend.Backend, error) {
	switch {
	case c.Bool("headless"):
		snapshots, err := headless.CreateSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"), c.String("disc"))
		if err != nil {
			return nil, err
		}
		return headless.New(c.Int("fields"), snapshots), nil
	case c.Bool("sdl"):
		return sdl2.New(), nil
	default:
		return terminal.New(), nil
	}
}

func selectLimiter(c *cli.Context) (timing.Limiter, error) {
	if c.Bool("headless") {
		return timing.NewNoOpLimiter(), nil
	}
	switch c.String("limiter") {
	case "adaptive", "":
		return timing.NewAdaptiveLimiter(), nil
	case "ticker":
		return timing.NewTickerLimiter(), nil
	case "none":
		return timing.NewNoOpLimiter(), nil
	}
	return nil, fmt.Errorf("unknown limiter %q", c.String("limiter"))
}

func (f *frontend) bindActions() {
	f.input.BindPanel(f.s.dev.Player())
	f.input.On(action.EmulatorQuit, event.Press, func() {
		f.quit = true
	})
	f.input.On(action.EmulatorPauseToggle, event.Press, func() {
		f.paused = !f.paused
		f.limiter.Reset()
		slog.Info("Pause toggled", "paused", f.paused)
	})
	f.input.On(action.EmulatorSnapshot, event.Press, func() {
		debug.TakeSnapshot(f.s.dev.Frame())
	})
}

// run plays fields until the backend asks to quit. While paused the
// frontend keeps presenting the last frame without advancing the player.
func (f *frontend) run() error {
	for {
		var err error
		if f.paused {
			err = f.update()
		} else {
			err = f.s.host.VSync(1)
		}
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// present runs after every field the host clocks.
func (f *frontend) present() error {
	samples := f.s.drainAudio()
	if out, ok := f.be.(backend.AudioOutput); ok {
		if err := out.QueueSamples(samples); err != nil {
			slog.Warn("Audio queue failed", "error", err)
		}
	}
	return f.update()
}

func (f *frontend) update() error {
	events, err := f.be.Update(f.s.dev.Frame())
	if err != nil {
		return err
	}
	for _, e := range events {
		f.input.Trigger(e.Action, e.Type)
	}
	if f.quit {
		return errQuit
	}
	f.limiter.WaitForNextField()
	return nil
}
