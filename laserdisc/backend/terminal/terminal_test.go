package terminal

import (
	"log/slog"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-laserdisc/laserdisc/backend"
	"github.com/valerio/go-laserdisc/laserdisc/input/action"
	"github.com/valerio/go-laserdisc/laserdisc/video"
)

func newSimBackend(t *testing.T, w, h int) (*Backend, tcell.SimulationScreen) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	screen := tcell.NewSimulationScreen("UTF-8")
	b := NewWithScreen(screen)
	require.NoError(t, b.Init(backend.Config{
		Title:  "laserdisc",
		Status: func() string { return "ldv1000 Stopped" },
	}))
	screen.SetSize(w, h)
	t.Cleanup(func() { b.Cleanup() })
	return b, screen
}

func rowText(screen tcell.SimulationScreen, y, width int) string {
	var out []rune
	for x := 0; x < width; x++ {
		r, _, _, _ := screen.GetContent(x, y)
		out = append(out, r)
	}
	return string(out)
}

func TestRendersStatusLine(t *testing.T) {
	b, screen := newSimBackend(t, 120, 40)

	_, err := b.Update(video.NewFrameBuffer(64, 48))
	require.NoError(t, err)
	assert.Contains(t, rowText(screen, 0, 120), "laserdisc | ldv1000 Stopped")
}

func TestRendersHalfBlocks(t *testing.T) {
	b, screen := newSimBackend(t, 60, 30)
	frame := video.NewFrameBuffer(60, 40)
	frame.Fill(video.WhiteColor)

	_, err := b.Update(frame)
	require.NoError(t, err)

	r, _, style, _ := screen.GetContent(0, 1)
	assert.Equal(t, '▀', r)
	fg, bg, _ := style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(255, 255, 255), fg)
	assert.Equal(t, tcell.NewRGBColor(255, 255, 255), bg)
}

func TestTooSmall(t *testing.T) {
	b, screen := newSimBackend(t, 20, 10)
	_, err := b.Update(video.NewFrameBuffer(8, 8))
	require.NoError(t, err)
	assert.Contains(t, rowText(screen, 5, 20), "Terminal too small")
}

func TestKeysBecomeEvents(t *testing.T) {
	b, screen := newSimBackend(t, 80, 24)

	screen.InjectKey(tcell.KeyRune, 'p', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, '7', tcell.ModNone)
	screen.InjectKey(tcell.KeyRight, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, '#', tcell.ModNone)
	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	events, err := b.Update(video.NewFrameBuffer(8, 8))
	require.NoError(t, err)

	var got []action.Action
	for _, e := range events {
		got = append(got, e.Action)
	}
	assert.Equal(t, []action.Action{
		action.PanelPlay,
		action.PanelStill,
		action.PanelDigit7,
		action.PanelStepForward,
		action.EmulatorQuit,
	}, got)

	events, err = b.Update(video.NewFrameBuffer(8, 8))
	require.NoError(t, err)
	assert.Empty(t, events, "events are only reported once")
}

func TestLogLevelKeys(t *testing.T) {
	b, screen := newSimBackend(t, 80, 24)
	assert.Equal(t, slog.LevelInfo, b.logLevel.Level())

	screen.InjectKey(tcell.KeyRune, '+', tcell.ModNone)
	_, err := b.Update(video.NewFrameBuffer(8, 8))
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, b.logLevel.Level())

	screen.InjectKey(tcell.KeyRune, '+', tcell.ModNone)
	_, err = b.Update(video.NewFrameBuffer(8, 8))
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, b.logLevel.Level(), "already at the lowest level")
}
