package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-laserdisc/laserdisc/backend"
	"github.com/valerio/go-laserdisc/laserdisc/backend/terminal/render"
	"github.com/valerio/go-laserdisc/laserdisc/input"
	"github.com/valerio/go-laserdisc/laserdisc/input/action"
	"github.com/valerio/go-laserdisc/laserdisc/video"
)

const (
	minTermWidth  = 40
	minTermHeight = 12
	logPanelWidth = 48
	logCapacity   = 200
	helpText      = " P=play Space=still [ ]=scan arrows=step digits+S=search E=eject F1/F2=audio D=display F9=snapshot -/+=logs Q=quit "
)

// Backend implements the Backend interface using tcell for terminal rendering
type Backend struct {
	screen    tcell.Screen
	config    backend.Config
	logBuffer *render.LogBuffer
	logLevel  *slog.LevelVar

	eventQueue  []backend.InputEvent
	interrupted atomic.Bool
}

// New creates a new terminal backend
func New() *Backend {
	return &Backend{}
}

// NewWithScreen uses an existing screen, such as a simulation screen.
func NewWithScreen(screen tcell.Screen) *Backend {
	return &Backend{screen: screen}
}

// Init initializes the terminal backend
func (t *Backend) Init(config backend.Config) error {
	t.config = config

	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to initialize terminal: %v", err)
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}

	// the screen owns the terminal, so logs go to the side panel
	t.logBuffer = render.NewLogBuffer(logCapacity)
	t.logLevel = new(slog.LevelVar)
	slog.SetDefault(slog.New(render.NewLogBufferHandler(t.logBuffer, slog.LevelDebug)))

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	go t.handleSignals()

	slog.Info("Terminal backend initialized")
	return nil
}

// Update renders a frame and processes events
func (t *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
	if t.interrupted.Load() {
		t.eventQueue = append(t.eventQueue, backend.Press(action.EmulatorQuit))
	}

	events := t.eventQueue
	t.eventQueue = nil

	t.render(frame)
	t.screen.Show()
	return events, nil
}

// Cleanup cleans up terminal resources
func (t *Backend) Cleanup() error {
	if t.screen != nil {
		t.screen.Fini()
	}
	return nil
}

func (t *Backend) handleSignals() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	<-signals
	t.interrupted.Store(true)
}

// tcellKeyNameMap converts tcell keys to key names used in default mappings
var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyEnter:      "Enter",
	tcell.KeyLeft:       "Left",
	tcell.KeyRight:      "Right",
	tcell.KeyEscape:     "Escape",
	tcell.KeyBackspace2: "Backspace",
	tcell.KeyF1:         "F1",
	tcell.KeyF2:         "F2",
	tcell.KeyF5:         "F5",
	tcell.KeyF9:         "F9",
	tcell.KeyPause:      "Pause",
}

// buildKeyMapping creates the key mapping from default mappings
func buildKeyMapping() map[tcell.Key]action.Action {
	mapping := make(map[tcell.Key]action.Action)
	for key, keyName := range tcellKeyNameMap {
		if act, ok := input.GetDefaultMapping(keyName); ok {
			mapping[key] = act
		}
	}
	mapping[tcell.KeyCtrlC] = action.EmulatorQuit
	return mapping
}

// keyMapping maps tcell keys to actions
var keyMapping = buildKeyMapping()

func (t *Backend) processKeyEvent(ev *tcell.EventKey) {
	if ev.Key() != tcell.KeyRune {
		if act, ok := keyMapping[ev.Key()]; ok {
			t.eventQueue = append(t.eventQueue, backend.Press(act))
		}
		return
	}

	r := ev.Rune()
	switch r {
	case '+', '=':
		t.changeLogLevel(-4)
		return
	case '-', '_':
		t.changeLogLevel(4)
		return
	}

	name := string(r)
	if r == ' ' {
		name = "Space"
	}
	if act, ok := input.GetDefaultMapping(name); ok {
		t.eventQueue = append(t.eventQueue, backend.Press(act))
	}
}

// changeLogLevel moves the log panel filter one slog level step.
func (t *Backend) changeLogLevel(delta slog.Level) {
	level := t.logLevel.Level() + delta
	if level < slog.LevelDebug || level > slog.LevelError {
		return
	}
	t.logLevel.Set(level)
	slog.Info("Log filter changed", "level", level)
}

func (t *Backend) render(frame *video.FrameBuffer) {
	termWidth, termHeight := t.screen.Size()
	t.screen.Clear()

	if termWidth < minTermWidth || termHeight < minTermHeight {
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		t.drawText(0, termHeight/2, termWidth, msg, tcell.StyleDefault.Foreground(tcell.ColorRed))
		return
	}

	videoWidth := termWidth
	showLogs := termWidth >= logPanelWidth*2
	if showLogs {
		videoWidth = termWidth - logPanelWidth - 1
	}

	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	title := " " + t.config.Title + " "
	if t.config.Status != nil {
		title += "| " + t.config.Status() + " "
	}
	t.drawText(0, 0, termWidth, title, titleStyle)

	t.drawVideo(frame, 0, 1, videoWidth, termHeight-2)

	if showLogs {
		borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
		for y := 1; y < termHeight-1; y++ {
			t.screen.SetContent(videoWidth, y, '│', nil, borderStyle)
		}
		t.drawLogs(videoWidth+1, 1, logPanelWidth, termHeight-2)
	}

	t.drawText(0, termHeight-1, termWidth, helpText, tcell.StyleDefault.Foreground(tcell.ColorGray))
}

// drawVideo paints the frame with half blocks: the upper half of each
// cell is one pixel row, the lower half the next.
func (t *Backend) drawVideo(frame *video.FrameBuffer, x0, y0, cols, lines int) {
	gridCols, gridRows := render.FitGrid(int(frame.Width()), int(frame.Height()), cols, lines)
	for row := 0; row < gridRows; row += 2 {
		for col := 0; col < gridCols; col++ {
			top := render.Sample(frame, gridCols, gridRows, col, row)
			bottom := render.Sample(frame, gridCols, gridRows, col, row+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top), int32(top), int32(top))).
				Background(tcell.NewRGBColor(int32(bottom), int32(bottom), int32(bottom)))
			t.screen.SetContent(x0+col, y0+row/2, '▀', nil, style)
		}
	}
}

func (t *Backend) drawLogs(x0, y0, width, lines int) {
	styles := map[slog.Level]tcell.Style{
		slog.LevelDebug: tcell.StyleDefault.Foreground(tcell.ColorGray),
		slog.LevelInfo:  tcell.StyleDefault.Foreground(tcell.ColorBlue),
		slog.LevelWarn:  tcell.StyleDefault.Foreground(tcell.ColorYellow),
		slog.LevelError: tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true),
	}
	for i, entry := range t.logBuffer.GetRecent(lines, t.logLevel.Level()) {
		t.drawText(x0, y0+i, width, render.FormatLogEntry(entry), styles[entry.Level])
	}
}

// drawText writes s from (x, y), truncated to width cells.
func (t *Backend) drawText(x, y, width int, s string, style tcell.Style) {
	i := 0
	for _, ch := range s {
		if i >= width {
			return
		}
		t.screen.SetContent(x+i, y, ch, nil, style)
		i++
	}
}
