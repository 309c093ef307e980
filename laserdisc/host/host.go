// Package host stands in for the CPU of the machine a laserdisc player is
// wired to. It drives a device through a small command language used by
// the interactive console and by Lua scripts.
package host

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/valerio/go-laserdisc/laserdisc"
	"github.com/valerio/go-laserdisc/laserdisc/player"
	"github.com/valerio/go-laserdisc/laserdisc/timing"
	"github.com/valerio/go-laserdisc/laserdisc/track"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("bad arguments")
)

// PR-8210 pulse timing as sent by a host.
const (
	pr8210Gap  = 5 * time.Millisecond
	pr8210Zero = 1050 * time.Microsecond
	pr8210One  = 2110 * time.Microsecond
	pr8210Bits = 10
)

// Host owns the emulated clock and moves it forward as it talks to the
// device.
type Host struct {
	dev   *laserdisc.Device
	clock *timing.Manual
	out   io.Writer

	// OnVSync runs after every field, for frontends that present it. An
	// error stops the run of fields in progress.
	OnVSync func() error
}

// New binds a host to a device whose player runs on clock. Command
// output goes to out.
func New(dev *laserdisc.Device, clock *timing.Manual, out io.Writer) *Host {
	return &Host{dev: dev, clock: clock, out: out}
}

func (h *Host) Device() *laserdisc.Device {
	return h.dev
}

type command struct {
	usage string
	run   func(h *Host, args []string) error
}

var commands = map[string]command{
	"data":      {"data <byte>...", cmdData},
	"read":      {"read [count]", cmdRead},
	"line":      {"line <name> <0|1>", cmdLine},
	"sense":     {"sense <name>", cmdSense},
	"vsync":     {"vsync [fields]", cmdVSync},
	"wait":      {"wait <microseconds>", cmdWait},
	"pulse8210": {"pulse8210 <code>...", cmdPulse8210},
	"send":      {"send <text>", cmdSend},
	"status":    {"status", cmdStatus},
}

// help is registered in init because cmdHelp refers back to commands.
func init() {
	commands["help"] = command{"help", cmdHelp}
}

// Commands lists the command names, sorted.
func Commands() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Exec runs one command line. Blank lines and lines starting with # are
// ignored.
func (h *Host) Exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}
	cmd, ok := commands[fields[0]]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, fields[0])
	}
	if err := cmd.run(h, fields[1:]); err != nil {
		if errors.Is(err, ErrUsage) {
			return fmt.Errorf("%w (usage: %s)", err, cmd.usage)
		}
		return err
	}
	return nil
}

// Data writes bytes to the player's data input.
func (h *Host) Data(data ...byte) {
	for _, b := range data {
		h.dev.WriteData(b)
	}
}

func (h *Host) Read() byte {
	return h.dev.ReadData()
}

func (h *Host) SetLine(line player.Line, state player.LineState) {
	h.dev.WriteLine(line, state)
}

func (h *Host) Sense(line player.Line) player.LineState {
	return h.dev.ReadLine(line)
}

// VSync runs n fields, advancing the clock by a field each.
func (h *Host) VSync(n int) error {
	for i := 0; i < n; i++ {
		h.clock.Advance(timing.FieldDuration())
		h.dev.VSync()
		if h.OnVSync != nil {
			if err := h.OnVSync(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *Host) Wait(d time.Duration) {
	h.clock.Advance(d)
}

// Pulse8210 sends each command code as a PR-8210 word, three times, on
// the control line.
func (h *Host) Pulse8210(codes ...byte) {
	for _, code := range codes {
		word := uint16(1<<9) | uint16(code&0x1f)<<2
		h.clock.Advance(pr8210Gap)
		h.pulse()
		for repeat := 0; repeat < 3; repeat++ {
			for i := 0; i < pr8210Bits; i++ {
				if word&(1<<i) != 0 {
					h.clock.Advance(pr8210One)
				} else {
					h.clock.Advance(pr8210Zero)
				}
				h.pulse()
			}
		}
	}
}

func (h *Host) pulse() {
	h.dev.WriteLine(player.LineControl, player.Asserted)
	h.dev.WriteLine(player.LineControl, player.Clear)
}

// Send writes text followed by a carriage return, for the line based
// serial players.
func (h *Host) Send(text string) {
	for i := 0; i < len(text); i++ {
		h.dev.WriteData(text[i])
	}
	h.dev.WriteData('\r')
}

// Status describes the player in one line.
func (h *Host) Status() string {
	s := h.dev.Player().Status()
	return fmt.Sprintf("%s %s track=%d frame=%d chapter=%d target=%d speed=%.3f hold=%t video=%t audio=%t/%t commands=%d",
		s.Model, s.State, s.Track, s.Frame, s.Chapter, s.Target,
		float64(s.Speed)/float64(track.One), s.Holding, s.Video, s.Audio[0], s.Audio[1], s.Commands)
}

func parseByte(s string) (byte, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a byte", ErrUsage, s)
	}
	return byte(v), nil
}

func parseCount(args []string, def int) (int, error) {
	if len(args) == 0 {
		return def, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrUsage, args[0])
	}
	return n, nil
}

func cmdData(h *Host, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	data := make([]byte, 0, len(args))
	for _, a := range args {
		b, err := parseByte(a)
		if err != nil {
			return err
		}
		data = append(data, b)
	}
	h.Data(data...)
	return nil
}

func cmdRead(h *Host, args []string) error {
	n, err := parseCount(args, 1)
	if err != nil {
		return err
	}
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("0x%02X", h.Read())
	}
	fmt.Fprintln(h.out, strings.Join(parts, " "))
	return nil
}

func cmdLine(h *Host, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	line, err := player.ParseLine(args[0])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	switch args[1] {
	case "0":
		h.SetLine(line, player.Clear)
	case "1":
		h.SetLine(line, player.Asserted)
	default:
		return ErrUsage
	}
	return nil
}

func cmdSense(h *Host, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	line, err := player.ParseLine(args[0])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	fmt.Fprintln(h.out, h.Sense(line))
	return nil
}

func cmdVSync(h *Host, args []string) error {
	n, err := parseCount(args, 1)
	if err != nil {
		return err
	}
	return h.VSync(n)
}

func cmdWait(h *Host, args []string) error {
	us, err := parseCount(args, -1)
	if err != nil || us < 0 {
		return ErrUsage
	}
	h.Wait(time.Duration(us) * time.Microsecond)
	return nil
}

func cmdPulse8210(h *Host, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	for _, a := range args {
		code, err := parseByte(a)
		if err != nil {
			return err
		}
		h.Pulse8210(code)
	}
	return nil
}

func cmdSend(h *Host, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	h.Send(strings.Join(args, " "))
	return nil
}

func cmdStatus(h *Host, _ []string) error {
	fmt.Fprintln(h.out, h.Status())
	return nil
}

func cmdHelp(h *Host, _ []string) error {
	for _, name := range Commands() {
		fmt.Fprintln(h.out, " ", commands[name].usage)
	}
	return nil
}
