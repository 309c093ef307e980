package host

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

type lineSource interface {
	Readline() (string, error)
}

// Console is an interactive prompt over a Host. Besides the host
// commands it accepts "lua <code>" and "quit".
type Console struct {
	h      *Host
	script *Script
	in     lineSource
	closer io.Closer
}

// NewConsole opens a readline prompt on the terminal.
func NewConsole(h *Host) (*Console, error) {
	items := make([]readline.PrefixCompleterInterface, 0, len(commands)+2)
	for _, name := range Commands() {
		items = append(items, readline.PcItem(name))
	}
	items = append(items, readline.PcItem("lua"), readline.PcItem("quit"))

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "ld> ",
		AutoComplete:    readline.NewPrefixCompleter(items...),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return nil, err
	}
	c := newConsole(h, rl)
	c.closer = rl
	return c, nil
}

func newConsole(h *Host, in lineSource) *Console {
	return &Console{h: h, script: NewScript(h), in: in}
}

// Run reads commands until quit, end of input or an interrupt on an
// empty line. Command errors are printed and do not end the session.
func (c *Console) Run() error {
	for {
		line, err := c.in.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		switch {
		case line == "quit" || line == "exit":
			return nil
		case strings.HasPrefix(line, "lua "):
			err = c.script.RunString(strings.TrimPrefix(line, "lua "))
		default:
			err = c.h.Exec(line)
		}
		if err != nil {
			fmt.Fprintln(c.h.out, "error:", err)
		}
	}
}

func (c *Console) Close() error {
	c.script.Close()
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}
