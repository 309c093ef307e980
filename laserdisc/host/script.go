package host

import (
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/valerio/go-laserdisc/laserdisc/player"
)

// Script runs Lua host programs against a Host. Each host operation is a
// global function:
//
//	data(b, ...)        write bytes
//	read() -> b         read a byte
//	line(name, on)      drive a control line
//	sense(name) -> on   sample a control line
//	vsync([n])          run n fields
//	wait(us)            advance the clock
//	pulse8210(code, ...)
//	send(text)
//	status() -> table
//	exec(command)       run a console command
type Script struct {
	h *Host
	L *lua.LState
}

func NewScript(h *Host) *Script {
	s := &Script{h: h, L: lua.NewState()}
	for name, fn := range map[string]lua.LGFunction{
		"data":      s.data,
		"read":      s.read,
		"line":      s.line,
		"sense":     s.sense,
		"vsync":     s.vsync,
		"wait":      s.wait,
		"pulse8210": s.pulse8210,
		"send":      s.send,
		"status":    s.status,
		"exec":      s.exec,
	} {
		s.L.SetGlobal(name, s.L.NewFunction(fn))
	}
	return s
}

func (s *Script) RunFile(path string) error {
	return s.L.DoFile(path)
}

func (s *Script) RunString(src string) error {
	return s.L.DoString(src)
}

func (s *Script) Close() {
	s.L.Close()
}

func checkByte(L *lua.LState, n int) byte {
	v := L.CheckInt(n)
	if v < 0 || v > 0xff {
		L.ArgError(n, "byte out of range")
	}
	return byte(v)
}

func checkLine(L *lua.LState, n int) player.Line {
	line, err := player.ParseLine(L.CheckString(n))
	if err != nil {
		L.ArgError(n, err.Error())
	}
	return line
}

func (s *Script) data(L *lua.LState) int {
	for n := 1; n <= L.GetTop(); n++ {
		s.h.Data(checkByte(L, n))
	}
	return 0
}

func (s *Script) read(L *lua.LState) int {
	L.Push(lua.LNumber(s.h.Read()))
	return 1
}

func (s *Script) line(L *lua.LState) int {
	line := checkLine(L, 1)
	state := player.Clear
	if L.ToBool(2) {
		state = player.Asserted
	}
	s.h.SetLine(line, state)
	return 0
}

func (s *Script) sense(L *lua.LState) int {
	L.Push(lua.LBool(s.h.Sense(checkLine(L, 1)) == player.Asserted))
	return 1
}

func (s *Script) vsync(L *lua.LState) int {
	if err := s.h.VSync(L.OptInt(1, 1)); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (s *Script) wait(L *lua.LState) int {
	s.h.Wait(time.Duration(L.CheckInt64(1)) * time.Microsecond)
	return 0
}

func (s *Script) pulse8210(L *lua.LState) int {
	for n := 1; n <= L.GetTop(); n++ {
		s.h.Pulse8210(checkByte(L, n))
	}
	return 0
}

func (s *Script) send(L *lua.LState) int {
	s.h.Send(L.CheckString(1))
	return 0
}

func (s *Script) status(L *lua.LState) int {
	st := s.h.Device().Player().Status()
	t := L.NewTable()
	L.SetField(t, "model", lua.LString(st.Model.String()))
	L.SetField(t, "state", lua.LString(st.State.String()))
	L.SetField(t, "track", lua.LNumber(st.Track))
	L.SetField(t, "frame", lua.LNumber(st.Frame))
	L.SetField(t, "chapter", lua.LNumber(st.Chapter))
	L.SetField(t, "target", lua.LNumber(st.Target))
	L.SetField(t, "holding", lua.LBool(st.Holding))
	L.SetField(t, "commands", lua.LNumber(st.Commands))
	L.Push(t)
	return 1
}

func (s *Script) exec(L *lua.LState) int {
	if err := s.h.Exec(L.CheckString(1)); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}
