package player

// protocol is the command interpreter of one player model. Adapters
// implement whichever of the bus interfaces below their hardware has;
// the player probes for them once at construction.
type protocol interface {
	model() Model
	reset()
}

type dataWriter interface {
	writeData(data byte)
}

type dataReader interface {
	readData() (byte, bool)
}

type lineWriter interface {
	writeLine(line Line, state LineState) bool
}

type lineReader interface {
	readLine(line Line) (LineState, bool)
}

// stateNotifier is told about every state change made during vsync.
type stateNotifier interface {
	stateChanged(prev State)
}

// fieldTicker runs once per field, after the state machine.
type fieldTicker interface {
	fieldTick()
}

type buses struct {
	writer   dataWriter
	reader   dataReader
	lineIn   lineWriter
	lineOut  lineReader
	notifier stateNotifier
	ticker   fieldTicker
}

func newProtocol(p *Player, m Model) protocol {
	switch m {
	case ModelPR7820:
		return newPR7820(p)
	case ModelPR8210:
		return newPR8210(p)
	case ModelLDV1000:
		return newLDV1000(p)
	case ModelLDP1450:
		return newLDP1450(p)
	case Model22VP932:
		return newVP932(p)
	}
	return nil
}

func probeBuses(proto protocol) buses {
	var b buses
	b.writer, _ = proto.(dataWriter)
	b.reader, _ = proto.(dataReader)
	b.lineIn, _ = proto.(lineWriter)
	b.lineOut, _ = proto.(lineReader)
	b.notifier, _ = proto.(stateNotifier)
	b.ticker, _ = proto.(fieldTicker)
	return b
}

// digitTable maps the ten decimal digits to a protocol's code bytes.
type digitTable [10]byte

func (t *digitTable) lookup(code byte) (int, bool) {
	for d, c := range t {
		if c == code {
			return d, true
		}
	}
	return 0, false
}

// parameter accumulates decimal digits typed ahead of a command.
type parameter struct {
	value int
}

const maxParameter = 100000

func newParameter() parameter {
	return parameter{value: -1}
}

func (p *parameter) clear() {
	p.value = -1
}

func (p *parameter) push(digit int) {
	if p.value < 0 {
		p.value = 0
	}
	p.value = (p.value*10 + digit) % maxParameter
}

func (p *parameter) set() bool {
	return p.value >= 0
}

// get returns the accumulated value or def if no digit was entered.
func (p *parameter) get(def int) int {
	if p.value < 0 {
		return def
	}
	return p.value
}

// fifo is the bounded reply queue of the serial players. When full the
// oldest byte is dropped.
type fifo struct {
	buf   [fifoSize]byte
	head  int
	count int
}

const fifoSize = 32

func (f *fifo) push(b byte) {
	if f.count == fifoSize {
		f.head = (f.head + 1) % fifoSize
		f.count--
	}
	f.buf[(f.head+f.count)%fifoSize] = b
	f.count++
}

func (f *fifo) pushString(s string) {
	for i := 0; i < len(s); i++ {
		f.push(s[i])
	}
}

func (f *fifo) pop() (byte, bool) {
	if f.count == 0 {
		return 0, false
	}
	b := f.buf[f.head]
	f.head = (f.head + 1) % fifoSize
	f.count--
	return b, true
}

func (f *fifo) empty() bool {
	return f.count == 0
}

func (f *fifo) clear() {
	f.head, f.count = 0, 0
}
