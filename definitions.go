package ubasic

import (
	"log/slog"

	"ubasic/tokenizer"
)

//
// Fixed pool sizes and stack depths.  Everything the interpreter
// needs is allocated up front in the Interpreter struct; nothing
// grows while a program runs
//

const (
	NumVariables = 26

	stringHeapSize = 256
	arrayHeapSize  = 64

	maxStringLen = 40

	gosubStackMax = 10
	forStackMax   = 4
	whileStackMax = 4
	ifStackMax    = 4

	pwmChannels = 4
	ticChannels = 6

	// Offset sentinel for unset string and array variables
	unset = -1
)

//
// INPUT modes, set by an optional HEX or DEC prefix
//

const (
	inputFixed = iota
	inputHex
	inputDec
)

//
// Variable kinds, as passed to the Storage adapter
//

const (
	KindNumeric uint8 = iota
	KindString
	KindArray
)

//
// The token stream the interpreter consumes.  tokenizer.Tokenizer is
// the stock implementation
//

type TokenStream interface {
	Init(program string)
	Token() tokenizer.Token
	Next()
	Num() int32
	Float() int32
	Int() int32
	StringValue() string
	Label() string
	VariableNum() int
	Finished() bool
	SaveOffset() int
	JumpOffset(offset int)
	StringLookahead() bool
}

type forStackNode struct {
	resume int
	varNum int
	to     int32
	step   int32
}

type whileStackNode struct {
	start int
	end   int
}

type inputRequest struct {
	kind   uint8
	how    int
	varNum int
	index  int
	timed  bool
}

type Status struct {
	NotInitialized  bool
	StringHeapDirty bool
	WaitingForInput bool
	Error           bool
	Running         bool
}

type Interpreter struct {
	ts   TokenStream
	hw   Hardware
	regs *Registers
	log  *slog.Logger

	traceDump bool

	labels *labelTable

	variables  [NumVariables]int32
	stringVars [NumVariables]int16
	arrayVars  [NumVariables]int16

	strings stringHeap
	arrays  arrayHeap

	gosubStack [gosubStackMax]int
	gosubPtr   int

	forStack [forStackMax]forStackNode
	forPtr   int

	whileStack [whileStackMax]whileStackNode
	whilePtr   int

	ifStack [ifStackMax]bool
	ifPtr   int

	notInitialized  bool
	waitingForInput bool
	hasError        bool
	running         bool

	pwmDuty [pwmChannels]int16

	input inputRequest

	err        *RuntimeError
	stmtOffset int

	numStatements int64
}

type Option func(*Interpreter)

func WithLogger(l *slog.Logger) Option {

	return func(in *Interpreter) {
		in.log = l
	}
}

func WithTokenStream(ts TokenStream) Option {

	return func(in *Interpreter) {
		in.ts = ts
	}
}

//
// Dump an interpreter snapshot with godump whenever a hard error
// halts the program
//

func WithTraceDump(on bool) Option {

	return func(in *Interpreter) {
		in.traceDump = on
	}
}

//
// New returns an interpreter wired to hw and regs.  Nil adapters in
// hw are replaced by inert defaults, and a nil regs gets a private
// register block
//

func New(hw Hardware, regs *Registers, opts ...Option) *Interpreter {

	in := &Interpreter{
		hw:             hw.withDefaults(),
		regs:           regs,
		notInitialized: true,
	}

	for _, opt := range opts {
		opt(in)
	}

	if in.regs == nil {
		in.regs = NewRegisters()
	}

	if in.ts == nil {
		in.ts = tokenizer.New()
	}

	if in.log == nil {
		in.log = slog.New(slog.DiscardHandler)
	}

	in.labels = newLabelTable()

	in.clearVariables()

	return in
}

func (in *Interpreter) Status() Status {

	return Status{
		NotInitialized:  in.notInitialized,
		StringHeapDirty: in.strings.dirty,
		WaitingForInput: in.waitingForInput,
		Error:           in.hasError,
		Running:         in.running,
	}
}

//
// The status packed the way the firmware status register reports it:
// bit 0 not initialized, 1 string heap dirty, 2 waiting for input,
// 3 error, 4 running
//

func (s Status) Byte() uint8 {

	var b uint8

	for i, f := range []bool{s.NotInitialized, s.StringHeapDirty,
		s.WaitingForInput, s.Error, s.Running} {
		if f {
			b |= 1 << i
		}
	}

	return b
}

func (in *Interpreter) Registers() *Registers {

	return in.regs
}

func (in *Interpreter) Statements() int64 {

	return in.numStatements
}
