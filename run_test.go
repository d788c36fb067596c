package ubasic

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type testSerial struct {
	out   strings.Builder
	lines []string
}

func (s *testSerial) Print(text string) {

	s.out.WriteString(text)
}

func (s *testSerial) InputAvailable() bool {

	return len(s.lines) > 0
}

func (s *testSerial) Input(maxlen int) string {

	if len(s.lines) == 0 {
		return ""
	}

	line := s.lines[0]
	s.lines = s.lines[1:]

	if len(line) > maxlen {
		line = line[:maxlen]
	}

	return line
}

func (s *testSerial) feed(line string) {

	s.lines = append(s.lines, line)
}

type testStorage struct {
	vars map[[2]uint8][]byte
}

func (st *testStorage) Init() error {

	st.vars = make(map[[2]uint8][]byte)

	return nil
}

func (st *testStorage) WriteVariable(slot, kind uint8, data []byte) error {

	st.vars[[2]uint8{slot, kind}] = append([]byte(nil), data...)

	return nil
}

func (st *testStorage) ReadVariable(slot, kind uint8) ([]byte, error) {

	return st.vars[[2]uint8{slot, kind}], nil
}

func newTestInterpreter(hw Hardware) (*Interpreter, *testSerial) {

	serial := &testSerial{}
	hw.Serial = serial

	return New(hw, nil), serial
}

//
// Step program to the end, ticking the registers between steps so
// SLEEP and INPUT timeouts run out
//

func runProgram(t *testing.T, in *Interpreter, program string) error {

	t.Helper()

	in.LoadProgram(program)

	for range 10000 {
		if in.Finished() {
			return nil
		}

		if err := in.Step(); err != nil {
			return err
		}

		in.regs.Tick(1)
	}

	t.Fatalf("%q did not finish", program)

	return nil
}

func output(t *testing.T, program string) string {

	t.Helper()

	in, serial := newTestInterpreter(Hardware{})

	if err := runProgram(t, in, program); err != nil {
		t.Fatalf("%q: %v", program, err)
	}

	return serial.out.String()
}

func TestPrograms(t *testing.T) {

	tests := []struct {
		program string
		want    string
	}{
		{"LET A = 2\nLET B = A * 3\nPRINT B", "6"},
		{"print 7 / 2", "3.5"},
		{"print -1.5", "-1.5"},
		{"print 10 % 3", "1"},
		{"print 2 + 3 * 4", "14"},
		{"print (2 + 3) * 4", "20"},
		{"println 1, 2; 3", "1 23\n"},
		{"print 1 < 2, 2 < 1", "1 0"},
		{"print hex 0xff; dec 0x10", "ff16"},
		{"print 3 and 1, 2 or 1", "1 3"},
		{"a$ = \"ab\" + \"cd\"\nprint a$, len(a$)", "abcd 4"},
		{"print left$(\"hello\", 2)", "he"},
		{"print right$(\"hello\", 3)", "llo"},
		{"print mid$(\"hello\", 2)", "ello"},
		{"print mid$(\"hello\", 2, 3)", "ell"},
		{"print instr(1, \"hello world\", \"world\")", "7"},
		{"print instr(\"abcabc\", \"c\"), instr(4, \"abcabc\", \"c\")", "3 6"},
		{"print val(\"12.5\") + 1", "13.5"},
		{"print str$(42), chr$(65), asc(\"A\")", "42 A 65"},
		{"print round(2.5), floor(2.7), ceil(2.2)", "3 2 3"},
		{"print abs(-4), sqrt(16)", "4 4"},
		{"a$ = \"x\"\nif a$ = \"x\" then print \"y\"\nif a$ = \"z\" then print \"n\"", "y"},
		{"a = 1\nclear\nprint a", "0"},
		{"print \"a\"\nend\nprint \"b\"", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.program, func(t *testing.T) {
			if got := output(t, tt.program); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestArrays(t *testing.T) {

	in, serial := newTestInterpreter(Hardware{})

	program := "dim a@ 3\na@(1) = 5\na@(3) = a@(1) * 2\nprint a@(1); a@(2); a@(3)"
	if err := runProgram(t, in, program); err != nil {
		t.Fatal(err)
	}

	if got := serial.out.String(); got != "5010" {
		t.Fatalf("got %q", got)
	}

	if in.ArrayLen(0) != 3 || in.ArrayElement(0, 4) != -1 || in.ArrayElement(1, 1) != -1 {
		t.Fatalf("got len %d", in.ArrayLen(0))
	}

	// writes out of range are dropped
	if err := runProgram(t, in, "a@(9) = 1\nb@(1) = 1"); err != nil {
		t.Fatal(err)
	}
	if in.ArrayLen(1) != -1 {
		t.Fatal("b@ should stay unallocated")
	}
}

func TestRuntimeErrors(t *testing.T) {

	tests := []struct {
		program string
		want    error
	}{
		{"print 1/0", ErrArithmetic},
		{"print 1 % 0", ErrArithmetic},
		{"goto nowhere", ErrLabelNotFound},
		{"return", ErrUnmatchedControl},
		{"next i", ErrUnmatchedControl},
		{"for i = 1 to 2\nnext j", ErrUnmatchedControl},
		{"while 0\nprint 1", ErrUnmatchedControl},
		{"endwhile", ErrUnmatchedControl},
		{"if 0 then\nprint 1", ErrUnmatchedControl},
		{"endif", ErrUnmatchedControl},
		{"else", ErrUnmatchedControl},
		{"gosub s\n:s\ngosub s", ErrStackDepth},
		{"for a = 1 to 1\nfor b = 1 to 1\nfor c = 1 to 1\nfor d = 1 to 1\nfor e = 1 to 1", ErrStackDepth},
		{"while 1\nwhile 1\nwhile 1\nwhile 1\nwhile 1", ErrStackDepth},
		{"if 1 then\nif 1 then\nif 1 then\nif 1 then\nif 1 then", ErrStackDepth},
		{"foo", ErrSyntax},
		{"let a 1", ErrSyntax},
		{"for i = 1 to 20\na$ = a$ + \"0123456789\"\nnext i", ErrHeapExhausted},
	}

	for _, tt := range tests {
		t.Run(tt.program, func(t *testing.T) {
			in, _ := newTestInterpreter(Hardware{})

			err := runProgram(t, in, tt.program)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}

			st := in.Status()
			if !st.Error || st.Running || in.Err() == nil {
				t.Fatalf("got status %+v", st)
			}

			// a halted program stays halted
			if err := in.Step(); err != nil {
				t.Fatalf("step after error: %v", err)
			}
		})
	}
}

//
// Each stack holds exactly its depth; one more level fails
//

func TestStackDepths(t *testing.T) {

	nest := func(open string, n int) string {
		return strings.Repeat(open+"\n", n)
	}

	tests := []struct {
		name  string
		open  string
		depth int
	}{
		{"for", "for i = 1 to 1", forStackMax},
		{"while", "while 1", whileStackMax},
		{"if", "if 1 then", ifStackMax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, _ := newTestInterpreter(Hardware{})

			if err := runProgram(t, in, nest(tt.open, tt.depth)); err != nil {
				t.Fatalf("depth %d: %v", tt.depth, err)
			}

			err := runProgram(t, in, nest(tt.open, tt.depth+1))

			var re *RuntimeError
			if !errors.As(err, &re) || re.Kind != StackDepthExceeded {
				t.Fatalf("depth %d: got %v", tt.depth+1, err)
			}
		})
	}
}

func TestRuntimeErrorOffset(t *testing.T) {

	in, _ := newTestInterpreter(Hardware{})

	err := runProgram(t, in, "a = 1\nprint a / 0\n")

	var re *RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("got %v", err)
	}

	if re.Kind != ArithmeticError || re.Offset != 6 || re.Msg != EDIVISIONBYZERO {
		t.Fatalf("got %+v", re)
	}
}

func TestInput(t *testing.T) {

	in, serial := newTestInterpreter(Hardware{})

	in.LoadProgram("input a\nprint a * 2")

	if err := in.Step(); err != nil {
		t.Fatal(err)
	}

	for range 3 {
		if err := in.Step(); err != nil {
			t.Fatal(err)
		}
	}

	if !in.WaitingForInput() || in.Finished() || !in.Status().WaitingForInput {
		t.Fatal("should be waiting for input")
	}

	serial.feed("21")

	for !in.Finished() {
		if err := in.Step(); err != nil {
			t.Fatal(err)
		}
	}

	if got := serial.out.String(); got != "42" {
		t.Fatalf("got %q", got)
	}
}

func TestInputModes(t *testing.T) {

	in, serial := newTestInterpreter(Hardware{})

	serial.feed("ff")
	serial.feed("hello")
	serial.feed("2.5")

	program := "dim c@ 2\ninput hex a\ninput b$\ninput c@(2)\nprint dec a, b$, c@(2)"
	if err := runProgram(t, in, program); err != nil {
		t.Fatal(err)
	}

	if got := serial.out.String(); got != "255 hello 2.5" {
		t.Fatalf("got %q", got)
	}
}

func TestInputTimeout(t *testing.T) {

	in, _ := newTestInterpreter(Hardware{})

	in.LoadProgram("input b$, 5")

	if err := in.SetStringVariable(1, "keep"); err != nil {
		t.Fatal(err)
	}

	if err := in.Step(); err != nil {
		t.Fatal(err)
	}

	in.regs.Tick(4)
	if err := in.Step(); err != nil {
		t.Fatal(err)
	}
	if !in.WaitingForInput() {
		t.Fatal("timed out too early")
	}

	in.regs.Tick(1)
	if err := in.Step(); err != nil {
		t.Fatal(err)
	}

	if in.WaitingForInput() || !in.Finished() {
		t.Fatal("should have timed out")
	}

	if got := in.StringVariable(1); got != "keep" {
		t.Fatalf("got %q", got)
	}
}

func TestParseRaw(t *testing.T) {

	tests := []struct {
		s    string
		base int
		want int32
	}{
		{"ff", 16, 255},
		{"0x1F", 16, 31},
		{" -12 ", 10, -12},
		{"12abc", 10, 12},
		{"", 10, 0},
		{"zz", 16, 0},
	}

	for _, tt := range tests {
		if got := parseRaw(tt.s, tt.base); got != tt.want {
			t.Fatalf("%q: got %d, want %d", tt.s, got, tt.want)
		}
	}
}

func TestSleep(t *testing.T) {

	in, serial := newTestInterpreter(Hardware{})

	in.LoadProgram("sleep 0.5\nprint \"x\"")

	if err := in.Step(); err != nil {
		t.Fatal(err)
	}

	if got := in.regs.SleepRemaining(); got != 500 {
		t.Fatalf("got %d", got)
	}

	in.regs.Tick(499)
	if err := in.Step(); err != nil {
		t.Fatal(err)
	}
	if serial.out.Len() != 0 {
		t.Fatal("ran while sleeping")
	}

	in.regs.Tick(1)
	if err := in.Step(); err != nil {
		t.Fatal(err)
	}
	if got := serial.out.String(); got != "x" {
		t.Fatalf("got %q", got)
	}
}

func TestExecute(t *testing.T) {

	in, serial := newTestInterpreter(Hardware{})
	ctx := context.Background()

	st, err := in.Execute(ctx, "a = 5")
	if err != nil || st.Running || st.Error || st.NotInitialized {
		t.Fatalf("got %+v, %v", st, err)
	}

	if _, err := in.Execute(ctx, "print a + 1"); err != nil {
		t.Fatal(err)
	}
	if got := serial.out.String(); got != "6" {
		t.Fatalf("got %q", got)
	}

	st, err = in.Execute(ctx, "print 1/0")
	if !errors.Is(err, ErrArithmetic) || !st.Error {
		t.Fatalf("got %+v, %v", st, err)
	}

	// the next Execute clears the error
	if st, err := in.Execute(ctx, "a = 1"); err != nil || st.Error {
		t.Fatalf("got %+v, %v", st, err)
	}
}

func TestRunCancelled(t *testing.T) {

	in, _ := newTestInterpreter(Hardware{})

	in.LoadProgram("sleep 10\nprint 1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := in.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}
}

func TestVariablesSurviveReload(t *testing.T) {

	in, serial := newTestInterpreter(Hardware{})

	if !in.Status().NotInitialized {
		t.Fatal("fresh interpreter should be uninitialized")
	}

	if err := runProgram(t, in, "a = 7\nb$ = \"s\""); err != nil {
		t.Fatal(err)
	}

	if err := runProgram(t, in, "print a; b$"); err != nil {
		t.Fatal(err)
	}

	if got := serial.out.String(); got != "7s" {
		t.Fatalf("got %q", got)
	}

	in.ClearVariables()
	if in.Variable(0) != 0 || in.StringVariable(1) != "" {
		t.Fatal("variables not cleared")
	}
}

func TestStatusByte(t *testing.T) {

	st := Status{NotInitialized: true, Running: true}
	if st.Byte() != 0x11 {
		t.Fatalf("got %#x", st.Byte())
	}

	st = Status{StringHeapDirty: true, WaitingForInput: true, Error: true}
	if st.Byte() != 0x0e {
		t.Fatalf("got %#x", st.Byte())
	}
}

func TestStoreRecall(t *testing.T) {

	storage := &testStorage{}
	if err := storage.Init(); err != nil {
		t.Fatal(err)
	}

	in, serial := newTestInterpreter(Hardware{Storage: storage})

	program := `a = 3
store(a)
a = 0
print recall(a); a; ","
a$ = "hi"
store(a$)
a$ = ""
print recall(a$); a$; ","
dim c@ 2
c@(1) = 7
c@(2) = 9
store(c@)
dim c@ 0
print recall(c@); c@(2); ","
print recall(z)
`

	if err := runProgram(t, in, program); err != nil {
		t.Fatal(err)
	}

	if got := serial.out.String(); got != "13,2hi,29,0" {
		t.Fatalf("got %q", got)
	}

	if got := storage.vars[[2]uint8{0, KindNumeric}]; len(got) != 4 || got[0] != 0 || got[1] != 3 {
		t.Fatalf("got % x", got)
	}
}

type testPins struct {
	modes  map[uint8]int8
	levels map[uint8]uint8
}

func (p *testPins) PinMode(ch uint8, mode int8, speed uint8) { p.modes[ch] = mode }
func (p *testPins) DigitalWrite(ch uint8, v uint8)           { p.levels[ch] = v }
func (p *testPins) DigitalRead(ch uint8) int8                { return int8(p.levels[ch]) }

type testPWM struct {
	duty      map[uint8]int16
	prescaler uint16
	period    uint16
}

func (p *testPWM) AnalogWriteConfig(prescaler, period uint16) {

	p.prescaler, p.period = prescaler, period
}

func (p *testPWM) AnalogWrite(ch uint8, duty int16) {

	p.duty[ch] = duty
}

type testADC struct {
	sampletime, nreads uint8
}

func (a *testADC) AnalogReadConfig(sampletime, nreads uint8) {

	a.sampletime, a.nreads = sampletime, nreads
}

func (a *testADC) AnalogRead(ch uint8) int16 {

	return int16(ch) * 10
}

type testRandom struct {
	v uint32
}

func (r testRandom) Uint32(bits uint) uint32 { return r.v }

func TestHardware(t *testing.T) {

	pins := &testPins{modes: map[uint8]int8{}, levels: map[uint8]uint8{}}
	pwm := &testPWM{duty: map[uint8]int16{}}
	adc := &testADC{}

	in, serial := newTestInterpreter(Hardware{Pins: pins, PWM: pwm, ADC: adc, Random: testRandom{v: 5}})

	program := `pinmode(0xa1, 1, 0)
pinmode(0x10, 1, 0)
dwrite(0xa1, 5)
print dread(0xa1); ","
pwmconf(-3, 100)
pwm(1, 50)
pwm(9, 10)
print pwm(1); pwm(5); ","
areadconf(9, 4)
print aread(2); ","
print ran
`

	if err := runProgram(t, in, program); err != nil {
		t.Fatal(err)
	}

	if got := serial.out.String(); got != "1,50-1,20,5" {
		t.Fatalf("got %q", got)
	}

	if len(pins.modes) != 1 || pins.modes[0xa1] != 1 || pins.levels[0xa1] != 1 {
		t.Fatalf("got %+v", pins)
	}

	if len(pwm.duty) != 1 || pwm.duty[1] != 50 || pwm.prescaler != 0 || pwm.period != 100 {
		t.Fatalf("got %+v", pwm)
	}

	if adc.sampletime != 7 || adc.nreads != 4 {
		t.Fatalf("got %+v", adc)
	}
}

func TestTimersAndEvents(t *testing.T) {

	in, serial := newTestInterpreter(Hardware{})
	ctx := context.Background()

	if _, err := in.Execute(ctx, "tic(2)"); err != nil {
		t.Fatal(err)
	}

	in.regs.Tick(7)
	in.regs.SetEvent(3)

	if _, err := in.Execute(ctx, "print toc(2), hwe(3); hwe(3)"); err != nil {
		t.Fatal(err)
	}

	if got := serial.out.String(); got != "7 10" {
		t.Fatalf("got %q", got)
	}
}

func TestSnapshot(t *testing.T) {

	in, _ := newTestInterpreter(Hardware{})

	if err := runProgram(t, in, "a = 1.5\nb$ = \"x\"\ndim c@ 2\nc@(1) = 4"); err != nil {
		t.Fatal(err)
	}

	s := in.Snapshot()

	if s.Variables["a"] != "1.5" || s.Strings["b$"] != "x" || len(s.Arrays["c@"]) != 2 {
		t.Fatalf("got %+v", s)
	}

	if s.Statements != 4 || s.Error != "" {
		t.Fatalf("got %+v", s)
	}
}
