package ubasic

import (
	"fmt"
	"strconv"

	"github.com/goforj/godump"

	"ubasic/fixedpt"
	tk "ubasic/tokenizer"
)

//
// Hard failures unwind the evaluator with a panic carrying a
// *RuntimeError.  call recovers it at the statement boundary and turns
// it into the Error status.  Anything else that panics is a bug in
// the interpreter and is passed through
//

func (in *Interpreter) runtimeCheck(chk bool, msg string) {

	if !chk {
		in.runtimeError(msg)
	}
}

func (in *Interpreter) runtimeError(msg string, args ...any) {

	re := &RuntimeError{Kind: getErrorKind(msg), Msg: msg, Offset: in.stmtOffset}

	if len(args) > 0 {
		re.Detail = fmt.Sprintf(args[0].(string), args[1:]...)
	}

	panic(re)
}

func (in *Interpreter) call(f func()) (err error) {

	defer func() {
		if e := recover(); e != nil {
			re, ok := e.(*RuntimeError)
			if !ok {
				panic(e)
			}

			in.fail(re)
			err = re
		}
	}()

	f()

	return nil
}

func (in *Interpreter) fail(re *RuntimeError) {

	in.hasError = true
	in.running = false
	in.err = re

	in.log.Error("runtime error",
		"kind", re.Kind.String(),
		"msg", re.Msg,
		"detail", re.Detail,
		"offset", re.Offset)

	if in.traceDump {
		godump.Dump(in.Snapshot())
	}
}

//
// Consume tok, or fail with a syntax error
//

func (in *Interpreter) accept(tok tk.Token) {

	if got := in.ts.Token(); got != tok {
		in.runtimeError(ESYNTAX, "expected %s, got %s", tok, got)
	}

	in.ts.Next()
}

//
// Skip whatever is left of the line and the end of line itself.  An
// ERROR token stops the skip so the next dispatch reports it
//

func (in *Interpreter) acceptEOL() {

	for {
		switch in.ts.Token() {
		case tk.EOL:
			in.ts.Next()
			return
		case tk.ERROR, tk.ENDOFINPUT:
			return
		}

		in.ts.Next()
	}
}

const (
	printDefault = iota
	printHex
	printDec
)

func formatNumber(v int32, how int) string {

	switch how {
	case printHex:
		return strconv.FormatUint(uint64(uint32(v)), 16)
	case printDec:
		return strconv.FormatInt(int64(v), 10)
	}

	return fixedpt.Format(v)
}

//
// A point-in-time copy of the interpreter state for tracing and for
// hosts that want to show it
//

type Snapshot struct {
	Status      Status
	Variables   map[string]string
	Strings     map[string]string
	Arrays      map[string][]int32
	GosubDepth  int
	ForDepth    int
	WhileDepth  int
	IfDepth     int
	StringsUsed int
	ArraySlots  int
	SleepMs     uint32
	Events      uint32
	Statements  int64
	Error       string
}

func (in *Interpreter) Snapshot() Snapshot {

	s := Snapshot{
		Status:      in.Status(),
		Variables:   make(map[string]string),
		Strings:     make(map[string]string),
		Arrays:      make(map[string][]int32),
		GosubDepth:  in.gosubPtr,
		ForDepth:    in.forPtr,
		WhileDepth:  in.whilePtr,
		IfDepth:     in.ifPtr,
		StringsUsed: in.strings.free,
		ArraySlots:  in.arrays.free,
		SleepMs:     in.regs.SleepRemaining(),
		Events:      in.regs.Events(),
		Statements:  in.numStatements,
	}

	for i := range NumVariables {
		name := string(rune('a' + i))

		if v := in.variables[i]; v != 0 {
			s.Variables[name] = fixedpt.Format(v)
		}

		if off := in.stringVars[i]; off != unset {
			s.Strings[name+"$"] = in.strings.str(off)
		}

		if loc := in.arrayVars[i]; loc != unset {
			n := in.arrays.size(loc)
			s.Arrays[name+"@"] = append([]int32(nil), in.arrays.data[loc+1:int(loc)+1+n]...)
		}
	}

	if in.err != nil {
		s.Error = in.err.Error()
	}

	return s
}
