package ubasic

import (
	"encoding/binary"
	"strings"

	"ubasic/fixedpt"
	tk "ubasic/tokenizer"
)

//
// One line: any number of ':label' markers, then a statement
//

func (in *Interpreter) lineStatement() {

	in.stmtOffset = in.ts.SaveOffset()

	for in.ts.Token() == tk.COLON {
		in.ts.Next()
		in.accept(tk.LABEL)
	}

	in.statement()

	in.numStatements++
}

func (in *Interpreter) statement() {

	tok := in.ts.Token()

	switch tok {
	case tk.EOL:
		in.ts.Next()

	case tk.PRINT:
		in.executePrint(false)

	case tk.PRINTLN:
		in.executePrint(true)

	case tk.IF:
		in.executeIf()

	case tk.ELSE:
		in.executeElse()

	case tk.ENDIF:
		in.executeEndif()

	case tk.GOTO:
		in.executeGoto()

	case tk.GOSUB:
		in.executeGosub()

	case tk.RETURN:
		in.executeReturn()

	case tk.FOR:
		in.executeFor()

	case tk.NEXT:
		in.executeNext()

	case tk.WHILE:
		in.executeWhile()

	case tk.ENDWHILE:
		in.executeEndwhile()

	case tk.END:
		in.executeEnd()

	case tk.LET:
		in.ts.Next()
		fallthrough

	case tk.VARIABLE, tk.STRINGVARIABLE, tk.ARRAYVARIABLE:
		in.executeLet()

	case tk.DIM:
		in.executeDim()

	case tk.INPUT:
		in.executeInput()

	case tk.SLEEP:
		in.executeSleep()

	case tk.TIC:
		in.executeTic()

	case tk.PWM:
		in.executePwm()

	case tk.PWMCONF:
		in.executePwmconf()

	case tk.AREADCONF:
		in.executeAreadconf()

	case tk.PINMODE:
		in.executePinmode()

	case tk.DWRITE:
		in.executeDwrite()

	case tk.STORE:
		in.executeStore()

	case tk.RECALL:
		in.recall()
		in.acceptEOL()

	case tk.CLEAR:
		in.ts.Next()
		in.clearVariables()
		in.acceptEOL()

	default:
		in.runtimeError(EUNKNOWNSTATEMENT, "%s", tok)
	}
}

//
// PRINT fields are string expressions, numeric expressions, or ','
// which prints a space.  ';' separates fields without output.  HEX or
// DEC in front of a numeric field prints its raw value in that radix
//

func (in *Interpreter) executePrint(newline bool) {

	var sb strings.Builder

	in.ts.Next()

	for {
		tok := in.ts.Token()

		if tok == tk.EOL || tok == tk.ENDOFINPUT || tok == tk.ELSE {
			break
		}

		how := printDefault

		switch tok {
		case tk.HEX:
			in.ts.Next()
			how = printHex
		case tk.DEC:
			in.ts.Next()
			how = printDec
		}

		switch {
		case in.ts.Token() == tk.COMMA:
			in.ts.Next()
			sb.WriteByte(' ')
		case in.ts.Token() == tk.SEMICOLON:
			in.ts.Next()
		case in.ts.StringLookahead():
			sb.WriteString(in.strings.str(in.stringExpr()))
		default:
			sb.WriteString(formatNumber(in.relation(), how))
		}
	}

	if newline {
		sb.WriteByte('\n')
	}

	in.hw.Serial.Print(sb.String())

	in.acceptEOL()
}

func (in *Interpreter) executeLet() {

	varNum := in.ts.VariableNum()

	switch in.ts.Token() {
	case tk.VARIABLE:
		in.ts.Next()
		in.accept(tk.EQ)
		in.variables[varNum] = in.relation()

	case tk.STRINGVARIABLE:
		in.ts.Next()
		in.accept(tk.EQ)
		in.setStringVar(varNum, in.stringExpr())

	case tk.ARRAYVARIABLE:
		in.ts.Next()
		idx := fixedpt.ToInt(in.parenRelation())
		in.accept(tk.EQ)
		in.arrays.set(&in.arrayVars, varNum, int(idx), in.relation())

	default:
		in.runtimeError(ESYNTAX, "expected variable, got %s", in.ts.Token())
	}

	in.acceptEOL()
}

//
// DIM a@ n.  A failed allocation leaves the array unallocated and
// is not an error
//

func (in *Interpreter) executeDim() {

	in.accept(tk.DIM)

	varNum := in.ts.VariableNum()
	in.accept(tk.ARRAYVARIABLE)

	size := fixedpt.ToInt(in.relation())

	if !in.arrays.dim(&in.arrayVars, varNum, int(size)) {
		in.log.Debug("dim failed", "var", string(rune('a'+varNum))+"@", "size", size)
	}

	in.acceptEOL()
}

//
// INPUT [HEX|DEC] var [, timeout_ms].  The statement only records the
// request; Step completes it once the serial adapter has input or the
// timeout has run out
//

func (in *Interpreter) executeInput() {

	in.accept(tk.INPUT)

	req := inputRequest{how: inputFixed}

	switch in.ts.Token() {
	case tk.HEX:
		in.ts.Next()
		req.how = inputHex
	case tk.DEC:
		in.ts.Next()
		req.how = inputDec
	}

	req.varNum = in.ts.VariableNum()

	switch in.ts.Token() {
	case tk.VARIABLE:
		in.ts.Next()
		req.kind = KindNumeric
	case tk.STRINGVARIABLE:
		in.ts.Next()
		req.kind = KindString
	case tk.ARRAYVARIABLE:
		in.ts.Next()
		req.kind = KindArray
		req.index = int(fixedpt.ToInt(in.parenRelation()))
	default:
		in.runtimeError(ESYNTAX, "expected variable, got %s", in.ts.Token())
	}

	in.regs.setInputWait(0)

	if in.ts.Token() == tk.COMMA {
		in.ts.Next()
		if ms := fixedpt.ToInt(in.relation()); ms > 0 {
			req.timed = true
			in.regs.setInputWait(uint32(ms))
		}
	}

	in.acceptEOL()

	in.input = req
	in.waitingForInput = true
}

//
// Store whatever the serial adapter has into the pending INPUT
// variable.  Nothing received leaves the variable unchanged
//

func (in *Interpreter) completeInput() {

	in.waitingForInput = false

	text := in.hw.Serial.Input(maxStringLen - 1)
	if text == "" {
		return
	}

	req := in.input

	if req.kind == KindString {
		in.setStringVar(req.varNum, in.heapCheck(in.strings.copyIn(text)))
		return
	}

	var v int32

	switch req.how {
	case inputHex:
		v = parseRaw(text, 16)
	case inputDec:
		v = parseRaw(text, 10)
	default:
		v = fixedpt.Parse(text)
	}

	if req.kind == KindNumeric {
		in.variables[req.varNum] = v
	} else {
		in.arrays.set(&in.arrayVars, req.varNum, req.index, v)
	}
}

//
// Leading integer of s in the given base, 0 if there is none
//

func parseRaw(s string, base int) int32 {

	s = strings.TrimSpace(s)

	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}

	if base == 16 {
		s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	}

	var v int32

	for _, c := range []byte(s) {
		var d int32

		switch {
		case c >= '0' && c <= '9':
			d = int32(c - '0')
		case base == 16 && c >= 'a' && c <= 'f':
			d = int32(c-'a') + 10
		case base == 16 && c >= 'A' && c <= 'F':
			d = int32(c-'A') + 10
		default:
			return signed(v, neg)
		}

		v = v*int32(base) + d
	}

	return signed(v, neg)
}

func signed(v int32, neg bool) int32 {

	if neg {
		return -v
	}

	return v
}

//
// SLEEP seconds.  Fractions are honoured to the millisecond
//

func (in *Interpreter) executeSleep() {

	in.accept(tk.SLEEP)

	var ms uint32
	if f := in.relation(); f > 0 {
		ms = uint32((int64(f) * 1000) >> fixedpt.Bits)
	}

	in.regs.setSleep(ms)

	in.acceptEOL()
}

func (in *Interpreter) executeTic() {

	in.accept(tk.TIC)

	n := fixedpt.ToInt(in.parenRelation())
	in.regs.Tic(n)

	in.acceptEOL()
}

//
// PWM(ch, duty).  Channels outside 1..4 are ignored
//

func (in *Interpreter) executePwm() {

	in.accept(tk.PWM)

	ch, duty := in.parenRelation2()
	c := fixedpt.ToInt(ch)
	d := int16(fixedpt.ToInt(duty))

	if c >= 1 && c <= pwmChannels {
		in.hw.PWM.AnalogWrite(uint8(c), d)
		in.pwmDuty[c-1] = d
	}

	in.acceptEOL()
}

func (in *Interpreter) executePwmconf() {

	in.accept(tk.PWMCONF)

	p1, p2 := in.parenRelation2()
	prescaler := max(fixedpt.ToInt(p1), 0)
	period := fixedpt.ToInt(p2)

	in.hw.PWM.AnalogWriteConfig(uint16(prescaler), uint16(period))

	in.acceptEOL()
}

func (in *Interpreter) executeAreadconf() {

	in.accept(tk.AREADCONF)

	p1, p2 := in.parenRelation2()
	sampletime := min(max(fixedpt.ToInt(p1), 0), 7)
	nreads := fixedpt.ToInt(p2)

	in.hw.ADC.AnalogReadConfig(uint8(sampletime), uint8(nreads))

	in.acceptEOL()
}

//
// PINMODE(ch, mode, speed).  The channel is a raw pin address, written
// as a hex literal, in 0xA0..0xFF; anything else is ignored
//

func (in *Interpreter) executePinmode() {

	in.accept(tk.PINMODE)
	in.accept(tk.LEFTPAREN)

	ch := in.relation()
	in.accept(tk.COMMA)
	mode := fixedpt.ToInt(in.relation())
	in.accept(tk.COMMA)
	speed := fixedpt.ToInt(in.relation())
	in.accept(tk.RIGHTPAREN)

	if mode < -2 {
		mode = -1
	}
	if mode > 2 {
		mode = 0
	}
	if speed < 0 || speed > 2 {
		speed = 0
	}

	if ch >= 0xA0 && ch <= 0xFF {
		in.hw.Pins.PinMode(uint8(ch), int8(mode), uint8(speed))
	}

	in.acceptEOL()
}

func (in *Interpreter) executeDwrite() {

	in.accept(tk.DWRITE)

	ch, v := in.parenRelation2()

	var level uint8
	if v != 0 {
		level = 1
	}

	in.hw.Pins.DigitalWrite(uint8(ch), level)

	in.acceptEOL()
}

//
// STORE(var) writes a variable of any kind to the storage adapter.
// Numbers and array elements go out as little-endian int32
//

func (in *Interpreter) executeStore() {

	in.accept(tk.STORE)
	in.accept(tk.LEFTPAREN)

	varNum := in.ts.VariableNum()

	var kind uint8
	var data []byte

	switch in.ts.Token() {
	case tk.VARIABLE:
		kind = KindNumeric
		data = binary.LittleEndian.AppendUint32(nil, uint32(in.variables[varNum]))

	case tk.STRINGVARIABLE:
		kind = KindString
		data = append([]byte(nil), in.strings.bytesAt(in.stringVars[varNum])...)

	case tk.ARRAYVARIABLE:
		kind = KindArray
		if loc := in.arrayVars[varNum]; loc != unset {
			for _, v := range in.arrays.data[loc+1 : int(loc)+1+in.arrays.size(loc)] {
				data = binary.LittleEndian.AppendUint32(data, uint32(v))
			}
		}

	default:
		in.runtimeError(ESYNTAX, "expected variable, got %s", in.ts.Token())
	}

	in.ts.Next()
	in.accept(tk.RIGHTPAREN)

	if err := in.hw.Storage.WriteVariable(uint8(varNum), kind, data); err != nil {
		in.log.Warn("store failed", "slot", varNum, "kind", kind, "err", err)
	}

	in.acceptEOL()
}

//
// RECALL(var) reads a variable back from the storage adapter.  The
// result is 1 for a number, the length of a string, the element count
// of an array, and 0 when storage holds nothing for the variable
//

func (in *Interpreter) recall() int32 {

	in.accept(tk.RECALL)
	in.accept(tk.LEFTPAREN)

	varNum := in.ts.VariableNum()
	tok := in.ts.Token()

	var kind uint8

	switch tok {
	case tk.VARIABLE:
		kind = KindNumeric
	case tk.STRINGVARIABLE:
		kind = KindString
	case tk.ARRAYVARIABLE:
		kind = KindArray
	default:
		in.runtimeError(ESYNTAX, "expected variable, got %s", tok)
	}

	in.ts.Next()
	in.accept(tk.RIGHTPAREN)

	data, err := in.hw.Storage.ReadVariable(uint8(varNum), kind)
	if err != nil {
		in.log.Warn("recall failed", "slot", varNum, "kind", kind, "err", err)
		return 0
	}

	if len(data) == 0 {
		return 0
	}

	var n int

	switch kind {
	case KindNumeric:
		if len(data) < 4 {
			return 0
		}
		in.variables[varNum] = int32(binary.LittleEndian.Uint32(data))
		n = 1

	case KindString:
		if len(data) >= maxStringLen {
			data = data[:maxStringLen-1]
		}
		in.setStringVar(varNum, in.heapCheck(in.strings.copyIn(string(data))))
		n = len(data)

	case KindArray:
		n = len(data) / 4
		if !in.arrays.dim(&in.arrayVars, varNum, n) {
			return 0
		}
		for i := range n {
			v := int32(binary.LittleEndian.Uint32(data[i*4:]))
			in.arrays.set(&in.arrayVars, varNum, i+1, v)
		}
	}

	return fixedpt.FromInt(int32(n))
}

func (in *Interpreter) executeEnd() {

	in.accept(tk.END)

	in.running = false
	in.hasError = false
}
