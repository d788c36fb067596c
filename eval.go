package ubasic

import (
	"math"
	"strings"

	"ubasic/fixedpt"
	tk "ubasic/tokenizer"
)

//
// Recursive descent over the token stream.  Numeric expressions come
// back as 24.8 values; string expressions come back as string heap
// handles, which stay valid until the next compaction, i.e. for the
// rest of the current statement
//

func boolValue(b bool) int32 {

	if b {
		return fixedpt.One
	}

	return 0
}

//
// relation: additive, comparison, logical and bitwise operators, all
// at one level, left to right
//

func (in *Interpreter) relation() int32 {

	r1 := in.term()

	for {
		op := in.ts.Token()

		switch op {
		case tk.LT, tk.LE, tk.GT, tk.GE, tk.EQ, tk.NE, tk.LAND, tk.LOR, tk.PLUS, tk.MINUS, tk.AND, tk.OR:
		default:
			return r1
		}

		in.ts.Next()

		r2 := in.term()

		switch op {
		case tk.LT:
			r1 = boolValue(r1 < r2)
		case tk.LE:
			r1 = boolValue(r1 <= r2)
		case tk.GT:
			r1 = boolValue(r1 > r2)
		case tk.GE:
			r1 = boolValue(r1 >= r2)
		case tk.EQ:
			r1 = boolValue(r1 == r2)
		case tk.NE:
			r1 = boolValue(r1 != r2)
		case tk.LAND:
			r1 = boolValue(r1 != 0 && r2 != 0)
		case tk.LOR:
			r1 = boolValue(r1 != 0 || r2 != 0)
		case tk.PLUS:
			r1 += r2
		case tk.MINUS:
			r1 -= r2
		case tk.AND:
			r1 &= r2
		case tk.OR:
			r1 |= r2
		}
	}
}

//
// term: '*', '/' and MOD.  MOD works on the raw scaled values.  A term
// that starts with a string expression is a string comparison
//

func (in *Interpreter) term() int32 {

	if in.ts.StringLookahead() {
		return in.stringCompare()
	}

	f1 := in.factor()

	for {
		op := in.ts.Token()

		switch op {
		case tk.ASTR, tk.SLASH, tk.MOD:
		default:
			return f1
		}

		in.ts.Next()

		f2 := in.factor()

		switch op {
		case tk.ASTR:
			f1 = fixedpt.Mul(f1, f2)
		case tk.SLASH:
			in.runtimeCheck(f2 != 0, EDIVISIONBYZERO)
			f1 = fixedpt.Div(f1, f2)
		case tk.MOD:
			in.runtimeCheck(f2 != 0, EDIVISIONBYZERO)
			f1 %= f2
		}
	}
}

func (in *Interpreter) parenRelation() int32 {

	in.accept(tk.LEFTPAREN)
	r := in.relation()
	in.accept(tk.RIGHTPAREN)

	return r
}

func (in *Interpreter) parenRelation2() (int32, int32) {

	in.accept(tk.LEFTPAREN)
	r1 := in.relation()
	in.accept(tk.COMMA)
	r2 := in.relation()
	in.accept(tk.RIGHTPAREN)

	return r1, r2
}

func (in *Interpreter) factor() int32 {

	var r int32

	tok := in.ts.Token()

	switch tok {
	case tk.MINUS:
		in.ts.Next()
		r = -in.factor()

	case tk.LNOT:
		in.ts.Next()
		r = boolValue(in.relation() == 0)

	case tk.NOT:
		in.ts.Next()
		r = ^in.relation()

	case tk.LEN:
		in.ts.Next()
		r = fixedpt.FromInt(int32(len(in.strings.bytesAt(in.stringFactor()))))

	case tk.VAL:
		in.ts.Next()
		r = fixedpt.Parse(in.strings.str(in.stringFactor()))

	case tk.ASC:
		in.ts.Next()
		if b := in.strings.bytesAt(in.stringFactor()); len(b) > 0 {
			r = fixedpt.FromInt(int32(b[0]))
		}

	case tk.INSTR:
		r = in.instr()

	case tk.TOC:
		in.ts.Next()
		n := fixedpt.ToInt(in.parenRelation())
		r = fixedpt.FromInt(int32(in.regs.Toc(n)))

	case tk.HWE:
		in.ts.Next()
		n := fixedpt.ToInt(in.parenRelation())
		r = boolValue(in.regs.takeEvent(int(n)))

	case tk.RAN:
		in.ts.Next()
		r = ran(in.hw.Random.Uint32(fixedpt.WBits))

	case tk.UNIFORM:
		in.ts.Next()
		r = int32(in.hw.Random.Uint32(8)) & fixedpt.FracMask

	case tk.ABS:
		in.ts.Next()
		r = fixedpt.Abs(in.parenRelation())

	case tk.POW:
		in.ts.Next()
		r = fixedpt.Pow(in.parenRelation2())

	case tk.SQRT, tk.SIN, tk.COS, tk.TAN, tk.EXP, tk.LN:
		in.ts.Next()
		r = mathFuncs[tok](in.parenRelation())

	case tk.FLOOR:
		in.ts.Next()
		r = floor(in.parenRelation())

	case tk.CEIL:
		in.ts.Next()
		r = ceil(in.parenRelation())

	case tk.ROUND:
		in.ts.Next()
		r = round(in.parenRelation())

	case tk.FLOAT:
		r = in.ts.Float()
		in.ts.Next()

	case tk.INT:
		r = in.ts.Int()
		in.ts.Next()

	case tk.NUMBER:
		r = fixedpt.FromInt(in.ts.Num())
		in.ts.Next()

	case tk.PWM:
		in.ts.Next()
		ch := fixedpt.ToInt(in.parenRelation())
		if ch < 1 || ch > pwmChannels {
			r = fixedpt.FromInt(-1)
		} else {
			r = fixedpt.FromInt(int32(in.pwmDuty[ch-1]))
		}

	case tk.AREAD:
		in.ts.Next()
		ch := fixedpt.ToInt(in.parenRelation())
		r = fixedpt.FromInt(int32(in.hw.ADC.AnalogRead(uint8(ch))))

	case tk.DREAD:
		in.ts.Next()
		ch := in.parenRelation()
		r = fixedpt.FromInt(int32(in.hw.Pins.DigitalRead(uint8(ch))))

	case tk.RECALL:
		r = in.recall()

	case tk.LEFTPAREN:
		r = in.parenRelation()

	case tk.ARRAYVARIABLE:
		varNum := in.ts.VariableNum()
		in.ts.Next()
		idx := fixedpt.ToInt(in.parenRelation())
		r = in.arrays.get(&in.arrayVars, varNum, int(idx))

	case tk.VARIABLE:
		r = in.variables[in.ts.VariableNum()]
		in.ts.Next()

	default:
		in.runtimeError(ESYNTAX, "unexpected %s in expression", tok)
	}

	return r
}

var mathFuncs = map[tk.Token]func(int32) int32{
	tk.SQRT: fixedpt.Sqrt,
	tk.SIN:  fixedpt.Sin,
	tk.COS:  fixedpt.Cos,
	tk.TAN:  fixedpt.Tan,
	tk.EXP:  fixedpt.Exp,
	tk.LN:   fixedpt.Ln,
}

//
// FLOOR, CEIL and ROUND work by masking off the fraction bits, which
// already moves a negative value down.  The negative branches are
// not mirror images of the positive ones: FLOOR takes one more off a
// negative value with a fraction, CEIL only masks it, and ROUND
// subtracts one when the fraction is at or below one half.  Scripts
// written against the firmware depend on that
//

func floor(r int32) int32 {

	f := r & fixedpt.FracMask

	r &^= fixedpt.FracMask

	if r < 0 && f != 0 {
		r -= fixedpt.One
	}

	return r
}

func ceil(r int32) int32 {

	f := r & fixedpt.FracMask

	r &^= fixedpt.FracMask

	if r >= 0 && f != 0 {
		r += fixedpt.One
	}

	return r
}

func round(r int32) int32 {

	f := r & fixedpt.FracMask

	r &^= fixedpt.FracMask

	if r >= 0 {
		if f >= fixedpt.OneHalf {
			r += fixedpt.One
		}
	} else if f <= fixedpt.OneHalf {
		r -= fixedpt.One
	}

	return r
}

//
// RAN scales a whole random number and folds it positive.  The one
// value with no positive counterpart becomes the largest whole value
//

func ran(v uint32) int32 {

	r := fixedpt.Abs(fixedpt.FromInt(int32(v)))
	if r < 0 {
		r = math.MaxInt32 &^ fixedpt.FracMask
	}

	return r
}

//
// INSTR([start,] haystack, needle): 1-based position of needle in
// haystack searching from start, 0 if not found
//

func (in *Interpreter) instr() int32 {

	in.accept(tk.INSTR)
	in.accept(tk.LEFTPAREN)

	start := int32(1)
	if !in.ts.StringLookahead() {
		start = fixedpt.ToInt(in.relation())
		in.accept(tk.COMMA)
	}

	hay := in.strings.str(in.stringExpr())
	in.accept(tk.COMMA)
	needle := in.strings.str(in.stringExpr())
	in.accept(tk.RIGHTPAREN)

	if start < 1 || int(start) > len(hay) {
		return 0
	}

	i := strings.Index(hay[start-1:], needle)
	if i < 0 {
		return 0
	}

	return fixedpt.FromInt(start + int32(i))
}

//
// sexpr: string factors joined with '+'
//

func (in *Interpreter) stringExpr() int16 {

	r := in.stringFactor()

	for in.ts.Token() == tk.PLUS {
		in.ts.Next()
		r2 := in.stringFactor()
		r = in.heapCheck(in.strings.concat(r, r2))
	}

	return r
}

//
// String comparison in numeric context.  Only '=' is defined; a
// string expression followed by anything else is false
//

func (in *Interpreter) stringCompare() int32 {

	s1 := in.stringExpr()

	if in.ts.Token() != tk.EQ {
		return 0
	}

	in.ts.Next()

	s2 := in.stringExpr()

	return boolValue(in.strings.str(s1) == in.strings.str(s2))
}

func (in *Interpreter) stringFactor() int16 {

	var r int16

	tok := in.ts.Token()

	switch tok {
	case tk.LEFTPAREN:
		in.ts.Next()
		r = in.stringExpr()
		in.accept(tk.RIGHTPAREN)

	case tk.STRING:
		s := in.ts.StringValue()
		if len(s) >= maxStringLen {
			s = s[:maxStringLen-1]
		}
		r = in.heapCheck(in.strings.copyIn(s))
		in.ts.Next()

	case tk.LEFTS, tk.RIGHTS:
		in.ts.Next()
		in.accept(tk.LEFTPAREN)
		s := in.stringExpr()
		in.accept(tk.COMMA)
		n := int(fixedpt.ToInt(in.relation()))
		in.accept(tk.RIGHTPAREN)
		if tok == tk.LEFTS {
			r = in.heapCheck(in.strings.left(s, n))
		} else {
			r = in.heapCheck(in.strings.right(s, n))
		}

	case tk.MIDS:
		in.ts.Next()
		in.accept(tk.LEFTPAREN)
		s := in.stringExpr()
		in.accept(tk.COMMA)
		from := int(fixedpt.ToInt(in.relation()))
		n := stringHeapSize
		if in.ts.Token() == tk.COMMA {
			in.ts.Next()
			n = int(fixedpt.ToInt(in.relation()))
		}
		in.accept(tk.RIGHTPAREN)
		r = in.heapCheck(in.strings.mid(s, from, n))

	// The argument is a factor, so STR$(n) + "x" concatenates
	case tk.STRS:
		in.ts.Next()
		r = in.heapCheck(in.strings.fromInt(fixedpt.ToInt(in.factor())))

	case tk.CHRS:
		in.ts.Next()
		r = in.heapCheck(in.strings.fromCode(fixedpt.ToInt(in.factor())))

	case tk.STRINGVARIABLE:
		r = in.stringVars[in.ts.VariableNum()]
		in.ts.Next()

	default:
		in.runtimeError(ESYNTAX, "unexpected %s in string expression", tok)
	}

	return r
}

//
// Running out of string space halts the program
//

func (in *Interpreter) heapCheck(off int16, err error) int16 {

	if err != nil {
		in.runtimeError(ESTRINGSPACE)
	}

	return off
}
