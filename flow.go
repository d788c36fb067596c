package ubasic

import (
	"ubasic/fixedpt"
	tk "ubasic/tokenizer"
)

//
// Control flow.  There is no tree to walk: loops and branches are
// resumed by jumping the token stream back to saved offsets, and
// untaken blocks are skipped by scanning tokens and counting nesting
//

//
// IF cond THEN stmt [ELSE stmt] runs inline.  IF cond THEN followed
// by the end of the line opens a block closed by ENDIF, with an
// optional ELSE line; the condition is kept on the IF stack until
// ENDIF so ELSE knows which way the IF went
//

func (in *Interpreter) executeIf() {

	in.accept(tk.IF)

	r := in.relation()

	in.accept(tk.THEN)

	if in.ts.Token() != tk.EOL {
		in.singleLineIf(r != 0)
		return
	}

	in.runtimeCheck(in.ifPtr < ifStackMax, EIFOVERFLOW)

	in.ifStack[in.ifPtr] = r != 0
	in.ifPtr++

	in.ts.Next()

	if r != 0 {
		return
	}

	if in.skipIfBlock(true) == tk.ELSE {
		in.ts.Next()
		in.acceptEOL()
		return
	}

	in.executeEndif()
}

func (in *Interpreter) singleLineIf(cond bool) {

	if cond {
		in.statement()
		return
	}

	for {
		switch in.ts.Token() {
		case tk.ELSE:
			in.ts.Next()
			in.statement()
			return
		case tk.EOL, tk.ENDOFINPUT, tk.ERROR:
			in.acceptEOL()
			return
		}

		in.ts.Next()
	}
}

//
// Skip forward to the ELSE or ENDIF closing the current block, leaving
// the stream on it.  Nested IFs are counted; a nested IF whose THEN is
// not at the end of its line closes itself at that line's end.  With
// stopAtElse false only ENDIF ends the skip
//

func (in *Interpreter) skipIfBlock(stopAtElse bool) tk.Token {

	depth := 0

	for {
		tok := in.ts.Token()

		switch tok {
		case tk.ENDOFINPUT, tk.ERROR:
			in.runtimeError(EIFNOENDIF)

		case tk.IF:
			depth++

		case tk.THEN:
			in.ts.Next()
			if in.ts.Token() == tk.EOL {
				continue
			}
			depth--
			in.skipInlineBranch()
			continue

		case tk.ELSE:
			if depth == 0 && stopAtElse {
				return tok
			}

		case tk.ENDIF:
			if depth == 0 {
				return tok
			}
			depth--
		}

		in.ts.Next()
	}
}

//
// Step over the rest of a single-line IF.  An ENDIF there belongs to
// no block
//

func (in *Interpreter) skipInlineBranch() {

	for {
		switch in.ts.Token() {
		case tk.EOL, tk.ENDOFINPUT, tk.ERROR:
			return
		case tk.ENDIF:
			in.runtimeError(ESYNTAX, "ENDIF in single-line IF")
		}

		in.ts.Next()
	}
}

//
// Reaching ELSE means the block above it ran, or was skipped to here
// by executeIf.  The first case skips to the matching ENDIF
//

func (in *Interpreter) executeElse() {

	in.accept(tk.ELSE)

	in.runtimeCheck(in.ifPtr > 0, EELSENOIF)

	if in.ts.Token() != tk.EOL {
		in.runtimeError(ESYNTAX, "expected end of line after ELSE, got %s", in.ts.Token())
	}

	in.ts.Next()

	if !in.ifStack[in.ifPtr-1] {
		return
	}

	in.skipIfBlock(false)
	in.executeEndif()
}

func (in *Interpreter) executeEndif() {

	in.runtimeCheck(in.ifPtr > 0, EENDIFNOIF)

	in.accept(tk.ENDIF)
	in.acceptEOL()

	in.ifPtr--
}

//
// FOR v = from TO limit [STEP step].  The loop resumes at the line
// after the FOR
//

func (in *Interpreter) executeFor() {

	in.accept(tk.FOR)

	varNum := in.ts.VariableNum()
	in.accept(tk.VARIABLE)
	in.accept(tk.EQ)
	in.variables[varNum] = in.relation()

	in.accept(tk.TO)
	to := in.relation()

	step := fixedpt.One
	if in.ts.Token() == tk.STEP {
		in.ts.Next()
		step = in.relation()
	}

	in.acceptEOL()

	in.runtimeCheck(in.forPtr < forStackMax, EFOROVERFLOW)

	in.forStack[in.forPtr] = forStackNode{
		resume: in.ts.SaveOffset(),
		varNum: varNum,
		to:     to,
		step:   step,
	}
	in.forPtr++
}

func (in *Interpreter) executeNext() {

	in.accept(tk.NEXT)

	varNum := in.ts.VariableNum()
	in.accept(tk.VARIABLE)

	in.runtimeCheck(in.forPtr > 0, ENEXTNOFOR)

	f := &in.forStack[in.forPtr-1]

	if f.varNum != varNum {
		in.runtimeError(ENEXTMISMATCH, "NEXT %c, FOR %c", 'a'+varNum, 'a'+f.varNum)
	}

	v := in.variables[varNum] + f.step
	in.variables[varNum] = v

	if (f.step > 0 && v <= f.to) || (f.step < 0 && v >= f.to) {
		in.ts.JumpOffset(f.resume)
		return
	}

	in.forPtr--
	in.acceptEOL()
}

//
// WHILE cond.  ENDWHILE jumps back to the WHILE, which must not push
// a second frame for the same loop.  The end of the loop is learned
// either by the first ENDWHILE or by the first skip over the body
//

func (in *Interpreter) executeWhile() {

	start := in.ts.SaveOffset()

	in.accept(tk.WHILE)

	if in.whilePtr == 0 || in.whileStack[in.whilePtr-1].start != start {
		in.runtimeCheck(in.whilePtr < whileStackMax, EWHILEOVERFLOW)

		in.whileStack[in.whilePtr] = whileStackNode{start: start, end: unset}
		in.whilePtr++
	}

	r := in.relation()

	if r != 0 {
		in.acceptEOL()
		return
	}

	w := &in.whileStack[in.whilePtr-1]

	if w.end != unset {
		in.whilePtr--
		in.ts.JumpOffset(w.end)
		return
	}

	in.skipWhileBlock()

	in.whilePtr--

	in.accept(tk.ENDWHILE)
	in.acceptEOL()
}

//
// Skip to the ENDWHILE matching the WHILE just evaluated, leaving the
// stream on it
//

func (in *Interpreter) skipWhileBlock() {

	depth := 0

	for {
		switch in.ts.Token() {
		case tk.ENDOFINPUT, tk.ERROR:
			in.runtimeError(EWHILENOENDWHILE)
		case tk.WHILE:
			depth++
		case tk.ENDWHILE:
			if depth == 0 {
				return
			}
			depth--
		}

		in.ts.Next()
	}
}

func (in *Interpreter) executeEndwhile() {

	in.accept(tk.ENDWHILE)

	in.runtimeCheck(in.whilePtr > 0, EENDWHILENOWHILE)

	in.acceptEOL()

	w := &in.whileStack[in.whilePtr-1]
	if w.end == unset {
		w.end = in.ts.SaveOffset()
	}

	in.ts.JumpOffset(w.start)
}

func (in *Interpreter) executeGoto() {

	in.accept(tk.GOTO)

	label := in.ts.Label()
	in.accept(tk.LABEL)

	in.jumpLabel(label)
}

//
// GOSUB label.  The return point is the start of the next line
//

func (in *Interpreter) executeGosub() {

	in.accept(tk.GOSUB)

	label := in.ts.Label()
	in.accept(tk.LABEL)

	in.acceptEOL()

	in.runtimeCheck(in.gosubPtr < gosubStackMax, EGOSUBOVERFLOW)

	in.gosubStack[in.gosubPtr] = in.ts.SaveOffset()
	in.gosubPtr++

	in.jumpLabel(label)
}

func (in *Interpreter) executeReturn() {

	in.accept(tk.RETURN)

	in.runtimeCheck(in.gosubPtr > 0, ERETURNNOGOSUB)

	in.gosubPtr--
	in.ts.JumpOffset(in.gosubStack[in.gosubPtr])
}

func (in *Interpreter) jumpLabel(label string) {

	off, ok := in.labels.lookup(label)
	if !ok {
		in.runtimeError(ELABELNOTFOUND, "%s", label)
	}

	in.ts.JumpOffset(off)
}
