package ubasic

//
// Variable storage.  26 numeric, 26 string and 26 array variables,
// addressed by slot 0..25 ('a'..'z').  The exported accessors are for
// hosts; out of range slots read as zero values and writes to them are
// ignored
//

func validSlot(n int) bool {

	return n >= 0 && n < NumVariables
}

func (in *Interpreter) clearVariables() {

	clear(in.variables[:])

	for i := range NumVariables {
		in.stringVars[i] = unset
		in.arrayVars[i] = unset
	}

	in.strings.reset()
	in.arrays.reset()
}

func (in *Interpreter) ClearVariables() {

	in.clearVariables()
}

func (in *Interpreter) Variable(n int) int32 {

	if !validSlot(n) {
		return 0
	}

	return in.variables[n]
}

func (in *Interpreter) SetVariable(n int, v int32) {

	if validSlot(n) {
		in.variables[n] = v
	}
}

//
// Point string variable n at the record off.  The old record becomes
// an orphan.  A record that already belongs to another variable is
// copied, so no record ever has two owners
//

func (in *Interpreter) setStringVar(n int, off int16) {

	old := in.stringVars[n]
	if old == off {
		return
	}

	if old != unset {
		in.strings.setOwner(old, 0)
	}

	if off != unset {
		if owner := in.strings.owner(off); owner != 0 && int(owner) != n+1 {
			off = in.heapCheck(in.strings.copyIn(in.strings.str(off)))
		}

		in.strings.setOwner(off, byte(n+1))
	}

	in.stringVars[n] = off
}

func (in *Interpreter) StringVariable(n int) string {

	if !validSlot(n) {
		return ""
	}

	return in.strings.str(in.stringVars[n])
}

//
// Host side string assignment.  Reports ErrHeapExhausted instead of
// halting when the heap is full
//

func (in *Interpreter) SetStringVariable(n int, s string) error {

	if !validSlot(n) {
		return nil
	}

	in.strings.compact(&in.stringVars)

	off, err := in.strings.copyIn(s)
	if err != nil {
		return err
	}

	in.setStringVar(n, off)

	return nil
}

func (in *Interpreter) DimArray(n, size int) bool {

	if !validSlot(n) {
		return false
	}

	return in.arrays.dim(&in.arrayVars, n, size)
}

func (in *Interpreter) ArrayElement(n, idx int) int32 {

	if !validSlot(n) {
		return -1
	}

	return in.arrays.get(&in.arrayVars, n, idx)
}

func (in *Interpreter) SetArrayElement(n, idx int, v int32) {

	if validSlot(n) {
		in.arrays.set(&in.arrayVars, n, idx, v)
	}
}

// Element count of array n, or -1 if it is not allocated

func (in *Interpreter) ArrayLen(n int) int {

	if !validSlot(n) || in.arrayVars[n] == unset {
		return -1
	}

	return in.arrays.size(in.arrayVars[n])
}
