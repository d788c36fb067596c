package ubasic

import (
	"errors"
	"strings"
	"testing"
)

func unsetVars() [NumVariables]int16 {

	var vars [NumVariables]int16
	for i := range vars {
		vars[i] = unset
	}

	return vars
}

func TestConcat(t *testing.T) {

	var h stringHeap

	a, _ := h.copyIn("AB")
	b, _ := h.copyIn("CD")

	before := h.free

	c, err := h.concat(a, b)
	if err != nil {
		t.Fatal(err)
	}

	if got := h.str(c); got != "ABCD" {
		t.Fatalf("got %q", got)
	}

	if int(c) != before || h.free-before != 6 {
		t.Fatalf("record at %d, used %d", c, h.free-before)
	}

	// the operands are untouched
	if h.str(a) != "AB" || h.str(b) != "CD" {
		t.Fatalf("got %q %q", h.str(a), h.str(b))
	}

	// concatenating with the empty string is a plain copy
	d, _ := h.concat(unset, b)
	if h.str(d) != "CD" {
		t.Fatalf("got %q", h.str(d))
	}
}

func TestCompact(t *testing.T) {

	var h stringHeap

	vars := unsetVars()

	h.copyIn("orphan")
	keep, _ := h.copyIn("keep")
	h.copyIn("junk")
	last, _ := h.copyIn("last")

	h.setOwner(keep, 1)
	vars[0] = keep
	h.setOwner(last, 3)
	vars[2] = last

	h.compact(&vars)

	if vars[0] != 0 || h.str(vars[0]) != "keep" || h.str(vars[2]) != "last" {
		t.Fatalf("got %d %q %q", vars[0], h.str(vars[0]), h.str(vars[2]))
	}

	if h.free != 12 || h.dirty {
		t.Fatalf("free %d, dirty %v", h.free, h.dirty)
	}

	snapshot := h.buf

	h.dirty = true
	h.compact(&vars)

	if h.buf != snapshot || h.free != 12 {
		t.Fatal("second compaction moved records")
	}
}

func TestStringHeapExhausted(t *testing.T) {

	var h stringHeap

	if _, err := h.copyIn(strings.Repeat("x", stringHeapSize-3)); err != nil {
		t.Fatal(err)
	}

	if _, err := h.copyIn("y"); !errors.Is(err, ErrHeapExhausted) {
		t.Fatalf("got %v", err)
	}

	if off, err := h.copyIn(""); off != unset || err != nil {
		t.Fatalf("got %d, %v", off, err)
	}
}

func TestSubstrings(t *testing.T) {

	var h stringHeap

	s, _ := h.copyIn("hello")

	tests := []struct {
		f    func() (int16, error)
		want string
	}{
		{func() (int16, error) { return h.left(s, 2) }, "he"},
		{func() (int16, error) { return h.left(s, 9) }, "hello"},
		{func() (int16, error) { return h.left(s, 0) }, ""},
		{func() (int16, error) { return h.right(s, 3) }, "llo"},
		{func() (int16, error) { return h.right(s, 9) }, "hello"},
		{func() (int16, error) { return h.mid(s, 2, 3) }, "ell"},
		{func() (int16, error) { return h.mid(s, 4, 9) }, "lo"},
		{func() (int16, error) { return h.mid(s, 9, 2) }, ""},
		{func() (int16, error) { return h.fromInt(-12) }, "-12"},
		{func() (int16, error) { return h.fromCode(65) }, "A"},
		{func() (int16, error) { return h.fromCode(300) }, ""},
	}

	for i, tt := range tests {
		off, err := tt.f()
		if err != nil {
			t.Fatal(err)
		}
		if got := h.str(off); got != tt.want {
			t.Fatalf("%d: got %q, want %q", i, got, tt.want)
		}
	}
}

func TestStringOwnership(t *testing.T) {

	in, _ := newTestInterpreter(Hardware{})

	in.LoadProgram("")

	if err := in.SetStringVariable(0, "x"); err != nil {
		t.Fatal(err)
	}

	if err := runProgram(t, in, "b$ = a$\na$ = \"y\""); err != nil {
		t.Fatal(err)
	}

	if in.stringVars[0] == in.stringVars[1] {
		t.Fatal("two variables share a record")
	}

	if in.StringVariable(0) != "y" || in.StringVariable(1) != "x" {
		t.Fatalf("got %q %q", in.StringVariable(0), in.StringVariable(1))
	}
}
