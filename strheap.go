package ubasic

import (
	"bytes"
	"strconv"
)

//
// The string heap is a 256 byte arena.  Each record is an owner byte
// (0 for an orphan, slot+1 for the variable holding it), the string
// bytes and a NUL.  Records are appended at free and only reclaimed
// by compact.  A handle is the offset of the owner byte, or unset for
// the empty string
//

type stringHeap struct {
	buf   [stringHeapSize]byte
	free  int
	dirty bool
}

func (h *stringHeap) reset() {

	clear(h.buf[:])
	h.free = 0
	h.dirty = false
}

//
// A write of l string bytes needs l+2 bytes and must leave at least
// one byte spare
//

func (h *stringHeap) spaceCheck(l int) bool {

	return stringHeapSize-h.free > l+2
}

func (h *stringHeap) valid(off int16) bool {

	return off >= 0 && int(off) < h.free
}

func (h *stringHeap) bytesAt(off int16) []byte {

	if !h.valid(off) {
		return nil
	}

	b := h.buf[int(off)+1 : h.free]
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}

	return b
}

func (h *stringHeap) str(off int16) string {

	return string(h.bytesAt(off))
}

func (h *stringHeap) recordLen(off int) int {

	return len(h.bytesAt(int16(off))) + 2
}

func (h *stringHeap) owner(off int16) byte {

	if !h.valid(off) {
		return 0
	}

	return h.buf[off]
}

func (h *stringHeap) setOwner(off int16, owner byte) {

	if h.valid(off) {
		h.buf[off] = owner
		h.dirty = true
	}
}

//
// Copy s in as a new orphan record.  The empty string is not stored
// at all and comes back as unset
//

func (h *stringHeap) copyIn(s string) (int16, error) {

	if len(s) == 0 {
		return unset, nil
	}

	if !h.spaceCheck(len(s)) {
		return unset, ErrHeapExhausted
	}

	off := h.free

	h.buf[off] = 0
	copy(h.buf[off+1:], s)
	h.buf[off+1+len(s)] = 0

	h.free += len(s) + 2
	h.dirty = true

	return int16(off), nil
}

//
// Concatenate two records into one new record.  The first string is
// copied, the cursor is pulled back onto its last character, and the
// second string is copied on top so its owner byte lands on that
// character, which is then put back.  The result costs
// len(a)+len(b)+2 bytes
//

func (h *stringHeap) concat(a, b int16) (int16, error) {

	sa, sb := h.str(a), h.str(b)

	if !h.spaceCheck(len(sa) + len(sb)) {
		return unset, ErrHeapExhausted
	}

	switch {
	case len(sa) == 0:
		return h.copyIn(sb)
	case len(sb) == 0:
		return h.copyIn(sa)
	}

	rp, err := h.copyIn(sa)
	if err != nil {
		return unset, err
	}

	h.free -= 2

	fp := h.free
	save := h.buf[fp]

	if _, err := h.copyIn(sb); err != nil {
		return unset, err
	}

	h.buf[fp] = save

	return rp, nil
}

func (h *stringHeap) left(s int16, n int) (int16, error) {

	if n < 1 {
		return unset, nil
	}

	str := h.str(s)
	if len(str) > n {
		str = str[:n]
	}

	return h.copyIn(str)
}

func (h *stringHeap) right(s int16, n int) (int16, error) {

	if n < 1 {
		return unset, nil
	}

	str := h.str(s)
	if n > len(str) {
		n = len(str)
	}

	return h.copyIn(str[len(str)-n:])
}

//
// n characters starting at the 1-based position from.  n is clamped
// to what is left of the string
//

func (h *stringHeap) mid(s int16, from, n int) (int16, error) {

	str := h.str(s)
	j := len(str)

	if n < 1 || from > j {
		return unset, nil
	}

	if from < 1 {
		from = 1
	}

	if n > j-from+1 {
		n = j - from + 1
	}

	return h.copyIn(str[from-1 : from-1+n])
}

func (h *stringHeap) fromInt(v int32) (int16, error) {

	return h.copyIn(strconv.FormatInt(int64(v), 10))
}

//
// Codes outside 0..255 become 0, and code 0 is the empty string
//

func (h *stringHeap) fromCode(c int32) (int16, error) {

	if c < 0 || c > 255 {
		c = 0
	}

	if c == 0 {
		return unset, nil
	}

	return h.copyIn(string([]byte{byte(c)}))
}

//
// Slide live records down over orphans, keeping their order, and
// point each owner at its record's new home.  Records below the first
// orphan never move.  A clean heap is left alone
//

func (h *stringHeap) compact(vars *[NumVariables]int16) {

	if !h.dirty {
		return
	}

	h.dirty = false

	bottom := 0
	for bottom < h.free && h.buf[bottom] != 0 {
		bottom += h.recordLen(bottom)
	}

	if bottom >= h.free {
		return
	}

	for top := bottom; top < h.free; {
		n := h.recordLen(top)

		if owner := h.buf[top]; owner != 0 {
			copy(h.buf[bottom:bottom+n], h.buf[top:top+n])
			vars[owner-1] = int16(bottom)
			bottom += n
		}

		top += n
	}

	clear(h.buf[bottom:h.free])

	h.free = bottom
}
