package ubasic

//
// The array heap is a pool of 64 int32 slots.  A record is a header
// slot holding (owner<<16)|count followed by count element slots.
// Records are packed from the bottom; free is the first unused slot
//

type arrayHeap struct {
	data [arrayHeapSize]int32
	free int
}

// A resize that has to shift records down retries once against the new tail
const dimAttempts = 2

func arrayHeader(varNum, size int) int32 {

	return int32(varNum<<16 | size)
}

func (h *arrayHeap) reset() {

	clear(h.data[:])
	h.free = 0
}

func (h *arrayHeap) size(loc int16) int {

	return int(h.data[loc] & 0xFFFF)
}

func (h *arrayHeap) owner(loc int) int {

	return int(h.data[loc] >> 16)
}

//
// Allocate or resize the array held by varNum to size elements.
// Reports false when the pool cannot hold it, in which case the
// variable is left unallocated.  Existing elements survive an in-place
// resize of the tail record; a record that has to move comes back
// zeroed
//

func (h *arrayHeap) dim(vars *[NumVariables]int16, varNum, size int) bool {

	if size < 0 {
		return false
	}

	for range dimAttempts {
		loc := int(vars[varNum])

		if loc == unset {
			if h.free+size+1 >= arrayHeapSize {
				return false
			}

			h.data[h.free] = arrayHeader(varNum, size)
			clear(h.data[h.free+1 : h.free+1+size])
			vars[varNum] = int16(h.free)
			h.free += size + 1

			return true
		}

		cur := h.size(int16(loc))
		if cur == size {
			return true
		}

		end := loc + cur + 1

		if end == h.free {
			if loc+size+1 >= arrayHeapSize {
				clear(h.data[loc:end])
				vars[varNum] = unset
				h.free = loc
				return false
			}

			if size > cur {
				clear(h.data[end : loc+size+1])
			} else {
				clear(h.data[loc+size+1 : end])
			}

			h.data[loc] = arrayHeader(varNum, size)
			h.free = loc + size + 1

			return true
		}

		vars[varNum] = unset
		h.shiftDown(vars, loc, end)
	}

	return false
}

//
// Close the gap [loc, end) by moving every later record down,
// re-pointing each moved record's owner
//

func (h *arrayHeap) shiftDown(vars *[NumVariables]int16, loc, end int) {

	gap := end - loc

	for next := end; next < h.free; {
		n := h.size(int16(next)) + 1
		owner := h.owner(next)

		copy(h.data[next-gap:next-gap+n], h.data[next:next+n])
		vars[owner] = int16(next - gap)

		next += n
	}

	h.free -= gap
	clear(h.data[h.free : h.free+gap])
}

//
// Element access is 1-based.  Reads of an unallocated array or out of
// range index give -1
//

func (h *arrayHeap) get(vars *[NumVariables]int16, varNum, idx int) int32 {

	loc := vars[varNum]
	if loc == unset || idx < 1 || idx > h.size(loc) {
		return -1
	}

	return h.data[int(loc)+idx]
}

func (h *arrayHeap) set(vars *[NumVariables]int16, varNum, idx int, v int32) {

	loc := vars[varNum]
	if loc == unset || idx < 1 || idx > h.size(loc) {
		return
	}

	h.data[int(loc)+idx] = v
}
