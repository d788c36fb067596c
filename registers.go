package ubasic

import (
	"context"
	"sync/atomic"
	"time"
)

//
// Registers is the state shared between the interpreter and the
// host's timer/interrupt side: the hardware event bits, the TIC/TOC
// millisecond counters, and the SLEEP and INPUT countdowns.  The host
// is the single producer (SetEvent, Tick) and the interpreter the
// single consumer.  Every field is atomic so a producer goroutine
// needs no lock
//

type Registers struct {
	events  atomic.Uint32
	tics    [ticChannels]atomic.Uint32
	sleepMs atomic.Uint32
	inputMs atomic.Uint32
}

func NewRegisters() *Registers {

	return &Registers{}
}

//
// Raise hardware event n (1..32), which HWE(n) will report once
//

func (r *Registers) SetEvent(n int) {

	if n < 1 || n > 32 {
		return
	}

	r.events.Or(1 << (n - 1))
}

func (r *Registers) Events() uint32 {

	return r.events.Load()
}

//
// Test and clear event n in one step, so an event raised between a
// load and a store is never lost
//

func (r *Registers) takeEvent(n int) bool {

	if n < 1 || n > 32 {
		return false
	}

	bit := uint32(1) << (n - 1)

	return r.events.And(^bit)&bit != 0
}

//
// Advance time by ms milliseconds: the TIC counters count up, the
// SLEEP and INPUT countdowns count down to zero
//

func (r *Registers) Tick(ms uint32) {

	for i := range r.tics {
		r.tics[i].Add(ms)
	}

	countDown(&r.sleepMs, ms)
	countDown(&r.inputMs, ms)
}

func countDown(c *atomic.Uint32, ms uint32) {

	for {
		v := c.Load()
		if v == 0 {
			return
		}

		if c.CompareAndSwap(v, v-min(v, ms)) {
			return
		}
	}
}

//
// Drive Tick from a ticker until ctx is done.  This stands in for
// the 1ms timer interrupt of the firmware
//

func (r *Registers) Run(ctx context.Context, period time.Duration) error {

	ms := uint32(period / time.Millisecond)
	if ms == 0 {
		ms = 1
		period = time.Millisecond
	}

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.Tick(ms)
		}
	}
}

// Counter selected by TIC/TOC argument n: 2..6 pick counters 1..5, anything else counter 0

func ticChannel(n int32) int {

	if n >= 2 && n <= ticChannels {
		return int(n - 1)
	}

	return 0
}

func (r *Registers) Toc(n int32) uint32 {

	return r.tics[ticChannel(n)].Load()
}

func (r *Registers) Tic(n int32) {

	r.tics[ticChannel(n)].Store(0)
}

func (r *Registers) Sleeping() bool {

	return r.sleepMs.Load() > 0
}

func (r *Registers) SleepRemaining() uint32 {

	return r.sleepMs.Load()
}

func (r *Registers) setSleep(ms uint32) {

	r.sleepMs.Store(ms)
}

func (r *Registers) setInputWait(ms uint32) {

	r.inputMs.Store(ms)
}

func (r *Registers) inputPending() bool {

	return r.inputMs.Load() > 0
}
