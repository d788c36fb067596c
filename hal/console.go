//
// Package hal has hosted stand-ins for the board adapters: a console
// serial port, simulated pins, PWM and ADC, and a seeded random
// source
//

package hal

import (
	"io"
	"sync"
)

//
// Console is a serial port on a writer.  Input lines are pushed by
// another goroutine with Feed and taken one per Input call, so INPUT
// never blocks the interpreter
//

type Console struct {
	mu     sync.Mutex
	w      io.Writer
	lines  []string
	closed bool
	wanted bool
}

func NewConsole(w io.Writer) *Console {

	return &Console{w: w}
}

func (c *Console) Print(text string) {

	c.mu.Lock()
	defer c.mu.Unlock()

	_, _ = io.WriteString(c.w, text)
}

func (c *Console) Feed(line string) {

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.lines = append(c.lines, line)
		c.wanted = false
	}
}

// Close drops any queued input and refuses more

func (c *Console) Close() {

	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.lines = nil
}

func (c *Console) InputAvailable() bool {

	c.mu.Lock()
	defer c.mu.Unlock()

	c.wanted = len(c.lines) == 0

	return !c.wanted
}

//
// InputWanted reports whether the interpreter polled for input and
// found none, i.e. it is sitting in INPUT.  Cleared by Feed and Input
//

func (c *Console) InputWanted() bool {

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.wanted
}

//
// Take the oldest queued line, cut to maxlen bytes.  "" when nothing
// is queued
//

func (c *Console) Input(maxlen int) string {

	c.mu.Lock()
	defer c.mu.Unlock()

	c.wanted = false

	if len(c.lines) == 0 {
		return ""
	}

	s := c.lines[0]
	c.lines = c.lines[1:]

	if maxlen >= 0 && len(s) > maxlen {
		s = s[:maxlen]
	}

	return s
}
