package ubasic

import (
	"context"
	"time"
)

// Poll interval of the blocking entry points while sleeping or waiting for input
const pollInterval = time.Millisecond

//
// Load program and get ready to run it.  All control stacks are
// emptied.  Variables survive a reload, except on the very first
// load, and can be cleared with ClearVariables or CLEAR
//

func (in *Interpreter) LoadProgram(program string) {

	in.resetControl()

	if in.notInitialized {
		in.clearVariables()
		in.notInitialized = false
	}

	in.hasError = false
	in.err = nil
	in.waitingForInput = false
	in.regs.setSleep(0)
	in.regs.setInputWait(0)

	in.ts.Init(program)
	in.labels = buildLabelTable(in.ts)

	in.running = true

	in.log.Debug("program loaded", "bytes", len(program), "labels", in.labels.len())
}

func (in *Interpreter) resetControl() {

	in.gosubPtr = 0
	in.forPtr = 0
	in.whilePtr = 0
	in.ifPtr = 0
}

//
// Step runs at most one line and never blocks.  It does nothing while
// the program is stopped, halted by an error, sleeping, or waiting for
// input that has not arrived.  The error returned is the hard error
// raised by this step, if any
//

func (in *Interpreter) Step() error {

	if !in.running || in.hasError {
		return nil
	}

	if in.regs.Sleeping() {
		return nil
	}

	if in.waitingForInput {
		if !in.hw.Serial.InputAvailable() && (!in.input.timed || in.regs.inputPending()) {
			return nil
		}

		if err := in.call(in.completeInput); err != nil {
			return err
		}
	}

	in.strings.compact(&in.stringVars)

	if in.ts.Finished() {
		return nil
	}

	return in.call(in.lineStatement)
}

//
// Run steps the program until it ends, fails, or ctx is done, waiting
// out SLEEP and INPUT in between.  Registers must be ticked by someone
// else (Registers.Run) for SLEEP and INPUT timeouts to expire
//

func (in *Interpreter) Run(ctx context.Context) error {

	for !in.Finished() {
		if in.regs.Sleeping() || in.waitingForInput {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(pollInterval):
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		if err := in.Step(); err != nil {
			return err
		}
	}

	return nil
}

//
// Execute runs text as an immediate program to completion, sharing
// the variables of whatever program was loaded before.  GOSUB and
// FOR state is discarded first.  The returned status is the state
// after the last statement
//

func (in *Interpreter) Execute(ctx context.Context, text string) (Status, error) {

	in.resetControl()

	in.hasError = false
	in.err = nil
	in.notInitialized = false

	in.ts.Init(text)
	in.labels = buildLabelTable(in.ts)

	in.running = true

	err := in.Run(ctx)
	if err == nil {
		in.running = false
	}

	return in.Status(), err
}

//
// Finished reports whether there is nothing left to run: the end of
// the program was reached with no INPUT pending, END ran, or an error
// halted it
//

func (in *Interpreter) Finished() bool {

	return (in.ts.Finished() && !in.waitingForInput) || !in.running
}

func (in *Interpreter) WaitingForInput() bool {

	return in.waitingForInput
}

// Err returns the error that halted the program, or nil

func (in *Interpreter) Err() error {

	if in.err == nil {
		return nil
	}

	return in.err
}
