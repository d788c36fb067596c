package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/danswartzendruber/liner"
	"github.com/goforj/godump"
	"golang.org/x/term"

	"ubasic"
	"ubasic/hal"
)

//
// One liner for the command prompt, with history, and one for INPUT
// lines, without.  Close restores the terminal to the state it had
// when the liner was made, so they are closed in reverse order
//

var liners struct {
	mu     sync.Mutex
	prompt *liner.State
	input  *liner.State
}

func stdinIsTerminal() bool {

	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func setupLiner(multiLine bool) *liner.State {

	l := liner.NewLiner()

	l.SetMultiLineMode(multiLine)

	return l
}

func promptLiner() *liner.State {

	liners.mu.Lock()
	defer liners.mu.Unlock()

	if liners.prompt == nil {
		liners.prompt = setupLiner(false)
	}

	return liners.prompt
}

func inputLiner() *liner.State {

	liners.mu.Lock()
	defer liners.mu.Unlock()

	if liners.input == nil {
		liners.input = setupLiner(true)
	}

	return liners.input
}

func cleanupLiners() {

	liners.mu.Lock()
	defer liners.mu.Unlock()

	cleanupLiner(&liners.input)
	cleanupLiner(&liners.prompt)
}

func cleanupLiner(l **liner.State) {

	if *l != nil {
		(*l).Close()
		*l = nil
	}
}

//
// Interactive mode.  Each line is run with Execute against the same
// variables.  The prompt comes back once the line has finished, or
// with "? " while it sits in INPUT, in which case what is typed goes
// to the console as input
//

func repl(ctx context.Context, in *ubasic.Interpreter, console *hal.Console) error {

	var done chan struct{}

	l := promptLiner()

	printVersionInfo()

	for ctx.Err() == nil {
		prompt := "> "

		if done != nil {
			if awaitLine(ctx, done, console) {
				done = nil
			} else {
				prompt = "? "
			}
		}

		if ctx.Err() != nil {
			break
		}

		s, err := l.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		} else if errors.Is(err, io.EOF) {
			fmt.Println()
			return nil
		} else if err != nil {
			return err
		}

		if done != nil {
			console.Feed(s)
			continue
		}

		cmd := strings.TrimSpace(s)
		if cmd == "" {
			continue
		}

		l.AppendHistory(s)

		switch strings.ToLower(cmd) {
		case "bye":
			return nil
		case "help":
			printHelp(os.Stdout)
			continue
		case "dump":
			godump.Dump(in.Snapshot())
			continue
		case "stats":
			printStatistics(in.Statements())
			continue
		case "clear":
			in.ClearVariables()
			continue
		}

		done = make(chan struct{})

		go func(done chan struct{}) {
			defer close(done)

			if _, err := in.Execute(ctx, s+"\n"); err != nil && ctx.Err() == nil {
				console.Print(fmt.Sprintf("%v\n", err))
			}
		}(done)
	}

	return ctx.Err()
}

//
// Wait for the running line.  True when it finished, false when it
// is waiting for input or ctx is done
//

func awaitLine(ctx context.Context, done <-chan struct{}, console *hal.Console) bool {

	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-done:
			return true
		case <-ticker.C:
			if console.InputWanted() {
				return false
			}
		}
	}
}
