package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

const VERSION = "1.0.0"

func printVersionInfo() {

	fmt.Printf("uBasic-Plus version %s - type help for commands, bye to exit\n", VERSION)
}

func usage(fs *flag.FlagSet) {

	w := fs.Output()

	fmt.Fprintln(w, "Usage: ubasic [flags] [program]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "With no program, read it from standard input, or prompt for")
	fmt.Fprintln(w, "statements when standard input is a terminal.")
	fmt.Fprintln(w)

	fs.PrintDefaults()
}

func printHelp(w io.Writer) {

	if w == nil {
		w = os.Stdout
	}

	fmt.Fprintln(w, "bye\t\tExit")
	fmt.Fprintln(w, "clear\t\tClear all variables")
	fmt.Fprintln(w, "dump\t\tDump the interpreter state")
	fmt.Fprintln(w, "help\t\tPrint this list")
	fmt.Fprintln(w, "stats\t\tPrint CPU time and statement count")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Anything else is run as a BASIC line:")
	fmt.Fprintln(w, "\tprint, println, let, dim, if/then/else/endif,")
	fmt.Fprintln(w, "\tfor/to/step/next, while/endwhile, goto, gosub, return,")
	fmt.Fprintln(w, "\tinput, sleep, tic, pwm, pwmconf, areadconf, pinmode,")
	fmt.Fprintln(w, "\tdwrite, store, recall, clear, end")
}
