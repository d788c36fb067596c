package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goforj/godump"
	"golang.org/x/sync/errgroup"

	"ubasic"
	"ubasic/config"
	"ubasic/eeprom"
	"ubasic/hal"
	"ubasic/logs"
)

type options struct {
	configPath string
	cfg        config.Config
}

func main() {

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(opts); err != nil {
		cleanupLiners()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

//
// Flags override the config file, which overrides the defaults.  The
// file is read first so flag defaults can show its values
//

func parseFlags(args []string) (options, error) {

	var opts options

	pre := flag.NewFlagSet("ubasic", flag.ContinueOnError)
	pre.SetOutput(io.Discard)
	pre.StringVar(&opts.configPath, "config", "", "")
	_ = pre.Parse(args)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return opts, err
	}

	fs := flag.NewFlagSet("ubasic", flag.ContinueOnError)
	fs.Usage = func() { usage(fs) }

	fs.StringVar(&opts.configPath, "config", opts.configPath, "CUE configuration file")
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "run mode: stepped or blocking")
	fs.StringVar(&cfg.Tick, "tick", cfg.Tick, "timer tick period")
	fs.BoolVar(&cfg.Stats, "stats", cfg.Stats, "print CPU time and statement count at exit")
	fs.BoolVar(&cfg.Dump, "dump", cfg.Dump, "dump the interpreter state at exit and on errors")
	fs.StringVar(&cfg.LogLevel, "log", cfg.LogLevel, "log level: debug, info, warn or error")
	fs.StringVar(&cfg.Storage.Kind, "storage", cfg.Storage.Kind, "STORE/RECALL backend: memory, file or mysql")
	fs.StringVar(&cfg.Storage.Path, "storage-path", cfg.Storage.Path, "YAML file for the file backend")
	fs.StringVar(&cfg.Storage.DSN, "dsn", cfg.Storage.DSN, "DSN for the mysql backend")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed, 0 for a random one")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		cfg.Program = fs.Arg(0)
	default:
		return opts, errors.New("usage: ubasic [flags] [program]")
	}

	if cfg.Mode != "stepped" && cfg.Mode != "blocking" {
		return opts, fmt.Errorf("unknown mode %q", cfg.Mode)
	}

	if _, err := cfg.TickPeriod(); err != nil {
		return opts, err
	}

	if err := logs.SetLevel(cfg.LogLevel); err != nil {
		return opts, err
	}

	opts.cfg = cfg

	return opts, nil
}

func run(opts options) error {

	cfg := opts.cfg

	log := logs.New(os.Stderr, logs.Options{})

	storage, closeStorage, err := openStorage(cfg.Storage)
	if err != nil {
		return err
	}
	defer closeStorage()

	if err := storage.Init(); err != nil {
		return err
	}

	console := hal.NewConsole(os.Stdout)
	defer console.Close()

	hw := ubasic.Hardware{
		Pins:    hal.NewPins(log),
		PWM:     hal.NewPWM(log),
		ADC:     hal.NewADC(cfg.ADC),
		Serial:  console,
		Random:  hal.NewRandom(cfg.Seed),
		Storage: storage,
	}

	regs := ubasic.NewRegisters()

	in := ubasic.New(hw, regs,
		ubasic.WithLogger(log),
		ubasic.WithTraceDump(cfg.Dump))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	initClock()

	var program string
	interactive := false

	switch {
	case cfg.Program != "":
		b, err := os.ReadFile(cfg.Program)
		if err != nil {
			return err
		}
		program = string(b)

	case stdinIsTerminal():
		interactive = true

	default:
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		program = string(b)
	}

	period, _ := cfg.TickPeriod()

	g, gctx := errgroup.WithContext(ctx)
	gctx, cancel := context.WithCancel(gctx)

	// the ticker stops when the interpreter is done; that is not an error
	g.Go(func() error {
		if err := regs.Run(gctx, period); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		defer cancel()

		if interactive {
			return repl(gctx, in, console)
		}

		if cfg.Program != "" {
			go feedInput(console, log)
		}

		in.LoadProgram(program)

		log.Debug("running", "program", cfg.Program, "mode", cfg.Mode, "tick", period)

		if cfg.Blocking() {
			return in.Run(gctx)
		}

		return stepped(gctx, in, period)
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	cleanupLiners()

	if cfg.Dump {
		godump.Dump(in.Snapshot())
	}

	if cfg.Stats {
		printStatistics(in.Statements())
	}

	return err
}

//
// Step once per tick, the way the firmware's main loop calls the
// interpreter from its millisecond timer
//

func stepped(ctx context.Context, in *ubasic.Interpreter, period time.Duration) error {

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for !in.Finished() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if err := in.Step(); err != nil {
			return err
		}
	}

	return nil
}

//
// Feed stdin lines to the console for INPUT.  Runs until stdin is
// exhausted; a read blocked in the terminal cannot be interrupted, so
// nobody waits for this goroutine
//

func feedInput(console *hal.Console, log *slog.Logger) {

	if stdinIsTerminal() {
		l := inputLiner()
		for {
			s, err := l.Prompt("")
			if err != nil {
				log.Debug("input closed", "err", err)
				return
			}
			console.Feed(s)
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		console.Feed(scanner.Text())
	}
}

func openStorage(s config.Storage) (ubasic.Storage, func(), error) {

	nop := func() {}

	switch s.Kind {
	case "", "memory":
		return eeprom.NewMemory(), nop, nil

	case "file":
		if s.Path == "" {
			return nil, nop, errors.New("file storage needs -storage-path")
		}
		return eeprom.NewFile(s.Path), nop, nil

	case "mysql":
		store, db, err := eeprom.OpenMySQL(s.DSN, "")
		if err != nil {
			return nil, nop, err
		}
		return store, func() { db.Close() }, nil
	}

	return nil, nop, fmt.Errorf("unknown storage %q", s.Kind)
}
