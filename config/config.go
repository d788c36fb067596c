package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//
// Host configuration, read from a CUE file and checked against a
// closed schema, so a misspelled field is an error rather than being
// ignored.  Every field is optional; Default holds the values used for
// anything the file leaves out
//

const schema = `
program?:   string
tick?:      string
mode?:      "stepped" | "blocking"
stats?:     bool
dump?:      bool
log_level?: "debug" | "info" | "warn" | "error"
storage?: {
	kind?: "memory" | "file" | "mysql"
	path?: string
	dsn?:  string
}
adc?: [...int & >=0 & <=4095]
seed?: int
`

var ErrValueNotFound = errors.New("value not found")

type Storage struct {
	Kind string `json:"kind"`
	Path string `json:"path"`
	DSN  string `json:"dsn"`
}

type Config struct {
	Program  string  `json:"program"`
	Tick     string  `json:"tick"`
	Mode     string  `json:"mode"`
	Stats    bool    `json:"stats"`
	Dump     bool    `json:"dump"`
	LogLevel string  `json:"log_level"`
	Storage  Storage `json:"storage"`
	ADC      []int   `json:"adc"`
	Seed     int64   `json:"seed"`
}

func Default() Config {

	return Config{
		Tick:     "1ms",
		Mode:     "stepped",
		LogLevel: "info",
		Storage:  Storage{Kind: "memory"},
	}
}

//
// Load reads path over the defaults.  An empty path gives the
// defaults
//

func Load(path string) (Config, error) {

	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	value, err := compile(content, path)
	if err != nil {
		return cfg, err
	}

	if err := value.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}

	if _, err := cfg.TickPeriod(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

func compile(content []byte, path string) (cue.Value, error) {

	ctx := cuecontext.New()

	s := ctx.CompileString("close({" + schema + "})")
	if err := s.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("config schema: %w", err)
	}

	value := ctx.CompileBytes(content, cue.Filename(path))
	if err := value.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("compile %s: %w", path, err)
	}

	value = s.Unify(value)
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return cue.Value{}, fmt.Errorf("validate %s: %w", path, err)
	}

	return value, nil
}

//
// Lookup decodes the single value at path (e.g. "storage.kind") into
// target, for callers that want one field without the whole Config
//

func Lookup(path, field string, target any) error {

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	value, err := compile(content, path)
	if err != nil {
		return err
	}

	v := value.LookupPath(cue.ParsePath(field))
	if !v.Exists() {
		return ErrValueNotFound
	}

	return v.Decode(target)
}

func (c Config) TickPeriod() (time.Duration, error) {

	d, err := time.ParseDuration(c.Tick)
	if err != nil {
		return 0, fmt.Errorf("tick: %w", err)
	}

	if d < time.Millisecond {
		return 0, fmt.Errorf("tick %v is below 1ms", d)
	}

	return d, nil
}

func (c Config) Blocking() bool {

	return c.Mode == "blocking"
}
