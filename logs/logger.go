package logs

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

//
// Host logger.  Text goes to w unless we run as a systemd service;
// records also go to the journal when it is reachable.  Every logger
// built here shares one level, set by SetLevel
//

var level = new(slog.LevelVar)

func SetLevel(name string) error {

	switch strings.ToLower(name) {
	case "debug":
		level.Set(slog.LevelDebug)
	case "info", "":
		level.Set(slog.LevelInfo)
	case "warn":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	default:
		return fmt.Errorf("unknown log level %q", name)
	}

	return nil
}

type Options struct {
	// Skip the journal even when it is reachable
	NoJournal bool
}

func New(w io.Writer, opts Options) *slog.Logger {

	var handlers []slog.Handler

	if !underSystemd() {
		handlers = append(handlers, slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	}

	if !opts.NoJournal {
		h, err := slogjournal.NewHandler(&slogjournal.Options{
			Level:        level,
			ReplaceGroup: toJournalKey,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a.Key = toJournalKey(a.Key)
				return a
			},
		})
		if err == nil {
			handlers = append(handlers, h)
		} else if len(handlers) > 0 {
			slog.New(handlers[0]).Debug("no systemd journal", "err", err)
		}
	}

	switch len(handlers) {
	case 0:
		return slog.New(slog.DiscardHandler)
	case 1:
		return slog.New(handlers[0])
	}

	return slog.New(slogmulti.Fanout(handlers...))
}

// Journal field names are upper case letters, digits and '_'

func toJournalKey(key string) string {

	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, strings.ToUpper(key))
}

func underSystemd() bool {

	content, err := os.ReadFile("/proc/self/cgroup")
	if err != nil {
		return false
	}

	return serviceCgroup(string(content))
}

//
// A service's cgroup, or its parent, is named after the unit
//

func serviceCgroup(cgroups string) bool {

	for _, line := range strings.Split(strings.TrimSpace(cgroups), "\n") {
		parts := strings.SplitN(line, ":", 3)
		if len(parts) < 3 {
			continue
		}
		if p := parts[2]; strings.HasSuffix(p, ".service") || strings.HasSuffix(path.Dir(p), ".service") {
			return true
		}
	}

	return false
}
