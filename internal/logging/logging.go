// ABOUTME: Structured leveled logger setup shared by the CLI and MCP server.
// ABOUTME: Wraps charmbracelet/log with per-component prefixes.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Component prefixes.
const (
	CatSession = "session"
	CatTimer   = "timer"
	CatStorage = "storage"
	CatCharm   = "charm"
	CatMCP     = "mcp"
	CatConfig  = "config"
)

// Options controls logger construction.
type Options struct {
	Level      string // debug, info, warn, error
	Debug      bool   // forces debug level
	Timestamps bool
}

// New builds a logger writing to w.
func New(w io.Writer, opts Options) (*log.Logger, error) {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	if opts.Debug {
		level = log.DebugLevel
	}

	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: opts.Timestamps,
	}), nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// For returns a child logger tagged with a component prefix.
func For(l *log.Logger, component string) *log.Logger {
	if l == nil {
		return Discard()
	}
	return l.WithPrefix(component)
}

func parseLevel(s string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "warn", "warning":
		return log.WarnLevel, nil
	case "debug":
		return log.DebugLevel, nil
	case "info":
		return log.InfoLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.WarnLevel, fmt.Errorf("unknown log level %q", s)
	}
}
