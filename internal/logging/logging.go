// Package logging builds the process-wide logger. Verbosity affects
// observability only, never program outcomes.
package logging

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// ParseLevel maps a --verbose value to a log level. "warning" is the
// documented spelling; "warn" is accepted as a courtesy.
func ParseLevel(verbosity string) (log.Level, error) {
	switch verbosity {
	case "debug":
		return log.DebugLevel, nil
	case "info":
		return log.InfoLevel, nil
	case "warning", "warn":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("invalid verbosity %q: want one of debug, info, warning, error", verbosity)
	}
}

// New returns a logger writing to w at the given verbosity.
func New(w io.Writer, verbosity string) (*log.Logger, error) {
	level, err := ParseLevel(verbosity)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: "ade",
	}), nil
}
