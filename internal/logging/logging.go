package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
)

// RunnerDebugEnv is set to "1" by GitHub when step debug logging is enabled.
const RunnerDebugEnv = "RUNNER_DEBUG"

// New returns a logger writing to w at the named level. Step debug logging
// on the runner forces the debug level.
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if os.Getenv(RunnerDebugEnv) == "1" {
		lvl = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:  lvl,
		Prefix: "bump",
	}), nil
}

// ParseLevel maps a level name to a log level. An empty name means info.
func ParseLevel(level string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return log.InfoLevel, nil
	case "debug":
		return log.DebugLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	}
	return log.InfoLevel, errors.WithHint(errors.Newf("unknown log level %q", level),
		"valid levels are debug, info, warn, error")
}
