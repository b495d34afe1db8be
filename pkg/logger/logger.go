package logger

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Component-tagged logging facade over zerolog. Every call carries a
// component name so log lines from the bridge, gateway and handlers can
// be told apart without per-package logger plumbing.

var (
	mu   sync.RWMutex
	root = newRoot()
)

const (
	EnvLogLevel  = "MESHBOT_LOG_LEVEL"
	EnvLogFormat = "MESHBOT_LOG_FORMAT"
)

func newRoot() zerolog.Logger {
	var out zerolog.Logger
	if strings.EqualFold(os.Getenv(EnvLogFormat), "json") {
		out = zerolog.New(os.Stderr)
	} else {
		out = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}
	return out.Level(parseLevel(os.Getenv(EnvLogLevel))).With().Timestamp().Logger()
}

func parseLevel(raw string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// SetLevel overrides the level parsed from the environment.
func SetLevel(level string) {
	mu.Lock()
	defer mu.Unlock()
	root = root.Level(parseLevel(level))
}

func event(ev *zerolog.Event, component, msg string, fields map[string]interface{}) {
	ev = ev.Str("component", component)
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

func get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

func DebugC(component, msg string) {
	l := get()
	event(l.Debug(), component, msg, nil)
}

func DebugCF(component, msg string, fields map[string]interface{}) {
	l := get()
	event(l.Debug(), component, msg, fields)
}

func InfoC(component, msg string) {
	l := get()
	event(l.Info(), component, msg, nil)
}

func InfoCF(component, msg string, fields map[string]interface{}) {
	l := get()
	event(l.Info(), component, msg, fields)
}

func WarnC(component, msg string) {
	l := get()
	event(l.Warn(), component, msg, nil)
}

func WarnCF(component, msg string, fields map[string]interface{}) {
	l := get()
	event(l.Warn(), component, msg, fields)
}

func ErrorC(component, msg string) {
	l := get()
	event(l.Error(), component, msg, nil)
}

func ErrorCF(component, msg string, fields map[string]interface{}) {
	l := get()
	event(l.Error(), component, msg, fields)
}
