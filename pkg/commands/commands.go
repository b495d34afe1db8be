package commands

import (
	"context"
	"fmt"

	"github.com/hpavl/meshbot/pkg/bus"
	"github.com/hpavl/meshbot/pkg/config"
	"github.com/hpavl/meshbot/pkg/mailbox"
	"github.com/hpavl/meshbot/pkg/mesh"
	"github.com/hpavl/meshbot/pkg/state"
)

// WeatherService is the slice of the weather client handlers need.
type WeatherService interface {
	Current(ctx context.Context, place string) (string, error)
}

// Env is the runtime context handed to every command handler. Mailbox
// and State are the only state handlers are sanctioned to mutate.
type Env struct {
	Cfg       *config.Config
	Mailbox   *mailbox.Mailbox
	State     *state.Store
	Directory mesh.Directory
	Resolver  *mesh.Resolver
	Metrics   mesh.MetricsSource
	Weather   WeatherService
}

// HandlerFunc is the single, explicit callback contract for commands.
// The returned string is sent verbatim (subject to length clamping on
// the send path); an empty string with nil error means no reply.
type HandlerFunc func(ctx context.Context, env *Env, ev bus.PacketEvent, sender string, args []string) (string, error)

// Spec describes one command. Registered once at startup, immutable
// thereafter.
type Spec struct {
	Name    string
	Help    string
	Usage   string
	Handler HandlerFunc
}

// Set is a named group of command specs (the built-in set or a plugin).
type Set struct {
	Name  string
	Specs []Spec
}

// UsageError signals malformed input; the dispatcher replies with the
// usage string instead of an error line.
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("usage: %s", e.Usage)
}

func usageErr(format string, args ...interface{}) error {
	return &UsageError{Usage: fmt.Sprintf(format, args...)}
}
