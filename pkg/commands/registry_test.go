package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hpavl/meshbot/pkg/bus"
)

func constHandler(reply string) HandlerFunc {
	return func(ctx context.Context, env *Env, ev bus.PacketEvent, sender string, args []string) (string, error) {
		return reply, nil
	}
}

func TestRegistryLookupCaseInsensitive(t *testing.T) {
	reg := NewRegistry(Set{Name: "a", Specs: []Spec{
		{Name: "Ping", Handler: constHandler("pong")},
	}})

	for _, name := range []string{"ping", "PING", "Ping"} {
		if _, ok := reg.Lookup(name); !ok {
			t.Errorf("Lookup(%q) not found", name)
		}
	}

	// Exact match only, no prefix matching.
	if _, ok := reg.Lookup("pin"); ok {
		t.Error("Lookup(pin) should not match ping")
	}
}

func TestRegistryLastRegisteredWins(t *testing.T) {
	reg := NewRegistry(
		Set{Name: "builtin", Specs: []Spec{{Name: "roll", Help: "first", Handler: constHandler("first")}}},
		Set{Name: "plugin", Specs: []Spec{{Name: "roll", Help: "second", Handler: constHandler("second")}}},
	)

	spec, ok := reg.Lookup("roll")
	assert.True(t, ok)
	assert.Equal(t, "second", spec.Help, "later-merged set must override silently")
	assert.Equal(t, 1, reg.Len())

	reply, err := spec.Handler(context.Background(), nil, bus.PacketEvent{}, "", nil)
	assert.NoError(t, err)
	assert.Equal(t, "second", reply)
}

func TestRegistryNamesSorted(t *testing.T) {
	reg := NewRegistry(Set{Name: "a", Specs: []Spec{
		{Name: "zulu"}, {Name: "alfa"}, {Name: "Mike"},
	}})

	assert.Equal(t, []string{"alfa", "mike", "zulu"}, reg.Names())
}

func TestFullRegistryHasObservedCommands(t *testing.T) {
	reg := NewRegistry(Builtin(), Diagnostics(), Fun(), Radio())

	for _, name := range []string{
		"help", "?", "ping", "whoami", "nodes", "uptime", "weather", "air", "msg", "inbox",
		"snr", "route", "seen", "load",
		"roll", "8ball", "stats",
		"noise",
	} {
		if _, ok := reg.Lookup(name); !ok {
			t.Errorf("command %q missing from merged registry", name)
		}
	}
}
