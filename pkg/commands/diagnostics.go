package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/hpavl/meshbot/pkg/bus"
)

// Diagnostics returns the link-quality command set.
func Diagnostics() Set {
	return Set{
		Name: "diagnostics",
		Specs: []Spec{
			{Name: "snr", Help: "Show SNR/RSSI for the last received packet.", Usage: "!snr", Handler: cmdSNR},
			{Name: "route", Help: "Show hop/route info if present in the packet.", Usage: "!route", Handler: cmdRoute},
			{Name: "seen", Help: "Show when a node was last seen (in this bot session).", Usage: "!seen [node]", Handler: cmdSeen},
			{Name: "load", Help: "Interpret channel utilization (from !air metrics).", Usage: "!load", Handler: cmdLoad},
		},
	}
}

func cmdSNR(ctx context.Context, env *Env, ev bus.PacketEvent, sender string, args []string) (string, error) {
	snr := "?"
	if ev.SNR != nil {
		snr = fmt.Sprintf("%g", *ev.SNR)
	}
	rssi := "?"
	if ev.RSSI != nil {
		rssi = fmt.Sprintf("%d", *ev.RSSI)
	}
	return fmt.Sprintf("📶 SNR: %s | RSSI: %s", snr, rssi), nil
}

func cmdRoute(ctx context.Context, env *Env, ev bus.PacketEvent, sender string, args []string) (string, error) {
	if ev.HopsAway != nil {
		return fmt.Sprintf("🧭 Route: %d hops", *ev.HopsAway), nil
	}
	if ev.HopLimit != nil {
		return fmt.Sprintf("🧭 Hop limit: %d", *ev.HopLimit), nil
	}
	return "🧭 Route: (no hop info in packet)", nil
}

func cmdSeen(ctx context.Context, env *Env, ev bus.PacketEvent, sender string, args []string) (string, error) {
	target := sender
	if len(args) > 0 {
		token := strings.TrimSpace(strings.Join(args, " "))
		if key, _, ok := env.Resolver.Resolve(token); ok {
			target = key
		} else {
			target = token
		}
	}

	at, ok := env.State.Seen(target)
	if !ok {
		return fmt.Sprintf("👀 Seen: %s — never (in this bot session)", target), nil
	}
	return fmt.Sprintf("👀 Seen: %s — %s ago", target, FormatAge(ev.RxTime.Sub(at))), nil
}

func cmdLoad(ctx context.Context, env *Env, ev bus.PacketEvent, sender string, args []string) (string, error) {
	m, ok := env.Metrics.LocalMetrics()
	if !ok || m.ChannelUtilization == nil {
		return "📡 Channel load: unknown", nil
	}

	v := *m.ChannelUtilization
	var label string
	switch {
	case v < 1.0:
		label = "IDLE"
	case v < 5.0:
		label = "OK"
	case v < 15.0:
		label = "BUSY"
	default:
		label = "CONGESTED"
	}
	return fmt.Sprintf("📡 Channel load: %s (CH %.1f%%)", label, v), nil
}
