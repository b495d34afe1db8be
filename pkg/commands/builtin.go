package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hpavl/meshbot/pkg/bus"
	"github.com/hpavl/meshbot/pkg/mailbox"
	"github.com/hpavl/meshbot/pkg/mesh"
)

// Pending mailbox texts are clamped harder than replies so a burst of
// long notes can't blow up delivery later.
const mailboxTextLimit = 400

// displayOrKey renders a node for humans, falling back to the raw key.
func (env *Env) displayOrKey(key string) string {
	if name, ok := env.Resolver.DisplayName(key); ok {
		return name
	}
	return key
}

// Builtin returns the built-in command set.
func Builtin() Set {
	return Set{
		Name: "builtin",
		Specs: []Spec{
			{Name: "help", Help: "List available commands.", Usage: "!help", Handler: cmdHelp},
			{Name: "?", Help: "List available commands.", Usage: "!?", Handler: cmdHelp},
			{Name: "ping", Help: "Reply with pong and link quality.", Usage: "!ping", Handler: cmdPing},
			{Name: "whoami", Help: "Show your node name and id.", Usage: "!whoami", Handler: cmdWhoami},
			{Name: "nodes", Help: "Count known nodes.", Usage: "!nodes", Handler: cmdNodes},
			{Name: "uptime", Help: "Bot and system uptime.", Usage: "!uptime", Handler: cmdUptime},
			{Name: "weather", Help: "Current weather for a place.", Usage: "!weather [place]", Handler: cmdWeather},
			{Name: "air", Help: "Local airtime metrics.", Usage: "!air", Handler: cmdAir},
			{Name: "msg", Help: "Leave a message for a node.", Usage: "!msg <target|!hexid|shortName|longName> <text>", Handler: cmdMsg},
			{Name: "inbox", Help: "Peek at your pending messages.", Usage: "!inbox", Handler: cmdInbox},
		},
	}
}

func cmdHelp(ctx context.Context, env *Env, ev bus.PacketEvent, sender string, args []string) (string, error) {
	p := env.Cfg.Bot.CommandPrefix
	return fmt.Sprintf(
		"🤖 Commands: %[1]shelp, %[1]sping, %[1]swhoami, %[1]snodes, %[1]suptime, "+
			"%[1]sweather [place], %[1]sair, "+
			"%[1]smsg <target|!hexid|shortName|longName> <text>, %[1]sinbox",
		p), nil
}

func cmdPing(ctx context.Context, env *Env, ev bus.PacketEvent, sender string, args []string) (string, error) {
	var extras []string
	if ev.SNR != nil {
		extras = append(extras, fmt.Sprintf("SNR %g", *ev.SNR))
	}
	if ev.RSSI != nil {
		extras = append(extras, fmt.Sprintf("RSSI %d", *ev.RSSI))
	}
	reply := "pong 🏓"
	if len(extras) > 0 {
		reply += " (" + strings.Join(extras, ", ") + ")"
	}
	return reply, nil
}

func cmdWhoami(ctx context.Context, env *Env, ev bus.PacketEvent, sender string, args []string) (string, error) {
	if name, ok := env.Resolver.DisplayName(sender); ok {
		return fmt.Sprintf("You are: %s (%s)", name, sender), nil
	}
	return fmt.Sprintf("You are: %s", sender), nil
}

func cmdNodes(ctx context.Context, env *Env, ev bus.PacketEvent, sender string, args []string) (string, error) {
	nodes := env.Directory.Nodes()

	var names []string
	for _, n := range nodes {
		if len(names) == 8 {
			break
		}
		name := n.ShortName
		if name == "" {
			name = n.LongName
		}
		if name == "" {
			name = n.Key
		}
		names = append(names, name)
	}

	reply := fmt.Sprintf("📡 Nodes: %d", len(nodes))
	if len(names) > 0 {
		reply += " | " + strings.Join(names, ", ")
	}
	return reply, nil
}

func cmdUptime(ctx context.Context, env *Env, ev bus.PacketEvent, sender string, args []string) (string, error) {
	botUptime := FormatDuration(env.State.Uptime(ev.RxTime))

	if sys, ok := systemUptime(); ok {
		return fmt.Sprintf("⏱️ Uptime: bot %s, system %s", botUptime, FormatDuration(sys)), nil
	}
	return fmt.Sprintf("⏱️ Uptime: bot %s", botUptime), nil
}

func systemUptime() (d time.Duration, ok bool) {
	data, err := os.ReadFile("/proc/uptime")
	if err != nil {
		return 0, false
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return 0, false
	}
	secs, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	return time.Duration(secs * float64(time.Second)), true
}

func cmdWeather(ctx context.Context, env *Env, ev bus.PacketEvent, sender string, args []string) (string, error) {
	// Empty place falls back to the configured default inside the client.
	return env.Weather.Current(ctx, strings.Join(args, " "))
}

func cmdAir(ctx context.Context, env *Env, ev bus.PacketEvent, sender string, args []string) (string, error) {
	m, ok := env.Metrics.LocalMetrics()
	if !ok || (m.AirUtilTx == nil && m.AirUtilRx == nil && m.ChannelUtilization == nil) {
		return "📡 Airtime: metrics not available (enable telemetry on the node, or wait for an update).", nil
	}
	return fmt.Sprintf("📡 Airtime: TX %s | RX %s | CH %s",
		FormatPct(m.AirUtilTx), FormatPct(m.AirUtilRx), FormatPct(m.ChannelUtilization)), nil
}

func cmdMsg(ctx context.Context, env *Env, ev bus.PacketEvent, sender string, args []string) (string, error) {
	if len(args) < 2 {
		return "", usageErr("Usage: %smsg <target|!hexid|shortName|longName> <text>", env.Cfg.Bot.CommandPrefix)
	}

	targetToken := args[0]
	text := strings.TrimSpace(strings.Join(args[1:], " "))
	if text == "" {
		return "❌ Missing message text.", nil
	}

	targetKey, targetName, ok := env.Resolver.Resolve(targetToken)
	if !ok {
		// Resolution miss is a plain reply, never an error.
		return fmt.Sprintf("❌ Cannot find node '%s'. Try %snodes for a list.",
			targetToken, env.Cfg.Bot.CommandPrefix), nil
	}

	fromDisplay := sender
	if name, found := env.Resolver.DisplayName(sender); found {
		fromDisplay = fmt.Sprintf("%s(%s)", name, sender)
	}

	env.Mailbox.Add(targetKey, mailbox.Message{
		CreatedAt:   ev.RxTime,
		FromDisplay: fromDisplay,
		Text:        mesh.Clamp(text, mailboxTextLimit),
	})

	prettyTarget := targetName
	if prettyTarget == "" {
		prettyTarget = targetKey
	}
	return fmt.Sprintf("✅ Saved to mailbox for %s. Will deliver when active on channel %d.",
		prettyTarget, env.Cfg.Radio.ChannelIndex), nil
}

func cmdInbox(ctx context.Context, env *Env, ev bus.PacketEvent, sender string, args []string) (string, error) {
	msgs := env.Mailbox.GetFor(sender)
	if len(msgs) == 0 {
		return "📭 Inbox: empty.", nil
	}

	var lines []string
	for _, m := range msgs {
		if len(lines) == 3 {
			break
		}
		age := FormatDuration(ev.RxTime.Sub(m.CreatedAt))
		lines = append(lines, fmt.Sprintf("- od %s (%s): %s", m.FromDisplay, age, mesh.Clamp(m.Text, 80)))
	}

	more := ""
	if len(msgs) > 3 {
		more = fmt.Sprintf(" (+%d more)", len(msgs)-3)
	}
	return "📬 Inbox:\n" + strings.Join(lines, "\n") + more, nil
}
