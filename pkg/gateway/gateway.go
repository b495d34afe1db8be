package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hpavl/meshbot/pkg/bus"
	"github.com/hpavl/meshbot/pkg/commands"
	"github.com/hpavl/meshbot/pkg/config"
	"github.com/hpavl/meshbot/pkg/logger"
	"github.com/hpavl/meshbot/pkg/mesh"
	"github.com/hpavl/meshbot/pkg/state"
	"github.com/hpavl/meshbot/pkg/weather"
)

// Gateway drives the whole bot: it consumes packets from the bus,
// filters by channel, delivers pending mailbox messages the moment a
// recipient shows any activity, and dispatches command-shaped text.
type Gateway struct {
	cfg      *config.Config
	broker   bus.Broker
	registry *commands.Registry
	env      *commands.Env
}

func New(cfg *config.Config, broker bus.Broker, registry *commands.Registry, env *commands.Env) *Gateway {
	return &Gateway{
		cfg:      cfg,
		broker:   broker,
		registry: registry,
		env:      env,
	}
}

// Run processes packets sequentially until ctx is done. One packet at a
// time; handlers never run concurrently with each other.
func (g *Gateway) Run(ctx context.Context) error {
	logger.InfoCF("gateway", "Listening for packets", map[string]interface{}{
		"channel": g.cfg.Radio.ChannelIndex,
		"prefix":  g.cfg.Bot.CommandPrefix,
	})

	for {
		ev, ok := g.broker.ConsumePacket(ctx)
		if !ok {
			return nil
		}
		g.handlePacket(ctx, ev)
	}
}

func (g *Gateway) handlePacket(ctx context.Context, ev bus.PacketEvent) {
	// Channel isolation is absolute: a packet from another channel
	// triggers nothing, not even mailbox delivery.
	if ev.Channel != g.cfg.Radio.ChannelIndex {
		return
	}

	sender := mesh.SenderKey(ev)

	g.deliverMailbox(ev, sender)

	if text := strings.TrimSpace(ev.Text); text != "" && strings.HasPrefix(text, g.cfg.Bot.CommandPrefix) {
		g.dispatch(ctx, ev, sender, text)
	}

	g.env.State.MarkSeen(sender, ev.RxTime)
	g.env.State.Inc(state.CounterMessagesSeen)
}

// deliverMailbox pops everything addressed to the sender. Presence
// alone triggers delivery; the packet doesn't need to be a command.
func (g *Gateway) deliverMailbox(ev bus.PacketEvent, sender string) {
	pending := g.env.Mailbox.PopFor(sender)
	if len(pending) == 0 {
		return
	}

	destName := sender
	if name, ok := g.env.Resolver.DisplayName(sender); ok {
		destName = name
	}

	logger.InfoCF("gateway", "Delivering mailbox", map[string]interface{}{
		"dest":  sender,
		"count": len(pending),
	})

	for _, m := range pending {
		age := commands.FormatDuration(ev.RxTime.Sub(m.CreatedAt))
		g.reply(fmt.Sprintf("📮 For %s: from %s (%s): %s", destName, m.FromDisplay, age, m.Text))
	}
}

func (g *Gateway) dispatch(ctx context.Context, ev bus.PacketEvent, sender, text string) {
	cmdline := strings.TrimSpace(strings.TrimPrefix(text, g.cfg.Bot.CommandPrefix))
	if cmdline == "" {
		return
	}

	parts := strings.Fields(cmdline)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	spec, ok := g.registry.Lookup(cmd)
	if !ok {
		g.reply(fmt.Sprintf("❓ Unknown command '%s'. Try %shelp", cmd, g.cfg.Bot.CommandPrefix))
		return
	}

	g.env.State.Inc(state.CounterCommandsExecuted)

	reply, err := g.invoke(ctx, spec, ev, sender, args)
	if err != nil {
		reply = g.failureReply(cmd, err)
	}
	if reply != "" {
		g.reply(reply)
	}
}

// invoke runs one handler with a bounded timeout and contains panics so
// a defective handler can't take down packet processing.
func (g *Gateway) invoke(ctx context.Context, spec commands.Spec, ev bus.PacketEvent, sender string, args []string) (reply string, err error) {
	hctx, cancel := context.WithTimeout(ctx, g.cfg.HandlerTimeout())
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			logger.ErrorCF("gateway", "Handler panicked", map[string]interface{}{
				"command": spec.Name,
				"panic":   fmt.Sprint(r),
			})
			err = fmt.Errorf("handler %s panicked", spec.Name)
		}
	}()

	return spec.Handler(hctx, g.env, ev, sender, args)
}

// failureReply maps a handler failure onto a single-line, non-sensitive
// reply. Categories only, no internal detail.
func (g *Gateway) failureReply(cmd string, err error) string {
	var ue *commands.UsageError
	if errors.As(err, &ue) {
		return ue.Usage
	}

	var ne *weather.NetworkError
	if errors.As(err, &ne) {
		logger.WarnCF("gateway", "Network failure in handler", map[string]interface{}{
			"command": cmd,
			"error":   err.Error(),
		})
		return fmt.Sprintf("❌ Network error: %s", ne.Op)
	}

	logger.ErrorCF("gateway", "Handler failed", map[string]interface{}{
		"command": cmd,
		"error":   err.Error(),
	})
	if errors.Is(err, context.DeadlineExceeded) {
		return "❌ Error: timeout"
	}
	return "❌ Error: internal"
}

func (g *Gateway) reply(text string) {
	g.broker.PublishReply(bus.Reply{
		Channel: g.cfg.Radio.ChannelIndex,
		Text:    text,
	})
}
