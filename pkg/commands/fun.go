package commands

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/hpavl/meshbot/pkg/bus"
	"github.com/hpavl/meshbot/pkg/state"
)

var eightBallAnswers = []string{
	"It is certain.",
	"Without a doubt.",
	"Yes — definitely.",
	"Most likely.",
	"Ask again later.",
	"Cannot predict now.",
	"Don't count on it.",
	"My reply is no.",
	"Very doubtful.",
}

// Fun returns the toy command set.
func Fun() Set {
	return Set{
		Name: "fun",
		Specs: []Spec{
			{Name: "roll", Help: "Roll a dice (default d6).", Usage: "!roll [sides]", Handler: cmdRoll},
			{Name: "8ball", Help: "Magic 8-ball answer.", Usage: "!8ball", Handler: cmd8Ball},
			{Name: "stats", Help: "Bot usage stats (this session).", Usage: "!stats", Handler: cmdStats},
		},
	}
}

func cmdRoll(ctx context.Context, env *Env, ev bus.PacketEvent, sender string, args []string) (string, error) {
	sides := 6
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return "", usageErr("Usage: %sroll [sides]", env.Cfg.Bot.CommandPrefix)
		}
		sides = n
	}
	if sides < 2 || sides > 1000 {
		return "", usageErr("Usage: %sroll [2..1000]", env.Cfg.Bot.CommandPrefix)
	}
	return fmt.Sprintf("🎲 d%d: %d", sides, 1+rand.Intn(sides)), nil
}

func cmd8Ball(ctx context.Context, env *Env, ev bus.PacketEvent, sender string, args []string) (string, error) {
	return fmt.Sprintf("🎱 %s", eightBallAnswers[rand.Intn(len(eightBallAnswers))]), nil
}

func cmdStats(ctx context.Context, env *Env, ev bus.PacketEvent, sender string, args []string) (string, error) {
	return fmt.Sprintf("📊 Stats: messages=%d, commands=%d, unique_nodes=%d",
		env.State.Counter(state.CounterMessagesSeen),
		env.State.Counter(state.CounterCommandsExecuted),
		env.State.SeenCount()), nil
}
