package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hpavl/meshbot/pkg/bus"
	"github.com/hpavl/meshbot/pkg/commands"
	"github.com/hpavl/meshbot/pkg/config"
	"github.com/hpavl/meshbot/pkg/gateway"
	"github.com/hpavl/meshbot/pkg/logger"
	"github.com/hpavl/meshbot/pkg/mailbox"
	"github.com/hpavl/meshbot/pkg/mesh"
	"github.com/hpavl/meshbot/pkg/state"
	"github.com/hpavl/meshbot/pkg/weather"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meshbot",
		Short: "Meshtastic channel utility bot",
	}
	cmd.AddCommand(newServeCommand(), newVersionCommand())
	return cmd
}

func newServeCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Connect to the radio bridge and answer commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "config.toml", "path to config.toml")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("meshbot %s (%s)\n", version, runtime.Version())
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	broker := bus.NewPacketBus()
	defer broker.Close()

	client := mesh.NewClient(cfg.Radio.BridgeURL, cfg.Bot.MaxReplyLen, broker)

	env := &commands.Env{
		Cfg:       cfg,
		Mailbox:   mailbox.New(cfg.MailboxTTL(), cfg.Bot.MailboxPerKeyCap),
		State:     state.NewStore(),
		Directory: client.Directory(),
		Resolver:  mesh.NewResolver(client.Directory()),
		Metrics:   client.Directory(),
		Weather:   weather.NewClient(cfg.Weather.Units, cfg.Weather.Lang, cfg.Weather.DefaultPlace),
	}

	registry := commands.NewRegistry(
		commands.Builtin(),
		commands.Diagnostics(),
		commands.Fun(),
		commands.Radio(),
	)

	logger.InfoCF("main", "meshbot starting", map[string]interface{}{
		"version":  version,
		"channel":  cfg.Radio.ChannelIndex,
		"commands": registry.Len(),
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() { errCh <- client.Run(ctx) }()
	go func() { errCh <- gateway.New(cfg, broker, registry, env).Run(ctx) }()

	err := <-errCh
	cancel()
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		logger.ErrorCF("main", "Fatal", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}
