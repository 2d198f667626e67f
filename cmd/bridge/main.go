package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rxtech-lab/argo-bridge/internal/config"
	"github.com/rxtech-lab/argo-bridge/internal/feed"
	"github.com/rxtech-lab/argo-bridge/internal/logger"
	"github.com/rxtech-lab/argo-bridge/internal/reconcile"
	"github.com/rxtech-lab/argo-bridge/internal/reporter"
	terminalprovider "github.com/rxtech-lab/argo-bridge/internal/terminal/provider"
	"github.com/rxtech-lab/argo-bridge/internal/transport"
	"github.com/rxtech-lab/argo-bridge/internal/types"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// runAction wires the terminal, transport, reconciler, and reporter together
// and replays the configured feed as the host event loop.
func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	zlog, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = zlog.Sync() }()

	providerType, providerConfig := cfg.TerminalConfig()

	terminal, err := terminalprovider.NewTerminalProvider(providerType, providerConfig)
	if err != nil {
		return fmt.Errorf("failed to create terminal provider: %w", err)
	}

	client := transport.NewClient(cfg.Endpoint)
	reconciler := reconcile.NewReconciler(terminal, zlog)
	eventReporter := reporter.NewReporter(client, reconciler, zlog)

	// A failed probe aborts startup; there is nothing to stream to.
	if err := eventReporter.Initialize(ctx, time.Time{}); err != nil {
		return err
	}

	simulated, _ := terminal.(*terminalprovider.SimulatedTerminal)
	barFeed := feed.NewCSVFeed(cfg.Feed.Path, cfg.Feed.Spread)

	for snapshot, err := range barFeed.Snapshots() {
		if ctx.Err() != nil {
			zlog.Info("replay interrupted")

			break
		}

		if err != nil {
			zlog.Warn("skipping feed row", zap.Error(err))

			continue
		}

		if simulated != nil {
			simulated.SetQuote(snapshot.Bid)
		}

		// Report failures are logged by the reporter; the next event is the
		// only retry.
		_ = eventReporter.ReportBar(ctx, snapshot.LastBar)
		_ = eventReporter.ReportTick(ctx, types.Tick{Time: snapshot.Time, Price: snapshot.Bid})
	}

	zlog.Info("replay finished", zap.Time("last_bar", eventReporter.LastBarTime()))

	return nil
}

// providersAction lists the supported terminal providers and their config
// schemas.
func providersAction(_ context.Context, _ *cli.Command) error {
	for _, name := range terminalprovider.GetSupportedProviders() {
		info, err := terminalprovider.GetProviderInfo(name)
		if err != nil {
			return err
		}

		schema, err := terminalprovider.GetProviderConfigSchema(name)
		if err != nil {
			return err
		}

		fmt.Printf("%s - %s\n%s\n\n", info.Name, info.Description, schema)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "bridge",
		Usage: "Stream terminal market events to a remote controller and execute its order commands",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Replay the configured feed against the controller",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "config",
						Aliases:  []string{"c"},
						Usage:    "Path to the bridge YAML config",
						Required: true,
					},
				},
				Action: runAction,
			},
			{
				Name:   "providers",
				Usage:  "List supported terminal providers and their config schemas",
				Action: providersAction,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatalf("bridge failed: %v", err)
	}
}
