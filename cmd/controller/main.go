package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rxtech-lab/argo-bridge/internal/controller"
	"github.com/rxtech-lab/argo-bridge/internal/logger"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// serveAction runs the demo controller: buy after an up bar, sell after a
// down bar, close everything after an unchanged bar.
func serveAction(ctx context.Context, cmd *cli.Command) error {
	zlog, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = zlog.Sync() }()

	policy := controller.NewBarDirectionPolicy(cmd.Float("volume"))
	server := controller.NewServer(policy, zlog)

	if err := server.Start(cmd.String("listen")); err != nil {
		return fmt.Errorf("failed to start controller: %w", err)
	}

	zlog.Info("controller listening",
		zap.String("report_url", server.ReportURL()),
		zap.Float64("volume", cmd.Float("volume")),
	)

	<-ctx.Done()

	zlog.Info("shutting down")

	return server.Stop()
}

func main() {
	cmd := &cli.Command{
		Name:   "controller",
		Usage:  "Serve a demo remote controller that trades on bar direction",
		Action: serveAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "listen",
				Aliases: []string{"l"},
				Usage:   "Address to listen on",
				Value:   ":8080",
			},
			&cli.FloatFlag{
				Name:    "volume",
				Aliases: []string{"v"},
				Usage:   "Order volume for buy and sell commands",
				Value:   2,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatalf("controller failed: %v", err)
	}
}
