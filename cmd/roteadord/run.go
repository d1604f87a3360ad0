package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/malujoro/lsrouter/internal/config"
	"github.com/malujoro/lsrouter/internal/ifaces"
	"github.com/malujoro/lsrouter/internal/logger"
	"github.com/malujoro/lsrouter/internal/supervisor"
)

func newRunCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the routing daemon and block until terminated",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(logLevel)
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL (NONE, WARN, INFO, DEBUG)")

	return cmd
}

func runDaemon(logLevel string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	// Applied after Load so the flag wins over the overlay's log_level.
	if logLevel != "" {
		logger.SetLevel(logLevel)
	}

	interfaces, err := ifaces.Inventory()
	if err != nil {
		return fmt.Errorf("inventorying network interfaces: %w", err)
	}
	if len(interfaces) == 0 {
		logger.Warnf("no matching interfaces found; this router will have no reachable peers")
	}

	sup := supervisor.New(cfg, interfaces)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infof("starting router %s", cfg.RouterID)
	if err := sup.Run(ctx); err != nil {
		return fmt.Errorf("router supervisor: %w", err)
	}
	logger.Infof("router %s stopped", cfg.RouterID)
	return nil
}
