package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"beacon/internal/config"
	"beacon/internal/logging"
	"beacon/internal/notifications"
	"beacon/internal/progressstore"
	"beacon/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch tracked actions and send notifications on transitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *progressstore.Store) error {
				logger, err := logging.NewFromConfig(cfg)
				if err != nil {
					return fmt.Errorf("init logger: %w", err)
				}

				sinks := []notifications.Sink{notifications.NewLogSink(logger)}
				if ntfy := notifications.NewNtfySink(cfg); !notifications.IsNoop(ntfy) {
					sinks = append(sinks, ntfy)
				} else {
					logger.Info("ntfy topic not configured; notifications are only logged")
				}

				manager, err := watch.New(cfg, store, logger, watch.WithSinks(sinks...))
				if err != nil {
					return err
				}
				if len(manager.Watchers()) == 0 {
					return errors.New("no watchers enabled; add [[watchers]] to the configuration")
				}

				runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				err = manager.Run(runCtx)
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
		},
	}
}
