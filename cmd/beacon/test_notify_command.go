package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"beacon/internal/notifications"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			sink := notifications.NewNtfySink(cfg)
			out := cmd.OutOrStdout()
			if notifications.IsNoop(sink) {
				fmt.Fprintln(out, "Notification not sent: ntfy_topic is not configured")
				return nil
			}
			if err := notifications.SendTest(cmd.Context(), sink); err != nil {
				return fmt.Errorf("send test notification: %w", err)
			}
			fmt.Fprintln(out, "Test notification sent")
			return nil
		},
	}
}
