package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"beacon/internal/config"
	"beacon/internal/progress"
	"beacon/internal/progressstore"
)

func newActionCommand(ctx *commandContext) *cobra.Command {
	actionCmd := &cobra.Command{
		Use:   "action",
		Short: "Record and inspect tracked action progress",
	}

	actionCmd.AddCommand(newActionSetCommand(ctx))
	actionCmd.AddCommand(newActionListCommand(ctx))
	actionCmd.AddCommand(newActionClearCommand(ctx))

	return actionCmd
}

func newActionSetCommand(ctx *commandContext) *cobra.Command {
	var errMsg string

	cmd := &cobra.Command{
		Use:   "set <name> <state>",
		Short: "Record a progress transition for an action",
		Long: "Record a progress transition for an action.\n\n" +
			"States: idle, loading, loaded, failed. --error is only kept for failed.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := progress.ParseState(args[1])
			if err != nil {
				return err
			}
			if state != progress.Failed && strings.TrimSpace(errMsg) != "" {
				return errors.New("--error can only be used with the failed state")
			}
			return ctx.withStore(func(_ *config.Config, store *progressstore.Store) error {
				event, err := store.Record(cmd.Context(), args[0], state, errMsg)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s: %s (event %d)\n", event.Action, event.Progress, event.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&errMsg, "error", "e", "", "Error message for failed transitions")
	return cmd
}

func newActionListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked actions and their current progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *progressstore.Store) error {
				actions, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(actions) == 0 {
					fmt.Fprintln(out, "No tracked actions")
					return nil
				}
				colorize := shouldColorize(out)
				rows := make([][]string, 0, len(actions))
				for _, a := range actions {
					rows = append(rows, []string{
						a.Name,
						stateLabel(a.Progress, colorize),
						strconv.FormatInt(a.Revision, 10),
						formatUpdated(a.UpdatedAt),
						a.ErrorMessage,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Action", "Progress", "Revision", "Updated", "Error"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}

func newActionClearCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clear [name]",
		Short: "Forget one tracked action, or all of them with --all",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !all {
				return errors.New("specify an action name or --all")
			}
			if len(args) == 1 && all {
				return errors.New("--all cannot be combined with an action name")
			}
			return ctx.withStore(func(_ *config.Config, store *progressstore.Store) error {
				out := cmd.OutOrStdout()
				if all {
					removed, err := store.Clear(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Cleared %d action(s)\n", removed)
					return nil
				}
				removed, err := store.Delete(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !removed {
					fmt.Fprintf(out, "No tracked action named %s\n", args[0])
					return nil
				}
				fmt.Fprintf(out, "Cleared %s\n", args[0])
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Clear every tracked action")
	return cmd
}

func formatUpdated(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
