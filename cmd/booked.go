package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/example/rinkwatch/internal/config"
	"github.com/example/rinkwatch/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newBookedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "booked",
		Short: "Manage sessions you have already booked",
		Long: `Manage the list of sessions you have booked yourself, so they are
excluded from notifications. Date/time strings are matched loosely: copy the
wording from a notification, or just the day and month.

Examples:
  rinkwatch booked add "Monday, November 4 - 8:00pm"
  rinkwatch booked remove "Nov 4"
  rinkwatch booked list`,
	}
	cmd.AddCommand(newBookedListCmd())
	cmd.AddCommand(newBookedAddCmd())
	cmd.AddCommand(newBookedRemoveCmd())
	return cmd
}

func newBookedListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all booked sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, _, err := openStores()
			if err != nil {
				return err
			}
			booked := registry.List()
			if len(booked) == 0 {
				fmt.Fprintln(os.Stdout, "No booked sessions tracked yet.")
				return nil
			}
			fmt.Fprintf(os.Stdout, "You have %d booked session(s):\n", len(booked))
			for i, s := range booked {
				fmt.Fprintf(os.Stdout, "%d. %s\n", i+1, s)
			}
			return nil
		},
	}
}

func newBookedAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <date/time>",
		Short: "Mark a session as booked",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, _, err := openStores()
			if err != nil {
				return err
			}
			dateTime := strings.Join(args, " ")
			if err := registry.Add(dateTime); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Added: %s\n", dateTime)
			return nil
		},
	}
}

func newBookedRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <date/time>",
		Short: "Remove booked sessions matching a date/time (partial matches work)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, status, err := openStores()
			if err != nil {
				return err
			}
			dateTime := strings.Join(args, " ")

			removed, err := registry.Remove(dateTime)
			if err != nil {
				return err
			}
			if len(removed) == 0 {
				fmt.Fprintf(os.Stdout, "No booked sessions matched %q\n", dateTime)
				return nil
			}
			for _, e := range removed {
				fmt.Fprintf(os.Stdout, "Removed: %s\n", e)
			}

			// Forget the slot's recorded status too, so the next cycle
			// re-announces it if it is still open.
			forgotten, err := status.ForgetMatching(dateTime)
			if err != nil {
				return err
			}
			if len(forgotten) > 0 {
				fmt.Fprintf(os.Stdout, "Cleared %d tracked status record(s); the next check will re-announce open spots.\n", len(forgotten))
			}
			return nil
		},
	}
}

func openStores() (*storage.BookedRegistry, *storage.StatusStore, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, nil, err
	}
	logger := zap.NewNop()
	return storage.NewBookedRegistry(cfg.BookedFile, logger),
		storage.NewStatusStore(cfg.StatusFile, logger), nil
}
