package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rinkwatch",
		Short: "Watches booking sites for open ice sessions and notifies when spots appear or reopen",
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newBookedCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
