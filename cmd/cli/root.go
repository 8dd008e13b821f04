package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	CommitSHA = "none"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "reservation-engine",
		Short:         "Reservation engine for excursions, rooms and flights",
		Version:       fmt.Sprintf("%s (%s)", Version, CommitSHA),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newWorkerCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newRunJobCmd())
	root.AddCommand(newTokenCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
