package cli

import (
	"reservation-engine/cmd/bootstrap"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the background jobs: deadline sweeper, status sync and outbox relay",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := fx.New(
				bootstrap.CoreModule,
				fx.Invoke(bootstrap.RunScheduler),
			)
			return runApp(cmd.Context(), app)
		},
	}
}
