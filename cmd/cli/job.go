package cli

import (
	"context"
	"fmt"
	"strings"

	"reservation-engine/cmd/bootstrap"
	"reservation-engine/internal/scheduler"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newRunJobCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run-job <name>",
		Short: "Run one tick of a background job and exit",
		Example: "  reservation-engine run-job deadline-sweeper\n" +
			"  reservation-engine run-job flight-status-sync",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sched *scheduler.Scheduler
			app := fx.New(
				bootstrap.CoreModule,
				fx.Populate(&sched),
				fx.NopLogger,
			)
			return runOnce(cmd.Context(), app, func(ctx context.Context) error {
				if err := sched.RunOnce(ctx, args[0]); err != nil {
					return fmt.Errorf("%w (known jobs: %s)", err, strings.Join(sched.Jobs(), ", "))
				}
				return nil
			})
		},
	}
	return cmd
}
