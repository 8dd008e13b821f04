package cli

import (
	"context"
	"log/slog"

	"reservation-engine/cmd/bootstrap"
	"reservation-engine/internal/infra/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				pool   *pgxpool.Pool
				logger *slog.Logger
			)
			app := fx.New(
				bootstrap.ConfigModule,
				bootstrap.LoggerModule,
				bootstrap.DBModule,
				fx.Populate(&pool, &logger),
				fx.NopLogger,
			)
			return runOnce(cmd.Context(), app, func(ctx context.Context) error {
				applied, err := db.Migrate(ctx, pool, logger)
				if err != nil {
					return err
				}
				logger.Info("migrations complete", "applied", applied)
				return nil
			})
		},
	}
}
