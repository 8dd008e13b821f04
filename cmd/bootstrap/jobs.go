package bootstrap

import (
	"context"
	"log/slog"

	"reservation-engine/internal/infra/lock"
	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/pkg/config"
	"reservation-engine/internal/scheduler"
	"reservation-engine/internal/usecase/jobs"
	"reservation-engine/internal/usecase/shared"

	"go.uber.org/fx"
)

var JobsModule = fx.Module("jobs",
	EventsModule,
	fx.Provide(
		NewLocker,
		NewScheduler,
	),
)

// NewLocker uses Redis when REDIS_ADDR is set so replicas share job locks.
func NewLocker(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) scheduler.Locker {
	if cfg.Redis.Addr == "" {
		logger.Info("no redis configured: job locks are process-local")
		return lock.NewLocalLocker()
	}
	client := lock.NewRedisClient(cfg.Redis)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})
	logger.Info("job locks backed by redis", "addr", cfg.Redis.Addr)
	return lock.NewRedisLocker(client)
}

func NewScheduler(
	cfg config.Config,
	locker scheduler.Locker,
	uow shared.UnitOfWork,
	publisher shared.EventPublisher,
	clk clock.Clock,
	logger *slog.Logger,
) *scheduler.Scheduler {
	s := scheduler.New(locker, cfg.Jobs.LockTTL, logger)
	batch := cfg.Jobs.BatchSize

	s.Add(jobs.NewDeadlineSweeper(uow, clk, batch, logger), cfg.Jobs.DeadlineSweepInterval)

	sync := jobs.NewStatusSynchronizer(uow, clk, batch, logger)
	s.Add(sync.ExcursionJob(), cfg.Jobs.ExcursionSyncInterval)
	s.Add(sync.FlightJob(), cfg.Jobs.FlightSyncInterval)
	s.Add(sync.StayJob(), cfg.Jobs.StaySyncInterval)

	s.Add(jobs.NewOutboxRelay(uow, publisher, clk, batch, logger), cfg.Jobs.OutboxRelayInterval)
	return s
}

// RunScheduler ties the scheduler's loops to the app lifecycle.
func RunScheduler(lc fx.Lifecycle, s *scheduler.Scheduler, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Info("starting job scheduler", "jobs", s.Jobs())
			go func() {
				defer close(done)
				_ = s.Run(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				logger.Info("job scheduler stopped")
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
