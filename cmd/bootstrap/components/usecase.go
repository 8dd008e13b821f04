package components

import (
	"log/slog"

	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/infra/payment"
	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/pkg/config"
	"reservation-engine/internal/usecase/commands"
	"reservation-engine/internal/usecase/queries"
	"reservation-engine/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		reservation.NewDefaultPriceCalculator,
		fx.As(new(reservation.PriceCalculator)),
	),
	func(cfg config.ReservationConfig) reservation.DeadlinePolicy {
		return reservation.NewDeadlinePolicy(cfg.ImmediatePaymentThreshold, cfg.PaymentGracePeriod)
	},
	reservation.NewFactory,
	fx.Annotate(
		payment.NewSandboxGateway,
		fx.As(new(commands.PaymentGateway)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		func(uow shared.UnitOfWork, f *reservation.Factory, clk clock.Clock, cfg config.ReservationConfig, logger *slog.Logger) commands.ReservationCommands {
			return commands.NewReservationUseCase(uow, f, clk, cfg.IdempotencyTTL, logger)
		},
		commands.NewPaymentUseCase,
		commands.NewInventoryUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewReservationQueries,
		queries.NewAvailabilityQueries,
	),
)
