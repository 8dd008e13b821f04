package components

import (
	"reservation-engine/internal/handler"
	"reservation-engine/internal/handler/api"
	"reservation-engine/internal/handler/middleware"
	"reservation-engine/internal/scheduler"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewReservationHandler,
		api.NewAvailabilityHandler,
		api.NewInventoryHandler,
		api.NewPaymentHandler,
		fx.Annotate(
			func(s *scheduler.Scheduler) *scheduler.Scheduler { return s },
			fx.As(new(api.JobRunner)),
		),
		api.NewJobsHandler,
		middleware.NewAuthMiddleware,
		func(
			r *api.ReservationHandler,
			a *api.AvailabilityHandler,
			i *api.InventoryHandler,
			p *api.PaymentHandler,
			j *api.JobsHandler,
		) handler.Handlers {
			return handler.Handlers{Reservation: r, Availability: a, Inventory: i, Payment: p, Jobs: j}
		},
	),
	fx.Invoke(handler.NewRouter),
)
