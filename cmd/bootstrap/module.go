package bootstrap

import (
	"reservation-engine/cmd/bootstrap/components"

	"go.uber.org/fx"
)

// CoreModule is everything a process needs to run reservation operations.
var CoreModule = fx.Options(
	ConfigModule,
	LoggerModule,
	TracingModule,
	DBModule,
	components.PersistenceModule,
	components.UseCaseModule,
	JobsModule,
)

// HTTPModule adds the gin API on top of CoreModule.
var HTTPModule = fx.Options(
	JWTModule,
	components.HandlerModule,
)
