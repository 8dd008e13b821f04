package components

import (
	"reservation-engine/internal/infra/readstore"
	"reservation-engine/internal/infra/sqlstore"
	"reservation-engine/internal/infra/uow"
	"reservation-engine/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	unitOfWorkModule,
)

var baseOption = fx.Provide(
	NewSQLQueries,
	NewDBTX,
)

// Command-side stores are built per transaction by the unit of work; only
// the query-side view store reads straight from the pool.
var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		fx.Annotate(
			func(q *sqlstore.Queries) *sqlstore.Queries { return q },
			fx.As(new(readstore.ReservationViewQueries)),
		),
		fx.Annotate(
			readstore.NewReservationViewStore,
			fx.As(new(queries.ReservationViewRepo)),
		),
	),
)

var unitOfWorkModule = fx.Module("persistence/uow",
	fx.Provide(
		uow.NewPostgresUoW,
	),
)

func NewSQLQueries(_ *pgxpool.Pool) *sqlstore.Queries {
	return sqlstore.New()
}

func NewDBTX(pool *pgxpool.Pool) sqlstore.DBTX {
	return pool
}
