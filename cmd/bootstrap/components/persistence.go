package components

import (
	"concert-ticket-api/internal/infra/db"
	"concert-ticket-api/internal/infra/readstore"
	"concert-ticket-api/internal/infra/uow"
	"concert-ticket-api/internal/pkg/config"
	"concert-ticket-api/internal/usecase/queries"
	"concert-ticket-api/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	uowModule,
)

var baseOption = fx.Provide(
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// Booking
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingViewRepo)),
		),
		// Concert tiers
		fx.Annotate(
			readstore.NewConcertReadStore,
			fx.As(new(queries.TierViewRepo)),
		),
	),
)

var uowModule = fx.Module("persistence/uow",
	fx.Provide(
		NewUnitOfWork,
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

func NewUnitOfWork(pool *pgxpool.Pool, cfg config.Config) shared.UnitOfWork {
	return uow.NewPostgresUoW(pool, cfg.Booking.TxTimeout)
}
