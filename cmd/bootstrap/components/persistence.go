package components

import (
	"lessonbook/internal/infra/notifier"
	"lessonbook/internal/infra/readstore"
	"lessonbook/internal/infra/reminderstore"
	"lessonbook/internal/infra/repository"
	"lessonbook/internal/infra/uow"
	"lessonbook/internal/usecase/queries"
	"lessonbook/internal/worker/reminder"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	readstoreModule,
	repositoryModule,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
		),
		fx.Annotate(
			readstore.NewScheduleReadStore,
			fx.As(new(queries.ScheduleReadStore)),
		),
		fx.Annotate(
			reminderstore.NewStore,
			fx.As(new(reminder.Store)),
		),
		fx.Annotate(
			notifier.NewLogNotifier,
			fx.As(new(reminder.Notifier)),
		),
	),
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		readstore.NewCommandReads,
		repository.NewTokenRepository,
		// NewPostgresUoW already returns the shared.UnitOfWork interface.
		uow.NewPostgresUoW,
	),
)
