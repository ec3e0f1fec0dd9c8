package components

import (
	"time"

	"lessonbook/internal/pkg/clock"
	"lessonbook/internal/pkg/config"
	"lessonbook/internal/usecase/commands"
	"lessonbook/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingCommands,
		commands.NewScheduleCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
		NewAvailabilityQueries,
	),
)

func NewAvailabilityQueries(store queries.ScheduleReadStore, loc *time.Location, cfg config.BookingConfig) queries.AvailabilityQueries {
	return queries.NewAvailabilityQueries(store, loc, cfg.SlotLength())
}
