package components

import (
	"lessonbook/internal/worker/reminder"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		reminder.NewScheduler,
	),
)
