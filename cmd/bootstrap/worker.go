package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"lessonbook/internal/pkg/clock"
	"lessonbook/internal/pkg/config"
	"lessonbook/internal/worker/reminder"

	"go.uber.org/fx"
)

var ReminderLoopModule = fx.Module("reminder-loop",
	fx.Invoke(StartReminderLoop),
)

// StartReminderLoop drives the reminder scheduler on a fixed cadence. The
// scheduler itself owns no timer, so the loop is the only place cadence lives.
func StartReminderLoop(lc fx.Lifecycle, scheduler *reminder.Scheduler, clk clock.Clock, cfg config.Config, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			interval := cfg.Reminder.Interval
			logger.Info("reminder loop started", "interval", interval.String())
			go func() {
				defer close(done)
				ticker := time.NewTicker(interval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						stats := scheduler.Tick(ctx, clk.Now())
						if stats.StudentReminders > 0 || stats.InstructorReminders > 0 ||
							stats.Summaries > 0 || stats.SendFailures > 0 {
							logger.Info("reminder tick completed",
								"student_reminders", stats.StudentReminders,
								"instructor_reminders", stats.InstructorReminders,
								"summaries", stats.Summaries,
								"tokens_deleted", stats.TokensDeleted,
								"send_failures", stats.SendFailures)
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
			logger.Info("reminder loop stopped")
			return nil
		},
	})
}
