package reminder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"lessonbook/internal/domain/booking"
)

// Trigger windows. The student window is one hour before start give or take
// five minutes; the instructor window is fifteen minutes before start give or
// take two and a half. Both are half-open on start-now, so a booking crosses
// each window exactly once at the default five-minute cadence.
const (
	studentWindowFrom    = 55 * time.Minute
	studentWindowTo      = 65 * time.Minute
	instructorWindowFrom = 12*time.Minute + 30*time.Second
	instructorWindowTo   = 17*time.Minute + 30*time.Second

	summaryWindowStart = 6 * time.Hour
	summaryWindowEnd   = 6*time.Hour + 10*time.Minute
	summaryMinGap      = 60 * time.Minute
)

type TickStats struct {
	StudentReminders    int
	InstructorReminders int
	Summaries           int
	TokensDeleted       int64
	SendFailures        int
}

// Scheduler evaluates the four time-windowed notification triggers. It owns
// no timer: an external loop calls Tick on a fixed cadence, which keeps the
// whole thing unit-testable with a controlled now.
type Scheduler struct {
	store    Store
	notifier Notifier
	loc      *time.Location
	logger   *slog.Logger

	// Ticks must never overlap; a second caller blocks until the running
	// evaluation finishes.
	mu sync.Mutex
}

func NewScheduler(store Store, notifier Notifier, loc *time.Location, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		store:    store,
		notifier: notifier,
		loc:      loc,
		logger:   logger,
	}
}

// Tick runs one evaluation pass. Safe to invoke repeatedly: flags persist on
// the bookings themselves, so a tick that finds a flag already set neither
// sends nor writes. One booking's send failure never stops the rest; the flag
// stays false and the next tick retries.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) TickStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	now = now.In(s.loc)
	var stats TickStats

	stats.StudentReminders = s.sendWindowedReminders(ctx, now, booking.FlagStudentReminder, studentWindowFrom, studentWindowTo, &stats)
	stats.InstructorReminders = s.sendWindowedReminders(ctx, now, booking.FlagInstructorReminder, instructorWindowFrom, instructorWindowTo, &stats)
	stats.Summaries = s.sendDailySummaries(ctx, now, &stats)
	stats.TokensDeleted = s.sweepExpiredTokens(ctx, now)

	return stats
}

func (s *Scheduler) sendWindowedReminders(ctx context.Context, now time.Time, flag booking.ReminderFlag, from, to time.Duration, stats *TickStats) int {
	due, err := s.store.DueReminders(ctx, flag, now.Add(from), now.Add(to))
	if err != nil {
		s.logger.Error("failed to load due reminders", "flag", string(flag), "error", err.Error())
		return 0
	}

	sent := 0
	for _, up := range due {
		if err := s.sendReminder(ctx, up, flag); err != nil {
			// Flag stays false; the next tick retries this booking.
			stats.SendFailures++
			s.logger.Warn("reminder send failed",
				"flag", string(flag),
				"booking_id", up.BookingID.String(),
				"error", err.Error())
			continue
		}

		marked, err := s.store.MarkReminderSent(ctx, up.BookingID, flag)
		if err != nil {
			s.logger.Error("failed to persist reminder flag",
				"flag", string(flag),
				"booking_id", up.BookingID.String(),
				"error", err.Error())
			continue
		}
		if marked {
			sent++
		}
	}
	return sent
}

func (s *Scheduler) sendReminder(ctx context.Context, up Upcoming, flag booking.ReminderFlag) error {
	switch flag {
	case booking.FlagStudentReminder:
		to := Recipient{Name: up.StudentName, Email: up.StudentEmail}
		return s.notifier.Send(ctx, to, studentReminderSubject, formatStudentReminder(up))
	case booking.FlagInstructorReminder:
		to := Recipient{Name: up.InstructorName, Email: up.InstructorEmail}
		return s.notifier.Send(ctx, to, instructorReminderSubject, formatInstructorReminder(up))
	default:
		return booking.ErrInvalidReminder
	}
}

// sendDailySummaries runs only while the local time-of-day sits inside the
// summary window. An instructor whose earliest remaining booking starts less
// than an hour out is skipped entirely: the per-booking reminder already
// covers it, and sending both would double-notify.
func (s *Scheduler) sendDailySummaries(ctx context.Context, now time.Time, stats *TickStats) int {
	if !inSummaryWindow(now) {
		return 0
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	agendas, err := s.store.DailyAgendas(ctx, dayStart, dayEnd)
	if err != nil {
		s.logger.Error("failed to load daily agendas", "error", err.Error())
		return 0
	}

	sent := 0
	for _, agenda := range agendas {
		if len(agenda.Bookings) == 0 {
			continue
		}
		if agenda.Bookings[0].StartAt.Sub(now) < summaryMinGap {
			continue
		}

		to := Recipient{Name: agenda.InstructorName, Email: agenda.InstructorEmail}
		if err := s.notifier.Send(ctx, to, dailySummarySubject, formatDailySummary(agenda)); err != nil {
			stats.SendFailures++
			s.logger.Warn("daily summary send failed",
				"instructor_id", agenda.InstructorID.String(),
				"error", err.Error())
			continue
		}

		for _, up := range agenda.Bookings {
			if _, err := s.store.MarkReminderSent(ctx, up.BookingID, booking.FlagDailySummary); err != nil {
				s.logger.Error("failed to persist daily summary flag",
					"booking_id", up.BookingID.String(),
					"error", err.Error())
			}
		}
		sent++
	}
	return sent
}

func (s *Scheduler) sweepExpiredTokens(ctx context.Context, now time.Time) int64 {
	deleted, err := s.store.DeleteExpiredTokens(ctx, now)
	if err != nil {
		s.logger.Error("expired token sweep failed", "error", err.Error())
		return 0
	}
	if deleted > 0 {
		s.logger.Info("expired tokens removed", "count", deleted)
	}
	return deleted
}

func inSummaryWindow(now time.Time) bool {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	sinceMidnight := now.Sub(midnight)
	return sinceMidnight >= summaryWindowStart && sinceMidnight < summaryWindowEnd
}
