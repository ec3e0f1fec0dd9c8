package reminderstore

import (
	"context"
	"fmt"
	"time"

	"lessonbook/internal/domain/booking"
	"lessonbook/internal/infra"
	"lessonbook/internal/infra/pgconv"
	"lessonbook/internal/infra/repository"
	"lessonbook/internal/worker/reminder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store backs the reminder scheduler with the bookings table. Flag columns are
// fixed identifiers resolved through flagColumn, never interpolated from input.
type Store struct {
	pool   *pgxpool.Pool
	tokens *repository.TokenRepository
	loc    *time.Location
}

func NewStore(pool *pgxpool.Pool, tokens *repository.TokenRepository, loc *time.Location) *Store {
	return &Store{pool: pool, tokens: tokens, loc: loc}
}

func withFlagColumn(query string, cols ...any) string {
	return fmt.Sprintf(query, cols...)
}

func flagColumn(flag booking.ReminderFlag) (string, error) {
	switch flag {
	case booking.FlagStudentReminder:
		return "student_reminder_sent", nil
	case booking.FlagInstructorReminder:
		return "instructor_reminder_sent", nil
	case booking.FlagDailySummary:
		return "daily_summary_sent", nil
	default:
		return "", booking.ErrInvalidReminder
	}
}

const dueRemindersSQL = `
SELECT b.id, b.instructor_id, b.start_at, b.end_at,
       s.name, s.email, i.name, i.email
FROM bookings b
JOIN users s ON s.id = b.student_id
JOIN users i ON i.id = b.instructor_id
WHERE b.status IN ('pending', 'confirmed')
  AND b.start_at >= $1 AND b.start_at < $2
  AND b.%s = FALSE
ORDER BY b.start_at`

func (s *Store) DueReminders(ctx context.Context, flag booking.ReminderFlag, from, to time.Time) ([]reminder.Upcoming, error) {
	col, err := flagColumn(flag)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, withFlagColumn(dueRemindersSQL, col), pgconv.TimeToPgtype(from), pgconv.TimeToPgtype(to))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load due reminders", err)
	}
	defer rows.Close()

	var due []reminder.Upcoming
	for rows.Next() {
		up, err := s.scanUpcoming(rows.Scan)
		if err != nil {
			return nil, err
		}
		due = append(due, up)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read due reminders", err)
	}
	return due, nil
}

const dailyAgendaSQL = `
SELECT b.id, b.instructor_id, b.start_at, b.end_at,
       s.name, s.email, i.name, i.email
FROM bookings b
JOIN users s ON s.id = b.student_id
JOIN users i ON i.id = b.instructor_id
WHERE b.status IN ('pending', 'confirmed')
  AND b.start_at >= $1 AND b.start_at < $2
  AND b.daily_summary_sent = FALSE
ORDER BY b.instructor_id, b.start_at`

// DailyAgendas groups the day's unsummarized bookings per instructor. The SQL
// orders by (instructor_id, start_at), so grouping is a single pass.
func (s *Store) DailyAgendas(ctx context.Context, dayStart, dayEnd time.Time) ([]reminder.Agenda, error) {
	rows, err := s.pool.Query(ctx, dailyAgendaSQL, pgconv.TimeToPgtype(dayStart), pgconv.TimeToPgtype(dayEnd))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load daily agendas", err)
	}
	defer rows.Close()

	var agendas []reminder.Agenda
	for rows.Next() {
		up, err := s.scanUpcoming(rows.Scan)
		if err != nil {
			return nil, err
		}
		n := len(agendas)
		if n == 0 || agendas[n-1].InstructorID != up.InstructorID {
			agendas = append(agendas, reminder.Agenda{
				InstructorID:    up.InstructorID,
				InstructorName:  up.InstructorName,
				InstructorEmail: up.InstructorEmail,
			})
			n++
		}
		agendas[n-1].Bookings = append(agendas[n-1].Bookings, up)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read daily agendas", err)
	}
	return agendas, nil
}

const markReminderSentSQL = `
UPDATE bookings
SET %s = TRUE, updated_at = now()
WHERE id = $1 AND %s = FALSE`

// MarkReminderSent is monotonic: the WHERE clause refuses rows whose flag is
// already true, and the affected-row count tells the caller which case hit.
func (s *Store) MarkReminderSent(ctx context.Context, bookingID uuid.UUID, flag booking.ReminderFlag) (bool, error) {
	col, err := flagColumn(flag)
	if err != nil {
		return false, err
	}
	tag, err := s.pool.Exec(ctx, withFlagColumn(markReminderSentSQL, col, col), bookingID)
	if err != nil {
		return false, infra.WrapRepoErr("failed to persist reminder flag", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	return s.tokens.DeleteExpired(ctx, s.pool, now)
}

func (s *Store) scanUpcoming(scan func(dest ...any) error) (reminder.Upcoming, error) {
	var (
		up             reminder.Upcoming
		startAt, endAt pgtype.Timestamptz
	)
	err := scan(&up.BookingID, &up.InstructorID, &startAt, &endAt,
		&up.StudentName, &up.StudentEmail, &up.InstructorName, &up.InstructorEmail)
	if err != nil {
		return reminder.Upcoming{}, infra.WrapRepoErr("failed to scan reminder booking", err)
	}
	up.StartAt = pgconv.TimeFromPgtype(startAt, s.loc)
	up.EndAt = pgconv.TimeFromPgtype(endAt, s.loc)
	return up, nil
}
