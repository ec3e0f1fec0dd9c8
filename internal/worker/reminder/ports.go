package reminder

import (
	"context"
	"time"

	"lessonbook/internal/domain/booking"

	"github.com/google/uuid"
)

// Notifier delivers one message to one recipient. The scheduler formats plain
// text and does not know which channel (email, SMS, chat) carries it.
type Notifier interface {
	Send(ctx context.Context, to Recipient, subject, body string) error
}

type Recipient struct {
	Name  string
	Email string
}

// Upcoming is one booking enriched with the participant details the
// reminder messages need.
type Upcoming struct {
	BookingID       uuid.UUID
	InstructorID    uuid.UUID
	StartAt         time.Time
	EndAt           time.Time
	StudentName     string
	StudentEmail    string
	InstructorName  string
	InstructorEmail string
}

// Agenda is one instructor's unsummarized active bookings for a day, ordered
// by start time.
type Agenda struct {
	InstructorID    uuid.UUID
	InstructorName  string
	InstructorEmail string
	Bookings        []Upcoming
}

// Store is the scheduler's slice of the booking store. Every instant it
// returns is normalized to the canonical location, and flag updates are
// monotonic: marking an already-sent flag reports false instead of writing.
type Store interface {
	// DueReminders returns active bookings with the given flag still false and
	// a start inside [from, to).
	DueReminders(ctx context.Context, flag booking.ReminderFlag, from, to time.Time) ([]Upcoming, error)
	// DailyAgendas returns, per instructor, the active bookings inside
	// [dayStart, dayEnd) whose daily summary flag is still false.
	DailyAgendas(ctx context.Context, dayStart, dayEnd time.Time) ([]Agenda, error)
	// MarkReminderSent flips the flag false -> true; returns false when the
	// flag was already set (no write happened).
	MarkReminderSent(ctx context.Context, bookingID uuid.UUID, flag booking.ReminderFlag) (bool, error)
	// DeleteExpiredTokens removes unused time-limited tokens whose expiry has
	// passed. Independent of booking flags.
	DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}
