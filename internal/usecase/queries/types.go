package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type BookingView struct {
	ID                     uuid.UUID `json:"id"`
	StudentID              uuid.UUID `json:"student_id"`
	StudentName            string    `json:"student_name"`
	InstructorID           uuid.UUID `json:"instructor_id"`
	InstructorName         string    `json:"instructor_name"`
	StartAt                time.Time `json:"start_at"`
	EndAt                  time.Time `json:"end_at"`
	Status                 string    `json:"status"`
	ServiceFeeCents        int32     `json:"service_fee_cents"`
	RefundCents            int32     `json:"refund_cents"`
	CancelReason           *string   `json:"cancel_reason,omitempty"`
	StudentReminderSent    bool      `json:"student_reminder_sent"`
	InstructorReminderSent bool      `json:"instructor_reminder_sent"`
	DailySummarySent       bool      `json:"daily_summary_sent"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

type BookingListItem struct {
	ID              uuid.UUID `json:"id"`
	InstructorID    uuid.UUID `json:"instructor_id"`
	InstructorName  string    `json:"instructor_name"`
	StartAt         time.Time `json:"start_at"`
	EndAt           time.Time `json:"end_at"`
	Status          string    `json:"status"`
	ServiceFeeCents int32     `json:"service_fee_cents"`
	CreatedAt       time.Time `json:"created_at"`
}

type SlotView struct {
	InstructorID uuid.UUID `json:"instructor_id"`
	StartAt      time.Time `json:"start_at"`
	EndAt        time.Time `json:"end_at"`
}

type ConflictItem struct {
	BookingID    uuid.UUID `json:"booking_id"`
	InstructorID uuid.UUID `json:"instructor_id"`
	StartAt      time.Time `json:"start_at"`
	EndAt        time.Time `json:"end_at"`
	Kind         string    `json:"kind"`
}

type ConflictCheckResult struct {
	HasConflict bool           `json:"has_conflict"`
	Conflicts   []ConflictItem `json:"conflicts"`
}
