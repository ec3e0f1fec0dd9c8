package request

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	InstructorID uuid.UUID `json:"instructor_id" binding:"required"`
	StartAt      time.Time `json:"start_at" binding:"required"`
	EndAt        time.Time `json:"end_at" binding:"required"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

func (r CancelBookingRequest) TrimmedReason() string {
	return strings.TrimSpace(r.Reason)
}

type ConflictCheckRequest struct {
	InstructorID     uuid.UUID  `json:"instructor_id" binding:"required"`
	StartAt          time.Time  `json:"start_at" binding:"required"`
	EndAt            time.Time  `json:"end_at" binding:"required"`
	ExcludeBookingID *uuid.UUID `json:"exclude_booking_id,omitempty"`
}
