package response

import (
	"time"

	"lessonbook/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID              uuid.UUID `json:"id"`
	StudentID       uuid.UUID `json:"studentId"`
	StudentName     string    `json:"studentName"`
	InstructorID    uuid.UUID `json:"instructorId"`
	InstructorName  string    `json:"instructorName"`
	StartAt         time.Time `json:"startAt"`
	EndAt           time.Time `json:"endAt"`
	Status          string    `json:"status"`
	ServiceFeeCents int32     `json:"serviceFeeCents"`
	RefundCents     int32     `json:"refundCents"`
	CancelReason    *string   `json:"cancelReason,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type BookingListItemResponse struct {
	ID              uuid.UUID `json:"id"`
	InstructorID    uuid.UUID `json:"instructorId"`
	InstructorName  string    `json:"instructorName"`
	StartAt         time.Time `json:"startAt"`
	EndAt           time.Time `json:"endAt"`
	Status          string    `json:"status"`
	ServiceFeeCents int32     `json:"serviceFeeCents"`
	CreatedAt       time.Time `json:"createdAt"`
}

type ConflictResponse struct {
	HasConflict bool                   `json:"hasConflict"`
	Conflicts   []ConflictItemResponse `json:"conflicts"`
}

type ConflictItemResponse struct {
	BookingID    uuid.UUID `json:"bookingId"`
	InstructorID uuid.UUID `json:"instructorId"`
	StartAt      time.Time `json:"startAt"`
	EndAt        time.Time `json:"endAt"`
	Kind         string    `json:"kind"`
}

func FromBookingView(rm *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:              rm.ID,
		StudentID:       rm.StudentID,
		StudentName:     rm.StudentName,
		InstructorID:    rm.InstructorID,
		InstructorName:  rm.InstructorName,
		StartAt:         rm.StartAt,
		EndAt:           rm.EndAt,
		Status:          rm.Status,
		ServiceFeeCents: rm.ServiceFeeCents,
		RefundCents:     rm.RefundCents,
		CancelReason:    rm.CancelReason,
		CreatedAt:       rm.CreatedAt,
		UpdatedAt:       rm.UpdatedAt,
	}
}

func FromBookingListItem(rm *queries.BookingListItem) *BookingListItemResponse {
	return &BookingListItemResponse{
		ID:              rm.ID,
		InstructorID:    rm.InstructorID,
		InstructorName:  rm.InstructorName,
		StartAt:         rm.StartAt,
		EndAt:           rm.EndAt,
		Status:          rm.Status,
		ServiceFeeCents: rm.ServiceFeeCents,
		CreatedAt:       rm.CreatedAt,
	}
}

func FromConflictResult(rm *queries.ConflictCheckResult) *ConflictResponse {
	resp := &ConflictResponse{HasConflict: rm.HasConflict}
	for _, c := range rm.Conflicts {
		resp.Conflicts = append(resp.Conflicts, ConflictItemResponse{
			BookingID:    c.BookingID,
			InstructorID: c.InstructorID,
			StartAt:      c.StartAt,
			EndAt:        c.EndAt,
			Kind:         c.Kind,
		})
	}
	return resp
}
