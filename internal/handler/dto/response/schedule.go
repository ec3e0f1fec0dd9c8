package response

import (
	"time"

	"lessonbook/internal/usecase/queries"

	"github.com/google/uuid"
)

type SlotResponse struct {
	InstructorID uuid.UUID `json:"instructorId"`
	StartAt      time.Time `json:"startAt"`
	EndAt        time.Time `json:"endAt"`
}

type TimeOffResponse struct {
	ID uuid.UUID `json:"id"`
}

func FromSlotViews(views []queries.SlotView) []SlotResponse {
	out := make([]SlotResponse, len(views))
	for i, v := range views {
		out[i] = SlotResponse{
			InstructorID: v.InstructorID,
			StartAt:      v.StartAt,
			EndAt:        v.EndAt,
		}
	}
	return out
}
