package request

import (
	"time"
)

type WeeklyRuleRequest struct {
	// Weekday: 0 = Sunday .. 6 = Saturday.
	Weekday     int `json:"weekday" binding:"min=0,max=6"`
	StartMinute int `json:"start_minute" binding:"min=0,max=1439"`
	EndMinute   int `json:"end_minute" binding:"min=1,max=1440"`
}

type ReplaceAvailabilityRequest struct {
	Rules []WeeklyRuleRequest `json:"rules" binding:"required,dive"`
}

type AddTimeOffRequest struct {
	// Date is the local calendar day, "2006-01-02".
	Date    string     `json:"date" binding:"required"`
	StartAt *time.Time `json:"start_at,omitempty"`
	EndAt   *time.Time `json:"end_at,omitempty"`
}

func (r AddTimeOffRequest) ParseDate(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", r.Date, loc)
}
