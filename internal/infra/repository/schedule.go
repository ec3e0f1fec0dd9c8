package repository

import (
	"context"

	"lessonbook/internal/domain/schedule"
	"lessonbook/internal/infra"
	"lessonbook/internal/infra/db"
	"lessonbook/internal/infra/pgconv"

	"github.com/google/uuid"
)

type ScheduleRepository struct{}

func NewScheduleRepository() *ScheduleRepository {
	return &ScheduleRepository{}
}

const (
	deleteRulesSQL = `DELETE FROM availability_rules WHERE instructor_id = $1`

	insertRuleSQL = `
INSERT INTO availability_rules (id, instructor_id, weekday, start_minute, end_minute, created_at)
VALUES ($1, $2, $3, $4, $5, now())`

	insertTimeOffSQL = `
INSERT INTO time_off_exceptions (id, instructor_id, off_date, start_at, end_at, created_at)
VALUES ($1, $2, $3, $4, $5, now())
RETURNING id`
)

// ReplaceRules swaps the instructor's weekly rule set atomically; callers run
// this inside a transaction.
func (r *ScheduleRepository) ReplaceRules(ctx context.Context, dbtx db.DBTX, instructorID uuid.UUID, rules []schedule.AvailabilityRule) error {
	if _, err := dbtx.Exec(ctx, deleteRulesSQL, instructorID); err != nil {
		return infra.WrapRepoErr("failed to clear availability rules", err)
	}
	for _, rule := range rules {
		_, err := dbtx.Exec(ctx, insertRuleSQL,
			uuid.New(),
			rule.InstructorID,
			int16(rule.Weekday),
			int16(rule.StartMinute),
			int16(rule.EndMinute),
		)
		if err != nil {
			return infra.WrapRepoErr("failed to insert availability rule", err)
		}
	}
	return nil
}

func (r *ScheduleRepository) AddTimeOff(ctx context.Context, dbtx db.DBTX, off schedule.TimeOff) (uuid.UUID, error) {
	var id uuid.UUID
	err := dbtx.QueryRow(ctx, insertTimeOffSQL,
		uuid.New(),
		off.InstructorID,
		pgconv.TimeToPgtype(off.Date),
		pgconv.TimePtrToPgtype(off.Start),
		pgconv.TimePtrToPgtype(off.End),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to insert time-off exception", err)
	}
	return id, nil
}
