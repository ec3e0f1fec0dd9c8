package readstore

import (
	"context"
	"time"

	"lessonbook/internal/domain/schedule"
	"lessonbook/internal/infra"
	"lessonbook/internal/infra/db"
	"lessonbook/internal/infra/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ScheduleReadStore serves the availability query path from the pool.
// All returned instants are normalized to loc at the scan boundary.
type ScheduleReadStore struct {
	pool *pgxpool.Pool
	loc  *time.Location
}

func NewScheduleReadStore(pool *pgxpool.Pool, loc *time.Location) *ScheduleReadStore {
	return &ScheduleReadStore{pool: pool, loc: loc}
}

func (s *ScheduleReadStore) RulesByInstructor(ctx context.Context, instructorID uuid.UUID) ([]schedule.AvailabilityRule, error) {
	return queryRules(ctx, s.pool, instructorID)
}

func (s *ScheduleReadStore) TimeOffByInstructor(ctx context.Context, instructorID uuid.UUID, from, to time.Time) ([]schedule.TimeOff, error) {
	return queryTimeOff(ctx, s.pool, instructorID, from, to, s.loc)
}

func (s *ScheduleReadStore) ActiveBookingIntervals(ctx context.Context, instructorID uuid.UUID, from, to time.Time) ([]schedule.Interval, error) {
	return queryActiveIntervals(ctx, s.pool, instructorID, from, to, s.loc)
}

const rulesByInstructorSQL = `
SELECT instructor_id, weekday, start_minute, end_minute
FROM availability_rules
WHERE instructor_id = $1
ORDER BY weekday`

func queryRules(ctx context.Context, dbtx db.DBTX, instructorID uuid.UUID) ([]schedule.AvailabilityRule, error) {
	rows, err := dbtx.Query(ctx, rulesByInstructorSQL, instructorID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load availability rules", err)
	}
	defer rows.Close()

	var rules []schedule.AvailabilityRule
	for rows.Next() {
		var (
			id               uuid.UUID
			weekday          int16
			startMin, endMin int16
		)
		if err := rows.Scan(&id, &weekday, &startMin, &endMin); err != nil {
			return nil, infra.WrapRepoErr("failed to scan availability rule", err)
		}
		rules = append(rules, schedule.AvailabilityRule{
			InstructorID: id,
			Weekday:      time.Weekday(weekday),
			StartMinute:  int(startMin),
			EndMinute:    int(endMin),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read availability rules", err)
	}
	return rules, nil
}

const timeOffByInstructorSQL = `
SELECT instructor_id, off_date, start_at, end_at
FROM time_off_exceptions
WHERE instructor_id = $1 AND off_date >= $2::date AND off_date < $3::date
ORDER BY off_date`

func queryTimeOff(ctx context.Context, dbtx db.DBTX, instructorID uuid.UUID, from, to time.Time, loc *time.Location) ([]schedule.TimeOff, error) {
	rows, err := dbtx.Query(ctx, timeOffByInstructorSQL, instructorID, pgconv.TimeToPgtype(from), pgconv.TimeToPgtype(to))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load time-off exceptions", err)
	}
	defer rows.Close()

	var offs []schedule.TimeOff
	for rows.Next() {
		var (
			id      uuid.UUID
			offDate pgtype.Date
			startAt pgtype.Timestamptz
			endAt   pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &offDate, &startAt, &endAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan time-off exception", err)
		}
		offs = append(offs, schedule.TimeOff{
			InstructorID: id,
			Date:         time.Date(offDate.Time.Year(), offDate.Time.Month(), offDate.Time.Day(), 0, 0, 0, 0, loc),
			Start:        pgconv.TimePtrFromPgtype(startAt, loc),
			End:          pgconv.TimePtrFromPgtype(endAt, loc),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read time-off exceptions", err)
	}
	return offs, nil
}

const activeIntervalsSQL = `
SELECT start_at, end_at
FROM bookings
WHERE instructor_id = $1
  AND status IN ('pending', 'confirmed')
  AND start_at < $3 AND end_at > $2
ORDER BY start_at`

func queryActiveIntervals(ctx context.Context, dbtx db.DBTX, instructorID uuid.UUID, from, to time.Time, loc *time.Location) ([]schedule.Interval, error) {
	rows, err := dbtx.Query(ctx, activeIntervalsSQL, instructorID, pgconv.TimeToPgtype(from), pgconv.TimeToPgtype(to))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load active booking intervals", err)
	}
	defer rows.Close()

	var intervals []schedule.Interval
	for rows.Next() {
		var startAt, endAt pgtype.Timestamptz
		if err := rows.Scan(&startAt, &endAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking interval", err)
		}
		iv, err := schedule.NewInterval(pgconv.TimeFromPgtype(startAt, loc), pgconv.TimeFromPgtype(endAt, loc))
		if err != nil {
			// start >= end in a stored row is data corruption, not an empty set.
			return nil, infra.WrapRepoErr("stored booking interval is malformed", err)
		}
		intervals = append(intervals, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read booking intervals", err)
	}
	return intervals, nil
}
