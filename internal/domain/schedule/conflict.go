package schedule

import (
	"sort"

	"github.com/google/uuid"
)

type ConflictKind string

const (
	// ConflictSameInstructor marks an overlap with another booking the student
	// already holds with the proposed instructor — the severe case, usually an
	// accidental duplicate.
	ConflictSameInstructor ConflictKind = "same_instructor"
	// ConflictDifferentInstructor marks an overlap with a booking the student
	// holds with someone else.
	ConflictDifferentInstructor ConflictKind = "different_instructor"
)

// BookingRef is the slice of a booking the detector needs: identity, owner
// instructor, and occupied interval.
type BookingRef struct {
	BookingID    uuid.UUID
	InstructorID uuid.UUID
	Interval     Interval
}

type Conflict struct {
	BookingID    uuid.UUID
	InstructorID uuid.UUID
	Interval     Interval
	Kind         ConflictKind
}

type ConflictResult struct {
	Conflicts []Conflict
}

func (r ConflictResult) None() bool {
	return len(r.Conflicts) == 0
}

// CheckConflicts tests proposed against the student's active bookings.
// excludeID skips one booking (re-checking during an edit). All conflicts are
// reported, same-instructor ones first, then by start time.
func CheckConflicts(proposed Interval, proposedInstructorID uuid.UUID, active []BookingRef, excludeID *uuid.UUID) ConflictResult {
	var conflicts []Conflict
	for _, b := range active {
		if excludeID != nil && b.BookingID == *excludeID {
			continue
		}
		if !proposed.Overlaps(b.Interval) {
			continue
		}
		kind := ConflictDifferentInstructor
		if b.InstructorID == proposedInstructorID {
			kind = ConflictSameInstructor
		}
		conflicts = append(conflicts, Conflict{
			BookingID:    b.BookingID,
			InstructorID: b.InstructorID,
			Interval:     b.Interval,
			Kind:         kind,
		})
	}

	sort.SliceStable(conflicts, func(i, j int) bool {
		if conflicts[i].Kind != conflicts[j].Kind {
			return conflicts[i].Kind == ConflictSameInstructor
		}
		return conflicts[i].Interval.Start().Before(conflicts[j].Interval.Start())
	})

	return ConflictResult{Conflicts: conflicts}
}
