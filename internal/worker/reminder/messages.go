package reminder

import (
	"fmt"
	"strings"
)

const (
	studentReminderSubject    = "Your lesson starts in one hour"
	instructorReminderSubject = "Your lesson starts in 15 minutes"
	dailySummarySubject       = "Today's lessons"

	timeOfDayFormat = "15:04"
	dateFormat      = "Mon, 02 Jan 2006"
)

func formatStudentReminder(up Upcoming) string {
	return fmt.Sprintf(
		"Hi %s,\n\nYour lesson with %s starts at %s (%s - %s).\n\nSee you there!",
		up.StudentName,
		up.InstructorName,
		up.StartAt.Format(timeOfDayFormat),
		up.StartAt.Format(timeOfDayFormat),
		up.EndAt.Format(timeOfDayFormat),
	)
}

func formatInstructorReminder(up Upcoming) string {
	return fmt.Sprintf(
		"Hi %s,\n\nYour lesson with %s starts in 15 minutes (%s - %s).",
		up.InstructorName,
		up.StudentName,
		up.StartAt.Format(timeOfDayFormat),
		up.EndAt.Format(timeOfDayFormat),
	)
}

// formatDailySummary lists every booking of the day in start-time order as
// one consolidated message.
func formatDailySummary(agenda Agenda) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nYour lessons for %s:\n\n",
		agenda.InstructorName,
		agenda.Bookings[0].StartAt.Format(dateFormat))
	for _, up := range agenda.Bookings {
		fmt.Fprintf(&b, "  %s - %s  %s\n",
			up.StartAt.Format(timeOfDayFormat),
			up.EndAt.Format(timeOfDayFormat),
			up.StudentName)
	}
	fmt.Fprintf(&b, "\n%d lesson(s) in total.", len(agenda.Bookings))
	return b.String()
}
