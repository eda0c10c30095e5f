// utils/dates.go
package utils

import (
	"fmt"
	"time"
)

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func DaysBetween(start, end time.Time) int {
	start = BeginningOfDay(start)
	end = BeginningOfDay(end)
	return int(end.Sub(start).Hours() / 24)
}

// DueLabel describes a due date relative to now: "Today", "Tomorrow",
// "3 days", "Yesterday" or "4 days overdue".
func DueLabel(due, now time.Time) string {
	days := DaysBetween(now, due)
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days < 0:
		return fmt.Sprintf("%d days overdue", -days)
	}
	return fmt.Sprintf("%d days", days)
}
