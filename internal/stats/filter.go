package stats

import (
	"fmt"
	"time"

	"github.com/jgoulah/seventyfive/pkg/models"
)

// FilterKind selects a subset of days for display
type FilterKind string

const (
	FilterAll        FilterKind = "all"
	FilterIncomplete FilterKind = "incomplete"
	FilterComplete   FilterKind = "complete"
	FilterWeek       FilterKind = "week"
)

// ParseFilter validates a filter name
func ParseFilter(s string) (FilterKind, error) {
	switch k := FilterKind(s); k {
	case FilterAll, FilterIncomplete, FilterComplete, FilterWeek:
		return k, nil
	case "":
		return FilterAll, nil
	default:
		return "", fmt.Errorf("unknown filter: %s (available: all, incomplete, complete, week)", s)
	}
}

// Filter returns the days matching kind. The week filter keeps the
// Monday-to-Sunday week containing today.
func Filter(days []models.DayEntry, kind FilterKind, today time.Time) []models.DayEntry {
	if kind == FilterAll || kind == "" {
		return days
	}

	weekStart, weekEnd := models.WeekBounds(today)
	from, to := models.FormatDate(weekStart), models.FormatDate(weekEnd)

	result := []models.DayEntry{}
	for _, d := range days {
		switch kind {
		case FilterComplete:
			if models.IsPerfectDay(d) {
				result = append(result, d)
			}
		case FilterIncomplete:
			if !models.IsPerfectDay(d) {
				result = append(result, d)
			}
		case FilterWeek:
			if d.Date >= from && d.Date <= to {
				result = append(result, d)
			}
		}
	}
	return result
}
