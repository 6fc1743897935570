package stats

import (
	"math"
	"time"

	"github.com/jgoulah/seventyfive/pkg/models"
)

// Streaks holds the current and longest runs of perfect days
type Streaks struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// ComputeStreaks scans days in index order.
//
// Longest is the longest run of consecutive perfect days anywhere in the
// sequence. Current counts backward from the last entry dated on or before
// today, stopping at the first non-perfect day. Entries after today still
// take part in the longest scan.
//
// today is compared by its wall-clock date in its own location, so a caller
// passing time.Now() gets local-date semantics. Near midnight this can differ
// from the UTC date by one day; that is expected.
func ComputeStreaks(days []models.DayEntry, today time.Time) Streaks {
	var s Streaks

	run := 0
	for _, d := range days {
		if models.IsPerfectDay(d) {
			run++
			if run > s.Longest {
				s.Longest = run
			}
		} else {
			run = 0
		}
	}

	todayISO := models.FormatDate(today)
	anchor := -1
	for i := len(days) - 1; i >= 0; i-- {
		if days[i].Date <= todayISO {
			anchor = i
			break
		}
	}
	for j := anchor; j >= 0; j-- {
		if !models.IsPerfectDay(days[j]) {
			break
		}
		s.Current++
	}

	return s
}

// Summary is the aggregate progress over a plan
type Summary struct {
	TotalTasks  int     `json:"total_tasks"`
	DoneTasks   int     `json:"done_tasks"`
	Percent     int     `json:"percent"`
	PerfectDays int     `json:"perfect_days"`
	Streaks     Streaks `json:"streaks"`
}

// Summarize computes overall task completion, perfect days and streaks
func Summarize(days []models.DayEntry, today time.Time) Summary {
	s := Summary{TotalTasks: len(days) * models.TaskCount}
	for _, d := range days {
		s.DoneTasks += models.CompletedTaskCount(d)
		if models.IsPerfectDay(d) {
			s.PerfectDays++
		}
	}
	if s.TotalTasks > 0 {
		s.Percent = int(math.Round(float64(s.DoneTasks) / float64(s.TotalTasks) * 100))
	}
	s.Streaks = ComputeStreaks(days, today)
	return s
}
