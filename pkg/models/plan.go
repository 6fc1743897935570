package models

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the ISO 8601 calendar date format used for every date in a plan
const DateLayout = "2006-01-02"

// DefaultLengthDays is the length of a standard challenge
const DefaultLengthDays = 75

// WaterGoalOz is the daily water threshold, in fluid ounces
const WaterGoalOz = 100

// TaskCount is the number of tracked signals per day
const TaskCount = 5

// ErrInvalidConfig is returned for an unparsable start date or a non-positive length
var ErrInvalidConfig = errors.New("invalid plan configuration")

// DayEntry represents one calendar day's task state
type DayEntry struct {
	Date       string `json:"date"` // YYYY-MM-DD, identity within a plan
	Exercise   bool   `json:"exercise"`
	GlutenFree bool   `json:"glutenFree"`
	NoAlcohol  bool   `json:"noAlcohol"`
	Reading    bool   `json:"reading"`
	WaterOz    int    `json:"waterOz"`
}

// PlanConfig describes a plan instance
type PlanConfig struct {
	StartISO   string `json:"startISO"`
	LengthDays int    `json:"lengthDays"`
}

// Plan is a configuration plus its ordered, gap-free day sequence
type Plan struct {
	Config PlanConfig `json:"config"`
	Days   []DayEntry `json:"days"`
}

// MakeDayEntry returns a zeroed entry for the given date
func MakeDayEntry(date time.Time) DayEntry {
	return DayEntry{Date: FormatDate(date)}
}

// CompletedTaskCount counts satisfied signals. Water only counts at or above the goal.
func CompletedTaskCount(day DayEntry) int {
	c := 0
	if day.Exercise {
		c++
	}
	if day.GlutenFree {
		c++
	}
	if day.NoAlcohol {
		c++
	}
	if day.Reading {
		c++
	}
	if day.WaterOz >= WaterGoalOz {
		c++
	}
	return c
}

// IsPerfectDay reports whether all five signals are satisfied
func IsPerfectDay(day DayEntry) bool {
	return CompletedTaskCount(day) == TaskCount
}

// SetAll marks every task complete (water at the goal) or clears them
func (d DayEntry) SetAll(complete bool) DayEntry {
	d.Exercise = complete
	d.GlutenFree = complete
	d.NoAlcohol = complete
	d.Reading = complete
	if complete {
		d.WaterOz = WaterGoalOz
	} else {
		d.WaterOz = 0
	}
	return d
}

// NewPlanConfig parses and validates a start date and length
func NewPlanConfig(startISO string, lengthDays int) (PlanConfig, error) {
	cfg := PlanConfig{StartISO: startISO, LengthDays: lengthDays}
	if err := cfg.Validate(); err != nil {
		return PlanConfig{}, err
	}
	return cfg, nil
}

// Validate checks that the start date parses and the length is positive
func (c PlanConfig) Validate() error {
	if _, err := ParseDate(c.StartISO); err != nil {
		return fmt.Errorf("%w: start date %q: %v", ErrInvalidConfig, c.StartISO, err)
	}
	if c.LengthDays <= 0 {
		return fmt.Errorf("%w: length must be positive, got %d", ErrInvalidConfig, c.LengthDays)
	}
	return nil
}

// Start returns the first day of the plan
func (c PlanConfig) Start() time.Time {
	t, _ := ParseDate(c.StartISO)
	return t
}

// EndISO returns startISO + (lengthDays - 1) days
func (c PlanConfig) EndISO() string {
	return FormatDate(AddDays(c.Start(), c.LengthDays-1))
}

// DefaultPlanConfig starts a standard-length plan on the next Monday after now
func DefaultPlanConfig(now time.Time) PlanConfig {
	return PlanConfig{
		StartISO:   FormatDate(NextMonday(now)),
		LengthDays: DefaultLengthDays,
	}
}

// NewPlan synthesizes a zeroed plan for the configuration
func NewPlan(cfg PlanConfig) *Plan {
	return &Plan{Config: cfg, Days: ZeroDays(cfg)}
}

// ZeroDays builds lengthDays zeroed entries starting at startISO
func ZeroDays(cfg PlanConfig) []DayEntry {
	if cfg.LengthDays <= 0 {
		return []DayEntry{}
	}
	start := cfg.Start()
	days := make([]DayEntry, cfg.LengthDays)
	for i := range days {
		days[i] = MakeDayEntry(AddDays(start, i))
	}
	return days
}

// IndexOf returns the index of the entry for dateISO, or -1
func (p *Plan) IndexOf(dateISO string) int {
	for i, d := range p.Days {
		if d.Date == dateISO {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the plan
func (p *Plan) Clone() *Plan {
	days := make([]DayEntry, len(p.Days))
	copy(days, p.Days)
	return &Plan{Config: p.Config, Days: days}
}

// CheckContiguous verifies that days cover exactly the configured window
func (p *Plan) CheckContiguous() error {
	if len(p.Days) != p.Config.LengthDays {
		return fmt.Errorf("expected %d days, got %d", p.Config.LengthDays, len(p.Days))
	}
	start := p.Config.Start()
	for i, d := range p.Days {
		want := FormatDate(AddDays(start, i))
		if d.Date != want {
			return fmt.Errorf("day %d: expected date %s, got %q", i, want, d.Date)
		}
	}
	return nil
}
