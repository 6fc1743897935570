package plan

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jgoulah/seventyfive/internal/stats"
	"github.com/jgoulah/seventyfive/internal/storage"
	"github.com/jgoulah/seventyfive/pkg/models"
)

// ErrDayNotFound is returned when a date is outside the current plan window
var ErrDayNotFound = errors.New("date is outside the current plan window")

// Origin says how the active plan came to be
type Origin int

const (
	// Reloaded means a plan persisted under the configuration was adopted
	Reloaded Origin = iota
	// Synthesized means no usable plan was stored and a zeroed one was built
	Synthesized
)

func (o Origin) String() string {
	if o == Reloaded {
		return "reloaded"
	}
	return "synthesized"
}

// PerfectDayFunc is called with each entry that a mutation turned perfect
type PerfectDayFunc func(day models.DayEntry)

// Controller owns the active plan and persists it after every mutation
type Controller struct {
	mu        sync.Mutex
	adapter   *storage.Adapter
	plan      *models.Plan
	onPerfect PerfectDayFunc
}

// New opens the plan for cfg, reloading it if one is stored
func New(adapter *storage.Adapter, cfg models.PlanConfig) (*Controller, Origin, error) {
	if err := cfg.Validate(); err != nil {
		return nil, 0, err
	}
	c := &Controller{adapter: adapter}
	loaded, origin, err := c.adopt(cfg)
	if err != nil {
		return nil, 0, err
	}
	c.plan = loaded
	return c, origin, nil
}

// OnPerfectDay registers a callback for days that become perfect
func (c *Controller) OnPerfectDay(fn PerfectDayFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onPerfect = fn
}

// Plan returns a copy of the active plan
func (c *Controller) Plan() *models.Plan {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.plan.Clone()
}

// Config returns the active configuration
func (c *Controller) Config() models.PlanConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.plan.Config
}

// StorageKey returns the key the active plan is persisted under
func (c *Controller) StorageKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.key()
}

func (c *Controller) key() string {
	return c.adapter.StorageKey(c.plan.Config.StartISO, c.plan.Config.LengthDays)
}

// adopt applies the reload-or-synthesize policy for cfg. Only a missing or
// malformed value yields a fresh plan; other store failures are returned.
func (c *Controller) adopt(cfg models.PlanConfig) (*models.Plan, Origin, error) {
	key := c.adapter.StorageKey(cfg.StartISO, cfg.LengthDays)
	loaded, err := c.adapter.Load(key)
	switch {
	case err == nil:
		return loaded, Reloaded, nil
	case errors.Is(err, storage.ErrNotFound):
		return models.NewPlan(cfg), Synthesized, nil
	default:
		return nil, 0, fmt.Errorf("loading plan %s: %w", key, err)
	}
}

// SetConfig switches to another configuration. An invalid configuration is
// rejected and the current one stays active. Setting the current
// configuration again is a no-op. If the store cannot be read the current
// plan also stays active and nothing is written.
func (c *Controller) SetConfig(next models.PlanConfig) (Origin, error) {
	if err := next.Validate(); err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if next == c.plan.Config {
		return Reloaded, nil
	}
	loaded, origin, err := c.adopt(next)
	if err != nil {
		return 0, err
	}
	c.plan = loaded
	if origin == Synthesized {
		if err := c.save(); err != nil {
			return origin, err
		}
	}
	if err := c.adapter.SaveActiveConfig(next); err != nil {
		return origin, fmt.Errorf("saving active config: %w", err)
	}
	return origin, nil
}

// UpdateDay replaces the entry for dateISO with mutator's result. Dates
// outside the plan window return ErrDayNotFound and nothing is created.
// The mutator runs without the controller lock held, so it may call back
// into the controller.
func (c *Controller) UpdateDay(dateISO string, mutator func(models.DayEntry) models.DayEntry) (models.DayEntry, error) {
	c.mu.Lock()
	i := c.plan.IndexOf(dateISO)
	if i < 0 {
		c.mu.Unlock()
		return models.DayEntry{}, fmt.Errorf("%w: %s", ErrDayNotFound, dateISO)
	}
	entry := c.plan.Days[i]
	c.mu.Unlock()

	after := mutator(entry)
	after.Date = entry.Date
	if after.WaterOz < 0 {
		after.WaterOz = 0
	}

	c.mu.Lock()
	// the plan may have been switched while the mutator ran
	i = c.plan.IndexOf(dateISO)
	if i < 0 {
		c.mu.Unlock()
		return models.DayEntry{}, fmt.Errorf("%w: %s", ErrDayNotFound, dateISO)
	}
	before := c.plan.Days[i]
	c.plan.Days[i] = after

	err := c.save()
	onPerfect := c.onPerfect
	c.mu.Unlock()

	if err != nil {
		return after, err
	}
	// callback runs unlocked so it may read the plan
	if onPerfect != nil && !models.IsPerfectDay(before) && models.IsPerfectDay(after) {
		onPerfect(after)
	}
	return after, nil
}

// BulkSetDay marks every task on dateISO complete or clears them
func (c *Controller) BulkSetDay(dateISO string, complete bool) (models.DayEntry, error) {
	return c.UpdateDay(dateISO, func(d models.DayEntry) models.DayEntry {
		return d.SetAll(complete)
	})
}

// CompleteToday bulk-completes the entry for today's date
func (c *Controller) CompleteToday(today time.Time) (models.DayEntry, error) {
	return c.BulkSetDay(models.FormatDate(today), true)
}

// Reset zeroes every entry, keeping the configuration
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.plan = models.NewPlan(c.plan.Config)
	return c.save()
}

// ExportPlan returns the export document for the active plan
func (c *Controller) ExportPlan() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return storage.ExportPlan(c.plan)
}

// ImportPlan replaces both configuration and days from an export document.
// On an invalid payload the current state is left untouched.
func (c *Controller) ImportPlan(payload []byte) error {
	imported, err := storage.ImportPlan(payload)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.plan = imported
	if err := c.save(); err != nil {
		return err
	}
	if err := c.adapter.SaveActiveConfig(imported.Config); err != nil {
		return fmt.Errorf("saving active config: %w", err)
	}
	return nil
}

// Streaks computes streaks relative to today
func (c *Controller) Streaks(today time.Time) stats.Streaks {
	c.mu.Lock()
	defer c.mu.Unlock()
	return stats.ComputeStreaks(c.plan.Days, today)
}

// Summary computes overall progress relative to today
func (c *Controller) Summary(today time.Time) stats.Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return stats.Summarize(c.plan.Days, today)
}

func (c *Controller) save() error {
	return c.adapter.Save(c.key(), c.plan)
}
