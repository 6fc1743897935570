package plan

import (
	"errors"
	"testing"
	"time"

	"github.com/jgoulah/seventyfive/internal/storage"
	"github.com/jgoulah/seventyfive/pkg/models"
)

var jan1 = models.PlanConfig{StartISO: "2024-01-01", LengthDays: 5}

func newController(t *testing.T, cfg models.PlanConfig) (*Controller, *storage.Adapter, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	adapter := storage.NewAdapter(store, "test")
	c, origin, err := New(adapter, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if origin != Synthesized {
		t.Fatalf("origin = %s, want synthesized", origin)
	}
	return c, adapter, store
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	adapter := storage.NewAdapter(storage.NewMemoryStore(), "test")
	if _, _, err := New(adapter, models.PlanConfig{StartISO: "2024-01-01"}); !errors.Is(err, models.ErrInvalidConfig) {
		t.Errorf("New() error = %v, want ErrInvalidConfig", err)
	}
}

func TestUpdateDayPersists(t *testing.T) {
	c, adapter, _ := newController(t, jan1)

	got, err := c.UpdateDay("2024-01-03", func(d models.DayEntry) models.DayEntry {
		d.Reading = true
		d.WaterOz = 64
		return d
	})
	if err != nil {
		t.Fatalf("UpdateDay: %v", err)
	}
	if !got.Reading || got.WaterOz != 64 {
		t.Errorf("UpdateDay() = %+v", got)
	}

	stored, err := adapter.Load(c.StorageKey())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if stored.Days[2] != got {
		t.Errorf("stored day = %+v, want %+v", stored.Days[2], got)
	}
}

func TestUpdateDayOutsideWindow(t *testing.T) {
	c, _, store := newController(t, jan1)

	_, err := c.UpdateDay("2024-02-01", func(d models.DayEntry) models.DayEntry {
		d.Exercise = true
		return d
	})
	if !errors.Is(err, ErrDayNotFound) {
		t.Errorf("error = %v, want ErrDayNotFound", err)
	}
	if len(c.Plan().Days) != 5 {
		t.Error("day was created outside the window")
	}
	if _, err := store.Get(c.StorageKey()); !errors.Is(err, storage.ErrNotFound) {
		t.Error("failed update was persisted")
	}
}

func TestUpdateDayKeepsIdentity(t *testing.T) {
	c, _, _ := newController(t, jan1)

	got, err := c.UpdateDay("2024-01-02", func(d models.DayEntry) models.DayEntry {
		d.Date = "2030-01-01"
		d.WaterOz = -20
		return d
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.Date != "2024-01-02" || got.WaterOz != 0 {
		t.Errorf("UpdateDay() = %+v", got)
	}
	if err := c.Plan().CheckContiguous(); err != nil {
		t.Errorf("plan no longer contiguous: %v", err)
	}
}

func TestBulkSetDayRoundTrip(t *testing.T) {
	c, _, _ := newController(t, jan1)
	c.UpdateDay("2024-01-04", func(d models.DayEntry) models.DayEntry {
		d.Reading = true
		return d
	})
	before := c.Plan()

	full, err := c.BulkSetDay("2024-01-02", true)
	if err != nil {
		t.Fatal(err)
	}
	if !models.IsPerfectDay(full) || full.WaterOz != 100 {
		t.Errorf("BulkSetDay(true) = %+v", full)
	}

	cleared, err := c.BulkSetDay("2024-01-02", false)
	if err != nil {
		t.Fatal(err)
	}
	if cleared != (models.DayEntry{Date: "2024-01-02"}) {
		t.Errorf("BulkSetDay(false) = %+v, want zeroed", cleared)
	}

	after := c.Plan()
	for i := range before.Days {
		if after.Days[i] != before.Days[i] {
			t.Errorf("day %d changed: %+v -> %+v", i, before.Days[i], after.Days[i])
		}
	}
}

func TestCompleteToday(t *testing.T) {
	c, _, _ := newController(t, jan1)

	today := time.Date(2024, 1, 3, 9, 0, 0, 0, time.Local)
	day, err := c.CompleteToday(today)
	if err != nil || day.Date != "2024-01-03" || !models.IsPerfectDay(day) {
		t.Errorf("CompleteToday() = %+v, %v", day, err)
	}

	if _, err := c.CompleteToday(today.AddDate(0, 1, 0)); !errors.Is(err, ErrDayNotFound) {
		t.Errorf("CompleteToday(outside) error = %v, want ErrDayNotFound", err)
	}
}

func TestOnPerfectDay(t *testing.T) {
	c, _, _ := newController(t, jan1)

	var got []string
	c.OnPerfectDay(func(d models.DayEntry) { got = append(got, d.Date) })

	c.BulkSetDay("2024-01-01", true)
	c.BulkSetDay("2024-01-01", true) // already perfect
	c.UpdateDay("2024-01-02", func(d models.DayEntry) models.DayEntry {
		d.Exercise = true
		return d
	})

	if len(got) != 1 || got[0] != "2024-01-01" {
		t.Errorf("perfect day callbacks = %v", got)
	}
}

func TestUpdateDayMutatorMayReadController(t *testing.T) {
	c, _, _ := newController(t, jan1)

	done := make(chan models.DayEntry)
	go func() {
		got, _ := c.UpdateDay("2024-01-02", func(d models.DayEntry) models.DayEntry {
			d.WaterOz = len(c.Plan().Days) * 10
			return d
		})
		done <- got
	}()

	select {
	case got := <-done:
		if got.WaterOz != 50 {
			t.Errorf("WaterOz = %d, want 50", got.WaterOz)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("UpdateDay deadlocked when the mutator read the plan")
	}
}

func TestReset(t *testing.T) {
	c, adapter, _ := newController(t, jan1)
	c.BulkSetDay("2024-01-01", true)
	c.BulkSetDay("2024-01-05", true)

	if err := c.Reset(); err != nil {
		t.Fatal(err)
	}

	p := c.Plan()
	if p.Config != jan1 {
		t.Errorf("config changed to %+v", p.Config)
	}
	for _, d := range p.Days {
		if models.CompletedTaskCount(d) != 0 {
			t.Errorf("day %s not reset: %+v", d.Date, d)
		}
	}
	stored, _ := adapter.Load(c.StorageKey())
	if stored == nil || models.IsPerfectDay(stored.Days[0]) {
		t.Error("reset was not persisted")
	}
}

func TestSetConfigReloadsSavedPlan(t *testing.T) {
	c, adapter, _ := newController(t, jan1)
	c.BulkSetDay("2024-01-02", true)

	other := models.PlanConfig{StartISO: "2024-03-01", LengthDays: 3}
	origin, err := c.SetConfig(other)
	if err != nil || origin != Synthesized {
		t.Fatalf("SetConfig(other) = %s, %v", origin, err)
	}
	if c.Config() != other || len(c.Plan().Days) != 3 {
		t.Errorf("active plan = %+v", c.Plan())
	}
	if active, _ := adapter.LoadActiveConfig(); active != other {
		t.Errorf("active config = %+v", active)
	}

	origin, err = c.SetConfig(jan1)
	if err != nil || origin != Reloaded {
		t.Fatalf("SetConfig(jan1) = %s, %v", origin, err)
	}
	p := c.Plan()
	if !models.IsPerfectDay(p.Days[1]) {
		t.Error("saved progress was not reloaded")
	}

	// a second controller sees the same persisted plan
	c2, origin, err := New(adapter, jan1)
	if err != nil || origin != Reloaded {
		t.Fatalf("New() = %s, %v", origin, err)
	}
	if !models.IsPerfectDay(c2.Plan().Days[1]) {
		t.Error("second controller did not reload progress")
	}
}

func TestSetConfigMalformedStorageStartsFresh(t *testing.T) {
	c, adapter, store := newController(t, jan1)
	other := models.PlanConfig{StartISO: "2024-03-01", LengthDays: 3}
	store.Set(adapter.StorageKey(other.StartISO, other.LengthDays), "{garbage")

	origin, err := c.SetConfig(other)
	if err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	if origin != Synthesized || len(c.Plan().Days) != 3 {
		t.Errorf("origin = %s, plan = %+v", origin, c.Plan())
	}
}

// lockedStore fails every Get while locked is set, like a busy SQLite file
type lockedStore struct {
	*storage.MemoryStore
	locked bool
}

var errLocked = errors.New("database is locked")

func (s *lockedStore) Get(key string) (string, error) {
	if s.locked {
		return "", errLocked
	}
	return s.MemoryStore.Get(key)
}

func TestSetConfigStoreErrorKeepsPlan(t *testing.T) {
	store := &lockedStore{MemoryStore: storage.NewMemoryStore()}
	adapter := storage.NewAdapter(store, "test")
	other := models.PlanConfig{StartISO: "2024-02-01", LengthDays: 3}

	saved := models.NewPlan(other)
	saved.Days[0] = saved.Days[0].SetAll(true)
	if err := adapter.Save(adapter.StorageKey(other.StartISO, other.LengthDays), saved); err != nil {
		t.Fatalf("Save: %v", err)
	}
	c, _, err := New(adapter, jan1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	store.locked = true
	if _, err := c.SetConfig(other); !errors.Is(err, errLocked) {
		t.Fatalf("SetConfig() error = %v, want %v", err, errLocked)
	}
	if c.Config() != jan1 {
		t.Errorf("config changed to %+v", c.Config())
	}

	store.locked = false
	stored, err := adapter.Load(adapter.StorageKey(other.StartISO, other.LengthDays))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !models.IsPerfectDay(stored.Days[0]) {
		t.Errorf("stored progress overwritten: %+v", stored.Days[0])
	}
	if active, err := adapter.LoadActiveConfig(); err == nil && active == other {
		t.Error("active config switched despite the failed load")
	}
}

func TestNewStoreError(t *testing.T) {
	store := &lockedStore{MemoryStore: storage.NewMemoryStore(), locked: true}
	adapter := storage.NewAdapter(store, "test")

	if _, _, err := New(adapter, jan1); !errors.Is(err, errLocked) {
		t.Errorf("New() error = %v, want %v", err, errLocked)
	}
	if keys, _ := store.Keys(""); len(keys) != 0 {
		t.Errorf("store written: %v", keys)
	}
}

func TestSetConfigInvalid(t *testing.T) {
	c, _, _ := newController(t, jan1)

	for _, cfg := range []models.PlanConfig{
		{StartISO: "yesterday", LengthDays: 5},
		{StartISO: "2024-01-01", LengthDays: 0},
	} {
		if _, err := c.SetConfig(cfg); !errors.Is(err, models.ErrInvalidConfig) {
			t.Errorf("SetConfig(%+v) error = %v, want ErrInvalidConfig", cfg, err)
		}
	}
	if c.Config() != jan1 {
		t.Errorf("config changed to %+v", c.Config())
	}
}

func TestImportPlan(t *testing.T) {
	src, _, _ := newController(t, models.PlanConfig{StartISO: "2024-06-03", LengthDays: 4})
	src.BulkSetDay("2024-06-04", true)
	data, err := src.ExportPlan()
	if err != nil {
		t.Fatal(err)
	}

	c, adapter, _ := newController(t, jan1)
	if err := c.ImportPlan(data); err != nil {
		t.Fatalf("ImportPlan: %v", err)
	}

	want := src.Plan()
	got := c.Plan()
	if got.Config != want.Config {
		t.Errorf("config = %+v, want %+v", got.Config, want.Config)
	}
	for i := range want.Days {
		if got.Days[i] != want.Days[i] {
			t.Errorf("day %d = %+v, want %+v", i, got.Days[i], want.Days[i])
		}
	}
	if _, err := adapter.Load(c.StorageKey()); err != nil {
		t.Errorf("imported plan not persisted: %v", err)
	}
	if active, _ := adapter.LoadActiveConfig(); active != want.Config {
		t.Errorf("active config = %+v", active)
	}
}

func TestImportPlanInvalidLeavesState(t *testing.T) {
	c, _, _ := newController(t, jan1)
	c.BulkSetDay("2024-01-01", true)
	before := c.Plan()

	err := c.ImportPlan([]byte(`{"version":1,"config":{"startISO":"2024-06-03","lengthDays":4}}`))
	if !errors.Is(err, storage.ErrInvalidFormat) {
		t.Fatalf("error = %v, want ErrInvalidFormat", err)
	}

	after := c.Plan()
	if after.Config != before.Config || after.Days[0] != before.Days[0] {
		t.Errorf("state changed after rejected import: %+v", after)
	}
}

func TestStreaksAndSummary(t *testing.T) {
	c, _, _ := newController(t, jan1)
	for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-04", "2024-01-05"} {
		c.BulkSetDay(d, true)
	}

	today := time.Date(2024, 1, 5, 12, 0, 0, 0, time.Local)
	s := c.Streaks(today)
	if s.Current != 2 || s.Longest != 2 {
		t.Errorf("Streaks() = %+v, want {2 2}", s)
	}
	if sum := c.Summary(today); sum.PerfectDays != 4 || sum.Percent != 80 {
		t.Errorf("Summary() = %+v", sum)
	}
}
