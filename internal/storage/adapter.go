package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/jgoulah/seventyfive/pkg/models"
)

// DefaultNamespace prefixes every key the adapter writes
const DefaultNamespace = "seventyfive-soft"

// ErrMalformedStorage means a stored value failed to parse. It wraps
// ErrNotFound so callers recover from it the same way.
var ErrMalformedStorage = fmt.Errorf("malformed stored plan: %w", ErrNotFound)

// Adapter loads and saves plans against a namespaced Store
type Adapter struct {
	store     Store
	namespace string
}

// NewAdapter creates an adapter. An empty namespace uses DefaultNamespace.
func NewAdapter(store Store, namespace string) *Adapter {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Adapter{store: store, namespace: namespace}
}

// Namespace returns the key prefix in use
func (a *Adapter) Namespace() string {
	return a.namespace
}

// Store returns the underlying key-value store
func (a *Adapter) Store() Store {
	return a.store
}

// StorageKey returns "<namespace>-<startISO>-<lengthDays>"
func StorageKey(namespace, startISO string, lengthDays int) string {
	return fmt.Sprintf("%s-%s-%d", namespace, startISO, lengthDays)
}

// StorageKey returns the key for a configuration in this adapter's namespace
func (a *Adapter) StorageKey(startISO string, lengthDays int) string {
	return StorageKey(a.namespace, startISO, lengthDays)
}

// ParseStorageKey recovers the configuration embedded in a plan key
func (a *Adapter) ParseStorageKey(key string) (models.PlanConfig, error) {
	rest, ok := strings.CutPrefix(key, a.namespace+"-")
	if !ok {
		return models.PlanConfig{}, fmt.Errorf("key %q is outside namespace %s", key, a.namespace)
	}
	i := strings.LastIndex(rest, "-")
	if i < 0 {
		return models.PlanConfig{}, fmt.Errorf("key %q has no length suffix", key)
	}
	length, err := strconv.Atoi(rest[i+1:])
	if err != nil {
		return models.PlanConfig{}, fmt.Errorf("key %q: parsing length: %w", key, err)
	}
	return models.NewPlanConfig(rest[:i], length)
}

// Load reads the plan stored under key. Absent keys and values that do not
// parse both yield an error matching ErrNotFound; neither is fatal.
func (a *Adapter) Load(key string) (*models.Plan, error) {
	value, err := a.store.Get(key)
	if err != nil {
		return nil, err
	}

	cfg, err := a.ParseStorageKey(key)
	if err != nil {
		log.Printf("[storage] ignoring %s: %v", key, err)
		return nil, fmt.Errorf("%w: %v", ErrMalformedStorage, err)
	}

	plan, err := decodeStored(cfg, value)
	if err != nil {
		log.Printf("[storage] ignoring %s: %v", key, err)
		return nil, fmt.Errorf("%w: %v", ErrMalformedStorage, err)
	}
	return plan, nil
}

// decodeStored accepts either a bare day array or a {config, days} object
func decodeStored(cfg models.PlanConfig, value string) (*models.Plan, error) {
	raw := bytes.TrimSpace([]byte(value))
	plan := &models.Plan{Config: cfg}

	switch {
	case len(raw) > 0 && raw[0] == '[':
		if err := json.Unmarshal(raw, &plan.Days); err != nil {
			return nil, fmt.Errorf("parsing days: %w", err)
		}
	case len(raw) > 0 && raw[0] == '{':
		var stored models.Plan
		if err := json.Unmarshal(raw, &stored); err != nil {
			return nil, fmt.Errorf("parsing plan: %w", err)
		}
		if stored.Config != cfg {
			return nil, fmt.Errorf("stored config %+v does not match key", stored.Config)
		}
		plan.Days = stored.Days
	default:
		return nil, errors.New("value is not a JSON array or object")
	}

	if err := plan.CheckContiguous(); err != nil {
		return nil, err
	}
	return plan, nil
}

// Save writes the plan's day sequence under key, overwriting any prior value
func (a *Adapter) Save(key string, plan *models.Plan) error {
	days := plan.Days
	if days == nil {
		days = []models.DayEntry{}
	}
	data, err := json.Marshal(days)
	if err != nil {
		return fmt.Errorf("marshaling days: %w", err)
	}
	if err := a.store.Set(key, string(data)); err != nil {
		return fmt.Errorf("saving plan: %w", err)
	}
	return nil
}

// RestoreValue validates a raw stored value copied from another store
// (such as browser localStorage) and writes it under key
func (a *Adapter) RestoreValue(key, value string) error {
	cfg, err := a.ParseStorageKey(key)
	if err != nil {
		return err
	}
	plan, err := decodeStored(cfg, value)
	if err != nil {
		return err
	}
	return a.Save(key, plan)
}

// ListPlans returns the configurations of every plan stored in the namespace
func (a *Adapter) ListPlans() ([]models.PlanConfig, error) {
	keys, err := a.store.Keys(a.namespace + "-")
	if err != nil {
		return nil, err
	}
	configs := []models.PlanConfig{}
	for _, k := range keys {
		cfg, err := a.ParseStorageKey(k)
		if err != nil {
			continue
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

// DeletePlan removes the stored plan for a configuration
func (a *Adapter) DeletePlan(cfg models.PlanConfig) error {
	return a.store.Remove(a.StorageKey(cfg.StartISO, cfg.LengthDays))
}

func (a *Adapter) activeKey() string {
	return a.namespace + "-active"
}

// LoadActiveConfig returns the configuration last selected, or ErrNotFound
func (a *Adapter) LoadActiveConfig() (models.PlanConfig, error) {
	value, err := a.store.Get(a.activeKey())
	if err != nil {
		return models.PlanConfig{}, err
	}
	var cfg models.PlanConfig
	if err := json.Unmarshal([]byte(value), &cfg); err != nil {
		return models.PlanConfig{}, fmt.Errorf("%w: %v", ErrMalformedStorage, err)
	}
	if err := cfg.Validate(); err != nil {
		return models.PlanConfig{}, fmt.Errorf("%w: %v", ErrMalformedStorage, err)
	}
	return cfg, nil
}

// SaveActiveConfig records cfg as the configuration to reopen next time
func (a *Adapter) SaveActiveConfig(cfg models.PlanConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return a.store.Set(a.activeKey(), string(data))
}
