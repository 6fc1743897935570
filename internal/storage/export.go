package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jgoulah/seventyfive/pkg/models"
)

// ExportVersion is written into every export document
const ExportVersion = 1

// ErrInvalidFormat is returned when an import payload is rejected
var ErrInvalidFormat = errors.New("invalid import format")

// FormatError carries the reason an import payload was rejected
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidFormat, e.Reason)
}

func (e *FormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}

func invalid(format string, args ...any) error {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}

// Export is the on-disk export document
type Export struct {
	Version int               `json:"version"`
	Config  models.PlanConfig `json:"config"`
	Days    []models.DayEntry `json:"days"`
}

// ExportPlan produces an indented JSON export document
func ExportPlan(plan *models.Plan) ([]byte, error) {
	days := plan.Days
	if days == nil {
		days = []models.DayEntry{}
	}
	doc := Export{Version: ExportVersion, Config: plan.Config, Days: days}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling export: %w", err)
	}
	return data, nil
}

// ExportFileName returns the suggested download name for a plan
func ExportFileName(cfg models.PlanConfig) string {
	return fmt.Sprintf("75-soft-%s-%d.json", cfg.StartISO, cfg.LengthDays)
}

// ImportPlan parses and validates an export document. Any structural
// problem, down to a single bad day entry, rejects the whole payload with
// an error matching ErrInvalidFormat.
func ImportPlan(payload []byte) (*models.Plan, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(payload, &top); err != nil || top == nil {
		return nil, invalid("payload is not a JSON object")
	}

	if raw, ok := top["version"]; ok {
		var v int
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, invalid("version is not an integer")
		}
		if v != ExportVersion {
			return nil, invalid("unsupported version %d", v)
		}
	}

	rawCfg, ok := top["config"]
	if !ok || !isKind(rawCfg, '{') {
		return nil, invalid("missing config object")
	}
	rawDays, ok := top["days"]
	if !ok || !isKind(rawDays, '[') {
		return nil, invalid("missing days array")
	}

	var plan models.Plan
	if err := json.Unmarshal(rawCfg, &plan.Config); err != nil {
		return nil, invalid("config: %v", err)
	}
	if err := plan.Config.Validate(); err != nil {
		return nil, invalid("config: %v", err)
	}
	if err := json.Unmarshal(rawDays, &plan.Days); err != nil {
		return nil, invalid("days: %v", err)
	}
	for i, d := range plan.Days {
		if d.WaterOz < 0 {
			return nil, invalid("day %d: negative waterOz %d", i, d.WaterOz)
		}
	}
	if err := plan.CheckContiguous(); err != nil {
		return nil, invalid("days: %v", err)
	}

	return &plan, nil
}

func isKind(raw json.RawMessage, open byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == open
}
