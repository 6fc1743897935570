package storage

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestExportImportRoundTrip(t *testing.T) {
	p := testPlan("2024-01-01", 75)

	data, err := ExportPlan(p)
	if err != nil {
		t.Fatalf("ExportPlan: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	if doc["version"] != float64(1) {
		t.Errorf("version = %v, want 1", doc["version"])
	}

	got, err := ImportPlan(data)
	if err != nil {
		t.Fatalf("ImportPlan: %v", err)
	}
	if got.Config != p.Config {
		t.Errorf("config = %+v, want %+v", got.Config, p.Config)
	}
	if len(got.Days) != len(p.Days) {
		t.Fatalf("got %d days, want %d", len(got.Days), len(p.Days))
	}
	for i := range p.Days {
		if got.Days[i] != p.Days[i] {
			t.Errorf("day %d = %+v, want %+v", i, got.Days[i], p.Days[i])
		}
	}
}

func TestExportFileName(t *testing.T) {
	p := testPlan("2024-01-01", 75)
	if got := ExportFileName(p.Config); got != "75-soft-2024-01-01-75.json" {
		t.Errorf("ExportFileName() = %s", got)
	}
}

func TestImportRejects(t *testing.T) {
	day := `{"date":"2024-01-01","exercise":true,"glutenFree":false,"noAlcohol":false,"reading":false,"waterOz":10}`
	cfg := `{"startISO":"2024-01-01","lengthDays":1}`

	tests := []struct {
		name    string
		payload string
		reason  string
	}{
		{"not json", `nope`, "not a JSON object"},
		{"array", `[]`, "not a JSON object"},
		{"null", `null`, "not a JSON object"},
		{"missing days", `{"version":1,"config":` + cfg + `}`, "missing days"},
		{"days not array", `{"config":` + cfg + `,"days":{}}`, "missing days"},
		{"days null", `{"config":` + cfg + `,"days":null}`, "missing days"},
		{"missing config", `{"days":[` + day + `]}`, "missing config"},
		{"config not object", `{"config":"2024-01-01","days":[` + day + `]}`, "missing config"},
		{"future version", `{"version":2,"config":` + cfg + `,"days":[` + day + `]}`, "unsupported version"},
		{"bad start", `{"config":{"startISO":"soon","lengthDays":1},"days":[` + day + `]}`, "config"},
		{"zero length", `{"config":{"startISO":"2024-01-01","lengthDays":0},"days":[]}`, "config"},
		{"non-bool flag", `{"config":` + cfg + `,"days":[{"date":"2024-01-01","exercise":"yes"}]}`, "days"},
		{"negative water", `{"config":` + cfg + `,"days":[{"date":"2024-01-01","waterOz":-5}]}`, "negative waterOz"},
		{"wrong count", `{"config":{"startISO":"2024-01-01","lengthDays":2},"days":[` + day + `]}`, "expected 2 days"},
		{"wrong date", `{"config":{"startISO":"2024-01-02","lengthDays":1},"days":[` + day + `]}`, "expected date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportPlan([]byte(tt.payload))
			if !errors.Is(err, ErrInvalidFormat) {
				t.Fatalf("error = %v, want ErrInvalidFormat", err)
			}
			var fe *FormatError
			if !errors.As(err, &fe) || !strings.Contains(fe.Reason, tt.reason) {
				t.Errorf("reason = %v, want it to mention %q", err, tt.reason)
			}
		})
	}
}

func TestImportWithoutVersion(t *testing.T) {
	payload := `{"config":{"startISO":"2024-01-01","lengthDays":1},"days":[{"date":"2024-01-01","exercise":true,"glutenFree":true,"noAlcohol":true,"reading":true,"waterOz":100}]}`
	p, err := ImportPlan([]byte(payload))
	if err != nil {
		t.Fatalf("ImportPlan: %v", err)
	}
	if len(p.Days) != 1 || !p.Days[0].Exercise {
		t.Errorf("imported %+v", p)
	}
}
