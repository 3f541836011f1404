// ABOUTME: Tests for export and import functionality.
// ABOUTME: Verifies JSON, YAML, and Markdown export formats.
package storage

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/healthlife/internal/models"
	"gopkg.in/yaml.v3"
)

func seedBackend(t *testing.T, b Backend) {
	t.Helper()
	if err := b.Hydration().Insert(models.NewHydrationRecord(day0, 4, 450)); err != nil {
		t.Fatalf("Insert hydration failed: %v", err)
	}
	if err := b.Gym().Insert(models.NewGymRecord(day0, []models.Muscle{models.MuscleChest, models.MuscleTriceps})); err != nil {
		t.Fatalf("Insert gym failed: %v", err)
	}
	if err := b.Measurements().Insert(models.NewBodyMeasurementRecord(day0, models.Measurements{Chest: 101.5, Weight: 82.25})); err != nil {
		t.Fatalf("Insert measurement failed: %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	db := setupTestDB(t)
	seedBackend(t, db)

	data, err := ExportJSON(db)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var export ExportData
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if export.Version != ExportVersion {
		t.Errorf("Expected version %s, got %s", ExportVersion, export.Version)
	}
	if export.Tool != "healthlife" {
		t.Errorf("Expected tool healthlife, got %s", export.Tool)
	}
	if len(export.Hydration) != 1 || len(export.Gym) != 1 || len(export.Measurements) != 1 {
		t.Errorf("Unexpected counts: %d hydration, %d gym, %d measurements",
			len(export.Hydration), len(export.Gym), len(export.Measurements))
	}
}

func TestExportYAML(t *testing.T) {
	db := setupTestDB(t)
	seedBackend(t, db)

	data, err := ExportYAML(db, time.UTC)
	if err != nil {
		t.Fatalf("ExportYAML failed: %v", err)
	}

	var yamlData map[string]interface{}
	if err := yaml.Unmarshal(data, &yamlData); err != nil {
		t.Fatalf("Failed to parse YAML: %v", err)
	}
	if yamlData["version"] != ExportVersion {
		t.Errorf("Expected version %s, got %v", ExportVersion, yamlData["version"])
	}
	if !strings.Contains(string(data), "date: \"2024-03-10\"") && !strings.Contains(string(data), "date: 2024-03-10") {
		t.Errorf("Expected day in YAML output:\n%s", data)
	}
	if !strings.Contains(string(data), "triceps") {
		t.Errorf("Expected muscles in YAML output:\n%s", data)
	}
}

func TestExportMarkdown(t *testing.T) {
	b := NewMemoryBackend()
	seedBackend(t, b)

	md, err := ExportMarkdown(b, nil, time.UTC)
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}

	for _, want := range []string{"## Hydration", "| 2024-03-10 | 4 | 450 ml | 1800 ml |", "## Gym", "Chest, Triceps", "## Body Measurements", "101.50"} {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown missing %q:\n%s", want, md)
		}
	}

	since := day0.AddDate(0, 0, 1)
	md, err = ExportMarkdown(b, &since, time.UTC)
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}
	if strings.Contains(md, "## Hydration") {
		t.Errorf("Expected since filter to drop older days:\n%s", md)
	}
}

func TestParseExportJSONRoundTrip(t *testing.T) {
	src := setupTestDB(t)
	seedBackend(t, src)

	data, err := ExportJSON(src)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	parsed, err := ParseExportJSON(data)
	if err != nil {
		t.Fatalf("ParseExportJSON failed: %v", err)
	}
	if len(parsed.Gym) != 1 || !parsed.Gym[0].HasMuscle(models.MuscleTriceps) {
		t.Errorf("Gym record not decoded: %+v", parsed.Gym)
	}
	if len(parsed.Hydration) != 1 || parsed.Hydration[0].CupsDrunk != 4 {
		t.Fatalf("Hydration record not decoded: %+v", parsed.Hydration)
	}
	if !parsed.Hydration[0].Date.Equal(day0) {
		t.Errorf("Date = %v, want %v", parsed.Hydration[0].Date, day0)
	}

	if _, err := ParseExportJSON([]byte("not json")); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}
