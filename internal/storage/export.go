// ABOUTME: Export and import functionality for tracked health data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats on any Backend and JSON decoding.
package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/healthlife/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the current export document version.
const ExportVersion = "1.0"

// ExportData represents the full export format.
type ExportData struct {
	Version      string                          `json:"version" yaml:"version"`
	ExportedAt   time.Time                       `json:"exported_at" yaml:"exported_at"`
	Tool         string                          `json:"tool" yaml:"tool"`
	Hydration    []*models.HydrationRecord       `json:"hydration" yaml:"hydration"`
	Gym          []*models.GymRecord             `json:"gym" yaml:"gym"`
	Measurements []*models.BodyMeasurementRecord `json:"measurements" yaml:"measurements"`
}

// GetAllData retrieves every record, oldest first.
func GetAllData(b Backend) (*ExportData, error) {
	all := Query{Order: Ascending}

	hydration, err := b.Hydration().Fetch(all)
	if err != nil {
		return nil, fmt.Errorf("list hydration: %w", err)
	}
	gym, err := b.Gym().Fetch(all)
	if err != nil {
		return nil, fmt.Errorf("list gym: %w", err)
	}
	measurements, err := b.Measurements().Fetch(all)
	if err != nil {
		return nil, fmt.Errorf("list measurements: %w", err)
	}

	return &ExportData{
		Version:      ExportVersion,
		ExportedAt:   time.Now(),
		Tool:         "healthlife",
		Hydration:    hydration,
		Gym:          gym,
		Measurements: measurements,
	}, nil
}

// ParseExportJSON decodes a document written by ExportJSON.
// The records are not validated; callers store them through the repositories.
func ParseExportJSON(data []byte) (*ExportData, error) {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	return &exportData, nil
}

// ExportJSON exports all data as JSON.
func ExportJSON(b Backend) ([]byte, error) {
	data, err := GetAllData(b)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML with days rendered in loc.
func ExportYAML(b Backend, loc *time.Location) ([]byte, error) {
	data, err := GetAllData(b)
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		Version      string            `yaml:"version"`
		ExportedAt   string            `yaml:"exported_at"`
		Tool         string            `yaml:"tool"`
		Hydration    []yamlHydration   `yaml:"hydration"`
		Gym          []yamlGym         `yaml:"gym"`
		Measurements []yamlMeasurement `yaml:"measurements"`
	}{
		Version:      data.Version,
		ExportedAt:   data.ExportedAt.Format(time.RFC3339),
		Tool:         data.Tool,
		Hydration:    make([]yamlHydration, 0, len(data.Hydration)),
		Gym:          make([]yamlGym, 0, len(data.Gym)),
		Measurements: make([]yamlMeasurement, 0, len(data.Measurements)),
	}

	for _, r := range data.Hydration {
		yamlData.Hydration = append(yamlData.Hydration, yamlHydration{
			ID:        models.ShortID(r.ID),
			Date:      r.Date.In(loc).Format(time.DateOnly),
			CupsDrunk: r.CupsDrunk,
			CupSizeMl: r.CupSizeMl,
		})
	}

	for _, r := range data.Gym {
		yg := yamlGym{
			ID:   models.ShortID(r.ID),
			Date: r.Date.In(loc).Format(time.DateOnly),
		}
		for _, m := range r.Muscles {
			yg.Muscles = append(yg.Muscles, string(m))
		}
		yamlData.Gym = append(yamlData.Gym, yg)
	}

	for _, r := range data.Measurements {
		ym := yamlMeasurement{
			ID:     models.ShortID(r.ID),
			Date:   r.Date.In(loc).Format(time.DateOnly),
			Values: make(map[string]float64),
		}
		for _, f := range models.AllMeasurementFields {
			if v := r.Value(f); v != nil {
				ym.Values[string(f)] = *v
			}
		}
		yamlData.Measurements = append(yamlData.Measurements, ym)
	}

	return yaml.Marshal(yamlData)
}

type yamlHydration struct {
	ID        string `yaml:"id"`
	Date      string `yaml:"date"`
	CupsDrunk int    `yaml:"cups_drunk"`
	CupSizeMl int    `yaml:"cup_size_ml"`
}

type yamlGym struct {
	ID      string   `yaml:"id"`
	Date    string   `yaml:"date"`
	Muscles []string `yaml:"muscles,omitempty"`
}

type yamlMeasurement struct {
	ID     string             `yaml:"id"`
	Date   string             `yaml:"date"`
	Values map[string]float64 `yaml:"values,omitempty"`
}

// ExportMarkdown exports data as Markdown tables, newest day first.
// When since is non-nil only days on or after it are included.
func ExportMarkdown(b Backend, since *time.Time, loc *time.Location) (string, error) {
	q := Query{Order: Descending}
	if since != nil {
		q.From = *since
	}

	hydration, err := b.Hydration().Fetch(q)
	if err != nil {
		return "", fmt.Errorf("list hydration: %w", err)
	}
	gym, err := b.Gym().Fetch(q)
	if err != nil {
		return "", fmt.Errorf("list gym: %w", err)
	}
	measurements, err := b.Measurements().Fetch(q)
	if err != nil {
		return "", fmt.Errorf("list measurements: %w", err)
	}

	var sb strings.Builder
	now := time.Now().In(loc)

	sb.WriteString(fmt.Sprintf("# Health Export - %s\n\n", now.Format(time.DateOnly)))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	if len(hydration) > 0 {
		sb.WriteString("## Hydration\n\n")
		sb.WriteString("| Date | Cups | Cup Size | Total |\n")
		sb.WriteString("|------|------|----------|-------|\n")
		for _, r := range hydration {
			sb.WriteString(fmt.Sprintf("| %s | %d | %d ml | %d ml |\n",
				r.Date.In(loc).Format(time.DateOnly), r.CupsDrunk, r.CupSizeMl, r.TotalMl()))
		}
		sb.WriteString("\n")
	}

	if len(gym) > 0 {
		sb.WriteString("## Gym\n\n")
		sb.WriteString("| Date | Muscles |\n")
		sb.WriteString("|------|---------|\n")
		for _, r := range gym {
			labels := make([]string, 0, len(r.Muscles))
			for _, m := range r.Muscles {
				labels = append(labels, m.Label())
			}
			sb.WriteString(fmt.Sprintf("| %s | %s |\n",
				r.Date.In(loc).Format(time.DateOnly), strings.Join(labels, ", ")))
		}
		sb.WriteString("\n")
	}

	if len(measurements) > 0 {
		sb.WriteString("## Body Measurements\n\n")
		sb.WriteString("| Date |")
		for _, f := range models.AllMeasurementFields {
			sb.WriteString(fmt.Sprintf(" %s (%s) |", f.Label(), models.MeasurementUnits[f]))
		}
		sb.WriteString("\n|------|")
		for range models.AllMeasurementFields {
			sb.WriteString("------|")
		}
		sb.WriteString("\n")
		for _, r := range measurements {
			sb.WriteString(fmt.Sprintf("| %s |", r.Date.In(loc).Format(time.DateOnly)))
			for _, f := range models.AllMeasurementFields {
				if v := r.Value(f); v != nil {
					sb.WriteString(fmt.Sprintf(" %.2f |", *v))
				} else {
					sb.WriteString(" - |")
				}
			}
			sb.WriteString("\n")
		}
	}

	return sb.String(), nil
}
