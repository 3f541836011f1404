// ABOUTME: Body measurement record model: seven optional magnitudes per day.
// ABOUTME: Circumferences are centimeters, weight is kilograms.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MeasurementField names one of the tracked body measurements.
type MeasurementField string

const (
	FieldChest    MeasurementField = "chest"
	FieldBelly    MeasurementField = "belly"
	FieldLeftArm  MeasurementField = "left_arm"
	FieldRightArm MeasurementField = "right_arm"
	FieldLeftLeg  MeasurementField = "left_leg"
	FieldRightLeg MeasurementField = "right_leg"
	FieldWeight   MeasurementField = "weight"
)

// AllMeasurementFields lists the fields in form order.
var AllMeasurementFields = []MeasurementField{
	FieldChest, FieldBelly, FieldLeftArm, FieldRightArm, FieldLeftLeg, FieldRightLeg, FieldWeight,
}

// MeasurementUnits maps fields to their display units.
var MeasurementUnits = map[MeasurementField]string{
	FieldChest:    "cm",
	FieldBelly:    "cm",
	FieldLeftArm:  "cm",
	FieldRightArm: "cm",
	FieldLeftLeg:  "cm",
	FieldRightLeg: "cm",
	FieldWeight:   "kg",
}

var measurementLabels = map[MeasurementField]string{
	FieldChest:    "Chest",
	FieldBelly:    "Belly",
	FieldLeftArm:  "Left Arm",
	FieldRightArm: "Right Arm",
	FieldLeftLeg:  "Left Leg",
	FieldRightLeg: "Right Leg",
	FieldWeight:   "Weight",
}

// Label returns the human-readable name of f.
func (f MeasurementField) Label() string {
	if l, ok := measurementLabels[f]; ok {
		return l
	}
	return string(f)
}

// ParseMeasurementField converts a field name to a MeasurementField.
// Dashes are accepted in place of underscores.
func ParseMeasurementField(s string) (MeasurementField, error) {
	f := MeasurementField(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if _, ok := measurementLabels[f]; !ok {
		return "", fmt.Errorf("unknown measurement field: %q", s)
	}
	return f, nil
}

// Measurements is a complete set of values, one per field.
type Measurements struct {
	Chest    float64
	Belly    float64
	LeftArm  float64
	RightArm float64
	LeftLeg  float64
	RightLeg float64
	Weight   float64
}

// BodyMeasurementRecord holds one day's body measurements.
type BodyMeasurementRecord struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	Date      time.Time `json:"date" yaml:"date"`
	Chest     *float64  `json:"chest,omitempty" yaml:"chest,omitempty"`
	Belly     *float64  `json:"belly,omitempty" yaml:"belly,omitempty"`
	LeftArm   *float64  `json:"left_arm,omitempty" yaml:"left_arm,omitempty"`
	RightArm  *float64  `json:"right_arm,omitempty" yaml:"right_arm,omitempty"`
	LeftLeg   *float64  `json:"left_leg,omitempty" yaml:"left_leg,omitempty"`
	RightLeg  *float64  `json:"right_leg,omitempty" yaml:"right_leg,omitempty"`
	Weight    *float64  `json:"weight,omitempty" yaml:"weight,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewBodyMeasurementRecord creates a record anchored at day with every field filled.
func NewBodyMeasurementRecord(day time.Time, m Measurements) *BodyMeasurementRecord {
	r := &BodyMeasurementRecord{
		ID:        uuid.New(),
		Date:      day,
		CreatedAt: time.Now(),
	}
	r.Apply(m)
	return r
}

func (r *BodyMeasurementRecord) RecordID() uuid.UUID        { return r.ID }
func (r *BodyMeasurementRecord) RecordDate() time.Time      { return r.Date }
func (r *BodyMeasurementRecord) RecordCreatedAt() time.Time { return r.CreatedAt }

// Apply overwrites every field with the values in m.
func (r *BodyMeasurementRecord) Apply(m Measurements) {
	r.Chest = ptr(m.Chest)
	r.Belly = ptr(m.Belly)
	r.LeftArm = ptr(m.LeftArm)
	r.RightArm = ptr(m.RightArm)
	r.LeftLeg = ptr(m.LeftLeg)
	r.RightLeg = ptr(m.RightLeg)
	r.Weight = ptr(m.Weight)
}

// Clone returns a copy of r that shares no memory with it.
func (r *BodyMeasurementRecord) Clone() *BodyMeasurementRecord {
	c := *r
	for _, f := range AllMeasurementFields {
		if v := r.Value(f); v != nil {
			c.set(f, *v)
		}
	}
	return &c
}

func (r *BodyMeasurementRecord) set(f MeasurementField, v float64) {
	switch f {
	case FieldChest:
		r.Chest = ptr(v)
	case FieldBelly:
		r.Belly = ptr(v)
	case FieldLeftArm:
		r.LeftArm = ptr(v)
	case FieldRightArm:
		r.RightArm = ptr(v)
	case FieldLeftLeg:
		r.LeftLeg = ptr(v)
	case FieldRightLeg:
		r.RightLeg = ptr(v)
	case FieldWeight:
		r.Weight = ptr(v)
	}
}

// Value returns the stored value for f, or nil if unset.
func (r *BodyMeasurementRecord) Value(f MeasurementField) *float64 {
	switch f {
	case FieldChest:
		return r.Chest
	case FieldBelly:
		return r.Belly
	case FieldLeftArm:
		return r.LeftArm
	case FieldRightArm:
		return r.RightArm
	case FieldLeftLeg:
		return r.LeftLeg
	case FieldRightLeg:
		return r.RightLeg
	case FieldWeight:
		return r.Weight
	}
	return nil
}

// Set assigns one field of m.
func (m *Measurements) Set(f MeasurementField, v float64) {
	switch f {
	case FieldChest:
		m.Chest = v
	case FieldBelly:
		m.Belly = v
	case FieldLeftArm:
		m.LeftArm = v
	case FieldRightArm:
		m.RightArm = v
	case FieldLeftLeg:
		m.LeftLeg = v
	case FieldRightLeg:
		m.RightLeg = v
	case FieldWeight:
		m.Weight = v
	}
}

func ptr(v float64) *float64 {
	return &v
}
