// ABOUTME: Gym record model and the fixed muscle-group enumeration.
// ABOUTME: Muscle sets are canonicalised (deduplicated, sorted) before they are stored.
package models

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Muscle identifies a trained muscle group.
type Muscle string

const (
	MuscleChest     Muscle = "chest"
	MuscleBack      Muscle = "back"
	MuscleTraps     Muscle = "traps"
	MuscleShoulders Muscle = "shoulders"
	MuscleBiceps    Muscle = "biceps"
	MuscleTriceps   Muscle = "triceps"
	MuscleAbs       Muscle = "abs"
	MuscleLegs      Muscle = "legs"
	MuscleCalves    Muscle = "calves"
	MuscleCardio    Muscle = "cardio"
)

// AllMuscles lists every muscle group in display order.
var AllMuscles = []Muscle{
	MuscleChest, MuscleBack, MuscleTraps, MuscleShoulders, MuscleBiceps,
	MuscleTriceps, MuscleAbs, MuscleLegs, MuscleCalves, MuscleCardio,
}

// ParseMuscle converts user text to a Muscle, ignoring case and surrounding space.
func ParseMuscle(s string) (Muscle, error) {
	m := Muscle(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(AllMuscles, m) {
		return "", fmt.Errorf("unknown muscle group: %q", s)
	}
	return m, nil
}

// Label returns the capitalised display name.
func (m Muscle) Label() string {
	if m == "" {
		return ""
	}
	return strings.ToUpper(string(m[:1])) + string(m[1:])
}

// CanonicalMuscles returns the set of muscles sorted lexicographically without duplicates.
// Equal sets always produce equal slices.
func CanonicalMuscles(muscles []Muscle) []Muscle {
	out := make([]Muscle, 0, len(muscles))
	for _, m := range muscles {
		if !slices.Contains(out, m) {
			out = append(out, m)
		}
	}
	slices.Sort(out)
	return out
}

// ToggleMuscle adds m to the set if absent, removes it otherwise, and canonicalises the result.
func ToggleMuscle(muscles []Muscle, m Muscle) []Muscle {
	if i := slices.Index(muscles, m); i >= 0 {
		rest := slices.Clone(muscles)
		return CanonicalMuscles(slices.Delete(rest, i, i+1))
	}
	return CanonicalMuscles(append(slices.Clone(muscles), m))
}

// GymRecord holds the muscle groups trained on one calendar day.
type GymRecord struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	Date      time.Time `json:"date" yaml:"date"`
	Muscles   []Muscle  `json:"muscles" yaml:"muscles"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewGymRecord creates a record anchored at day with a canonical muscle set.
func NewGymRecord(day time.Time, muscles []Muscle) *GymRecord {
	return &GymRecord{
		ID:        uuid.New(),
		Date:      day,
		Muscles:   CanonicalMuscles(muscles),
		CreatedAt: time.Now(),
	}
}

func (r *GymRecord) RecordID() uuid.UUID        { return r.ID }
func (r *GymRecord) RecordDate() time.Time      { return r.Date }
func (r *GymRecord) RecordCreatedAt() time.Time { return r.CreatedAt }

// Clone returns a copy of r that shares no memory with it.
func (r *GymRecord) Clone() *GymRecord {
	c := *r
	c.Muscles = slices.Clone(r.Muscles)
	return &c
}

// HasMuscle reports whether m was trained.
func (r *GymRecord) HasMuscle(m Muscle) bool {
	return slices.Contains(r.Muscles, m)
}
