// ABOUTME: Gym adapter: the set of muscle groups trained each day.
// ABOUTME: Toggles persist the full canonical set immediately.
package tracker

import (
	"slices"
	"time"

	"github.com/harperreed/healthlife/internal/calendar"
	"github.com/harperreed/healthlife/internal/daybucket"
	"github.com/harperreed/healthlife/internal/models"
	"github.com/harperreed/healthlife/internal/storage"
	"github.com/harperreed/healthlife/internal/validate"
)

// Gym tracks trained muscle groups.
type Gym struct {
	repo  *daybucket.Repository[*models.GymRecord, []models.Muscle]
	store storage.Store[*models.GymRecord]
}

// NewGym creates the gym adapter on store.
func NewGym(store storage.Store[*models.GymRecord], cal *calendar.Calendar, opts ...daybucket.Option) *Gym {
	binding := daybucket.Binding[*models.GymRecord, []models.Muscle]{
		Domain: "gym",
		New: func(day time.Time, muscles []models.Muscle) *models.GymRecord {
			return models.NewGymRecord(day, muscles)
		},
		Apply: func(r *models.GymRecord, muscles []models.Muscle) {
			r.Muscles = models.CanonicalMuscles(muscles)
		},
		Clone: (*models.GymRecord).Clone,
	}
	return &Gym{
		repo:  daybucket.New(store, cal, binding, opts...),
		store: store,
	}
}

// ParseMuscles converts names to muscles, collecting every unknown name.
func ParseMuscles(names []string) ([]models.Muscle, error) {
	var (
		out  []models.Muscle
		errs validate.Errors
	)
	for _, n := range names {
		m, err := models.ParseMuscle(n)
		if err != nil {
			errs = append(errs, &validate.FieldError{Field: "muscle", Input: n, Reason: "not a known muscle group"})
			continue
		}
		out = append(out, m)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return models.CanonicalMuscles(out), nil
}

func checkMuscles(muscles []models.Muscle) error {
	var errs validate.Errors
	for _, m := range muscles {
		if !slices.Contains(models.AllMuscles, m) {
			errs = append(errs, &validate.FieldError{Field: "muscle", Input: string(m), Reason: "not a known muscle group"})
		}
	}
	return errs.Err()
}

// ForDay returns the record for the day containing day.
func (g *Gym) ForDay(day time.Time) (*models.GymRecord, bool, error) {
	return g.repo.FetchForDay(day)
}

// Today returns today's record.
func (g *Gym) Today() (*models.GymRecord, bool, error) {
	return g.repo.FetchForDay(g.repo.Calendar().Now())
}

// Toggle flips m in day's muscle set.
func (g *Gym) Toggle(day time.Time, m models.Muscle) (*models.GymRecord, error) {
	if err := checkMuscles([]models.Muscle{m}); err != nil {
		return nil, err
	}
	return g.repo.UpsertForDayFunc(day, func(cur *models.GymRecord, found bool) ([]models.Muscle, error) {
		var current []models.Muscle
		if found {
			current = cur.Muscles
		}
		return models.ToggleMuscle(current, m), nil
	})
}

// Set replaces day's muscle set.
func (g *Gym) Set(day time.Time, muscles []models.Muscle) (*models.GymRecord, error) {
	if err := checkMuscles(muscles); err != nil {
		return nil, err
	}
	return g.repo.UpsertForDay(day, models.CanonicalMuscles(muscles))
}

// Edit replaces the muscle set of a record located through history.
func (g *Gym) Edit(rec *models.GymRecord, muscles []models.Muscle) error {
	if err := checkMuscles(muscles); err != nil {
		return err
	}
	return g.repo.Update(rec, muscles)
}

// EditToggle flips m in a record located through history.
func (g *Gym) EditToggle(rec *models.GymRecord, m models.Muscle) error {
	if err := checkMuscles([]models.Muscle{m}); err != nil {
		return err
	}
	return g.repo.Update(rec, models.ToggleMuscle(rec.Muscles, m))
}

// History returns every record, latest day first.
func (g *Gym) History() ([]*models.GymRecord, error) {
	return g.repo.FetchAllSorted()
}

// Find locates a record by full ID or unique ID prefix.
func (g *Gym) Find(idOrPrefix string) (*models.GymRecord, error) {
	return storage.ResolveID(g.store, idOrPrefix)
}

// Delete removes rec.
func (g *Gym) Delete(rec *models.GymRecord) error {
	return g.repo.Delete(rec)
}

// DeleteAll removes every gym record.
func (g *Gym) DeleteAll() (int, error) {
	return g.repo.DeleteAll()
}

// Duplicates lists days holding more than one record.
func (g *Gym) Duplicates() ([]daybucket.DayGroup[*models.GymRecord], error) {
	return g.repo.Duplicates()
}
