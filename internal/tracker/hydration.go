// ABOUTME: Hydration adapter: cups of water per day, clamped to a daily maximum.
// ABOUTME: Every change is written immediately through the day-bucketed repository.
package tracker

import (
	"time"

	"github.com/harperreed/healthlife/internal/calendar"
	"github.com/harperreed/healthlife/internal/daybucket"
	"github.com/harperreed/healthlife/internal/models"
	"github.com/harperreed/healthlife/internal/storage"
	"github.com/harperreed/healthlife/internal/validate"
)

// HydrationSettings bounds and defaults for water tracking.
type HydrationSettings struct {
	MaxCupsPerDay    int
	DailyGoalCups    int
	DefaultCupSizeMl int
}

// DefaultHydrationSettings returns 11 cups max, a 10 cup goal and 450 ml cups.
func DefaultHydrationSettings() HydrationSettings {
	return HydrationSettings{
		MaxCupsPerDay:    11,
		DailyGoalCups:    10,
		DefaultCupSizeMl: models.DefaultCupSizeMl,
	}
}

// HydrationPayload is the mutable part of a hydration record.
type HydrationPayload struct {
	Cups      int
	CupSizeMl int
}

// Hydration tracks water intake.
type Hydration struct {
	repo     *daybucket.Repository[*models.HydrationRecord, HydrationPayload]
	store    storage.Store[*models.HydrationRecord]
	settings HydrationSettings
}

// NewHydration creates the hydration adapter on store.
func NewHydration(store storage.Store[*models.HydrationRecord], cal *calendar.Calendar, settings HydrationSettings, opts ...daybucket.Option) *Hydration {
	binding := daybucket.Binding[*models.HydrationRecord, HydrationPayload]{
		Domain: "hydration",
		New: func(day time.Time, p HydrationPayload) *models.HydrationRecord {
			return models.NewHydrationRecord(day, p.Cups, p.CupSizeMl)
		},
		Apply: func(r *models.HydrationRecord, p HydrationPayload) {
			r.CupsDrunk = p.Cups
			r.CupSizeMl = p.CupSizeMl
		},
		Clone: (*models.HydrationRecord).Clone,
	}
	return &Hydration{
		repo:     daybucket.New(store, cal, binding, opts...),
		store:    store,
		settings: settings,
	}
}

// Settings returns the limits in effect.
func (h *Hydration) Settings() HydrationSettings {
	return h.settings
}

// Clamp bounds n to [0, MaxCupsPerDay].
func (h *Hydration) Clamp(n int) int {
	return max(0, min(n, h.settings.MaxCupsPerDay))
}

// ForDay returns the record for the day containing day.
func (h *Hydration) ForDay(day time.Time) (*models.HydrationRecord, bool, error) {
	return h.repo.FetchForDay(day)
}

// Today returns today's record.
func (h *Hydration) Today() (*models.HydrationRecord, bool, error) {
	return h.repo.FetchForDay(h.repo.Calendar().Now())
}

// AddCup records one more cup for day. At the daily maximum nothing is written.
// The returned record is nil only when the day has no record and nothing was written.
func (h *Hydration) AddCup(day time.Time) (*models.HydrationRecord, error) {
	return h.step(day, 1)
}

// RemoveCup removes one cup from day. At zero nothing is written.
func (h *Hydration) RemoveCup(day time.Time) (*models.HydrationRecord, error) {
	return h.step(day, -1)
}

func (h *Hydration) step(day time.Time, delta int) (*models.HydrationRecord, error) {
	return h.repo.UpsertForDayFunc(day, func(cur *models.HydrationRecord, found bool) (HydrationPayload, error) {
		p := HydrationPayload{CupSizeMl: h.settings.DefaultCupSizeMl}
		if found {
			p = HydrationPayload{Cups: cur.CupsDrunk, CupSizeMl: cur.CupSizeMl}
		}
		next := h.Clamp(p.Cups + delta)
		if next == p.Cups {
			return p, daybucket.ErrSkip
		}
		p.Cups = next
		return p, nil
	})
}

// SetCups sets day's cup count, clamped to the daily bounds.
func (h *Hydration) SetCups(day time.Time, cups int) (*models.HydrationRecord, error) {
	return h.repo.UpsertForDayFunc(day, func(cur *models.HydrationRecord, found bool) (HydrationPayload, error) {
		p := HydrationPayload{Cups: h.Clamp(cups), CupSizeMl: h.settings.DefaultCupSizeMl}
		if found {
			p.CupSizeMl = cur.CupSizeMl
		}
		return p, nil
	})
}

// SetCupSize changes the cup size used for day.
func (h *Hydration) SetCupSize(day time.Time, ml int) (*models.HydrationRecord, error) {
	if err := checkCupSize(ml); err != nil {
		return nil, err
	}
	return h.repo.UpsertForDayFunc(day, func(cur *models.HydrationRecord, found bool) (HydrationPayload, error) {
		p := HydrationPayload{CupSizeMl: ml}
		if found {
			p.Cups = cur.CupsDrunk
		}
		return p, nil
	})
}

// Edit overwrites a record located through history.
func (h *Hydration) Edit(rec *models.HydrationRecord, cups, cupSizeMl int) error {
	if err := checkCupSize(cupSizeMl); err != nil {
		return err
	}
	return h.repo.Update(rec, HydrationPayload{Cups: h.Clamp(cups), CupSizeMl: cupSizeMl})
}

func checkCupSize(ml int) error {
	if ml <= 0 {
		return &validate.FieldError{Field: "cup_size_ml", Reason: "must be positive"}
	}
	return nil
}

// History returns every record, latest day first.
func (h *Hydration) History() ([]*models.HydrationRecord, error) {
	return h.repo.FetchAllSorted()
}

// Find locates a record by full ID or unique ID prefix.
func (h *Hydration) Find(idOrPrefix string) (*models.HydrationRecord, error) {
	return storage.ResolveID(h.store, idOrPrefix)
}

// Delete removes rec.
func (h *Hydration) Delete(rec *models.HydrationRecord) error {
	return h.repo.Delete(rec)
}

// DeleteAll removes every hydration record.
func (h *Hydration) DeleteAll() (int, error) {
	return h.repo.DeleteAll()
}

// Duplicates lists days holding more than one record.
func (h *Hydration) Duplicates() ([]daybucket.DayGroup[*models.HydrationRecord], error) {
	return h.repo.Duplicates()
}

// Progress is the fraction of the daily goal reached, within [0, 1].
// A nil record counts as zero cups.
func (h *Hydration) Progress(rec *models.HydrationRecord) float64 {
	if rec == nil || h.settings.DailyGoalCups <= 0 {
		return 0
	}
	return min(1.0, max(0.0, float64(rec.CupsDrunk)/float64(h.settings.DailyGoalCups)))
}

// GoalMet reports whether rec reaches the daily goal.
func (h *Hydration) GoalMet(rec *models.HydrationRecord) bool {
	return rec != nil && rec.CupsDrunk >= h.settings.DailyGoalCups
}
