// ABOUTME: Import of exported documents through the day-bucketed repositories.
// ABOUTME: Every record is checked first; nothing is written unless the whole document passes.
package tracker

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/healthlife/internal/daybucket"
	"github.com/harperreed/healthlife/internal/models"
	"github.com/harperreed/healthlife/internal/storage"
	"github.com/harperreed/healthlife/internal/validate"
)

// ImportSummary counts the records written per domain.
type ImportSummary struct {
	Hydration    int
	Gym          int
	Measurements int
}

// Total returns the number of records written.
func (s ImportSummary) Total() int {
	return s.Hydration + s.Gym + s.Measurements
}

// Import stores every record of data as the record of its day.
//
// Dates are re-anchored to local midnight of the day containing them and
// cup counts are clamped to the daily bounds. A missing date, a non-positive
// cup size, an unknown muscle or a negative measurement rejects the document.
// So does a day that already holds a record or appears twice in data.
// Nothing is written unless every record passes.
func (t *Tracker) Import(data *storage.ExportData) (ImportSummary, error) {
	var errs validate.Errors
	for i, r := range data.Hydration {
		errs = t.checkHydration(errs, fmt.Sprintf("hydration[%d]", i), r)
	}
	for i, r := range data.Gym {
		errs = t.checkGym(errs, fmt.Sprintf("gym[%d]", i), r)
	}
	for i, r := range data.Measurements {
		errs = t.checkMeasurement(errs, fmt.Sprintf("measurements[%d]", i), r)
	}
	if err := errs.Err(); err != nil {
		return ImportSummary{}, err
	}

	if err := errors.Join(
		checkFreeDays(t.Hydration.repo, data.Hydration),
		checkFreeDays(t.Gym.repo, data.Gym),
		checkFreeDays(t.Measurements.repo, data.Measurements),
	); err != nil {
		return ImportSummary{}, err
	}

	var (
		sum ImportSummary
		err error
	)
	if sum.Hydration, err = insertAll(t.Hydration.repo, data.Hydration); err != nil {
		return sum, err
	}
	if sum.Gym, err = insertAll(t.Gym.repo, data.Gym); err != nil {
		return sum, err
	}
	if sum.Measurements, err = insertAll(t.Measurements.repo, data.Measurements); err != nil {
		return sum, err
	}
	return sum, nil
}

func (t *Tracker) checkHydration(errs validate.Errors, name string, r *models.HydrationRecord) validate.Errors {
	if r == nil {
		return append(errs, validate.Required(name))
	}
	if r.Date.IsZero() {
		errs = append(errs, validate.Required(name+".date"))
	}
	errs = collect(errs, name, checkCupSize(r.CupSizeMl))
	r.Date = t.Calendar.StartOfDay(r.Date)
	r.CupsDrunk = t.Hydration.Clamp(r.CupsDrunk)
	fillIdentity(&r.ID, &r.CreatedAt)
	return errs
}

func (t *Tracker) checkGym(errs validate.Errors, name string, r *models.GymRecord) validate.Errors {
	if r == nil {
		return append(errs, validate.Required(name))
	}
	if r.Date.IsZero() {
		errs = append(errs, validate.Required(name+".date"))
	}
	errs = collect(errs, name, checkMuscles(r.Muscles))
	r.Date = t.Calendar.StartOfDay(r.Date)
	r.Muscles = models.CanonicalMuscles(r.Muscles)
	fillIdentity(&r.ID, &r.CreatedAt)
	return errs
}

func (t *Tracker) checkMeasurement(errs validate.Errors, name string, r *models.BodyMeasurementRecord) validate.Errors {
	if r == nil {
		return append(errs, validate.Required(name))
	}
	if r.Date.IsZero() {
		errs = append(errs, validate.Required(name+".date"))
	}
	for _, f := range models.AllMeasurementFields {
		v := r.Value(f)
		if v == nil {
			continue
		}
		if *v < 0 || math.IsNaN(*v) || math.IsInf(*v, 0) {
			errs = append(errs, &validate.FieldError{
				Field:  name + "." + string(f),
				Input:  fmt.Sprint(*v),
				Reason: "not a non-negative finite number",
			})
		}
	}
	r.Date = t.Calendar.StartOfDay(r.Date)
	fillIdentity(&r.ID, &r.CreatedAt)
	return errs
}

func fillIdentity(id *uuid.UUID, createdAt *time.Time) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	if createdAt.IsZero() {
		*createdAt = time.Now()
	}
}

// collect appends the field errors in err to errs, prefixing each field with name.
func collect(errs validate.Errors, name string, err error) validate.Errors {
	var (
		many validate.Errors
		one  *validate.FieldError
	)
	switch {
	case errors.As(err, &many):
		for _, fe := range many {
			errs = append(errs, &validate.FieldError{Field: name + "." + fe.Field, Input: fe.Input, Reason: fe.Reason})
		}
	case errors.As(err, &one):
		errs = append(errs, &validate.FieldError{Field: name + "." + one.Field, Input: one.Input, Reason: one.Reason})
	}
	return errs
}

// checkFreeDays fails for every day in recs that is already stored or listed twice.
func checkFreeDays[T models.Record, P any](repo *daybucket.Repository[T, P], recs []T) error {
	seen := make(map[string]bool, len(recs))
	var errs []error
	for _, rec := range recs {
		day := repo.Calendar().FormatDay(rec.RecordDate())
		if seen[day] {
			errs = append(errs, fmt.Errorf("%s %s listed twice: %w", repo.Domain(), day, daybucket.ErrDayOccupied))
			continue
		}
		seen[day] = true

		_, found, err := repo.FetchForDay(rec.RecordDate())
		if err != nil {
			return err
		}
		if found {
			errs = append(errs, fmt.Errorf("%s %s: %w", repo.Domain(), day, daybucket.ErrDayOccupied))
		}
	}
	return errors.Join(errs...)
}

func insertAll[T models.Record, P any](repo *daybucket.Repository[T, P], recs []T) (int, error) {
	for i, rec := range recs {
		if err := repo.Insert(rec); err != nil {
			return i, err
		}
	}
	return len(recs), nil
}
