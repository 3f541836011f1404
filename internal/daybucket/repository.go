// ABOUTME: Generic repository keeping at most one record per calendar day per domain.
// ABOUTME: Day lookups use the calendar window; upserts run fetch-then-write under one lock.
package daybucket

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/harperreed/healthlife/internal/calendar"
	"github.com/harperreed/healthlife/internal/models"
	"github.com/harperreed/healthlife/internal/storage"
)

// Binding adapts a record type and its payload to the repository.
type Binding[T models.Record, P any] struct {
	// Domain names the record namespace in errors, logs and metrics.
	Domain string
	// New builds a fresh record anchored at day from a payload.
	New func(day time.Time, payload P) T
	// Apply overwrites a record's fields from a payload.
	Apply func(rec T, payload P)
	// Clone returns an independent copy of a record.
	Clone func(rec T) T
}

// Option configures a Repository.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	recorder Recorder
}

// WithLogger sets the logger used for anomalies and failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// Repository stores records of type T updated from payloads of type P.
// It is safe for concurrent use within one process.
type Repository[T models.Record, P any] struct {
	store    storage.Store[T]
	cal      *calendar.Calendar
	binding  Binding[T, P]
	logger   *slog.Logger
	recorder Recorder

	mu sync.Mutex
}

// New creates a repository over store.
func New[T models.Record, P any](store storage.Store[T], cal *calendar.Calendar, binding Binding[T, P], opts ...Option) *Repository[T, P] {
	o := options{logger: slog.Default(), recorder: NopRecorder{}}
	for _, opt := range opts {
		opt(&o)
	}
	return &Repository[T, P]{
		store:    store,
		cal:      cal,
		binding:  binding,
		logger:   o.logger.With("domain", binding.Domain),
		recorder: o.recorder,
	}
}

// Domain returns the repository's domain name.
func (r *Repository[T, P]) Domain() string {
	return r.binding.Domain
}

// Calendar returns the calendar used for day windows.
func (r *Repository[T, P]) Calendar() *calendar.Calendar {
	return r.cal
}

// FetchForDay returns the record for the calendar day containing day.
// found is false when the day has no record. If several records share the
// day, the most recently created one is returned and the anomaly is reported.
func (r *Repository[T, P]) FetchForDay(day time.Time) (rec T, found bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fetchForDay(OpFetchForDay, day)
}

func (r *Repository[T, P]) fetchForDay(op string, day time.Time) (T, bool, error) {
	var zero T
	w, err := r.cal.Window(day)
	if err != nil {
		return zero, false, r.fail(op, err)
	}

	recs, err := r.store.Fetch(storage.Query{
		From:  w.Start,
		Until: w.End,
		Order: storage.Descending,
		Limit: 2,
	})
	if err != nil {
		return zero, false, r.storageFail(op, err)
	}

	switch len(recs) {
	case 0:
		return zero, false, nil
	case 1:
		return recs[0], true, nil
	}

	r.recorder.DuplicateDay(r.binding.Domain)
	r.logger.Warn("duplicate records for day",
		"day", r.cal.FormatDay(w.Start),
		"kept", recs[0].RecordID().String(),
		"other", recs[1].RecordID().String(),
	)
	return recs[0], true, nil
}

// FetchAllSorted returns every record, latest day first.
func (r *Repository[T, P]) FetchAllSorted() ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	recs, err := r.store.Fetch(storage.Query{Order: storage.Descending})
	if err != nil {
		return nil, r.storageFail(OpFetchAll, err)
	}
	return recs, nil
}

// UpsertForDay writes payload to the day's record, creating it if absent.
// It returns the stored record.
func (r *Repository[T, P]) UpsertForDay(day time.Time, payload P) (T, error) {
	return r.UpsertForDayFunc(day, func(T, bool) (P, error) {
		return payload, nil
	})
}

// UpsertForDayFunc computes the payload from the day's current record and
// writes it, all under the repository lock. If fn returns ErrSkip nothing is
// written and the current record (zero if none) is returned. Any other error
// from fn is returned unchanged.
func (r *Repository[T, P]) UpsertForDayFunc(day time.Time, fn func(current T, found bool) (P, error)) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero T
	current, found, err := r.fetchForDay(OpUpsert, day)
	if err != nil {
		return zero, err
	}

	payload, err := fn(current, found)
	if errors.Is(err, ErrSkip) {
		return current, nil
	}
	if err != nil {
		return zero, err
	}

	if found {
		r.binding.Apply(current, payload)
		if err := r.store.Update(current); err != nil {
			return zero, r.storageFail(OpUpsert, err)
		}
		r.recorder.Upserted(r.binding.Domain, false)
		r.logger.Debug("updated day record", "id", current.RecordID().String())
		return current, nil
	}

	start := r.cal.StartOfDay(day)
	rec := r.binding.New(start, payload)
	if err := r.store.Insert(rec); err != nil {
		return zero, r.storageFail(OpUpsert, err)
	}
	r.recorder.Upserted(r.binding.Domain, true)
	r.logger.Debug("created day record", "id", rec.RecordID().String(), "day", r.cal.FormatDay(start))
	return rec, nil
}

// Update applies payload to a record the caller already holds and persists it.
// The record's day is left unchanged. rec is only modified once the write succeeds.
func (r *Repository[T, P]) Update(rec T, payload P) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.binding.Clone(rec)
	r.binding.Apply(next, payload)
	if err := r.store.Update(next); err != nil {
		return r.storageFail(OpUpdate, err)
	}
	r.binding.Apply(rec, payload)
	return nil
}

// Insert stores a complete record as the only record of its day. The record's
// date must be local midnight and the day must not already hold a record.
func (r *Repository[T, P]) Insert(rec T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	day := rec.RecordDate()
	if !r.cal.StartOfDay(day).Equal(day) {
		return r.fail(OpInsert, fmt.Errorf("%w: %s", ErrNotDayStart, day.Format(time.RFC3339)))
	}
	if _, found, err := r.fetchForDay(OpInsert, day); err != nil {
		return err
	} else if found {
		return r.fail(OpInsert, fmt.Errorf("%w: %s", ErrDayOccupied, r.cal.FormatDay(day)))
	}
	if err := r.store.Insert(rec); err != nil {
		return r.storageFail(OpInsert, err)
	}
	r.recorder.Upserted(r.binding.Domain, true)
	return nil
}

// Delete removes rec.
func (r *Repository[T, P]) Delete(rec T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Delete(rec); err != nil {
		return r.storageFail(OpDelete, err)
	}
	return nil
}

// DeleteAll removes every record one at a time and returns how many were
// removed. It stops at the first failure; records already removed stay removed.
func (r *Repository[T, P]) DeleteAll() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	recs, err := r.store.Fetch(storage.Query{Order: storage.Descending})
	if err != nil {
		return 0, r.storageFail(OpDeleteAll, err)
	}
	for i, rec := range recs {
		if err := r.store.Delete(rec); err != nil {
			return i, r.storageFail(OpDeleteAll, err)
		}
	}
	return len(recs), nil
}

// DayGroup is a calendar day holding more than one record.
type DayGroup[T models.Record] struct {
	Day     time.Time
	Records []T
}

// Duplicates scans all records and returns the days holding more than one,
// latest day first. Records within a group are most recent first.
func (r *Repository[T, P]) Duplicates() ([]DayGroup[T], error) {
	recs, err := r.FetchAllSorted()
	if err != nil {
		return nil, err
	}

	var groups []DayGroup[T]
	for i := 0; i < len(recs); {
		day := r.cal.StartOfDay(recs[i].RecordDate())
		j := i + 1
		for j < len(recs) && r.cal.StartOfDay(recs[j].RecordDate()).Equal(day) {
			j++
		}
		if j-i > 1 {
			groups = append(groups, DayGroup[T]{Day: day, Records: recs[i:j]})
		}
		i = j
	}
	return groups, nil
}

func (r *Repository[T, P]) fail(op string, err error) error {
	return &OpError{Op: op, Domain: r.binding.Domain, Err: err}
}

func (r *Repository[T, P]) storageFail(op string, err error) error {
	r.recorder.StorageFailure(r.binding.Domain, op)
	r.logger.Error("storage operation failed", "op", op, "error", err)
	return r.fail(op, storageErr(err))
}
