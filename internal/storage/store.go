// ABOUTME: Record store contract: insert, update, delete and predicate/sort/limit fetch.
// ABOUTME: Every backend (SQL, Badger, Charm, memory) implements Store for each record type.
package storage

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/healthlife/internal/models"
)

// ErrNotFound is returned when a record or key does not exist.
var ErrNotFound = errors.New("not found")

// SortOrder selects the direction records are returned in.
type SortOrder int

const (
	// Descending returns the latest day first.
	Descending SortOrder = iota
	// Ascending returns the earliest day first.
	Ascending
)

// Query selects records from a Store.
// Zero values mean "no constraint".
type Query struct {
	// From and Until bound the record date to [From, Until).
	From  time.Time
	Until time.Time
	// ExcludeID skips the record with this ID.
	ExcludeID uuid.UUID
	Order     SortOrder
	Limit     int
}

// Matches reports whether r satisfies the predicate part of q.
func (q Query) Matches(r models.Record) bool {
	d := r.RecordDate()
	if !q.From.IsZero() && d.Before(q.From) {
		return false
	}
	if !q.Until.IsZero() && !d.Before(q.Until) {
		return false
	}
	if q.ExcludeID != uuid.Nil && r.RecordID() == q.ExcludeID {
		return false
	}
	return true
}

// Store persists one record type.
type Store[T models.Record] interface {
	Insert(rec T) error
	// Update overwrites the stored record with the same ID. Returns ErrNotFound if absent.
	Update(rec T) error
	// Delete removes the record with rec's ID. Returns ErrNotFound if absent.
	Delete(rec T) error
	// Fetch returns matching records ordered by date, then creation instant, then ID.
	Fetch(q Query) ([]T, error)
}

// CredentialStore persists user credentials keyed by username.
type CredentialStore interface {
	PutCredential(c *models.UserCredential) error
	GetCredential(username string) (*models.UserCredential, error)
	DeleteCredential(username string) error
	ListCredentials() ([]*models.UserCredential, error)
}

// Backend bundles the stores for every tracked domain.
type Backend interface {
	Hydration() Store[*models.HydrationRecord]
	Gym() Store[*models.GymRecord]
	Measurements() Store[*models.BodyMeasurementRecord]
	Credentials() CredentialStore
	Close() error
}

// SortRecords orders records by date, creation instant and ID in the given direction.
// Instants are compared at millisecond precision, the resolution backends persist.
func SortRecords[T models.Record](records []T, order SortOrder) {
	slices.SortStableFunc(records, func(a, b T) int {
		c := compareRecords(a, b)
		if order == Descending {
			return -c
		}
		return c
	})
}

func compareRecords(a, b models.Record) int {
	if c := cmpInt64(a.RecordDate().UnixMilli(), b.RecordDate().UnixMilli()); c != 0 {
		return c
	}
	if c := cmpInt64(a.RecordCreatedAt().UnixMilli(), b.RecordCreatedAt().UnixMilli()); c != 0 {
		return c
	}
	return strings.Compare(a.RecordID().String(), b.RecordID().String())
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// ApplyQuery filters, sorts and limits records in memory.
// KV backends use it since they have no query engine.
func ApplyQuery[T models.Record](records []T, q Query) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if q.Matches(r) {
			out = append(out, r)
		}
	}
	SortRecords(out, q.Order)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}
