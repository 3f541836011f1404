// ABOUTME: Typed errors for day-bucketed repository operations.
// ABOUTME: OpError names the failed operation; ErrStorage marks persistence faults.
package daybucket

import (
	"errors"
	"fmt"
)

// ErrSkip may be returned by an UpsertForDayFunc callback to leave the day unchanged.
var ErrSkip = errors.New("skip write")

// ErrDayOccupied is returned by Insert when the day already has a record.
var ErrDayOccupied = errors.New("day already has a record")

// ErrNotDayStart is returned by Insert for a date that is not local midnight.
var ErrNotDayStart = errors.New("date is not the start of a day")

// ErrStorage is matched by every failure that came from the record store.
var ErrStorage = errors.New("storage failure")

// Operation names used in OpError.
const (
	OpFetchForDay = "fetch_for_day"
	OpFetchAll    = "fetch_all"
	OpUpsert      = "upsert"
	OpUpdate      = "update"
	OpInsert      = "insert"
	OpDelete      = "delete"
	OpDeleteAll   = "delete_all"
)

// OpError reports which repository operation failed and for which domain.
type OpError struct {
	Op     string
	Domain string
	Err    error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Domain, e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %w", ErrStorage, err)
}
