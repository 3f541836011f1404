// ABOUTME: Record interface shared by every day-bucketed entity.
// ABOUTME: Stores and repositories key records by ID, calendar day and creation instant.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Record is a persisted entity anchored to the start of a calendar day.
type Record interface {
	RecordID() uuid.UUID
	// RecordDate is the local midnight of the day the record belongs to.
	RecordDate() time.Time
	RecordCreatedAt() time.Time
}

// ShortID returns the 8-character ID prefix shown in listings.
func ShortID(id uuid.UUID) string {
	return id.String()[:8]
}
