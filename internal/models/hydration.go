// ABOUTME: Hydration record model: cups of water drunk on one calendar day.
// ABOUTME: Cup size is stored per record so history keeps the size in effect that day.
package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCupSizeMl is the cup size used when a day has no record yet.
const DefaultCupSizeMl = 450

// HydrationRecord holds one day's water intake.
type HydrationRecord struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	Date      time.Time `json:"date" yaml:"date"`
	CupsDrunk int       `json:"cups_drunk" yaml:"cups_drunk"`
	CupSizeMl int       `json:"cup_size_ml" yaml:"cup_size_ml"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewHydrationRecord creates a record anchored at day with a fresh UUID.
func NewHydrationRecord(day time.Time, cups, cupSizeMl int) *HydrationRecord {
	return &HydrationRecord{
		ID:        uuid.New(),
		Date:      day,
		CupsDrunk: cups,
		CupSizeMl: cupSizeMl,
		CreatedAt: time.Now(),
	}
}

func (r *HydrationRecord) RecordID() uuid.UUID        { return r.ID }
func (r *HydrationRecord) RecordDate() time.Time      { return r.Date }
func (r *HydrationRecord) RecordCreatedAt() time.Time { return r.CreatedAt }

// Clone returns a copy of r.
func (r *HydrationRecord) Clone() *HydrationRecord {
	c := *r
	return &c
}

// TotalMl returns the volume drunk in milliliters.
func (r *HydrationRecord) TotalMl() int {
	return r.CupsDrunk * r.CupSizeMl
}
