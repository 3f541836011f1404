// ABOUTME: Column mappings between record types and their SQL tables.
// ABOUTME: Instants are stored as Unix milliseconds; muscles as a JSON array.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/healthlife/internal/models"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// sqlTable describes how one record type maps onto a table.
// The first three columns are always id, day, created_at.
type sqlTable[T models.Record] struct {
	name    string
	columns []string
	values  func(T) ([]any, error)
	scan    func(rowScanner) (T, error)
}

var hydrationTable = sqlTable[*models.HydrationRecord]{
	name:    "hydration_records",
	columns: []string{"id", "day", "created_at", "cups_drunk", "cup_size_ml"},
	values: func(r *models.HydrationRecord) ([]any, error) {
		return []any{r.ID.String(), toMillis(r.Date), toMillis(r.CreatedAt), r.CupsDrunk, r.CupSizeMl}, nil
	},
	scan: func(s rowScanner) (*models.HydrationRecord, error) {
		var (
			r              models.HydrationRecord
			idStr          string
			day, createdAt int64
		)
		if err := s.Scan(&idStr, &day, &createdAt, &r.CupsDrunk, &r.CupSizeMl); err != nil {
			return nil, err
		}
		if err := fillIdentity(&r.ID, &r.Date, &r.CreatedAt, idStr, day, createdAt); err != nil {
			return nil, err
		}
		return &r, nil
	},
}

var gymTable = sqlTable[*models.GymRecord]{
	name:    "gym_records",
	columns: []string{"id", "day", "created_at", "muscles"},
	values: func(r *models.GymRecord) ([]any, error) {
		muscles := r.Muscles
		if muscles == nil {
			muscles = []models.Muscle{}
		}
		data, err := json.Marshal(muscles)
		if err != nil {
			return nil, fmt.Errorf("encode muscles: %w", err)
		}
		return []any{r.ID.String(), toMillis(r.Date), toMillis(r.CreatedAt), string(data)}, nil
	},
	scan: func(s rowScanner) (*models.GymRecord, error) {
		var (
			r              models.GymRecord
			idStr, raw     string
			day, createdAt int64
		)
		if err := s.Scan(&idStr, &day, &createdAt, &raw); err != nil {
			return nil, err
		}
		if err := fillIdentity(&r.ID, &r.Date, &r.CreatedAt, idStr, day, createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(raw), &r.Muscles); err != nil {
			return nil, fmt.Errorf("decode muscles for %s: %w", idStr, err)
		}
		return &r, nil
	},
}

var measurementTable = sqlTable[*models.BodyMeasurementRecord]{
	name: "body_measurement_records",
	columns: []string{
		"id", "day", "created_at",
		"chest", "belly", "left_arm", "right_arm", "left_leg", "right_leg", "weight",
	},
	values: func(r *models.BodyMeasurementRecord) ([]any, error) {
		return []any{
			r.ID.String(), toMillis(r.Date), toMillis(r.CreatedAt),
			nullFloat(r.Chest), nullFloat(r.Belly),
			nullFloat(r.LeftArm), nullFloat(r.RightArm),
			nullFloat(r.LeftLeg), nullFloat(r.RightLeg),
			nullFloat(r.Weight),
		}, nil
	},
	scan: func(s rowScanner) (*models.BodyMeasurementRecord, error) {
		var (
			r              models.BodyMeasurementRecord
			idStr          string
			day, createdAt int64
			vals           [7]sql.NullFloat64
		)
		if err := s.Scan(&idStr, &day, &createdAt,
			&vals[0], &vals[1], &vals[2], &vals[3], &vals[4], &vals[5], &vals[6]); err != nil {
			return nil, err
		}
		if err := fillIdentity(&r.ID, &r.Date, &r.CreatedAt, idStr, day, createdAt); err != nil {
			return nil, err
		}
		r.Chest = floatPtr(vals[0])
		r.Belly = floatPtr(vals[1])
		r.LeftArm = floatPtr(vals[2])
		r.RightArm = floatPtr(vals[3])
		r.LeftLeg = floatPtr(vals[4])
		r.RightLeg = floatPtr(vals[5])
		r.Weight = floatPtr(vals[6])
		return &r, nil
	},
}

func fillIdentity(id *uuid.UUID, date, createdAt *time.Time, idStr string, day, created int64) error {
	parsed, err := uuid.Parse(idStr)
	if err != nil {
		return fmt.Errorf("parse id %q: %w", idStr, err)
	}
	*id = parsed
	*date = fromMillis(day)
	*createdAt = fromMillis(created)
	return nil
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
