// ABOUTME: Conformance tests run against every Backend implementation.
// ABOUTME: Covers insert/update/delete, range predicates, ordering, limits and corrupt data.
package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/healthlife/internal/models"
)

var day0 = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "healthlife-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(tmpDir) })

	dbPath := filepath.Join(tmpDir, "healthlife.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func setupTestBadger(t *testing.T) *KVBackend {
	t.Helper()

	bucket, err := OpenBadgerInMemory()
	if err != nil {
		t.Fatalf("Failed to open badger: %v", err)
	}
	b := NewKVBackend(bucket)
	t.Cleanup(func() { b.Close() })
	return b
}

// backends returns a constructor for every backend that can run here.
// Postgres joins when HEALTHLIFE_TEST_DATABASE_URL is set.
func backends(t *testing.T) map[string]func(t *testing.T) Backend {
	t.Helper()
	all := map[string]func(t *testing.T) Backend{
		"sqlite": func(t *testing.T) Backend { return setupTestDB(t) },
		"memory": func(t *testing.T) Backend { return NewMemoryBackend() },
		"badger": func(t *testing.T) Backend { return setupTestBadger(t) },
	}
	if url := os.Getenv("HEALTHLIFE_TEST_DATABASE_URL"); url != "" {
		all["postgres"] = func(t *testing.T) Backend {
			db, err := OpenPostgres(url)
			if err != nil {
				t.Fatalf("Failed to open postgres: %v", err)
			}
			for _, table := range []string{"hydration_records", "gym_records", "body_measurement_records", "credentials"} {
				if _, err := db.db.Exec("DELETE FROM " + table); err != nil {
					t.Fatalf("Failed to clear %s: %v", table, err)
				}
			}
			t.Cleanup(func() { db.Close() })
			return db
		}
	}
	return all
}

func hydrationAt(day time.Time, cups int, created time.Time) *models.HydrationRecord {
	r := models.NewHydrationRecord(day, cups, models.DefaultCupSizeMl)
	r.CreatedAt = created
	return r
}

func TestInsertAndFetchHydration(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			b := open(t)
			r := hydrationAt(day0, 3, day0.Add(8*time.Hour))
			if err := b.Hydration().Insert(r); err != nil {
				t.Fatalf("Insert failed: %v", err)
			}

			got, err := b.Hydration().Fetch(Query{})
			if err != nil {
				t.Fatalf("Fetch failed: %v", err)
			}
			if len(got) != 1 {
				t.Fatalf("Expected 1 record, got %d", len(got))
			}
			if got[0].ID != r.ID {
				t.Errorf("ID mismatch: got %v, want %v", got[0].ID, r.ID)
			}
			if got[0].CupsDrunk != 3 || got[0].CupSizeMl != models.DefaultCupSizeMl {
				t.Errorf("Unexpected values: %+v", got[0])
			}
			if !got[0].Date.Equal(day0) {
				t.Errorf("Date mismatch: got %v, want %v", got[0].Date, day0)
			}
		})
	}
}

func TestFetchHalfOpenRange(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			b := open(t)
			prev := hydrationAt(day0.AddDate(0, 0, -1), 1, day0)
			today := hydrationAt(day0, 2, day0)
			next := hydrationAt(day0.AddDate(0, 0, 1), 3, day0)
			for _, r := range []*models.HydrationRecord{prev, today, next} {
				if err := b.Hydration().Insert(r); err != nil {
					t.Fatalf("Insert failed: %v", err)
				}
			}

			got, err := b.Hydration().Fetch(Query{From: day0, Until: day0.AddDate(0, 0, 1)})
			if err != nil {
				t.Fatalf("Fetch failed: %v", err)
			}
			if len(got) != 1 || got[0].ID != today.ID {
				t.Fatalf("Expected only today's record, got %d records", len(got))
			}
		})
	}
}

func TestFetchOrderingAndTieBreak(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			b := open(t)
			older := hydrationAt(day0, 1, day0.Add(time.Hour))
			newer := hydrationAt(day0, 2, day0.Add(2*time.Hour))
			earlierDay := hydrationAt(day0.AddDate(0, 0, -3), 5, day0)
			for _, r := range []*models.HydrationRecord{older, earlierDay, newer} {
				if err := b.Hydration().Insert(r); err != nil {
					t.Fatalf("Insert failed: %v", err)
				}
			}

			desc, err := b.Hydration().Fetch(Query{Order: Descending})
			if err != nil {
				t.Fatalf("Fetch failed: %v", err)
			}
			wantDesc := []uuid.UUID{newer.ID, older.ID, earlierDay.ID}
			for i, id := range wantDesc {
				if desc[i].ID != id {
					t.Errorf("Descending[%d]: got %v, want %v", i, desc[i].ID, id)
				}
			}

			asc, err := b.Hydration().Fetch(Query{Order: Ascending})
			if err != nil {
				t.Fatalf("Fetch failed: %v", err)
			}
			wantAsc := []uuid.UUID{earlierDay.ID, older.ID, newer.ID}
			for i, id := range wantAsc {
				if asc[i].ID != id {
					t.Errorf("Ascending[%d]: got %v, want %v", i, asc[i].ID, id)
				}
			}

			limited, err := b.Hydration().Fetch(Query{Order: Descending, Limit: 2})
			if err != nil {
				t.Fatalf("Fetch failed: %v", err)
			}
			if len(limited) != 2 {
				t.Errorf("Expected limit of 2, got %d", len(limited))
			}
		})
	}
}

func TestFetchExcludeID(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			b := open(t)
			a := hydrationAt(day0, 1, day0)
			c := hydrationAt(day0, 2, day0.Add(time.Minute))
			_ = b.Hydration().Insert(a)
			_ = b.Hydration().Insert(c)

			got, err := b.Hydration().Fetch(Query{ExcludeID: a.ID})
			if err != nil {
				t.Fatalf("Fetch failed: %v", err)
			}
			if len(got) != 1 || got[0].ID != c.ID {
				t.Errorf("Expected only %v, got %d records", c.ID, len(got))
			}
		})
	}
}

func TestUpdateAndDeleteMissing(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			b := open(t)
			r := hydrationAt(day0, 1, day0)

			if err := b.Hydration().Update(r); !errors.Is(err, ErrNotFound) {
				t.Errorf("Expected ErrNotFound on update, got %v", err)
			}
			if err := b.Hydration().Delete(r); !errors.Is(err, ErrNotFound) {
				t.Errorf("Expected ErrNotFound on delete, got %v", err)
			}

			if err := b.Hydration().Insert(r); err != nil {
				t.Fatalf("Insert failed: %v", err)
			}
			r.CupsDrunk = 7
			if err := b.Hydration().Update(r); err != nil {
				t.Fatalf("Update failed: %v", err)
			}
			got, _ := b.Hydration().Fetch(Query{})
			if len(got) != 1 || got[0].CupsDrunk != 7 {
				t.Errorf("Update not persisted: %+v", got)
			}

			if err := b.Hydration().Delete(r); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			got, _ = b.Hydration().Fetch(Query{})
			if len(got) != 0 {
				t.Errorf("Expected empty store after delete, got %d", len(got))
			}
		})
	}
}

func TestGymMusclesRoundTrip(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			b := open(t)
			r := models.NewGymRecord(day0, []models.Muscle{models.MuscleLegs, models.MuscleAbs})
			empty := models.NewGymRecord(day0.AddDate(0, 0, 1), nil)
			_ = b.Gym().Insert(r)
			_ = b.Gym().Insert(empty)

			got, err := b.Gym().Fetch(Query{Order: Ascending})
			if err != nil {
				t.Fatalf("Fetch failed: %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("Expected 2 records, got %d", len(got))
			}
			if len(got[0].Muscles) != 2 || got[0].Muscles[0] != models.MuscleAbs || got[0].Muscles[1] != models.MuscleLegs {
				t.Errorf("Unexpected muscles: %v", got[0].Muscles)
			}
			if len(got[1].Muscles) != 0 {
				t.Errorf("Expected no muscles, got %v", got[1].Muscles)
			}
		})
	}
}

func TestMeasurementNullableFields(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			b := open(t)
			r := models.NewBodyMeasurementRecord(day0, models.Measurements{Chest: 100, Weight: 80.5})
			r.Belly = nil
			if err := b.Measurements().Insert(r); err != nil {
				t.Fatalf("Insert failed: %v", err)
			}

			got, err := b.Measurements().Fetch(Query{})
			if err != nil {
				t.Fatalf("Fetch failed: %v", err)
			}
			if got[0].Belly != nil {
				t.Errorf("Expected nil belly, got %v", *got[0].Belly)
			}
			if got[0].Weight == nil || *got[0].Weight != 80.5 {
				t.Errorf("Weight mismatch: %v", got[0].Weight)
			}
			if got[0].LeftArm == nil || *got[0].LeftArm != 0 {
				t.Errorf("Expected zero left arm to survive, got %v", got[0].LeftArm)
			}
		})
	}
}

func TestCredentials(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			b := open(t)
			c := &models.UserCredential{Username: "harper", PasswordHash: "h1", CreatedAt: day0}
			if err := b.Credentials().PutCredential(c); err != nil {
				t.Fatalf("PutCredential failed: %v", err)
			}
			c.PasswordHash = "h2"
			if err := b.Credentials().PutCredential(c); err != nil {
				t.Fatalf("PutCredential upsert failed: %v", err)
			}

			got, err := b.Credentials().GetCredential("harper")
			if err != nil {
				t.Fatalf("GetCredential failed: %v", err)
			}
			if got.PasswordHash != "h2" {
				t.Errorf("Expected replaced hash, got %s", got.PasswordHash)
			}

			list, err := b.Credentials().ListCredentials()
			if err != nil || len(list) != 1 {
				t.Errorf("Expected 1 credential, got %d (%v)", len(list), err)
			}

			if err := b.Credentials().DeleteCredential("harper"); err != nil {
				t.Fatalf("DeleteCredential failed: %v", err)
			}
			if _, err := b.Credentials().GetCredential("harper"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestCorruptValueFailsFetch(t *testing.T) {
	bucket := NewMemoryBucket()
	b := NewKVBackend(bucket)
	_ = b.Hydration().Insert(hydrationAt(day0, 1, day0))
	_ = bucket.Set(HydrationPrefix+uuid.NewString(), []byte("{not json"))

	if _, err := b.Hydration().Fetch(Query{}); err == nil {
		t.Error("Expected decode error for corrupt value")
	}
}

func TestCorruptRowFailsFetch(t *testing.T) {
	db := setupTestDB(t)
	_, err := db.db.Exec(`INSERT INTO gym_records (id, day, created_at, muscles) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), day0.UnixMilli(), day0.UnixMilli(), "not-json")
	if err != nil {
		t.Fatalf("Raw insert failed: %v", err)
	}

	if _, err := db.Gym().Fetch(Query{}); err == nil {
		t.Error("Expected scan error for corrupt muscles column")
	}
}

func TestResolveID(t *testing.T) {
	b := NewMemoryBackend()
	r := hydrationAt(day0, 1, day0)
	_ = b.Hydration().Insert(r)

	got, err := ResolveID(b.Hydration(), models.ShortID(r.ID))
	if err != nil {
		t.Fatalf("ResolveID failed: %v", err)
	}
	if got.ID != r.ID {
		t.Errorf("ID mismatch: got %v, want %v", got.ID, r.ID)
	}

	if _, err := ResolveID(b.Hydration(), "zzzzzzzz"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	// Force a second record sharing the first character.
	other := hydrationAt(day0, 2, day0)
	other.ID = uuid.MustParse(r.ID.String()[:1] + "0000000-0000-4000-8000-000000000000")
	_ = b.Hydration().Insert(other)
	if _, err := ResolveID(b.Hydration(), r.ID.String()[:1]); !errors.Is(err, ErrAmbiguousPrefix) {
		t.Errorf("Expected ErrAmbiguousPrefix, got %v", err)
	}
}

func TestRebind(t *testing.T) {
	d := &DB{dialect: DialectPostgres}
	got := d.rebind("SELECT * FROM t WHERE a = ? AND b < ?")
	if got != "SELECT * FROM t WHERE a = $1 AND b < $2" {
		t.Errorf("Unexpected rebind: %s", got)
	}

	s := &DB{dialect: DialectSQLite}
	if s.rebind("a = ?") != "a = ?" {
		t.Error("SQLite queries should not be rewritten")
	}
}
