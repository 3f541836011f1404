package daybucket

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/harperreed/healthlife/internal/calendar"
	"github.com/harperreed/healthlife/internal/models"
	"github.com/harperreed/healthlife/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cupsPayload struct {
	Cups    int
	CupSize int
}

var hydrationBinding = Binding[*models.HydrationRecord, cupsPayload]{
	Domain: "hydration",
	New: func(day time.Time, p cupsPayload) *models.HydrationRecord {
		return models.NewHydrationRecord(day, p.Cups, p.CupSize)
	},
	Apply: func(r *models.HydrationRecord, p cupsPayload) {
		r.CupsDrunk = p.Cups
		r.CupSizeMl = p.CupSize
	},
	Clone: (*models.HydrationRecord).Clone,
}

type countingRecorder struct {
	mu         sync.Mutex
	duplicates int
	failures   []string
	created    int
	updated    int
}

func (c *countingRecorder) DuplicateDay(string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.duplicates++
}

func (c *countingRecorder) StorageFailure(_, op string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures = append(c.failures, op)
}

func (c *countingRecorder) Upserted(_ string, created bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if created {
		c.created++
	} else {
		c.updated++
	}
}

// failingStore fails every call after wrapping a working store.
type failingStore struct {
	storage.Store[*models.HydrationRecord]
	failFetch  bool
	failWrite  bool
	deletesMax int
	deletes    int
}

var errDisk = errors.New("disk on fire")

func (f *failingStore) Fetch(q storage.Query) ([]*models.HydrationRecord, error) {
	if f.failFetch {
		return nil, errDisk
	}
	return f.Store.Fetch(q)
}

func (f *failingStore) Insert(r *models.HydrationRecord) error {
	if f.failWrite {
		return errDisk
	}
	return f.Store.Insert(r)
}

func (f *failingStore) Update(r *models.HydrationRecord) error {
	if f.failWrite {
		return errDisk
	}
	return f.Store.Update(r)
}

func (f *failingStore) Delete(r *models.HydrationRecord) error {
	if f.deletesMax > 0 && f.deletes >= f.deletesMax {
		return errDisk
	}
	f.deletes++
	return f.Store.Delete(r)
}

func newTestRepo(t *testing.T, loc *time.Location) (*Repository[*models.HydrationRecord, cupsPayload], storage.Store[*models.HydrationRecord], *countingRecorder) {
	t.Helper()
	store := storage.NewMemoryBackend().Hydration()
	rec := &countingRecorder{}
	repo := New(store, calendar.New(loc), hydrationBinding, WithRecorder(rec))
	return repo, store, rec
}

func TestUpsertForDayIsIdempotent(t *testing.T) {
	repo, _, rec := newTestRepo(t, time.UTC)
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	_, err := repo.UpsertForDay(day, cupsPayload{Cups: 3, CupSize: 450})
	require.NoError(t, err)
	_, err = repo.UpsertForDay(day.Add(15*time.Hour), cupsPayload{Cups: 4, CupSize: 450})
	require.NoError(t, err)

	got, found, err := repo.FetchForDay(day)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 4, got.CupsDrunk)
	assert.Equal(t, 450, got.CupSizeMl)
	assert.True(t, got.Date.Equal(day), "record anchored at start of day")

	all, err := repo.FetchAllSorted()
	require.NoError(t, err)
	assert.Len(t, all, 1)

	assert.Equal(t, 1, rec.created)
	assert.Equal(t, 1, rec.updated)
}

func TestFetchForDayWindow(t *testing.T) {
	repo, _, _ := newTestRepo(t, time.UTC)
	day := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	created, err := repo.UpsertForDay(day.Add(9*time.Hour), cupsPayload{Cups: 2, CupSize: 450})
	require.NoError(t, err)

	for _, offset := range []time.Duration{0, time.Hour, 12 * time.Hour, 24*time.Hour - time.Millisecond} {
		got, found, err := repo.FetchForDay(day.Add(offset))
		require.NoError(t, err)
		require.True(t, found, "offset %s", offset)
		assert.Equal(t, created.ID, got.ID)
	}

	for _, other := range []time.Time{day.AddDate(0, 0, -1), day.AddDate(0, 0, 1), day.Add(24 * time.Hour)} {
		_, found, err := repo.FetchForDay(other)
		require.NoError(t, err)
		assert.False(t, found, "no leakage into %s", other)
	}
}

func TestFetchForDayAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	repo, _, _ := newTestRepo(t, ny)

	// 2024-03-10 is 23 hours long in New York.
	morning := time.Date(2024, 3, 10, 0, 30, 0, 0, ny)
	night := time.Date(2024, 3, 10, 23, 30, 0, 0, ny)

	_, err = repo.UpsertForDay(morning, cupsPayload{Cups: 1, CupSize: 450})
	require.NoError(t, err)
	_, err = repo.UpsertForDay(night, cupsPayload{Cups: 5, CupSize: 450})
	require.NoError(t, err)

	all, err := repo.FetchAllSorted()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 5, all[0].CupsDrunk)

	_, found, err := repo.FetchForDay(time.Date(2024, 3, 11, 0, 10, 0, 0, ny))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFetchAllSortedDescending(t *testing.T) {
	repo, _, _ := newTestRepo(t, time.UTC)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for _, n := range []int{3, 0, 7, 1} {
		_, err := repo.UpsertForDay(base.AddDate(0, 0, n), cupsPayload{Cups: n, CupSize: 450})
		require.NoError(t, err)
	}

	all, err := repo.FetchAllSorted()
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.True(t, all[i-1].Date.After(all[i].Date), "strictly descending at %d", i)
	}
	assert.Equal(t, 7, all[0].CupsDrunk)
}

func TestDuplicateDayResolvesToMostRecent(t *testing.T) {
	repo, store, rec := newTestRepo(t, time.UTC)
	day := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)

	older := models.NewHydrationRecord(day, 1, 450)
	older.CreatedAt = day.Add(time.Hour)
	newer := models.NewHydrationRecord(day, 9, 450)
	newer.CreatedAt = day.Add(2 * time.Hour)
	require.NoError(t, store.Insert(newer))
	require.NoError(t, store.Insert(older))

	for i := 0; i < 3; i++ {
		got, found, err := repo.FetchForDay(day)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, newer.ID, got.ID, "tie-break must be reproducible")
	}
	assert.Equal(t, 3, rec.duplicates)

	// Upsert touches only the winner.
	_, err := repo.UpsertForDay(day, cupsPayload{Cups: 4, CupSize: 450})
	require.NoError(t, err)
	all, err := store.Fetch(storage.Query{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, r := range all {
		if r.ID == newer.ID {
			assert.Equal(t, 4, r.CupsDrunk)
		} else {
			assert.Equal(t, 1, r.CupsDrunk)
		}
	}

	groups, err := repo.Duplicates()
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.True(t, groups[0].Day.Equal(day))
	assert.Len(t, groups[0].Records, 2)
}

func TestStorageFailuresPropagate(t *testing.T) {
	fs := &failingStore{Store: storage.NewMemoryBackend().Hydration()}
	rec := &countingRecorder{}
	repo := New[*models.HydrationRecord, cupsPayload](fs, calendar.New(time.UTC), hydrationBinding, WithRecorder(rec))
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	fs.failFetch = true
	_, _, err := repo.FetchForDay(day)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, errDisk)
	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, OpFetchForDay, opErr.Op)
	assert.Equal(t, "hydration", opErr.Domain)

	_, err = repo.FetchAllSorted()
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, OpFetchAll, opErr.Op)

	fs.failFetch = false
	fs.failWrite = true
	_, err = repo.UpsertForDay(day, cupsPayload{Cups: 1, CupSize: 450})
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, OpUpsert, opErr.Op)
	assert.ErrorIs(t, err, ErrStorage)

	all, err := fs.Store.Fetch(storage.Query{})
	require.NoError(t, err)
	assert.Empty(t, all, "failed insert leaves storage unchanged")

	assert.Equal(t, []string{OpFetchForDay, OpFetchAll, OpUpsert}, rec.failures)
}

func TestUpdateAndDeleteMissingRecord(t *testing.T) {
	repo, _, _ := newTestRepo(t, time.UTC)
	ghost := models.NewHydrationRecord(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 1, 450)

	err := repo.Update(ghost, cupsPayload{Cups: 2, CupSize: 450})
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, err, ErrStorage)

	err = repo.Delete(ghost)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateKeepsDay(t *testing.T) {
	repo, store, _ := newTestRepo(t, time.UTC)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r, err := repo.UpsertForDay(day, cupsPayload{Cups: 1, CupSize: 450})
	require.NoError(t, err)

	require.NoError(t, repo.Update(r, cupsPayload{Cups: 6, CupSize: 300}))

	all, err := store.Fetch(storage.Query{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 6, all[0].CupsDrunk)
	assert.Equal(t, 300, all[0].CupSizeMl)
	assert.True(t, all[0].Date.Equal(day))
}

func TestCalendarArithmeticFailure(t *testing.T) {
	repo, _, _ := newTestRepo(t, time.UTC)
	edge := time.Date(9999, 12, 31, 12, 0, 0, 0, time.UTC)

	_, _, err := repo.FetchForDay(edge)
	require.Error(t, err)
	assert.ErrorIs(t, err, calendar.ErrArithmetic)
	assert.NotErrorIs(t, err, ErrStorage)

	_, err = repo.UpsertForDay(edge, cupsPayload{Cups: 1, CupSize: 450})
	assert.ErrorIs(t, err, calendar.ErrArithmetic)
}

func TestUpsertForDayFuncErrorWritesNothing(t *testing.T) {
	repo, store, _ := newTestRepo(t, time.UTC)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rejected := errors.New("rejected")

	_, err := repo.UpsertForDayFunc(day, func(*models.HydrationRecord, bool) (cupsPayload, error) {
		return cupsPayload{}, rejected
	})
	assert.Same(t, rejected, err)

	all, err := store.Fetch(storage.Query{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestConcurrentUpsertsKeepOneRecord(t *testing.T) {
	repo, store, _ := newTestRepo(t, time.UTC)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.UpsertForDayFunc(day, func(cur *models.HydrationRecord, found bool) (cupsPayload, error) {
				if !found {
					return cupsPayload{Cups: 1, CupSize: 450}, nil
				}
				return cupsPayload{Cups: cur.CupsDrunk + 1, CupSize: cur.CupSizeMl}, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := store.Fetch(storage.Query{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 50, all[0].CupsDrunk)
}

func TestDeleteAll(t *testing.T) {
	fs := &failingStore{Store: storage.NewMemoryBackend().Hydration()}
	repo := New[*models.HydrationRecord, cupsPayload](fs, calendar.New(time.UTC), hydrationBinding)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		_, err := repo.UpsertForDay(base.AddDate(0, 0, i), cupsPayload{Cups: i, CupSize: 450})
		require.NoError(t, err)
	}

	fs.deletesMax = 2
	n, err := repo.DeleteAll()
	assert.Equal(t, 2, n)
	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, OpDeleteAll, opErr.Op)

	fs.deletesMax = 0
	n, err = repo.DeleteAll()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := repo.FetchAllSorted()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpsertForDayFuncSkip(t *testing.T) {
	repo, store, rec := newTestRepo(t, time.UTC)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	got, err := repo.UpsertForDayFunc(day, func(*models.HydrationRecord, bool) (cupsPayload, error) {
		return cupsPayload{}, ErrSkip
	})
	require.NoError(t, err)
	assert.Nil(t, got)

	existing, err := repo.UpsertForDay(day, cupsPayload{Cups: 2, CupSize: 450})
	require.NoError(t, err)
	got, err = repo.UpsertForDayFunc(day, func(*models.HydrationRecord, bool) (cupsPayload, error) {
		return cupsPayload{}, ErrSkip
	})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, got.ID)

	all, err := store.Fetch(storage.Query{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, 1, rec.created)
	assert.Equal(t, 0, rec.updated)
}

func TestFailedUpdateLeavesRecordUnchanged(t *testing.T) {
	fs := &failingStore{Store: storage.NewMemoryBackend().Hydration()}
	repo := New[*models.HydrationRecord, cupsPayload](fs, calendar.New(time.UTC), hydrationBinding)
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	r, err := repo.UpsertForDay(day, cupsPayload{Cups: 3, CupSize: 450})
	require.NoError(t, err)

	fs.failWrite = true
	err = repo.Update(r, cupsPayload{Cups: 9, CupSize: 200})
	require.ErrorIs(t, err, ErrStorage)
	assert.Equal(t, 3, r.CupsDrunk)
	assert.Equal(t, 450, r.CupSizeMl)

	fs.failWrite = false
	require.NoError(t, repo.Update(r, cupsPayload{Cups: 9, CupSize: 200}))
	assert.Equal(t, 9, r.CupsDrunk)
	assert.Equal(t, 200, r.CupSizeMl)
}

func TestInsertRequiresFreeDayStart(t *testing.T) {
	repo, store, rec := newTestRepo(t, time.UTC)
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Insert(models.NewHydrationRecord(day, 2, 450)))
	assert.Equal(t, 1, rec.created)

	err := repo.Insert(models.NewHydrationRecord(day, 5, 450))
	assert.ErrorIs(t, err, ErrDayOccupied)
	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, OpInsert, opErr.Op)

	err = repo.Insert(models.NewHydrationRecord(day.AddDate(0, 0, 1).Add(15*time.Hour), 1, 450))
	assert.ErrorIs(t, err, ErrNotDayStart)

	all, err := store.Fetch(storage.Query{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 2, all[0].CupsDrunk)
}
