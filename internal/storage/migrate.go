// ABOUTME: Data migration between storage backends.
// ABOUTME: Copies hydration, gym, measurement and credential records from source to destination.
package storage

import (
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Hydration    int
	Gym          int
	Measurements int
	Credentials  int
}

// MigrateData copies all data from src to dst.
// Records keep their IDs, days and creation instants. The destination
// should be empty before calling this function.
func MigrateData(src, dst Backend) (*MigrateSummary, error) {
	summary := &MigrateSummary{}
	all := Query{Order: Ascending}

	hydration, err := src.Hydration().Fetch(all)
	if err != nil {
		return nil, fmt.Errorf("list source hydration: %w", err)
	}
	for _, r := range hydration {
		if err := dst.Hydration().Insert(r); err != nil {
			return nil, fmt.Errorf("create hydration %s: %w", r.ID, err)
		}
		summary.Hydration++
	}

	gym, err := src.Gym().Fetch(all)
	if err != nil {
		return nil, fmt.Errorf("list source gym: %w", err)
	}
	for _, r := range gym {
		if err := dst.Gym().Insert(r); err != nil {
			return nil, fmt.Errorf("create gym %s: %w", r.ID, err)
		}
		summary.Gym++
	}

	measurements, err := src.Measurements().Fetch(all)
	if err != nil {
		return nil, fmt.Errorf("list source measurements: %w", err)
	}
	for _, r := range measurements {
		if err := dst.Measurements().Insert(r); err != nil {
			return nil, fmt.Errorf("create measurement %s: %w", r.ID, err)
		}
		summary.Measurements++
	}

	creds, err := src.Credentials().ListCredentials()
	if err != nil {
		return nil, fmt.Errorf("list source credentials: %w", err)
	}
	for _, c := range creds {
		if err := dst.Credentials().PutCredential(c); err != nil {
			return nil, fmt.Errorf("create credential %s: %w", c.Username, err)
		}
		summary.Credentials++
	}

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
