// ABOUTME: Resolution of full or abbreviated record IDs.
// ABOUTME: Listings show 8-character prefixes; commands accept them back.
package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/healthlife/internal/models"
)

// ErrAmbiguousPrefix is returned when an ID prefix matches more than one record.
var ErrAmbiguousPrefix = errors.New("ambiguous prefix")

// ResolveID finds the record whose ID equals or starts with idOrPrefix.
func ResolveID[T models.Record](s Store[T], idOrPrefix string) (T, error) {
	var zero T
	prefix := strings.ToLower(strings.TrimSpace(idOrPrefix))
	if prefix == "" {
		return zero, fmt.Errorf("empty id: %w", ErrNotFound)
	}

	records, err := s.Fetch(Query{})
	if err != nil {
		return zero, err
	}

	var matches []T
	for _, r := range records {
		if strings.HasPrefix(r.RecordID().String(), prefix) {
			matches = append(matches, r)
		}
	}

	switch len(matches) {
	case 0:
		return zero, fmt.Errorf("%s: %w", idOrPrefix, ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return zero, fmt.Errorf("%w %s: matches multiple records", ErrAmbiguousPrefix, idOrPrefix)
	}
}
