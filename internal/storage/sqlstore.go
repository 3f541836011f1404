// ABOUTME: Generic SQL implementation of Store shared by every record table.
// ABOUTME: Fetch pushes the date range, exclusion, ordering and limit into SQL.
package storage

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/healthlife/internal/models"
)

// SQLStore implements Store for one table.
type SQLStore[T models.Record] struct {
	db    *DB
	table sqlTable[T]
}

// Insert stores a new record.
func (s *SQLStore[T]) Insert(rec T) error {
	vals, err := s.table.values(rec)
	if err != nil {
		return fmt.Errorf("insert %s: %w", s.table.name, err)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(s.table.columns)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.table.name, strings.Join(s.table.columns, ", "), placeholders)

	if _, err := s.db.db.Exec(s.db.rebind(query), vals...); err != nil {
		return fmt.Errorf("insert %s: %w", s.table.name, err)
	}
	return nil
}

// Update overwrites every column of the record with rec's ID.
func (s *SQLStore[T]) Update(rec T) error {
	vals, err := s.table.values(rec)
	if err != nil {
		return fmt.Errorf("update %s: %w", s.table.name, err)
	}
	sets := make([]string, 0, len(s.table.columns)-1)
	for _, col := range s.table.columns[1:] {
		sets = append(sets, col+" = ?")
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", s.table.name, strings.Join(sets, ", "))
	args := make([]any, 0, len(vals))
	args = append(args, vals[1:]...)
	args = append(args, vals[0])

	result, err := s.db.db.Exec(s.db.rebind(query), args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", s.table.name, err)
	}
	return checkAffected(result.RowsAffected, "update", s.table.name, rec)
}

// Delete removes the record with rec's ID.
func (s *SQLStore[T]) Delete(rec T) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.table.name)
	result, err := s.db.db.Exec(s.db.rebind(query), rec.RecordID().String())
	if err != nil {
		return fmt.Errorf("delete %s: %w", s.table.name, err)
	}
	return checkAffected(result.RowsAffected, "delete", s.table.name, rec)
}

// Fetch returns records matching q.
// A row that cannot be decoded fails the whole fetch rather than being skipped.
func (s *SQLStore[T]) Fetch(q Query) ([]T, error) {
	var (
		where []string
		args  []any
	)
	if !q.From.IsZero() {
		where = append(where, "day >= ?")
		args = append(args, toMillis(q.From))
	}
	if !q.Until.IsZero() {
		where = append(where, "day < ?")
		args = append(args, toMillis(q.Until))
	}
	if q.ExcludeID != uuid.Nil {
		where = append(where, "id <> ?")
		args = append(args, q.ExcludeID.String())
	}

	dir := "DESC"
	if q.Order == Ascending {
		dir = "ASC"
	}

	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(s.table.columns, ", "), s.table.name)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY day %s, created_at %s, id %s", dir, dir, dir)
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := s.db.db.Query(s.db.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.table.name, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		rec, err := s.table.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table.name, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.table.name, err)
	}
	return out, nil
}

func checkAffected(affected func() (int64, error), op, table string, rec models.Record) error {
	n, err := affected()
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, table, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s %s: %w", op, table, rec.RecordID(), ErrNotFound)
	}
	return nil
}
