// ABOUTME: Credential persistence for the SQL backends.
// ABOUTME: Username is the primary key; Put is an upsert.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/healthlife/internal/models"
)

type sqlCredentials struct {
	db *DB
}

// PutCredential inserts or replaces the credential for c.Username.
func (s *sqlCredentials) PutCredential(c *models.UserCredential) error {
	query := `
		INSERT INTO credentials (username, password_hash, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (username) DO UPDATE SET
			password_hash = excluded.password_hash,
			created_at = excluded.created_at
	`
	if _, err := s.db.db.Exec(s.db.rebind(query), c.Username, c.PasswordHash, toMillis(c.CreatedAt)); err != nil {
		return fmt.Errorf("put credential: %w", err)
	}
	return nil
}

// GetCredential returns the credential for username.
func (s *sqlCredentials) GetCredential(username string) (*models.UserCredential, error) {
	query := `SELECT username, password_hash, created_at FROM credentials WHERE username = ?`
	c, err := scanCredential(s.db.db.QueryRow(s.db.rebind(query), username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("credential %s: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get credential: %w", err)
	}
	return c, nil
}

// DeleteCredential removes the credential for username.
func (s *sqlCredentials) DeleteCredential(username string) error {
	result, err := s.db.db.Exec(s.db.rebind("DELETE FROM credentials WHERE username = ?"), username)
	if err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("credential %s: %w", username, ErrNotFound)
	}
	return nil
}

// ListCredentials returns every credential ordered by username.
func (s *sqlCredentials) ListCredentials() ([]*models.UserCredential, error) {
	rows, err := s.db.db.Query(`SELECT username, password_hash, created_at FROM credentials ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	var out []*models.UserCredential
	for rows.Next() {
		c, err := scanCredential(rows)
		if err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCredential(s rowScanner) (*models.UserCredential, error) {
	var (
		c         models.UserCredential
		createdAt int64
	)
	if err := s.Scan(&c.Username, &c.PasswordHash, &createdAt); err != nil {
		return nil, err
	}
	c.CreatedAt = fromMillis(createdAt)
	return &c, nil
}
