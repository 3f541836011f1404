// ABOUTME: User credential model. Only a password hash is ever stored.
// ABOUTME: Not day-bucketed; keyed by username.
package models

import "time"

// UserCredential is a stored login.
type UserCredential struct {
	Username     string    `json:"username" yaml:"username"`
	PasswordHash string    `json:"password_hash" yaml:"password_hash"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}
