// ABOUTME: Account registration and password verification with bcrypt hashes.
// ABOUTME: Only hashes reach the credential store; plaintext passwords never do.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/healthlife/internal/models"
	"github.com/harperreed/healthlife/internal/storage"
	"github.com/harperreed/healthlife/internal/validate"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials indicates that the provided username or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserExists indicates that the username is already registered.
	ErrUserExists = errors.New("user already exists")
)

// Service registers and verifies users.
type Service struct {
	creds storage.CredentialStore
	cost  int
	now   func() time.Time
}

// NewService creates a Service on creds using bcrypt.DefaultCost.
func NewService(creds storage.CredentialStore) *Service {
	return &Service{creds: creds, cost: bcrypt.DefaultCost, now: time.Now}
}

// WithCost returns a copy of s hashing at cost. Tests use bcrypt.MinCost.
func (s *Service) WithCost(cost int) *Service {
	cp := *s
	cp.cost = cost
	return &cp
}

// NormalizeUsername trims surrounding whitespace.
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

// Register stores a new user with a hashed password.
func (s *Service) Register(username, password string) (*models.UserCredential, error) {
	u := NormalizeUsername(username)
	var errs validate.Errors
	if u == "" {
		errs = append(errs, validate.Required("username"))
	}
	if password == "" {
		errs = append(errs, validate.Required("password"))
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if _, err := s.creds.GetCredential(u); err == nil {
		return nil, fmt.Errorf("register %s: %w", u, ErrUserExists)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("register %s: %w", u, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	cred := &models.UserCredential{
		Username:     u,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := s.creds.PutCredential(cred); err != nil {
		return nil, fmt.Errorf("register %s: %w", u, err)
	}
	return cred, nil
}

// Verify checks a username and password. Unknown users and wrong passwords
// both return ErrInvalidCredentials.
func (s *Service) Verify(username, password string) (string, error) {
	u := NormalizeUsername(username)
	cred, err := s.creds.GetCredential(u)
	if errors.Is(err, storage.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("verify %s: %w", u, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return u, nil
}

// Login verifies the credentials and moves session to the authenticated state.
// On failure the session records the error and stays unauthenticated.
func (s *Service) Login(session *Session, username, password string) error {
	u, err := s.Verify(username, password)
	if err != nil {
		session.fail(err)
		return err
	}
	session.authenticate(u)
	return nil
}

// ChangePassword replaces the stored hash after verifying the old password.
func (s *Service) ChangePassword(username, oldPassword, newPassword string) error {
	u, err := s.Verify(username, oldPassword)
	if err != nil {
		return err
	}
	if newPassword == "" {
		return validate.Required("password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	cred, err := s.creds.GetCredential(u)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	cred.PasswordHash = string(hash)
	return s.creds.PutCredential(cred)
}

// Remove deletes a user after verifying the password.
func (s *Service) Remove(username, password string) error {
	u, err := s.Verify(username, password)
	if err != nil {
		return err
	}
	return s.creds.DeleteCredential(u)
}

// Users lists registered usernames.
func (s *Service) Users() ([]string, error) {
	creds, err := s.creds.ListCredentials()
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	names := make([]string, len(creds))
	for i, c := range creds {
		names[i] = c.Username
	}
	return names, nil
}
