package auth

import (
	"testing"

	"github.com/harperreed/healthlife/internal/storage"
	"github.com/harperreed/healthlife/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) (*Service, storage.CredentialStore) {
	t.Helper()
	creds := storage.NewMemoryBackend().Credentials()
	return NewService(creds).WithCost(bcrypt.MinCost), creds
}

func TestRegisterStoresHashOnly(t *testing.T) {
	svc, creds := newTestService(t)

	cred, err := svc.Register("  Alice  ", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Alice", cred.Username)
	assert.NotEqual(t, "secret", cred.PasswordHash)

	stored, err := creds.GetCredential("Alice")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret")))
}

func TestRegisterRejectsDuplicatesAndBlanks(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register("bob", "pw")
	require.NoError(t, err)

	_, err = svc.Register(" bob ", "other")
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = svc.Register("   ", "")
	assert.ErrorIs(t, err, validate.ErrValidation)
	assert.Contains(t, err.Error(), "username: required")
	assert.Contains(t, err.Error(), "password: required")
}

func TestLoginLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Register("Carol", "pw")
	require.NoError(t, err)

	session := NewSession()
	assert.Equal(t, Unauthenticated, session.State())
	assert.Empty(t, session.Username())

	err = svc.Login(session, "Carol", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, session.IsAuthenticated())
	assert.ErrorIs(t, session.Err(), ErrInvalidCredentials)

	require.NoError(t, svc.Login(session, "   Carol  ", "pw"))
	assert.True(t, session.IsAuthenticated())
	assert.Equal(t, "Carol", session.Username())
	assert.NoError(t, session.Err())

	session.Logout()
	assert.Equal(t, Unauthenticated, session.State())
	assert.Empty(t, session.Username())
	assert.NoError(t, session.Err())
}

func TestVerifyUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Verify("nobody", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePasswordAndRemove(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Register("dan", "old")
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword("dan", "old", "new"))
	_, err = svc.Verify("dan", "old")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Verify("dan", "new")
	require.NoError(t, err)

	users, err := svc.Users()
	require.NoError(t, err)
	assert.Equal(t, []string{"dan"}, users)

	assert.ErrorIs(t, svc.Remove("dan", "old"), ErrInvalidCredentials)
	require.NoError(t, svc.Remove("dan", "new"))

	users, err = svc.Users()
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "authenticated", Authenticated.String())
	assert.Equal(t, "unauthenticated", Unauthenticated.String())
}
