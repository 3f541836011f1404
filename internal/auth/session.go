// ABOUTME: Explicit authentication state passed to the code that needs it.
// ABOUTME: Unauthenticated -> Authenticated -> Unauthenticated.
package auth

import "sync"

// State is a session's authentication state.
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Session holds who is logged in. The zero value is unauthenticated.
type Session struct {
	mu       sync.RWMutex
	state    State
	username string
	lastErr  error
}

// NewSession returns an unauthenticated session.
func NewSession() *Session {
	return &Session{}
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) IsAuthenticated() bool {
	return s.State() == Authenticated
}

// Username returns the logged-in user, or "" when unauthenticated.
func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

// Err returns the error from the last failed login, if any.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Logout returns the session to the unauthenticated state and clears the last error.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Unauthenticated
	s.username = ""
	s.lastErr = nil
}

func (s *Session) authenticate(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Authenticated
	s.username = username
	s.lastErr = nil
}

func (s *Session) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Unauthenticated
	s.username = ""
	s.lastErr = err
}
