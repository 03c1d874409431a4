// Package auth keeps the operator's session. A Session is the read-only auth
// context handed to every list data source: no token, no fetch.
package auth

import (
	"log"
	"sync"
	"time"

	"staffdash/internal/domain"
)

// Session holds the bearer token and the user it belongs to
type Session struct {
	mu        sync.RWMutex
	token     string
	user      domain.User
	expiresAt time.Time
	now       func() time.Time
}

// NewSession creates an empty session
func NewSession() *Session {
	return &Session{now: time.Now}
}

// Start begins a session after login. The user returned by the server wins
// over what the token claims.
func (s *Session) Start(token string, user domain.User) {
	var expires time.Time
	if claims, err := Inspect(token); err == nil {
		expires = claims.ExpiresAt
		if user.ID == "" {
			user = claims.User()
		}
	} else {
		log.Printf("Session token is not a JWT, expiry unknown: %v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
	s.expiresAt = expires
}

// Restore resumes a persisted session. Expired or unreadable tokens are
// rejected and leave the session empty.
func (s *Session) Restore(token string) error {
	claims, err := Inspect(token)
	if err != nil {
		return err
	}
	if !claims.ExpiresAt.IsZero() && !s.now().Before(claims.ExpiresAt) {
		return domain.UnauthorizedError{Msg: "session expired"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = claims.User()
	s.expiresAt = claims.ExpiresAt
	return nil
}

// End forgets the token
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = domain.User{}
	s.expiresAt = time.Time{}
}

// HasToken reports whether a usable token is present
func (s *Session) HasToken() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return false
	}
	return s.expiresAt.IsZero() || s.now().Before(s.expiresAt)
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) User() domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

// IsAdmin reports whether the operator may add, edit and delete records
func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user.Role == domain.RoleAdmin
}
