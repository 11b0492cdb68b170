package admin

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// DefaultSessionTTL is how long an admin login stays valid.
const DefaultSessionTTL = 24 * time.Hour

// SessionStore holds opaque admin session tokens server-side so a logout
// actually revokes the session.
type SessionStore interface {
	// Create mints a fresh session token.
	Create(ctx context.Context) (string, error)
	// Validate reports whether token belongs to a live session.
	Validate(ctx context.Context, token string) bool
	// Destroy revokes the session. Destroying an unknown token is not an
	// error.
	Destroy(ctx context.Context, token string) error
}

func newSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("admin: generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// MemoryStore keeps sessions in process memory. Sessions do not survive a
// restart; admins just log in again.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]time.Time
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates an in-memory session store. A zero ttl falls back
// to DefaultSessionTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &MemoryStore{
		sessions: make(map[string]time.Time),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create mints a fresh session token.
func (s *MemoryStore) Create(ctx context.Context) (string, error) {
	token, err := newSessionToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = s.now().Add(s.ttl)

	// Expired entries pile up only at admin-login rate; sweeping on create
	// keeps the map bounded without a background goroutine.
	now := s.now()
	for t, expiry := range s.sessions {
		if expiry.Before(now) {
			delete(s.sessions, t)
		}
	}
	return token, nil
}

// Validate reports whether the token belongs to a live session.
func (s *MemoryStore) Validate(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.sessions[token]
	if !ok {
		return false
	}
	if expiry.Before(s.now()) {
		delete(s.sessions, token)
		return false
	}
	return true
}

// Destroy revokes the session.
func (s *MemoryStore) Destroy(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

var _ SessionStore = (*MemoryStore)(nil)
