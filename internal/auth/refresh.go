package auth

import (
	"sync"
	"time"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/domain"
	"github.com/google/uuid"
)

const defaultRefreshTTL = 7 * 24 * time.Hour

type refreshEntry struct {
	username string
	expires  time.Time
}

// RefreshStore tracks opaque refresh tokens. Each token is single use.
type RefreshStore struct {
	mu     sync.Mutex
	tokens map[string]refreshEntry
	ttl    time.Duration
	now    func() time.Time
}

func NewRefreshStore(ttl time.Duration) *RefreshStore {
	if ttl <= 0 {
		ttl = defaultRefreshTTL
	}
	return &RefreshStore{tokens: make(map[string]refreshEntry), ttl: ttl, now: time.Now}
}

func (s *RefreshStore) Issue(username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := uuid.NewString()
	s.tokens[token] = refreshEntry{username: username, expires: s.now().Add(s.ttl)}
	return token
}

// Rotate consumes token and returns its owner with a replacement token.
func (s *RefreshStore) Rotate(token string) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.tokens[token]
	if !ok {
		return "", "", domain.ErrInvalidToken
	}
	delete(s.tokens, token)
	if !s.now().Before(entry.expires) {
		return "", "", domain.ErrInvalidToken
	}

	next := uuid.NewString()
	s.tokens[next] = refreshEntry{username: entry.username, expires: s.now().Add(s.ttl)}
	return entry.username, next, nil
}

// RevokeUser drops every refresh token of username, returning how many.
func (s *RefreshStore) RevokeUser(username string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for token, entry := range s.tokens {
		if entry.username == username {
			delete(s.tokens, token)
			n++
		}
	}
	return n
}
