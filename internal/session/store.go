// Package session keeps the mapping from opaque bearer tokens to user
// ids for the lifetime of the process. Tokens never expire and are not
// persisted; a restart logs everybody out.
package session

import (
	"sync"

	"github.com/iliyamo/healthconnect-api/internal/utils"
)

// Store is a concurrency safe token -> user id map. Build one per
// process with NewStore and inject it where tokens are issued or
// resolved.
type Store struct {
	mu     sync.RWMutex
	tokens map[string]uint64
}

func NewStore() *Store {
	return &Store{tokens: make(map[string]uint64)}
}

// Issue creates a fresh token bound to userID. A user may hold any number
// of tokens at once.
func (s *Store) Issue(userID uint64) (string, error) {
	for {
		tok, err := utils.NewSessionToken()
		if err != nil {
			return "", err
		}
		s.mu.Lock()
		if _, taken := s.tokens[tok]; !taken {
			s.tokens[tok] = userID
			s.mu.Unlock()
			return tok, nil
		}
		s.mu.Unlock()
	}
}

// Resolve returns the user bound to token.
func (s *Store) Resolve(token string) (uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.tokens[token]
	return id, ok
}

// Len reports the number of live tokens.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}
