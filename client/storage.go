package client

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/replyhub/replyhub-backend/internal/users"
	"github.com/replyhub/replyhub-backend/pkg/types"
)

const (
	sessionKey = "session"
	userKey    = "user"

	// Expiries older than this are treated as corrupt storage, not as a
	// merely stale session.
	corruptExpiryAge = 365 * 24 * time.Hour
	corruptExpiryFix = time.Hour
)

// ErrNotFound is returned by Storage implementations for missing keys.
var ErrNotFound = errors.New("key not found")

// Storage is a minimal key-value surface matching what browser storage
// offers. Implementations must be safe for concurrent use.
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// MemoryStorage is an in-process Storage.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: map[string]string{}}
}

func (m *MemoryStorage) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStorage) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// SessionStore persists the session and user profile across a primary and a
// fallback Storage. Reads prefer the primary; writes go to the primary and
// fall back only when the primary fails.
type SessionStore struct {
	primary  Storage
	fallback Storage
	now      func() time.Time
}

func NewSessionStore(primary, fallback Storage) *SessionStore {
	return &SessionStore{primary: primary, fallback: fallback, now: time.Now}
}

// SaveSession writes the session to storage.
func (s *SessionStore) SaveSession(session types.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.write(sessionKey, string(raw))
}

// LoadSession reads the stored session. A session whose expiry lies
// implausibly far in the past is clamped to one hour from now and the
// repaired value is persisted, so the clamp happens at most once.
func (s *SessionStore) LoadSession() (types.Session, bool) {
	raw, err := s.read(sessionKey)
	if err != nil {
		return types.Session{}, false
	}

	var session types.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return types.Session{}, false
	}
	if session.IsZero() {
		return types.Session{}, false
	}

	now := s.now()
	if now.Sub(session.Expiry()) > corruptExpiryAge {
		session.ExpiresAt = now.Add(corruptExpiryFix).Unix()
		// Best effort: the clamped value is still usable in memory even
		// when the write fails.
		_ = s.SaveSession(session)
	}
	return session, true
}

// SaveUser stores the profile next to the session.
func (s *SessionStore) SaveUser(user *users.UserDTO) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.write(userKey, string(raw))
}

func (s *SessionStore) LoadUser() (*users.UserDTO, bool) {
	raw, err := s.read(userKey)
	if err != nil {
		return nil, false
	}
	var user users.UserDTO
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, false
	}
	return &user, true
}

// Clear drops both keys from both storages.
func (s *SessionStore) Clear() {
	for _, store := range []Storage{s.primary, s.fallback} {
		if store == nil {
			continue
		}
		_ = store.Delete(sessionKey)
		_ = store.Delete(userKey)
	}
}

func (s *SessionStore) write(key, value string) error {
	if s.primary != nil {
		if err := s.primary.Set(key, value); err == nil {
			return nil
		}
	}
	if s.fallback != nil {
		return s.fallback.Set(key, value)
	}
	return errors.New("no storage available")
}

func (s *SessionStore) read(key string) (string, error) {
	if s.primary != nil {
		if value, err := s.primary.Get(key); err == nil {
			return value, nil
		}
	}
	if s.fallback != nil {
		return s.fallback.Get(key)
	}
	return "", ErrNotFound
}
