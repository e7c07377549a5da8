package client

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/replyhub/replyhub-backend/internal/users"
	"github.com/replyhub/replyhub-backend/pkg/enums"
	"github.com/replyhub/replyhub-backend/pkg/types"
)

type failingStorage struct {
	err error
}

func (f *failingStorage) Get(string) (string, error) { return "", f.err }
func (f *failingStorage) Set(string, string) error   { return f.err }
func (f *failingStorage) Delete(string) error        { return f.err }

func TestSessionStoreRoundTrip(t *testing.T) {
	store := NewSessionStore(NewMemoryStorage(), NewMemoryStorage())

	if _, ok := store.LoadSession(); ok {
		t.Fatal("expected no session before save")
	}

	session := types.Session{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Now().Add(time.Hour).Unix(),
	}
	if err := store.SaveSession(session); err != nil {
		t.Fatalf("save session: %v", err)
	}

	loaded, ok := store.LoadSession()
	if !ok {
		t.Fatal("expected session after save")
	}
	if loaded != session {
		t.Fatalf("loaded session mismatch: got %+v", loaded)
	}
}

func TestSessionStoreClampsCorruptExpiryOnce(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewSessionStore(NewMemoryStorage(), nil)
	store.now = func() time.Time { return now }

	corrupt := types.Session{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    now.Add(-2 * 365 * 24 * time.Hour).Unix(),
	}
	if err := store.SaveSession(corrupt); err != nil {
		t.Fatalf("save session: %v", err)
	}

	repaired, ok := store.LoadSession()
	if !ok {
		t.Fatal("expected session")
	}
	want := now.Add(corruptExpiryFix).Unix()
	if repaired.ExpiresAt != want {
		t.Fatalf("expected clamped expiry %d, got %d", want, repaired.ExpiresAt)
	}

	// The repair is persisted, so a second load sees the clamped value
	// without touching it again.
	again, ok := store.LoadSession()
	if !ok {
		t.Fatal("expected session on second load")
	}
	if again.ExpiresAt != want {
		t.Fatalf("expected persisted expiry %d, got %d", want, again.ExpiresAt)
	}
}

func TestSessionStoreRecentExpiryLeftAlone(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewSessionStore(NewMemoryStorage(), nil)
	store.now = func() time.Time { return now }

	stale := types.Session{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    now.Add(-10 * time.Minute).Unix(),
	}
	if err := store.SaveSession(stale); err != nil {
		t.Fatalf("save session: %v", err)
	}

	loaded, _ := store.LoadSession()
	if loaded.ExpiresAt != stale.ExpiresAt {
		t.Fatalf("merely expired session must not be rewritten, got %d", loaded.ExpiresAt)
	}
}

func TestSessionStoreFallsBackWhenPrimaryFails(t *testing.T) {
	fallback := NewMemoryStorage()
	store := NewSessionStore(&failingStorage{err: errors.New("quota exceeded")}, fallback)

	session := types.Session{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Now().Add(time.Hour).Unix(),
	}
	if err := store.SaveSession(session); err != nil {
		t.Fatalf("save session: %v", err)
	}

	if _, err := fallback.Get(sessionKey); err != nil {
		t.Fatal("expected session in fallback storage")
	}
	if loaded, ok := store.LoadSession(); !ok || loaded.AccessToken != "access-token" {
		t.Fatalf("expected session read from fallback, got ok=%v", ok)
	}
}

func TestSessionStoreUserRoundTrip(t *testing.T) {
	store := NewSessionStore(NewMemoryStorage(), nil)

	user := &users.UserDTO{
		ID:    uuid.New(),
		Email: "owner@replyhub.kr",
		Name:  "김점주",
		Role:  enums.RoleStoreOwner,
	}
	if err := store.SaveUser(user); err != nil {
		t.Fatalf("save user: %v", err)
	}

	loaded, ok := store.LoadUser()
	if !ok {
		t.Fatal("expected user after save")
	}
	if loaded.ID != user.ID || loaded.Email != user.Email || loaded.Role != user.Role {
		t.Fatalf("loaded user mismatch: %+v", loaded)
	}
}

func TestSessionStoreClearWipesBothStorages(t *testing.T) {
	primary := NewMemoryStorage()
	fallback := NewMemoryStorage()
	store := NewSessionStore(primary, fallback)

	session := types.Session{AccessToken: "a", RefreshToken: "r", ExpiresAt: time.Now().Add(time.Hour).Unix()}
	if err := store.SaveSession(session); err != nil {
		t.Fatalf("save session: %v", err)
	}
	if err := fallback.Set(sessionKey, "stale copy"); err != nil {
		t.Fatalf("seed fallback: %v", err)
	}

	store.Clear()

	if _, err := primary.Get(sessionKey); !errors.Is(err, ErrNotFound) {
		t.Fatal("expected primary session cleared")
	}
	if _, err := fallback.Get(sessionKey); !errors.Is(err, ErrNotFound) {
		t.Fatal("expected fallback session cleared")
	}
	if _, ok := store.LoadSession(); ok {
		t.Fatal("expected no session after clear")
	}
}
