package session

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type fakeStore struct {
	values map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}}
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.values[key] = value.(string)
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

type fakeKeyer struct{}

func (fakeKeyer) AccessSessionKey(accessID string) string {
	return "test:session:access:" + accessID
}

func testManager(store *fakeStore) *Manager {
	return &Manager{store: store, keyer: fakeKeyer{}, ttl: time.Hour}
}

func TestGenerateAndHasSession(t *testing.T) {
	store := newFakeStore()
	mgr := testManager(store)
	accessID := NewAccessID()

	if err := mgr.Generate(context.Background(), accessID); err != nil {
		t.Fatalf("generate session: %v", err)
	}

	ok, err := mgr.HasSession(context.Background(), accessID)
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if !ok {
		t.Fatal("expected live session")
	}
}

func TestRevokeEndsSession(t *testing.T) {
	store := newFakeStore()
	mgr := testManager(store)
	accessID := NewAccessID()

	if err := mgr.Generate(context.Background(), accessID); err != nil {
		t.Fatalf("generate session: %v", err)
	}
	if err := mgr.Revoke(context.Background(), accessID); err != nil {
		t.Fatalf("revoke session: %v", err)
	}

	ok, err := mgr.HasSession(context.Background(), accessID)
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if ok {
		t.Fatal("expected session to be revoked")
	}
}

func TestHasSessionUnknownID(t *testing.T) {
	mgr := testManager(newFakeStore())

	ok, err := mgr.HasSession(context.Background(), NewAccessID())
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if ok {
		t.Fatal("expected no session for unknown id")
	}
}

func TestBlankAccessIDRejected(t *testing.T) {
	mgr := testManager(newFakeStore())

	if err := mgr.Generate(context.Background(), " "); err == nil {
		t.Fatal("expected error for blank access id")
	}
	if _, err := mgr.HasSession(context.Background(), ""); err == nil {
		t.Fatal("expected error for blank access id")
	}
	if err := mgr.Revoke(context.Background(), ""); err == nil {
		t.Fatal("expected error for blank access id")
	}
}
