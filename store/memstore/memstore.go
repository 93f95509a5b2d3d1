// Package memstore is an in-process, map-backed StoreAdapter used by tests
// and local development. It is grounded on the teacher's hand-rolled
// memProvider test fake: a mutex-guarded map, no eviction, no external
// dependency. It is explicitly NOT an LRU/eviction cache (spec.md non-goal)
// — entries are only ever removed by explicit delete, prefix clear, or hard
// TTL expiry checked lazily on read.
package memstore

import (
	"context"
	"strings"
	"sync"
	"time"

	st "github.com/swrcache/swrcache/store"
)

type entry struct {
	value         []byte
	createdAt     time.Time
	hardExpiresAt time.Time
}

type lockEntry struct {
	token     string
	expiresAt time.Time
}

// Store is safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	items map[string]entry
	locks map[string]lockEntry
}

var _ st.StoreAdapter = (*Store)(nil)

func New() *Store {
	return &Store{
		items: make(map[string]entry),
		locks: make(map[string]lockEntry),
	}
}

func (s *Store) Read(ctx context.Context, keyString string, opts st.ReadOptions) (st.Item, error) {
	if opts.Mode == st.ModeSleep {
		return s.readSleep(ctx, keyString, opts)
	}
	return s.readOnce(keyString, opts), nil
}

func (s *Store) readOnce(keyString string, opts st.ReadOptions) st.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[keyString]
	if !ok {
		return st.Item{Hit: false}
	}
	if !e.hardExpiresAt.IsZero() && !time.Now().Before(e.hardExpiresAt) {
		delete(s.items, keyString)
		return st.Item{Hit: false}
	}

	item := st.Item{Hit: true, Value: e.value, CreatedAt: e.createdAt, HardExpiresAt: e.hardExpiresAt}
	if opts.Mode == st.ModePrecompute {
		softBoundary := e.hardExpiresAt.Add(-time.Duration(opts.SoftSec) * time.Second)
		if !time.Now().Before(softBoundary) {
			item.Hit = false
		}
	}
	return item
}

func (s *Store) readSleep(ctx context.Context, keyString string, opts st.ReadOptions) (st.Item, error) {
	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		item := s.readOnce(keyString, st.ReadOptions{Mode: st.ModePrecompute, SoftSec: opts.SoftSec})
		if item.Hit {
			return item, nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return st.Item{}, ctx.Err()
		case <-time.After(opts.PauseMs):
		}
	}
	return st.Item{Hit: false}, nil
}

func (s *Store) TryLock(ctx context.Context, keyString string, ttl time.Duration) (st.Lock, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if le, ok := s.locks[keyString]; ok && now.Before(le.expiresAt) {
		return nil, false, nil
	}

	token := randomToken()
	s.locks[keyString] = lockEntry{token: token, expiresAt: now.Add(ttl)}
	return &lock{store: s, key: keyString, token: token}, true, nil
}

type lock struct {
	store *Store
	key   string
	token string
}

func (l *lock) Release(ctx context.Context) error {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	if le, ok := l.store.locks[l.key]; ok && le.token == l.token {
		delete(l.store.locks, l.key)
	}
	return nil
}

func (s *Store) Save(ctx context.Context, keyString string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	var hardExp time.Time
	if ttl > 0 {
		hardExp = now.Add(ttl)
	}
	s.items[keyString] = entry{value: value, createdAt: now, hardExpiresAt: hardExp}
	return nil
}

func (s *Store) DeleteExact(ctx context.Context, keyString string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, keyString)
	return nil
}

func (s *Store) ClearByPrefix(ctx context.Context, prefixString string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.items {
		if strings.HasPrefix(k, prefixString) {
			delete(s.items, k)
		}
	}
	return nil
}

func (s *Store) Close(context.Context) error { return nil }

// randomToken avoids importing google/uuid into a test-only fake; it only
// needs to be unique enough to tell "my lock" from "someone else's lock"
// within a single process's lifetime.
func randomToken() string {
	return time.Now().Format("20060102150405.000000000")
}
