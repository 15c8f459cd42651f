// Package memory is an in-process db.Store for running without Redis.
// Stored plans do not survive a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/kailas-cloud/trajplan/internal/db"
)

var _ db.Store = (*Store)(nil)

type item struct {
	value   []byte
	expires time.Time // zero: never
}

// Store is a thread-safe in-memory key-value store with per-key expiry.
type Store struct {
	mu   sync.RWMutex
	data map[string]item
	now  func() time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{data: make(map[string]item), now: time.Now}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// WaitForReady returns immediately.
func (s *Store) WaitForReady(context.Context, time.Duration) error { return nil }

// Close drops every key.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]item)
}

// Get returns a copy of the value, or db.ErrKeyNotFound if it is missing or expired.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	it, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	if !it.expires.IsZero() && !s.now().Before(it.expires) {
		s.mu.Lock()
		if cur, ok := s.data[key]; ok && cur.expires.Equal(it.expires) {
			delete(s.data, key)
		}
		s.mu.Unlock()
		return nil, db.ErrKeyNotFound
	}
	return append([]byte(nil), it.value...), nil
}

// Set stores a copy of value without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.SetWithTTL(ctx, key, value, 0)
}

// SetWithTTL stores a copy of value. A non-positive ttl means no expiry.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	it := item{value: append([]byte(nil), value...)}
	if ttl > 0 {
		it.expires = s.now().Add(ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = it
	return nil
}

// Del removes a key.
func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
