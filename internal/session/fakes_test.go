package session

import (
	"context"
	"io"
	"log"
	"sync"
	"testing"
	"time"
)

type memRepo struct {
	mu       sync.Mutex
	sessions map[string]Session
	saves    int
	deleted  []string
	getErr   error
}

func newMemRepo() *memRepo { return &memRepo{sessions: map[string]Session{}} }

func (r *memRepo) Get(_ context.Context, id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (r *memRepo) Save(_ context.Context, s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	cp := *s
	cp.isNew = false
	r.sessions[s.ID] = cp
	return nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *memRepo) DeleteExpired(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, s := range r.sessions {
		if !s.ExpiresAt.After(time.Now()) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

type memCache struct {
	mu    sync.Mutex
	items map[string][]byte
	ttls  map[string]time.Duration
}

func newMemCache() *memCache {
	return &memCache{items: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.items[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return b, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	c.ttls[key] = ttl
	return nil
}

func (c *memCache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func testLogger(t *testing.T) *log.Logger {
	t.Helper()
	return log.New(io.Discard, "", log.LstdFlags)
}
