package storage

import (
	"context"
	"sync"
	"time"

	"github.com/tinygit/tinygit/protocol"
	"github.com/tinygit/tinygit/protocol/hash"
)

type inMemoryConfig struct {
	ttl time.Duration
}

// Option configures an InMemoryStorage during construction.
type Option func(*inMemoryConfig)

// WithTTL makes cached objects expire ttl after they were last added or
// retrieved. Without this option, objects never expire on their own.
func WithTTL(ttl time.Duration) Option {
	return func(c *inMemoryConfig) {
		c.ttl = ttl
	}
}

type inMemoryEntry struct {
	obj       *protocol.PackfileObject
	expiresAt time.Time
}

// InMemoryStorage is a process-local PackfileStorage backed by a map. With
// WithTTL, entries are evicted ttl after they were last touched (accessing an
// entry via Get refreshes its expiry); a background goroutine also sweeps
// expired entries every ttl/2, stopping once ctx is done.
type InMemoryStorage struct {
	mu      sync.Mutex
	objects map[string]*inMemoryEntry
	ttl     time.Duration
}

// NewInMemoryStorage creates an InMemoryStorage. If WithTTL is given, the
// background sweeper goroutine it starts is tied to ctx's lifetime.
func NewInMemoryStorage(ctx context.Context, opts ...Option) *InMemoryStorage {
	cfg := inMemoryConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &InMemoryStorage{
		objects: make(map[string]*inMemoryEntry),
		ttl:     cfg.ttl,
	}

	if cfg.ttl > 0 {
		go s.sweep(ctx)
	}

	return s
}

func (s *InMemoryStorage) sweep(ctx context.Context) {
	ticker := time.NewTicker(s.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.mu.Lock()
			s.evictExpiredLocked(now)
			s.mu.Unlock()
		}
	}
}

// evictExpiredLocked removes every entry whose expiry has passed. The caller
// must hold s.mu.
func (s *InMemoryStorage) evictExpiredLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for key, e := range s.objects {
		if now.After(e.expiresAt) {
			delete(s.objects, key)
		}
	}
}

func (s *InMemoryStorage) Get(key hash.Hash) (*protocol.PackfileObject, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.objects[key.String()]
	if !ok {
		return nil, false
	}

	now := time.Now()
	if s.ttl > 0 && now.After(e.expiresAt) {
		delete(s.objects, key.String())
		return nil, false
	}

	if s.ttl > 0 {
		e.expiresAt = now.Add(s.ttl)
	}
	return e.obj, true
}

func (s *InMemoryStorage) GetAllKeys() []hash.Hash {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpiredLocked(time.Now())

	keys := make([]hash.Hash, 0, len(s.objects))
	for key := range s.objects {
		keys = append(keys, hash.MustFromHex(key))
	}
	return keys
}

func (s *InMemoryStorage) Add(objs ...*protocol.PackfileObject) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expiresAt time.Time
	if s.ttl > 0 {
		expiresAt = time.Now().Add(s.ttl)
	}

	for _, obj := range objs {
		s.objects[obj.Hash.String()] = &inMemoryEntry{obj: obj, expiresAt: expiresAt}
	}
}

func (s *InMemoryStorage) Delete(key hash.Hash) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key.String())
}

func (s *InMemoryStorage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpiredLocked(time.Now())
	return len(s.objects)
}

var _ PackfileStorage = (*InMemoryStorage)(nil)
