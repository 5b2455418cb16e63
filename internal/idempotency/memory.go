package idempotency

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	resp      Response
	reserved  bool
	expiresAt time.Time
}

// MemoryStore keeps responses in process memory until their TTL passes.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: map[string]entry{},
		now:     time.Now,
	}
}

// lookup drops the entry for key when it has expired. Callers hold mu.
func (s *MemoryStore) lookup(key string) (entry, bool) {
	e, ok := s.entries[key]
	if ok && !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return entry{}, false
	}
	return e, ok
}

func (s *MemoryStore) Get(_ context.Context, key string) (Response, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(key)
	if !ok || e.reserved {
		return Response{}, false, nil
	}
	return e.resp, true, nil
}

func (s *MemoryStore) Reserve(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lookup(key); ok {
		return false, nil
	}
	s.entries[key] = entry{reserved: true, expiresAt: s.now().Add(reservationTTL)}
	return true, nil
}

func (s *MemoryStore) Save(_ context.Context, key string, r Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{resp: r, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok && e.reserved {
		delete(s.entries, key)
	}
	return nil
}
