package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/squad-roster/internal/platform/resilience"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Store is a keyed in-memory cache owned by a single repository instance.
// A zero ttl keeps entries until they are deleted or the store is cleared.
type Store[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]
	ttl     time.Duration
	now     func() time.Time
	flight  resilience.SingleFlight[K, V]
}

func NewStore[K comparable, V any](ttl time.Duration) *Store[K, V] {
	return &Store[K, V]{
		entries: make(map[K]entry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *Store[K, V]) Get(key K) (V, bool) {
	now := s.now()
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		var zero V
		return zero, false
	}
	if s.expired(e, now) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		var zero V
		return zero, false
	}

	return e.value, true
}

func (s *Store[K, V]) Set(key K, value V) {
	expiresAt := time.Time{}
	if s.ttl > 0 {
		expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry[V]{
		value:     value,
		expiresAt: expiresAt,
	}
	s.mu.Unlock()
}

func (s *Store[K, V]) Delete(key K) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *Store[K, V]) Clear() {
	s.mu.Lock()
	s.entries = make(map[K]entry[V])
	s.mu.Unlock()
}

func (s *Store[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Values returns live entries in no particular order. The second result is
// false when any entry had expired, which means the snapshot is incomplete.
func (s *Store[K, V]) Values() ([]V, bool) {
	now := s.now()
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]V, 0, len(s.entries))
	complete := true
	for _, e := range s.entries {
		if s.expired(e, now) {
			complete = false
			continue
		}
		out = append(out, e.value)
	}
	return out, complete
}

// GetOrLoad returns the cached value for key or runs loader once among
// concurrent callers. Absent results are not cached.
func (s *Store[K, V]) GetOrLoad(ctx context.Context, key K, loader func(context.Context) (V, bool, error)) (V, bool, error) {
	var zero V
	if loader == nil {
		return zero, false, fmt.Errorf("loader is required")
	}

	if value, ok := s.Get(key); ok {
		return value, true, nil
	}

	value, exists, err, _ := s.flight.Do(key, func() (V, bool, error) {
		if cached, ok := s.Get(key); ok {
			return cached, true, nil
		}

		loaded, found, loadErr := loader(ctx)
		if loadErr != nil || !found {
			return zero, false, loadErr
		}
		s.Set(key, loaded)
		return loaded, true, nil
	})
	if err != nil {
		return zero, false, err
	}

	return value, exists, nil
}

func (s *Store[K, V]) expired(e entry[V], now time.Time) bool {
	return s.ttl > 0 && !e.expiresAt.After(now)
}
