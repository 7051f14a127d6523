package resilience

import "sync"

// SingleFlight deduplicates concurrent loads for the same key.
type SingleFlight[K comparable, V any] struct {
	mu    sync.Mutex
	calls map[K]*call[V]
}

type call[V any] struct {
	wg     sync.WaitGroup
	val    V
	exists bool
	err    error
}

// Do runs fn once per key among concurrent callers. The last return value
// reports whether the result was shared with another caller.
func (g *SingleFlight[K, V]) Do(key K, fn func() (V, bool, error)) (V, bool, error, bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[K]*call[V])
	}

	if c, ok := g.calls[key]; ok {
		g.mu.Unlock()
		c.wg.Wait()
		return c.val, c.exists, c.err, true
	}

	c := &call[V]{}
	c.wg.Add(1)
	g.calls[key] = c
	g.mu.Unlock()

	c.val, c.exists, c.err = fn()
	c.wg.Done()

	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()

	return c.val, c.exists, c.err, false
}
