// Package projection keeps built type projections keyed by their primary name
// and revalidated by artifact fingerprint. Concurrent demands for one name
// share a single build; dependent builds running on other goroutines are
// tracked so a cross build cycle fails fast instead of deadlocking.
package projection

import (
	"context"
	"sync"
	"time"

	"github.com/viant/typly/artifact"
	"github.com/viant/typly/logger"
)

// Build produces the value cached for a name. The supplied context carries
// the in progress build path used for cycle detection.
type Build func(ctx context.Context) (interface{}, error)

type contextKey string

const pathKey = contextKey("buildingPath")

type (
	entry struct {
		value       interface{}
		fingerprint artifact.Fingerprint
	}

	flight struct {
		done  chan struct{}
		value interface{}
		err   error
	}

	// Cache is safe for concurrent use.
	Cache struct {
		mux      sync.Mutex
		entries  map[string]*entry
		flights  map[string]*flight
		awaits   map[string]string
		counter  *logger.CounterAdapter
		logger   *logger.Adapter
		handlers []func(name string, value interface{})
	}

	Option func(c *Cache)
)

// WithLogger sets the event logger.
func WithLogger(adapter *logger.Adapter) Option {
	return func(c *Cache) {
		c.logger = adapter
	}
}

// WithCounter instruments Get calls with the supplied counter.
func WithCounter(aCounter logger.Counter) Option {
	return func(c *Cache) {
		c.counter = logger.NewCounter(aCounter)
	}
}

// WithEvictionHandler registers a callback invoked after an entry leaves the
// cache, either on fingerprint change or explicit invalidation.
func WithEvictionHandler(handler func(name string, value interface{})) Option {
	return func(c *Cache) {
		c.handlers = append(c.handlers, handler)
	}
}

// New creates a projection cache.
func New(options ...Option) *Cache {
	ret := &Cache{
		entries: map[string]*entry{},
		flights: map[string]*flight{},
		awaits:  map[string]string{},
	}
	for _, option := range options {
		option(ret)
	}
	if ret.counter == nil {
		ret.counter = logger.NewCounter(nil)
	}
	if ret.logger == nil {
		ret.logger = logger.Default()
	}
	return ret
}

// BuildingPath returns the names whose builds are in progress on this call
// chain, outermost first.
func BuildingPath(ctx context.Context) []string {
	path, _ := ctx.Value(pathKey).([]string)
	return path
}

// Get returns the cached value for name when its fingerprint still matches,
// otherwise it evicts the stale entry and builds anew. Concurrent callers of
// the same name share one build; a failed build is not retained.
func (c *Cache) Get(ctx context.Context, name string, fingerprint artifact.Fingerprint, build Build) (interface{}, error) {
	onDone := c.counter.Begin(time.Now())
	value, err := c.get(ctx, name, fingerprint, build)
	onDone(time.Now(), err)
	return value, err
}

func (c *Cache) get(ctx context.Context, name string, fingerprint artifact.Fingerprint, build Build) (interface{}, error) {
	path := BuildingPath(ctx)
	rebuild := false
	for {
		c.mux.Lock()
		if anEntry, ok := c.entries[name]; ok {
			if anEntry.fingerprint.Equal(fingerprint) {
				c.mux.Unlock()
				c.counter.IncrementValue(Hit)
				return anEntry.value, nil
			}
			delete(c.entries, name)
			c.mux.Unlock()
			rebuild = true
			c.counter.IncrementValue(Evict)
			c.logger.CacheEviction(name, anEntry.fingerprint.String(), fingerprint.String())
			c.notify(name, anEntry.value)
			continue
		}

		if inFlight, ok := c.flights[name]; ok {
			if contains(path, name) {
				cycle := append(copyOf(path), name)
				c.mux.Unlock()
				return nil, &CycleError{Path: cycle}
			}
			if cycle, deadlocks := c.wouldDeadlock(path, name); deadlocks {
				c.mux.Unlock()
				return nil, &CycleError{Path: cycle}
			}
			owner := ""
			if len(path) > 0 {
				owner = path[len(path)-1]
				c.awaits[owner] = name
			}
			c.mux.Unlock()

			select {
			case <-inFlight.done:
			case <-ctx.Done():
				c.clearAwait(owner)
				return nil, ctx.Err()
			}
			c.clearAwait(owner)
			if inFlight.err != nil {
				return nil, inFlight.err
			}
			continue
		}

		inFlight := &flight{done: make(chan struct{})}
		c.flights[name] = inFlight
		c.mux.Unlock()

		value, err := build(context.WithValue(ctx, pathKey, append(copyOf(path), name)))
		c.mux.Lock()
		delete(c.flights, name)
		if err == nil {
			c.entries[name] = &entry{value: value, fingerprint: fingerprint}
		}
		c.mux.Unlock()
		switch {
		case err != nil:
			c.counter.IncrementValue(Failure)
		case rebuild:
			c.counter.IncrementValue(Rebuild)
		default:
			c.counter.IncrementValue(Miss)
		}
		inFlight.value, inFlight.err = value, err
		close(inFlight.done)
		return value, err
	}
}

// OnEviction registers a handler after construction; collaborators created
// later than the cache hook themselves in through this.
func (c *Cache) OnEviction(handler func(name string, value interface{})) {
	c.mux.Lock()
	c.handlers = append(c.handlers, handler)
	c.mux.Unlock()
}

// Lookup returns the cached value for name without building.
func (c *Cache) Lookup(name string) (interface{}, bool) {
	c.mux.Lock()
	defer c.mux.Unlock()
	anEntry, ok := c.entries[name]
	if !ok {
		return nil, false
	}
	return anEntry.value, true
}

// Invalidate removes name from the cache and notifies eviction handlers.
func (c *Cache) Invalidate(name string) bool {
	c.mux.Lock()
	anEntry, ok := c.entries[name]
	if ok {
		delete(c.entries, name)
	}
	c.mux.Unlock()
	if !ok {
		return false
	}
	c.counter.IncrementValue(Evict)
	c.notify(name, anEntry.value)
	return true
}

// Size returns the number of cached projections.
func (c *Cache) Size() int {
	c.mux.Lock()
	defer c.mux.Unlock()
	return len(c.entries)
}

func (c *Cache) notify(name string, value interface{}) {
	c.mux.Lock()
	handlers := make([]func(string, interface{}), len(c.handlers))
	copy(handlers, c.handlers)
	c.mux.Unlock()
	for _, handler := range handlers {
		handler(name, value)
	}
}

func (c *Cache) clearAwait(owner string) {
	if owner == "" {
		return
	}
	c.mux.Lock()
	delete(c.awaits, owner)
	c.mux.Unlock()
}

// wouldDeadlock walks the await edges from waitFor; reaching a name already
// building on this call chain means waiting would never return. Caller holds
// the lock.
func (c *Cache) wouldDeadlock(path []string, waitFor string) ([]string, bool) {
	if len(path) == 0 {
		return nil, false
	}
	chain := []string{waitFor}
	visited := map[string]bool{waitFor: true}
	if contains(path, waitFor) {
		return append(copyOf(path), chain...), true
	}
	next := waitFor
	for {
		target, ok := c.awaits[next]
		if !ok || visited[target] {
			return nil, false
		}
		chain = append(chain, target)
		if contains(path, target) {
			return append(copyOf(path), chain...), true
		}
		visited[target] = true
		next = target
	}
}

func contains(items []string, item string) bool {
	for _, candidate := range items {
		if candidate == item {
			return true
		}
	}
	return false
}

func copyOf(items []string) []string {
	ret := make([]string, len(items))
	copy(ret, items)
	return ret
}
