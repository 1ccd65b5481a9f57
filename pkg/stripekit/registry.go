package stripekit

import (
	"context"
	"sync"
)

// HandlerFunc is a callback invoked with the event's object
// (the "object" value under the event's data).
type HandlerFunc func(ctx context.Context, object map[string]any) error

// registry maps event types to callbacks. One callback per type;
// registering again overwrites. Reads during dispatch may race with
// registration from other goroutines, hence the RWMutex.
type registry struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

func newRegistry() *registry {
	return &registry{handlers: make(map[string]HandlerFunc)}
}

func (r *registry) register(eventType string, fn HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[eventType] = fn
}

// unregister removes the mapping if present and reports whether it existed.
func (r *registry) unregister(eventType string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.handlers[eventType]
	delete(r.handlers, eventType)
	return ok
}

// resolve returns the callbacks to run for one delivery: the exact-type
// handler first, then the wildcard handler. Either or both may be absent.
func (r *registry) resolve(eventType string) []HandlerFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []HandlerFunc
	if fn, ok := r.handlers[eventType]; ok {
		out = append(out, fn)
	}
	if eventType != WildcardEvent {
		if fn, ok := r.handlers[WildcardEvent]; ok {
			out = append(out, fn)
		}
	}
	return out
}
