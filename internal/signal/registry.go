package signal

import (
	"log/slog"

	"github.com/phrazzld/strand/internal/domain"
)

// Waiter is one task's pending subscription to a signal. A waiter resolves
// at most once: via Publish, or via Remove followed by whatever outcome the
// caller delivers (timeout, cancellation).
type Waiter struct {
	name    string
	resolve func(domain.Result)
	done    bool
}

// Signal returns the name the waiter is subscribed to.
func (w *Waiter) Signal() string {
	return w.name
}

// Registry maps signal names to their current waiters, in subscription
// order. It must only be touched from the engine's scheduling loop.
type Registry struct {
	waiters map[string][]*Waiter
	logger  *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		waiters: make(map[string][]*Waiter),
		logger:  logger.With("component", "signal_registry"),
	}
}

// Subscribe appends a waiter for name. The resolve callback is invoked at
// most once, from inside the scheduling loop, with the waiter's outcome.
func (r *Registry) Subscribe(name string, resolve func(domain.Result)) *Waiter {
	w := &Waiter{name: name, resolve: resolve}
	r.waiters[name] = append(r.waiters[name], w)
	r.logger.Debug("waiter subscribed",
		"signal", name,
		"waiter_count", len(r.waiters[name]))
	return w
}

// Publish resolves every waiter currently subscribed to name with value as
// a success result and returns how many were resolved. Waiters subscribed
// after this call are unaffected; a publish with no waiters is a no-op and
// the value is dropped.
func (r *Registry) Publish(name string, value any) int {
	current := r.waiters[name]
	if len(current) == 0 {
		r.logger.Debug("publish with no waiters", "signal", name)
		return 0
	}
	delete(r.waiters, name)

	resolved := 0
	for _, w := range current {
		if w.done {
			continue
		}
		w.done = true
		w.resolve(domain.OK(value))
		resolved++
	}

	r.logger.Debug("signal published",
		"signal", name,
		"waiters_resolved", resolved)
	return resolved
}

// Remove withdraws a waiter without resolving it. It is idempotent: if the
// waiter was already resolved by a publish or previously removed, Remove
// reports false and the caller must not deliver an outcome. On true, the
// caller owns delivery (timeout failure, or nothing for a cancellation).
func (r *Registry) Remove(w *Waiter) bool {
	if w == nil || w.done {
		return false
	}
	w.done = true

	list := r.waiters[w.name]
	for i, cand := range list {
		if cand == w {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(r.waiters, w.name)
	} else {
		r.waiters[w.name] = list
	}
	return true
}

// Pending returns the number of waiters currently subscribed to name.
func (r *Registry) Pending(name string) int {
	return len(r.waiters[name])
}

// Len returns the total number of pending waiters across all signals.
func (r *Registry) Len() int {
	total := 0
	for _, list := range r.waiters {
		total += len(list)
	}
	return total
}
