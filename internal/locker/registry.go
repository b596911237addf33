// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Reference-counted per-workspace locks with FIFO handoff

package locker

import (
	"context"
	"sync"
)

// Registry hands out exclusive locks keyed by canonical workspace path.
// Locks are created lazily on first acquisition and destroyed when the
// last interested request releases or gives up. The registry mutex only
// guards table bookkeeping; it is never held while a request waits or a
// process runs, so distinct workspaces proceed fully in parallel.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	refs    int
	held    bool
	waiters []chan struct{} // FIFO wait queue
}

// NewRegistry creates an empty lock registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Acquire blocks until the lock for path is held by the caller or ctx is
// done. Waiters are served in strict arrival order. A cancelled request
// that was never granted the lock leaves no trace; one granted the lock
// concurrently with cancellation passes it on to the next waiter.
func (r *Registry) Acquire(ctx context.Context, path string) (*Lease, error) {
	r.mu.Lock()
	e := r.entries[path]
	if e == nil {
		e = &entry{}
		r.entries[path] = e
	}
	e.refs++

	if !e.held {
		e.held = true
		r.mu.Unlock()
		return &Lease{reg: r, path: path}, nil
	}

	ch := make(chan struct{})
	e.waiters = append(e.waiters, ch)
	r.mu.Unlock()

	select {
	case <-ch:
		return &Lease{reg: r, path: path}, nil
	case <-ctx.Done():
		r.mu.Lock()
		granted := true
		for i, w := range e.waiters {
			if w == ch {
				e.waiters = append(e.waiters[:i], e.waiters[i+1:]...)
				granted = false
				break
			}
		}
		if granted {
			// Handoff raced with cancellation; pass the lock on.
			r.releaseLocked(e)
		}
		r.dropRefLocked(path, e)
		r.mu.Unlock()
		return nil, ctx.Err()
	}
}

// releaseLocked hands the lock to the next waiter or marks it free.
// Callers must hold r.mu.
func (r *Registry) releaseLocked(e *entry) {
	if len(e.waiters) > 0 {
		next := e.waiters[0]
		e.waiters = e.waiters[1:]
		close(next)
		return
	}
	e.held = false
}

// dropRefLocked decrements the reference count and removes the entry
// once nothing holds or waits for it. Callers must hold r.mu.
func (r *Registry) dropRefLocked(path string, e *entry) {
	e.refs--
	if e.refs == 0 {
		delete(r.entries, path)
	}
}

// Len reports the number of live lock entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Lease is a held workspace lock. Release is idempotent and must run on
// every exit path; the broker does so via defer.
type Lease struct {
	reg  *Registry
	path string
	once sync.Once
}

// Path returns the canonical workspace path the lease covers.
func (l *Lease) Path() string {
	return l.path
}

// Release returns the lock to the registry, waking the next waiter.
func (l *Lease) Release() {
	l.once.Do(func() {
		r := l.reg
		r.mu.Lock()
		if e := r.entries[l.path]; e != nil {
			r.releaseLocked(e)
			r.dropRefLocked(l.path, e)
		}
		r.mu.Unlock()
	})
}
