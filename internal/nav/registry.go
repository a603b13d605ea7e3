package nav

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry keeps the shells of connected clients in memory.
type Registry struct {
	mu      sync.RWMutex
	shells  map[string]*Shell
	idleTTL time.Duration
	now     func() time.Time
}

func NewRegistry(idleTTL time.Duration) *Registry {
	return &Registry{
		shells:  make(map[string]*Shell),
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

// Create registers a new shell on the login screen.
func (r *Registry) Create() *Shell {
	sh := NewShell(uuid.New().String())
	sh.touch(r.now())
	r.mu.Lock()
	r.shells[sh.ID] = sh
	r.mu.Unlock()
	return sh
}

// Get returns the shell with the given id and marks it as active.
func (r *Registry) Get(id string) (*Shell, bool) {
	r.mu.RLock()
	sh, ok := r.shells[id]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	sh.touch(r.now())
	return sh, true
}

// Remove drops a shell and cancels its mount.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	sh, ok := r.shells[id]
	delete(r.shells, id)
	r.mu.Unlock()
	if ok {
		sh.Close()
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.shells)
}

// Sweep removes shells idle for longer than the TTL and returns how many.
func (r *Registry) Sweep() int {
	if r.idleTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	var stale []*Shell
	for id, sh := range r.shells {
		if sh.idleSince().Before(cutoff) {
			stale = append(stale, sh)
			delete(r.shells, id)
		}
	}
	r.mu.Unlock()

	for _, sh := range stale {
		sh.Close()
	}
	return len(stale)
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Sweep()
		}
	}
}
