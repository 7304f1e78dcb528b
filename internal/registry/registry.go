// Package registry keeps live reader workspaces addressable by session ID.
package registry

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/dgallion1/docreader/internal/workspace"
)

// Registry stores workspaces with a sliding expiration. A session that is not
// touched for the TTL is evicted.
type Registry struct {
	// mu orders lookups against Delete so a refresh never re-adds a removed session.
	mu    sync.Mutex
	cache *cache.Cache
}

// New creates a registry. Expired sessions are purged every cleanup interval.
func New(ttl, cleanup time.Duration) *Registry {
	return &Registry{
		cache: cache.New(ttl, cleanup),
	}
}

// OnEvicted registers fn to run when a session is removed, by expiry or Delete.
func (r *Registry) OnEvicted(fn func(id string)) {
	r.cache.OnEvicted(func(id string, _ any) { fn(id) })
}

// NewID returns a fresh session ID.
func (r *Registry) NewID() string {
	return uuid.NewString()
}

// Put stores w under id.
func (r *Registry) Put(id string, w *workspace.Workspace) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Set(id, w, cache.DefaultExpiration)
}

// Get returns the workspace for id and restarts its expiry.
func (r *Registry) Get(id string) (*workspace.Workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	x, found := r.cache.Get(id)
	if !found {
		return nil, false
	}
	w := x.(*workspace.Workspace)
	// Replace fails if the item expired in between; treat that as a miss.
	if err := r.cache.Replace(id, w, cache.DefaultExpiration); err != nil {
		return nil, false
	}
	return w, true
}

// Delete removes id. It reports whether the session existed.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, found := r.cache.Get(id); !found {
		return false
	}
	r.cache.Delete(id)
	return true
}

// Count returns the number of live sessions, including expired ones not yet purged.
func (r *Registry) Count() int {
	return r.cache.ItemCount()
}
