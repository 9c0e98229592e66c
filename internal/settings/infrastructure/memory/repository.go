// Package memory holds an in-memory settings store used by tests and by
// deployments running without a database.
package memory

import (
	"context"
	"sync"
	"time"

	settings "boilerlog/internal/settings/domain"
)

// Repository keeps the settings blob in memory.
type Repository struct {
	mu     sync.RWMutex
	stored *settings.TestParameters
}

// NewRepository returns an empty store.
func NewRepository() *Repository {
	return &Repository{}
}

// Load returns a copy of the stored blob, or nil when nothing was saved.
func (r *Repository) Load(_ context.Context) (*settings.TestParameters, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stored.Clone(), nil
}

// Save replaces the blob when the incoming version matches the stored one.
func (r *Repository) Save(_ context.Context, params *settings.TestParameters) (*settings.TestParameters, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := 0
	if r.stored != nil {
		current = r.stored.Version
	}
	if params.Version != current {
		return nil, settings.ErrVersionConflict
	}
	saved := params.Clone()
	saved.Version = current + 1
	saved.UpdatedAt = time.Now().UTC()
	r.stored = saved
	return saved.Clone(), nil
}
