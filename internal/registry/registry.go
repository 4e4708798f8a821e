// Package registry caches the authorization-scoped module tree for the
// current session.
package registry

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/spec-kit/backoffice/internal/domain"
	"github.com/spec-kit/backoffice/internal/events"
	"github.com/spec-kit/backoffice/internal/navigation"
)

// ErrInvalidated is returned by Refresh when the session was cleared while
// the tree was being fetched. The fetched tree is discarded.
var ErrInvalidated = errors.New("registry: session cleared during refresh")

// TreeFetcher loads the module tree for a token.
type TreeFetcher interface {
	FetchModuleTree(ctx context.Context, token string) ([]domain.ModuleNode, error)
}

// Registry is the single writer of the cached tree. The tree is derived from
// the session: it is replaced wholesale on refresh and dropped when the
// session is cleared.
type Registry struct {
	fetcher TreeFetcher
	logger  *zap.Logger

	mu         sync.RWMutex
	tree       []domain.ModuleNode
	generation uint64
	epoch      uint64
	loading    atomic.Bool
}

// New builds a registry and subscribes it to session-cleared events.
func New(fetcher TreeFetcher, dispatcher events.Dispatcher, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{fetcher: fetcher, logger: logger.Named("registry")}
	if dispatcher != nil {
		dispatcher.Subscribe(events.EventSessionCleared, r.handleSessionCleared)
	}
	return r
}

// Refresh fetches the tree for token and replaces the cache. On failure the
// previous tree stays in place and the error is logged and returned.
func (r *Registry) Refresh(ctx context.Context, token string) ([]domain.ModuleNode, error) {
	r.loading.Store(true)
	defer r.loading.Store(false)

	r.mu.RLock()
	epoch := r.epoch
	r.mu.RUnlock()

	tree, err := r.fetcher.FetchModuleTree(ctx, token)
	if err != nil {
		r.logger.Warn("module tree refresh failed; keeping previous tree", zap.Error(err))
		return r.Tree(), err
	}

	if verr := navigation.Validate(tree); verr != nil {
		r.logger.Warn("module tree violates its contract", zap.Error(verr))
	}

	r.mu.Lock()
	if r.epoch != epoch {
		r.mu.Unlock()
		r.logger.Debug("discarding module tree fetched for a cleared session")
		return nil, ErrInvalidated
	}
	r.tree = domain.CloneTree(tree)
	r.generation++
	gen := r.generation
	r.mu.Unlock()

	r.logger.Debug("module tree refreshed", zap.Int("top_level", len(tree)), zap.Uint64("generation", gen))
	return domain.CloneTree(tree), nil
}

// Tree returns a copy of the cached tree, nil when none is held.
func (r *Registry) Tree() []domain.ModuleNode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return domain.CloneTree(r.tree)
}

// Routes returns the flattened route list of the cached tree.
func (r *Registry) Routes() []navigation.Route {
	return navigation.RoutesFrom(navigation.Flatten(r.Tree()))
}

// Generation increases on every replacement or invalidation of the tree.
func (r *Registry) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}

// Loading reports whether a refresh is in flight.
func (r *Registry) Loading() bool {
	return r.loading.Load()
}

// Invalidate drops the cached tree. Refreshes already in flight will not
// install their result.
func (r *Registry) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.epoch++
	if r.tree == nil {
		return
	}
	r.tree = nil
	r.generation++
}

func (r *Registry) handleSessionCleared(_ context.Context, _ events.Event) error {
	r.Invalidate()
	r.logger.Debug("module tree invalidated after logout")
	return nil
}
