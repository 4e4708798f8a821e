package navigation

import (
	"fmt"
	"sync"

	"github.com/spec-kit/backoffice/internal/domain"
)

// Route is one registered navigation target.
type Route struct {
	Name  string
	Title string
	Path  string
	Icon  string
}

// RoutesFrom converts flattened nodes into routes, keeping order.
func RoutesFrom(nodes []domain.ModuleNode) []Route {
	routes := make([]Route, 0, len(nodes))
	for _, n := range nodes {
		routes = append(routes, Route{Name: n.Name, Title: n.Label(), Path: n.Path, Icon: n.Icon})
	}
	return routes
}

// Navigator is the navigation framework seen by the drawer and the app.
type Navigator interface {
	Register(routes []Route)
	Replace(path string) error
	Push(path string) error
	Reset(path string)
}

// Router is an in-process Navigator: a route table plus a history stack.
// Registering the same name twice keeps the last registration.
type Router struct {
	mu      sync.RWMutex
	byName  map[string]Route
	order   []string
	paths   map[string]struct{}
	history []string
}

// NewRouter starts at entry.
func NewRouter(entry string) *Router {
	r := &Router{}
	r.Reset(entry)
	return r
}

// Register replaces the route table.
func (r *Router) Register(routes []Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName = make(map[string]Route, len(routes))
	r.paths = make(map[string]struct{}, len(routes))
	r.order = r.order[:0]
	for _, rt := range routes {
		if _, exists := r.byName[rt.Name]; !exists {
			r.order = append(r.order, rt.Name)
		}
		r.byName[rt.Name] = rt
		if rt.Path != "" {
			r.paths[rt.Path] = struct{}{}
		}
	}
}

// Replace swaps the current location for path without growing history.
func (r *Router) Replace(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkLocked(path); err != nil {
		return err
	}
	r.history[len(r.history)-1] = path
	return nil
}

// Push navigates to path, keeping the current location for Back.
func (r *Router) Push(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkLocked(path); err != nil {
		return err
	}
	r.history = append(r.history, path)
	return nil
}

// Back pops one history entry. It reports false at the root.
func (r *Router) Back() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) <= 1 {
		return false
	}
	r.history = r.history[:len(r.history)-1]
	return true
}

// Reset clears the route table and history and moves to entry.
func (r *Router) Reset(entry string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName = map[string]Route{}
	r.paths = map[string]struct{}{}
	r.order = nil
	r.history = []string{entry}
}

// Current returns the active location.
func (r *Router) Current() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.history[len(r.history)-1]
}

// Depth returns the number of history entries.
func (r *Router) Depth() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.history)
}

// Routes returns registered routes in registration order.
func (r *Router) Routes() []Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Route, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Lookup returns the route registered under name.
func (r *Router) Lookup(name string) (Route, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.byName[name]
	return rt, ok
}

func (r *Router) checkLocked(path string) error {
	if path == "" {
		return fmt.Errorf("navigation: empty path")
	}
	if _, ok := r.paths[path]; !ok {
		return fmt.Errorf("navigation: no route registered for %q", path)
	}
	return nil
}
