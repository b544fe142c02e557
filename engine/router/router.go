// Package router maps URL-hash style paths to views and drives their lifecycle.
// A Router owns exactly one active view at a time: navigating stops the previous view
// before the next one is started and handed to the outlet.
package router

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Park52/webgl-lab/common"
)

// ErrRouteNotFound is returned by Navigate when no route matches and no fallback is configured.
var ErrRouteNotFound = errors.New("router: route not found")

// View is anything the router can activate. Start is called once after the view is built and
// Stop once when the router navigates away or closes.
type View interface {
	Start(ctx context.Context) error
	Stop()
}

// Factory builds a fresh view for a route on each navigation.
type Factory func() (View, error)

// Outlet receives the active view. Mount is called with a nil view when the outlet
// should be cleared.
type Outlet interface {
	Mount(path string, view View)
}

// OutletFunc adapts a function to the Outlet interface.
type OutletFunc func(path string, view View)

// Mount calls f(path, view).
func (f OutletFunc) Mount(path string, view View) {
	f(path, view)
}

// Route is a single entry in the route table.
type Route struct {
	Path    string
	Factory Factory
}

// router is the implementation of the Router interface.
type router struct {
	mu sync.Mutex

	routes   map[string]Route
	order    []string
	outlet   Outlet
	defPath  string
	fallback string

	activePath string
	activeView View
}

// Router is the explicit route table and outlet for one application instance.
type Router interface {
	// Handle registers a route. Registering the same path twice replaces the factory
	// but keeps the original registration order.
	//
	// Parameters:
	//   - path: the route path, normalized the same way as Navigate input
	//   - factory: builds the view for the route
	Handle(path string, factory Factory)

	// Navigate activates the route matching hash. The previous view is stopped first; if the
	// new view fails to build or start, the outlet is cleared and the error returned.
	// Navigating to the active path does nothing.
	//
	// Parameters:
	//   - ctx: passed to the new view's Start
	//   - hash: a location hash such as "#/sphere", "/sphere", "sphere" or "" for the default route
	//
	// Returns:
	//   - error: ErrRouteNotFound when nothing matches and no fallback exists, or the view's error
	Navigate(ctx context.Context, hash string) error

	// Active returns the active path and view, or "" and nil when nothing is mounted.
	Active() (string, View)

	// Routes returns the registered paths in registration order.
	Routes() []string

	// Close stops the active view and clears the outlet.
	Close()
}

var _ Router = &router{}

// NewRouter creates a new Router with all specified options applied.
//
// Parameters:
//   - outlet: receives every mount; may be nil
//   - options: variadic list of RouterBuilderOption functions to configure the router
//
// Returns:
//   - Router: the configured router with no active view
func NewRouter(outlet Outlet, options ...RouterBuilderOption) Router {
	r := &router{
		routes:  make(map[string]Route),
		outlet:  outlet,
		defPath: "/",
	}
	for _, opt := range options {
		opt(r)
	}
	if r.outlet == nil {
		r.outlet = OutletFunc(func(string, View) {})
	}
	return r
}

func (r *router) Handle(path string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	path = Normalize(path)
	if _, ok := r.routes[path]; !ok {
		r.order = append(r.order, path)
	}
	r.routes[path] = Route{Path: path, Factory: factory}
}

func (r *router) Navigate(ctx context.Context, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	path := Normalize(hash)
	if path == "/" {
		path = r.defPath
	}

	route, ok := r.routes[path]
	if !ok {
		if r.fallback == "" {
			return fmt.Errorf("%w: %s", ErrRouteNotFound, path)
		}
		route, ok = r.routes[r.fallback]
		if !ok {
			return fmt.Errorf("%w: %s (fallback %s not registered)", ErrRouteNotFound, path, r.fallback)
		}
		common.Logger().Debug("router: falling back", "requested", path, "fallback", route.Path)
	}

	if r.activeView != nil && r.activePath == route.Path {
		return nil
	}

	r.unmountLocked()

	view, err := route.Factory()
	if err != nil {
		return fmt.Errorf("router: build %s: %w", route.Path, err)
	}
	if err := view.Start(ctx); err != nil {
		view.Stop()
		return fmt.Errorf("router: start %s: %w", route.Path, err)
	}

	r.activePath = route.Path
	r.activeView = view
	r.outlet.Mount(route.Path, view)
	common.Logger().Info("router: navigated", "path", route.Path)
	return nil
}

func (r *router) Active() (string, View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activePath, r.activeView
}

func (r *router) Routes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *router) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unmountLocked()
}

// unmountLocked stops the active view and clears the outlet. Caller must hold r.mu.
func (r *router) unmountLocked() {
	if r.activeView == nil {
		return
	}
	r.activeView.Stop()
	r.activeView = nil
	r.activePath = ""
	r.outlet.Mount("", nil)
}

// Normalize turns a location hash or bare path into a canonical route path.
// "", "#" and "#/" become "/"; "#/sphere", "/sphere", "sphere" and "#/sphere/?x=1" all
// become "/sphere".
//
// Parameters:
//   - hash: the raw input
//
// Returns:
//   - string: the canonical path, always starting with "/"
func Normalize(hash string) string {
	p := strings.TrimSpace(hash)
	p = strings.TrimPrefix(p, "#")
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.Trim(p, "/")
	if p == "" {
		return "/"
	}
	return "/" + p
}
