package router

// RouterBuilderOption is a function type for configuring router instances.
type RouterBuilderOption func(*router)

// WithDefault sets the path used for an empty hash ("", "#", "#/").
// Defaults to "/".
//
// Parameters:
//   - path: the default route path
//
// Returns:
//   - RouterBuilderOption: a function that applies the default path to a router
func WithDefault(path string) RouterBuilderOption {
	return func(r *router) {
		r.defPath = Normalize(path)
	}
}

// WithFallback sets the route used when a hash matches nothing.
// Without a fallback Navigate returns ErrRouteNotFound.
//
// Parameters:
//   - path: the fallback route path
//
// Returns:
//   - RouterBuilderOption: a function that applies the fallback path to a router
func WithFallback(path string) RouterBuilderOption {
	return func(r *router) {
		r.fallback = Normalize(path)
	}
}

// WithRoute registers a route at construction time.
//
// Parameters:
//   - path: the route path
//   - factory: builds the view for the route
//
// Returns:
//   - RouterBuilderOption: a function that registers the route on a router
func WithRoute(path string, factory Factory) RouterBuilderOption {
	return func(r *router) {
		path = Normalize(path)
		if _, ok := r.routes[path]; !ok {
			r.order = append(r.order, path)
		}
		r.routes[path] = Route{Path: path, Factory: factory}
	}
}
