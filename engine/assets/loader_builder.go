package assets

import "time"

// LoaderBuilderOption is a function type for configuring loader instances.
type LoaderBuilderOption func(*loader)

// WithWorkers sets the maximum number of concurrent decoders.
// Defaults to runtime.NumCPU().
//
// Parameters:
//   - n: the worker count, at least 1
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker count to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		l.workers = n
	}
}

// WithIdleTimeout sets the idle timeout handed to each batch's worker pool.
//
// Parameters:
//   - d: the idle timeout
//
// Returns:
//   - LoaderBuilderOption: a function that applies the timeout to a loader
func WithIdleTimeout(d time.Duration) LoaderBuilderOption {
	return func(l *loader) {
		l.idle = d
	}
}

// WithDecoder replaces the function used to turn a path into pixels.
//
// Parameters:
//   - fn: the decode function
//
// Returns:
//   - LoaderBuilderOption: a function that applies the decoder to a loader
func WithDecoder(fn DecodeFunc) LoaderBuilderOption {
	return func(l *loader) {
		l.decode = fn
	}
}
