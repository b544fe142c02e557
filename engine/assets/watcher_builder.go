package assets

import "time"

// WatcherBuilderOption is a function type for configuring watcher instances.
type WatcherBuilderOption func(*watcher)

// WithDebounce sets how long the file must stay quiet before the change callback fires.
// Defaults to 100ms.
//
// Parameters:
//   - d: the debounce interval
//
// Returns:
//   - WatcherBuilderOption: a function that applies the interval to a watcher
func WithDebounce(d time.Duration) WatcherBuilderOption {
	return func(w *watcher) {
		w.debounce = d
	}
}
