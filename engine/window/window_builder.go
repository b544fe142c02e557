package window

// WindowBuilderOption is a functional option for configuring an engineWindow before the
// platform window is created.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the initial title bar text. The engine replaces it with the active lab
// once running.
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the requested window size. On high-DPI displays the framebuffer reported by
// Width and Height may be larger.
//
// Parameters:
//   - width: requested width in screen coordinates
//   - height: requested height in screen coordinates
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width.Store(int32(width))
		w.height.Store(int32(height))
	}
}

// WithMinSize limits how small the user can resize the window. Non-positive values leave
// that axis unlimited.
//
// Parameters:
//   - width: minimum width
//   - height: minimum height
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth = sizeLimit(width)
		w.minHeight = sizeLimit(height)
	}
}

// WithMaxSize limits how large the user can resize the window. Non-positive values leave
// that axis unlimited.
func WithMaxSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.maxWidth = sizeLimit(width)
		w.maxHeight = sizeLimit(height)
	}
}

// WithKeyRepeat controls whether a held key keeps firing the key down callback.
// Enabled by default so holding Up or Down sweeps a slider.
func WithKeyRepeat(enabled bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.keyRepeat = enabled
	}
}
