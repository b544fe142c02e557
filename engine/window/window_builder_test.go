package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilderOptions(t *testing.T) {
	w := &engineWindow{keyRepeat: true}
	for _, opt := range []WindowBuilderOption{
		WithTitle("Sphere"),
		WithSize(800, 600),
		WithMinSize(200, 100),
		WithMaxSize(1920, 0),
		WithKeyRepeat(false),
	} {
		opt(w)
	}

	assert.Equal(t, "Sphere", w.title)
	assert.Equal(t, 800, w.Width())
	assert.Equal(t, 600, w.Height())
	assert.Equal(t, 200, w.minWidth)
	assert.Equal(t, 100, w.minHeight)
	assert.Equal(t, 1920, w.maxWidth)
	assert.Equal(t, dontCare, w.maxHeight)
	assert.False(t, w.keyRepeat)
}

func TestSetTitleIsDeferred(t *testing.T) {
	w := &engineWindow{}
	w.SetTitle("one")
	w.SetTitle("two")

	got := w.pendingTitle.Swap(nil)
	if assert.NotNil(t, got) {
		assert.Equal(t, "two", *got)
	}
	assert.Nil(t, w.pendingTitle.Load())
}

func TestUncreatedWindow(t *testing.T) {
	w := &engineWindow{}

	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.ErrorIs(t, w.Close(), ErrNoWindow)
}
