package renderer

import (
	"testing"

	"github.com/Park52/webgl-lab/engine/renderer/pipeline"
	"github.com/stretchr/testify/assert"
)

func TestDrawCallNeedsRegisteredPipeline(t *testing.T) {
	r := &renderer{pipelines: make(map[string]pipeline.Pipeline)}

	err := r.DrawCall("color", nil, 1, nil)
	assert.ErrorIs(t, err, ErrPipelineNotRegistered)
	assert.ErrorContains(t, err, "color")

	// Cached by WithPipeline but never built on the GPU.
	WithPipeline("color", pipeline.NewPipeline("color"))(r)
	assert.ErrorIs(t, r.DrawCall("color", nil, 1, nil), ErrPipelineNotRegistered)
}

func TestPipelinesReturnsSnapshot(t *testing.T) {
	r := &renderer{pipelines: make(map[string]pipeline.Pipeline)}
	WithPipeline("color", pipeline.NewPipeline("color"))(r)

	snapshot := r.Pipelines()
	delete(snapshot, "color")

	assert.NotNil(t, r.Pipeline("color"))
	assert.Nil(t, r.Pipeline("textured"))
}

func TestRendererOptions(t *testing.T) {
	r := &renderer{}
	WithMSAA(MSAASampleCount(8))(r)
	WithPresentMode(PresentModeVSync)(r)
	WithClearColor([4]float64{0.1, 0.2, 0.3, 1})(r)
	WithForceSoftwareRenderer(true)(r)

	if assert.NotNil(t, r.msaa) {
		assert.Equal(t, MSAA4x, *r.msaa)
	}
	assert.Equal(t, PresentModeVSync, *r.presentMode)
	assert.Equal(t, [4]float64{0.1, 0.2, 0.3, 1}, *r.clearColor)
	assert.True(t, r.softwareAdapter)
}
