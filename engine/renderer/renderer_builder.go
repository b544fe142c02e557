package renderer

import (
	"github.com/Park52/webgl-lab/engine/renderer/pipeline"
)

// RendererBuilderOption configures a renderer before its GPU device is created.
type RendererBuilderOption func(*renderer)

// WithPipeline caches p under key without building it. The first RegisterPipelines call
// that names the pipeline creates it on the GPU.
func WithPipeline(key string, p pipeline.Pipeline) RendererBuilderOption {
	return func(r *renderer) {
		r.pipelines[key] = p
	}
}

// WithPresentMode picks between vsync and uncapped presentation.
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = &mode
	}
}

// WithMSAA sets the sample count of the render targets. MSAA4x is used when the option
// is absent. Values outside MSAAOff and MSAA4x fall back to MSAA4x.
//
// Parameters:
//   - count: MSAAOff or MSAA4x
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		if count != MSAAOff && count != MSAA4x {
			count = MSAA4x
		}
		r.msaa = &count
	}
}

// WithClearColor sets the background shown before the first frame supplies its own.
func WithClearColor(c [4]float64) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = &c
	}
}

// WithForceSoftwareRenderer requests the fallback adapter. Needs a software Vulkan driver
// such as lavapipe, which is how the lab runs on machines without a GPU.
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.softwareAdapter = force
	}
}
