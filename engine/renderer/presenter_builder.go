package renderer

import "github.com/Park52/webgl-lab/common"

// PresenterBuilderOption is a functional option applied to a presenter during construction via NewPresenter.
type PresenterBuilderOption func(*presenter)

// WithSampler sets the sampler used for lab textures. Zero fields take the renderer defaults
// (linear filtering, repeat addressing).
//
// Parameters:
//   - s: the sampler configuration
//
// Returns:
//   - PresenterBuilderOption: a function that applies the sampler option to a presenter
func WithSampler(s common.SamplerStagingData) PresenterBuilderOption {
	return func(p *presenter) {
		p.sampler = s
	}
}

// WithFallbackTexture sets the texture bound when a textured frame carries none.
// The default is a single opaque white texel, which leaves vertex colors untouched.
func WithFallbackTexture(t common.TextureStagingData) PresenterBuilderOption {
	return func(p *presenter) {
		p.fallback = t
	}
}
