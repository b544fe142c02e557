// package common contains common types that are used throughout the lab. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types, plus the matrix utilities every lab composes its transforms from.
package common

import (
	"errors"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrEmptyTexture is returned when texture staging data has no pixels or a zero dimension.
var ErrEmptyTexture = errors.New("texture has no pixel data")

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
// Labs produce it (decoded images or generated patterns) and the renderer uploads it when the frame's texture version changes.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Width uint32
	// Height is the height of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Height uint32
}

// Validate checks that the staging data describes a complete RGBA image.
//
// Returns:
//   - error: ErrEmptyTexture if the data is unusable, nil otherwise
func (t *TextureStagingData) Validate() error {
	if t == nil || t.Width == 0 || t.Height == 0 || len(t.Pixels) < int(t.Width*t.Height*4) {
		return ErrEmptyTexture
	}
	return nil
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
// Zero-valued fields fall back to linear filtering with repeat addressing.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range in each dimension (U, V, W).
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail (LOD) for mipmapping.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering.
	MaxAnisotropy uint16
}
