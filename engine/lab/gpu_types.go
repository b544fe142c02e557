package lab

import (
	_ "embed"

	"github.com/Park52/webgl-lab/common"
)

// GPUFrameUniformSource is the WGSL definition of the FrameUniform struct bound by every lab pipeline.
//
//go:embed assets/frame_uniform.wgsl
var GPUFrameUniformSource string

// GPUFrameUniformSize is the byte size of GPUFrameUniform.
const GPUFrameUniformSize = 64

// GPUFrameUniform is the per-frame uniform block. Matches the WGSL FrameUniform struct.
type GPUFrameUniform struct {
	MVP common.Mat4
}

// Uniform returns the frame's uniform block with the MVP remapped to WebGPU clip depth.
// Labs build their projections with the GL convention, so the correction is applied here once.
//
// Returns:
//   - GPUFrameUniform: the uniform ready for upload
func (f Frame) Uniform() GPUFrameUniform {
	return GPUFrameUniform{MVP: common.ClipSpaceZeroToOne().Mul(f.MVP)}
}

// Marshal serializes the uniform into its std140 byte layout.
//
// Returns:
//   - []byte: GPUFrameUniformSize bytes
func (u GPUFrameUniform) Marshal() []byte {
	return u.MVP.Bytes()
}
