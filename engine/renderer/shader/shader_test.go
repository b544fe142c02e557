package shader

import (
	"strings"
	"testing"

	"github.com/Park52/webgl-lab/engine/lab"
	"github.com/Park52/webgl-lab/engine/mesh"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVertexSource = `//@lab:include vertex
//@lab:include frame
//@lab:group 0 0 uniform frame frame

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) color: vec4<f32>,
};

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.position = frame.mvp * vec4<f32>(in.position, 1.0);
    out.color = in.color;
    return out;
}
`

const testFragmentSource = `struct FragmentInput {
    @location(0) color: vec4<f32>,
    @location(1) uv: vec2<f32>,
};

//@lab:provider 1 0 texture
@group(1) @binding(0) var diffuse: texture_2d<f32>;
//@lab:provider 1 1 sampler
@group(1) @binding(1) var diffuseSampler: sampler;

/* the sampled texel is tinted by the vertex color */
@fragment
fn fs_main(in: FragmentInput) -> @location(0) vec4<f32> {
    return textureSample(diffuse, diffuseSampler, in.uv) * in.color;
}
`

func TestVertexShaderLayoutMatchesMesh(t *testing.T) {
	s, err := ParseShader("lab_vert", ShaderTypeVertex, testVertexSource)
	require.NoError(t, err)

	assert.Equal(t, "vs_main", s.EntryPoint())
	require.Len(t, s.VertexLayouts(), 1)
	assert.Equal(t, mesh.VertexBufferLayout(), s.VertexLayouts()[0])
}

func TestVertexShaderFrameBinding(t *testing.T) {
	s, err := ParseShader("lab_vert", ShaderTypeVertex, testVertexSource)
	require.NoError(t, err)

	assert.Contains(t, s.Source(), "@group(0) @binding(0) var<uniform> frame: FrameUniform;")
	assert.Contains(t, s.Source(), "struct FrameUniform")

	desc := s.BindGroupLayoutDescriptor(0)
	require.Len(t, desc.Entries, 1)
	entry := desc.Entries[0]
	assert.Equal(t, wgpu.BufferBindingTypeUniform, entry.Buffer.Type)
	assert.EqualValues(t, lab.GPUFrameUniformSize, entry.Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex, entry.Visibility)
	assert.Equal(t, "frame", s.BindGroupVarName(0, 0))

	require.Len(t, s.Declarations(), 1)
	assert.Equal(t, AnnotationTypeBindingGroup, s.Declarations()[0].Type)
}

func TestFragmentShaderProviders(t *testing.T) {
	s, err := ParseShader("textured_frag", ShaderTypeFragment, testFragmentSource)
	require.NoError(t, err)

	assert.Equal(t, "fs_main", s.EntryPoint())
	assert.Empty(t, s.VertexLayouts())

	group, binding, ok := s.Provider(AnnotationArgTexture)
	require.True(t, ok)
	assert.Equal(t, 1, group)
	assert.Equal(t, 0, binding)

	group, binding, ok = s.Provider(AnnotationArgSampler)
	require.True(t, ok)
	assert.Equal(t, 1, group)
	assert.Equal(t, 1, binding)

	_, _, ok = s.Provider(AnnotationArg("missing"))
	assert.False(t, ok)

	desc := s.BindGroupLayoutDescriptor(1)
	require.Len(t, desc.Entries, 2)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, desc.Entries[0].Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2D, desc.Entries[0].Texture.ViewDimension)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, desc.Entries[1].Sampler.Type)
	assert.Equal(t, wgpu.ShaderStageFragment, desc.Entries[1].Visibility)
	assert.Empty(t, s.BindGroupLayoutDescriptor(0).Entries)
}

func TestParseShaderErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"unknown struct", "//@lab:include camera\n@vertex fn main() {}", "unknown struct type"},
		{"bad group", "//@lab:group x 0 uniform frame frame\n@vertex fn main() {}", "invalid group"},
		{"unknown address space", "//@lab:group 0 0 push frame frame\n@vertex fn main() {}", "unknown address space"},
		{"unknown annotation", "//@lab:shadow\n@vertex fn main() {}", "unknown annotation"},
		{"empty annotation", "//@lab:\n@vertex fn main() {}", "empty annotation"},
		{"no entry point", "//@lab:include vertex\n", "no entry point"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseShader("broken", ShaderTypeVertex, tt.source)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewShaderPanicsOnError(t *testing.T) {
	assert.Panics(t, func() {
		NewShader("broken", ShaderTypeFragment, "@vertex fn main() {}")
	})
}

func TestIncludeIsIdempotent(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("//@lab:include frame\n//@lab:include frame\n")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "struct FrameUniform"))
	assert.Empty(t, pp.Declarations())
}

func TestPlainCommentsPassThrough(t *testing.T) {
	pp := NewPreProcessor()
	src := "// just a note\nlet x = 1; // @lab:include is only read at line start\n"
	out, err := pp.Process(src)
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestModuleDescriptor(t *testing.T) {
	s := NewShader("lab_vert", ShaderTypeVertex, testVertexSource)
	m := s.Module()
	assert.Equal(t, "lab_vert", m.Label)
	require.NotNil(t, m.WGSLDescriptor)
	assert.Equal(t, s.Source(), m.WGSLDescriptor.Code)
}
