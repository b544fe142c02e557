package renderer

import (
	_ "embed"

	"github.com/Park52/webgl-lab/engine/lab"
	"github.com/Park52/webgl-lab/engine/renderer/pipeline"
	"github.com/Park52/webgl-lab/engine/renderer/shader"
)

var (
	//go:embed assets/lab.vert.wgsl
	labVertexSource string

	//go:embed assets/color.frag.wgsl
	colorFragmentSource string

	//go:embed assets/textured.frag.wgsl
	texturedFragmentSource string
)

// LabPipelines builds the two pipelines every lab frame draws with. Both share the lab vertex
// shader; the textured pipeline samples group 1 and blends by alpha. Panics if an embedded
// shader fails to parse.
//
// Returns:
//   - []pipeline.Pipeline: the color and textured pipelines, not yet registered
func LabPipelines() []pipeline.Pipeline {
	vs := shader.NewShader("lab_vert", shader.ShaderTypeVertex, labVertexSource)
	return []pipeline.Pipeline{
		pipeline.NewPipeline(lab.PipelineColor,
			pipeline.WithVertexShader(vs),
			pipeline.WithFragmentShader(shader.NewShader("color_frag", shader.ShaderTypeFragment, colorFragmentSource)),
		),
		pipeline.NewPipeline(lab.PipelineTextured,
			pipeline.WithVertexShader(vs),
			pipeline.WithFragmentShader(shader.NewShader("textured_frag", shader.ShaderTypeFragment, texturedFragmentSource)),
			pipeline.WithBlendEnabled(true),
		),
	}
}
