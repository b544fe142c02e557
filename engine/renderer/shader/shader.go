package shader

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType is the pipeline stage a shader runs in.
type ShaderType int

const (
	// ShaderTypeVertex is a shader with a @vertex entry point.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is a shader with a @fragment entry point.
	ShaderTypeFragment
)

// shader is the implementation of the Shader interface.
type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	entryPoint                 string
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	vertexLayouts              []wgpu.VertexBufferLayout
	declarations               []Annotation
}

// Shader is a pre-processed WGSL stage together with the layout metadata parsed from it:
// entry point, vertex buffer layouts and bind group layout descriptors.
type Shader interface {
	// Key returns the shader's unique key, used as its module label.
	Key() string

	// Source returns the pre-processed WGSL.
	Source() string

	// ShaderType returns the stage.
	ShaderType() ShaderType

	// EntryPoint returns the stage's entry function name.
	EntryPoint() string

	// BindGroupLayoutDescriptor returns the descriptor for group, or an empty descriptor.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors returns every descriptor keyed by group index.
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName returns the variable bound at group/binding, or "".
	BindGroupVarName(group, binding int) string

	// VertexLayouts returns the vertex buffer layouts by slot. Empty for fragment shaders.
	VertexLayouts() []wgpu.VertexBufferLayout

	// Declarations returns the group and provider annotations found during pre-processing.
	Declarations() []Annotation

	// Provider finds the provider annotation for resource.
	//
	// Parameters:
	//   - resource: e.g. AnnotationArgTexture
	//
	// Returns:
	//   - int: the group index
	//   - int: the binding index
	//   - bool: false when the shader declares no such provider
	Provider(resource AnnotationArg) (int, int, bool)

	// Module returns the descriptor for creating the GPU shader module.
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// ParseShader pre-processes source and extracts its layout metadata.
//
// Parameters:
//   - key: unique identifier for the shader
//   - shaderType: the stage
//   - source: annotated WGSL
//
// Returns:
//   - Shader: the parsed shader
//   - error: a malformed annotation or a missing entry point
func ParseShader(key string, shaderType ShaderType, source string) (Shader, error) {
	pp := NewPreProcessor()
	processed, err := pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}

	s := &shader{
		key:          key,
		source:       processed,
		shaderType:   shaderType,
		entryPoint:   parseEntryPoint(processed, shaderType),
		declarations: pp.Declarations(),
	}
	if s.entryPoint == "" {
		return nil, fmt.Errorf("shader %s: no entry point for stage %d", key, shaderType)
	}

	visibility := wgpu.ShaderStageFragment
	if shaderType == ShaderTypeVertex {
		visibility = wgpu.ShaderStageVertex
		s.vertexLayouts = parseVertexLayouts(processed)
	}
	s.bindGroupLayoutDescriptors, s.bindingVarNames = parseBindGroupLayouts(processed, visibility)
	return s, nil
}

// NewShader is ParseShader for sources compiled into the binary. It panics on error.
//
// Parameters:
//   - key: unique identifier for the shader
//   - shaderType: the stage
//   - source: annotated WGSL
//
// Returns:
//   - Shader: the parsed shader
func NewShader(key string, shaderType ShaderType, source string) Shader {
	s, err := ParseShader(key, shaderType, source)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	return s.bindingVarNames[group][binding]
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}

func (s *shader) Provider(resource AnnotationArg) (int, int, bool) {
	for _, d := range s.declarations {
		if d.Type == AnnotationTypeProvider && d.Args[0] == resource {
			return d.Group, d.Binding, true
		}
	}
	return 0, 0, false
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
}
