package shader

import (
	"fmt"
	"strings"

	"github.com/Park52/webgl-lab/engine/lab"
	"github.com/Park52/webgl-lab/engine/mesh"
)

// registryEntry is a registered struct: its WGSL definition and type name.
type registryEntry struct {
	Source string
	Type   string
}

type preProcessor struct {
	structRegistry       map[AnnotationArg]registryEntry
	addressSpaceRegistry map[AnnotationArg]string
	declarations         []Annotation
}

// PreProcessor expands @lab: annotations in WGSL source.
type PreProcessor interface {
	// Process replaces include and group annotations with WGSL and records group and provider
	// annotations as declarations. Each call resets the declarations.
	//
	// Parameters:
	//   - source: annotated WGSL
	//
	// Returns:
	//   - string: plain WGSL
	//   - error: the first malformed annotation, with its line number
	Process(source string) (string, error)

	// Declarations returns the group and provider annotations from the last Process call in source order.
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor that knows the vertex and frame uniform structs.
//
// Returns:
//   - PreProcessor: a ready pre-processor
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		structRegistry: map[AnnotationArg]registryEntry{
			AnnotationArgVertex: {Source: mesh.GPUVertexSource, Type: "VertexInput"},
			AnnotationArgFrame:  {Source: lab.GPUFrameUniformSource, Type: "FrameUniform"},
		},
		addressSpaceRegistry: map[AnnotationArg]string{
			annotationArgUniform:     "var<uniform>",
			annotationArgStorageRead: "var<storage, read>",
		},
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = nil

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	included := make(map[AnnotationArg]bool)

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case annotationTypeInclude:
			// a second include of the same struct would redeclare it
			if included[a.Args[0]] {
				continue
			}
			included[a.Args[0]] = true
			out = append(out, strings.TrimRight(p.structRegistry[a.Args[0]].Source, "\n"))
		case AnnotationTypeBindingGroup:
			entry := p.structRegistry[a.Args[2]]
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;",
				a.Group, a.Binding, p.addressSpaceRegistry[a.Args[0]], a.Args[1], entry.Type))
			p.declarations = append(p.declarations, *a)
		case AnnotationTypeProvider:
			p.declarations = append(p.declarations, *a)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}
