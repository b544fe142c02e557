// annotations.go defines the @lab: annotations understood by the shader pre-processor.
// Annotations are single-line WGSL comments, so an annotated shader is still valid WGSL:
//
//	//@lab:include <struct>
//	//@lab:group <group> <binding> <address_space> <var_name> <struct>
//	//@lab:provider <group> <binding> <resource>
//
// include injects a registered struct definition, group emits the matching
// @group/@binding declaration, and provider marks a hand-written handle declaration
// (texture or sampler) so the renderer can find its binding without matching variable names.
package shader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

const annotationPrefix = "@lab:"

// AnnotationType is the action an annotation asks for.
type AnnotationType string

const (
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup declares a buffer binding of a registered struct type.
	AnnotationTypeBindingGroup AnnotationType = "group"

	// AnnotationTypeProvider tags the hand-written resource declaration that follows it.
	AnnotationTypeProvider AnnotationType = "provider"
)

// AnnotationArg is a registered annotation argument.
type AnnotationArg string

// Struct types.
const (
	// AnnotationArgVertex is the interleaved VertexInput struct shared by every lab mesh.
	AnnotationArgVertex AnnotationArg = "vertex"

	// AnnotationArgFrame is the FrameUniform struct holding the frame's MVP matrix.
	AnnotationArgFrame AnnotationArg = "frame"
)

// Address spaces.
const (
	annotationArgUniform     AnnotationArg = "uniform"
	annotationArgStorageRead AnnotationArg = "storage_read"
)

// Provider resources.
const (
	// AnnotationArgTexture marks the sampled texture of a textured pipeline.
	AnnotationArgTexture AnnotationArg = "texture"

	// AnnotationArgSampler marks the sampler paired with AnnotationArgTexture.
	AnnotationArgSampler AnnotationArg = "sampler"
)

var validStructTypes = []AnnotationArg{AnnotationArgVertex, AnnotationArgFrame}

var validAddressSpaces = []AnnotationArg{annotationArgUniform, annotationArgStorageRead}

var validProviders = []AnnotationArg{AnnotationArgTexture, AnnotationArgSampler}

// Annotation is one parsed annotation line.
type Annotation struct {
	Type AnnotationType

	// Args depends on Type:
	//   - include:  [struct]
	//   - group:    [address space, var name, struct]
	//   - provider: [resource]
	Args []AnnotationArg

	// Line is the 1-based source line, for error messages.
	Line int

	// Group and Binding are set for group and provider annotations.
	Group, Binding int
}

// parseAnnotation parses line as an annotation. Lines without the annotation prefix yield nil, nil.
//
// Parameters:
//   - line: one source line
//   - lineNum: its 1-based line number
//
// Returns:
//   - *Annotation: the annotation, or nil if the line is not one
//   - error: a description of a malformed annotation
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "//") {
		return nil, nil
	}
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}
	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty annotation", lineNum)
	}

	switch AnnotationType(args[0]) {
	case annotationTypeInclude:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: include takes exactly one struct type", lineNum)
		}
		if !slices.Contains(validStructTypes, AnnotationArg(args[1])) {
			return nil, fmt.Errorf("line %d: unknown struct type %q", lineNum, args[1])
		}
		return &Annotation{
			Type: annotationTypeInclude,
			Args: []AnnotationArg{AnnotationArg(args[1])},
			Line: lineNum,
		}, nil

	case AnnotationTypeBindingGroup:
		if len(args) != 6 {
			return nil, fmt.Errorf("line %d: group takes group, binding, address space, var name and struct type", lineNum)
		}
		group, bind, err := parseGroupBinding(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(validAddressSpaces, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown address space %q", lineNum, args[3])
		}
		if !slices.Contains(validStructTypes, AnnotationArg(args[5])) {
			return nil, fmt.Errorf("line %d: unknown struct type %q", lineNum, args[5])
		}
		return &Annotation{
			Type:    AnnotationTypeBindingGroup,
			Args:    []AnnotationArg{AnnotationArg(args[3]), AnnotationArg(args[4]), AnnotationArg(args[5])},
			Line:    lineNum,
			Group:   group,
			Binding: bind,
		}, nil

	case AnnotationTypeProvider:
		if len(args) != 4 {
			return nil, fmt.Errorf("line %d: provider takes group, binding and resource", lineNum)
		}
		group, bind, err := parseGroupBinding(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(validProviders, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown provider resource %q", lineNum, args[3])
		}
		return &Annotation{
			Type:    AnnotationTypeProvider,
			Args:    []AnnotationArg{AnnotationArg(args[3])},
			Line:    lineNum,
			Group:   group,
			Binding: bind,
		}, nil

	default:
		return nil, fmt.Errorf("line %d: unknown annotation %q", lineNum, args[0])
	}
}

func parseGroupBinding(groupArg, bindingArg string, lineNum int) (int, int, error) {
	group, err := strconv.Atoi(groupArg)
	if err != nil || group < 0 {
		return 0, 0, fmt.Errorf("line %d: invalid group %q", lineNum, groupArg)
	}
	bind, err := strconv.Atoi(bindingArg)
	if err != nil || bind < 0 {
		return 0, 0, fmt.Errorf("line %d: invalid binding %q", lineNum, bindingArg)
	}
	return group, bind, nil
}
