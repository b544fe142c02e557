package mesh

import (
	"errors"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// ErrNoMesh is returned by Load when a glTF document contains no triangle primitive.
var ErrNoMesh = errors.New("mesh: document has no mesh primitive")

// Document builds a single-node glTF 2.0 document containing m.
// POSITION, TEXCOORD_0 and indices are always written; COLOR_0 only when the mesh has colors.
//
// Parameters:
//   - name: the mesh and node name stored in the document
//
// Returns:
//   - *gltf.Document: the in-memory document
func (m *Mesh) Document(name string) *gltf.Document {
	doc := gltf.NewDocument()

	n := m.VertexCount()
	positions := make([][3]float32, n)
	uvs := make([][2]float32, n)
	for i := 0; i < n; i++ {
		positions[i] = m.Vertex(i)
		if len(m.UVs) >= (i+1)*2 {
			uvs[i] = m.UV(i)
		}
	}

	attrs := map[string]int{
		gltf.POSITION:   modeler.WritePosition(doc, positions),
		gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, uvs),
	}
	if len(m.Colors) >= n*4 && n > 0 {
		colors := make([][4]float32, n)
		for i := range colors {
			colors[i] = m.Color(i)
		}
		attrs[gltf.COLOR_0] = modeler.WriteColor(doc, colors)
	}

	var indices int
	if m.VertexCount()-1 > maxUint16Index {
		indices = modeler.WriteIndices(doc, m.Indices)
	} else {
		narrow := make([]uint16, len(m.Indices))
		for i, idx := range m.Indices {
			narrow[i] = uint16(idx)
		}
		indices = modeler.WriteIndices(doc, narrow)
	}

	doc.Meshes = []*gltf.Mesh{{
		Name: name,
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(indices),
			Attributes: attrs,
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: name, Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	return doc
}

// SaveGLB writes the mesh as a binary glTF (.glb) file.
//
// Parameters:
//   - path: destination file path
//   - name: the mesh name stored in the document
//
// Returns:
//   - error: any encoding or file system error
func (m *Mesh) SaveGLB(path, name string) error {
	if err := gltf.SaveBinary(m.Document(name), path); err != nil {
		return fmt.Errorf("mesh: save glb %q: %w", path, err)
	}
	return nil
}

// SaveGLTF writes the mesh as a JSON glTF file with the geometry embedded as a data URI.
//
// Parameters:
//   - path: destination file path
//   - name: the mesh name stored in the document
//
// Returns:
//   - error: any encoding or file system error
func (m *Mesh) SaveGLTF(path, name string) error {
	doc := m.Document(name)
	for _, b := range doc.Buffers {
		b.EmbeddedResource()
	}
	if err := gltf.Save(doc, path); err != nil {
		return fmt.Errorf("mesh: save gltf %q: %w", path, err)
	}
	return nil
}

// Load reads the first primitive of the first mesh in a glTF or glb file.
//
// Parameters:
//   - path: source file path
//
// Returns:
//   - *Mesh: the decoded geometry
//   - error: ErrNoMesh when the document has no primitive, or any decoding error
func Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mesh: open %q: %w", path, err)
	}
	if len(doc.Meshes) == 0 || len(doc.Meshes[0].Primitives) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMesh, path)
	}
	prim := doc.Meshes[0].Primitives[0]

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no POSITION", ErrNoMesh, path)
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("mesh: read positions: %w", err)
	}

	m := &Mesh{Positions: make([]float32, 0, len(positions)*3)}
	for _, p := range positions {
		m.Positions = append(m.Positions, p[0], p[1], p[2])
	}

	if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[uvIdx], nil)
		if err != nil {
			return nil, fmt.Errorf("mesh: read uvs: %w", err)
		}
		m.UVs = make([]float32, 0, len(uvs)*2)
		for _, uv := range uvs {
			m.UVs = append(m.UVs, uv[0], uv[1])
		}
	}

	if colIdx, ok := prim.Attributes[gltf.COLOR_0]; ok {
		colors, err := modeler.ReadColor(doc, doc.Accessors[colIdx], nil)
		if err != nil {
			return nil, fmt.Errorf("mesh: read colors: %w", err)
		}
		m.Colors = make([]float32, 0, len(colors)*4)
		for _, c := range colors {
			m.Colors = append(m.Colors,
				float32(c[0])/255, float32(c[1])/255, float32(c[2])/255, float32(c[3])/255)
		}
	}

	if prim.Indices != nil {
		m.Indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("mesh: read indices: %w", err)
		}
	}

	return m, nil
}
