// Package mesh builds the CPU-side geometry drawn by the labs: the indexed lat/long
// sphere, a colored triangle and a textured quad. Meshes are plain float slices and can
// be packed into interleaved GPU buffers or exported as glTF.
package mesh

import "github.com/cogentcore/webgpu/wgpu"

// maxUint16Index is the largest vertex index addressable with a 16-bit index buffer.
const maxUint16Index = 1<<16 - 1

// Mesh is an indexed triangle list.
//
// Positions holds xyz per vertex, UVs holds uv per vertex in the same order and Colors
// optionally holds rgba per vertex (empty means opaque white). Indices reference vertices
// by position in those slices, three per triangle.
type Mesh struct {
	Positions []float32
	UVs       []float32
	Colors    []float32
	Indices   []uint32
}

// VertexCount returns the number of vertices in the mesh.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// IndexCount returns the number of indices in the mesh.
func (m *Mesh) IndexCount() int {
	return len(m.Indices)
}

// IndexFormat returns the narrowest index format able to address every vertex.
//
// Returns:
//   - wgpu.IndexFormat: IndexFormatUint16 when the highest vertex index fits in 16 bits, IndexFormatUint32 otherwise
func (m *Mesh) IndexFormat() wgpu.IndexFormat {
	if m.VertexCount()-1 > maxUint16Index {
		return wgpu.IndexFormatUint32
	}
	return wgpu.IndexFormatUint16
}

// Vertex returns the position of vertex i.
func (m *Mesh) Vertex(i int) [3]float32 {
	return [3]float32{m.Positions[i*3], m.Positions[i*3+1], m.Positions[i*3+2]}
}

// UV returns the texture coordinate of vertex i.
func (m *Mesh) UV(i int) [2]float32 {
	return [2]float32{m.UVs[i*2], m.UVs[i*2+1]}
}

// Color returns the color of vertex i, or opaque white when the mesh has no colors.
func (m *Mesh) Color(i int) [4]float32 {
	if len(m.Colors) < (i+1)*4 {
		return [4]float32{1, 1, 1, 1}
	}
	return [4]float32{m.Colors[i*4], m.Colors[i*4+1], m.Colors[i*4+2], m.Colors[i*4+3]}
}
