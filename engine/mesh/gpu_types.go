package mesh

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// GPUVertexSource is the canonical WGSL definition of the VertexInput struct shared by the
// lab pipelines. Matches GPUVertex layout exactly (36 bytes, tightly packed).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUVertexSize is the size in bytes of one interleaved vertex.
const GPUVertexSize = 36

// GPUVertex is the interleaved representation of a single vertex as uploaded to the vertex buffer.
// Matches the WGSL VertexInput struct (see GPUVertexSource).
type GPUVertex struct {
	Position [3]float32 // offset  0: position in model space (12 bytes)
	TexCoord [2]float32 // offset 12: UV texture coordinate (8 bytes)
	Color    [4]float32 // offset 20: per-vertex RGBA color (16 bytes)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// MarshalTo writes the vertex into buf, which must hold at least GPUVertexSize bytes.
//
// Parameters:
//   - buf: destination slice
func (g *GPUVertex) MarshalTo(buf []byte) {
	putFloats(buf[0:12], g.Position[:])
	putFloats(buf[12:20], g.TexCoord[:])
	putFloats(buf[20:36], g.Color[:])
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 36-byte buffer ready for GPU upload.
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, GPUVertexSize)
	g.MarshalTo(buf)
	return buf
}

// GPUVertices converts the mesh into its interleaved vertex representation.
// Missing UVs read as (0,0) and missing colors as opaque white.
func (m *Mesh) GPUVertices() []GPUVertex {
	n := m.VertexCount()
	out := make([]GPUVertex, n)
	for i := range out {
		out[i].Position = m.Vertex(i)
		if len(m.UVs) >= (i+1)*2 {
			out[i].TexCoord = m.UV(i)
		}
		out[i].Color = m.Color(i)
	}
	return out
}

// VertexData packs the mesh into a little-endian interleaved vertex buffer.
//
// Returns:
//   - []byte: VertexCount()*GPUVertexSize bytes
func (m *Mesh) VertexData() []byte {
	verts := m.GPUVertices()
	buf := make([]byte, len(verts)*GPUVertexSize)
	for i := range verts {
		verts[i].MarshalTo(buf[i*GPUVertexSize:])
	}
	return buf
}

// IndexData packs the index list to match IndexFormat. 16-bit data is padded with a trailing
// zero index when needed so the buffer size stays a multiple of four bytes, as WriteBuffer requires.
// The padding is never drawn because draw calls use IndexCount.
//
// Returns:
//   - []byte: the packed index buffer
func (m *Mesh) IndexData() []byte {
	if m.IndexFormat() == wgpu.IndexFormatUint32 {
		buf := make([]byte, len(m.Indices)*4)
		for i, idx := range m.Indices {
			binary.LittleEndian.PutUint32(buf[i*4:], idx)
		}
		return buf
	}

	n := len(m.Indices)
	if n%2 != 0 {
		n++
	}
	buf := make([]byte, n*2)
	for i, idx := range m.Indices {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(idx))
	}
	return buf
}

// VertexBufferLayout describes GPUVertex to the render pipeline.
//
// Returns:
//   - wgpu.VertexBufferLayout: a single per-vertex buffer with position, uv and color at locations 0, 1 and 2
func VertexBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: GPUVertexSize,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 20, ShaderLocation: 2},
		},
	}
}

func putFloats(buf []byte, vals []float32) {
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
}
