package mesh

// Triangle returns a single triangle with red, green and blue corners, sized to fill
// most of clip space when drawn with an identity transform.
func Triangle() *Mesh {
	return &Mesh{
		Positions: []float32{
			0.0, 0.6, 0,
			-0.6, -0.6, 0,
			0.6, -0.6, 0,
		},
		UVs: []float32{
			0.5, 0,
			0, 1,
			1, 1,
		},
		Colors: []float32{
			1, 0, 0, 1,
			0, 1, 0, 1,
			0, 0, 1, 1,
		},
		Indices: []uint32{0, 1, 2},
	}
}

// Quad returns a two-triangle rectangle in the XY plane centered on the origin.
// UV (0,0) is the top-left corner so images appear upright.
//
// Parameters:
//   - halfW: half the width of the quad
//   - halfH: half the height of the quad
//
// Returns:
//   - *Mesh: a four-vertex, six-index mesh
func Quad(halfW, halfH float32) *Mesh {
	return &Mesh{
		Positions: []float32{
			-halfW, halfH, 0,
			-halfW, -halfH, 0,
			halfW, -halfH, 0,
			halfW, halfH, 0,
		},
		UVs: []float32{
			0, 0,
			0, 1,
			1, 1,
			1, 0,
		},
		Indices: []uint32{
			0, 1, 2,
			0, 2, 3,
		},
	}
}
