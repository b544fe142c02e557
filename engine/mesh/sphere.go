package mesh

import (
	"errors"
	"fmt"

	"github.com/Park52/webgl-lab/common"
	"github.com/chewxy/math32"
)

// ErrInvalidSubdivision is returned when a sphere is requested with fewer than one stack or slice.
var ErrInvalidSubdivision = errors.New("mesh: stacks and slices must be at least 1")

// SphereMesh is a UV sphere together with the parameters it was built from.
// A SphereMesh is never modified after construction; changing any parameter means
// building a new one.
type SphereMesh struct {
	Mesh
	Radius float32
	Stacks int
	Slices int
}

// CreateSphereMesh generates a latitude/longitude sphere centered on the origin.
//
// Vertices are laid out stack-major, (stacks+1) rows of (slices+1) vertices. Row k sits at
// polar angle phi = pi*k/stacks measured from +Y and column j at azimuth theta = 2*pi*j/slices,
// so the seam column and both pole rows are duplicated to keep UVs continuous. Each grid cell
// produces two triangles, giving stacks*slices*6 indices. They wind clockwise seen from
// outside, so back-face culling needs wgpu.FrontFaceCW.
//
// When the highest vertex index does not fit in 16 bits a warning is logged and the mesh
// reports a 32-bit index format.
//
// Parameters:
//   - radius: sphere radius (not validated; a negative radius mirrors the sphere)
//   - stacks: number of latitude bands, at least 1
//   - slices: number of longitude bands, at least 1
//
// Returns:
//   - *SphereMesh: the generated mesh
//   - error: ErrInvalidSubdivision when stacks or slices is below 1
func CreateSphereMesh(radius float32, stacks, slices int) (*SphereMesh, error) {
	if stacks < 1 || slices < 1 {
		return nil, fmt.Errorf("%w: stacks=%d slices=%d", ErrInvalidSubdivision, stacks, slices)
	}

	vertexCount := (stacks + 1) * (slices + 1)
	positions := make([]float32, 0, vertexCount*3)
	uvs := make([]float32, 0, vertexCount*2)

	for stack := 0; stack <= stacks; stack++ {
		v := float32(stack) / float32(stacks)
		phi := v * math32.Pi
		sinPhi, cosPhi := math32.Sin(phi), math32.Cos(phi)

		for slice := 0; slice <= slices; slice++ {
			u := float32(slice) / float32(slices)
			theta := u * 2 * math32.Pi
			sinTheta, cosTheta := math32.Sin(theta), math32.Cos(theta)

			positions = append(positions,
				radius*sinPhi*cosTheta,
				radius*cosPhi,
				radius*sinPhi*sinTheta,
			)
			uvs = append(uvs, u, v)
		}
	}

	indices := make([]uint32, 0, stacks*slices*6)
	for stack := 0; stack < stacks; stack++ {
		for slice := 0; slice < slices; slice++ {
			first := uint32(stack*(slices+1) + slice)
			second := first + uint32(slices) + 1
			indices = append(indices,
				first, second, first+1,
				first+1, second, second+1,
			)
		}
	}

	s := &SphereMesh{
		Mesh: Mesh{
			Positions: positions,
			UVs:       uvs,
			Indices:   indices,
		},
		Radius: radius,
		Stacks: stacks,
		Slices: slices,
	}

	if vertexCount-1 > maxUint16Index {
		common.Logger().Warn("sphere mesh exceeds 16-bit index range, using 32-bit indices",
			"stacks", stacks,
			"slices", slices,
			"vertices", vertexCount,
		)
	}

	return s, nil
}
