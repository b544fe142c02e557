package common

import (
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"
)

// Mat4 is a 4x4 transform matrix stored in column-major order (OpenGL/WebGPU convention).
// Mat4 is a value type: every constructor and operation returns a new matrix and never
// mutates its inputs, so composed chains such as T*R*S or proj*view*model cannot alias.
//
// Memory layout (indices):
//
//	| 0  4  8  12 |
//	| 1  5  9  13 |
//	| 2  6  10 14 |
//	| 3  7  11 15 |
type Mat4 [16]float32

// Identity returns the 4x4 identity matrix.
//
// Returns:
//   - Mat4: the identity matrix
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation returns a matrix that translates points by (tx, ty, tz).
//
// Parameters:
//   - tx, ty, tz: translation along each axis
//
// Returns:
//   - Mat4: the translation matrix
func Translation(tx, ty, tz float32) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = tx, ty, tz
	return m
}

// Scaling returns a matrix that scales along each axis.
//
// Parameters:
//   - sx, sy, sz: scale factors along each axis
//
// Returns:
//   - Mat4: the scale matrix
func Scaling(sx, sy, sz float32) Mat4 {
	m := Identity()
	m[0], m[5], m[10] = sx, sy, sz
	return m
}

// RotationX returns a right-handed rotation of rad radians about the X axis.
//
// Parameters:
//   - rad: rotation angle in radians
//
// Returns:
//   - Mat4: the rotation matrix
func RotationX(rad float32) Mat4 {
	c, s := math32.Cos(rad), math32.Sin(rad)
	m := Identity()
	m[5], m[6] = c, s
	m[9], m[10] = -s, c
	return m
}

// RotationY returns a right-handed rotation of rad radians about the Y axis.
//
// Parameters:
//   - rad: rotation angle in radians
//
// Returns:
//   - Mat4: the rotation matrix
func RotationY(rad float32) Mat4 {
	c, s := math32.Cos(rad), math32.Sin(rad)
	m := Identity()
	m[0], m[2] = c, -s
	m[8], m[10] = s, c
	return m
}

// RotationZ returns a right-handed rotation of rad radians about the Z axis.
// Positive angles rotate +X towards +Y.
//
// Parameters:
//   - rad: rotation angle in radians
//
// Returns:
//   - Mat4: the rotation matrix
func RotationZ(rad float32) Mat4 {
	c, s := math32.Cos(rad), math32.Sin(rad)
	m := Identity()
	m[0], m[1] = c, s
	m[4], m[5] = -s, c
	return m
}

// Ortho returns an orthographic projection mapping the box [l,r]x[b,t]x[-near,-far]
// onto the OpenGL clip cube [-1,1]^3. Inputs are not validated: l == r, b == t or
// near == far yield non-finite entries.
//
// Parameters:
//   - l, r: left and right clipping planes
//   - b, t: bottom and top clipping planes
//   - near, far: near and far clipping plane distances
//
// Returns:
//   - Mat4: the orthographic projection matrix
func Ortho(l, r, b, t, near, far float32) Mat4 {
	var m Mat4
	m[0] = 2 / (r - l)
	m[5] = 2 / (t - b)
	m[10] = -2 / (far - near)
	m[12] = -(r + l) / (r - l)
	m[13] = -(t + b) / (t - b)
	m[14] = -(far + near) / (far - near)
	m[15] = 1
	return m
}

// Perspective returns a perspective projection using the OpenGL clip convention
// (depth mapped to [-1, 1]). Use ClipSpaceZeroToOne to adapt the result for WebGPU.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance
//   - far: far clipping plane distance
//
// Returns:
//   - Mat4: the perspective projection matrix
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := 1 / math32.Tan(fovY/2)
	nf := near - far

	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) / nf
	m[11] = -1
	m[14] = 2 * far * near / nf
	return m
}

// ClipSpaceZeroToOne returns the correction matrix that remaps OpenGL depth [-1, 1]
// to the WebGPU depth range [0, 1]. Pre-multiply it onto a GL projection.
func ClipSpaceZeroToOne() Mat4 {
	m := Identity()
	m[10] = 0.5
	m[14] = 0.5
	return m
}

// Multiply returns the product a * b. Applied to a column vector, b acts first and a second.
//
// Parameters:
//   - a: left-hand matrix
//   - b: right-hand matrix
//
// Returns:
//   - Mat4: the product a * b
func Multiply(a, b Mat4) Mat4 {
	var out Mat4
	for i := 0; i < 4; i++ { // column of B
		for j := 0; j < 4; j++ { // row of A
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+j] * b[i*4+k]
			}
			out[i*4+j] = sum
		}
	}
	return out
}

// Mul returns m * b.
func (m Mat4) Mul(b Mat4) Mat4 {
	return Multiply(m, b)
}

// MulVec4 transforms the homogeneous column vector v by m.
//
// Parameters:
//   - v: the (x, y, z, w) vector
//
// Returns:
//   - [4]float32: m * v
func (m Mat4) MulVec4(v [4]float32) [4]float32 {
	var out [4]float32
	for row := 0; row < 4; row++ {
		out[row] = m[row]*v[0] + m[4+row]*v[1] + m[8+row]*v[2] + m[12+row]*v[3]
	}
	return out
}

// Transpose returns the transpose of m.
func Transpose(m Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			out[r*4+c] = m[c*4+r]
		}
	}
	return out
}

// Invert computes the inverse of a column-major matrix using the Laplace
// expansion (cofactor) method. If the matrix is singular (determinant == 0) the
// zero matrix is returned along with false.
//
// Parameters:
//   - m: source matrix
//
// Returns:
//   - Mat4: the inverse of m
//   - bool: true if the matrix was successfully inverted, false if singular
func Invert(m Mat4) (Mat4, bool) {
	// 2x2 sub-determinants of the upper-left and lower-right quadrants.
	s0 := m[0]*m[5] - m[4]*m[1]
	s1 := m[0]*m[6] - m[4]*m[2]
	s2 := m[0]*m[7] - m[4]*m[3]
	s3 := m[1]*m[6] - m[5]*m[2]
	s4 := m[1]*m[7] - m[5]*m[3]
	s5 := m[2]*m[7] - m[6]*m[3]

	c5 := m[10]*m[15] - m[14]*m[11]
	c4 := m[9]*m[15] - m[13]*m[11]
	c3 := m[9]*m[14] - m[13]*m[10]
	c2 := m[8]*m[15] - m[12]*m[11]
	c1 := m[8]*m[14] - m[12]*m[10]
	c0 := m[8]*m[13] - m[12]*m[9]

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return Mat4{}, false
	}
	invDet := 1 / det

	var out Mat4
	out[0] = (m[5]*c5 - m[6]*c4 + m[7]*c3) * invDet
	out[1] = (-m[1]*c5 + m[2]*c4 - m[3]*c3) * invDet
	out[2] = (m[13]*s5 - m[14]*s4 + m[15]*s3) * invDet
	out[3] = (-m[9]*s5 + m[10]*s4 - m[11]*s3) * invDet

	out[4] = (-m[4]*c5 + m[6]*c2 - m[7]*c1) * invDet
	out[5] = (m[0]*c5 - m[2]*c2 + m[3]*c1) * invDet
	out[6] = (-m[12]*s5 + m[14]*s2 - m[15]*s1) * invDet
	out[7] = (m[8]*s5 - m[10]*s2 + m[11]*s1) * invDet

	out[8] = (m[4]*c4 - m[5]*c2 + m[7]*c0) * invDet
	out[9] = (-m[0]*c4 + m[1]*c2 - m[3]*c0) * invDet
	out[10] = (m[12]*s4 - m[13]*s2 + m[15]*s0) * invDet
	out[11] = (-m[8]*s4 + m[9]*s2 - m[11]*s0) * invDet

	out[12] = (-m[4]*c3 + m[5]*c1 - m[6]*c0) * invDet
	out[13] = (m[0]*c3 - m[1]*c1 + m[2]*c0) * invDet
	out[14] = (-m[12]*s3 + m[13]*s1 - m[14]*s0) * invDet
	out[15] = (m[8]*s3 - m[9]*s1 + m[10]*s0) * invDet

	return out, true
}

// LookAt creates a view matrix that positions and orients the camera.
// The resulting matrix transforms world coordinates to view/camera space.
//
// Parameters:
//   - eye: camera position in world space
//   - center: target point the camera looks at
//   - up: up vector defining camera orientation (typically 0,1,0)
//
// Returns:
//   - Mat4: the view matrix
func LookAt(eye, center, up [3]float32) Mat4 {
	z := normalize3([3]float32{eye[0] - center[0], eye[1] - center[1], eye[2] - center[2]})
	x := normalize3(cross3(up, z))
	y := cross3(z, x)

	var m Mat4
	m[0], m[4], m[8], m[12] = x[0], x[1], x[2], -dot3(x, eye)
	m[1], m[5], m[9], m[13] = y[0], y[1], y[2], -dot3(y, eye)
	m[2], m[6], m[10], m[14] = z[0], z[1], z[2], -dot3(z, eye)
	m[3], m[7], m[11], m[15] = 0, 0, 0, 1
	return m
}

// Bytes serializes the matrix into a 64-byte little-endian buffer suitable for a
// mat4x4<f32> uniform upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload
func (m Mat4) Bytes() []byte {
	buf := make([]byte, 64)
	for i := 0; i < 16; i++ {
		binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], math.Float32bits(m[i]))
	}
	return buf
}

// ApproxEqual reports whether every element of a and b differs by at most eps.
func ApproxEqual(a, b Mat4, eps float32) bool {
	for i := range a {
		if math32.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float32) float32 {
	return deg * math32.Pi / 180
}

func dot3(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func cross3(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// normalize3 returns v scaled to unit length; a zero vector is returned unchanged.
func normalize3(v [3]float32) [3]float32 {
	l := math32.Sqrt(dot3(v, v))
	if l == 0 {
		return v
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}
