package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-5

func assertMatEqual(t *testing.T, want, got Mat4) {
	t.Helper()
	assert.Truef(t, ApproxEqual(want, got, eps), "matrices differ\nwant %v\ngot  %v", want, got)
}

func sample() Mat4 {
	return Multiply(Translation(1, -2, 3), Multiply(RotationY(0.7), Scaling(2, 0.5, 1.5)))
}

func TestIdentityLaws(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
	}{
		{"identity", Identity()},
		{"translation", Translation(3, 4, 5)},
		{"rotation z", RotationZ(1.1)},
		{"composite", sample()},
		{"perspective", Perspective(1, 1.5, 0.1, 100)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.m, Multiply(Identity(), tt.m))
			assert.Equal(t, tt.m, Multiply(tt.m, Identity()))
		})
	}
}

func TestMultiplyAssociative(t *testing.T) {
	a := Translation(1, 2, 3)
	b := RotationZ(0.3).Mul(RotationX(-1.2))
	c := Perspective(0.9, 4.0/3.0, 0.5, 50)

	assertMatEqual(t, Multiply(Multiply(a, b), c), Multiply(a, Multiply(b, c)))
}

func TestMultiplyDoesNotMutateInputs(t *testing.T) {
	a := Translation(1, 2, 3)
	b := Scaling(2, 2, 2)
	aCopy, bCopy := a, b

	_ = Multiply(a, b)

	assert.Equal(t, aCopy, a)
	assert.Equal(t, bCopy, b)
}

func TestTranslationMovesOrigin(t *testing.T) {
	got := Translation(4, -5, 6).MulVec4([4]float32{0, 0, 0, 1})
	assert.Equal(t, [4]float32{4, -5, 6, 1}, got)
}

func TestScaleThenTranslateOrder(t *testing.T) {
	// S * T: the translation is applied first, then scaled.
	got := Multiply(Scaling(2, 2, 2), Translation(1, 0, 0)).MulVec4([4]float32{0, 0, 0, 1})
	assert.Equal(t, [4]float32{2, 0, 0, 1}, got)

	// T * R * S keeps the translation unscaled.
	trs := Multiply(Translation(1, 0, 0), Multiply(RotationZ(0), Scaling(2, 2, 2)))
	assert.Equal(t, [4]float32{3, 0, 0, 1}, trs.MulVec4([4]float32{1, 0, 0, 1}))
}

func TestRotationZQuarterTurn(t *testing.T) {
	got := RotationZ(math.Pi / 2).MulVec4([4]float32{1, 0, 0, 1})
	assert.InDelta(t, 0, got[0], eps)
	assert.InDelta(t, 1, got[1], eps)
	assert.InDelta(t, 0, got[2], eps)
}

func TestRotationYQuarterTurn(t *testing.T) {
	// Right-handed: +Z rotates towards +X about +Y.
	got := RotationY(math.Pi / 2).MulVec4([4]float32{0, 0, 1, 1})
	assert.InDelta(t, 1, got[0], eps)
	assert.InDelta(t, 0, got[1], eps)
	assert.InDelta(t, 0, got[2], eps)
}

func TestConstructorsMatchMathGL(t *testing.T) {
	tests := []struct {
		name string
		got  Mat4
		want mgl32.Mat4
	}{
		{"translation", Translation(1, 2, 3), mgl32.Translate3D(1, 2, 3)},
		{"scaling", Scaling(2, 3, 4), mgl32.Scale3D(2, 3, 4)},
		{"rotation x", RotationX(0.4), mgl32.HomogRotate3DX(0.4)},
		{"rotation y", RotationY(-1.3), mgl32.HomogRotate3DY(-1.3)},
		{"rotation z", RotationZ(2.2), mgl32.HomogRotate3DZ(2.2)},
		{"ortho", Ortho(-2, 3, -1, 4, 0.5, 20), mgl32.Ortho(-2, 3, -1, 4, 0.5, 20)},
		{"perspective", Perspective(mgl32.DegToRad(60), 16.0/9.0, 0.1, 100), mgl32.Perspective(mgl32.DegToRad(60), 16.0/9.0, 0.1, 100)},
		{"look at", LookAt([3]float32{3, 4, 5}, [3]float32{0, 1, 0}, [3]float32{0, 1, 0}), mgl32.LookAt(3, 4, 5, 0, 1, 0, 0, 1, 0)},
		{"product", Multiply(Translation(1, 0, 0), RotationZ(0.5)), mgl32.Translate3D(1, 0, 0).Mul4(mgl32.HomogRotate3DZ(0.5))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertMatEqual(t, Mat4(tt.want), tt.got)
		})
	}
}

func TestOrthoMapsCornersToNDC(t *testing.T) {
	m := Ortho(-4, 4, -3, 3, 1, 10)

	near := m.MulVec4([4]float32{-4, -3, -1, 1})
	far := m.MulVec4([4]float32{4, 3, -10, 1})

	assert.InDeltaSlice(t, []float32{-1, -1, -1, 1}, near[:], eps)
	assert.InDeltaSlice(t, []float32{1, 1, 1, 1}, far[:], eps)
}

func TestPerspectiveDepthRange(t *testing.T) {
	const near, far = 0.5, 25
	m := Perspective(1, 1, near, far)

	n := m.MulVec4([4]float32{0, 0, -near, 1})
	f := m.MulVec4([4]float32{0, 0, -far, 1})
	assert.InDelta(t, -1, n[2]/n[3], eps)
	assert.InDelta(t, 1, f[2]/f[3], 1e-4)

	zo := ClipSpaceZeroToOne().Mul(m)
	n = zo.MulVec4([4]float32{0, 0, -near, 1})
	f = zo.MulVec4([4]float32{0, 0, -far, 1})
	assert.InDelta(t, 0, n[2]/n[3], eps)
	assert.InDelta(t, 1, f[2]/f[3], 1e-4)
}

func TestDegenerateOrthoIsNotFinite(t *testing.T) {
	m := Ortho(-1, 1, -1, 1, 2, 2)

	nonFinite := false
	for _, v := range m {
		if math.IsInf(float64(v), 0) || math.IsNaN(float64(v)) {
			nonFinite = true
		}
	}
	assert.True(t, nonFinite, "near == far must produce non-finite entries")
}

func TestInvert(t *testing.T) {
	m := sample()
	inv, ok := Invert(m)
	require.True(t, ok)
	assertMatEqual(t, Identity(), Multiply(inv, m))
	assertMatEqual(t, Identity(), Multiply(m, inv))

	_, ok = Invert(Scaling(1, 0, 1))
	assert.False(t, ok)
}

func TestTranspose(t *testing.T) {
	m := sample()
	assert.Equal(t, m, Transpose(Transpose(m)))
	assert.Equal(t, m[12], Transpose(m)[3])
}

func TestBytesLittleEndian(t *testing.T) {
	b := Translation(1, 0, 0).Bytes()
	require.Len(t, b, 64)
	// element 0 is 1.0f = 0x3f800000
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3f}, b[0:4])
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3f}, b[48:52])
}

func TestDeg2Rad(t *testing.T) {
	assert.InDelta(t, math.Pi, Deg2Rad(180), eps)
}
