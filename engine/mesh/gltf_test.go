package mesh

import (
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentAttributes(t *testing.T) {
	doc := Triangle().Document("triangle")

	require.Len(t, doc.Meshes, 1)
	prim := doc.Meshes[0].Primitives[0]
	assert.Contains(t, prim.Attributes, gltf.POSITION)
	assert.Contains(t, prim.Attributes, gltf.TEXCOORD_0)
	assert.Contains(t, prim.Attributes, gltf.COLOR_0)
	require.NotNil(t, prim.Indices)
	assert.EqualValues(t, 3, doc.Accessors[*prim.Indices].Count)

	doc = Quad(1, 1).Document("quad")
	assert.NotContains(t, doc.Meshes[0].Primitives[0].Attributes, gltf.COLOR_0)
}

func TestSaveGLBRoundTrip(t *testing.T) {
	s, err := CreateSphereMesh(1.5, 6, 8)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "sphere.glb")
	require.NoError(t, s.SaveGLB(path, "sphere"))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, s.Indices, got.Indices)
	assert.InDeltaSlice(t, s.Positions, got.Positions, 1e-6)
	assert.InDeltaSlice(t, s.UVs, got.UVs, 1e-6)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.glb"))
	assert.Error(t, err)
}
