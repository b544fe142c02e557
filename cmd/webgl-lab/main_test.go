package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Park52/webgl-lab/engine/config"
	"github.com/Park52/webgl-lab/engine/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lab.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRoutesCommand(t *testing.T) {
	out, err := execute(t, "routes", "--config", filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "#/triangle")
	assert.Contains(t, lines[0], "(start)")
	assert.Contains(t, lines[3], "#/sphere")
	assert.NotContains(t, lines[3], "(start)")
}

func TestRoutesCommandMarksConfiguredStart(t *testing.T) {
	path := writeConfig(t, "[router]\nstart = \"#/sphere\"\n")

	out, err := execute(t, "routes", "-c", path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, lines[3], "(start)")
	assert.NotContains(t, lines[0], "(start)")
}

func TestExportSphereCommand(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		file string
	}{
		{"binary", "sphere.glb"},
		{"json", "sphere.gltf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := filepath.Join(dir, tt.file)
			out, err := execute(t, "export-sphere", "-c", filepath.Join(dir, "none.toml"),
				"--radius", "2", "--stacks", "2", "--slices", "4", "-o", dst, "--verify")
			require.NoError(t, err)
			assert.Contains(t, out, "15 vertices, 48 indices")
			assert.Contains(t, out, "verified "+dst)

			m, err := mesh.Load(dst)
			require.NoError(t, err)
			assert.Equal(t, 15, m.VertexCount())
			assert.Equal(t, 48, m.IndexCount())
			assert.InDelta(t, 2, m.Vertex(0)[1], 1e-5)
		})
	}
}

func TestVerifyExportDetectsMismatch(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "s.glb")
	small, err := mesh.CreateSphereMesh(1, 2, 4)
	require.NoError(t, err)
	require.NoError(t, small.SaveGLB(dst, "small"))
	larger, err := mesh.CreateSphereMesh(1, 3, 4)
	require.NoError(t, err)

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)

	assert.ErrorIs(t, verifyExport(cmd, dst, &larger.Mesh), errExportMismatch)
	assert.NoError(t, verifyExport(cmd, dst, &small.Mesh))
	assert.Contains(t, out.String(), "verified "+dst)
}

func TestExportSphereUsesConfigDefaults(t *testing.T) {
	path := writeConfig(t, "[sphere]\nstacks = 3\nslices = 5\n")
	dst := filepath.Join(t.TempDir(), "s.glb")

	out, err := execute(t, "export-sphere", "-c", path, "-o", dst)
	require.NoError(t, err)
	// (3+1)*(5+1) vertices, 3*5*6 indices
	assert.Contains(t, out, "24 vertices, 90 indices")
}

func TestExportSphereRejectsBadSubdivision(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "s.glb")

	_, err := execute(t, "export-sphere", "-c", filepath.Join(t.TempDir(), "none.toml"), "--stacks", "0", "-o", dst)
	assert.ErrorIs(t, err, mesh.ErrInvalidSubdivision)
	assert.NoFileExists(t, dst)
}

func TestConfigCommand(t *testing.T) {
	path := writeConfig(t, "[window]\ntitle = \"Custom\"\n")

	out, err := execute(t, "config", "-c", path)
	require.NoError(t, err)
	cfg, err := config.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "Custom", cfg.Window.Title)

	out, err = execute(t, "config", "-c", path, "--default")
	require.NoError(t, err)
	cfg, err = config.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestUnknownConfigKeyFails(t *testing.T) {
	path := writeConfig(t, "[window]\ntitel = \"typo\"\n")

	_, err := execute(t, "routes", "-c", path)
	assert.Error(t, err)
}

func TestApplyRunFlags(t *testing.T) {
	cmd := newRunCommand(func() (config.Config, error) { return config.Default(), nil })
	require.NoError(t, cmd.ParseFlags([]string{"--route", "#/texture", "--watch"}))

	cfg := config.Default()
	applyRunFlags(cmd, &cfg, "#/texture", "", true)

	assert.Equal(t, "#/texture", cfg.Router.Start)
	assert.True(t, cfg.Texture.Watch)
	assert.Empty(t, cfg.Texture.Path)
}
