package renderer

import (
	"errors"
	"testing"

	"github.com/Park52/webgl-lab/common"
	"github.com/Park52/webgl-lab/engine/lab"
	"github.com/Park52/webgl-lab/engine/mesh"
	"github.com/Park52/webgl-lab/engine/renderer/bind_group_provider"
	"github.com/Park52/webgl-lab/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type textureUpload struct {
	binding int
	data    common.TextureStagingData
}

type drawCall struct {
	key        string
	mesh       bind_group_provider.BindGroupProvider
	bindGroups int
}

// fakeRenderer records what the presenter asks of it without touching a GPU.
type fakeRenderer struct {
	pipelines map[string]pipeline.Pipeline

	bindGroupDescriptors []wgpu.BindGroupLayoutDescriptor
	meshUploads          int
	indexCounts          []int
	textureUploads       []textureUpload
	samplerBindings      []int
	writes               []bind_group_provider.BufferWrite
	clearColor           [4]float64
	draws                []drawCall
	frames               int
	presented            int
	resized              [2]int
	released             bool

	beginErr error
}

var _ Renderer = &fakeRenderer{}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{pipelines: make(map[string]pipeline.Pipeline)}
}

func (f *fakeRenderer) Pipeline(key string) pipeline.Pipeline { return f.pipelines[key] }

func (f *fakeRenderer) Pipelines() map[string]pipeline.Pipeline { return f.pipelines }

func (f *fakeRenderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	for _, p := range pipelines {
		f.pipelines[p.PipelineKey()] = p
	}
	return nil
}

func (f *fakeRenderer) Resize(width, height int) { f.resized = [2]int{width, height} }

func (f *fakeRenderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, _, _ []byte, indexCount int) error {
	f.meshUploads++
	f.indexCounts = append(f.indexCounts, indexCount)
	provider.SetIndexCount(indexCount)
	return nil
}

func (f *fakeRenderer) InitBindGroup(_ bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	f.bindGroupDescriptors = append(f.bindGroupDescriptors, descriptor)
	return nil
}

func (f *fakeRenderer) InitTextureView(_ bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	f.textureUploads = append(f.textureUploads, textureUpload{binding: bindingKey, data: stagingData})
	return nil
}

func (f *fakeRenderer) InitSampler(_ bind_group_provider.BindGroupProvider, bindingKey int, _ common.SamplerStagingData) error {
	f.samplerBindings = append(f.samplerBindings, bindingKey)
	return nil
}

func (f *fakeRenderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	f.writes = append(f.writes, writes...)
}

func (f *fakeRenderer) SetClearColor(c [4]float64) { f.clearColor = c }

func (f *fakeRenderer) BeginFrame() error {
	if f.beginErr != nil {
		return f.beginErr
	}
	f.frames++
	return nil
}

func (f *fakeRenderer) DrawCall(key string, meshProvider bind_group_provider.BindGroupProvider, _ uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	f.draws = append(f.draws, drawCall{key: key, mesh: meshProvider, bindGroups: len(bindGroups)})
	return nil
}

func (f *fakeRenderer) EndFrame() {}

func (f *fakeRenderer) Present() { f.presented++ }

func (f *fakeRenderer) SetPresentMode(PresentMode) {}

func (f *fakeRenderer) Release() { f.released = true }

func newTestPresenter(t *testing.T, options ...PresenterBuilderOption) (*fakeRenderer, Presenter) {
	t.Helper()
	r := newFakeRenderer()
	p, err := NewPresenter(r, options...)
	require.NoError(t, err)
	return r, p
}

func colorFrame(m *mesh.Mesh, version uint64) lab.Frame {
	return lab.Frame{
		PipelineKey: lab.PipelineColor,
		Mesh:        m,
		MeshVersion: version,
		MVP:         common.Identity(),
		ClearColor:  [4]float64{0.1, 0.2, 0.3, 1},
	}
}

func TestNewPresenterRegistersLabPipelines(t *testing.T) {
	r, _ := newTestPresenter(t)

	require.Contains(t, r.pipelines, lab.PipelineColor)
	require.Contains(t, r.pipelines, lab.PipelineTextured)
	assert.False(t, r.pipelines[lab.PipelineColor].BlendEnabled())
	assert.True(t, r.pipelines[lab.PipelineTextured].BlendEnabled())

	require.Len(t, r.bindGroupDescriptors, 1)
	entries := r.bindGroupDescriptors[0].Entries
	require.Len(t, entries, 1)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, entries[0].Buffer.Type)
	assert.Equal(t, uint64(lab.GPUFrameUniformSize), entries[0].Buffer.MinBindingSize)
}

func TestDrawWritesFrameUniform(t *testing.T) {
	r, p := newTestPresenter(t)
	frame := colorFrame(mesh.Triangle(), 1)
	frame.MVP = common.Translation(1, 2, 3)

	require.NoError(t, p.Draw(frame))

	require.Len(t, r.writes, 1)
	assert.Equal(t, 0, r.writes[0].Binding)
	assert.Equal(t, frame.Uniform().Marshal(), r.writes[0].Data)
	assert.Equal(t, frame.ClearColor, r.clearColor)
	assert.Equal(t, 1, r.frames)
	assert.Equal(t, 1, r.presented)
	require.Len(t, r.draws, 1)
	assert.Equal(t, lab.PipelineColor, r.draws[0].key)
	assert.Equal(t, 1, r.draws[0].bindGroups)
	assert.Empty(t, r.textureUploads)
}

func TestDrawUploadsMeshOnlyWhenChanged(t *testing.T) {
	r, p := newTestPresenter(t)
	tri := mesh.Triangle()

	require.NoError(t, p.Draw(colorFrame(tri, 1)))
	require.NoError(t, p.Draw(colorFrame(tri, 1)))
	assert.Equal(t, 1, r.meshUploads)

	require.NoError(t, p.Draw(colorFrame(tri, 2)))
	assert.Equal(t, 2, r.meshUploads)

	// same version number, different mesh
	quad := mesh.Quad(1, 1)
	require.NoError(t, p.Draw(colorFrame(quad, 2)))
	assert.Equal(t, 3, r.meshUploads)
	assert.Equal(t, []int{3, 3, 6}, r.indexCounts)
	assert.Equal(t, wgpu.IndexFormatUint16, r.draws[3].mesh.IndexFormat())
}

func TestDrawTexturedUsesFallbackWithoutTexture(t *testing.T) {
	r, p := newTestPresenter(t)
	frame := colorFrame(mesh.Quad(1, 1), 1)
	frame.PipelineKey = lab.PipelineTextured

	require.NoError(t, p.Draw(frame))
	require.NoError(t, p.Draw(frame))

	require.Len(t, r.textureUploads, 1)
	assert.Equal(t, 0, r.textureUploads[0].binding)
	assert.Equal(t, uint32(1), r.textureUploads[0].data.Width)
	assert.Equal(t, []byte{255, 255, 255, 255}, r.textureUploads[0].data.Pixels)
	assert.Equal(t, []int{1}, r.samplerBindings)
	assert.Equal(t, 2, r.draws[0].bindGroups)
	// frame group plus the texture group
	assert.Len(t, r.bindGroupDescriptors, 2)
}

func TestDrawTexturedReuploadsOnTextureVersion(t *testing.T) {
	r, p := newTestPresenter(t)
	tex := &common.TextureStagingData{Pixels: make([]byte, 2*2*4), Width: 2, Height: 2}
	frame := colorFrame(mesh.Quad(1, 1), 1)
	frame.PipelineKey = lab.PipelineTextured
	frame.Texture = tex
	frame.TextureVersion = 1

	require.NoError(t, p.Draw(frame))
	require.NoError(t, p.Draw(frame))
	require.Len(t, r.textureUploads, 1)
	assert.Equal(t, uint32(2), r.textureUploads[0].data.Width)

	frame.TextureVersion = 2
	require.NoError(t, p.Draw(frame))
	assert.Len(t, r.textureUploads, 2)

	frame.Texture = nil
	require.NoError(t, p.Draw(frame))
	require.Len(t, r.textureUploads, 3)
	assert.Equal(t, uint32(1), r.textureUploads[2].data.Width)
}

func TestDrawRejectsIncompleteFrames(t *testing.T) {
	r, p := newTestPresenter(t)

	assert.Error(t, p.Draw(lab.Frame{PipelineKey: lab.PipelineColor}))
	assert.Error(t, p.Draw(colorFrame(&mesh.Mesh{}, 1)))

	frame := colorFrame(mesh.Triangle(), 1)
	frame.PipelineKey = "wireframe"
	err := p.Draw(frame)
	assert.ErrorIs(t, err, ErrPipelineNotRegistered)
	assert.ErrorContains(t, err, "wireframe")
	assert.Zero(t, r.frames)
}

func TestDrawSkipsWhenSwapchainUnavailable(t *testing.T) {
	r, p := newTestPresenter(t)
	r.beginErr = errors.New("surface lost")

	assert.ErrorContains(t, p.Draw(colorFrame(mesh.Triangle(), 1)), "surface lost")
	assert.Empty(t, r.draws)
	assert.Zero(t, r.presented)
}

func TestWithFallbackTexture(t *testing.T) {
	checker := common.TextureStagingData{Pixels: make([]byte, 4*4*4), Width: 4, Height: 4}
	r, p := newTestPresenter(t, WithFallbackTexture(checker))
	frame := colorFrame(mesh.Quad(1, 1), 1)
	frame.PipelineKey = lab.PipelineTextured

	require.NoError(t, p.Draw(frame))
	require.Len(t, r.textureUploads, 1)
	assert.Equal(t, uint32(4), r.textureUploads[0].data.Width)

	_, err := NewPresenter(newFakeRenderer(), WithFallbackTexture(common.TextureStagingData{}))
	assert.Error(t, err)
}

func TestPresenterResizeAndRelease(t *testing.T) {
	r, p := newTestPresenter(t)
	require.NoError(t, p.Draw(colorFrame(mesh.Triangle(), 1)))

	p.Resize(640, 480)
	assert.Equal(t, [2]int{640, 480}, r.resized)

	p.Release()
	assert.True(t, r.released)
}
