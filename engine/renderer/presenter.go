package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Park52/webgl-lab/common"
	"github.com/Park52/webgl-lab/engine/lab"
	"github.com/Park52/webgl-lab/engine/mesh"
	"github.com/Park52/webgl-lab/engine/renderer/bind_group_provider"
	"github.com/Park52/webgl-lab/engine/renderer/shader"
)

// frameGroup is the bind group index of the per-frame uniform in every lab shader.
const frameGroup = 0

// Presenter draws lab frames. It keeps the GPU copies of the current mesh and texture and
// re-uploads them only when a frame carries a different one.
type Presenter interface {
	// Draw uploads whatever changed since the previous frame, writes the frame uniform and
	// renders one frame.
	//
	// Parameters:
	//   - frame: the frame produced by the active lab
	//
	// Returns:
	//   - error: an error if the frame is incomplete, an upload fails or the swapchain is unavailable
	Draw(frame lab.Frame) error

	// Resize reconfigures the surface for a new framebuffer size.
	Resize(width, height int)

	// Release frees the uploaded resources and the renderer.
	Release()
}

type presenter struct {
	mu       sync.Mutex
	renderer Renderer

	frameProvider bind_group_provider.BindGroupProvider

	meshProvider bind_group_provider.BindGroupProvider
	mesh         *mesh.Mesh
	meshVersion  uint64

	textureProvider bind_group_provider.BindGroupProvider
	texture         *common.TextureStagingData
	textureVersion  uint64

	sampler  common.SamplerStagingData
	fallback common.TextureStagingData
}

var _ Presenter = &presenter{}

// NewPresenter registers the lab pipelines on r and creates the frame uniform bind group.
//
// Parameters:
//   - r: the renderer to draw with
//   - options: variadic list of PresenterBuilderOption functions
//
// Returns:
//   - Presenter: the ready presenter
//   - error: an error if pipeline or bind group creation fails
func NewPresenter(r Renderer, options ...PresenterBuilderOption) (Presenter, error) {
	p := &presenter{
		renderer: r,
		fallback: common.TextureStagingData{
			Pixels: []byte{255, 255, 255, 255},
			Width:  1,
			Height: 1,
		},
	}
	for _, opt := range options {
		opt(p)
	}
	if err := p.fallback.Validate(); err != nil {
		return nil, fmt.Errorf("fallback texture: %w", err)
	}

	if err := r.RegisterPipelines(LabPipelines()...); err != nil {
		return nil, err
	}

	vs := r.Pipeline(lab.PipelineColor).Shader(shader.ShaderTypeVertex)
	p.frameProvider = bind_group_provider.NewBindGroupProvider("Frame")
	if err := r.InitBindGroup(p.frameProvider, vs.BindGroupLayoutDescriptor(frameGroup)); err != nil {
		p.frameProvider.Release()
		return nil, fmt.Errorf("frame bind group: %w", err)
	}
	return p, nil
}

func (p *presenter) Draw(frame lab.Frame) error {
	if frame.Mesh == nil {
		return errors.New("frame has no mesh")
	}
	if frame.Mesh.IndexCount() == 0 {
		return errors.New("frame mesh has no indices")
	}
	pl := p.renderer.Pipeline(frame.PipelineKey)
	if pl == nil {
		return fmt.Errorf("%w: %s", ErrPipelineNotRegistered, frame.PipelineKey)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.syncMesh(frame.Mesh, frame.MeshVersion); err != nil {
		return err
	}

	bindGroups := []bind_group_provider.BindGroupProvider{p.frameProvider}
	if fs := pl.Shader(shader.ShaderTypeFragment); fs != nil {
		if _, _, ok := fs.Provider(shader.AnnotationArgTexture); ok {
			if err := p.syncTexture(fs, frame.Texture, frame.TextureVersion); err != nil {
				return err
			}
			bindGroups = append(bindGroups, p.textureProvider)
		}
	}

	p.renderer.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: p.frameProvider,
		Binding:  0,
		Data:     frame.Uniform().Marshal(),
	}})
	p.renderer.SetClearColor(frame.ClearColor)

	if err := p.renderer.BeginFrame(); err != nil {
		return err
	}
	drawErr := p.renderer.DrawCall(frame.PipelineKey, p.meshProvider, 1, bindGroups)
	// the acquired surface texture is released by Present even when the draw was skipped
	p.renderer.EndFrame()
	p.renderer.Present()
	return drawErr
}

// syncMesh uploads m when it differs from the mesh on the GPU. A version alone is not enough:
// two labs may both be at version 1 of different meshes.
func (p *presenter) syncMesh(m *mesh.Mesh, version uint64) error {
	if p.meshProvider != nil && p.mesh == m && p.meshVersion == version {
		return nil
	}
	if p.meshProvider != nil {
		p.meshProvider.Release()
		p.meshProvider = nil
	}

	provider := bind_group_provider.NewBindGroupProvider("Mesh",
		bind_group_provider.WithIndexFormat(m.IndexFormat()),
	)
	if err := p.renderer.InitMeshBuffers(provider, m.VertexData(), m.IndexData(), m.IndexCount()); err != nil {
		provider.Release()
		return fmt.Errorf("upload mesh: %w", err)
	}
	common.Logger().Debug("mesh uploaded", "vertices", m.VertexCount(), "indices", m.IndexCount(), "version", version)

	p.meshProvider = provider
	p.mesh = m
	p.meshVersion = version
	return nil
}

// syncTexture uploads tex, or the fallback when tex is nil, into the group fs samples from.
func (p *presenter) syncTexture(fs shader.Shader, tex *common.TextureStagingData, version uint64) error {
	if tex == nil {
		tex = &p.fallback
		version = 0
	}
	if p.textureProvider != nil && p.texture == tex && p.textureVersion == version {
		return nil
	}
	if p.textureProvider != nil {
		p.textureProvider.Release()
		p.textureProvider = nil
	}

	group, texBinding, _ := fs.Provider(shader.AnnotationArgTexture)
	samplerGroup, samplerBinding, ok := fs.Provider(shader.AnnotationArgSampler)
	if !ok || samplerGroup != group {
		return fmt.Errorf("shader %s: texture and sampler must share a group", fs.Key())
	}

	provider := bind_group_provider.NewBindGroupProvider("Texture")
	if err := p.renderer.InitTextureView(provider, texBinding, *tex); err != nil {
		provider.Release()
		return fmt.Errorf("upload texture: %w", err)
	}
	if err := p.renderer.InitSampler(provider, samplerBinding, p.sampler); err != nil {
		provider.Release()
		return fmt.Errorf("create sampler: %w", err)
	}
	if err := p.renderer.InitBindGroup(provider, fs.BindGroupLayoutDescriptor(group)); err != nil {
		provider.Release()
		return fmt.Errorf("texture bind group: %w", err)
	}
	common.Logger().Debug("texture uploaded", "width", tex.Width, "height", tex.Height, "version", version)

	p.textureProvider = provider
	p.texture = tex
	p.textureVersion = version
	return nil
}

func (p *presenter) Resize(width, height int) {
	p.renderer.Resize(width, height)
}

func (p *presenter) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, bg := range []bind_group_provider.BindGroupProvider{p.meshProvider, p.textureProvider, p.frameProvider} {
		if bg != nil {
			bg.Release()
		}
	}
	p.meshProvider, p.textureProvider, p.frameProvider = nil, nil, nil
	p.mesh, p.texture = nil, nil
	p.renderer.Release()
}
