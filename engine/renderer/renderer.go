package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Park52/webgl-lab/common"
	"github.com/Park52/webgl-lab/engine/renderer/bind_group_provider"
	"github.com/Park52/webgl-lab/engine/renderer/pipeline"
	"github.com/Park52/webgl-lab/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrPipelineNotRegistered is returned when a frame names a pipeline key that has no GPU
// pipeline behind it.
var ErrPipelineNotRegistered = errors.New("render pipeline not registered")

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu        sync.Mutex
	pipelines map[string]pipeline.Pipeline

	kind    RendererBackendType
	backend RendererBackend

	// Collected by options, applied once the device exists.
	softwareAdapter bool
	presentMode     *PresentMode
	msaa            *MSAASampleCount
	clearColor      *[4]float64
}

// Renderer is the GPU side of the lab. The lab only ever draws one mesh per frame through the
// "color" or "textured" pipeline, so the surface is small: upload helpers that fill a
// BindGroupProvider, and a frame sequence of BeginFrame, DrawCall, EndFrame, Present.
type Renderer interface {
	// Pipeline returns the pipeline cached under key, or nil.
	Pipeline(key string) pipeline.Pipeline

	// Pipelines returns a snapshot of the pipeline cache.
	Pipelines() map[string]pipeline.Pipeline

	// RegisterPipelines builds the GPU pipeline for each description and caches it under its
	// key. Keys that already have a GPU pipeline are left alone, so registering the lab's
	// pipelines twice is harmless.
	//
	// Parameters:
	//   - pipelines: descriptions built with pipeline.NewPipeline
	//
	// Returns:
	//   - error: the first pipeline that failed, wrapped with its key
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize reconfigures the surface for a new framebuffer size in pixels. A zero size
	// (minimised window) is ignored.
	Resize(width, height int)

	// InitMeshBuffers uploads a mesh as fresh vertex and index buffers on provider, replacing
	// the previous ones. The index format comes from the provider.
	//
	// Parameters:
	//   - provider: the mesh provider passed to DrawCall
	//   - vertexData: interleaved mesh.GPUVertex bytes
	//   - indexData: 16 or 32 bit indices
	//   - indexCount: number of indices to draw
	//
	// Returns:
	//   - error: when either buffer cannot be created
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitBindGroup builds the bind group for one shader group, creating uniform buffers that
	// do not exist yet. Texture views and samplers must already be on the provider.
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// InitTextureView uploads an RGBA8 image and stores its view at binding on provider.
	//
	// Parameters:
	//   - provider: the texture group provider
	//   - bindingKey: binding of the texture_2d variable
	//   - stagingData: decoded pixels, validated before upload
	//
	// Returns:
	//   - error: common.ErrEmptyTexture or a GPU error
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error

	// InitSampler creates the sampler at binding on provider. Zero fields mean linear
	// filtering with repeat addressing.
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error

	// WriteBuffers queues uniform writes, typically the frame MVP.
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// SetClearColor sets the background of the next frame.
	SetClearColor(c [4]float64)

	// BeginFrame acquires the next surface texture and opens the render pass. When it fails
	// nothing may be drawn or presented for this frame.
	BeginFrame() error

	// DrawCall records one indexed draw of meshProvider with bindGroups bound to groups
	// 0..n-1 in order.
	//
	// Parameters:
	//   - pipelineKey: "color" or "textured" for the lab's own pipelines
	//   - meshProvider: provider filled by InitMeshBuffers
	//   - instanceCount: 1 for every lab page
	//   - bindGroups: providers filled by InitBindGroup
	//
	// Returns:
	//   - error: ErrPipelineNotRegistered for an unknown key
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame closes the pass and submits it.
	EndFrame()

	// Present shows the submitted frame.
	Present()

	// SetPresentMode switches between vsync and uncapped on the next Resize.
	SetPresentMode(mode PresentMode)

	// Release destroys the cached pipelines, then the device and surface.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer opens a GPU device on the window's surface and configures it at the window's
// current size. It panics when no adapter or device is available, since the lab cannot run
// without one.
//
// Parameters:
//   - backendType: BackendTypeWGPU
//   - window: source of the surface descriptor and framebuffer size
//   - options: RendererBuilderOption values
//
// Returns:
//   - Renderer: a renderer with an empty pipeline cache
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		pipelines: make(map[string]pipeline.Pipeline),
		kind:      backendType,
	}
	for _, opt := range options {
		opt(r)
	}

	msaa := *common.Coalesce(r.msaa, ptr(MSAA4x))
	present := *common.Coalesce(r.presentMode, ptr(PresentModeUncapped))

	// wgpu is the only backend.
	r.backend = newWGPURendererBackend(window.SurfaceDescriptor(), r.softwareAdapter, msaa)
	r.backend.SetPresentMode(present)
	if r.clearColor != nil {
		r.backend.SetClearColor(*r.clearColor)
	}

	common.Logger().Info("renderer ready",
		"backend", r.kind,
		"present", present,
		"msaa", msaa,
		"software", r.softwareAdapter,
	)

	r.backend.ConfigureSurface(window.Width(), window.Height())
	return r
}

func ptr[T any](v T) *T { return &v }

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SetClearColor(c [4]float64) {
	r.backend.SetClearColor(c)
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelines[key]
}

func (r *renderer) Pipelines() map[string]pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := make(map[string]pipeline.Pipeline, len(r.pipelines))
	for key, p := range r.pipelines {
		snapshot[key] = p
	}
	return snapshot
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if cached := r.pipelines[key]; cached != nil && cached.RenderPipeline() != nil {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("pipeline %s: %w", key, err)
		}
		r.pipelines[key] = p
		common.Logger().Debug("pipeline registered", "key", key)
	}
	return nil
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	return r.backend.InitMeshBuffers(provider, vertexData, indexData, indexCount)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	return r.backend.InitBindGroup(provider, descriptor)
}

func (r *renderer) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	return r.backend.InitTextureView(provider, bindingKey, stagingData)
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	return r.backend.InitSampler(provider, bindingKey, samplerStagingData)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	p := r.Pipeline(pipelineKey)
	if p == nil || p.RenderPipeline() == nil {
		return fmt.Errorf("%w: %s", ErrPipelineNotRegistered, pipelineKey)
	}
	r.backend.DrawCall(p, meshProvider, instanceCount, bindGroups)
	return nil
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	for key, p := range r.pipelines {
		p.Release()
		delete(r.pipelines, key)
	}
	r.mu.Unlock()
	r.backend.Release()
}
