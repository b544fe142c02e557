package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/Park52/webgl-lab/common"
	"github.com/Park52/webgl-lab/engine/renderer/bind_group_provider"
	"github.com/Park52/webgl-lab/engine/renderer/pipeline"
	"github.com/Park52/webgl-lab/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

const depthFormat = wgpu.TextureFormatDepth24Plus

var (
	errSurfaceNotConfigured = errors.New("surface not configured")
	errFrameInFlight        = errors.New("previous frame not presented yet")
)

// wgpuRendererBackend is the device-level half of the Renderer. The lab draws a single
// forward pass per frame, so there is one color target (multisampled when MSAA is on), one
// depth target and no offscreen passes.
type wgpuRendererBackend interface {
	// ConfigureSurface sizes the swap chain and rebuilds the MSAA and depth targets. Sizes of
	// zero are ignored.
	ConfigureSurface(width, height int)

	// SetPresentMode is applied by the next ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the background for the following frames.
	SetClearColor(c [4]float64)

	// RegisterRenderPipeline compiles both shaders of p, derives the pipeline layout from their
	// annotations and stores the GPU pipeline on p.
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// InitMeshBuffers creates vertex and index buffers already filled with the given bytes.
	//
	// Parameters:
	//   - provider: receives the buffers and the index count
	//   - vertexData: mesh.GPUVertex bytes
	//   - indexData: mesh index bytes in the provider's index format
	//   - indexCount: number of indices
	//
	// Returns:
	//   - error: a GPU error
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitBindGroup builds a bind group for descriptor from what provider holds, adding a
	// uniform or storage buffer of MinBindingSize for each buffer binding it lacks.
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// InitTextureView uploads an sRGB RGBA8 image without mipmaps.
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error

	// InitSampler creates a sampler, defaulting to linear filtering and repeat addressing.
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error

	// WriteBuffers queues buffer updates; writes to missing buffers are dropped.
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the surface texture and opens the pass.
	BeginFrame() error

	// DrawCall records an indexed draw of the mesh in the open pass. Without an open pass it
	// does nothing.
	DrawCall(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider)

	// EndFrame closes the pass and submits the commands.
	EndFrame()

	// Present hands the surface texture to the display.
	Present()

	// Release destroys every GPU object the backend created.
	Release()
}

// renderTarget is an attachment that follows the surface size.
type renderTarget struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

func (t *renderTarget) release() {
	if t.view != nil {
		t.view.Release()
	}
	if t.texture != nil {
		t.texture.Release()
	}
	*t = renderTarget{}
}

// inFlight holds what BeginFrame acquired until Present gives it back.
type inFlight struct {
	encoder *wgpu.CommandEncoder
	pass    *wgpu.RenderPassEncoder
	surface *wgpu.Texture
	view    *wgpu.TextureView
}

type wgpuBackend struct {
	mu sync.Mutex

	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	format      wgpu.TextureFormat
	configured  bool
	presentMode wgpu.PresentMode
	samples     uint32
	clear       wgpu.Color

	msaa  renderTarget
	depth renderTarget
	frame inFlight
}

var _ RendererBackend = &wgpuBackend{}

// newWGPURendererBackend opens an adapter and device compatible with the window surface.
// The lab has nothing to show without a device, so failures panic.
func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, software bool, samples MSAASampleCount) wgpuRendererBackend {
	runtime.LockOSThread()

	b := &wgpuBackend{
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeImmediate,
		samples:     uint32(max(samples, MSAAOff)),
		clear:       wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1},
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	adapter, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface:    b.surface,
		ForceFallbackAdapter: software,
	})
	if err != nil {
		panic(fmt.Sprintf("webgl-lab: no gpu adapter: %v", err))
	}
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "webgl-lab"})
	if err != nil {
		panic(fmt.Sprintf("webgl-lab: no gpu device: %v", err))
	}

	b.adapter, b.device, b.queue = adapter, device, device.GetQueue()
	return b
}

func (b *wgpuBackend) ConfigureSurface(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	caps := b.surface.GetCapabilities(b.adapter)
	b.format = caps.Formats[0]
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   caps.AlphaModes[0],
	})

	b.msaa.release()
	b.depth.release()
	b.configured = false

	var err error
	if b.samples > 1 {
		if b.msaa, err = b.newTarget("lab msaa color", b.format, width, height); err != nil {
			common.Logger().Error("renderer: msaa target", "err", err)
			return
		}
	}
	if b.depth, err = b.newTarget("lab depth", depthFormat, width, height); err != nil {
		common.Logger().Error("renderer: depth target", "err", err)
		return
	}
	b.configured = true
	common.Logger().Debug("renderer: surface configured", "width", width, "height", height, "format", b.format)
}

// newTarget creates a render attachment with the backend's sample count.
func (b *wgpuBackend) newTarget(label string, format wgpu.TextureFormat, width, height int) (renderTarget, error) {
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Usage:         wgpu.TextureUsageRenderAttachment,
		Dimension:     wgpu.TextureDimension2D,
		Size:          wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		Format:        format,
		MipLevelCount: 1,
		SampleCount:   b.samples,
	})
	if err != nil {
		return renderTarget{}, err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return renderTarget{}, err
	}
	return renderTarget{texture: tex, view: view}, nil
}

func (b *wgpuBackend) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if mode == PresentModeVSync {
		b.presentMode = wgpu.PresentModeFifo
	} else {
		b.presentMode = wgpu.PresentModeImmediate
	}
}

func (b *wgpuBackend) SetClearColor(c [4]float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clear = wgpu.Color{R: c[0], G: c[1], B: c[2], A: c[3]}
}

func (b *wgpuBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	vsh, fsh := p.Shader(shader.ShaderTypeVertex), p.Shader(shader.ShaderTypeFragment)
	if vsh == nil || fsh == nil {
		return errors.New("pipeline needs a vertex and a fragment shader")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	vs, err := b.device.CreateShaderModule(vsh.Module())
	if err != nil {
		return fmt.Errorf("compile %s: %w", vsh.Key(), err)
	}
	defer vs.Release()
	fs, err := b.device.CreateShaderModule(fsh.Module())
	if err != nil {
		return fmt.Errorf("compile %s: %w", fsh.Key(), err)
	}
	defer fs.Release()

	layout, err := b.pipelineLayout(p.PipelineKey(),
		mergeBindGroupLayouts(vsh.BindGroupLayoutDescriptors(), fsh.BindGroupLayoutDescriptors()))
	if err != nil {
		return err
	}

	target := wgpu.ColorTargetState{Format: b.format, WriteMask: wgpu.ColorWriteMaskAll}
	if p.BlendEnabled() {
		target.Blend = p.BlendState()
	}

	rp, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey(),
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: vsh.EntryPoint(),
			Buffers:    vsh.VertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: fsh.EntryPoint(),
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		DepthStencil: depthState(p),
		Multisample:  wgpu.MultisampleState{Count: b.samples, Mask: ^uint32(0)},
	})
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}
	p.SetRenderPipeline(rp)
	return nil
}

// pipelineLayout creates one bind group layout per group index. Groups the shaders skip get
// an empty layout so indices stay aligned with SetBindGroup.
func (b *wgpuBackend) pipelineLayout(label string, groups map[int]wgpu.BindGroupLayoutDescriptor) (*wgpu.PipelineLayout, error) {
	count := 0
	for g := range groups {
		count = max(count, g+1)
	}
	layouts := make([]*wgpu.BindGroupLayout, count)
	for g := range layouts {
		desc := groups[g]
		l, err := b.device.CreateBindGroupLayout(&desc)
		if err != nil {
			return nil, fmt.Errorf("bind group %d layout: %w", g, err)
		}
		layouts[g] = l
	}
	return b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label,
		BindGroupLayouts: layouts,
	})
}

// depthState turns the pipeline's depth switches into a depth-stencil state. A disabled
// depth test still needs the attachment format, so it compares with Always.
func depthState(p pipeline.Pipeline) *wgpu.DepthStencilState {
	compare := wgpu.CompareFunctionAlways
	if p.DepthTestEnabled() {
		compare = wgpu.CompareFunctionLess
	}
	noStencil := wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways}
	return &wgpu.DepthStencilState{
		Format:            depthFormat,
		DepthWriteEnabled: p.DepthWriteEnabled(),
		DepthCompare:      compare,
		StencilFront:      noStencil,
		StencilBack:       noStencil,
	}
}

func (b *wgpuBackend) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(vertexData) > 0 {
		vb, err := b.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    provider.Label() + " vertices",
			Contents: vertexData,
			Usage:    wgpu.BufferUsageVertex,
		})
		if err != nil {
			return fmt.Errorf("vertex buffer: %w", err)
		}
		provider.SetVertexBuffer(vb)
	}
	if len(indexData) > 0 {
		ib, err := b.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    provider.Label() + " indices",
			Contents: indexData,
			Usage:    wgpu.BufferUsageIndex,
		})
		if err != nil {
			return fmt.Errorf("index buffer: %w", err)
		}
		provider.SetIndexBuffer(ib)
	}
	provider.SetIndexCount(indexCount)
	return nil
}

func (b *wgpuBackend) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	if len(descriptor.Entries) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if provider.BindGroupLayout() == nil {
		l, err := b.device.CreateBindGroupLayout(&descriptor)
		if err != nil {
			return fmt.Errorf("%s layout: %w", provider.Label(), err)
		}
		provider.SetBindGroupLayout(l)
	}

	entries := make([]wgpu.BindGroupEntry, 0, len(descriptor.Entries))
	for _, e := range descriptor.Entries {
		entry, err := b.bindGroupEntry(provider, e)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}

	bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label(),
		Layout:  provider.BindGroupLayout(),
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("%s bind group: %w", provider.Label(), err)
	}
	provider.SetBindGroup(bg)
	return nil
}

// bindGroupEntry resolves one layout entry against the provider's resources.
func (b *wgpuBackend) bindGroupEntry(provider bind_group_provider.BindGroupProvider, e wgpu.BindGroupLayoutEntry) (wgpu.BindGroupEntry, error) {
	binding := int(e.Binding)

	if e.Texture.SampleType != wgpu.TextureSampleTypeUndefined {
		view := provider.TextureView(binding)
		if view == nil {
			return wgpu.BindGroupEntry{}, fmt.Errorf("%s binding %d: no texture uploaded", provider.Label(), binding)
		}
		return wgpu.BindGroupEntry{Binding: e.Binding, TextureView: view}, nil
	}
	if e.Sampler.Type != wgpu.SamplerBindingTypeUndefined {
		s := provider.Sampler(binding)
		if s == nil {
			return wgpu.BindGroupEntry{}, fmt.Errorf("%s binding %d: no sampler", provider.Label(), binding)
		}
		return wgpu.BindGroupEntry{Binding: e.Binding, Sampler: s}, nil
	}

	buf := provider.Buffer(binding)
	if buf == nil {
		usage := wgpu.BufferUsageCopyDst | wgpu.BufferUsageStorage
		if e.Buffer.Type == wgpu.BufferBindingTypeUniform {
			usage = wgpu.BufferUsageCopyDst | wgpu.BufferUsageUniform
		}
		var err error
		buf, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: fmt.Sprintf("%s binding %d", provider.Label(), binding),
			Size:  e.Buffer.MinBindingSize,
			Usage: usage,
		})
		if err != nil {
			return wgpu.BindGroupEntry{}, err
		}
		provider.SetBuffer(binding, buf)
	}
	return wgpu.BindGroupEntry{Binding: e.Binding, Buffer: buf, Size: wgpu.WholeSize}, nil
}

func (b *wgpuBackend) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	if err := stagingData.Validate(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	size := wgpu.Extent3D{Width: stagingData.Width, Height: stagingData.Height, DepthOrArrayLayers: 1}
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         fmt.Sprintf("%s texture %d", provider.Label(), bindingKey),
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          size,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return err
	}
	// the view holds its own reference
	defer tex.Release()

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{Texture: tex, Aspect: wgpu.TextureAspectAll},
		stagingData.Pixels,
		&wgpu.TextureDataLayout{BytesPerRow: 4 * stagingData.Width, RowsPerImage: stagingData.Height},
		&size,
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		return err
	}
	provider.SetTextureView(bindingKey, view)
	return nil
}

func (b *wgpuBackend) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, s common.SamplerStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	repeat, linear := wgpu.AddressModeRepeat, wgpu.FilterModeLinear
	sampler, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         fmt.Sprintf("%s sampler %d", provider.Label(), bindingKey),
		AddressModeU:  common.Coalesce(s.AddressModeU, repeat),
		AddressModeV:  common.Coalesce(s.AddressModeV, repeat),
		AddressModeW:  common.Coalesce(s.AddressModeW, repeat),
		MagFilter:     common.Coalesce(s.MagFilter, linear),
		MinFilter:     common.Coalesce(s.MinFilter, linear),
		MipmapFilter:  common.Coalesce(s.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   s.LodMinClamp,
		LodMaxClamp:   common.Coalesce(s.LodMaxClamp, 32),
		MaxAnisotropy: common.Coalesce(s.MaxAnisotropy, 1),
	})
	if err != nil {
		return err
	}
	provider.SetSampler(bindingKey, sampler)
	return nil
}

func (b *wgpuBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, w := range writes {
		if buf := w.Provider.Buffer(w.Binding); buf != nil {
			b.queue.WriteBuffer(buf, w.Offset, w.Data)
		}
	}
}

func (b *wgpuBackend) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.configured {
		return errSurfaceNotConfigured
	}
	// wgpu-native refuses a second acquire before Present
	if b.frame.surface != nil {
		return errFrameInFlight
	}

	tex, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return err
	}
	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		tex.Release()
		return err
	}

	b.frame = inFlight{
		encoder: encoder,
		pass:    encoder.BeginRenderPass(b.passDescriptor(view)),
		surface: tex,
		view:    view,
	}
	return nil
}

// passDescriptor clears color and depth. With MSAA the pass renders into the multisampled
// target and resolves into the surface view.
func (b *wgpuBackend) passDescriptor(surfaceView *wgpu.TextureView) *wgpu.RenderPassDescriptor {
	color := wgpu.RenderPassColorAttachment{
		View:       surfaceView,
		LoadOp:     wgpu.LoadOpClear,
		StoreOp:    wgpu.StoreOpStore,
		ClearValue: b.clear,
	}
	if b.samples > 1 {
		color.View = b.msaa.view
		color.ResolveTarget = surfaceView
		color.StoreOp = wgpu.StoreOpDiscard
	}
	return &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{color},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depth.view,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1,
		},
	}
}

func (b *wgpuBackend) DrawCall(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) {
	b.mu.Lock()
	defer b.mu.Unlock()

	pass := b.frame.pass
	if pass == nil {
		return
	}
	pass.SetPipeline(p.RenderPipeline())
	for group, provider := range bindGroups {
		pass.SetBindGroup(uint32(group), provider.BindGroup(), nil)
	}
	pass.SetVertexBuffer(0, meshProvider.VertexBuffer(), 0, wgpu.WholeSize)
	pass.SetIndexBuffer(meshProvider.IndexBuffer(), meshProvider.IndexFormat(), 0, wgpu.WholeSize)
	pass.DrawIndexed(uint32(meshProvider.IndexCount()), instanceCount, 0, 0, 0)
}

func (b *wgpuBackend) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frame.pass == nil {
		return
	}
	b.frame.pass.End()
	b.frame.pass.Release()
	b.frame.pass = nil

	cmd, err := b.frame.encoder.Finish(nil)
	b.frame.encoder.Release()
	b.frame.encoder = nil
	if err != nil {
		common.Logger().Error("renderer: finish frame", "err", err)
		b.dropFrameLocked()
		return
	}
	b.queue.Submit(cmd)
	cmd.Release()
}

func (b *wgpuBackend) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frame.surface == nil {
		return
	}
	b.surface.Present()
	b.dropFrameLocked()
}

// dropFrameLocked releases the surface texture and its view.
func (b *wgpuBackend) dropFrameLocked() {
	if b.frame.view != nil {
		b.frame.view.Release()
	}
	if b.frame.surface != nil {
		b.frame.surface.Release()
	}
	b.frame = inFlight{}
}

func (b *wgpuBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.dropFrameLocked()
	b.msaa.release()
	b.depth.release()
	b.configured = false

	if b.queue != nil {
		b.queue.Release()
	}
	if b.device != nil {
		b.device.Release()
	}
	if b.adapter != nil {
		b.adapter.Release()
	}
	if b.surface != nil {
		b.surface.Release()
	}
	if b.instance != nil {
		b.instance.Release()
	}
	b.queue, b.device, b.adapter, b.surface, b.instance = nil, nil, nil, nil, nil
}

// mergeBindGroupLayouts joins the vertex and fragment layouts group by group. A binding used
// by both stages becomes one entry visible to both. Entries are sorted by binding.
func mergeBindGroupLayouts(vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor) map[int]wgpu.BindGroupLayoutDescriptor {
	groups := make(map[int]map[uint32]wgpu.BindGroupLayoutEntry)
	for _, stage := range []map[int]wgpu.BindGroupLayoutDescriptor{vertexLayouts, fragmentLayouts} {
		for g, desc := range stage {
			if groups[g] == nil {
				groups[g] = make(map[uint32]wgpu.BindGroupLayoutEntry)
			}
			for _, e := range desc.Entries {
				if seen, ok := groups[g][e.Binding]; ok {
					seen.Visibility |= e.Visibility
					e = seen
				}
				groups[g][e.Binding] = e
			}
		}
	}

	merged := make(map[int]wgpu.BindGroupLayoutDescriptor, len(groups))
	for g, byBinding := range groups {
		entries := make([]wgpu.BindGroupLayoutEntry, 0, len(byBinding))
		for _, e := range byBinding {
			entries = append(entries, e)
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Binding < entries[j].Binding })
		merged[g] = wgpu.BindGroupLayoutDescriptor{Entries: entries}
	}
	return merged
}
