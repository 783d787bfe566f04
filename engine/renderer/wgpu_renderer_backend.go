package renderer

import (
	_ "embed"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/Carmen-Shannon/oxy-vr/engine/mesh"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed shader.wgsl
var sceneShaderSource string

// vertexStride is the byte size of mesh.Vertex: position, normal, uv.
const vertexStride = 32

// Bind group entries of the scene shader.
const (
	bindingUniforms = iota
	bindingAlbedo
	bindingOpacity
	bindingSampler
)

// DrawTextures names the uploaded textures a draw samples. An empty key selects the
// neutral white texture.
type DrawTextures struct {
	Albedo  string
	Opacity string
}

// gpuTexture is an uploaded 2D texture and its default view.
type gpuTexture struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

func (t *gpuTexture) release() {
	if t.view != nil {
		t.view.Release()
	}
	if t.texture != nil {
		t.texture.Release()
	}
}

// drawResources are the GPU objects cached for one Draw key.
type drawResources struct {
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	vertexCount  int
	indexCount   int

	uniformBuffer *wgpu.Buffer
	bindGroup     *wgpu.BindGroup
	textures      DrawTextures
}

func (r *drawResources) releaseGeometry() {
	if r.vertexBuffer != nil {
		r.vertexBuffer.Release()
		r.vertexBuffer = nil
	}
	if r.indexBuffer != nil {
		r.indexBuffer.Release()
		r.indexBuffer = nil
	}
}

func (r *drawResources) releaseBindGroup() {
	if r.bindGroup != nil {
		r.bindGroup.Release()
		r.bindGroup = nil
	}
}

func (r *drawResources) release() {
	r.releaseGeometry()
	r.releaseBindGroup()
	if r.uniformBuffer != nil {
		r.uniformBuffer.Release()
		r.uniformBuffer = nil
	}
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        *wgpu.TextureFormat
	depthFormat          wgpu.TextureFormat
	msaaTexture          *wgpu.Texture
	msaaTextureView      *wgpu.TextureView
	depthTexture         *wgpu.Texture
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode           wgpu.PresentMode
	sampleCount           MSAASampleCount
	preserveDrawingBuffer bool

	scenePipeline   *wgpu.RenderPipeline
	bindGroupLayout *wgpu.BindGroupLayout
	sampler         *wgpu.Sampler
	whiteTexture    *gpuTexture
	textures        map[string]*gpuTexture
	draws           map[string]*drawResources

	// Frame state for the render pass currently being encoded
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

type wgpuRendererBackend interface {
	// ConfigureSurface is a wrapper for boilerplate logic required when calling Configure on a surface.
	// This is required when the surface size changes, such as when the window is resized.
	// The depth buffer and, when enabled, the MSAA colour target are recreated at the new size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: an error if the attachments could not be created
	ConfigureSurface(width, height int) error

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// RegisterScenePipeline compiles the embedded scene shader and creates the blended
	// render pipeline, its bind group layout, the shared sampler and the white fallback texture.
	//
	// Returns:
	//   - error: an error if the pipeline could not be created, otherwise nil
	RegisterScenePipeline() error

	// UploadTexture creates an sRGB RGBA8 texture under key and writes its pixels.
	// An existing texture under the same key is replaced.
	//
	// Parameters:
	//   - key: the texture cache key
	//   - pixels: tightly packed RGBA8 rows
	//   - width: width in pixels
	//   - height: height in pixels
	//
	// Returns:
	//   - error: an error if the texture or its view could not be created
	UploadTexture(key string, pixels []byte, width, height uint32) error

	// PrepareDraw makes sure vertex, index and uniform buffers exist for key and writes the
	// uniform block. Geometry is uploaded again only when its vertex or index count changes;
	// the bind group is rebuilt when the sampled textures change.
	//
	// Parameters:
	//   - key: the cache key of the draw
	//   - vertices: the vertex data
	//   - indices: the triangle list indices
	//   - uniforms: the packed uniform block
	//   - textures: the uploaded textures to sample
	//
	// Returns:
	//   - error: an error if a buffer or bind group could not be created
	PrepareDraw(key string, vertices []mesh.Vertex, indices []uint32, uniforms []byte, textures DrawTextures) error

	// BeginFrame acquires the next swapchain texture, creates a command encoder, and begins
	// the main render pass cleared to clearColor. Must be paired with EndFrame.
	//
	// Parameters:
	//   - clearColor: RGBA clear colour
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame(clearColor [4]float64) error

	// DrawCall encodes the draw prepared under key within the current render pass.
	// Unknown keys are skipped.
	//
	// Parameters:
	//   - key: the cache key passed to PrepareDraw
	DrawCall(key string)

	// EndFrame ends the current render pass and submits the command buffer to the GPU.
	// Does not present the surface; call Present() after EndFrame to display the frame.
	//
	// Returns:
	//   - error: an error if the command buffer could not be finished
	EndFrame() error

	// Present presents the surface to the display and releases the swapchain texture.
	// Must be called once per frame after EndFrame.
	Present()

	// Release frees every cached buffer, the pipeline and the device.
	Release()
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, config backendConfig) (*wgpuRendererBackendImpl, error) {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:                    &sync.Mutex{},
		instance:              wgpu.CreateInstance(nil),
		sampleCount:           config.sampleCount,
		preserveDrawingBuffer: config.preserveDrawingBuffer,
		depthFormat:           wgpu.TextureFormatDepth24Plus,
		textures:              make(map[string]*gpuTexture),
		draws:                 make(map[string]*drawResources),
	}
	if config.stencil {
		w.depthFormat = wgpu.TextureFormatDepth24PlusStencil8
	}
	w.SetPresentMode(config.presentMode)

	w.surface = w.instance.CreateSurface(surfaceDescriptor)

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: config.forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		return nil, fmt.Errorf("request device: %w", err)
	}
	w.device = d
	w.queue = d.GetQueue()

	return w, nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 || len(capabilities.AlphaModes) == 0 {
		return errors.New("surface reports no supported formats")
	}
	b.surfaceFormat = &capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	b.releaseAttachments()

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1

	if msaaEnabled {
		// The render pass draws into the MSAA texture; the resolved result is
		// written to the swapchain view as the ResolveTarget.
		msaaTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        *b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			return err
		}
		b.msaaTexture = msaaTexture
		b.msaaTextureView, err = msaaTexture.CreateView(nil)
		if err != nil {
			return err
		}
	}

	// Depth texture sample count must match the color attachment.
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        b.depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return err
	}
	b.depthTexture = depthTexture
	b.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		return err
	}

	// With MSAA, View is the MSAA texture and ResolveTarget is set per-frame to
	// the swapchain view. Without it, View is set per-frame.
	storeOp := wgpu.StoreOpStore
	if msaaEnabled && !b.preserveDrawingBuffer {
		storeOp = wgpu.StoreOpDiscard
	}
	depthStencil := &wgpu.RenderPassDepthStencilAttachment{
		View:            b.depthTextureView,
		DepthLoadOp:     wgpu.LoadOpClear,
		DepthStoreOp:    wgpu.StoreOpDiscard,
		DepthClearValue: 1.0,
	}
	if b.depthFormat == wgpu.TextureFormatDepth24PlusStencil8 {
		depthStencil.StencilLoadOp = wgpu.LoadOpClear
		depthStencil.StencilStoreOp = wgpu.StoreOpDiscard
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    b.msaaTextureView,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: storeOp,
			},
		},
		DepthStencilAttachment: depthStencil,
	}
	return nil
}

// releaseAttachments frees the size-dependent textures. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) releaseAttachments() {
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *wgpuRendererBackendImpl) RegisterScenePipeline() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.surfaceFormat == nil {
		return errors.New("surface must be configured before creating the scene pipeline")
	}

	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Scene Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: sceneShaderSource,
		},
	})
	if err != nil {
		return err
	}
	defer module.Release()

	uniformEntry := wgpu.BindGroupLayoutEntry{
		Binding:    bindingUniforms,
		Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
	}
	uniformEntry.Buffer.Type = wgpu.BufferBindingTypeUniform
	uniformEntry.Buffer.MinBindingSize = uniformBlockSize

	entries := []wgpu.BindGroupLayoutEntry{uniformEntry}
	for _, binding := range []uint32{bindingAlbedo, bindingOpacity} {
		entry := wgpu.BindGroupLayoutEntry{Binding: binding, Visibility: wgpu.ShaderStageFragment}
		entry.Texture.SampleType = wgpu.TextureSampleTypeFloat
		entry.Texture.ViewDimension = wgpu.TextureViewDimension2D
		entries = append(entries, entry)
	}
	samplerEntry := wgpu.BindGroupLayoutEntry{Binding: bindingSampler, Visibility: wgpu.ShaderStageFragment}
	samplerEntry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	entries = append(entries, samplerEntry)

	layout, err := b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Scene Bindings",
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("failed to create bind group layout: %w", err)
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Scene",
		BindGroupLayouts: []*wgpu.BindGroupLayout{layout},
	})
	if err != nil {
		layout.Release()
		return err
	}
	defer pipelineLayout.Release()

	blend := wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Scene Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: vertexStride,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
						{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    *b.surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend:     &wgpu.BlendState{Color: blend, Alpha: blend},
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            b.depthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLessEqual,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		layout.Release()
		return err
	}

	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Scene Sampler",
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		created.Release()
		layout.Release()
		return err
	}

	white, err := b.createTexture("White", []byte{255, 255, 255, 255}, 1, 1)
	if err != nil {
		samp.Release()
		created.Release()
		layout.Release()
		return err
	}

	b.bindGroupLayout = layout
	b.scenePipeline = created
	b.sampler = samp
	b.whiteTexture = white
	return nil
}

// createTexture creates a sampled texture and writes pixels into mip level 0.
// Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) createTexture(label string, pixels []byte, width, height uint32) (*gpuTexture, error) {
	if width == 0 || height == 0 || len(pixels) < int(width*height*4) {
		return nil, fmt.Errorf("texture %q: %d bytes for %dx%d pixels", label, len(pixels), width, height)
	}

	size := wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1}
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label + " Texture",
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          size,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, err
	}

	err = b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  width * 4,
			RowsPerImage: height,
		},
		&size,
	)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("write texture %q: %w", label, err)
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, err
	}
	return &gpuTexture{texture: tex, view: view}, nil
}

func (b *wgpuRendererBackendImpl) UploadTexture(key string, pixels []byte, width, height uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	created, err := b.createTexture(key, pixels, width, height)
	if err != nil {
		return err
	}
	if old, ok := b.textures[key]; ok {
		old.release()
	}
	b.textures[key] = created

	// Bind groups that sampled the replaced view are rebuilt on their next PrepareDraw.
	for _, res := range b.draws {
		if res.textures.Albedo == key || res.textures.Opacity == key {
			res.releaseBindGroup()
		}
	}
	return nil
}

// textureView resolves a texture key to a view, falling back to white. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) textureView(key string) *wgpu.TextureView {
	if t, ok := b.textures[key]; ok && key != "" {
		return t.view
	}
	return b.whiteTexture.view
}

func (b *wgpuRendererBackendImpl) PrepareDraw(key string, vertices []mesh.Vertex, indices []uint32, uniforms []byte, textures DrawTextures) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	res, ok := b.draws[key]
	if !ok {
		res = &drawResources{}
		b.draws[key] = res
	}

	if res.vertexCount != len(vertices) || res.indexCount != len(indices) {
		res.releaseGeometry()

		vertexData := common.SliceToBytes(vertices)
		vb, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: key + " Vertex Buffer",
			Size:  uint64(len(vertexData)),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return err
		}
		b.queue.WriteBuffer(vb, 0, vertexData)

		indexData := common.SliceToBytes(indices)
		ib, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: key + " Index Buffer",
			Size:  uint64(len(indexData)),
			Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			vb.Release()
			return err
		}
		b.queue.WriteBuffer(ib, 0, indexData)

		res.vertexBuffer = vb
		res.indexBuffer = ib
		res.vertexCount = len(vertices)
		res.indexCount = len(indices)
	}

	if res.uniformBuffer == nil {
		ub, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: key + " Uniform Buffer",
			Size:  uniformBlockSize,
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return err
		}
		res.uniformBuffer = ub
	}

	if res.bindGroup == nil || res.textures != textures {
		res.releaseBindGroup()
		bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  key + " Bind Group",
			Layout: b.bindGroupLayout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: bindingUniforms, Buffer: res.uniformBuffer, Offset: 0, Size: wgpu.WholeSize},
				{Binding: bindingAlbedo, TextureView: b.textureView(textures.Albedo)},
				{Binding: bindingOpacity, TextureView: b.textureView(textures.Opacity)},
				{Binding: bindingSampler, Sampler: b.sampler},
			},
		})
		if err != nil {
			return err
		}
		res.bindGroup = bg
		res.textures = textures
	}

	b.queue.WriteBuffer(res.uniformBuffer, 0, uniforms)
	return nil
}

func (b *wgpuRendererBackendImpl) BeginFrame(clearColor [4]float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// A surface texture still held from a previous frame must be presented
	// before another is acquired.
	if b.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	attachment := &b.renderPassDescriptor.ColorAttachments[0]
	if b.sampleCount > 1 {
		attachment.ResolveTarget = view
	} else {
		attachment.View = view
	}
	attachment.ClearValue = wgpu.Color{
		R: clearColor[0], G: clearColor[1], B: clearColor[2], A: clearColor[3],
	}
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)
	pass.SetPipeline(b.scenePipeline)

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view

	return nil
}

func (b *wgpuRendererBackendImpl) DrawCall(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	res, ok := b.draws[key]
	if !ok || b.framePass == nil || res.indexBuffer == nil {
		return
	}

	b.framePass.SetBindGroup(0, res.bindGroup, nil)
	b.framePass.SetVertexBuffer(0, res.vertexBuffer, 0, wgpu.WholeSize)
	b.framePass.SetIndexBuffer(res.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.framePass.DrawIndexed(uint32(res.indexCount), 1, 0, 0, 0)
}

func (b *wgpuRendererBackendImpl) EndFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return errors.New("no frame in progress")
	}
	b.framePass.End()
	b.framePass = nil

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		b.frameEncoder.Release()
		b.frameView.Release()
		b.frameSurface.Release()
		b.frameEncoder = nil
		b.frameSurface = nil
		b.frameView = nil
		return err
	}

	b.queue.Submit(commandBuffer)

	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil
	return nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for key, res := range b.draws {
		res.release()
		delete(b.draws, key)
	}
	b.releaseAttachments()
	for key, tex := range b.textures {
		tex.release()
		delete(b.textures, key)
	}
	if b.whiteTexture != nil {
		b.whiteTexture.release()
		b.whiteTexture = nil
	}
	if b.sampler != nil {
		b.sampler.Release()
		b.sampler = nil
	}
	if b.scenePipeline != nil {
		b.scenePipeline.Release()
		b.scenePipeline = nil
	}
	if b.bindGroupLayout != nil {
		b.bindGroupLayout.Release()
		b.bindGroupLayout = nil
	}
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
