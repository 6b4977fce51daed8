package gpu

import (
	"errors"
	"fmt"
	"image"

	"github.com/gekko3d/spheretrace/rt/core"
	"github.com/gekko3d/spheretrace/rt/shaders"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

var ErrReadbackFailed = errors.New("ray-work readback failed")

// Renderer owns the two-pass WebGPU pipeline. The trace pass writes the image
// and data targets; the present pass blits the image and the HUD to the surface.
type Renderer struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	TracePipeline   *wgpu.RenderPipeline
	DirectPipeline  *wgpu.RenderPipeline
	PresentPipeline *wgpu.RenderPipeline

	QuadBuf     *wgpu.Buffer
	FrameBuf    *wgpu.Buffer
	SceneBuf    *wgpu.Buffer
	ReadbackBuf *wgpu.Buffer

	ImageTexture *wgpu.Texture
	ImageView    *wgpu.TextureView
	DataTexture  *wgpu.Texture
	DataView     *wgpu.TextureView
	HudTexture   *wgpu.Texture
	HudView      *wgpu.TextureView
	HudWidth     int
	HudHeight    int
	Sampler      *wgpu.Sampler

	TraceBG   *wgpu.BindGroup
	DirectBG  *wgpu.BindGroup
	PresentBG *wgpu.BindGroup

	Width        uint32
	Height       uint32
	RayWorkScale float32
}

func NewRenderer(window *glfw.Window) *Renderer {
	return &Renderer{Window: window}
}

func (r *Renderer) Init() error {
	r.Instance = wgpu.CreateInstance(nil)
	r.Surface = r.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(r.Window))

	adapter, err := r.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: r.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("request adapter: %w", err)
	}
	r.Adapter = adapter

	r.Device, err = adapter.RequestDevice(nil)
	if err != nil {
		return fmt.Errorf("request device: %w", err)
	}
	r.Queue = r.Device.GetQueue()

	width, height := r.Window.GetFramebufferSize()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid framebuffer size %dx%d", width, height)
	}
	r.Width, r.Height = uint32(width), uint32(height)

	caps := r.Surface.GetCapabilities(adapter)
	r.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       r.Width,
		Height:      r.Height,
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	r.Surface.Configure(adapter, r.Device, r.Config)

	if err := r.setupBuffers(); err != nil {
		return err
	}
	if err := r.setupTextures(); err != nil {
		return err
	}
	if err := r.setupHud(1, 1); err != nil {
		return err
	}
	if err := r.setupPipelines(); err != nil {
		return err
	}
	r.Sampler, err = r.Device.CreateSampler(&wgpu.SamplerDescriptor{
		MinFilter:     wgpu.FilterModeNearest,
		MagFilter:     wgpu.FilterModeNearest,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("create sampler: %w", err)
	}
	return r.setupBindGroups()
}

func (r *Renderer) setupBuffers() error {
	var err error
	r.QuadBuf, err = r.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Quad VB",
		Size:  uint64(len(QuadVertices) * 4),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create quad buffer: %w", err)
	}
	r.Queue.WriteBuffer(r.QuadBuf, 0, packQuad())

	r.FrameBuf, err = r.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "FrameUB",
		Size:  FrameUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create frame buffer: %w", err)
	}

	r.SceneBuf, err = r.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "SceneUB",
		Size:  SceneUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create scene buffer: %w", err)
	}

	r.ReadbackBuf, err = r.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "RayWork Readback",
		Size:  uint64(AlignedBytesPerRow(r.Width)) * uint64(r.Height),
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create readback buffer: %w", err)
	}
	return nil
}

func (r *Renderer) createTarget(label string, usage wgpu.TextureUsage) (*wgpu.Texture, *wgpu.TextureView, error) {
	tex, err := r.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          wgpu.Extent3D{Width: r.Width, Height: r.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         usage,
		SampleCount:   1,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", label, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s view: %w", label, err)
	}
	return tex, view, nil
}

func (r *Renderer) setupTextures() error {
	var err error
	r.ImageTexture, r.ImageView, err = r.createTarget("Image Target",
		wgpu.TextureUsageRenderAttachment|wgpu.TextureUsageTextureBinding|wgpu.TextureUsageCopyDst)
	if err != nil {
		return err
	}
	r.DataTexture, r.DataView, err = r.createTarget("Data Target",
		wgpu.TextureUsageRenderAttachment|wgpu.TextureUsageCopySrc)
	return err
}

func (r *Renderer) setupHud(w, h int) error {
	if r.HudTexture != nil {
		r.HudView.Release()
		r.HudTexture.Release()
	}
	tex, err := r.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "HUD",
		Size:          wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		Format:        wgpu.TextureFormatR8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return fmt.Errorf("create hud texture: %w", err)
	}
	r.HudTexture = tex
	r.HudView, err = tex.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create hud view: %w", err)
	}
	r.HudWidth, r.HudHeight = w, h
	return nil
}

func (r *Renderer) setupPipelines() error {
	traceMod, err := r.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Trace VS/FS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.TraceWGSL},
	})
	if err != nil {
		return fmt.Errorf("compile trace shader: %w", err)
	}
	presentMod, err := r.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Present VS/FS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.PresentWGSL},
	})
	if err != nil {
		return fmt.Errorf("compile present shader: %w", err)
	}

	quad := wgpu.VertexState{
		Module:     traceMod,
		EntryPoint: "vs_main",
		Buffers: []wgpu.VertexBufferLayout{{
			ArrayStride: 8,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			},
		}},
	}
	primitive := wgpu.PrimitiveState{Topology: wgpu.PrimitiveTopologyTriangleList}
	multisample := wgpu.MultisampleState{Count: 1, Mask: 0xFFFFFFFF}

	r.TracePipeline, err = r.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Trace Pipeline",
		Vertex: quad,
		Fragment: &wgpu.FragmentState{
			Module:     traceMod,
			EntryPoint: "fs_trace",
			Targets: []wgpu.ColorTargetState{
				{Format: wgpu.TextureFormatRGBA8Unorm, WriteMask: wgpu.ColorWriteMaskAll},
				{Format: wgpu.TextureFormatRGBA8Unorm, WriteMask: wgpu.ColorWriteMaskAll},
			},
		},
		Primitive:   primitive,
		Multisample: multisample,
	})
	if err != nil {
		return fmt.Errorf("create trace pipeline: %w", err)
	}

	r.DirectPipeline, err = r.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Direct Pipeline",
		Vertex: quad,
		Fragment: &wgpu.FragmentState{
			Module:     traceMod,
			EntryPoint: "fs_direct",
			Targets: []wgpu.ColorTargetState{{
				Format:    r.Config.Format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive:   primitive,
		Multisample: multisample,
	})
	if err != nil {
		return fmt.Errorf("create direct pipeline: %w", err)
	}

	r.PresentPipeline, err = r.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Present Pipeline",
		Vertex: wgpu.VertexState{
			Module:     presentMod,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     presentMod,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    r.Config.Format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive:   primitive,
		Multisample: multisample,
	})
	if err != nil {
		return fmt.Errorf("create present pipeline: %w", err)
	}
	return nil
}

func (r *Renderer) setupBindGroups() error {
	var err error
	uniforms := func(p *wgpu.RenderPipeline) (*wgpu.BindGroup, error) {
		return r.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Layout: p.GetBindGroupLayout(0),
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: r.FrameBuf, Size: wgpu.WholeSize},
				{Binding: 1, Buffer: r.SceneBuf, Size: wgpu.WholeSize},
			},
		})
	}
	if r.TraceBG, err = uniforms(r.TracePipeline); err != nil {
		return fmt.Errorf("create trace bind group: %w", err)
	}
	if r.DirectBG, err = uniforms(r.DirectPipeline); err != nil {
		return fmt.Errorf("create direct bind group: %w", err)
	}
	return r.setupPresentBindGroup()
}

func (r *Renderer) setupPresentBindGroup() error {
	if r.PresentBG != nil {
		r.PresentBG.Release()
	}
	var err error
	r.PresentBG, err = r.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: r.PresentPipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: r.ImageView},
			{Binding: 1, TextureView: r.HudView},
			{Binding: 2, Sampler: r.Sampler},
		},
	})
	if err != nil {
		return fmt.Errorf("create present bind group: %w", err)
	}
	return nil
}

// UpdateFrame uploads the per-frame uniforms.
func (r *Renderer) UpdateFrame(p core.FrameParameters) {
	r.RayWorkScale = p.RayWorkScale
	r.Queue.WriteBuffer(r.FrameBuf, 0, PackFrame(p))
}

// UpdateScene uploads the plane material and sphere array.
func (r *Renderer) UpdateScene(scene *core.Scene) {
	r.Queue.WriteBuffer(r.SceneBuf, 0, PackScene(scene))
}

// SetHud uploads an overlay mask drawn at the top-left of the present pass.
func (r *Renderer) SetHud(mask *image.Alpha) error {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}
	if w != r.HudWidth || h != r.HudHeight {
		if err := r.setupHud(w, h); err != nil {
			return err
		}
		if err := r.setupPresentBindGroup(); err != nil {
			return err
		}
	}
	r.Queue.WriteTexture(r.HudTexture.AsImageCopy(), mask.Pix, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(mask.Stride),
		RowsPerImage: uint32(h),
	}, &wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1})
	return nil
}

// Render draws one frame. With accounting on, the trace pass fills both
// targets, the data target is read back and summed before the frame is
// presented. With accounting off the trace goes straight to the surface.
func (r *Renderer) Render(accounting bool) (float64, error) {
	next, err := r.Surface.GetCurrentTexture()
	if err != nil {
		return 0, fmt.Errorf("get current texture: %w", err)
	}
	defer next.Release()

	view, err := next.CreateView(nil)
	if err != nil {
		return 0, fmt.Errorf("create surface view: %w", err)
	}
	defer view.Release()

	encoder, err := r.Device.CreateCommandEncoder(nil)
	if err != nil {
		return 0, fmt.Errorf("create command encoder: %w", err)
	}

	if !accounting {
		pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
			ColorAttachments: []wgpu.RenderPassColorAttachment{{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
			}},
		})
		r.drawQuad(pass, r.DirectPipeline, r.DirectBG)
		if err := pass.End(); err != nil {
			return 0, fmt.Errorf("direct pass: %w", err)
		}
		if err := r.submit(encoder); err != nil {
			return 0, err
		}
		r.Surface.Present()
		return 0, nil
	}

	tPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{View: r.ImageView, LoadOp: wgpu.LoadOpClear, StoreOp: wgpu.StoreOpStore, ClearValue: wgpu.Color{A: 1}},
			{View: r.DataView, LoadOp: wgpu.LoadOpClear, StoreOp: wgpu.StoreOpStore, ClearValue: wgpu.Color{A: 1}},
		},
	})
	r.drawQuad(tPass, r.TracePipeline, r.TraceBG)
	if err := tPass.End(); err != nil {
		return 0, fmt.Errorf("trace pass: %w", err)
	}

	encoder.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture:  r.DataTexture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: 0, Y: 0, Z: 0},
		},
		&wgpu.ImageCopyBuffer{
			Buffer: r.ReadbackBuf,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  AlignedBytesPerRow(r.Width),
				RowsPerImage: r.Height,
			},
		},
		&wgpu.Extent3D{Width: r.Width, Height: r.Height, DepthOrArrayLayers: 1},
	)

	if err := r.presentPass(encoder, view); err != nil {
		return 0, err
	}
	if err := r.submit(encoder); err != nil {
		return 0, err
	}

	work, err := r.readRayWork()
	if err != nil {
		return 0, err
	}
	r.Surface.Present()
	return work, nil
}

// PresentImage uploads a host-traced image and runs the present pass only.
func (r *Renderer) PresentImage(img *image.RGBA) error {
	b := img.Bounds()
	if uint32(b.Dx()) != r.Width || uint32(b.Dy()) != r.Height {
		return fmt.Errorf("image is %dx%d, target is %dx%d", b.Dx(), b.Dy(), r.Width, r.Height)
	}
	r.Queue.WriteTexture(r.ImageTexture.AsImageCopy(), img.Pix, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(img.Stride),
		RowsPerImage: r.Height,
	}, &wgpu.Extent3D{Width: r.Width, Height: r.Height, DepthOrArrayLayers: 1})

	next, err := r.Surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("get current texture: %w", err)
	}
	defer next.Release()
	view, err := next.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create surface view: %w", err)
	}
	defer view.Release()

	encoder, err := r.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := r.presentPass(encoder, view); err != nil {
		return err
	}
	if err := r.submit(encoder); err != nil {
		return err
	}
	r.Surface.Present()
	return nil
}

func (r *Renderer) drawQuad(pass *wgpu.RenderPassEncoder, pipeline *wgpu.RenderPipeline, bg *wgpu.BindGroup) {
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bg, nil)
	pass.SetVertexBuffer(0, r.QuadBuf, 0, r.QuadBuf.GetSize())
	pass.Draw(uint32(len(QuadVertices)/2), 1, 0, 0)
}

func (r *Renderer) presentPass(encoder *wgpu.CommandEncoder, view *wgpu.TextureView) error {
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	pass.SetPipeline(r.PresentPipeline)
	pass.SetBindGroup(0, r.PresentBG, nil)
	pass.Draw(3, 1, 0, 0)
	if err := pass.End(); err != nil {
		return fmt.Errorf("present pass: %w", err)
	}
	return nil
}

func (r *Renderer) submit(encoder *wgpu.CommandEncoder) error {
	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish encoder: %w", err)
	}
	defer cmd.Release()
	r.Queue.Submit(cmd)
	return nil
}

// readRayWork blocks until the readback buffer is mapped and sums its red channel.
func (r *Renderer) readRayWork() (float64, error) {
	size := r.ReadbackBuf.GetSize()
	done := false
	status := wgpu.BufferMapAsyncStatusSuccess
	r.ReadbackBuf.MapAsync(wgpu.MapModeRead, 0, size, func(s wgpu.BufferMapAsyncStatus) {
		status = s
		done = true
	})
	for !done {
		r.Device.Poll(true, nil)
	}
	if status != wgpu.BufferMapAsyncStatusSuccess {
		return 0, fmt.Errorf("%w: map status %v", ErrReadbackFailed, status)
	}

	data := r.ReadbackBuf.GetMappedRange(0, uint(size))
	work := core.SumRayWork(data, int(AlignedBytesPerRow(r.Width)), int(r.Width), int(r.Height), r.RayWorkScale)
	r.ReadbackBuf.Unmap()
	return work, nil
}

func (r *Renderer) Release() {
	for _, bg := range []*wgpu.BindGroup{r.TraceBG, r.DirectBG, r.PresentBG} {
		if bg != nil {
			bg.Release()
		}
	}
	for _, v := range []*wgpu.TextureView{r.ImageView, r.DataView, r.HudView} {
		if v != nil {
			v.Release()
		}
	}
	for _, t := range []*wgpu.Texture{r.ImageTexture, r.DataTexture, r.HudTexture} {
		if t != nil {
			t.Release()
		}
	}
	for _, b := range []*wgpu.Buffer{r.QuadBuf, r.FrameBuf, r.SceneBuf, r.ReadbackBuf} {
		if b != nil {
			b.Release()
		}
	}
	for _, p := range []*wgpu.RenderPipeline{r.TracePipeline, r.DirectPipeline, r.PresentPipeline} {
		if p != nil {
			p.Release()
		}
	}
	if r.Sampler != nil {
		r.Sampler.Release()
	}
	if r.Device != nil {
		r.Device.Release()
	}
	if r.Surface != nil {
		r.Surface.Release()
	}
	if r.Instance != nil {
		r.Instance.Release()
	}
}
