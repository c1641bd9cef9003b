package core

import (
	"time"

	"github.com/gogpu/gputypes"
)

// App defines the application hooks.
type App interface {
	OnStart(e *Engine) error           // called once after window/renderer init
	OnUpdate(e *Engine, dt float64)    // called at a fixed tick (60Hz by default)
	OnRender(e *Engine, alpha float64) // render with interpolation alpha [0..1]
	OnEvent(e *Engine, ev Event)       // input/window events
	OnShutdown(e *Engine)              // before exit
}

// Engine exposes core services to the App.
type Engine struct {
	Window   Window
	Renderer Renderer
	Input    *Input
	Layers   LayerStack
	start    time.Time
}

func (e *Engine) Uptime() time.Duration { return time.Since(e.start) }

// Window abstraction.
type Window interface {
	PollEvents()
	SwapBuffers()
	ShouldClose() bool
	RequestClose()
	FramebufferSize() (int, int)
	SetTitle(title string)
	SetEventCallback(cb func(Event))
}

// Opaque GPU object handles. Zero is never a valid handle.
type (
	Pipeline      uint32
	Mesh          uint32
	Texture       uint32
	UniformBuffer uint32
)

type PipelineDesc struct {
	VertexSource   string
	FragmentSource string
	VertexLayouts  []gputypes.VertexBufferLayout
	Topology       gputypes.PrimitiveTopology
	// UniformBlock names the shader uniform block bound to UniformBinding.
	UniformBlock   string
	UniformBinding uint32
	// TextureSampler names the sampler uniform bound to texture unit 0.
	TextureSampler string
	Blend          bool
}

type MeshDesc struct {
	Layout      gputypes.VertexBufferLayout
	IndexFormat gputypes.IndexFormat
	Vertices    []byte
	Indices     []byte
	IndexCount  int
}

type UniformBufferDesc struct {
	Binding uint32
	Data    []byte
}

type TextureFormat int

const (
	TextureRGBA8 TextureFormat = iota
)

type TextureDesc struct {
	Width, Height        int
	Format               TextureFormat
	Pixels               []byte
	MinFilter, MagFilter string // "nearest" | "linear"
	WrapU, WrapV         string // "clamp" | "repeat"
}

// DrawCmd issues one indexed draw of IndexCount indices from Mesh.
type DrawCmd struct {
	Pipe       Pipeline
	Mesh       Mesh
	Uniform    UniformBuffer
	Texture    Texture
	IndexCount int
}

// Renderer is the GPU upload boundary. Byte slices passed in are copied
// before the call returns.
type Renderer interface {
	Resize(w, h int)
	Clear(r, g, b, a float32)
	Shutdown()

	CreatePipeline(desc PipelineDesc) (Pipeline, error)
	CreateMesh(desc MeshDesc) (Mesh, error)
	UpdateMesh(m Mesh, vertices, indices []byte, indexCount int) error
	CreateUniformBuffer(desc UniformBufferDesc) (UniformBuffer, error)
	UpdateUniformBuffer(u UniformBuffer, data []byte) error
	CreateTexture(desc TextureDesc) (Texture, error)
	DeleteTexture(t Texture)
	Draw(cmd DrawCmd)
}

// Event model.
type Event interface{ isEvent() }

type EventCloseRequested struct{}

func (EventCloseRequested) isEvent() {}

type EventResize struct{ W, H int }

func (EventResize) isEvent() {}

type EventKey struct {
	Key  Key
	Down bool
	Mods Mod
}

func (EventKey) isEvent() {}

type EventMouseMove struct{ X, Y float64 }

func (EventMouseMove) isEvent() {}

type EventMouseButton struct {
	Button MouseButton
	Down   bool
}

func (EventMouseButton) isEvent() {}

type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeySpace
	KeyW
	KeyA
	KeyS
	KeyD
	KeyR
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

type Mod int

const (
	ModNone  Mod = 0
	ModShift Mod = 1 << 0
	ModCtrl  Mod = 1 << 1
	ModAlt   Mod = 1 << 2
	ModSuper Mod = 1 << 3
)

type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)
