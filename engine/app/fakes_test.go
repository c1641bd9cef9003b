package app

import (
	"testing"

	"github.com/hubastard/glyphquad/engine/core"
)

type fakeWindow struct {
	w, h   int
	title  string
	closed bool
}

func (f *fakeWindow) PollEvents()                       {}
func (f *fakeWindow) SwapBuffers()                      {}
func (f *fakeWindow) ShouldClose() bool                 { return f.closed }
func (f *fakeWindow) RequestClose()                     { f.closed = true }
func (f *fakeWindow) FramebufferSize() (int, int)       { return f.w, f.h }
func (f *fakeWindow) SetTitle(title string)             { f.title = title }
func (f *fakeWindow) SetEventCallback(func(core.Event)) {}

type fakeTexture struct {
	width  int
	pixels []byte
}

// fakeRenderer keeps texture contents so tests can compare atlas cells.
type fakeRenderer struct {
	next     uint32
	textures map[core.Texture]fakeTexture
	deleted  []core.Texture
	draws    []core.DrawCmd
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{textures: map[core.Texture]fakeTexture{}}
}

func (f *fakeRenderer) handle() uint32 {
	f.next++
	return f.next
}

func (f *fakeRenderer) Resize(w, h int)          {}
func (f *fakeRenderer) Clear(r, g, b, a float32) {}
func (f *fakeRenderer) Shutdown()                {}

func (f *fakeRenderer) CreatePipeline(core.PipelineDesc) (core.Pipeline, error) {
	return core.Pipeline(f.handle()), nil
}

func (f *fakeRenderer) CreateMesh(core.MeshDesc) (core.Mesh, error) {
	return core.Mesh(f.handle()), nil
}

func (f *fakeRenderer) UpdateMesh(core.Mesh, []byte, []byte, int) error { return nil }

func (f *fakeRenderer) CreateUniformBuffer(core.UniformBufferDesc) (core.UniformBuffer, error) {
	return core.UniformBuffer(f.handle()), nil
}

func (f *fakeRenderer) UpdateUniformBuffer(core.UniformBuffer, []byte) error { return nil }

func (f *fakeRenderer) CreateTexture(desc core.TextureDesc) (core.Texture, error) {
	h := core.Texture(f.handle())
	f.textures[h] = fakeTexture{width: desc.Width, pixels: append([]byte(nil), desc.Pixels...)}
	return h, nil
}

func (f *fakeRenderer) DeleteTexture(t core.Texture) {
	delete(f.textures, t)
	f.deleted = append(f.deleted, t)
}

func (f *fakeRenderer) Draw(cmd core.DrawCmd) { f.draws = append(f.draws, cmd) }

// cell copies the RGBA bytes of grid cell g out of texture t.
func (f *fakeRenderer) cell(t *testing.T, tex core.Texture, g, columns, cellPx int) []byte {
	t.Helper()
	ft, ok := f.textures[tex]
	if !ok {
		t.Fatalf("texture %d does not exist", tex)
	}
	col, row := g%columns, g/columns
	out := make([]byte, 0, cellPx*cellPx*4)
	for y := row * cellPx; y < (row+1)*cellPx; y++ {
		start := (y*ft.width + col*cellPx) * 4
		out = append(out, ft.pixels[start:start+cellPx*4]...)
	}
	return out
}

func testEngine(w, h int) (*core.Engine, *fakeWindow, *fakeRenderer) {
	win := &fakeWindow{w: w, h: h}
	rend := newFakeRenderer()
	return &core.Engine{Window: win, Renderer: rend, Input: core.NewInput()}, win, rend
}
