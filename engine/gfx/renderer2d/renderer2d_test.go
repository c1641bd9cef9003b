package renderer2d

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/glyphquad/engine/core"
)

// fakeRenderer records what Renderer2D pushes across the upload boundary.
type fakeRenderer struct {
	pipeline core.PipelineDesc

	meshUploads    int
	lastVertices   []byte
	lastIndices    []byte
	lastIndexCount int
	failMesh       error

	uniformUploads int
	lastUniform    []byte

	draws []core.DrawCmd
}

func (f *fakeRenderer) Resize(w, h int)          {}
func (f *fakeRenderer) Clear(r, g, b, a float32) {}
func (f *fakeRenderer) Shutdown()                {}

func (f *fakeRenderer) CreatePipeline(desc core.PipelineDesc) (core.Pipeline, error) {
	f.pipeline = desc
	return 1, nil
}

func (f *fakeRenderer) CreateMesh(desc core.MeshDesc) (core.Mesh, error) { return 2, nil }

func (f *fakeRenderer) UpdateMesh(m core.Mesh, vertices, indices []byte, indexCount int) error {
	if f.failMesh != nil {
		return f.failMesh
	}
	f.meshUploads++
	f.lastVertices = append([]byte(nil), vertices...)
	f.lastIndices = append([]byte(nil), indices...)
	f.lastIndexCount = indexCount
	return nil
}

func (f *fakeRenderer) CreateUniformBuffer(desc core.UniformBufferDesc) (core.UniformBuffer, error) {
	f.lastUniform = append([]byte(nil), desc.Data...)
	return 3, nil
}

func (f *fakeRenderer) UpdateUniformBuffer(u core.UniformBuffer, data []byte) error {
	f.uniformUploads++
	f.lastUniform = append([]byte(nil), data...)
	return nil
}

func (f *fakeRenderer) CreateTexture(desc core.TextureDesc) (core.Texture, error) { return 4, nil }
func (f *fakeRenderer) DeleteTexture(tex core.Texture)                            {}

func (f *fakeRenderer) Draw(cmd core.DrawCmd) { f.draws = append(f.draws, cmd) }

func newTestRenderer(t *testing.T) (*Renderer2D, *fakeRenderer) {
	t.Helper()
	fr := &fakeRenderer{}
	rd, err := New(fr, Options{
		Atlas:         letterAtlas(t),
		AtlasTexture:  4,
		UniformLayout: LayoutViewProjectionPosition,
	})
	if err != nil {
		t.Fatal(err)
	}
	return rd, fr
}

func TestNewDeclaresPipeline(t *testing.T) {
	_, fr := newTestRenderer(t)
	if len(fr.pipeline.VertexLayouts) != 1 || fr.pipeline.VertexLayouts[0].ArrayStride != VertexStride {
		t.Errorf("vertex layouts = %+v", fr.pipeline.VertexLayouts)
	}
	if fr.pipeline.Topology != Topology {
		t.Errorf("topology = %v", fr.pipeline.Topology)
	}
	if fr.pipeline.UniformBlock != CameraBlockName || fr.pipeline.TextureSampler != AtlasSamplerName {
		t.Errorf("bindings = %q / %q", fr.pipeline.UniformBlock, fr.pipeline.TextureSampler)
	}
	if len(fr.lastUniform) != LayoutViewProjectionPosition.Size() {
		t.Errorf("initial uniform is %d bytes", len(fr.lastUniform))
	}
}

func TestNewRequiresAtlas(t *testing.T) {
	if _, err := New(&fakeRenderer{}, Options{}); !errors.Is(err, core.ErrInvalidAtlasLayout) {
		t.Errorf("err = %v", err)
	}
}

func TestRenderUploadsMeshOnlyWhenDirty(t *testing.T) {
	rd, fr := newTestRenderer(t)
	rd.SetQuads(sampleQuads(3))

	for frame := 0; frame < 3; frame++ {
		if err := rd.Render(); err != nil {
			t.Fatal(err)
		}
	}
	if fr.meshUploads != 1 {
		t.Errorf("mesh uploaded %d times, want 1", fr.meshUploads)
	}
	if len(fr.draws) != 3 {
		t.Fatalf("draws = %d, want 3", len(fr.draws))
	}
	if fr.draws[2].IndexCount != 18 || fr.lastIndexCount != 18 {
		t.Errorf("index count = %d / %d, want 18", fr.draws[2].IndexCount, fr.lastIndexCount)
	}
	if len(fr.lastVertices) != 12*VertexStride {
		t.Errorf("uploaded %d vertex bytes", len(fr.lastVertices))
	}
	if rd.Stats().MeshUploads != 0 || rd.Stats().QuadCount != 3 || rd.Stats().DrawCalls != 1 {
		t.Errorf("last frame stats = %+v", rd.Stats())
	}

	rd.SetQuads(sampleQuads(1))
	if err := rd.Render(); err != nil {
		t.Fatal(err)
	}
	if fr.meshUploads != 2 || rd.Mesh().QuadCount() != 1 {
		t.Errorf("after replace: uploads=%d quads=%d", fr.meshUploads, rd.Mesh().QuadCount())
	}
}

func TestRenderSkipsDrawForEmptyQuadSet(t *testing.T) {
	rd, fr := newTestRenderer(t)
	rd.SetQuads(nil)
	if err := rd.Render(); err != nil {
		t.Fatal(err)
	}
	if fr.meshUploads != 1 {
		t.Errorf("empty set should still replace the GPU mesh, uploads=%d", fr.meshUploads)
	}
	if len(fr.draws) != 0 {
		t.Errorf("draws = %d, want 0", len(fr.draws))
	}
}

func TestRenderUploadsCameraOnlyAfterSetCamera(t *testing.T) {
	rd, fr := newTestRenderer(t)
	rd.SetCamera(CameraUniform{ViewProjection: mgl32.Ident4(), Position: mgl32.Vec2{5, 6}})
	for frame := 0; frame < 4; frame++ {
		if err := rd.Render(); err != nil {
			t.Fatal(err)
		}
	}
	if fr.uniformUploads != 1 {
		t.Errorf("camera uploaded %d times, want 1", fr.uniformUploads)
	}
	if readF32(fr.lastUniform, 64) != 5 || readF32(fr.lastUniform, 68) != 6 {
		t.Error("uploaded record does not carry the camera position")
	}
}

func TestRenderKeepsOldMeshWhenUploadFails(t *testing.T) {
	rd, fr := newTestRenderer(t)
	rd.SetQuads(sampleQuads(2))
	if err := rd.Render(); err != nil {
		t.Fatal(err)
	}

	fr.failMesh = errors.New("device lost")
	rd.SetQuads(sampleQuads(5))
	if err := rd.Render(); err == nil {
		t.Fatal("expected upload error")
	}
	if rd.Mesh().QuadCount() != 2 {
		t.Errorf("mesh after failed upload has %d quads, want 2", rd.Mesh().QuadCount())
	}
	if !rd.Dirty() {
		t.Error("failed upload must leave the quad set dirty")
	}

	fr.failMesh = nil
	if err := rd.Render(); err != nil {
		t.Fatal(err)
	}
	if rd.Mesh().QuadCount() != 5 {
		t.Errorf("retry produced %d quads", rd.Mesh().QuadCount())
	}
}

func TestSetQuadsCopiesInput(t *testing.T) {
	rd, _ := newTestRenderer(t)
	quads := sampleQuads(2)
	rd.SetQuads(quads)
	quads[0].Position = mgl32.Vec3{999, 999, 0}
	if err := rd.Render(); err != nil {
		t.Fatal(err)
	}
	if rd.Mesh().Vertices[0].Position.X() == 999 {
		t.Error("caller mutation leaked into the quad set")
	}
}

func TestSetAtlasRebuildsMeshAndSwapsTexture(t *testing.T) {
	rd, fr := newTestRenderer(t)
	rd.SetQuads(sampleQuads(2)) // glyphs 0 and 7
	if err := rd.Render(); err != nil {
		t.Fatal(err)
	}
	quad1U := 4*VertexStride + 12
	if got := readF32(fr.lastVertices, quad1U); got != 0.875 {
		t.Fatalf("glyph 7 on 8x8 u = %v, want 0.875", got)
	}

	if err := rd.SetAtlas(nil, 9); !errors.Is(err, core.ErrInvalidAtlasLayout) {
		t.Errorf("SetAtlas(nil) err = %v", err)
	}
	if rd.Dirty() || rd.Texture() != 4 {
		t.Error("rejected atlas must leave the renderer untouched")
	}

	small, err := NewAtlasIndex(AtlasLayout{Columns: 2, Rows: 2}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := rd.SetAtlas(small, 9); err != nil {
		t.Fatal(err)
	}
	if !rd.Dirty() {
		t.Error("SetAtlas must mark the mesh dirty")
	}
	if err := rd.Render(); err != nil {
		t.Fatal(err)
	}
	// glyph 7 is outside the 2x2 grid and falls back to cell 0
	if got := readF32(fr.lastVertices, quad1U); got != 0 {
		t.Errorf("fallback u = %v, want 0", got)
	}
	if last := fr.draws[len(fr.draws)-1]; last.Texture != 9 {
		t.Errorf("draw samples texture %d, want 9", last.Texture)
	}
}

func TestStatisticsTotals(t *testing.T) {
	rd, _ := newTestRenderer(t)
	rd.SetQuads(sampleQuads(5))
	if err := rd.Render(); err != nil {
		t.Fatal(err)
	}
	st := rd.Stats()
	if st.TotalVertexCount() != 20 || st.TotalIndexCount() != 30 {
		t.Errorf("totals = %d vertices, %d indices", st.TotalVertexCount(), st.TotalIndexCount())
	}
}
