package renderer2d

import (
	"time"

	"github.com/gogpu/gputypes"
	"github.com/hubastard/glyphquad/engine/core"
	"github.com/pkg/errors"
)

// Uniform block and sampler names the text shaders declare.
const (
	CameraBlockName   = "Camera"
	CameraBinding     = 0
	AtlasSamplerName  = "uAtlas"
	defaultQuadBudget = 256
)

// Statistics captures the counts generated during a renderer frame.
type Statistics struct {
	DrawCalls      int
	QuadCount      int
	MeshUploads    int
	UniformUploads int
}

// TotalVertexCount reports vertices submitted this frame.
func (s Statistics) TotalVertexCount() int { return s.QuadCount * vertsPerQuad }

// TotalIndexCount reports indices submitted this frame.
func (s Statistics) TotalIndexCount() int { return s.QuadCount * indsPerQuad }

type Options struct {
	VertexSource   string
	FragmentSource string
	Atlas          *AtlasIndex
	AtlasTexture   core.Texture
	UniformLayout  UniformLayout
}

// Renderer2D owns the quad set, its mesh and the camera record. The mesh is
// rebuilt and uploaded only after the quad set changed, the camera record
// only after SetCamera.
type Renderer2D struct {
	r      core.Renderer
	pipe   core.Pipeline
	mesh   core.Mesh
	ubo    core.UniformBuffer
	tex    core.Texture
	atlas  *AtlasIndex
	layout UniformLayout

	quads   []QuadDescriptor
	dirty   bool
	current Mesh

	camera      CameraUniform
	cameraDirty bool

	stats Statistics
}

// New creates the renderer and compiles the shader pipeline.
func New(r core.Renderer, opts Options) (*Renderer2D, error) {
	if opts.Atlas == nil {
		return nil, errors.Wrap(core.ErrInvalidAtlasLayout, "renderer2d: nil atlas index")
	}
	pipe, err := r.CreatePipeline(core.PipelineDesc{
		VertexSource:   opts.VertexSource,
		FragmentSource: opts.FragmentSource,
		VertexLayouts:  []gputypes.VertexBufferLayout{VertexLayout()},
		Topology:       Topology,
		UniformBlock:   CameraBlockName,
		UniformBinding: CameraBinding,
		TextureSampler: AtlasSamplerName,
		Blend:          true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "renderer2d: create pipeline")
	}

	// Reserve room for a typical batch; the backend grows it on demand.
	mesh, err := r.CreateMesh(core.MeshDesc{
		Layout:      VertexLayout(),
		IndexFormat: IndexFormat,
		Vertices:    make([]byte, defaultQuadBudget*vertsPerQuad*VertexStride),
		Indices:     make([]byte, defaultQuadBudget*indsPerQuad*4),
		IndexCount:  0,
	})
	if err != nil {
		return nil, errors.Wrap(err, "renderer2d: create mesh")
	}

	cam := NewCameraUniform()
	ubo, err := r.CreateUniformBuffer(core.UniformBufferDesc{
		Binding: CameraBinding,
		Data:    cam.Pack(opts.UniformLayout),
	})
	if err != nil {
		return nil, errors.Wrap(err, "renderer2d: create camera uniform")
	}

	return &Renderer2D{
		r: r, pipe: pipe, mesh: mesh, ubo: ubo,
		tex: opts.AtlasTexture, atlas: opts.Atlas, layout: opts.UniformLayout,
		camera: cam,
	}, nil
}

// SetQuads replaces the whole quad set. The slice is copied.
func (rd *Renderer2D) SetQuads(quads []QuadDescriptor) {
	rd.quads = append(rd.quads[:0], quads...)
	rd.dirty = true
}

// SetAtlas swaps the atlas and its texture; the mesh is rebuilt on the next
// Render. The previous texture stays owned by the caller.
func (rd *Renderer2D) SetAtlas(atlas *AtlasIndex, tex core.Texture) error {
	if atlas == nil {
		return errors.Wrap(core.ErrInvalidAtlasLayout, "renderer2d: nil atlas index")
	}
	rd.atlas = atlas
	rd.tex = tex
	rd.dirty = true
	return nil
}

// Texture is the atlas texture the next draw samples.
func (rd *Renderer2D) Texture() core.Texture { return rd.tex }

// SetCamera queues u for upload on the next Render. Call it only when the
// camera changed.
func (rd *Renderer2D) SetCamera(u CameraUniform) {
	rd.camera = u
	rd.cameraDirty = true
}

func (rd *Renderer2D) Dirty() bool { return rd.dirty }

// Mesh returns the mesh currently on the GPU.
func (rd *Renderer2D) Mesh() Mesh { return rd.current }

// Stats returns the current frame statistics snapshot.
func (rd *Renderer2D) Stats() Statistics { return rd.stats }

// Render uploads what changed and issues one indexed draw.
func (rd *Renderer2D) Render() error {
	rd.stats = Statistics{}

	if rd.dirty {
		start := time.Now()
		next := BuildMesh(rd.quads, rd.atlas)
		if err := rd.r.UpdateMesh(rd.mesh, next.VertexBytes(), next.IndexBytes(), next.IndexCount()); err != nil {
			return errors.Wrap(err, "renderer2d: upload mesh")
		}
		// Swap only after a successful upload so a failed frame keeps the old mesh.
		rd.current = next
		rd.dirty = false
		rd.stats.MeshUploads++
		core.LogDebug("rebuilt mesh: %d quads in %s", next.QuadCount(), time.Since(start))
	}

	if rd.cameraDirty {
		if err := rd.r.UpdateUniformBuffer(rd.ubo, rd.camera.Pack(rd.layout)); err != nil {
			return errors.Wrap(err, "renderer2d: upload camera")
		}
		rd.cameraDirty = false
		rd.stats.UniformUploads++
	}

	rd.stats.QuadCount = rd.current.QuadCount()
	if rd.current.IndexCount() == 0 {
		return nil
	}
	rd.r.Draw(core.DrawCmd{
		Pipe:       rd.pipe,
		Mesh:       rd.mesh,
		Uniform:    rd.ubo,
		Texture:    rd.tex,
		IndexCount: rd.current.IndexCount(),
	})
	rd.stats.DrawCalls++
	return nil
}
