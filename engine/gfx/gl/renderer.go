package glbackend

import (
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/gogpu/gputypes"
	"github.com/hubastard/glyphquad/engine/core"
	"github.com/pkg/errors"
)

type pipelineGL struct {
	program  uint32
	topology uint32
	blend    bool
}

type meshGL struct {
	vao, vbo, ebo uint32
	indexType     uint32
	indexCount    int32
	vboSize       int
	eboSize       int
}

type uniformGL struct {
	ubo     uint32
	binding uint32
	size    int
}

// RendererGL implements core.Renderer on an OpenGL 3.3 core context. All
// calls must come from the thread that owns the context.
type RendererGL struct {
	win core.Window

	pipelines map[core.Pipeline]*pipelineGL
	meshes    map[core.Mesh]*meshGL
	uniforms  map[core.UniformBuffer]*uniformGL
	textures  map[core.Texture]uint32
	next      uint32
}

func NewRendererGL(win core.Window, _ core.Config) (*RendererGL, error) {
	r := &RendererGL{
		win:       win,
		pipelines: make(map[core.Pipeline]*pipelineGL),
		meshes:    make(map[core.Mesh]*meshGL),
		uniforms:  make(map[core.UniformBuffer]*uniformGL),
		textures:  make(map[core.Texture]uint32),
	}
	if err := r.Init(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RendererGL) Init() error {
	if err := gl.Init(); err != nil {
		return errors.Wrap(err, "gl init")
	}
	core.LogInfo("OpenGL %s (%s, %s)",
		gl.GoStr(gl.GetString(gl.VERSION)),
		gl.GoStr(gl.GetString(gl.RENDERER)),
		gl.GoStr(gl.GetString(gl.VENDOR)))

	// Glyph quads all sit at one depth; draw order decides overlap.
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	return nil
}

func (r *RendererGL) handle() uint32 {
	r.next++
	return r.next
}

func (r *RendererGL) Shutdown() {
	for _, m := range r.meshes {
		gl.DeleteBuffers(1, &m.vbo)
		gl.DeleteBuffers(1, &m.ebo)
		gl.DeleteVertexArrays(1, &m.vao)
	}
	for _, u := range r.uniforms {
		gl.DeleteBuffers(1, &u.ubo)
	}
	for _, tex := range r.textures {
		gl.DeleteTextures(1, &tex)
	}
	for _, p := range r.pipelines {
		gl.DeleteProgram(p.program)
	}
	r.meshes = map[core.Mesh]*meshGL{}
	r.uniforms = map[core.UniformBuffer]*uniformGL{}
	r.textures = map[core.Texture]uint32{}
	r.pipelines = map[core.Pipeline]*pipelineGL{}
}

func (r *RendererGL) Resize(w, h int) {
	gl.Viewport(0, 0, int32(w), int32(h))
}

func (r *RendererGL) Clear(rf, gf, bf, af float32) {
	gl.ClearColor(rf, gf, bf, af)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (r *RendererGL) CreatePipeline(desc core.PipelineDesc) (core.Pipeline, error) {
	topo, ok := glTopology(desc.Topology)
	if !ok {
		return 0, errors.Errorf("unsupported topology %v", desc.Topology)
	}
	prog, err := makeProgram(desc.VertexSource+"\x00", desc.FragmentSource+"\x00")
	if err != nil {
		return 0, err
	}

	if desc.UniformBlock != "" {
		idx := gl.GetUniformBlockIndex(prog, gl.Str(desc.UniformBlock+"\x00"))
		if idx == gl.INVALID_INDEX {
			gl.DeleteProgram(prog)
			return 0, errors.Errorf("uniform block %q not found", desc.UniformBlock)
		}
		gl.UniformBlockBinding(prog, idx, desc.UniformBinding)
	}
	if desc.TextureSampler != "" {
		loc := gl.GetUniformLocation(prog, gl.Str(desc.TextureSampler+"\x00"))
		if loc < 0 {
			core.LogWarn("sampler %q is not an active uniform", desc.TextureSampler)
		} else {
			gl.UseProgram(prog)
			gl.Uniform1i(loc, 0)
			gl.UseProgram(0)
		}
	}

	h := core.Pipeline(r.handle())
	r.pipelines[h] = &pipelineGL{program: prog, topology: topo, blend: desc.Blend}
	return h, nil
}

func (r *RendererGL) CreateMesh(desc core.MeshDesc) (core.Mesh, error) {
	idxType, ok := glIndexType(desc.IndexFormat)
	if !ok {
		return 0, errors.Errorf("unsupported index format %v", desc.IndexFormat)
	}
	m := &meshGL{indexType: idxType}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)
	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)

	stride := int32(desc.Layout.ArrayStride)
	for _, a := range desc.Layout.Attributes {
		n, typ, ok := glAttrib(a.Format)
		if !ok {
			gl.BindVertexArray(0)
			deleteMesh(m)
			return 0, errors.Errorf("unsupported vertex format %v at location %d", a.Format, a.ShaderLocation)
		}
		gl.EnableVertexAttribArray(a.ShaderLocation)
		gl.VertexAttribPointerWithOffset(a.ShaderLocation, n, typ, false, stride, uintptr(a.Offset))
	}
	gl.BindVertexArray(0)

	h := core.Mesh(r.handle())
	r.meshes[h] = m
	if err := r.UpdateMesh(h, desc.Vertices, desc.Indices, desc.IndexCount); err != nil {
		delete(r.meshes, h)
		deleteMesh(m)
		return 0, err
	}
	return h, nil
}

// UpdateMesh replaces the mesh contents. Buffers only grow; smaller uploads
// reuse the existing storage.
func (r *RendererGL) UpdateMesh(h core.Mesh, vertices, indices []byte, indexCount int) error {
	m, ok := r.meshes[h]
	if !ok {
		return errors.Errorf("unknown mesh %d", h)
	}
	gl.BindVertexArray(m.vao)
	m.vboSize = upload(gl.ARRAY_BUFFER, m.vbo, m.vboSize, vertices)
	m.eboSize = upload(gl.ELEMENT_ARRAY_BUFFER, m.ebo, m.eboSize, indices)
	gl.BindVertexArray(0)
	m.indexCount = int32(indexCount)
	return nil
}

// checkUniformData rejects payloads that cannot back a std140 block.
func checkUniformData(data []byte) error {
	if len(data) == 0 || len(data)%16 != 0 {
		return errors.Errorf("uniform data of %d bytes is not a multiple of 16", len(data))
	}
	return nil
}

func (r *RendererGL) CreateUniformBuffer(desc core.UniformBufferDesc) (core.UniformBuffer, error) {
	if err := checkUniformData(desc.Data); err != nil {
		return 0, err
	}
	u := &uniformGL{binding: desc.Binding}
	gl.GenBuffers(1, &u.ubo)
	h := core.UniformBuffer(r.handle())
	r.uniforms[h] = u
	if err := r.UpdateUniformBuffer(h, desc.Data); err != nil {
		delete(r.uniforms, h)
		gl.DeleteBuffers(1, &u.ubo)
		return 0, err
	}
	return h, nil
}

func (r *RendererGL) UpdateUniformBuffer(h core.UniformBuffer, data []byte) error {
	u, ok := r.uniforms[h]
	if !ok {
		return errors.Errorf("unknown uniform buffer %d", h)
	}
	if err := checkUniformData(data); err != nil {
		return err
	}
	u.size = upload(gl.UNIFORM_BUFFER, u.ubo, u.size, data)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	return nil
}

func (r *RendererGL) CreateTexture(desc core.TextureDesc) (core.Texture, error) {
	if desc.Format != core.TextureRGBA8 {
		return 0, errors.Errorf("unsupported texture format %d", desc.Format)
	}
	if desc.Width <= 0 || desc.Height <= 0 || len(desc.Pixels) != desc.Width*desc.Height*4 {
		return 0, errors.Errorf("texture %dx%d with %d bytes", desc.Width, desc.Height, len(desc.Pixels))
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, glFilter(desc.MinFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, glFilter(desc.MagFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, glWrap(desc.WrapU))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, glWrap(desc.WrapV))
	// Rows go up top-first so UV (0,0) samples the top-left texel.
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(desc.Width), int32(desc.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(desc.Pixels))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	h := core.Texture(r.handle())
	r.textures[h] = tex
	return h, nil
}

func (r *RendererGL) DeleteTexture(h core.Texture) {
	tex, ok := r.textures[h]
	if !ok {
		return
	}
	gl.DeleteTextures(1, &tex)
	delete(r.textures, h)
}

func (r *RendererGL) Draw(cmd core.DrawCmd) {
	p, ok := r.pipelines[cmd.Pipe]
	if !ok {
		return
	}
	m, ok := r.meshes[cmd.Mesh]
	if !ok {
		return
	}
	count := int32(cmd.IndexCount)
	if count > m.indexCount {
		count = m.indexCount
	}
	if count <= 0 {
		return
	}

	gl.UseProgram(p.program)
	if u, ok := r.uniforms[cmd.Uniform]; ok {
		gl.BindBufferBase(gl.UNIFORM_BUFFER, u.binding, u.ubo)
	}
	if tex, ok := r.textures[cmd.Texture]; ok {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, tex)
	}
	if p.blend {
		gl.Enable(gl.BLEND)
	}

	gl.BindVertexArray(m.vao)
	gl.DrawElements(p.topology, count, m.indexType, nil)
	gl.BindVertexArray(0)

	if p.blend {
		gl.Disable(gl.BLEND)
	}
	gl.UseProgram(0)
}

// upload writes data to buf, reallocating only when it does not fit.
// Returns the buffer's capacity afterwards.
func upload(target, buf uint32, capacity int, data []byte) int {
	gl.BindBuffer(target, buf)
	if len(data) == 0 {
		return capacity
	}
	if len(data) > capacity {
		gl.BufferData(target, len(data), gl.Ptr(data), gl.DYNAMIC_DRAW)
		return len(data)
	}
	gl.BufferSubData(target, 0, len(data), gl.Ptr(data))
	return capacity
}

func deleteMesh(m *meshGL) {
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
	gl.DeleteVertexArrays(1, &m.vao)
}

// --- Descriptor translation ---

func glTopology(t gputypes.PrimitiveTopology) (uint32, bool) {
	switch t {
	case gputypes.PrimitiveTopologyTriangleList:
		return gl.TRIANGLES, true
	case gputypes.PrimitiveTopologyTriangleStrip:
		return gl.TRIANGLE_STRIP, true
	case gputypes.PrimitiveTopologyLineList:
		return gl.LINES, true
	case gputypes.PrimitiveTopologyLineStrip:
		return gl.LINE_STRIP, true
	case gputypes.PrimitiveTopologyPointList:
		return gl.POINTS, true
	}
	return 0, false
}

func glIndexType(f gputypes.IndexFormat) (uint32, bool) {
	switch f {
	case gputypes.IndexFormatUint32:
		return gl.UNSIGNED_INT, true
	case gputypes.IndexFormatUint16:
		return gl.UNSIGNED_SHORT, true
	}
	return 0, false
}

// glAttrib returns the component count and GL type for a vertex format.
func glAttrib(f gputypes.VertexFormat) (int32, uint32, bool) {
	switch f {
	case gputypes.VertexFormatFloat32:
		return 1, gl.FLOAT, true
	case gputypes.VertexFormatFloat32x2:
		return 2, gl.FLOAT, true
	case gputypes.VertexFormatFloat32x3:
		return 3, gl.FLOAT, true
	case gputypes.VertexFormatFloat32x4:
		return 4, gl.FLOAT, true
	}
	return 0, 0, false
}

func glFilter(s string) int32 {
	if s == "linear" {
		return gl.LINEAR
	}
	return gl.NEAREST
}

func glWrap(s string) int32 {
	if s == "repeat" {
		return gl.REPEAT
	}
	return gl.CLAMP_TO_EDGE
}

// --- Shader utilities ---

func makeShader(src string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	defer free()
	gl.ShaderSource(sh, 1, csrc, nil)
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetShaderInfoLog(sh, logLen, nil, gl.Str(log))
		gl.DeleteShader(sh)
		return 0, errors.Errorf("shader compile error: %s", log)
	}
	return sh, nil
}

func makeProgram(vsSrc, fsSrc string) (uint32, error) {
	vs, err := makeShader(vsSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := makeShader(fsSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}
	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, errors.Errorf("program link error: %s", log)
	}
	return prog, nil
}

var _ core.Renderer = (*RendererGL)(nil)
