package renderer2d

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
)

// Vertex: pos3 + uv2 => 5 floats, 20 bytes, no padding.
const (
	VertexStride = 5 * 4
	vertsPerQuad = 4
	indsPerQuad  = 6
)

// quadIndices splits a TL,BL,BR,TR quad along the BL-TR diagonal.
var quadIndices = [indsPerQuad]uint32{1, 3, 0, 1, 2, 3}

var (
	IndexFormat = gputypes.IndexFormatUint32
	Topology    = gputypes.PrimitiveTopologyTriangleList
)

// VertexLayout is the per-vertex attribute layout of Mesh.VertexBytes.
//
//	position (vec3<f32>) = 12 bytes (location 0)
//	uv       (vec2<f32>) =  8 bytes (location 1)
func VertexLayout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: VertexStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},  // position
			{Format: gputypes.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1}, // uv
		},
	}
}

// QuadDescriptor places one glyph. Position is the top-left corner in a
// Y-up world; the quad extends Size.X right and Size.Y down from it.
type QuadDescriptor struct {
	Position mgl32.Vec3
	Size     mgl32.Vec2
	Glyph    GlyphID
}

type Vertex struct {
	Position mgl32.Vec3
	UV       mgl32.Vec2
}

// Mesh holds 4 vertices and 6 indices per quad.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

func (m Mesh) QuadCount() int  { return len(m.Vertices) / vertsPerQuad }
func (m Mesh) IndexCount() int { return len(m.Indices) }

// BuildMesh converts quads into one vertex/index pair, quad i occupying
// vertices [4i, 4i+4) and indices [6i, 6i+6). It is a pure function of its
// inputs. Zero or negative sizes produce degenerate quads, not errors.
func BuildMesh(quads []QuadDescriptor, atlas *AtlasIndex) Mesh {
	if len(quads) == 0 {
		return Mesh{}
	}
	m := Mesh{
		Vertices: make([]Vertex, 0, len(quads)*vertsPerQuad),
		Indices:  make([]uint32, 0, len(quads)*indsPerQuad),
	}
	for i, q := range quads {
		uv := atlas.Lookup(q.Glyph).Corners()
		pos := quadCorners(q)
		for c := range pos {
			m.Vertices = append(m.Vertices, Vertex{Position: pos[c], UV: uv[c]})
		}
		base := uint32(i * vertsPerQuad)
		for _, idx := range quadIndices {
			m.Indices = append(m.Indices, base+idx)
		}
	}
	return m
}

// quadCorners returns TL, BL, BR, TR.
func quadCorners(q QuadDescriptor) [4]mgl32.Vec3 {
	x, y, z := q.Position.X(), q.Position.Y(), q.Position.Z()
	x2, y2 := x+q.Size.X(), y-q.Size.Y()
	return [4]mgl32.Vec3{
		{x, y, z},
		{x, y2, z},
		{x2, y2, z},
		{x2, y, z},
	}
}

// VertexBytes serializes the vertices little-endian per VertexLayout.
func (m Mesh) VertexBytes() []byte {
	if len(m.Vertices) == 0 {
		return nil
	}
	data := make([]byte, len(m.Vertices)*VertexStride)
	off := 0
	for _, v := range m.Vertices {
		for _, f := range [5]float32{v.Position[0], v.Position[1], v.Position[2], v.UV[0], v.UV[1]} {
			binary.LittleEndian.PutUint32(data[off:], math.Float32bits(f))
			off += 4
		}
	}
	return data
}

// IndexBytes serializes the indices as little-endian uint32.
func (m Mesh) IndexBytes() []byte {
	if len(m.Indices) == 0 {
		return nil
	}
	data := make([]byte, len(m.Indices)*4)
	for i, idx := range m.Indices {
		binary.LittleEndian.PutUint32(data[i*4:], idx)
	}
	return data
}
