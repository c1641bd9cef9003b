package renderer2d

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// UniformLayout selects the byte layout of the camera record. The layout
// must match the uniform block declared by the consuming shader and never
// changes once a shader is written against it.
type UniformLayout int

const (
	// LayoutViewProjection is view_proj (mat4x4<f32>) = 64 bytes.
	LayoutViewProjection UniformLayout = iota
	// LayoutViewProjectionPosition is view_proj (mat4x4<f32>) = 64 bytes +
	// position (vec2<f32>) = 8 bytes + padding (vec2<f32>) = 8 bytes = 80 bytes.
	LayoutViewProjectionPosition
)

const (
	matrixBytes   = 16 * 4
	positionBytes = 2 * 4
	paddingBytes  = 2 * 4
)

// Size is the record size in bytes, always a multiple of 16.
func (l UniformLayout) Size() int {
	switch l {
	case LayoutViewProjectionPosition:
		return matrixBytes + positionBytes + paddingBytes
	default:
		return matrixBytes
	}
}

func (l UniformLayout) String() string {
	switch l {
	case LayoutViewProjection:
		return "view_proj"
	case LayoutViewProjectionPosition:
		return "view_proj+position"
	default:
		return "unknown"
	}
}

// CameraUniform is the camera record read by the vertex stage.
type CameraUniform struct {
	ViewProjection mgl32.Mat4
	Position       mgl32.Vec2
}

func NewCameraUniform() CameraUniform {
	return CameraUniform{ViewProjection: mgl32.Ident4()}
}

// Pack writes the record column-major, little-endian. Position is dropped
// by LayoutViewProjection; padding is always zero.
func (u CameraUniform) Pack(layout UniformLayout) []byte {
	buf := make([]byte, layout.Size())
	off := 0
	for _, v := range u.ViewProjection {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
		off += 4
	}
	if layout == LayoutViewProjectionPosition {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(u.Position.X()))
		binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(u.Position.Y()))
		// padding stays zero
	}
	return buf
}
