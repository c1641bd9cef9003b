package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/glyphquad/engine/core"
	"github.com/hubastard/glyphquad/engine/gfx/renderer2d"
	"github.com/pkg/errors"
)

// DepthCorrection remaps clip-space depth from [-1,1] to [0,1]: identity on
// X and Y, z' = 0.5z + 0.5w. Column-major.
var DepthCorrection = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// OrthoCamera2D maps the world window [0,width] x [0,height] onto the
// viewport. The offset set by Move is not part of the projection; it is
// carried in the camera uniform and subtracted by the vertex shader.
type OrthoCamera2D struct {
	width, height float32
	x, y          float32
	dirty         bool
}

func NewOrtho2D(width, height float32) (OrthoCamera2D, error) {
	if !(width > 0) || !(height > 0) {
		return OrthoCamera2D{}, errors.Wrapf(core.ErrInvalidViewport, "%vx%v", width, height)
	}
	return OrthoCamera2D{width: width, height: height, dirty: true}, nil
}

func (c *OrthoCamera2D) Width() float32  { return c.width }
func (c *OrthoCamera2D) Height() float32 { return c.height }

// Position is the pan offset in world units.
func (c *OrthoCamera2D) Position() mgl32.Vec2 { return mgl32.Vec2{c.x, c.y} }

// SetViewportPixels follows a framebuffer resize. Non-positive sizes
// (minimised windows) are ignored. It reports whether the extent changed.
func (c *OrthoCamera2D) SetViewportPixels(w, h int) bool {
	if w <= 0 || h <= 0 {
		return false
	}
	fw, fh := float32(w), float32(h)
	if fw == c.width && fh == c.height {
		return false
	}
	c.width, c.height = fw, fh
	c.dirty = true
	return true
}

// Move adds (dx, dy) to the pan offset.
func (c *OrthoCamera2D) Move(dx, dy float32) {
	if dx == 0 && dy == 0 {
		return
	}
	c.x += dx
	c.y += dy
	c.dirty = true
}

func (c *OrthoCamera2D) SetPosition(x, y float32) {
	if x == c.x && y == c.y {
		return
	}
	c.x, c.y = x, y
	c.dirty = true
}

// Dirty reports whether the camera changed since the last MarkClean, i.e.
// whether its uniform must be rebuilt and uploaded.
func (c *OrthoCamera2D) Dirty() bool { return c.dirty }
func (c *OrthoCamera2D) MarkClean()  { c.dirty = false }

// ViewProjection builds the projection from the current extent. It is
// recomputed on every call.
func (c *OrthoCamera2D) ViewProjection() mgl32.Mat4 {
	ortho := mgl32.Ortho(0, c.width, 0, c.height, -1, 1)
	return DepthCorrection.Mul4(ortho)
}

// Uniform packs the camera state for the vertex stage.
func (c *OrthoCamera2D) Uniform() renderer2d.CameraUniform {
	return renderer2d.CameraUniform{
		ViewProjection: c.ViewProjection(),
		Position:       c.Position(),
	}
}

// ScreenToWorld converts window pixels (origin top-left, Y down) to world
// coordinates (origin bottom-left, Y up) including the pan offset.
func (c *OrthoCamera2D) ScreenToWorld(px, py float64) mgl32.Vec2 {
	return mgl32.Vec2{float32(px) + c.x, c.height - float32(py) + c.y}
}
