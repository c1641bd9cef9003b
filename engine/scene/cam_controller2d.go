package scene

import "github.com/hubastard/glyphquad/engine/core"

// OrthoController2D pans with WASD / arrow keys and left-button drag.
type OrthoController2D struct {
	MoveSpeed float32 // world units per second
}

func NewOrthoController2D(moveSpeed float32) OrthoController2D {
	return OrthoController2D{MoveSpeed: moveSpeed}
}

// Step returns cam advanced by dt seconds of input. cam itself is not
// modified.
func (cc OrthoController2D) Step(cam OrthoCamera2D, in *core.Input, dt float32) OrthoCamera2D {
	speed := cc.MoveSpeed * dt
	var dx, dy float32

	if in.IsKeyDown(core.KeyW) || in.IsKeyDown(core.KeyUp) {
		dy += speed
	}
	if in.IsKeyDown(core.KeyS) || in.IsKeyDown(core.KeyDown) {
		dy -= speed
	}
	if in.IsKeyDown(core.KeyA) || in.IsKeyDown(core.KeyLeft) {
		dx -= speed
	}
	if in.IsKeyDown(core.KeyD) || in.IsKeyDown(core.KeyRight) {
		dx += speed
	}

	// Dragging keeps the world point under the cursor fixed.
	if in.IsButtonDown(core.MouseLeft) {
		mx, my := in.Mouse()
		ddx, ddy := in.MouseDelta()
		grab := cam.ScreenToWorld(mx-ddx, my-ddy)
		now := cam.ScreenToWorld(mx, my)
		dx += grab.X() - now.X()
		dy += grab.Y() - now.Y()
	}

	cam.Move(dx, dy)
	return cam
}
