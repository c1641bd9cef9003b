package core

// Input is the per-frame keyboard and mouse state fed by window events.
type Input struct {
	keys           map[Key]bool
	buttons        map[MouseButton]bool
	mouseX, mouseY float64
	prevX, prevY   float64
	seenMouse      bool
}

func NewInput() *Input {
	return &Input{keys: map[Key]bool{}, buttons: map[MouseButton]bool{}}
}

func (in *Input) Handle(ev Event) {
	switch e := ev.(type) {
	case EventKey:
		in.keys[e.Key] = e.Down
	case EventMouseButton:
		in.buttons[e.Button] = e.Down
	case EventMouseMove:
		if !in.seenMouse {
			in.prevX, in.prevY = e.X, e.Y
			in.seenMouse = true
		}
		in.mouseX, in.mouseY = e.X, e.Y
	}
}

func (in *Input) IsKeyDown(k Key) bool            { return in.keys[k] }
func (in *Input) IsButtonDown(b MouseButton) bool { return in.buttons[b] }
func (in *Input) Mouse() (float64, float64)       { return in.mouseX, in.mouseY }
func (in *Input) MouseDelta() (dx, dy float64)    { return in.mouseX - in.prevX, in.mouseY - in.prevY }

// EndFrame latches the mouse position so the next MouseDelta is relative to it.
func (in *Input) EndFrame() { in.prevX, in.prevY = in.mouseX, in.mouseY }
