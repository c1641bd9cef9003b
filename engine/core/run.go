package core

import (
	"runtime"
	"time"
)

// Run wires the platform window + renderer and executes the main loop.
// Everything the app touches runs on this goroutine.
func Run(app App, cfg Config, newWindow func(Config) (Window, error), newRenderer func(Window, Config) (Renderer, error)) error {
	// Graphics contexts require the main OS thread.
	runtime.LockOSThread()

	win, err := newWindow(cfg)
	if err != nil {
		return err
	}

	rend, err := newRenderer(win, cfg)
	if err != nil {
		return err
	}
	defer rend.Shutdown()

	w, h := win.FramebufferSize()
	rend.Resize(w, h)

	eng := &Engine{Window: win, Renderer: rend, Input: NewInput(), start: time.Now()}
	win.SetEventCallback(func(ev Event) { dispatch(eng, app, ev) })

	if err := app.OnStart(eng); err != nil {
		return err
	}

	// Fixed-timestep (60 Hz) with interpolation
	const tick = time.Second / 60
	var (
		accum   time.Duration
		prev    = time.Now()
		clear   = cfg.ClearColor
		maxStep = 10 // prevent spiral of death
	)

	for !win.ShouldClose() {
		now := time.Now()
		accum += now.Sub(prev)
		prev = now

		// Poll OS events (platform will emit via callbacks)
		win.PollEvents()

		steps := 0
		for accum >= tick && steps < maxStep {
			dt := float64(tick) / float64(time.Second)
			app.OnUpdate(eng, dt)
			eng.Layers.ForEach(func(l Layer) { l.OnUpdate(eng, dt) })
			eng.Input.EndFrame()
			accum -= tick
			steps++
		}
		alpha := float64(accum) / float64(tick)

		rend.Clear(clear[0], clear[1], clear[2], clear[3])
		app.OnRender(eng, alpha)
		eng.Layers.ForEach(func(l Layer) { l.OnRender(eng, alpha) })

		win.SwapBuffers()
	}

	eng.Layers.ForEachReverse(func(l Layer) bool {
		l.OnDetach(eng)
		return false
	})
	app.OnShutdown(eng)
	LogInfo("engine exit after %s", eng.Uptime().Round(time.Millisecond))
	return nil
}

func dispatch(eng *Engine, app App, ev Event) {
	eng.Input.Handle(ev)
	switch v := ev.(type) {
	case EventCloseRequested:
		eng.Window.RequestClose()
	case EventResize:
		// Minimised windows report 0x0; keep the last usable size.
		if v.W < 1 || v.H < 1 {
			return
		}
		eng.Renderer.Resize(v.W, v.H)
	}
	app.OnEvent(eng, ev)
	eng.Layers.ForEachReverse(func(l Layer) bool { return l.OnEvent(eng, ev) })
}
