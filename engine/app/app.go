package app

import (
	"github.com/hubastard/glyphquad/engine/assets"
	"github.com/hubastard/glyphquad/engine/core"
)

// App runs the text layer with a stats overlay and reloads the config file
// when it changes on disk.
type App struct {
	cfgPath string
	cfg     core.Config
	watcher *assets.Watcher
	text    *LayerText
	stats   *LayerStats
}

// New creates the app. cfgPath is the file to watch; empty disables reload.
func New(cfg core.Config, cfgPath string) *App {
	return &App{cfg: cfg, cfgPath: cfgPath}
}

func (a *App) OnStart(e *core.Engine) error {
	if a.cfgPath != "" {
		w, err := assets.NewWatcher(a.cfgPath)
		if err != nil {
			// Hot reload is a convenience; run without it.
			core.LogWarn("config reload disabled: %v", err)
		} else {
			a.watcher = w
		}
	}

	vs, err := assets.LoadShader("text.vert")
	if err != nil {
		return err
	}
	fs, err := assets.LoadShader("text.frag")
	if err != nil {
		return err
	}

	a.text = &LayerText{Config: a.cfg, VertexSource: vs, FragmentSource: fs}
	if err := a.text.OnAttach(e); err != nil {
		return err
	}
	e.Layers.Push(a.text)

	a.stats = &LayerStats{Title: a.cfg.Title, r2d: a.text.Renderer()}
	if err := a.stats.OnAttach(e); err != nil {
		return err
	}
	e.Layers.Push(a.stats)
	return nil
}

func (a *App) OnUpdate(e *core.Engine, dt float64) {
	if a.watcher == nil {
		return
	}
	select {
	case path := <-a.watcher.Changes():
		if err := a.reload(path); err != nil {
			core.LogError("reload %s: %v", path, err)
			return
		}
		core.LogInfo("reloaded %s", path)
	case err := <-a.watcher.Errors():
		core.LogWarn("config watcher: %v", err)
	default:
	}
}

// reload loads path and applies it. A config that fails to load or apply
// leaves the running state untouched.
func (a *App) reload(path string) error {
	cfg, err := core.LoadConfig(path)
	if err != nil {
		return err
	}
	if err := a.text.Reload(cfg); err != nil {
		return err
	}
	if err := core.SetLogLevel(cfg.LogLevel); err != nil {
		return err
	}
	a.cfg = cfg
	a.stats.Title = cfg.Title
	return nil
}

func (a *App) OnRender(e *core.Engine, alpha float64) {}
func (a *App) OnEvent(e *core.Engine, ev core.Event)  {}

func (a *App) OnShutdown(e *core.Engine) {
	if a.watcher != nil {
		a.watcher.Close()
	}
}
