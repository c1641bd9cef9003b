package main

import (
	"flag"

	"github.com/hubastard/glyphquad/engine/app"
	"github.com/hubastard/glyphquad/engine/assets"
	"github.com/hubastard/glyphquad/engine/core"
	glbackend "github.com/hubastard/glyphquad/engine/gfx/gl"
	"github.com/hubastard/glyphquad/engine/platform"
)

const defaultConfigPath = "glyphquad.toml"

func main() {
	cfgFlag := flag.String("config", defaultConfigPath, "path to the TOML config file")
	shaders := flag.String("shaders", assets.ShaderDir, "directory holding text.vert and text.frag")
	flag.Parse()

	explicit := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicit = true
		}
	})
	assets.ShaderDir = *shaders

	cfg, path, err := app.ResolveConfig(*cfgFlag, explicit)
	if err != nil {
		core.LogFatal("config: %v", err)
	}
	if err := core.SetLogLevel(cfg.LogLevel); err != nil {
		core.LogFatal("config: %v", err)
	}

	var win *platform.GLFWWindow
	newWindow := func(cfg core.Config) (core.Window, error) {
		w, err := platform.NewGLFWWindow(cfg, nil)
		if err != nil {
			return nil, err
		}
		win = w
		return w, nil
	}
	newRenderer := func(win core.Window, cfg core.Config) (core.Renderer, error) {
		return glbackend.NewRendererGL(win, cfg)
	}

	err = core.Run(app.New(cfg, path), cfg, newWindow, newRenderer)
	if win != nil {
		win.Destroy()
	}
	if err != nil {
		core.LogFatal("%v", err)
	}
}
