package app

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/glyphquad/engine/assets"
	"github.com/hubastard/glyphquad/engine/core"
	"github.com/hubastard/glyphquad/engine/gfx/renderer2d"
	"github.com/hubastard/glyphquad/engine/scene"
	"github.com/hubastard/glyphquad/engine/text"
	"github.com/pkg/errors"
)

// LayerText draws the configured text as glyph quads and pans over it.
type LayerText struct {
	Config         core.Config
	VertexSource   string
	FragmentSource string

	rend  core.Renderer
	cam   scene.OrthoCamera2D
	ctrl  scene.OrthoController2D
	r2d   *renderer2d.Renderer2D
	table *text.GlyphTable
	atlas *renderer2d.AtlasIndex
	tex   core.Texture
}

func (l *LayerText) OnAttach(e *core.Engine) error {
	l.rend = e.Renderer
	w, h := e.Window.FramebufferSize()
	cam, err := scene.NewOrtho2D(float32(w), float32(h))
	if err != nil {
		return err
	}
	l.cam = cam
	l.ctrl = scene.NewOrthoController2D(l.Config.Camera.MoveSpeed)

	l.table, err = BuildGlyphTable(l.Config)
	if err != nil {
		return err
	}
	img, layout, err := LoadAtlas(l.Config, l.table)
	if err != nil {
		return err
	}
	l.atlas, err = renderer2d.NewAtlasIndex(layout, renderer2d.GlyphID(l.Config.Atlas.Fallback))
	if err != nil {
		return err
	}
	l.tex, err = l.createTexture(img)
	if err != nil {
		return err
	}

	l.r2d, err = renderer2d.New(e.Renderer, renderer2d.Options{
		VertexSource:   l.VertexSource,
		FragmentSource: l.FragmentSource,
		Atlas:          l.atlas,
		AtlasTexture:   l.tex,
		UniformLayout:  renderer2d.LayoutViewProjectionPosition,
	})
	if err != nil {
		return err
	}

	l.relayout()
	core.LogInfo("atlas %dx%d cells, %d glyphs mapped", layout.Columns, layout.Rows, l.table.Len())
	return nil
}

func (l *LayerText) OnDetach(e *core.Engine) {}

// Renderer exposes the quad renderer for overlays that report its stats.
func (l *LayerText) Renderer() *renderer2d.Renderer2D { return l.r2d }

// Reload applies a new config. Text, glyph table and camera speed take effect
// immediately; a baked atlas is re-baked when the glyph table changed.
// Atlas settings need a restart and are kept as they were.
func (l *LayerText) Reload(cfg core.Config) error {
	if cfg.Atlas != l.Config.Atlas {
		core.LogWarn("atlas settings changed; restart to apply")
		cfg.Atlas = l.Config.Atlas
	}
	table, err := BuildGlyphTable(cfg)
	if err != nil {
		return err
	}
	if err := table.Validate(l.atlas.Layout()); err != nil {
		return err
	}

	if cfg.Atlas.Image == "" && !table.Equal(l.table) {
		img, err := text.BakeGridAtlas(text.DefaultFont, table, l.atlas.Layout(), cfg.Atlas.CellPx)
		if err != nil {
			return err
		}
		tex, err := l.createTexture(img)
		if err != nil {
			return err
		}
		if err := l.r2d.SetAtlas(l.atlas, tex); err != nil {
			l.rend.DeleteTexture(tex)
			return err
		}
		l.rend.DeleteTexture(l.tex)
		l.tex = tex
		core.LogDebug("re-baked atlas for %d glyphs", table.Len())
	}

	l.Config = cfg
	l.table = table
	l.ctrl.MoveSpeed = cfg.Camera.MoveSpeed
	l.relayout()
	return nil
}

func (l *LayerText) OnUpdate(e *core.Engine, dt float64) {
	if e.Input.IsKeyDown(core.KeyEscape) {
		e.Window.RequestClose()
	}
	if e.Input.IsKeyDown(core.KeyR) {
		l.cam.SetPosition(0, 0)
	}
	l.cam = l.ctrl.Step(l.cam, e.Input, float32(dt))
}

func (l *LayerText) OnRender(e *core.Engine, alpha float64) {
	if l.cam.Dirty() {
		l.r2d.SetCamera(l.cam.Uniform())
		l.cam.MarkClean()
	}
	if err := l.r2d.Render(); err != nil {
		core.LogError("render: %v", err)
	}
}

func (l *LayerText) OnEvent(e *core.Engine, ev core.Event) bool {
	if v, ok := ev.(core.EventResize); ok {
		if l.cam.SetViewportPixels(v.W, v.H) && l.Config.Text.Center {
			l.relayout()
		}
	}
	return false
}

// layoutOptions maps the text config onto layout options, centring the block
// in the current viewport when asked to.
func (l *LayerText) layoutOptions() text.LayoutOptions {
	t := l.Config.Text
	opts := text.LayoutOptions{
		Origin:     mgl32.Vec3(t.Origin),
		Cell:       mgl32.Vec2(t.Cell),
		Advance:    t.Advance,
		LineHeight: t.LineHeight,
	}
	if t.Center {
		w, h := text.Measure(t.Content, opts)
		opts.Origin[0] = (l.cam.Width() - w) / 2
		opts.Origin[1] = (l.cam.Height() + h) / 2
	}
	return opts
}

func (l *LayerText) relayout() {
	l.r2d.SetQuads(text.Layout(l.Config.Text.Content, l.table, l.layoutOptions()))
}

func (l *LayerText) createTexture(img *image.RGBA) (core.Texture, error) {
	tex, err := l.rend.CreateTexture(core.TextureDesc{
		Width:     img.Bounds().Dx(),
		Height:    img.Bounds().Dy(),
		Format:    core.TextureRGBA8,
		Pixels:    assets.Pixels(img),
		MinFilter: "linear",
		MagFilter: "nearest",
		WrapU:     "clamp",
		WrapV:     "clamp",
	})
	return tex, errors.Wrap(err, "atlas texture")
}
