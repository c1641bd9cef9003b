package app

import (
	"image"
	"os"

	"github.com/hubastard/glyphquad/engine/assets"
	"github.com/hubastard/glyphquad/engine/core"
	"github.com/hubastard/glyphquad/engine/gfx/renderer2d"
	"github.com/hubastard/glyphquad/engine/text"
	"github.com/pkg/errors"
)

// ResolveConfig picks the config file. An explicit path must load; the
// default path is optional and missing means built-in defaults. The returned
// path is the file to watch, empty when running on defaults.
func ResolveConfig(path string, explicit bool) (core.Config, string, error) {
	if !explicit {
		if _, err := os.Stat(path); err != nil {
			core.LogInfo("no %s, using defaults", path)
			return core.DefaultConfig(), "", nil
		}
	}
	cfg, err := core.LoadConfig(path)
	if err != nil {
		return cfg, "", err
	}
	return cfg, path, nil
}

// BuildGlyphTable builds the rune table from the config. A non-empty map
// wins over the sequence.
func BuildGlyphTable(cfg core.Config) (*text.GlyphTable, error) {
	fallback := renderer2d.GlyphID(cfg.Atlas.Fallback)
	if len(cfg.Glyphs.Map) > 0 {
		return text.GlyphTableFromMap(cfg.Glyphs.Map, fallback)
	}
	return text.GlyphTableFromSequence(cfg.Glyphs.Sequence, fallback)
}

// LoadAtlas reads the configured atlas image, or bakes one from the built-in
// font when none is set. An image that does not split evenly into the
// configured grid is rejected.
func LoadAtlas(cfg core.Config, table *text.GlyphTable) (*image.RGBA, renderer2d.AtlasLayout, error) {
	layout, err := renderer2d.NewAtlasLayout(cfg.Atlas.Columns, cfg.Atlas.Rows)
	if err != nil {
		return nil, layout, err
	}
	if err := table.Validate(layout); err != nil {
		return nil, layout, err
	}
	if cfg.Atlas.Image == "" {
		img, err := text.BakeGridAtlas(text.DefaultFont, table, layout, cfg.Atlas.CellPx)
		return img, layout, err
	}

	img, err := assets.LoadImage(cfg.Atlas.Image)
	if err != nil {
		return nil, layout, err
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	fromPixels, err := renderer2d.AtlasLayoutFromPixels(w, h, w/int(layout.Columns), h/int(layout.Rows))
	if err != nil {
		return nil, layout, errors.Wrapf(err, "atlas %s for a %dx%d grid", cfg.Atlas.Image, layout.Columns, layout.Rows)
	}
	if fromPixels != layout {
		return nil, layout, errors.Wrapf(core.ErrInvalidAtlasLayout, "atlas %s splits into %dx%d cells, config says %dx%d",
			cfg.Atlas.Image, fromPixels.Columns, fromPixels.Rows, layout.Columns, layout.Rows)
	}
	return img, layout, nil
}
