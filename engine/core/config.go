package core

import (
	"bytes"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hubastard/glyphquad/engine/colors"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Config for the engine run. Zero values are replaced by DefaultConfig when
// loaded through LoadConfig.
type Config struct {
	Title      string       `toml:"title"`
	Width      int          `toml:"width"`
	Height     int          `toml:"height"`
	VSync      bool         `toml:"vsync"`
	ClearColor colors.Color `toml:"clear_color"`
	LogLevel   string       `toml:"log_level"`

	Atlas  AtlasConfig  `toml:"atlas"`
	Glyphs GlyphConfig  `toml:"glyphs"`
	Text   TextConfig   `toml:"text"`
	Camera CameraConfig `toml:"camera"`
}

type AtlasConfig struct {
	Columns uint32 `toml:"columns"`
	Rows    uint32 `toml:"rows"`
	// Fallback is the cell used for runes missing from the glyph table and
	// for glyph ids outside the grid.
	Fallback uint32 `toml:"fallback"`
	// Image is an atlas image path. When empty the atlas is baked from the
	// built-in monospace font at CellPx pixels per cell.
	Image  string `toml:"image"`
	CellPx int    `toml:"cell_px"`
}

// GlyphConfig describes the rune -> glyph id table. A non-empty Map takes
// precedence over Sequence.
type GlyphConfig struct {
	Sequence string            `toml:"sequence"`
	Map      map[string]uint32 `toml:"map"`
}

type TextConfig struct {
	Content    string     `toml:"content"`
	Origin     [3]float32 `toml:"origin"`
	Cell       [2]float32 `toml:"cell"`
	Advance    float32    `toml:"advance"`
	LineHeight float32    `toml:"line_height"`
	// Center places the block in the middle of the viewport and ignores
	// Origin's X and Y.
	Center bool `toml:"center"`
}

type CameraConfig struct {
	MoveSpeed float32 `toml:"move_speed"` // world units per second
}

// MaxAtlasDimension bounds atlas columns and rows so the cell count fits
// comfortably in a uint32.
const MaxAtlasDimension = 4096

// LetterSequence is the glyph order of the 8x8 letter sheet.
const LetterSequence = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz "

func DefaultConfig() Config {
	return Config{
		Title:      "glyphquad",
		Width:      800,
		Height:     600,
		VSync:      true,
		ClearColor: colors.Slate,
		LogLevel:   "info",
		Atlas: AtlasConfig{
			Columns: 8,
			Rows:    8,
			CellPx:  32,
		},
		Glyphs: GlyphConfig{Sequence: LetterSequence},
		Text: TextConfig{
			Content:    "Hello glyph quads\nWASD to pan",
			Origin:     [3]float32{40, 560, 0},
			Cell:       [2]float32{32, 32},
			Advance:    32,
			LineHeight: 40,
		},
		Camera: CameraConfig{MoveSpeed: 240},
	}
}

// LoadConfig overlays the TOML file at path on DefaultConfig and validates
// the result. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %q", path)
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, errors.Wrapf(ErrInvalidConfig, "decode %q: %v", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "window size %dx%d", c.Width, c.Height)
	}
	if c.Atlas.Columns == 0 || c.Atlas.Rows == 0 ||
		c.Atlas.Columns > MaxAtlasDimension || c.Atlas.Rows > MaxAtlasDimension {
		return errors.Wrapf(ErrInvalidConfig, "atlas grid %dx%d", c.Atlas.Columns, c.Atlas.Rows)
	}
	if c.Atlas.Fallback >= c.Atlas.Columns*c.Atlas.Rows {
		return errors.Wrapf(ErrInvalidConfig, "atlas fallback %d outside %dx%d grid", c.Atlas.Fallback, c.Atlas.Columns, c.Atlas.Rows)
	}
	if c.Atlas.Image == "" && c.Atlas.CellPx <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "atlas cell_px %d", c.Atlas.CellPx)
	}
	if len(c.Glyphs.Map) == 0 && c.Glyphs.Sequence == "" {
		return errors.Wrap(ErrInvalidConfig, "glyph table is empty")
	}
	if c.Camera.MoveSpeed < 0 {
		return errors.Wrapf(ErrInvalidConfig, "camera move_speed %v", c.Camera.MoveSpeed)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "log_level %q", c.LogLevel)
	}
	return nil
}
