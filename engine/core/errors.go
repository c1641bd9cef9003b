package core

import "github.com/pkg/errors"

var (
	ErrInvalidAtlasLayout = errors.New("atlas layout must have at least one column and one row")
	ErrInvalidViewport    = errors.New("viewport width and height must be positive")
	ErrDuplicateGlyph     = errors.New("duplicate glyph mapping")
	ErrInvalidGlyph       = errors.New("invalid glyph")
	ErrInvalidConfig      = errors.New("invalid config")
)
