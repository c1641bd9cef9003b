package text

import (
	"sort"
	"unicode/utf8"

	"github.com/hubastard/glyphquad/engine/core"
	"github.com/hubastard/glyphquad/engine/gfx/renderer2d"
	"github.com/pkg/errors"
)

type GlyphEntry struct {
	Rune  rune
	Glyph renderer2d.GlyphID
}

// GlyphTable maps runes to atlas glyphs. It is built once from a reviewed
// list and is read-only afterwards. No two runes share a glyph.
type GlyphTable struct {
	glyphs   map[rune]renderer2d.GlyphID
	entries  []GlyphEntry // sorted by glyph
	fallback renderer2d.GlyphID
}

// NewGlyphTable validates entries. Repeating a rune or a glyph id is an
// error rather than a silent overwrite.
func NewGlyphTable(entries []GlyphEntry, fallback renderer2d.GlyphID) (*GlyphTable, error) {
	t := &GlyphTable{
		glyphs:   make(map[rune]renderer2d.GlyphID, len(entries)),
		entries:  make([]GlyphEntry, 0, len(entries)),
		fallback: fallback,
	}
	owner := make(map[renderer2d.GlyphID]rune, len(entries))
	for _, e := range entries {
		if prev, ok := t.glyphs[e.Rune]; ok {
			return nil, errors.Wrapf(core.ErrDuplicateGlyph, "rune %q mapped to %d and %d", e.Rune, prev, e.Glyph)
		}
		if r, ok := owner[e.Glyph]; ok {
			return nil, errors.Wrapf(core.ErrDuplicateGlyph, "glyph %d claimed by %q and %q", e.Glyph, r, e.Rune)
		}
		t.glyphs[e.Rune] = e.Glyph
		owner[e.Glyph] = e.Rune
		t.entries = append(t.entries, e)
	}
	sort.Slice(t.entries, func(i, j int) bool { return t.entries[i].Glyph < t.entries[j].Glyph })
	return t, nil
}

// GlyphTableFromSequence assigns glyph i to the i-th rune of seq.
func GlyphTableFromSequence(seq string, fallback renderer2d.GlyphID) (*GlyphTable, error) {
	entries := make([]GlyphEntry, 0, utf8.RuneCountInString(seq))
	for _, r := range seq {
		entries = append(entries, GlyphEntry{Rune: r, Glyph: renderer2d.GlyphID(len(entries))})
	}
	return NewGlyphTable(entries, fallback)
}

// GlyphTableFromMap builds a table from single-rune string keys, the shape
// used by the config file.
func GlyphTableFromMap(m map[string]uint32, fallback renderer2d.GlyphID) (*GlyphTable, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]GlyphEntry, 0, len(m))
	for _, k := range keys {
		r, size := utf8.DecodeRuneInString(k)
		if r == utf8.RuneError || size != len(k) {
			return nil, errors.Wrapf(core.ErrInvalidGlyph, "key %q is not a single rune", k)
		}
		entries = append(entries, GlyphEntry{Rune: r, Glyph: renderer2d.GlyphID(m[k])})
	}
	return NewGlyphTable(entries, fallback)
}

// DefaultLetterTable covers the 8x8 letter sheet: A-Z, a-z, then space.
func DefaultLetterTable() *GlyphTable {
	t, err := GlyphTableFromSequence(core.LetterSequence, 0)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup reports the glyph for r and whether the table has one.
func (t *GlyphTable) Lookup(r rune) (renderer2d.GlyphID, bool) {
	g, ok := t.glyphs[r]
	return g, ok
}

// Resolve never fails: runes outside the table get the fallback glyph.
func (t *GlyphTable) Resolve(r rune) renderer2d.GlyphID {
	if g, ok := t.glyphs[r]; ok {
		return g
	}
	return t.fallback
}

func (t *GlyphTable) Fallback() renderer2d.GlyphID { return t.fallback }
func (t *GlyphTable) Len() int                     { return len(t.entries) }

// Entries returns a copy of the table sorted by glyph id.
func (t *GlyphTable) Entries() []GlyphEntry {
	return append([]GlyphEntry(nil), t.entries...)
}

// Equal reports whether both tables map the same runes to the same glyphs
// with the same fallback.
func (t *GlyphTable) Equal(o *GlyphTable) bool {
	if t.fallback != o.fallback || len(t.entries) != len(o.entries) {
		return false
	}
	for i, e := range t.entries {
		if o.entries[i] != e {
			return false
		}
	}
	return true
}

// Validate checks that every glyph and the fallback fit in layout.
func (t *GlyphTable) Validate(layout renderer2d.AtlasLayout) error {
	if !layout.Contains(t.fallback) {
		return errors.Wrapf(core.ErrInvalidGlyph, "fallback %d outside %dx%d atlas", t.fallback, layout.Columns, layout.Rows)
	}
	for _, e := range t.entries {
		if !layout.Contains(e.Glyph) {
			return errors.Wrapf(core.ErrInvalidGlyph, "rune %q -> %d outside %dx%d atlas", e.Rune, e.Glyph, layout.Columns, layout.Rows)
		}
	}
	return nil
}
