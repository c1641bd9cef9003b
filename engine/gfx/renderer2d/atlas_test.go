package renderer2d

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/glyphquad/engine/core"
)

func TestNewAtlasLayoutRejectsBadGrid(t *testing.T) {
	for _, tt := range []struct{ c, r uint32 }{{0, 8}, {8, 0}, {0, 0}, {4097, 1}, {1, 4097}, {1 << 16, 1 << 16}} {
		if _, err := NewAtlasLayout(tt.c, tt.r); !errors.Is(err, core.ErrInvalidAtlasLayout) {
			t.Errorf("NewAtlasLayout(%d, %d) err = %v, want ErrInvalidAtlasLayout", tt.c, tt.r, err)
		}
	}
}

func TestNewAtlasLayoutAcceptsMaxGrid(t *testing.T) {
	l, err := NewAtlasLayout(core.MaxAtlasDimension, core.MaxAtlasDimension)
	if err != nil {
		t.Fatal(err)
	}
	if l.Cells() != core.MaxAtlasDimension*core.MaxAtlasDimension {
		t.Errorf("Cells() = %d", l.Cells())
	}
}

func TestGlyphToUVRect(t *testing.T) {
	layout := AtlasLayout{Columns: 8, Rows: 8}
	tests := []struct {
		name  string
		glyph GlyphID
		want  UVRect
	}{
		{
			name:  "first cell",
			glyph: 0,
			want: UVRect{
				TopLeft:     mgl32.Vec2{0, 0},
				BottomLeft:  mgl32.Vec2{0, 0.125},
				BottomRight: mgl32.Vec2{0.125, 0.125},
				TopRight:    mgl32.Vec2{0.125, 0},
			},
		},
		{
			name:  "row 1 col 1",
			glyph: 9,
			want: UVRect{
				TopLeft:     mgl32.Vec2{0.125, 0.125},
				BottomLeft:  mgl32.Vec2{0.125, 0.25},
				BottomRight: mgl32.Vec2{0.25, 0.25},
				TopRight:    mgl32.Vec2{0.25, 0.125},
			},
		},
		{
			name:  "last cell",
			glyph: 63,
			want: UVRect{
				TopLeft:     mgl32.Vec2{0.875, 0.875},
				BottomLeft:  mgl32.Vec2{0.875, 1},
				BottomRight: mgl32.Vec2{1, 1},
				TopRight:    mgl32.Vec2{1, 0.875},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := GlyphToUVRect(tt.glyph, layout)
			if !ok {
				t.Fatalf("glyph %d reported outside the grid", tt.glyph)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestGlyphToUVRectNonSquareGrid(t *testing.T) {
	// 4 columns x 2 rows: glyph 5 is row 1, column 1.
	got, ok := GlyphToUVRect(5, AtlasLayout{Columns: 4, Rows: 2})
	if !ok {
		t.Fatal("glyph 5 reported outside 4x2 grid")
	}
	if want := (mgl32.Vec2{0.25, 0.5}); got.TopLeft != want {
		t.Errorf("TopLeft = %v, want %v", got.TopLeft, want)
	}
	if want := (mgl32.Vec2{0.5, 1}); got.BottomRight != want {
		t.Errorf("BottomRight = %v, want %v", got.BottomRight, want)
	}
}

func TestGlyphToUVRectTotalOverGrid(t *testing.T) {
	layout := AtlasLayout{Columns: 8, Rows: 8}
	for g := GlyphID(0); g < 64; g++ {
		r, ok := GlyphToUVRect(g, layout)
		if !ok {
			t.Fatalf("glyph %d not resolved", g)
		}
		for _, c := range r.Corners() {
			if c.X() < 0 || c.X() > 1 || c.Y() < 0 || c.Y() > 1 {
				t.Fatalf("glyph %d corner %v outside [0,1]", g, c)
			}
		}
	}
	if _, ok := GlyphToUVRect(64, layout); ok {
		t.Error("glyph 64 should be outside an 8x8 grid")
	}
}

func TestAtlasIndexFallback(t *testing.T) {
	layout := AtlasLayout{Columns: 8, Rows: 8}
	idx, err := NewAtlasIndex(layout, 52)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := GlyphToUVRect(52, layout)
	for _, g := range []GlyphID{64, 1000, ^GlyphID(0)} {
		if got := idx.Lookup(g); got != want {
			t.Errorf("Lookup(%d) = %+v, want fallback %+v", g, got, want)
		}
		if got := idx.Resolve(g); got != 52 {
			t.Errorf("Resolve(%d) = %d, want 52", g, got)
		}
	}
	if got, _ := GlyphToUVRect(3, layout); idx.Lookup(3) != got {
		t.Error("in-grid glyph must not use the fallback")
	}
}

func TestNewAtlasIndexRejectsFallbackOutsideGrid(t *testing.T) {
	_, err := NewAtlasIndex(AtlasLayout{Columns: 2, Rows: 2}, 4)
	if !errors.Is(err, core.ErrInvalidGlyph) {
		t.Errorf("err = %v, want ErrInvalidGlyph", err)
	}
	_, err = NewAtlasIndex(AtlasLayout{}, 0)
	if !errors.Is(err, core.ErrInvalidAtlasLayout) {
		t.Errorf("err = %v, want ErrInvalidAtlasLayout", err)
	}
}

func TestAtlasLayoutFromPixels(t *testing.T) {
	l, err := AtlasLayoutFromPixels(256, 128, 32, 32)
	if err != nil {
		t.Fatal(err)
	}
	if l != (AtlasLayout{Columns: 8, Rows: 4}) {
		t.Errorf("layout = %+v", l)
	}
	for _, tt := range []struct{ w, h, cw, ch int }{
		{250, 128, 32, 32},
		{256, 128, 0, 32},
		{16, 16, 32, 32},
	} {
		if _, err := AtlasLayoutFromPixels(tt.w, tt.h, tt.cw, tt.ch); !errors.Is(err, core.ErrInvalidAtlasLayout) {
			t.Errorf("AtlasLayoutFromPixels(%v) err = %v", tt, err)
		}
	}
}
