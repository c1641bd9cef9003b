package assets

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "atlas.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadImagePNG(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	src.Set(2, 1, color.NRGBA{0, 0, 255, 255})

	img, err := LoadImage(writePNG(t, src))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("bounds = %v", b)
	}
	pix := Pixels(img)
	if len(pix) != 3*2*4 {
		t.Fatalf("len(pix) = %d", len(pix))
	}
	// top-left texel first
	if pix[0] != 255 || pix[3] != 255 {
		t.Errorf("first texel = %v", pix[:4])
	}
	last := pix[len(pix)-4:]
	if last[2] != 255 || last[3] != 255 {
		t.Errorf("last texel = %v", last)
	}
}

func TestLoadImageErrors(t *testing.T) {
	if _, err := LoadImage(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
	bad := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadImage(bad); err == nil {
		t.Error("expected decode error")
	}
}

func TestToRGBAOffsetBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	src.Set(2, 2, color.RGBA{1, 2, 3, 255})
	sub := src.SubImage(image.Rect(2, 2, 4, 4))

	got := ToRGBA(sub)
	if got.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("bounds = %v", got.Bounds())
	}
	if c := got.RGBAAt(0, 0); c != (color.RGBA{1, 2, 3, 255}) {
		t.Errorf("origin texel = %v", c)
	}
}

func TestLoadShader(t *testing.T) {
	dir := t.TempDir()
	old := ShaderDir
	ShaderDir = dir
	defer func() { ShaderDir = old }()

	if err := os.WriteFile(filepath.Join(dir, "a.vert"), []byte("#version 330 core\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := LoadShader("a.vert")
	if err != nil || src != "#version 330 core\n" {
		t.Errorf("LoadShader = %q, %v", src, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "empty.frag"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadShader("empty.frag"); err == nil {
		t.Error("expected error for empty shader")
	}
}
