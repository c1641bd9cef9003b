package assets

import (
	"image"
	"image/draw"
	_ "image/png"
	"os"

	"github.com/hubastard/glyphquad/engine/core"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// LoadImage decodes a PNG, BMP or TIFF file into an RGBA image with
// tightly packed rows (stride == 4*w) and a top-left origin.
func LoadImage(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %q", path)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decode image %q", path)
	}
	rgba := ToRGBA(img)
	w, h := rgba.Bounds().Dx(), rgba.Bounds().Dy()
	if w == 0 || h == 0 {
		return nil, errors.Errorf("image %q is empty", path)
	}
	core.LogDebug("loaded %s %q (%dx%d)", format, path, w, h)
	return rgba, nil
}

// ToRGBA converts img to an RGBA image at the origin with tight rows,
// copying only when needed.
func ToRGBA(img image.Image) *image.RGBA {
	if m, ok := img.(*image.RGBA); ok && m.Rect.Min == (image.Point{}) && m.Stride == m.Rect.Dx()*4 {
		return m
	}
	dst := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}

// Pixels returns the tightly packed RGBA8 bytes of img, row-major from the
// top-left texel.
func Pixels(img image.Image) []byte {
	return ToRGBA(img).Pix
}
