package colors

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type Color [4]float32

// Slate is the default clear color.
var Slate = Color{0.1, 0.2, 0.3, 1}

// Hex parses "#rrggbb" or "#rrggbbaa" (the leading '#' is optional).
func Hex(s string) (Color, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(raw) != 6 && len(raw) != 8 {
		return Color{}, errors.Errorf("color %q: want 6 or 8 hex digits", s)
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return Color{}, errors.Wrapf(err, "color %q", s)
	}
	c := Color{0, 0, 0, 1}
	for i, v := range b {
		c[i] = float32(v) / 255
	}
	return c, nil
}

// String formats the color as "#rrggbbaa".
func (c Color) String() string {
	var b [4]byte
	for i, v := range c {
		switch {
		case v <= 0:
			b[i] = 0
		case v >= 1:
			b[i] = 255
		default:
			b[i] = byte(v*255 + 0.5)
		}
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", b[0], b[1], b[2], b[3])
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := Hex(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
