package color

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBA represents a color with 8-bit RGBA components.
type RGBA struct {
	R, G, B, A uint8
}

// Black is opaque black, the default color of suppressed components.
var Black = RGBA{0, 0, 0, 255}

// FromStdColor converts a standard library color to RGBA.
// Premultiplied colors are converted to straight alpha first.
func FromStdColor(c color.Color) RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA{R: n.R, G: n.G, B: n.B, A: n.A}
}

// ToStdColor converts RGBA to a standard library non-premultiplied color.
func (c RGBA) ToStdColor() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Hex formats the color as "#rrggbb". Alpha is not included.
func (c RGBA) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.Hex()
}

// ParseHex parses a hex color string like "#000", "#000000", "FF00FF".
// The result is fully opaque.
func ParseHex(s string) (RGBA, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return RGBA{}, fmt.Errorf("invalid hex color %q: must be 3 or 6 hex digits", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGBA{R: r, G: g, B: b, A: 255}, nil
}

// Gray returns the unweighted channel average floor((R+G+B)/3).
func (c RGBA) Gray() int {
	return (int(c.R) + int(c.G) + int(c.B)) / 3
}

// DistanceRGB computes the Euclidean distance in RGB space between two colors.
// Alpha is ignored.
func DistanceRGB(a, b RGBA) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// Random draws an opaque color with every channel uniform in [0, 255].
// Channels are drawn in R, G, B order.
func Random(rng *rand.Rand) RGBA {
	return RGBA{
		R: uint8(rng.Intn(256)),
		G: uint8(rng.Intn(256)),
		B: uint8(rng.Intn(256)),
		A: 255,
	}
}

// RandomAbove draws an opaque color with every channel uniform in [lo, 255).
// lo must be in [0, 254].
func RandomAbove(rng *rand.Rand, lo int) RGBA {
	span := 255 - lo
	return RGBA{
		R: uint8(rng.Intn(span) + lo),
		G: uint8(rng.Intn(span) + lo),
		B: uint8(rng.Intn(span) + lo),
		A: 255,
	}
}

// MaxRGBDistance is the maximum possible Euclidean distance in RGB space.
var MaxRGBDistance = math.Sqrt(255 * 255 * 3)
