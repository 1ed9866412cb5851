// Package zone repaints the dark regions of an edge-magnitude buffer.
package zone

import (
	"errors"
	"fmt"
	"image"
	"math/rand"

	"github.com/maax3v3/edgeseg/internal/color"
	"github.com/maax3v3/edgeseg/internal/imaging"
)

// ErrEpsilonRange is returned when the flood threshold leaves no room for
// fill colors above it.
var ErrEpsilonRange = errors.New("flood epsilon must be in [1, 127]")

// Zone is one flood-filled region.
type Zone struct {
	ID     int
	Color  color.RGBA
	Seed   image.Point
	Pixels []image.Point // all pixel coordinates in this zone
}

// Centroid returns the geometric center of the zone.
func (z *Zone) Centroid() image.Point {
	if len(z.Pixels) == 0 {
		return image.Point{}
	}
	var sx, sy int
	for _, p := range z.Pixels {
		sx += p.X
		sy += p.Y
	}
	return image.Point{
		X: sx / len(z.Pixels),
		Y: sy / len(z.Pixels),
	}
}

// String formats the zone for progress output.
func (z *Zone) String() string {
	return fmt.Sprintf("zone %d at (%d,%d): %d px, %s", z.ID, z.Seed.X, z.Seed.Y, len(z.Pixels), z.Color.Hex())
}

// FloodFill scans the interior of buf in row-major order and, for every pixel
// whose R channel is below epsilon, paints the 4-connected region of pixels
// with R <= epsilon in a random color. Each fill channel is drawn uniformly
// from [2*epsilon, 255), so painted pixels never qualify again.
//
// buf is modified in place. Alpha is left untouched.
func FloodFill(buf *imaging.Buffer, epsilon int, rng *rand.Rand) ([]Zone, error) {
	if epsilon < 1 || epsilon > 127 {
		return nil, fmt.Errorf("%w: got %d", ErrEpsilonRange, epsilon)
	}

	var zones []Zone
	for y := 1; y < buf.Height-1; y++ {
		for x := 1; x < buf.Width-1; x++ {
			if int(buf.At(x, y).R) >= epsilon {
				continue
			}
			z := Zone{
				ID:    len(zones),
				Color: color.RandomAbove(rng, 2*epsilon),
				Seed:  image.Point{X: x, Y: y},
			}
			z.Pixels = fill(buf, z.Seed, epsilon, z.Color)
			zones = append(zones, z)
		}
	}
	return zones, nil
}

// fill paints every pixel reachable from seed through pixels with
// R <= threshold and returns them in visit order.
func fill(buf *imaging.Buffer, seed image.Point, threshold int, c color.RGBA) []image.Point {
	var painted []image.Point
	stack := []image.Point{seed}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !buf.InBounds(p.X, p.Y) || int(buf.At(p.X, p.Y).R) > threshold {
			continue
		}
		buf.SetRGB(p.X, p.Y, c)
		painted = append(painted, p)

		// 4-connected neighbors
		for _, d := range [4]image.Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			stack = append(stack, p.Add(d))
		}
	}
	return painted
}

// Painted returns the total number of pixels covered by zones.
func Painted(zones []Zone) int {
	n := 0
	for i := range zones {
		n += len(zones[i].Pixels)
	}
	return n
}
