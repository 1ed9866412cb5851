// Package detection extracts gradient-magnitude edge maps from pixel buffers.
package detection

import (
	"math"

	"github.com/maax3v3/edgeseg/internal/imaging"
)

// Sobel kernels. Rows are indexed by dy+1, columns by dx+1.
var (
	kernelX = [3][3]int{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	kernelY = [3][3]int{
		{1, 2, 1},
		{0, 0, 0},
		{-1, -2, -1},
	}
)

// Sobel returns a new buffer of the same size holding the gradient magnitude
// of src. Every pixel gets R = G = B = magnitude and keeps its alpha; the
// outermost 1-pixel frame has no full window and is left at magnitude 0.
func Sobel(src *imaging.Buffer) *imaging.Buffer {
	out := imaging.NewBuffer(src.Width, src.Height)
	mags := Magnitudes(src)
	for i, m := range mags {
		p := out.Pix[i*4 : i*4+4 : i*4+4]
		p[0], p[1], p[2] = m, m, m
		p[3] = src.Pix[i*4+3]
	}
	return out
}

// Magnitudes computes the clamped Sobel gradient magnitude of every interior
// pixel, indexed row-major. Border entries are zero.
//
// Intensity is the unweighted channel average floor((R+G+B)/3); the magnitude
// is round(sqrt(gx² + gy²)) clamped to 255.
func Magnitudes(src *imaging.Buffer) []uint8 {
	w, h := src.Width, src.Height
	mags := make([]uint8, w*h)
	if w < 3 || h < 3 {
		return mags
	}

	// Precompute the intensity plane so each pixel is converted once.
	gray := make([]int, w*h)
	for i := range gray {
		gray[i] = src.AtIndex(i).Gray()
	}

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			var sumX, sumY int
			for dy := -1; dy <= 1; dy++ {
				row := (y + dy) * w
				for dx := -1; dx <= 1; dx++ {
					g := gray[row+x+dx]
					sumX += kernelX[dy+1][dx+1] * g
					sumY += kernelY[dy+1][dx+1] * g
				}
			}
			mags[y*w+x] = clampMagnitude(math.Round(math.Sqrt(float64(sumX*sumX + sumY*sumY))))
		}
	}
	return mags
}

func clampMagnitude(m float64) uint8 {
	if m > 255 {
		return 255
	}
	if m < 0 {
		return 0
	}
	return uint8(m)
}

// EdgeStats summarizes the interior of an edge-magnitude buffer.
type EdgeStats struct {
	Interior int     // number of interior pixels
	Mean     float64 // mean magnitude over interior pixels
	Max      uint8   // largest magnitude
}

// Summarize reads the R channel of every interior pixel of an edge buffer
// produced by Sobel.
func Summarize(edges *imaging.Buffer) EdgeStats {
	var st EdgeStats
	var total int
	w, h := edges.Width, edges.Height
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			m := edges.Pix[(y*w+x)*4]
			total += int(m)
			if m > st.Max {
				st.Max = m
			}
			st.Interior++
		}
	}
	if st.Interior > 0 {
		st.Mean = float64(total) / float64(st.Interior)
	}
	return st
}
