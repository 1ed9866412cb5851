package imaging

import (
	"image"

	dimaging "github.com/disintegration/imaging"

	"github.com/maax3v3/edgeseg/internal/color"
)

// Buffer is a flat 8-bit RGBA raster: row-major, 4 bytes per pixel,
// non-premultiplied. len(Pix) is always Width*Height*4.
type Buffer struct {
	Width, Height int
	Pix           []uint8
}

// NewBuffer allocates a zeroed buffer of the given dimensions.
func NewBuffer(width, height int) *Buffer {
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// FromImage copies any image into a new Buffer. The image origin is moved to (0, 0).
func FromImage(img image.Image) *Buffer {
	n := dimaging.Clone(img)
	return &Buffer{
		Width:  n.Rect.Dx(),
		Height: n.Rect.Dy(),
		Pix:    n.Pix,
	}
}

// NRGBA returns an *image.NRGBA view sharing the buffer's pixel memory.
func (b *Buffer) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// Len returns the number of pixels.
func (b *Buffer) Len() int {
	return b.Width * b.Height
}

// Index returns the pixel index of (x, y).
func (b *Buffer) Index(x, y int) int {
	return y*b.Width + x
}

// InBounds reports whether (x, y) is a valid pixel coordinate.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// At returns the pixel at (x, y).
func (b *Buffer) At(x, y int) color.RGBA {
	return b.AtIndex(b.Index(x, y))
}

// AtIndex returns the pixel with the given row-major index.
func (b *Buffer) AtIndex(i int) color.RGBA {
	p := b.Pix[i*4 : i*4+4 : i*4+4]
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Set writes all four channels of the pixel at (x, y).
func (b *Buffer) Set(x, y int, c color.RGBA) {
	b.SetIndex(b.Index(x, y), c)
}

// SetIndex writes all four channels of the pixel with the given index.
func (b *Buffer) SetIndex(i int, c color.RGBA) {
	p := b.Pix[i*4 : i*4+4 : i*4+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// SetRGB writes R, G and B of the pixel at (x, y), leaving alpha untouched.
func (b *Buffer) SetRGB(x, y int, c color.RGBA) {
	o := b.Index(x, y) * 4
	b.Pix[o], b.Pix[o+1], b.Pix[o+2] = c.R, c.G, c.B
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Width: b.Width, Height: b.Height, Pix: pix}
}

// Blur returns a Gaussian-blurred copy of the buffer.
func (b *Buffer) Blur(sigma float64) *Buffer {
	return FromImage(dimaging.Blur(b.NRGBA(), sigma))
}
