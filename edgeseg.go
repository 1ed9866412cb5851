// Package edgeseg segments images by edge similarity.
//
// Three images are produced from one input: the Sobel gradient magnitude,
// the connected components of that gradient image (pixels joined when their
// colors are close), each painted one random color, and the gradient image
// with its dark, flat regions flood-filled.
//
// Usage as a library:
//
//	img, _ := edgeseg.LoadImage("palm.png")
//	result, _ := edgeseg.Segment(img, edgeseg.DefaultOptions())
//	edgeseg.SaveImage("components.png", result.Components)
//
// Or use the file-based convenience:
//
//	result, err := edgeseg.SegmentFile(ctx, "palm.png", "out", edgeseg.DefaultOptions())
package edgeseg

import (
	"context"
	"fmt"
	"image"
	"io"

	"github.com/maax3v3/edgeseg/internal/color"
	"github.com/maax3v3/edgeseg/internal/config"
	"github.com/maax3v3/edgeseg/internal/imaging"
	"github.com/maax3v3/edgeseg/internal/pipeline"
)

// Size modes.
const (
	SizeExact      = "exact"       // Component sizes are counted before coloring.
	SizeSinglePass = "single-pass" // Sizes are counted while coloring, in scan order.
)

// Options configures a segmentation run.
type Options struct {
	// SegmentEpsilon is the RGB distance below which two neighboring pixels
	// of the gradient image join the same component.
	// Default: 50.
	SegmentEpsilon float64

	// FloodEpsilon is the brightness threshold (1–127) of flood-filled
	// regions.
	// Default: 20.
	FloodEpsilon int

	// MinComponentSize is the pixel count below which a component is painted
	// SmallComponentColor instead of a random color.
	// Default: 3.
	MinComponentSize int

	// SmallComponentColor paints components under MinComponentSize.
	// Default: black.
	SmallComponentColor Color

	// SizeMode is SizeExact or SizeSinglePass.
	// Default: SizeExact.
	SizeMode string

	// Seed makes the output colors reproducible. 0 picks a time-based seed.
	Seed int64

	// PreBlur is the sigma of a Gaussian blur applied before edge detection.
	// 0 disables it.
	PreBlur float64
}

// Color represents an RGBA color with 8-bit components.
type Color struct {
	R, G, B, A uint8
}

// Result holds the three output images and a summary of the run.
type Result struct {
	Edges      *image.NRGBA
	Components *image.NRGBA
	Regions    *image.NRGBA

	ComponentCount  int // number of components
	SuppressedCount int // components painted SmallComponentColor
	RegionCount     int // number of flood-filled regions
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		SegmentEpsilon:      config.DefaultSegmentEpsilon,
		FloodEpsilon:        config.DefaultFloodEpsilon,
		MinComponentSize:    config.DefaultMinComponentSize,
		SmallComponentColor: Color{0, 0, 0, 255},
		SizeMode:            SizeExact,
	}
}

// ParseHexColor parses a hex color string like "#000", "#FF00FF".
func ParseHexColor(hex string) (Color, error) {
	c, err := color.ParseHex(hex)
	if err != nil {
		return Color{}, err
	}
	return Color{R: c.R, G: c.G, B: c.B, A: c.A}, nil
}

// LoadImage reads an image from disk. Supports PNG, JPEG, GIF, WEBP, BMP,
// TIFF and TGA.
func LoadImage(path string) (image.Image, error) {
	b, err := imaging.Load(path)
	if err != nil {
		return nil, err
	}
	return b.NRGBA(), nil
}

// SaveImage writes an image to disk in the format named by the extension
// (PNG, JPEG, GIF, WEBP, BMP or TIFF).
func SaveImage(path string, img image.Image) error {
	return imaging.Save(path, imaging.FromImage(img))
}

// Segment runs the full segmentation on an in-memory image.
func Segment(img image.Image, opts Options) (*Result, error) {
	if img == nil {
		return nil, fmt.Errorf("input image is nil")
	}
	cfg := opts.config("", "")
	if err := cfg.ValidateSettings(); err != nil {
		return nil, err
	}
	s, err := pipeline.SettingsFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	out, err := pipeline.Process(context.Background(), imaging.FromImage(img), s, io.Discard)
	if err != nil {
		return nil, err
	}
	return newResult(out), nil
}

// SegmentFile is a convenience that loads an image from inPath, segments it
// and writes edges.png, components.png and regions.png to outDir.
func SegmentFile(ctx context.Context, inPath, outDir string, opts Options) (*Result, error) {
	cfg := opts.config(inPath, outDir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Quiet = true

	out, err := pipeline.Run(ctx, cfg, io.Discard)
	if err != nil {
		return nil, err
	}
	return newResult(out), nil
}

func (o Options) config(inPath, outDir string) config.Config {
	small := color.RGBA{
		R: o.SmallComponentColor.R,
		G: o.SmallComponentColor.G,
		B: o.SmallComponentColor.B,
		A: 255,
	}
	cfg := config.Config{
		InPath:              inPath,
		OutDir:              outDir,
		SegmentEpsilon:      o.SegmentEpsilon,
		FloodEpsilon:        o.FloodEpsilon,
		MinComponentSize:    o.MinComponentSize,
		SmallComponentColor: small.Hex(),
		SizeMode:            o.SizeMode,
		Seed:                o.Seed,
		PreBlur:             o.PreBlur,
	}
	cfg.Resolve(config.Flags{})
	return cfg
}

func newResult(out *pipeline.Output) *Result {
	return &Result{
		Edges:           out.Edges.NRGBA(),
		Components:      out.Components.NRGBA(),
		Regions:         out.Regions.NRGBA(),
		ComponentCount:  out.ComponentStats.Components,
		SuppressedCount: out.ComponentStats.Suppressed,
		RegionCount:     len(out.Zones),
	}
}
