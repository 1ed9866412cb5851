package pipeline

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/maax3v3/edgeseg/internal/config"
	"github.com/maax3v3/edgeseg/internal/detection"
	"github.com/maax3v3/edgeseg/internal/imaging"
	"github.com/maax3v3/edgeseg/internal/segment"
	"github.com/maax3v3/edgeseg/internal/zone"
)

// Settings are the parameters of one segmentation run.
type Settings struct {
	SegmentEpsilon float64
	FloodEpsilon   int
	PreBlur        float64 // Gaussian sigma applied before edge detection, 0 = off
	Colorize       segment.ColorizeOptions

	// Rand feeds component and region colors, in that order.
	// A time-seeded source is used when nil.
	Rand *rand.Rand
}

// SettingsFromConfig converts a resolved config into Settings.
func SettingsFromConfig(cfg config.Config) (Settings, error) {
	small, err := cfg.SmallColor()
	if err != nil {
		return Settings{}, fmt.Errorf("small component color: %w", err)
	}
	mode, err := cfg.Mode()
	if err != nil {
		return Settings{}, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return Settings{
		SegmentEpsilon: cfg.SegmentEpsilon,
		FloodEpsilon:   cfg.FloodEpsilon,
		PreBlur:        cfg.PreBlur,
		Colorize: segment.ColorizeOptions{
			MinSize:    cfg.MinComponentSize,
			SmallColor: small,
			Mode:       mode,
		},
		Rand: rand.New(rand.NewSource(seed)),
	}, nil
}

// Output holds the three images of a run and what was found in them.
type Output struct {
	Edges      *imaging.Buffer // Sobel magnitude image
	Components *imaging.Buffer // one color per component
	Regions    *imaging.Buffer // edge image with dark regions flood-filled

	EdgeStats      detection.EdgeStats
	Merges         int
	ComponentStats segment.Stats
	Zones          []zone.Zone
}

// Process runs edge extraction, component labeling and region filling on src.
// src is not modified. Progress is written to log. ctx is checked between
// stages.
func Process(ctx context.Context, src *imaging.Buffer, s Settings, log io.Writer) (*Output, error) {
	rng := s.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	out := &Output{}

	// Step 1: Edge extraction
	if s.PreBlur > 0 {
		fmt.Fprintf(log, "Blurring (sigma=%.2f)...\n", s.PreBlur)
		src = src.Blur(s.PreBlur)
	}
	fmt.Fprintln(log, "Extracting edges...")
	out.Edges = detection.Sobel(src)
	out.EdgeStats = detection.Summarize(out.Edges)
	fmt.Fprintf(log, "Edge magnitude: mean %.1f, max %d over %d interior pixels\n",
		out.EdgeStats.Mean, out.EdgeStats.Max, out.EdgeStats.Interior)
	if err := checkpoint(ctx); err != nil {
		return nil, err
	}

	// Step 2: Build the pixel graph and merge similar neighbors
	fmt.Fprintf(log, "Discovering components (epsilon=%g)...\n", s.SegmentEpsilon)
	g := segment.NewGraph(out.Edges)
	out.Merges = g.Discover(s.SegmentEpsilon)
	fmt.Fprintf(log, "Merges: %d\n", out.Merges)
	if err := checkpoint(ctx); err != nil {
		return nil, err
	}

	// Step 3: Color components
	fmt.Fprintf(log, "Coloring components (mode=%s)...\n", s.Colorize.Mode)
	copts := s.Colorize
	copts.Rand = rng
	out.Components, out.ComponentStats = segment.Colorize(g, copts)
	st := out.ComponentStats
	fmt.Fprintf(log, "Components: %d (%d smaller than %d px, largest %d px)\n",
		st.Components, st.Suppressed, copts.MinSize, st.Largest)
	if err := checkpoint(ctx); err != nil {
		return nil, err
	}

	// Step 4: Flood-fill dark regions of the edge image
	fmt.Fprintf(log, "Filling regions (epsilon=%d)...\n", s.FloodEpsilon)
	out.Regions = out.Edges.Clone()
	zones, err := zone.FloodFill(out.Regions, s.FloodEpsilon, rng)
	if err != nil {
		return nil, fmt.Errorf("filling regions: %w", err)
	}
	out.Zones = zones
	fmt.Fprintf(log, "Regions: %d covering %d px\n", len(zones), zone.Painted(zones))

	return out, nil
}

// Run executes the full pipeline with the given configuration: it loads the
// input, processes it and writes the three output images.
func Run(ctx context.Context, cfg config.Config, log io.Writer) (*Output, error) {
	if cfg.Quiet {
		log = io.Discard
	}
	s, err := SettingsFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(log, "Loading image: %s\n", cfg.InPath)
	src, err := imaging.Load(cfg.InPath)
	if err != nil {
		return nil, fmt.Errorf("loading image: %w", err)
	}
	fmt.Fprintf(log, "Image loaded: %dx%d\n", src.Width, src.Height)
	if err := checkpoint(ctx); err != nil {
		return nil, err
	}

	out, err := Process(ctx, src, s, log)
	if err != nil {
		return nil, err
	}

	if cfg.OutDir != "" {
		if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}
	for _, o := range []struct {
		path string
		buf  *imaging.Buffer
	}{
		{cfg.EdgePath(), out.Edges},
		{cfg.ComponentsPath(), out.Components},
		{cfg.RegionsPath(), out.Regions},
	} {
		fmt.Fprintf(log, "Saving output: %s\n", o.path)
		if err := imaging.Save(o.path, o.buf); err != nil {
			return nil, fmt.Errorf("saving output: %w", err)
		}
	}

	fmt.Fprintln(log, "Done!")
	return out, nil
}

func checkpoint(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("segmentation interrupted: %w", err)
	}
	return nil
}
