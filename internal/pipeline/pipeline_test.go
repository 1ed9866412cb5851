package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcol "github.com/maax3v3/edgeseg/internal/color"
	"github.com/maax3v3/edgeseg/internal/config"
	"github.com/maax3v3/edgeseg/internal/detection"
	"github.com/maax3v3/edgeseg/internal/imaging"
	"github.com/maax3v3/edgeseg/internal/segment"
)

// createTestImage writes four colored quadrants separated by black lines.
func createTestImage(t *testing.T, path string) {
	t.Helper()
	w, h := 60, 60
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	red := color.RGBA{255, 0, 0, 255}
	green := color.RGBA{0, 200, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}
	yellow := color.RGBA{255, 255, 0, 255}
	black := color.RGBA{0, 0, 0, 255}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			switch {
			case x == 29 || x == 30 || y == 29 || y == 30:
				img.Set(x, y, black)
			case x < 30 && y < 30:
				img.Set(x, y, red)
			case x >= 30 && y < 30:
				img.Set(x, y, green)
			case x < 30 && y >= 30:
				img.Set(x, y, blue)
			default:
				img.Set(x, y, yellow)
			}
		}
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func testConfig(t *testing.T, seed int64) config.Config {
	t.Helper()
	dir := t.TempDir()
	in := filepath.Join(dir, "input.png")
	createTestImage(t, in)

	cfg := config.Config{InPath: in, OutDir: filepath.Join(dir, "out"), Seed: seed}
	cfg.Resolve(config.Flags{})
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestPipelineEndToEnd(t *testing.T) {
	cfg := testConfig(t, 1)

	var log bytes.Buffer
	out, err := Run(context.Background(), cfg, &log)
	require.NoError(t, err)

	for _, p := range []string{cfg.EdgePath(), cfg.ComponentsPath(), cfg.RegionsPath()} {
		b, err := imaging.Load(p)
		require.NoError(t, err, p)
		assert.Equal(t, 60, b.Width)
		assert.Equal(t, 60, b.Height)
	}

	assert.Equal(t, 58*58, out.EdgeStats.Interior)
	assert.Equal(t, uint8(255), out.EdgeStats.Max)

	total := 0
	for _, s := range out.ComponentStats.Sizes {
		total += s
	}
	assert.Equal(t, 60*60, total, "every pixel belongs to exactly one component")
	assert.NotEmpty(t, out.Zones, "flat quadrant interiors have zero gradient")

	assert.Contains(t, log.String(), "Loading image:")
	assert.Contains(t, log.String(), "Done!")
}

func TestRun_DeterministicWithSeed(t *testing.T) {
	a, err := Run(context.Background(), testConfig(t, 42), io.Discard)
	require.NoError(t, err)
	b, err := Run(context.Background(), testConfig(t, 42), io.Discard)
	require.NoError(t, err)

	assert.Equal(t, a.Edges.Pix, b.Edges.Pix)
	assert.Equal(t, a.Components.Pix, b.Components.Pix)
	assert.Equal(t, a.Regions.Pix, b.Regions.Pix)
}

func TestRun_Quiet(t *testing.T) {
	cfg := testConfig(t, 1)
	cfg.Quiet = true

	var log bytes.Buffer
	_, err := Run(context.Background(), cfg, &log)
	require.NoError(t, err)
	assert.Zero(t, log.Len())
}

func TestRun_Cancelled(t *testing.T) {
	cfg := testConfig(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, cfg, io.Discard)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))

	_, statErr := os.Stat(cfg.EdgePath())
	assert.True(t, os.IsNotExist(statErr), "nothing is written after cancellation")
}

func TestRun_MissingInput(t *testing.T) {
	cfg := config.Config{InPath: filepath.Join(t.TempDir(), "missing.png")}
	cfg.Resolve(config.Flags{})

	_, err := Run(context.Background(), cfg, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading image")
}

func TestProcess_LeavesEdgesIntact(t *testing.T) {
	src := imaging.NewBuffer(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			v := uint8(0)
			if x >= 4 {
				v = 200
			}
			src.Set(x, y, mcol.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	before := src.Clone()

	s := Settings{
		SegmentEpsilon: 50,
		FloodEpsilon:   20,
		Colorize:       segment.DefaultColorizeOptions(),
		Rand:           rand.New(rand.NewSource(3)),
	}
	out, err := Process(context.Background(), src, s, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, before.Pix, src.Pix, "source is not modified")
	assert.Equal(t, detection.Sobel(src).Pix, out.Edges.Pix, "flood fill works on a copy")
	assert.NotEqual(t, out.Edges.Pix, out.Regions.Pix)
}

func TestProcess_BadFloodEpsilon(t *testing.T) {
	s := Settings{SegmentEpsilon: 50, FloodEpsilon: 0, Colorize: segment.DefaultColorizeOptions()}
	_, err := Process(context.Background(), imaging.NewBuffer(4, 4), s, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "filling regions")
}

func TestProcess_BrightImageKeepsSingletonBorder(t *testing.T) {
	white := mcol.RGBA{R: 255, G: 255, B: 255, A: 255}
	s := Settings{SegmentEpsilon: 50, FloodEpsilon: 20, Colorize: segment.DefaultColorizeOptions()}

	for _, size := range []int{2, 5} {
		src := imaging.NewBuffer(size, size)
		for i := 0; i < src.Len(); i++ {
			src.SetIndex(i, white)
		}
		s.Rand = rand.New(rand.NewSource(1))

		out, err := Process(context.Background(), src, s, io.Discard)
		require.NoError(t, err)
		assert.Equal(t, mcol.RGBA{A: 255}, out.Edges.At(0, 0), "border has no gradient")
		assert.Zero(t, out.Merges, "size %d", size)
		assert.Equal(t, size*size, out.ComponentStats.Components, "every pixel is its own component")
	}
}
