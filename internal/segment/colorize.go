package segment

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/maax3v3/edgeseg/internal/color"
	"github.com/maax3v3/edgeseg/internal/imaging"
)

// SizeMode selects how Colorize decides whether a component is too small.
type SizeMode int

const (
	// SizeExact counts every component fully before any color is chosen.
	SizeExact SizeMode = iota
	// SizeSinglePass decides in one row-major pass using only the pixels
	// counted before the root itself is reached, and writes each pixel with
	// whatever color its root holds at that moment.
	SizeSinglePass
)

func (m SizeMode) String() string {
	switch m {
	case SizeExact:
		return "exact"
	case SizeSinglePass:
		return "single-pass"
	default:
		return fmt.Sprintf("SizeMode(%d)", int(m))
	}
}

// ParseSizeMode parses "exact" or "single-pass".
func ParseSizeMode(s string) (SizeMode, error) {
	switch s {
	case "exact", "":
		return SizeExact, nil
	case "single-pass":
		return SizeSinglePass, nil
	default:
		return 0, fmt.Errorf("unknown size mode %q (want exact or single-pass)", s)
	}
}

// ColorizeOptions configures Colorize.
type ColorizeOptions struct {
	MinSize    int        // components smaller than this get SmallColor
	SmallColor color.RGBA // color of suppressed components
	Mode       SizeMode
	Rand       *rand.Rand // source of component colors; time-seeded when nil
}

// DefaultColorizeOptions returns the options used by the pipeline.
func DefaultColorizeOptions() ColorizeOptions {
	return ColorizeOptions{
		MinSize:    3,
		SmallColor: color.Black,
		Mode:       SizeExact,
	}
}

// Stats describes the components found by Colorize.
type Stats struct {
	Components int         // number of roots
	Suppressed int         // roots painted with SmallColor
	Largest    int         // pixel count of the largest component
	Sizes      map[int]int // root index -> pixel count
}

// Colorize renders the forest as an opaque buffer where every root gets either
// SmallColor or a uniformly random color. Random colors are drawn once per
// root, in ascending root index. Root nodes' R, G and B are overwritten with
// the chosen color.
func Colorize(g *Graph, opts ColorizeOptions) (*imaging.Buffer, Stats) {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	var (
		out   *imaging.Buffer
		sizes []int
		st    Stats
	)
	switch opts.Mode {
	case SizeSinglePass:
		out, sizes, st = colorizeSinglePass(g, opts, rng)
	default:
		out, sizes, st = colorizeExact(g, opts, rng)
	}

	st.Sizes = make(map[int]int, st.Components)
	for i, s := range sizes {
		if s == 0 {
			continue
		}
		st.Sizes[i] = s
		if s > st.Largest {
			st.Largest = s
		}
	}
	return out, st
}

func colorizeExact(g *Graph, opts ColorizeOptions, rng *rand.Rand) (*imaging.Buffer, []int, Stats) {
	n := g.Len()
	out := imaging.NewBuffer(g.Width, g.Height)
	roots := make([]int, n)
	sizes := make([]int, n)
	var st Stats

	for i := 0; i < n; i++ {
		r := g.Find(i)
		roots[i] = r
		sizes[r]++
	}

	for i := 0; i < n; i++ {
		if roots[i] != i {
			continue
		}
		if assignRootColor(&g.Nodes[i], sizes[i], opts, rng) {
			st.Suppressed++
		}
		st.Components++
	}

	for i := 0; i < n; i++ {
		root := &g.Nodes[roots[i]]
		out.SetIndex(i, color.RGBA{R: root.R, G: root.G, B: root.B, A: 255})
	}
	return out, sizes, st
}

func colorizeSinglePass(g *Graph, opts ColorizeOptions, rng *rand.Rand) (*imaging.Buffer, []int, Stats) {
	n := g.Len()
	out := imaging.NewBuffer(g.Width, g.Height)
	sizes := make([]int, n)
	var st Stats

	for i := 0; i < n; i++ {
		r := g.Find(i)
		if r == i {
			if assignRootColor(&g.Nodes[i], sizes[i], opts, rng) {
				st.Suppressed++
			}
			st.Components++
		}
		root := &g.Nodes[r]
		out.SetIndex(i, color.RGBA{R: root.R, G: root.G, B: root.B, A: 255})
		sizes[r]++
	}
	return out, sizes, st
}

// assignRootColor paints a root and reports whether it was suppressed.
func assignRootColor(root *Node, size int, opts ColorizeOptions, rng *rand.Rand) bool {
	if size < opts.MinSize {
		root.R, root.G, root.B = opts.SmallColor.R, opts.SmallColor.G, opts.SmallColor.B
		return true
	}
	c := color.Random(rng)
	root.R, root.G, root.B = c.R, c.G, c.B
	return false
}
