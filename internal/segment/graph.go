package segment

import (
	"github.com/maax3v3/edgeseg/internal/color"
	"github.com/maax3v3/edgeseg/internal/imaging"
)

// None marks an absent neighbor.
const None = -1

// Node is one pixel of the adjacency graph plus its forest bookkeeping.
// All links are indices into Graph.Nodes.
type Node struct {
	R, G, B, A uint8

	Up, Down, Left, Right int

	Parent int
	Rank   int
}

// Color returns the node's current color.
func (n *Node) Color() color.RGBA {
	return color.RGBA{R: n.R, G: n.G, B: n.B, A: n.A}
}

// Graph is the pixel adjacency graph and the disjoint-set forest over it.
type Graph struct {
	Width, Height int
	Nodes         []Node
}

// NewGraph allocates one node per pixel of buf, copies its color and wires
// the 4-neighborhood. Every node starts as a singleton set of rank 0.
func NewGraph(buf *imaging.Buffer) *Graph {
	w, h := buf.Width, buf.Height
	g := &Graph{
		Width:  w,
		Height: h,
		Nodes:  make([]Node, w*h),
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			p := buf.Pix[i*4 : i*4+4]
			n := &g.Nodes[i]
			n.R, n.G, n.B, n.A = p[0], p[1], p[2], p[3]
			n.Up, n.Down, n.Left, n.Right = None, None, None, None
			if y > 0 {
				n.Up = i - w
			}
			if y < h-1 {
				n.Down = i + w
			}
			if x > 0 {
				n.Left = i - 1
			}
			if x < w-1 {
				n.Right = i + 1
			}
			n.Parent = i
		}
	}
	return g
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.Nodes)
}

// Index returns the node index of pixel (x, y).
func (g *Graph) Index(x, y int) int {
	return y*g.Width + x
}
