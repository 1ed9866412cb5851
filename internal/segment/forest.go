package segment

import "github.com/maax3v3/edgeseg/internal/color"

// DarkGate is the R-channel level below which two pixels are never merged.
// It keeps near-black background from collapsing into one region.
const DarkGate = 40

// Find returns the root of the set containing node i. Every node visited on
// the way up is re-parented directly to the root.
func (g *Graph) Find(i int) int {
	root := i
	for g.Nodes[root].Parent != root {
		root = g.Nodes[root].Parent
	}
	for g.Nodes[i].Parent != root {
		next := g.Nodes[i].Parent
		g.Nodes[i].Parent = root
		i = next
	}
	return root
}

// Union merges the sets of x and y when the two pixels are similar enough and
// reports whether a merge happened.
//
// Nothing happens when both pixels have R below DarkGate, when they already
// share a root, or when their RGB distance is >= epsilon. Otherwise the root
// with the higher rank adopts the other; on a tie y's root goes under x's root
// and x's root gains one rank.
func (g *Graph) Union(x, y int, epsilon float64) bool {
	nx, ny := &g.Nodes[x], &g.Nodes[y]
	if nx.R < DarkGate && ny.R < DarkGate {
		return false
	}

	rx, ry := g.Find(x), g.Find(y)
	if rx == ry {
		return false
	}
	if color.DistanceRGB(nx.Color(), ny.Color()) >= epsilon {
		return false
	}

	rootX, rootY := &g.Nodes[rx], &g.Nodes[ry]
	switch {
	case rootX.Rank > rootY.Rank:
		rootY.Parent = rx
	case rootX.Rank < rootY.Rank:
		rootX.Parent = ry
	default:
		rootY.Parent = rx
		rootX.Rank++
	}
	return true
}

// Connected reports whether x and y are in the same set.
func (g *Graph) Connected(x, y int) bool {
	return g.Find(x) == g.Find(y)
}
