// Package segment labels the pixel grid into connected regions with a
// disjoint-set forest and renders the regions as flat random colors.
//
// A Graph holds one Node per pixel in a contiguous arena. Neighbor and parent
// links are indices into that arena (-1 when absent), so nodes never own one
// another. The usual sequence is:
//
//	g := segment.NewGraph(edges)
//	g.Discover(50)
//	out, stats := segment.Colorize(g, opts)
//
// Discover must complete before Colorize; the graph is meant to be discarded
// after one pass.
package segment
