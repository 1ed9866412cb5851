package segment

// Discover unions every node with each of its existing up, down, left and
// right neighbors, visiting nodes in row-major order. Each edge is tried from
// both ends; the second attempt is a no-op. It returns the number of merges.
func (g *Graph) Discover(epsilon float64) int {
	merges := 0
	for i := range g.Nodes {
		n := &g.Nodes[i]
		for _, j := range [4]int{n.Up, n.Down, n.Left, n.Right} {
			if j == None {
				continue
			}
			if g.Union(i, j, epsilon) {
				merges++
			}
		}
	}
	return merges
}
