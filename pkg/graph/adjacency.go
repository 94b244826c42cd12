package graph

// AdjacencyIndex maps an unordered node-pair key to presence. It is rebuilt
// whenever the full edge set changes and is used only for O(1) neighbor
// tests, never iterated for rendering.
type AdjacencyIndex map[string]struct{}

// pairKey builds the unordered key for two node uids.
func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "\x00" + b
}

// BuildAdjacency indexes every edge's endpoint pair.
func BuildAdjacency(edges []*Edge) AdjacencyIndex {
	idx := make(AdjacencyIndex, len(edges))
	for _, e := range edges {
		idx[pairKey(e.Source.UID, e.Target.UID)] = struct{}{}
	}
	return idx
}

// Connected reports whether an edge exists between the two uids, in either
// direction. A node is considered connected to itself.
func (idx AdjacencyIndex) Connected(a, b string) bool {
	if a == b {
		return true
	}
	_, ok := idx[pairKey(a, b)]
	return ok
}
