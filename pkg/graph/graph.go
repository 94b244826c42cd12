// Package graph holds the node-link data model consumed by the renderer:
// nodes, timestamped edges, scheduled attribute changes and the adjacency
// index used for neighbor tests.
package graph

import (
	"sort"
	"strings"
)

// Node is a single graph vertex. Position fields are mutated by the layout
// engine or by drag; everything else comes from the input payload or from
// applied changes.
type Node struct {
	UID    string
	Label  string
	Group  string
	Size   float64
	Color  string
	Weight float64

	// Current position in canvas coordinates.
	X, Y float64

	// Pinned position override. While non-nil the simulation must not move
	// the node (drag-to-pin).
	FX, FY *float64

	// Projected holds the externally supplied 2D coordinate used by the
	// euclidean layout. Nil when the payload carries none.
	Projected *[2]float64

	// Changes lists scheduled attribute patches for this node, sorted by
	// time with insertion order preserved within the same instant.
	Changes []Change
}

// Pos returns the node's current position.
func (n *Node) Pos() (x, y float64) { return n.X, n.Y }

// SetPos moves the node.
func (n *Node) SetPos(x, y float64) { n.X, n.Y = x, y }

// Pin returns the pinned position override, if set.
func (n *Node) Pin() (x, y float64, ok bool) {
	if n.FX == nil || n.FY == nil {
		return 0, 0, false
	}
	return *n.FX, *n.FY, true
}

// PinTo fixes the node at the given position until Unpin.
func (n *Node) PinTo(x, y float64) {
	n.FX, n.FY = &x, &y
	n.X, n.Y = x, y
}

// Unpin releases the pinned position.
func (n *Node) Unpin() { n.FX, n.FY = nil, nil }

// DisplayName returns the node's label, falling back to its uid.
func (n *Node) DisplayName() string {
	if n.Label != "" {
		return n.Label
	}
	return n.UID
}

// Effective returns the node's attributes as of time t: the base record with
// every change at or before t applied in order, later records overwriting
// earlier ones. The receiver is not modified.
func (n *Node) Effective(t float64) Node {
	out := *n
	for i := range n.Changes {
		c := &n.Changes[i]
		if c.Time > t {
			break
		}
		c.apply(&out)
	}
	return out
}

// Change is a scheduled attribute patch: when the timeline reaches Time the
// non-nil fields overwrite the node's attributes.
type Change struct {
	UID  string
	Time float64

	Label  *string
	Group  *string
	Size   *float64
	Color  *string
	Weight *float64
}

func (c *Change) apply(n *Node) {
	if c.Label != nil {
		n.Label = *c.Label
	}
	if c.Group != nil {
		n.Group = *c.Group
	}
	if c.Size != nil {
		n.Size = *c.Size
	}
	if c.Color != nil {
		n.Color = *c.Color
	}
	if c.Weight != nil {
		n.Weight = *c.Weight
	}
}

// Edge connects two resolved nodes. Its UID is derived from the endpoint
// uids, so parallel edges between the same pair collapse to one identity.
type Edge struct {
	UID    string
	Source *Node
	Target *Node

	// Time is the edge's timestamp; nil for static edges.
	Time *float64

	Weight  float64
	Color   string
	Opacity float64
	Size    float64
}

// EdgeUID derives the edge identity from its endpoint uids.
func EdgeUID(source, target string) string {
	return source + "-" + target
}

// Graph owns the resolved node and edge collections for one payload.
type Graph struct {
	Nodes []*Node
	Edges []*Edge

	byUID map[string]*Node
	adj   AdjacencyIndex
}

// New builds a Graph from a decoded payload. Edge records whose endpoints do
// not resolve to known node uids are silently dropped; that is a tolerance
// policy for upstream data glitches, not an error.
func New(p *Payload) *Graph {
	g := &Graph{byUID: make(map[string]*Node, len(p.Nodes))}

	for _, rec := range p.Nodes {
		if rec.UID == "" {
			continue
		}
		if _, dup := g.byUID[rec.UID]; dup {
			continue
		}
		n := rec.node()
		g.byUID[n.UID] = n
		g.Nodes = append(g.Nodes, n)
	}

	for _, rec := range p.Changes {
		if n, ok := g.byUID[rec.UID]; ok {
			n.Changes = append(n.Changes, rec.change())
		}
	}
	for _, n := range g.Nodes {
		sort.SliceStable(n.Changes, func(i, j int) bool {
			return n.Changes[i].Time < n.Changes[j].Time
		})
	}

	for _, rec := range p.Links {
		src, ok := g.byUID[rec.Source]
		if !ok {
			continue
		}
		dst, ok := g.byUID[rec.Target]
		if !ok {
			continue
		}
		g.Edges = append(g.Edges, rec.edge(src, dst))
	}

	g.adj = BuildAdjacency(g.Edges)
	return g
}

// Node looks a node up by uid.
func (g *Graph) Node(uid string) (*Node, bool) {
	n, ok := g.byUID[uid]
	return n, ok
}

// Adjacency returns the index over the full edge set.
func (g *Graph) Adjacency() AdjacencyIndex {
	return g.adj
}

// Groups returns the sorted distinct group names found on nodes and on
// scheduled changes. Group membership discovered only through a change still
// counts, so the filter widget can offer it.
func (g *Graph) Groups() []string {
	seen := make(map[string]struct{})
	for _, n := range g.Nodes {
		if n.Group != "" {
			seen[n.Group] = struct{}{}
		}
		for _, c := range n.Changes {
			if c.Group != nil && *c.Group != "" {
				seen[*c.Group] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// HasProjected reports whether every node carries a projected coordinate,
// which is what the euclidean layout toggle requires.
func (g *Graph) HasProjected() bool {
	if len(g.Nodes) == 0 {
		return false
	}
	for _, n := range g.Nodes {
		if n.Projected == nil {
			return false
		}
	}
	return true
}

// TimeExtent returns the [min, max] timestamp over all edges and changes,
// and false when the graph carries no temporal information at all.
func (g *Graph) TimeExtent() (min, max float64, ok bool) {
	for _, e := range g.Edges {
		if e.Time == nil {
			continue
		}
		if !ok {
			min, max, ok = *e.Time, *e.Time, true
			continue
		}
		if *e.Time < min {
			min = *e.Time
		}
		if *e.Time > max {
			max = *e.Time
		}
	}
	for _, n := range g.Nodes {
		for _, c := range n.Changes {
			if !ok {
				min, max, ok = c.Time, c.Time, true
				continue
			}
			if c.Time < min {
				min = c.Time
			}
			if c.Time > max {
				max = c.Time
			}
		}
	}
	return min, max, ok
}

// MatchLabel reports whether the node's display name contains the query,
// case-insensitively. An empty query never matches.
func (n *Node) MatchLabel(query string) bool {
	if query == "" {
		return false
	}
	return strings.Contains(strings.ToLower(n.DisplayName()), strings.ToLower(query))
}
