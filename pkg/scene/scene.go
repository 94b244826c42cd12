// Package scene owns the visual elements mirroring the renderer's node and
// edge collections. Reconciliation is keyed by uid; entering and exiting
// elements animate through short radius, color and opacity transitions
// instead of popping in and out.
package scene

// TransitionSteps is how many Advance calls an enter/exit ramp spans. At the
// usual frame cadence this is roughly a third of a second.
const TransitionSteps = 20

// NodeSpec is the desired visual state for one node, produced by the
// renderer on every pass.
type NodeSpec struct {
	UID    string
	Label  string
	Group  string
	Radius float64
	Color  string
	X, Y   float64
}

// EdgeSpec is the desired visual state for one edge.
type EdgeSpec struct {
	UID       string
	SourceUID string
	TargetUID string
	Width     float64
	Color     string
	Opacity   float64
	// Faded marks observed-but-inactive edges inside the aggregation
	// lookout; they render at context opacity.
	Faded bool
}

// NodeElement is a live scene node. Radius and color ease toward their
// targets on a shared ramp; an exiting element eases to radius zero and is
// then dropped.
type NodeElement struct {
	UID    string
	Label  string
	Group  string
	X, Y   float64
	Radius float64
	Color  string

	TargetRadius float64
	TargetColor  string

	Highlighted bool
	Searched    bool

	exiting bool
	step    int
	fromR   float64
	fromC   string
}

// Exiting reports whether the element is on its way out.
func (n *NodeElement) Exiting() bool { return n.exiting }

// EdgeElement is a live scene edge. Opacity eases toward TargetOpacity.
type EdgeElement struct {
	UID       string
	SourceUID string
	TargetUID string
	Width     float64
	Color     string
	Opacity   float64
	Faded     bool

	TargetOpacity float64

	Highlighted bool

	exiting bool
	step    int
	fromO   float64
}

// Exiting reports whether the element is on its way out.
func (e *EdgeElement) Exiting() bool { return e.exiting }

// Scene reconciles elements against desired specs and advances their
// transitions. It is a passive container: nothing here runs on its own.
type Scene struct {
	nodes     map[string]*NodeElement
	edges     map[string]*EdgeElement
	nodeOrder []string
	edgeOrder []string

	// edgesHidden suppresses edge output (and highlight) during transient
	// states; Settle restores it.
	edgesHidden bool
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{
		nodes: make(map[string]*NodeElement),
		edges: make(map[string]*EdgeElement),
	}
}

// ApplyNodes reconciles the node elements against the desired specs and
// returns the patches that were carried out. Entering nodes start at radius
// zero and ease up; exiting nodes ease to zero before removal; surviving
// nodes retarget size and color.
func (s *Scene) ApplyNodes(specs []NodeSpec) []Patch {
	desired := make([]string, len(specs))
	byUID := make(map[string]NodeSpec, len(specs))
	for i, sp := range specs {
		desired[i] = sp.UID
		byUID[sp.UID] = sp
	}

	patches := DiffKeys(s.liveNodeKeys(), desired)
	for _, p := range patches {
		switch p.Op {
		case OpCreate:
			sp := byUID[p.UID]
			if el, ok := s.nodes[p.UID]; ok {
				// Re-entering while still easing out: reverse in place.
				el.exiting = false
				el.retarget(sp)
				continue
			}
			el := &NodeElement{
				UID:          sp.UID,
				Label:        sp.Label,
				Group:        sp.Group,
				X:            sp.X,
				Y:            sp.Y,
				Radius:       0,
				Color:        sp.Color,
				TargetRadius: sp.Radius,
				TargetColor:  sp.Color,
				fromC:        sp.Color,
			}
			s.nodes[sp.UID] = el
			s.nodeOrder = append(s.nodeOrder, sp.UID)
		case OpUpdate:
			s.nodes[p.UID].retarget(byUID[p.UID])
		case OpDestroy:
			el := s.nodes[p.UID]
			if !el.exiting {
				el.exiting = true
				el.step = 0
				el.fromR = el.Radius
				el.fromC = el.Color
				el.TargetRadius = 0
			}
		}
	}
	return patches
}

func (n *NodeElement) retarget(sp NodeSpec) {
	n.Label = sp.Label
	n.Group = sp.Group
	if sp.Radius != n.TargetRadius || sp.Color != n.TargetColor {
		n.step = 0
		n.fromR = n.Radius
		n.fromC = n.Color
		n.TargetRadius = sp.Radius
		n.TargetColor = sp.Color
	}
}

// ApplyEdges reconciles the edge elements. Edges enter and exit through an
// opacity ramp; there is no size transition.
func (s *Scene) ApplyEdges(specs []EdgeSpec) []Patch {
	desired := make([]string, len(specs))
	byUID := make(map[string]EdgeSpec, len(specs))
	for i, sp := range specs {
		desired[i] = sp.UID
		byUID[sp.UID] = sp
	}

	patches := DiffKeys(s.liveEdgeKeys(), desired)
	for _, p := range patches {
		switch p.Op {
		case OpCreate:
			sp := byUID[p.UID]
			if el, ok := s.edges[p.UID]; ok {
				el.exiting = false
				el.retarget(sp)
				continue
			}
			el := &EdgeElement{
				UID:           sp.UID,
				SourceUID:     sp.SourceUID,
				TargetUID:     sp.TargetUID,
				Width:         sp.Width,
				Color:         sp.Color,
				Opacity:       0,
				Faded:         sp.Faded,
				TargetOpacity: sp.Opacity,
			}
			s.edges[sp.UID] = el
			s.edgeOrder = append(s.edgeOrder, sp.UID)
		case OpUpdate:
			s.edges[p.UID].retarget(byUID[p.UID])
		case OpDestroy:
			el := s.edges[p.UID]
			if !el.exiting {
				el.exiting = true
				el.step = 0
				el.fromO = el.Opacity
				el.TargetOpacity = 0
			}
		}
	}
	return patches
}

func (e *EdgeElement) retarget(sp EdgeSpec) {
	e.Width = sp.Width
	e.Color = sp.Color
	e.Faded = sp.Faded
	if sp.Opacity != e.TargetOpacity {
		e.step = 0
		e.fromO = e.Opacity
		e.TargetOpacity = sp.Opacity
	}
}

// Advance moves every active transition one step and drops elements that
// finished easing out. Calling it with nothing in flight changes nothing,
// so repeated passes over a settled scene are free.
func (s *Scene) Advance() {
	keepNodes := s.nodeOrder[:0]
	for _, uid := range s.nodeOrder {
		el := s.nodes[uid]
		if el.Radius != el.TargetRadius || el.Color != el.TargetColor {
			el.step++
			t := float64(el.step) / TransitionSteps
			if t >= 1 {
				el.Radius = el.TargetRadius
				el.Color = el.TargetColor
			} else {
				el.Radius = el.fromR + (el.TargetRadius-el.fromR)*t
				if el.fromC != el.TargetColor {
					el.Color = lerpHex(el.fromC, el.TargetColor, t)
				}
			}
		}
		if el.exiting && el.Radius == 0 {
			delete(s.nodes, uid)
			continue
		}
		keepNodes = append(keepNodes, uid)
	}
	s.nodeOrder = keepNodes

	keepEdges := s.edgeOrder[:0]
	for _, uid := range s.edgeOrder {
		el := s.edges[uid]
		if el.Opacity != el.TargetOpacity {
			el.step++
			t := float64(el.step) / TransitionSteps
			if t >= 1 {
				el.Opacity = el.TargetOpacity
			} else {
				el.Opacity = el.fromO + (el.TargetOpacity-el.fromO)*t
			}
		}
		if el.exiting && el.Opacity == 0 {
			delete(s.edges, uid)
			continue
		}
		keepEdges = append(keepEdges, uid)
	}
	s.edgeOrder = keepEdges
}

// SetPosition moves a node element; called from the simulation tick.
func (s *Scene) SetPosition(uid string, x, y float64) {
	if el, ok := s.nodes[uid]; ok {
		el.X = x
		el.Y = y
	}
}

// Node returns the element for uid, if present.
func (s *Scene) Node(uid string) (*NodeElement, bool) {
	el, ok := s.nodes[uid]
	return el, ok
}

// Edge returns the element for uid, if present.
func (s *Scene) Edge(uid string) (*EdgeElement, bool) {
	el, ok := s.edges[uid]
	return el, ok
}

// Nodes returns the node elements in insertion order, exiting ones included.
func (s *Scene) Nodes() []*NodeElement {
	out := make([]*NodeElement, 0, len(s.nodeOrder))
	for _, uid := range s.nodeOrder {
		out = append(out, s.nodes[uid])
	}
	return out
}

// Edges returns the edge elements in insertion order, exiting ones included.
func (s *Scene) Edges() []*EdgeElement {
	out := make([]*EdgeElement, 0, len(s.edgeOrder))
	for _, uid := range s.edgeOrder {
		out = append(out, s.edges[uid])
	}
	return out
}

// liveNodeKeys lists uids not currently easing out; exiting elements do not
// count as present for reconciliation, so a bounced uid re-enters cleanly.
func (s *Scene) liveNodeKeys() []string {
	keys := make([]string, 0, len(s.nodeOrder))
	for _, uid := range s.nodeOrder {
		if !s.nodes[uid].exiting {
			keys = append(keys, uid)
		}
	}
	return keys
}

func (s *Scene) liveEdgeKeys() []string {
	keys := make([]string, 0, len(s.edgeOrder))
	for _, uid := range s.edgeOrder {
		if !s.edges[uid].exiting {
			keys = append(keys, uid)
		}
	}
	return keys
}

// HideEdges suppresses edge visibility during transient states such as an
// in-flight drag relayout. Highlighting is suppressed while hidden to avoid
// flicker.
func (s *Scene) HideEdges() { s.edgesHidden = true }

// EdgesHidden reports the transient hidden state.
func (s *Scene) EdgesHidden() bool { return s.edgesHidden }

// Settle is the terminal event after layout convergence: edge visibility
// returns to its default active state from any transient fade.
func (s *Scene) Settle() {
	s.edgesHidden = false
	for _, uid := range s.edgeOrder {
		el := s.edges[uid]
		if el.exiting {
			continue
		}
		if el.Opacity != el.TargetOpacity {
			el.Opacity = el.TargetOpacity
			el.step = 0
		}
	}
}

// ClearHighlights drops every highlight flag; searched flags survive until
// cleared by a new search.
func (s *Scene) ClearHighlights() {
	for _, el := range s.nodes {
		el.Highlighted = false
	}
	for _, el := range s.edges {
		el.Highlighted = false
	}
}
