// Package layout configures the physics simulation for the two placement
// modes: force (links, charge, centering) and euclidean (externally supplied
// coordinates pulled in through weak axis forces).
package layout

import (
	"github.com/tempograph/tempograph/pkg/graph"
	"github.com/tempograph/tempograph/pkg/physics"
	"github.com/tempograph/tempograph/pkg/scale"
)

// Mode selects the placement strategy.
type Mode string

const (
	// ModeForce is physics-based placement.
	ModeForce Mode = "force"
	// ModeEuclidean places nodes by their projected coordinates.
	ModeEuclidean Mode = "euclidean"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool { return m == ModeForce || m == ModeEuclidean }

const (
	linkDistance    = 50
	chargeStrength  = 200
	centerStrength  = 0.05
	projectStrength = 0.1
	projectInset    = 10

	// dragRestTarget keeps the solver hot while a node is pinned to the
	// pointer; releasing drops the target back to zero so it can settle.
	dragRestTarget = 0.3
)

// Engine owns the simulation configuration for the currently filtered node
// subset. It mutates node positions only, never the collections.
type Engine struct {
	sim    *physics.Solver
	width  float64
	height float64

	mode Mode
	sx   scale.Linear
	sy   scale.Linear
}

// New builds an engine over the given canvas size with a fresh solver.
func New(width, height float64) *Engine {
	return &Engine{
		sim:    physics.NewSolver(),
		width:  width,
		height: height,
		mode:   ModeForce,
	}
}

// Simulation exposes the underlying solver for the render loop to step.
func (e *Engine) Simulation() *physics.Solver { return e.sim }

// Mode returns the currently configured mode.
func (e *Engine) Mode() Mode { return e.mode }

// Configure points the simulation at the filtered subset and installs the
// force set for the mode. Existing positions are reused as the starting
// state, so a mode switch glides rather than resets. All previously named
// forces are cleared first; no stale force survives a reconfiguration.
func (e *Engine) Configure(mode Mode, nodes []*graph.Node, edges []*graph.Edge) {
	if !mode.Valid() {
		mode = ModeForce
	}
	e.mode = mode

	particles := make([]physics.Particle, len(nodes))
	for i, n := range nodes {
		particles[i] = n
	}
	e.sim.SetNodes(particles)
	e.sim.ClearForces()

	switch mode {
	case ModeForce:
		springs := make([]physics.Spring, 0, len(edges))
		for _, edge := range edges {
			springs = append(springs, physics.Spring{
				Source:   edge.Source,
				Target:   edge.Target,
				Strength: edge.Weight,
			})
		}
		e.sim.SetForce("link", physics.Link(springs, linkDistance))
		e.sim.SetForce("charge", physics.ManyBody(chargeStrength))
		e.sim.SetForce("center", physics.Center(e.width/2, e.height/2, centerStrength))

	case ModeEuclidean:
		// Repulsion stays on to declutter overlapping targets; links and
		// centering would fight the fixed coordinates.
		e.sim.SetForce("charge", physics.ManyBody(chargeStrength))
		e.configureProjection(nodes)
		e.sim.SetForce("x", physics.PositionX(projectStrength, func(p physics.Particle) (float64, bool) {
			return e.targetX(p)
		}))
		e.sim.SetForce("y", physics.PositionY(projectStrength, func(p physics.Particle) (float64, bool) {
			return e.targetY(p)
		}))
	}
}

// configureProjection derives independent linear scales mapping the extent
// of the projected coordinates into the canvas, inset on all sides.
func (e *Engine) configureProjection(nodes []*graph.Node) {
	xs := make([]float64, 0, len(nodes))
	ys := make([]float64, 0, len(nodes))
	for _, n := range nodes {
		if n.Projected == nil {
			continue
		}
		xs = append(xs, n.Projected[0])
		ys = append(ys, n.Projected[1])
	}
	x0, x1, ok := scale.Extent(xs)
	if !ok {
		x0, x1 = 0, 1
	}
	y0, y1, ok := scale.Extent(ys)
	if !ok {
		y0, y1 = 0, 1
	}
	e.sx = scale.NewLinear(x0, x1, projectInset, e.width-projectInset)
	e.sy = scale.NewLinear(y0, y1, projectInset, e.height-projectInset)
}

func (e *Engine) targetX(p physics.Particle) (float64, bool) {
	n, ok := p.(*graph.Node)
	if !ok || n.Projected == nil {
		return 0, false
	}
	return e.sx.Map(n.Projected[0]), true
}

func (e *Engine) targetY(p physics.Particle) (float64, bool) {
	n, ok := p.(*graph.Node)
	if !ok || n.Projected == nil {
		return 0, false
	}
	return e.sy.Map(n.Projected[1]), true
}

// ProjectedTarget returns the canvas-space target the euclidean mode pulls a
// node toward, and false when the node carries no projected coordinate.
func (e *Engine) ProjectedTarget(n *graph.Node) (x, y float64, ok bool) {
	if n.Projected == nil {
		return 0, 0, false
	}
	return e.sx.Map(n.Projected[0]), e.sy.Map(n.Projected[1]), true
}

// DragStart pins the node to the pointer position and raises the solver's
// rest target so the rest of the layout keeps adjusting around it.
func (e *Engine) DragStart(n *graph.Node, x, y float64) {
	n.PinTo(x, y)
	e.sim.SetRestTarget(dragRestTarget)
	e.sim.Start(dragRestTarget)
}

// Drag updates the pinned position mid-drag.
func (e *Engine) Drag(n *graph.Node, x, y float64) {
	n.PinTo(x, y)
}

// DragEnd releases the pin and lets the simulation settle again.
func (e *Engine) DragEnd(n *graph.Node) {
	n.Unpin()
	e.sim.SetRestTarget(0)
}
