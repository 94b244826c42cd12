package physics

import (
	"math"
	"testing"
)

// dot is a minimal test particle.
type dot struct {
	x, y   float64
	px, py *float64
}

func (d *dot) Pos() (float64, float64) { return d.x, d.y }
func (d *dot) SetPos(x, y float64)     { d.x, d.y = x, y }
func (d *dot) Pin() (float64, float64, bool) {
	if d.px == nil {
		return 0, 0, false
	}
	return *d.px, *d.py, true
}
func (d *dot) pinTo(x, y float64) { d.px, d.py = &x, &y }

func TestSolver_SpreadsOriginStack(t *testing.T) {
	s := NewSolver()
	a := &dot{}
	b := &dot{}
	c := &dot{x: 5, y: 5}
	s.SetNodes([]Particle{a, b, c})

	if a.x == 0 && a.y == 0 {
		t.Error("particle left at origin")
	}
	if a.x == b.x && a.y == b.y {
		t.Error("origin particles placed on top of each other")
	}
	if c.x != 5 || c.y != 5 {
		t.Error("positioned particle must keep its position")
	}
}

func TestSolver_SettlesAndFiresCallbacks(t *testing.T) {
	s := NewSolver()
	s.SetNodes([]Particle{&dot{x: 1, y: 1}})

	ticks := 0
	settled := 0
	s.OnTick(func() { ticks++ })
	s.OnSettle(func() { settled++ })

	s.Start(1)
	steps := 0
	for s.Step() {
		steps++
		if steps > 10000 {
			t.Fatal("solver never settled")
		}
	}

	if settled != 1 {
		t.Errorf("settle fired %d times, want 1", settled)
	}
	if ticks != steps+1 {
		t.Errorf("ticks = %d for %d running steps", ticks, steps)
	}
	if s.Running() {
		t.Error("solver still running after settle")
	}
	// The standard decay schedule settles in roughly 300 steps.
	if steps < 200 || steps > 400 {
		t.Errorf("settled after %d steps, expected around 300", steps)
	}
}

func TestSolver_StepWhenStopped(t *testing.T) {
	s := NewSolver()
	s.SetNodes([]Particle{&dot{x: 1}})
	if s.Step() {
		t.Error("Step on a stopped solver reported running")
	}
}

func TestSolver_RestTargetKeepsItHot(t *testing.T) {
	s := NewSolver()
	s.SetNodes([]Particle{&dot{x: 1, y: 1}})
	s.Start(1)
	for s.Step() {
	}

	// Raising the rest target on a settled solver wakes it.
	s.SetRestTarget(0.3)
	if !s.Running() {
		t.Fatal("rest target above threshold should re-arm the solver")
	}
	for i := 0; i < 1000; i++ {
		if !s.Step() {
			t.Fatal("solver settled while the rest target was raised")
		}
	}
	if s.Alpha() < 0.2 {
		t.Errorf("alpha decayed to %v despite rest target 0.3", s.Alpha())
	}

	// Dropping the target lets it settle again.
	s.SetRestTarget(0)
	for s.Step() {
	}
	if s.Running() {
		t.Error("solver failed to settle after rest target cleared")
	}
}

func TestSolver_PinnedParticleStaysPut(t *testing.T) {
	s := NewSolver()
	a := &dot{x: 10, y: 0}
	b := &dot{x: -10, y: 0}
	a.pinTo(10, 0)
	s.SetNodes([]Particle{a, b})
	s.SetForce("charge", ManyBody(200))

	s.Start(1)
	for i := 0; i < 50 && s.Step(); i++ {
	}

	if a.x != 10 || a.y != 0 {
		t.Errorf("pinned particle moved to %v,%v", a.x, a.y)
	}
	if b.x == -10 && b.y == 0 {
		t.Error("free particle never moved")
	}
}

func TestSolver_ForceOrderAndRemoval(t *testing.T) {
	s := NewSolver()
	s.SetNodes([]Particle{&dot{x: 1}})

	var order []string
	mk := func(name string) Force {
		return func([]*Body, float64) { order = append(order, name) }
	}
	s.SetForce("b", mk("b"))
	s.SetForce("a", mk("a"))
	s.SetForce("c", mk("c"))
	s.Start(1)
	s.Step()
	if len(order) != 3 || order[0] != "b" || order[1] != "a" || order[2] != "c" {
		t.Errorf("forces ran as %v, want registration order b,a,c", order)
	}

	order = nil
	s.SetForce("a", nil)
	s.Step()
	if len(order) != 2 || order[0] != "b" || order[1] != "c" {
		t.Errorf("after removal forces ran as %v", order)
	}

	order = nil
	s.ClearForces()
	s.Step()
	if len(order) != 0 {
		t.Errorf("forces survived ClearForces: %v", order)
	}
}

func TestLink_PullsTowardDistance(t *testing.T) {
	s := NewSolver()
	a := &dot{x: -100, y: 0}
	b := &dot{x: 100, y: 0}
	s.SetNodes([]Particle{a, b})
	s.SetForce("link", Link([]Spring{{Source: a, Target: b}}, 50))

	s.Start(1)
	for s.Step() {
	}

	dist := math.Hypot(b.x-a.x, b.y-a.y)
	if math.Abs(dist-50) > 15 {
		t.Errorf("settled distance = %v, want near 50", dist)
	}
}

func TestManyBody_PushesApart(t *testing.T) {
	s := NewSolver()
	a := &dot{x: -1, y: 0}
	b := &dot{x: 1, y: 0}
	s.SetNodes([]Particle{a, b})
	s.SetForce("charge", ManyBody(200))

	s.Start(1)
	for i := 0; i < 100 && s.Step(); i++ {
	}

	if dist := math.Hypot(b.x-a.x, b.y-a.y); dist <= 2 {
		t.Errorf("repulsion did not separate the pair: distance %v", dist)
	}
}

func TestCenter_PullsToward(t *testing.T) {
	s := NewSolver()
	a := &dot{x: 500, y: 500}
	s.SetNodes([]Particle{a})
	s.SetForce("center", Center(100, 100, 0.1))

	s.Start(1)
	for s.Step() {
	}

	if math.Hypot(a.x-100, a.y-100) > math.Hypot(500-100, 500-100) {
		t.Errorf("particle drifted away from center: %v,%v", a.x, a.y)
	}
}

func TestPositionForces_TargetedOnly(t *testing.T) {
	s := NewSolver()
	a := &dot{x: 10, y: 10}
	b := &dot{x: 20, y: 20}
	s.SetNodes([]Particle{a, b})

	targets := map[Particle][2]float64{a: {100, 200}}
	lookup := func(axis int) func(Particle) (float64, bool) {
		return func(p Particle) (float64, bool) {
			t, ok := targets[p]
			return t[axis], ok
		}
	}
	s.SetForce("x", PositionX(0.5, lookup(0)))
	s.SetForce("y", PositionY(0.5, lookup(1)))

	s.Start(1)
	for s.Step() {
	}

	if math.Abs(a.x-100) > 20 || math.Abs(a.y-200) > 20 {
		t.Errorf("targeted particle at %v,%v, want near 100,200", a.x, a.y)
	}
	if b.x != 20 || b.y != 20 {
		t.Errorf("untargeted particle moved to %v,%v", b.x, b.y)
	}
}
