// Package physics provides the iterative force solver behind the force and
// projected layouts. The Simulation contract is deliberately small so any
// solver can stand in: nodes in, named forces, tick/settle callbacks,
// start/stop with an energy level.
package physics

import "math"

// Body wraps a layout participant with its simulation velocity. Position is
// read and written through the Particle so the caller keeps ownership of the
// underlying node.
type Body struct {
	Particle Particle
	VX, VY   float64
}

// Particle is the minimal view of a node the solver needs.
type Particle interface {
	// Pos returns the current position.
	Pos() (x, y float64)
	// SetPos moves the particle.
	SetPos(x, y float64)
	// Pin returns the pinned position and whether one is set. Pinned
	// particles are snapped there each step and accumulate no velocity.
	Pin() (x, y float64, ok bool)
}

// Force adjusts body velocities (or positions) for one solver step. alpha is
// the simulation's current energy in (0, 1].
type Force func(bodies []*Body, alpha float64)

// Simulation is the abstract solver capability. The concrete implementation
// here is Solver; anything satisfying this interface is substitutable.
type Simulation interface {
	SetNodes(particles []Particle)
	// SetForce registers a named force; nil removes it. Forces run in
	// registration order on every step.
	SetForce(name string, f Force)
	OnTick(fn func())
	OnSettle(fn func())
	// Start (re)starts the simulation at the given energy in (0, 1].
	Start(energy float64)
	Stop()
	// SetRestTarget sets the energy floor the simulation decays toward.
	// Raising it above the settle threshold keeps the solver hot during a
	// drag; restoring zero lets it settle again.
	SetRestTarget(target float64)
	// Step advances one solver iteration and reports whether the
	// simulation is still running afterwards.
	Step() bool
}

const (
	defaultAlphaMin      = 0.001
	defaultAlphaDecay    = 0.0228 // 1 - pow(alphaMin, 1/300), the usual 300-step schedule
	defaultVelocityDecay = 0.6

	initialRadiusStep = 10.0
)

var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// Solver is the default Simulation: cooperative, stepped from the outside,
// never spawning its own goroutine.
type Solver struct {
	bodies []*Body

	forceNames []string
	forces     map[string]Force

	alpha       float64
	alphaMin    float64
	alphaDecay  float64
	alphaTarget float64
	velDecay    float64

	running  bool
	onTick   func()
	onSettle func()
}

// NewSolver returns a solver with the standard decay schedule.
func NewSolver() *Solver {
	return &Solver{
		forces:     make(map[string]Force),
		alphaMin:   defaultAlphaMin,
		alphaDecay: defaultAlphaDecay,
		velDecay:   defaultVelocityDecay,
	}
}

// SetNodes replaces the simulated set. Velocities reset; positions are kept
// so a mode switch continues from the current arrangement. Particles still
// sitting at the origin are spread on a phyllotaxis spiral so the first
// steps do not start from a singular stack.
func (s *Solver) SetNodes(particles []Particle) {
	s.bodies = make([]*Body, len(particles))
	for i, p := range particles {
		s.bodies[i] = &Body{Particle: p}
		x, y := p.Pos()
		if x == 0 && y == 0 {
			r := initialRadiusStep * math.Sqrt(0.5+float64(i))
			a := float64(i) * goldenAngle
			p.SetPos(r*math.Cos(a), r*math.Sin(a))
		}
	}
}

// Bodies exposes the current body set to forces that need construction-time
// access (the link force resolves endpoints against it).
func (s *Solver) Bodies() []*Body {
	return s.bodies
}

// SetForce registers or clears a named force.
func (s *Solver) SetForce(name string, f Force) {
	_, exists := s.forces[name]
	if f == nil {
		if exists {
			delete(s.forces, name)
			for i, n := range s.forceNames {
				if n == name {
					s.forceNames = append(s.forceNames[:i], s.forceNames[i+1:]...)
					break
				}
			}
		}
		return
	}
	if !exists {
		s.forceNames = append(s.forceNames, name)
	}
	s.forces[name] = f
}

// ClearForces removes every registered force. Switching data source or
// layout goes through here first so no stale force survives the swap.
func (s *Solver) ClearForces() {
	s.forceNames = nil
	s.forces = make(map[string]Force)
}

// OnTick registers the per-step callback, invoked after integration.
func (s *Solver) OnTick(fn func()) { s.onTick = fn }

// OnSettle registers the callback invoked once when energy drops below the
// settle threshold.
func (s *Solver) OnSettle(fn func()) { s.onSettle = fn }

// Start (re)starts the simulation at the given energy.
func (s *Solver) Start(energy float64) {
	if energy <= 0 {
		energy = 1
	}
	s.alpha = math.Min(energy, 1)
	s.running = true
}

// Stop halts the simulation without touching positions.
func (s *Solver) Stop() { s.running = false }

// Running reports whether the solver still has work.
func (s *Solver) Running() bool { return s.running }

// Alpha returns the current energy.
func (s *Solver) Alpha() float64 { return s.alpha }

// SetRestTarget sets the energy floor the decay converges to.
func (s *Solver) SetRestTarget(target float64) {
	s.alphaTarget = target
	if target > s.alphaMin && !s.running {
		// Re-arm so a drag on a settled scene wakes the solver.
		s.running = true
		if s.alpha < target {
			s.alpha = target
		}
	}
}

// Step advances one iteration: decay energy, apply forces in registration
// order, integrate velocities, then fire the tick callback. Returns false
// once the simulation has settled.
func (s *Solver) Step() bool {
	if !s.running {
		return false
	}

	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay

	for _, name := range s.forceNames {
		s.forces[name](s.bodies, s.alpha)
	}

	for _, b := range s.bodies {
		if px, py, ok := b.Particle.Pin(); ok {
			b.VX, b.VY = 0, 0
			b.Particle.SetPos(px, py)
			continue
		}
		b.VX *= s.velDecay
		b.VY *= s.velDecay
		x, y := b.Particle.Pos()
		b.Particle.SetPos(x+b.VX, y+b.VY)
	}

	if s.onTick != nil {
		s.onTick()
	}

	if s.alpha < s.alphaMin && s.alphaTarget < s.alphaMin {
		s.running = false
		if s.onSettle != nil {
			s.onSettle()
		}
	}
	return s.running
}
