package temporal

// Player steps the primary handle across the domain in a fixed number of
// increments. It holds no timer of its own: the animation driver calls Tick
// once per interval, so the player stays inert and testable. Pausing simply
// stops calling Tick; position is kept.
type Player struct {
	control *Control
	steps   int
	playing bool
}

// NewPlayer wraps a control with a step schedule. steps values below 1 fall
// back to a single step spanning the whole domain.
func NewPlayer(control *Control, steps int) *Player {
	if steps < 1 {
		steps = 1
	}
	return &Player{control: control, steps: steps}
}

// Playing reports whether the player is running.
func (p *Player) Playing() bool { return p.playing }

// Play starts advancing. Resuming after a pause continues from the current
// position.
func (p *Player) Play() { p.playing = true }

// Pause stops advancing without resetting the position.
func (p *Player) Pause() { p.playing = false }

// Toggle flips between playing and paused.
func (p *Player) Toggle() {
	p.playing = !p.playing
}

// Tick advances the primary handle by one increment of domainWidth/steps.
// Once advancing would push past the domain end the player stops itself and
// resets the handle to the domain start. It returns the new window and
// whether the position moved.
func (p *Player) Tick() (Window, bool) {
	if !p.playing {
		return p.control.Window(), false
	}
	domain := p.control.Domain()
	step := domain.Width() / float64(p.steps)
	next := p.control.Window().Time + step
	if next > domain.Max {
		p.playing = false
		return p.control.SetTime(domain.Min), true
	}
	return p.control.SetTime(next), true
}
