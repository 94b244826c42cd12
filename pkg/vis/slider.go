package vis

import (
	"time"

	"github.com/tempograph/tempograph/pkg/loop"
	"github.com/tempograph/tempograph/pkg/temporal"
)

// Slider is the temporal control: one continuous position driven by the
// primary handle, programmatic stepping, and the three auxiliary handles
// adjusting the window deltas. It owns the TimeWindow and pushes read-only
// snapshots into the renderer.
type Slider struct {
	v       *Viewer
	control *temporal.Control
	player  *temporal.Player

	interval time.Duration
	ticker   *loop.Ticker
}

func newSlider(v *Viewer) *Slider {
	anim := v.opts.Widgets.Animation
	agg := v.opts.Widgets.Aggregation

	lo, hi, ok := v.g.TimeExtent()
	if !ok {
		lo, hi = 0, 1
	}
	if anim.Start != nil {
		lo = *anim.Start
	}
	if anim.End != nil {
		hi = *anim.End
	}
	if hi < lo {
		hi = lo
	}
	domain := temporal.Span{Min: lo, Max: hi}

	control := temporal.NewControl(domain, agg.Past, agg.Aggregation, agg.Future)
	return &Slider{
		v:        v,
		control:  control,
		player:   temporal.NewPlayer(control, anim.Steps),
		interval: animationInterval(anim),
	}
}

func animationInterval(anim AnimationWidget) time.Duration {
	unit := time.Millisecond
	switch anim.Unit {
	case "s", "seconds":
		unit = time.Second
	case "m", "minutes":
		unit = time.Minute
	}
	d := time.Duration(anim.Speed) * unit
	if d <= 0 {
		d = 100 * time.Millisecond
	}
	return d
}

// Window returns the current snapshot.
func (s *Slider) Window() temporal.Window { return s.control.Window() }

// Domain returns the timeline span.
func (s *Slider) Domain() temporal.Span { return s.control.Domain() }

// Playing reports whether playback is running.
func (s *Slider) Playing() bool { return s.player.Playing() }

// SetTime drags the primary handle.
func (s *Slider) SetTime(t float64) {
	s.v.lp.Invoke(func() { s.push(s.control.SetTime(t)) })
}

// PastUpdate drags the past handle.
func (s *Slider) PastUpdate(value float64) {
	s.v.lp.Invoke(func() { s.push(s.control.PastUpdate(value)) })
}

// AggregationUpdate drags the aggregation handle.
func (s *Slider) AggregationUpdate(value float64) {
	s.v.lp.Invoke(func() { s.push(s.control.AggregationUpdate(value)) })
}

// FutureUpdate drags the future handle.
func (s *Slider) FutureUpdate(value float64) {
	s.v.lp.Invoke(func() { s.push(s.control.FutureUpdate(value)) })
}

// Play starts the repeating advance timer. Resuming continues from the
// current position.
func (s *Slider) Play() {
	s.v.lp.Invoke(func() {
		if s.player.Playing() {
			return
		}
		s.player.Play()
		if s.ticker == nil {
			s.ticker = s.v.lp.Every(s.interval, s.tick)
		}
	})
}

// Pause cancels the timer without resetting the position.
func (s *Slider) Pause() {
	s.v.lp.Invoke(func() {
		s.player.Pause()
		s.stopTicker()
	})
}

// Toggle flips playback.
func (s *Slider) Toggle() {
	s.v.lp.Invoke(func() {
		if s.player.Playing() {
			s.player.Pause()
			s.stopTicker()
			return
		}
		s.player.Play()
		if s.ticker == nil {
			s.ticker = s.v.lp.Every(s.interval, s.tick)
		}
	})
}

// tick runs on the loop once per interval while playing.
func (s *Slider) tick() {
	win, moved := s.player.Tick()
	if moved {
		s.push(win)
	}
	if !s.player.Playing() {
		// Reached the domain end: the player reset itself, the timer goes.
		s.stopTicker()
	}
}

func (s *Slider) stopTicker() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
}

// push hands a new snapshot to the renderer.
func (s *Slider) push(win temporal.Window) {
	s.v.state.Window = win
	s.v.render()
}
