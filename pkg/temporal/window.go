// Package temporal implements the time-window arithmetic behind the slider:
// the {past, time, aggregated, future} markers, the delta updates driven by
// the auxiliary handles and the edge classification they imply.
package temporal

// Window is a read-only snapshot of the four ordered markers. The contract
// Past <= Time <= Aggregated <= Future holds for every Window produced here.
type Window struct {
	Past       float64
	Time       float64
	Aggregated float64
	Future     float64
}

// Valid reports whether the marker ordering contract holds.
func (w Window) Valid() bool {
	return w.Past <= w.Time && w.Time <= w.Aggregated && w.Aggregated <= w.Future
}

// Contains reports whether t falls inside the visible range [Past, Future].
func (w Window) Contains(t float64) bool {
	return t >= w.Past && t <= w.Future
}

// Class is the temporal classification of a timestamped edge.
type Class uint8

const (
	// ClassDropped marks edges outside [past, future]; they are not drawn.
	ClassDropped Class = iota
	// ClassActive marks edges inside the inclusive aggregation window
	// [time, aggregated]; they draw solid.
	ClassActive
	// ClassFaded marks lookout edges in [past, time) or (aggregated,
	// future]; they draw as faded historical or upcoming context.
	ClassFaded
)

// Classify places a timestamp into the window. The aggregation window is
// inclusive on both ends; the lookout ranges are half-open against it so no
// timestamp ever lands in two classes.
func (w Window) Classify(t float64) Class {
	if !w.Contains(t) {
		return ClassDropped
	}
	if t >= w.Time && t <= w.Aggregated {
		return ClassActive
	}
	return ClassFaded
}

// Span is the timeline domain the slider operates over.
type Span struct {
	Min, Max float64
}

// Width returns the domain width.
func (s Span) Width() float64 { return s.Max - s.Min }

// Clamp restricts t to the domain.
func (s Span) Clamp(t float64) float64 {
	if t < s.Min {
		return s.Min
	}
	if t > s.Max {
		return s.Max
	}
	return t
}

// Control maintains the single continuous position variable and the three
// window deltas. Every mutator recomputes and returns the full Window so the
// caller can push the snapshot downstream.
type Control struct {
	domain Span

	pastDelta   float64
	aggDelta    float64
	futureDelta float64

	win Window
}

// NewControl builds a control over the given domain with initial deltas.
// Negative deltas are treated as zero. The position starts at the domain
// minimum.
func NewControl(domain Span, pastDelta, aggDelta, futureDelta float64) *Control {
	c := &Control{
		domain:      domain,
		pastDelta:   max0(pastDelta),
		aggDelta:    max0(aggDelta),
		futureDelta: max0(futureDelta),
	}
	c.SetTime(domain.Min)
	return c
}

// Domain returns the timeline span.
func (c *Control) Domain() Span { return c.domain }

// Window returns the current snapshot.
func (c *Control) Window() Window { return c.win }

// SetTime moves the primary handle: clamp to the domain, then derive the
// auxiliary markers from the deltas, clamping each at the domain edges.
func (c *Control) SetTime(t float64) Window {
	t = c.domain.Clamp(t)
	c.win = Window{
		Past:       maxf(c.domain.Min, t-c.pastDelta),
		Time:       t,
		Aggregated: minf(c.domain.Max, t+c.aggDelta),
		Future:     minf(c.domain.Max, t+c.aggDelta+c.futureDelta),
	}
	return c.win
}

// PastUpdate drags the past handle to value. The delta is the distance back
// from the primary handle; the handle never crosses it.
func (c *Control) PastUpdate(value float64) Window {
	c.pastDelta = max0(c.win.Time - value)
	return c.SetTime(c.win.Time)
}

// AggregationUpdate drags the aggregation handle to value. The handle stays
// at or after the primary handle.
func (c *Control) AggregationUpdate(value float64) Window {
	c.aggDelta = max0(value - c.win.Time)
	return c.SetTime(c.win.Time)
}

// FutureUpdate drags the future handle to value. The future delta is the
// distance beyond the aggregation handle; it never goes negative, so the
// future handle cannot cross the aggregation handle either.
func (c *Control) FutureUpdate(value float64) Window {
	c.futureDelta = max0(value - c.win.Time - c.aggDelta)
	return c.SetTime(c.win.Time)
}

// Deltas returns the current (past, aggregation, future) deltas.
func (c *Control) Deltas() (past, agg, future float64) {
	return c.pastDelta, c.aggDelta, c.futureDelta
}

func max0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
