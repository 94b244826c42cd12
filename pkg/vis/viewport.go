package vis

import (
	"math"

	"github.com/tempograph/tempograph/pkg/scale"
)

// zoomStepFactor is the multiplicative change of the discrete zoom buttons.
const zoomStepFactor = 1.2

// Transform is the single scale+translate applied over the whole scene.
type Transform struct {
	Scale  float64
	TX, TY float64
}

// Identity returns the neutral transform.
func Identity() Transform { return Transform{Scale: 1} }

// Apply maps a world coordinate to screen space.
func (t Transform) Apply(x, y float64) (sx, sy float64) {
	return x*t.Scale + t.TX, y*t.Scale + t.TY
}

// Invert maps a screen coordinate back to world space.
func (t Transform) Invert(sx, sy float64) (x, y float64) {
	return (sx - t.TX) / t.Scale, (sy - t.TY) / t.Scale
}

// Viewport owns the zoom/pan transform, bounded to a scale range.
type Viewport struct {
	t        Transform
	min, max float64
	width    float64
	height   float64
}

// NewViewport builds a viewport over the canvas with the given scale bounds.
func NewViewport(width, height, minScale, maxScale float64) *Viewport {
	return &Viewport{
		t:      Identity(),
		min:    minScale,
		max:    maxScale,
		width:  width,
		height: height,
	}
}

// Transform returns the current transform.
func (v *Viewport) Transform() Transform { return v.t }

// Reset restores the identity transform.
func (v *Viewport) Reset() { v.t = Identity() }

// StepIn zooms in by one step, anchored at the canvas center.
func (v *Viewport) StepIn() { v.zoomAt(zoomStepFactor, v.width/2, v.height/2) }

// StepOut zooms out by one step, anchored at the canvas center.
func (v *Viewport) StepOut() { v.zoomAt(1/zoomStepFactor, v.width/2, v.height/2) }

// Wheel applies a free-zoom wheel delta anchored at the pointer. The delta
// is damped so a single notch never jumps more than half a step.
func (v *Viewport) Wheel(deltaY, mx, my float64) {
	factor := 1.0 - math.Max(-0.5, math.Min(0.5, deltaY/500.0))
	v.zoomAt(factor, mx, my)
}

// Pan translates the scene by a screen-space delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.t.TX += dx
	v.t.TY += dy
}

// zoomAt rescales about an anchor point so the world position under the
// anchor stays put.
func (v *Viewport) zoomAt(factor, ax, ay float64) {
	newScale := scale.Clamp(v.t.Scale*factor, v.min, v.max)
	wx, wy := v.t.Invert(ax, ay)
	v.t.Scale = newScale
	v.t.TX = ax - wx*newScale
	v.t.TY = ay - wy*newScale
}

// Fit frames the given bounds with padding on all sides.
func (v *Viewport) Fit(minX, minY, maxX, maxY, padding float64) {
	gw := maxX - minX
	if gw <= 0 {
		gw = 1
	}
	gh := maxY - minY
	if gh <= 0 {
		gh = 1
	}
	s := (v.width - 2*padding) / gw
	if sy := (v.height - 2*padding) / gh; sy < s {
		s = sy
	}
	if s <= 0 {
		s = 1
	}
	s = scale.Clamp(s, v.min, v.max)
	v.t.Scale = s
	v.t.TX = v.width*0.5 - (minX+gw*0.5)*s
	v.t.TY = v.height*0.5 - (minY+gh*0.5)*s
}

// Focus centers the viewport on a world position at the given scale.
func (v *Viewport) Focus(x, y, atScale float64) {
	s := scale.Clamp(atScale, v.min, v.max)
	v.t.Scale = s
	v.t.TX = v.width*0.5 - x*s
	v.t.TY = v.height*0.5 - y*s
}
