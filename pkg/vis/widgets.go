package vis

import (
	"io"

	"github.com/tempograph/tempograph/pkg/export"
	"github.com/tempograph/tempograph/pkg/layout"
)

// Bar is the widget command dispatch. Each control maps onto exactly one
// public viewer operation; the only state held is which layout toggle is
// active, since that pair is mutually exclusive.
type Bar struct {
	v            *Viewer
	activeLayout layout.Mode
}

// NewBar wires a bar to its viewer.
func NewBar(v *Viewer) *Bar {
	return &Bar{v: v, activeLayout: layout.Mode(v.opts.Layout)}
}

// ActiveLayout returns the layout toggle currently selected.
func (b *Bar) ActiveLayout() layout.Mode { return b.activeLayout }

// ZoomIn steps the viewport in.
func (b *Bar) ZoomIn() { b.v.UpdateZoom(ZoomIn) }

// ZoomOut steps the viewport out.
func (b *Bar) ZoomOut() { b.v.UpdateZoom(ZoomOut) }

// ZoomReset restores the identity transform.
func (b *Bar) ZoomReset() { b.v.UpdateZoom(ZoomReset) }

// SelectLayout activates one layout toggle.
func (b *Bar) SelectLayout(mode layout.Mode) {
	if !mode.Valid() {
		return
	}
	b.activeLayout = mode
	b.v.UpdateLayout(mode)
}

// ToggleLayout flips between the two layout modes.
func (b *Bar) ToggleLayout() layout.Mode {
	next := layout.ModeEuclidean
	if b.activeLayout == layout.ModeEuclidean {
		next = layout.ModeForce
	}
	b.SelectLayout(next)
	return next
}

// Filter selects a node group from the dropdown; FilterAll clears.
func (b *Bar) Filter(group string) { b.v.UpdateFilter(group) }

// Search forwards the search box query.
func (b *Bar) Search(query string) { b.v.UpdateSearch(query) }

// PlayPause toggles temporal playback; a no-op without a slider.
func (b *Bar) PlayPause() {
	if s := b.v.Slider(); s != nil {
		s.Toggle()
	}
}

// SaveSVG serializes the current scene with its computed styles into a
// self-contained vector image.
func (b *Bar) SaveSVG(w io.Writer) error {
	return export.SVG(w, b.v.Scene(), b.exportOptions())
}

// SavePNG rasterizes the vector scene through an offscreen canvas. Export
// failures surface to the caller; the path is non-critical and retriable.
func (b *Bar) SavePNG(w io.Writer) error {
	return export.PNG(w, b.v.Scene(), b.exportOptions())
}

func (b *Bar) exportOptions() export.Options {
	t := b.v.Viewport().Transform()
	return export.Options{
		Width:          int(b.v.opts.Width),
		Height:         int(b.v.opts.Height),
		Scale:          t.Scale,
		OffsetX:        t.TX,
		OffsetY:        t.TY,
		LabelSize:      b.v.opts.Widgets.Tooltip.Size,
		HighlightColor: HighlightColor,
	}
}
