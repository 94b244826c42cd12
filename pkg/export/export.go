// Package export serializes a scene into static images: a self-contained
// SVG with the computed visual styles, and a PNG rasterization of the same
// drawing through an offscreen canvas.
package export

import (
	"fmt"
	"io"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"

	"github.com/tempograph/tempograph/pkg/scene"
)

// Options frames the drawing. Scale and offsets mirror the viewport
// transform at export time so the image shows what the user sees.
type Options struct {
	Width, Height int
	Scale         float64
	OffsetX       float64
	OffsetY       float64
	LabelSize     float64

	// Background fills the canvas when non-empty; SVG output stays
	// transparent without it.
	Background string

	// HighlightColor strokes the ring around highlighted and searched
	// nodes. Empty falls back to the node's own color.
	HighlightColor string
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 600
	}
	if o.Scale <= 0 {
		o.Scale = 1
	}
	if o.LabelSize <= 0 {
		o.LabelSize = 12
	}
	return o
}

func (o Options) apply(x, y float64) (float64, float64) {
	return x*o.Scale + o.OffsetX, y*o.Scale + o.OffsetY
}

func (o Options) ringColor(n *scene.NodeElement) string {
	if o.HighlightColor != "" {
		return o.HighlightColor
	}
	return n.Color
}

// SVG writes the scene as a vector image.
func SVG(w io.Writer, s *scene.Scene, opts Options) error {
	o := opts.withDefaults()
	canvas := svg.New(w)
	canvas.Start(o.Width, o.Height)
	if o.Background != "" {
		canvas.Rect(0, 0, o.Width, o.Height, "fill:"+o.Background)
	}

	for _, e := range s.Edges() {
		src, ok := s.Node(e.SourceUID)
		if !ok {
			continue
		}
		dst, ok := s.Node(e.TargetUID)
		if !ok {
			continue
		}
		x1, y1 := o.apply(src.X, src.Y)
		x2, y2 := o.apply(dst.X, dst.Y)
		style := fmt.Sprintf("stroke:%s;stroke-width:%.2f;stroke-opacity:%.3f",
			e.Color, e.Width*o.Scale, e.Opacity)
		canvas.Line(int(x1), int(y1), int(x2), int(y2), style)
	}

	for _, n := range s.Nodes() {
		x, y := o.apply(n.X, n.Y)
		r := n.Radius * o.Scale
		canvas.Circle(int(x), int(y), int(r), "fill:"+n.Color)
		if n.Highlighted || n.Searched {
			ring := fmt.Sprintf("fill:none;stroke:%s;stroke-width:%.2f", o.ringColor(n), 1.5*o.Scale)
			canvas.Circle(int(x), int(y), int(r+3*o.Scale), ring)
		}
		if n.Label != "" {
			style := fmt.Sprintf("font-size:%.1fpx;font-family:sans-serif", o.LabelSize)
			canvas.Text(int(x+r+4), int(y), n.Label, style)
		}
	}

	canvas.End()
	return nil
}

// PNG rasterizes the scene. The drawing mirrors the SVG output.
func PNG(w io.Writer, s *scene.Scene, opts Options) error {
	o := opts.withDefaults()
	dc := gg.NewContext(o.Width, o.Height)

	if o.Background != "" {
		dc.SetHexColor(o.Background)
		dc.Clear()
	}

	for _, e := range s.Edges() {
		src, ok := s.Node(e.SourceUID)
		if !ok {
			continue
		}
		dst, ok := s.Node(e.TargetUID)
		if !ok {
			continue
		}
		x1, y1 := o.apply(src.X, src.Y)
		x2, y2 := o.apply(dst.X, dst.Y)
		r, g, b := hexRGB(e.Color)
		dc.SetRGBA(r, g, b, e.Opacity)
		dc.SetLineWidth(e.Width * o.Scale)
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
	}

	for _, n := range s.Nodes() {
		x, y := o.apply(n.X, n.Y)
		r := n.Radius * o.Scale
		dc.SetHexColor(n.Color)
		dc.DrawCircle(x, y, r)
		dc.Fill()
		if n.Highlighted || n.Searched {
			rr, rg, rb := hexRGB(o.ringColor(n))
			dc.SetRGBA(rr, rg, rb, 1)
			dc.SetLineWidth(1.5 * o.Scale)
			dc.DrawCircle(x, y, r+3*o.Scale)
			dc.Stroke()
			dc.SetHexColor(n.Color)
		}
		if n.Label != "" {
			dc.DrawString(n.Label, x+r+4, y+o.LabelSize/3)
		}
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// hexRGB parses #rgb or #rrggbb into unit-range components, falling back to
// mid gray for anything it cannot read.
func hexRGB(s string) (r, g, b float64) {
	var ri, gi, bi int
	switch len(s) {
	case 4:
		if _, err := fmt.Sscanf(s, "#%1x%1x%1x", &ri, &gi, &bi); err == nil {
			return float64(ri) / 15, float64(gi) / 15, float64(bi) / 15
		}
	case 7:
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &ri, &gi, &bi); err == nil {
			return float64(ri) / 255, float64(gi) / 255, float64(bi) / 255
		}
	}
	return 0.5, 0.5, 0.5
}
