// Package vis ties the engine together: the renderer owning the node and
// edge collections, the interaction layer, the time slider and the widget
// dispatch, all driven by one event loop.
package vis

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Palette defaults used when the payload carries no explicit styling.
const (
	DefaultNodeColor = "#6ea8fe"
	DefaultEdgeColor = "#39424e"
	SearchColor      = "#ffcf33"
	HighlightColor   = "#9ad0ff"
)

// Options configures the viewer. Every field has a named default; a zero
// Options is usable.
type Options struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`

	// Layout is the initial mode, "force" or "euclidean".
	Layout string `yaml:"layout"`

	// Temporal enables the time window pipeline for timestamped edges.
	Temporal bool `yaml:"temporal"`

	RadiusMinSize float64 `yaml:"radiusMinSize"`
	RadiusMaxSize float64 `yaml:"radiusMaxSize"`

	// MinScale and MaxScale bound the zoom transform.
	MinScale float64 `yaml:"minScale"`
	MaxScale float64 `yaml:"maxScale"`

	Widgets Widgets `yaml:"widgets"`
}

// Widgets configures the control surface.
type Widgets struct {
	Tooltip     TooltipWidget     `yaml:"tooltip"`
	Save        ToggleWidget      `yaml:"save"`
	Zoom        ToggleWidget      `yaml:"zoom"`
	Layout      ToggleWidget      `yaml:"layout"`
	Filter      FilterWidget      `yaml:"filter"`
	Search      ToggleWidget      `yaml:"search"`
	Animation   AnimationWidget   `yaml:"animation"`
	Aggregation AggregationWidget `yaml:"aggregation"`
}

// ToggleWidget is a widget that is merely on or off.
type ToggleWidget struct {
	Enabled bool `yaml:"enabled"`
}

// TooltipWidget sizes the hover tooltip rendered by the embedding shell.
type TooltipWidget struct {
	Size float64 `yaml:"size"`
}

// FilterWidget lists the selectable node groups.
type FilterWidget struct {
	Enabled bool     `yaml:"enabled"`
	Groups  []string `yaml:"groups"`
}

// AnimationWidget configures playback stepping.
type AnimationWidget struct {
	Enabled bool `yaml:"enabled"`
	// Speed is the tick interval in Unit.
	Speed int    `yaml:"speed"`
	Unit  string `yaml:"unit"`
	// Start and End override the timeline domain derived from the data.
	Start *float64 `yaml:"start"`
	End   *float64 `yaml:"end"`
	Steps int      `yaml:"steps"`
}

// AggregationWidget configures the initial window deltas.
type AggregationWidget struct {
	Enabled     bool    `yaml:"enabled"`
	Past        float64 `yaml:"past"`
	Future      float64 `yaml:"future"`
	Aggregation float64 `yaml:"aggregation"`
}

func (o *Options) withDefaults() Options {
	d := Options{
		Width:         800,
		Height:        600,
		Layout:        "force",
		RadiusMinSize: 4,
		RadiusMaxSize: 16,
		MinScale:      0.2,
		MaxScale:      5.0,
		Widgets: Widgets{
			Tooltip:   TooltipWidget{Size: 12},
			Animation: AnimationWidget{Speed: 100, Unit: "ms", Steps: 20},
		},
	}
	if o == nil {
		return d
	}
	if o.Width > 0 {
		d.Width = o.Width
	}
	if o.Height > 0 {
		d.Height = o.Height
	}
	if o.Layout != "" {
		d.Layout = o.Layout
	}
	d.Temporal = o.Temporal
	if o.RadiusMinSize > 0 {
		d.RadiusMinSize = o.RadiusMinSize
	}
	if o.RadiusMaxSize > 0 {
		d.RadiusMaxSize = o.RadiusMaxSize
	}
	if o.MinScale > 0 {
		d.MinScale = o.MinScale
	}
	if o.MaxScale > 0 {
		d.MaxScale = o.MaxScale
	}
	d.Widgets.Save = o.Widgets.Save
	d.Widgets.Zoom = o.Widgets.Zoom
	d.Widgets.Layout = o.Widgets.Layout
	d.Widgets.Filter = o.Widgets.Filter
	d.Widgets.Search = o.Widgets.Search
	if o.Widgets.Tooltip.Size > 0 {
		d.Widgets.Tooltip.Size = o.Widgets.Tooltip.Size
	}
	d.Widgets.Animation.Enabled = o.Widgets.Animation.Enabled
	if o.Widgets.Animation.Speed > 0 {
		d.Widgets.Animation.Speed = o.Widgets.Animation.Speed
	}
	if o.Widgets.Animation.Unit != "" {
		d.Widgets.Animation.Unit = o.Widgets.Animation.Unit
	}
	d.Widgets.Animation.Start = o.Widgets.Animation.Start
	d.Widgets.Animation.End = o.Widgets.Animation.End
	if o.Widgets.Animation.Steps > 0 {
		d.Widgets.Animation.Steps = o.Widgets.Animation.Steps
	}
	d.Widgets.Aggregation = o.Widgets.Aggregation
	return d
}

// LoadOptions reads an Options document from a YAML file and applies the
// defaults on top of whatever is missing.
func LoadOptions(path string) (Options, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Options{}, err
	}
	var o Options
	if err := yaml.Unmarshal(raw, &o); err != nil {
		return Options{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return o.withDefaults(), nil
}
