package vis

import (
	"fmt"

	"github.com/tempograph/tempograph/pkg/graph"
	"github.com/tempograph/tempograph/pkg/layout"
	"github.com/tempograph/tempograph/pkg/loop"
	"github.com/tempograph/tempograph/pkg/scale"
	"github.com/tempograph/tempograph/pkg/scene"
	"github.com/tempograph/tempograph/pkg/temporal"
)

// contextOpacityFactor dims lookout edges relative to their active opacity.
const contextOpacityFactor = 0.25

// FilterAll is the filter value selecting every group.
const FilterAll = "all"

// State is the renderer's explicit mutable state. It is owned by the Viewer
// and passed around by reference; nothing captures it implicitly.
type State struct {
	Filter   string
	Layout   layout.Mode
	Temporal bool
	Window   temporal.Window
	Search   string
}

// ZoomDirection selects a discrete zoom operation.
type ZoomDirection string

const (
	ZoomIn    ZoomDirection = "in"
	ZoomOut   ZoomDirection = "out"
	ZoomReset ZoomDirection = "reset"
)

// Viewer is the renderer: it exclusively owns the node and edge collections
// and the scene, and is the single re-entrant render entry point. All
// mutation is serialized through its event loop; public operations may be
// called from any goroutine.
type Viewer struct {
	opts Options
	lp   *loop.Loop

	g      *graph.Graph
	scn    *scene.Scene
	engine *layout.Engine
	view   *Viewport
	slider *Slider
	bar    *Bar

	state  State
	radius scale.Linear

	// visible is the currently filtered node subset the simulation runs
	// over; refreshed by every render pass.
	visible []*graph.Node

	searched map[string]struct{}
	hovered  string
	dragging *graph.Node

	onRender []func(*Viewer)
}

// New builds a viewer from options. The loop is created but not started;
// call Start for animated operation or drive everything synchronously.
func New(opts Options) (*Viewer, error) {
	o := opts.withDefaults()
	mode := layout.Mode(o.Layout)
	if !mode.Valid() {
		return nil, fmt.Errorf("unknown layout %q", o.Layout)
	}
	v := &Viewer{
		opts:     o,
		lp:       loop.New(loop.DefaultFrameInterval),
		scn:      scene.New(),
		view:     NewViewport(o.Width, o.Height, o.MinScale, o.MaxScale),
		engine:   layout.New(o.Width, o.Height),
		searched: make(map[string]struct{}),
		state:    State{Filter: FilterAll, Layout: mode, Temporal: o.Temporal},
	}
	v.engine.Simulation().OnTick(v.syncPositions)
	v.engine.Simulation().OnSettle(v.settle)
	v.lp.OnFrame(v.frame)
	v.bar = NewBar(v)
	return v, nil
}

// Start runs the event loop, animating the simulation and transitions.
func (v *Viewer) Start() { v.lp.Start() }

// Stop halts the event loop. Scene state is kept.
func (v *Viewer) Stop() {
	if v.slider != nil {
		v.slider.Pause()
	}
	v.lp.Stop()
}

// Loop exposes the event loop for embedding code that must run on it.
func (v *Viewer) Loop() *loop.Loop { return v.lp }

// Scene returns the live scene handle. When the loop is running, read it
// only from loop callbacks (OnRender) to stay on the serialized path.
func (v *Viewer) Scene() *scene.Scene { return v.scn }

// Viewport returns the zoom/pan transform owner, same access rule as Scene.
func (v *Viewer) Viewport() *Viewport { return v.view }

// Widgets returns the command dispatch bar.
func (v *Viewer) Widgets() *Bar { return v.bar }

// Slider returns the time slider control, nil for non-temporal viewers.
func (v *Viewer) Slider() *Slider { return v.slider }

// Options returns the effective configuration, including widget enablement
// discovered from the mounted data.
func (v *Viewer) Options() Options { return v.opts }

// StateSnapshot returns a copy of the current visualization state.
func (v *Viewer) StateSnapshot() State { return v.state }

// OnRender subscribes to completed frames; fn runs on the loop after the
// scene has advanced. Registration goes through the loop like every other
// mutation, so subscribing while it runs is safe from any goroutine.
func (v *Viewer) OnRender(fn func(*Viewer)) {
	v.lp.Invoke(func() {
		v.onRender = append(v.onRender, fn)
	})
}

// Mount loads a payload into the viewer and performs the first render.
func (v *Viewer) Mount(p *graph.Payload) error {
	if p == nil {
		return fmt.Errorf("mount: nil payload")
	}
	v.lp.Invoke(func() { v.load(p) })
	return nil
}

// UpdateData swaps the payload. Named forces are cleared before the new set
// attaches, so no force residue from the previous data survives.
func (v *Viewer) UpdateData(p *graph.Payload) {
	if p == nil {
		return
	}
	v.lp.Invoke(func() {
		if v.slider != nil {
			v.slider.Pause()
		}
		v.engine.Simulation().ClearForces()
		v.load(p)
	})
}

// UpdateZoom performs a discrete zoom step or reset.
func (v *Viewer) UpdateZoom(dir ZoomDirection) {
	v.lp.Invoke(func() {
		switch dir {
		case ZoomIn:
			v.view.StepIn()
		case ZoomOut:
			v.view.StepOut()
		case ZoomReset:
			v.view.Reset()
		}
	})
}

// UpdateLayout switches the placement mode. Node identities and current
// positions carry over; the new force set takes them as its starting state.
func (v *Viewer) UpdateLayout(mode layout.Mode) {
	v.lp.Invoke(func() {
		if !mode.Valid() || mode == v.state.Layout {
			return
		}
		v.state.Layout = mode
		v.render()
	})
}

// UpdateFilter restricts the scene to one node group; FilterAll (or "")
// clears the restriction. A group no node belongs to yields an empty scene.
func (v *Viewer) UpdateFilter(group string) {
	v.lp.Invoke(func() {
		if group == "" {
			group = FilterAll
		}
		v.state.Filter = group
		v.render()
	})
}

// UpdateTime applies a time window snapshot and re-renders.
func (v *Viewer) UpdateTime(w temporal.Window) {
	v.lp.Invoke(func() {
		v.state.Window = w
		v.render()
	})
}

// UpdateSearch matches the query against node display names,
// case-insensitively. Matches are recolored and keep a persistent searched
// flag that joins hover highlights until a new search replaces it. An empty
// query restores every node.
func (v *Viewer) UpdateSearch(query string) {
	v.lp.Invoke(func() {
		v.state.Search = query
		v.searched = make(map[string]struct{})
		if v.g != nil && query != "" {
			for _, n := range v.g.Nodes {
				if n.MatchLabel(query) {
					v.searched[n.UID] = struct{}{}
				}
			}
		}
		v.render()
	})
}

// load resolves a payload and primes every derived structure.
func (v *Viewer) load(p *graph.Payload) {
	v.g = graph.New(p)
	v.searched = make(map[string]struct{})
	v.state.Search = ""
	v.hovered = ""
	v.dragging = nil

	// Radius scale from the extent of the size attribute.
	sizes := make([]float64, len(v.g.Nodes))
	for i, n := range v.g.Nodes {
		sizes[i] = n.Size
	}
	lo, hi, ok := scale.Extent(sizes)
	if !ok {
		lo, hi = 0, 1
	}
	v.radius = scale.NewLinear(lo, hi, v.opts.RadiusMinSize, v.opts.RadiusMaxSize)

	// Widget enablement discovered from the data.
	if groups := v.g.Groups(); len(groups) > 0 {
		v.opts.Widgets.Filter.Enabled = true
		v.opts.Widgets.Filter.Groups = mergeGroups(v.opts.Widgets.Filter.Groups, groups)
	}
	if v.g.HasProjected() {
		v.opts.Widgets.Layout.Enabled = true
	}

	if v.state.Temporal {
		v.slider = newSlider(v)
		v.state.Window = v.slider.Window()
	}

	v.render()
}

// render is the single re-entrant render entry point. Calling it again with
// unchanged state leaves the scene unchanged.
func (v *Viewer) render() {
	if v.g == nil {
		return
	}
	t := v.state.Window.Time

	// Group filter over effective attributes: a scheduled change may move a
	// node into or out of the filtered group.
	var nodeSpecs []scene.NodeSpec
	visible := make(map[string]graph.Node)
	v.visible = v.visible[:0]
	for _, n := range v.g.Nodes {
		eff := *n
		if v.state.Temporal {
			eff = n.Effective(t)
		}
		if v.state.Filter != FilterAll && eff.Group != v.state.Filter {
			continue
		}
		visible[n.UID] = eff
		v.visible = append(v.visible, n)
		nodeSpecs = append(nodeSpecs, v.nodeSpec(n, &eff))
	}

	// Edges survive only with both endpoints in the filtered set; temporal
	// mode additionally drops them outside [past, future].
	var surviving []*graph.Edge
	var edgeSpecs []scene.EdgeSpec
	for _, e := range v.g.Edges {
		if _, ok := visible[e.Source.UID]; !ok {
			continue
		}
		if _, ok := visible[e.Target.UID]; !ok {
			continue
		}
		class := temporal.ClassActive
		if v.state.Temporal && e.Time != nil {
			class = v.state.Window.Classify(*e.Time)
			if class == temporal.ClassDropped {
				continue
			}
		}
		surviving = append(surviving, e)
		edgeSpecs = append(edgeSpecs, v.edgeSpec(e, class))
	}

	v.engine.Configure(v.state.Layout, v.visible, surviving)
	v.scn.ApplyNodes(nodeSpecs)
	v.scn.ApplyEdges(edgeSpecs)
	v.engine.Simulation().Start(1.0)
}

func (v *Viewer) nodeSpec(n *graph.Node, eff *graph.Node) scene.NodeSpec {
	color := eff.Color
	if color == "" {
		color = DefaultNodeColor
	}
	if _, ok := v.searched[n.UID]; ok {
		color = SearchColor
	}
	return scene.NodeSpec{
		UID:    n.UID,
		Label:  eff.DisplayName(),
		Group:  eff.Group,
		Radius: v.radius.Map(eff.Size),
		Color:  color,
		X:      n.X,
		Y:      n.Y,
	}
}

func (v *Viewer) edgeSpec(e *graph.Edge, class temporal.Class) scene.EdgeSpec {
	color := e.Color
	if color == "" {
		color = DefaultEdgeColor
	}
	opacity := e.Opacity
	faded := class == temporal.ClassFaded
	if faded {
		opacity *= contextOpacityFactor
	}
	return scene.EdgeSpec{
		UID:       e.UID,
		SourceUID: e.Source.UID,
		TargetUID: e.Target.UID,
		Width:     e.Size,
		Color:     color,
		Opacity:   opacity,
		Faded:     faded,
	}
}

// frame advances one animation frame: a simulation step if it is running,
// then scene transitions, then render subscribers.
func (v *Viewer) frame() {
	v.engine.Simulation().Step()
	v.scn.Advance()
	for _, fn := range v.onRender {
		fn(v)
	}
}

// syncPositions mirrors simulation positions into the scene, on every tick.
func (v *Viewer) syncPositions() {
	for _, n := range v.visible {
		v.scn.SetPosition(n.UID, n.X, n.Y)
	}
}

// settle marks the terminal low-energy state: edge visibility returns to
// its default.
func (v *Viewer) settle() {
	v.scn.Settle()
}

// SettleNow drives the simulation synchronously until it settles or the
// step budget runs out, then flushes remaining scene transitions. Intended
// for one-shot rendering paths that never start the loop.
func (v *Viewer) SettleNow(maxSteps int) {
	v.lp.Invoke(func() {
		for i := 0; i < maxSteps; i++ {
			running := v.engine.Simulation().Step()
			v.scn.Advance()
			if !running {
				break
			}
		}
		for i := 0; i < scene.TransitionSteps; i++ {
			v.scn.Advance()
		}
	})
}

// SearchMatches returns the uids matched by the last search.
func (v *Viewer) SearchMatches() []string {
	out := make([]string, 0, len(v.searched))
	for uid := range v.searched {
		out = append(out, uid)
	}
	return out
}

func mergeGroups(configured, discovered []string) []string {
	seen := make(map[string]struct{}, len(configured))
	out := append([]string(nil), configured...)
	for _, g := range configured {
		seen[g] = struct{}{}
	}
	for _, g := range discovered {
		if _, ok := seen[g]; !ok {
			seen[g] = struct{}{}
			out = append(out, g)
		}
	}
	return out
}
