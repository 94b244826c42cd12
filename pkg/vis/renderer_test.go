package vis

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/tempograph/tempograph/pkg/graph"
	"github.com/tempograph/tempograph/pkg/layout"
)

func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }

// testPayload is a small two-group graph with timestamped edges.
func testPayload() *graph.Payload {
	return &graph.Payload{
		Nodes: []graph.NodeRecord{
			{UID: "a", Label: "Alice", Group: "red", Size: fptr(2), Projected: &[2]float64{0, 0}},
			{UID: "b", Label: "Bob", Group: "red", Size: fptr(1), Projected: &[2]float64{1, 0}},
			{UID: "c", Label: "Carol", Group: "blue", Size: fptr(3), Projected: &[2]float64{0, 1}},
		},
		Links: []graph.LinkRecord{
			{Source: "a", Target: "b", Time: fptr(1)},
			{Source: "b", Target: "c", Time: fptr(5)},
			{Source: "a", Target: "c", Time: fptr(9)},
		},
	}
}

// newViewer mounts the payload on a loop-less viewer so every operation
// runs inline and the test observes results synchronously.
func newViewer(t *testing.T, opts Options) *Viewer {
	t.Helper()
	v, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}
	if err := v.Mount(testPayload()); err != nil {
		t.Fatal(err)
	}
	return v
}

func sceneNodeUIDs(v *Viewer) map[string]bool {
	out := make(map[string]bool)
	for _, el := range v.Scene().Nodes() {
		if !el.Exiting() {
			out[el.UID] = true
		}
	}
	return out
}

func sceneEdgeUIDs(v *Viewer) map[string]bool {
	out := make(map[string]bool)
	for _, el := range v.Scene().Edges() {
		if !el.Exiting() {
			out[el.UID] = true
		}
	}
	return out
}

func TestViewer_MountBuildsScene(t *testing.T) {
	v := newViewer(t, Options{})

	nodes := sceneNodeUIDs(v)
	if len(nodes) != 3 || !nodes["a"] || !nodes["b"] || !nodes["c"] {
		t.Errorf("scene nodes = %v", nodes)
	}
	if edges := sceneEdgeUIDs(v); len(edges) != 3 {
		t.Errorf("scene edges = %v", edges)
	}

	// Sizes map through the radius scale: min size -> min radius.
	b, _ := v.Scene().Node("b")
	if b.TargetRadius != 4 {
		t.Errorf("smallest node radius = %v, want 4", b.TargetRadius)
	}
	c, _ := v.Scene().Node("c")
	if c.TargetRadius != 16 {
		t.Errorf("largest node radius = %v, want 16", c.TargetRadius)
	}
}

func TestViewer_MountNilPayload(t *testing.T) {
	v, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := v.Mount(nil); err == nil {
		t.Error("expected error for nil payload")
	}
}

func TestViewer_WidgetEnablementFromData(t *testing.T) {
	v := newViewer(t, Options{})
	o := v.Options()
	if !o.Widgets.Filter.Enabled {
		t.Error("group data should enable the filter widget")
	}
	want := map[string]bool{"blue": true, "red": true}
	for _, g := range o.Widgets.Filter.Groups {
		delete(want, g)
	}
	if len(want) != 0 {
		t.Errorf("filter groups missing %v", want)
	}
	if !o.Widgets.Layout.Enabled {
		t.Error("fully projected data should enable the layout toggle")
	}
}

func TestViewer_LayoutToggleDisabledWithoutProjection(t *testing.T) {
	v, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}
	p := testPayload()
	p.Nodes[1].Projected = nil
	if err := v.Mount(p); err != nil {
		t.Fatal(err)
	}
	if v.Options().Widgets.Layout.Enabled {
		t.Error("layout toggle enabled although a node lacks coordinates")
	}
}

func TestViewer_FilterRestrictsScene(t *testing.T) {
	v := newViewer(t, Options{})

	v.UpdateFilter("red")
	nodes := sceneNodeUIDs(v)
	if len(nodes) != 2 || !nodes["a"] || !nodes["b"] {
		t.Errorf("filtered nodes = %v", nodes)
	}
	// Only the edge with both endpoints in the group survives.
	edges := sceneEdgeUIDs(v)
	if len(edges) != 1 || !edges["a-b"] {
		t.Errorf("filtered edges = %v", edges)
	}

	// A group nobody belongs to empties the scene without error.
	v.UpdateFilter("ghost")
	if n := sceneNodeUIDs(v); len(n) != 0 {
		t.Errorf("ghost group left nodes %v", n)
	}

	// Clearing restores everything.
	v.UpdateFilter(FilterAll)
	if n := sceneNodeUIDs(v); len(n) != 3 {
		t.Errorf("cleared filter shows %v", n)
	}
}

func TestViewer_EmptyFilterMeansAll(t *testing.T) {
	v := newViewer(t, Options{})
	v.UpdateFilter("red")
	v.UpdateFilter("")
	if v.StateSnapshot().Filter != FilterAll {
		t.Errorf("filter = %q, want %q", v.StateSnapshot().Filter, FilterAll)
	}
}

func TestViewer_SearchRecolorsAndClears(t *testing.T) {
	v := newViewer(t, Options{})

	v.UpdateSearch("ali")
	matches := v.SearchMatches()
	if len(matches) != 1 || matches[0] != "a" {
		t.Fatalf("matches = %v, want [a]", matches)
	}
	a, _ := v.Scene().Node("a")
	if a.TargetColor != SearchColor {
		t.Errorf("matched color = %q, want %q", a.TargetColor, SearchColor)
	}
	b, _ := v.Scene().Node("b")
	if b.TargetColor == SearchColor {
		t.Error("unmatched node recolored")
	}

	// Empty query restores the default color.
	v.UpdateSearch("")
	if len(v.SearchMatches()) != 0 {
		t.Error("matches survived an empty query")
	}
	a, _ = v.Scene().Node("a")
	if a.TargetColor != DefaultNodeColor {
		t.Errorf("restored color = %q, want %q", a.TargetColor, DefaultNodeColor)
	}
}

func TestViewer_LayoutSwitchKeepsIdentities(t *testing.T) {
	v := newViewer(t, Options{})
	before := sceneNodeUIDs(v)

	v.UpdateLayout(layout.ModeEuclidean)
	if v.StateSnapshot().Layout != layout.ModeEuclidean {
		t.Fatalf("layout = %v", v.StateSnapshot().Layout)
	}
	after := sceneNodeUIDs(v)
	if len(after) != len(before) {
		t.Errorf("node set changed across layout switch: %v -> %v", before, after)
	}

	// Switching to the same mode is a no-op.
	v.UpdateLayout(layout.ModeEuclidean)
	// Unknown modes are ignored.
	v.UpdateLayout(layout.Mode("spiral"))
	if v.StateSnapshot().Layout != layout.ModeEuclidean {
		t.Errorf("layout = %v after invalid switch", v.StateSnapshot().Layout)
	}
}

func TestViewer_TemporalWindowFiltersEdges(t *testing.T) {
	v := newViewer(t, Options{Temporal: true})
	s := v.Slider()
	if s == nil {
		t.Fatal("temporal viewer has no slider")
	}
	if min, max := s.Domain().Min, s.Domain().Max; min != 1 || max != 9 {
		t.Fatalf("domain = %v..%v, want 1..9", min, max)
	}

	// Zero deltas: only edges at exactly the current instant stay.
	s.SetTime(5)
	edges := sceneEdgeUIDs(v)
	if len(edges) != 1 || !edges["b-c"] {
		t.Errorf("edges at t=5 = %v, want only b-c", edges)
	}

	// Nodes always stay; only edges are classified.
	if n := sceneNodeUIDs(v); len(n) != 3 {
		t.Errorf("temporal filtering removed nodes: %v", n)
	}
}

func TestViewer_LookoutEdgesFade(t *testing.T) {
	v := newViewer(t, Options{
		Temporal: true,
		Widgets: Widgets{
			Aggregation: AggregationWidget{Past: 10, Aggregation: 1, Future: 10},
		},
	})
	v.Slider().SetTime(5)

	active, _ := v.Scene().Edge("b-c")
	if active.Faded || active.TargetOpacity != 1 {
		t.Errorf("active edge: faded=%v opacity=%v", active.Faded, active.TargetOpacity)
	}
	past, _ := v.Scene().Edge("a-b")
	if !past.Faded {
		t.Error("historical edge not faded")
	}
	if past.TargetOpacity != contextOpacityFactor {
		t.Errorf("faded opacity = %v, want %v", past.TargetOpacity, contextOpacityFactor)
	}
	future, _ := v.Scene().Edge("a-c")
	if !future.Faded {
		t.Error("upcoming edge not faded")
	}
}

func TestViewer_RenderIsIdempotent(t *testing.T) {
	v := newViewer(t, Options{})
	v.SettleNow(1000)

	a, _ := v.Scene().Node("a")
	r := a.Radius

	// Re-rendering with unchanged state reuses elements and does not
	// restart their transitions.
	v.UpdateFilter(FilterAll)
	a2, _ := v.Scene().Node("a")
	if a2 != a {
		t.Fatal("idempotent render replaced an element")
	}
	if a.Radius != r {
		t.Errorf("radius reset from %v to %v", r, a.Radius)
	}
}

func TestViewer_UpdateDataSwaps(t *testing.T) {
	v := newViewer(t, Options{})
	v.UpdateSearch("ali")

	v.UpdateData(&graph.Payload{
		Nodes: []graph.NodeRecord{{UID: "x"}, {UID: "y"}},
		Links: []graph.LinkRecord{{Source: "x", Target: "y"}},
	})

	nodes := sceneNodeUIDs(v)
	if len(nodes) != 2 || !nodes["x"] || !nodes["y"] {
		t.Errorf("nodes after swap = %v", nodes)
	}
	if len(v.SearchMatches()) != 0 {
		t.Error("search state survived a data swap")
	}
	// The old elements ease out rather than vanish.
	if a, ok := v.Scene().Node("a"); ok && !a.Exiting() {
		t.Error("stale node neither gone nor exiting")
	}
	v.SettleNow(1000)
	if _, ok := v.Scene().Node("a"); ok {
		t.Error("stale node survived the exit transition")
	}
}

func TestViewer_SettleNowStopsSimulation(t *testing.T) {
	v := newViewer(t, Options{})
	v.SettleNow(5000)
	if v.engine.Simulation().Running() {
		t.Error("simulation still running after SettleNow")
	}
	// Transitions are flushed too.
	for _, el := range v.Scene().Nodes() {
		if el.Radius != el.TargetRadius {
			t.Errorf("node %s radius %v not at target %v", el.UID, el.Radius, el.TargetRadius)
		}
	}
}

func TestViewer_OnRenderFires(t *testing.T) {
	v := newViewer(t, Options{})
	calls := 0
	v.OnRender(func(*Viewer) { calls++ })
	v.frame()
	if calls != 1 {
		t.Errorf("render subscriber ran %d times", calls)
	}
}

// Subscribers register after the viewer has started in the serve path, so
// registration must be serialized against the frame callback.
func TestViewer_SubscribeWhileRunning(t *testing.T) {
	v := newViewer(t, Options{})
	v.Start()
	defer v.Stop()

	var calls atomic.Int64
	stop := time.Now().Add(300 * time.Millisecond)
	for time.Now().Before(stop) {
		v.OnRender(func(*Viewer) { calls.Add(1) })
	}

	deadline := time.After(2 * time.Second)
	for calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("no render subscriber ran after late registration")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}
