package vis

import "testing"

func TestViewer_HoverHighlightsNeighborhood(t *testing.T) {
	v := newViewer(t, Options{})

	v.Hover("a")
	a, _ := v.Scene().Node("a")
	b, _ := v.Scene().Node("b")
	c, _ := v.Scene().Node("c")
	if !a.Highlighted || !b.Highlighted || !c.Highlighted {
		t.Errorf("highlight flags a=%v b=%v c=%v, all connected to a", a.Highlighted, b.Highlighted, c.Highlighted)
	}

	ab, _ := v.Scene().Edge("a-b")
	if !ab.Highlighted {
		t.Error("edge touching hovered node not highlighted")
	}

	v.Unhover()
	if a.Highlighted || ab.Highlighted {
		t.Error("Unhover left highlights set")
	}
}

func TestViewer_HoverOnlyNeighbors(t *testing.T) {
	v, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}
	p := testPayload()
	// Isolate c: only the a-b edge remains.
	p.Links = p.Links[:1]
	if err := v.Mount(p); err != nil {
		t.Fatal(err)
	}

	v.Hover("a")
	c, _ := v.Scene().Node("c")
	if c.Highlighted {
		t.Error("non-neighbor highlighted")
	}
}

func TestViewer_HoverUnknownUID(t *testing.T) {
	v := newViewer(t, Options{})
	v.Hover("ghost")
	for _, el := range v.Scene().Nodes() {
		if el.Highlighted {
			t.Errorf("unknown hover highlighted %s", el.UID)
		}
	}
}

func TestViewer_HoverJoinsSearched(t *testing.T) {
	v, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}
	p := testPayload()
	p.Links = p.Links[:1] // a-b only, carol isolated
	if err := v.Mount(p); err != nil {
		t.Fatal(err)
	}

	v.UpdateSearch("carol")
	v.Hover("a")

	c, _ := v.Scene().Node("c")
	if !c.Highlighted || !c.Searched {
		t.Errorf("searched node flags: highlighted=%v searched=%v", c.Highlighted, c.Searched)
	}

	// Searched flags survive unhover; highlights do not.
	v.Unhover()
	if c.Highlighted {
		t.Error("highlight survived Unhover")
	}
	if !c.Searched {
		t.Error("searched flag lost on Unhover")
	}
}

func TestViewer_HoverSuppressedWhileEdgesHidden(t *testing.T) {
	v := newViewer(t, Options{})
	v.Scene().HideEdges()
	v.Hover("a")
	a, _ := v.Scene().Node("a")
	if a.Highlighted {
		t.Error("hover applied during hidden-edge state")
	}
}

func TestViewer_DragLifecycle(t *testing.T) {
	v := newViewer(t, Options{})

	v.DragStart("a", 200, 200)
	if !v.Scene().EdgesHidden() {
		t.Error("drag should hide edges")
	}
	a, _ := v.g.Node("a")
	if x, y, ok := a.Pin(); !ok || x != 200 || y != 200 {
		t.Fatalf("pin = %v,%v,%v", x, y, ok)
	}

	v.Drag(250, 260)
	if x, y, _ := a.Pin(); x != 250 || y != 260 {
		t.Errorf("drag pin = %v,%v", x, y)
	}

	v.DragEnd()
	if _, _, ok := a.Pin(); ok {
		t.Error("node still pinned after DragEnd")
	}

	// Letting the simulation settle restores edge visibility.
	v.SettleNow(5000)
	if v.Scene().EdgesHidden() {
		t.Error("edges still hidden after settle")
	}
}

func TestViewer_DragWithoutStart(t *testing.T) {
	v := newViewer(t, Options{})
	// No panic, no effect.
	v.Drag(10, 10)
	v.DragEnd()
}

func TestViewer_DragUnknownUID(t *testing.T) {
	v := newViewer(t, Options{})
	v.DragStart("ghost", 0, 0)
	if v.Scene().EdgesHidden() {
		t.Error("unknown drag start hid edges")
	}
}
