package vis

import "github.com/tempograph/tempograph/pkg/graph"

// Interaction entry points: hover highlighting and drag-to-pin. Zoom and
// pan live on the Viewport; search on the Viewer proper.

// Hover marks the adjacency of the hovered node, unioned with the searched
// set, as highlighted. While edges are hidden (transient settle states) the
// call is a no-op so highlights cannot flicker mid-transition.
func (v *Viewer) Hover(uid string) {
	v.lp.Invoke(func() {
		if v.g == nil || v.scn.EdgesHidden() {
			return
		}
		if _, ok := v.g.Node(uid); !ok {
			return
		}
		v.hovered = uid
		v.applyHighlight()
	})
}

// Unhover clears every highlight flag. Searched flags survive.
func (v *Viewer) Unhover() {
	v.lp.Invoke(func() {
		v.hovered = ""
		v.scn.ClearHighlights()
	})
}

func (v *Viewer) applyHighlight() {
	adj := v.g.Adjacency()

	marked := make(map[string]struct{}, len(v.searched)+1)
	for uid := range v.searched {
		marked[uid] = struct{}{}
	}
	for _, el := range v.scn.Nodes() {
		hl := adj.Connected(v.hovered, el.UID)
		if _, ok := marked[el.UID]; ok {
			hl = true
		}
		el.Highlighted = hl
		el.Searched = false
		if _, ok := v.searched[el.UID]; ok {
			el.Searched = true
		}
		if hl {
			marked[el.UID] = struct{}{}
		}
	}
	for _, el := range v.scn.Edges() {
		touchesHover := el.SourceUID == v.hovered || el.TargetUID == v.hovered
		_, srcMarked := marked[el.SourceUID]
		_, dstMarked := marked[el.TargetUID]
		el.Highlighted = touchesHover || (srcMarked && dstMarked)
	}
}

// DragStart pins the node under the pointer and hides edges while the
// layout reflows around it.
func (v *Viewer) DragStart(uid string, x, y float64) {
	v.lp.Invoke(func() {
		n, ok := v.nodeByUID(uid)
		if !ok {
			return
		}
		v.dragging = n
		v.scn.HideEdges()
		v.engine.DragStart(n, x, y)
	})
}

// Drag moves the pinned node with the pointer.
func (v *Viewer) Drag(x, y float64) {
	v.lp.Invoke(func() {
		if v.dragging == nil {
			return
		}
		v.engine.Drag(v.dragging, x, y)
	})
}

// DragEnd releases the pin; the simulation re-settles and the settle event
// restores edge visibility.
func (v *Viewer) DragEnd() {
	v.lp.Invoke(func() {
		if v.dragging == nil {
			return
		}
		v.engine.DragEnd(v.dragging)
		v.dragging = nil
	})
}

func (v *Viewer) nodeByUID(uid string) (*graph.Node, bool) {
	if v.g == nil {
		return nil, false
	}
	return v.g.Node(uid)
}
