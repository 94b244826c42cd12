package graph

import "testing"

func TestAdjacency_Connected(t *testing.T) {
	a := &Node{UID: "a"}
	b := &Node{UID: "b"}
	c := &Node{UID: "c"}
	idx := BuildAdjacency([]*Edge{
		{UID: "a-b", Source: a, Target: b},
		{UID: "b-c", Source: b, Target: c},
	})

	tests := []struct {
		name string
		x, y string
		want bool
	}{
		{"direct", "a", "b", true},
		{"symmetric", "b", "a", true},
		{"chained but not adjacent", "a", "c", false},
		{"self is always connected", "a", "a", true},
		{"unknown uid", "a", "zz", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := idx.Connected(tt.x, tt.y); got != tt.want {
				t.Errorf("Connected(%s,%s) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}
