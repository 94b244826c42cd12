package live

import (
	"encoding/json"

	"github.com/tempograph/tempograph/pkg/scene"
	"github.com/tempograph/tempograph/pkg/temporal"
)

// SceneMessage is one frame pushed to clients: the live elements with their
// computed styles plus the current time window.
type SceneMessage struct {
	Type        string          `json:"type"`
	Seq         uint64          `json:"seq"`
	Nodes       []NodeState     `json:"nodes"`
	Edges       []EdgeState     `json:"edges"`
	Window      temporal.Window `json:"window"`
	EdgesHidden bool            `json:"edgesHidden,omitempty"`
}

// NodeState mirrors a scene node element on the wire.
type NodeState struct {
	UID         string  `json:"uid"`
	Label       string  `json:"label,omitempty"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Radius      float64 `json:"r"`
	Color       string  `json:"color"`
	Highlighted bool    `json:"hl,omitempty"`
	Searched    bool    `json:"searched,omitempty"`
}

// EdgeState mirrors a scene edge element on the wire.
type EdgeState struct {
	UID         string  `json:"uid"`
	Source      string  `json:"source"`
	Target      string  `json:"target"`
	Width       float64 `json:"w"`
	Color       string  `json:"color"`
	Opacity     float64 `json:"opacity"`
	Faded       bool    `json:"faded,omitempty"`
	Highlighted bool    `json:"hl,omitempty"`
}

// Command is a control message from a client, dispatched onto the viewer's
// public operations.
type Command struct {
	Op    string  `json:"op"`
	Value float64 `json:"value,omitempty"`
	Query string  `json:"query,omitempty"`
	Group string  `json:"group,omitempty"`
	Mode  string  `json:"mode,omitempty"`
	UID   string  `json:"uid,omitempty"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
}

// EncodeScene flattens the scene into a frame message.
func EncodeScene(s *scene.Scene, win temporal.Window, seq uint64) ([]byte, error) {
	msg := SceneMessage{Type: "scene", Seq: seq, Window: win, EdgesHidden: s.EdgesHidden()}
	for _, n := range s.Nodes() {
		msg.Nodes = append(msg.Nodes, NodeState{
			UID:         n.UID,
			Label:       n.Label,
			X:           n.X,
			Y:           n.Y,
			Radius:      n.Radius,
			Color:       n.Color,
			Highlighted: n.Highlighted,
			Searched:    n.Searched,
		})
	}
	for _, e := range s.Edges() {
		msg.Edges = append(msg.Edges, EdgeState{
			UID:         e.UID,
			Source:      e.SourceUID,
			Target:      e.TargetUID,
			Width:       e.Width,
			Color:       e.Color,
			Opacity:     e.Opacity,
			Faded:       e.Faded,
			Highlighted: e.Highlighted,
		})
	}
	return json.Marshal(msg)
}

// DecodeCommand parses a client control message.
func DecodeCommand(raw []byte) (Command, error) {
	var cmd Command
	err := json.Unmarshal(raw, &cmd)
	return cmd, err
}
