package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Payload is the wire format produced by the analysis toolkit.
type Payload struct {
	Nodes   []NodeRecord   `json:"nodes"`
	Links   []LinkRecord   `json:"links"`
	Changes []ChangeRecord `json:"changes,omitempty"`
}

// NodeRecord is one raw node entry. Optional attributes use pointers so a
// missing field is distinguishable from a zero value.
type NodeRecord struct {
	UID       string      `json:"uid"`
	Label     string      `json:"label,omitempty"`
	Group     string      `json:"group,omitempty"`
	Size      *float64    `json:"size,omitempty"`
	Color     string      `json:"color,omitempty"`
	Weight    *float64    `json:"weight,omitempty"`
	Projected *[2]float64 `json:"euclidean,omitempty"`
}

// LinkRecord is one raw edge entry referencing nodes by uid.
type LinkRecord struct {
	Source  string   `json:"source"`
	Target  string   `json:"target"`
	Time    *float64 `json:"time,omitempty"`
	Weight  *float64 `json:"weight,omitempty"`
	Color   string   `json:"color,omitempty"`
	Opacity *float64 `json:"opacity,omitempty"`
	Size    *float64 `json:"size,omitempty"`
}

// ChangeRecord is one raw scheduled attribute patch.
type ChangeRecord struct {
	UID    string   `json:"uid"`
	Time   float64  `json:"time"`
	Label  *string  `json:"label,omitempty"`
	Group  *string  `json:"group,omitempty"`
	Size   *float64 `json:"size,omitempty"`
	Color  *string  `json:"color,omitempty"`
	Weight *float64 `json:"weight,omitempty"`
}

// Defaults applied when optional payload fields are absent.
const (
	DefaultNodeSize   = 1.0
	DefaultNodeWeight = 1.0
	DefaultEdgeWeight = 1.0
	DefaultEdgeSize   = 1.0
	DefaultOpacity    = 1.0
)

func (r NodeRecord) node() *Node {
	n := &Node{
		UID:    r.UID,
		Label:  r.Label,
		Group:  r.Group,
		Size:   DefaultNodeSize,
		Color:  r.Color,
		Weight: DefaultNodeWeight,
	}
	if r.Size != nil {
		n.Size = *r.Size
	}
	if r.Weight != nil {
		n.Weight = *r.Weight
	}
	if r.Projected != nil {
		p := *r.Projected
		n.Projected = &p
	}
	return n
}

func (r ChangeRecord) change() Change {
	return Change{
		UID:    r.UID,
		Time:   r.Time,
		Label:  r.Label,
		Group:  r.Group,
		Size:   r.Size,
		Color:  r.Color,
		Weight: r.Weight,
	}
}

func (r LinkRecord) edge(src, dst *Node) *Edge {
	e := &Edge{
		UID:     EdgeUID(src.UID, dst.UID),
		Source:  src,
		Target:  dst,
		Weight:  DefaultEdgeWeight,
		Color:   r.Color,
		Opacity: DefaultOpacity,
		Size:    DefaultEdgeSize,
	}
	if r.Time != nil {
		t := *r.Time
		e.Time = &t
	}
	if r.Weight != nil {
		e.Weight = *r.Weight
	}
	if r.Opacity != nil {
		e.Opacity = *r.Opacity
	}
	if r.Size != nil {
		e.Size = *r.Size
	}
	return e
}

// DecodePayload reads a JSON payload from r.
func DecodePayload(r io.Reader) (*Payload, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return &p, nil
}

// LoadPayload reads a JSON payload from a file.
func LoadPayload(path string) (*Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodePayload(f)
}
