package graph

import (
	"strings"

	"github.com/matzehuels/verilive/pkg/errors"
)

// =============================================================================
// Views
// =============================================================================

// View selects which graph(s) a caller receives.
type View string

const (
	ViewBoth         View = "both"
	ViewHierarchy    View = "hierarchy"
	ViewConnectivity View = "connectivity"
)

// Views lists every accepted view, default first.
var Views = []View{ViewBoth, ViewHierarchy, ViewConnectivity}

// ParseView maps a user-supplied name to a View. An empty name selects
// ViewBoth; unknown names fail with INVALID_VIEW.
func ParseView(s string) (View, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ViewBoth, nil
	}
	for _, v := range Views {
		if string(v) == s {
			return v, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidView, "unknown view %q (want both, hierarchy or connectivity)", s)
}

// =============================================================================
// Graph Types
// =============================================================================

// Node is one module instance. ID is the module's full name.
type Node struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Edge is a containment edge from a parent module to a child.
type Edge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Link is a signal edge from the module driving a net to a module reading it.
type Link struct {
	From  string `json:"from" yaml:"from"`
	To    string `json:"to" yaml:"to"`
	Width int    `json:"width" yaml:"width"`
	Label string `json:"label" yaml:"label"`
}

// Hierarchy is the module containment graph.
type Hierarchy struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// Connectivity is the signal graph over the same nodes as Hierarchy.
type Connectivity struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Link `json:"edges" yaml:"edges"`
}

// Result carries both graphs built from one design.
type Result struct {
	Hierarchy    Hierarchy    `json:"hierarchy" yaml:"hierarchy"`
	Connectivity Connectivity `json:"connectivity" yaml:"connectivity"`
}

// Select returns the value to serialize for a view: the Result itself for
// ViewBoth, otherwise the single graph.
func (r *Result) Select(v View) any {
	switch v {
	case ViewHierarchy:
		return r.Hierarchy
	case ViewConnectivity:
		return r.Connectivity
	default:
		return r
	}
}

// NodeCount returns the number of module nodes.
func (r *Result) NodeCount() int { return len(r.Hierarchy.Nodes) }

// EdgeCount returns the total number of edges across both graphs.
func (r *Result) EdgeCount() int {
	return len(r.Hierarchy.Edges) + len(r.Connectivity.Edges)
}
