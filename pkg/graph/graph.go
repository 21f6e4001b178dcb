package graph

import (
	"github.com/matzehuels/verilive/pkg/netlist"
)

// =============================================================================
// Graph Builder
// =============================================================================

// Build derives both graphs from d. Call netlist.Splice on d first when
// logic elaborations matter to the caller; Build itself reads only modules,
// ports and nets.
func Build(d *netlist.Design) *Result {
	return &Result{
		Hierarchy:    BuildHierarchy(d),
		Connectivity: BuildConnectivity(d),
	}
}

// BuildHierarchy returns one node per module and one edge per module that
// has a parent path.
func BuildHierarchy(d *netlist.Design) Hierarchy {
	h := Hierarchy{
		Nodes: nodes(d),
		Edges: make([]Edge, 0, len(d.Modules)),
	}
	for i := range d.Modules {
		m := &d.Modules[i]
		if parent, ok := m.Parent(); ok {
			h.Edges = append(h.Edges, Edge{From: parent, To: m.FullName})
		}
	}
	return h
}

// BuildConnectivity returns one edge per (output, input) member pair of every
// net with more than one member. Event ports and ports without an effective
// direction take no part.
func BuildConnectivity(d *netlist.Design) Connectivity {
	c := Connectivity{
		Nodes: nodes(d),
		Edges: []Link{},
	}
	for _, n := range d.Nets.Nets() {
		if len(n.Members) <= 1 {
			continue
		}
		var ins, outs []*netlist.Port
		for _, pid := range n.Members {
			p := d.Port(pid)
			switch p.EffectiveDirection() {
			case netlist.DirInput:
				ins = append(ins, p)
			case netlist.DirOutput:
				outs = append(outs, p)
			}
		}
		for _, i := range ins {
			for _, o := range outs {
				c.Edges = append(c.Edges, Link{
					From:  d.Module(o.Module).FullName,
					To:    d.Module(i.Module).FullName,
					Width: max(i.Width, o.Width),
					Label: o.Name + " → " + i.Name,
				})
			}
		}
	}
	return c
}

// nodes returns the shared node list in module declaration order.
func nodes(d *netlist.Design) []Node {
	out := make([]Node, len(d.Modules))
	for i := range d.Modules {
		m := &d.Modules[i]
		out[i] = Node{ID: m.FullName, Label: NodeLabel(m)}
	}
	return out
}

// NodeLabel formats "<short>\n<<kind>>" with a literal backslash-n, which
// Graphviz and the browser front end both read as a line break.
func NodeLabel(m *netlist.Module) string {
	return m.ShortName() + `\n<` + m.Kind + `>`
}
