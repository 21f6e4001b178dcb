// Package graph builds and serializes the two graph views of a parsed netlist.
//
// This package defines the wire format for Verilive's graph data, used for
// JSON and YAML files, API responses, and cached pipeline results.
//
// # Architecture
//
// The package sits between the netlist parser and every consumer:
//
//   - pkg/netlist.Design: parsed modules, ports, nets and elaborations
//   - [Result]: both graphs, ready for serialization (this package)
//   - pkg/render/nodelink: Graphviz rendering of a [Result]
//
// Use [Build] to derive a [Result] from a spliced design.
//
// # Core Types
//
//   - [Hierarchy]: containment graph, one edge per parent/child pair
//   - [Connectivity]: signal graph, one edge per (driver, reader) pair of a net
//   - [Node], [Edge], [Link]: shared structural types
//   - [View]: which graph(s) a caller wants
//
// # Serialization
//
// Graphs use a node-link format:
//
//	{
//	  "nodes": [{"id": "top", "label": "top\\n<top>"}],
//	  "edges": [{"from": "top", "to": "top.b"}]
//	}
//
// Connectivity edges carry a bit width and a "driver → reader" label.
// [ViewBoth] wraps both graphs under "hierarchy" and "connectivity" keys.
//
//	r := graph.Build(design)
//	graph.WriteJSON(os.Stdout, r.Select(graph.ViewConnectivity))
//	graph.WriteYAML(os.Stdout, r)
//
// # Determinism
//
// Node order follows module declaration order and edge order follows net
// creation order, so the same netlist always encodes to the same bytes.
package graph
