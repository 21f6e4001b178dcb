// Package pkg holds the libraries behind verilive.
//
// # Overview
//
// Verilive reads the netlist dump that Icarus Verilog writes with
// "iverilog -N" and turns it into two graphs over module instances: the
// containment hierarchy and the signal connectivity between modules.
//
// # Architecture
//
//	Verilog sources
//	      ↓
//	 [compiler]   iverilog + vvp under a time budget
//	      ↓
//	 netlist dump
//	      ↓
//	 [netlist]    sections, scopes, elaborations, net registry, splice
//	      ↓
//	 [graph]      hierarchy + connectivity, JSON/YAML encoding
//	      ↓
//	 [render]     Graphviz DOT/SVG, PNG/PDF via rsvg-convert
//
// [pipeline] chains these stages behind a [cache] and reports timings through
// [observability]. Errors carry a [errors.Code] and, for parse failures, the
// section, block and line that failed.
//
// # Quick Start
//
//	d, err := netlist.Parse(raw)
//	if err != nil {
//	    return err
//	}
//	netlist.Splice(d)
//	g := graph.Build(d)
//	return graph.WriteJSON(os.Stdout, g)
package pkg
