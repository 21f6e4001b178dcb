// Package netlist parses the structural debug dump ("netlist") written by the
// Icarus Verilog compiler (iverilog -N) into modules, ports, nets and
// elaborated primitives.
//
// # Overview
//
// The dump is a sequence of sections introduced by upper-case headers such as
// "SCOPES:" and "ELABORATED NODES:". Inside a section, every line with zero
// indentation starts a new block. A SCOPES block describes one module instance
// and its ports; an ELABORATED NODES block describes one synthesized node
// (edge detector, bit-slice connector, or logic primitive) and the nets it
// touches.
//
// # Usage
//
//	d, err := netlist.Parse(raw)
//	if err != nil {
//	    return err // *errors.Error with code and location
//	}
//	netlist.Splice(d)
//
// [Parse] builds a fresh [Registry] for every call, so net identifiers from
// different dumps never collide. [Splice] rewrites logic primitives to bypass
// the synthetic local nets the compiler introduces when a bit range of one net
// drives a net of a different width.
//
// # Handles
//
// Modules, ports and nets live in arenas owned by the [Design] and [Registry]
// and refer to each other through [ModuleID], [PortID] and [NetID] handles.
// Back-references (port to module, port to net) are plain indices, so the
// object graph has no reference cycles.
//
// # Errors
//
// Structural problems abort the parse with an error from
// github.com/matzehuels/verilive/pkg/errors carrying the section, block and
// line where the dump diverged from the expected format. The only recoverable
// finding is an unrecognized port direction, which is reported in
// [Design.Warnings] while the port's direction degrades to [DirUnknown].
package netlist
