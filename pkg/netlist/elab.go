package netlist

import (
	"fmt"
	"strings"
)

// ElabKind tags the variant of an Elaboration.
type ElabKind int

const (
	ElabPosedge ElabKind = iota + 1
	ElabNetPartSelect
	ElabLogic
)

// String returns the variant name as it appears in the dump.
func (k ElabKind) String() string {
	switch k {
	case ElabPosedge:
		return "posedge"
	case ElabNetPartSelect:
		return "NetPartSelect"
	case ElabLogic:
		return "logic"
	default:
		return "unknown"
	}
}

// elabKinds maps the leading token of an ELABORATED NODES block to its variant.
var elabKinds = map[string]ElabKind{
	"NetPartSelect": ElabNetPartSelect,
	"posedge":       ElabPosedge,
	"logic":         ElabLogic,
}

// Elaboration is a synthesized structural node. The set of implementations
// is closed: *Posedge, *NetPartSelect and *Logic.
type Elaboration interface {
	Kind() ElabKind
	// Describe renders the node with net names resolved through r.
	Describe(r *Registry) string
	elaboration()
}

// Posedge is an edge detector triggering a code event.
type Posedge struct {
	In NetID
}

// NetPartSelect connects a bit range of a wide net to a narrower net.
// LargeSide says which endpoint is the full-width net.
type NetPartSelect struct {
	In        NetID
	Out       NetID
	LargeSide Direction
	Offset    int
	Width     int
}

// Logic is a combinational primitive (AND, NOT, BUF, ...).
// Ins and Out are rewritten in place by Splice.
type Logic struct {
	Primitive string
	Ins       []NetID
	Out       NetID
}

func (*Posedge) Kind() ElabKind       { return ElabPosedge }
func (*NetPartSelect) Kind() ElabKind { return ElabNetPartSelect }
func (*Logic) Kind() ElabKind         { return ElabLogic }

func (*Posedge) elaboration()       {}
func (*NetPartSelect) elaboration() {}
func (*Logic) elaboration()         {}

// Describe returns "posedge: event on <net>".
func (e *Posedge) Describe(r *Registry) string {
	return "posedge: event on " + r.Name(e.In)
}

// Describe returns "NetPartSelect: wide[lo:hi] -> narrow" with the bit range
// on whichever side is the full-width net.
func (e *NetPartSelect) Describe(r *Registry) string {
	bits := fmt.Sprintf("[%d:%d]", e.Offset, e.Offset+e.Width-1)
	var b strings.Builder
	b.WriteString("NetPartSelect: ")
	b.WriteString(r.Name(e.In))
	if e.LargeSide == DirInput {
		b.WriteString(bits)
	}
	b.WriteString(" -> ")
	b.WriteString(r.Name(e.Out))
	if e.LargeSide == DirOutput {
		b.WriteString(bits)
	}
	return b.String()
}

// Describe returns "logic: KIND: in1, in2 -> out".
func (e *Logic) Describe(r *Registry) string {
	ins := make([]string, len(e.Ins))
	for i, n := range e.Ins {
		ins[i] = r.Name(n)
	}
	return fmt.Sprintf("logic: %s: %s -> %s", e.Primitive, strings.Join(ins, ", "), r.Name(e.Out))
}
