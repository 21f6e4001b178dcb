package netlist

import (
	"github.com/matzehuels/verilive/pkg/errors"
)

// Design is the parsed content of one netlist dump.
type Design struct {
	Modules      []Module
	Ports        []Port
	Nets         *Registry
	Elaborations []Elaboration

	// Warnings holds recoverable findings (AMBIGUOUS_DIRECTION).
	Warnings []*errors.Error
}

// Module returns the module for a handle.
func (d *Design) Module(id ModuleID) *Module { return &d.Modules[id] }

// Port returns the port for a handle.
func (d *Design) Port(id PortID) *Port { return &d.Ports[id] }

// LocalNets returns the set of nets with at least one compiler-synthesized
// member port.
func (d *Design) LocalNets() map[NetID]bool {
	local := make(map[NetID]bool)
	for nid, n := range d.Nets.Nets() {
		for _, pid := range n.Members {
			if d.Ports[pid].IsLocal {
				local[NetID(nid)] = true
				break
			}
		}
	}
	return local
}

// Stats summarizes a design.
type Stats struct {
	Modules        int
	Ports          int
	LocalPorts     int
	Nets           int
	Posedges       int
	NetPartSelects int
	Logics         int
}

// Elaborations returns the total number of elaborations.
func (s Stats) Elaborations() int {
	return s.Posedges + s.NetPartSelects + s.Logics
}

// Stats counts the entities in the design.
func (d *Design) Stats() Stats {
	s := Stats{
		Modules: len(d.Modules),
		Ports:   len(d.Ports),
		Nets:    d.Nets.Len(),
	}
	for i := range d.Ports {
		if d.Ports[i].IsLocal {
			s.LocalPorts++
		}
	}
	for _, e := range d.Elaborations {
		switch e.(type) {
		case *Posedge:
			s.Posedges++
		case *NetPartSelect:
			s.NetPartSelects++
		case *Logic:
			s.Logics++
		}
	}
	return s
}

// Parse splits raw into sections and parses every SCOPES and ELABORATED NODES
// block. Both sections must be present; either one may be empty.
//
// Each call uses its own Registry. The returned design is not spliced; call
// Splice before building connectivity from elaborations.
func Parse(raw string) (*Design, error) {
	sections := SplitSections(raw)

	scopes, ok := sections[SectionScopes]
	if !ok {
		return nil, errors.New(errors.ErrCodeMalformedSection, "missing %s section", SectionScopes)
	}
	nodes, ok := sections[SectionElaboratedNodes]
	if !ok {
		return nil, errors.New(errors.ErrCodeMalformedSection, "missing %s section", SectionElaboratedNodes)
	}

	p := newParser()
	p.section = SectionScopes
	for i, block := range GroupLines(scopes) {
		p.block = i
		if err := p.parseModule(block); err != nil {
			return nil, err
		}
	}

	p.section = SectionElaboratedNodes
	for i, block := range GroupLines(nodes) {
		p.block = i
		e, err := p.parseElaboration(block)
		if err != nil {
			return nil, err
		}
		p.design.Elaborations = append(p.design.Elaborations, e)
	}

	return p.design, nil
}

// parser carries the design under construction and the current position.
type parser struct {
	design  *Design
	names   map[string]ModuleID
	section string
	block   int
}

func newParser() *parser {
	return &parser{
		design: &Design{Nets: NewRegistry()},
		names:  make(map[string]ModuleID),
	}
}

// loc builds a location for line i of the current block.
func (p *parser) loc(i int, text string) errors.Location {
	return errors.Location{Section: p.section, Block: p.block, Line: i, Text: text}
}

// fail returns a located error for line i of the current block.
func (p *parser) fail(code errors.Code, i int, text, format string, args ...any) error {
	return errors.New(code, format, args...).At(p.loc(i, text))
}

// warn records a recoverable finding.
func (p *parser) warn(code errors.Code, i int, text, format string, args ...any) {
	p.design.Warnings = append(p.design.Warnings, errors.New(code, format, args...).At(p.loc(i, text)))
}
