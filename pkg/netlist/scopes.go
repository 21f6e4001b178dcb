package netlist

import (
	"strconv"
	"strings"

	"github.com/matzehuels/verilive/pkg/errors"
)

// Indentation levels inside a SCOPES block.
const (
	portIndent = 4 // port declaration
	pinIndent  = 8 // net attachment of the open port
)

// parseModule consumes one SCOPES block:
//
//	top.bg.b0 bg <tff> inst
//	    reg: q[0:0 count=1] logic output (eref=0, lref=0) vector_width=1 pin_count=1
//	        0: 0x7f...a630 top.bg.b0.q
//	    event _ivl_3; 1 awaiting // tff.v:7: @(posedge clk)
func (p *parser) parseModule(block []string) error {
	meta := strings.Split(block[0], " ")
	if len(meta) != 4 {
		return p.fail(errors.ErrCodeMalformedLine, 0, block[0],
			"module header has %d fields, want 4 (name, supertype, <kind>, instance type)", len(meta))
	}
	name := meta[0]
	kind := strings.TrimRight(strings.TrimLeft(meta[2], "<"), ">")

	if _, dup := p.names[name]; dup {
		return p.fail(errors.ErrCodeMalformedBlock, 0, block[0], "duplicate module %s", name)
	}
	mid := ModuleID(len(p.design.Modules))
	p.names[name] = mid

	var (
		ports []PortID
		open  = PortID(-1)
	)
	finalize := func() {
		if open >= 0 {
			ports = append(ports, open)
			open = -1
		}
	}

	for i := 1; i < len(block); i++ {
		line := block[i]
		switch leadingSpaces(line) {
		case portIndent:
			finalize()
			port, ok, err := p.parsePortDecl(i, line)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			port.Module = mid
			port.Net = NoNet
			open = PortID(len(p.design.Ports))
			p.design.Ports = append(p.design.Ports, port)

		case pinIndent:
			if open < 0 {
				continue
			}
			netID, netName, err := p.parsePin(i, line)
			if err != nil {
				return err
			}
			p.design.Ports[open].Net = p.design.Nets.AttachPort(netID, netName, open)
		}
	}
	finalize()

	p.design.Modules = append(p.design.Modules, Module{FullName: name, Kind: kind, Ports: ports})
	return nil
}

// parsePortDecl parses a 4-space port line. The second result is false for
// declarations that are not modeled (anything but reg, wire and event).
func (p *parser) parsePortDecl(i int, line string) (Port, bool, error) {
	text := strings.TrimLeft(line, " ")

	switch {
	case strings.HasPrefix(text, "reg"), strings.HasPrefix(text, "wire"):
		port := Port{Kind: PortWire, IsLocal: strings.Contains(text, "(local)")}
		if strings.HasPrefix(text, "reg") {
			port.Kind = PortReg
		}

		_, rest, ok := strings.Cut(text, ": ")
		if !ok {
			return Port{}, false, p.fail(errors.ErrCodeMalformedLine, i, line, "port declaration has no name")
		}
		port.Name, _, _ = strings.Cut(rest, "[")

		port.Direction = p.portDirection(i, line, text)

		_, w, ok := strings.Cut(text, "vector_width=")
		if !ok {
			return Port{}, false, p.fail(errors.ErrCodeMalformedLine, i, line, "port %s has no vector_width", port.Name)
		}
		w, _, _ = strings.Cut(w, " pin_count=")
		width, err := strconv.Atoi(strings.TrimSpace(w))
		if err != nil {
			return Port{}, false, p.fail(errors.ErrCodeMalformedLine, i, line, "port %s: bad vector_width %q", port.Name, w)
		}
		port.Width = width
		return port, true, nil

	case strings.HasPrefix(text, "event"):
		port := Port{Kind: PortEvent}
		_, rest, _ := strings.Cut(text, "event ")
		port.Name, _, _ = strings.Cut(rest, ";")
		_, port.CodeSnippet, _ = strings.Cut(text, "// ")
		return port, true, nil

	default:
		return Port{}, false, nil
	}
}

// portDirection extracts the token between "logic" and "(eref". An absent
// token means no explicit direction; an unrecognized one is reported as a
// warning and degrades to DirUnknown.
func (p *parser) portDirection(i int, line, text string) Direction {
	_, rest, ok := strings.Cut(text, "logic")
	if !ok {
		return DirUnknown
	}
	raw, _, _ := strings.Cut(rest, "(eref")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DirUnknown
	}
	dir, ok := parseDirection(raw)
	if !ok {
		p.warn(errors.ErrCodeAmbiguousDirection, i, line, "direction %q is neither input nor output", raw)
	}
	return dir
}

// parsePin parses an 8-space "<prefix>: <net_id> <net_name>" line.
func (p *parser) parsePin(i int, line string) (id, name string, err error) {
	_, rest, ok := strings.Cut(line, ": ")
	if !ok {
		return "", "", p.fail(errors.ErrCodeMalformedLine, i, line, "net attachment has no ': ' separator")
	}
	fields := strings.Fields(rest)
	if len(fields) != 2 {
		return "", "", p.fail(errors.ErrCodeMalformedLine, i, line, "net attachment has %d fields, want id and name", len(fields))
	}
	return fields[0], fields[1], nil
}
