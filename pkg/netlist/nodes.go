package netlist

import (
	"strconv"
	"strings"

	"github.com/matzehuels/verilive/pkg/errors"
)

// elabKindToken returns the text before the first "(", ":" or " -> ".
func elabKindToken(header string) string {
	end := len(header)
	for _, sep := range []string{" -> ", "(", ":"} {
		if i := strings.Index(header, sep); i >= 0 && i < end {
			end = i
		}
	}
	return header[:end]
}

// parseElaboration consumes one ELABORATED NODES block:
//
//	NetPartSelect(PV): top._s2 #(.,.,.) off=2 wid=3
//	    0 pin0 I (strong0 strong1): 0x7f...a630 top._s2
//	    1 pin1 O (strong0 strong1): 0x7f...a950 top.out
func (p *parser) parseElaboration(block []string) (Elaboration, error) {
	header := block[0]
	tok := elabKindToken(header)
	kind, ok := elabKinds[tok]
	if !ok {
		return nil, p.fail(errors.ErrCodeUnknownVariant, 0, header, "unknown elaboration %q", tok)
	}

	var ins, outs []NetID
	for i := 1; i < len(block); i++ {
		line := block[i]
		fields := strings.Fields(line)
		if len(fields) < 5 {
			return nil, p.fail(errors.ErrCodeMalformedLine, i, line, "net reference has %d fields", len(fields))
		}
		nid := p.design.Nets.GetOrCreate(fields[len(fields)-2], fields[len(fields)-1])
		switch fields[2] {
		case "I":
			ins = append(ins, nid)
		case "O":
			outs = append(outs, nid)
		default:
			return nil, p.fail(errors.ErrCodeUnknownDirection, i, line, "net direction %q is neither I nor O", fields[2])
		}
	}

	switch kind {
	case ElabPosedge:
		if len(ins) == 0 {
			return nil, p.fail(errors.ErrCodeMalformedBlock, 0, header, "posedge has no input net")
		}
		return &Posedge{In: ins[0]}, nil

	case ElabNetPartSelect:
		e, err := p.parsePartSelectHeader(header)
		if err != nil {
			return nil, err
		}
		if len(ins) == 0 || len(outs) == 0 {
			return nil, p.fail(errors.ErrCodeMalformedBlock, 0, header,
				"NetPartSelect needs one input and one output net, got %d/%d", len(ins), len(outs))
		}
		e.In, e.Out = ins[0], outs[0]
		return e, nil

	case ElabLogic:
		_, rest, _ := strings.Cut(header, ":")
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return nil, p.fail(errors.ErrCodeMalformedLine, 0, header, "logic has no primitive kind")
		}
		if len(ins) == 0 || len(outs) == 0 {
			return nil, p.fail(errors.ErrCodeMalformedBlock, 0, header,
				"logic %s needs input and output nets, got %d/%d", fields[0], len(ins), len(outs))
		}
		return &Logic{Primitive: fields[0], Ins: ins, Out: outs[0]}, nil
	}

	return nil, p.fail(errors.ErrCodeInternal, 0, header, "unhandled elaboration kind %s", kind)
}

// parsePartSelectHeader reads the (PV|VP) flag and off=/wid= tokens.
func (p *parser) parsePartSelectHeader(header string) (*NetPartSelect, error) {
	e := &NetPartSelect{Offset: -1, Width: -1}

	_, rest, _ := strings.Cut(header, "(")
	flag, _, _ := strings.Cut(rest, ")")
	switch flag {
	case "PV":
		e.LargeSide = DirOutput
	case "VP":
		e.LargeSide = DirInput
	default:
		return nil, p.fail(errors.ErrCodeUnknownVariant, 0, header, "invalid NetPartSelect size flag %q", flag)
	}

	for _, f := range strings.Fields(header) {
		var dst *int
		switch {
		case strings.HasPrefix(f, "off="):
			dst = &e.Offset
		case strings.HasPrefix(f, "wid="):
			dst = &e.Width
		default:
			continue
		}
		n, err := strconv.Atoi(f[4:])
		if err != nil {
			return nil, p.fail(errors.ErrCodeMalformedLine, 0, header, "bad integer in %q", f)
		}
		*dst = n
	}
	if e.Offset < 0 || e.Width < 0 {
		return nil, p.fail(errors.ErrCodeMalformedLine, 0, header, "NetPartSelect missing off= or wid=")
	}
	return e, nil
}
