package netlist

import (
	"strings"
)

// Handles into the arenas of a Design.
type (
	ModuleID int
	PortID   int
	NetID    int
)

// NoNet marks a port that was never attached to a net.
const NoNet NetID = -1

// Direction is the data flow direction of a port or elaboration endpoint.
type Direction int

const (
	DirUnknown Direction = iota
	DirInput
	DirOutput
)

// String returns "input", "output" or "unknown".
func (d Direction) String() string {
	switch d {
	case DirInput:
		return "input"
	case DirOutput:
		return "output"
	default:
		return "unknown"
	}
}

// parseDirection maps a direction token to a Direction.
// The second result is false for tokens outside {input, output}.
func parseDirection(s string) (Direction, bool) {
	switch s {
	case "input":
		return DirInput, true
	case "output":
		return DirOutput, true
	default:
		return DirUnknown, false
	}
}

// PortKind is the declaration kind of a port.
type PortKind int

const (
	PortReg PortKind = iota + 1
	PortWire
	// PortEvent is synthesized by the compiler for code events (@(posedge clk)).
	PortEvent
)

// String returns "reg", "wire" or "event".
func (k PortKind) String() string {
	switch k {
	case PortReg:
		return "reg"
	case PortWire:
		return "wire"
	case PortEvent:
		return "event"
	default:
		return "unknown"
	}
}

// Module is one hierarchical instance in the design.
type Module struct {
	FullName string // dot-delimited path, e.g. "top.bargraph3.bg0"
	Kind     string // declared module type
	Ports    []PortID
}

// ShortName returns the last dot-segment of the full name.
func (m *Module) ShortName() string {
	if i := strings.LastIndexByte(m.FullName, '.'); i >= 0 {
		return m.FullName[i+1:]
	}
	return m.FullName
}

// Parent returns the full name of the enclosing module.
// Root modules (no dot in the name) report false.
func (m *Module) Parent() (string, bool) {
	if i := strings.LastIndexByte(m.FullName, '.'); i >= 0 {
		return m.FullName[:i], true
	}
	return "", false
}

// Port is a named signal declared inside a module.
type Port struct {
	Name        string
	Kind        PortKind
	Width       int       // bit count; zero for events
	Direction   Direction // always DirUnknown for events
	IsLocal     bool      // synthesized by the compiler rather than declared
	CodeSnippet string    // events only

	Module ModuleID
	Net    NetID // last net the port was attached to, or NoNet
}

// EffectiveDirection returns the explicit direction when known, otherwise
// wire ports count as inputs and reg ports as outputs. Events have none.
func (p *Port) EffectiveDirection() Direction {
	if p.Direction != DirUnknown {
		return p.Direction
	}
	switch p.Kind {
	case PortWire:
		return DirInput
	case PortReg:
		return DirOutput
	default:
		return DirUnknown
	}
}

// Net is the connectivity identity shared by every endpoint that carries the
// same signal. ID is authoritative; Name is a label and may repeat.
type Net struct {
	ID      string
	Name    string
	Members []PortID // first-seen order
}
