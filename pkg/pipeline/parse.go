package pipeline

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/verilive/pkg/errors"
	"github.com/matzehuels/verilive/pkg/graph"
	"github.com/matzehuels/verilive/pkg/netlist"
)

// Parse runs the uncached parse stage: validate, parse, splice, build.
// Warnings recorded by the parser are logged at warn level.
func Parse(raw string, logger *log.Logger) (*netlist.Design, *graph.Result, netlist.SpliceStats, error) {
	if err := errors.ValidateNetlist(raw); err != nil {
		return nil, nil, netlist.SpliceStats{}, err
	}

	d, err := netlist.Parse(raw)
	if err != nil {
		return nil, nil, netlist.SpliceStats{}, fmt.Errorf("parse netlist: %w", err)
	}
	if logger != nil {
		for _, w := range d.Warnings {
			logger.Warn(w.Message, "code", w.Code, "at", w.Location)
		}
	}

	stats := netlist.Splice(d)
	return d, graph.Build(d), stats, nil
}
