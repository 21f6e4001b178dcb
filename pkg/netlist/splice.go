package netlist

import "fmt"

// SpliceStats reports how many logic endpoints Splice rewrote.
type SpliceStats struct {
	Outputs int
	Inputs  int
}

// Splice reconnects logic primitives across the local nets that part-selects
// introduce when a bit range of one net meets a net of a different width.
//
// For every NetPartSelect whose input net is local, a logic primitive driving
// that local net is rewired to drive the part-select's output instead. For
// every NetPartSelect whose output net is local (and input net is not), logic
// inputs reading that local net are rewired to read the part-select's input.
// Only *Logic records change; part-selects stay in the list.
func Splice(d *Design) SpliceStats {
	local := d.LocalNets()
	localIns := make(map[NetID]*NetPartSelect)
	localOuts := make(map[NetID]*NetPartSelect)

	for _, e := range d.Elaborations {
		nps, ok := e.(*NetPartSelect)
		if !ok {
			continue
		}
		if local[nps.In] {
			localIns[nps.In] = nps
		} else if local[nps.Out] {
			localOuts[nps.Out] = nps
		}
	}

	var stats SpliceStats
	for _, e := range d.Elaborations {
		switch e := e.(type) {
		case *Logic:
			if m, ok := localIns[e.Out]; ok {
				e.Out = m.Out
				stats.Outputs++
			}
			for i, in := range e.Ins {
				if m, ok := localOuts[in]; ok {
					e.Ins[i] = m.In
					stats.Inputs++
				}
			}
		case *NetPartSelect, *Posedge:
		default:
			panic(fmt.Sprintf("netlist: unexpected elaboration %T", e))
		}
	}
	return stats
}
