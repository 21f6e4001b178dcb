package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/verilive/pkg/graph"
	"github.com/matzehuels/verilive/pkg/render/nodelink"
)

// Emit renders the selected view of g in opts.Format. opts must already be
// validated.
func Emit(ctx context.Context, g *graph.Result, opts Options) ([]byte, error) {
	if opts.IsDiagram() {
		data, err := nodelink.Render(ctx, g, opts.Format, nodelink.Options{
			View:     opts.View,
			Detailed: opts.Detailed,
		})
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", opts.Format, err)
		}
		return data, nil
	}
	return graph.Marshal(g.Select(opts.View), opts.Format)
}
