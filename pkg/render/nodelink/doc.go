// Package nodelink draws hierarchy and connectivity graphs as Graphviz
// node-link diagrams.
//
// [ToDOT] emits DOT source; [RenderSVG] lays it out in-process through
// [github.com/goccy/go-graphviz]. PDF and PNG go through rsvg-convert
// (see package render).
//
//	dot, err := nodelink.ToDOT(res, nodelink.Options{View: graph.ViewConnectivity})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Signal edges carry their "driver → reader" label and a pen width that
// grows with the log of the bus width. Containment edges draw with hollow
// arrowheads, dashed when overlaid on signal edges.
package nodelink
