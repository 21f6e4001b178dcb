// Package render provides format conversion for rendered netlist graphs.
//
// The [nodelink] subpackage turns a graph view into Graphviz DOT and SVG.
// This package converts that SVG to PDF or PNG with the external
// rsvg-convert tool (from librsvg):
//
//	svg, _ := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0) // 2x scale
package render
