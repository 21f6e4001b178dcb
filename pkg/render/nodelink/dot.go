package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/verilive/pkg/errors"
	"github.com/matzehuels/verilive/pkg/graph"
	"github.com/matzehuels/verilive/pkg/render"
)

// Output formats accepted by [Render].
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// Formats lists every accepted output format.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF, FormatDOT}

// Options configures diagram generation.
type Options struct {
	// View selects the edges drawn. ViewBoth overlays containment edges
	// (dashed, unlabeled) on the signal edges.
	View graph.View

	// Detailed adds the full instance path to node labels and the bit width
	// to signal edge labels.
	Detailed bool

	// Scale applies to PNG output only. Zero means 2.0.
	Scale float64
}

// ToDOT converts a graph result to Graphviz DOT source.
func ToDOT(r *graph.Result, opts Options) (string, error) {
	view := opts.View
	if view == "" {
		view = graph.ViewBoth
	}
	if _, err := graph.ParseView(string(view)); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("\n")

	for _, n := range r.Connectivity.Nodes {
		fmt.Fprintf(&buf, "  %s [label=%s];\n", dotQuote(n.ID), dotQuote(fmtLabel(n, opts.Detailed)))
	}

	if view != graph.ViewConnectivity {
		buf.WriteString("\n")
		for _, e := range r.Hierarchy.Edges {
			fmt.Fprintf(&buf, "  %s -> %s [%s];\n", dotQuote(e.From), dotQuote(e.To), hierarchyAttrs(view))
		}
	}
	if view != graph.ViewHierarchy {
		buf.WriteString("\n")
		for _, e := range r.Connectivity.Edges {
			fmt.Fprintf(&buf, "  %s -> %s [%s];\n", dotQuote(e.From), dotQuote(e.To), strings.Join(linkAttrs(e, opts.Detailed), ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

// dotQuote wraps s in double quotes. A backslash followed by n is kept
// as the label line break; every other backslash is doubled.
func dotQuote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '"':
			b.WriteString(`\"`)
		case c == '\\' && i+1 < len(s) && s[i+1] == 'n':
			b.WriteString(`\n`)
			i++
		case c == '\\':
			b.WriteString(`\\`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func fmtLabel(n graph.Node, detailed bool) string {
	if !detailed {
		return n.Label
	}
	return n.Label + `\n` + n.ID
}

func hierarchyAttrs(view graph.View) string {
	if view == graph.ViewBoth {
		return `style=dashed, color=grey, arrowhead=empty`
	}
	return `arrowhead=empty`
}

func linkAttrs(e graph.Link, detailed bool) []string {
	label := e.Label
	if detailed {
		label = fmt.Sprintf("%s [%d]", e.Label, e.Width)
	}
	return []string{
		"label=" + dotQuote(label),
		fmt.Sprintf("penwidth=%.2f", penwidth(e.Width)),
	}
}

// penwidth grows logarithmically with bus width; single bits draw at 1.
func penwidth(width int) float64 {
	if width <= 1 {
		return 1
	}
	return 1 + math.Log2(float64(width))
}

// Render produces the diagram in the requested format.
func Render(ctx context.Context, r *graph.Result, format string, opts Options) ([]byte, error) {
	dot, err := ToDOT(r, opts)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(format) {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG, "":
		return RenderSVG(ctx, dot)
	case FormatPDF:
		return RenderPDF(ctx, dot)
	case FormatPNG:
		scale := opts.Scale
		if scale == 0 {
			scale = 2.0
		}
		return RenderPNG(ctx, dot, scale)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown diagram format %q (want svg, png, pdf or dot)", format)
	}
}

// RenderSVG renders DOT source to SVG in-process.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render svg")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces graphviz's pt-sized root element with one that
// scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders DOT source to PDF via rsvg-convert.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders DOT source to PNG via rsvg-convert.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
