package nodelink

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/verilive/pkg/errors"
	"github.com/matzehuels/verilive/pkg/graph"
)

func sample() *graph.Result {
	nodes := []graph.Node{
		{ID: "top", Label: `top\n<tb>`},
		{ID: "top.c", Label: `c\n<counter>`},
	}
	return &graph.Result{
		Hierarchy: graph.Hierarchy{
			Nodes: nodes,
			Edges: []graph.Edge{{From: "top", To: "top.c"}},
		},
		Connectivity: graph.Connectivity{
			Nodes: nodes,
			Edges: []graph.Link{
				{From: "top", To: "top.c", Width: 1, Label: "clk → clk"},
				{From: "top.c", To: "top", Width: 8, Label: "count → q"},
			},
		},
	}
}

func TestToDOT_Views(t *testing.T) {
	tests := []struct {
		view          graph.View
		wantHierarchy bool
		wantSignals   bool
	}{
		{graph.ViewBoth, true, true},
		{"", true, true},
		{graph.ViewHierarchy, true, false},
		{graph.ViewConnectivity, false, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.view), func(t *testing.T) {
			dot, err := ToDOT(sample(), Options{View: tt.view})
			if err != nil {
				t.Fatalf("ToDOT: %v", err)
			}
			if !strings.HasPrefix(dot, "digraph G {") {
				t.Error("ToDOT() output missing digraph declaration")
			}
			if got := strings.Contains(dot, "arrowhead=empty"); got != tt.wantHierarchy {
				t.Errorf("hierarchy edges present = %v, want %v", got, tt.wantHierarchy)
			}
			if got := strings.Contains(dot, `label="clk → clk"`); got != tt.wantSignals {
				t.Errorf("signal edges present = %v, want %v", got, tt.wantSignals)
			}
		})
	}
}

func TestToDOT_InvalidView(t *testing.T) {
	_, err := ToDOT(sample(), Options{View: "sideways"})
	if !errors.Is(err, errors.ErrCodeInvalidView) {
		t.Errorf("error = %v, want INVALID_VIEW", err)
	}
}

func TestToDOT_Labels(t *testing.T) {
	dot, _ := ToDOT(sample(), Options{View: graph.ViewConnectivity})
	if !strings.Contains(dot, `"top.c" [label="c\n<counter>"]`) {
		t.Errorf("node label not passed through verbatim:\n%s", dot)
	}

	dot, _ = ToDOT(sample(), Options{View: graph.ViewConnectivity, Detailed: true})
	if !strings.Contains(dot, `label="c\n<counter>\ntop.c"`) {
		t.Errorf("detailed node label missing full path:\n%s", dot)
	}
	if !strings.Contains(dot, `label="count → q [8]"`) {
		t.Errorf("detailed edge label missing width:\n%s", dot)
	}
}

func TestDotQuote(t *testing.T) {
	tests := []struct{ in, want string }{
		{"a", `"a"`},
		{`say "hi"`, `"say \"hi\""`},
		{`a\nb`, `"a\nb"`},
		{`\bus\`, `"\\bus\\"`},
		{`top.\a\b `, `"top.\\a\\b "`},
		{`x\"`, `"x\\\""`},
		{`\\n`, `"\\\n"`},
	}
	for _, tt := range tests {
		if got := dotQuote(tt.in); got != tt.want {
			t.Errorf("dotQuote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestPenwidth(t *testing.T) {
	tests := []struct {
		width int
		want  float64
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{8, 4},
		{32, 6},
	}
	for _, tt := range tests {
		if got := penwidth(tt.width); got != tt.want {
			t.Errorf("penwidth(%d) = %v, want %v", tt.width, got, tt.want)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}

	noBox := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(noBox); !bytes.Equal(got, noBox) {
		t.Errorf("normalizeViewBox() without viewBox changed input: %s", got)
	}
}

func TestRender(t *testing.T) {
	ctx := context.Background()

	dot, err := Render(ctx, sample(), FormatDOT, Options{})
	if err != nil {
		t.Fatalf("Render(dot): %v", err)
	}
	if !bytes.HasPrefix(dot, []byte("digraph G")) {
		t.Errorf("Render(dot) = %q", dot)
	}

	svg, err := Render(ctx, sample(), FormatSVG, Options{View: graph.ViewConnectivity})
	if err != nil {
		t.Fatalf("Render(svg): %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("Render(svg) output missing <svg")
	}

	if _, err := Render(ctx, sample(), "gif", Options{}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Render(gif) error = %v, want INVALID_FORMAT", err)
	}
}
