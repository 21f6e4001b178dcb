package graph

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/verilive/pkg/errors"
)

func sampleResult() *Result {
	nodes := []Node{{ID: "top", Label: `top\n<top>`}, {ID: "top.u", Label: `u\n<tff>`}}
	return &Result{
		Hierarchy: Hierarchy{Nodes: nodes, Edges: []Edge{{From: "top", To: "top.u"}}},
		Connectivity: Connectivity{
			Nodes: nodes,
			Edges: []Link{{From: "top.u", To: "top", Width: 2, Label: "q → d"}},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleResult()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`"hierarchy": {`,
		`"connectivity": {`,
		`"label": "u\\n<tff>"`,
		`"label": "q → d"`,
		`"width": 2`,
		`"from": "top"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON missing %s:\n%s", want, out)
		}
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteYAML(&buf, sampleResult().Select(ViewConnectivity)); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"nodes:", "edges:", "width: 2", "from: top.u"} {
		if !strings.Contains(out, want) {
			t.Errorf("YAML missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hierarchy:") {
		t.Error("connectivity view should not include hierarchy")
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, sampleResult(), "xml")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Write(xml) error = %v, want INVALID_FORMAT", err)
	}
}

func TestUnmarshalResult(t *testing.T) {
	want := sampleResult()
	data, err := Marshal(want, FormatJSON)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := UnmarshalResult(data)
	if err != nil {
		t.Fatalf("UnmarshalResult: %v", err)
	}
	if got.Connectivity.Edges[0] != want.Connectivity.Edges[0] {
		t.Errorf("edge = %+v, want %+v", got.Connectivity.Edges[0], want.Connectivity.Edges[0])
	}
	if len(got.Hierarchy.Nodes) != 2 || got.Hierarchy.Nodes[1].Label != `u\n<tff>` {
		t.Errorf("nodes = %+v", got.Hierarchy.Nodes)
	}

	if _, err := UnmarshalResult([]byte("{")); err == nil {
		t.Error("UnmarshalResult(truncated) succeeded")
	}
}
