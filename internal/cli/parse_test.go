package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/verilive/pkg/graph"
)

const fixture = "../../pkg/netlist/testdata/bargraph.netlist"

// runCLI executes the root command with args against an empty config home.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	old := statusOut
	statusOut = io.Discard
	t.Cleanup(func() { statusOut = old })

	var out bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	err := root.Execute()
	return out.String(), err
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"", ""},
		{"graph.json", "json"},
		{"graph.JSON", "json"},
		{"graph.yaml", "yaml"},
		{"graph.yml", "yaml"},
		{"design.svg", "svg"},
		{"design.gv", "dot"},
		{"design.dot", "dot"},
		{"design.pdf", "pdf"},
		{"notes.txt", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := formatFromPath(tt.path); got != tt.want {
				t.Errorf("formatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestParseCommandToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "graph.json")
	if _, err := runCLI(t, "", "parse", "--no-cache", fixture, "-o", out); err != nil {
		t.Fatalf("parse: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	res, err := graph.UnmarshalResult(data)
	if err != nil {
		t.Fatalf("UnmarshalResult: %v", err)
	}
	if got := res.NodeCount(); got != 5 {
		t.Errorf("NodeCount() = %d, want 5", got)
	}
	if got := len(res.Connectivity.Edges); got != 9 {
		t.Errorf("connectivity edges = %d, want 9", got)
	}
}

func TestParseCommandStdin(t *testing.T) {
	raw, err := os.ReadFile(fixture)
	if err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, string(raw), "parse", "-", "--view", "hierarchy")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var h graph.Hierarchy
	if err := json.Unmarshal([]byte(out), &h); err != nil {
		t.Fatalf("stdout is not a hierarchy: %v\n%s", err, out)
	}
	if len(h.Edges) != 4 {
		t.Errorf("hierarchy edges = %d, want 4", len(h.Edges))
	}
}

func TestParseCommandYAMLFromExtension(t *testing.T) {
	out := filepath.Join(t.TempDir(), "graph.yml")
	if _, err := runCLI(t, "", "parse", fixture, "-o", out); err != nil {
		t.Fatalf("parse: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "hierarchy:") {
		t.Errorf("output does not look like YAML:\n%s", data)
	}
}

func TestParseCommandErrors(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.netlist")
	if err := os.WriteFile(bad, []byte("SCOPES:\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"parse", "does-not-exist.netlist"}},
		{"missing section", []string{"parse", bad}},
		{"bad view", []string{"parse", fixture, "--view", "sideways"}},
		{"bad format", []string{"parse", fixture, "-f", "xml"}},
		{"no args", []string{"parse"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, "", tt.args...); err == nil {
				t.Errorf("%v: expected error", tt.args)
			}
		})
	}
}
