package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/matzehuels/verilive/pkg/graph"
)

// fakeToolchain writes iverilog/vvp stand-ins and a config pointing at them.
// The fake iverilog copies the fixture dump to its -N argument.
func fakeToolchain(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	dir := t.TempDir()
	fix, err := filepath.Abs(fixture)
	if err != nil {
		t.Fatal(err)
	}

	tools := map[string]string{
		"iverilog": fmt.Sprintf("#!/bin/sh\ncp %q \"$2\"\n", fix),
		"vvp":      "#!/bin/sh\necho out = 0111\nprintf '$timescale 1s $end' > waveform.vcd\n",
	}
	for name, body := range tools {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	cfg := fmt.Sprintf("[compiler]\niverilog = %q\nvvp = %q\ntimeout = \"5s\"\n",
		filepath.Join(dir, "iverilog"), filepath.Join(dir, "vvp"))
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCompileCommand(t *testing.T) {
	cfg := fakeToolchain(t)
	src := t.TempDir()
	for _, f := range []string{"module.v", "testbench.v"} {
		if err := os.WriteFile(filepath.Join(src, f), []byte("module m; endmodule\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	out := filepath.Join(src, "graph.json")
	dump := filepath.Join(src, "design.netlist")
	wave := filepath.Join(src, "design.vcd")

	_, err := runCLI(t, "", "--config", cfg, "--no-cache", "compile",
		filepath.Join(src, "module.v"), filepath.Join(src, "testbench.v"),
		"-o", out, "--netlist", dump, "--waveform", wave)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	res, err := graph.UnmarshalResult(data)
	if err != nil {
		t.Fatalf("UnmarshalResult: %v", err)
	}
	if res.NodeCount() != 5 {
		t.Errorf("NodeCount() = %d, want 5", res.NodeCount())
	}

	want, _ := os.ReadFile(fixture)
	if got, _ := os.ReadFile(dump); string(got) != string(want) {
		t.Error("--netlist did not save the dump iverilog produced")
	}
	if got, _ := os.ReadFile(wave); string(got) != "$timescale 1s $end" {
		t.Errorf("waveform = %q", got)
	}
}

func TestCompileCommandMissingSource(t *testing.T) {
	cfg := fakeToolchain(t)
	if _, err := runCLI(t, "", "--config", cfg, "compile", "nope.v", "nope_tb.v"); err == nil {
		t.Error("expected error for missing sources")
	}
}
