package cli

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/matzehuels/verilive/pkg/netlist"
)

func loadDesign(t *testing.T) (*netlist.Design, netlist.SpliceStats) {
	t.Helper()
	raw, err := os.ReadFile(fixture)
	if err != nil {
		t.Fatal(err)
	}
	d, err := netlist.Parse(string(raw))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return d, netlist.Splice(d)
}

func TestWriteInspection(t *testing.T) {
	d, splice := loadDesign(t)

	var buf bytes.Buffer
	writeInspection(&buf, d, splice, false)
	out := buf.String()

	for _, want := range []string{
		"Summary", "Modules", "Shared nets", "Elaborations",
		"bargraph_testbench.b.t2", "bargraph3", "tff",
		"1 out / 2 in",
		"posedge: event on",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("inspection missing %q", want)
		}
	}
}

func TestWriteInspectionAll(t *testing.T) {
	d, splice := loadDesign(t)

	var shared, all bytes.Buffer
	writeInspection(&shared, d, splice, false)
	writeInspection(&all, d, splice, true)

	if !strings.Contains(all.String(), "Nets") {
		t.Error("--all output missing Nets title")
	}
	if all.Len() <= shared.Len() {
		t.Errorf("--all output (%d bytes) not longer than shared-only (%d bytes)", all.Len(), shared.Len())
	}
}

func TestMemberList(t *testing.T) {
	d, _ := loadDesign(t)
	for _, n := range d.Nets.Nets() {
		if len(n.Members) < 2 {
			continue
		}
		got := memberList(d, n.Members)
		if parts := strings.Split(got, ", "); len(parts) != len(n.Members) {
			t.Errorf("memberList(%s) = %q, want %d entries", n.Name, got, len(n.Members))
		}
		return
	}
	t.Fatal("fixture has no shared net")
}
