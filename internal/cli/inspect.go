package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/verilive/pkg/netlist"
	"github.com/matzehuels/verilive/pkg/pipeline"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var showAll bool

	cmd := &cobra.Command{
		Use:   "inspect <netlist>",
		Short: "Summarize the modules, shared nets and elaborations of a netlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			d, _, splice, err := pipeline.Parse(raw, log.FromContext(cmd.Context()))
			if err != nil {
				return err
			}
			writeInspection(cmd.OutOrStdout(), d, splice, showAll)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showAll, "all", false, "list every net, not only those shared by several ports")
	return cmd
}

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

// writeInspection renders summary, module, net and elaboration tables.
func writeInspection(w io.Writer, d *netlist.Design, splice netlist.SpliceStats, showAll bool) {
	s := d.Stats()

	fmt.Fprintln(w, StyleTitle.Render("Summary"))
	summary := newTable("Modules", "Ports", "Local", "Nets", "Posedge", "PartSelect", "Logic", "Spliced")
	summary.Row(
		strconv.Itoa(s.Modules), strconv.Itoa(s.Ports), strconv.Itoa(s.LocalPorts), strconv.Itoa(s.Nets),
		strconv.Itoa(s.Posedges), strconv.Itoa(s.NetPartSelects), strconv.Itoa(s.Logics),
		fmt.Sprintf("%d out / %d in", splice.Outputs, splice.Inputs),
	)
	fmt.Fprintln(w, summary.Render())

	fmt.Fprintln(w, StyleTitle.Render("Modules"))
	modules := newTable("Instance", "Kind", "Ports", "Parent")
	for i := range d.Modules {
		m := &d.Modules[i]
		parent, ok := m.Parent()
		if !ok {
			parent = "—"
		}
		modules.Row(m.FullName, m.Kind, strconv.Itoa(len(m.Ports)), parent)
	}
	fmt.Fprintln(w, modules.Render())

	title := "Shared nets"
	if showAll {
		title = "Nets"
	}
	fmt.Fprintln(w, StyleTitle.Render(title))
	nets := newTable("Net", "ID", "Members")
	for _, n := range d.Nets.Nets() {
		if !showAll && len(n.Members) < 2 {
			continue
		}
		nets.Row(n.Name, n.ID, memberList(d, n.Members))
	}
	fmt.Fprintln(w, nets.Render())

	if len(d.Elaborations) > 0 {
		fmt.Fprintln(w, StyleTitle.Render("Elaborations"))
		elabs := newTable("#", "Node")
		for i, e := range d.Elaborations {
			elabs.Row(strconv.Itoa(i), e.Describe(d.Nets))
		}
		fmt.Fprintln(w, elabs.Render())
	}

	for _, warn := range d.Warnings {
		fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(warn.Error()))
	}
}

// memberList names each member port as module.port.
func memberList(d *netlist.Design, members []netlist.PortID) string {
	names := make([]string, len(members))
	for i, pid := range members {
		p := d.Port(pid)
		names[i] = d.Module(p.Module).ShortName() + "." + p.Name
	}
	return strings.Join(names, ", ")
}
