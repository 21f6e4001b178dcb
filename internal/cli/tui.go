package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/verilive/pkg/netlist"
	"github.com/matzehuels/verilive/pkg/pipeline"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the interactive module explorer.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <netlist>",
		Short: "Explore a netlist's modules, ports and nets interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			d, _, _, err := pipeline.Parse(raw, log.FromContext(cmd.Context()))
			if err != nil {
				return err
			}
			if len(d.Modules) == 0 {
				printInfo("No modules in %s", args[0])
				return nil
			}
			_, err = tea.NewProgram(NewModuleListModel(d), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// =============================================================================
// ModuleListModel - module list with a port/net detail pane
// =============================================================================

// ModuleListModel is the bubbletea model behind `verilive browse`.
type ModuleListModel struct {
	Design *netlist.Design
	Cursor int
	Offset int
	Height int
	// Open is true while the detail pane of the module under the cursor is shown.
	Open bool
}

// NewModuleListModel creates a model positioned on the first module.
func NewModuleListModel(d *netlist.Design) ModuleListModel {
	return ModuleListModel{Design: d, Height: 15}
}

func (m ModuleListModel) Init() tea.Cmd {
	return nil
}

func (m ModuleListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc", "backspace":
			if m.Open {
				m.Open = false
				return m, nil
			}
			return m, tea.Quit
		case "enter":
			m.Open = !m.Open
		case "up", "k":
			if !m.Open && m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if !m.Open && m.Cursor < len(m.Design.Modules)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m ModuleListModel) View() string {
	if m.Open {
		return m.detailView()
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Modules"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ ports  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Design.Modules))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		mod := &m.Design.Modules[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		depth := strings.Count(mod.FullName, ".")
		name := strings.Repeat("  ", depth) + mod.ShortName()
		rows = append(rows, []string{cursor, name, mod.Kind, strconv.Itoa(len(mod.Ports))})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Instance", "Kind", "Ports").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Design.Modules))))
	return b.String()
}

// detailView lists the ports of the selected module and who else is on
// each port's net.
func (m ModuleListModel) detailView() string {
	d := m.Design
	mod := &d.Modules[m.Cursor]

	var b strings.Builder
	b.WriteString(StyleTitle.Render(mod.FullName))
	b.WriteString(" ")
	b.WriteString(StyleDim.Render("<" + mod.Kind + ">"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("esc back  q quit"))
	b.WriteString("\n\n")

	rows := [][]string{}
	for _, pid := range mod.Ports {
		p := d.Port(pid)
		dir := p.EffectiveDirection().String()
		if p.Direction == netlist.DirUnknown && p.Kind != netlist.PortEvent {
			dir += "*"
		}
		name := p.Name
		if p.IsLocal {
			name += " (local)"
		}
		net, shared := "—", "—"
		if p.Net != netlist.NoNet {
			n := d.Nets.Net(p.Net)
			net = n.Name
			var others []netlist.PortID
			for _, o := range n.Members {
				if o != pid {
					others = append(others, o)
				}
			}
			if len(others) > 0 {
				shared = memberList(d, others)
			}
		}
		if p.Kind == netlist.PortEvent {
			net = p.CodeSnippet
		}
		rows = append(rows, []string{name, p.Kind.String(), dir, strconv.Itoa(p.Width), net, shared})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Port", "Kind", "Dir", "Width", "Net", "Shared with").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			return lipgloss.NewStyle()
		})
	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("  * direction inferred from declaration kind"))
	return b.String()
}
