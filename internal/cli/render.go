package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/verilive/pkg/graph"
	"github.com/matzehuels/verilive/pkg/render/nodelink"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := parseOpts{view: string(graph.ViewConnectivity)}

	cmd := &cobra.Command{
		Use:   "render <netlist>",
		Short: "Draw a netlist's module graph with Graphviz",
		Long: `Draw the hierarchy or connectivity graph of a netlist dump as a node-link
diagram. SVG and DOT are produced in-process; PNG and PDF need rsvg-convert.

Examples:
  verilive render design.netlist -o design.svg
  verilive render design.netlist --view hierarchy -o tree.png
  verilive render design.netlist --detailed --format dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format == "" && formatFromPath(opts.output) == "" {
				opts.format = nodelink.FormatSVG
			}
			if err := checkDiagramFormat(opts.format, opts.output); err != nil {
				return err
			}
			if err := c.runParse(cmd, args[0], &opts); err != nil {
				return err
			}
			if opts.output != "" {
				printNextStep("Open it", "open "+opts.output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.view, "view", opts.view, "graph to draw: connectivity, hierarchy or both")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "svg, png, pdf or dot (default from -o extension, else svg)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "add instance paths and bit widths to labels")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")

	return cmd
}

// checkDiagramFormat rejects data formats on the render command.
func checkDiagramFormat(format, output string) error {
	if format == "" {
		format = formatFromPath(output)
	}
	for _, f := range nodelink.Formats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("render: unsupported format %q (want svg, png, pdf or dot; use parse for json/yaml)", format)
}
