package cli

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/verilive/pkg/graph"
	"github.com/matzehuels/verilive/pkg/pipeline"
)

// parseOpts holds the flags shared by parse, render and watch.
type parseOpts struct {
	view     string
	format   string
	output   string
	detailed bool
	refresh  bool
}

func (o *parseOpts) options(cmd *cobra.Command) pipeline.Options {
	format := o.format
	if format == "" {
		format = formatFromPath(o.output)
	}
	return pipeline.Options{
		View:     graph.View(o.view),
		Format:   format,
		Detailed: o.detailed,
		Refresh:  o.refresh,
		Logger:   log.FromContext(cmd.Context()),
	}
}

// formatFromPath infers an output format from a file extension.
func formatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, f := range pipeline.AllFormats() {
		if ext == f {
			return f
		}
	}
	if ext == "yml" {
		return graph.FormatYAML
	}
	if ext == "gv" {
		return "dot"
	}
	return ""
}

// parseCommand creates the parse command.
func (c *CLI) parseCommand() *cobra.Command {
	var opts parseOpts

	cmd := &cobra.Command{
		Use:   "parse <netlist>",
		Short: "Build hierarchy and connectivity graphs from a netlist dump",
		Long: `Build hierarchy and connectivity graphs from a netlist dump written by
"iverilog -N". Use "-" to read the dump from stdin.

Examples:
  verilive parse design.netlist
  verilive parse design.netlist --view connectivity -o graph.yaml
  iverilog -N /dev/stdout -o /dev/null top.v | verilive parse -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runParse(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.view, "view", string(graph.ViewBoth), "graph to emit: both, hierarchy or connectivity")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: json or yaml (default from -o extension, else json)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")

	return cmd
}

func (c *CLI) runParse(cmd *cobra.Command, path string, opts *parseOpts) error {
	ctx := cmd.Context()
	raw, err := readInput(cmd, path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	done := timeStage(log.FromContext(ctx), "built graphs")
	res, err := runner.Execute(ctx, raw, opts.options(cmd))
	if err != nil {
		return err
	}
	done("modules", res.Stats.NodeCount, "edges", res.Stats.EdgeCount, "cached", res.CacheInfo.ParseHit)

	if err := writeOutput(cmd, opts.output, res.Artifact); err != nil {
		return err
	}
	if opts.output != "" {
		printSuccess("Wrote %s", opts.output)
		printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheInfo.ParseHit)
	}
	return nil
}
