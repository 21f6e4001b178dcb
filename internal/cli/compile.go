package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/verilive/pkg/compiler"
	"github.com/matzehuels/verilive/pkg/graph"
)

// compileCommand creates the compile command.
func (c *CLI) compileCommand() *cobra.Command {
	var (
		opts     parseOpts
		waveform string
		dump     string
		stdout   bool
	)

	cmd := &cobra.Command{
		Use:   "compile <module.v> <testbench.v>",
		Short: "Compile and simulate Verilog with Icarus, then build the graphs",
		Long: `Compile a module and its testbench with iverilog, run the simulation with
vvp, and build the graphs from the netlist iverilog dumped. The whole run is
bounded by compiler.timeout from the config file.

Examples:
  verilive compile counter.v counter_tb.v -o counter.json
  verilive compile counter.v counter_tb.v --waveform counter.vcd --stdout`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			module, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			testbench, err := readInput(cmd, args[1])
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			spin := newSpinnerWithContext(ctx, "Compiling "+args[0])
			spin.Start()
			res, err := runner.ExecuteSource(ctx, compiler.Source{Module: module, Testbench: testbench}, opts.options(cmd))
			if err != nil {
				spin.StopWithError("Compile failed")
				return err
			}
			spin.StopWithSuccess(fmt.Sprintf("Compiled in %s", res.Compile.Duration.Round(time.Millisecond)))

			if stdout && res.Compile.Stdout != "" {
				fmt.Fprintln(statusOut, StyleDim.Render(strings.TrimRight(res.Compile.Stdout, "\n")))
			}
			if dump != "" {
				if err := os.WriteFile(dump, []byte(res.Compile.Netlist), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", dump, err)
				}
				printFile(dump)
			}
			if waveform != "" {
				if res.Compile.Waveform == nil {
					printWarning("Testbench wrote no waveform")
				} else if err := os.WriteFile(waveform, res.Compile.Waveform, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", waveform, err)
				} else {
					printFile(waveform)
				}
			}

			if err := writeOutput(cmd, opts.output, res.Artifact); err != nil {
				return err
			}
			if opts.output != "" {
				printFile(opts.output)
				printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheInfo.CompileHit)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.view, "view", string(graph.ViewBoth), "graph to emit: both, hierarchy or connectivity")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format (default from -o extension, else json)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompile even if cached")
	cmd.Flags().StringVar(&waveform, "waveform", "", "write the simulation's waveform.vcd here")
	cmd.Flags().StringVar(&dump, "netlist", "", "also save the raw netlist dump here")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "echo the simulation's stdout to stderr")

	return cmd
}
