package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/verilive/internal/watch"
)

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		opts     parseOpts
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch <netlist>",
		Short: "Rebuild the graphs whenever the netlist changes",
		Long: `Rebuild the graphs whenever the netlist file is written. Rapid successive
writes are coalesced. Stop with Ctrl-C.

Example:
  verilive watch build/design.netlist -o graph.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			logger := log.FromContext(cmd.Context())

			rebuild := func(context.Context) error {
				if err := c.runParse(cmd, path, &opts); err != nil {
					printError("%v", err)
				}
				return nil
			}

			w, err := watch.New(watch.Config{
				Path:     path,
				Debounce: debounce,
				OnChange: rebuild,
				Logger:   logger,
			})
			if err != nil {
				return err
			}

			_ = rebuild(cmd.Context())
			printInfo("Watching %s", path)
			return w.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&opts.view, "view", "both", "graph to emit: both, hierarchy or connectivity")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format (default from -o extension, else json)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "detailed diagram labels")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before rebuilding")

	return cmd
}
