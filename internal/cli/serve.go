package cli

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/verilive/internal/server"
	"github.com/matzehuels/verilive/pkg/observability"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compile endpoint over HTTP",
		Long: `Serve the compile flow over HTTP:

  GET  /         service name, version and contact
  POST /compile  {"module": "...", "testbench": "..."} -> stdout, waveform, netlist graphs
  GET  /metrics  Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.settings()
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			c.longRunning = true
			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			observability.Register(observability.NewPrometheus(reg))
			defer observability.Reset()

			srv := server.New(server.Config{
				Runner:   runner,
				Metadata: cfg.Metadata,
				Logger:   c.Logger,
				Gatherer: reg,
			})
			printInfo("Serving on %s", StyleHighlight.Render(fmt.Sprintf("http://%s", cfg.Server.Addr())))
			return srv.Run(ctx, cfg.Server.Addr())
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (default from config, 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default from config, 5000)")
	return cmd
}
