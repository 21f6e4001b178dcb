// Package cli implements the verilive command-line interface.
//
// Commands read an Icarus Verilog netlist dump (or compile one from
// sources), build the hierarchy and connectivity graphs, and write them as
// JSON, YAML or Graphviz diagrams. Logging goes through charmbracelet/log
// and is carried to commands on the context.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/verilive/internal/config"
	"github.com/matzehuels/verilive/pkg/buildinfo"
	"github.com/matzehuels/verilive/pkg/cache"
	"github.com/matzehuels/verilive/pkg/compiler"
	"github.com/matzehuels/verilive/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "verilive"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	noCache    bool
	cfg        *config.Config

	// longRunning lets serve wait out a slow Redis at startup.
	longRunning bool
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Verilive turns Icarus Verilog netlists into module graphs",
		Long: `Verilive reads the netlist dump written by "iverilog -N" and builds two graphs
over the module instances: the containment hierarchy and the signal
connectivity between modules. It can also compile Verilog sources itself and
serve the whole flow over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(log.WithContext(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/verilive/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable result caching")

	root.AddCommand(c.parseCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.compileCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// settings returns the loaded configuration, or defaults before PersistentPreRunE ran.
func (c *CLI) settings() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner with the configured cache and compiler.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	cfg := c.settings()
	cc, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if _, shared := cc.(*cache.RedisCache); shared {
		keyer = cache.NewScopedKeyer(nil, appName+":")
	}
	if nc, ok := cc.(*cache.NullCache); ok {
		c.Logger.Debug("cache", "state", nc)
	}
	r := pipeline.NewRunner(cc, keyer, c.Logger)
	if ttl, ok := cfg.CacheTTL(); ok {
		r.TTL = &ttl
	}

	ccfg := cfg.CompilerConfig()
	ccfg.Logger = c.Logger
	r.Compiler = compiler.New(ccfg)
	return r, nil
}

func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	cfg := c.settings()
	if c.noCache {
		return cache.Disabled("--no-cache"), nil
	}
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.Disabled("backend none"), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, c.redisConfig())
		if err != nil {
			c.Logger.Warn("redis cache unavailable, caching disabled", "addr", cfg.Cache.RedisAddr, "err", err)
			return cache.Disabled("redis unreachable at " + cfg.Cache.RedisAddr), nil
		}
		return rc, nil
	default:
		dir, err := c.cacheDir()
		if err != nil {
			return cache.Disabled("no cache directory"), nil
		}
		return cache.NewFileCache(dir)
	}
}

// redisConfig connects with the client's retries for serve. One-shot
// commands ping once with a short dial timeout so a dead Redis costs
// well under a second before falling back to no cache.
func (c *CLI) redisConfig() cache.RedisConfig {
	cfg := c.settings()
	rc := cache.RedisConfig{Addr: cfg.Cache.RedisAddr, DB: cfg.Cache.RedisDB}
	if !c.longRunning {
		rc.DialTimeout = 500 * time.Millisecond
		rc.Attempts = 1
		rc.MaxRetries = -1
	}
	return rc
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the default.
func (c *CLI) cacheDir() (string, error) {
	if dir := c.settings().Cache.Dir; dir != "" {
		return dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/verilive/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Input / Output
// =============================================================================

// readInput reads a file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// writeOutput writes data to path, or to the command's stdout when path is empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
