// Package compiler runs the Icarus Verilog toolchain on a module and its
// testbench and collects the netlist dump, simulation output and waveform.
//
// Each run gets a fresh temporary directory that is removed afterwards. The
// whole run (iverilog then vvp) shares one wall-clock budget; when it is
// exceeded the running tool is killed and Compile fails with TIMEOUT.
package compiler

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/verilive/pkg/errors"
	"github.com/matzehuels/verilive/pkg/observability"
)

// File names inside the run directory.
const (
	ModuleFile    = "module.v"
	TestbenchFile = "testbench.v"
	NetlistFile   = "netlist"
	CompiledFile  = "compiled.vvp"
	WaveformFile  = "waveform.vcd"
)

// Defaults for Config.
const (
	DefaultIVerilog   = "iverilog"
	DefaultVVP        = "vvp"
	DefaultTimeout    = 500 * time.Millisecond
	DefaultTempPrefix = "verilive_"
)

// Source is the pair of Verilog files to compile.
type Source struct {
	Module    string `json:"module"`
	Testbench string `json:"testbench"`
}

// Output is what one successful run produced.
type Output struct {
	Stdout   string        `json:"stdout"`
	Netlist  string        `json:"netlist"`
	Waveform []byte        `json:"waveform,omitempty"` // nil when the testbench wrote no VCD
	Duration time.Duration `json:"duration"`
}

// Compiler turns a Source into an Output.
type Compiler interface {
	Compile(ctx context.Context, src Source) (*Output, error)
}

// Config configures an Icarus compiler.
type Config struct {
	IVerilog   string        // iverilog binary
	VVP        string        // vvp binary
	Timeout    time.Duration // budget for iverilog plus vvp
	TempPrefix string        // prefix of the per-run temp directory
	TempRoot   string        // parent of the temp directory; os.TempDir() when empty
	Logger     *log.Logger
}

// Icarus runs iverilog and vvp as child processes.
type Icarus struct {
	cfg Config
}

// New returns an Icarus compiler, filling zero fields of cfg with defaults.
func New(cfg Config) *Icarus {
	if cfg.IVerilog == "" {
		cfg.IVerilog = DefaultIVerilog
	}
	if cfg.VVP == "" {
		cfg.VVP = DefaultVVP
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.TempPrefix == "" {
		cfg.TempPrefix = DefaultTempPrefix
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Icarus{cfg: cfg}
}

// Timeout returns the configured budget.
func (c *Icarus) Timeout() time.Duration { return c.cfg.Timeout }

// TimeoutMessage is the error text reported when a run exceeds budget.
func TimeoutMessage(budget time.Duration) string {
	return fmt.Sprintf("Compile process took too long; max time is %g seconds", budget.Seconds())
}

// Compile writes src to a temp directory, runs
//
//	iverilog -N netlist -o compiled.vvp module.v testbench.v
//	vvp compiled.vvp
//
// and returns vvp's stdout, the netlist dump and the waveform if one was
// written. Empty sources fail with INVALID_INPUT, a non-zero tool exit with
// COMPILE_FAILED and a blown budget with TIMEOUT.
func (c *Icarus) Compile(ctx context.Context, src Source) (out *Output, err error) {
	if err := errors.ValidateSource("module", src.Module); err != nil {
		return nil, err
	}
	if err := errors.ValidateSource("testbench", src.Testbench); err != nil {
		return nil, err
	}

	hooks := observability.Compile()
	hooks.OnCompileStart(ctx)
	start := time.Now()
	defer func() {
		hooks.OnCompileComplete(ctx, time.Since(start), err)
	}()

	dir, err := os.MkdirTemp(c.cfg.TempRoot, c.cfg.TempPrefix)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create run directory")
	}
	defer os.RemoveAll(dir)

	if err := writeSources(dir, src); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	c.cfg.Logger.Debug("running iverilog", "dir", dir)
	if _, err := c.run(runCtx, dir, c.cfg.IVerilog,
		"-N", NetlistFile, "-o", CompiledFile, ModuleFile, TestbenchFile); err != nil {
		return nil, c.classify(ctx, runCtx, "iverilog", err)
	}

	c.cfg.Logger.Debug("running vvp", "dir", dir)
	stdout, err := c.run(runCtx, dir, c.cfg.VVP, CompiledFile)
	if err != nil {
		return nil, c.classify(ctx, runCtx, "vvp", err)
	}
	elapsed := time.Since(start)

	netlist, err := os.ReadFile(filepath.Join(dir, NetlistFile))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCompileFailed, err, "iverilog produced no netlist")
	}

	waveform, err := os.ReadFile(filepath.Join(dir, WaveformFile))
	if err != nil {
		waveform = nil
	}

	c.cfg.Logger.Debug("compiled", "duration", elapsed, "netlist_bytes", len(netlist), "waveform", waveform != nil)
	return &Output{
		Stdout:   stdout,
		Netlist:  string(netlist),
		Waveform: waveform,
		Duration: elapsed,
	}, nil
}

func writeSources(dir string, src Source) error {
	for name, body := range map[string]string{
		ModuleFile:    src.Module,
		TestbenchFile: src.Testbench,
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write %s", name)
		}
	}
	return nil
}

// toolError carries the captured stderr of a failed tool.
type toolError struct {
	err    error
	stderr string
}

func (e *toolError) Error() string { return e.err.Error() }
func (e *toolError) Unwrap() error { return e.err }

// run executes name in dir and returns its stdout.
func (c *Icarus) run(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.WaitDelay = 100 * time.Millisecond

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.String(), &toolError{err: err, stderr: strings.TrimSpace(stderr.String() + "\n" + stdout.String())}
	}
	return stdout.String(), nil
}

// classify maps a tool failure to TIMEOUT, the caller's cancellation, or
// COMPILE_FAILED.
func (c *Icarus) classify(parent, runCtx context.Context, tool string, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if stderrors.Is(runCtx.Err(), context.DeadlineExceeded) {
		observability.Compile().OnCompileTimeout(parent, c.cfg.Timeout)
		c.cfg.Logger.Warn("compile timed out", "tool", tool, "budget", c.cfg.Timeout)
		return errors.New(errors.ErrCodeTimeout, "%s", TimeoutMessage(c.cfg.Timeout))
	}

	var te *toolError
	detail := ""
	if stderrors.As(err, &te) {
		detail = strings.TrimSpace(te.stderr)
	}
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		if detail == "" {
			return errors.Wrap(errors.ErrCodeCompileFailed, err, "%s exited with status %d", tool, exitErr.ExitCode())
		}
		return errors.Wrap(errors.ErrCodeCompileFailed, err, "%s exited with status %d:\n%s", tool, exitErr.ExitCode(), detail)
	}
	return errors.Wrap(errors.ErrCodeCompileFailed, err, "run %s", tool)
}

var _ Compiler = (*Icarus)(nil)
