package compiler

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/verilive/pkg/errors"
)

const (
	fakeIVerilog = `#!/bin/sh
# -N <netlist> -o <compiled> <module> <testbench>
printf 'SCOPES:\nELABORATED NODES:\n' > "$2"
echo compiled > "$4"
`
	fakeVVP = `#!/bin/sh
cat module.v
printf '$date today $end' > waveform.vcd
`
	fakeVVPNoWave = `#!/bin/sh
echo done
`
	failingIVerilog = `#!/bin/sh
echo "module.v:1: syntax error" >&2
exit 2
`
	slowTool = `#!/bin/sh
sleep 5
`
)

func script(t *testing.T, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

var src = Source{Module: "module m; endmodule\n", Testbench: "module tb; m u(); endmodule\n"}

func TestCompile(t *testing.T) {
	root := t.TempDir()
	c := New(Config{
		IVerilog: script(t, "iverilog", fakeIVerilog),
		VVP:      script(t, "vvp", fakeVVP),
		Timeout:  5 * time.Second,
		TempRoot: root,
	})

	out, err := c.Compile(context.Background(), src)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if out.Stdout != src.Module {
		t.Errorf("Stdout = %q, want module source echoed by vvp", out.Stdout)
	}
	if !strings.HasPrefix(out.Netlist, "SCOPES:") {
		t.Errorf("Netlist = %q", out.Netlist)
	}
	if string(out.Waveform) != "$date today $end" {
		t.Errorf("Waveform = %q", out.Waveform)
	}
	if out.Duration <= 0 {
		t.Error("Duration should be positive")
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("run directory not removed: %v", entries)
	}
}

func TestCompileWithoutWaveform(t *testing.T) {
	c := New(Config{
		IVerilog: script(t, "iverilog", fakeIVerilog),
		VVP:      script(t, "vvp", fakeVVPNoWave),
		Timeout:  5 * time.Second,
	})
	out, err := c.Compile(context.Background(), src)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if out.Waveform != nil {
		t.Errorf("Waveform = %q, want nil", out.Waveform)
	}
	if out.Stdout != "done\n" {
		t.Errorf("Stdout = %q", out.Stdout)
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name     string
		iverilog string
		vvp      string
		src      Source
		timeout  time.Duration
		wantCode errors.Code
		wantMsg  string
	}{
		{
			name:     "EmptyModule",
			iverilog: fakeIVerilog,
			vvp:      fakeVVP,
			src:      Source{Module: "  ", Testbench: "x"},
			wantCode: errors.ErrCodeInvalidInput,
			wantMsg:  "module",
		},
		{
			name:     "EmptyTestbench",
			iverilog: fakeIVerilog,
			vvp:      fakeVVP,
			src:      Source{Module: "x"},
			wantCode: errors.ErrCodeInvalidInput,
			wantMsg:  "testbench",
		},
		{
			name:     "SyntaxError",
			iverilog: failingIVerilog,
			vvp:      fakeVVP,
			src:      src,
			wantCode: errors.ErrCodeCompileFailed,
			wantMsg:  "syntax error",
		},
		{
			name:     "SlowCompile",
			iverilog: slowTool,
			vvp:      fakeVVP,
			src:      src,
			timeout:  100 * time.Millisecond,
			wantCode: errors.ErrCodeTimeout,
			wantMsg:  "max time is 0.1 seconds",
		},
		{
			name:     "SlowSimulation",
			iverilog: fakeIVerilog,
			vvp:      slowTool,
			src:      src,
			timeout:  200 * time.Millisecond,
			wantCode: errors.ErrCodeTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timeout := tt.timeout
			if timeout == 0 {
				timeout = 5 * time.Second
			}
			c := New(Config{
				IVerilog: script(t, "iverilog", tt.iverilog),
				VVP:      script(t, "vvp", tt.vvp),
				Timeout:  timeout,
			})

			start := time.Now()
			_, err := c.Compile(context.Background(), tt.src)
			if err == nil {
				t.Fatal("Compile succeeded, want error")
			}
			if got := errors.GetCode(err); got != tt.wantCode {
				t.Errorf("code = %s, want %s (err: %v)", got, tt.wantCode, err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err, tt.wantMsg)
			}
			if elapsed := time.Since(start); elapsed > 3*time.Second {
				t.Errorf("Compile took %v; the budget was not enforced", elapsed)
			}
		})
	}
}

func TestCompileMissingBinary(t *testing.T) {
	c := New(Config{IVerilog: filepath.Join(t.TempDir(), "no-such-iverilog")})
	_, err := c.Compile(context.Background(), src)
	if !errors.Is(err, errors.ErrCodeCompileFailed) {
		t.Errorf("error = %v, want COMPILE_FAILED", err)
	}
}

func TestCompileCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(Config{
		IVerilog: script(t, "iverilog", slowTool),
		Timeout:  5 * time.Second,
	})
	_, err := c.Compile(ctx, src)
	if err != context.Canceled {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestNewDefaults(t *testing.T) {
	c := New(Config{})
	if c.cfg.IVerilog != DefaultIVerilog || c.cfg.VVP != DefaultVVP {
		t.Errorf("binaries = %s/%s", c.cfg.IVerilog, c.cfg.VVP)
	}
	if c.Timeout() != DefaultTimeout {
		t.Errorf("Timeout() = %v, want %v", c.Timeout(), DefaultTimeout)
	}
	if c.cfg.TempPrefix != DefaultTempPrefix {
		t.Errorf("TempPrefix = %q", c.cfg.TempPrefix)
	}
}

func TestTimeoutMessage(t *testing.T) {
	if got := TimeoutMessage(500 * time.Millisecond); got != "Compile process took too long; max time is 0.5 seconds" {
		t.Errorf("TimeoutMessage = %q", got)
	}
}
