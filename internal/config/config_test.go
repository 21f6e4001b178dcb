package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/verilive/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if cfg.Server != def.Server || cfg.Compiler != def.Compiler || cfg.Cache != def.Cache {
		t.Errorf("Load(missing) = %+v, want defaults %+v", cfg, def)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if got := cfg.Server.Addr(); got != "0.0.0.0:5000" {
		t.Errorf("Addr() = %q, want 0.0.0.0:5000", got)
	}
	if cfg.Compiler.Timeout.Duration != 500*time.Millisecond {
		t.Errorf("Timeout = %v, want 500ms", cfg.Compiler.Timeout)
	}
	if cfg.Compiler.TempPrefix != "verilive_" {
		t.Errorf("TempPrefix = %q, want verilive_", cfg.Compiler.TempPrefix)
	}
	if cfg.Metadata.Name != "Verilive Server" {
		t.Errorf("Name = %q", cfg.Metadata.Name)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 8080

[compiler]
timeout = "2s"
iverilog = "/opt/iverilog/bin/iverilog"

[cache]
backend = "redis"
redis_addr = "cache:6379"
ttl = "1h"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 || cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server = %+v, want port override and default host", cfg.Server)
	}
	if cfg.Compiler.Timeout.Duration != 2*time.Second {
		t.Errorf("Timeout = %v, want 2s", cfg.Compiler.Timeout)
	}
	if cfg.Compiler.VVP != "vvp" {
		t.Errorf("VVP = %q, want default vvp", cfg.Compiler.VVP)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisAddr != "cache:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}

	cc := cfg.CompilerConfig()
	if cc.IVerilog != "/opt/iverilog/bin/iverilog" || cc.Timeout != 2*time.Second {
		t.Errorf("CompilerConfig() = %+v", cc)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad toml", "[server\nport = 1", "parse config"},
		{"bad duration", "[compiler]\ntimeout = \"soon\"", "parse config"},
		{"zero timeout", "[compiler]\ntimeout = \"0s\"", "compiler.timeout"},
		{"bad port", "[server]\nport = 70000", "server.port"},
		{"bad backend", "[cache]\nbackend = \"memcached\"", "cache.backend"},
		{"negative ttl", "[cache]\nttl = \"-1h\"", "cache.ttl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.body)
			_, err := Load(path)
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want mention of %q", err, tt.want)
			}
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Load() code = %s, want INVALID_INPUT", errors.GetCode(err))
			}
		})
	}
}

func TestCacheTTL(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   time.Duration
		wantOK bool
	}{
		{"unset keeps stage defaults", "[cache]\nbackend = \"file\"", 0, false},
		{"zero means no expiry", "[cache]\nttl = \"0\"", 0, true},
		{"explicit", "[cache]\nttl = \"1h\"", time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.body))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			got, ok := cfg.CacheTTL()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("CacheTTL() = %v, %v; want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}

	if _, ok := Default().CacheTTL(); ok {
		t.Error("Default().CacheTTL() is set, want per-stage lifetimes")
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	got, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath: %v", err)
	}
	if want := filepath.Join("/tmp/xdg", "verilive", "config.toml"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}

func TestDurationText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("1m30s")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if d.Duration != 90*time.Second {
		t.Errorf("Duration = %v, want 1m30s", d.Duration)
	}
	text, _ := d.MarshalText()
	if string(text) != "1m30s" {
		t.Errorf("MarshalText() = %q, want 1m30s", text)
	}
}
