// Package config loads the verilive TOML configuration file.
//
// A missing file yields [Default]. Keys absent from the file keep their
// default values.
//
//	[server]
//	host = "0.0.0.0"
//	port = 5000
//
//	[compiler]
//	timeout = "500ms"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/verilive/pkg/buildinfo"
	"github.com/matzehuels/verilive/pkg/compiler"
	"github.com/matzehuels/verilive/pkg/errors"
)

const appName = "verilive"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

var backends = []string{BackendFile, BackendRedis, BackendNone}

// Duration is a time.Duration written as a string ("500ms", "24h").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the full configuration.
type Config struct {
	Server   Server   `toml:"server"`
	Compiler Compiler `toml:"compiler"`
	Cache    Cache    `toml:"cache"`
	Metadata Metadata `toml:"metadata"`
}

// Server configures `verilive serve`.
type Server struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns host:port.
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Compiler configures the Icarus toolchain.
type Compiler struct {
	IVerilog   string   `toml:"iverilog"`
	VVP        string   `toml:"vvp"`
	Timeout    Duration `toml:"timeout"`
	TempPrefix string   `toml:"temp_prefix"`
}

// Cache selects and configures the cache backend.
type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`

	// TTL replaces every per-stage lifetime when set; "0" keeps entries
	// forever. Unset keeps the per-stage defaults.
	TTL *Duration `toml:"ttl"`
}

// Metadata is reported by the server's about route.
type Metadata struct {
	Name    string `toml:"name" json:"name"`
	Version string `toml:"version" json:"version"`
	Contact string `toml:"contact" json:"contact"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: Server{Host: "0.0.0.0", Port: 5000},
		Compiler: Compiler{
			IVerilog:   compiler.DefaultIVerilog,
			VVP:        compiler.DefaultVVP,
			Timeout:    Duration{compiler.DefaultTimeout},
			TempPrefix: compiler.DefaultTempPrefix,
		},
		Cache: Cache{
			Backend:   BackendFile,
			RedisAddr: "localhost:6379",
		},
		Metadata: Metadata{
			Name:    "Verilive Server",
			Version: buildinfo.Version,
			Contact: "info@verilog.me",
		},
	}
}

// Load reads path over the defaults. An empty path selects DefaultPath; a
// missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values no component can run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New(errors.ErrCodeInvalidInput, "server.port %d out of range", c.Server.Port)
	}
	if c.Compiler.Timeout.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "compiler.timeout must be positive")
	}
	if !slices.Contains(backends, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidInput, "cache.backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.TTL != nil && c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	return nil
}

// CompilerConfig maps the [compiler] section onto compiler.Config.
func (c *Config) CompilerConfig() compiler.Config {
	return compiler.Config{
		IVerilog:   c.Compiler.IVerilog,
		VVP:        c.Compiler.VVP,
		Timeout:    c.Compiler.Timeout.Duration,
		TempPrefix: c.Compiler.TempPrefix,
	}
}

// CacheTTL returns the configured cache lifetime and whether one was set.
func (c *Config) CacheTTL() (time.Duration, bool) {
	if c.Cache.TTL == nil {
		return 0, false
	}
	return c.Cache.TTL.Duration, true
}

// DefaultPath returns $XDG_CONFIG_HOME/verilive/config.toml, falling back to
// ~/.config/verilive/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
