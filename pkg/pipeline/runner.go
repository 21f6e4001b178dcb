package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/verilive/pkg/cache"
	"github.com/matzehuels/verilive/pkg/compiler"
	"github.com/matzehuels/verilive/pkg/graph"
	"github.com/matzehuels/verilive/pkg/netlist"
	"github.com/matzehuels/verilive/pkg/observability"
)

// Key types reported to the cache hooks.
const (
	keyCompile  = "compile"
	keyGraph    = "graph"
	keyArtifact = "artifact"
)

// Runner wraps the pipeline stages with caching.
//
// A Runner holds no per-run state; one instance can serve concurrent
// callers. Cache failures are logged and never fail a run.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	Compiler compiler.Compiler // optional; required by ExecuteSource

	// TTL, when non-nil, replaces the per-stage cache lifetimes. A zero
	// value stores entries without expiry.
	TTL *time.Duration
}

// NewRunner creates a runner. A nil keyer selects DefaultKeyer, a nil cache
// disables caching.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.Disabled("no cache configured")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute parses raw and emits the selected view.
func (r *Runner) Execute(ctx context.Context, raw string, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}
	if err := r.parseInto(ctx, raw, opts, result); err != nil {
		return nil, err
	}
	if err := r.emitInto(ctx, opts, result); err != nil {
		return nil, err
	}
	return result, nil
}

// ExecuteSource compiles src and runs the netlist it produced through
// Execute.
func (r *Runner) ExecuteSource(ctx context.Context, src compiler.Source, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	out, hit, err := r.CompileWithCacheInfo(ctx, src, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Compile: out}
	result.Stats.CompileTime = time.Since(start)
	result.CacheInfo.CompileHit = hit
	opts.Logger.Info("compiled sources", "duration", result.Stats.CompileTime, "cached", hit)

	if err := r.parseInto(ctx, out.Netlist, opts, result); err != nil {
		return nil, err
	}
	if err := r.emitInto(ctx, opts, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Runner) parseInto(ctx context.Context, raw string, opts Options, result *Result) error {
	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, len(raw))

	g, hit, err := r.ParseWithCacheInfo(ctx, raw, opts)
	result.Stats.ParseTime = time.Since(start)
	if err != nil {
		hooks.OnParseComplete(ctx, 0, 0, result.Stats.ParseTime, err)
		return err
	}
	hooks.OnParseComplete(ctx, g.NodeCount(), g.EdgeCount(), result.Stats.ParseTime, nil)

	result.Graph = g.Graph
	result.Design = g.Design
	result.Stats.Splice = g.Splice
	result.Stats.NodeCount = g.Graph.NodeCount()
	result.Stats.EdgeCount = g.Graph.EdgeCount()
	result.CacheInfo.ParseHit = hit
	if data, err := json.Marshal(g.Graph); err == nil {
		result.GraphHash = cache.Hash(data)
	}

	opts.Logger.Info("parsed netlist",
		"modules", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"cached", hit,
		"duration", result.Stats.ParseTime)
	return nil
}

func (r *Runner) emitInto(ctx context.Context, opts Options, result *Result) error {
	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, string(opts.View), opts.Format)

	data, hit, err := r.EmitWithCacheInfo(ctx, result.Graph, result.GraphHash, opts)
	result.Stats.RenderTime = time.Since(start)
	hooks.OnRenderComplete(ctx, string(opts.View), opts.Format, result.Stats.RenderTime, err)
	if err != nil {
		return err
	}
	result.Artifact = data
	result.CacheInfo.RenderHit = hit

	opts.Logger.Debug("emitted artifact",
		"view", opts.View,
		"format", opts.Format,
		"bytes", len(data),
		"cached", hit)
	return nil
}

// Parsed is the output of the parse stage. Design and Splice are zero when
// the graph was served from cache.
type Parsed struct {
	Design *netlist.Design
	Graph  *graph.Result
	Splice netlist.SpliceStats
}

// NodeCount returns the number of modules.
func (p *Parsed) NodeCount() int { return p.Graph.NodeCount() }

// EdgeCount returns the number of edges across both graphs.
func (p *Parsed) EdgeCount() int { return p.Graph.EdgeCount() }

// ParseWithCacheInfo runs the parse stage, reading and writing the graph
// cache keyed by the netlist's content hash.
func (r *Runner) ParseWithCacheInfo(ctx context.Context, raw string, opts Options) (*Parsed, bool, error) {
	r.applyLogger(&opts)
	key := r.Keyer.GraphKey(cache.Hash([]byte(raw)), cache.GraphKeyOpts{Schema: GraphSchema})

	if !opts.Refresh {
		if data, ok := r.lookup(ctx, key, keyGraph, opts.Logger); ok {
			g, err := graph.UnmarshalResult(data)
			if err == nil {
				return &Parsed{Graph: g}, true, nil
			}
			opts.Logger.Warn("discarding unreadable cached graph", "key", key, "err", err)
		}
	}

	d, g, stats, err := Parse(raw, opts.Logger)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(g); err == nil {
		r.store(ctx, key, keyGraph, data, cache.TTLGraph, opts.Logger)
	}
	return &Parsed{Design: d, Graph: g, Splice: stats}, false, nil
}

// EmitWithCacheInfo runs the emit stage, reading and writing the artifact
// cache keyed by graphHash. An empty graphHash skips the cache.
func (r *Runner) EmitWithCacheInfo(ctx context.Context, g *graph.Result, graphHash string, opts Options) ([]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	var key string
	if graphHash != "" {
		key = r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts())
		if !opts.Refresh {
			if data, ok := r.lookup(ctx, key, keyArtifact, opts.Logger); ok {
				return data, true, nil
			}
		}
	}

	data, err := Emit(ctx, g, opts)
	if err != nil {
		return nil, false, err
	}
	if key != "" {
		r.store(ctx, key, keyArtifact, data, cache.TTLArtifact, opts.Logger)
	}
	return data, false, nil
}

// CompileWithCacheInfo runs the compiler, caching successful outputs keyed
// by the source pair. Failures and timeouts are never cached.
func (r *Runner) CompileWithCacheInfo(ctx context.Context, src compiler.Source, opts Options) (*compiler.Output, bool, error) {
	if r.Compiler == nil {
		return nil, false, fmt.Errorf("compile: no compiler configured")
	}
	r.applyLogger(&opts)
	key := r.Keyer.CompileKey(cache.HashStrings(src.Module, src.Testbench))

	if !opts.Refresh {
		if data, ok := r.lookup(ctx, key, keyCompile, opts.Logger); ok {
			var out compiler.Output
			if err := json.Unmarshal(data, &out); err == nil {
				return &out, true, nil
			}
		}
	}

	out, err := r.Compiler.Compile(ctx, src)
	if err != nil {
		return nil, false, err
	}
	if data, err := json.Marshal(out); err == nil {
		r.store(ctx, key, keyCompile, data, cache.TTLCompile, opts.Logger)
	}
	return out, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) lookup(ctx context.Context, key, keyType string, logger *log.Logger) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "type", keyType, "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) store(ctx context.Context, key, keyType string, data []byte, ttl time.Duration, logger *log.Logger) {
	if r.TTL != nil {
		ttl = *r.TTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
