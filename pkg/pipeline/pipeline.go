// Package pipeline runs netlist dumps through the verilive stages.
//
// The stages are:
//
//  1. Compile (optional): run iverilog and vvp on a module and testbench
//  2. Parse: split, parse and splice the netlist, then build both graphs
//  3. Emit: encode the selected view as JSON or YAML, or draw it as a
//     Graphviz diagram (svg, png, pdf, dot)
//
// A [Runner] adds caching around each stage and reports to the
// observability hooks. The CLI and the HTTP server both go through it.
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, raw, pipeline.Options{Format: "yaml"})
//	os.Stdout.Write(res.Artifact)
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/verilive/pkg/cache"
	"github.com/matzehuels/verilive/pkg/compiler"
	"github.com/matzehuels/verilive/pkg/errors"
	"github.com/matzehuels/verilive/pkg/graph"
	"github.com/matzehuels/verilive/pkg/netlist"
	"github.com/matzehuels/verilive/pkg/render/nodelink"
)

// GraphSchema versions the cached graph encoding. Bump it when graph.Result
// or the builder's output changes shape so stale entries miss.
const GraphSchema = 1

// DefaultFormat is used when Options.Format is empty.
const DefaultFormat = graph.FormatJSON

// DataFormats are the encodings of the graph itself.
var DataFormats = []string{graph.FormatJSON, graph.FormatYAML}

// =============================================================================
// Options
// =============================================================================

// Options controls one pipeline run.
type Options struct {
	View     graph.View `json:"view,omitempty"`
	Format   string     `json:"format,omitempty"`
	Detailed bool       `json:"detailed,omitempty"` // diagrams only
	Refresh  bool       `json:"refresh,omitempty"`  // bypass cache reads

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults normalizes View and Format and fills defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	view, err := graph.ParseView(string(o.View))
	if err != nil {
		return err
	}
	o.View = view

	o.Format = strings.ToLower(strings.TrimSpace(o.Format))
	if o.Format == "yml" {
		o.Format = graph.FormatYAML
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// IsDiagram reports whether Format is a Graphviz output.
func (o *Options) IsDiagram() bool {
	return slices.Contains(nodelink.Formats, o.Format)
}

// ArtifactKeyOpts returns the cache key options for the emitted artifact.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		View:     string(o.View),
		Format:   o.Format,
		Detailed: o.Detailed && o.IsDiagram(),
	}
}

// ValidateFormat accepts the data formats and the diagram formats.
func ValidateFormat(format string) error {
	if slices.Contains(DataFormats, format) || slices.Contains(nodelink.Formats, format) {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidFormat,
		"invalid format %q (must be one of: %s)", format, strings.Join(AllFormats(), ", "))
}

// AllFormats lists every accepted output format.
func AllFormats() []string {
	return append(slices.Clone(DataFormats), nodelink.Formats...)
}

// =============================================================================
// Results
// =============================================================================

// Result holds the outputs of a pipeline run.
type Result struct {
	// Compile is set when the run started from Verilog sources.
	Compile *compiler.Output

	// Design is the parsed netlist. Nil when the graph came from cache.
	Design *netlist.Design

	// Graph holds both graphs.
	Graph *graph.Result

	// GraphHash is the content hash of the encoded graph.
	GraphHash string

	// Artifact is the selected view in the requested format.
	Artifact []byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds timings and sizes.
type Stats struct {
	NodeCount   int
	EdgeCount   int
	Splice      netlist.SpliceStats
	CompileTime time.Duration
	ParseTime   time.Duration
	RenderTime  time.Duration
}

// CacheInfo records which stages were served from cache.
type CacheInfo struct {
	CompileHit bool
	ParseHit   bool
	RenderHit  bool
}
