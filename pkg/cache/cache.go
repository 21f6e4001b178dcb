// Package cache provides the storage layer for pipeline results.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: JSON entries under a directory, for CLI usage
//   - [RedisCache]: a shared Redis instance, for multi-instance servers
//   - [NullCache]: stores nothing; [Disabled] records why caching is off
//
// Keys come from a [Keyer], which hashes the stage inputs so that the same
// netlist rendered with the same options always maps to the same entry.
// Callers treat every cache error as a miss.
package cache

import (
	"context"
	"time"
)

// Default lifetimes per entry type.
const (
	TTLCompile  = 24 * time.Hour
	TTLGraph    = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and true, or false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// GraphKeyOpts are the inputs besides the netlist that shape a graph result.
// Bumping Schema invalidates entries written by older encoders.
type GraphKeyOpts struct {
	Schema int `json:"schema"`
}

// ArtifactKeyOpts are the inputs besides the graph that shape a rendering.
type ArtifactKeyOpts struct {
	View     string `json:"view"`
	Format   string `json:"format"`
	Detailed bool   `json:"detailed,omitempty"`
}

// Keyer derives cache keys for each pipeline stage.
type Keyer interface {
	// CompileKey keys compiler output by the hash of the source pair.
	CompileKey(sourceHash string) string
	// GraphKey keys a graph result by the hash of the raw netlist.
	GraphKey(netlistHash string, opts GraphKeyOpts) string
	// ArtifactKey keys a rendered artifact by the hash of its graph.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces "stage:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// CompileKey implements Keyer.
func (DefaultKeyer) CompileKey(sourceHash string) string {
	return hashKey("compile", sourceHash)
}

// GraphKey implements Keyer.
func (DefaultKeyer) GraphKey(netlistHash string, opts GraphKeyOpts) string {
	return hashKey("graph", netlistHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}
