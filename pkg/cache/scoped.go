package cache

// ScopedKeyer prefixes every key of an inner Keyer, so several deployments
// can share one Redis instance without colliding.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "verilive:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner (DefaultKeyer when nil) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// CompileKey returns the prefixed compile key.
func (k *ScopedKeyer) CompileKey(sourceHash string) string {
	return k.prefix + k.inner.CompileKey(sourceHash)
}

// GraphKey returns the prefixed graph key.
func (k *ScopedKeyer) GraphKey(netlistHash string, opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(netlistHash, opts)
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(graphHash, opts)
}
