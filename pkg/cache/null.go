package cache

import (
	"context"
	"time"
)

// NullCache stands in when caching is off. Reads miss and writes are
// dropped. Reason records why caching was turned off so that callers can
// report it.
type NullCache struct {
	Reason string
}

// Disabled returns a NullCache carrying reason.
func Disabled(reason string) *NullCache {
	return &NullCache{Reason: reason}
}

func (c *NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (c *NullCache) Delete(context.Context, string) error { return nil }

func (c *NullCache) Close() error { return nil }

func (c *NullCache) String() string {
	if c.Reason == "" {
		return "disabled"
	}
	return "disabled (" + c.Reason + ")"
}

var _ Cache = (*NullCache)(nil)
