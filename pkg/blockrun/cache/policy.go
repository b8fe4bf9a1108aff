package cache

import (
	"time"

	"github.com/randalmurphal/blockrun/pkg/blockrun/block"
)

// DefaultTTL is the hard-default cache lifetime when neither the block nor
// the engine configuration overrides it.
const DefaultTTL = 600 * time.Second

// Policy decides which blocks are cacheable and for how long.
//
// A block's `timeout` modifier is a cache TTL only. It never bounds
// in-flight execution; callers own wall-clock cancellation through their
// context.
type Policy struct {
	// Disabled turns caching off engine-wide regardless of modifiers.
	Disabled bool

	// DefaultTTL overrides DefaultTTL for blocks without a timeout
	// modifier. Zero means use the hard default.
	DefaultTTL time.Duration
}

// Cacheable reports whether a block's result may be cached: caching must
// not be disabled engine-wide, and the block must carry a truthy
// cache_result modifier.
func (p Policy) Cacheable(b *block.Block) bool {
	if p.Disabled || b == nil {
		return false
	}
	return b.Mods.CacheResult
}

// TTL returns the cache lifetime for a block: its timeout modifier, else
// the configured default, else the hard default.
func (p Policy) TTL(b *block.Block) time.Duration {
	if b != nil && b.Mods.Timeout > 0 {
		return b.Mods.Timeout
	}
	if p.DefaultTTL > 0 {
		return p.DefaultTTL
	}
	return DefaultTTL
}
