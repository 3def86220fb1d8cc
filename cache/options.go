package cache

import "github.com/nearstore/blockcache/internal/util"

// Options configures a ShardedCache. Zero values are safe; New applies the
// defaults documented per field.
type Options struct {
	// Capacity is the total cost ceiling, split evenly (ceiling division)
	// across shards. Capacity == 0 is a supported "caching disabled" mode:
	// Insert still returns a usable handle, but never retains the entry,
	// and Lookup always misses.
	Capacity int

	// Shards is the number of shards. If <= 0, a default is chosen by
	// ReasonableShardCount (≈ 2×GOMAXPROCS, rounded to a power of two,
	// clamped to 256). Any other value is rounded up to the next power of
	// two so shard selection can use a bit shift instead of a modulo.
	Shards int

	// Hash derives the 32-bit key hash used for both shard routing (high
	// bits) and hash-table bucket selection (low bits). Defaults to
	// internal/util.Hash32 (FNV-1a). Must be stable and well-distributed;
	// cryptographic strength is not required.
	Hash HashFunc

	// Comparator breaks hash ties during table lookups. Defaults to
	// DefaultComparator() (ordinary bytewise comparison).
	Comparator Comparator

	// Metrics receives Hit/Miss/Insert/Release/Evict/Size signals. Defaults
	// to NoopMetrics.
	Metrics Metrics

	// Logger receives the handful of non-hot-path log lines the cache
	// emits (option normalization, prune activity). Defaults to a no-op
	// logger.
	Logger *Logger
}

// HashFunc derives a 32-bit hash from a key. The shard selector uses its
// high bits; the hash table uses its low bits.
type HashFunc func(key []byte) uint32

func (o Options) withDefaults() Options {
	if o.Capacity < 0 {
		panic("cache: Capacity must be >= 0")
	}

	requested := o.Shards
	if o.Shards <= 0 {
		o.Shards = util.ReasonableShardCount()
	} else {
		o.Shards = int(util.NextPow2(uint64(o.Shards)))
	}

	if o.Hash == nil {
		o.Hash = util.Hash32
	}
	if o.Comparator == nil {
		o.Comparator = DefaultComparator()
	}
	if o.Metrics == nil {
		o.Metrics = NoopMetrics{}
	}
	if o.Logger == nil {
		o.Logger = NewNopLogger()
	}

	o.Logger.shardCountRounded(requested, o.Shards)
	return o
}
