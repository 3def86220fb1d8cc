package cache

import (
	"context"
	"errors"
	"math/bits"
	"sync"

	"github.com/nearstore/blockcache/internal/singleflight"
	"github.com/nearstore/blockcache/internal/util"
	"golang.org/x/sync/errgroup"
)

// ErrNoLoader is returned by GetOrLoad when load is nil.
var ErrNoLoader = errors.New("cache: no loader provided")

// ShardedCache is the sharded LRU implementation of Cache. It holds a
// fixed array of shards and routes every operation to one of them by the
// high bits of the key's hash.
type ShardedCache struct {
	shards    []*shard
	shardBits uint32
	hash      HashFunc
	cmp       Comparator
	metrics   Metrics
	logger    *Logger

	idMu   sync.Mutex
	lastID uint64

	sf singleflight.Group[string, *Handle]
}

// New constructs a ShardedCache from opt. See Options for defaults.
func New(opt Options) *ShardedCache {
	opt = opt.withDefaults()
	assertf(util.IsPowerOfTwo(uint64(opt.Shards)), "shard count must be a power of two, got %d", opt.Shards)

	perShardCap := ceilDiv(opt.Capacity, opt.Shards)
	shards := make([]*shard, opt.Shards)
	for i := range shards {
		shards[i] = newShard(perShardCap, opt.Comparator, opt.Metrics)
	}

	return &ShardedCache{
		shards:    shards,
		shardBits: uint32(bits.Len(uint(opt.Shards)) - 1),
		hash:      opt.Hash,
		cmp:       opt.Comparator,
		metrics:   opt.Metrics,
		logger:    opt.Logger,
	}
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}

// getShard routes hash to one of c.shards by its high shardBits bits.
// len(c.shards) is guaranteed to be a power of two.
func (c *ShardedCache) getShard(hash uint32) *shard {
	idx := hash >> (32 - c.shardBits)
	return c.shards[idx]
}

// Insert implements Cache.
func (c *ShardedCache) Insert(key []byte, value any, charge int, deleter Deleter) *Handle {
	if charge < 0 {
		panic(ErrNegativeCharge)
	}
	hash := c.hash(key)
	s := c.getShard(hash)
	e := s.insert(key, hash, value, charge, deleter)
	return &Handle{e: e, shard: s, owner: c}
}

// Lookup implements Cache.
func (c *ShardedCache) Lookup(key []byte) (*Handle, bool) {
	hash := c.hash(key)
	s := c.getShard(hash)
	e := s.lookup(key, hash)
	if e == nil {
		return nil, false
	}
	return &Handle{e: e, shard: s, owner: c}, true
}

// Release implements Cache.
func (c *ShardedCache) Release(h *Handle) {
	if h == nil {
		return
	}
	if h.owner != c {
		panic(ErrForeignHandle)
	}
	if !h.released.CompareAndSwap(false, true) {
		panic(ErrHandleReleased)
	}
	h.shard.release(h.e)
}

// Value implements Cache.
func (c *ShardedCache) Value(h *Handle) any {
	if h == nil || h.owner != c {
		panic(ErrForeignHandle)
	}
	if h.released.Load() {
		panic(ErrHandleReleased)
	}
	return h.e.value
}

// Erase implements Cache.
func (c *ShardedCache) Erase(key []byte) {
	hash := c.hash(key)
	c.getShard(hash).erase(key, hash)
}

// NewID implements Cache. It hands out unique ids from a counter guarded
// by its own mutex, independent of any shard — this is the one piece of
// cache-wide state that isn't sharded.
func (c *ShardedCache) NewID() uint64 {
	c.idMu.Lock()
	defer c.idMu.Unlock()
	c.lastID++
	return c.lastID
}

// Prune implements Cache. Each shard is pruned concurrently: pruning one
// shard has no interaction with another, so there is no reason to
// serialize the fan-out.
func (c *ShardedCache) Prune() {
	var g errgroup.Group
	for i, s := range c.shards {
		i, s := i, s
		g.Go(func() error {
			removed, freed := s.prune()
			c.logger.pruned(i, removed, freed)
			return nil
		})
	}
	_ = g.Wait()
}

// TotalCharge implements Cache. Each shard is locked independently in
// turn; the sum is not atomic across shards.
func (c *ShardedCache) TotalCharge() int64 {
	var total int64
	for _, s := range c.shards {
		total += int64(s.totalCharge())
	}
	return total
}

// Stats is a point-in-time snapshot of cache-wide counters, independent of
// any Metrics adapter — grounded on the {Size,Count,Hits,Misses} snapshot
// Pebble's block cache exposes without requiring a metrics registry.
type Stats struct {
	Count     int64
	Size      int64
	Hits      int64
	Misses    int64
	Evictions int64
}

// Stats returns a snapshot of cache-wide counters.
func (c *ShardedCache) Stats() Stats {
	var s Stats
	for _, sh := range c.shards {
		count, usage, hits, misses, evictions := sh.snapshot()
		s.Count += int64(count)
		s.Size += int64(usage)
		s.Hits += int64(hits)
		s.Misses += int64(misses)
		s.Evictions += int64(evictions)
	}
	return s
}

// Loader fetches a value on a GetOrLoad miss. The returned deleter (which
// may be nil) is attached to the inserted entry exactly as if Insert had
// been called directly.
type Loader func(ctx context.Context, key []byte) (value any, charge int, deleter Deleter, err error)

// GetOrLoad returns a handle for key, loading it via load on a miss.
// Concurrent GetOrLoad calls for the same key are coalesced: load runs at
// most once per key even under a thundering herd. Not part of the Cache
// interface — it is a loader-coalescing convenience layered on top of it.
func (c *ShardedCache) GetOrLoad(ctx context.Context, key []byte, load Loader) (*Handle, error) {
	if h, ok := c.Lookup(key); ok {
		return h, nil
	}
	if load == nil {
		return nil, ErrNoLoader
	}
	return c.sf.Do(ctx, string(key), func() (*Handle, error) {
		if h, ok := c.Lookup(key); ok {
			return h, nil
		}
		value, charge, deleter, err := load(ctx, key)
		if err != nil {
			return nil, err
		}
		return c.Insert(key, value, charge, deleter), nil
	})
}
