// Package cache implements a concurrent, sharded, reference-counted LRU
// object cache with pinning semantics.
//
// Clients associate opaque values with byte-string keys, charge each entry
// a caller-supplied cost, and the cache enforces a total cost ceiling by
// evicting the least-recently-used entries that are not currently held by a
// caller ("pinned"). It is designed as the in-memory lookup tier of a
// storage engine: the typical value is a decoded block or an open table
// reader, but the cache never interprets values itself.
//
// Design
//
//   - Sharding: ShardedCache holds a fixed, power-of-two-sized array of
//     shards and routes every operation to one of them by the high bits of
//     the key's hash. This keeps lock contention local to a shard instead of
//     a single cache-wide mutex.
//
//   - Per-shard structure: each shard combines a hand-rolled open-addressed
//     hash table (handleTable) with two intrusive circular doubly-linked
//     lists — "LRU" for entries with no outstanding client reference, and
//     "InUse" for entries pinned by at least one caller — under a single
//     sync.Mutex. An entry is a member of exactly one of the two lists, or
//     of neither once it has been evicted but a pinned handle keeps it alive.
//
//   - Reference counting: every Insert and every successful Lookup hands the
//     caller one reference, which must be returned exactly once via Release.
//     The entry's deleter runs the moment its reference count reaches zero,
//     which may happen well after the entry left the cache if a client is
//     still holding it.
//
//   - Capacity: Options.Capacity is split evenly across shards. Insert never
//     fails for being over budget — it evicts unpinned entries until the
//     shard is back under capacity, or, if the newly inserted entry alone
//     exceeds capacity and nothing is evictable, leaves the shard transiently
//     over budget (see DESIGN.md's Open Question decisions).
//
// Basic usage
//
//	c := cache.New(cache.Options{Capacity: 64 << 20}) // 64 MiB budget
//	h := c.Insert([]byte("block-1"), decodedBlock, len(rawBytes), func(key []byte, v any) {
//	    releaseDecodedBlock(v.(*Block))
//	})
//	defer c.Release(h)
//	block := c.Value(h).(*Block)
//
// With GetOrLoad (singleflight)
//
//	h, err := c.GetOrLoad(ctx, key, func(ctx context.Context, key []byte) (any, int, cache.Deleter, error) {
//	    block, err := readBlockFromDisk(key)
//	    return block, len(block), freeBlock, err
//	})
//
// Exporting metrics (Prometheus adapter)
//
//	m := prom.New(nil, "engine", "blockcache", nil)
//	c := cache.New(cache.Options{Capacity: 64 << 20, Metrics: m})
//
// Thread-safety
//
// Every exported method is safe for concurrent use by multiple goroutines.
// Operations block only on a shard's own mutex; there are no suspension
// points, no I/O and no cross-shard locking. A deleter runs on the shard
// mutex of the goroutine that dropped the last reference — deleters must
// not call back into the same cache, or they will deadlock.
package cache
