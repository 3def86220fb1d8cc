package cache

import "sync/atomic"

// Handle is the opaque, client-visible token returned by Insert and
// Lookup. It is equivalent to one owned reference count on an entry and
// must be passed back to Release exactly once. Callers must not inspect or
// copy its fields; the zero Handle is not valid for any operation.
type Handle struct {
	e     *entry
	shard *shard
	owner *ShardedCache

	released atomic.Bool
}
