package cache

// Cache is the polymorphic surface clients see. ShardedCache is the only
// provided implementation, but any type satisfying this contract is
// admissible in its place.
//
// Typical operation cost is amortized O(1): a hash lookup plus a constant
// number of pointer fixes under one shard's mutex.
type Cache interface {
	// Insert charges a new key/value pair against the cache and returns a
	// handle holding one reference. charge must be non-negative. deleter
	// (which may be nil) runs exactly once, when the last reference to the
	// entry is released.
	Insert(key []byte, value any, charge int, deleter Deleter) *Handle

	// Lookup returns a handle holding one new reference to key's entry, or
	// (nil, false) on a miss.
	Lookup(key []byte) (*Handle, bool)

	// Release returns the reference held by h. Panics (with ErrHandleReleased
	// or ErrForeignHandle) if h was already released or was not obtained
	// from this cache.
	Release(h *Handle)

	// Value returns the value h refers to. Panics (with ErrHandleReleased)
	// if h has already been released.
	Value(h *Handle) any

	// Erase removes key from the cache if present. A missing key is a
	// silent no-op; pinned holders of the entry are unaffected.
	Erase(key []byte)

	// NewID returns a 64-bit id that is unique among the ids this cache
	// has handed out, for callers that need to namespace keys (e.g. one id
	// per open file). Separate caches number their ids independently.
	NewID() uint64

	// Prune evicts every currently-evictable (unpinned) entry across every
	// shard. Pinned entries are never touched.
	Prune()

	// TotalCharge returns the sum of charges of all currently-cached
	// entries. The sum is not atomic across shards.
	TotalCharge() int64
}

var _ Cache = (*ShardedCache)(nil)
