package cache

// Deleter is invoked exactly once, when an entry's reference count drops to
// zero, to let the caller reclaim the value. It runs on the shard mutex of
// whichever goroutine triggered the final release or eviction; it must not
// call back into the cache that owns it.
type Deleter func(key []byte, value any)

// entry is a single cache record. It is simultaneously a hash-bucket chain
// node (hashNext) and a member of one of the shard's two intrusive circular
// lists (prev/next) — it is never in both at once, so the two list fields
// are shared between the LRU and InUse rings.
type entry struct {
	key     []byte
	hash    uint32
	value   any
	deleter Deleter
	charge  int

	// refs is the outstanding reference count: the cache's own slot counts
	// as one reference while inCache is true. Mutated only under the owning
	// shard's mutex.
	refs int
	// inCache is true iff the entry is currently reachable from the shard's
	// hash table and is a member of one of its two lists.
	inCache bool
	// inUse distinguishes which of the two lists the entry sits on; only
	// meaningful while inCache is true.
	inUse bool

	hashNext *entry
	prev     *entry
	next     *entry
}

// Key returns the byte-string key the entry was inserted under. Callers
// must treat the returned slice as read-only.
func (e *entry) Key() []byte { return e.key }

// listInit turns head into the sentinel of an empty circular list.
func listInit(head *entry) {
	head.prev = head
	head.next = head
}

// listEmpty reports whether head's ring holds no real entries.
func listEmpty(head *entry) bool {
	return head.next == head
}

// listAppend inserts e immediately before head, i.e. at the "newest" end of
// the ring rooted at head. For the LRU list this makes head.prev the most
// recently used entry and head.next the least recently used one, matching
// the spec's eviction order (oldest is popped from head.next).
func listAppend(head, e *entry) {
	e.prev = head.prev
	e.next = head
	e.prev.next = e
	e.next.prev = e
}

// listRemove detaches e from whichever ring it currently sits in.
func listRemove(e *entry) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.prev = nil
	e.next = nil
}
