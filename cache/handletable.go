package cache

// handleTable is a hand-rolled open-addressed, chained hash table mapping
// (key, hash) to *entry. It exists instead of Go's builtin map because
// insert and remove both need the same "pointer to the slot that holds (or
// would hold) this key" traversal — the builtin map gives no way to reuse
// that walk, and no way to unlink a node from a chain in place. This mirrors
// the hand-rolled tables in the pack's own LevelDB/Pebble-lineage caches,
// which hit the identical constraint.
//
// Not safe for concurrent use; callers serialize access via the owning
// shard's mutex.
type handleTable struct {
	length uint32
	elems  uint32
	buckets []*entry
	cmp     Comparator
}

func newHandleTable(cmp Comparator) *handleTable {
	t := &handleTable{cmp: cmp}
	t.resize()
	return t
}

// lookup returns the entry for (key, hash), or nil if absent.
func (t *handleTable) lookup(key []byte, hash uint32) *entry {
	return *t.findSlot(key, hash)
}

// insert installs e at the slot (e.key, e.hash) occupies. If an entry with
// the same (key, hash) already exists, it is unlinked from the chain and
// returned so the caller can finalize it; the caller is responsible for
// reconciling list membership and usage accounting for the displaced entry.
func (t *handleTable) insert(e *entry) (displaced *entry) {
	slot := t.findSlot(e.key, e.hash)
	old := *slot
	*slot = e
	if old != nil {
		e.hashNext = old.hashNext
		old.hashNext = nil
		return old
	}
	e.hashNext = nil
	t.elems++
	if t.elems > t.length {
		t.resize()
	}
	return nil
}

// remove unlinks and returns the entry for (key, hash), or nil if absent.
func (t *handleTable) remove(key []byte, hash uint32) *entry {
	slot := t.findSlot(key, hash)
	e := *slot
	if e != nil {
		*slot = e.hashNext
		e.hashNext = nil
		t.elems--
	}
	return e
}

// findSlot walks the bucket chain for (key, hash) and returns a pointer to
// the slot that holds the matching entry, or — if none matches — the slot
// that a new entry with this key would occupy (the chain's terminal nil).
// insert and remove share this single traversal.
func (t *handleTable) findSlot(key []byte, hash uint32) **entry {
	slot := &t.buckets[hash&(t.length-1)]
	for *slot != nil && ((*slot).hash != hash || t.cmp.Compare((*slot).key, key) != 0) {
		slot = &(*slot).hashNext
	}
	return slot
}

// resize grows the bucket array to the smallest power of two at least as
// large as the current element count (minimum 4), then rehashes every
// entry into the new array. Chain order is not preserved.
func (t *handleTable) resize() {
	newLength := uint32(4)
	for newLength < t.elems {
		newLength *= 2
	}
	newBuckets := make([]*entry, newLength)
	var count uint32
	for _, head := range t.buckets {
		e := head
		for e != nil {
			next := e.hashNext
			slot := &newBuckets[e.hash&(newLength-1)]
			e.hashNext = *slot
			*slot = e
			e = next
			count++
		}
	}
	t.buckets = newBuckets
	t.length = newLength
}
