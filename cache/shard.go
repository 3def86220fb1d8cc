package cache

import (
	"sync"

	"github.com/nearstore/blockcache/internal/util"
)

// shard is one independently-locked partition of the cache. It owns a
// handleTable and two intrusive circular lists rooted at lru and inUse:
//
//   - lru holds entries with refs == 1 (only the cache itself holds them);
//     lru.next is the oldest (next to evict), lru.prev is the newest.
//   - inUse holds entries with refs >= 2 (at least one client holds them);
//     unordered, kept only so pinned entries are never considered for
//     eviction. A shard has no teardown step, so nothing inspects this
//     list when the cache is discarded.
//
// Every method takes s.mu for its entire duration; there are no partial
// critical sections and no suspension points.
type shard struct {
	mu sync.Mutex

	capacity int
	usage    int
	count    int

	table *handleTable
	lru   entry // dummy head of the evictable ring
	inUse entry // dummy head of the pinned ring

	cmp     Comparator
	metrics Metrics

	_         util.CacheLinePad
	hits      util.PaddedAtomicUint64
	misses    util.PaddedAtomicUint64
	evictions util.PaddedAtomicUint64
}

func newShard(capacity int, cmp Comparator, metrics Metrics) *shard {
	s := &shard{
		capacity: capacity,
		table:    newHandleTable(cmp),
		cmp:      cmp,
		metrics:  metrics,
	}
	listInit(&s.lru)
	listInit(&s.inUse)
	return s
}

// insert allocates a new entry for (key, hash) and installs it with
// refs == 2 (cache + returned handle) when capacity > 0 and
// is appended to the InUse list; a same-key entry already present is
// displaced and finalized. It then evicts from the LRU list while the
// shard is over capacity and the list is non-empty. Returns the new entry
// with one reference owned by the caller.
func (s *shard) insert(key []byte, hash uint32, value any, charge int, deleter Deleter) *entry {
	e := &entry{
		key:     append([]byte(nil), key...),
		hash:    hash,
		value:   value,
		deleter: deleter,
		charge:  charge,
		refs:    1,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capacity > 0 {
		e.refs = 2
		e.inCache = true
		e.inUse = true
		listAppend(&s.inUse, e)
		s.usage += charge
		s.count++
		if old := s.table.insert(e); old != nil {
			s.metrics.Evict(EvictReplace)
			s.finishErase(old)
		}
	}

	for s.usage > s.capacity && !listEmpty(&s.lru) {
		oldest := s.lru.next
		assertf(oldest.refs == 1, "LRU member must have refs == 1, got %d", oldest.refs)
		s.table.remove(oldest.key, oldest.hash)
		s.metrics.Evict(EvictCapacity)
		s.evictions.Add(1)
		s.finishErase(oldest)
	}

	s.metrics.Insert()
	s.metrics.Size(s.count, int64(s.usage))
	return e
}

// lookup returns the entry for (key, hash) with one additional reference
// already applied, or nil if absent.
func (s *shard) lookup(key []byte, hash uint32) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.table.lookup(key, hash)
	if e == nil {
		s.misses.Add(1)
		s.metrics.Miss()
		return nil
	}
	s.ref(e)
	s.hits.Add(1)
	s.metrics.Hit()
	return e
}

// ref adds one reference to e, promoting it from the LRU list to the InUse
// list if it was the cache's sole reference.
func (s *shard) ref(e *entry) {
	if e.refs == 1 && e.inCache && !e.inUse {
		listRemove(e)
		listAppend(&s.inUse, e)
		e.inUse = true
	}
	e.refs++
}

// release drops one reference from e. If the count reaches zero, the
// deleter runs and the entry is abandoned to the garbage collector. If the
// entry is still cached and the count drops to exactly one, it moves from
// InUse to the newest end of the LRU list.
func (s *shard) release(e *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unref(e)
	s.metrics.Release()
}

// unref is the shared refcount-drop primitive used by both an explicit
// Release and by finishErase's drop of the cache's own reference. Must be
// called with s.mu held.
func (s *shard) unref(e *entry) {
	assertf(e.refs >= 1, "unref of entry with refs == %d", e.refs)
	e.refs--
	if e.refs == 0 {
		if e.deleter != nil {
			e.deleter(e.key, e.value)
		}
		return
	}
	if e.inCache && e.refs == 1 && e.inUse {
		listRemove(e)
		listAppend(&s.lru, e)
		e.inUse = false
	}
}

// erase removes (key, hash) from the hash table, if present, and finalizes
// the entry. A missing key is a silent no-op.
func (s *shard) erase(key []byte, hash uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e := s.table.remove(key, hash); e != nil {
		s.finishErase(e)
		s.metrics.Size(s.count, int64(s.usage))
	}
}

// prune evicts every entry on the LRU list, leaving pinned (InUse) entries
// untouched. Returns the number of entries removed and the charge freed,
// for logging.
func (s *shard) prune() (removed, freedCharge int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for !listEmpty(&s.lru) {
		e := s.lru.next
		assertf(e.refs == 1, "LRU member must have refs == 1, got %d", e.refs)
		s.table.remove(e.key, e.hash)
		s.metrics.Evict(EvictPrune)
		s.evictions.Add(1)
		freedCharge += e.charge
		s.finishErase(e)
		removed++
	}
	s.metrics.Size(s.count, int64(s.usage))
	return removed, freedCharge
}

// finishErase finalizes an entry that has already been unlinked from the
// hash table but still sits on one of the two lists: it unlinks it from
// that list, clears inCache, subtracts its charge from usage, and drops the
// cache's own reference (which may run the deleter immediately, or leave
// the entry live for remaining pinned clients). Must be called with s.mu
// held.
func (s *shard) finishErase(e *entry) {
	assertf(e.inCache, "finishErase called on an entry that is not cached")
	listRemove(e)
	e.inCache = false
	s.usage -= e.charge
	s.count--
	s.unref(e)
}

// totalCharge returns the shard's current usage.
func (s *shard) totalCharge() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usage
}

// snapshot returns a point-in-time view of the shard's bookkeeping for
// Stats(); the hit/miss/eviction counters are read atomically, usage/count
// under the mutex.
func (s *shard) snapshot() (count, usage int, hits, misses, evictions uint64) {
	s.mu.Lock()
	count, usage = s.count, s.usage
	s.mu.Unlock()
	return count, usage, s.hits.Load(), s.misses.Load(), s.evictions.Load()
}
