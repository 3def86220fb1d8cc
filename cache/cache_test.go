package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// deletions records (key, value) pairs handed to a Deleter, in call order.
type deletions struct {
	calls []delCall
}

type delCall struct {
	key   string
	value int
}

func (d *deletions) deleter() Deleter {
	return func(key []byte, value any) {
		d.calls = append(d.calls, delCall{key: string(key), value: value.(int)})
	}
}

func newTestCache(t *testing.T, capacity int) *ShardedCache {
	t.Helper()
	// Shards: 1 forces a single shard so LRU order is globally deterministic,
	// matching every numbered scenario in the spec (they all assume one shard).
	return New(Options{Capacity: capacity, Shards: 1})
}

// lookupValue is a small helper: Lookup + Value + Release in one call,
// returning (value, hit).
func lookupValue(c *ShardedCache, key string) (int, bool) {
	h, ok := c.Lookup([]byte(key))
	if !ok {
		return 0, false
	}
	v := c.Value(h).(int)
	c.Release(h)
	return v, true
}

// Scenario 1: Hit-and-miss.
func TestScenario_HitAndMiss(t *testing.T) {
	c := newTestCache(t, 1000)
	var del deletions

	_, ok := lookupValue(c, "100")
	require.False(t, ok)

	c.Release(c.Insert([]byte("100"), 101, 1, del.deleter()))
	v, ok := lookupValue(c, "100")
	require.True(t, ok)
	require.Equal(t, 101, v)

	_, ok = lookupValue(c, "200")
	require.False(t, ok)

	c.Release(c.Insert([]byte("200"), 201, 1, del.deleter()))
	c.Release(c.Insert([]byte("100"), 102, 1, del.deleter())) // displaces 101

	v, ok = lookupValue(c, "100")
	require.True(t, ok)
	require.Equal(t, 102, v)

	v, ok = lookupValue(c, "200")
	require.True(t, ok)
	require.Equal(t, 201, v)

	require.Equal(t, []delCall{{"100", 101}}, del.calls)
}

// Scenario 2: Erase.
func TestScenario_Erase(t *testing.T) {
	c := newTestCache(t, 1000)
	var del deletions

	c.Erase([]byte("200")) // erase on empty cache: no-op
	require.Empty(t, del.calls)

	c.Release(c.Insert([]byte("100"), 101, 1, del.deleter()))
	c.Release(c.Insert([]byte("200"), 201, 1, del.deleter()))
	c.Erase([]byte("100"))

	_, ok := lookupValue(c, "100")
	require.False(t, ok)
	v, ok := lookupValue(c, "200")
	require.True(t, ok)
	require.Equal(t, 201, v)
	require.Equal(t, []delCall{{"100", 101}}, del.calls)

	c.Erase([]byte("100")) // idempotent
	require.Equal(t, 1, len(del.calls))
}

// Scenario 3: Entries pinned.
func TestScenario_EntriesPinned(t *testing.T) {
	c := newTestCache(t, 1000)
	var del deletions

	c.Release(c.Insert([]byte("100"), 101, 1, del.deleter()))
	h1, ok := c.Lookup([]byte("100"))
	require.True(t, ok)

	c.Release(c.Insert([]byte("100"), 102, 1, del.deleter())) // displaces 101, but h1 pins it
	h2, ok := c.Lookup([]byte("100"))
	require.True(t, ok)

	require.Empty(t, del.calls)

	c.Release(h1)
	require.Equal(t, []delCall{{"100", 101}}, del.calls)

	c.Erase([]byte("100"))
	_, ok = lookupValue(c, "100")
	require.False(t, ok)
	require.Equal(t, 1, len(del.calls))

	c.Release(h2)
	require.Equal(t, 2, len(del.calls))
	require.Equal(t, delCall{"100", 102}, del.calls[1])
}

// Scenario 4: Eviction policy.
func TestScenario_EvictionPolicy(t *testing.T) {
	c := newTestCache(t, 1000)
	var del deletions

	c.Release(c.Insert([]byte("100"), 101, 1, del.deleter()))
	c.Release(c.Insert([]byte("200"), 201, 1, del.deleter()))
	c.Release(c.Insert([]byte("300"), 301, 1, del.deleter()))

	h300, ok := c.Lookup([]byte("300")) // pin 300
	require.True(t, ok)

	for i := 1000; i < 2100; i++ {
		key := itoa(i)
		c.Release(c.Insert([]byte(key), i+1, 1, del.deleter()))
		_, _ = lookupValue(c, "100") // keep 100 warm
	}

	v, ok := lookupValue(c, "100")
	require.True(t, ok)
	require.Equal(t, 101, v)

	_, ok = lookupValue(c, "200")
	require.False(t, ok, "200 should have been evicted")

	v, ok = c.Value(h300).(int), true
	require.True(t, ok)
	require.Equal(t, 301, v)
	c.Release(h300)
}

// Scenario 5: Use exceeds cache size.
func TestScenario_UseExceedsCacheSize(t *testing.T) {
	c := newTestCache(t, 1000)

	handles := make([]*Handle, 0, 1100)
	for i := 0; i < 1100; i++ {
		h := c.Insert([]byte(itoa(i)), i, 1, nil)
		handles = append(handles, h)
	}

	for i := 0; i < 1100; i++ {
		require.Equal(t, i, c.Value(handles[i]))
	}
	require.Greater(t, c.TotalCharge(), int64(1000))

	for _, h := range handles {
		c.Release(h)
	}
}

// Scenario 6: Heavy entries.
func TestScenario_HeavyEntries(t *testing.T) {
	c := newTestCache(t, 1000)

	total := 0
	i := 0
	for total < 2000 {
		charge := 1
		if i%2 == 0 {
			charge = 10
		}
		c.Release(c.Insert([]byte(itoa(i)), i, charge, nil))
		total += charge
		i++
	}

	require.LessOrEqual(t, c.TotalCharge(), int64(1100)) // capacity * 1.1
}

// Scenario 7: Prune.
func TestScenario_Prune(t *testing.T) {
	c := newTestCache(t, 1000)

	c.Release(c.Insert([]byte("1"), 100, 1, nil))
	c.Release(c.Insert([]byte("2"), 200, 1, nil))

	h1, ok := c.Lookup([]byte("1")) // pin key 1
	require.True(t, ok)

	c.Prune()

	v, ok := lookupValue(c, "1")
	require.True(t, ok)
	require.Equal(t, 100, v)

	_, ok = lookupValue(c, "2")
	require.False(t, ok)

	c.Release(h1)
}

// Single entry whose charge alone exceeds capacity is retained (transient
// over-capacity) even though the LRU list is empty to evict from.
func TestShard_SingleEntryExceedsCapacity(t *testing.T) {
	c := newTestCache(t, 10)
	h := c.Insert([]byte("huge"), "v", 1000, nil)
	require.Equal(t, int64(1000), c.TotalCharge())

	h2, ok := c.Lookup([]byte("huge"))
	require.True(t, ok)
	require.Equal(t, "v", c.Value(h2))
	c.Release(h2)
	c.Release(h)
}

// Capacity == 0 is a supported "caching disabled" mode.
func TestCache_CapacityZeroMode(t *testing.T) {
	c := newTestCache(t, 0)
	var del deletions

	h := c.Insert([]byte("k"), 42, 1, del.deleter())
	require.Equal(t, 42, c.Value(h))
	require.Empty(t, del.calls)

	_, ok := c.Lookup([]byte("k"))
	require.False(t, ok, "lookup must always miss in capacity-0 mode")

	c.Release(h)
	require.Equal(t, []delCall{{"k", 42}}, del.calls)
}

// Every entry that reaches refcount zero runs its deleter exactly once.
func TestCache_DeleterRunsExactlyOnce(t *testing.T) {
	c := newTestCache(t, 2)
	var del deletions

	c.Release(c.Insert([]byte("a"), 1, 1, del.deleter()))
	c.Release(c.Insert([]byte("b"), 2, 1, del.deleter()))
	c.Release(c.Insert([]byte("c"), 3, 1, del.deleter())) // evicts a

	require.Len(t, del.calls, 1)
	require.Equal(t, delCall{"a", 1}, del.calls[0])
}

func TestCache_ReleaseTwicePanics(t *testing.T) {
	c := newTestCache(t, 10)
	h := c.Insert([]byte("k"), 1, 1, nil)
	c.Release(h)
	require.PanicsWithValue(t, ErrHandleReleased, func() { c.Release(h) })
}

func TestCache_ValueAfterReleasePanics(t *testing.T) {
	c := newTestCache(t, 10)
	h := c.Insert([]byte("k"), 1, 1, nil)
	c.Release(h)
	require.PanicsWithValue(t, ErrHandleReleased, func() { c.Value(h) })
}

func TestCache_ForeignHandlePanics(t *testing.T) {
	c1 := newTestCache(t, 10)
	c2 := newTestCache(t, 10)
	h := c1.Insert([]byte("k"), 1, 1, nil)
	require.PanicsWithValue(t, ErrForeignHandle, func() { c2.Release(h) })
	c1.Release(h)
}

func TestCache_NewIDMonotonicAndUnique(t *testing.T) {
	c := newTestCache(t, 10)
	seen := map[uint64]bool{}
	var prev uint64
	for i := 0; i < 100; i++ {
		id := c.NewID()
		require.False(t, seen[id])
		require.Greater(t, id, prev)
		seen[id] = true
		prev = id
	}
}

func TestCache_TotalChargeAfterQuiescence(t *testing.T) {
	c := newTestCache(t, 1000)
	for i := 0; i < 10; i++ {
		c.Release(c.Insert([]byte(itoa(i)), i, 7, nil))
	}
	require.Equal(t, int64(70), c.TotalCharge())
}

func itoa(i int) string {
	// Avoid importing strconv in every helper call site; this is a tiny,
	// allocation-light decimal formatter used only by tests.
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
