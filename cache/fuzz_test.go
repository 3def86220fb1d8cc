package cache

import (
	"testing"
)

// FuzzHandleTable exercises handleTable's insert/remove/lookup against a
// plain map oracle.
func FuzzHandleTable(f *testing.F) {
	f.Add([]byte("a"), uint32(1), uint8(0))
	f.Add([]byte(""), uint32(0), uint8(1))
	f.Add([]byte{0xff, 0x00, 0xff}, uint32(12345), uint8(2))

	f.Fuzz(func(t *testing.T, key []byte, hash uint32, op uint8) {
		tbl := newHandleTable(DefaultComparator())
		oracle := map[string]*entry{}

		insert := func(k []byte, h uint32) {
			e := &entry{key: append([]byte(nil), k...), hash: h}
			tbl.insert(e)
			oracle[string(k)] = e
		}

		switch op % 3 {
		case 0:
			insert(key, hash)
		case 1:
			tbl.remove(key, hash)
			delete(oracle, string(key))
		case 2:
			insert(key, hash)
			tbl.remove(key, hash)
			delete(oracle, string(key))
		}

		want, wantOK := oracle[string(key)]
		got := tbl.lookup(key, hash)
		if wantOK {
			if got == nil || string(got.key) != string(want.key) {
				t.Fatalf("lookup(%q, %d) = %v, want %v", key, hash, got, want)
			}
		} else if got != nil {
			t.Fatalf("lookup(%q, %d) = %v, want miss", key, hash, got)
		}
	})
}

// FuzzCache_InsertLookupRelease drives Insert/Lookup/Release/Erase through
// randomized key/charge sequences, asserting only the invariants that must
// always hold: TotalCharge never goes negative, and a successful Lookup
// always yields a Value call that does not panic.
func FuzzCache_InsertLookupRelease(f *testing.F) {
	f.Add([]byte("k"), 1, uint8(0))
	f.Add([]byte(""), 0, uint8(1))

	f.Fuzz(func(t *testing.T, key []byte, charge int, op uint8) {
		if charge < 0 || charge > 1<<20 {
			t.Skip()
		}
		c := New(Options{Capacity: 100, Shards: 1})

		switch op % 3 {
		case 0:
			c.Release(c.Insert(key, charge, charge, nil))
		case 1:
			if h, ok := c.Lookup(key); ok {
				_ = c.Value(h)
				c.Release(h)
			}
		case 2:
			c.Erase(key)
		}

		if c.TotalCharge() < 0 {
			t.Fatalf("TotalCharge went negative")
		}
	})
}
