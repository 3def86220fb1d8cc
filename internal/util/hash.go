// Package util contains internal helpers (hashing, sharding, padding).
//revive:disable:var-naming  // allow 'util' as an internal helpers package name
package util

// Hash32 hashes key using 32-bit FNV-1a. It is the cache's default
// external hash collaborator: the shard selector uses the high
// bits of the result, the hash table's bucket selector uses the low bits,
// so the same hash value feeds both without being recomputed.
//
// Stability and distribution matter; cryptographic strength does not.
func Hash32(key []byte) uint32 {
	h := uint32(fnvOffset32)
	for _, c := range key {
		h ^= uint32(c)
		h *= fnvPrime32
	}
	return h
}

const (
	fnvOffset32 = 2166136261
	fnvPrime32  = 16777619
)
