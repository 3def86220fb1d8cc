package cache

import "bytes"

// Comparator is the byte-string equality collaborator the hash table uses
// to break hash ties. Named (like LevelDB's Comparator::Name) so a future
// caller can detect an incompatible comparator swap; the cache itself never
// persists anything keyed by this name, but an enclosing engine that does
// persist comparator-dependent data can use it as a compatibility tag.
type Comparator interface {
	Compare(a, b []byte) int
	Name() string
}

type bytewiseComparator struct{}

func (bytewiseComparator) Compare(a, b []byte) int { return bytes.Compare(a, b) }
func (bytewiseComparator) Name() string            { return "blockcache.BytewiseComparator" }

var defaultComparator NoDestructor[bytewiseComparator]

// DefaultComparator returns the process-wide bytewise comparator, built via
// NoDestructor on first use.
func DefaultComparator() Comparator {
	return defaultComparator.Get(func() *bytewiseComparator {
		return &bytewiseComparator{}
	})
}
