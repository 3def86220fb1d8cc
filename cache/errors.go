package cache

import (
	"errors"
	"fmt"
)

// Sentinel errors for the precondition violations named in the cache's
// error taxonomy. They are not returned — they are the payload of a panic,
// so a recover() site can still distinguish them with errors.Is.
var (
	// ErrHandleReleased is panicked with when a handle is released more
	// than once, or read via Value after it has been released.
	ErrHandleReleased = errors.New("cache: handle already released")
	// ErrForeignHandle is panicked with when a handle obtained from one
	// cache instance is passed to another.
	ErrForeignHandle = errors.New("cache: handle not obtained from this cache")
	// ErrNegativeCharge is panicked with when Insert is called with a
	// negative charge; the spec requires charge to be non-negative.
	ErrNegativeCharge = errors.New("cache: charge must be non-negative")
)

// assertf panics with a formatted message if cond is false. Used for
// invariants that must hold by construction (e.g. "an entry on the LRU
// list always has refs == 1") — a failure here means a bug in the cache
// itself, not a caller error.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("cache: invariant violated: "+format, args...))
	}
}
