package cache

import "sync"

// NoDestructor lazily constructs a value of type T on first use and never
// destroys it — there is no method to tear it down, and the zero value
// holds nothing until Get is first called. It exists for process-lifetime
// singletons (such as the default comparator) that must outlive every
// caller and must not participate in any destruction-order hazard at
// process exit; Go has no destructors to race against, but the type
// documents the intent explicitly at the call site instead of relying on
// an implicit package-level var.
type NoDestructor[T any] struct {
	once sync.Once
	val  *T
}

// Get returns the singleton instance, constructing it via ctor on the first
// call. ctor is ignored on subsequent calls even if it differs.
func (n *NoDestructor[T]) Get(ctor func() *T) *T {
	n.once.Do(func() {
		n.val = ctor()
	})
	return n.val
}
