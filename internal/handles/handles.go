// Package handles maps Go values to integer handles that can be handed to
// native code as callback user data.
//
// Go pointers must not be stored in native memory. A value is registered in a
// Table and the returned handle travels through the engine instead; the
// callback trampoline looks the value up again when the engine calls back.
package handles

import (
	"sync"
)

// Table is a thread-safe handle table for values of type T.
// The zero value is ready to use. Handle 0 is never issued.
type Table[T any] struct {
	mu     sync.RWMutex
	values map[uintptr]T
	nextID uintptr
}

// Register stores v and returns its handle.
// The value stays reachable until Unregister is called.
func (t *Table[T]) Register(v T) uintptr {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.values == nil {
		t.values = make(map[uintptr]T)
	}
	t.nextID++
	t.values[t.nextID] = v
	return t.nextID
}

// Lookup returns the value registered under id.
func (t *Table[T]) Lookup(id uintptr) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.values[id]
	return v, ok
}

// Unregister removes a handle. Removing an unknown handle is a no-op.
func (t *Table[T]) Unregister(id uintptr) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.values, id)
}

// Count returns the number of currently registered handles.
// Useful for debugging and testing leaks.
func (t *Table[T]) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.values)
}
