package handles

import (
	"sync"
	"testing"
)

func TestRegisterAndLookup(t *testing.T) {
	type testData struct {
		Name  string
		Value int
	}

	var table Table[*testData]
	data := &testData{Name: "test", Value: 42}
	handle := table.Register(data)

	if handle == 0 {
		t.Error("Register should return non-zero handle")
	}

	got, ok := table.Lookup(handle)
	if !ok {
		t.Fatal("Lookup should find the registered value")
	}
	if got.Name != "test" || got.Value != 42 {
		t.Errorf("Lookup returned wrong data: %+v", got)
	}
}

func TestUnregister(t *testing.T) {
	var table Table[string]
	handle := table.Register("test string")

	if _, ok := table.Lookup(handle); !ok {
		t.Error("Expected value before Unregister")
	}

	table.Unregister(handle)

	if _, ok := table.Lookup(handle); ok {
		t.Error("Expected no value after Unregister")
	}
	if table.Count() != 0 {
		t.Errorf("Count = %d after Unregister, want 0", table.Count())
	}
}

func TestLookupNonExistent(t *testing.T) {
	var table Table[int]
	if _, ok := table.Lookup(999999); ok {
		t.Error("Lookup of non-existent handle should fail")
	}
}

func TestConcurrentAccess(t *testing.T) {
	const numGoroutines = 100
	const numOps = 100

	var table Table[[2]int]
	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < numOps; j++ {
				handle := table.Register([2]int{id, j})
				got, ok := table.Lookup(handle)
				if !ok || got != [2]int{id, j} {
					t.Errorf("Lookup(%d) = %v, %v", handle, got, ok)
				}
				table.Unregister(handle)
			}
		}(i)
	}

	wg.Wait()

	if table.Count() != 0 {
		t.Errorf("Count = %d after concurrent register/unregister, want 0", table.Count())
	}
}

func TestHandlesAreUnique(t *testing.T) {
	var table Table[int]
	seen := make(map[uintptr]bool)

	for i := 0; i < 1000; i++ {
		h := table.Register(i)
		if seen[h] {
			t.Errorf("Handle %d was returned twice", h)
		}
		seen[h] = true
	}

	for h := range seen {
		table.Unregister(h)
	}
}
