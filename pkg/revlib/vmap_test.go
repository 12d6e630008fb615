package revlib

import (
	"sort"
	"sync"
	"testing"
)

func TestVMap_Basics(t *testing.T) {
	vm := NewVMap[string, int]()
	vm.Set("a", 1)
	vm.Set("b", 2)

	if got := vm.Get("a"); got != 1 {
		t.Errorf("Get(a) = %d, want 1", got)
	}
	if got, ok := vm.GetOk("missing"); ok || got != 0 {
		t.Errorf("GetOk(missing) = (%d, %v), want (0, false)", got, ok)
	}
	if vm.Len() != 2 {
		t.Errorf("Len = %d, want 2", vm.Len())
	}

	vm.Delete("a")
	if _, ok := vm.GetOk("a"); ok {
		t.Error("Delete did not remove key")
	}
	vm.Delete("a") // absent key is a no-op
}

func TestVMap_Update(t *testing.T) {
	vm := NewVMap[string, []int]()
	for i := 0; i < 3; i++ {
		v := i
		vm.Update("k", func(s []int) []int { return append(s, v) })
	}
	got := vm.Get("k")
	if len(got) != 3 || got[0] != 0 || got[2] != 2 {
		t.Errorf("Update accumulated %v", got)
	}
}

func TestVMap_Drain(t *testing.T) {
	vm := NewVMap[string, struct{}]()
	vm.Set("x", struct{}{})
	vm.Set("y", struct{}{})

	keys := vm.Drain()
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "x" || keys[1] != "y" {
		t.Errorf("Drain = %v, want [x y]", keys)
	}
	if vm.Len() != 0 {
		t.Errorf("Len after Drain = %d, want 0", vm.Len())
	}
}

func TestVMap_ConcurrentAccess(t *testing.T) {
	vm := NewVMap[int, int]()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				vm.Set(g*1000+i, i)
				_ = vm.Get(g * 1000)
				_ = vm.Keys()
			}
		}(g)
	}
	wg.Wait()
	if vm.Len() != 800 {
		t.Errorf("Len = %d, want 800", vm.Len())
	}
}
