package revlib

import (
	"sync"
)

// VMap is a thread-safe generic map guarded by a read-write mutex. The
// store uses it for its node table, children index and dirty set so reads
// of different nodes never contend on node-level locks.
type VMap[kT comparable, vT any] struct {
	kv map[kT]vT
	mu *sync.RWMutex
}

// NewVMap creates an empty VMap.
func NewVMap[kT comparable, vT any]() VMap[kT, vT] {
	return VMap[kT, vT]{
		kv: make(map[kT]vT),
		mu: new(sync.RWMutex),
	}
}

// Set stores a value for the given key.
func (vm *VMap[kT, vT]) Set(key kT, val vT) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.kv[key] = val
}

// Get retrieves the value for key, or the zero value if absent.
func (vm *VMap[kT, vT]) Get(key kT) (val vT) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.kv[key]
}

// GetOk retrieves the value for key and whether it was present.
func (vm *VMap[kT, vT]) GetOk(key kT) (val vT, ok bool) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	val, ok = vm.kv[key]
	return
}

// Update applies f to the current value for key (zero value if absent)
// and stores the result, all under the write lock.
func (vm *VMap[kT, vT]) Update(key kT, f func(vT) vT) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.kv[key] = f(vm.kv[key])
}

// Delete removes key from the map. Absent keys are a no-op.
func (vm *VMap[kT, vT]) Delete(key kT) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	delete(vm.kv, key)
}

// Len returns the number of entries.
func (vm *VMap[kT, vT]) Len() int {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return len(vm.kv)
}

// Keys returns a snapshot of all keys in map order.
func (vm *VMap[kT, vT]) Keys() []kT {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	keys := make([]kT, 0, len(vm.kv))
	for k := range vm.kv {
		keys = append(keys, k)
	}
	return keys
}

// Drain removes and returns all keys. Used by the ranker to consume the
// dirty set in one step.
func (vm *VMap[kT, vT]) Drain() []kT {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	keys := make([]kT, 0, len(vm.kv))
	for k := range vm.kv {
		keys = append(keys, k)
		delete(vm.kv, k)
	}
	return keys
}

// Range iterates over a snapshot-free view of the map under the read lock.
// f must not mutate the map; returning false stops early.
func (vm *VMap[kT, vT]) Range(f func(key kT, val vT) bool) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	for k, v := range vm.kv {
		if !f(k, v) {
			return
		}
	}
}
