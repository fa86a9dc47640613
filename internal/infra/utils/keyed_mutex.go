package utils

import "sync"

// KeyedMutex hands out one mutex per key. Entries are never evicted; the key
// space here is bounded by the number of records touched during a process
// lifetime, which is fine for an authoring workload.
type KeyedMutex struct {
	mutexes sync.Map
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{}
}

// Lock acquires the mutex for key and returns the release function.
func (k *KeyedMutex) Lock(key string) func() {
	value, _ := k.mutexes.LoadOrStore(key, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
