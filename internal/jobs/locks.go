package jobs

import "sync"

// keyedMutex hands out one mutex per review ID so analyses of the same review
// never run concurrently, while different reviews proceed in parallel.
// Entries are reference-counted and dropped once nobody holds or waits on them.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[int64]*lockEntry
}

type lockEntry struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[int64]*lockEntry)}
}

// lock blocks until the mutex for id is held and returns the unlock function.
func (k *keyedMutex) lock(id int64) func() {
	k.mu.Lock()
	e, ok := k.locks[id]
	if !ok {
		e = &lockEntry{}
		k.locks[id] = e
	}
	e.refs++
	k.mu.Unlock()

	e.Lock()

	return func() {
		e.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, id)
		}
		k.mu.Unlock()
	}
}
