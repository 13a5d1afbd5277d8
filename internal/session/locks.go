package session

import "sync"

// Locks serializes work per visitor id within one process. Entries live
// only while someone holds or waits on them. The zero value is ready to use.
type Locks struct {
	mu    sync.Mutex
	locks map[string]*visitorLock
}

type visitorLock struct {
	mu   sync.Mutex
	refs int
}

// Lock blocks until id is free and returns the function that frees it.
func (l *Locks) Lock(id string) (unlock func()) {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*visitorLock)
	}
	vl, ok := l.locks[id]
	if !ok {
		vl = &visitorLock{}
		l.locks[id] = vl
	}
	vl.refs++
	l.mu.Unlock()

	vl.mu.Lock()
	return func() {
		vl.mu.Unlock()
		l.mu.Lock()
		vl.refs--
		if vl.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

// Len returns the number of ids currently held or waited on.
func (l *Locks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
