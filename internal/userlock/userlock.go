// Package userlock provides one mutex per user id so that every operation a
// store performs for a user runs atomically with respect to the others.
package userlock

import "sync"

// Locker hands out a dedicated mutex per key. Mutexes are created on first
// use and kept for the process lifetime: a user's lock must outlive that
// user's state, which may be cleared and recreated between calls.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates an empty Locker.
func New() *Locker {
	return &Locker{locks: make(map[string]*sync.Mutex)}
}

// Lock blocks until the mutex for key is held and returns its unlock func.
func (l *Locker) Lock(key string) func() {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
