// FILE: reentrant.go
package sinklog

import (
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
)

// ReentrantMutex is a mutual exclusion lock that the owning goroutine may
// acquire again without blocking. Every Lock must be paired with an Unlock.
// The zero value is an unlocked mutex.
type ReentrantMutex struct {
	mu    sync.Mutex
	owner atomic.Uint64
	depth int
}

// Lock acquires the mutex, or increments the hold count if the calling
// goroutine already owns it.
func (m *ReentrantMutex) Lock() {
	id := goroutineID()
	if id != 0 && m.owner.Load() == id {
		m.depth++
		return
	}
	m.mu.Lock()
	m.owner.Store(id)
	m.depth = 1
}

// Unlock releases one hold. The mutex is released when the count drops to zero.
// Unlocking from a goroutine that does not own the mutex panics.
func (m *ReentrantMutex) Unlock() {
	if m.owner.Load() != goroutineID() {
		panic("sinklog: unlock of ReentrantMutex not held by this goroutine")
	}
	m.depth--
	if m.depth == 0 {
		m.owner.Store(0)
		m.mu.Unlock()
	}
}

// HeldByCurrent reports whether the calling goroutine owns the mutex.
func (m *ReentrantMutex) HeldByCurrent() bool {
	id := goroutineID()
	return id != 0 && m.owner.Load() == id
}

// goroutineID parses the id from the "goroutine N [" stack header.
// Goroutine ids start at 1, so 0 marks an unowned mutex.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]
	const prefix = "goroutine "
	if len(b) <= len(prefix) {
		return 0
	}
	b = b[len(prefix):]
	i := 0
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
	}
	id, err := strconv.ParseUint(string(b[:i]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
