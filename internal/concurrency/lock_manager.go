package concurrency

import (
	"sync"
)

// LockManager handles named locks
type LockManager struct {
	locks sync.Map
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{}
}

// GetLock returns a mutex for the given key
func (lm *LockManager) GetLock(key string) *sync.Mutex {
	lock, _ := lm.locks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// LockPair acquires the locks for both keys in a deterministic order so that
// two concurrent pair lockers can never deadlock. The returned func releases
// both locks. Equal keys acquire a single lock.
func (lm *LockManager) LockPair(a, b string) (unlock func()) {
	if a == b {
		l := lm.GetLock(a)
		l.Lock()
		return l.Unlock
	}
	first, second := a, b
	if second < first {
		first, second = second, first
	}
	l1 := lm.GetLock(first)
	l2 := lm.GetLock(second)
	l1.Lock()
	l2.Lock()
	return func() {
		l2.Unlock()
		l1.Unlock()
	}
}
