// Package pathlock hands out one mutex per resource path for the whole process.
package pathlock

import (
	"path/filepath"
	"sync"
)

var (
	mu    sync.Mutex
	locks = make(map[string]*sync.Mutex)
)

// For returns the mutex guarding key. Keys that look like paths are cleaned
// and made absolute so that different spellings share one mutex.
func For(key string) *sync.Mutex {
	if abs, err := filepath.Abs(key); err == nil {
		key = abs
	}

	mu.Lock()
	defer mu.Unlock()
	l, ok := locks[key]
	if !ok {
		l = &sync.Mutex{}
		locks[key] = l
	}
	return l
}

// Lock acquires the mutex for key and returns its release func.
func Lock(key string) (unlock func()) {
	l := For(key)
	l.Lock()
	return l.Unlock
}
