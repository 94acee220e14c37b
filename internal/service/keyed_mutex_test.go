package service

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutexSerializesPerKey(t *testing.T) {
	km := newKeyedMutex()

	inside := map[string]*int32{"a": new(int32), "b": new(int32)}
	var violations int32
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		for _, key := range []string{"a", "b"} {
			wg.Add(1)
			go func(key string) {
				defer wg.Done()
				for j := 0; j < 200; j++ {
					km.Lock(key)
					if atomic.AddInt32(inside[key], 1) != 1 {
						atomic.AddInt32(&violations, 1)
					}
					atomic.AddInt32(inside[key], -1)
					km.Unlock(key)
				}
			}(key)
		}
	}
	wg.Wait()

	assert.Zero(t, atomic.LoadInt32(&violations), "at most one holder per key")
}

func TestKeyedMutexDropsIdleEntries(t *testing.T) {
	km := newKeyedMutex()

	km.Lock("a")
	km.Unlock("a")
	km.Lock("a")
	km.Unlock("a")

	km.mu.Lock()
	defer km.mu.Unlock()
	assert.Empty(t, km.locks, "released keys must not accumulate")
}
