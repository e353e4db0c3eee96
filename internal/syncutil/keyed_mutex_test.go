package syncutil

import (
	"sync"
	"testing"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("post:1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != 100 {
		t.Fatalf("expected 100 increments, got %d", counter)
	}
}

func TestKeyedMutexReleasesIdleEntries(t *testing.T) {
	km := NewKeyedMutex()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			unlock := km.Lock(string(rune('a' + n)))
			unlock()
		}(i)
	}
	wg.Wait()

	if got := km.Len(); got != 0 {
		t.Fatalf("expected idle entries to be collected, %d remain", got)
	}
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := NewKeyedMutex()

	unlockA := km.Lock("a")
	done := make(chan struct{})
	go func() {
		unlockB := km.Lock("b")
		unlockB()
		close(done)
	}()
	<-done // must not deadlock while "a" is held
	unlockA()
}
