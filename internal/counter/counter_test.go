package counter

import (
	"sync"
	"testing"
)

func TestCounter(t *testing.T) {
	t.Run("InitialCountIsZero", func(t *testing.T) {
		counter := NewCounter("uploaded")
		if got := counter.Count(); got != 0 {
			t.Errorf("Expected initial count to be 0, got %d", got)
		}
		if counter.Name() != "uploaded" {
			t.Errorf("Expected name uploaded, got %s", counter.Name())
		}
	})

	t.Run("IncAndAdd", func(t *testing.T) {
		counter := NewCounter("archived")
		counter.Inc()
		counter.Add(4)
		if got := counter.Count(); got != 5 {
			t.Errorf("Expected count to be 5, got %d", got)
		}
	})

	t.Run("ConcurrentAdds", func(t *testing.T) {
		counter := NewCounter("listed")
		const goroutines = 10
		const addsPerGoroutine = 10

		wg := sync.WaitGroup{}
		for i := 0; i < goroutines; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < addsPerGoroutine; j++ {
					counter.Inc()
				}
			}()
		}
		wg.Wait()

		expected := goroutines * addsPerGoroutine
		if got := counter.Count(); got != expected {
			t.Errorf("Expected count to be %d after concurrent adds, got %d", expected, got)
		}
	})
}
