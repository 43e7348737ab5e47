package memo

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestValue_ComputesOnce(t *testing.T) {
	var v Value[int]
	var calls atomic.Int32

	compute := func() (int, error) {
		calls.Add(1)
		return 42, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := v.Get(compute)
			if err != nil || got != 42 {
				t.Errorf("Get() = %d, %v; want 42, nil", got, err)
			}
		}()
	}
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("compute called %d times, want 1", n)
	}
}

func TestValue_CachesError(t *testing.T) {
	var v Value[string]
	boom := errors.New("boom")
	calls := 0

	for i := 0; i < 3; i++ {
		_, err := v.Get(func() (string, error) {
			calls++
			return "", boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("Get() error = %v, want boom", err)
		}
	}

	if calls != 1 {
		t.Errorf("compute called %d times, want 1", calls)
	}
}
