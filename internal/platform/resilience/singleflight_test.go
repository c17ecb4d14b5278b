package resilience

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_Do(t *testing.T) {
	var g SingleFlight
	var counter int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			_, err, _ := g.Do("standings:500", func() (any, error) {
				atomic.AddInt32(&counter, 1)
				time.Sleep(20 * time.Millisecond)
				return "ok", nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&counter); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
	if g.Pending() != 0 {
		t.Fatalf("expected no pending calls after settle, got %d", g.Pending())
	}
}

func TestSingleFlight_SharesIdenticalValue(t *testing.T) {
	var g SingleFlight
	release := make(chan struct{})
	entered := make(chan struct{})

	type result struct {
		val    any
		shared bool
	}
	results := make(chan result, 2)

	go func() {
		v, _, shared := g.Do("k", func() (any, error) {
			close(entered)
			<-release
			return &struct{ n int }{n: 7}, nil
		})
		results <- result{val: v, shared: shared}
	}()

	<-entered
	go func() {
		v, _, shared := g.Do("k", func() (any, error) {
			t.Errorf("duplicate call must not run its own factory")
			return nil, nil
		})
		results <- result{val: v, shared: shared}
	}()

	for g.waiters("k") == 0 {
		time.Sleep(time.Millisecond)
	}
	close(release)

	first := <-results
	second := <-results
	if first.val != second.val {
		t.Fatalf("expected both callers to observe the same pointer")
	}
	if !first.shared || !second.shared {
		t.Fatalf("expected both outcomes to be marked shared")
	}
}

func TestSingleFlight_ErrorIsNotReplayed(t *testing.T) {
	var g SingleFlight
	boom := errors.New("boom")

	_, err, _ := g.Do("k", func() (any, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	v, err, _ := g.Do("k", func() (any, error) { return "fresh", nil })
	if err != nil || v != "fresh" {
		t.Fatalf("expected fresh call after failure, got v=%v err=%v", v, err)
	}
}

func TestSingleFlight_PanicBecomesError(t *testing.T) {
	var g SingleFlight

	_, err, _ := g.Do("k", func() (any, error) { panic("bad payload") })
	if err == nil {
		t.Fatalf("expected panic to surface as error")
	}
	if g.Pending() != 0 {
		t.Fatalf("expected key to be released after panic")
	}
}

func (g *SingleFlight) waiters(key string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if c, ok := g.calls[key]; ok {
		return c.dups
	}
	return 0
}
