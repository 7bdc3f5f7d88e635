package analyzer

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPoolRunsAllJobs(t *testing.T) {
	pool := NewWorkerPool(4)
	pool.Start()
	defer pool.Close()

	var counter int64
	for i := 0; i < 50; i++ {
		pool.Submit(func() {
			atomic.AddInt64(&counter, 1)
		})
	}
	pool.Wait()

	if got := atomic.LoadInt64(&counter); got != 50 {
		t.Errorf("expected 50 jobs to run, got %d", got)
	}
}

func TestWorkerPoolDefaultsWorkerCount(t *testing.T) {
	pool := NewWorkerPool(0)
	if pool.workers <= 0 {
		t.Errorf("expected positive default worker count, got %d", pool.workers)
	}
}

func TestWorkerPoolBoundedConcurrency(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Start()
	defer pool.Close()

	var active, peak int64
	for i := 0; i < 20; i++ {
		pool.Submit(func() {
			current := atomic.AddInt64(&active, 1)
			for {
				old := atomic.LoadInt64(&peak)
				if current <= old || atomic.CompareAndSwapInt64(&peak, old, current) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt64(&active, -1)
		})
	}
	pool.Wait()

	if got := atomic.LoadInt64(&peak); got > 2 {
		t.Errorf("expected at most 2 concurrent jobs, saw %d", got)
	}
}

func TestWorkerPoolStartIsIdempotent(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Start()
	pool.Start()
	defer pool.Close()

	done := make(chan struct{})
	pool.Submit(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job never ran after double Start")
	}
	pool.Wait()
}
