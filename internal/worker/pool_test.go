package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewPoolDefaultConcurrency(t *testing.T) {
	p := NewPool[string, string](0)
	if p.concurrency != runtime.NumCPU() {
		t.Errorf("expected concurrency %d, got %d", runtime.NumCPU(), p.concurrency)
	}

	p2 := NewPool[string, string](-1)
	if p2.concurrency != runtime.NumCPU() {
		t.Errorf("expected concurrency %d for -1, got %d", runtime.NumCPU(), p2.concurrency)
	}
}

func TestProcessEmpty(t *testing.T) {
	p := NewPool[string, string](2)
	results := p.Process(context.Background(), nil, func(_ context.Context, s string) (string, error) {
		return s, nil
	})
	if results != nil {
		t.Errorf("expected nil results for empty input, got %v", results)
	}
}

func TestProcessPreservesOrder(t *testing.T) {
	p := NewPool[string, string](4)
	items := []string{"001-a", "002-b", "003-c", "004-d", "005-e", "006-f"}

	results := p.Process(context.Background(), items, func(_ context.Context, s string) (string, error) {
		return "loaded-" + s, nil
	})

	if len(results) != len(items) {
		t.Fatalf("expected %d results, got %d", len(items), len(results))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Errorf("result[%d] unexpected error: %v", i, r.Err)
		}
		if want := "loaded-" + items[i]; r.Value != want {
			t.Errorf("result[%d] = %q, expected %q", i, r.Value, want)
		}
		if r.Index != i {
			t.Errorf("result[%d].Index = %d, expected %d", i, r.Index, i)
		}
	}
}

func TestProcessCapturesErrors(t *testing.T) {
	p := NewPool[int, int](2)
	items := []int{1, -1, 2, -2}

	results := p.Process(context.Background(), items, func(_ context.Context, n int) (int, error) {
		if n < 0 {
			return 0, fmt.Errorf("negative %d", n)
		}
		return n * 10, nil
	})

	if results[0].Value != 10 || results[2].Value != 20 {
		t.Errorf("successes = %d, %d", results[0].Value, results[2].Value)
	}
	errs := Errors(results)
	if len(errs) != 2 {
		t.Fatalf("Errors() = %v, want 2", errs)
	}
	if errs[0].Error() != "negative -1" {
		t.Errorf("first error = %q", errs[0])
	}
}

func TestProcessConcurrency(t *testing.T) {
	p := NewPool[int, int](4)

	var maxConcurrent int64
	var current int64
	items := make([]int, 20)

	p.Process(context.Background(), items, func(_ context.Context, _ int) (int, error) {
		c := atomic.AddInt64(&current, 1)
		for {
			old := atomic.LoadInt64(&maxConcurrent)
			if c <= old || atomic.CompareAndSwapInt64(&maxConcurrent, old, c) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt64(&current, -1)
		return 1, nil
	})

	if peak := atomic.LoadInt64(&maxConcurrent); peak < 2 {
		t.Errorf("expected concurrent execution (peak=%d), got sequential", peak)
	}
}

func TestProcessCancelledContext(t *testing.T) {
	p := NewPool[int, int](2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int64
	results := p.Process(ctx, []int{1, 2, 3}, func(_ context.Context, n int) (int, error) {
		atomic.AddInt64(&calls, 1)
		return n, nil
	})

	if calls != 0 {
		t.Errorf("fn called %d times after cancellation", calls)
	}
	for i, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("result[%d].Err = %v, want context.Canceled", i, r.Err)
		}
	}
}

func TestProcessMoreWorkersThanItems(t *testing.T) {
	p := NewPool[string, string](100)
	results := p.Process(context.Background(), []string{"a", "b"}, func(_ context.Context, s string) (string, error) {
		return s + "!", nil
	})

	if len(results) != 2 || results[0].Value != "a!" || results[1].Value != "b!" {
		t.Errorf("unexpected results: %+v", results)
	}
}

func BenchmarkPoolProcess(b *testing.B) {
	items := make([]string, 100)
	for i := range items {
		items[i] = fmt.Sprintf("item-%d", i)
	}
	b.ResetTimer()
	for range b.N {
		p := NewPool[string, string](4)
		_ = p.Process(context.Background(), items, func(_ context.Context, s string) (string, error) {
			return s + "-done", nil
		})
	}
}
