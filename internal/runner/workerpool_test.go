package runner

import (
	"context"
	"sort"
	"testing"
)

func TestWorkerPool(t *testing.T) {
	ctx := context.Background()
	pool := NewWorkerPool[int, int](3, 10)
	if pool.Workers() != 3 {
		t.Errorf("Workers() = %d, want 3", pool.Workers())
	}
	pool.Start(ctx, func(_ context.Context, n int) int { return n * n })
	for i := 1; i <= 10; i++ {
		if !pool.Submit(ctx, i) {
			t.Fatalf("Submit(%d) refused", i)
		}
	}
	pool.Close()

	var got []int
	for r := range pool.Results() {
		got = append(got, r)
	}
	sort.Ints(got)
	if len(got) != 10 || got[0] != 1 || got[9] != 100 {
		t.Errorf("results = %v", got)
	}
}

func TestWorkerPoolSizing(t *testing.T) {
	if p := NewWorkerPool[int, int](8, 2); p.Workers() != 2 {
		t.Errorf("Workers() = %d, want 2 (capped by jobs)", p.Workers())
	}
	if p := NewWorkerPool[int, int](0, 0); p.Workers() < 1 {
		t.Errorf("Workers() = %d, want at least 1", p.Workers())
	}
}

func TestWorkerPoolSubmitAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewWorkerPool[int, int](1, 1)
	pool.Start(ctx, func(_ context.Context, n int) int { return n })
	cancel()
	if pool.Submit(ctx, 1) {
		t.Error("Submit() accepted a job after cancellation")
	}
	pool.Close()
	for range pool.Results() {
		t.Error("unexpected result")
	}
}
