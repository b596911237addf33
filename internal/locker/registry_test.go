// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Tests for the workspace lock registry

package locker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestAcquireRelease(t *testing.T) {
	reg := NewRegistry()

	lease, err := reg.Acquire(context.Background(), "/ws/a")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if reg.Len() != 1 {
		t.Errorf("Expected 1 live entry, got %d", reg.Len())
	}

	lease.Release()
	if reg.Len() != 0 {
		t.Errorf("Expected registry to be empty after release, got %d", reg.Len())
	}

	// Release is idempotent.
	lease.Release()
	if reg.Len() != 0 {
		t.Errorf("Double release corrupted the registry: %d entries", reg.Len())
	}
}

func TestSameWorkspaceNeverOverlaps(t *testing.T) {
	reg := NewRegistry()

	var inCritical atomic.Int32
	var overlaps atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lease, err := reg.Acquire(context.Background(), "/ws/shared")
			if err != nil {
				t.Errorf("Acquire failed: %v", err)
				return
			}
			defer lease.Release()

			if inCritical.Add(1) > 1 {
				overlaps.Add(1)
			}
			time.Sleep(5 * time.Millisecond)
			inCritical.Add(-1)
		}()
	}
	wg.Wait()

	if overlaps.Load() != 0 {
		t.Errorf("Detected %d overlapping critical sections", overlaps.Load())
	}
	if reg.Len() != 0 {
		t.Errorf("Expected empty registry after all releases, got %d", reg.Len())
	}
}

func TestDifferentWorkspacesRunInParallel(t *testing.T) {
	reg := NewRegistry()

	a, err := reg.Acquire(context.Background(), "/ws/a")
	if err != nil {
		t.Fatalf("Acquire /ws/a failed: %v", err)
	}
	defer a.Release()

	done := make(chan struct{})
	go func() {
		b, err := reg.Acquire(context.Background(), "/ws/b")
		if err != nil {
			t.Errorf("Acquire /ws/b failed: %v", err)
		} else {
			b.Release()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("acquisition of an independent workspace blocked")
	}
}

func TestFIFOOrdering(t *testing.T) {
	reg := NewRegistry()

	first, err := reg.Acquire(context.Background(), "/ws/fifo")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	ready := make(chan struct{})

	for i := 1; i <= 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ready <- struct{}{}
			lease, err := reg.Acquire(context.Background(), "/ws/fifo")
			if err != nil {
				t.Errorf("Acquire failed: %v", err)
				return
			}
			mu.Lock()
			order = append(order, n)
			mu.Unlock()
			lease.Release()
		}(i)
		// Wait for the goroutine to be running, then give it time to
		// enqueue before starting the next waiter.
		<-ready
		time.Sleep(10 * time.Millisecond)
	}

	first.Release()
	wg.Wait()

	for i, n := range order {
		if n != i+1 {
			t.Fatalf("Waiters served out of order: %v", order)
		}
	}
}

func TestCancelledWaiterLeavesNoTrace(t *testing.T) {
	reg := NewRegistry()

	holder, err := reg.Acquire(context.Background(), "/ws/c")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := reg.Acquire(ctx, "/ws/c")
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	if err := <-errCh; err == nil {
		t.Fatal("cancelled Acquire should return an error")
	}

	holder.Release()
	if reg.Len() != 0 {
		t.Errorf("Expected empty registry, got %d entries", reg.Len())
	}

	// The workspace is acquirable again immediately.
	again, err := reg.Acquire(context.Background(), "/ws/c")
	if err != nil {
		t.Fatalf("Re-acquire failed: %v", err)
	}
	again.Release()
}

func TestAcquireTimeout(t *testing.T) {
	reg := NewRegistry()

	holder, err := reg.Acquire(context.Background(), "/ws/t")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer holder.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := reg.Acquire(ctx, "/ws/t"); err != context.DeadlineExceeded {
		t.Errorf("Expected DeadlineExceeded, got %v", err)
	}
}
