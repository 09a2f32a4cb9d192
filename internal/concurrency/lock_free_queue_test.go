// File: internal/concurrency/lock_free_queue_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import (
	"testing"
	"time"
)

func TestLockFreeQueueEnqueueDequeue(t *testing.T) {
	q := NewLockFreeQueue[int](4)
	for i := 0; i < 4; i++ {
		if !q.Enqueue(i) {
			t.Fatalf("Enqueue(%d) failed on a non-full queue", i)
		}
	}
	if q.Enqueue(99) {
		t.Fatal("Enqueue should fail once the queue is full")
	}
	for i := 0; i < 4; i++ {
		v, ok := q.Dequeue()
		if !ok || v != i {
			t.Fatalf("Dequeue() = (%d, %v), want (%d, true)", v, ok, i)
		}
	}
}

func TestLockFreeQueueSPSCStream(t *testing.T) {
	q := NewLockFreeQueue[int](32)
	const total = 100000

	done := make(chan struct{})
	go func() {
		defer close(done)
		next := 0
		for next < total {
			v, ok := q.Dequeue()
			if !ok {
				continue
			}
			if v != next {
				t.Errorf("Dequeue() = %d, want %d", v, next)
				return
			}
			next++
		}
	}()

	for i := 0; i < total; i++ {
		for !q.Enqueue(i) {
		}
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("SPSC stream did not drain in time")
	}
}
