// File: internal/concurrency/ring_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import (
	"testing"
	"time"
)

func TestRingBufferEnqueueDequeue(t *testing.T) {
	r := NewRingBuffer[int](8)
	if r.Cap() != 8 {
		t.Fatalf("Cap() = %d, want 8", r.Cap())
	}
	for i := 0; i < 8; i++ {
		if !r.Enqueue(i) {
			t.Fatalf("Enqueue(%d) failed on a non-full ring", i)
		}
	}
	if r.Enqueue(99) {
		t.Fatal("Enqueue should fail once the ring is full")
	}
	for i := 0; i < 8; i++ {
		v, ok := r.Dequeue()
		if !ok || v != i {
			t.Fatalf("Dequeue() = (%d, %v), want (%d, true)", v, ok, i)
		}
	}
	if _, ok := r.Dequeue(); ok {
		t.Fatal("Dequeue should fail once the ring is empty")
	}
}

func TestRingBufferSPSCStream(t *testing.T) {
	r := NewRingBuffer[int](64)
	const total = 100000

	done := make(chan struct{})
	go func() {
		defer close(done)
		next := 0
		for next < total {
			v, ok := r.Dequeue()
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
		for !r.Enqueue(i) {
		}
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("SPSC stream did not drain in time")
	}
}
