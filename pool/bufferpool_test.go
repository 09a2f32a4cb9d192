// File: pool/bufferpool_test.go
// Author: momentics <momentics@gmail.com>

package pool

import "testing"

func TestSizeClassUpperBound(t *testing.T) {
	cases := map[int]int{
		1:     64,
		64:    64,
		65:    128,
		4096:  4096,
		4097:  8192,
		70000: 70000,
	}
	for size, want := range cases {
		if got := sizeClassUpperBound(size); got != want {
			t.Errorf("sizeClassUpperBound(%d) = %d, want %d", size, got, want)
		}
	}
}

func TestBufferPoolManagerGetPool(t *testing.T) {
	m := NewBufferPoolManager(2)

	a := m.GetPool(128, 0)
	b := m.GetPool(100, 0)
	if a != b {
		t.Fatal("requests in the same size class and node should share a pool")
	}

	c := m.GetPool(128, 1)
	if a == c {
		t.Fatal("requests on different NUMA nodes should not share a pool")
	}

	d := m.GetPool(4096, 0)
	if a == d {
		t.Fatal("requests in different size classes should not share a pool")
	}
}

func TestBufferPoolAcquireReleaseRoundTrip(t *testing.T) {
	m := NewBufferPoolManager(1)
	bp := m.GetPool(256, 0)

	buf := bp.Get(256, 0)
	copy(buf.Bytes(), []byte("hello"))
	got := string(buf.Copy()[:5])
	if got != "hello" {
		t.Fatalf("Copy() = %q, want %q", got, "hello")
	}
	buf.Release()

	stats := bp.Stats()
	if stats.TotalAlloc != 1 {
		t.Fatalf("TotalAlloc = %d, want 1", stats.TotalAlloc)
	}
	if stats.TotalFree != 1 {
		t.Fatalf("TotalFree = %d, want 1", stats.TotalFree)
	}
}

func TestBytePoolAcquireReleaseRoundTrip(t *testing.T) {
	bp := NewBytePool(128, 0, 16)

	buf := bp.Acquire(64)
	if len(buf) != 64 {
		t.Fatalf("len(buf) = %d, want 64", len(buf))
	}
	bp.Release(buf)

	again := bp.Acquire(64)
	if len(again) != 64 {
		t.Fatalf("len(again) = %d, want 64", len(again))
	}
	bp.Release(again)
}

func TestBytePoolOversizedBypassesPool(t *testing.T) {
	bp := NewBytePool(64, 0, 4)
	buf := bp.Acquire(1024)
	if len(buf) != 1024 {
		t.Fatalf("len(buf) = %d, want 1024", len(buf))
	}
	bp.Release(buf)
}
