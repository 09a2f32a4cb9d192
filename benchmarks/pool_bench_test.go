// Package benchmarks
// Author: momentics <momentics@gmail.com>
//
// Performance benchmarks for the lock-free object pool and the buffer/byte
// pools built on top of it.

package benchmarks

import (
	"sync/atomic"
	"testing"

	"github.com/momentics/objpool/affinity"
	"github.com/momentics/objpool/internal/concurrency"
	"github.com/momentics/objpool/pool"
)

type widget struct {
	id int
}

// BenchmarkPoolAcquireRelease measures the hot path under contention.
func BenchmarkPoolAcquireRelease(b *testing.B) {
	p := pool.NewPool[widget](4096)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			obj := p.Acquire()
			obj.id++
			p.Release(obj)
		}
	})
}

// BenchmarkPoolAcquireReleasePinned pins each worker goroutine to a
// distinct CPU so producer/consumer contention is measured rather than
// scheduler noise.
func BenchmarkPoolAcquireReleasePinned(b *testing.B) {
	p := pool.NewPool[widget](4096)
	numCPU := concurrency.NumCPUs()

	b.ResetTimer()
	var nextCPU atomic.Int64
	b.RunParallel(func(pb *testing.PB) {
		id := int(nextCPU.Add(1) - 1)
		aff := affinity.New()
		_ = aff.Pin(id%numCPU, concurrency.CurrentNUMANodeID())
		defer aff.Unpin()

		for pb.Next() {
			obj := p.Acquire()
			obj.id++
			p.Release(obj)
		}
	})
}

// BenchmarkBufferPoolGetRelease benchmarks the size-classed buffer pool.
func BenchmarkBufferPoolGetRelease(b *testing.B) {
	manager := pool.NewBufferPoolManager(concurrency.NUMANodes())
	bufferPool := manager.GetPool(4096, 0)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			buffer := bufferPool.Get(4096, 0)
			buffer.Release()
		}
	})
}

// BenchmarkBytePoolAcquireRelease benchmarks the flat []byte pool.
func BenchmarkBytePoolAcquireRelease(b *testing.B) {
	bp := pool.NewBytePool(1024, 0, 4096)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			buf := bp.Acquire(512)
			bp.Release(buf)
		}
	})
}

// BenchmarkShardedPoolAcquireRelease benchmarks the NUMA-sharded variant.
func BenchmarkShardedPoolAcquireRelease(b *testing.B) {
	sp := pool.NewShardedPool[widget](1024, nil)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			obj := sp.Acquire()
			obj.id++
			sp.Release(obj)
		}
	})
}
