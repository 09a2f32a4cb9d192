// File: pool/numapool.go
// Author: momentics <momentics@gmail.com>
//
// NUMA-aware sharding layered above Pool[T]. Concrete byte allocators are
// selected at runtime through a platform-specific factory in separate files
// (numa_linux.go, numa_windows.go, numa_stub.go).

package pool

import (
	"github.com/momentics/objpool/internal/concurrency"
	"github.com/momentics/objpool/internal/normalize"
)

// NUMAAllocator allocates and frees raw []byte storage on a specific NUMA
// node. Implementations back the storage block of NUMA-local Pool[T]
// instances (see slabPool and BytePool) and report the node count the
// platform exposes.
type NUMAAllocator interface {
	Alloc(size int, node int) ([]byte, error)
	Free([]byte)
	Nodes() (int, error)
}

// ShardedPool routes Acquire/Release to a per-NUMA-node Pool[T], so that
// threads pinned to a node mostly touch memory local to that node. Each
// shard is an independent, fully compliant Pool[T]; sharding is a locality
// optimization layered above the core ring protocol, not a change to it.
// ShardedPool carries over the core's non-goals per shard: no resizing, no
// fairness guarantee across shards. An imbalanced workload can exhaust one
// shard while others still have free slots; Pool[T]'s own overflow path
// absorbs that case exactly as it would for a single pool.
type ShardedPool[T any] struct {
	shards []*Pool[T]
}

// NewShardedPool builds one capacity-sized Pool[T] per detected NUMA node
// (internal/concurrency.NUMANodes), each using newShard(node) to construct
// its allocator.
func NewShardedPool[T any](capacity uint32, newShard func(node int) Option[T]) *ShardedPool[T] {
	n := concurrency.NUMANodes()
	if n < 1 {
		n = 1
	}
	shards := make([]*Pool[T], n)
	for node := 0; node < n; node++ {
		opts := []Option[T]{}
		if newShard != nil {
			opts = append(opts, newShard(node))
		}
		shards[node] = NewPool[T](capacity, opts...)
	}
	return &ShardedPool[T]{shards: shards}
}

// shardFor picks the shard for the calling goroutine's current NUMA node,
// falling back to node 0 when the platform cannot report one.
func (s *ShardedPool[T]) shardFor() *Pool[T] {
	node := normalize.NUMANodeAuto(-1)
	if node < 0 || node >= len(s.shards) {
		node = 0
	}
	return s.shards[node]
}

// Acquire obtains a T from the shard local to the calling goroutine.
func (s *ShardedPool[T]) Acquire() *T { return s.shardFor().Acquire() }

// Release returns obj to the shard that owns its storage block, wherever
// that pointer was acquired from; a Pool[T]'s own address-range ownership
// test only recognizes its own storage, so Release must locate the right
// shard rather than assume the calling goroutine's local one, or a pooled
// pointer from a remote shard would be mistaken for an overflow allocation
// and freed through the wrong allocator. Overflow pointers (owned by no
// shard) are freed on the local shard's allocator.
func (s *ShardedPool[T]) Release(obj *T) {
	for _, shard := range s.shards {
		if shard.owns(obj) {
			shard.Release(obj)
			return
		}
	}
	s.shardFor().Release(obj)
}

// Shards returns the per-node pools, mainly for tests and metrics.
func (s *ShardedPool[T]) Shards() []*Pool[T] { return s.shards }
