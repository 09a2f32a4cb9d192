// Package pool
// Author: momentics <momentics@gmail.com>
//
// Implements a lock-free, multi-producer multi-consumer, fixed-capacity
// object pool (Pool[T], objpool.go) plus the NUMA-aware sharding and
// size-classed buffer pooling built on top of it (numapool.go,
// bufferpool.go, slab_pool.go, bytepool.go, batch.go). All primitives are
// cross-platform (Linux/Windows) and designed for ultra-low-latency,
// high-throughput workloads.
package pool
