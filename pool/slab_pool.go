// File: pool/slab_pool.go
// Package pool implements lock-free slab allocation with size class support.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"sync"
	"sync/atomic"

	"github.com/momentics/objpool/api"
)

// slabBuffer is the api.Buffer implementation pooled by a slabPool. Each
// slot's backing array is carved once, at construction, by the slabPool's
// NUMAAllocator; Acquire/Release only ever touch the length/offset view.
// slabBuffer keeps no reference count: Slice returns a separate, unpooled
// slabBuffer, and releasing that view does not return the parent's slot
// to the ring.
type slabBuffer struct {
	data []byte
	off  int
	node int
	pool *slabPool
}

func (b *slabBuffer) Bytes() []byte { return b.data[b.off:] }

func (b *slabBuffer) Slice(from, to int) api.Buffer {
	return &slabBuffer{data: b.data[b.off+from : b.off+to], pool: b.pool, node: b.node}
}

func (b *slabBuffer) Copy() []byte {
	out := make([]byte, len(b.data)-b.off)
	copy(out, b.data[b.off:])
	return out
}

func (b *slabBuffer) NUMANode() int { return b.node }

func (b *slabBuffer) Release() {
	b.off = 0
	if b.pool != nil {
		b.pool.Put(b)
	}
}

// slabAllocator is the Allocator[slabBuffer] that backs a slabPool's
// Pool[slabBuffer]: bulk storage is one contiguous NUMA-local []byte sliced
// into size-class chunks, and overflow allocates a fresh heap buffer.
type slabAllocator struct {
	size  int
	node  int
	numa  NUMAAllocator
	owner *slabPool
}

func (a *slabAllocator) NewBulk(n uint32) []slabBuffer {
	bufs := make([]slabBuffer, n)
	block, err := a.numa.Alloc(a.size*int(n), a.node)
	if err != nil || block == nil {
		block = make([]byte, a.size*int(n))
	}
	for i := range bufs {
		bufs[i] = slabBuffer{
			data: block[i*a.size : (i+1)*a.size],
			node: a.node,
			pool: a.owner,
		}
	}
	return bufs
}

func (a *slabAllocator) New() *slabBuffer {
	return &slabBuffer{data: make([]byte, a.size), node: a.node, pool: a.owner}
}

func (a *slabAllocator) Free(b *slabBuffer) {}

// slabPool is a fixed-capacity, size-classed buffer pool for one (NUMA
// node, size class) pair, built directly on Pool[slabBuffer].
type slabPool struct {
	size int
	node int
	ring *Pool[slabBuffer]

	totalAlloc atomic.Uint64
	totalFree  atomic.Uint64
	numaStats  atomic.Pointer[numaMap]
}

const defaultPoolCapacity = 4096

// numaMap: allocation counters by NUMA node.
type numaMap struct {
	mu     sync.Mutex
	counts map[int]uint64
}

func newNumamap() *numaMap { return &numaMap{counts: make(map[int]uint64)} }
func (m *numaMap) record(n int) {
	m.mu.Lock()
	m.counts[n]++
	m.mu.Unlock()
}
func (m *numaMap) Get() map[int]uint64 {
	m.mu.Lock()
	out := make(map[int]uint64, len(m.counts))
	for k, v := range m.counts {
		out[k] = v
	}
	m.mu.Unlock()
	return out
}

// newSlabPool builds a slabPool of the given size class, NUMA node and
// capacity (defaultPoolCapacity if zero). Any other capacity is passed to
// NewPool unchanged, so it must be a power of two.
func newSlabPool(size, node int, numa NUMAAllocator, capacity uint32) *slabPool {
	if capacity == 0 {
		capacity = defaultPoolCapacity
	}
	sp := &slabPool{size: size, node: node}
	alloc := &slabAllocator{size: size, node: node, numa: numa, owner: sp}
	sp.ring = NewPool[slabBuffer](capacity, WithAllocator[slabBuffer](alloc))
	return sp
}

func (sp *slabPool) recordAlloc() {
	sp.totalAlloc.Add(1)
	mPtr := sp.numaStats.Load()
	if mPtr == nil {
		newMap := newNumamap()
		if sp.numaStats.CompareAndSwap(nil, newMap) {
			mPtr = newMap
		} else {
			mPtr = sp.numaStats.Load()
		}
	}
	mPtr.record(sp.node)
}

func (sp *slabPool) Get(_ int, _ int) api.Buffer {
	buf := sp.ring.Acquire()
	sp.recordAlloc()
	return buf
}

func (sp *slabPool) Put(buf api.Buffer) {
	sb, ok := buf.(*slabBuffer)
	if !ok {
		return
	}
	sp.ring.Release(sb)
	sp.totalFree.Add(1)
}

func (sp *slabPool) Stats() api.BufferPoolStats {
	totalAlloc := int64(sp.totalAlloc.Load())
	totalFree := int64(sp.totalFree.Load())
	inUse := totalAlloc - totalFree

	nm := sp.numaStats.Load()
	numaStats := make(map[int]int64)
	if nm != nil {
		raw := nm.Get()
		for node, cnt := range raw {
			numaStats[node] = int64(cnt)
		}
	}
	return api.BufferPoolStats{
		TotalAlloc: totalAlloc,
		TotalFree:  totalFree,
		InUse:      inUse,
		NUMAStats:  numaStats,
	}
}

var _ api.BufferPool = (*slabPool)(nil)
var _ api.Buffer = (*slabBuffer)(nil)
