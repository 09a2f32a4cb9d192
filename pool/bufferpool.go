// File: pool/bufferpool.go
// Author: momentics <momentics@gmail.com>
//
// Cross-platform NUMA-aware BufferPool manager with transparent backend
// selection. All public API is OS/NUMA-agnostic; platform-specific NUMA
// allocators live in numa_linux.go, numa_windows.go, numa_stub.go.

package pool

import (
	"sync"

	"github.com/momentics/objpool/api"
)

// sizeClasses is the power-of-two bucket table every requested size rounds
// up into, matching what object pools of this shape use elsewhere in this
// module family.
var sizeClasses = []int{64, 128, 256, 512, 1024, 2048, 4096, 8192, 16384, 32768, 65536}

func sizeClassUpperBound(size int) int {
	for _, c := range sizeClasses {
		if size <= c {
			return c
		}
	}
	return size
}

type classKey struct {
	node int
	size int
}

// BufferPoolManager routes Get(size, numaPreferred) to a lazily created
// slabPool for the (NUMA node, size class) pair, so that pools are both
// locality-aware and size-segregated.
type BufferPoolManager struct {
	mu      sync.RWMutex
	pools   map[classKey]*slabPool
	numa    NUMAAllocator
	nodeCnt int
}

// NewBufferPoolManager creates a manager aware of nodeCnt NUMA nodes (at
// least 1). The manager shares one platform NUMAAllocator across all size
// classes and nodes it creates pools for.
func NewBufferPoolManager(nodeCnt int) *BufferPoolManager {
	if nodeCnt < 1 {
		nodeCnt = 1
	}
	return &BufferPoolManager{
		pools:   make(map[classKey]*slabPool),
		numa:    createNUMAAllocator(),
		nodeCnt: nodeCnt,
	}
}

// GetPool obtains or creates the slabPool serving size-class(size) on
// numaPreferred. numaPreferred outside [0, nodeCnt) is clamped to node 0.
func (m *BufferPoolManager) GetPool(size int, numaPreferred int) api.BufferPool {
	cls := sizeClassUpperBound(size)
	node := numaPreferred
	if node < 0 || node >= m.nodeCnt {
		node = 0
	}
	key := classKey{node: node, size: cls}

	m.mu.RLock()
	p, ok := m.pools[key]
	m.mu.RUnlock()
	if ok {
		return p
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.pools[key]; ok {
		return p
	}
	p = newSlabPool(cls, node, m.numa, 0)
	m.pools[key] = p
	return p
}
