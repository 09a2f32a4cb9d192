// File: pool/bytepool.go
// Author: momentics <momentics@gmail.com>
//
// BytePool implements api.BytePool on top of a fixed-slot Pool[byteSlot],
// so raw []byte buffers get the same lock-free MPMC reuse as any other
// pooled object, with NUMA-local backing when the platform supports it.

package pool

import (
	"sync"
	"unsafe"
)

// byteSlot is the T pooled by BytePool: a fixed-size backing array plus
// the NUMA node it was carved on.
type byteSlot struct {
	buf  []byte
	node int
}

type byteSlotAllocator struct {
	size int
	node int
	numa NUMAAllocator
}

func (a *byteSlotAllocator) NewBulk(n uint32) []byteSlot {
	slots := make([]byteSlot, n)
	block, err := a.numa.Alloc(a.size*int(n), a.node)
	if err != nil || block == nil {
		block = make([]byte, a.size*int(n))
	}
	for i := range slots {
		slots[i] = byteSlot{buf: block[i*a.size : (i+1)*a.size : (i+1)*a.size], node: a.node}
	}
	return slots
}

func (a *byteSlotAllocator) New() *byteSlot {
	return &byteSlot{buf: make([]byte, a.size), node: a.node}
}

func (a *byteSlotAllocator) Free(*byteSlot) {}

// BytePool hands out []byte buffers of a fixed width, backed by a
// lock-free Pool[byteSlot]. Release recovers the owning *byteSlot from the
// slice's backing address via a small tracking table, since the public
// api.BytePool contract hands back a raw []byte rather than a typed
// pointer.
type BytePool struct {
	size int
	ring *Pool[byteSlot]

	mu      sync.Mutex
	inFlight map[uintptr]*byteSlot
}

// NewBytePool creates a BytePool of the given slot size and capacity,
// preferring NUMA-local storage on node when the platform supports it.
func NewBytePool(size int, node int, capacity uint32) *BytePool {
	if capacity == 0 {
		capacity = defaultPoolCapacity
	}
	alloc := &byteSlotAllocator{size: size, node: node, numa: createNUMAAllocator()}
	return &BytePool{
		size:     size,
		ring:     NewPool[byteSlot](capacity, WithAllocator[byteSlot](alloc)),
		inFlight: make(map[uintptr]*byteSlot),
	}
}

// Acquire returns a slice of at least n bytes. n greater than the pool's
// slot size is served directly from the heap and is not tracked for reuse.
func (b *BytePool) Acquire(n int) []byte {
	if n > b.size {
		return make([]byte, n)
	}
	slot := b.ring.Acquire()
	addr := uintptr(unsafe.Pointer(&slot.buf[0]))

	b.mu.Lock()
	b.inFlight[addr] = slot
	b.mu.Unlock()

	return slot.buf[:n]
}

// Release returns buf to the pool if it was obtained from Acquire and not
// yet released; otherwise it is a no-op and buf is left for the GC. Acquire
// always hands back a slice starting at the slot's backing array's first
// byte, so the tracking lookup is a single map hit, not a range scan.
func (b *BytePool) Release(buf []byte) {
	if cap(buf) == 0 {
		return
	}
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))

	b.mu.Lock()
	slot, ok := b.inFlight[addr]
	if ok {
		delete(b.inFlight, addr)
	}
	b.mu.Unlock()

	if ok {
		b.ring.Release(slot)
	}
}
