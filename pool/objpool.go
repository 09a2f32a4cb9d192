// File: pool/objpool.go
// Package pool implements a lock-free, multi-producer multi-consumer,
// fixed-capacity object pool.
// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT
//
// The pool hands out pointers to pre-constructed T values at O(1) amortized
// cost and falls back to the heap once its ring of free slots is empty. The
// free list is a bounded ring buffer of pointers coordinated by a producer
// reservation cursor and a consumer cursor, each isolated on its own cache
// line, plus a per-slot publication word. See Acquire/Release for the
// protocol; reserve/publish/consume implement it.

package pool

import (
	"fmt"
	"math"
	"sync/atomic"
	"unsafe"
)

// cacheLinePad is sized to the platform's destructive interference size
// (64 bytes is the safe default across the architectures this pool targets).
type cacheLinePad [64]byte

const sentinelIndex = math.MaxUint64

// Allocator supplies the two collaborators the pool consumes from its
// environment: a bulk allocator for the initial storage block, and an
// allocate/free pair for the overflow path taken once the ring is empty.
// The zero value of Pool[T] is unusable; NewPool always installs a default
// Allocator unless one is supplied via WithAllocator.
type Allocator[T any] interface {
	// NewBulk returns a contiguous, default-constructed [n]T block.
	NewBulk(n uint32) []T
	// New allocates and default-constructs a single overflow T.
	New() *T
	// Free releases an overflow T obtained from New.
	Free(*T)
}

// defaultAllocator backs storage with make([]T, n) and overflow with plain
// new(T); Free is a no-op, since ordinary Go values are reclaimed by the GC
// once the last reference (the caller's own pointer) is dropped.
type defaultAllocator[T any] struct{}

func (defaultAllocator[T]) NewBulk(n uint32) []T { return make([]T, n) }
func (defaultAllocator[T]) New() *T              { return new(T) }
func (defaultAllocator[T]) Free(*T)              {}

// Option configures a Pool at construction time.
type Option[T any] func(*poolConfig[T])

type poolConfig[T any] struct {
	alloc Allocator[T]
}

// WithAllocator overrides the default storage/overflow allocator, e.g. to
// back a pool's slots with NUMA-local or slab-carved memory.
func WithAllocator[T any](a Allocator[T]) Option[T] {
	return func(c *poolConfig[T]) { c.alloc = a }
}

// controlSlot is a single ring-buffer control entry: dataIndex doubles as a
// publication marker and a generation counter (see consume), size is the
// width of the publication it describes (always 1 for this pool's public
// API; >1 only for wrap-skip bookkeeping records).
type controlSlot struct {
	dataIndex atomic.Uint64
	size      uint32
}

// producerState is the producer's reservation cursor: the next absolute
// index to reserve, and the width of the most recent reservation. Go has no
// native 128-bit CAS, so the pair is packed behind an atomic.Pointer and
// swapped by pointer identity — the idiomatic substitute this codebase uses
// elsewhere for atomic multi-field updates (see the slab allocator's NUMA
// stats pointer).
type producerState struct {
	index uint64
	size  uint32
}

// Pool is a lock-free MPMC fixed-capacity object pool for T.
type Pool[T any] struct {
	_        cacheLinePad
	producer atomic.Pointer[producerState]
	_        cacheLinePad
	consumer atomic.Uint64
	_        cacheLinePad

	capacity uint32
	mask     uint64

	storage []T
	free    []unsafe.Pointer // free[i] holds *T for slot i, valid once control[i] is published
	control []controlSlot

	lo, hi uintptr // inclusive address bounds of storage, for ownership tests

	alloc Allocator[T]
}

// ErrReservationTooLarge is returned by the internal reservation protocol
// when asked to reserve more slots than the pool's capacity. The public API
// never triggers this (every reservation is width 1); the check exists to
// defend hypothetical batched extensions.
type ErrReservationTooLarge struct {
	Requested uint32
	Capacity  uint32
}

func (e *ErrReservationTooLarge) Error() string {
	return fmt.Sprintf("pool: requested reservation %d exceeds capacity %d", e.Requested, e.Capacity)
}

// NewPool constructs a pool of the given capacity, which must be a positive
// power of two. Violating this precondition is a programming error and is
// reported as a fatal fault (panic), per the pool's construction contract.
func NewPool[T any](capacity uint32, opts ...Option[T]) *Pool[T] {
	if capacity == 0 || capacity&(capacity-1) != 0 {
		panic(fmt.Sprintf("pool: capacity must be a positive power of two, got %d", capacity))
	}

	cfg := poolConfig[T]{alloc: defaultAllocator[T]{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Pool[T]{
		capacity: capacity,
		mask:     uint64(capacity) - 1,
		control:  make([]controlSlot, capacity),
		free:     make([]unsafe.Pointer, capacity),
		alloc:    cfg.alloc,
	}
	p.initStorage()
	return p
}

func (p *Pool[T]) initStorage() {
	p.storage = p.alloc.NewBulk(p.capacity)
	if uint32(len(p.storage)) != p.capacity {
		panic(fmt.Sprintf("pool: allocator returned %d elements, want %d", len(p.storage), p.capacity))
	}
	for i := range p.control {
		p.control[i].dataIndex.Store(sentinelIndex)
	}
	p.producer.Store(&producerState{})
	p.consumer.Store(0)

	for i := uint32(0); i < p.capacity; i++ {
		idx, err := p.reserve(1)
		if err != nil {
			panic(err)
		}
		atomic.StorePointer(&p.free[idx&p.mask], unsafe.Pointer(&p.storage[i]))
		p.publish(idx, 1)
	}

	p.lo = uintptr(unsafe.Pointer(&p.storage[0]))
	p.hi = uintptr(unsafe.Pointer(&p.storage[p.capacity-1]))
}

// Size returns the pool's fixed capacity.
func (p *Pool[T]) Size() uint32 { return p.capacity }

// Acquire returns a pointer to a T the caller may mutate freely until it
// passes the same pointer to Release. If the ring is empty, a fresh T is
// allocated via the overflow path and returned instead.
func (p *Pool[T]) Acquire() *T {
	ptr, width := p.consume()
	if ptr == nil {
		return p.alloc.New()
	}
	if width != 1 {
		panic("pool: consumer protocol returned a non-unit-width publication for a width-1 pool")
	}
	return (*T)(ptr)
}

// owns reports whether obj's address falls inside this pool's storage
// block, i.e. whether Release would return it to the ring rather than the
// overflow path.
func (p *Pool[T]) owns(obj *T) bool {
	addr := uintptr(unsafe.Pointer(obj))
	return addr >= p.lo && addr <= p.hi
}

// Release returns obj to the pool if it is pool-owned, or destroys it via
// the overflow path otherwise. obj must be non-nil and must have been
// returned by a prior Acquire on this pool and not yet released; violating
// this is undefined behavior, per the pool's release contract.
func (p *Pool[T]) Release(obj *T) {
	if p.owns(obj) {
		idx, err := p.reserve(1)
		if err != nil {
			panic(err)
		}
		atomic.StorePointer(&p.free[idx&p.mask], unsafe.Pointer(obj))
		p.publish(idx, 1)
		return
	}
	p.alloc.Free(obj)
}

// Reset rewinds the pool to its just-constructed state: every pooled T is
// made available again and all outstanding acquisitions are invalidated.
// Not thread-safe; callers must guarantee quiescence (no concurrent Acquire
// or Release) before calling.
func (p *Pool[T]) Reset() {
	for i := range p.control {
		p.control[i] = controlSlot{}
		p.control[i].dataIndex.Store(sentinelIndex)
	}
	p.producer.Store(&producerState{})

	for i := uint32(0); i < p.capacity; i++ {
		idx, err := p.reserve(1)
		if err != nil {
			panic(err)
		}
		atomic.StorePointer(&p.free[idx&p.mask], unsafe.Pointer(&p.storage[i]))
		p.publish(idx, 1)
	}
	p.consumer.Store(0)
}

// reserve atomically claims n consecutive absolute indices, skipping past
// the ring's end-of-buffer without straddling it. On success it returns the
// first index of the caller's reservation; if the reservation would have
// straddled the end, the pre-skip slot is immediately stamped with a
// wrap-skip record so consumers parked there can fast-forward.
func (p *Pool[T]) reserve(n uint32) (uint64, error) {
	if n > p.capacity {
		return 0, &ErrReservationTooLarge{Requested: n, Capacity: p.capacity}
	}

	for {
		cur := p.producer.Load()
		idx := cur.index & p.mask

		var next producerState
		var wrapped bool
		var skipAt uint64
		var returned uint64

		if idx+uint64(n) > uint64(p.capacity) {
			skipped := uint64(p.capacity) - idx
			skipAt = cur.index
			advanced := cur.index + skipped
			returned = advanced
			next = producerState{index: advanced + uint64(n), size: n}
			wrapped = true
		} else {
			returned = cur.index
			next = producerState{index: cur.index + uint64(n), size: n}
		}

		if p.producer.CompareAndSwap(cur, &next) {
			if wrapped {
				slot := &p.control[skipAt&p.mask]
				slot.size = n
				slot.dataIndex.Store(returned)
			}
			return returned, nil
		}
	}
}

// publish makes the payload written to free[i&mask] visible to consumers by
// release-storing the slot's data index.
func (p *Pool[T]) publish(index uint64, n uint32) {
	slot := &p.control[index&p.mask]
	slot.size = n
	slot.dataIndex.Store(index)
}

// consume implements the consumption protocol: reset detection, empty
// detection, wrap-skip fast-forward, and the CAS that claims a slot.
func (p *Pool[T]) consume() (unsafe.Pointer, uint32) {
	for {
		current := p.consumer.Load()
		i := current & p.mask
		slot := &p.control[i]
		stored := slot.dataIndex.Load()

		if stored != sentinelIndex && p.producer.Load().index < stored {
			// The ring was reset underneath this consumer; recover.
			p.consumer.Store(0)
			continue
		}

		if stored == sentinelIndex || stored < current {
			return nil, 0
		}

		if stored > current && (stored&p.mask) != i {
			p.consumer.CompareAndSwap(current, stored)
			continue
		}

		next := stored + uint64(slot.size)
		if p.consumer.CompareAndSwap(current, next) {
			return atomic.LoadPointer(&p.free[current&p.mask]), slot.size
		}
	}
}
