//go:build linux && !cgo
// +build linux,!cgo

// File: pool/numapool_linux_pure.go
// Author: momentics <momentics@gmail.com>
//
// Pure-Go fallback NUMA allocator factory for Linux when CGO is disabled.
// The real CGO-based version (numapool_linux.go / numa_linux.go) uses
// libnuma, but those files are excluded from the build without CGO.

package pool

// linuxPureNUMAAllocator is a no-op allocator used on Linux builds without CGO.
type linuxPureNUMAAllocator struct{}

func (l *linuxPureNUMAAllocator) Alloc(size int, node int) ([]byte, error) {
	return nil, nil
}

func (l *linuxPureNUMAAllocator) Free([]byte) {}

func (l *linuxPureNUMAAllocator) Nodes() (int, error) {
	return 1, nil
}

// createNUMAAllocator returns the no-op allocator for Linux builds without CGO.
func createNUMAAllocator() NUMAAllocator {
	return &linuxPureNUMAAllocator{}
}
