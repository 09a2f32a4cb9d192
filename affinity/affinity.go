// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity. Platform-specific implementations are located
// in separate files (affinity_linux.go, affinity_windows.go, etc.) guarded by build tags.

package affinity

import (
	"github.com/momentics/objpool/api"
	"github.com/momentics/objpool/internal/concurrency"
)

// SetAffinity pins current OS thread to a given logical CPU/core on supported platforms.
// On unsupported platforms returns an error.
func SetAffinity(cpuID int) error {
	return setAffinityPlatform(cpuID)
}

// threadAffinity implements api.Affinity over the package-level SetAffinity
// and the internal/concurrency NUMA topology helpers. Benchmarks use one per
// worker goroutine to pin it to a distinct core.
type threadAffinity struct {
	cpuID  int
	numaID int
	pinned bool
}

// New returns an api.Affinity handle for the current OS thread.
func New() api.Affinity {
	return &threadAffinity{cpuID: -1, numaID: -1}
}

func (t *threadAffinity) Pin(cpuID int, numaID int) error {
	if err := setAffinityPlatform(cpuID); err != nil {
		return err
	}
	concurrency.PinCurrentThread(numaID, cpuID)
	t.cpuID, t.numaID = cpuID, numaID
	t.pinned = true
	return nil
}

func (t *threadAffinity) Unpin() error {
	if !t.pinned {
		return nil
	}
	concurrency.UnpinCurrentThread()
	t.cpuID, t.numaID, t.pinned = -1, -1, false
	return nil
}

func (t *threadAffinity) Get() (cpuID int, numaID int, err error) {
	if !t.pinned {
		return -1, concurrency.CurrentNUMANodeID(), nil
	}
	return t.cpuID, t.numaID, nil
}

var _ api.Affinity = (*threadAffinity)(nil)
