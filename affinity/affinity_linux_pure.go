//go:build linux && !cgo
// +build linux,!cgo

// File: affinity/affinity_linux_pure.go
// Author: momentics <momentics@gmail.com>
//
// Pure-Go fallback for Linux when CGO is disabled. The real CGO-based
// version (affinity_linux.go) uses pthread_setaffinity_np, but that file
// is excluded from the build without CGO, so this stub keeps the package
// compiling on pure-Go builds.

package affinity

import "errors"

// setAffinityPlatform is a stub for Linux builds without CGO.
func setAffinityPlatform(cpuID int) error {
	return errors.New("affinity: not supported without cgo")
}
