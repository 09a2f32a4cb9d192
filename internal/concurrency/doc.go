// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// High-performance concurrency primitives with NUMA-aware, lock-free, and
// cross-platform support. Includes CPU/NUMA pinning and topology queries
// used to route sharded pools and pin benchmark workers to distinct cores.
//
// All implementations are cross-platform compatible (Linux/Windows).
package concurrency
