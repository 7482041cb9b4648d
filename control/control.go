// control.go: Global control flags and activity management for pinned consumers
// ============================================================================
// SYSTEM CONTROL ORCHESTRATION
// ============================================================================
//
// Control package provides lightweight global signaling for coordinating the
// producer's activity state and graceful shutdown with pinned pipe consumers.
//
// Threading model:
//   • The producer signals activity via SignalActivity()
//   • Consumer threads poll flags via Flags() for coordination
//   • PollCooldown() clears the hot flag after an idle period
//   • Shutdown() raises the stop flag; subsystems register on ShutdownWG
//
// All flag accesses are atomic; the returned pointers are meant for
// atomic.LoadUint32 only.

package control

import (
	"sync"
	"sync/atomic"
	"time"
)

// ============================================================================
// GLOBAL STATE MANAGEMENT
// ============================================================================

var (
	hot  uint32 // 1 = producer active, 0 = idle
	stop uint32 // 1 = shutdown requested

	lastHot    atomic.Int64                   // UnixNano of last activity
	cooldownNs = int64(100 * time.Millisecond) // idle period before hot clears

	// ShutdownWG tracks subsystems that must finish before the process exits.
	ShutdownWG sync.WaitGroup
)

// ============================================================================
// ACTIVITY SIGNALING
// ============================================================================

// SignalActivity marks the producer as active and records the time for
// cooldown management.
func SignalActivity() {
	lastHot.Store(time.Now().UnixNano())
	atomic.StoreUint32(&hot, 1)
}

// PollCooldown clears the hot flag once no activity has been signaled for the
// cooldown period.
func PollCooldown() {
	if atomic.LoadUint32(&hot) == 1 && time.Now().UnixNano()-lastHot.Load() > cooldownNs {
		atomic.StoreUint32(&hot, 0)
	}
}

// ============================================================================
// SYSTEM SHUTDOWN
// ============================================================================

// Shutdown raises the stop flag observed by every pinned consumer.
func Shutdown() {
	atomic.StoreUint32(&stop, 1)
}

// IsStopping reports whether Shutdown has been called.
func IsStopping() bool {
	return atomic.LoadUint32(&stop) != 0
}

// ============================================================================
// FLAG ACCESS
// ============================================================================

// Flags returns pointers to the stop and hot flags for PinnedConsumer.
// The pointers stay valid for the process lifetime.
func Flags() (*uint32, *uint32) {
	return &stop, &hot
}

// Reset clears every flag. Intended for tests and for restarting a run within
// one process.
func Reset() {
	atomic.StoreUint32(&hot, 0)
	atomic.StoreUint32(&stop, 0)
	lastHot.Store(0)
}
