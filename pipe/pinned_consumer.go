// pinned_consumer.go
//
// Low-latency frame consumer.
//
//   - Dedicated OS thread pinned to `core`.
//   - Stays in hot-spin (tight loop, no cpuRelax) while new frames arrived
//     within hotTimeout, or while the producer keeps *hot == 1.
//   - Otherwise drops to cold-spin: cpuRelax every iteration and a scheduler
//     yield after spinBudget misses.
//   - Exits only when *stop == 1 and the pipe is drained; closes `done` once.
//
// hot flag contract:
//
//	Producer             Consumer
//	--------             ------------------------------
//	Store 1  ─────────▶  read (wake / stay hot-spin)
//	...write frames…
//	(optionally) Store 0  ◀─ consumer never writes

package pipe

import (
	"runtime"
	"sync/atomic"
	"time"
)

const (
	spinBudget = 256             // polls before cold back-off
	hotTimeout = 2 * time.Second // hot-spin grace after the last frame
)

// PinnedConsumer drains r on its own goroutine until *stop is set, handing
// each payload to fn before consuming it. fn must not retain the slice.
func PinnedConsumer(
	core int,
	r *Reader,
	stop, hot *uint32,
	fn func([]byte),
	done chan<- struct{},
) {
	go func() {
		runtime.LockOSThread()
		setAffinity(core) // no-op off Linux
		defer func() {
			runtime.UnlockOSThread()
			close(done)
		}()

		last := time.Now()
		miss := 0

		for {
			if p, ok := r.Next(); ok {
				fn(p)
				r.Consume()
				last, miss = time.Now(), 0
				continue
			}

			// A frame committed before stop was raised is visible once stop
			// is, so one more look decides whether the pipe is drained.
			if atomic.LoadUint32(stop) != 0 {
				if r.HasData() > 0 {
					continue
				}
				return
			}

			if atomic.LoadUint32(hot) != 0 || time.Since(last) <= hotTimeout {
				continue
			}

			if miss++; miss >= spinBudget {
				miss = 0
				time.Sleep(50 * time.Microsecond)
			}
			cpuRelax()
		}
	}()
}
