// relax.go
//
// Portable back-off for cold spin loops. There is no PAUSE/YIELD stub here,
// so cpuRelax hands the processor back to the scheduler instead.

package pipe

import "runtime"

func cpuRelax() { runtime.Gosched() }
