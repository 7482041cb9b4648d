//go:build linux

// setaffinity_linux.go
//
// Linux binding for sched_setaffinity(2) that pins the calling OS thread to a
// single logical CPU. Errors are swallowed: in a container or a restricted
// cgroup the call may fail with EPERM/EINVAL and the fallback is "no pin".

package pipe

import "golang.org/x/sys/unix"

// setAffinity pins the current thread to cpu (0-based). Negative indices are
// ignored; indices beyond the CPU set are dropped by CPUSet.Set.
func setAffinity(cpu int) {
	if cpu < 0 {
		return
	}
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	_ = unix.SchedSetaffinity(0, &set)
}
