//go:build !linux

// setaffinity_stub.go: no-op fallback for non-Linux builds.

package pipe

func setAffinity(cpu int) {}
