// header.go
//
// Frame header encoding and the acquire/release helpers that publish it.
// A header is a 4-byte int32 stored in the pipe's own byte storage. Two values
// are reserved as sentinels; every other value is a positive payload length.
// Header offsets are kept 4-byte aligned so the sync/atomic helpers below are
// valid on every architecture Go supports.

package pipe

import (
	"sync/atomic"
	"unsafe"
)

const (
	headerSize = 4

	markStop int32 = 0  // nothing committed at or past this offset yet
	markLoop int32 = -1 // the next frame starts at offset 0
)

// headerKind is the tagged form of a raw header value.
type headerKind uint8

const (
	kindStop headerKind = iota
	kindLoop
	kindFrame
)

// decodeHeader splits a raw header into its kind and, for frames, the
// payload length.
func decodeHeader(v int32) (headerKind, int) {
	switch {
	case v == markStop:
		return kindStop, 0
	case v == markLoop:
		return kindLoop, 0
	default:
		return kindFrame, int(v)
	}
}

// align rounds n up to the header alignment.
func align(n int) int {
	return (n + headerSize - 1) &^ (headerSize - 1)
}

// stride is the number of storage bytes a frame of n payload bytes occupies.
func stride(n int) int {
	return headerSize + align(n)
}

// headerAt returns the header word at off. The full slice expression
// bounds-checks the word without reading it; only the atomic helpers below
// may touch header memory.
func headerAt(buf []byte, off int) *int32 {
	h := buf[off : off+headerSize : off+headerSize]
	return (*int32)(unsafe.Pointer(unsafe.SliceData(h)))
}

// loadAcquireHeader is an acquire load of the header at off.
func loadAcquireHeader(buf []byte, off int) int32 {
	return atomic.LoadInt32(headerAt(buf, off))
}

// storeReleaseHeader is a release store of v into the header at off. Every
// plain write issued before it is visible to a reader that observes v.
func storeReleaseHeader(buf []byte, off int, v int32) {
	atomic.StoreInt32(headerAt(buf, off), v)
}
