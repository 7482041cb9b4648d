// pipe.go
//
// Lock-free single-producer/single-consumer pipe for variable-length binary
// frames. Storage is one fixed byte region allocated at creation; frames are
// laid out back to back as [int32 header][payload] and wrap to offset 0 via a
// LOOP marker instead of straddling the end of storage.
//
// Ownership is split in two handles. The Writer owns the write cursor and the
// tail room, the Reader owns the read cursor. Each side only loads the other
// side's cursor, so no locks are needed; the only cross-side ordering is the
// release store of a frame header paired with the reader's acquire load.

package pipe

import (
	"fmt"
	"math"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// MaxCapacity is the largest storage a pipe accepts. Frame lengths travel in
// an int32 header, and a frame's footprint plus the next STOP must stay
// representable in a 32-bit int.
const MaxCapacity = (math.MaxInt32 - 2*headerSize) &^ (headerSize - 1)

// Writer is the producer handle of a Pipe. Only one goroutine may use it.
type Writer struct {
	_        cpu.CacheLinePad
	cursor   atomic.Uint64 // write cursor, stored by the writer only
	tailRoom int           // contiguous bytes from cursor to end of storage
	pending  int           // payload length of the open reservation, -1 if none
	p        *Pipe

	reserves       atomic.Uint64
	noSpace        atomic.Uint64
	wraps          atomic.Uint64
	commits        atomic.Uint64
	committedBytes atomic.Uint64
}

// Reader is the consumer handle of a Pipe. Only one goroutine may use it.
type Reader struct {
	_      cpu.CacheLinePad
	cursor atomic.Uint64 // read cursor, stored by the reader only
	p      *Pipe

	consumed      atomic.Uint64
	consumedBytes atomic.Uint64
	loops         atomic.Uint64
}

// Pipe is the shared state behind a Writer/Reader pair.
type Pipe struct {
	w Writer
	r Reader
	_ cpu.CacheLinePad

	buf      []byte
	capacity int
}

// New allocates a pipe with capacity bytes of storage. The capacity is rounded
// down to a multiple of the header size and must hold at least one header.
func New(capacity int) (*Pipe, error) {
	if capacity < headerSize || capacity > MaxCapacity {
		return nil, fmt.Errorf("%w: %d bytes", ErrCapacity, capacity)
	}
	capacity &^= headerSize - 1

	// A word-typed allocation guarantees the 4-byte alignment headers need.
	words := make([]uint32, capacity/headerSize)
	p := &Pipe{
		buf:      unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(words))), capacity),
		capacity: capacity,
	}
	p.w.p = p
	p.r.p = p
	p.reset()
	return p, nil
}

// Writer returns the producer handle.
func (p *Pipe) Writer() *Writer { return &p.w }

// Reader returns the consumer handle.
func (p *Pipe) Reader() *Reader { return &p.r }

// Cap returns the storage size in bytes.
func (p *Pipe) Cap() int { return p.capacity }

// Clear empties the pipe: both cursors return to offset 0, storage is zeroed,
// which encodes STOP everywhere, and the statistics counters restart from
// zero. It mutates both sides' state and must not run while a producer or
// consumer is active.
func (p *Pipe) Clear() {
	p.storage()
	clear(p.buf)
	p.reset()
	p.resetCounters()
}

// Close releases the storage. Neither handle may be used afterwards.
func (p *Pipe) Close() {
	p.buf = nil
}

func (p *Pipe) reset() {
	p.w.cursor.Store(0)
	p.w.tailRoom = p.capacity
	p.w.pending = -1
	p.r.cursor.Store(0)
	storeReleaseHeader(p.buf, 0, markStop)
}

func (p *Pipe) resetCounters() {
	p.w.reserves.Store(0)
	p.w.noSpace.Store(0)
	p.w.wraps.Store(0)
	p.w.commits.Store(0)
	p.w.committedBytes.Store(0)
	p.r.consumed.Store(0)
	p.r.consumedBytes.Store(0)
	p.r.loops.Store(0)
}

func (p *Pipe) storage() []byte {
	if p.buf == nil {
		panic(ErrClosed)
	}
	return p.buf
}
