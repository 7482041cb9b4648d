package pipe

import "fmt"

// Reserve returns a scratch region of n bytes for the next frame, or false
// when the frame cannot be placed without overwriting unread data. A false
// result is ordinary back-pressure: retry once the reader has drained more.
//
// The region stays valid until the matching Commit. When the frame does not
// fit in the tail of storage and the reader has moved off offset 0, the write
// frontier is moved to offset 0 and a LOOP marker is left behind even if the
// frame itself does not fit yet; no frame is published by that move.
func (w *Writer) Reserve(n int) ([]byte, bool) {
	buf := w.p.storage()
	if n <= 0 {
		panic(fmt.Errorf("%w: %d", ErrLength, n))
	}
	w.pending = -1
	w.reserves.Add(1)

	capacity := w.p.capacity
	if n > capacity {
		w.noSpace.Add(1)
		return nil, false
	}

	required := align(n) + 2*headerSize // frame header + payload + next STOP
	wc := int(w.cursor.Load())
	rc := int(w.p.r.cursor.Load())

	if required <= w.tailRoom {
		// Behind the reader the free gap ends at the reader's header.
		if wc < rc && wc+required > rc {
			w.noSpace.Add(1)
			return nil, false
		}
		w.pending = n
		off := wc + headerSize
		return buf[off : off+n : off+n], true
	}

	// A LOOP is still pending when the writer is behind the reader, and a
	// reader parked on offset 0 still needs the header stored there.
	if required > capacity || wc < rc || rc == 0 {
		w.noSpace.Add(1)
		return nil, false
	}

	w.cursor.Store(0)
	w.tailRoom = capacity
	storeReleaseHeader(buf, 0, markStop)
	storeReleaseHeader(buf, wc, markLoop)
	w.wraps.Add(1)

	if required > rc {
		w.noSpace.Add(1)
		return nil, false
	}
	w.pending = n
	return buf[headerSize : headerSize+n : headerSize+n], true
}

// Commit publishes the frame opened by the last successful Reserve with its
// first used bytes. Committing zero bytes abandons the reservation, since a
// zero length is the STOP encoding.
//
// The STOP marker for the new frontier is written before the frame's length,
// and the length is stored with release semantics, so a reader that observes
// the length also observes the payload and the next STOP.
func (w *Writer) Commit(used int) {
	buf := w.p.storage()
	if w.pending < 0 {
		panic(ErrNoReservation)
	}
	if used < 0 || used > w.pending {
		panic(fmt.Errorf("%w: %d of %d bytes", ErrOvercommit, used, w.pending))
	}
	w.pending = -1
	if used == 0 {
		return
	}

	wc := int(w.cursor.Load())
	next := wc + stride(used)
	w.tailRoom -= stride(used)

	storeReleaseHeader(buf, next, markStop)
	w.cursor.Store(uint64(next))
	storeReleaseHeader(buf, wc, int32(used))

	w.commits.Add(1)
	w.committedBytes.Add(uint64(used))
}

// Write copies data into the pipe as one frame. It returns false, publishing
// nothing, when Reserve reports no space. Like Reserve, a false result may
// still have moved the write frontier to offset 0 and left a LOOP marker for
// the reader, so a retry after the reader follows it can succeed.
func (w *Writer) Write(data []byte) bool {
	dst, ok := w.Reserve(len(data))
	if !ok {
		return false
	}
	copy(dst, data)
	w.Commit(len(data))
	return true
}
