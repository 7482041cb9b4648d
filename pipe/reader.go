package pipe

// head returns the offset and decoded header of the next frame, following a
// LOOP marker to offset 0 when one is found.
func (r *Reader) head(buf []byte) (int, headerKind, int) {
	off := int(r.cursor.Load())
	kind, n := decodeHeader(loadAcquireHeader(buf, off))
	if kind == kindLoop {
		off = 0
		r.cursor.Store(0)
		r.loops.Add(1)
		kind, n = decodeHeader(loadAcquireHeader(buf, off))
	}
	return off, kind, n
}

// HasData returns the payload length of the next committed frame, or 0 when
// none is available. Repeated calls do not change the pipe apart from the
// one-time move past a LOOP marker.
func (r *Reader) HasData() int {
	_, kind, n := r.head(r.p.storage())
	if kind != kindFrame {
		return 0
	}
	return n
}

// Peek returns the payload of the next committed frame. The slice aliases
// pipe storage and is valid until Consume. It panics when HasData would
// report 0.
func (r *Reader) Peek() []byte {
	buf := r.p.storage()
	off, kind, n := r.head(buf)
	if kind != kindFrame {
		panic(ErrNoFrame)
	}
	off += headerSize
	return buf[off : off+n : off+n]
}

// Next combines HasData and Peek. The payload is valid until Consume.
func (r *Reader) Next() ([]byte, bool) {
	buf := r.p.storage()
	off, kind, n := r.head(buf)
	if kind != kindFrame {
		return nil, false
	}
	off += headerSize
	return buf[off : off+n : off+n], true
}

// Consume releases the current frame back to the writer. It panics when no
// committed frame is available.
func (r *Reader) Consume() {
	buf := r.p.storage()
	off, kind, n := r.head(buf)
	if kind != kindFrame {
		panic(ErrNoFrame)
	}
	r.cursor.Store(uint64(off + stride(n)))
	r.consumed.Add(1)
	r.consumedBytes.Add(uint64(n))
}

// TotalQueued sums the payload lengths of every committed frame from the read
// cursor up to the write frontier without consuming anything.
func (r *Reader) TotalQueued() int {
	buf := r.p.storage()
	off := int(r.cursor.Load())
	total := 0
	for {
		kind, n := decodeHeader(loadAcquireHeader(buf, off))
		switch kind {
		case kindStop:
			return total
		case kindLoop:
			off = 0
		default:
			total += n
			off += stride(n)
		}
	}
}
