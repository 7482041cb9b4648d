package pipe

// Stats is a point-in-time view of a pipe's counters. Each counter is written
// by one side only, so a snapshot is consistent per field, not across fields.
type Stats struct {
	Capacity    int
	WriteCursor int
	ReadCursor  int

	Reserves       uint64 // Reserve calls
	NoSpace        uint64 // Reserve calls that reported no space
	Wraps          uint64 // write frontier moves to offset 0
	Commits        uint64 // frames published
	CommittedBytes uint64

	Consumed      uint64 // frames released by the reader
	ConsumedBytes uint64
	Loops         uint64 // LOOP markers followed by the reader
}

// Stats may be called from any goroutine.
func (p *Pipe) Stats() Stats {
	return Stats{
		Capacity:       p.capacity,
		WriteCursor:    int(p.w.cursor.Load()),
		ReadCursor:     int(p.r.cursor.Load()),
		Reserves:       p.w.reserves.Load(),
		NoSpace:        p.w.noSpace.Load(),
		Wraps:          p.w.wraps.Load(),
		Commits:        p.w.commits.Load(),
		CommittedBytes: p.w.committedBytes.Load(),
		Consumed:       p.r.consumed.Load(),
		ConsumedBytes:  p.r.consumedBytes.Load(),
		Loops:          p.r.loops.Load(),
	}
}

// Pending is the number of published frames not yet consumed. Clear restarts
// both counters, so it stays exact across a Clear.
func (s Stats) Pending() uint64 {
	return s.Commits - s.Consumed
}
