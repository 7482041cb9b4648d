// Package monitor turns pipe statistics into JSON lines for operators. It
// only reads the counters exposed by pipe.Stats, so it may run on any
// goroutine next to the producer and the consumer.
package monitor

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sugawarayuuta/sonnet"

	"framepipe/pipe"
)

// Snapshot is one monitor line.
type Snapshot struct {
	Time        int64 `json:"ts"`
	Capacity    int   `json:"capacity"`
	WriteCursor int   `json:"write_cursor"`
	ReadCursor  int   `json:"read_cursor"`

	Commits        uint64 `json:"commits"`
	CommittedBytes uint64 `json:"committed_bytes"`
	Consumed       uint64 `json:"consumed"`
	Pending        uint64 `json:"pending"`
	NoSpace        uint64 `json:"no_space"`
	Wraps          uint64 `json:"wraps"`

	FramesPerSec float64 `json:"frames_per_sec"`
	BytesPerSec  float64 `json:"bytes_per_sec"`
}

// Sample reads p at now. Rates are computed against prev; a zero prev, or a
// prev taken before the pipe was cleared, yields zero rates.
func Sample(p *pipe.Pipe, prev Snapshot, now time.Time) Snapshot {
	st := p.Stats()
	s := Snapshot{
		Time:           now.UnixNano(),
		Capacity:       st.Capacity,
		WriteCursor:    st.WriteCursor,
		ReadCursor:     st.ReadCursor,
		Commits:        st.Commits,
		CommittedBytes: st.CommittedBytes,
		Consumed:       st.Consumed,
		Pending:        st.Pending(),
		NoSpace:        st.NoSpace,
		Wraps:          st.Wraps,
	}
	// Counters that went backwards mean the pipe was cleared since prev.
	if prev.Time != 0 && s.Time > prev.Time &&
		s.Consumed >= prev.Consumed && s.CommittedBytes >= prev.CommittedBytes {
		secs := float64(s.Time-prev.Time) / float64(time.Second)
		s.FramesPerSec = float64(s.Consumed-prev.Consumed) / secs
		s.BytesPerSec = float64(s.CommittedBytes-prev.CommittedBytes) / secs
	}
	return s
}

// Encode appends s as one JSON line to dst.
func Encode(dst []byte, s Snapshot) ([]byte, error) {
	b, err := sonnet.Marshal(s)
	if err != nil {
		return dst, fmt.Errorf("monitor: encode: %w", err)
	}
	dst = append(dst, b...)
	return append(dst, '\n'), nil
}

// Run writes a line to w every interval and a final one when ctx is done.
// It returns nil on cancellation and the first write error otherwise.
func Run(ctx context.Context, p *pipe.Pipe, w io.Writer, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var prev Snapshot
	var line []byte
	emit := func(now time.Time) error {
		s := Sample(p, prev, now)
		var err error
		if line, err = Encode(line[:0], s); err != nil {
			return err
		}
		if _, err = w.Write(line); err != nil {
			return fmt.Errorf("monitor: write: %w", err)
		}
		prev = s
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return emit(time.Now())
		case now := <-ticker.C:
			if err := emit(now); err != nil {
				return err
			}
		}
	}
}
