// pinned_consumer_test.go
//
// Verifies frame delivery through PinnedConsumer, graceful shutdown with and
// without traffic, and that frames published before stop are still drained,
// including one committed just before stop is raised.

package pipe

import (
	"bytes"
	"runtime"
	"sync/atomic"
	"testing"
	"time"
)

// launch hides the boilerplate for spinning up a PinnedConsumer.
func launch(r *Reader, fn func([]byte)) (stop, hot *uint32, done chan struct{}) {
	stop = new(uint32)
	hot = new(uint32)
	done = make(chan struct{})
	PinnedConsumer(0, r, stop, hot, fn, done)
	return
}

func waitDone(t *testing.T, done <-chan struct{}, limit time.Duration) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(limit):
		t.Fatal("timeout waiting for consumer exit")
	}
}

func TestPinnedConsumerDeliversFrames(t *testing.T) {
	runtime.GOMAXPROCS(max(2, runtime.GOMAXPROCS(0)))
	_, w, r := newPipe(t, 256)

	var got atomic.Value
	var count atomic.Int32
	stop, hot, done := launch(r, func(p []byte) {
		got.Store(append([]byte(nil), p...))
		count.Add(1)
	})

	atomic.StoreUint32(hot, 1)
	for !w.Write([]byte("frame-1")) {
		runtime.Gosched()
	}
	atomic.StoreUint32(hot, 0)

	deadline := time.Now().Add(time.Second)
	for count.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("callback never ran")
		}
		runtime.Gosched()
	}

	atomic.StoreUint32(stop, 1)
	waitDone(t, done, time.Second)

	if b, _ := got.Load().([]byte); !bytes.Equal(b, []byte("frame-1")) {
		t.Fatalf("callback saw %q", b)
	}
}

func TestPinnedConsumerStopsWithoutWork(t *testing.T) {
	_, _, r := newPipe(t, 64)
	stop, _, done := launch(r, func([]byte) {})
	atomic.StoreUint32(stop, 1)
	waitDone(t, done, 100*time.Millisecond)
}

func TestPinnedConsumerDrainsBeforeStop(t *testing.T) {
	p, w, r := newPipe(t, 1024)
	for i := 0; i < 20; i++ {
		if !w.Write(frame(byte(i), 16)) {
			t.Fatalf("write %d failed", i)
		}
	}

	var seen atomic.Int32
	stop, _, done := launch(r, func(b []byte) {
		if len(b) == 16 {
			seen.Add(1)
		}
	})
	atomic.StoreUint32(stop, 1)
	waitDone(t, done, time.Second)

	if n := seen.Load(); n != 20 {
		t.Fatalf("consumer handled %d frames, want 20", n)
	}
	if s := p.Stats(); s.Pending() != 0 {
		t.Fatalf("frames left in pipe: %+v", s)
	}
}

func TestPinnedConsumerStreamsAcrossWrap(t *testing.T) {
	frames := uint32(stressFrames(10_000))
	_, w, r := newPipe(t, 512)

	var next atomic.Uint32
	var bad atomic.Bool
	stop, hot, done := launch(r, func(b []byte) {
		want := byte(next.Add(1) - 1)
		if len(b) != 24 || b[0] != want || b[23] != want {
			bad.Store(true)
		}
	})

	atomic.StoreUint32(hot, 1)
	f := make([]byte, 24)
	for i := uint32(0); i < frames; i++ {
		for j := range f {
			f[j] = byte(i)
		}
		for !w.Write(f) {
			runtime.Gosched()
		}
	}
	atomic.StoreUint32(hot, 0)
	atomic.StoreUint32(stop, 1)
	waitDone(t, done, 5*time.Second)

	if bad.Load() {
		t.Fatal("consumer saw a corrupted or reordered frame")
	}
	if n := next.Load(); n != frames {
		t.Fatalf("consumer handled %d frames, want %d", n, frames)
	}
}

func TestPinnedConsumerDrainsLastCommitBeforeStop(t *testing.T) {
	runtime.GOMAXPROCS(max(2, runtime.GOMAXPROCS(0)))
	rounds := int(stressFrames(2_000))

	for i := 0; i < rounds; i++ {
		_, w, r := newPipe(t, 64)
		var seen atomic.Int32
		stop, hot, done := launch(r, func([]byte) { seen.Add(1) })

		// Keep the consumer hot-spinning so the commit and the stop store
		// land between two of its polls.
		atomic.StoreUint32(hot, 1)
		if !w.Write([]byte("last")) {
			t.Fatalf("round %d: write failed", i)
		}
		atomic.StoreUint32(stop, 1)
		waitDone(t, done, time.Second)

		if n := seen.Load(); n != 1 {
			t.Fatalf("round %d: consumer exited after %d frames, want 1", i, n)
		}
		if r.HasData() != 0 {
			t.Fatalf("round %d: committed frame left in pipe", i)
		}
	}
}
