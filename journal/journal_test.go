package journal

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T, batch int) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"), batch)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordBatchesAndFlush(t *testing.T) {
	j := openTemp(t, 4)
	digest := bytes.Repeat([]byte{0x5A}, 32)

	for seq := uint64(0); seq < 10; seq++ {
		if err := j.Record(seq, 100+int(seq), digest); err != nil {
			t.Fatalf("Record(%d): %v", seq, err)
		}
	}

	// Two full batches are committed; the last two rows are still open.
	if n, err := j.Count(); err != nil || n != 8 {
		t.Fatalf("Count before flush = %d, %v; want 8", n, err)
	}
	if err := j.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if n, err := j.Count(); err != nil || n != 10 {
		t.Fatalf("Count after flush = %d, %v; want 10", n, err)
	}
	if seq, ok, err := j.Last(); err != nil || !ok || seq != 9 {
		t.Fatalf("Last = %d %v %v; want 9", seq, ok, err)
	}
}

func TestLastOnEmptyJournal(t *testing.T) {
	j := openTemp(t, 1)
	if _, ok, err := j.Last(); err != nil || ok {
		t.Fatalf("Last on empty journal = ok %v err %v", ok, err)
	}
}

func TestDuplicateSequenceRejected(t *testing.T) {
	j := openTemp(t, 1)
	if err := j.Record(5, 1, []byte{1}); err != nil {
		t.Fatalf("first Record: %v", err)
	}
	if err := j.Record(5, 1, []byte{1}); err == nil {
		t.Fatal("duplicate sequence accepted")
	}
}

func TestReopenKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path, 16)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for seq := uint64(0); seq < 3; seq++ {
		j.Record(seq, 1, []byte{byte(seq)})
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	j, err = Open(path, 16)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer j.Close()
	if n, _ := j.Count(); n != 3 {
		t.Fatalf("reopened journal has %d rows, want 3", n)
	}
}

func TestUseAfterClose(t *testing.T) {
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"), 1)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	j.Close()
	if err := j.Record(1, 1, nil); !errors.Is(err, ErrClosed) {
		t.Fatalf("Record after Close = %v", err)
	}
	if err := j.Close(); !errors.Is(err, ErrClosed) {
		t.Fatalf("second Close = %v", err)
	}
}
