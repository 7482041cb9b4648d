package digest

import (
	"bytes"
	"errors"
	"testing"
)

func TestSealOpenRoundTrip(t *testing.T) {
	body := []byte("payload bytes")
	buf := make([]byte, len(body)+Overhead)
	n := Seal(buf, 42, body)
	if n != len(buf) {
		t.Fatalf("Seal wrote %d bytes, want %d", n, len(buf))
	}

	seq, got, err := Open(buf[:n])
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if seq != 42 || !bytes.Equal(got, body) {
		t.Fatalf("Open = %d %q", seq, got)
	}
	if len(Fingerprint(buf[:n])) != 32 {
		t.Fatal("fingerprint must be 32 bytes")
	}
}

func TestSealInPlace(t *testing.T) {
	buf := make([]byte, 5+Overhead)
	copy(buf[8:], "hello")
	n := Seal(buf, 7, buf[8:13])
	_, body, err := Open(buf[:n])
	if err != nil || string(body) != "hello" {
		t.Fatalf("in-place seal: body %q err %v", body, err)
	}
}

func TestOpenDetectsCorruption(t *testing.T) {
	buf := make([]byte, 16+Overhead)
	n := Seal(buf, 1, bytes.Repeat([]byte{0xAB}, 16))

	for _, i := range []int{0, 9, n - 1} {
		frame := append([]byte(nil), buf[:n]...)
		frame[i] ^= 0x01
		if _, _, err := Open(frame); !errors.Is(err, ErrMismatch) {
			t.Fatalf("flip at %d: err = %v, want ErrMismatch", i, err)
		}
	}
}

func TestOpenShortFrame(t *testing.T) {
	if _, _, err := Open(make([]byte, Overhead-1)); !errors.Is(err, ErrShort) {
		t.Fatalf("err = %v, want ErrShort", err)
	}
}

func TestSealPanicsOnSmallDst(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Seal into a short buffer should panic")
		}
	}()
	Seal(make([]byte, 10), 0, []byte("abc"))
}

func BenchmarkSealOpen(b *testing.B) {
	body := make([]byte, 256)
	buf := make([]byte, len(body)+Overhead)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		n := Seal(buf, uint64(i), body)
		if _, _, err := Open(buf[:n]); err != nil {
			b.Fatal(err)
		}
	}
}
