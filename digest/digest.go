// Package digest seals soak frames with a sequence number and a SHA3-256
// trailer so the consumer side can prove that no frame was lost, reordered or
// torn on its way through the pipe.
//
// Layout: [seq uint64 LE][body][sha3-256(seq || body)]
package digest

import (
	"errors"

	"golang.org/x/crypto/sha3"

	"framepipe/utils"
)

const (
	seqSize = 8
	sumSize = 32

	// Overhead is the number of bytes Seal adds around a body.
	Overhead = seqSize + sumSize
)

var (
	ErrShort    = errors.New("digest: frame shorter than envelope")
	ErrMismatch = errors.New("digest: checksum mismatch")
)

// Seal writes the envelope for body into dst and returns the number of bytes
// written. dst must hold at least len(body)+Overhead bytes; body may already
// sit at dst[8:] (in-place sealing of a reserved pipe region).
func Seal(dst []byte, seq uint64, body []byte) int {
	n := seqSize + len(body)
	if len(dst) < n+sumSize {
		panic(ErrShort)
	}
	utils.StoreLE64(dst, seq)
	copy(dst[seqSize:n], body)
	sum := sha3.Sum256(dst[:n])
	copy(dst[n:], sum[:])
	return n + sumSize
}

// Open verifies a sealed frame and returns its sequence number and body. The
// body aliases frame.
func Open(frame []byte) (uint64, []byte, error) {
	if len(frame) < Overhead {
		return 0, nil, ErrShort
	}
	n := len(frame) - sumSize
	sum := sha3.Sum256(frame[:n])
	if string(sum[:]) != string(frame[n:]) {
		return 0, nil, ErrMismatch
	}
	return utils.LoadLE64(frame), frame[seqSize:n], nil
}

// Fingerprint returns the stored trailer of a sealed frame without
// re-hashing it. Callers must have verified the frame with Open first.
func Fingerprint(frame []byte) []byte {
	return frame[len(frame)-sumSize:]
}
