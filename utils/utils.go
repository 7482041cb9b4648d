package utils

import "os"

///////////////////////////////////////////////////////////////////////////////
// Conversion Utilities - Zero-Alloc Formatting
///////////////////////////////////////////////////////////////////////////////

// Itoa formats a signed integer in base 10 using a stack buffer.
func Itoa(n int) string {
	if n < 0 {
		return "-" + Utoa(uint64(-n))
	}
	return Utoa(uint64(n))
}

// Utoa formats an unsigned integer in base 10 using a stack buffer.
func Utoa(n uint64) string {
	var buf [20]byte
	i := len(buf)
	for {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	return string(buf[i:])
}

///////////////////////////////////////////////////////////////////////////////
// Console Output - Direct stderr Writes
///////////////////////////////////////////////////////////////////////////////

// PrintWarning writes msg to stderr unbuffered. Write errors are ignored:
// there is nowhere left to report them.
func PrintWarning(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

///////////////////////////////////////////////////////////////////////////////
// Little-Endian Loaders - Frame Field Access
///////////////////////////////////////////////////////////////////////////////

// LoadLE64 performs a manual little-endian 64-bit read, avoiding dependency
// on binary.LittleEndian.
//
//go:nosplit
//go:inline
func LoadLE64(b []byte) uint64 {
	_ = b[7] // bounds check hint
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 |
		uint64(b[3])<<24 | uint64(b[4])<<32 | uint64(b[5])<<40 |
		uint64(b[6])<<48 | uint64(b[7])<<56
}

// StoreLE64 is the write counterpart of LoadLE64.
//
//go:nosplit
//go:inline
func StoreLE64(b []byte, v uint64) {
	_ = b[7] // bounds check hint
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	b[4] = byte(v >> 32)
	b[5] = byte(v >> 40)
	b[6] = byte(v >> 48)
	b[7] = byte(v >> 56)
}

///////////////////////////////////////////////////////////////////////////////
// Hash & Mixers - For Payload Generation & Test Sequences
///////////////////////////////////////////////////////////////////////////////

// Mix64 applies a Murmur3-style avalanche to a 64-bit value.
// Used as a cheap deterministic generator for frame sizes and bodies.
//
//go:nosplit
//go:inline
func Mix64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}

// FillPattern overwrites b with a byte stream derived from seed. The same
// seed always yields the same bytes.
func FillPattern(b []byte, seed uint64) {
	var word uint64
	for i := range b {
		if i&7 == 0 {
			word = Mix64(seed + uint64(i))
		}
		b[i] = byte(word)
		word >>= 8
	}
}
