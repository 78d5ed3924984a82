// Package id generates identifiers for requests, session tokens and
// locally delivered messages.
package id

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// Crockford's Base32 alphabet (excludes I, L, O, U).
const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewULID returns a 26-character ULID: 48 bits of millisecond time followed
// by 80 random bits, Crockford Base32 encoded. IDs sort by creation time.
func NewULID() string {
	return newULID(time.Now())
}

func newULID(now time.Time) string {
	var raw [16]byte
	binary.BigEndian.PutUint16(raw[0:2], uint16(uint64(now.UnixMilli())>>32))
	binary.BigEndian.PutUint32(raw[2:6], uint32(now.UnixMilli()))
	if _, err := rand.Read(raw[6:]); err != nil {
		// Degraded entropy, still unique per nanosecond.
		binary.BigEndian.PutUint64(raw[6:14], uint64(now.UnixNano()))
	}
	return encode(raw)
}

// encode writes 128 bits as 26 base32 symbols, most significant first.
// The leading symbol only carries the top 3 bits.
func encode(raw [16]byte) string {
	hi := binary.BigEndian.Uint64(raw[0:8])
	lo := binary.BigEndian.Uint64(raw[8:16])

	var out [26]byte
	for i := 25; i >= 0; i-- {
		out[i] = crockford[lo&0x1F]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}

// NewToken returns n random bytes encoded as Crockford Base32.
// Used for opaque, unguessable token identifiers.
func NewToken(n int) string {
	if n <= 0 {
		n = 16
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		binary.BigEndian.PutUint64(buf[:min(8, n)], uint64(time.Now().UnixNano()))
	}

	out := make([]byte, 0, (n*8+4)/5)
	var acc uint16
	bits := 0
	for _, b := range buf {
		acc = acc<<8 | uint16(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			out = append(out, crockford[(acc>>bits)&0x1F])
		}
	}
	if bits > 0 {
		out = append(out, crockford[(acc<<(5-bits))&0x1F])
	}
	return string(out)
}
