package session

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Session IDs are ULIDs: 26-character Crockford Base32 strings with a
// millisecond timestamp prefix, so IDs sort by creation time.

var (
	ulidMu  sync.Mutex
	lastTS  uint64
	lastSeq uint16
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

func newID() string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	ts := uint64(time.Now().UnixMilli())
	if ts == lastTS {
		lastSeq++
	} else {
		lastTS = ts
		lastSeq = 0
	}

	var b [16]byte
	// Timestamp in the first 6 bytes, big-endian 48-bit.
	b[0] = byte(ts >> 40)
	b[1] = byte(ts >> 32)
	b[2] = byte(ts >> 24)
	b[3] = byte(ts >> 16)
	b[4] = byte(ts >> 8)
	b[5] = byte(ts)
	rand.Read(b[6:])
	// Sequence in bytes 6-7 keeps IDs unique within the same millisecond.
	binary.BigEndian.PutUint16(b[6:8], lastSeq)

	return encode(b)
}

// encode renders 128 bits as 26 Base32 characters. The stream is padded
// with two leading zero bits so the first character carries only the top
// three bits of the timestamp.
func encode(b [16]byte) string {
	bitAt := func(pos int) byte {
		return (b[pos/8] >> (7 - pos%8)) & 1
	}

	var out [26]byte
	bit := -2
	for i := range out {
		var v byte
		for j := 0; j < 5; j++ {
			v <<= 1
			if p := bit + j; p >= 0 {
				v |= bitAt(p)
			}
		}
		out[i] = crockford[v]
		bit += 5
	}
	return string(out[:])
}
