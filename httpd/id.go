package httpd

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"sync/atomic"
	"time"
)

var connSeq atomic.Uint64

// genID returns 16 hex digits naming one connection in the logs. Should
// the random source fail, the clock mixed with a connection sequence
// number keeps ids distinct.
func genID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		binary.BigEndian.PutUint64(b[:], uint64(time.Now().UnixNano())^connSeq.Add(1)<<48)
	}
	return hex.EncodeToString(b[:])
}
