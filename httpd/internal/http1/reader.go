package http1

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	ChunkSize          = 1024
	InitialBufferSize  = 32 * ChunkSize
	DefaultReadTimeout = 5 * time.Second
	DefaultMaxBytes    = 64 << 10
	DefaultDrainWait   = 10 * time.Millisecond
)

// Reader frames one request per ReadRequest call from Conn.
type Reader struct {
	Conn     io.ReadCloser
	Timeout  time.Duration // absolute bound for one ReadRequest; DefaultReadTimeout if zero
	MaxBytes int           // DefaultMaxBytes if zero, no limit if negative

	// DrainWait bounds the check for more queued bytes after a read that
	// filled a whole chunk. DefaultDrainWait if zero. Only used when Conn
	// has SetReadDeadline.
	DrainWait time.Duration
}

type readDeadliner interface {
	SetReadDeadline(t time.Time) error
}

// ReadRequest reads chunks until the header block is complete or the
// transport has nothing more queued, and returns the bytes as text.
// Expiry of Timeout closes Conn and yields ErrTimeout. A peer that closes
// without sending anything yields ErrEmptyRequest.
func (r *Reader) ReadRequest() (string, error) {
	g := guard(r.Conn, r.timeout())
	defer g.stop()

	dl, canPoll := r.Conn.(readDeadliner)
	polling := false
	defer func() {
		if polling {
			_ = dl.SetReadDeadline(time.Time{})
		}
	}()

	buf := make([]byte, ChunkSize)
	raw := bytes.NewBuffer(make([]byte, 0, InitialBufferSize))
	limit := r.limit()
	for {
		if polling {
			_ = dl.SetReadDeadline(time.Now().Add(r.drainWait()))
		}
		n, err := r.Conn.Read(buf)
		raw.Write(buf[:n])
		if limit > 0 && raw.Len() > limit {
			return "", ErrRequestTooLarge
		}
		if err != nil {
			if g.expired() {
				return "", g.wrap("read request", err)
			}
			if polling && errors.Is(err, os.ErrDeadlineExceeded) {
				// nothing more queued
				break
			}
			if errors.Is(err, io.EOF) {
				if raw.Len() == 0 {
					return "", ErrEmptyRequest
				}
				break
			}
			return "", g.wrap("read request", err)
		}
		if n == 0 {
			continue
		}
		if n < len(buf) || headerComplete(raw.Bytes()) {
			break
		}
		polling = canPoll
	}
	return strings.ToValidUTF8(raw.String(), string(utf8.RuneError)), nil
}

func (r *Reader) timeout() time.Duration {
	if r.Timeout <= 0 {
		return DefaultReadTimeout
	}
	return r.Timeout
}

func (r *Reader) drainWait() time.Duration {
	if r.DrainWait <= 0 {
		return DefaultDrainWait
	}
	return r.DrainWait
}

func (r *Reader) limit() int {
	if r.MaxBytes == 0 {
		return DefaultMaxBytes
	}
	return r.MaxBytes
}

var (
	crlfBlank = []byte("\r\n\r\n")
	lfBlank   = []byte("\n\n")
)

func headerComplete(b []byte) bool {
	return bytes.Contains(b, crlfBlank) || bytes.Contains(b, lfBlank)
}
