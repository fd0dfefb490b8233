package http1

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"
)

const (
	DefaultWriteTimeoutPerKB = 5 * time.Second
	CopyBufferSize           = 80 << 10
)

// Writer transmits one response: the rendered head, then optionally a
// file body. Head and body share one deadline.
type Writer struct {
	Conn         io.WriteCloser
	TimeoutPerKB time.Duration // DefaultWriteTimeoutPerKB if zero
}

// WriteResponse sends head and, when bodyPath is set, the file it names.
// Expiry of the deadline closes Conn mid-transfer and yields ErrTimeout.
func (w *Writer) WriteResponse(head []byte, bodyPath string, contentLength int64) error {
	base := w.TimeoutPerKB
	if base <= 0 {
		base = DefaultWriteTimeoutPerKB
	}
	g := guard(w.Conn, SendTimeout(base, bodyPath != "", contentLength))
	defer g.stop()

	if _, err := w.Conn.Write(head); err != nil {
		return g.wrap("write head", err)
	}
	if bodyPath == "" {
		return nil
	}
	f, err := os.Open(bodyPath)
	if err != nil {
		return fmt.Errorf("open body: %w", err)
	}
	defer f.Close()
	buf := make([]byte, CopyBufferSize)
	if _, err := io.CopyBuffer(w.Conn, f, buf); err != nil {
		return g.wrap("write body", err)
	}
	return nil
}

// SendTimeout is base, multiplied by max(1, ceil(contentLength/1KiB)) when
// a body is sent. The result saturates instead of overflowing.
func SendTimeout(base time.Duration, hasBody bool, contentLength int64) time.Duration {
	if !hasBody || base <= 0 {
		return base
	}
	kb := contentLength / 1024
	if contentLength%1024 != 0 {
		kb++
	}
	if kb < 1 {
		kb = 1
	}
	if kb > int64(math.MaxInt64)/int64(base) {
		return time.Duration(math.MaxInt64)
	}
	return base * time.Duration(kb)
}

// AppendHead renders a status line and header fields followed by one
// blank line. Every line ends with eol.
func AppendHead(dst []byte, proto, status string, fields [][2]string, eol string) []byte {
	dst = append(dst, proto...)
	dst = append(dst, ' ')
	dst = append(dst, status...)
	dst = append(dst, eol...)
	for _, f := range fields {
		dst = append(dst, f[0]...)
		dst = append(dst, ": "...)
		dst = append(dst, sanitizeHeaderValue(f[1])...)
		dst = append(dst, eol...)
	}
	return append(dst, eol...)
}

func sanitizeHeaderValue(v string) string {
	if v == "" {
		return v
	}
	// Remove CR/LF and other control chars except HTAB
	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == '\r' || c == '\n' || c == 0x7f {
			continue
		}
		if c < 0x20 && c != '\t' {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
