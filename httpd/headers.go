package httpd

import (
	"time"

	"dqx0.com/go/staticd/httpd/internal/http1"
)

// DateFormat is the RFC 1123 layout used for the Date header.
const DateFormat = "Mon, 02 Jan 2006 15:04:05 GMT"

// HeaderAssembler stamps Server and Date on every response.
type HeaderAssembler struct {
	ServerName string
	Now        func() time.Time
}

func (h HeaderAssembler) Apply(req *Request, resp *Response) error {
	name := h.ServerName
	if name == "" {
		name = DefaultServerName
	}
	now := h.Now
	if now == nil {
		now = time.Now
	}
	resp.Header.Set("Server", name)
	resp.Header.Set("Date", now().UTC().Format(DateFormat))
	return nil
}

// ConnectionPolicy closes every connection after its first response.
type ConnectionPolicy struct{}

func (ConnectionPolicy) Apply(req *Request, resp *Response) error {
	resp.KeepAlive = false
	resp.Header.Set("Connection", "close")
	return nil
}

// Serializer renders the status line and headers into resp.Head using
// the request's line ending. Body bytes are never included.
type Serializer struct{}

func (Serializer) Apply(req *Request, resp *Response) error {
	if resp.Status == 0 {
		return ErrNoStatus
	}
	v := resp.Version
	if v == 0 {
		v = Version11
	}
	resp.Head = http1.AppendHead(resp.Head[:0], v.String(), resp.Status.String(), resp.Header.fields(), resp.eol())
	return nil
}
