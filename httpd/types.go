package httpd

import (
	"net/textproto"
	"strconv"
)

type Method uint8

const (
	MethodGet Method = iota + 1
	MethodHead
)

func (m Method) String() string {
	switch m {
	case MethodGet:
		return "GET"
	case MethodHead:
		return "HEAD"
	default:
		return "-"
	}
}

type Version uint8

const (
	Version10 Version = iota + 1
	Version11
)

func (v Version) String() string {
	switch v {
	case Version10:
		return "HTTP/1.0"
	case Version11:
		return "HTTP/1.1"
	default:
		return "-"
	}
}

var (
	methods  = map[string]Method{"GET": MethodGet, "HEAD": MethodHead}
	versions = map[string]Version{"HTTP/1.0": Version10, "HTTP/1.1": Version11}
)

type Status int

const (
	StatusOK                  Status = 200
	StatusBadRequest          Status = 400
	StatusForbidden           Status = 403
	StatusNotFound            Status = 404
	StatusMethodNotAllowed    Status = 405
	StatusInternalServerError Status = 500

	// StatusRejected is sent for every malformed request, whatever part
	// of it failed to parse.
	StatusRejected = StatusMethodNotAllowed
)

// Reason returns the reason phrase, or "" for codes this server never sends.
func (s Status) Reason() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusBadRequest:
		return "Bad Request"
	case StatusForbidden:
		return "Forbidden"
	case StatusNotFound:
		return "Not Found"
	case StatusMethodNotAllowed:
		return "Method Not Allowed"
	case StatusInternalServerError:
		return "Internal Server Error"
	default:
		return ""
	}
}

// String renders the status as it appears on the status line, e.g. "404 Not Found".
func (s Status) String() string {
	if r := s.Reason(); r != "" {
		return strconv.Itoa(int(s)) + " " + r
	}
	return strconv.Itoa(int(s))
}

// Header is a field map with canonical keys that remembers insertion
// order. Setting an existing key replaces its value in place. The zero
// value is ready to use.
type Header struct {
	keys []string
	vals map[string]string
}

func (h *Header) Set(key, value string) {
	k := textproto.CanonicalMIMEHeaderKey(key)
	if h.vals == nil {
		h.vals = make(map[string]string)
	}
	if _, ok := h.vals[k]; !ok {
		h.keys = append(h.keys, k)
	}
	h.vals[k] = value
}

func (h *Header) Get(key string) string {
	v, _ := h.Lookup(key)
	return v
}

func (h *Header) Lookup(key string) (string, bool) {
	v, ok := h.vals[textproto.CanonicalMIMEHeaderKey(key)]
	return v, ok
}

func (h *Header) Del(key string) {
	k := textproto.CanonicalMIMEHeaderKey(key)
	if _, ok := h.vals[k]; !ok {
		return
	}
	delete(h.vals, k)
	for i, ek := range h.keys {
		if ek == k {
			h.keys = append(h.keys[:i], h.keys[i+1:]...)
			break
		}
	}
}

func (h *Header) Len() int { return len(h.keys) }

// Each calls fn for every field in insertion order.
func (h *Header) Each(fn func(key, value string)) {
	for _, k := range h.keys {
		fn(k, h.vals[k])
	}
}

func (h *Header) fields() [][2]string {
	out := make([][2]string, 0, len(h.keys))
	h.Each(func(k, v string) { out = append(out, [2]string{k, v}) })
	return out
}
