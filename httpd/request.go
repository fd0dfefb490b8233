package httpd

// Request is one parsed request. It lives for a single read/respond
// iteration of its connection and is not shared.
type Request struct {
	Raw     string // text as read from the wire
	Method  Method
	Path    string // percent-decoded, query string removed
	Version Version
	Header  Header
	CRLF    bool // request lines end in "\r\n" rather than "\n"
}

func NewRequest(raw string) *Request {
	return &Request{Raw: raw}
}

// Response is built up by the pipeline stages for one Request.
type Response struct {
	Status        Status
	Success       bool // cleared by Fail; later stages skip their work
	Version       Version
	Header        Header
	ContentLength int64
	BodyPath      string // file to stream after Head, empty for no body
	KeepAlive     bool
	CRLF          bool
	Head          []byte // rendered status line and header block
}

func NewResponse() *Response {
	return &Response{Success: true}
}

// Fail marks the response unsuccessful with status s.
func (r *Response) Fail(s Status) {
	r.Success = false
	r.Status = s
}

func (r *Response) eol() string {
	if r.CRLF {
		return "\r\n"
	}
	return "\n"
}
