package httpd

import (
	"strings"

	"dqx0.com/go/staticd/httpd/internal/http1"
)

// RequestParser fills Request from its raw text. Every structural
// problem, whether in the method, path, version or a header line, fails
// the response with StatusRejected.
type RequestParser struct{}

func (RequestParser) Apply(req *Request, resp *Response) error {
	if !resp.Success {
		return nil
	}
	req.CRLF = firstLineUsesCR(req.Raw)
	resp.CRLF = req.CRLF

	lr := lineReader{s: req.Raw}
	first, ok := lr.next()
	if !ok || isBlank(first) {
		resp.Fail(StatusRejected)
		return nil
	}
	if !parseRequestLine(first, req) {
		resp.Fail(StatusRejected)
		return nil
	}
	resp.Version = req.Version

	for {
		line, ok := lr.next()
		if !ok || isBlank(line) {
			break
		}
		i := strings.IndexByte(line, ':')
		if i < 1 || i == len(line)-1 {
			resp.Fail(StatusRejected)
			return nil
		}
		req.Header.Set(strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]))
	}
	return nil
}

// firstLineUsesCR reports whether a CR occurs before the first LF.
func firstLineUsesCR(raw string) bool {
	head := raw
	if i := strings.IndexByte(raw, '\n'); i >= 0 {
		head = raw[:i]
	}
	return strings.IndexByte(head, '\r') >= 0
}

// parseRequestLine scans method, path and version left to right in one
// pass. Each token is cut at ' ' or '\r' and compared against the
// supported literals.
func parseRequestLine(line string, req *Request) bool {
	pos := 0
	for pos < len(line) && line[pos] == ' ' {
		pos++
	}

	tok, pos := token(line, pos)
	m, ok := methods[tok]
	if !ok {
		return false
	}
	req.Method = m
	pos++

	path, pos, ok := requestPath(line, pos)
	if !ok {
		return false
	}
	req.Path = path
	pos++

	tok, _ = token(line, pos)
	if tok == "" {
		req.Version = Version11
		return true
	}
	v, ok := versions[tok]
	if !ok {
		return false
	}
	req.Version = v
	return true
}

func token(line string, pos int) (string, int) {
	start := pos
	for pos < len(line) && line[pos] != ' ' && line[pos] != '\r' {
		pos++
	}
	if start > len(line) {
		return "", pos
	}
	return line[start:pos], pos
}

// requestPath reads the path up to ' ', '\r' or '?', discards any query
// string, and percent-decodes the path if it holds an escape. '+' is
// left as is.
func requestPath(line string, pos int) (string, int, bool) {
	start := pos
	encoded := false
scan:
	for ; pos < len(line) && line[pos] != ' ' && line[pos] != '\r'; pos++ {
		switch line[pos] {
		case '?':
			if pos == start {
				return "", pos, false
			}
			break scan
		case '%':
			if pos == start {
				return "", pos, false
			}
			encoded = true
		}
	}
	if pos <= start {
		return "", pos, false
	}
	path := line[start:pos]
	for pos < len(line) && line[pos] != ' ' {
		pos++
	}
	if !encoded {
		return path, pos, true
	}
	decoded, err := http1.Unescape(path, false)
	if err != nil {
		return "", pos, false
	}
	return decoded, pos, true
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// lineReader splits text on "\r\n", "\n" or a lone "\r".
type lineReader struct {
	s   string
	pos int
}

func (l *lineReader) next() (string, bool) {
	if l.pos >= len(l.s) {
		return "", false
	}
	rest := l.s[l.pos:]
	i := strings.IndexAny(rest, "\r\n")
	if i < 0 {
		l.pos = len(l.s)
		return rest, true
	}
	l.pos += i + 1
	if rest[i] == '\r' && i+1 < len(rest) && rest[i+1] == '\n' {
		l.pos++
	}
	return rest[:i], true
}
