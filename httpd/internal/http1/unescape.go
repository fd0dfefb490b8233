package http1

import (
	"strings"
	"unicode/utf8"
)

// Unescape reverses %xy byte escapes in s in a single pass. Decoded bytes
// are collected into a pending run that is flushed through UTF-8 decoding
// (invalid sequences become U+FFFD) whenever a literal character follows
// and at the end of input. When plusAsSpace is set, '+' decodes to ' ';
// request paths leave it unset.
//
// A '%' followed by two characters that are not both hex digits is kept
// literally. A '%' with fewer than two characters left returns
// ErrTruncatedEscape.
func Unescape(s string, plusAsSpace bool) (string, error) {
	if s == "" {
		return "", nil
	}
	var out strings.Builder
	out.Grow(len(s))
	var pending []byte
	flush := func() {
		if len(pending) == 0 {
			return
		}
		out.WriteString(strings.ToValidUTF8(string(pending), string(utf8.RuneError)))
		pending = pending[:0]
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '+' && plusAsSpace:
			flush()
			out.WriteByte(' ')
			continue
		case c == '%':
			if len(s)-i < 3 {
				return "", ErrTruncatedEscape
			}
			h1, h2 := unhex(s[i+1]), unhex(s[i+2])
			if h1 >= 0 && h2 >= 0 {
				pending = append(pending, byte(h1<<4|h2))
				i += 2
				continue
			}
		}
		flush()
		out.WriteByte(c)
	}
	flush()
	return out.String(), nil
}

func unhex(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'f':
		return int(c - 'a' + 10)
	case 'A' <= c && c <= 'F':
		return int(c - 'A' + 10)
	}
	return -1
}
