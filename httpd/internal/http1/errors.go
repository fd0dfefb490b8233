package http1

import "errors"

var (
	ErrTimeout         = errors.New("http1: timeout")
	ErrEmptyRequest    = errors.New("http1: connection closed before request")
	ErrRequestTooLarge = errors.New("http1: request too large")
	ErrTruncatedEscape = errors.New("http1: truncated percent escape")
)
