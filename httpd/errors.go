package httpd

import "errors"

var (
	ErrServerClosed    = errors.New("httpd: server closed")
	ErrInvalidSettings = errors.New("httpd: invalid settings")
	ErrNoStatus        = errors.New("httpd: response has no status")
)
