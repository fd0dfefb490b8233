package httpd

import (
	"net"
	"sync"
)

// conn is a net.Conn whose Close runs at most once. Deadline guards and
// the connection's own finalizer may both close it.
type conn struct {
	net.Conn
	once sync.Once
	err  error
}

func newConn(c net.Conn) *conn {
	return &conn{Conn: c}
}

func (c *conn) Close() error {
	c.once.Do(func() { c.err = c.Conn.Close() })
	return c.err
}
