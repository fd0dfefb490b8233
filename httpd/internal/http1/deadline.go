package http1

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"
)

// deadline closes a transport once d elapses, regardless of progress.
// A blocked Read or Write on the transport then returns an error, which
// wrap reports as ErrTimeout.
type deadline struct {
	t     *time.Timer
	fired atomic.Bool
}

func guard(c io.Closer, d time.Duration) *deadline {
	g := &deadline{}
	g.t = time.AfterFunc(d, func() {
		g.fired.Store(true)
		_ = c.Close()
	})
	return g
}

func (g *deadline) stop() {
	g.t.Stop()
}

func (g *deadline) expired() bool {
	return g.fired.Load()
}

// wrap prefers ErrTimeout over whatever error the forced close produced.
func (g *deadline) wrap(op string, err error) error {
	if g.expired() {
		return fmt.Errorf("%s: %w", op, ErrTimeout)
	}
	return fmt.Errorf("%s: %w", op, err)
}
