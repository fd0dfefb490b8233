package httpd

import (
	"errors"
	"fmt"
	"net"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	"dqx0.com/go/staticd/httpd/internal/http1"
	"dqx0.com/go/staticd/internal/obs"
)

// Server accepts connections and answers one request on each.
type Server struct {
	Settings        *Settings
	MIMETypes       MIMETable // DefaultMIMETypes if nil
	Pipeline        []Stage   // DefaultPipeline if nil
	MaxRequestBytes int       // http1.DefaultMaxBytes if zero

	Logger obs.Logger
	Meter  obs.Meter

	mu       sync.Mutex
	listener net.Listener
	closed   bool
}

func (s *Server) ListenAndServe() error {
	if s.Settings == nil {
		return fmt.Errorf("%w: nil settings", ErrInvalidSettings)
	}
	ln, err := net.Listen("tcp", s.Settings.Addr())
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts on l until Close is called, handling every connection in
// its own goroutine. l is always closed on return. After Close, Serve
// returns ErrServerClosed.
func (s *Server) Serve(l net.Listener) error {
	defer l.Close()
	if s.Settings == nil {
		return fmt.Errorf("%w: nil settings", ErrInvalidSettings)
	}
	if !s.track(l) {
		return ErrServerClosed
	}
	s.logf(obs.Info, "server started on %s, root %s", l.Addr(), s.Settings.Root)

	var backoff time.Duration
	for {
		c, err := l.Accept()
		if err != nil {
			if s.isClosed() {
				return ErrServerClosed
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			if backoff == 0 {
				backoff = 5 * time.Millisecond
			} else {
				backoff *= 2
			}
			if backoff > time.Second {
				backoff = time.Second
			}
			s.logf(obs.Warn, "accept error: %v; retrying in %v", err, backoff)
			time.Sleep(backoff)
			continue
		}
		backoff = 0
		s.counter("httpd_connections_total", 1)
		go s.serveConn(c)
	}
}

// Close stops the accept loop and releases the listening socket.
// Connections already accepted finish on their own deadlines.
func (s *Server) Close() error {
	s.mu.Lock()
	s.closed = true
	ln := s.listener
	s.mu.Unlock()
	if ln == nil {
		return nil
	}
	if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

// Addr returns the listener address once Serve has started, else nil.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) track(l net.Listener) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.listener = l
	return true
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Server) serveConn(rc net.Conn) {
	c := newConn(rc)
	lg := obs.With(s.logger(), "conn", genID())
	lg.Logf(obs.Debug, "begin request from %s", rc.RemoteAddr())
	defer func() {
		if p := recover(); p != nil {
			lg.Logf(obs.Error, "panic serving connection: %v\n%s", p, debug.Stack())
			s.counter("httpd_connection_errors_total", 1, obs.Label{Key: "stage", Value: "panic"})
		}
		if err := c.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			lg.Logf(obs.Warn, "close connection: %v", err)
		}
		lg.Logf(obs.Debug, "connection close")
	}()

	pipeline := s.pipeline()
	rd := &http1.Reader{Conn: c, Timeout: s.Settings.ReadTimeout, MaxBytes: s.MaxRequestBytes}
	wr := &http1.Writer{Conn: c, TimeoutPerKB: s.Settings.WriteTimeoutPerKB}
	for {
		keep, err := s.serveOne(lg, rd, wr, pipeline)
		if err != nil || !keep {
			return
		}
	}
}

// serveOne runs a single read, pipeline, write iteration and reports
// whether the connection should be kept for another.
func (s *Server) serveOne(lg obs.Logger, rd *http1.Reader, wr *http1.Writer, pipeline []Stage) (bool, error) {
	start := time.Now()
	raw, err := rd.ReadRequest()
	req, resp := NewRequest(raw), NewResponse()
	switch {
	case err == nil:
		lg.Logf(obs.Debug, "request:\n%s", raw)
	case errors.Is(err, http1.ErrEmptyRequest):
		lg.Logf(obs.Debug, "peer closed without a request")
		return false, err
	case errors.Is(err, http1.ErrRequestTooLarge):
		// still answered, unlike transport failures
		lg.Logf(obs.Warn, "read request: %v", err)
		s.counter("httpd_connection_errors_total", 1, obs.Label{Key: "stage", Value: "read"})
		resp.Fail(StatusRejected)
		resp.CRLF = true
	default:
		lg.Logf(obs.Warn, "read request: %v", err)
		s.counter("httpd_connection_errors_total", 1, obs.Label{Key: "stage", Value: "read"})
		return false, err
	}
	for _, st := range pipeline {
		if err := st.Apply(req, resp); err != nil {
			lg.Logf(obs.Error, "pipeline stage %T: %v", st, err)
			s.counter("httpd_connection_errors_total", 1, obs.Label{Key: "stage", Value: "pipeline"})
			return false, err
		}
	}
	s.counter("httpd_requests_total", 1, obs.Label{Key: "method", Value: req.Method.String()})
	lg.Logf(obs.Debug, "response headers:\n%s", resp.Head)

	if err := wr.WriteResponse(resp.Head, resp.BodyPath, resp.ContentLength); err != nil {
		lg.Logf(obs.Warn, "send response: %v", err)
		s.counter("httpd_connection_errors_total", 1, obs.Label{Key: "stage", Value: "write"})
		return false, err
	}

	ms := time.Since(start).Milliseconds()
	status := strconv.Itoa(int(resp.Status))
	s.counter("httpd_responses_total", 1, obs.Label{Key: "status", Value: status})
	s.histogram("httpd_response_duration_ms", float64(ms), obs.Label{Key: "status", Value: status})
	lg.Logf(obs.Info, "%s %q %s length=%d in %d ms", req.Method, req.Path, resp.Status, resp.ContentLength, ms)
	return resp.KeepAlive, nil
}

func (s *Server) pipeline() []Stage {
	if s.Pipeline != nil {
		return s.Pipeline
	}
	return DefaultPipeline(s.Settings, s.MIMETypes)
}

func (s *Server) logger() obs.Logger {
	if s.Logger == nil {
		return obs.NopLogger{}
	}
	return s.Logger
}

func (s *Server) logf(level obs.Level, format string, args ...interface{}) {
	s.logger().Logf(level, format, args...)
}

func (s *Server) counter(name string, value float64, labels ...obs.Label) {
	s.meter().Counter(name, value, labels...)
}

func (s *Server) histogram(name string, value float64, labels ...obs.Label) {
	s.meter().Histogram(name, value, labels...)
}

func (s *Server) meter() obs.Meter {
	if s.Meter != nil {
		return s.Meter
	}
	return obs.NopMeter{}
}
