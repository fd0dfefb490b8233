package http1

import (
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSendTimeout(t *testing.T) {
	base := 5 * time.Second
	cases := []struct {
		hasBody bool
		length  int64
		want    time.Duration
	}{
		{false, 0, base},
		{false, 1 << 20, base},
		{true, 0, base},
		{true, 1, base},
		{true, 1024, base},
		{true, 1025, 2 * base},
		{true, 10 * 1024, 10 * base},
	}
	for _, c := range cases {
		if got := SendTimeout(base, c.hasBody, c.length); got != c.want {
			t.Fatalf("SendTimeout(%v, %d) = %v, want %v", c.hasBody, c.length, got, c.want)
		}
	}
	if got := SendTimeout(time.Hour, true, 1<<62); got <= 0 {
		t.Fatalf("overflowed: %v", got)
	}
}

func TestAppendHead(t *testing.T) {
	fields := [][2]string{{"Server", "staticd"}, {"X-Evil", "a\r\nInjected: 1"}}
	got := string(AppendHead(nil, "HTTP/1.1", "200 OK", fields, "\n"))
	want := "HTTP/1.1 200 OK\nServer: staticd\nX-Evil: aInjected: 1\n\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriter_HeadAndBody(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "body.txt")
	body := strings.Repeat("z", 3*CopyBufferSize/2)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	srv, cli := net.Pipe()
	got := make(chan string, 1)
	go func() {
		b, _ := io.ReadAll(cli)
		got <- string(b)
	}()
	w := &Writer{Conn: srv, TimeoutPerKB: time.Second}
	if err := w.WriteResponse([]byte("HEAD\r\n\r\n"), path, int64(len(body))); err != nil {
		t.Fatalf("WriteResponse: %v", err)
	}
	srv.Close()
	if s := <-got; s != "HEAD\r\n\r\n"+body {
		t.Fatalf("received %d bytes", len(s))
	}
}

func TestWriter_HeadOnly(t *testing.T) {
	srv, cli := net.Pipe()
	got := make(chan string, 1)
	go func() {
		b, _ := io.ReadAll(cli)
		got <- string(b)
	}()
	w := &Writer{Conn: srv}
	if err := w.WriteResponse([]byte("H\n\n"), "", 10); err != nil {
		t.Fatalf("WriteResponse: %v", err)
	}
	srv.Close()
	if s := <-got; s != "H\n\n" {
		t.Fatalf("received %q", s)
	}
}

func TestWriter_StalledPeerTimesOut(t *testing.T) {
	srv, cli := net.Pipe()
	defer cli.Close()
	w := &Writer{Conn: srv, TimeoutPerKB: 50 * time.Millisecond}
	err := w.WriteResponse([]byte("nobody reads this"), "", 0)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err=%v, want ErrTimeout", err)
	}
}

func TestWriter_MissingBodyFile(t *testing.T) {
	srv, cli := net.Pipe()
	go func() { _, _ = io.Copy(io.Discard, cli) }()
	defer srv.Close()
	w := &Writer{Conn: srv, TimeoutPerKB: time.Second}
	err := w.WriteResponse([]byte("H\r\n\r\n"), filepath.Join(t.TempDir(), "gone"), 1)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err=%v", err)
	}
}
