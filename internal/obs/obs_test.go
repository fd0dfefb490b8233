package obs

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

func TestZeroLogger_LevelAndFields(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf).Level(zerolog.InfoLevel)
	var l Logger = ZeroLogger{L: zl}
	l = With(l, "conn", "abc")

	l.Logf(Debug, "hidden %d", 1)
	l.Logf(Warn, "shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line leaked: %s", out)
	}
	for _, want := range []string{`"level":"warn"`, `"conn":"abc"`, `"message":"shown 2"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %s in %s", want, out)
		}
	}
}

func TestWith_NopLoggerUnchanged(t *testing.T) {
	var l Logger = NopLogger{}
	if got := With(l, "k", "v"); got != l {
		t.Fatalf("With on NopLogger = %#v", got)
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want Level
		ok   bool
	}{
		{"debug", Debug, true},
		{"INFO", Info, true},
		{"warn", Warn, true},
		{"error", Error, true},
		{"", Info, false},
		{"loud", Info, false},
	}
	for _, c := range cases {
		got, ok := ParseLevel(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("ParseLevel(%q) = %v,%v want %v,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestTally(t *testing.T) {
	var m Tally
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Counter("hits", 1, Label{Key: "b", Value: "2"}, Label{Key: "a", Value: "1"})
		}()
	}
	wg.Wait()
	m.Histogram("latency", 3)
	m.Histogram("latency", 5)

	if got := m.Value("hits", Label{Key: "a", Value: "1"}, Label{Key: "b", Value: "2"}); got != 10 {
		t.Fatalf("hits=%v", got)
	}
	snap := m.Snapshot()
	if snap["hits{a=1,b=2}"] != 10 {
		t.Fatalf("snapshot=%v", snap)
	}
	if m.Value("latency_count") != 2 || m.Value("latency_sum") != 8 {
		t.Fatalf("latency=%v/%v", m.Value("latency_count"), m.Value("latency_sum"))
	}
}
