package obs

import (
	"sort"
	"strings"
	"sync"
)

// Label is a key/value pair attached to measurements.
type Label struct {
	Key   string
	Value string
}

// Meter is a very small interface for emitting counters/histograms.
// Implementations may no-op or bridge to a metrics system.
type Meter interface {
	Counter(name string, value float64, labels ...Label)
	Histogram(name string, value float64, labels ...Label)
}

// NopMeter is a Meter that discards all measurements.
type NopMeter struct{}

func (NopMeter) Counter(name string, value float64, labels ...Label)   {}
func (NopMeter) Histogram(name string, value float64, labels ...Label) {}

// Tally is an in-process Meter keeping running totals. Histograms are
// reduced to name_count and name_sum series. Safe for concurrent use.
type Tally struct {
	mu     sync.Mutex
	series map[string]float64
}

func (t *Tally) Counter(name string, value float64, labels ...Label) {
	t.add(seriesKey(name, labels), value)
}

func (t *Tally) Histogram(name string, value float64, labels ...Label) {
	t.add(seriesKey(name+"_count", labels), 1)
	t.add(seriesKey(name+"_sum", labels), value)
}

// Value returns the current total of one series.
func (t *Tally) Value(name string, labels ...Label) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.series[seriesKey(name, labels)]
}

// Snapshot copies every series, keyed as name{k=v,...}.
func (t *Tally) Snapshot() map[string]float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]float64, len(t.series))
	for k, v := range t.series {
		out[k] = v
	}
	return out
}

func (t *Tally) add(key string, v float64) {
	t.mu.Lock()
	if t.series == nil {
		t.series = make(map[string]float64)
	}
	t.series[key] += v
	t.mu.Unlock()
}

func seriesKey(name string, labels []Label) string {
	if len(labels) == 0 {
		return name
	}
	ls := make([]Label, len(labels))
	copy(ls, labels)
	sort.Slice(ls, func(i, j int) bool { return ls[i].Key < ls[j].Key })
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('{')
	for i, l := range ls {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(l.Key)
		sb.WriteByte('=')
		sb.WriteString(l.Value)
	}
	sb.WriteByte('}')
	return sb.String()
}
