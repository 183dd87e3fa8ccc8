package report

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	minLatencyUs = 1
	maxLatencyUs = 60_000_000
)

// Latency is a histogram of request durations. It satisfies the http
// client's Recorder interface.
type Latency struct {
	mu sync.Mutex
	// microseconds, 1us to 60s, 3 significant digits
	histogram *hdrhistogram.Histogram
}

type LatencySummary struct {
	Count int64         `json:"count"`
	Min   time.Duration `json:"min"`
	Mean  time.Duration `json:"mean"`
	P50   time.Duration `json:"p50"`
	P95   time.Duration `json:"p95"`
	P99   time.Duration `json:"p99"`
	Max   time.Duration `json:"max"`
}

func NewLatency() *Latency {
	return &Latency{
		histogram: hdrhistogram.New(minLatencyUs, maxLatencyUs, 3),
	}
}

// Record adds one request duration, clamped to the histogram range.
func (l *Latency) Record(d time.Duration) {
	latencyUs := d.Microseconds()
	if latencyUs < minLatencyUs {
		latencyUs = minLatencyUs
	}
	if latencyUs > maxLatencyUs {
		latencyUs = maxLatencyUs
	}

	l.mu.Lock()
	_ = l.histogram.RecordValue(latencyUs)
	l.mu.Unlock()
}

func (l *Latency) Summary() LatencySummary {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.histogram.TotalCount() == 0 {
		return LatencySummary{}
	}

	us := func(v int64) time.Duration { return time.Duration(v) * time.Microsecond }
	return LatencySummary{
		Count: l.histogram.TotalCount(),
		Min:   us(l.histogram.Min()),
		Mean:  us(int64(l.histogram.Mean())),
		P50:   us(l.histogram.ValueAtQuantile(50)),
		P95:   us(l.histogram.ValueAtQuantile(95)),
		P99:   us(l.histogram.ValueAtQuantile(99)),
		Max:   us(l.histogram.Max()),
	}
}

// Reset discards every recorded duration.
func (l *Latency) Reset() {
	l.mu.Lock()
	l.histogram.Reset()
	l.mu.Unlock()
}
