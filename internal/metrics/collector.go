package metrics

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Collector records per-fetch metrics in a thread-safe manner.
type Collector struct {
	mu           sync.Mutex
	hist         *hdrhistogram.Histogram
	batches      int64
	failures     int64
	items        int64
	minLatency   time.Duration
	maxLatency   time.Duration
	sumLatency   time.Duration
	errorsByType map[string]int64
	start        time.Time
}

// Stats represents aggregated fetch metrics.
type Stats struct {
	Fetches     int64         `json:"fetches"`
	Batches     int64         `json:"batches"`
	Failures    int64         `json:"failures"`
	Items       int64         `json:"items"`
	MinLatency  time.Duration `json:"-"`
	MaxLatency  time.Duration `json:"-"`
	MeanLatency time.Duration `json:"-"`
	P50Latency  time.Duration `json:"-"`
	P90Latency  time.Duration `json:"-"`
	P99Latency  time.Duration `json:"-"`
	Duration    time.Duration `json:"-"`
	ItemsPerSec float64       `json:"items_per_sec"`

	// JSON-friendly millisecond fields.
	MinLatencyMs  float64          `json:"min_latency_ms"`
	MaxLatencyMs  float64          `json:"max_latency_ms"`
	MeanLatencyMs float64          `json:"mean_latency_ms"`
	P50LatencyMs  float64          `json:"p50_latency_ms"`
	P90LatencyMs  float64          `json:"p90_latency_ms"`
	P99LatencyMs  float64          `json:"p99_latency_ms"`
	DurationMs    float64          `json:"duration_ms"`
	Errors        map[string]int64 `json:"errors,omitempty"`
}

// ErrorCount is a single error-type bucket.
type ErrorCount struct {
	Type  string
	Count int64
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	// Track latencies from 1µs up to 60s with 3 significant figures.
	h := hdrhistogram.New(1, 60_000_000, 3)
	return &Collector{
		hist:         h,
		errorsByType: make(map[string]int64),
		start:        time.Now(),
	}
}

// Start resets the reference time used for rate calculations.
func (c *Collector) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.start = time.Now()
}

// Elapsed returns the time since Start.
func (c *Collector) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Since(c.start)
}

// RecordFetch records a single fetch's latency, delivered item count and error state.
func (c *Collector) RecordFetch(latency time.Duration, items int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if latency > 0 {
		us := latency.Microseconds()
		if us < c.hist.LowestTrackableValue() {
			us = c.hist.LowestTrackableValue()
		}
		if us > c.hist.HighestTrackableValue() {
			us = c.hist.HighestTrackableValue()
		}
		_ = c.hist.RecordValue(us)
	}
	c.sumLatency += latency

	if c.minLatency == 0 || latency < c.minLatency {
		c.minLatency = latency
	}
	if latency > c.maxLatency {
		c.maxLatency = latency
	}

	if err != nil {
		c.failures++
		c.errorsByType[errorType(err)]++
		return
	}
	c.batches++
	if items > 0 {
		c.items += int64(items)
	}
}

func errorType(err error) string {
	var unwrapped error = err
	for {
		next := errors.Unwrap(unwrapped)
		if next == nil {
			break
		}
		unwrapped = next
	}
	name := fmt.Sprintf("%T", unwrapped)
	if len(name) > 30 {
		name = name[len(name)-30:]
	}
	if unwrapped.Error() != "" && name == "*errors.errorString" {
		return unwrapped.Error()
	}
	return name
}

// Stats computes and returns current aggregated statistics.
func (c *Collector) Stats(elapsed time.Duration) Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.batches + c.failures
	stats := Stats{
		Fetches:    total,
		Batches:    c.batches,
		Failures:   c.failures,
		Items:      c.items,
		MinLatency: c.minLatency,
		MaxLatency: c.maxLatency,
	}

	if total > 0 {
		stats.MeanLatency = time.Duration(int64(c.sumLatency) / total)
	}

	if c.hist.TotalCount() > 0 {
		stats.P50Latency = time.Duration(c.hist.ValueAtQuantile(50)) * time.Microsecond
		stats.P90Latency = time.Duration(c.hist.ValueAtQuantile(90)) * time.Microsecond
		stats.P99Latency = time.Duration(c.hist.ValueAtQuantile(99)) * time.Microsecond
	}

	stats.MinLatencyMs = float64(stats.MinLatency) / float64(time.Millisecond)
	stats.MaxLatencyMs = float64(stats.MaxLatency) / float64(time.Millisecond)
	stats.MeanLatencyMs = float64(stats.MeanLatency) / float64(time.Millisecond)
	stats.P50LatencyMs = float64(stats.P50Latency) / float64(time.Millisecond)
	stats.P90LatencyMs = float64(stats.P90Latency) / float64(time.Millisecond)
	stats.P99LatencyMs = float64(stats.P99Latency) / float64(time.Millisecond)

	stats.Duration = elapsed
	stats.DurationMs = float64(elapsed) / float64(time.Millisecond)
	if elapsed > 0 && c.items > 0 {
		stats.ItemsPerSec = float64(c.items) / elapsed.Seconds()
	}

	if len(c.errorsByType) > 0 {
		stats.Errors = make(map[string]int64, len(c.errorsByType))
		for k, v := range c.errorsByType {
			stats.Errors[k] = v
		}
	}

	return stats
}

// SortedErrors returns the error buckets ordered by count, then name.
func (s Stats) SortedErrors() []ErrorCount {
	out := make([]ErrorCount, 0, len(s.Errors))
	for k, v := range s.Errors {
		out = append(out, ErrorCount{Type: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Type < out[j].Type
		}
		return out[i].Count > out[j].Count
	})
	return out
}
