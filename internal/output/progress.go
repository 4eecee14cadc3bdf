package output

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/torosent/scrollfeed/internal/metrics"
)

// Progress is the paging state shown on the progress line.
type Progress interface {
	Len() int
	Total() int
	Loading() bool
}

// ProgressReporter displays real-time progress updates.
type ProgressReporter struct {
	progress  Progress
	collector *metrics.Collector
	ticker    *time.Ticker
	done      chan struct{}
	finished  chan struct{}
	writer    io.Writer
	active    int32
	start     time.Time
}

// NewProgressReporter creates a progress reporter that updates at the given interval.
func NewProgressReporter(progress Progress, collector *metrics.Collector, interval time.Duration, writer io.Writer) *ProgressReporter {
	if writer == nil {
		writer = io.Discard
	}
	return &ProgressReporter{
		progress:  progress,
		collector: collector,
		ticker:    time.NewTicker(interval),
		done:      make(chan struct{}),
		finished:  make(chan struct{}),
		writer:    writer,
		start:     time.Now(),
	}
}

// Start begins displaying progress updates in a background goroutine.
func (p *ProgressReporter) Start() {
	if !atomic.CompareAndSwapInt32(&p.active, 0, 1) {
		return // already running
	}
	go p.run()
}

// Stop halts progress updates.
func (p *ProgressReporter) Stop() {
	if atomic.CompareAndSwapInt32(&p.active, 1, 0) {
		close(p.done)
		p.ticker.Stop()
		<-p.finished
		return
	}
	p.ticker.Stop()
}

func (p *ProgressReporter) run() {
	defer close(p.finished)
	for {
		select {
		case <-p.ticker.C:
			fmt.Fprint(p.writer, p.line())
		case <-p.done:
			return
		}
	}
}

func (p *ProgressReporter) line() string {
	stats := p.collector.Stats(time.Since(p.start))
	line := fmt.Sprintf("\rLoaded: %d/%d | Batches: %d | Failures: %d | Items/sec: %.1f",
		p.progress.Len(), p.progress.Total(), stats.Batches, stats.Failures, stats.ItemsPerSec)
	if p.progress.Loading() {
		line += " | fetching"
	}
	return line
}
