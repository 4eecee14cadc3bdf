package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/torosent/scrollfeed/internal/metrics"
)

type staticProgress struct {
	loaded, total int
	loading       bool
}

func (s staticProgress) Len() int      { return s.loaded }
func (s staticProgress) Total() int    { return s.total }
func (s staticProgress) Loading() bool { return s.loading }

func TestProgressReporterLine(t *testing.T) {
	collector := metrics.NewCollector()
	collector.Start()
	collector.RecordFetch(5*time.Millisecond, 5, nil)
	collector.RecordFetch(5*time.Millisecond, 5, nil)

	reporter := NewProgressReporter(staticProgress{loaded: 10, total: 22, loading: true}, collector, time.Second, nil)
	defer reporter.Stop()

	line := reporter.line()
	if !strings.HasPrefix(line, "\rLoaded: 10/22") {
		t.Errorf("line = %q", line)
	}
	if !strings.Contains(line, "Batches: 2") || !strings.HasSuffix(line, "| fetching") {
		t.Errorf("line = %q", line)
	}
}

func TestProgressReporterWrites(t *testing.T) {
	collector := metrics.NewCollector()
	collector.Start()

	var buf bytes.Buffer
	reporter := NewProgressReporter(staticProgress{loaded: 5, total: 22}, collector, 10*time.Millisecond, &buf)
	reporter.Start()
	reporter.Start()

	time.Sleep(50 * time.Millisecond)
	reporter.Stop()
	reporter.Stop()

	output := buf.String()
	if !strings.Contains(output, "Loaded: 5/22") {
		t.Errorf("progress output = %q", output)
	}
	if strings.Contains(output, "fetching") {
		t.Errorf("idle progress shows fetching: %q", output)
	}
}

func TestProgressReporterStopWithoutStart(t *testing.T) {
	reporter := NewProgressReporter(staticProgress{}, metrics.NewCollector(), time.Millisecond, nil)
	reporter.Stop()
}
