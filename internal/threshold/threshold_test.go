package threshold

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/torosent/scrollfeed/internal/metrics"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      Threshold
		wantError bool
	}{
		{
			name:  "p99 latency",
			input: "fetch_duration:p99 < 50",
			want:  Threshold{Metric: "fetch_duration", Aggregate: "p99", Operator: "<", Value: 50, Raw: "fetch_duration:p99 < 50"},
		},
		{
			name:  "failure count without spaces",
			input: "fetch_failed:count==0",
			want:  Threshold{Metric: "fetch_failed", Aggregate: "count", Operator: "==", Value: 0, Raw: "fetch_failed:count==0"},
		},
		{
			name:  "item count trimmed",
			input: "  items:count >= 22 ",
			want:  Threshold{Metric: "items", Aggregate: "count", Operator: ">=", Value: 22, Raw: "items:count >= 22"},
		},
		{
			name:  "fractional rate",
			input: "fetch_failed:rate <= 0.25",
			want:  Threshold{Metric: "fetch_failed", Aggregate: "rate", Operator: "<=", Value: 0.25, Raw: "fetch_failed:rate <= 0.25"},
		},
		{name: "empty string", input: "", wantError: true},
		{name: "missing aggregate", input: "fetch_duration < 5", wantError: true},
		{name: "unknown metric", input: "http_req_duration:p95 < 500", wantError: true},
		{name: "unknown aggregate", input: "fetch_duration:p95 < 500", wantError: true},
		{name: "unknown operator", input: "items:count != 3", wantError: true},
		{name: "bad value", input: "items:count > 1.2.3", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantError {
				if err == nil {
					t.Fatalf("Parse(%q) error = nil, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseMultiple(t *testing.T) {
	got, err := ParseMultiple([]string{"items:count >= 1", "batches:count < 10"})
	if err != nil {
		t.Fatalf("ParseMultiple() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d thresholds, want 2", len(got))
	}

	_, err = ParseMultiple([]string{"items:count >= 1", "bogus", "nope:x < 1"})
	if err == nil {
		t.Fatal("ParseMultiple() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "threshold[1]") || !strings.Contains(err.Error(), "threshold[2]") {
		t.Errorf("error = %q, want both bad indices", err)
	}

	if got, err := ParseMultiple(nil); got != nil || err != nil {
		t.Errorf("ParseMultiple(nil) = %v, %v", got, err)
	}
}

func sampleStats() metrics.Stats {
	c := metrics.NewCollector()
	for i := 0; i < 4; i++ {
		c.RecordFetch(10*time.Millisecond, 5, nil)
	}
	c.RecordFetch(10*time.Millisecond, 2, nil)
	c.RecordFetch(time.Millisecond, 0, errors.New("offline"))
	return c.Stats(time.Second)
}

func TestEvaluate(t *testing.T) {
	stats := sampleStats()

	tests := []struct {
		raw  string
		pass bool
	}{
		{"items:count == 22", true},
		{"items:rate >= 22", true},
		{"batches:count <= 5", true},
		{"batches:count < 5", false},
		{"fetch_failed:count == 0", false},
		{"fetch_failed:rate < 0.2", true},
		{"fetch_duration:max < 100", true},
		{"fetch_duration:min > 5", false},
		{"batches:rate > 1", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			th, err := Parse(tt.raw)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			results := NewEvaluator([]Threshold{th}).Evaluate(stats)
			if len(results) != 1 {
				t.Fatalf("got %d results", len(results))
			}
			if results[0].Pass != tt.pass {
				t.Errorf("Pass = %v, want %v (%s)", results[0].Pass, tt.pass, results[0].Message)
			}
			if results[0].Raw != tt.raw {
				t.Errorf("Raw = %q", results[0].Raw)
			}
		})
	}
}

func TestEvaluateMessagesAndFailed(t *testing.T) {
	ths, err := ParseMultiple([]string{"items:count == 22", "fetch_failed:count == 0", "batches:rate > 1"})
	if err != nil {
		t.Fatalf("ParseMultiple() error = %v", err)
	}
	results := NewEvaluator(ths).Evaluate(sampleStats())

	if !strings.HasPrefix(results[0].Message, "PASS items:count == 22") {
		t.Errorf("message = %q", results[0].Message)
	}
	if !strings.HasPrefix(results[1].Message, "FAIL fetch_failed:count == 0: 1.00") {
		t.Errorf("message = %q", results[1].Message)
	}
	if !strings.HasPrefix(results[2].Message, "error: ") {
		t.Errorf("message = %q", results[2].Message)
	}
	if got := Failed(results); got != 2 {
		t.Errorf("Failed() = %d, want 2", got)
	}
}

func TestEvaluateEmpty(t *testing.T) {
	if got := NewEvaluator(nil).Evaluate(metrics.Stats{}); got != nil {
		t.Fatalf("Evaluate() = %v, want nil", got)
	}
}

func TestFailureRateWithoutFetches(t *testing.T) {
	got, err := extractFailureMetric("rate", metrics.Stats{})
	if err != nil || got != 0 {
		t.Fatalf("extractFailureMetric() = %v, %v", got, err)
	}
}

func TestCompareValues(t *testing.T) {
	tests := []struct {
		actual   float64
		op       string
		expected float64
		want     bool
	}{
		{1, "<", 2, true},
		{2, "<", 2, false},
		{2, "<=", 2, true},
		{3, ">", 2, true},
		{2, ">=", 2, true},
		{0.1 + 0.2, "==", 0.3, true},
		{1, "!=", 2, false},
	}
	for _, tt := range tests {
		if got := compareValues(tt.actual, tt.op, tt.expected); got != tt.want {
			t.Errorf("compareValues(%v %s %v) = %v, want %v", tt.actual, tt.op, tt.expected, got, tt.want)
		}
	}
}
