// Package threshold evaluates pass/fail assertions against fetch statistics,
// for example "fetch_duration:p99 < 50" or "fetch_failed:count == 0".
package threshold

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/torosent/scrollfeed/internal/metrics"
)

// Supported metric names.
const (
	MetricFetchDuration = "fetch_duration" // latency in ms
	MetricFetchFailed   = "fetch_failed"
	MetricItems         = "items"
	MetricBatches       = "batches"
)

var (
	thresholdPattern = regexp.MustCompile(`^([a-z_]+):([a-z0-9]+)\s*([<>=!]+)\s*([0-9.]+)$`)

	validMetrics    = []string{MetricFetchDuration, MetricFetchFailed, MetricItems, MetricBatches}
	validAggregates = []string{"p50", "p90", "p99", "avg", "min", "max", "rate", "count"}
	validOperators  = []string{"<", "<=", ">", ">=", "=="}
)

// Threshold represents a performance assertion that can pass or fail.
type Threshold struct {
	Metric    string  // e.g., "fetch_duration", "fetch_failed"
	Aggregate string  // e.g., "p99", "avg", "count", "rate"
	Operator  string  // e.g., "<", "<=", ">", ">=", "=="
	Value     float64 // The threshold value to compare against
	Raw       string  // Original threshold string for display
}

// Result represents the outcome of evaluating a threshold.
type Result struct {
	Threshold Threshold `json:"-"`
	Raw       string    `json:"threshold"`
	Actual    float64   `json:"actual"`
	Pass      bool      `json:"pass"`
	Message   string    `json:"message"`
}

// Evaluator evaluates thresholds against collected metrics.
type Evaluator struct {
	thresholds []Threshold
}

// NewEvaluator creates a new threshold evaluator.
func NewEvaluator(thresholds []Threshold) *Evaluator {
	return &Evaluator{
		thresholds: thresholds,
	}
}

// Evaluate checks all thresholds against the provided stats.
func (e *Evaluator) Evaluate(stats metrics.Stats) []Result {
	if len(e.thresholds) == 0 {
		return nil
	}

	results := make([]Result, 0, len(e.thresholds))
	for _, t := range e.thresholds {
		results = append(results, evaluateOne(t, stats))
	}
	return results
}

// Failed counts the results that did not pass.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Pass {
			n++
		}
	}
	return n
}

func evaluateOne(t Threshold, stats metrics.Stats) Result {
	actual, err := extractMetricValue(t, stats)
	if err != nil {
		return Result{
			Threshold: t,
			Raw:       t.Raw,
			Message:   fmt.Sprintf("error: %v", err),
		}
	}

	pass := compareValues(actual, t.Operator, t.Value)
	status := "PASS"
	if !pass {
		status = "FAIL"
	}

	return Result{
		Threshold: t,
		Raw:       t.Raw,
		Actual:    actual,
		Pass:      pass,
		Message:   fmt.Sprintf("%s %s: %.2f %s %.2f", status, t.Raw, actual, t.Operator, t.Value),
	}
}

// Parse parses a threshold string into a Threshold struct.
// Supported formats:
// - "fetch_duration:p99 < 50"    (latency percentile in ms)
// - "fetch_duration:avg < 20"    (average latency in ms)
// - "fetch_failed:count == 0"    (failed fetches)
// - "fetch_failed:rate < 0.1"    (failures per fetch attempt)
// - "items:count >= 22"          (items delivered)
// - "items:rate > 100"           (items per second)
// - "batches:count <= 5"         (batches applied)
func Parse(s string) (Threshold, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Threshold{}, fmt.Errorf("empty threshold string")
	}

	matches := thresholdPattern.FindStringSubmatch(s)
	if matches == nil {
		return Threshold{}, fmt.Errorf("invalid threshold format: %q (expected format: metric:aggregate operator value, e.g., 'fetch_duration:p99 < 50')", s)
	}

	metric := matches[1]
	aggregate := matches[2]
	operator := matches[3]
	valueStr := matches[4]

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return Threshold{}, fmt.Errorf("invalid threshold value %q: %v", valueStr, err)
	}

	if !slices.Contains(validMetrics, metric) {
		return Threshold{}, fmt.Errorf("unsupported metric: %q (supported: %s)", metric, strings.Join(validMetrics, ", "))
	}
	if !slices.Contains(validAggregates, aggregate) {
		return Threshold{}, fmt.Errorf("unsupported aggregate: %q (supported: %s)", aggregate, strings.Join(validAggregates, ", "))
	}
	if !slices.Contains(validOperators, operator) {
		return Threshold{}, fmt.Errorf("unsupported operator: %q (supported: %s)", operator, strings.Join(validOperators, ", "))
	}

	return Threshold{
		Metric:    metric,
		Aggregate: aggregate,
		Operator:  operator,
		Value:     value,
		Raw:       s,
	}, nil
}

// ParseMultiple parses multiple threshold strings.
func ParseMultiple(thresholds []string) ([]Threshold, error) {
	if len(thresholds) == 0 {
		return nil, nil
	}

	result := make([]Threshold, 0, len(thresholds))
	var errs []string

	for i, s := range thresholds {
		t, err := Parse(s)
		if err != nil {
			errs = append(errs, fmt.Sprintf("threshold[%d]: %v", i, err))
			continue
		}
		result = append(result, t)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("threshold parsing errors: %s", strings.Join(errs, "; "))
	}

	return result, nil
}

func extractMetricValue(t Threshold, stats metrics.Stats) (float64, error) {
	switch t.Metric {
	case MetricFetchDuration:
		return extractLatencyMetric(t.Aggregate, stats)
	case MetricFetchFailed:
		return extractFailureMetric(t.Aggregate, stats)
	case MetricItems:
		return extractItemMetric(t.Aggregate, stats)
	case MetricBatches:
		if t.Aggregate != "count" {
			return 0, fmt.Errorf("unsupported aggregate %q for batches (use 'count')", t.Aggregate)
		}
		return float64(stats.Batches), nil
	default:
		return 0, fmt.Errorf("unknown metric: %s", t.Metric)
	}
}

func extractLatencyMetric(aggregate string, stats metrics.Stats) (float64, error) {
	switch aggregate {
	case "p50":
		return stats.P50LatencyMs, nil
	case "p90":
		return stats.P90LatencyMs, nil
	case "p99":
		return stats.P99LatencyMs, nil
	case "avg":
		return stats.MeanLatencyMs, nil
	case "min":
		return stats.MinLatencyMs, nil
	case "max":
		return stats.MaxLatencyMs, nil
	default:
		return 0, fmt.Errorf("unsupported aggregate %q for fetch_duration", aggregate)
	}
}

func extractFailureMetric(aggregate string, stats metrics.Stats) (float64, error) {
	switch aggregate {
	case "count":
		return float64(stats.Failures), nil
	case "rate":
		if stats.Fetches == 0 {
			return 0, nil
		}
		return float64(stats.Failures) / float64(stats.Fetches), nil
	default:
		return 0, fmt.Errorf("unsupported aggregate %q for fetch_failed (use 'count' or 'rate')", aggregate)
	}
}

func extractItemMetric(aggregate string, stats metrics.Stats) (float64, error) {
	switch aggregate {
	case "count":
		return float64(stats.Items), nil
	case "rate":
		return stats.ItemsPerSec, nil
	default:
		return 0, fmt.Errorf("unsupported aggregate %q for items (use 'count' or 'rate')", aggregate)
	}
}

func compareValues(actual float64, operator string, expected float64) bool {
	// Handle floating point comparison with small epsilon
	epsilon := 1e-9

	switch operator {
	case "<":
		return actual < expected
	case "<=":
		return actual <= expected || math.Abs(actual-expected) < epsilon
	case ">":
		return actual > expected
	case ">=":
		return actual >= expected || math.Abs(actual-expected) < epsilon
	case "==":
		return math.Abs(actual-expected) < epsilon
	default:
		return false
	}
}
