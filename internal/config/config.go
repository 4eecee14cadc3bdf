package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/torosent/scrollfeed/internal/threshold"
)

// SourceType names the on-disk format of a catalog file.
type SourceType string

const (
	SourceTypeAuto SourceType = ""
	SourceTypeCSV  SourceType = "csv"
	SourceTypeJSON SourceType = "json"
	SourceTypeYAML SourceType = "yaml"
)

const (
	DefaultBatchSize = 5
	DefaultPrefetch  = 2
)

type Config struct {
	BatchSize   int           `mapstructure:"batch_size"`
	Prefetch    int           `mapstructure:"prefetch"`
	FetchDelay  time.Duration `mapstructure:"fetch_delay"`
	FetchRate   float64       `mapstructure:"fetch_rate"`
	SourcePath  string        `mapstructure:"source"`
	SourceType  SourceType    `mapstructure:"source_type"`
	MaxBatches  int           `mapstructure:"max_batches"`
	Dashboard   bool          `mapstructure:"dashboard"`
	JSONOutput  bool          `mapstructure:"json_output"`
	HTMLOutput  string        `mapstructure:"html_output"`
	OpenCommand string        `mapstructure:"open_command"`
	Thresholds  []string      `mapstructure:"thresholds"`
	ConfigFile  string        `mapstructure:"-"`
	Log         LogConfig     `mapstructure:"log"`
	Tracing     TracingConfig `mapstructure:"tracing"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or text
	File   string `mapstructure:"file"`   // empty writes to stderr
}

type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`     // OTLP collector address
	Protocol    string  `mapstructure:"protocol"`     // "grpc" (default) or "http"
	ServiceName string  `mapstructure:"service_name"` // defaults to OTEL_SERVICE_NAME or "scrollfeed"
	SampleRate  float64 `mapstructure:"sample_rate"`  // 0.0 - 1.0
	Insecure    bool    `mapstructure:"insecure"`
}

// Enabled reports whether any tracing setting was provided.
func (t TracingConfig) Enabled() bool {
	return strings.TrimSpace(t.Endpoint) != "" || strings.TrimSpace(t.ServiceName) != ""
}

type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

func (c Config) Validate() error {
	var issues []string

	if c.BatchSize < 1 {
		issues = append(issues, "batch_size must be at least 1")
	}
	if c.Prefetch < 0 {
		issues = append(issues, "prefetch must be >= 0")
	}
	if c.FetchDelay < 0 {
		issues = append(issues, "fetch_delay must be >= 0")
	}
	if c.FetchRate < 0 {
		issues = append(issues, "fetch_rate must be >= 0")
	}
	if c.MaxBatches < 0 {
		issues = append(issues, "max_batches must be >= 0")
	}

	switch c.SourceType {
	case SourceTypeAuto, SourceTypeCSV, SourceTypeJSON, SourceTypeYAML:
	default:
		issues = append(issues, fmt.Sprintf("source_type must be csv, json or yaml (got %q)", c.SourceType))
	}
	if c.SourceType != SourceTypeAuto && strings.TrimSpace(c.SourcePath) == "" {
		issues = append(issues, "source_type requires source")
	}

	if _, err := threshold.ParseMultiple(c.Thresholds); err != nil {
		issues = append(issues, err.Error())
	}

	if c.Dashboard && c.JSONOutput {
		issues = append(issues, "dashboard and json_output cannot be combined")
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		issues = append(issues, fmt.Sprintf("log.level %q is not supported", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "json", "text":
	default:
		issues = append(issues, fmt.Sprintf("log.format must be json or text (got %q)", c.Log.Format))
	}

	switch strings.ToLower(c.Tracing.Protocol) {
	case "", "grpc", "http":
	default:
		issues = append(issues, fmt.Sprintf("tracing.protocol must be grpc or http (got %q)", c.Tracing.Protocol))
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		issues = append(issues, "tracing.sample_rate must be between 0.0 and 1.0")
	}

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}
