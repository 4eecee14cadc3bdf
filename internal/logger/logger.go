// Package logger provides structured logging for scrollfeed on top of logrus.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

// Standard field names.
const (
	FieldComponent  = "component"
	FieldBatchID    = "batch_id"
	FieldCursor     = "cursor"
	FieldCount      = "count"
	FieldTotal      = "total"
	FieldDurationMs = "duration_ms"
	FieldItemID     = "item_id"
	FieldSource     = "source"
)

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Logger wraps logrus.Entry to provide structured logging.
type Logger struct {
	*logrus.Entry
}

// Config holds logger configuration.
type Config struct {
	Level       string    // debug, info, warn, error
	Format      string    // json, text
	Output      io.Writer // output destination
	ServiceName string    // service name for log tagging
	ReportCall  bool      // include caller file:line
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Level:       "info",
		Format:      "text",
		Output:      os.Stderr,
		ServiceName: "scrollfeed",
	}
}

// New creates a new Logger with the given configuration.
func New(cfg *Config) *Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	log := logrus.New()

	if cfg.Output != nil {
		log.SetOutput(cfg.Output)
	} else {
		log.SetOutput(os.Stderr)
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	log.SetReportCaller(cfg.ReportCall)

	if strings.EqualFold(cfg.Format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
			CallerPrettyfier: callerPrettyfier,
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:    true,
			TimestampFormat:  timestampFormat,
			CallerPrettyfier: callerPrettyfier,
		})
	}

	service := cfg.ServiceName
	if service == "" {
		service = "scrollfeed"
	}
	return &Logger{Entry: log.WithField("service", service)}
}

// NewFile creates a Logger that appends to path. The returned closer releases the file.
func NewFile(cfg *Config, path string) (*Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	c := *cfg
	c.Output = f
	return New(&c), f, nil
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return New(&Config{Level: "error", Output: io.Discard})
}

// WithFields returns a Logger with the given fields attached.
func (l *Logger) WithFields(fields Fields) *Logger {
	return &Logger{Entry: l.Entry.WithFields(logrus.Fields(fields))}
}

// WithField returns a Logger with a single field attached.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{Entry: l.Entry.WithField(key, value)}
}

// WithError returns a Logger with the error attached.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{Entry: l.Entry.WithError(err)}
}

// WithComponent tags log lines with the emitting component.
func (l *Logger) WithComponent(name string) *Logger {
	return l.WithField(FieldComponent, name)
}

func callerPrettyfier(frame *runtime.Frame) (function string, file string) {
	funcName := frame.Function
	if idx := strings.LastIndex(funcName, "/"); idx != -1 {
		funcName = funcName[idx+1:]
	}
	return funcName, filepath.Base(frame.File) + ":" + strconv.Itoa(frame.Line)
}
