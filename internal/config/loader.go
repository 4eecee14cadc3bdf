package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Loader handles loading configuration from files and command-line arguments.
type Loader struct{}

// ErrHelpRequested is returned when the user requests help via --help flag.
var ErrHelpRequested = errors.New("help requested")

// NewLoader creates a new configuration Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Defaults returns the configuration used when neither a file nor flags set a value.
func Defaults() Config {
	return Config{
		BatchSize: DefaultBatchSize,
		Prefetch:  DefaultPrefetch,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Tracing: TracingConfig{
			Protocol:   "grpc",
			SampleRate: 1.0,
		},
	}
}

// Load parses command-line arguments and configuration files to produce a Config.
func (Loader) Load(args []string) (*Config, error) {
	cmd := newFlagCommand()
	if err := cmd.Flags().Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
		return nil, err
	}

	flagSet := cmd.Flags()
	if helpFlag := flagSet.Lookup("help"); helpFlag != nil {
		if wantsHelp, err := strconv.ParseBool(helpFlag.Value.String()); err == nil && wantsHelp {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(rest, " "))
	}

	configPath := flagSet.Lookup("config").Value.String()
	cfgViper := viper.New()
	if configPath != "" {
		cfgViper.SetConfigFile(configPath)
		if err := cfgViper.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	settings := cfgViper.AllSettings()

	cfg := Defaults()
	cfg.ConfigFile = configPath

	if err := applyConfigSettings(&cfg, settings); err != nil {
		return nil, err
	}

	if err := applyFlagOverrides(&cfg, flagSet); err != nil {
		return nil, err
	}

	cfg.SourcePath = strings.TrimSpace(cfg.SourcePath)
	cfg.SourceType = SourceType(strings.ToLower(strings.TrimSpace(string(cfg.SourceType))))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))

	return &cfg, nil
}

// applyConfigSettings applies settings from a config file to the Config struct.
func applyConfigSettings(cfg *Config, settings map[string]interface{}) error {
	if len(settings) == 0 {
		return nil
	}

	if raw, ok := lookupSetting(settings, "batchsize", "batch_size", "batch-size"); ok {
		val, err := asInt(raw)
		if err != nil {
			return fmt.Errorf("batchSize: %w", err)
		}
		cfg.BatchSize = val
	}

	if raw, ok := lookupSetting(settings, "prefetch"); ok {
		val, err := asInt(raw)
		if err != nil {
			return fmt.Errorf("prefetch: %w", err)
		}
		cfg.Prefetch = val
	}

	if raw, ok := lookupSetting(settings, "fetchdelay", "fetch_delay", "fetch-delay"); ok {
		dur, err := asDuration(raw)
		if err != nil {
			return fmt.Errorf("fetchDelay: %w", err)
		}
		cfg.FetchDelay = dur
	}

	if raw, ok := lookupSetting(settings, "fetchrate", "fetch_rate", "fetch-rate"); ok {
		val, err := asFloat64(raw)
		if err != nil {
			return fmt.Errorf("fetchRate: %w", err)
		}
		cfg.FetchRate = val
	}

	if raw, ok := lookupSetting(settings, "maxbatches", "max_batches", "max-batches"); ok {
		val, err := asInt(raw)
		if err != nil {
			return fmt.Errorf("maxBatches: %w", err)
		}
		cfg.MaxBatches = val
	}

	if raw, ok := lookupSetting(settings, "source"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("source: %w", err)
		}
		cfg.SourcePath = val
	}

	if raw, ok := lookupSetting(settings, "sourcetype", "source_type", "source-type"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("sourceType: %w", err)
		}
		cfg.SourceType = SourceType(val)
	}

	if raw, ok := lookupSetting(settings, "dashboard"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("dashboard: %w", err)
		}
		cfg.Dashboard = val
	}

	if raw, ok := lookupSetting(settings, "jsonoutput", "json_output", "json-output"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("jsonOutput: %w", err)
		}
		cfg.JSONOutput = val
	}

	if raw, ok := lookupSetting(settings, "htmloutput", "html_output", "html-output"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("htmlOutput: %w", err)
		}
		cfg.HTMLOutput = strings.TrimSpace(val)
	}

	if raw, ok := lookupSetting(settings, "opencommand", "open_command", "open-command"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("openCommand: %w", err)
		}
		cfg.OpenCommand = strings.TrimSpace(val)
	}

	if raw, ok := lookupSetting(settings, "thresholds"); ok {
		thresholds, err := asStringSlice(raw)
		if err != nil {
			return fmt.Errorf("thresholds: %w", err)
		}
		cfg.Thresholds = thresholds
	}

	if raw, ok := lookupSetting(settings, "log"); ok {
		if err := applyLogSettings(&cfg.Log, raw); err != nil {
			return fmt.Errorf("log: %w", err)
		}
	}

	if raw, ok := lookupSetting(settings, "tracing"); ok {
		if err := applyTracingSettings(&cfg.Tracing, raw); err != nil {
			return fmt.Errorf("tracing: %w", err)
		}
	}

	return nil
}

func applyLogSettings(lc *LogConfig, raw interface{}) error {
	m, err := toStringKeyMap(raw)
	if err != nil {
		return err
	}
	if v, ok := m["level"]; ok {
		if lc.Level, err = asString(v); err != nil {
			return fmt.Errorf("level: %w", err)
		}
	}
	if v, ok := m["format"]; ok {
		if lc.Format, err = asString(v); err != nil {
			return fmt.Errorf("format: %w", err)
		}
	}
	if v, ok := m["file"]; ok {
		if lc.File, err = asString(v); err != nil {
			return fmt.Errorf("file: %w", err)
		}
	}
	return nil
}

func applyTracingSettings(tc *TracingConfig, raw interface{}) error {
	m, err := toStringKeyMap(raw)
	if err != nil {
		return err
	}
	if v, ok := lookupSetting(m, "endpoint"); ok {
		if tc.Endpoint, err = asString(v); err != nil {
			return fmt.Errorf("endpoint: %w", err)
		}
	}
	if v, ok := lookupSetting(m, "protocol"); ok {
		if tc.Protocol, err = asString(v); err != nil {
			return fmt.Errorf("protocol: %w", err)
		}
	}
	if v, ok := lookupSetting(m, "servicename", "service_name", "service-name"); ok {
		if tc.ServiceName, err = asString(v); err != nil {
			return fmt.Errorf("service_name: %w", err)
		}
	}
	if v, ok := lookupSetting(m, "samplerate", "sample_rate", "sample-rate"); ok {
		if tc.SampleRate, err = asFloat64(v); err != nil {
			return fmt.Errorf("sample_rate: %w", err)
		}
	}
	if v, ok := lookupSetting(m, "insecure"); ok {
		if tc.Insecure, err = asBool(v); err != nil {
			return fmt.Errorf("insecure: %w", err)
		}
	}
	return nil
}
