package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "scrollfeed",
		Short:         "Browse a catalog in fixed-size batches",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	// Paging flags
	flags.IntP("batch-size", "b", DefaultBatchSize, "Number of items fetched per batch")
	flags.Int("prefetch", DefaultPrefetch, "Rows from the end of the list at which the dashboard fetches the next batch")
	flags.Duration("fetch-delay", 0, "Artificial delay before each fetch (demo/testing only)")
	flags.Float64("fetch-rate", 0, "Maximum batches per second (0 means unlimited)")
	flags.IntP("max-batches", "n", 0, "Stop after this many batches in non-interactive mode (0 means all)")

	// Source flags
	flags.StringP("source", "s", "", "Path to a CSV, JSON or YAML catalog (default: builtin catalog)")
	flags.String("source-type", "", "Catalog file type: 'csv', 'json' or 'yaml' (default: from extension)")

	// Output flags
	flags.Bool("dashboard", false, "Browse the catalog in an interactive terminal list")
	flags.Bool("json-output", false, "Emit JSON formatted output")
	flags.String("html-output", "", "Write the loaded items as an HTML page to the specified file path")
	flags.String("open-command", "", "Command used to open item URLs (default: platform opener)")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")

	// Threshold flags
	flags.StringSlice("threshold", nil, "Fetch thresholds (repeatable, e.g., 'fetch_duration:p99 < 50')")

	// Logging flags
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.String("log-format", "text", "Log format: 'json' or 'text'")
	flags.String("log-file", "", "Write logs to this file instead of stderr")

	// Tracing flags
	flags.String("tracing-endpoint", "", "OTLP collector endpoint (enables tracing)")
	flags.String("tracing-protocol", "grpc", "OTLP protocol: 'grpc' or 'http'")
	flags.String("tracing-service-name", "", "Service name reported with spans")
	flags.Float64("tracing-sample-rate", 1.0, "Fraction of fetches to trace (0.0 - 1.0)")
	flags.Bool("tracing-insecure", false, "Disable TLS for the OTLP exporter")
}

// displayHelp prints the help message for a command.
func displayHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Usage: %s\n\n%s\n\nFlags:\n", cmd.UseLine(), cmd.Short)
	fs := cmd.Flags()
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// applyFlagOverrides applies command-line flag values to the config, overriding
// values from the config file.
func applyFlagOverrides(cfg *Config, fs *pflag.FlagSet) error {
	if fs.Changed("batch-size") {
		val, err := fs.GetInt("batch-size")
		if err != nil {
			return err
		}
		cfg.BatchSize = val
	}
	if fs.Changed("prefetch") {
		val, err := fs.GetInt("prefetch")
		if err != nil {
			return err
		}
		cfg.Prefetch = val
	}
	if fs.Changed("fetch-delay") {
		val, err := fs.GetDuration("fetch-delay")
		if err != nil {
			return err
		}
		cfg.FetchDelay = val
	}
	if fs.Changed("fetch-rate") {
		val, err := fs.GetFloat64("fetch-rate")
		if err != nil {
			return err
		}
		cfg.FetchRate = val
	}
	if fs.Changed("max-batches") {
		val, err := fs.GetInt("max-batches")
		if err != nil {
			return err
		}
		cfg.MaxBatches = val
	}
	if fs.Changed("source") {
		val, err := fs.GetString("source")
		if err != nil {
			return err
		}
		cfg.SourcePath = strings.TrimSpace(val)
	}
	if fs.Changed("source-type") {
		val, err := fs.GetString("source-type")
		if err != nil {
			return err
		}
		cfg.SourceType = SourceType(strings.ToLower(strings.TrimSpace(val)))
	}
	if fs.Changed("dashboard") {
		val, err := fs.GetBool("dashboard")
		if err != nil {
			return err
		}
		cfg.Dashboard = val
	}
	if fs.Changed("json-output") {
		val, err := fs.GetBool("json-output")
		if err != nil {
			return err
		}
		cfg.JSONOutput = val
	}
	if fs.Changed("html-output") {
		val, err := fs.GetString("html-output")
		if err != nil {
			return err
		}
		cfg.HTMLOutput = strings.TrimSpace(val)
	}
	if fs.Changed("open-command") {
		val, err := fs.GetString("open-command")
		if err != nil {
			return err
		}
		cfg.OpenCommand = strings.TrimSpace(val)
	}
	if fs.Changed("threshold") {
		val, err := fs.GetStringSlice("threshold")
		if err != nil {
			return err
		}
		cfg.Thresholds = val
	}
	if fs.Changed("log-level") {
		val, err := fs.GetString("log-level")
		if err != nil {
			return err
		}
		cfg.Log.Level = val
	}
	if fs.Changed("log-format") {
		val, err := fs.GetString("log-format")
		if err != nil {
			return err
		}
		cfg.Log.Format = val
	}
	if fs.Changed("log-file") {
		val, err := fs.GetString("log-file")
		if err != nil {
			return err
		}
		cfg.Log.File = strings.TrimSpace(val)
	}
	return applyTracingFlagOverrides(&cfg.Tracing, fs)
}

func applyTracingFlagOverrides(tc *TracingConfig, fs *pflag.FlagSet) error {
	if fs.Changed("tracing-endpoint") {
		val, err := fs.GetString("tracing-endpoint")
		if err != nil {
			return err
		}
		tc.Endpoint = strings.TrimSpace(val)
	}
	if fs.Changed("tracing-protocol") {
		val, err := fs.GetString("tracing-protocol")
		if err != nil {
			return err
		}
		tc.Protocol = val
	}
	if fs.Changed("tracing-service-name") {
		val, err := fs.GetString("tracing-service-name")
		if err != nil {
			return err
		}
		tc.ServiceName = val
	}
	if fs.Changed("tracing-sample-rate") {
		val, err := fs.GetFloat64("tracing-sample-rate")
		if err != nil {
			return err
		}
		tc.SampleRate = val
	}
	if fs.Changed("tracing-insecure") {
		val, err := fs.GetBool("tracing-insecure")
		if err != nil {
			return err
		}
		tc.Insecure = val
	}
	return nil
}
