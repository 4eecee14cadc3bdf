package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/torosent/scrollfeed/internal/actions"
	"github.com/torosent/scrollfeed/internal/catalog"
	"github.com/torosent/scrollfeed/internal/config"
	"github.com/torosent/scrollfeed/internal/dashboard"
	"github.com/torosent/scrollfeed/internal/feeder"
	"github.com/torosent/scrollfeed/internal/logger"
	"github.com/torosent/scrollfeed/internal/metrics"
	"github.com/torosent/scrollfeed/internal/output"
	"github.com/torosent/scrollfeed/internal/paginator"
	"github.com/torosent/scrollfeed/internal/threshold"
	"github.com/torosent/scrollfeed/internal/tracing"
)

const (
	progressInterval = time.Second
	shutdownTimeout  = 5 * time.Second
	exportTimeout    = 10 * time.Second
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, closeLog, err := newLogger(cfg.Log, cfg.Dashboard, stderr)
	if err != nil {
		return err
	}
	defer closeLog.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	provider, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("tracing shutdown failed")
		}
	}()

	src, sourceName, err := loadSource(cfg)
	if err != nil {
		return err
	}
	log.WithFields(logger.Fields{
		logger.FieldSource: sourceName,
		logger.FieldTotal:  src.Count(),
	}).Info("catalog loaded")

	collector := metrics.NewCollector()
	pager, err := paginator.New(src, paginator.Options{
		BatchSize: cfg.BatchSize,
		Delay:     cfg.FetchDelay,
		Limiter:   newLimiter(cfg.FetchRate),
		Tracer:    provider.Tracer(),
		Recorder:  collector,
		Logger:    log,
	})
	if err != nil {
		return err
	}
	unsubscribe := pager.Subscribe(logEvents(log))
	defer unsubscribe()

	collector.Start()
	if cfg.Dashboard {
		err = runDashboard(ctx, cancel, cfg, pager, collector, log, sourceName)
	} else {
		err = page(ctx, cfg, pager, collector, stdout, stderr)
	}
	if err != nil {
		return err
	}

	summary := output.Summary{
		Loaded:    pager.Len(),
		Total:     pager.Total(),
		BatchSize: pager.BatchSize(),
		Complete:  pager.Len() == pager.Total(),
		Stats:     collector.Stats(collector.Elapsed()),
	}
	thresholds, err := threshold.ParseMultiple(cfg.Thresholds)
	if err != nil {
		return err
	}
	summary.Thresholds = threshold.NewEvaluator(thresholds).Evaluate(summary.Stats)

	if cfg.JSONOutput {
		summary.Items = pager.Visible()
		if err := output.PrintJSONReport(stdout, summary); err != nil {
			return err
		}
	} else {
		output.PrintReport(stdout, summary)
	}

	if cfg.HTMLOutput != "" {
		if err := exportHTML(cfg.HTMLOutput, pager, summary.Stats); err != nil {
			return err
		}
		log.WithField("path", cfg.HTMLOutput).Info("html export written")
	}

	if failed := threshold.Failed(summary.Thresholds); failed > 0 {
		return fmt.Errorf("%d of %d thresholds failed", failed, len(summary.Thresholds))
	}
	return nil
}

func newLogger(cfg config.LogConfig, interactive bool, stderr io.Writer) (*logger.Logger, io.Closer, error) {
	lc := &logger.Config{Level: cfg.Level, Format: cfg.Format, Output: stderr, ServiceName: "scrollfeed"}
	if cfg.File != "" {
		return logger.NewFile(lc, cfg.File)
	}
	if interactive {
		// stderr belongs to the terminal UI
		return logger.Discard(), nopCloser{}, nil
	}
	return logger.New(lc), nopCloser{}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func loadSource(cfg *config.Config) (catalog.Source, string, error) {
	if cfg.SourcePath == "" {
		return catalog.Builtin(), "builtin", nil
	}
	src, err := feeder.Load(cfg.SourcePath, feeder.Kind(cfg.SourceType))
	if err != nil {
		return nil, "", fmt.Errorf("load source %s: %w", cfg.SourcePath, err)
	}
	return src, cfg.SourcePath, nil
}

func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

func logEvents(log *logger.Logger) paginator.Observer {
	return func(ev paginator.Event) {
		entry := log.WithFields(logger.Fields{
			logger.FieldBatchID: ev.BatchID,
			logger.FieldCursor:  ev.Visible,
			logger.FieldTotal:   ev.Total,
		})
		switch ev.Kind {
		case paginator.EventBatchApplied:
			entry.WithField(logger.FieldCount, ev.Count).Info("batch loaded")
			if !ev.CanFetchMore && ev.Visible == ev.Total {
				entry.Info("all items loaded")
			}
		case paginator.EventFetchFailed:
			entry.WithError(ev.Err).Error("batch failed")
		}
	}
}

// page walks the catalog batch by batch until it is exhausted, max_batches
// is reached or ctx is cancelled.
func page(ctx context.Context, cfg *config.Config, pager *paginator.Paginator, collector *metrics.Collector, stdout, stderr io.Writer) error {
	if !cfg.JSONOutput && (cfg.FetchDelay > 0 || cfg.FetchRate > 0) {
		progress := output.NewProgressReporter(pager, collector, progressInterval, stderr)
		progress.Start()
		defer func() {
			progress.Stop()
			fmt.Fprintln(stderr)
		}()
	}

	for batches := 0; cfg.MaxBatches == 0 || batches < cfg.MaxBatches; batches++ {
		results, ok := pager.FetchAsync(ctx)
		if !ok {
			return nil
		}
		res := <-results
		if _, err := pager.Complete(res); err != nil {
			if errors.Is(err, context.Canceled) && ctx.Err() != nil {
				return nil
			}
			end := min(res.Batch.Start+pager.BatchSize(), pager.Total())
			return fmt.Errorf("fetch items %d-%d: %w", res.Batch.Start+1, end, err)
		}
		if !cfg.JSONOutput {
			output.PrintBatch(stdout, res.Batch, pager.Total())
		}
	}
	return nil
}

func runDashboard(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, pager *paginator.Paginator, collector *metrics.Collector, log *logger.Logger, sourceName string) error {
	dash, err := dashboard.New(
		pager,
		collector,
		actions.NewSharer(),
		actions.NewOpener(cfg.OpenCommand, nil),
		log,
		dashboard.Config{Prefetch: cfg.Prefetch, SourceName: sourceName, ConfigFile: cfg.ConfigFile},
		cancel,
	)
	if err != nil {
		return err
	}
	dash.Start()
	<-ctx.Done()
	dash.Stop()
	return nil
}

func exportHTML(path string, pager *paginator.Paginator, stats metrics.Stats) error {
	ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
	defer cancel()
	return output.WriteFileLocked(ctx, path, func(w io.Writer) error {
		return output.GenerateHTMLReport(w, pager.Visible(), pager.Total(), stats)
	})
}
