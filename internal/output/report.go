package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/torosent/scrollfeed/internal/catalog"
	"github.com/torosent/scrollfeed/internal/metrics"
	"github.com/torosent/scrollfeed/internal/paginator"
	"github.com/torosent/scrollfeed/internal/threshold"
)

const dateLayout = "2006-01-02"

// Summary describes a finished paging run.
type Summary struct {
	Loaded     int                `json:"loaded"`
	Total      int                `json:"total"`
	BatchSize  int                `json:"batch_size"`
	Complete   bool               `json:"complete"`
	Stats      metrics.Stats      `json:"stats"`
	Thresholds []threshold.Result `json:"thresholds,omitempty"`
	Items      []catalog.Item     `json:"items,omitempty"`
}

// PrintBatch writes one delivered batch as a numbered listing.
func PrintBatch(w io.Writer, batch *paginator.Batch, total int) {
	if batch == nil || len(batch.Items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n--- Items %d-%d of %d ---\n", batch.Start+1, batch.End(), total)
	for i, item := range batch.Items {
		fmt.Fprintf(w, "%4d. %s\n", batch.Start+i+1, item.Title)
		fmt.Fprintf(w, "      %s\n", byline(item))
		if item.URL != "" {
			fmt.Fprintf(w, "      %s\n", item.URL)
		}
	}
}

func byline(item catalog.Item) string {
	line := item.Author
	if line == "" {
		line = "unknown author"
	}
	if !item.PublicationDate.IsZero() {
		line += " · " + item.PublicationDate.Format(dateLayout)
	}
	return line
}

// PrintReport outputs a human-readable summary report.
func PrintReport(w io.Writer, summary Summary) {
	stats := summary.Stats
	fmt.Fprintln(w, "\n--- Paging Results ---")
	fmt.Fprintf(w, "Loaded:            %d/%d\n", summary.Loaded, summary.Total)
	fmt.Fprintf(w, "Batch Size:        %d\n", summary.BatchSize)
	fmt.Fprintf(w, "Batches:           %d\n", stats.Batches)
	fmt.Fprintf(w, "Failed Fetches:    %d\n", stats.Failures)
	fmt.Fprintf(w, "Duration:          %s\n", stats.Duration)
	fmt.Fprintf(w, "Items/sec:         %.2f\n", stats.ItemsPerSec)
	if summary.Complete {
		fmt.Fprintln(w, "Status:            all items loaded")
	} else {
		fmt.Fprintf(w, "Status:            %d remaining\n", summary.Total-summary.Loaded)
	}
	if stats.Fetches > 0 {
		fmt.Fprintln(w, "\nFetch Latency:")
		fmt.Fprintf(w, "  Min:             %s\n", stats.MinLatency)
		fmt.Fprintf(w, "  Max:             %s\n", stats.MaxLatency)
		fmt.Fprintf(w, "  Mean:            %s\n", stats.MeanLatency)
		fmt.Fprintf(w, "  P50:             %s\n", stats.P50Latency)
		fmt.Fprintf(w, "  P90:             %s\n", stats.P90Latency)
		fmt.Fprintf(w, "  P99:             %s\n", stats.P99Latency)
	}
	if errs := stats.SortedErrors(); len(errs) > 0 {
		fmt.Fprintln(w, "\nErrors:")
		for _, e := range errs {
			fmt.Fprintf(w, "  %s: %d\n", e.Type, e.Count)
		}
	}
	if len(summary.Thresholds) > 0 {
		fmt.Fprintf(w, "\nThresholds (%d/%d passed):\n", len(summary.Thresholds)-threshold.Failed(summary.Thresholds), len(summary.Thresholds))
		for _, r := range summary.Thresholds {
			fmt.Fprintf(w, "  %s\n", r.Message)
		}
	}
}

// PrintJSONReport outputs a JSON-formatted report.
func PrintJSONReport(w io.Writer, summary Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
