// Package metrics collects per-fetch statistics for the paginator.
//
// The central [Collector] type records the latency and size of every batch
// fetch and aggregates them on demand:
//
//	collector := metrics.NewCollector()
//	collector.Start()
//
//	collector.RecordFetch(latency, len(batch.Items), err)
//
//	stats := collector.Stats(elapsed)
//
// # Statistics
//
// [Stats] reports batch and item counts, failures grouped by error type,
// latency percentiles (P50, P90, P99) and items per second.
//
// # Thread Safety
//
// The Collector guards its state with a mutex. RecordFetch may be called from
// the fetch worker while a dashboard reads Stats.
package metrics
