// Package paginator serves a catalog.Source to a consumer in fixed-size batches.
//
// A [Paginator] keeps a cursor into its source, an append-only visible
// collection and a loading flag. At most one fetch is in flight at a time and
// the visible collection only ever grows, in source order.
//
// # Two-phase fetching
//
// Fetching is split so the latency-bearing read can run anywhere while the
// visible state is only changed by its owner:
//
//	results, ok := p.FetchAsync(ctx) // read runs on a worker goroutine
//	...
//	res := <-results                 // back on the owning goroutine
//	if _, err := p.Complete(res); err != nil {
//		// report the failure; the paginator is idle again
//	}
//
// [Paginator.FetchNext] performs both phases on the calling goroutine.
//
// # Gating
//
// [Paginator.CanFetchMore] is the "load more" predicate: true while items
// remain and no fetch is running. Fetch attempts that fail the guard return
// [ErrBusy] or [ErrExhausted] without changing state.
//
// # Notifications
//
// Observers registered with [Paginator.Subscribe] receive an [Event] when a
// fetch starts, when a batch is applied and when a fetch fails. Observers run
// synchronously on the goroutine that caused the change.
package paginator
