package paginator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/time/rate"

	"github.com/torosent/scrollfeed/internal/catalog"
	"github.com/torosent/scrollfeed/internal/logger"
	"github.com/torosent/scrollfeed/internal/tracing"
)

// DefaultBatchSize is used when Options.BatchSize is zero.
const DefaultBatchSize = 5

var (
	// ErrBusy is returned when a fetch is requested while another is in flight.
	ErrBusy = errors.New("paginator: fetch already in progress")
	// ErrExhausted is returned when every item has already been fetched.
	ErrExhausted = errors.New("paginator: no more items")
	// ErrStaleBatch is returned when a batch does not belong to the in-flight fetch.
	ErrStaleBatch = errors.New("paginator: batch does not match the in-flight fetch")
)

// Recorder receives the outcome of every fetch.
type Recorder interface {
	RecordFetch(latency time.Duration, items int, err error)
}

// Options configure a Paginator.
type Options struct {
	BatchSize int            // items per batch (0 means DefaultBatchSize)
	Delay     time.Duration  // artificial wait before each read (0 means none)
	Limiter   *rate.Limiter  // optional pacing between reads
	Tracer    trace.Tracer   // optional; defaults to a no-op tracer
	Recorder  Recorder       // optional fetch metrics sink
	Logger    *logger.Logger // optional; defaults to a discarding logger
}

// Batch is one contiguous slice of the source produced by a fetch.
type Batch struct {
	ID      string
	Start   int
	Items   []catalog.Item
	Latency time.Duration
}

// End returns the index just past the batch's last item.
func (b *Batch) End() int {
	return b.Start + len(b.Items)
}

// Result is delivered by FetchAsync. Batch is never nil; on failure it
// identifies the fetch and carries no items.
type Result struct {
	Batch *Batch
	Err   error
}

// Paginator hands out a source in fixed-size batches.
type Paginator struct {
	src       catalog.Source
	total     int
	batchSize int
	delay     time.Duration
	limiter   *rate.Limiter
	tracer    trace.Tracer
	recorder  Recorder
	log       *logger.Logger

	mu        sync.Mutex
	cursor    int
	visible   []catalog.Item
	loading   bool
	pending   string
	observers map[int]Observer
	nextObs   int
}

// New creates a Paginator over src. The total is fixed at construction.
func New(src catalog.Source, opts Options) (*Paginator, error) {
	if src == nil {
		return nil, errors.New("paginator: source is required")
	}
	if opts.BatchSize < 0 {
		return nil, fmt.Errorf("paginator: batch size must be positive, got %d", opts.BatchSize)
	}
	if opts.BatchSize == 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Delay < 0 {
		return nil, fmt.Errorf("paginator: delay must not be negative, got %s", opts.Delay)
	}
	if opts.Tracer == nil {
		opts.Tracer = noop.NewTracerProvider().Tracer("scrollfeed")
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}

	total := src.Count()
	return &Paginator{
		src:       src,
		total:     total,
		batchSize: opts.BatchSize,
		delay:     opts.Delay,
		limiter:   opts.Limiter,
		tracer:    opts.Tracer,
		recorder:  opts.Recorder,
		log:       opts.Logger.WithComponent("paginator").WithField(logger.FieldTotal, total),
		visible:   make([]catalog.Item, 0, total),
		observers: make(map[int]Observer),
	}, nil
}

// Start triggers the first fetch. It reports false when the source is empty or
// fetching has already begun.
func (p *Paginator) Start(ctx context.Context) (<-chan Result, bool) {
	p.mu.Lock()
	started := p.cursor > 0 || p.loading
	p.mu.Unlock()
	if started {
		return nil, false
	}
	return p.FetchAsync(ctx)
}

// Fetch reads the next batch on the calling goroutine without applying it.
// The returned batch must be passed to Apply. On failure the paginator
// returns to idle and the error is returned unchanged in kind.
func (p *Paginator) Fetch(ctx context.Context) (*Batch, error) {
	batch, err := p.begin()
	if err != nil {
		return nil, err
	}
	if err := p.read(ctx, batch); err != nil {
		p.fail(batch, err)
		return nil, err
	}
	return batch, nil
}

// FetchAsync starts a fetch whose read runs on a new goroutine. It returns
// false without starting when CanFetchMore would be false. Exactly one
// Result is delivered on the returned channel and must be handed to Complete.
func (p *Paginator) FetchAsync(ctx context.Context) (<-chan Result, bool) {
	batch, err := p.begin()
	if err != nil {
		return nil, false
	}
	results := make(chan Result, 1)
	go func() {
		err := p.read(ctx, batch)
		results <- Result{Batch: batch, Err: err}
	}()
	return results, true
}

// Complete finishes a fetch started by FetchAsync on the calling goroutine.
// It returns the number of items appended.
func (p *Paginator) Complete(res Result) (int, error) {
	if res.Batch == nil {
		return 0, ErrStaleBatch
	}
	if res.Err != nil {
		if !p.fail(res.Batch, res.Err) {
			return 0, ErrStaleBatch
		}
		return 0, res.Err
	}
	if err := p.Apply(res.Batch); err != nil {
		return 0, err
	}
	return len(res.Batch.Items), nil
}

// Apply appends a fetched batch to the visible collection and returns the
// paginator to idle.
func (p *Paginator) Apply(batch *Batch) error {
	if batch == nil {
		return ErrStaleBatch
	}

	p.mu.Lock()
	if !p.loading || batch.ID != p.pending || batch.Start != p.cursor {
		p.mu.Unlock()
		return ErrStaleBatch
	}
	p.visible = append(p.visible, batch.Items...)
	p.cursor = len(p.visible)
	p.loading = false
	p.pending = ""
	ev := p.eventLocked(EventBatchApplied, batch, nil)
	p.mu.Unlock()

	p.log.WithFields(logger.Fields{
		logger.FieldBatchID: batch.ID,
		logger.FieldCursor:  ev.Visible,
		logger.FieldCount:   len(batch.Items),
	}).Debug("batch applied")
	p.notify(ev)
	return nil
}

// FetchNext fetches and applies the next batch on the calling goroutine.
func (p *Paginator) FetchNext(ctx context.Context) (int, error) {
	batch, err := p.Fetch(ctx)
	if err != nil {
		return 0, err
	}
	if err := p.Apply(batch); err != nil {
		return 0, err
	}
	return len(batch.Items), nil
}

// CanFetchMore reports whether items remain and no fetch is running.
func (p *Paginator) CanFetchMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.canFetchLocked()
}

func (p *Paginator) canFetchLocked() bool {
	return len(p.visible) < p.total && !p.loading
}

// Loading reports whether a fetch is in flight.
func (p *Paginator) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// State returns the current state.
func (p *Paginator) State() State {
	if p.Loading() {
		return StateFetching
	}
	return StateIdle
}

// Visible returns a copy of the items delivered so far.
func (p *Paginator) Visible() []catalog.Item {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]catalog.Item, len(p.visible))
	copy(out, p.visible)
	return out
}

// Item returns the i-th visible item.
func (p *Paginator) Item(i int) (catalog.Item, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i < 0 || i >= len(p.visible) {
		return catalog.Item{}, false
	}
	return p.visible[i], true
}

// Len returns the number of visible items.
func (p *Paginator) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.visible)
}

// Cursor returns the index of the next unfetched item.
func (p *Paginator) Cursor() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

// Total returns the source size recorded at construction.
func (p *Paginator) Total() int {
	return p.total
}

// BatchSize returns the configured batch size.
func (p *Paginator) BatchSize() int {
	return p.batchSize
}

func (p *Paginator) begin() (*Batch, error) {
	p.mu.Lock()
	if p.loading {
		p.mu.Unlock()
		return nil, ErrBusy
	}
	if p.cursor >= p.total {
		p.mu.Unlock()
		return nil, ErrExhausted
	}
	batch := &Batch{ID: ulid.Make().String(), Start: p.cursor}
	p.loading = true
	p.pending = batch.ID
	ev := p.eventLocked(EventFetchStarted, batch, nil)
	p.mu.Unlock()

	p.log.WithFields(logger.Fields{
		logger.FieldBatchID: batch.ID,
		logger.FieldCursor:  batch.Start,
	}).Debug("fetch started")
	p.notify(ev)
	return batch, nil
}

// read performs the latency-bearing part of a fetch. It only touches batch.
func (p *Paginator) read(ctx context.Context, batch *Batch) error {
	began := time.Now()
	ctx, span := tracing.StartFetchSpan(ctx, p.tracer, batch.ID, batch.Start, p.batchSize, p.total)

	err := p.wait(ctx)
	if err == nil {
		batch.Items = p.src.Slice(batch.Start, p.batchSize)
	}
	batch.Latency = time.Since(began)

	tracing.EndSpan(span, err, tracing.AttrBatchItems.Int(len(batch.Items)))
	if p.recorder != nil {
		p.recorder.RecordFetch(batch.Latency, len(batch.Items), err)
	}
	return err
}

func (p *Paginator) wait(ctx context.Context) error {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return ctx.Err()
}

// fail returns the paginator to idle after a failed read. It reports false
// when batch is not the in-flight fetch.
func (p *Paginator) fail(batch *Batch, err error) bool {
	p.mu.Lock()
	if !p.loading || batch.ID != p.pending {
		p.mu.Unlock()
		return false
	}
	batch.Items = nil
	p.loading = false
	p.pending = ""
	ev := p.eventLocked(EventFetchFailed, batch, err)
	p.mu.Unlock()

	p.log.WithError(err).WithFields(logger.Fields{
		logger.FieldBatchID: batch.ID,
		logger.FieldCursor:  batch.Start,
	}).Warn("fetch failed")
	p.notify(ev)
	return true
}
