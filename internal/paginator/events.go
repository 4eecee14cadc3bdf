package paginator

import "sort"

// State is the paginator's fetch state.
type State int

const (
	StateIdle State = iota
	StateFetching
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	default:
		return "unknown"
	}
}

// EventKind identifies a state change.
type EventKind int

const (
	EventFetchStarted EventKind = iota + 1
	EventBatchApplied
	EventFetchFailed
)

func (k EventKind) String() string {
	switch k {
	case EventFetchStarted:
		return "fetch_started"
	case EventBatchApplied:
		return "batch_applied"
	case EventFetchFailed:
		return "fetch_failed"
	default:
		return "unknown"
	}
}

// Event describes a state change and a snapshot of the paginator after it.
type Event struct {
	Kind         EventKind
	BatchID      string
	Start        int
	Count        int // items in the batch (applied events only)
	Visible      int
	Total        int
	Loading      bool
	CanFetchMore bool
	Err          error
}

// Observer is notified of state changes.
type Observer func(Event)

// Subscribe registers fn for state-change notifications. The returned
// function removes the subscription.
func (p *Paginator) Subscribe(fn Observer) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	p.mu.Lock()
	id := p.nextObs
	p.nextObs++
	p.observers[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.observers, id)
		p.mu.Unlock()
	}
}

func (p *Paginator) eventLocked(kind EventKind, batch *Batch, err error) Event {
	ev := Event{
		Kind:         kind,
		BatchID:      batch.ID,
		Start:        batch.Start,
		Visible:      len(p.visible),
		Total:        p.total,
		Loading:      p.loading,
		CanFetchMore: p.canFetchLocked(),
		Err:          err,
	}
	if kind == EventBatchApplied {
		ev.Count = len(batch.Items)
	}
	return ev
}

// notify must be called without p.mu held; observers may query the paginator.
func (p *Paginator) notify(ev Event) {
	p.mu.Lock()
	if len(p.observers) == 0 {
		p.mu.Unlock()
		return
	}
	ids := make([]int, 0, len(p.observers))
	for id := range p.observers {
		ids = append(ids, id)
	}
	fns := make([]Observer, 0, len(ids))
	sort.Ints(ids)
	for _, id := range ids {
		fns = append(fns, p.observers[id])
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
