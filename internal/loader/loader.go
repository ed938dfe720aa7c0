package loader

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/example/teskom-storefront/internal/catalog"
)

// Fetcher retrieves a collection from the remote content service.
type Fetcher[T any] interface {
	Fetch(ctx context.Context) ([]T, error)
}

// FetchFunc adapts a function to Fetcher.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

func (f FetchFunc[T]) Fetch(ctx context.Context) ([]T, error) {
	return f(ctx)
}

// Record is the diagnostic emitted when a load resolves.
type Record struct {
	Kind    catalog.Kind  `json:"kind"`
	Origin  Origin        `json:"origin"`
	Error   string        `json:"error,omitempty"`
	Elapsed time.Duration `json:"elapsed_ns"`
	At      time.Time     `json:"at"`
}

// Sink receives diagnostic records. Implementations must not block.
type Sink interface {
	Record(Record)
}

type options struct {
	sink    Sink
	timeout time.Duration
}

type Option func(*options)

// WithSink sets the diagnostics sink.
func WithSink(s Sink) Option {
	return func(o *options) { o.sink = s }
}

// WithTimeout bounds the remote fetch; expiry resolves to the fallback.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// Loader resolves one collection kind: remote first, fallback on any
// failure. A Loader makes at most one fetch; mount a new one to retry.
type Loader[T any] struct {
	kind     catalog.Kind
	source   Fetcher[T]
	fallback func() []T
	opts     options

	mu          sync.Mutex
	state       State[T]
	started     bool
	subscribers []func(State[T])
}

func New[T any](kind catalog.Kind, source Fetcher[T], fallback func() []T, opts ...Option) *Loader[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return &Loader[T]{
		kind:     kind,
		source:   source,
		fallback: fallback,
		opts:     o,
		state:    State[T]{Kind: kind, Status: Idle},
	}
}

func (l *Loader[T]) Kind() catalog.Kind {
	return l.kind
}

// State returns the current state.
func (l *Loader[T]) State() State[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Subscribe registers fn to be called after every state change.
func (l *Loader[T]) Subscribe(fn func(State[T])) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subscribers = append(l.subscribers, fn)
}

// Dispatch applies ev and notifies subscribers if the state changed.
func (l *Loader[T]) Dispatch(ev Event) State[T] {
	l.mu.Lock()
	prev := l.state
	next := Reduce(prev, ev)
	l.state = next
	subs := l.subscribers
	l.mu.Unlock()

	if next.Status != prev.Status {
		for _, fn := range subs {
			fn(next)
		}
	}
	return next
}

// Load runs the fetch-or-fallback sequence and returns the resolved state.
// Calls after the first return the current state without fetching again.
func (l *Loader[T]) Load(ctx context.Context) State[T] {
	l.mu.Lock()
	if l.started {
		s := l.state
		l.mu.Unlock()
		return s
	}
	l.started = true
	l.mu.Unlock()

	l.Dispatch(LoadRequested{})
	start := time.Now()

	fetchCtx := ctx
	if l.opts.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, l.opts.timeout)
		defer cancel()
	}

	items, err := l.source.Fetch(fetchCtx)
	if err == nil {
		s := l.Dispatch(FetchSucceeded[T]{Items: items})
		l.record(s, time.Since(start))
		return s
	}

	log.Printf("[Loader] %s: remote fetch failed, using fallback: %v", l.kind, err)
	l.Dispatch(FetchFailed{Err: err})
	s := l.Dispatch(FallbackApplied[T]{Items: l.fallback()})
	l.record(s, time.Since(start))
	return s
}

func (l *Loader[T]) record(s State[T], elapsed time.Duration) {
	if l.opts.sink == nil {
		return
	}
	rec := Record{
		Kind:    l.kind,
		Origin:  s.Origin,
		Elapsed: elapsed,
		At:      time.Now(),
	}
	if s.Err != nil {
		rec.Error = s.Err.Error()
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Loader] %s: diagnostics sink panicked: %v", l.kind, r)
		}
	}()
	l.opts.sink.Record(rec)
}
