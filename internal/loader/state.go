package loader

import "github.com/example/teskom-storefront/internal/catalog"

type Status int

const (
	Idle Status = iota
	Loading
	Loaded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Origin tells where a loaded collection came from.
type Origin string

const (
	OriginNone     Origin = ""
	OriginRemote   Origin = "remote"
	OriginFallback Origin = "fallback"
)

// State is the load state of one collection. Items and Origin are only
// meaningful once Status is Loaded; Err carries the remote failure, if any.
type State[T any] struct {
	Kind   catalog.Kind
	Status Status
	Items  []T
	Origin Origin
	Err    error
}

// Event drives a state transition.
type Event interface {
	loaderEvent()
}

type LoadRequested struct{}

type FetchSucceeded[T any] struct {
	Items []T
}

type FetchFailed struct {
	Err error
}

type FallbackApplied[T any] struct {
	Items []T
}

func (LoadRequested) loaderEvent()      {}
func (FetchSucceeded[T]) loaderEvent()  {}
func (FetchFailed) loaderEvent()        {}
func (FallbackApplied[T]) loaderEvent() {}

// Reduce applies ev to s. Events that do not fit the current status leave the
// state unchanged.
func Reduce[T any](s State[T], ev Event) State[T] {
	switch e := ev.(type) {
	case LoadRequested:
		if s.Status == Idle {
			return State[T]{Kind: s.Kind, Status: Loading}
		}
	case FetchSucceeded[T]:
		if s.Status == Loading {
			items := e.Items
			if items == nil {
				items = []T{}
			}
			return State[T]{Kind: s.Kind, Status: Loaded, Items: items, Origin: OriginRemote}
		}
	case FetchFailed:
		if s.Status == Loading {
			return State[T]{Kind: s.Kind, Status: Failed, Err: e.Err}
		}
	case FallbackApplied[T]:
		if s.Status == Failed {
			return State[T]{Kind: s.Kind, Status: Loaded, Items: e.Items, Origin: OriginFallback, Err: s.Err}
		}
	}
	return s
}
