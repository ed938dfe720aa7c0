package diagnostics

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/example/teskom-storefront/internal/loader"
)

// Publisher publishes a keyed message (kafka.Producer, rabbitmq.Publisher)
type Publisher interface {
	Publish(ctx context.Context, key string, v any) error
}

// LogSink writes every record to the standard logger
type LogSink struct{}

func (LogSink) Record(r loader.Record) {
	if r.Error != "" {
		log.Printf("[Diagnostics] %s resolved from %s in %s: %s", r.Kind, r.Origin, r.Elapsed, r.Error)
		return
	}
	log.Printf("[Diagnostics] %s resolved from %s in %s", r.Kind, r.Origin, r.Elapsed)
}

// Fanout forwards a record to every sink in order
type Fanout []loader.Sink

func (f Fanout) Record(r loader.Record) {
	for _, s := range f {
		s.Record(r)
	}
}

// AsyncSink queues records and publishes them from a background goroutine.
// Record never blocks: when the queue is full the record is dropped.
type AsyncSink struct {
	pub     Publisher
	queue   chan loader.Record
	timeout time.Duration

	mu      sync.Mutex
	closed  bool
	running bool
	dropped int
	done    chan struct{}
}

// NewAsyncSink creates a sink with a queue of the given size
func NewAsyncSink(pub Publisher, size int) *AsyncSink {
	if size <= 0 {
		size = 64
	}
	return &AsyncSink{
		pub:     pub,
		queue:   make(chan loader.Record, size),
		timeout: 5 * time.Second,
		done:    make(chan struct{}),
	}
}

func (s *AsyncSink) Record(r loader.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.dropped++
		return
	}
	select {
	case s.queue <- r:
	default:
		s.dropped++
	}
}

// Dropped returns the number of records discarded so far
func (s *AsyncSink) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Run publishes queued records until Close is called and the queue drains,
// or ctx is cancelled.
func (s *AsyncSink) Run(ctx context.Context) {
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return
		case r, ok := <-s.queue:
			if !ok {
				return
			}
			s.publish(ctx, r)
		}
	}
}

func (s *AsyncSink) publish(ctx context.Context, r loader.Record) {
	pubCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.pub.Publish(pubCtx, string(r.Kind), r); err != nil {
		log.Printf("[Diagnostics] Failed to publish %s record: %v", r.Kind, err)
	}
}

// Close stops accepting records and, if Run was started, waits for it to
// finish.
func (s *AsyncSink) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.queue)
	running := s.running
	s.mu.Unlock()
	if running {
		<-s.done
	}
}
