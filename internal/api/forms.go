package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/example/teskom-storefront/internal/booking"
)

type formEntry struct {
	form     *booking.Form
	lastSeen time.Time
}

// FormRegistry holds one booking form per visitor session. Forms idle for
// longer than the TTL are discarded.
type FormRegistry struct {
	mu      sync.Mutex
	forms   map[string]*formEntry
	ttl     time.Duration
	newForm func() *booking.Form
	now     func() time.Time
}

func NewFormRegistry(ttl time.Duration, newForm func() *booking.Form) *FormRegistry {
	return &FormRegistry{
		forms:   make(map[string]*formEntry),
		ttl:     ttl,
		newForm: newForm,
		now:     time.Now,
	}
}

// Get returns the session's form, creating it on first use.
func (r *FormRegistry) Get(sessionID string) *booking.Form {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.forms[sessionID]
	if !ok {
		e = &formEntry{form: r.newForm()}
		r.forms[sessionID] = e
	}
	e.lastSeen = r.now()
	return e.form
}

func (r *FormRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.forms)
}

// Sweep drops idle forms and returns how many were dropped.
func (r *FormRegistry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	dropped := 0
	for id, e := range r.forms {
		if e.lastSeen.Before(cutoff) {
			delete(r.forms, id)
			dropped++
		}
	}
	return dropped
}

// Run sweeps every interval until ctx is cancelled.
func (r *FormRegistry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				log.Printf("[API] Expired %d idle booking forms", n)
			}
		}
	}
}
