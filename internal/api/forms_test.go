package api

import (
	"testing"
	"time"

	"github.com/example/teskom-storefront/internal/booking"
	"github.com/stretchr/testify/assert"
)

func newTestRegistry(ttl time.Duration, now *time.Time) *FormRegistry {
	r := NewFormRegistry(ttl, func() *booking.Form { return booking.NewForm(nil, nil) })
	r.now = func() time.Time { return *now }
	return r
}

func TestFormRegistry_GetReturnsSameFormPerSession(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	r := newTestRegistry(time.Minute, &now)

	a := r.Get("session-a")
	assert.Same(t, a, r.Get("session-a"))
	assert.NotSame(t, a, r.Get("session-b"))
	assert.Equal(t, 2, r.Len())
}

func TestFormRegistry_SweepDropsIdleForms(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	r := newTestRegistry(time.Minute, &now)

	r.Get("idle")
	now = now.Add(45 * time.Second)
	r.Get("active")
	now = now.Add(30 * time.Second)

	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 1, r.Len())

	// touching a form keeps it alive
	r.Get("active")
	now = now.Add(50 * time.Second)
	assert.Equal(t, 0, r.Sweep())
}
