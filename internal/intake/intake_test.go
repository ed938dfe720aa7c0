package intake

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/example/teskom-storefront/internal/booking"
	"github.com/example/teskom-storefront/internal/catalog"
	"github.com/example/teskom-storefront/internal/infrastructure/store"
	"github.com/example/teskom-storefront/internal/infrastructure/store/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSubmission() booking.Submission {
	return booking.Submission{
		ID: "booking-1",
		Draft: booking.Draft{
			RentalItemID:  "2",
			CustomerName:  "Budi",
			CustomerEmail: "budi@example.com",
			CustomerPhone: "0812",
			StartDate:     "2024-06-01",
			EndDate:       "2024-06-05",
		},
		ItemName:    "Welding Machine",
		DailyRate:   150000,
		TotalDays:   5,
		TotalCost:   750000,
		Status:      booking.StatusPending,
		SubmittedAt: time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC),
	}
}

func TestJournalIntake_Submit(t *testing.T) {
	es := mocks.NewMockEventStore()
	in := NewJournalIntake(es)

	err := in.Submit(context.Background(), sampleSubmission())

	require.NoError(t, err)
	calls := es.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "booking-1", calls[0].AggregateID)
	assert.Equal(t, AggregateType, calls[0].AggregateType)
	assert.Equal(t, EventBookingRequested, calls[0].EventType)

	data, ok := calls[0].Data.(RentalBookingRequested)
	require.True(t, ok)
	assert.Equal(t, "Welding Machine", data.ItemName)
	assert.Equal(t, 5, data.TotalDays)
	assert.EqualValues(t, 750000, data.TotalCost)
	assert.Equal(t, "pending", data.Status)
}

func TestJournalIntake_AppendFailure(t *testing.T) {
	es := mocks.NewMockEventStore()
	es.AppendErr = errors.New("connection reset")
	in := NewJournalIntake(es)

	err := in.Submit(context.Background(), sampleSubmission())

	assert.ErrorContains(t, err, "booking-1")
}

func TestJournalIntake_PublishFailureIsNotAnError(t *testing.T) {
	es := mocks.NewMockEventStore()
	es.AppendCallback = func(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*store.Event, error) {
		return &store.Event{AggregateID: aggregateID}, fmt.Errorf("%w: broker down", store.ErrPublish)
	}
	in := NewJournalIntake(es)

	assert.NoError(t, in.Submit(context.Background(), sampleSubmission()))
}

func TestJournalIntake_BookingRoundTrip(t *testing.T) {
	in := NewJournalIntake(store.NewEventStore(nil))
	ctx := context.Background()
	require.NoError(t, in.Submit(ctx, sampleSubmission()))

	got, err := in.Booking(ctx, "booking-1")

	require.NoError(t, err)
	assert.Equal(t, "budi@example.com", got.CustomerEmail)
	assert.Equal(t, "2024-06-05", got.EndDate)
}

func TestJournalIntake_BookingNotFound(t *testing.T) {
	in := NewJournalIntake(store.NewEventStore(nil))

	_, err := in.Booking(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestJournalIntake_WithForm(t *testing.T) {
	es := mocks.NewMockEventStore()
	items := catalog.NewRentalIndex(catalog.FallbackRentalItems())
	form := booking.NewForm(items, NewJournalIntake(es))
	ctx := context.Background()

	for _, ev := range []booking.Event{
		booking.SelectItem{ID: "2"},
		booking.SetName{Value: "Budi"},
		booking.SetEmail{Value: "budi@example.com"},
		booking.SetPhone{Value: "0812"},
		booking.SetStartDate{Value: "2024-06-01"},
		booking.SetEndDate{Value: "2024-06-05"},
		booking.Submit{},
	} {
		require.NoError(t, form.Dispatch(ctx, ev))
	}

	require.Len(t, es.Calls(), 1)
	assert.Equal(t, booking.Empty, form.State())
}
