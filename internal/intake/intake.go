package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/example/teskom-storefront/internal/booking"
	"github.com/example/teskom-storefront/internal/infrastructure/store"
)

var ErrBookingNotFound = errors.New("booking not found")

// JournalIntake records accepted bookings in the event journal
type JournalIntake struct {
	eventStore store.EventStoreInterface
}

func NewJournalIntake(es store.EventStoreInterface) *JournalIntake {
	return &JournalIntake{eventStore: es}
}

// Submit appends a RentalBookingRequested event keyed by the booking id.
// A journaled event whose broker publish failed is not an error.
func (i *JournalIntake) Submit(ctx context.Context, sub booking.Submission) error {
	event := RentalBookingRequested{
		BookingID:     sub.ID,
		RentalItemID:  sub.RentalItemID,
		ItemName:      sub.ItemName,
		CustomerName:  sub.CustomerName,
		CustomerEmail: sub.CustomerEmail,
		CustomerPhone: sub.CustomerPhone,
		StartDate:     sub.StartDate,
		EndDate:       sub.EndDate,
		TotalDays:     sub.TotalDays,
		DailyRate:     sub.DailyRate,
		TotalCost:     sub.TotalCost,
		Status:        sub.Status,
		RequestedAt:   sub.SubmittedAt,
	}

	_, err := i.eventStore.Append(ctx, sub.ID, AggregateType, EventBookingRequested, event)
	if errors.Is(err, store.ErrPublish) {
		log.Printf("[Intake] Booking %s journaled but not published: %v", sub.ID, err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to journal booking %s: %w", sub.ID, err)
	}

	log.Printf("[Intake] Booking %s requested: %s, %d days", sub.ID, sub.ItemName, sub.TotalDays)
	return nil
}

// Booking reads the journaled request for one booking
func (i *JournalIntake) Booking(ctx context.Context, bookingID string) (*RentalBookingRequested, error) {
	events, err := i.eventStore.GetEvents(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		if e.EventType != EventBookingRequested {
			continue
		}
		var req RentalBookingRequested
		if err := json.Unmarshal(e.Data, &req); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", e.EventType, err)
		}
		return &req, nil
	}
	return nil, ErrBookingNotFound
}
