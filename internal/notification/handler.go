package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/teskom-storefront/internal/email"
	"github.com/example/teskom-storefront/internal/infrastructure/store"
	"github.com/example/teskom-storefront/internal/intake"
)

// Mailer sends booking confirmations
type Mailer interface {
	SendBookingConfirmation(b email.Booking) error
}

// Handler sends a confirmation email for every requested booking
type Handler struct {
	mailer Mailer
}

func NewHandler(mailer Mailer) *Handler {
	return &Handler{mailer: mailer}
}

// HandleEvent processes one journal event from Kafka
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}
	return h.Handle(ctx, event)
}

// Handle processes one decoded journal event. Events other than
// RentalBookingRequested are ignored.
func (h *Handler) Handle(ctx context.Context, event store.Event) error {
	if event.EventType != intake.EventBookingRequested {
		return nil
	}

	var e intake.RentalBookingRequested
	if err := json.Unmarshal(event.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal %s event: %v", event.EventType, err)
		return err
	}

	log.Printf("[Notifier] Processing booking %s for %s", e.BookingID, e.CustomerEmail)

	if e.CustomerEmail == "" {
		log.Printf("[Notifier] Booking %s has no customer email, skipping", e.BookingID)
		return nil
	}

	err := h.mailer.SendBookingConfirmation(email.Booking{
		ID:            e.BookingID,
		ItemName:      e.ItemName,
		CustomerName:  e.CustomerName,
		CustomerEmail: e.CustomerEmail,
		StartDate:     e.StartDate,
		EndDate:       e.EndDate,
		TotalDays:     e.TotalDays,
		DailyRate:     e.DailyRate,
		TotalCost:     e.TotalCost,
	})
	if err != nil {
		log.Printf("[Notifier] Failed to send confirmation for booking %s: %v", e.BookingID, err)
		return err
	}

	log.Printf("[Notifier] Confirmation sent for booking %s", e.BookingID)
	return nil
}
