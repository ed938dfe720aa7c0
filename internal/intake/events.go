package intake

import (
	"time"

	"github.com/example/teskom-storefront/internal/catalog"
)

const AggregateType = "RentalBooking"

const EventBookingRequested = "RentalBookingRequested"

// RentalBookingRequested is journaled once per accepted booking
type RentalBookingRequested struct {
	BookingID     string         `json:"booking_id"`
	RentalItemID  string         `json:"rental_item_id"`
	ItemName      string         `json:"item_name"`
	CustomerName  string         `json:"customer_name"`
	CustomerEmail string         `json:"customer_email"`
	CustomerPhone string         `json:"customer_phone"`
	StartDate     string         `json:"start_date"`
	EndDate       string         `json:"end_date"`
	TotalDays     int            `json:"total_days"`
	DailyRate     catalog.Amount `json:"daily_rate"`
	TotalCost     catalog.Amount `json:"total_cost"`
	Status        string         `json:"status"`
	RequestedAt   time.Time      `json:"requested_at"`
}
