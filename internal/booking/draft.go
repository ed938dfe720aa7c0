package booking

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/example/teskom-storefront/internal/catalog"
)

var ErrInvalidDate = errors.New("invalid date")

const dateLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// Draft is the in-progress booking request. Totals are never stored here;
// see Totals.
type Draft struct {
	RentalItemID  string `json:"rental_item_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
}

// IsZero reports whether every field is unset.
func (d Draft) IsZero() bool {
	return d == Draft{}
}

// ParseDay parses a form date ("2006-01-02"). An empty string is an unset
// date and reports ok=false without error.
func ParseDay(s string) (t time.Time, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, nil
	}
	t, err = time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, true, nil
}

// DaysInclusive counts calendar days from start to end, both included.
// It returns 0 when end precedes start. Both are taken as UTC days.
func DaysInclusive(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(unixDay(end)-unixDay(start)) + 1
}

func unixDay(t time.Time) int64 {
	u := t.Unix()
	d := u / secondsPerDay
	if u%secondsPerDay < 0 {
		d--
	}
	return d
}

// costFor multiplies days by rate. ok is false when the result does not fit
// in an Amount.
func costFor(days int, rate catalog.Amount) (catalog.Amount, bool) {
	if days <= 0 || rate <= 0 {
		return 0, true
	}
	if int64(rate) > math.MaxInt64/int64(days) {
		return 0, false
	}
	return catalog.Amount(days) * rate, true
}

// Totals holds the values derived from a draft.
type Totals struct {
	Days int            `json:"total_days"`
	Cost catalog.Amount `json:"total_cost"`
}

// Derive computes totals from the draft's dates and the selected item's daily
// rate. Days is 0 unless both dates are set and ordered; Cost is 0 unless the
// item is also known and the product fits in an Amount.
func Derive(d Draft, items Catalog) Totals {
	start, okStart, _ := ParseDay(d.StartDate)
	end, okEnd, _ := ParseDay(d.EndDate)
	if !okStart || !okEnd {
		return Totals{}
	}
	days := DaysInclusive(start, end)

	var cost catalog.Amount
	if d.RentalItemID != "" && items != nil {
		if item, ok := items.RentalItem(d.RentalItemID); ok {
			cost, _ = costFor(days, item.DailyRate)
		}
	}
	return Totals{Days: days, Cost: cost}
}

// Catalog resolves rental items by id.
type Catalog interface {
	RentalItem(id string) (catalog.RentalItem, bool)
}
