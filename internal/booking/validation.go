package booking

import (
	"errors"
	"strings"

	"github.com/example/teskom-storefront/internal/catalog"
	"github.com/go-playground/validator/v10"
)

var ErrInvalidDraft = errors.New("booking draft is not submittable")

// Reason names one unmet submission condition.
type Reason string

// Reasons in evaluation order.
const (
	ReasonItemRequired    Reason = "rental_item_required"
	ReasonItemNotFound    Reason = "rental_item_not_found"
	ReasonItemUnavailable Reason = "rental_item_unavailable"
	ReasonStartRequired   Reason = "start_date_required"
	ReasonEndRequired     Reason = "end_date_required"
	ReasonDateRange       Reason = "end_date_before_start_date"
	ReasonCostOverflow    Reason = "total_cost_out_of_range"
	ReasonNameRequired    Reason = "customer_name_required"
	ReasonEmailRequired   Reason = "customer_email_required"
	ReasonPhoneRequired   Reason = "customer_phone_required"
	ReasonEmailInvalid    Reason = "customer_email_invalid"
)

var reasonMessages = map[Reason]string{
	ReasonItemRequired:    "pilih peralatan yang ingin disewa",
	ReasonItemNotFound:    "peralatan tidak ditemukan",
	ReasonItemUnavailable: "peralatan sedang tidak tersedia",
	ReasonStartRequired:   "tanggal mulai wajib diisi",
	ReasonEndRequired:     "tanggal selesai wajib diisi",
	ReasonDateRange:       "tanggal selesai tidak boleh sebelum tanggal mulai",
	ReasonCostOverflow:    "total biaya sewa melebihi batas",
	ReasonNameRequired:    "nama wajib diisi",
	ReasonEmailRequired:   "email wajib diisi",
	ReasonPhoneRequired:   "nomor telepon wajib diisi",
	ReasonEmailInvalid:    "format email tidak valid",
}

// Message returns the user-facing text for r.
func (r Reason) Message() string {
	if m, ok := reasonMessages[r]; ok {
		return m
	}
	return string(r)
}

// ValidationError rejects a submission. Reasons lists every unmet condition
// in evaluation order; the first one is the primary reason.
type ValidationError struct {
	Reasons []Reason
}

// Reason returns the first unmet condition.
func (e *ValidationError) Reason() Reason {
	if len(e.Reasons) == 0 {
		return ""
	}
	return e.Reasons[0]
}

func (e *ValidationError) Error() string {
	return "booking rejected: " + string(e.Reason())
}

// Has reports whether r is among the unmet conditions.
func (e *ValidationError) Has(r Reason) bool {
	for _, got := range e.Reasons {
		if got == r {
			return true
		}
	}
	return false
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidDraft
}

var validate = validator.New()

// Validate returns the unmet conditions for d, in order. An empty result
// means the draft may be submitted.
func Validate(d Draft, items Catalog) []Reason {
	var reasons []Reason

	var item catalog.RentalItem
	found := false
	if strings.TrimSpace(d.RentalItemID) == "" {
		reasons = append(reasons, ReasonItemRequired)
	} else if items == nil {
		reasons = append(reasons, ReasonItemNotFound)
	} else if item, found = items.RentalItem(d.RentalItemID); !found {
		reasons = append(reasons, ReasonItemNotFound)
	} else if !item.Available {
		reasons = append(reasons, ReasonItemUnavailable)
	}

	start, okStart, errStart := ParseDay(d.StartDate)
	end, okEnd, errEnd := ParseDay(d.EndDate)
	if !okStart || errStart != nil {
		reasons = append(reasons, ReasonStartRequired)
	}
	if !okEnd || errEnd != nil {
		reasons = append(reasons, ReasonEndRequired)
	}
	if okStart && okEnd && end.Before(start) {
		reasons = append(reasons, ReasonDateRange)
	}
	if found && okStart && okEnd {
		if _, ok := costFor(DaysInclusive(start, end), item.DailyRate); !ok {
			reasons = append(reasons, ReasonCostOverflow)
		}
	}

	if strings.TrimSpace(d.CustomerName) == "" {
		reasons = append(reasons, ReasonNameRequired)
	}
	email := strings.TrimSpace(d.CustomerEmail)
	if email == "" {
		reasons = append(reasons, ReasonEmailRequired)
	}
	if strings.TrimSpace(d.CustomerPhone) == "" {
		reasons = append(reasons, ReasonPhoneRequired)
	}
	if email != "" && validate.Var(email, "email") != nil {
		reasons = append(reasons, ReasonEmailInvalid)
	}
	return reasons
}
