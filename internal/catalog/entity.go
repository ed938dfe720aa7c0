package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	ErrFractionalAmount = errors.New("amount must be a whole number")
	ErrInvalidDate      = errors.New("invalid calendar date")
)

// Entity is anything that can be rendered as a keyed card.
type Entity interface {
	Key() string
}

// Amount is a rupiah value in the smallest currency unit.
type Amount int64

// UnmarshalJSON accepts integers and integral floats ("2500000.0"), which is
// how the content service encodes prices.
func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*a = Amount(n)
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("amount %s: %w", s, err)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return fmt.Errorf("amount %s: %w", s, ErrFractionalAmount)
	}
	*a = Amount(f)
	return nil
}

type Product struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       Amount `json:"price" validate:"gte=0"`
	ImageURL    string `json:"image_url"`
	InStock     bool   `json:"in_stock"`
}

func (p Product) Key() string { return p.ID }

// UnmarshalJSON defaults in_stock to true when the field is absent.
func (p *Product) UnmarshalJSON(b []byte) error {
	type alias Product
	a := alias{InStock: true}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*p = Product(a)
	return nil
}

type RentalItem struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	DailyRate   Amount `json:"daily_rate" validate:"gte=0"`
	ImageURL    string `json:"image_url"`
	Available   bool   `json:"available"`
}

func (r RentalItem) Key() string { return r.ID }

// UnmarshalJSON defaults available to true when the field is absent.
func (r *RentalItem) UnmarshalJSON(b []byte) error {
	type alias RentalItem
	a := alias{Available: true}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*r = RentalItem(a)
	return nil
}

type Article struct {
	ID       string `json:"id" validate:"required"`
	Title    string `json:"title" validate:"required"`
	Excerpt  string `json:"excerpt"`
	Content  string `json:"content,omitempty"`
	ImageURL string `json:"image_url"`
	Author   string `json:"author"`
	// CreatedAt is kept as sent; it is parsed when rendered.
	CreatedAt string `json:"created_at"`
}

func (a Article) Key() string { return a.ID }

// Date parses CreatedAt.
func (a Article) Date() (time.Time, error) {
	return ParseDate(a.CreatedAt)
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseDate accepts a plain calendar date or an ISO-8601 timestamp and
// returns the calendar day it names.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// RentalIndex looks rental items up by id. The first entry wins when the
// source repeats an id.
type RentalIndex struct {
	items []RentalItem
	byID  map[string]int
}

func NewRentalIndex(items []RentalItem) *RentalIndex {
	idx := &RentalIndex{
		items: items,
		byID:  make(map[string]int, len(items)),
	}
	for i, item := range items {
		if _, ok := idx.byID[item.ID]; !ok {
			idx.byID[item.ID] = i
		}
	}
	return idx
}

func (idx *RentalIndex) RentalItem(id string) (RentalItem, bool) {
	if idx == nil {
		return RentalItem{}, false
	}
	i, ok := idx.byID[id]
	if !ok {
		return RentalItem{}, false
	}
	return idx.items[i], true
}

// Items returns the indexed items in source order.
func (idx *RentalIndex) Items() []RentalItem {
	if idx == nil {
		return nil
	}
	return idx.items
}
