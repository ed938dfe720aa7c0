package render

import (
	"errors"
	"fmt"
	"time"

	"github.com/example/teskom-storefront/internal/catalog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ErrNegativeAmount = errors.New("negative amount")

// dateLayouts maps a base language to its short calendar date layout.
var dateLayouts = map[string]string{
	"id": "2/1/2006",
	"en": "1/2/2006",
	"de": "2.1.2006",
	"ja": "2006/1/2",
}

const defaultDateLayout = "2006-01-02"

// Formatter renders amounts and dates for one locale. It is safe for
// concurrent use.
type Formatter struct {
	tag        language.Tag
	dateLayout string
}

// NewFormatter parses a BCP 47 locale. Unparsable locales fall back to
// Indonesian.
func NewFormatter(locale string) Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Indonesian
	}
	base, _ := tag.Base()
	layout, ok := dateLayouts[base.String()]
	if !ok {
		layout = defaultDateLayout
	}
	return Formatter{tag: tag, dateLayout: layout}
}

func (f Formatter) Locale() string {
	return f.tag.String()
}

// Amount formats a rupiah amount with the locale's digit grouping,
// e.g. "Rp 2.500.000" for id.
func (f Formatter) Amount(a catalog.Amount) (string, error) {
	if a < 0 {
		return "", fmt.Errorf("%w: %d", ErrNegativeAmount, a)
	}
	// message.Printer is not safe for concurrent use.
	p := message.NewPrinter(f.tag)
	return "Rp " + p.Sprintf("%d", int64(a)), nil
}

// Date formats a wire date as a short localized calendar date,
// e.g. "15/1/2024" for id.
func (f Formatter) Date(raw string) (string, error) {
	t, err := catalog.ParseDate(raw)
	if err != nil {
		return "", err
	}
	return f.FormatTime(t), nil
}

func (f Formatter) FormatTime(t time.Time) string {
	return t.Format(f.dateLayout)
}
