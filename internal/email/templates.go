package email

import (
	"strconv"
	"strings"

	"github.com/example/teskom-storefront/internal/catalog"
	"github.com/example/teskom-storefront/internal/render"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// Booking is the data shown in a confirmation email
type Booking struct {
	ID            string
	ItemName      string
	CustomerName  string
	CustomerEmail string
	StartDate     string
	EndDate       string
	TotalDays     int
	DailyRate     catalog.Amount
	TotalCost     catalog.Amount
}

var formatter = render.NewFormatter("id-ID")

// RenderBookingConfirmation builds the HTML body for a booking confirmation
func RenderBookingConfirmation(b Booking) (string, error) {
	var sb strings.Builder
	if err := confirmationPage(b).Render(&sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func confirmationPage(b Booking) g.Node {
	return h.Doctype(h.HTML(h.Lang("id"),
		h.Head(
			h.Meta(h.Charset("UTF-8")),
			h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1.0")),
		),
		h.Body(h.Style("font-family: sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;"),
			h.Div(h.Style("background: #f97316; padding: 30px; border-radius: 10px 10px 0 0;"),
				h.H1(h.Style("color: white; margin: 0; font-size: 24px;"), g.Text("Terima kasih, "+b.CustomerName)),
			),
			h.Div(h.Style("background: #fff; padding: 30px; border: 1px solid #eee; border-top: none;"),
				h.P(g.Text("Permintaan sewa Anda telah kami terima dan sedang diproses.")),
				h.P(h.Style("font-family: monospace; font-weight: bold;"), g.Text(b.ID)),
				h.Table(h.Style("width: 100%; border-collapse: collapse; margin: 20px 0;"),
					h.TBody(
						row("Peralatan", b.ItemName),
						row("Tanggal mulai", dateOrRaw(b.StartDate)),
						row("Tanggal selesai", dateOrRaw(b.EndDate)),
						row("Durasi", strconv.Itoa(b.TotalDays)+" hari"),
						row("Tarif harian", amountOrRaw(b.DailyRate)+"/hari"),
						row("Total biaya", amountOrRaw(b.TotalCost)),
					),
				),
				h.P(h.Style("font-size: 12px; color: #999;"),
					g.Text("Email ini dikirim otomatis. Hubungi info@teskom.id jika ada pertanyaan."),
				),
			),
		),
	))
}

func row(label, value string) g.Node {
	return h.Tr(
		h.Td(h.Style("padding: 8px; color: #666;"), g.Text(label)),
		h.Td(h.Style("padding: 8px; text-align: right; font-weight: bold;"), g.Text(value)),
	)
}

func dateOrRaw(raw string) string {
	if s, err := formatter.Date(raw); err == nil {
		return s
	}
	return raw
}

func amountOrRaw(a catalog.Amount) string {
	if s, err := formatter.Amount(a); err == nil {
		return s
	}
	return "Rp " + strconv.FormatInt(int64(a), 10)
}
