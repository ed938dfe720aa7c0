package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/example/teskom-storefront/internal/booking"
	"github.com/example/teskom-storefront/internal/catalog"
	"github.com/example/teskom-storefront/internal/render"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// PageData is everything the storefront page shows.
type PageData struct {
	Page      Page
	View      booking.View
	Formatter render.Formatter
	// BookedID is set after a successful submission.
	BookedID string
	Error    string
	Problems []booking.Reason
}

type service struct {
	Name        string
	Description string
	Features    []string
}

var services = []service{
	{
		Name:        "Instalasi Listrik",
		Description: "Layanan instalasi listrik profesional untuk residential dan komersial",
		Features:    []string{"Instalasi Rumah", "Instalasi Pabrik", "Maintenance Berkala", "Emergency Service"},
	},
	{
		Name:        "Konsultasi Teknis",
		Description: "Konsultasi ahli untuk perencanaan sistem elektrikal yang optimal",
		Features:    []string{"Analisis Kebutuhan", "Desain Sistem", "Perhitungan Daya", "Rekomendasi Produk"},
	},
	{
		Name:        "Maintenance & Repair",
		Description: "Layanan perawatan dan perbaikan sistem elektrikal berkala",
		Features:    []string{"Preventive Maintenance", "Emergency Repair", "System Upgrade", "24/7 Support"},
	},
}

func renderPage(w http.ResponseWriter, status int, data PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := StorefrontPage(data).Render(w); err != nil {
		log.Printf("[API] Failed to render page: %v", err)
	}
}

// StorefrontPage renders the full single-page storefront.
func StorefrontPage(data PageData) g.Node {
	return h.Doctype(
		h.HTML(h.Lang("id"),
			h.Head(
				h.Meta(h.Charset("utf-8")),
				h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
				h.TitleEl(g.Text("Teskom.id | Solusi Elektrikal Profesional")),
			),
			h.Body(
				pageHeader(),
				h.Main(
					hero(),
					render.Section(catalog.KindProducts, data.Page.Products),
					render.Section(catalog.KindRentalItems, data.Page.RentalItems, bookingForm(data)),
					servicesSection(),
					render.Section(catalog.KindArticles, data.Page.Articles),
				),
				pageFooter(),
			),
		),
	)
}

func pageHeader() g.Node {
	return h.Header(h.Class("site-header"),
		h.A(h.Class("brand"), h.Href("#home"), g.Text("Teskom.id")),
		h.Nav(
			h.A(h.Href("#home"), g.Text("Home")),
			h.A(h.Href("#products"), g.Text("Products")),
			h.A(h.Href("#rental"), g.Text("Rental")),
			h.A(h.Href("#services"), g.Text("Services")),
			h.A(h.Href("#articles"), g.Text("Articles")),
		),
	)
}

func hero() g.Node {
	return h.Section(h.ID("home"), h.Class("hero"),
		h.H1(g.Text("Solusi Elektrikal "), h.Span(h.Class("accent"), g.Text("Profesional"))),
		h.P(g.Text("Menyediakan produk elektrikal berkualitas tinggi, layanan rental peralatan, dan solusi instalasi untuk kebutuhan industri dan residential.")),
		h.Div(h.Class("hero-actions"),
			h.A(h.Class("button"), h.Href("#products"), g.Text("Lihat Produk")),
			h.A(h.Class("button button-outline"), h.Href("#services"), g.Text("Konsultasi Gratis")),
		),
	)
}

func bookingForm(data PageData) g.Node {
	v := data.View
	return h.Form(h.ID("booking"), h.Class("booking-form"), h.Method("post"), h.Action("/booking"),
		h.Data("state", v.State.String()),
		h.H3(g.Text("Formulir Sewa")),
		g.If(data.BookedID != "",
			h.P(h.Class("notice"), g.Text("Permintaan sewa Anda telah diterima. Nomor pemesanan: "+data.BookedID)),
		),
		g.If(data.Error != "", h.P(h.Class("error"), g.Text(data.Error))),
		g.If(len(data.Problems) > 0,
			h.Ul(h.Class("problems"), g.Map(data.Problems, func(r booking.Reason) g.Node {
				return h.Li(h.Data("reason", string(r)), g.Text(r.Message()))
			})),
		),
		h.Label(h.For("rental_item_id"), g.Text("Peralatan")),
		h.Select(h.ID("rental_item_id"), h.Name("rental_item_id"),
			h.Option(h.Value(""), g.Text("Pilih peralatan")),
			g.Map(data.Page.Rentals, func(item catalog.RentalItem) g.Node {
				label := item.Name
				if !item.Available {
					label += " (tidak tersedia)"
				}
				return h.Option(h.Value(item.ID),
					g.If(item.ID == v.Draft.RentalItemID, h.Selected()),
					g.Text(label),
				)
			}),
		),
		field("customer_name", "Nama", "text", v.Draft.CustomerName),
		field("customer_email", "Email", "email", v.Draft.CustomerEmail),
		field("customer_phone", "Telepon", "tel", v.Draft.CustomerPhone),
		field("start_date", "Tanggal Mulai", "date", v.Draft.StartDate),
		field("end_date", "Tanggal Selesai", "date", v.Draft.EndDate),
		h.P(h.Class("totals"), g.Text(totalsText(data.Formatter, v.Totals))),
		h.Div(h.Class("form-actions"),
			h.Button(h.Type("submit"), h.Name("action"), h.Value("submit"), g.Text("Kirim Permintaan Sewa")),
			h.Button(h.Type("submit"), g.Attr("formaction", "/booking/cancel"), g.Attr("formnovalidate"), g.Text("Batal")),
		),
	)
}

func field(name, label, typ, value string) g.Node {
	return h.Div(h.Class("field"),
		h.Label(h.For(name), g.Text(label)),
		h.Input(h.ID(name), h.Name(name), h.Type(typ), h.Value(value)),
	)
}

func totalsText(f render.Formatter, t booking.Totals) string {
	cost, err := f.Amount(t.Cost)
	if err != nil {
		cost = "Rp " + strconv.FormatInt(int64(t.Cost), 10)
	}
	return strconv.Itoa(t.Days) + " hari · " + cost
}

func servicesSection() g.Node {
	return h.Section(h.ID("services"), h.Class("section"),
		h.Div(h.Class("section-heading"),
			h.H2(g.Text("Layanan Kami")),
			h.P(g.Text("Solusi lengkap untuk semua kebutuhan elektrikal Anda")),
		),
		h.Div(h.Class("grid"), g.Map(services, func(sv service) g.Node {
			return h.Article(h.Class("card card-service"),
				h.H3(g.Text(sv.Name)),
				h.P(g.Text(sv.Description)),
				h.Ul(g.Map(sv.Features, func(f string) g.Node { return h.Li(g.Text(f)) })),
			)
		})),
	)
}

func pageFooter() g.Node {
	return h.Footer(h.Class("site-footer"),
		h.P(g.Text("Solusi elektrikal terpercaya untuk kebutuhan residential dan industrial.")),
		h.Ul(
			h.Li(g.Text("+62 21 1234 5678")),
			h.Li(g.Text("info@teskom.id")),
			h.Li(g.Text("Jakarta, Indonesia")),
		),
		h.P(g.Text("© 2024 Teskom.id. All rights reserved.")),
	)
}
