package render

import (
	"github.com/example/teskom-storefront/internal/catalog"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// SectionCopy is the heading shown above a catalog grid.
type SectionCopy struct {
	ID       string
	Title    string
	Subtitle string
}

var sectionCopy = map[catalog.Kind]SectionCopy{
	catalog.KindProducts: {
		ID:       "products",
		Title:    "Katalog Produk",
		Subtitle: "Temukan berbagai produk elektrikal berkualitas untuk kebutuhan proyek Anda",
	},
	catalog.KindRentalItems: {
		ID:       "rental",
		Title:    "Rental Peralatan",
		Subtitle: "Sewa peralatan elektrikal profesional dengan tarif kompetitif",
	},
	catalog.KindArticles: {
		ID:       "articles",
		Title:    "Artikel & Tips",
		Subtitle: "Baca artikel terbaru seputar teknologi dan tips elektrikal",
	},
}

// CopyFor returns the section heading for kind.
func CopyFor(kind catalog.Kind) SectionCopy {
	return sectionCopy[kind]
}

// CardNode renders one card.
func CardNode(c Card) g.Node {
	return h.Article(
		h.Class("card card-"+string(c.Kind)),
		h.ID(string(c.Kind)+"-"+c.Key),
		h.Data("key", c.Key),
		g.If(c.Raw, h.Data("raw", "true")),
		g.If(c.ImageURL != "" || c.Badge != "",
			h.Div(h.Class("card-media"),
				g.If(c.ImageURL != "", h.Img(h.Src(c.ImageURL), h.Alt(c.Title), h.Loading("lazy"))),
				g.If(c.Badge != "", h.Span(h.Class("badge"), g.Text(c.Badge))),
			),
		),
		h.Div(h.Class("card-body"),
			h.H3(h.Class("card-title"), g.Text(c.Title)),
			g.If(c.Description != "", h.P(h.Class("card-description"), g.Text(c.Description))),
			g.If(len(c.Meta) > 0,
				h.Div(h.Class("card-meta"), g.Map(c.Meta, func(m string) g.Node {
					return h.Span(g.Text(m))
				})),
			),
			h.Div(h.Class("card-footer"),
				g.If(c.Price != "", h.Span(h.Class("price"), g.Text(c.Price))),
				g.If(c.Action != "", actionNode(c)),
			),
		),
	)
}

// actionNode links rental cards to the booking form with the item preselected.
func actionNode(c Card) g.Node {
	if c.Kind == catalog.KindRentalItems {
		return h.A(h.Class("button"), h.Href("/?item="+c.Key+"#booking"), g.Text(c.Action))
	}
	return h.Button(h.Class("button"), h.Type("button"), g.Text(c.Action))
}

// Grid renders cards in order.
func Grid(cards []Card) g.Node {
	return h.Div(h.Class("grid"), g.Map(cards, CardNode))
}

// Section renders a full catalog section. An empty card list renders the
// heading and an empty grid.
func Section(kind catalog.Kind, cards []Card, extra ...g.Node) g.Node {
	cp := CopyFor(kind)
	return h.Section(h.ID(cp.ID), h.Class("section"),
		h.Div(h.Class("section-heading"),
			h.H2(g.Text(cp.Title)),
			h.P(g.Text(cp.Subtitle)),
		),
		Grid(cards),
		g.Group(extra),
	)
}
