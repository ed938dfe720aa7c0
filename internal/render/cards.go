package render

import (
	"fmt"
	"strconv"

	"github.com/example/teskom-storefront/internal/catalog"
	"github.com/example/teskom-storefront/internal/loader"
)

// Card is the display form of one catalog entity.
type Card struct {
	Key         string       `json:"key"`
	Kind        catalog.Kind `json:"kind"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	ImageURL    string       `json:"image_url,omitempty"`
	Badge       string       `json:"badge,omitempty"`
	Price       string       `json:"price,omitempty"`
	Meta        []string     `json:"meta,omitempty"`
	Action      string       `json:"action,omitempty"`
	// Raw is set when formatting failed and unformatted values are shown.
	Raw bool `json:"raw,omitempty"`
}

// Builder turns one entity into a card. Build may fail or panic; Raw must not.
type Builder[T catalog.Entity] struct {
	Build func(Formatter, T) (Card, error)
	Raw   func(T) Card
}

// Cards renders a load state. Idle and Loading render nothing; a loaded
// collection renders one card per entity in source order. A card whose
// formatting fails is shown with raw values and the others are unaffected.
func Cards[T catalog.Entity](f Formatter, b Builder[T], s loader.State[T]) []Card {
	if s.Status != loader.Loaded {
		return []Card{}
	}
	cards := make([]Card, 0, len(s.Items))
	for _, item := range s.Items {
		cards = append(cards, build(f, b, item))
	}
	return cards
}

func build[T catalog.Entity](f Formatter, b Builder[T], item T) (card Card) {
	defer func() {
		if r := recover(); r != nil {
			card = b.Raw(item)
			card.Key = item.Key()
			card.Raw = true
		}
	}()
	c, err := b.Build(f, item)
	if err != nil {
		c = b.Raw(item)
		c.Raw = true
	}
	c.Key = item.Key()
	return c
}

var ProductCards = Builder[catalog.Product]{
	Build: func(f Formatter, p catalog.Product) (Card, error) {
		price, err := f.Amount(p.Price)
		if err != nil {
			return Card{}, fmt.Errorf("product %s: %w", p.ID, err)
		}
		c := productBase(p)
		c.Price = price
		return c, nil
	},
	Raw: func(p catalog.Product) Card {
		c := productBase(p)
		c.Price = rawAmount(p.Price)
		return c
	},
}

func productBase(p catalog.Product) Card {
	c := Card{
		Key:         p.ID,
		Kind:        catalog.KindProducts,
		Title:       p.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Badge:       p.Category,
		Action:      "Detail",
	}
	if !p.InStock {
		c.Meta = []string{"Stok habis"}
	}
	return c
}

var RentalCards = Builder[catalog.RentalItem]{
	Build: func(f Formatter, r catalog.RentalItem) (Card, error) {
		rate, err := f.Amount(r.DailyRate)
		if err != nil {
			return Card{}, fmt.Errorf("rental item %s: %w", r.ID, err)
		}
		c := rentalBase(r)
		c.Price = rate + "/hari"
		return c, nil
	},
	Raw: func(r catalog.RentalItem) Card {
		c := rentalBase(r)
		c.Price = rawAmount(r.DailyRate) + "/hari"
		return c
	},
}

func rentalBase(r catalog.RentalItem) Card {
	c := Card{
		Key:         r.ID,
		Kind:        catalog.KindRentalItems,
		Title:       r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Badge:       "Available",
		Action:      "Sewa Sekarang",
	}
	if !r.Available {
		c.Badge = "Tidak tersedia"
	}
	return c
}

var ArticleCards = Builder[catalog.Article]{
	Build: func(f Formatter, a catalog.Article) (Card, error) {
		date, err := f.Date(a.CreatedAt)
		if err != nil {
			return Card{}, fmt.Errorf("article %s: %w", a.ID, err)
		}
		c := articleBase(a)
		c.Meta = []string{"By " + a.Author, date}
		return c, nil
	},
	Raw: func(a catalog.Article) Card {
		c := articleBase(a)
		c.Meta = []string{"By " + a.Author, a.CreatedAt}
		return c
	},
}

func articleBase(a catalog.Article) Card {
	return Card{
		Key:         a.ID,
		Kind:        catalog.KindArticles,
		Title:       a.Title,
		Description: a.Excerpt,
		ImageURL:    a.ImageURL,
		Action:      "Baca Selengkapnya",
	}
}

func rawAmount(a catalog.Amount) string {
	return "Rp " + strconv.FormatInt(int64(a), 10)
}

func Products(f Formatter, s loader.State[catalog.Product]) []Card {
	return Cards(f, ProductCards, s)
}

func RentalItems(f Formatter, s loader.State[catalog.RentalItem]) []Card {
	return Cards(f, RentalCards, s)
}

func Articles(f Formatter, s loader.State[catalog.Article]) []Card {
	return Cards(f, ArticleCards, s)
}
