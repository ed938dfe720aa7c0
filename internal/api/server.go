package api

import (
	"context"
	"time"

	"github.com/example/teskom-storefront/internal/auth"
	"github.com/example/teskom-storefront/internal/booking"
	"github.com/example/teskom-storefront/internal/catalog"
	"github.com/example/teskom-storefront/internal/intake"
	"github.com/example/teskom-storefront/internal/loader"
	"github.com/example/teskom-storefront/internal/render"
	"golang.org/x/sync/errgroup"
)

const defaultFormTTL = 30 * time.Minute

// Fetchers are the remote sources, one per collection kind.
type Fetchers struct {
	Products    loader.Fetcher[catalog.Product]
	RentalItems loader.Fetcher[catalog.RentalItem]
	Articles    loader.Fetcher[catalog.Article]
}

// BookingReader looks up accepted bookings.
type BookingReader interface {
	Booking(ctx context.Context, bookingID string) (*intake.RentalBookingRequested, error)
}

type Config struct {
	Fetchers  Fetchers
	Formatter render.Formatter
	Sink      loader.Sink
	// Timeout bounds each remote fetch. Zero means no bound.
	Timeout  time.Duration
	Sessions *auth.SessionService
	Intake   booking.Intake
	Bookings BookingReader
	FormTTL  time.Duration
}

// Page is one mount of the storefront: every collection resolved once.
type Page struct {
	Products    []render.Card
	RentalItems []render.Card
	Articles    []render.Card
	Origins     map[catalog.Kind]loader.Origin
	// Rentals are the rental items the booking form may select.
	Rentals []catalog.RentalItem
}

type Server struct {
	fetchers  Fetchers
	formatter render.Formatter
	sink      loader.Sink
	timeout   time.Duration
	sessions  *auth.SessionService
	bookings  BookingReader
	forms     *FormRegistry
}

func NewServer(cfg Config) *Server {
	s := &Server{
		fetchers:  cfg.Fetchers,
		formatter: cfg.Formatter,
		sink:      cfg.Sink,
		timeout:   cfg.Timeout,
		sessions:  cfg.Sessions,
		bookings:  cfg.Bookings,
	}
	ttl := cfg.FormTTL
	if ttl <= 0 {
		ttl = defaultFormTTL
	}
	s.forms = NewFormRegistry(ttl, func() *booking.Form {
		return booking.NewForm(nil, cfg.Intake)
	})
	return s
}

// Forms returns the per-session booking forms.
func (s *Server) Forms() *FormRegistry {
	return s.forms
}

func (s *Server) loaderOptions() []loader.Option {
	var opts []loader.Option
	if s.sink != nil {
		opts = append(opts, loader.WithSink(s.sink))
	}
	if s.timeout > 0 {
		opts = append(opts, loader.WithTimeout(s.timeout))
	}
	return opts
}

func (s *Server) productLoader() *loader.Loader[catalog.Product] {
	return loader.New(catalog.KindProducts, s.fetchers.Products, catalog.FallbackProducts, s.loaderOptions()...)
}

func (s *Server) articleLoader() *loader.Loader[catalog.Article] {
	return loader.New(catalog.KindArticles, s.fetchers.Articles, catalog.FallbackArticles, s.loaderOptions()...)
}

func (s *Server) rentalLoader() *loader.Loader[catalog.RentalItem] {
	return loader.New(catalog.KindRentalItems, s.fetchers.RentalItems, catalog.FallbackRentalItems, s.loaderOptions()...)
}

// Mount resolves all three collections concurrently. Each call is a fresh
// attempt against the content service.
func (s *Server) Mount(ctx context.Context) Page {
	products := s.productLoader()
	rentals := s.rentalLoader()
	articles := s.articleLoader()

	var g errgroup.Group
	g.Go(func() error { products.Load(ctx); return nil })
	g.Go(func() error { rentals.Load(ctx); return nil })
	g.Go(func() error { articles.Load(ctx); return nil })
	_ = g.Wait()

	ps, rs, as := products.State(), rentals.State(), articles.State()
	return Page{
		Products:    render.Products(s.formatter, ps),
		RentalItems: render.RentalItems(s.formatter, rs),
		Articles:    render.Articles(s.formatter, as),
		Origins: map[catalog.Kind]loader.Origin{
			catalog.KindProducts:    ps.Origin,
			catalog.KindRentalItems: rs.Origin,
			catalog.KindArticles:    as.Origin,
		},
		Rentals: rs.Items,
	}
}

// Collection is one collection resolved on its own.
type Collection struct {
	Cards  []render.Card
	Origin loader.Origin
	// Rentals is set for the rental-items kind.
	Rentals []catalog.RentalItem
}

// MountKind resolves a single collection.
func (s *Server) MountKind(ctx context.Context, kind catalog.Kind) (Collection, error) {
	switch kind {
	case catalog.KindProducts:
		st := s.productLoader().Load(ctx)
		return Collection{Cards: render.Products(s.formatter, st), Origin: st.Origin}, nil
	case catalog.KindRentalItems:
		st := s.rentalLoader().Load(ctx)
		return Collection{Cards: render.RentalItems(s.formatter, st), Origin: st.Origin, Rentals: st.Items}, nil
	case catalog.KindArticles:
		st := s.articleLoader().Load(ctx)
		return Collection{Cards: render.Articles(s.formatter, st), Origin: st.Origin}, nil
	}
	return Collection{}, catalog.ErrUnknownKind
}

// bindRentals makes items the catalog of one visitor's booking form.
func bindRentals(form *booking.Form, items []catalog.RentalItem) {
	form.SetCatalog(catalog.NewRentalIndex(items))
}

// ensureRentals gives form a rental catalog if none of the visitor's mounts
// has yet.
func (s *Server) ensureRentals(ctx context.Context, form *booking.Form) {
	if form.Catalog() != nil {
		return
	}
	bindRentals(form, s.rentalLoader().Load(ctx).Items)
}
