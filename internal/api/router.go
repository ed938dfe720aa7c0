package api

import (
	"net/http"

	"github.com/example/teskom-storefront/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(s.sessions))

		r.Get("/", s.Home)
		r.Get("/sections/{kind}", s.Section)
		r.Post("/booking", s.PostBooking)
		r.Post("/booking/cancel", s.CancelBooking)

		r.Route("/api", func(r chi.Router) {
			r.Get("/catalog/{kind}", s.Catalog)
			r.Get("/booking", s.GetBooking)
			r.Post("/booking/events", s.BookingEvent)
			r.Get("/bookings/{id}", s.GetBookingByID)
		})
	})

	return r
}
