package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/example/teskom-storefront/internal/api/middleware"
	"github.com/example/teskom-storefront/internal/booking"
	"github.com/example/teskom-storefront/internal/catalog"
	"github.com/example/teskom-storefront/internal/intake"
	"github.com/example/teskom-storefront/internal/loader"
	"github.com/example/teskom-storefront/internal/render"
	"github.com/go-chi/chi/v5"
)

func (s *Server) form(r *http.Request) *booking.Form {
	return s.forms.Get(middleware.SessionID(r.Context()))
}

// Page handlers

func (s *Server) Home(w http.ResponseWriter, r *http.Request) {
	page := s.Mount(r.Context())
	form := s.form(r)
	bindRentals(form, page.Rentals)

	if item := r.URL.Query().Get("item"); item != "" && item != form.Draft().RentalItemID {
		if err := form.Dispatch(r.Context(), booking.SelectItem{ID: item}); err != nil {
			log.Printf("[API] Failed to preselect rental item %s: %v", item, err)
		}
	}

	data := PageData{Page: page, View: form.View(), Formatter: s.formatter}
	if id := r.URL.Query().Get("booked"); id != "" {
		data.BookedID = id
	}
	renderPage(w, http.StatusOK, data)
}

func (s *Server) Section(w http.ResponseWriter, r *http.Request) {
	kind, err := catalog.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	col, err := s.MountKind(r.Context(), kind)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if kind == catalog.KindRentalItems {
		bindRentals(s.form(r), col.Rentals)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.Section(kind, col.Cards).Render(w); err != nil {
		log.Printf("[API] Failed to render section %s: %v", kind, err)
	}
}

// JSON handlers

type catalogResponse struct {
	Kind   catalog.Kind  `json:"kind"`
	Origin loader.Origin `json:"origin"`
	Cards  []render.Card `json:"cards"`
}

func (s *Server) Catalog(w http.ResponseWriter, r *http.Request) {
	kind, err := catalog.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	col, err := s.MountKind(r.Context(), kind)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if kind == catalog.KindRentalItems {
		bindRentals(s.form(r), col.Rentals)
	}
	respondJSON(w, http.StatusOK, catalogResponse{Kind: kind, Origin: col.Origin, Cards: col.Cards})
}

func (s *Server) GetBooking(w http.ResponseWriter, r *http.Request) {
	form := s.form(r)
	s.ensureRentals(r.Context(), form)
	respondJSON(w, http.StatusOK, form.View())
}

type bookingEventRequest struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type bookingEventResponse struct {
	View         booking.View `json:"view"`
	SubmissionID string       `json:"submission_id,omitempty"`
}

type bookingErrorResponse struct {
	Error   string           `json:"error"`
	Reason  booking.Reason   `json:"reason,omitempty"`
	Reasons []booking.Reason `json:"reasons,omitempty"`
	View    booking.View     `json:"view"`
}

func (s *Server) BookingEvent(w http.ResponseWriter, r *http.Request) {
	var req bookingEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	ev, err := booking.ParseEvent(req.Type, req.Value)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	form := s.form(r)
	s.ensureRentals(r.Context(), form)
	before, hadBefore := form.LastSubmission()

	if err := form.Dispatch(r.Context(), ev); err != nil {
		var verr *booking.ValidationError
		if errors.As(err, &verr) {
			respondJSON(w, http.StatusUnprocessableEntity, bookingErrorResponse{
				Error:   err.Error(),
				Reason:  verr.Reason(),
				Reasons: verr.Reasons,
				View:    form.View(),
			})
			return
		}
		respondJSON(w, http.StatusBadRequest, bookingErrorResponse{Error: err.Error(), View: form.View()})
		return
	}

	resp := bookingEventResponse{View: form.View()}
	if _, ok := ev.(booking.Submit); ok {
		if sub, ok := form.LastSubmission(); ok && (!hadBefore || sub.ID != before.ID) {
			resp.SubmissionID = sub.ID
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	if s.bookings == nil {
		respondError(w, http.StatusNotFound, intake.ErrBookingNotFound.Error())
		return
	}
	b, err := s.bookings.Booking(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, intake.ErrBookingNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		log.Printf("[API] Failed to read booking: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to read booking")
		return
	}
	respondJSON(w, http.StatusOK, b)
}

// Form handlers

// formFields maps posted field names to the edit they produce, in draft
// order.
var formFields = []struct {
	name  string
	value func(booking.Draft) string
	event func(string) booking.Event
}{
	{"rental_item_id", func(d booking.Draft) string { return d.RentalItemID }, func(v string) booking.Event { return booking.SelectItem{ID: v} }},
	{"customer_name", func(d booking.Draft) string { return d.CustomerName }, func(v string) booking.Event { return booking.SetName{Value: v} }},
	{"customer_email", func(d booking.Draft) string { return d.CustomerEmail }, func(v string) booking.Event { return booking.SetEmail{Value: v} }},
	{"customer_phone", func(d booking.Draft) string { return d.CustomerPhone }, func(v string) booking.Event { return booking.SetPhone{Value: v} }},
	{"start_date", func(d booking.Draft) string { return d.StartDate }, func(v string) booking.Event { return booking.SetStartDate{Value: v} }},
	{"end_date", func(d booking.Draft) string { return d.EndDate }, func(v string) booking.Event { return booking.SetEndDate{Value: v} }},
}

// PostBooking applies the posted fields as edits and submits when asked. A
// post with an unparsable date is rejected before any field is applied.
func (s *Server) PostBooking(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	form := s.form(r)
	s.ensureRentals(r.Context(), form)

	for _, name := range []string{"start_date", "end_date"} {
		if _, _, err := booking.ParseDay(r.PostForm.Get(name)); err != nil {
			s.renderBookingError(w, r, http.StatusBadRequest, err, nil)
			return
		}
	}

	for _, f := range formFields {
		if _, ok := r.PostForm[f.name]; !ok {
			continue
		}
		v := r.PostForm.Get(f.name)
		if v == f.value(form.Draft()) {
			continue
		}
		if err := form.Dispatch(r.Context(), f.event(v)); err != nil {
			s.renderBookingError(w, r, http.StatusBadRequest, err, nil)
			return
		}
	}

	if r.PostForm.Get("action") != "submit" {
		http.Redirect(w, r, "/#booking", http.StatusSeeOther)
		return
	}

	if err := form.Dispatch(r.Context(), booking.Submit{}); err != nil {
		var verr *booking.ValidationError
		if errors.As(err, &verr) {
			s.renderBookingError(w, r, http.StatusUnprocessableEntity, nil, verr.Reasons)
			return
		}
		s.renderBookingError(w, r, http.StatusBadRequest, err, nil)
		return
	}

	sub, _ := form.LastSubmission()
	http.Redirect(w, r, "/?booked="+sub.ID+"#booking", http.StatusSeeOther)
}

func (s *Server) CancelBooking(w http.ResponseWriter, r *http.Request) {
	if err := s.form(r).Dispatch(r.Context(), booking.Cancel{}); err != nil {
		log.Printf("[API] Failed to cancel booking form: %v", err)
	}
	http.Redirect(w, r, "/#booking", http.StatusSeeOther)
}

func (s *Server) renderBookingError(w http.ResponseWriter, r *http.Request, status int, err error, problems []booking.Reason) {
	page := s.Mount(r.Context())
	form := s.form(r)
	bindRentals(form, page.Rentals)
	data := PageData{Page: page, View: form.View(), Formatter: s.formatter, Problems: problems}
	if err != nil {
		data.Error = errorMessage(err)
	}
	renderPage(w, status, data)
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, booking.ErrInvalidDate):
		return "format tanggal tidak valid"
	case errors.Is(err, booking.ErrUnknownEvent):
		return "aksi tidak dikenal"
	}
	return err.Error()
}

func Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": strings.TrimSpace(msg)})
}
