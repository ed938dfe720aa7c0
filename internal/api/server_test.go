package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/example/teskom-storefront/internal/api/middleware"
	"github.com/example/teskom-storefront/internal/auth"
	"github.com/example/teskom-storefront/internal/booking"
	"github.com/example/teskom-storefront/internal/catalog"
	"github.com/example/teskom-storefront/internal/intake"
	"github.com/example/teskom-storefront/internal/loader"
	"github.com/example/teskom-storefront/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errOffline = errors.New("content service offline")

type recordingIntake struct {
	mu    sync.Mutex
	calls []booking.Submission
}

func (m *recordingIntake) Submit(ctx context.Context, sub booking.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, sub)
	return nil
}

func (m *recordingIntake) Booking(ctx context.Context, id string) (*intake.RentalBookingRequested, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sub := range m.calls {
		if sub.ID == id {
			return &intake.RentalBookingRequested{BookingID: sub.ID, RentalItemID: sub.RentalItemID, TotalCost: sub.TotalCost}, nil
		}
	}
	return nil, intake.ErrBookingNotFound
}

func offline[T any]() loader.Fetcher[T] {
	return loader.FetchFunc[T](func(ctx context.Context) ([]T, error) {
		return nil, errOffline
	})
}

func offlineFetchers() Fetchers {
	return Fetchers{
		Products:    offline[catalog.Product](),
		RentalItems: offline[catalog.RentalItem](),
		Articles:    offline[catalog.Article](),
	}
}

func newTestServer(t *testing.T, fetchers Fetchers) (http.Handler, *recordingIntake) {
	t.Helper()
	in := &recordingIntake{}
	s := NewServer(Config{
		Fetchers:  fetchers,
		Formatter: render.NewFormatter("id-ID"),
		Timeout:   time.Second,
		Sessions:  auth.NewSessionService("test-secret-key", time.Hour),
		Intake:    in,
		Bookings:  in,
	})
	return NewRouter(s), in
}

// client replays the session cookie between requests
type client struct {
	t       *testing.T
	handler http.Handler
	cookie  *http.Cookie
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.SessionCookie {
			c.cookie = ck
		}
	}
	return rec
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) event(typ, value string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(bookingEventRequest{Type: typ, Value: value})
	req := httptest.NewRequest(http.MethodPost, "/api/booking/events", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *client) postForm(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func validBookingForm() url.Values {
	return url.Values{
		"rental_item_id": {"2"},
		"customer_name":  {"Budi"},
		"customer_email": {"budi@example.com"},
		"customer_phone": {"0812345678"},
		"start_date":     {"2024-06-01"},
		"end_date":       {"2024-06-05"},
	}
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var v map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

// ============================================
// Page Tests
// ============================================

func TestHealth(t *testing.T) {
	h, _ := newTestServer(t, offlineFetchers())
	c := &client{t: t, handler: h}

	rec := c.get("/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, c.cookie)
}

func TestHome_RendersFallbackWhenContentServiceIsDown(t *testing.T) {
	h, _ := newTestServer(t, offlineFetchers())
	c := &client{t: t, handler: h}

	rec := c.get("/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Solusi Elektrikal")
	assert.Contains(t, body, "Generator 10KVA")
	assert.Contains(t, body, "Welding Machine")
	assert.Contains(t, body, "Layanan Kami")
	assert.Contains(t, body, "info@teskom.id")
	assert.Contains(t, body, `id="booking"`)
	assert.NotNil(t, c.cookie)
}

func TestHome_PreselectsRentalItem(t *testing.T) {
	h, _ := newTestServer(t, offlineFetchers())
	c := &client{t: t, handler: h}

	c.get("/?item=2")
	rec := c.get("/api/booking")

	require.Equal(t, http.StatusOK, rec.Code)
	v := decodeView(t, rec)
	assert.Equal(t, "editing", v["state"])
	assert.Equal(t, "2", v["draft"].(map[string]any)["rental_item_id"])
}

func TestSection_UnknownKind(t *testing.T) {
	h, _ := newTestServer(t, offlineFetchers())
	c := &client{t: t, handler: h}

	rec := c.get("/sections/services")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSection_RentalItems(t *testing.T) {
	h, _ := newTestServer(t, offlineFetchers())
	c := &client{t: t, handler: h}

	rec := c.get("/sections/rental-items")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sewa Sekarang")
	assert.Contains(t, rec.Body.String(), "/?item=2#booking")
}

// ============================================
// Catalog API Tests
// ============================================

func TestCatalog_RemoteSuccess(t *testing.T) {
	fetchers := offlineFetchers()
	fetchers.Products = loader.FetchFunc[catalog.Product](func(ctx context.Context) ([]catalog.Product, error) {
		return []catalog.Product{{ID: "p1", Name: "Kabel NYY", Price: 125000, InStock: true}}, nil
	})
	h, _ := newTestServer(t, fetchers)
	c := &client{t: t, handler: h}

	rec := c.get("/api/catalog/products")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp catalogResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, catalog.KindProducts, resp.Kind)
	assert.Equal(t, loader.OriginRemote, resp.Origin)
	require.Len(t, resp.Cards, 1)
	assert.Equal(t, "Kabel NYY", resp.Cards[0].Title)
	assert.Equal(t, "Rp 125.000", resp.Cards[0].Price)
}

func TestCatalog_Fallback(t *testing.T) {
	h, _ := newTestServer(t, offlineFetchers())
	c := &client{t: t, handler: h}

	rec := c.get("/api/catalog/articles")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp catalogResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, loader.OriginFallback, resp.Origin)
	assert.Len(t, resp.Cards, len(catalog.FallbackArticles()))
}

func TestCatalog_UnknownKind(t *testing.T) {
	h, _ := newTestServer(t, offlineFetchers())
	c := &client{t: t, handler: h}

	rec := c.get("/api/catalog/orders")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ============================================
// Booking API Tests
// ============================================

func TestBookingEvents_SubmitValidDraft(t *testing.T) {
	h, in := newTestServer(t, offlineFetchers())
	c := &client{t: t, handler: h}

	steps := [][2]string{
		{"select_item", "2"},
		{"set_name", "Budi"},
		{"set_email", "budi@example.com"},
		{"set_phone", "0812345678"},
		{"set_start_date", "2024-06-01"},
		{"set_end_date", "2024-06-05"},
	}
	for _, s := range steps {
		rec := c.event(s[0], s[1])
		require.Equal(t, http.StatusOK, rec.Code, s[0])
	}

	rec := c.get("/api/booking")
	v := decodeView(t, rec)
	assert.Equal(t, "valid", v["state"])
	assert.Equal(t, float64(5), v["total_days"])
	assert.Equal(t, float64(750000), v["total_cost"])

	rec = c.event("submit", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		View         map[string]any `json:"view"`
		SubmissionID string         `json:"submission_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SubmissionID)
	assert.Equal(t, "empty", resp.View["state"])

	require.Len(t, in.calls, 1)
	assert.Equal(t, resp.SubmissionID, in.calls[0].ID)
	assert.Equal(t, catalog.Amount(750000), in.calls[0].TotalCost)

	rec = c.get("/api/bookings/" + resp.SubmissionID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), resp.SubmissionID)
}

func TestBookingEvents_SubmitIncompleteDraft(t *testing.T) {
	h, in := newTestServer(t, offlineFetchers())
	c := &client{t: t, handler: h}

	rec := c.event("submit", "")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	v := decodeView(t, rec)
	assert.Equal(t, string(booking.ReasonItemRequired), v["reason"])
	assert.Empty(t, in.calls)
}

func TestBookingEvents_BadRequests(t *testing.T) {
	tests := []struct {
		name  string
		typ   string
		value string
	}{
		{"unparsable date", "set_start_date", "01/06/2024"},
		{"unknown event", "set_address", "Jakarta"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestServer(t, offlineFetchers())
			c := &client{t: t, handler: h}

			rec := c.event(tt.typ, tt.value)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestBooking_OtherVisitorsMountDoesNotChangeCatalog(t *testing.T) {
	var remoteUp atomic.Bool
	remoteUp.Store(true)
	fetchers := offlineFetchers()
	fetchers.RentalItems = loader.FetchFunc[catalog.RentalItem](func(ctx context.Context) ([]catalog.RentalItem, error) {
		if !remoteUp.Load() {
			return nil, errOffline
		}
		return []catalog.RentalItem{{ID: "gen-remote", Name: "Generator 20KVA", DailyRate: 400000, Available: true}}, nil
	})
	h, in := newTestServer(t, fetchers)
	alice := &client{t: t, handler: h}
	bob := &client{t: t, handler: h}

	alice.get("/")
	for _, s := range [][2]string{
		{"select_item", "gen-remote"},
		{"set_name", "Alice"},
		{"set_email", "alice@example.com"},
		{"set_phone", "0812345678"},
		{"set_start_date", "2024-06-01"},
		{"set_end_date", "2024-06-02"},
	} {
		require.Equal(t, http.StatusOK, alice.event(s[0], s[1]).Code, s[0])
	}

	remoteUp.Store(false)
	bob.get("/")

	v := decodeView(t, alice.get("/api/booking"))
	assert.Equal(t, "valid", v["state"])
	assert.Equal(t, true, v["valid"])

	rec := alice.event("submit", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, in.calls, 1)
	assert.Equal(t, "gen-remote", in.calls[0].RentalItemID)
	assert.Equal(t, catalog.Amount(800000), in.calls[0].TotalCost)
}

func TestBooking_OwnMountResettlesState(t *testing.T) {
	var remoteUp atomic.Bool
	remoteUp.Store(true)
	fetchers := offlineFetchers()
	fetchers.RentalItems = loader.FetchFunc[catalog.RentalItem](func(ctx context.Context) ([]catalog.RentalItem, error) {
		if !remoteUp.Load() {
			return nil, errOffline
		}
		return []catalog.RentalItem{{ID: "gen-remote", Name: "Generator 20KVA", DailyRate: 400000, Available: true}}, nil
	})
	h, in := newTestServer(t, fetchers)
	c := &client{t: t, handler: h}

	c.get("/")
	values := validBookingForm()
	values.Set("rental_item_id", "gen-remote")
	require.Equal(t, http.StatusSeeOther, c.postForm("/booking", values).Code)

	remoteUp.Store(false)
	c.get("/")

	v := decodeView(t, c.get("/api/booking"))
	assert.Equal(t, "editing", v["state"])
	assert.Equal(t, false, v["valid"])

	rec := c.event("submit", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, in.calls)
}

func TestBookingByID_NotFound(t *testing.T) {
	h, _ := newTestServer(t, offlineFetchers())
	c := &client{t: t, handler: h}

	rec := c.get("/api/bookings/missing")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBooking_SessionsAreIsolated(t *testing.T) {
	h, _ := newTestServer(t, offlineFetchers())
	alice := &client{t: t, handler: h}
	bob := &client{t: t, handler: h}

	alice.event("set_name", "Alice")
	bob.get("/api/booking")

	v := decodeView(t, bob.get("/api/booking"))
	assert.Equal(t, "empty", v["state"])
	assert.Equal(t, "", v["draft"].(map[string]any)["customer_name"])
}

// ============================================
// Form Post Tests
// ============================================

func TestPostBooking_SubmitRedirects(t *testing.T) {
	h, in := newTestServer(t, offlineFetchers())
	c := &client{t: t, handler: h}

	values := validBookingForm()
	values.Set("action", "submit")
	rec := c.postForm("/booking", values)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Len(t, in.calls, 1)
	assert.Equal(t, "/?booked="+in.calls[0].ID+"#booking", rec.Header().Get("Location"))

	rec = c.get("/?booked=" + in.calls[0].ID)
	assert.Contains(t, rec.Body.String(), "Permintaan sewa Anda telah diterima")
}

func TestPostBooking_EditOnlyKeepsDraft(t *testing.T) {
	h, in := newTestServer(t, offlineFetchers())
	c := &client{t: t, handler: h}

	rec := c.postForm("/booking", url.Values{"customer_name": {"Budi"}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, in.calls)
	v := decodeView(t, c.get("/api/booking"))
	assert.Equal(t, "Budi", v["draft"].(map[string]any)["customer_name"])
}

func TestPostBooking_InvertedRangeRejected(t *testing.T) {
	h, in := newTestServer(t, offlineFetchers())
	c := &client{t: t, handler: h}

	values := validBookingForm()
	values.Set("start_date", "2024-06-05")
	values.Set("end_date", "2024-06-01")
	values.Set("action", "submit")
	rec := c.postForm("/booking", values)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), booking.ReasonDateRange.Message())
	assert.Empty(t, in.calls)
}

func TestPostBooking_InvalidDate(t *testing.T) {
	h, _ := newTestServer(t, offlineFetchers())
	c := &client{t: t, handler: h}

	rec := c.postForm("/booking", url.Values{"start_date": {"besok"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "format tanggal tidak valid")
}

func TestPostBooking_InvalidDateAppliesNothing(t *testing.T) {
	h, _ := newTestServer(t, offlineFetchers())
	c := &client{t: t, handler: h}

	rec := c.postForm("/booking", url.Values{
		"customer_name": {"Budi"},
		"start_date":    {"2024-06-01"},
		"end_date":      {"besok"},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	v := decodeView(t, c.get("/api/booking"))
	assert.Equal(t, "empty", v["state"])
	draft := v["draft"].(map[string]any)
	assert.Equal(t, "", draft["customer_name"])
	assert.Equal(t, "", draft["start_date"])
}

func TestCancelBooking_ClearsDraft(t *testing.T) {
	h, _ := newTestServer(t, offlineFetchers())
	c := &client{t: t, handler: h}

	c.postForm("/booking", url.Values{"customer_name": {"Budi"}, "rental_item_id": {"1"}})
	rec := c.postForm("/booking/cancel", url.Values{})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	v := decodeView(t, c.get("/api/booking"))
	assert.Equal(t, "empty", v["state"])
	assert.Equal(t, "", v["draft"].(map[string]any)["customer_name"])
}
