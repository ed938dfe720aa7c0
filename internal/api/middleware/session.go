package middleware

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/example/teskom-storefront/internal/auth"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const SessionCookie = "teskom_session"

type contextKey string

const sessionContextKey contextKey = "session"

// Session pins every request to a visitor session. A request without a valid
// cookie starts a new session; a valid one is renewed.
func Session(sessions *auth.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sessionID, token string
			var expiresAt time.Time
			var err error

			if cookie, cerr := r.Cookie(SessionCookie); cerr == nil {
				if sid, verr := sessions.Validate(cookie.Value); verr == nil {
					sessionID = sid
				}
			}

			if sessionID == "" {
				token, sessionID, expiresAt, err = sessions.Issue()
			} else {
				token, expiresAt, err = sessions.Renew(sessionID)
			}
			if err != nil {
				log.Printf("[API] Failed to sign session token: %v", err)
				http.Error(w, "session unavailable", http.StatusInternalServerError)
				return
			}

			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    token,
				Path:     "/",
				Expires:  expiresAt,
				HttpOnly: true,
				Secure:   r.TLS != nil,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := context.WithValue(r.Context(), sessionContextKey, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionID returns the visitor session of the request, or "".
func SessionID(ctx context.Context) string {
	sid, _ := ctx.Value(sessionContextKey).(string)
	return sid
}

// Logger logs one line per request
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Printf("[API] %s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}
