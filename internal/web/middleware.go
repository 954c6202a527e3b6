package web

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/erazemk/irielink/internal/auth"
	"github.com/erazemk/irielink/internal/imaging"
	"github.com/erazemk/irielink/internal/metrics"
	"github.com/erazemk/irielink/internal/store"
)

// maxFormBytes bounds a submitted form, photo included.
const maxFormBytes = imaging.MaxUploadBytes + 1<<20

// Session is the admin state of the current request.
type Session struct {
	Authenticated bool
	ID            string
	ExpiresAt     time.Time
}

type sessionKey struct{}

// SessionFrom returns the session attached to ctx. Requests that passed no
// session middleware are anonymous.
func SessionFrom(ctx context.Context) Session {
	s, _ := ctx.Value(sessionKey{}).(Session)
	return s
}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionMiddleware turns the session cookie into a Session on the request
// context. A cookie that is invalid, expired or revoked is cleared and the
// request continues anonymously.
func (s *Server) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var session Session

		if cookie, err := r.Cookie(auth.SessionCookie); err == nil && cookie.Value != "" {
			claims, err := s.Sessions.Parse(cookie.Value)
			switch {
			case err != nil:
				s.clearSessionCookie(w)
			default:
				revoked, err := store.IsSessionRevoked(r.Context(), s.DB, claims.ID)
				if err != nil {
					slog.Error("failed to check session revocation", "error", err)
				}
				if err != nil || revoked {
					s.clearSessionCookie(w)
					break
				}
				session = Session{
					Authenticated: true,
					ID:            claims.ID,
					ExpiresAt:     claims.ExpiresAt.Time,
				}
			}
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

// RequireAdmin sends anonymous requests to the login page without calling next.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !SessionFrom(r.Context()).Authenticated {
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// MethodOverride lets HTML forms issue PUT and DELETE: a POST carrying a
// _method field is routed as that method.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
			if err := parseForm(r); err != nil {
				slog.Warn("failed to parse form", "path", r.URL.Path, "error", err)
				http.Error(w, "invalid form", http.StatusBadRequest)
				return
			}
			switch m := strings.ToUpper(r.PostForm.Get("_method")); m {
			case http.MethodPut, http.MethodPatch, http.MethodDelete:
				r.Method = m
			}
		}
		next.ServeHTTP(w, r)
	})
}

// parseForm parses urlencoded and multipart bodies alike. Repeated calls are
// cheap.
func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if r.MultipartForm != nil {
			return nil
		}
		return r.ParseMultipartForm(maxFormBytes)
	}
	return r.ParseForm()
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs each request with method, path, status and duration
// and records its latency.
func LoggingMiddleware(m *metrics.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			elapsed := time.Since(start)
			m.ObserveRequest(r.Method, rec.status, elapsed)
			slog.Info("request",
				"method", r.Method,
				"path", r.URL.RequestURI(),
				"status", rec.status,
				"duration", elapsed.Round(time.Millisecond),
			)
		})
	}
}
