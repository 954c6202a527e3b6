// Package web serves the registry's HTML pages and admin forms.
package web

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/irielink/internal/auth"
	"github.com/erazemk/irielink/internal/metrics"
	webembed "github.com/erazemk/irielink/web"
)

// Server holds all dependencies for page handlers.
type Server struct {
	DB        *sql.DB
	Templates *Templates
	Gate      *auth.Gate
	Sessions  *auth.Sessions
	Metrics   *metrics.Registry

	// SecureCookie marks the session cookie HTTPS only.
	SecureCookie bool
}

// NewServer loads the templates and returns a Server ready for NewRouter.
func NewServer(db *sql.DB, gate *auth.Gate, sessions *auth.Sessions, m *metrics.Registry) (*Server, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}
	return &Server{
		DB:        db,
		Templates: templates,
		Gate:      gate,
		Sessions:  sessions,
		Metrics:   m,
	}, nil
}

// NewRouter registers every page route. Paths no route claims get the
// not-found page.
func (s *Server) NewRouter() (http.Handler, error) {
	static, err := webembed.StaticFS()
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	admin := func(h http.HandlerFunc) http.Handler { return RequireAdmin(h) }

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	// Public pages.
	mux.HandleFunc("GET /{$}", s.Index)
	mux.HandleFunc("GET /full-list", s.FullList)
	mux.HandleFunc("GET /contact", s.Contact)
	mux.HandleFunc("POST /items/{id}/purchase", s.ItemPurchaseSubmit)
	mux.HandleFunc("POST /items/{id}/claim", s.ItemClaimSubmit)
	mux.HandleFunc("GET /items/{id}/image", s.ItemImageGet)

	// Admin session.
	mux.HandleFunc("GET /admin", s.Admin)
	mux.HandleFunc("GET /admin/login", s.LoginPage)
	mux.HandleFunc("POST /admin/login", s.LoginSubmit)
	mux.HandleFunc("GET /admin/logout", s.Logout)
	mux.HandleFunc("POST /admin/logout", s.Logout)

	// Admin item management.
	mux.Handle("POST /admin/items", admin(s.ItemCreateSubmit))
	mux.Handle("PUT /admin/items/{id}", admin(s.ItemUpdateSubmit))
	mux.Handle("DELETE /admin/items/{id}", admin(s.ItemDeleteSubmit))

	mux.HandleFunc("/", s.NotFound)

	return MethodOverride(s.SessionMiddleware(mux)), nil
}

// NotFound renders the not-found page.
func (s *Server) NotFound(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, http.StatusNotFound, "not_found.html", &PageData{
		Title:   "Not found",
		Session: SessionFrom(r.Context()),
	})
}

// serverError logs err and renders the generic error page.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.Error(msg, "method", r.Method, "path", r.URL.Path, "error", err)
	s.Templates.Render(w, http.StatusInternalServerError, "error.html", &PageData{
		Title:   "Something went wrong",
		Session: SessionFrom(r.Context()),
	})
}

// pathID parses the {id} path value.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
