package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/irielink/internal/apperr"
	"github.com/erazemk/irielink/internal/auth"
	"github.com/erazemk/irielink/internal/store"
)

const invalidPassword = "Invalid password."

// Admin handles GET /admin: the dashboard for a signed-in admin, the login
// form for everyone else.
func (s *Server) Admin(w http.ResponseWriter, r *http.Request) {
	if !SessionFrom(r.Context()).Authenticated {
		s.LoginPage(w, r)
		return
	}
	s.Dashboard(w, r)
}

// LoginPage handles GET /admin/login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.renderLogin(w, r, http.StatusOK, "")
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.Templates.Render(w, status, "login.html", &PageData{
		Title:   "Admin login",
		Session: SessionFrom(r.Context()),
		Error:   msg,
	})
}

// LoginSubmit handles POST /admin/login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		s.renderLogin(w, r, http.StatusBadRequest, invalidPassword)
		return
	}

	if err := s.Gate.Authenticate(r.PostForm.Get("password")); err != nil {
		s.Metrics.Login(false)
		slog.Warn("admin login failed", "remote", r.RemoteAddr, "error", err)
		s.renderLogin(w, r, apperr.HTTPStatus(err), invalidPassword)
		return
	}

	token, claims, err := s.Sessions.Issue()
	if err != nil {
		s.serverError(w, r, "failed to issue session", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  claims.ExpiresAt.Time,
		MaxAge:   int(s.Sessions.TTL().Seconds()),
		HttpOnly: true,
		Secure:   s.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	s.Metrics.Login(true)
	slog.Info("admin logged in", "session", claims.ID)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// Logout handles GET and POST /admin/logout.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	session := SessionFrom(r.Context())
	if session.Authenticated {
		if err := store.RevokeSession(r.Context(), s.DB, session.ID, session.ExpiresAt); err != nil {
			s.serverError(w, r, "failed to revoke session", err)
			return
		}
		slog.Info("admin logged out", "session", session.ID)
	}

	s.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// clearSessionCookie clears the session cookie with consistent attributes.
func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
