package web

import (
	"net/http"

	"github.com/erazemk/irielink/internal/model"
	"github.com/erazemk/irielink/internal/store"
)

// recentClaimsLimit is how many claims the dashboard shows.
const recentClaimsLimit = 15

// Index handles GET /.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItems(r.Context(), s.DB)
	if err != nil {
		s.serverError(w, r, "failed to list items", err)
		return
	}

	s.Templates.Render(w, http.StatusOK, "index.html", &struct {
		PageData
		Items []model.Item
	}{
		PageData: PageData{Title: "Wishlist", Session: SessionFrom(r.Context()), Notice: s.takeFlash(w, r)},
		Items:    items,
	})
}

// categoryGroup is one section of the full list.
type categoryGroup struct {
	Name  string
	Items []model.Item
}

// groupByCategory sections items by category, in category order. An item with
// several categories appears in each; items with none go last under "Other".
func groupByCategory(items []model.Item, categories []model.Category) []categoryGroup {
	var groups []categoryGroup
	for _, c := range categories {
		g := categoryGroup{Name: c.Name}
		for _, item := range items {
			if item.InCategory(c.ID) {
				g.Items = append(g.Items, item)
			}
		}
		if len(g.Items) > 0 {
			groups = append(groups, g)
		}
	}

	other := categoryGroup{Name: "Other"}
	for _, item := range items {
		if len(item.Categories) == 0 {
			other.Items = append(other.Items, item)
		}
	}
	if len(other.Items) > 0 {
		groups = append(groups, other)
	}
	return groups
}

// FullList handles GET /full-list.
func (s *Server) FullList(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItems(r.Context(), s.DB)
	if err != nil {
		s.serverError(w, r, "failed to list items", err)
		return
	}
	categories, err := store.ListCategories(r.Context(), s.DB)
	if err != nil {
		s.serverError(w, r, "failed to list categories", err)
		return
	}

	s.Templates.Render(w, http.StatusOK, "full_list.html", &struct {
		PageData
		Groups []categoryGroup
	}{
		PageData: PageData{Title: "Full list", Session: SessionFrom(r.Context()), Notice: s.takeFlash(w, r)},
		Groups:   groupByCategory(items, categories),
	})
}

// Contact handles GET /contact.
func (s *Server) Contact(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, http.StatusOK, "contact.html", &PageData{
		Title:   "Contact",
		Session: SessionFrom(r.Context()),
	})
}

// dashboardData is what the dashboard template renders. Draft pre-fills the
// add form; Editing, when its ID is set, replaces that item's edit form.
type dashboardData struct {
	PageData
	Items      []model.Item
	Categories []model.Category
	Claims     []model.Claim
	Draft      model.Item
	Editing    model.Item
}

// Dashboard renders the admin dashboard. Reached through GET /admin.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	s.renderDashboard(w, r, http.StatusOK, "", model.Item{})
}

// renderDashboard renders the dashboard with an optional error and a draft
// that pre-fills the add form after a rejected submission.
func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request, status int, msg string, draft model.Item) {
	s.writeDashboard(w, r, status, &dashboardData{
		PageData: PageData{Error: msg},
		Draft:    draft,
	})
}

// renderDashboardEdit renders the dashboard with a rejected edit kept in its
// item's form.
func (s *Server) renderDashboardEdit(w http.ResponseWriter, r *http.Request, status int, msg string, edit model.Item) {
	s.writeDashboard(w, r, status, &dashboardData{
		PageData: PageData{Error: msg},
		Editing:  edit,
	})
}

func (s *Server) writeDashboard(w http.ResponseWriter, r *http.Request, status int, data *dashboardData) {
	items, err := store.ListItems(r.Context(), s.DB)
	if err != nil {
		s.serverError(w, r, "failed to list items", err)
		return
	}
	categories, err := store.ListCategories(r.Context(), s.DB)
	if err != nil {
		s.serverError(w, r, "failed to list categories", err)
		return
	}
	claims, err := store.ListRecentClaims(r.Context(), s.DB, recentClaimsLimit)
	if err != nil {
		s.serverError(w, r, "failed to list claims", err)
		return
	}

	data.Title = "Dashboard"
	data.Session = SessionFrom(r.Context())
	if data.Error == "" {
		data.Notice = s.takeFlash(w, r)
	}
	data.Items = items
	data.Categories = categories
	data.Claims = claims
	s.Templates.Render(w, status, "dashboard.html", data)
}
