package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/erazemk/irielink/internal/apperr"
	"github.com/erazemk/irielink/internal/model"
	"github.com/erazemk/irielink/internal/store"
)

// Handler serves the read-only registry endpoints.
type Handler struct {
	DB *sql.DB
}

// ListItems handles GET /api/items.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItems(r.Context(), h.DB)
	if err != nil {
		jsonError(w, r, err)
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	for i := range items {
		items[i].ImageURL = items[i].DisplayImage()
		if items[i].Categories == nil {
			items[i].Categories = []model.Category{}
		}
	}
	jsonResponse(w, http.StatusOK, items)
}

// GetItem handles GET /api/items/{id}.
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, r, apperr.New(apperr.CodeValidation, "invalid item id"))
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, r, err)
		return
	}
	if item == nil {
		jsonError(w, r, apperr.NotFound("item", id))
		return
	}
	item.ImageURL = item.DisplayImage()
	if item.Categories == nil {
		item.Categories = []model.Category{}
	}
	jsonResponse(w, http.StatusOK, item)
}

// ListCategories handles GET /api/categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := store.ListCategories(r.Context(), h.DB)
	if err != nil {
		jsonError(w, r, err)
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	jsonResponse(w, http.StatusOK, categories)
}
