package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/erazemk/irielink/internal/apperr"
	"github.com/erazemk/irielink/internal/imaging"
	"github.com/erazemk/irielink/internal/metrics"
	"github.com/erazemk/irielink/internal/model"
	"github.com/erazemk/irielink/internal/store"
)

// draftItem turns a rejected submission back into form values.
func draftItem(in model.ItemInput) model.Item {
	item := model.Item{
		Name:         in.Name,
		Description:  in.Description,
		ImageURL:     in.ImageURL,
		PriceCents:   in.PriceCents,
		PurchaseLink: in.PurchaseLink,
		Quantity:     in.Quantity,
		Note:         in.Note,
	}
	for _, id := range in.CategoryIDs {
		item.Categories = append(item.Categories, model.Category{ID: id})
	}
	return item
}

// readItemForm parses the submitted item fields and the optional photo.
func readItemForm(r *http.Request) (model.ItemInput, *imaging.Photo, error) {
	if err := parseForm(r); err != nil {
		return model.ItemInput{}, nil, apperr.Wrap(apperr.CodeValidation, err, "invalid form")
	}
	in := model.ParseItemForm(r.PostForm)
	if err := in.Validate(); err != nil {
		return in, nil, err
	}

	file, _, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return in, nil, nil
	}
	if err != nil {
		return in, nil, apperr.Wrap(apperr.CodeValidation, err, "invalid photo upload")
	}
	defer file.Close()

	photo, err := imaging.Process(file)
	if err != nil {
		return in, nil, err
	}
	return in, photo, nil
}

// validationMessage is the flash shown for a rejected item form.
func validationMessage(err error) string {
	e := apperr.As(err)
	if e == nil {
		return "The item could not be saved."
	}
	if _, ok := e.Details()["name"]; ok {
		return "Item name is required."
	}
	return e.Message() + "."
}

// ItemCreateSubmit handles POST /admin/items.
func (s *Server) ItemCreateSubmit(w http.ResponseWriter, r *http.Request) {
	in, photo, err := readItemForm(r)
	if apperr.IsValidation(err) {
		slog.Warn("item rejected", "error", err)
		s.renderDashboard(w, r, http.StatusBadRequest, validationMessage(err), draftItem(in))
		return
	}
	if err != nil {
		s.serverError(w, r, "failed to read item form", err)
		return
	}

	item, err := store.CreateItem(r.Context(), s.DB, in)
	if err != nil {
		s.serverError(w, r, "failed to create item", err)
		return
	}
	if err := s.saveItemExtras(r, item.ID, in, photo); err != nil {
		s.serverError(w, r, "item created without its categories or photo", fmt.Errorf("item %d: %w", item.ID, err))
		return
	}

	s.Metrics.ItemAction(metrics.ActionCreate)
	slog.Info("item created", "id", item.ID, "name", item.Name)
	s.setFlash(w, noticeItemCreated)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// ItemUpdateSubmit handles PUT /admin/items/{id}.
func (s *Server) ItemUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		slog.Warn("invalid item id", "id", r.PathValue("id"))
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	in, photo, err := readItemForm(r)
	if apperr.IsValidation(err) {
		slog.Warn("item update rejected", "id", id, "error", err)
		edit := draftItem(in)
		edit.ID = id
		s.renderDashboardEdit(w, r, http.StatusBadRequest, validationMessage(err), edit)
		return
	}
	if err != nil {
		s.serverError(w, r, "failed to read item form", err)
		return
	}

	err = store.UpdateItem(r.Context(), s.DB, id, in)
	if apperr.IsNotFound(err) {
		slog.Warn("no item to update", "id", id)
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	if err != nil {
		s.serverError(w, r, "failed to update item", err)
		return
	}
	if err := s.saveItemExtras(r, id, in, photo); err != nil {
		s.serverError(w, r, "item updated without its categories or photo", fmt.Errorf("item %d: %w", id, err))
		return
	}

	s.Metrics.ItemAction(metrics.ActionUpdate)
	slog.Info("item updated", "id", id, "name", in.Name)
	s.setFlash(w, noticeItemUpdated)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// saveItemExtras replaces the item's categories and stores a new photo if one
// was uploaded.
func (s *Server) saveItemExtras(r *http.Request, id int64, in model.ItemInput, photo *imaging.Photo) error {
	if err := store.SetItemCategories(r.Context(), s.DB, id, in.CategoryIDs); err != nil {
		return err
	}
	if photo == nil {
		return nil
	}
	return store.SetItemImage(r.Context(), s.DB, id, photo.Data, photo.MIME)
}

// ItemDeleteSubmit handles DELETE /admin/items/{id}.
func (s *Server) ItemDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		slog.Warn("invalid item id", "id", r.PathValue("id"))
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	if err := store.DeleteItem(r.Context(), s.DB, id); err != nil {
		s.serverError(w, r, "failed to delete item", err)
		return
	}

	s.Metrics.ItemAction(metrics.ActionDelete)
	slog.Info("item deleted", "id", id)
	s.setFlash(w, noticeItemDeleted)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// ItemPurchaseSubmit handles POST /items/{id}/purchase.
func (s *Server) ItemPurchaseSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		slog.Warn("invalid item id", "id", r.PathValue("id"))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	err := store.MarkPurchased(r.Context(), s.DB, id, r.PostFormValue("claimer_name"))
	if apperr.IsNotFound(err) {
		slog.Warn("item not found for purchase", "id", id)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		s.serverError(w, r, "failed to mark item purchased", err)
		return
	}

	s.Metrics.ItemAction(metrics.ActionPurchase)
	slog.Info("item purchased", "id", id)
	s.setFlash(w, noticeItemPurchased)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ItemClaimSubmit handles POST /items/{id}/claim.
func (s *Server) ItemClaimSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		slog.Warn("invalid item id", "id", r.PathValue("id"))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	claimed, err := store.MarkClaimed(r.Context(), s.DB, id, r.PostFormValue("claimer_name"))
	if apperr.IsNotFound(err) {
		slog.Warn("item not found for claim", "id", id)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		s.serverError(w, r, "failed to mark item claimed", err)
		return
	}

	if claimed {
		s.Metrics.ItemAction(metrics.ActionClaim)
		slog.Info("item claimed", "id", id)
		s.setFlash(w, noticeItemClaimed)
	} else {
		slog.Info("item already taken", "id", id)
		s.setFlash(w, noticeItemTaken)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ItemImageGet handles GET /items/{id}/image.
func (s *Server) ItemImageGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.NotFound(w, r)
		return
	}

	data, mime, err := store.GetItemImage(r.Context(), s.DB, id)
	if err != nil {
		s.serverError(w, r, "failed to get image", err)
		return
	}
	if data == nil {
		s.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write image response", "error", err)
	}
}
