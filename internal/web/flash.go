package web

import (
	"net/http"
)

// flashCookie carries a notice key across one redirect.
const flashCookie = "registry_flash"

// Notice keys set before a redirect.
const (
	noticeItemCreated   = "item_created"
	noticeItemUpdated   = "item_updated"
	noticeItemDeleted   = "item_deleted"
	noticeItemPurchased = "item_purchased"
	noticeItemClaimed   = "item_claimed"
	noticeItemTaken     = "item_taken"
)

var notices = map[string]string{
	noticeItemCreated:   "Item added.",
	noticeItemUpdated:   "Item saved.",
	noticeItemDeleted:   "Item deleted.",
	noticeItemPurchased: "Thank you! The item is marked as purchased.",
	noticeItemClaimed:   "Thank you! The item is reserved for you.",
	noticeItemTaken:     "Someone has already claimed that item.",
}

// setFlash stores a notice for the next page the browser loads.
func (s *Server) setFlash(w http.ResponseWriter, key string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    key,
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		Secure:   s.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeFlash returns the pending notice, if any, and clears it. Unknown keys
// yield no notice.
func (s *Server) takeFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(flashCookie)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return notices[cookie.Value]
}
