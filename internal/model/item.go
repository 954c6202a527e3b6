package model

import "fmt"

// Item is a single registry entry: something the household would like to receive.
type Item struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	ImageURL     string     `json:"image_url,omitempty"`
	PriceCents   int64      `json:"price_cents"`
	PurchaseLink string     `json:"purchase_link,omitempty"`
	Quantity     int        `json:"quantity"`
	Note         string     `json:"note,omitempty"`
	Status       string     `json:"status"`
	HasImage     bool       `json:"-"`
	Categories   []Category `json:"categories"`
}

// Item statuses.
const (
	ItemStatusAvailable = "available"
	ItemStatusClaimed   = "claimed"
	ItemStatusPurchased = "purchased"
)

// PriceDollars formats the price for display, e.g. "9.99".
func (i Item) PriceDollars() string {
	return FormatCents(i.PriceCents)
}

// DisplayImage returns the image to show for the item: the uploaded photo if
// there is one, otherwise the linked image URL.
func (i Item) DisplayImage() string {
	if i.HasImage {
		return fmt.Sprintf("/items/%d/image", i.ID)
	}
	return i.ImageURL
}

// InCategory reports whether the item is tagged with the given category.
func (i Item) InCategory(id int64) bool {
	for _, c := range i.Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}
