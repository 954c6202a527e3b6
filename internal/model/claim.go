package model

import "time"

// Claim records a visitor claiming or buying an item. Claims are history only;
// the item's status is the current state.
type Claim struct {
	ID          int64     `json:"id"`
	ItemID      int64     `json:"item_id"`
	ClaimerName string    `json:"claimer_name,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`

	// Joined fields (not always populated).
	ItemName string `json:"item_name,omitempty"`
}
