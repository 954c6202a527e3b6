package model

// Category is a named tag applied to items.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BaseCategories is the vocabulary every registry starts with.
var BaseCategories = []string{
	"Food",
	"Appliances",
	"Toiletries",
	"Kitchen Supplies",
}
