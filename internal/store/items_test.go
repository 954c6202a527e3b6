package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/irielink/internal/apperr"
	"github.com/erazemk/irielink/internal/db"
	"github.com/erazemk/irielink/internal/model"
)

func TestCreateAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, database, model.ItemInput{
		Name:         "Kettle",
		Description:  "Electric, 1.7l",
		PriceCents:   2999,
		PurchaseLink: "https://example.com/kettle",
		Quantity:     2,
		Note:         "any colour",
	})
	require.NoError(t, err)
	require.NotNil(t, item)

	assert.Positive(t, item.ID)
	assert.Equal(t, "Kettle", item.Name)
	assert.Equal(t, int64(2999), item.PriceCents)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, model.ItemStatusAvailable, item.Status)
	assert.Empty(t, item.Categories)

	got, err := GetItem(ctx, database, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item, got)
}

func TestCreateItemNormalizesNumbers(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, database, model.ItemInput{Name: "Mug", PriceCents: -5, Quantity: 0})
	require.NoError(t, err)
	assert.Equal(t, int64(0), item.PriceCents)
	assert.Equal(t, 1, item.Quantity)
}

func TestGetItemMissing(t *testing.T) {
	database := db.NewTestDB(t)

	got, err := GetItem(context.Background(), database, 404)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListItemsNewestFirst(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, err := CreateItem(ctx, database, model.ItemInput{Name: "First"})
	require.NoError(t, err)
	second, err := CreateItem(ctx, database, model.ItemInput{Name: "Second"})
	require.NoError(t, err)

	food, err := GetCategoryByName(ctx, database, "Food")
	require.NoError(t, err)
	require.NoError(t, SetItemCategories(ctx, database, first.ID, []int64{food.ID}))

	items, err := ListItems(ctx, database)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	assert.Equal(t, first.ID, items[1].ID)
	assert.Empty(t, items[0].Categories)
	assert.Equal(t, []model.Category{*food}, items[1].Categories)
}

func TestListItemsEmpty(t *testing.T) {
	database := db.NewTestDB(t)

	items, err := ListItems(context.Background(), database)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestUpdateItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, database, model.ItemInput{Name: "Rice 5lb", PriceCents: 899})
	require.NoError(t, err)
	require.NoError(t, MarkPurchased(ctx, database, item.ID, ""))

	err = UpdateItem(ctx, database, item.ID, model.ItemInput{Name: "Rice 10lb", PriceCents: 1599, Quantity: 3})
	require.NoError(t, err)

	got, err := GetItem(ctx, database, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rice 10lb", got.Name)
	assert.Equal(t, int64(1599), got.PriceCents)
	assert.Equal(t, 3, got.Quantity)
	assert.Equal(t, model.ItemStatusPurchased, got.Status, "editing must not reset status")
}

func TestUpdateItemMissing(t *testing.T) {
	database := db.NewTestDB(t)

	err := UpdateItem(context.Background(), database, 77, model.ItemInput{Name: "Ghost"})
	assert.True(t, apperr.IsNotFound(err))

	items, err := ListItems(context.Background(), database)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDeleteItemCascades(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, database, model.ItemInput{Name: "Blender"})
	require.NoError(t, err)
	categories, err := ListCategories(ctx, database)
	require.NoError(t, err)
	require.NoError(t, SetItemCategories(ctx, database, item.ID, []int64{categories[0].ID, categories[1].ID}))
	require.NoError(t, MarkPurchased(ctx, database, item.ID, "Aunt May"))

	require.NoError(t, DeleteItem(ctx, database, item.ID))

	got, err := GetItem(ctx, database, item.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	var links, claims int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM item_categories WHERE item_id = ?`, item.ID).Scan(&links))
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM claims WHERE item_id = ?`, item.ID).Scan(&claims))
	assert.Zero(t, links)
	assert.Zero(t, claims)

	after, err := ListCategories(ctx, database)
	require.NoError(t, err)
	assert.Len(t, after, 4, "categories survive item deletion")

	// Deleting again is a no-op.
	assert.NoError(t, DeleteItem(ctx, database, item.ID))
}

func TestMarkPurchased(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, database, model.ItemInput{Name: "Toaster"})
	require.NoError(t, err)

	require.NoError(t, MarkPurchased(ctx, database, item.ID, "  Grandma  "))
	// A second purchase is accepted and leaves the item purchased.
	require.NoError(t, MarkPurchased(ctx, database, item.ID, ""))

	got, err := GetItem(ctx, database, item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ItemStatusPurchased, got.Status)

	claims, err := ListClaims(ctx, database, item.ID)
	require.NoError(t, err)
	require.Len(t, claims, 2)
	assert.Equal(t, "", claims[0].ClaimerName)
	assert.Equal(t, "Grandma", claims[1].ClaimerName)
	assert.Equal(t, "Toaster", claims[1].ItemName)
	assert.Equal(t, model.ItemStatusPurchased, claims[1].Status)
}

func TestMarkPurchasedMissing(t *testing.T) {
	database := db.NewTestDB(t)

	err := MarkPurchased(context.Background(), database, 9, "")
	assert.True(t, apperr.IsNotFound(err))

	var claims int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM claims`).Scan(&claims))
	assert.Zero(t, claims)
}

func TestMarkClaimed(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, database, model.ItemInput{Name: "Towels"})
	require.NoError(t, err)

	ok, err := MarkClaimed(ctx, database, item.ID, "Sam")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = MarkClaimed(ctx, database, item.ID, "Alex")
	require.NoError(t, err)
	assert.False(t, ok, "an item can only be claimed once")

	got, err := GetItem(ctx, database, item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ItemStatusClaimed, got.Status)

	// Claimed items can still be marked purchased.
	require.NoError(t, MarkPurchased(ctx, database, item.ID, "Sam"))
	ok, err = MarkClaimed(ctx, database, item.ID, "Alex")
	require.NoError(t, err)
	assert.False(t, ok)

	claims, err := ListClaims(ctx, database, item.ID)
	require.NoError(t, err)
	assert.Len(t, claims, 2)

	_, err = MarkClaimed(ctx, database, 999, "")
	assert.True(t, apperr.IsNotFound(err))
}

func TestItemImage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, database, model.ItemInput{Name: "Plant", ImageURL: "https://example.com/plant.jpg"})
	require.NoError(t, err)
	assert.False(t, item.HasImage)
	assert.Equal(t, "https://example.com/plant.jpg", item.DisplayImage())

	data, mime, err := GetItemImage(ctx, database, item.ID)
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.Empty(t, mime)

	require.NoError(t, SetItemImage(ctx, database, item.ID, []byte("jpeg bytes"), "image/jpeg"))

	data, mime, err = GetItemImage(ctx, database, item.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg bytes"), data)
	assert.Equal(t, "image/jpeg", mime)

	got, err := GetItem(ctx, database, item.ID)
	require.NoError(t, err)
	assert.True(t, got.HasImage)
	assert.Equal(t, "/items/1/image", got.DisplayImage())

	err = SetItemImage(ctx, database, 500, []byte("x"), "image/png")
	assert.True(t, apperr.IsNotFound(err))
}

func TestListRecentClaims(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	a, err := CreateItem(ctx, database, model.ItemInput{Name: "A"})
	require.NoError(t, err)
	b, err := CreateItem(ctx, database, model.ItemInput{Name: "B"})
	require.NoError(t, err)
	require.NoError(t, MarkPurchased(ctx, database, a.ID, "one"))
	_, err = MarkClaimed(ctx, database, b.ID, "two")
	require.NoError(t, err)

	claims, err := ListRecentClaims(ctx, database, 1)
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, "B", claims[0].ItemName)
	assert.Equal(t, model.ItemStatusClaimed, claims[0].Status)
	assert.False(t, claims[0].CreatedAt.IsZero())
}
