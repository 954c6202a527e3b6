package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/irielink/internal/db"
	"github.com/erazemk/irielink/internal/model"
	"github.com/erazemk/irielink/internal/store"
)

func setupTestServer(t *testing.T) (*httptest.Server, *model.Item) {
	t.Helper()
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := store.CreateItem(ctx, database, model.ItemInput{Name: "Dutch oven", PriceCents: 7999})
	require.NoError(t, err)
	kitchen, err := store.GetCategoryByName(ctx, database, "Kitchen Supplies")
	require.NoError(t, err)
	require.NoError(t, store.SetItemCategories(ctx, database, item.ID, []int64{kitchen.ID}))
	require.NoError(t, store.SetItemImage(ctx, database, item.ID, []byte("jpeg"), "image/jpeg"))

	server := httptest.NewServer(NewRouter(database))
	t.Cleanup(server.Close)
	return server, item
}

func getJSON(t *testing.T, url string, target any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
	return resp.StatusCode
}

func TestListItems(t *testing.T) {
	server, item := setupTestServer(t)

	var items []map[string]any
	status := getJSON(t, server.URL+"/api/items", &items)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, items, 1)
	assert.Equal(t, "Dutch oven", items[0]["name"])
	assert.EqualValues(t, 7999, items[0]["price_cents"])
	assert.Equal(t, "available", items[0]["status"])
	assert.Equal(t, "/items/1/image", items[0]["image_url"])
	assert.EqualValues(t, item.ID, items[0]["id"])
	assert.Len(t, items[0]["categories"], 1)
}

func TestGetItem(t *testing.T) {
	server, item := setupTestServer(t)

	var got model.Item
	status := getJSON(t, server.URL+"/api/items/1", &got)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, item.ID, got.ID)
	require.Len(t, got.Categories, 1)
	assert.Equal(t, "Kitchen Supplies", got.Categories[0].Name)
}

func TestGetItemErrors(t *testing.T) {
	server, _ := setupTestServer(t)

	var body map[string]map[string]any
	status := getJSON(t, server.URL+"/api/items/42", &body)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["error"]["code"])

	body = nil
	status = getJSON(t, server.URL+"/api/items/abc", &body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", body["error"]["code"])
}

func TestListCategories(t *testing.T) {
	server, _ := setupTestServer(t)

	var categories []model.Category
	status := getJSON(t, server.URL+"/api/categories", &categories)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, categories, 4)
}

func TestUnknownMethodNotAllowed(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := http.Post(server.URL+"/api/items", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
