package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/irielink/internal/apperr"
	"github.com/erazemk/irielink/internal/model"
)

// itemSelect reads an item row. Columns added by upgrades may hold NULL in
// rows written by older releases, hence the COALESCEs.
const itemSelect = `SELECT id, name, COALESCE(description, ''), COALESCE(image_url, ''),
	COALESCE(price_cents, 0), COALESCE(purchase_link, ''), COALESCE(quantity, 1),
	COALESCE(note, ''), COALESCE(status, 'available'), image IS NOT NULL
	FROM items`

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*model.Item, error) {
	item := &model.Item{}
	err := row.Scan(&item.ID, &item.Name, &item.Description, &item.ImageURL,
		&item.PriceCents, &item.PurchaseLink, &item.Quantity, &item.Note,
		&item.Status, &item.HasImage)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// CreateItem creates a new item. The status always starts as available.
func CreateItem(ctx context.Context, db *sql.DB, in model.ItemInput) (*model.Item, error) {
	in = in.Normalize()
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (name, description, image_url, price_cents, purchase_link, quantity, note, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Name, in.Description, in.ImageURL, in.PriceCents, in.PurchaseLink, in.Quantity, in.Note,
		model.ItemStatusAvailable,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID with its categories, or nil if it does not exist.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item, err := scanItem(db.QueryRowContext(ctx, itemSelect+` WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}

	item.Categories, err = ListItemCategories(ctx, db, id)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ListItems returns all items, newest first, with their categories.
func ListItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx, itemSelect+` ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}

	byItem, err := categoriesByItem(ctx, db)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Categories = byItem[items[i].ID]
	}
	return items, nil
}

// UpdateItem overwrites every editable field of an item. Status and photo are
// left alone. Returns a NotFound error, having written nothing, if the item
// does not exist.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, in model.ItemInput) error {
	in = in.Normalize()
	result, err := db.ExecContext(ctx,
		`UPDATE items SET name = ?, description = ?, image_url = ?, price_cents = ?,
		        purchase_link = ?, quantity = ?, note = ?
		 WHERE id = ?`,
		in.Name, in.Description, in.ImageURL, in.PriceCents, in.PurchaseLink, in.Quantity, in.Note, id,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return requireRow(result, "item", id)
}

// DeleteItem deletes an item. Its category associations and claims go with it.
// Deleting a missing item is not an error.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// MarkPurchased sets an item's status to purchased whatever it was before and
// records a purchase claim. A missing item yields NotFound and no writes.
func MarkPurchased(ctx context.Context, db *sql.DB, id int64, claimer string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET status = ? WHERE id = ?`, model.ItemStatusPurchased, id,
	)
	if err != nil {
		return fmt.Errorf("marking item purchased: %w", err)
	}
	if err := requireRow(result, "item", id); err != nil {
		return err
	}

	return createClaim(ctx, db, id, claimer, model.ItemStatusPurchased)
}

// MarkClaimed moves an available item to claimed and records the claim. It
// reports false, writing nothing, when the item is already claimed or
// purchased. A missing item yields NotFound.
func MarkClaimed(ctx context.Context, db *sql.DB, id int64, claimer string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET status = ? WHERE id = ? AND status = ?`,
		model.ItemStatusClaimed, id, model.ItemStatusAvailable,
	)
	if err != nil {
		return false, fmt.Errorf("marking item claimed: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}
	if n == 0 {
		exists, err := itemExists(ctx, db, id)
		if err != nil {
			return false, err
		}
		if !exists {
			return false, apperr.NotFound("item", id)
		}
		return false, nil
	}

	if err := createClaim(ctx, db, id, claimer, model.ItemStatusClaimed); err != nil {
		return true, err
	}
	return true, nil
}

// SetItemImage stores an uploaded photo for an item.
func SetItemImage(ctx context.Context, db *sql.DB, id int64, image []byte, mime string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET image = ?, image_mime = ? WHERE id = ?`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	return requireRow(result, "item", id)
}

// GetItemImage returns an item's photo and MIME type, or nil data if it has none.
func GetItemImage(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM items WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}

func itemExists(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM items WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking item: %w", err)
	}
	return exists, nil
}

// requireRow turns a statement that touched no rows into a NotFound error.
func requireRow(result sql.Result, entity string, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if n == 0 {
		return apperr.NotFound(entity, id)
	}
	return nil
}
