package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/irielink/internal/apperr"
	"github.com/erazemk/irielink/internal/model"
)

// ListCategories returns all categories ordered by name.
func ListCategories(ctx context.Context, db *sql.DB) ([]model.Category, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategoryByName finds a category by name, ignoring case. Returns nil if
// there is no such category.
func GetCategoryByName(ctx context.Context, db *sql.DB, name string) (*model.Category, error) {
	c := &model.Category{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name FROM categories WHERE name = ? COLLATE NOCASE`,
		strings.TrimSpace(name),
	).Scan(&c.ID, &c.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}
	return c, nil
}

// CreateCategory adds a category, or returns the existing one with the same name.
func CreateCategory(ctx context.Context, db *sql.DB, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.New(apperr.CodeValidation, "category name is required")
	}
	existing, err := GetCategoryByName(ctx, db, name)
	if err != nil || existing != nil {
		return existing, err
	}

	result, err := db.ExecContext(ctx, `INSERT INTO categories (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting category id: %w", err)
	}
	return &model.Category{ID: id, Name: name}, nil
}

// DeleteCategory removes a category. Items lose the tag; the items themselves
// are untouched.
func DeleteCategory(ctx context.Context, db *sql.DB, id int64) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	return nil
}

// ListItemCategories returns the categories of one item ordered by name.
func ListItemCategories(ctx context.Context, db *sql.DB, itemID int64) ([]model.Category, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT c.id, c.name FROM categories c
		 JOIN item_categories ic ON ic.category_id = c.id
		 WHERE ic.item_id = ?
		 ORDER BY c.name`, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing item categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scanning item category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// categoriesByItem loads every association at once, keyed by item id.
func categoriesByItem(ctx context.Context, db *sql.DB) (map[int64][]model.Category, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT ic.item_id, c.id, c.name FROM item_categories ic
		 JOIN categories c ON c.id = ic.category_id
		 ORDER BY c.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing item categories: %w", err)
	}
	defer rows.Close()

	byItem := make(map[int64][]model.Category)
	for rows.Next() {
		var itemID int64
		var c model.Category
		if err := rows.Scan(&itemID, &c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scanning item category: %w", err)
		}
		byItem[itemID] = append(byItem[itemID], c)
	}
	return byItem, rows.Err()
}

// SetItemCategories replaces an item's categories with exactly the given set.
// Ids that name no category are skipped and duplicates collapse. An empty set
// clears the item's categories.
func SetItemCategories(ctx context.Context, db *sql.DB, itemID int64, categoryIDs []int64) error {
	exists, err := itemExists(ctx, db, itemID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("item", itemID)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM item_categories WHERE item_id = ?`, itemID); err != nil {
		return fmt.Errorf("clearing item categories: %w", err)
	}
	for _, id := range categoryIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO item_categories (item_id, category_id)
			 SELECT ?, id FROM categories WHERE id = ?`, itemID, id,
		)
		if err != nil {
			return fmt.Errorf("adding item category: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing item categories: %w", err)
	}
	return nil
}
