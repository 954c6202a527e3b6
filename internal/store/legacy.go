package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
)

// ImportLegacyCategories moves categories stored as comma separated text on
// old item rows into proper associations. Names are matched against existing
// categories ignoring case; unknown names are logged and dropped. The text is
// cleared once an item is processed, so the import runs at most once per row.
// It returns the number of items processed.
func ImportLegacyCategories(ctx context.Context, db *sql.DB) (int, error) {
	type legacyRow struct {
		id    int64
		names string
	}

	rows, err := db.QueryContext(ctx, `SELECT id, categories FROM items WHERE TRIM(COALESCE(categories, '')) != ''`)
	if err != nil {
		return 0, fmt.Errorf("listing legacy categories: %w", err)
	}
	var pending []legacyRow
	for rows.Next() {
		var r legacyRow
		if err := rows.Scan(&r.id, &r.names); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scanning legacy categories: %w", err)
		}
		pending = append(pending, r)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return 0, fmt.Errorf("listing legacy categories: %w", err)
	}

	for _, r := range pending {
		for _, name := range strings.Split(r.names, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			c, err := GetCategoryByName(ctx, db, name)
			if err != nil {
				return 0, err
			}
			if c == nil {
				slog.Warn("skipping unknown legacy category", "item_id", r.id, "category", name)
				continue
			}
			_, err = db.ExecContext(ctx,
				`INSERT OR IGNORE INTO item_categories (item_id, category_id) VALUES (?, ?)`,
				r.id, c.ID,
			)
			if err != nil {
				return 0, fmt.Errorf("importing legacy category: %w", err)
			}
		}
		if _, err := db.ExecContext(ctx, `UPDATE items SET categories = '' WHERE id = ?`, r.id); err != nil {
			return 0, fmt.Errorf("clearing legacy categories: %w", err)
		}
	}

	return len(pending), nil
}
