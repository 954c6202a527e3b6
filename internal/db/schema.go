package db

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/erazemk/irielink/internal/model"
)

// itemCategoriesColumns is the join table layout, shared with the rebuild of
// older join tables.
const itemCategoriesColumns = `(
    item_id     INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
    PRIMARY KEY (item_id, category_id)
)`

const itemCategoriesIndex = `CREATE INDEX IF NOT EXISTS idx_item_categories_category
    ON item_categories(category_id)`

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS items (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    name          TEXT NOT NULL,
    description   TEXT,
    image_url     TEXT,
    price_cents   INTEGER NOT NULL DEFAULT 0,
    purchase_link TEXT,
    quantity      INTEGER NOT NULL DEFAULT 1,
    note          TEXT NOT NULL DEFAULT '',
    categories    TEXT NOT NULL DEFAULT '',
    status        TEXT NOT NULL DEFAULT 'available' CHECK (status IN ('available', 'claimed', 'purchased')),
    image         BLOB,
    image_mime    TEXT
);

CREATE TABLE IF NOT EXISTS categories (
    id   INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS item_categories ` + itemCategoriesColumns + `;

` + itemCategoriesIndex + `;

CREATE TABLE IF NOT EXISTS claims (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    item_id      INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    claimer_name TEXT NOT NULL DEFAULT '',
    status       TEXT NOT NULL CHECK (status IN ('claimed', 'purchased')),
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_claims_item ON claims(item_id);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_sessions (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables if they don't already exist, seeds the base
// categories, adds any item columns an older database is missing and rebuilds
// a join table that lacks its key or delete cascades.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	for _, name := range model.BaseCategories {
		if _, err := db.Exec(`INSERT OR IGNORE INTO categories (name) VALUES (?)`, name); err != nil {
			return fmt.Errorf("seeding category %q: %w", name, err)
		}
	}

	added, err := addMissingColumns(db, "items", itemColumns)
	if err != nil {
		return err
	}
	if len(added) > 0 {
		slog.Info("items table upgraded", "added_columns", added)
	}

	upgradeItemCategories(db)
	return nil
}

// registryTables lists the tables Reset drops, children first.
var registryTables = []string{"claims", "item_categories", "items", "categories"}

// Reset drops every registry table and recreates the schema with only the
// base categories. All items, associations and claims are lost.
func Reset(db *sql.DB) error {
	for _, table := range registryTables {
		if _, err := db.Exec(`DROP TABLE IF EXISTS ` + table); err != nil {
			return fmt.Errorf("dropping %s: %w", table, err)
		}
	}
	return EnsureSchema(db)
}
