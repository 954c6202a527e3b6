package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
)

// column is a column an existing table must have, with the definition used to
// add it when it is missing.
type column struct {
	name string
	def  string
}

// itemColumns is the desired item column set beyond id and name. Databases
// created by older releases are upgraded by adding whatever is missing; the
// check is by column presence, so a partially upgraded table converges on the
// next start. Append new columns at the end.
var itemColumns = []column{
	{"description", "TEXT"},
	{"image_url", "TEXT"},
	{"price_cents", "INTEGER NOT NULL DEFAULT 0"},
	{"purchase_link", "TEXT"},
	{"quantity", "INTEGER NOT NULL DEFAULT 1"},
	{"note", "TEXT NOT NULL DEFAULT ''"},
	{"categories", "TEXT NOT NULL DEFAULT ''"},
	{"status", "TEXT NOT NULL DEFAULT 'available'"},
	{"image", "BLOB"},
	{"image_mime", "TEXT"},
}

// addMissingColumns adds each wanted column absent from table. A column that
// fails to add is logged and skipped; the rest are still attempted. Existing
// columns are never altered or dropped.
func addMissingColumns(db *sql.DB, table string, want []column) ([]string, error) {
	have, err := tableColumns(db, table)
	if err != nil {
		return nil, err
	}

	var added []string
	for _, c := range want {
		if have[c.name] {
			continue
		}
		stmt := fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, table, c.name, c.def)
		if _, err := db.Exec(stmt); err != nil {
			slog.Warn("failed to add column", "table", table, "column", c.name, "error", err)
			continue
		}
		added = append(added, c.name)
	}
	return added, nil
}

// tableColumns returns the set of column names of table.
func tableColumns(db *sql.DB, table string) (map[string]bool, error) {
	info, err := DescribeTable(db, table)
	if err != nil {
		return nil, err
	}
	if len(info) == 0 {
		return nil, fmt.Errorf("table %s does not exist", table)
	}
	cols := make(map[string]bool, len(info))
	for _, c := range info {
		cols[c.Name] = true
	}
	return cols, nil
}

// ColumnInfo describes one column as reported by PRAGMA table_info.
type ColumnInfo struct {
	Name    string
	Type    string
	NotNull bool
	Default string
	PK      bool
}

// DescribeTable returns the live column layout of table, in table order.
func DescribeTable(db *sql.DB, table string) ([]ColumnInfo, error) {
	rows, err := db.Query(fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return nil, fmt.Errorf("describing %s: %w", table, err)
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var (
			cid     int
			c       ColumnInfo
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &c.Name, &c.Type, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scanning %s column: %w", table, err)
		}
		c.NotNull = notNull != 0
		c.Default = dflt.String
		c.PK = pk != 0
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

// ListTables returns the names of the user tables in the database.
func ListTables(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// upgradeItemCategories rebuilds item_categories when it was created without
// the composite key or the delete cascades. Failure is logged and the old
// table is left in place.
func upgradeItemCategories(db *sql.DB) {
	outdated, err := itemCategoriesOutdated(db)
	if err != nil {
		slog.Warn("failed to inspect item_categories", "error", err)
		return
	}
	if !outdated {
		return
	}
	kept, err := rebuildItemCategories(db)
	if err != nil {
		slog.Warn("failed to rebuild item_categories", "error", err)
		return
	}
	slog.Info("item_categories table rebuilt", "associations", kept)
}

// itemCategoriesOutdated reports whether the live join table is missing the
// (item_id, category_id) primary key or a cascading foreign key.
func itemCategoriesOutdated(db *sql.DB) (bool, error) {
	cols, err := DescribeTable(db, "item_categories")
	if err != nil {
		return false, err
	}
	pk := make(map[string]bool, len(cols))
	for _, c := range cols {
		if c.PK {
			pk[c.Name] = true
		}
	}
	if !pk["item_id"] || !pk["category_id"] {
		return true, nil
	}

	rows, err := db.Query(`PRAGMA foreign_key_list(item_categories)`)
	if err != nil {
		return false, fmt.Errorf("listing item_categories foreign keys: %w", err)
	}
	defer rows.Close()

	cascades := map[string]bool{}
	for rows.Next() {
		var (
			id, seq                     int
			table, from                 string
			to                          sql.NullString
			onUpdate, onDelete, matchBy string
		)
		if err := rows.Scan(&id, &seq, &table, &from, &to, &onUpdate, &onDelete, &matchBy); err != nil {
			return false, fmt.Errorf("scanning item_categories foreign key: %w", err)
		}
		if strings.EqualFold(onDelete, "CASCADE") {
			cascades[from] = true
		}
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("listing item_categories foreign keys: %w", err)
	}
	return !cascades["item_id"] || !cascades["category_id"], nil
}

// rebuildItemCategories swaps the join table for the current layout in one
// transaction. Duplicate rows collapse and rows pointing at a missing item or
// category are dropped. It returns the number of associations kept.
func rebuildItemCategories(db *sql.DB) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting item_categories rebuild: %w", err)
	}
	defer tx.Rollback()

	stmts := []string{
		`DROP TABLE IF EXISTS item_categories_new`,
		`CREATE TABLE item_categories_new ` + itemCategoriesColumns,
		`INSERT OR IGNORE INTO item_categories_new (item_id, category_id)
			SELECT DISTINCT ic.item_id, ic.category_id
			FROM item_categories ic
			JOIN items i ON i.id = ic.item_id
			JOIN categories c ON c.id = ic.category_id`,
		`DROP TABLE item_categories`,
		`ALTER TABLE item_categories_new RENAME TO item_categories`,
		itemCategoriesIndex,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return 0, fmt.Errorf("rebuilding item_categories: %w", err)
		}
	}

	var kept int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM item_categories`).Scan(&kept); err != nil {
		return 0, fmt.Errorf("counting item_categories: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing item_categories rebuild: %w", err)
	}
	return kept, nil
}
