package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/irielink/internal/model"
)

func createClaim(ctx context.Context, db *sql.DB, itemID int64, claimer, status string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO claims (item_id, claimer_name, status) VALUES (?, ?, ?)`,
		itemID, strings.TrimSpace(claimer), status,
	)
	if err != nil {
		return fmt.Errorf("recording claim: %w", err)
	}
	return nil
}

const claimSelect = `SELECT c.id, c.item_id, c.claimer_name, c.status, c.created_at, i.name
	FROM claims c
	JOIN items i ON i.id = c.item_id`

// ListClaims returns the claim history of one item, newest first.
func ListClaims(ctx context.Context, db *sql.DB, itemID int64) ([]model.Claim, error) {
	return queryClaims(ctx, db, claimSelect+` WHERE c.item_id = ? ORDER BY c.id DESC`, itemID)
}

// ListRecentClaims returns the latest claims across all items.
func ListRecentClaims(ctx context.Context, db *sql.DB, limit int) ([]model.Claim, error) {
	if limit <= 0 {
		limit = 20
	}
	return queryClaims(ctx, db, claimSelect+` ORDER BY c.id DESC LIMIT ?`, limit)
}

func queryClaims(ctx context.Context, db *sql.DB, query string, args ...any) ([]model.Claim, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing claims: %w", err)
	}
	defer rows.Close()

	var claims []model.Claim
	for rows.Next() {
		var c model.Claim
		if err := rows.Scan(&c.ID, &c.ItemID, &c.ClaimerName, &c.Status, &c.CreatedAt, &c.ItemName); err != nil {
			return nil, fmt.Errorf("scanning claim: %w", err)
		}
		claims = append(claims, c)
	}
	return claims, rows.Err()
}
