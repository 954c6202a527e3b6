package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// RevokeSession records that a signed-out session id may no longer be used.
func RevokeSession(ctx context.Context, db *sql.DB, jti string, expiresAt time.Time) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO revoked_sessions (jti, expires_at) VALUES (?, ?)`,
		jti, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}

	// Expired entries can never match a valid cookie again.
	if _, err := db.ExecContext(ctx,
		`DELETE FROM revoked_sessions WHERE expires_at < ?`, time.Now(),
	); err != nil {
		slog.Warn("failed to prune revoked sessions", "error", err)
	}
	return nil
}

// IsSessionRevoked reports whether a session id has been signed out.
func IsSessionRevoked(ctx context.Context, db *sql.DB, jti string) (bool, error) {
	var revoked bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_sessions WHERE jti = ?)`, jti,
	).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("checking session revocation: %w", err)
	}
	return revoked, nil
}
