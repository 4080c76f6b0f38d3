package store

import (
	"context"
	"fmt"

	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS documents (
    collection    TEXT   NOT NULL,
    id            TEXT   NOT NULL,
    user_id       TEXT   NOT NULL,
    data          TEXT   NOT NULL,
    created_at_ms BIGINT NOT NULL,
    updated_at_ms BIGINT NOT NULL,
    PRIMARY KEY (collection, id)
)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_owner ON documents (collection, user_id, created_at_ms)`,
}

// Migrate creates the documents schema if it does not exist.
func Migrate(ctx context.Context, conn sqlx.SqlConn) error {
	for i, stmt := range migrations {
		if _, err := conn.ExecCtx(ctx, stmt); err != nil {
			return fmt.Errorf("store: migration %d: %w", i, err)
		}
	}
	return nil
}
