package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteBackend keeps the aggregate as one row of the app_state table.
type SQLiteBackend struct {
	db        *sql.DB
	namespace string
}

func NewSQLiteBackend(db *sql.DB) *SQLiteBackend {
	return &SQLiteBackend{db: db, namespace: Namespace}
}

func (b *SQLiteBackend) Load(ctx context.Context) ([]byte, error) {
	var data string
	err := b.db.QueryRowContext(ctx, `SELECT data FROM app_state WHERE namespace = ?`, b.namespace).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query app state: %w", err)
	}
	return []byte(data), nil
}

func (b *SQLiteBackend) Save(ctx context.Context, data []byte) error {
	_, err := b.db.ExecContext(ctx,
		`INSERT INTO app_state (namespace, data) VALUES (?, ?)
		 ON CONFLICT(namespace) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		b.namespace, string(data),
	)
	if err != nil {
		return fmt.Errorf("upsert app state: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) Clear(ctx context.Context) error {
	if _, err := b.db.ExecContext(ctx, `DELETE FROM app_state WHERE namespace = ?`, b.namespace); err != nil {
		return fmt.Errorf("delete app state: %w", err)
	}
	return nil
}
