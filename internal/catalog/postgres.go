// In file: internal/catalog/postgres.go
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dileep-u-k/cafe-gateway/internal/apperrors"

	"github.com/lib/pq"
)

const menuColumns = "id, name, category, description, price, image, status, variants, created_at, updated_at"

// PostgresStore is the relational catalog store.
type PostgresStore struct {
	db *sql.DB
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMenuItem(row rowScanner) (*MenuItem, error) {
	var (
		item     MenuItem
		status   string
		variants pq.StringArray
	)
	err := row.Scan(
		&item.ID, &item.Name, &item.Category, &item.Description, &item.Price,
		&item.Image, &status, &variants, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.Status = Status(status)
	if len(variants) > 0 {
		item.Variants = []string(variants)
	}
	return &item, nil
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...interface{}) ([]MenuItem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Storage("query menus", err)
	}
	defer rows.Close()

	var items []MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, apperrors.Storage("scan menu row", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate menu rows", err)
	}
	return items, nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]MenuItem, error) {
	return s.list(ctx, "SELECT "+menuColumns+" FROM menus ORDER BY id")
}

func (s *PostgresStore) ListReady(ctx context.Context) ([]MenuItem, error) {
	return s.list(ctx, "SELECT "+menuColumns+" FROM menus WHERE status = $1 ORDER BY id", string(StatusReady))
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (*MenuItem, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+menuColumns+" FROM menus WHERE id = $1", id)
	item, err := scanMenuItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound(fmt.Sprintf("menu %d not found", id))
	}
	if err != nil {
		return nil, apperrors.Storage("get menu", err)
	}
	return item, nil
}

// Create inserts item and fills in its generated id and timestamps. An empty status
// defaults to ready.
func (s *PostgresStore) Create(ctx context.Context, item *MenuItem) error {
	if item.Status == "" {
		item.Status = StatusReady
	}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO menus (name, category, description, price, image, status, variants)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		item.Name, item.Category, item.Description, item.Price, item.Image, string(item.Status), pq.Array(item.Variants),
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return apperrors.Storage("insert menu", err)
	}
	return nil
}

// Update rewrites the editable fields of item. Status is changed only through UpdateStatus.
func (s *PostgresStore) Update(ctx context.Context, item *MenuItem) error {
	var status string
	err := s.db.QueryRowContext(ctx,
		`UPDATE menus
		 SET name = $1, category = $2, description = $3, price = $4, image = $5, variants = $6, updated_at = NOW()
		 WHERE id = $7
		 RETURNING status, created_at, updated_at`,
		item.Name, item.Category, item.Description, item.Price, item.Image, pq.Array(item.Variants), item.ID,
	).Scan(&status, &item.CreatedAt, &item.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound(fmt.Sprintf("menu %d not found", item.ID))
	}
	if err != nil {
		return apperrors.Storage("update menu", err)
	}
	item.Status = Status(status)
	return nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id int64, status Status) (*MenuItem, error) {
	if !status.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("invalid menu status %q", status), nil)
	}
	row := s.db.QueryRowContext(ctx,
		"UPDATE menus SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING "+menuColumns,
		string(status), id,
	)
	item, err := scanMenuItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound(fmt.Sprintf("menu %d not found", id))
	}
	if err != nil {
		return nil, apperrors.Storage("update menu status", err)
	}
	return item, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM menus WHERE id = $1", id)
	if err != nil {
		return apperrors.Storage("delete menu", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Storage("delete menu", err)
	}
	if n == 0 {
		return apperrors.NotFound(fmt.Sprintf("menu %d not found", id))
	}
	return nil
}
