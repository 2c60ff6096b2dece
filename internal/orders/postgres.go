// In file: internal/orders/postgres.go
package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dileep-u-k/cafe-gateway/internal/apperrors"

	"github.com/lib/pq"
)

const (
	orderColumns = "id, customer_name, table_number, total_price, status, created_at, updated_at"
	itemColumns  = "id, order_id, menu_id, menu_name, quantity, price, custom_request"
)

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

func scanOrder(row rowScanner) (*Order, error) {
	var (
		o      Order
		status string
	)
	if err := row.Scan(&o.ID, &o.CustomerName, &o.TableNumber, &o.TotalPrice, &status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Status = Status(status)
	return &o, nil
}

// Create inserts the order row and every item inside one transaction.
func (s *PostgresStore) Create(ctx context.Context, order *Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Storage("begin order transaction", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if order.Status == "" {
		order.Status = StatusPending
	}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO orders (customer_name, table_number, total_price, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		order.CustomerName, order.TableNumber, order.TotalPrice, string(order.Status),
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return apperrors.Storage("insert order", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		err := tx.QueryRowContext(ctx,
			`INSERT INTO order_items (order_id, menu_id, menu_name, quantity, price, custom_request)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id`,
			item.OrderID, item.MenuID, item.MenuName, item.Quantity, item.Price, item.CustomRequest,
		).Scan(&item.ID)
		if err != nil {
			return apperrors.Storage(fmt.Sprintf("insert order item %d", i), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Storage("commit order", err)
	}
	return nil
}

func (s *PostgresStore) ListActive(ctx context.Context) ([]Order, error) {
	return s.listWithItems(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE status IN ($1, $2) ORDER BY created_at DESC, id DESC",
		string(StatusPending), string(StatusProcessing),
	)
}

func (s *PostgresStore) History(ctx context.Context, page int) (*HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	var total int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders WHERE status = $1", string(StatusCompleted)).Scan(&total)
	if err != nil {
		return nil, apperrors.Storage("count order history", err)
	}

	list, err := s.listWithItems(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE status = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3",
		string(StatusCompleted), HistoryPageSize, (page-1)*HistoryPageSize,
	)
	if err != nil {
		return nil, err
	}
	return &HistoryPage{Orders: list, Page: page, PerPage: HistoryPageSize, Total: total}, nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id int64, status Status) (*Order, error) {
	if !status.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("invalid order status %q", status), nil)
	}
	row := s.db.QueryRowContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING "+orderColumns,
		string(status), id,
	)
	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound(fmt.Sprintf("order %d not found", id))
	}
	if err != nil {
		return nil, apperrors.Storage("update order status", err)
	}

	list := []Order{*order}
	if err := s.attachItems(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (s *PostgresStore) listWithItems(ctx context.Context, query string, args ...interface{}) ([]Order, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Storage("query orders", err)
	}
	defer rows.Close()

	var list []Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, apperrors.Storage("scan order row", err)
		}
		list = append(list, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate order rows", err)
	}
	if len(list) == 0 {
		return list, nil
	}
	if err := s.attachItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// attachItems loads the items of every order in one query.
func (s *PostgresStore) attachItems(ctx context.Context, list []Order) error {
	ids := make([]int64, len(list))
	index := make(map[int64]int, len(list))
	for i, o := range list {
		ids[i] = o.ID
		index[o.ID] = i
		list[i].Items = []Item{}
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+itemColumns+" FROM order_items WHERE order_id = ANY($1) ORDER BY id",
		pq.Array(ids),
	)
	if err != nil {
		return apperrors.Storage("query order items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuID, &item.MenuName, &item.Quantity, &item.Price, &item.CustomRequest); err != nil {
			return apperrors.Storage("scan order item", err)
		}
		if i, ok := index[item.OrderID]; ok {
			list[i].Items = append(list[i].Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return apperrors.Storage("iterate order items", err)
	}
	return nil
}
