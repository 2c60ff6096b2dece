package orders

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dileep-u-k/cafe-gateway/internal/apperrors"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var (
	orderRowColumns = []string{"id", "customer_name", "table_number", "total_price", "status", "created_at", "updated_at"}
	itemRowColumns  = []string{"id", "order_id", "menu_id", "menu_name", "quantity", "price", "custom_request"}
)

func TestPostgresStore_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	now := time.Now()
	order := &Order{
		CustomerName: "Budi",
		TableNumber:  "7",
		TotalPrice:   30000,
		Items: []Item{
			{MenuID: 3, MenuName: "Teh", Quantity: 2, Price: 5000, CustomRequest: "hot"},
			{MenuID: 1, MenuName: "Ayam Bakar", Quantity: 1, Price: 20000},
		},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO orders")).
		WithArgs("Budi", "7", int64(30000), "pending").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(42, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO order_items")).
		WithArgs(int64(42), int64(3), "Teh", 2, int64(5000), "hot").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO order_items")).
		WithArgs(int64(42), int64(1), "Ayam Bakar", 1, int64(20000), "").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(101))
	mock.ExpectCommit()

	err := NewPostgresStore(db).Create(context.Background(), order)

	require.NoError(t, err)
	assert.Equal(t, int64(42), order.ID)
	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, int64(100), order.Items[0].ID)
	assert.Equal(t, int64(42), order.Items[1].OrderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Create_RollsBackOnItemFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO orders")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(42, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO order_items")).
		WillReturnError(errors.New("foreign key violation"))
	mock.ExpectRollback()

	err := NewPostgresStore(db).Create(context.Background(), &Order{
		CustomerName: "Budi", TableNumber: "7",
		Items: []Item{{MenuID: 99, Quantity: 1}},
	})

	assert.True(t, errors.Is(err, apperrors.ErrStorage))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListActive(t *testing.T) {
	db, mock := setupMockDB(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + orderColumns + " FROM orders WHERE status IN ($1, $2) ORDER BY created_at DESC, id DESC")).
		WithArgs("pending", "processing").
		WillReturnRows(sqlmock.NewRows(orderRowColumns).
			AddRow(2, "Sari", "3", 10000, "processing", now, now).
			AddRow(1, "Budi", "7", 30000, "pending", now.Add(-time.Minute), now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + itemColumns + " FROM order_items WHERE order_id = ANY($1) ORDER BY id")).
		WithArgs(pq.Array([]int64{2, 1})).
		WillReturnRows(sqlmock.NewRows(itemRowColumns).
			AddRow(10, 1, 3, "Teh", 2, 5000, "hot").
			AddRow(11, 1, 1, "Ayam Bakar", 1, 20000, "").
			AddRow(12, 2, 4, "Kopi Hitam", 1, 10000, ""))

	list, err := NewPostgresStore(db).ListActive(context.Background())

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].ID)
	assert.Equal(t, StatusProcessing, list[0].Status)
	require.Len(t, list[0].Items, 1)
	assert.Equal(t, "Kopi Hitam", list[0].Items[0].MenuName)
	require.Len(t, list[1].Items, 2)
	assert.Equal(t, "hot", list[1].Items[0].CustomRequest)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListActive_Empty(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows(orderRowColumns))

	list, err := NewPostgresStore(db).ListActive(context.Background())

	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_History(t *testing.T) {
	db, mock := setupMockDB(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM orders WHERE status = $1")).
		WithArgs("completed").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(45))
	mock.ExpectQuery(regexp.QuoteMeta("FROM orders WHERE status = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3")).
		WithArgs("completed", HistoryPageSize, 40).
		WillReturnRows(sqlmock.NewRows(orderRowColumns).
			AddRow(5, "Budi", "7", 5000, "completed", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM order_items")).
		WillReturnRows(sqlmock.NewRows(itemRowColumns).AddRow(50, 5, 3, "Teh", 1, 5000, ""))

	page, err := NewPostgresStore(db).History(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 20, page.PerPage)
	assert.Equal(t, 45, page.Total)
	require.Len(t, page.Orders, 1)
	assert.Len(t, page.Orders[0].Items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_History_ClampsPage(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $2 OFFSET $3")).
		WithArgs("completed", HistoryPageSize, 0).
		WillReturnRows(sqlmock.NewRows(orderRowColumns))

	page, err := NewPostgresStore(db).History(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Empty(t, page.Orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateStatus(t *testing.T) {
	t.Run("updates and loads items", func(t *testing.T) {
		db, mock := setupMockDB(t)
		now := time.Now()
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING " + orderColumns)).
			WithArgs("completed", int64(1)).
			WillReturnRows(sqlmock.NewRows(orderRowColumns).AddRow(1, "Budi", "7", 5000, "completed", now, now))
		mock.ExpectQuery(regexp.QuoteMeta("FROM order_items")).
			WithArgs(pq.Array([]int64{1})).
			WillReturnRows(sqlmock.NewRows(itemRowColumns).AddRow(10, 1, 3, "Teh", 1, 5000, ""))

		order, err := NewPostgresStore(db).UpdateStatus(context.Background(), 1, StatusCompleted)

		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, order.Status)
		assert.Len(t, order.Items, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery("UPDATE orders").WillReturnError(sql.ErrNoRows)

		_, err := NewPostgresStore(db).UpdateStatus(context.Background(), 9, StatusCancelled)

		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid status never reaches the database", func(t *testing.T) {
		db, mock := setupMockDB(t)

		_, err := NewPostgresStore(db).UpdateStatus(context.Background(), 1, Status("served"))

		assert.True(t, errors.Is(err, apperrors.ErrValidation))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
