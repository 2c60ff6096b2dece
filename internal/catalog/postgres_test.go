package catalog

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

// ==========================
// Test Helper Functions
// ==========================

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var menuRowColumns = []string{
	"id", "name", "category", "description", "price", "image", "status", "variants", "created_at", "updated_at",
}

func menuRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(menuRowColumns).
		AddRow(1, "Ayam Bakar", "Makanan Berat", "Ayam bakar bumbu kecap", 20000, "", "ready", nil, now, now).
		AddRow(5, "Kopi Hitam", "Minuman", "Kopi hitam murni", 10000, "", "sold", "{Hot,Warm,Ice}", now, now)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestPostgresStore_ListAll(t *testing.T) {
	db, mock := setupMockDB(t)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + menuColumns + " FROM menus ORDER BY id")).
		WillReturnRows(menuRows(now))

	items, err := NewPostgresStore(db).ListAll(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Ayam Bakar", items[0].Name)
	assert.Nil(t, items[0].Variants)
	assert.Equal(t, StatusSold, items[1].Status)
	assert.Equal(t, []string{"Hot", "Warm", "Ice"}, items[1].Variants)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListReady(t *testing.T) {
	db, mock := setupMockDB(t)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + menuColumns + " FROM menus WHERE status = $1 ORDER BY id")).
		WithArgs("ready").
		WillReturnRows(sqlmock.NewRows(menuRowColumns).
			AddRow(1, "Ayam Bakar", "Makanan Berat", "", 20000, "", "ready", nil, now, now))

	items, err := NewPostgresStore(db).ListReady(context.Background())

	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListAll_QueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection refused"))

	_, err := NewPostgresStore(db).ListAll(context.Background())

	assert.True(t, errors.Is(err, apperrors.ErrStorage))
}

func TestPostgresStore_Get(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "found",
			setup: func(mock sqlmock.Sqlmock) {
				now := time.Now()
				mock.ExpectQuery(regexp.QuoteMeta("FROM menus WHERE id = $1")).
					WithArgs(int64(1)).
					WillReturnRows(sqlmock.NewRows(menuRowColumns).
						AddRow(1, "Ayam Bakar", "Makanan Berat", "", 20000, "", "ready", nil, now, now))
			},
		},
		{
			name: "missing",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("FROM menus WHERE id = $1")).
					WithArgs(int64(1)).
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: apperrors.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			tt.setup(mock)

			item, err := NewPostgresStore(db).Get(context.Background(), 1)

			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(1), item.ID)
		})
	}
}

func TestPostgresStore_Create_DefaultsToReady(t *testing.T) {
	db, mock := setupMockDB(t)
	now := time.Now()
	item := &MenuItem{Name: "Teh", Category: "Minuman", Price: 5000, Variants: []string{"Hot", "Warm", "Ice"}}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO menus")).
		WithArgs("Teh", "Minuman", "", int64(5000), "", "ready", pq.Array([]string{"Hot", "Warm", "Ice"})).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(11, now, now))

	err := NewPostgresStore(db).Create(context.Background(), item)

	require.NoError(t, err)
	assert.Equal(t, int64(11), item.ID)
	assert.Equal(t, StatusReady, item.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Update_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE menus")).WillReturnError(sql.ErrNoRows)

	err := NewPostgresStore(db).Update(context.Background(), &MenuItem{ID: 99, Name: "Ghost"})

	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestPostgresStore_UpdateStatus(t *testing.T) {
	t.Run("rejects unknown status", func(t *testing.T) {
		db, _ := setupMockDB(t)
		_, err := NewPostgresStore(db).UpdateStatus(context.Background(), 1, Status("gone"))
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
	})

	t.Run("marks sold", func(t *testing.T) {
		db, mock := setupMockDB(t)
		now := time.Now()
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE menus SET status = $1")).
			WithArgs("sold", int64(1)).
			WillReturnRows(sqlmock.NewRows(menuRowColumns).
				AddRow(1, "Ayam Bakar", "Makanan Berat", "", 20000, "", "sold", nil, now, now))

		item, err := NewPostgresStore(db).UpdateStatus(context.Background(), 1, StatusSold)

		require.NoError(t, err)
		assert.Equal(t, StatusSold, item.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStore_Delete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM menus WHERE id = $1")).
			WithArgs(int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, NewPostgresStore(db).Delete(context.Background(), 3))
	})

	t.Run("nothing to delete", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM menus WHERE id = $1")).
			WithArgs(int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		err := NewPostgresStore(db).Delete(context.Background(), 3)
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	})
}
