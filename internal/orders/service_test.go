package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dileep-u-k/cafe-gateway/internal/apperrors"
	"github.com/dileep-u-k/cafe-gateway/internal/cart"
	"github.com/dileep-u-k/cafe-gateway/internal/catalog"
	"github.com/dileep-u-k/cafe-gateway/internal/logger"
)

type memoryStore struct {
	created []*Order
	err     error
}

func (m *memoryStore) Create(ctx context.Context, order *Order) error {
	if m.err != nil {
		return m.err
	}
	order.ID = int64(len(m.created) + 1)
	m.created = append(m.created, order)
	return nil
}

func (m *memoryStore) ListActive(ctx context.Context) ([]Order, error) { return nil, m.err }

func (m *memoryStore) UpdateStatus(ctx context.Context, id int64, status Status) (*Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &Order{ID: id, Status: status}, nil
}

func (m *memoryStore) History(ctx context.Context, page int) (*HistoryPage, error) {
	return &HistoryPage{Page: page, PerPage: HistoryPageSize}, m.err
}

type menuStub []catalog.MenuItem

func (m menuStub) ListAll(ctx context.Context) ([]catalog.MenuItem, error) { return m, nil }
func (m menuStub) ListReady(ctx context.Context) ([]catalog.MenuItem, error) {
	return catalog.FilterReady(m), nil
}

var testCatalog = menuStub{
	{ID: 1, Name: "Ayam Bakar", Price: 20000, Status: catalog.StatusReady},
	{ID: 3, Name: "Teh", Price: 5000, Status: catalog.StatusReady},
}

func TestService_Place_ConsolidatesLines(t *testing.T) {
	store := &memoryStore{}
	svc := NewService(store, testCatalog, logger.NewTestLogger(t))

	order, err := svc.Place(context.Background(), PlaceRequest{
		CustomerName: "  Budi ",
		TableNumber:  "7",
		Lines: cart.Cart{
			{MenuID: 3, Name: "Teh", Price: 5000, Quantity: 1, CustomRequest: "hot"},
			{MenuID: 1, Price: 20000, Quantity: 1},
			{MenuID: 3, Name: "Teh", Price: 5000, Quantity: 2, CustomRequest: "hot"},
			{MenuID: 3, Name: "Teh", Price: 5000, Quantity: 1, CustomRequest: "ice"},
		},
	})

	require.NoError(t, err)
	require.Len(t, store.created, 1)
	assert.Equal(t, "Budi", order.CustomerName)
	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, int64(40000), order.TotalPrice)
	want := []Item{
		{MenuID: 3, MenuName: "Teh", Quantity: 3, Price: 5000, CustomRequest: "hot"},
		{MenuID: 1, MenuName: "Ayam Bakar", Quantity: 1, Price: 20000},
		{MenuID: 3, MenuName: "Teh", Quantity: 1, Price: 5000, CustomRequest: "ice"},
	}
	if diff := cmp.Diff(want, order.Items, cmpopts.IgnoreFields(Item{}, "ID", "OrderID")); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestService_Place_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  PlaceRequest
	}{
		{"missing customer", PlaceRequest{TableNumber: "1", Lines: cart.Cart{{MenuID: 1, Quantity: 1}}}},
		{"missing table", PlaceRequest{CustomerName: "Budi", Lines: cart.Cart{{MenuID: 1, Quantity: 1}}}},
		{"no items", PlaceRequest{CustomerName: "Budi", TableNumber: "1"}},
		{"unknown menu", PlaceRequest{CustomerName: "Budi", TableNumber: "1", Lines: cart.Cart{{MenuID: 99, Quantity: 1}}}},
		{"negative price", PlaceRequest{CustomerName: "Budi", TableNumber: "1", Lines: cart.Cart{{MenuID: 1, Quantity: 1, Price: -1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memoryStore{}
			_, err := NewService(store, testCatalog, logger.NewNoOpLogger()).Place(context.Background(), tt.req)

			assert.True(t, errors.Is(err, apperrors.ErrValidation))
			assert.Empty(t, store.created)
		})
	}
}

func TestService_Place_StoreError(t *testing.T) {
	store := &memoryStore{err: apperrors.Storage("insert order", errors.New("disk full"))}

	_, err := NewService(store, testCatalog, logger.NewNoOpLogger()).Place(context.Background(), PlaceRequest{
		CustomerName: "Budi", TableNumber: "1", Lines: cart.Cart{{MenuID: 1, Price: 20000, Quantity: 1}},
	})

	assert.True(t, errors.Is(err, apperrors.ErrStorage))
}

func TestService_UpdateStatus(t *testing.T) {
	svc := NewService(&memoryStore{}, testCatalog, logger.NewNoOpLogger())

	order, err := svc.UpdateStatus(context.Background(), 4, StatusProcessing)

	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, order.Status)
}

func TestStatus_Valid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusProcessing, StatusCompleted, StatusCancelled} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Status("served").Valid())
	assert.False(t, Status("").Valid())
}
