// In file: internal/orders/order.go

// Package orders persists the orders customers place from their cart and lets staff move them
// through the kitchen workflow.
package orders

import (
	"context"
	"time"
)

// Status is the fulfilment state of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// HistoryPageSize is the number of completed orders per history page.
const HistoryPageSize = 20

// Item is one line of a placed order. MenuName and Price are snapshots from the cart.
type Item struct {
	ID            int64  `json:"id"`
	OrderID       int64  `json:"order_id"`
	MenuID        int64  `json:"menu_id"`
	MenuName      string `json:"menu_name"`
	Quantity      int    `json:"quantity"`
	Price         int64  `json:"price"`
	CustomRequest string `json:"custom_request,omitempty"`
}

type Order struct {
	ID           int64     `json:"id"`
	CustomerName string    `json:"customer_name"`
	TableNumber  string    `json:"table_number"`
	TotalPrice   int64     `json:"total_price"`
	Status       Status    `json:"status"`
	Items        []Item    `json:"items"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HistoryPage is one page of completed orders.
type HistoryPage struct {
	Orders  []Order `json:"orders"`
	Page    int     `json:"page"`
	PerPage int     `json:"per_page"`
	Total   int     `json:"total"`
}

// Store persists orders.
type Store interface {
	// Create writes the order and its items atomically and fills in generated ids.
	Create(ctx context.Context, order *Order) error
	// ListActive returns pending and processing orders, newest first.
	ListActive(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (*Order, error)
	// History returns the given 1-based page of completed orders, newest first.
	History(ctx context.Context, page int) (*HistoryPage, error)
}
