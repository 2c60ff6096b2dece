// In file: internal/orders/service.go
package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/dileep-u-k/cafe-gateway/internal/apperrors"
	"github.com/dileep-u-k/cafe-gateway/internal/cart"
	"github.com/dileep-u-k/cafe-gateway/internal/catalog"
	"github.com/dileep-u-k/cafe-gateway/internal/logger"
	"github.com/dileep-u-k/cafe-gateway/internal/metrics"
)

// PlaceRequest is a checkout of the caller's cart.
type PlaceRequest struct {
	CustomerName string
	TableNumber  string
	Lines        cart.Cart
}

// Service places orders and moves them through their lifecycle.
type Service struct {
	store  Store
	menu   catalog.Reader
	logger logger.Logger
}

func NewService(store Store, menu catalog.Reader, log logger.Logger) *Service {
	return &Service{
		store:  store,
		menu:   menu,
		logger: log.With(map[string]interface{}{"component": "order_service"}),
	}
}

// Place consolidates duplicate lines, checks every menu id against the catalog and writes the
// order with status pending.
func (s *Service) Place(ctx context.Context, req PlaceRequest) (*Order, error) {
	if strings.TrimSpace(req.CustomerName) == "" {
		return nil, apperrors.Validation("customer_name is required", nil).WithDetail("field", "customer_name")
	}
	if strings.TrimSpace(req.TableNumber) == "" {
		return nil, apperrors.Validation("table_number is required", nil).WithDetail("field", "table_number")
	}
	if len(req.Lines) == 0 {
		return nil, apperrors.Validation("an order needs at least one item", nil).WithDetail("field", "items")
	}

	menu, err := s.menu.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[int64]catalog.MenuItem, len(menu))
	for _, item := range menu {
		known[item.ID] = item
	}

	lines := cart.Merge(nil, req.Lines)
	order := &Order{
		CustomerName: strings.TrimSpace(req.CustomerName),
		TableNumber:  strings.TrimSpace(req.TableNumber),
		TotalPrice:   lines.Total(),
		Status:       StatusPending,
		Items:        make([]Item, 0, len(lines)),
	}
	for _, line := range lines {
		item, ok := known[line.MenuID]
		if !ok {
			return nil, apperrors.Validation(fmt.Sprintf("menu %d does not exist", line.MenuID), nil).
				WithDetail("field", "items").WithDetail("menu_id", line.MenuID)
		}
		if line.Price < 0 {
			return nil, apperrors.Validation(fmt.Sprintf("price of menu %d must not be negative", line.MenuID), nil).
				WithDetail("field", "items")
		}
		name := line.Name
		if name == "" {
			name = item.Name
		}
		order.Items = append(order.Items, Item{
			MenuID:        line.MenuID,
			MenuName:      name,
			Quantity:      line.Quantity,
			Price:         line.Price,
			CustomRequest: line.CustomRequest,
		})
	}

	if err := s.store.Create(ctx, order); err != nil {
		return nil, err
	}
	metrics.OrdersCreated.Inc()
	s.logger.Info("order placed", map[string]interface{}{
		"order_id":    order.ID,
		"table":       order.TableNumber,
		"items":       len(order.Items),
		"total_price": order.TotalPrice,
	})
	return order, nil
}

func (s *Service) Active(ctx context.Context) ([]Order, error) {
	return s.store.ListActive(ctx)
}

func (s *Service) History(ctx context.Context, page int) (*HistoryPage, error) {
	return s.store.History(ctx, page)
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) (*Order, error) {
	order, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.logger.Info("order status changed", map[string]interface{}{"order_id": id, "status": string(status)})
	return order, nil
}
