// In file: internal/catalog/menu.go

// Package catalog owns the café menu: the MenuItem model, its Postgres store and the
// Redis snapshot cache that sits in front of it. The chat pipeline only ever reads
// through the Reader interface.
package catalog

import (
	"context"
	"strings"
	"time"
)

// Status is the availability of a menu item.
type Status string

const (
	StatusReady Status = "ready"
	StatusSold  Status = "sold"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusReady || s == StatusSold
}

// MenuItem is a single entry of the café menu. Price is in the smallest currency unit.
type MenuItem struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Price       int64     `json:"price"`
	Image       string    `json:"image,omitempty"`
	Status      Status    `json:"status"`
	Variants    []string  `json:"variants,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (m MenuItem) IsReady() bool     { return m.Status == StatusReady }
func (m MenuItem) HasVariants() bool { return len(m.Variants) > 0 }

// Reader is the read-only view of the catalog used by the chat pipeline.
type Reader interface {
	// ListAll returns every item, including sold-out ones.
	ListAll(ctx context.Context) ([]MenuItem, error)
	// ListReady returns only items with status ready.
	ListReady(ctx context.Context) ([]MenuItem, error)
}

// Store is the full catalog collaborator used by the admin surfaces.
type Store interface {
	Reader
	Get(ctx context.Context, id int64) (*MenuItem, error)
	Create(ctx context.Context, item *MenuItem) error
	Update(ctx context.Context, item *MenuItem) error
	UpdateStatus(ctx context.Context, id int64, status Status) (*MenuItem, error)
	Delete(ctx context.Context, id int64) error
}

// FilterReady returns the items whose status is ready, preserving order.
func FilterReady(items []MenuItem) []MenuItem {
	out := make([]MenuItem, 0, len(items))
	for _, item := range items {
		if item.IsReady() {
			out = append(out, item)
		}
	}
	return out
}

// Names returns the display names of items, preserving order.
func Names(items []MenuItem) []string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return names
}

// NamesIn returns the names of items that appear in wanted, in catalog order.
// The comparison is exact, mirroring a whereIn lookup.
func NamesIn(items []MenuItem, wanted []string) []string {
	set := make(map[string]struct{}, len(wanted))
	for _, w := range wanted {
		set[w] = struct{}{}
	}
	var out []string
	for _, item := range items {
		if _, ok := set[item.Name]; ok {
			out = append(out, item.Name)
		}
	}
	return out
}

// NamesContaining returns the names of items containing substr, case-insensitively.
func NamesContaining(items []MenuItem, substr string) []string {
	needle := strings.ToLower(substr)
	var out []string
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), needle) {
			out = append(out, item.Name)
		}
	}
	return out
}

// GroupByCategory groups items by category, keeping first-seen category order.
func GroupByCategory(items []MenuItem) ([]string, map[string][]MenuItem) {
	var order []string
	groups := make(map[string][]MenuItem)
	for _, item := range items {
		if _, ok := groups[item.Category]; !ok {
			order = append(order, item.Category)
		}
		groups[item.Category] = append(groups[item.Category], item)
	}
	return order, groups
}
