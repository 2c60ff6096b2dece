// In file: internal/cart/cart.go

// Package cart holds the caller-owned shopping cart that is round-tripped on every chat turn.
// The server never stores a cart; it only merges, reduces and summarises the one it is given.
package cart

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Line is one cart entry. Name and Price are snapshots taken when the line was added.
// An empty CustomRequest means no variant or note.
type Line struct {
	MenuID        int64  `json:"menu_id"`
	Name          string `json:"name"`
	Price         int64  `json:"price"`
	Quantity      int    `json:"quantity"`
	CustomRequest string `json:"custom_request"`
}

// Subtotal is price times quantity.
func (l Line) Subtotal() int64 {
	return l.Price * int64(l.Quantity)
}

// Label renders "2x Teh (hot)", dropping the parenthesis when there is no custom request.
func (l Line) Label() string {
	if l.CustomRequest == "" {
		return fmt.Sprintf("%dx %s", l.Quantity, l.Name)
	}
	return fmt.Sprintf("%dx %s (%s)", l.Quantity, l.Name, l.CustomRequest)
}

func (l Line) sameKey(other Line) bool {
	return l.MenuID == other.MenuID && l.CustomRequest == other.CustomRequest
}

// Cart is an ordered list of lines. Lines are not required to be unique.
type Cart []Line

// Clone returns an independent copy so callers can compare before and after.
func (c Cart) Clone() Cart {
	if c == nil {
		return nil
	}
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// Merge adds items to a copy of c. An item whose (menu_id, custom_request) already exists in
// the cart increases that line's quantity; anything else is appended in order. Quantities
// below 1 count as 1.
func Merge(c Cart, items []Line) Cart {
	out := c.Clone()
	for _, item := range items {
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		merged := false
		for i := range out {
			if out[i].sameKey(item) {
				out[i].Quantity += item.Quantity
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, item)
		}
	}
	return out
}

// Total sums price times quantity over every line.
func (c Cart) Total() int64 {
	var total int64
	for _, l := range c {
		total += l.Subtotal()
	}
	return total
}

// Summary renders "Pesanan: 2x Teh (hot), 1x Ayam Bakar. Total: Rp 34.000".
func (c Cart) Summary() string {
	labels := make([]string, len(c))
	for i, l := range c {
		labels[i] = l.Label()
	}
	return fmt.Sprintf("Pesanan: %s. Total: %s", strings.Join(labels, ", "), FormatRupiah(c.Total()))
}

// FormatThousands groups digits with the Indonesian separator, e.g. 20000 -> "20.000".
func FormatThousands(n int64) string {
	return message.NewPrinter(language.Indonesian).Sprintf("%d", n)
}

// FormatRupiah renders an amount as "Rp 20.000".
func FormatRupiah(n int64) string {
	return "Rp " + FormatThousands(n)
}
