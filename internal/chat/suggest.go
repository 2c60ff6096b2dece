// In file: internal/chat/suggest.go
package chat

import (
	"github.com/dileep-u-k/cafe-gateway/internal/catalog"
)

// Suggestion is a concrete recommendation derived from a hint. It only feeds the prompt.
type Suggestion struct {
	Reason  string
	Items   []string
	Variant string
}

var (
	coldDrinkNames = []string{"Teh", "latte"}
	hotDrinkNames  = []string{"Kopi Hitam", "Teh", "latte"}
	mealNames      = []string{"Ayam Bakar", "Nasi Putih"}
)

// BuildSuggestions resolves hints against menu. Hints that resolve to no item produce nothing.
// Callers pass ready items only so nothing sold out gets recommended.
func BuildSuggestions(hints []Hint, menu []catalog.MenuItem) []Suggestion {
	var out []Suggestion
	for _, hint := range hints {
		var s Suggestion
		switch hint.Suggest {
		case SuggestColdDrinks:
			s = Suggestion{Reason: "panas/gerah", Items: catalog.NamesIn(menu, coldDrinkNames), Variant: "ice"}
		case SuggestHotDrinks:
			s = Suggestion{Reason: "dingin/hujan", Items: catalog.NamesIn(menu, hotDrinkNames), Variant: "hot"}
		case SuggestMeals:
			s = Suggestion{Reason: "lapar", Items: catalog.NamesIn(menu, mealNames)}
		case SuggestCoffee:
			s = Suggestion{Reason: "capek/ngantuk", Items: catalog.NamesContaining(menu, "Kopi")}
		default:
			continue
		}
		if len(s.Items) > 0 {
			out = append(out, s)
		}
	}
	return out
}
