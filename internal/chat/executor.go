// In file: internal/chat/executor.go
package chat

import (
	"fmt"

	"github.com/dileep-u-k/cafe-gateway/internal/cart"
	"github.com/dileep-u-k/cafe-gateway/internal/catalog"
)

// CartAction tells the caller what to do with its cart. Empty means leave it alone.
type CartAction string

const (
	CartActionNone   CartAction = ""
	CartActionClear  CartAction = "clear"
	CartActionUpdate CartAction = "update"
)

const (
	msgAskReduceTarget = "Item mana yang mau dikurangi?"
	msgAskRemoveTarget = "Item mana yang mau dihapus?"
	msgNotInOrder      = "%s ga ada di pesanan"
	msgEmptyCart       = "Belum ada pesanan"
)

// Outcome is the result of applying an intent to a cart. UpdatedCart is set only together
// with CartActionUpdate. DetectedItems are added by the caller when AutoConfirm is true.
type Outcome struct {
	Action        Action
	Message       string
	DetectedItems []cart.Line
	CartAction    CartAction
	UpdatedCart   cart.Cart
	PendingDrink  string
	AutoConfirm   bool
}

// Executor applies parsed intents. It holds no per-request state.
type Executor struct {
	threshold float64
}

func NewExecutor(threshold float64) *Executor {
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}
	return &Executor{threshold: threshold}
}

// Execute dispatches on intent.Action. current is never modified.
func (e *Executor) Execute(intent *ParsedIntent, current cart.Cart, menu []catalog.MenuItem) Outcome {
	switch intent.Action {
	case ActionAdd:
		return e.add(intent, menu)
	case ActionReduce:
		return e.reduce(intent, current)
	case ActionRemove:
		return e.remove(intent, current)
	case ActionClear:
		return Outcome{Action: ActionClear, Message: intent.Message, CartAction: CartActionClear}
	case ActionShow:
		return show(intent, current)
	case ActionAskVariant:
		return Outcome{Action: ActionAskVariant, Message: intent.Message, PendingDrink: intent.PendingDrink}
	case ActionChat, ActionNone:
		return Outcome{Action: intent.Action, Message: intent.Message}
	default:
		// Unknown actions pass the message through as none.
		return Outcome{Action: ActionNone, Message: intent.Message}
	}
}

func (e *Executor) add(intent *ParsedIntent, menu []catalog.MenuItem) Outcome {
	out := Outcome{
		Action:       ActionAdd,
		Message:      intent.Message,
		PendingDrink: intent.PendingDrink,
		AutoConfirm:  intent.AutoConfirm,
	}
	for _, item := range intent.Items {
		match, ok := e.matchMenu(menu, item.Menu)
		if !ok {
			continue
		}
		out.DetectedItems = append(out.DetectedItems, cart.Line{
			MenuID:        match.ID,
			Name:          match.Name,
			Price:         match.Price,
			Quantity:      item.Quantity,
			CustomRequest: item.Custom,
		})
	}
	return out
}

// matchMenu returns the first catalog item above the threshold, in catalog order.
func (e *Executor) matchMenu(menu []catalog.MenuItem, name string) (catalog.MenuItem, bool) {
	for _, item := range menu {
		if Matches(item.Name, name, e.threshold) {
			return item, true
		}
	}
	return catalog.MenuItem{}, false
}

// matchLine returns the index of the first cart line above the threshold, or -1.
func (e *Executor) matchLine(c cart.Cart, name string) int {
	for i, line := range c {
		if Matches(line.Name, name, e.threshold) {
			return i
		}
	}
	return -1
}

func (e *Executor) reduce(intent *ParsedIntent, current cart.Cart) Outcome {
	if intent.TargetMenu == "" {
		return Outcome{Action: ActionReduce, Message: msgAskReduceTarget}
	}
	idx := e.matchLine(current, intent.TargetMenu)
	if idx < 0 {
		return notInOrder(ActionReduce, intent.TargetMenu)
	}

	updated := current.Clone()
	updated[idx].Quantity -= intent.ReduceQuantity
	if updated[idx].Quantity < 1 {
		updated[idx].Quantity = 1
	}
	return Outcome{Action: ActionReduce, Message: intent.Message, CartAction: CartActionUpdate, UpdatedCart: updated}
}

func (e *Executor) remove(intent *ParsedIntent, current cart.Cart) Outcome {
	if intent.TargetMenu == "" {
		return Outcome{Action: ActionRemove, Message: msgAskRemoveTarget}
	}
	idx := e.matchLine(current, intent.TargetMenu)
	if idx < 0 {
		return notInOrder(ActionRemove, intent.TargetMenu)
	}

	updated := make(cart.Cart, 0, len(current)-1)
	updated = append(updated, current[:idx]...)
	updated = append(updated, current[idx+1:]...)
	return Outcome{Action: ActionRemove, Message: intent.Message, CartAction: CartActionUpdate, UpdatedCart: updated}
}

func notInOrder(action Action, target string) Outcome {
	return Outcome{Action: action, Message: fmt.Sprintf(msgNotInOrder, target)}
}

// show prefers the model's wording. A summary is computed only for a non-empty cart the
// model said nothing about.
func show(intent *ParsedIntent, current cart.Cart) Outcome {
	out := Outcome{Action: ActionShow, Message: intent.Message}
	if out.Message != "" {
		return out
	}
	if len(current) == 0 {
		out.Message = msgEmptyCart
		return out
	}
	out.Message = current.Summary()
	return out
}
