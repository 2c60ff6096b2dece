// In file: internal/chat/prompt.go
package chat

import (
	"fmt"
	"strings"

	"github.com/dileep-u-k/cafe-gateway/internal/cart"
	"github.com/dileep-u-k/cafe-gateway/internal/catalog"
	"github.com/dileep-u-k/cafe-gateway/internal/llm"
)

const DefaultHistoryLimit = 8

// PromptInput is everything the assembler needs for one turn.
type PromptInput struct {
	CafeName    string
	Menu        []catalog.MenuItem
	Cart        cart.Cart
	Suggestions []Suggestion
	History     []Turn
	Message     string
	// HistoryLimit caps how many trailing turns are sent. Zero means DefaultHistoryLimit.
	HistoryLimit int
}

// BuildMessages returns the system prompt, then at most HistoryLimit most recent history
// turns with their roles preserved, then the current user message.
func BuildMessages(in PromptInput) []llm.Message {
	limit := in.HistoryLimit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	history := in.History
	if len(history) > limit {
		history = history[len(history)-limit:]
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: SystemPrompt(in)})
	for _, turn := range history {
		messages = append(messages, llm.Message{Role: llm.Role(turn.Role), Content: turn.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: in.Message})
	return messages
}

// FormatMenu lists every item as "- Name (Rp20.000)", flagging sold-out ones.
func FormatMenu(menu []catalog.MenuItem) string {
	lines := make([]string, 0, len(menu))
	for _, item := range menu {
		line := fmt.Sprintf("- %s (Rp%s)", item.Name, cart.FormatThousands(item.Price))
		if !item.IsReady() {
			line += " - habis"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// FormatCart renders the current order block, or "" for an empty cart.
func FormatCart(c cart.Cart) string {
	if len(c) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nPesanan saat ini:\n")
	for _, line := range c {
		b.WriteString("- " + line.Label() + "\n")
	}
	return b.String()
}

// FormatContextHints renders suggestions as "User sepertinya dingin/hujan, suggest: Teh (hot)".
func FormatContextHints(suggestions []Suggestion) string {
	if len(suggestions) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nContext hint:\n")
	for _, s := range suggestions {
		b.WriteString(fmt.Sprintf("User sepertinya %s, suggest: %s", s.Reason, strings.Join(s.Items, ", ")))
		if s.Variant != "" {
			b.WriteString(" (" + s.Variant + ")")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func variantDrinks(menu []catalog.MenuItem) []string {
	var names []string
	for _, item := range menu {
		if item.HasVariants() {
			names = append(names, item.Name)
		}
	}
	return names
}

// SystemPrompt builds the instruction block: menu, cart, hints, response shape, rules and
// few-shot examples.
func SystemPrompt(in PromptInput) string {
	name := in.CafeName
	if name == "" {
		name = "Cafe Ichal"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Kamu asisten %s yang friendly dan helpful.\n\n", name)
	b.WriteString("MENU:\n")
	b.WriteString(FormatMenu(in.Menu))
	b.WriteString("\n")
	b.WriteString(FormatCart(in.Cart))
	b.WriteString(FormatContextHints(in.Suggestions))
	if drinks := variantDrinks(in.Menu); len(drinks) > 0 {
		fmt.Fprintf(&b, "\n\nDrinks yang ada varian (hot/warm/ice): %s\n", strings.Join(drinks, ", "))
	}
	b.WriteString(responseContract)
	return b.String()
}

const responseContract = `
Respond ONLY in pure JSON format (no markdown, no emoji):
{
  "message": "your response",
  "action": "add|reduce|remove|clear|show|chat|ask_variant|none",
  "items": [{"menu": "name", "quantity": 1, "custom": "hot/warm/ice or null"}],
  "target_menu": "menu name for reduce/remove",
  "reduce_quantity": 1,
  "pending_drink": "drink name while asking for its variant",
  "auto_confirm": true
}

Action guide:
- add: Add to cart immediately
- ask_variant: Ask which variant (hot/warm/ice) for drinks
- chat: Just chatting
- reduce/remove/clear: Modify cart
- show: Display cart

Rules:
1. Only suggest menus from the list above, never items marked habis
2. For drinks with variants: if user doesn't specify hot/warm/ice, ask first (action: ask_variant)
3. If user confirms/agrees after your recommendation, add immediately (auto_confirm: true)
4. Understand context naturally (cold weather -> suggest hot drinks, hot weather -> suggest cold drinks)

Examples:
User: 'malam malam dingin enak pesen apa ya?'
Response: {"message": "Wah dingin ya, enak tuh minum yang hangat. Mau Teh atau latte?", "action": "chat", "auto_confirm": false}

User: 'boleh teh 1'
Response: {"message": "Teh-nya mau hot, warm, atau ice?", "action": "ask_variant", "pending_drink": "Teh", "auto_confirm": false}

User: 'hot aja'
Response: {"message": "Siap, 1 Teh hot ya", "action": "add", "items": [{"menu": "Teh", "quantity": 1, "custom": "hot"}], "auto_confirm": true}`
