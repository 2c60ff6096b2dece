// In file: internal/chat/context.go

// Package chat is the conversational ordering pipeline. A chat turn flows through context
// detection, suggestion building, prompt assembly, the LLM gateway, response interpretation
// and intent execution. Any failure on the LLM path is answered by the keyword fallback
// responder instead, so a valid request always gets a reply.
package chat

import (
	"strings"
)

// HintType enumerates the contextual signals detected in a user message.
type HintType string

const (
	HintWeatherHot       HintType = "weather_hot"
	HintWeatherCold      HintType = "weather_cold"
	HintHungry           HintType = "hungry"
	HintThirsty          HintType = "thirsty"
	HintTired            HintType = "tired"
	HintSweetTooth       HintType = "sweet_tooth"
	HintConversationFlow HintType = "conversation_flow"
)

// SuggestTag names the kind of item a hint points at.
type SuggestTag string

const (
	SuggestColdDrinks SuggestTag = "cold_drinks"
	SuggestHotDrinks  SuggestTag = "hot_drinks"
	SuggestMeals      SuggestTag = "heavy_meals"
	SuggestDrinks     SuggestTag = "drinks"
	SuggestCoffee     SuggestTag = "coffee"
	SuggestSweets     SuggestTag = "sweet_items"
)

// Hint is one contextual signal. Suggest is empty for conversation_flow hints, which carry
// the last assistant message instead.
type Hint struct {
	Type        HintType   `json:"type"`
	Suggest     SuggestTag `json:"suggest,omitempty"`
	Keyword     string     `json:"keyword,omitempty"`
	LastMessage string     `json:"last_message,omitempty"`
}

// Turn is one message of the caller-held conversation history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	TurnUser      = "user"
	TurnAssistant = "assistant"
)

type contextPattern struct {
	hint     HintType
	suggest  SuggestTag
	keywords []string
}

// contextPatterns is evaluated in order; the order of emitted hints follows it.
var contextPatterns = []contextPattern{
	{HintWeatherHot, SuggestColdDrinks, []string{"panas", "gerah", "terik", "kepanasan"}},
	{HintWeatherCold, SuggestHotDrinks, []string{"dingin", "hujan", "sejuk", "kedinginan", "angin"}},
	{HintHungry, SuggestMeals, []string{"laper", "lapar", "kelaparan", "perut kosong"}},
	{HintThirsty, SuggestDrinks, []string{"haus", "kehausan", "minum"}},
	{HintTired, SuggestCoffee, []string{"cape", "capek", "lelah", "ngantuk"}},
	{HintSweetTooth, SuggestSweets, []string{"manis", "dessert", "pencuci mulut"}},
}

// DetectContext scans message for keyword patterns and, when history is present, appends a
// conversation_flow hint carrying the most recent assistant message. Each pattern fires at
// most once.
func DetectContext(message string, history []Turn) []Hint {
	lower := strings.ToLower(message)
	var hints []Hint

	for _, pattern := range contextPatterns {
		for _, keyword := range pattern.keywords {
			if strings.Contains(lower, keyword) {
				hints = append(hints, Hint{Type: pattern.hint, Suggest: pattern.suggest, Keyword: keyword})
				break
			}
		}
	}

	if last, ok := lastAssistantMessage(history); ok {
		hints = append(hints, Hint{Type: HintConversationFlow, LastMessage: last})
	}
	return hints
}

func lastAssistantMessage(history []Turn) (string, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == TurnAssistant {
			return history[i].Content, true
		}
	}
	return "", false
}

// HasHint reports whether hints contains t.
func HasHint(hints []Hint, t HintType) bool {
	for _, h := range hints {
		if h.Type == t {
			return true
		}
	}
	return false
}
