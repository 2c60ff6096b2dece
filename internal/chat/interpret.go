// In file: internal/chat/interpret.go
package chat

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dileep-u-k/cafe-gateway/internal/apperrors"

	"github.com/xeipuuv/gojsonschema"
)

// Action is the closed set of intents the model may answer with.
type Action string

const (
	ActionAdd        Action = "add"
	ActionReduce     Action = "reduce"
	ActionRemove     Action = "remove"
	ActionClear      Action = "clear"
	ActionShow       Action = "show"
	ActionAskVariant Action = "ask_variant"
	ActionChat       Action = "chat"
	ActionNone       Action = "none"
)

// IntentItem is one requested item. Menu is free text and still needs matching.
type IntentItem struct {
	Menu     string
	Quantity int
	Custom   string
}

// ParsedIntent is the validated, default-filled reply of the model.
type ParsedIntent struct {
	Message        string
	Action         Action
	Items          []IntentItem
	TargetMenu     string
	ReduceQuantity int
	PendingDrink   string
	AutoConfirm    bool
}

// rawIntent mirrors the JSON the model is asked to produce. Pointers tell absent from zero.
type rawIntent struct {
	Message *string `json:"message"`
	Action  string  `json:"action"`
	Items   []struct {
		Menu     *string      `json:"menu"`
		Quantity *looseNumber `json:"quantity"`
		Custom   *string      `json:"custom"`
	} `json:"items"`
	TargetMenu     *string      `json:"target_menu"`
	ReduceQuantity *looseNumber `json:"reduce_quantity"`
	PendingDrink   *string      `json:"pending_drink"`
	AutoConfirm    *bool        `json:"auto_confirm"`
}

// looseNumber accepts a JSON number or a numeric string such as "2". A string that is not
// a number decodes to 0 and is later defaulted.
type looseNumber float64

func (n *looseNumber) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			f = 0
		}
		*n = looseNumber(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = looseNumber(f)
	return nil
}

// maxQuantity bounds quantities so the int conversion and cart totals cannot overflow.
const maxQuantity = math.MaxInt32

const intentSchemaJSON = `{
  "type": "object",
  "required": ["action", "message"],
  "properties": {
    "action": {"type": "string", "minLength": 1},
    "message": {"type": "string"},
    "items": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "menu": {"type": ["string", "null"]},
          "quantity": {"type": ["number", "string", "null"]},
          "custom": {"type": ["string", "null"]}
        }
      }
    },
    "target_menu": {"type": ["string", "null"]},
    "reduce_quantity": {"type": ["number", "string", "null"]},
    "pending_drink": {"type": ["string", "null"]},
    "auto_confirm": {"type": ["boolean", "null"]}
  }
}`

var (
	intentSchema = mustSchema(intentSchemaJSON)

	codeFenceRe    = regexp.MustCompile("```json\\s*|\\s*```")
	outerObjectRe  = regexp.MustCompile(`(?s)\{.*\}`)
	controlCharsRe = regexp.MustCompile(`[\x00-\x1F\x7F]`)
)

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic("chat: invalid intent schema: " + err.Error())
	}
	return schema
}

// CleanResponse strips code fences, keeps the outermost {...} span, removes control
// characters and trims.
func CleanResponse(raw string) string {
	text := codeFenceRe.ReplaceAllString(raw, "")
	if m := outerObjectRe.FindString(text); m != "" {
		text = m
	}
	text = controlCharsRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// Interpret turns raw completion text into a ParsedIntent. Every failure is a parse error
// carrying the raw and cleaned text in its details. A message that is empty after emoji
// stripping is only accepted for show, which can compute its own reply.
func Interpret(raw string) (*ParsedIntent, error) {
	cleaned := CleanResponse(raw)
	parseErr := func(msg string, err error) error {
		return apperrors.Parse(msg, err).WithDetail("raw", raw).WithDetail("cleaned", cleaned)
	}

	if !json.Valid([]byte(cleaned)) {
		return nil, parseErr("completion is not valid JSON", nil)
	}

	result, err := intentSchema.Validate(gojsonschema.NewStringLoader(cleaned))
	if err != nil {
		return nil, parseErr("completion could not be validated", err)
	}
	if !result.Valid() {
		violations := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			violations = append(violations, e.String())
		}
		return nil, apperrors.Parse("completion does not match the intent shape", nil).
			WithDetail("raw", raw).
			WithDetail("cleaned", cleaned).
			WithDetail("violations", violations)
	}

	var r rawIntent
	if err := json.Unmarshal([]byte(cleaned), &r); err != nil {
		return nil, parseErr("failed to decode intent", err)
	}
	intent := r.toIntent()
	if intent.Message == "" && intent.Action != ActionShow {
		return nil, parseErr("completion has an empty message", nil)
	}
	return intent, nil
}

func (r rawIntent) toIntent() *ParsedIntent {
	intent := &ParsedIntent{
		Action:         Action(strings.ToLower(strings.TrimSpace(r.Action))),
		Message:        StripEmoji(deref(r.Message)),
		TargetMenu:     strings.TrimSpace(deref(r.TargetMenu)),
		ReduceQuantity: positiveOrOne(r.ReduceQuantity),
		PendingDrink:   strings.TrimSpace(deref(r.PendingDrink)),
		AutoConfirm:    r.AutoConfirm != nil && *r.AutoConfirm,
	}
	for _, item := range r.Items {
		menu := strings.TrimSpace(deref(item.Menu))
		if menu == "" {
			continue
		}
		intent.Items = append(intent.Items, IntentItem{
			Menu:     menu,
			Quantity: positiveOrOne(item.Quantity),
			Custom:   normalizeCustom(deref(item.Custom)),
		})
	}
	return intent
}

// normalizeCustom drops the literal "null" some models emit instead of a JSON null.
func normalizeCustom(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "null") {
		return ""
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func positiveOrOne(n *looseNumber) int {
	if n == nil {
		return 1
	}
	f := float64(*n)
	switch {
	case math.IsNaN(f) || f < 1:
		return 1
	case f >= maxQuantity:
		return maxQuantity
	}
	return int(f)
}
