// In file: internal/chat/pipeline.go
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dileep-u-k/cafe-gateway/internal/apperrors"
	"github.com/dileep-u-k/cafe-gateway/internal/cart"
	"github.com/dileep-u-k/cafe-gateway/internal/catalog"
	"github.com/dileep-u-k/cafe-gateway/internal/llm"
	"github.com/dileep-u-k/cafe-gateway/internal/logger"
	"github.com/dileep-u-k/cafe-gateway/internal/metrics"
)

const (
	pathLLM      = "llm"
	pathFallback = "fallback"
)

// Config holds the tunables of the pipeline.
type Config struct {
	CafeName       string        `yaml:"cafe_name"`
	HistoryLimit   int           `yaml:"history_limit"`
	MatchThreshold float64       `yaml:"match_threshold"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	Model          string        `yaml:"-"`
	Temperature    float32       `yaml:"temperature"`
	MaxTokens      int           `yaml:"max_tokens"`
}

// DefaultConfig mirrors the production settings.
func DefaultConfig() Config {
	return Config{
		CafeName:       "Cafe Ichal",
		HistoryLimit:   DefaultHistoryLimit,
		MatchThreshold: DefaultMatchThreshold,
		RequestTimeout: llm.DefaultTimeout,
		Model:          llm.DefaultModel,
		Temperature:    llm.DefaultTemperature,
		MaxTokens:      llm.DefaultMaxTokens,
	}
}

// Request is one chat turn as supplied by the caller.
type Request struct {
	RequestID string
	Message   string
	Cart      cart.Cart
	History   []Turn
}

// Result is the reply to a chat turn. Fallback reports that the model path failed.
type Result struct {
	Response      string
	Action        Action
	DetectedItems []cart.Line
	CartAction    CartAction
	UpdatedCart   cart.Cart
	PendingDrink  string
	AutoConfirm   bool
	Fallback      bool
	// FallbackReason is the error code that sent the turn to the fallback responder.
	FallbackReason apperrors.ErrorCode
}

// Pipeline runs chat turns. It is safe for concurrent use; every request carries its own
// cart and history.
type Pipeline struct {
	menu     catalog.Reader
	client   llm.LLMClient
	executor *Executor
	cfg      Config
	logger   logger.Logger
}

func NewPipeline(menu catalog.Reader, client llm.LLMClient, cfg Config, log logger.Logger) *Pipeline {
	defaults := DefaultConfig()
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaults.HistoryLimit
	}
	if cfg.MatchThreshold <= 0 {
		cfg.MatchThreshold = defaults.MatchThreshold
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaults.RequestTimeout
	}
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaults.MaxTokens
	}
	if cfg.CafeName == "" {
		cfg.CafeName = defaults.CafeName
	}
	return &Pipeline{
		menu:     menu,
		client:   client,
		executor: NewExecutor(cfg.MatchThreshold),
		cfg:      cfg,
		logger:   log.With(map[string]interface{}{"component": "chat_pipeline"}),
	}
}

// Validate checks the caller's side of the contract.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return apperrors.Validation("message is required", nil).WithDetail("field", "message")
	}
	for i, turn := range r.History {
		if turn.Role != TurnUser && turn.Role != TurnAssistant {
			return apperrors.Validation(fmt.Sprintf("conversation_history[%d].role must be user or assistant", i), nil).
				WithDetail("field", "conversation_history")
		}
	}
	for i, line := range r.Cart {
		if line.Quantity < 1 {
			return apperrors.Validation(fmt.Sprintf("current_cart[%d].quantity must be at least 1", i), nil).
				WithDetail("field", "current_cart")
		}
	}
	return nil
}

// Chat runs one turn. The only error it returns is a validation error for a bad request;
// every failure past that point is logged and answered by the fallback responder.
func (p *Pipeline) Chat(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	log := p.logger.With(map[string]interface{}{"request_id": req.RequestID})

	hints := DetectContext(req.Message, req.History)

	result, err := p.converse(ctx, log, req, hints)
	if err != nil {
		code := apperrors.CodeOf(err)
		fields := map[string]interface{}{"error_code": string(code)}
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			for k, v := range appErr.Details {
				fields[k] = v
			}
		}
		log.WithError(err).Warn("chat turn answered by fallback", fields)
		metrics.ChatFallbacks.WithLabelValues(string(code)).Inc()
		result = p.fallback(ctx, log, req.Message, hints)
		result.FallbackReason = code
	}

	path := pathLLM
	if result.Fallback {
		path = pathFallback
	}
	metrics.ChatRequests.WithLabelValues(string(result.Action), path).Inc()
	log.Info("chat turn completed", map[string]interface{}{
		"action":         string(result.Action),
		"path":           path,
		"detected_items": len(result.DetectedItems),
		"auto_confirm":   result.AutoConfirm,
	})
	return result, nil
}

// converse is the model path: catalog, prompt, gateway, interpreter, executor.
func (p *Pipeline) converse(ctx context.Context, log logger.Logger, req Request, hints []Hint) (*Result, error) {
	menu, err := p.menu.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	messages := BuildMessages(PromptInput{
		CafeName:     p.cfg.CafeName,
		Menu:         menu,
		Cart:         req.Cart,
		Suggestions:  BuildSuggestions(hints, catalog.FilterReady(menu)),
		History:      req.History,
		Message:      req.Message,
		HistoryLimit: p.cfg.HistoryLimit,
	})

	callCtx, cancel := context.WithTimeout(ctx, p.cfg.RequestTimeout)
	defer cancel()
	completion, err := p.client.Generate(callCtx, messages, &llm.GenerationConfig{
		Model:       p.cfg.Model,
		Temperature: llm.Float32(p.cfg.Temperature),
		MaxTokens:   p.cfg.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	intent, err := Interpret(completion.Content)
	if err != nil {
		return nil, err
	}
	log.Debug("completion interpreted", map[string]interface{}{
		"raw":     completion.Content,
		"cleaned": CleanResponse(completion.Content),
		"action":  string(intent.Action),
	})

	outcome := p.executor.Execute(intent, req.Cart, menu)
	return &Result{
		Response:      outcome.Message,
		Action:        outcome.Action,
		DetectedItems: outcome.DetectedItems,
		CartAction:    outcome.CartAction,
		UpdatedCart:   outcome.UpdatedCart,
		PendingDrink:  outcome.PendingDrink,
		AutoConfirm:   outcome.AutoConfirm,
	}, nil
}

// fallback answers from keywords and the ready menu. A catalog failure here still yields a
// reply, just without menu names.
func (p *Pipeline) fallback(ctx context.Context, log logger.Logger, message string, hints []Hint) *Result {
	ready, err := p.menu.ListReady(ctx)
	if err != nil {
		log.Warn("fallback could not load the menu", map[string]interface{}{"error": err})
		ready = nil
	}
	return &Result{
		Response: Fallback(message, hints, ready),
		Action:   ActionChat,
		Fallback: true,
	}
}
