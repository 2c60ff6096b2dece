// In file: internal/llm/client.go

// Package llm is the gateway to the external completion service. It defines a provider-neutral
// client interface, an OpenAI-compatible HTTP client (Groq by default), a Gemini client and a
// Redis-backed profile of how each model has been behaving.
package llm

import (
	"context"
	"time"
)

// Role represents the originator of a message in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

const (
	// DefaultTimeout bounds a single completion call. There are no retries.
	DefaultTimeout     = 15 * time.Second
	DefaultModel       = "llama-3.3-70b-versatile"
	DefaultTemperature = float32(0.7)
	DefaultMaxTokens   = 500
)

// Message represents a single message in a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// GenerationConfig controls one completion call.
type GenerationConfig struct {
	// Model identifier understood by the provider, e.g. "llama-3.3-70b-versatile".
	Model string
	// Pointer so that an explicit 0.0 can be told apart from unset.
	Temperature *float32
	MaxTokens   int
}

// Usage is the token accounting reported by the provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// GenerationResult holds the complete output of a completion call.
type GenerationResult struct {
	Content string
	Usage   Usage
}

// LLMClient is implemented by every provider client.
//
// Generate must return an *apperrors.Error: CONFIGURATION_ERROR when the credential is
// missing and GATEWAY_ERROR for timeouts, non-success statuses and malformed bodies.
type LLMClient interface {
	Generate(ctx context.Context, messages []Message, config *GenerationConfig) (*GenerationResult, error)
	// Provider names the backend for logs and metrics, e.g. "groq".
	Provider() string
}

// Float32 returns a pointer to v, for GenerationConfig.Temperature.
func Float32(v float32) *float32 {
	return &v
}
