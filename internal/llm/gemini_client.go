// In file: internal/llm/gemini_client.go
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dileep-u-k/cafe-gateway/internal/apperrors"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const ProviderGemini = "gemini"

// GeminiClient is the client for Google's Gemini models.
type GeminiClient struct {
	client  *genai.Client
	modelID string
	timeout time.Duration
}

var _ LLMClient = (*GeminiClient)(nil)

// NewGeminiClient connects to the Gemini API. With an empty apiKey no connection is made and
// every Generate call reports a configuration error.
func NewGeminiClient(ctx context.Context, apiKey, modelID string, timeout time.Duration) (*GeminiClient, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &GeminiClient{modelID: modelID, timeout: timeout}
	if apiKey == "" {
		return c, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	c.client = client
	return c, nil
}

func (c *GeminiClient) Provider() string {
	return ProviderGemini
}

// Close releases the underlying connection.
func (c *GeminiClient) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Generate performs a standard, blocking request to the Gemini API.
func (c *GeminiClient) Generate(ctx context.Context, messages []Message, config *GenerationConfig) (*GenerationResult, error) {
	if c.client == nil {
		return nil, apperrors.Configuration("gemini API key is not configured", nil)
	}
	system, history, last, err := splitForGemini(messages)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// A fresh model handle per call keeps concurrent requests from sharing settings.
	modelID := c.modelID
	if config != nil && config.Model != "" {
		modelID = config.Model
	}
	model := c.client.GenerativeModel(modelID)
	configureModel(model, config)
	if system != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(system))
	}

	chat := model.StartChat()
	chat.History = history
	resp, err := chat.SendMessage(ctx, genai.Text(last))
	if err != nil {
		return nil, apperrors.Gateway("gemini API call failed", err).WithDetail("timeout", isTimeout(err))
	}
	return parseGeminiResponse(resp)
}

func configureModel(model *genai.GenerativeModel, config *GenerationConfig) {
	maxTokens := DefaultMaxTokens
	if config != nil {
		if config.Temperature != nil {
			model.SetTemperature(*config.Temperature)
		}
		if config.MaxTokens > 0 {
			maxTokens = config.MaxTokens
		}
	}
	model.SetMaxOutputTokens(int32(maxTokens))
}

// splitForGemini separates system messages into one instruction, converts the middle turns
// to chat history and returns the final user text to send. Assistant turns before the first
// user turn are dropped.
func splitForGemini(messages []Message) (string, []*genai.Content, string, error) {
	var system []string
	var turns []Message
	for _, msg := range messages {
		if msg.Role == RoleSystem {
			system = append(system, msg.Content)
			continue
		}
		turns = append(turns, msg)
	}
	if len(turns) == 0 || turns[len(turns)-1].Role != RoleUser {
		return "", nil, "", apperrors.Gateway("gemini conversation must end with a user message", nil)
	}

	// Gemini history must open with a user turn.
	prior := turns[:len(turns)-1]
	for len(prior) > 0 && prior[0].Role == RoleAssistant {
		prior = prior[1:]
	}

	history := make([]*genai.Content, 0, len(prior))
	for _, msg := range prior {
		role := "user"
		if msg.Role == RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}
	return strings.Join(system, "\n\n"), history, turns[len(turns)-1].Content, nil
}

// parseGeminiResponse converts a Gemini response into a GenerationResult.
func parseGeminiResponse(resp *genai.GenerateContentResponse) (*GenerationResult, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, apperrors.Gateway("no content returned from Gemini", nil)
	}

	var contentBuilder strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			contentBuilder.WriteString(string(txt))
		}
	}
	if contentBuilder.Len() == 0 {
		return nil, apperrors.Gateway("gemini response has no text parts", nil)
	}

	result := &GenerationResult{Content: strings.TrimSpace(contentBuilder.String())}
	if resp.UsageMetadata != nil {
		result.Usage.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		result.Usage.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		result.Usage.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}
	return result, nil
}
