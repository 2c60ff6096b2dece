// In file: internal/llm/openai_client.go
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dileep-u-k/cafe-gateway/internal/apperrors"
)

// openAIRequest defines the top-level structure for a chat completion call.
type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature *float32        `json:"temperature,omitempty"`
}

type openAIMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

// openAIResponse is the structure of a successful non-streaming response.
type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
}

const (
	GroqBaseURL   = "https://api.groq.com/openai/v1"
	OpenAIBaseURL = "https://api.openai.com/v1"

	completionsPath = "/chat/completions"
	// maxErrorBody caps how much of a failed response is kept for logging.
	maxErrorBody = 2048
)

// OpenAIClient talks to any OpenAI-compatible chat completion endpoint. Groq is the default.
type OpenAIClient struct {
	provider   string
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// Statically verify that OpenAIClient implements the LLMClient interface.
var _ LLMClient = (*OpenAIClient)(nil)

// NewOpenAIClient builds a client for baseURL. An empty apiKey is accepted here and reported
// as a configuration error on every call, so a missing credential never stops the service.
func NewOpenAIClient(provider, apiKey, baseURL string, timeout time.Duration) *OpenAIClient {
	if baseURL == "" {
		baseURL = GroqBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &OpenAIClient{
		provider: provider,
		apiKey:   apiKey,
		endpoint: strings.TrimRight(baseURL, "/") + completionsPath,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *OpenAIClient) Provider() string {
	return c.provider
}

// Generate performs one blocking completion request. Failures are never retried.
func (c *OpenAIClient) Generate(ctx context.Context, messages []Message, config *GenerationConfig) (*GenerationResult, error) {
	if c.apiKey == "" {
		return nil, apperrors.Configuration(fmt.Sprintf("%s API key is not configured", c.provider), nil)
	}

	payload, err := c.buildRequestPayload(messages, config)
	if err != nil {
		return nil, apperrors.Gateway("failed to build completion payload", err)
	}

	respBody, err := c.doRequest(ctx, payload)
	if err != nil {
		return nil, err
	}
	return parseOpenAIResponse(respBody)
}

// buildRequestPayload constructs the JSON body for the completion call.
func (c *OpenAIClient) buildRequestPayload(messages []Message, config *GenerationConfig) ([]byte, error) {
	req := openAIRequest{
		Model:    DefaultModel,
		Messages: toOpenAIMessages(messages),
	}
	if config != nil {
		if config.Model != "" {
			req.Model = config.Model
		}
		if config.MaxTokens > 0 {
			req.MaxTokens = config.MaxTokens
		}
		req.Temperature = config.Temperature
	}
	return json.Marshal(req)
}

// doRequest performs the HTTP call and returns the body of a 2xx response.
func (c *OpenAIClient) doRequest(ctx context.Context, payload []byte) ([]byte, error) {
	req, err := c.createRequest(ctx, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.Gateway("failed to create http request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Gateway("completion request failed", err).
			WithDetail("timeout", isTimeout(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Gateway("failed to read completion response", err).
			WithDetail("timeout", isTimeout(err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.Gateway(fmt.Sprintf("%s API returned status %d", c.provider, resp.StatusCode), nil).
			WithDetail("status", resp.StatusCode).
			WithDetail("body", truncate(string(body), maxErrorBody))
	}
	return body, nil
}

// createRequest builds the common parts of an http.Request.
func (c *OpenAIClient) createRequest(ctx context.Context, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	return req, nil
}

func toOpenAIMessages(messages []Message) []openAIMessage {
	out := make([]openAIMessage, 0, len(messages))
	for _, msg := range messages {
		content := msg.Content
		out = append(out, openAIMessage{Role: string(msg.Role), Content: &content})
	}
	return out
}

// parseOpenAIResponse extracts choices[0].message.content. A body without it is a gateway error.
func parseOpenAIResponse(body []byte) (*GenerationResult, error) {
	var resp openAIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperrors.Gateway("failed to decode completion response", err).
			WithDetail("body", truncate(string(body), maxErrorBody))
	}
	if len(resp.Choices) == 0 {
		return nil, apperrors.Gateway("no choices in completion response", nil).
			WithDetail("body", truncate(string(body), maxErrorBody))
	}
	content := resp.Choices[0].Message.Content
	if content == nil {
		return nil, apperrors.Gateway("completion response has no message content", nil).
			WithDetail("body", truncate(string(body), maxErrorBody))
	}
	return &GenerationResult{Content: *content, Usage: resp.Usage}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
