package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dileep-u-k/cafe-gateway/internal/apperrors"
)

func TestGeminiClient_MissingKey(t *testing.T) {
	client, err := NewGeminiClient(context.Background(), "", "gemini-1.5-flash", 0)
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), []Message{{Role: RoleUser, Content: "halo"}}, nil)

	assert.True(t, errors.Is(err, apperrors.ErrConfiguration))
	assert.NoError(t, client.Close())
	assert.Equal(t, ProviderGemini, client.Provider())
}

func TestSplitForGemini(t *testing.T) {
	system, history, last, err := splitForGemini([]Message{
		{Role: RoleSystem, Content: "kamu asisten"},
		{Role: RoleUser, Content: "boleh teh 1"},
		{Role: RoleAssistant, Content: "Teh mau hot, warm, atau ice?"},
		{Role: RoleUser, Content: "hot aja"},
	})

	require.NoError(t, err)
	assert.Equal(t, "kamu asisten", system)
	assert.Equal(t, "hot aja", last)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "model", history[1].Role)
	assert.Equal(t, genai.Text("Teh mau hot, warm, atau ice?"), history[1].Parts[0])
}

func TestSplitForGemini_DropsLeadingModelTurns(t *testing.T) {
	_, history, last, err := splitForGemini([]Message{
		{Role: RoleSystem, Content: "kamu asisten"},
		{Role: RoleAssistant, Content: "Mau pesan apa?"},
		{Role: RoleAssistant, Content: "Ada Teh dan Kopi Hitam"},
		{Role: RoleUser, Content: "teh 1"},
		{Role: RoleAssistant, Content: "Teh mau hot atau ice?"},
		{Role: RoleUser, Content: "ice"},
	})

	require.NoError(t, err)
	assert.Equal(t, "ice", last)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, genai.Text("teh 1"), history[0].Parts[0])
	assert.Equal(t, "model", history[1].Role)

	_, history, last, err = splitForGemini([]Message{
		{Role: RoleAssistant, Content: "Halo!"},
		{Role: RoleUser, Content: "halo"},
	})
	require.NoError(t, err)
	assert.Equal(t, "halo", last)
	assert.Empty(t, history)
}

func TestSplitForGemini_RequiresTrailingUserTurn(t *testing.T) {
	_, _, _, err := splitForGemini([]Message{{Role: RoleSystem, Content: "only system"}})
	assert.True(t, errors.Is(err, apperrors.ErrGateway))
}

func TestParseGeminiResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"action":"none",`), genai.Text(`"message":"ok"}`)}},
		}},
		UsageMetadata: &genai.UsageMetadata{PromptTokenCount: 10, CandidatesTokenCount: 5, TotalTokenCount: 15},
	}

	result, err := parseGeminiResponse(resp)

	require.NoError(t, err)
	assert.Equal(t, `{"action":"none","message":"ok"}`, result.Content)
	assert.Equal(t, 15, result.Usage.TotalTokens)

	_, err = parseGeminiResponse(&genai.GenerateContentResponse{})
	assert.True(t, errors.Is(err, apperrors.ErrGateway))
}
