package chat

import (
	"context"
	"sync"

	"github.com/dileep-u-k/cafe-gateway/internal/apperrors"
	"github.com/dileep-u-k/cafe-gateway/internal/catalog"
	"github.com/dileep-u-k/cafe-gateway/internal/llm"
)

var variants = []string{"Hot", "Warm", "Ice"}

// testMenu is a small catalog shared by the chat tests.
func testMenu() []catalog.MenuItem {
	return []catalog.MenuItem{
		{ID: 1, Name: "Ayam Bakar", Category: "Makanan Berat", Price: 20000, Status: catalog.StatusReady},
		{ID: 2, Name: "Nasi Putih", Category: "Makanan Berat", Price: 6000, Status: catalog.StatusReady},
		{ID: 3, Name: "Teh", Category: "Minuman", Price: 5000, Status: catalog.StatusReady, Variants: variants},
		{ID: 4, Name: "Kopi Hitam", Category: "Minuman", Price: 10000, Status: catalog.StatusReady, Variants: variants},
		{ID: 5, Name: "latte", Category: "Minuman", Price: 15000, Status: catalog.StatusSold, Variants: variants},
		{ID: 6, Name: "Pisang Goreng", Category: "Snack", Price: 8000, Status: catalog.StatusReady},
	}
}

type staticMenu struct {
	items []catalog.MenuItem
	err   error
}

func (s staticMenu) ListAll(ctx context.Context) ([]catalog.MenuItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

func (s staticMenu) ListReady(ctx context.Context) ([]catalog.MenuItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	return catalog.FilterReady(s.items), nil
}

// scriptedClient answers every call with reply or err and records the prompts it saw.
type scriptedClient struct {
	mu       sync.Mutex
	reply    string
	err      error
	block    bool
	received [][]llm.Message
}

func (c *scriptedClient) Generate(ctx context.Context, messages []llm.Message, config *llm.GenerationConfig) (*llm.GenerationResult, error) {
	c.mu.Lock()
	c.received = append(c.received, messages)
	c.mu.Unlock()

	if c.block {
		<-ctx.Done()
		return nil, apperrors.Gateway("request failed", ctx.Err()).WithDetail("timeout", true)
	}
	if c.err != nil {
		return nil, c.err
	}
	return &llm.GenerationResult{Content: c.reply}, nil
}

func (c *scriptedClient) Provider() string { return "scripted" }

func (c *scriptedClient) lastPrompt() []llm.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.received) == 0 {
		return nil
	}
	return c.received[len(c.received)-1]
}
