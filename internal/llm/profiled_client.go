// In file: internal/llm/profiled_client.go
package llm

import (
	"context"
	"errors"
	"time"

	"github.com/dileep-u-k/cafe-gateway/internal/apperrors"
	"github.com/dileep-u-k/cafe-gateway/internal/metrics"
)

const profileWriteTimeout = 2 * time.Second

// ProfiledClient records latency metrics and the model profile around every call of the
// wrapped client. It does not change results or errors.
type ProfiledClient struct {
	next     LLMClient
	profiler *Profiler
	modelID  string
}

var _ LLMClient = (*ProfiledClient)(nil)

// NewProfiledClient wraps next. profiler may be nil, in which case only metrics are kept.
func NewProfiledClient(next LLMClient, profiler *Profiler, modelID string) *ProfiledClient {
	return &ProfiledClient{next: next, profiler: profiler, modelID: modelID}
}

func (c *ProfiledClient) Provider() string {
	return c.next.Provider()
}

func (c *ProfiledClient) Generate(ctx context.Context, messages []Message, config *GenerationConfig) (*GenerationResult, error) {
	start := time.Now()
	result, err := c.next.Generate(ctx, messages, config)
	elapsed := time.Since(start)

	metrics.LLMRequestDuration.WithLabelValues(c.next.Provider(), outcomeLabel(err)).Observe(elapsed.Seconds())

	// A missing credential says nothing about the model, so it is not profiled.
	if c.profiler == nil || errors.Is(err, apperrors.ErrConfiguration) {
		return result, err
	}

	// The profile write must outlive a cancelled request.
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), profileWriteTimeout)
	defer cancel()
	if err != nil {
		c.profiler.RecordFailure(pctx, c.modelID, err)
	} else {
		c.profiler.RecordSuccess(pctx, c.modelID, elapsed, result.Usage)
	}
	return result, err
}

func outcomeLabel(err error) string {
	if err == nil {
		return "success"
	}
	return string(apperrors.CodeOf(err))
}
