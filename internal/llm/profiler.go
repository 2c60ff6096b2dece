// In file: internal/llm/profiler.go
package llm

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dileep-u-k/cafe-gateway/internal/logger"

	"github.com/redis/go-redis/v9"
)

const (
	StatusOnline   = "online"
	StatusDegraded = "degraded"
	StatusOffline  = "offline"

	// latencyAlpha weights the newest sample in the latency moving average.
	latencyAlpha = 0.1
)

// ModelProfile tracks how a model has been behaving across chat traffic and health checks.
type ModelProfile struct {
	ModelID           string    `json:"model_id"`
	Provider          string    `json:"provider"`
	AvgLatencyMS      int64     `json:"avg_latency_ms"`
	Status            string    `json:"status"`
	ErrorRate         float64   `json:"error_rate"`
	TotalSuccesses    int64     `json:"total_successes"`
	TotalFailures     int64     `json:"total_failures"`
	TotalInputTokens  int64     `json:"total_input_tokens"`
	TotalOutputTokens int64     `json:"total_output_tokens"`
	LastError         string    `json:"last_error,omitempty"`
	LastHealthCheck   time.Time `json:"last_health_check"`
}

// Profiler keeps one Redis hash per model.
type Profiler struct {
	rdb    *redis.Client
	logger logger.Logger
}

func NewProfiler(rdb *redis.Client, log logger.Logger) *Profiler {
	return &Profiler{rdb: rdb, logger: log.With(map[string]interface{}{"component": "llm_profiler"})}
}

func (p *Profiler) getProfileKey(modelID string) string {
	return fmt.Sprintf("llmprofile:%s", modelID)
}

// GetProfile retrieves a model's profile, creating a default one if it doesn't exist.
func (p *Profiler) GetProfile(ctx context.Context, provider, modelID string) (*ModelProfile, error) {
	key := p.getProfileKey(modelID)
	data, err := p.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return p.createDefaultProfile(ctx, provider, modelID)
	}

	profile := &ModelProfile{
		ModelID:   modelID,
		Provider:  data["provider"],
		Status:    data["status"],
		LastError: data["last_error"],
	}
	profile.AvgLatencyMS, _ = strconv.ParseInt(data["avg_latency_ms"], 10, 64)
	profile.ErrorRate, _ = strconv.ParseFloat(data["error_rate"], 64)
	profile.TotalSuccesses, _ = strconv.ParseInt(data["total_successes"], 10, 64)
	profile.TotalFailures, _ = strconv.ParseInt(data["total_failures"], 10, 64)
	profile.TotalInputTokens, _ = strconv.ParseInt(data["total_input_tokens"], 10, 64)
	profile.TotalOutputTokens, _ = strconv.ParseInt(data["total_output_tokens"], 10, 64)
	profile.LastHealthCheck, _ = time.Parse(time.RFC3339Nano, data["last_health_check"])
	return profile, nil
}

func (p *Profiler) createDefaultProfile(ctx context.Context, provider, modelID string) (*ModelProfile, error) {
	profile := &ModelProfile{
		ModelID:  modelID,
		Provider: provider,
		Status:   StatusOnline,
	}

	key := p.getProfileKey(modelID)
	pipe := p.rdb.Pipeline()
	pipe.HSet(ctx, key,
		"model_id", profile.ModelID,
		"provider", profile.Provider,
		"avg_latency_ms", 0,
		"status", profile.Status,
		"total_successes", 0,
		"total_failures", 0,
		"error_rate", 0.0,
	)
	_, err := pipe.Exec(ctx)
	if err != nil {
		return nil, err
	}

	p.logger.Info("created model profile", map[string]interface{}{"model": modelID, "provider": provider})
	return profile, nil
}

// RecordSuccess folds a successful call into the profile.
func (p *Profiler) RecordSuccess(ctx context.Context, modelID string, latency time.Duration, usage Usage) {
	key := p.getProfileKey(modelID)

	err := p.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, key, "avg_latency_ms").Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		next := latency.Milliseconds()
		if current > 0 {
			next = int64(latencyAlpha*float64(latency.Milliseconds()) + (1.0-latencyAlpha)*float64(current))
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, "avg_latency_ms", next)
			return nil
		})
		return err
	}, key)
	if err != nil {
		p.logger.Warn("failed to update model latency", map[string]interface{}{"model": modelID, "error": err})
	}

	pipe := p.rdb.Pipeline()
	successes := pipe.HIncrBy(ctx, key, "total_successes", 1)
	failures := pipe.HGet(ctx, key, "total_failures")
	pipe.HIncrBy(ctx, key, "total_input_tokens", int64(usage.PromptTokens))
	pipe.HIncrBy(ctx, key, "total_output_tokens", int64(usage.CompletionTokens))
	pipe.HSet(ctx, key, "status", StatusOnline)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		p.logger.Warn("failed to record model success", map[string]interface{}{"model": modelID, "error": err})
		return
	}

	totalFailures, _ := strconv.ParseInt(failures.Val(), 10, 64)
	p.updateErrorRate(ctx, key, successes.Val(), totalFailures)
}

// RecordFailure counts a failed call and marks the model degraded.
func (p *Profiler) RecordFailure(ctx context.Context, modelID string, cause error) {
	key := p.getProfileKey(modelID)
	pipe := p.rdb.Pipeline()
	failures := pipe.HIncrBy(ctx, key, "total_failures", 1)
	successes := pipe.HGet(ctx, key, "total_successes")
	pipe.HSet(ctx, key, "status", StatusDegraded)
	if cause != nil {
		pipe.HSet(ctx, key, "last_error", truncate(cause.Error(), 512))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		p.logger.Warn("failed to record model failure", map[string]interface{}{"model": modelID, "error": err})
		return
	}

	totalSuccesses, _ := strconv.ParseInt(successes.Val(), 10, 64)
	p.updateErrorRate(ctx, key, totalSuccesses, failures.Val())
}

func (p *Profiler) updateErrorRate(ctx context.Context, key string, successes, failures int64) {
	total := successes + failures
	if total == 0 {
		return
	}
	if err := p.rdb.HSet(ctx, key, "error_rate", float64(failures)/float64(total)).Err(); err != nil {
		p.logger.Warn("failed to update error rate", map[string]interface{}{"key": key, "error": err})
	}
}

// RecordHealthCheck stores the outcome of a proactive probe. The full profile is created
// first so the probe never leaves a partial hash behind.
func (p *Profiler) RecordHealthCheck(ctx context.Context, provider, modelID string, healthy bool) {
	if _, err := p.GetProfile(ctx, provider, modelID); err != nil {
		p.logger.Warn("failed to ensure model profile", map[string]interface{}{"model": modelID, "error": err})
	}

	status := StatusOffline
	if healthy {
		status = StatusOnline
	}
	key := p.getProfileKey(modelID)
	err := p.rdb.HSet(ctx, key,
		"status", status,
		"last_health_check", time.Now().UTC().Format(time.RFC3339Nano),
	).Err()
	if err != nil {
		p.logger.Warn("failed to record health check", map[string]interface{}{"model": modelID, "error": err})
	}
}
