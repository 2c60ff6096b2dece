// In file: internal/llm/health.go
package llm

import (
	"context"
	"time"

	"github.com/dileep-u-k/cafe-gateway/internal/logger"
)

const (
	DefaultHealthInterval = 5 * time.Minute
	healthProbeTimeout    = 30 * time.Second
	healthProbePrompt     = "Balas dengan satu kata: siap?"
)

// HealthChecker periodically probes the configured model with a tiny prompt and records
// the outcome in the profile. It runs beside chat traffic and never blocks it.
type HealthChecker struct {
	client   LLMClient
	profiler *Profiler
	modelID  string
	interval time.Duration
	logger   logger.Logger
}

func NewHealthChecker(client LLMClient, profiler *Profiler, modelID string, interval time.Duration, log logger.Logger) *HealthChecker {
	if interval <= 0 {
		interval = DefaultHealthInterval
	}
	return &HealthChecker{
		client:   client,
		profiler: profiler,
		modelID:  modelID,
		interval: interval,
		logger:   log.With(map[string]interface{}{"component": "health_checker", "model": modelID}),
	}
}

// Run probes once immediately and then on every tick until ctx is done.
func (h *HealthChecker) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.logger.Info("health checker started", map[string]interface{}{"interval": h.interval.String()})
	h.CheckOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("health checker stopped", nil)
			return
		case <-ticker.C:
			h.CheckOnce(ctx)
		}
	}
}

// CheckOnce sends one probe and records whether it succeeded.
func (h *HealthChecker) CheckOnce(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()

	config := &GenerationConfig{Model: h.modelID, MaxTokens: 5}
	_, err := h.client.Generate(probeCtx, []Message{{Role: RoleUser, Content: healthProbePrompt}}, config)

	healthy := err == nil
	h.profiler.RecordHealthCheck(context.WithoutCancel(ctx), h.client.Provider(), h.modelID, healthy)
	if healthy {
		h.logger.Debug("health check passed", nil)
	} else {
		h.logger.Warn("health check failed", map[string]interface{}{"error": err})
	}
	return healthy
}
