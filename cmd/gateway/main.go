// In file: cmd/gateway/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dileep-u-k/cafe-gateway/internal/catalog"
	"github.com/dileep-u-k/cafe-gateway/internal/chat"
	"github.com/dileep-u-k/cafe-gateway/internal/database"
	"github.com/dileep-u-k/cafe-gateway/internal/llm"
	"github.com/dileep-u-k/cafe-gateway/internal/logger"
	"github.com/dileep-u-k/cafe-gateway/internal/orders"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// main is the composition root: it loads configuration, builds every service, injects
// dependencies and runs the HTTP server until a shutdown signal arrives.
func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: configuration error: %v", err)
	}

	zapLogger, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("FATAL: could not build logger: %v", err)
	}
	appLog := logger.NewZapAdapter(zapLogger)
	defer appLog.Sync() //nolint:errcheck

	banner := GetBuildInfo().LogFields()
	banner["provider"] = cfg.LLM.Provider
	banner["model"] = cfg.LLM.Model
	appLog.Info("starting cafe gateway", banner)

	if err := run(cfg, appLog); err != nil {
		appLog.Error("gateway stopped with error", map[string]interface{}{"error": err})
		os.Exit(1)
	}
}

func run(cfg *AppConfig, appLog logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. BACKING STORES
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("could not connect to Redis at %s: %w", cfg.RedisAddr, err)
	}

	// 2. SERVICES
	menus := catalog.NewCachedStore(catalog.NewPostgresStore(db), rdb, cfg.Catalog.CacheTTL, appLog)

	rawClient, closeClient, err := newLLMClient(ctx, cfg.LLM, cfg.Chat.RequestTimeout)
	if err != nil {
		return err
	}
	defer closeClient()

	profiler := llm.NewProfiler(rdb, appLog)
	client := llm.NewProfiledClient(rawClient, profiler, cfg.LLM.Model)

	pipeline := chat.NewPipeline(menus, client, cfg.Chat, appLog)
	orderService := orders.NewService(orders.NewPostgresStore(db), menus, appLog)

	handler := NewGatewayHandler(pipeline, menus, orderService, profiler, cfg.LLM, map[string]Pinger{
		"postgres": db.PingContext,
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}, appLog)
	appLog.Info("all services initialized", nil)

	// 3. BACKGROUND PROCESSES
	if cfg.LLM.APIKey != "" {
		checker := llm.NewHealthChecker(rawClient, profiler, cfg.LLM.Model, cfg.HealthCheck.Interval, appLog)
		go checker.Run(ctx)
	}

	// 4. HTTP SERVER
	gin.SetMode(os.Getenv("GIN_MODE"))
	engine := newRouter(handler, appLog, cfg.AdminAPIToken, promhttp.Handler())
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return runServerWithGracefulShutdown(ctx, srv, appLog)
}

// newLLMClient builds the provider client. The returned func releases provider resources.
func newLLMClient(ctx context.Context, cfg LLMConfig, timeout time.Duration) (llm.LLMClient, func(), error) {
	switch cfg.Provider {
	case ProviderGroq, ProviderOpenAI:
		return llm.NewOpenAIClient(cfg.Provider, cfg.APIKey, cfg.BaseURL, timeout), func() {}, nil
	case ProviderGemini:
		client, err := llm.NewGeminiClient(ctx, cfg.APIKey, cfg.Model, timeout)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		return client, func() { client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// runServerWithGracefulShutdown serves until ctx is cancelled, then drains in-flight requests.
func runServerWithGracefulShutdown(ctx context.Context, srv *http.Server, appLog logger.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		appLog.Info("gateway is listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	appLog.Info("shutting down server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	appLog.Info("server exited gracefully", nil)
	return nil
}
