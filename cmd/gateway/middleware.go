// In file: cmd/gateway/middleware.go
package main

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/dileep-u-k/cafe-gateway/internal/api"
	"github.com/dileep-u-k/cafe-gateway/internal/apperrors"
	"github.com/dileep-u-k/cafe-gateway/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// requestIDMiddleware reuses the caller's X-Request-ID or assigns a fresh UUID.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

func accessLogMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"request_id": requestID(c),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("http request", fields)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("http request", fields)
		default:
			log.Info("http request", fields)
		}
	}
}

// adminAuthMiddleware guards staff routes with a static bearer token. An empty token leaves
// them open, which is how local development runs.
func adminAuthMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}
		got := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "admin token required",
			})
			return
		}
		c.Next()
	}
}

// newRouter registers every route on a fresh engine.
func newRouter(h *GatewayHandler, log logger.Logger, adminToken string, metricsHandler http.Handler) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestIDMiddleware(), accessLogMiddleware(log))

	engine.GET("/healthz", h.HandleHealth)
	engine.GET("/metrics", gin.WrapH(metricsHandler))

	staff := adminAuthMiddleware(adminToken)

	v1 := engine.Group("/api")
	{
		v1.POST("/chat", h.HandleChat)
		v1.GET("/menus", h.HandleListMenus)
		v1.POST("/orders", h.HandleCreateOrder)
		v1.GET("/orders/pending", staff, h.HandlePendingOrders)
		v1.GET("/orders/history", staff, h.HandleOrderHistory)
		v1.PATCH("/orders/:id/status", staff, h.HandleUpdateOrderStatus)
	}

	admin := engine.Group("/admin", staff)
	{
		admin.GET("/menus", h.HandleMenuCategories)
		admin.POST("/menus", h.HandleCreateMenu)
		admin.PUT("/menus/:id", h.HandleUpdateMenu)
		admin.PATCH("/menus/:id/status", h.HandleUpdateMenuStatus)
		admin.DELETE("/menus/:id", h.HandleDeleteMenu)
		admin.GET("/llm/status", h.HandleLLMStatus)
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Code: string(apperrors.CodeNotFound), Message: "route not found"})
	})
	return engine
}
