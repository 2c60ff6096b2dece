// In file: cmd/gateway/handler.go
package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dileep-u-k/cafe-gateway/internal/api"
	"github.com/dileep-u-k/cafe-gateway/internal/apperrors"
	"github.com/dileep-u-k/cafe-gateway/internal/catalog"
	"github.com/dileep-u-k/cafe-gateway/internal/chat"
	"github.com/dileep-u-k/cafe-gateway/internal/llm"
	"github.com/dileep-u-k/cafe-gateway/internal/logger"
	"github.com/dileep-u-k/cafe-gateway/internal/orders"

	"github.com/gin-gonic/gin"
)

type chatService interface {
	Chat(ctx context.Context, req chat.Request) (*chat.Result, error)
}

type orderService interface {
	Place(ctx context.Context, req orders.PlaceRequest) (*orders.Order, error)
	Active(ctx context.Context) ([]orders.Order, error)
	History(ctx context.Context, page int) (*orders.HistoryPage, error)
	UpdateStatus(ctx context.Context, id int64, status orders.Status) (*orders.Order, error)
}

type profileReader interface {
	GetProfile(ctx context.Context, provider, modelID string) (*llm.ModelProfile, error)
}

// Pinger reports whether a backing dependency is reachable.
type Pinger func(ctx context.Context) error

// GatewayHandler serves the chat, menu, order and operational routes.
type GatewayHandler struct {
	chat     chatService
	menus    catalog.Store
	orders   orderService
	profiles profileReader
	llm      LLMConfig
	checks   map[string]Pinger
	logger   logger.Logger
}

func NewGatewayHandler(chatSvc chatService, menus catalog.Store, orderSvc orderService, profiles profileReader, llmCfg LLMConfig, checks map[string]Pinger, log logger.Logger) *GatewayHandler {
	return &GatewayHandler{
		chat:     chatSvc,
		menus:    menus,
		orders:   orderSvc,
		profiles: profiles,
		llm:      llmCfg,
		checks:   checks,
		logger:   log.With(map[string]interface{}{"component": "http"}),
	}
}

// --- Chat ---

func (h *GatewayHandler) HandleChat(c *gin.Context) {
	var req api.ChatRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.chat.Chat(c.Request.Context(), req.ToChatRequest(requestID(c)))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.NewChatResponse(result))
}

// --- Menus ---

func (h *GatewayHandler) HandleListMenus(c *gin.Context) {
	var (
		items []catalog.MenuItem
		err   error
	)
	switch c.Query("status") {
	case "":
		items, err = h.menus.ListAll(c.Request.Context())
	case string(catalog.StatusReady):
		items, err = h.menus.ListReady(c.Request.Context())
	default:
		h.writeError(c, apperrors.Validation("status filter must be ready", nil).WithDetail("field", "status"))
		return
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	if items == nil {
		items = []catalog.MenuItem{}
	}
	c.JSON(http.StatusOK, items)
}

// HandleMenuCategories returns the whole menu grouped by category, for the admin dashboard.
func (h *GatewayHandler) HandleMenuCategories(c *gin.Context) {
	items, err := h.menus.ListAll(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	order, groups := catalog.GroupByCategory(items)
	c.JSON(http.StatusOK, gin.H{"categories": order, "menus": groups})
}

func (h *GatewayHandler) HandleCreateMenu(c *gin.Context) {
	var req api.MenuRequest
	if !h.bind(c, &req) {
		return
	}
	item := req.ToMenuItem()
	if err := h.menus.Create(c.Request.Context(), item); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, api.MenuResponse{Success: true, Message: "Menu berhasil ditambahkan!", Menu: item})
}

func (h *GatewayHandler) HandleUpdateMenu(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req api.MenuRequest
	if !h.bind(c, &req) {
		return
	}
	if req.Status != "" {
		h.writeError(c, apperrors.Validation("status is changed through PATCH /admin/menus/:id/status", nil).
			WithDetail("field", "status"))
		return
	}
	item := req.ToMenuItem()
	item.ID = id
	if err := h.menus.Update(c.Request.Context(), item); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MenuResponse{Success: true, Message: "Menu berhasil diupdate!", Menu: item})
}

func (h *GatewayHandler) HandleUpdateMenuStatus(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req api.MenuStatusRequest
	if !h.bind(c, &req) {
		return
	}
	item, err := h.menus.UpdateStatus(c.Request.Context(), id, catalog.Status(req.Status))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MenuResponse{Success: true, Message: "Status menu berhasil diupdate!", Menu: item})
}

func (h *GatewayHandler) HandleDeleteMenu(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.menus.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MenuResponse{Success: true, Message: "Menu berhasil dihapus!"})
}

// --- Orders ---

func (h *GatewayHandler) HandleCreateOrder(c *gin.Context) {
	var req api.OrderRequest
	if !h.bind(c, &req) {
		return
	}
	order, err := h.orders.Place(c.Request.Context(), req.ToPlaceRequest())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, api.OrderResponse{Success: true, Message: "Pesanan berhasil dibuat!", Order: order})
}

func (h *GatewayHandler) HandlePendingOrders(c *gin.Context) {
	list, err := h.orders.Active(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	if list == nil {
		list = []orders.Order{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *GatewayHandler) HandleOrderHistory(c *gin.Context) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.writeError(c, apperrors.Validation("page must be a positive integer", nil).WithDetail("field", "page"))
			return
		}
		page = n
	}
	history, err := h.orders.History(c.Request.Context(), page)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if history.Orders == nil {
		history.Orders = []orders.Order{}
	}
	c.JSON(http.StatusOK, history)
}

func (h *GatewayHandler) HandleUpdateOrderStatus(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req api.OrderStatusRequest
	if !h.bind(c, &req) {
		return
	}
	order, err := h.orders.UpdateStatus(c.Request.Context(), id, orders.Status(req.Status))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.OrderResponse{Success: true, Message: "Status pesanan berhasil diupdate!", Order: order})
}

// --- Operations ---

func (h *GatewayHandler) HandleHealth(c *gin.Context) {
	info := GetBuildInfo()
	resp := api.HealthResponse{
		Status:    "ok",
		Version:   info.Version,
		GitCommit: info.GitCommit,
		BuildDate: info.BuildDate,
		GoVersion: info.GoVersion,
		Checks:    make(map[string]string, len(h.checks)),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	for name, ping := range h.checks {
		if err := ping(ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			continue
		}
		resp.Checks[name] = "ok"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

func (h *GatewayHandler) HandleLLMStatus(c *gin.Context) {
	profile, err := h.profiles.GetProfile(c.Request.Context(), h.llm.Provider, h.llm.Model)
	if err != nil {
		h.writeError(c, apperrors.Storage("read model profile", err))
		return
	}
	c.JSON(http.StatusOK, api.LLMStatusResponse{Provider: h.llm.Provider, Model: h.llm.Model, Profile: profile})
}

// --- helpers ---

func (h *GatewayHandler) bind(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.writeError(c, apperrors.Validation("Invalid request: "+err.Error(), err))
		return false
	}
	return true
}

func (h *GatewayHandler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		h.writeError(c, apperrors.Validation("id must be a positive integer", nil).WithDetail("field", "id"))
		return 0, false
	}
	return id, true
}

func statusFor(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.CodeValidation:
		return http.StatusUnprocessableEntity
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *GatewayHandler) writeError(c *gin.Context, err error) {
	code := apperrors.CodeOf(err)
	status := statusFor(code)
	resp := api.ErrorResponse{Success: false, Code: string(code), Message: err.Error()}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		resp.Message = appErr.Message
		resp.Details = appErr.Details
	}
	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).Error("request failed", map[string]interface{}{
			"request_id": requestID(c),
			"path":       c.FullPath(),
			"code":       string(code),
		})
		// Storage internals stay in the log.
		resp.Message = "Terjadi kesalahan pada server"
		resp.Details = nil
	}
	c.AbortWithStatusJSON(status, resp)
}
