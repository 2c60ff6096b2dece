// In file: internal/api/types.go

// Package api holds the JSON request and response bodies of the HTTP surface.
package api

import (
	"github.com/dileep-u-k/cafe-gateway/internal/cart"
	"github.com/dileep-u-k/cafe-gateway/internal/catalog"
	"github.com/dileep-u-k/cafe-gateway/internal/chat"
	"github.com/dileep-u-k/cafe-gateway/internal/llm"
	"github.com/dileep-u-k/cafe-gateway/internal/orders"
)

// --- Chat ---

type CartLine struct {
	MenuID        int64  `json:"menu_id" binding:"required"`
	Name          string `json:"name"`
	Price         int64  `json:"price" binding:"min=0"`
	Quantity      int    `json:"quantity" binding:"required,min=1"`
	CustomRequest string `json:"custom_request"`
}

type Message struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Message             string     `json:"message" binding:"required"`
	CurrentCart         []CartLine `json:"current_cart" binding:"omitempty,dive"`
	ConversationHistory []Message  `json:"conversation_history" binding:"omitempty,dive"`
}

// ChatResponse mirrors the contract of the ordering client: cart_action, updated_cart and
// pending_drink are null when they do not apply.
type ChatResponse struct {
	Success       bool        `json:"success"`
	Response      string      `json:"response"`
	DetectedItems []cart.Line `json:"detected_items"`
	CartAction    *string     `json:"cart_action"`
	UpdatedCart   cart.Cart   `json:"updated_cart"`
	AutoConfirm   bool        `json:"auto_confirm"`
	PendingDrink  *string     `json:"pending_drink"`
}

func (r ChatRequest) ToChatRequest(requestID string) chat.Request {
	req := chat.Request{RequestID: requestID, Message: r.Message}
	for _, line := range r.CurrentCart {
		req.Cart = append(req.Cart, cart.Line{
			MenuID:        line.MenuID,
			Name:          line.Name,
			Price:         line.Price,
			Quantity:      line.Quantity,
			CustomRequest: line.CustomRequest,
		})
	}
	for _, m := range r.ConversationHistory {
		req.History = append(req.History, chat.Turn{Role: m.Role, Content: m.Content})
	}
	return req
}

func NewChatResponse(res *chat.Result) ChatResponse {
	out := ChatResponse{
		Success:       true,
		Response:      res.Response,
		DetectedItems: res.DetectedItems,
		UpdatedCart:   res.UpdatedCart,
		AutoConfirm:   res.AutoConfirm,
	}
	if out.DetectedItems == nil {
		out.DetectedItems = []cart.Line{}
	}
	if res.CartAction != chat.CartActionNone {
		action := string(res.CartAction)
		out.CartAction = &action
	}
	if res.PendingDrink != "" {
		drink := res.PendingDrink
		out.PendingDrink = &drink
	}
	return out
}

// --- Menus ---

type MenuRequest struct {
	Name        string   `json:"name" binding:"required,max=255"`
	Category    string   `json:"category" binding:"required,max=255"`
	Description string   `json:"description"`
	Price       *int64   `json:"price" binding:"required,min=0"`
	Image       string   `json:"image" binding:"omitempty,max=255"`
	Status      string   `json:"status" binding:"omitempty,oneof=ready sold"`
	Variants    []string `json:"variants" binding:"omitempty,dive,required"`
}

func (r MenuRequest) ToMenuItem() *catalog.MenuItem {
	item := &catalog.MenuItem{
		Name:        r.Name,
		Category:    r.Category,
		Description: r.Description,
		Image:       r.Image,
		Status:      catalog.Status(r.Status),
		Variants:    r.Variants,
	}
	if r.Price != nil {
		item.Price = *r.Price
	}
	return item
}

type MenuStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ready sold"`
}

type MenuResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Menu    *catalog.MenuItem `json:"menu,omitempty"`
}

// --- Orders ---

type OrderItemRequest struct {
	MenuID        int64  `json:"menu_id" binding:"required"`
	Name          string `json:"name"`
	Quantity      int    `json:"quantity" binding:"required,min=1"`
	Price         *int64 `json:"price" binding:"required,min=0"`
	CustomRequest string `json:"custom_request"`
}

type OrderRequest struct {
	CustomerName string             `json:"customer_name" binding:"required,max=255"`
	TableNumber  string             `json:"table_number" binding:"required,max=50"`
	Items        []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

func (r OrderRequest) ToPlaceRequest() orders.PlaceRequest {
	req := orders.PlaceRequest{CustomerName: r.CustomerName, TableNumber: r.TableNumber}
	for _, item := range r.Items {
		line := cart.Line{
			MenuID:        item.MenuID,
			Name:          item.Name,
			Quantity:      item.Quantity,
			CustomRequest: item.CustomRequest,
		}
		if item.Price != nil {
			line.Price = *item.Price
		}
		req.Lines = append(req.Lines, line)
	}
	return req
}

type OrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending processing completed cancelled"`
}

type OrderResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Order   *orders.Order `json:"order,omitempty"`
}

// --- Errors and operations ---

type ErrorResponse struct {
	Success bool                   `json:"success"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	GitCommit string            `json:"git_commit"`
	BuildDate string            `json:"build_date"`
	GoVersion string            `json:"go_version"`
	Checks    map[string]string `json:"checks"`
}

type LLMStatusResponse struct {
	Provider string            `json:"provider"`
	Model    string            `json:"model"`
	Profile  *llm.ModelProfile `json:"profile"`
}
