package handlers

import (
	"net/http"
	"restaurant_manager/internal/middleware"
	"restaurant_manager/internal/models"
	"restaurant_manager/internal/repository"
	"restaurant_manager/internal/services"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type lineItemRequest struct {
	MenuItemID uint   `json:"menu_item_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
	Notes      string `json:"notes"`
}

// createOrderRequest names the table either by "table_id" or by "table",
// which may be an id, a numeric string or a table object.
type createOrderRequest struct {
	Table   models.TableRef   `json:"table"`
	TableID uint              `json:"table_id"`
	Items   []lineItemRequest `json:"items" binding:"required,min=1,dive"`
	Notes   string            `json:"notes"`
}

type updateOrderRequest struct {
	Items         []lineItemRequest     `json:"items" binding:"omitempty,dive"`
	Discount      *decimal.Decimal      `json:"discount"`
	Status        *models.OrderStatus   `json:"status"`
	Notes         *string               `json:"notes"`
	PaymentStatus *models.PaymentStatus `json:"payment_status"`
	PaymentMethod *models.PaymentMethod `json:"payment_method"`
}

type updateStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

type paymentRequest struct {
	PaymentMethod models.PaymentMethod `json:"payment_method" binding:"required"`
}

func toLineItems(items []lineItemRequest) []services.LineItemInput {
	if items == nil {
		return nil
	}
	out := make([]services.LineItemInput, len(items))
	for i, item := range items {
		out[i] = services.LineItemInput{MenuItemID: item.MenuItemID, Quantity: item.Quantity, Notes: item.Notes}
	}
	return out
}

func (h *APIHandler) ListOrders(c *gin.Context) {
	filter := repository.OrderFilter{Status: models.OrderStatus(c.Query("status"))}
	if table := c.Query("table"); table != "" {
		id, err := strconv.ParseUint(table, 10, 64)
		if err != nil {
			badRequest(c, err)
			return
		}
		filter.TableID = uint(id)
	}
	if date := c.Query("date"); date != "" {
		day, err := time.ParseInLocation(time.DateOnly, date, time.Local)
		if err != nil {
			badRequest(c, err)
			return
		}
		filter.Date = &day
	}

	orders, err := h.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondList(c, orders)
}

func (h *APIHandler) GetOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, order)
}

func (h *APIHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	tableID := req.Table.ID()
	if tableID == 0 {
		tableID = req.TableID
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), services.CreateOrderInput{
		TableID: tableID,
		Items:   toLineItems(req.Items),
		Notes:   req.Notes,
	}, middleware.ActorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, order)
}

func (h *APIHandler) UpdateOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), id, services.UpdateOrderInput{
		Items:         toLineItems(req.Items),
		Discount:      req.Discount,
		Status:        req.Status,
		Notes:         req.Notes,
		PaymentStatus: req.PaymentStatus,
		PaymentMethod: req.PaymentMethod,
	}, middleware.ActorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, order)
}

func (h *APIHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, req.Status, middleware.ActorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, order)
}

func (h *APIHandler) ProcessPayment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := h.orderService.ProcessPayment(c.Request.Context(), id, req.PaymentMethod)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, order)
}

func (h *APIHandler) DeleteOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.orderService.DeleteOrder(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order deleted"})
}
