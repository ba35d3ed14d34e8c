package handlers

import (
	"net/http"
	"restaurant_manager/internal/models"
	"restaurant_manager/internal/repository"
	"restaurant_manager/internal/services"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type menuItemRequest struct {
	Name            *string          `json:"name" binding:"omitempty,max=120"`
	Description     *string          `json:"description"`
	Price           *decimal.Decimal `json:"price"`
	Category        *string          `json:"category" binding:"omitempty,max=60"`
	Image           *string          `json:"image"`
	IsAvailable     *bool            `json:"is_available"`
	PreparationTime *int             `json:"preparation_time"`
}

func (r menuItemRequest) input() services.MenuItemInput {
	return services.MenuItemInput{
		Name:            r.Name,
		Description:     r.Description,
		Price:           r.Price,
		Category:        r.Category,
		Image:           r.Image,
		IsAvailable:     r.IsAvailable,
		PreparationTime: r.PreparationTime,
	}
}

type tableRequest struct {
	TableNumber *int                  `json:"table_number"`
	Capacity    *int                  `json:"capacity"`
	Location    *models.TableLocation `json:"location"`
	Status      *models.TableStatus   `json:"status"`
}

func (r tableRequest) input() services.TableInput {
	return services.TableInput{
		TableNumber: r.TableNumber,
		Capacity:    r.Capacity,
		Location:    r.Location,
		Status:      r.Status,
	}
}

type tableStatusRequest struct {
	Status models.TableStatus `json:"status" binding:"required"`
}

// Menu

func (h *APIHandler) ListMenuItems(c *gin.Context) {
	filter := repository.MenuFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	if available := c.Query("available"); available != "" {
		v, err := strconv.ParseBool(available)
		if err != nil {
			badRequest(c, err)
			return
		}
		filter.Available = &v
	}

	items, err := h.menuService.ListItems(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondList(c, items)
}

func (h *APIHandler) GetCategories(c *gin.Context) {
	categories, err := h.menuService.Categories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondList(c, categories)
}

func (h *APIHandler) GetMenuItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, err := h.menuService.GetItem(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, item)
}

func (h *APIHandler) CreateMenuItem(c *gin.Context) {
	var req menuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	item, err := h.menuService.CreateItem(c.Request.Context(), req.input())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, item)
}

func (h *APIHandler) UpdateMenuItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req menuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	item, err := h.menuService.UpdateItem(c.Request.Context(), id, req.input())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, item)
}

func (h *APIHandler) DeleteMenuItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.menuService.DeleteItem(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Menu item deleted"})
}

// Tables

func (h *APIHandler) ListTables(c *gin.Context) {
	tables, err := h.tableService.ListTables(c.Request.Context(), repository.TableFilter{
		Status:   models.TableStatus(c.Query("status")),
		Location: models.TableLocation(c.Query("location")),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondList(c, tables)
}

func (h *APIHandler) GetTable(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	table, err := h.tableService.GetTable(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, table)
}

func (h *APIHandler) CreateTable(c *gin.Context) {
	var req tableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	table, err := h.tableService.CreateTable(c.Request.Context(), req.input())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, table)
}

func (h *APIHandler) UpdateTable(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req tableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	table, err := h.tableService.UpdateTable(c.Request.Context(), id, req.input())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, table)
}

func (h *APIHandler) UpdateTableStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req tableStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	table, err := h.tableService.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, table)
}

func (h *APIHandler) DeleteTable(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.tableService.DeleteTable(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Table deleted"})
}
