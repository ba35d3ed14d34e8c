package handlers

import (
	"net/http"
	"restaurant_manager/internal/models"
	"restaurant_manager/internal/repository"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

func (h *APIHandler) Dashboard(c *gin.Context) {
	stats, err := h.reports.Dashboard(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, stats)
}

func (h *APIHandler) SalesReport(c *gin.Context) {
	q := repository.SalesQuery{GroupBy: models.SalesGrouping(c.DefaultQuery("groupBy", string(models.GroupByDay)))}
	for param, dst := range map[string]**time.Time{"startDate": &q.Start, "endDate": &q.End} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		day, err := time.ParseInLocation(time.DateOnly, raw, time.Local)
		if err != nil {
			badRequest(c, err)
			return
		}
		*dst = &day
	}

	points, err := h.reports.Sales(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondList(c, points)
}

func (h *APIHandler) TopItems(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		badRequest(c, err)
		return
	}
	items, err := h.reports.TopItems(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondList(c, items)
}

func (h *APIHandler) OrderStatusStats(c *gin.Context) {
	counts, err := h.reports.OrderStatusStats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondList(c, counts)
}

func (h *APIHandler) RevenueByCategory(c *gin.Context) {
	rows, err := h.reports.RevenueByCategory(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondList(c, rows)
}
