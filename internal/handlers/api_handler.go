package handlers

import (
	"context"
	"net/http"
	"restaurant_manager/internal/middleware"
	"restaurant_manager/internal/models"
	"restaurant_manager/internal/services"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

type APIHandler struct {
	userService  services.UserService
	staffService services.StaffService
	menuService  services.MenuService
	tableService services.TableService
	orderService services.OrderService
	reports      services.ReportService
	health       map[string]HealthCheck
	logger       *zap.Logger
}

func NewAPIHandler(
	userService services.UserService,
	staffService services.StaffService,
	menuService services.MenuService,
	tableService services.TableService,
	orderService services.OrderService,
	reports services.ReportService,
	health map[string]HealthCheck,
	logger *zap.Logger,
) *APIHandler {
	return &APIHandler{
		userService:  userService,
		staffService: staffService,
		menuService:  menuService,
		tableService: tableService,
		orderService: orderService,
		reports:      reports,
		health:       health,
		logger:       logger,
	}
}

// RegisterRoutes mounts /health and the /api tree on r.
func (h *APIHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	auth := middleware.Auth(h.userService)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleManager)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	billing := middleware.RequireRoles(models.RoleAdmin, models.RoleManager, models.RoleCashier)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/login", h.Login)
	authGroup.POST("/register", auth, adminOnly, h.Register)
	authGroup.POST("/logout", auth, h.Logout)
	authGroup.GET("/me", auth, h.Me)

	menu := api.Group("/menu")
	menu.GET("", h.ListMenuItems)
	menu.GET("/categories", h.GetCategories)
	menu.GET("/:id", h.GetMenuItem)
	menu.POST("", auth, staff, h.CreateMenuItem)
	menu.PUT("/:id", auth, staff, h.UpdateMenuItem)
	menu.DELETE("/:id", auth, staff, h.DeleteMenuItem)

	tables := api.Group("/tables")
	tables.GET("", h.ListTables)
	tables.GET("/:id", h.GetTable)
	tables.POST("", auth, staff, h.CreateTable)
	tables.PUT("/:id", auth, staff, h.UpdateTable)
	tables.PATCH("/:id/status", auth, h.UpdateTableStatus)
	tables.DELETE("/:id", auth, staff, h.DeleteTable)

	orders := api.Group("/orders", auth)
	orders.GET("", h.ListOrders)
	orders.GET("/:id", h.GetOrder)
	orders.POST("", h.CreateOrder)
	orders.PUT("/:id", h.UpdateOrder)
	orders.PATCH("/:id/status", h.UpdateOrderStatus)
	orders.PATCH("/:id/payment", billing, h.ProcessPayment)
	orders.DELETE("/:id", staff, h.DeleteOrder)

	users := api.Group("/users", auth)
	users.GET("", staff, h.ListUsers)
	users.GET("/:id", staff, h.GetUser)
	users.PATCH("/:id/active", adminOnly, h.SetUserActive)

	staffGroup := api.Group("/staff", auth)
	staffGroup.GET("", h.ListStaff)
	staffGroup.GET("/:id", h.GetStaff)
	staffGroup.POST("", staff, h.CreateStaff)
	staffGroup.PUT("/:id", staff, h.UpdateStaff)
	staffGroup.DELETE("/:id", adminOnly, h.DeleteStaff)
	staffGroup.POST("/:id/performance", staff, h.AddPerformance)

	reports := api.Group("/reports", auth)
	reports.GET("/dashboard", h.Dashboard)
	reports.GET("/sales", staff, h.SalesReport)
	reports.GET("/top-items", staff, h.TopItems)
	reports.GET("/order-status", staff, h.OrderStatusStats)
	reports.GET("/revenue-by-category", staff, h.RevenueByCategory)
}

// Health pings every registered dependency.
func (h *APIHandler) Health(c *gin.Context) {
	status := http.StatusOK
	checks := gin.H{}
	for name, check := range h.health {
		if err := check(c.Request.Context()); err != nil {
			h.logger.Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			checks[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "up"
	}
	c.JSON(status, gin.H{"success": status == http.StatusOK, "checks": checks})
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondList[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(items), "data": items})
}

// respondError maps service errors to HTTP statuses. Unclassified errors are
// logged and answered with a generic 500.
func (h *APIHandler) respondError(c *gin.Context, err error) {
	var (
		notFound   *services.NotFoundError
		validation *services.ValidationError
	)
	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"message": notFound.Error(), "error": "not_found"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Resource not found", "error": "not_found"})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "error": validation.Error()})
	case errors.Is(err, services.ErrInvalidTransition), errors.Is(err, services.ErrAlreadyPaid), errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"message": "Request conflicts with current state", "error": err.Error()})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized", "error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden", "error": err.Error()})
	default:
		h.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", middleware.RequestIDFrom(c)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "error": "internal server error"})
	}
	_ = c.Error(err)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request format", "error": err.Error()})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id", "error": "id must be a positive integer"})
		return 0, false
	}
	return uint(id), true
}
