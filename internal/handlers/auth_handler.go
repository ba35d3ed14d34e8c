package handlers

import (
	"net/http"
	"restaurant_manager/internal/middleware"
	"restaurant_manager/internal/models"
	"restaurant_manager/internal/services"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name     string          `json:"name" binding:"required"`
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=6"`
	Role     models.UserRole `json:"role"`
	Phone    string          `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type activeRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

func (h *APIHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, err := h.userService.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Phone:    req.Phone,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, user)
}

func (h *APIHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	result, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

func (h *APIHandler) Logout(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		h.respondError(c, services.ErrUnauthorized)
		return
	}
	if err := h.userService.Logout(c.Request.Context(), claims); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

func (h *APIHandler) Me(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), middleware.ActorFrom(c).UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user)
}

// Users

func (h *APIHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondList(c, users)
}

func (h *APIHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user)
}

func (h *APIHandler) SetUserActive(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req activeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, err := h.userService.SetActive(c.Request.Context(), id, *req.IsActive)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user)
}
