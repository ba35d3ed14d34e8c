package handlers

import (
	"net/http"
	"restaurant_manager/internal/middleware"
	"restaurant_manager/internal/models"
	"restaurant_manager/internal/repository"
	"restaurant_manager/internal/services"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type staffDetailsRequest struct {
	Department       *models.Department       `json:"department"`
	Salary           *decimal.Decimal         `json:"salary"`
	Shift            *models.Shift            `json:"shift"`
	JoinDate         *time.Time               `json:"join_date"`
	Address          *models.Address          `json:"address"`
	EmergencyContact *models.EmergencyContact `json:"emergency_contact"`
}

func (r staffDetailsRequest) details() services.StaffDetails {
	return services.StaffDetails{
		Department:       r.Department,
		Salary:           r.Salary,
		Shift:            r.Shift,
		JoinDate:         r.JoinDate,
		Address:          r.Address,
		EmergencyContact: r.EmergencyContact,
	}
}

type createStaffRequest struct {
	registerRequest
	staffDetailsRequest
	EmployeeID string `json:"employee_id" binding:"required"`
}

type updateStaffRequest struct {
	staffDetailsRequest
	Name     *string          `json:"name"`
	Email    *string          `json:"email" binding:"omitempty,email"`
	Phone    *string          `json:"phone"`
	Role     *models.UserRole `json:"role"`
	IsActive *bool            `json:"is_active"`
}

type performanceRequest struct {
	Rating   int    `json:"rating" binding:"required"`
	Comments string `json:"comments"`
}

func (h *APIHandler) ListStaff(c *gin.Context) {
	staff, err := h.staffService.ListStaff(c.Request.Context(), repository.StaffFilter{
		Department: models.Department(c.Query("department")),
		Role:       models.UserRole(c.Query("role")),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondList(c, staff)
}

func (h *APIHandler) GetStaff(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	staff, err := h.staffService.GetStaff(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, staff)
}

func (h *APIHandler) CreateStaff(c *gin.Context) {
	var req createStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	staff, err := h.staffService.CreateStaff(c.Request.Context(), services.CreateStaffInput{
		Account: services.RegisterInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Role:     req.Role,
			Phone:    req.Phone,
		},
		EmployeeID: req.EmployeeID,
		Details:    req.details(),
	}, middleware.ActorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, staff)
}

func (h *APIHandler) UpdateStaff(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req updateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	staff, err := h.staffService.UpdateStaff(c.Request.Context(), id, services.UpdateStaffInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     req.Role,
		IsActive: req.IsActive,
		Details:  req.details(),
	}, middleware.ActorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, staff)
}

func (h *APIHandler) DeleteStaff(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.staffService.DeleteStaff(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Staff deleted"})
}

func (h *APIHandler) AddPerformance(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req performanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	staff, err := h.staffService.AddPerformance(c.Request.Context(), id, req.Rating, req.Comments)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, staff)
}
