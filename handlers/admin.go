package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"workhive/policy"
	"workhive/services/marketplace"
	userService "workhive/services/user"
	"workhive/utils"
)

// AdminHandler serves the admin panel endpoints. The session gate already
// restricts /admin to the admin role; the handlers re-check the fine-grained
// permissions anyway.
type AdminHandler struct {
	Users userService.Service
	Svc   marketplace.Service
}

// NewAdminHandler creates a new AdminHandler instance.
func NewAdminHandler(users userService.Service, svc marketplace.Service) *AdminHandler {
	return &AdminHandler{Users: users, Svc: svc}
}

// AdminPanelHandler handles GET /admin.
func (h *AdminHandler) AdminPanelHandler(c *gin.Context) {
	if !requirePermission(c, policy.PermAccessAdminPanel) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Admin panel"})
}

// ListUsersHandler handles GET /admin/users.
func (h *AdminHandler) ListUsersHandler(c *gin.Context) {
	if !requirePermission(c, policy.PermManageUsers) {
		return
	}
	users, err := h.Users.GetAll(c.Request.Context())
	if err != nil {
		zap.L().Error("failed to list users", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list users", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// SetRoleHandler handles PATCH /admin/users/:id/role.
func (h *AdminHandler) SetRoleHandler(c *gin.Context) {
	if !requirePermission(c, policy.PermManageUsers) {
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid role payload", err.Error())
		return
	}

	if err := h.Users.SetRole(c.Request.Context(), c.Param("id"), policy.Role(req.Role)); err != nil {
		if err == userService.ErrInvalidRole {
			utils.JSONError(c, http.StatusBadRequest, "Unknown role", req.Role)
			return
		}
		if err == userService.ErrProfileNotFound {
			utils.JSONError(c, http.StatusNotFound, "User not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to set role", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role updated"})
}

// DeleteJobHandler handles DELETE /admin/jobs/:id for moderation.
func (h *AdminHandler) DeleteJobHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	if !requirePermission(c, policy.PermAccessAdminPanel) {
		return
	}
	if err := h.Svc.DeleteJob(c.Request.Context(), actor, c.Param("id")); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to delete job", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Job deleted"})
}
