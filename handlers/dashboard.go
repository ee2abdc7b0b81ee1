package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workhive/policy"
	userService "workhive/services/user"
	"workhive/utils"
)

// DashboardHandler serves the landing page every authenticated role shares.
type DashboardHandler struct {
	Users userService.Service
}

// NewDashboardHandler creates a new DashboardHandler instance.
func NewDashboardHandler(users userService.Service) *DashboardHandler {
	return &DashboardHandler{Users: users}
}

// DashboardViewHandler handles GET /dashboard.
func (h *DashboardHandler) DashboardViewHandler(c *gin.Context) {
	subject, ok := currentSubject(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	usr, err := h.Users.GetOrCreate(c.Request.Context(), subject, "")
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load dashboard", err.Error())
		return
	}

	role := currentRole(c)
	c.JSON(http.StatusOK, gin.H{
		"user": usr,
		"sections": gin.H{
			"jobs":        policy.HasPermission(role, policy.PermBrowseJobs),
			"my_jobs":     policy.HasPermission(role, policy.PermManageOwnJobs),
			"proposals":   policy.HasPermission(role, policy.PermViewOwnProposals),
			"earnings":    policy.HasPermission(role, policy.PermViewEarnings),
			"freelancers": policy.HasPermission(role, policy.PermBrowseFreelancers),
			"admin":       policy.HasPermission(role, policy.PermAccessAdminPanel),
		},
	})
}

// HealthHandler handles GET /health.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
