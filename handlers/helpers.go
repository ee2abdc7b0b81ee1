package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workhive/policy"
	"workhive/services/marketplace"
	"workhive/utils"
)

// currentSubject returns the subject set by the session gate.
func currentSubject(c *gin.Context) (string, bool) {
	v, ok := c.Get(utils.CtxSubjectKey)
	if !ok {
		return "", false
	}
	subject, ok := v.(string)
	return subject, ok && subject != ""
}

// currentRole returns the role set by the session gate; empty when the
// subject has no profile row yet.
func currentRole(c *gin.Context) policy.Role {
	v, ok := c.Get(utils.CtxRoleKey)
	if !ok {
		return ""
	}
	role, _ := v.(string)
	return policy.Role(role)
}

// currentActor bundles subject and role for the marketplace service.
func currentActor(c *gin.Context) (marketplace.Actor, bool) {
	subject, ok := currentSubject(c)
	if !ok {
		return marketplace.Actor{}, false
	}
	return marketplace.Actor{ID: subject, Role: currentRole(c)}, true
}

// mustActor aborts with 401 when the gate did not establish a subject. The
// gate already redirects unauthenticated page requests; this covers direct
// API calls to unprotected paths.
func mustActor(c *gin.Context) (marketplace.Actor, bool) {
	actor, ok := currentActor(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "")
	}
	return actor, ok
}

// requirePermission enforces a fine-grained permission for the current role.
func requirePermission(c *gin.Context, perm policy.Permission) bool {
	if !policy.HasPermission(currentRole(c), perm) {
		utils.JSONError(c, http.StatusForbidden, "Permission denied", string(perm))
		return false
	}
	return true
}
