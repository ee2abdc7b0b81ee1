package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"workhive/config"
	"workhive/policy"
	"workhive/services/auth"
	userService "workhive/services/user"
	"workhive/utils"
)

// AuthHandler serves registration, login, logout, and the authorization-code
// callback.
type AuthHandler struct {
	Users    userService.Service
	Sessions auth.SessionService
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(users userService.Service, sessions auth.SessionService) *AuthHandler {
	return &AuthHandler{Users: users, Sessions: sessions}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterHandler handles POST /register.
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid registration payload", err.Error())
		return
	}

	usr, err := h.Users.Register(c.Request.Context(), req.Email, req.Password, req.FullName, policy.Role(req.Role))
	if err != nil {
		switch err {
		case userService.ErrEmailTaken:
			utils.JSONError(c, http.StatusConflict, "Email already registered", "")
		case userService.ErrInvalidRole:
			utils.JSONError(c, http.StatusBadRequest, "Role must be freelancer or client", "")
		default:
			utils.JSONError(c, http.StatusInternalServerError, "Registration failed", err.Error())
		}
		return
	}

	session, err := h.Sessions.Issue(c.Request.Context(), usr.ID, usr.Email)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to create session", err.Error())
		return
	}
	h.setSessionCookie(c, session)
	c.JSON(http.StatusCreated, gin.H{"user": usr, "redirect": utils.DashboardPath})
}

// LoginHandler handles POST /login. A redirect query parameter, attached by
// the session gate when it bounced the original request, is echoed back so
// the client can return the user there.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid login payload", err.Error())
		return
	}

	usr, err := h.Users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if err == userService.ErrInvalidCredentials {
			utils.JSONError(c, http.StatusUnauthorized, "Invalid email or password", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Login failed", err.Error())
		return
	}

	session, err := h.Sessions.Issue(c.Request.Context(), usr.ID, usr.Email)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to create session", err.Error())
		return
	}
	h.setSessionCookie(c, session)

	redirect := c.Query("redirect")
	if redirect == "" {
		redirect = utils.DashboardPath
	}
	c.JSON(http.StatusOK, gin.H{"user": usr, "redirect": redirect})
}

// LoginPageHandler handles GET /login for clients that land here via the
// session gate's redirect.
func (h *AuthHandler) LoginPageHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":  "Authentication required",
		"redirect": c.Query("redirect"),
	})
}

// CallbackHandler handles GET /auth/callback, exchanging a one-time
// authorization code for a session.
func (h *AuthHandler) CallbackHandler(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing authorization code", "")
		return
	}

	session, err := h.Sessions.ExchangeCode(c.Request.Context(), code)
	if err != nil {
		if err == auth.ErrInvalidCode {
			utils.JSONError(c, http.StatusUnauthorized, "Invalid or expired authorization code", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Code exchange failed", err.Error())
		return
	}

	// Ensure a profile row exists before the user lands on the dashboard.
	if _, err := h.Users.GetOrCreate(c.Request.Context(), session.Subject, session.Email); err != nil {
		zap.L().Warn("failed to upsert profile after code exchange",
			zap.String("subject", session.Subject), zap.Error(err))
	}

	h.setSessionCookie(c, session)
	redirect := c.Query("redirect")
	if redirect == "" {
		redirect = utils.DashboardPath
	}
	c.Redirect(http.StatusFound, redirect)
}

// LogoutHandler handles POST /logout.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	if token, err := c.Cookie(config.AppConfig.SessionCookie); err == nil && token != "" {
		if err := h.Sessions.Revoke(c.Request.Context(), token); err != nil {
			zap.L().Warn("failed to revoke session", zap.Error(err))
		}
	}
	c.SetCookie(config.AppConfig.SessionCookie, "", -1, "/", "", config.AppConfig.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// UnauthorizedHandler handles GET /unauthorized, the gate's redirect target
// for role mismatches.
func (h *AuthHandler) UnauthorizedHandler(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{
		"error": "Your role does not permit access to the requested page",
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, session *auth.Session) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetCookie(config.AppConfig.SessionCookie, session.Token, maxAge, "/", "", config.AppConfig.CookieSecure, true)
}
