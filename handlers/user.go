package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"workhive/models"
	"workhive/policy"
	"workhive/services/storage"
	userService "workhive/services/user"
	"workhive/utils"
)

// UserHandler serves profile, settings, and freelancer-directory endpoints.
type UserHandler struct {
	Users      userService.Service
	StorageSvc storage.StorageService
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(users userService.Service, storageSvc storage.StorageService) *UserHandler {
	return &UserHandler{Users: users, StorageSvc: storageSvc}
}

// GetProfileHandler handles GET /profile. The profile row is created lazily
// on first authenticated read.
func (h *UserHandler) GetProfileHandler(c *gin.Context) {
	subject, ok := currentSubject(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	usr, err := h.Users.GetOrCreate(c.Request.Context(), subject, "")
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load profile", err.Error())
		return
	}
	c.JSON(http.StatusOK, usr)
}

// UpdateProfileHandler handles PATCH /profile.
func (h *UserHandler) UpdateProfileHandler(c *gin.Context) {
	subject, ok := currentSubject(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "")
		return
	}
	if !requirePermission(c, policy.PermEditProfile) {
		return
	}

	var upd userService.ProfileUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid profile payload", err.Error())
		return
	}

	usr, err := h.Users.UpdateProfile(c.Request.Context(), subject, upd)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to update profile", err.Error())
		return
	}
	c.JSON(http.StatusOK, usr)
}

// CompleteOnboardingHandler handles POST /profile/onboarding. It records the
// role-specific sub-profile and flips onboarding_completed.
func (h *UserHandler) CompleteOnboardingHandler(c *gin.Context) {
	subject, ok := currentSubject(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	var req struct {
		Freelancer *models.FreelancerProfile `json:"freelancer_profile"`
		Client     *models.ClientProfile     `json:"client_profile"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid onboarding payload", err.Error())
		return
	}

	ctx := c.Request.Context()
	if req.Freelancer != nil {
		if err := h.Users.SetFreelancerProfile(ctx, subject, req.Freelancer); err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "Failed to save freelancer profile", err.Error())
			return
		}
	}
	if req.Client != nil {
		if err := h.Users.SetClientProfile(ctx, subject, req.Client); err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "Failed to save client profile", err.Error())
			return
		}
	}

	if err := h.Users.CompleteOnboarding(ctx, subject); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to complete onboarding", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Onboarding completed"})
}

// UploadAvatarHandler handles POST /profile/avatar.
func (h *UserHandler) UploadAvatarHandler(c *gin.Context) {
	subject, ok := currentSubject(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "")
		return
	}
	if h.StorageSvc == nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "Avatar uploads are not configured", "")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "File not provided", err.Error())
		return
	}

	tempFilePath := filepath.Join(os.TempDir(), fileHeader.Filename)
	if err := c.SaveUploadedFile(fileHeader, tempFilePath); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to store upload", err.Error())
		return
	}
	defer os.Remove(tempFilePath)

	url, err := h.StorageSvc.UploadFile(c.Request.Context(), tempFilePath, "avatars")
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to upload avatar", err.Error())
		return
	}
	if err := h.Users.SetAvatar(c.Request.Context(), subject, url); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to save avatar", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar_url": url})
}

// GetSettingsHandler handles GET /settings.
func (h *UserHandler) GetSettingsHandler(c *gin.Context) {
	subject, ok := currentSubject(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "")
		return
	}
	usr, err := h.Users.GetByID(c.Request.Context(), subject)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "Profile not found", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"email":                usr.Email,
		"full_name":            usr.FullName,
		"role":                 usr.Role,
		"onboarding_completed": usr.OnboardingCompleted,
	})
}

// UpdateSettingsHandler handles PATCH /settings.
func (h *UserHandler) UpdateSettingsHandler(c *gin.Context) {
	h.UpdateProfileHandler(c)
}

// ListFreelancersHandler handles GET /freelancers.
func (h *UserHandler) ListFreelancersHandler(c *gin.Context) {
	if !requirePermission(c, policy.PermBrowseFreelancers) {
		return
	}
	freelancers, err := h.Users.ListFreelancers(c.Request.Context())
	if err != nil {
		zap.L().Error("failed to list freelancers", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list freelancers", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"freelancers": freelancers})
}

// GetFreelancerHandler handles GET /freelancers/:id.
func (h *UserHandler) GetFreelancerHandler(c *gin.Context) {
	if !requirePermission(c, policy.PermBrowseFreelancers) {
		return
	}
	id := c.Param("id")
	usr, err := h.Users.GetByID(c.Request.Context(), id)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "Freelancer not found", err.Error())
		return
	}
	profile, err := h.Users.FreelancerProfile(c.Request.Context(), id)
	if err != nil {
		profile = nil
	}
	c.JSON(http.StatusOK, gin.H{"user": usr, "freelancer_profile": profile})
}
