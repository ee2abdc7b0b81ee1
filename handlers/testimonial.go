package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	contractRepo "workhive/database/repository/contract"
	"workhive/policy"
	"workhive/services/marketplace"
	"workhive/utils"
)

// TestimonialHandler serves testimonial endpoints.
type TestimonialHandler struct {
	Svc marketplace.Service
}

// NewTestimonialHandler creates a new TestimonialHandler instance.
func NewTestimonialHandler(svc marketplace.Service) *TestimonialHandler {
	return &TestimonialHandler{Svc: svc}
}

// CreateTestimonialHandler handles POST /testimonials.
func (h *TestimonialHandler) CreateTestimonialHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	if !requirePermission(c, policy.PermLeaveTestimonial) {
		return
	}

	var in marketplace.TestimonialInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid testimonial payload", err.Error())
		return
	}

	t, err := h.Svc.CreateTestimonial(c.Request.Context(), actor.ID, in)
	if err != nil {
		switch {
		case errors.Is(err, contractRepo.ErrNotFound):
			utils.JSONError(c, http.StatusNotFound, "Contract not found", "")
		case errors.Is(err, marketplace.ErrInvalidRating):
			utils.JSONError(c, http.StatusBadRequest, "Rating must be between 1 and 5", "")
		case errors.Is(err, marketplace.ErrContractNotCompleted):
			utils.JSONError(c, http.StatusConflict, "Contract is not completed yet", "")
		case errors.Is(err, marketplace.ErrForbidden):
			utils.JSONError(c, http.StatusForbidden, "Not a party to this contract", "")
		case errors.Is(err, marketplace.ErrDuplicateTestimonial):
			utils.JSONError(c, http.StatusConflict, "Testimonial already left for this contract", "")
		default:
			utils.JSONError(c, http.StatusInternalServerError, "Failed to create testimonial", err.Error())
		}
		return
	}
	c.JSON(http.StatusCreated, t)
}

// ListTestimonialsHandler handles GET /testimonials/:subject.
func (h *TestimonialHandler) ListTestimonialsHandler(c *gin.Context) {
	testimonials, err := h.Svc.ListTestimonials(c.Request.Context(), c.Param("subject"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list testimonials", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"testimonials": testimonials})
}
