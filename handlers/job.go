package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	jobRepo "workhive/database/repository/job"
	"workhive/policy"
	"workhive/services/marketplace"
	"workhive/utils"
)

// JobHandler serves job posting endpoints.
type JobHandler struct {
	Svc marketplace.Service
}

// NewJobHandler creates a new JobHandler instance.
func NewJobHandler(svc marketplace.Service) *JobHandler {
	return &JobHandler{Svc: svc}
}

// ListJobsHandler handles GET /jobs.
func (h *JobHandler) ListJobsHandler(c *gin.Context) {
	jobs, err := h.Svc.ListOpenJobs(c.Request.Context(), c.Query("skill"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list jobs", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// GetJobHandler handles GET /jobs/:id.
func (h *JobHandler) GetJobHandler(c *gin.Context) {
	job, err := h.Svc.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, jobRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Job not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch job", err.Error())
		return
	}
	c.JSON(http.StatusOK, job)
}

// PostJobHandler handles POST /jobs.
func (h *JobHandler) PostJobHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	if !requirePermission(c, policy.PermPostJob) {
		return
	}

	var in marketplace.JobInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid job payload", err.Error())
		return
	}

	job, err := h.Svc.PostJob(c.Request.Context(), actor.ID, in)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to post job", err.Error())
		return
	}
	c.JSON(http.StatusCreated, job)
}

// UpdateJobHandler handles PATCH /jobs/:id.
func (h *JobHandler) UpdateJobHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	if !requirePermission(c, policy.PermManageOwnJobs) {
		return
	}

	var in marketplace.JobInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid job payload", err.Error())
		return
	}

	job, err := h.Svc.UpdateJob(c.Request.Context(), actor, c.Param("id"), in)
	if err != nil {
		h.writeJobError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// CloseJobHandler handles POST /jobs/:id/close.
func (h *JobHandler) CloseJobHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	if !requirePermission(c, policy.PermManageOwnJobs) {
		return
	}
	if err := h.Svc.CloseJob(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.writeJobError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Job closed"})
}

// MyJobsHandler handles GET /my-jobs.
func (h *JobHandler) MyJobsHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	jobs, err := h.Svc.ListJobsByClient(c.Request.Context(), actor.ID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list jobs", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

func (h *JobHandler) writeJobError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, jobRepo.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "Job not found", "")
	case errors.Is(err, marketplace.ErrForbidden):
		utils.JSONError(c, http.StatusForbidden, "Not your job posting", "")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Job operation failed", err.Error())
	}
}
