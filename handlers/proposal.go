package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	jobRepo "workhive/database/repository/job"
	proposalRepo "workhive/database/repository/proposal"
	"workhive/policy"
	"workhive/services/marketplace"
	"workhive/utils"
)

// ProposalHandler serves proposal endpoints.
type ProposalHandler struct {
	Svc marketplace.Service
}

// NewProposalHandler creates a new ProposalHandler instance.
func NewProposalHandler(svc marketplace.Service) *ProposalHandler {
	return &ProposalHandler{Svc: svc}
}

// SubmitProposalHandler handles POST /proposals.
func (h *ProposalHandler) SubmitProposalHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	if !requirePermission(c, policy.PermSubmitProposal) {
		return
	}

	var in marketplace.ProposalInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid proposal payload", err.Error())
		return
	}

	proposal, err := h.Svc.SubmitProposal(c.Request.Context(), actor.ID, in)
	if err != nil {
		switch {
		case errors.Is(err, jobRepo.ErrNotFound):
			utils.JSONError(c, http.StatusNotFound, "Job not found", "")
		case errors.Is(err, marketplace.ErrJobNotOpen):
			utils.JSONError(c, http.StatusConflict, "Job is no longer open", "")
		case errors.Is(err, marketplace.ErrOwnJob):
			utils.JSONError(c, http.StatusBadRequest, "Cannot bid on your own job", "")
		case errors.Is(err, marketplace.ErrDuplicateProposal):
			utils.JSONError(c, http.StatusConflict, "Proposal already submitted", "")
		default:
			utils.JSONError(c, http.StatusInternalServerError, "Failed to submit proposal", err.Error())
		}
		return
	}
	c.JSON(http.StatusCreated, proposal)
}

// MyProposalsHandler handles GET /proposals.
func (h *ProposalHandler) MyProposalsHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	if !requirePermission(c, policy.PermViewOwnProposals) {
		return
	}
	proposals, err := h.Svc.ListProposalsByFreelancer(c.Request.Context(), actor.ID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list proposals", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"proposals": proposals})
}

// JobProposalsHandler handles GET /jobs/:id/proposals for the owning client.
func (h *ProposalHandler) JobProposalsHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	proposals, err := h.Svc.ListProposalsForJob(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, jobRepo.ErrNotFound):
			utils.JSONError(c, http.StatusNotFound, "Job not found", "")
		case errors.Is(err, marketplace.ErrForbidden):
			utils.JSONError(c, http.StatusForbidden, "Not your job posting", "")
		default:
			utils.JSONError(c, http.StatusInternalServerError, "Failed to list proposals", err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"proposals": proposals})
}

// WithdrawProposalHandler handles DELETE /proposals/:id.
func (h *ProposalHandler) WithdrawProposalHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	if err := h.Svc.WithdrawProposal(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.writeProposalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Proposal withdrawn"})
}

// AcceptProposalHandler handles POST /proposals/:id/accept.
func (h *ProposalHandler) AcceptProposalHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	if !requirePermission(c, policy.PermManageOwnJobs) {
		return
	}
	contract, err := h.Svc.AcceptProposal(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.writeProposalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func (h *ProposalHandler) writeProposalError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, proposalRepo.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "Proposal not found", "")
	case errors.Is(err, marketplace.ErrForbidden):
		utils.JSONError(c, http.StatusForbidden, "Not allowed to act on this proposal", "")
	case errors.Is(err, marketplace.ErrProposalNotPending):
		utils.JSONError(c, http.StatusConflict, "Proposal is not pending", "")
	case errors.Is(err, marketplace.ErrJobNotOpen):
		utils.JSONError(c, http.StatusConflict, "Job is no longer open", "")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Proposal operation failed", err.Error())
	}
}
