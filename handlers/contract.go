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

// ContractHandler serves contract and earnings endpoints.
type ContractHandler struct {
	Svc marketplace.Service
}

// NewContractHandler creates a new ContractHandler instance.
func NewContractHandler(svc marketplace.Service) *ContractHandler {
	return &ContractHandler{Svc: svc}
}

// ListContractsHandler handles GET /contracts.
func (h *ContractHandler) ListContractsHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	contracts, err := h.Svc.ListContracts(c.Request.Context(), actor.ID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list contracts", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"contracts": contracts})
}

// GetContractHandler handles GET /contracts/:id.
func (h *ContractHandler) GetContractHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	contract, err := h.Svc.GetContract(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.writeContractError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

// CompleteContractHandler handles POST /contracts/:id/complete.
func (h *ContractHandler) CompleteContractHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	contract, err := h.Svc.CompleteContract(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.writeContractError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

// EarningsHandler handles GET /earnings.
func (h *ContractHandler) EarningsHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	if !requirePermission(c, policy.PermViewEarnings) {
		return
	}
	summary, err := h.Svc.Earnings(c.Request.Context(), actor.ID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to compute earnings", err.Error())
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ContractHandler) writeContractError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, contractRepo.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "Contract not found", "")
	case errors.Is(err, marketplace.ErrForbidden):
		utils.JSONError(c, http.StatusForbidden, "Not a party to this contract", "")
	case errors.Is(err, marketplace.ErrContractNotActive):
		utils.JSONError(c, http.StatusConflict, "Contract is not active", "")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Contract operation failed", err.Error())
	}
}
