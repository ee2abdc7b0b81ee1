package marketplace

import (
	"context"
	"time"

	"workhive/models"
)

// timeNow is swappable in tests.
var timeNow = time.Now

// ListContracts lists contracts where the subject is either party.
func (s *DefaultMarketplaceService) ListContracts(ctx context.Context, subjectID string) ([]models.Contract, error) {
	return s.Contracts.ListBySubject(ctx, subjectID)
}

// GetContract fetches a contract. Only a party to the contract or an admin
// may read it.
func (s *DefaultMarketplaceService) GetContract(ctx context.Context, actor Actor, id string) (*models.Contract, error) {
	contract, err := s.Contracts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contract.ClientID != actor.ID && contract.FreelancerID != actor.ID && !actor.isAdmin() {
		return nil, ErrForbidden
	}
	return contract, nil
}

// CompleteContract marks an active contract completed. Only the paying client
// or an admin may complete it.
func (s *DefaultMarketplaceService) CompleteContract(ctx context.Context, actor Actor, id string) (*models.Contract, error) {
	contract, err := s.Contracts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contract.ClientID != actor.ID && !actor.isAdmin() {
		return nil, ErrForbidden
	}
	if contract.Status != models.ContractStatusActive {
		return nil, ErrContractNotActive
	}

	now := timeNow()
	contract.Status = models.ContractStatusCompleted
	contract.CompletedAt = &now
	if err := s.Contracts.Update(ctx, contract); err != nil {
		return nil, err
	}
	return contract, nil
}

// Earnings aggregates the freelancer's completed contract amounts.
func (s *DefaultMarketplaceService) Earnings(ctx context.Context, freelancerID string) (*models.EarningsSummary, error) {
	return s.Contracts.EarningsSummary(ctx, freelancerID)
}
