package marketplace

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"workhive/models"
	"workhive/utils"
)

// SubmitProposal files a freelancer's bid on an open job.
func (s *DefaultMarketplaceService) SubmitProposal(ctx context.Context, freelancerID string, in ProposalInput) (*models.Proposal, error) {
	job, err := s.Jobs.GetByID(ctx, in.JobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusOpen {
		return nil, ErrJobNotOpen
	}
	if job.ClientID == freelancerID {
		return nil, ErrOwnJob
	}

	existing, err := s.Proposals.GetByJobAndFreelancer(ctx, in.JobID, freelancerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Status != models.ProposalStatusWithdrawn {
			return nil, ErrDuplicateProposal
		}
		// A withdrawn proposal is revived in place; the unique index keeps
		// one document per job/freelancer pair.
		existing.CoverLetter = in.CoverLetter
		existing.BidAmount = in.BidAmount
		existing.Status = models.ProposalStatusPending
		if err := s.Proposals.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	proposal := &models.Proposal{
		ID:           uuid.NewString(),
		JobID:        in.JobID,
		FreelancerID: freelancerID,
		CoverLetter:  in.CoverLetter,
		BidAmount:    in.BidAmount,
		Status:       models.ProposalStatusPending,
	}
	if err := s.Proposals.Create(ctx, proposal); err != nil {
		return nil, err
	}
	utils.GetLogger().Info("proposal submitted",
		zap.String("proposal", proposal.ID),
		zap.String("job", in.JobID),
		zap.String("freelancer", freelancerID))
	return proposal, nil
}

// ListProposalsByFreelancer lists the freelancer's own proposals.
func (s *DefaultMarketplaceService) ListProposalsByFreelancer(ctx context.Context, freelancerID string) ([]models.Proposal, error) {
	return s.Proposals.ListByFreelancer(ctx, freelancerID)
}

// ListProposalsForJob lists proposals on a job. Only the owning client or an
// admin may view them.
func (s *DefaultMarketplaceService) ListProposalsForJob(ctx context.Context, actor Actor, jobID string) ([]models.Proposal, error) {
	if _, err := s.ownedJob(ctx, actor, jobID); err != nil {
		return nil, err
	}
	return s.Proposals.ListByJob(ctx, jobID)
}

// WithdrawProposal retracts a pending proposal. Only its author may withdraw.
func (s *DefaultMarketplaceService) WithdrawProposal(ctx context.Context, actor Actor, proposalID string) error {
	proposal, err := s.Proposals.GetByID(ctx, proposalID)
	if err != nil {
		return err
	}
	if proposal.FreelancerID != actor.ID && !actor.isAdmin() {
		return ErrForbidden
	}
	if proposal.Status != models.ProposalStatusPending {
		return ErrProposalNotPending
	}
	proposal.Status = models.ProposalStatusWithdrawn
	return s.Proposals.Update(ctx, proposal)
}

// AcceptProposal accepts a pending proposal on an open job: the job is marked
// filled, competing pending proposals are rejected, and a contract is created
// for the bid amount.
func (s *DefaultMarketplaceService) AcceptProposal(ctx context.Context, actor Actor, proposalID string) (*models.Contract, error) {
	proposal, err := s.Proposals.GetByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if proposal.Status != models.ProposalStatusPending {
		return nil, ErrProposalNotPending
	}

	job, err := s.ownedJob(ctx, actor, proposal.JobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusOpen {
		return nil, ErrJobNotOpen
	}

	proposal.Status = models.ProposalStatusAccepted
	if err := s.Proposals.Update(ctx, proposal); err != nil {
		return nil, err
	}

	job.Status = models.JobStatusFilled
	if err := s.Jobs.Update(ctx, job); err != nil {
		return nil, err
	}

	// Reject the competing pending proposals.
	others, err := s.Proposals.ListByJob(ctx, job.ID)
	if err != nil {
		return nil, err
	}
	for i := range others {
		other := &others[i]
		if other.ID == proposal.ID || other.Status != models.ProposalStatusPending {
			continue
		}
		other.Status = models.ProposalStatusRejected
		if err := s.Proposals.Update(ctx, other); err != nil {
			utils.GetLogger().Warn("failed to reject competing proposal",
				zap.String("proposal", other.ID), zap.Error(err))
		}
	}

	contract := &models.Contract{
		ID:           uuid.NewString(),
		JobID:        job.ID,
		ProposalID:   proposal.ID,
		ClientID:     job.ClientID,
		FreelancerID: proposal.FreelancerID,
		Amount:       proposal.BidAmount,
		Status:       models.ContractStatusActive,
		StartedAt:    timeNow(),
	}
	if err := s.Contracts.Create(ctx, contract); err != nil {
		return nil, err
	}
	utils.GetLogger().Info("proposal accepted",
		zap.String("proposal", proposal.ID),
		zap.String("contract", contract.ID))
	return contract, nil
}
