// Package marketplace implements the thin pass-through operations of the
// marketplace surface: job postings, proposals, contracts and earnings,
// messaging, and testimonials. Ownership checks live here; route-level role
// gating happens earlier in the session gate.
package marketplace

import (
	"context"
	"errors"

	contractRepo "workhive/database/repository/contract"
	jobRepo "workhive/database/repository/job"
	messageRepo "workhive/database/repository/message"
	proposalRepo "workhive/database/repository/proposal"
	testimonialRepo "workhive/database/repository/testimonial"
	"workhive/models"
	"workhive/policy"
)

// Sentinel errors surfaced to handlers.
var (
	ErrForbidden            = errors.New("not allowed to act on this resource")
	ErrJobNotOpen           = errors.New("job is not open")
	ErrOwnJob               = errors.New("cannot submit a proposal to your own job")
	ErrDuplicateProposal    = errors.New("proposal already submitted for this job")
	ErrProposalNotPending   = errors.New("proposal is not pending")
	ErrContractNotActive    = errors.New("contract is not active")
	ErrContractNotCompleted = errors.New("contract is not completed")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrDuplicateTestimonial = errors.New("testimonial already left for this contract")
)

// Actor identifies the authenticated subject performing an operation.
type Actor struct {
	ID   string
	Role policy.Role
}

func (a Actor) isAdmin() bool {
	return a.Role == policy.RoleAdmin
}

// JobInput carries the writable fields of a job posting.
type JobInput struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Skills      []string `json:"skills"`
	Budget      float64  `json:"budget" binding:"required,gt=0"`
}

// ProposalInput carries the writable fields of a proposal.
type ProposalInput struct {
	JobID       string  `json:"job_id" binding:"required"`
	CoverLetter string  `json:"cover_letter" binding:"required"`
	BidAmount   float64 `json:"bid_amount" binding:"required,gt=0"`
}

// MessageInput carries the writable fields of a direct message.
type MessageInput struct {
	RecipientID string `json:"recipient_id" binding:"required"`
	Body        string `json:"body" binding:"required"`
}

// TestimonialInput carries the writable fields of a testimonial.
type TestimonialInput struct {
	ContractID string `json:"contract_id" binding:"required"`
	Rating     int    `json:"rating" binding:"required"`
	Body       string `json:"body" binding:"required"`
}

// Service defines the marketplace operations.
type Service interface {
	// Jobs.
	PostJob(ctx context.Context, clientID string, in JobInput) (*models.Job, error)
	GetJob(ctx context.Context, id string) (*models.Job, error)
	ListOpenJobs(ctx context.Context, skill string) ([]models.Job, error)
	ListJobsByClient(ctx context.Context, clientID string) ([]models.Job, error)
	UpdateJob(ctx context.Context, actor Actor, jobID string, in JobInput) (*models.Job, error)
	CloseJob(ctx context.Context, actor Actor, jobID string) error
	DeleteJob(ctx context.Context, actor Actor, jobID string) error

	// Proposals.
	SubmitProposal(ctx context.Context, freelancerID string, in ProposalInput) (*models.Proposal, error)
	ListProposalsByFreelancer(ctx context.Context, freelancerID string) ([]models.Proposal, error)
	ListProposalsForJob(ctx context.Context, actor Actor, jobID string) ([]models.Proposal, error)
	WithdrawProposal(ctx context.Context, actor Actor, proposalID string) error
	AcceptProposal(ctx context.Context, actor Actor, proposalID string) (*models.Contract, error)

	// Contracts and earnings.
	ListContracts(ctx context.Context, subjectID string) ([]models.Contract, error)
	GetContract(ctx context.Context, actor Actor, id string) (*models.Contract, error)
	CompleteContract(ctx context.Context, actor Actor, id string) (*models.Contract, error)
	Earnings(ctx context.Context, freelancerID string) (*models.EarningsSummary, error)

	// Messages.
	SendMessage(ctx context.Context, senderID string, in MessageInput) (*models.Message, error)
	Conversation(ctx context.Context, subjectID, peerID string, limit int64) ([]models.Message, error)

	// Testimonials.
	CreateTestimonial(ctx context.Context, authorID string, in TestimonialInput) (*models.Testimonial, error)
	ListTestimonials(ctx context.Context, subjectID string) ([]models.Testimonial, error)
}

// DefaultMarketplaceService implements Service on top of the mongo repositories.
type DefaultMarketplaceService struct {
	Jobs         jobRepo.JobRepository
	Proposals    proposalRepo.ProposalRepository
	Contracts    contractRepo.ContractRepository
	Messages     messageRepo.MessageRepository
	Testimonials testimonialRepo.TestimonialRepository
}

var _ Service = (*DefaultMarketplaceService)(nil)
