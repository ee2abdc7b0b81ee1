package marketplace

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contractRepo "workhive/database/repository/contract"
	jobRepo "workhive/database/repository/job"
	proposalRepo "workhive/database/repository/proposal"
	"workhive/models"
	"workhive/policy"
)

type memJobRepo struct {
	jobs map[string]*models.Job
}

func (r *memJobRepo) Create(ctx context.Context, job *models.Job) error {
	r.jobs[job.ID] = job
	return nil
}

func (r *memJobRepo) GetByID(ctx context.Context, id string) (*models.Job, error) {
	job, ok := r.jobs[id]
	if !ok {
		return nil, jobRepo.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (r *memJobRepo) Update(ctx context.Context, job *models.Job) error {
	if _, ok := r.jobs[job.ID]; !ok {
		return jobRepo.ErrNotFound
	}
	r.jobs[job.ID] = job
	return nil
}

func (r *memJobRepo) Delete(ctx context.Context, id string) error {
	delete(r.jobs, id)
	return nil
}

func (r *memJobRepo) List(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	var out []models.Job
	for _, job := range r.jobs {
		if filter.ClientID != "" && job.ClientID != filter.ClientID {
			continue
		}
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		out = append(out, *job)
	}
	return out, nil
}

type memProposalRepo struct {
	proposals map[string]*models.Proposal
}

func (r *memProposalRepo) Create(ctx context.Context, proposal *models.Proposal) error {
	r.proposals[proposal.ID] = proposal
	return nil
}

func (r *memProposalRepo) GetByID(ctx context.Context, id string) (*models.Proposal, error) {
	proposal, ok := r.proposals[id]
	if !ok {
		return nil, proposalRepo.ErrNotFound
	}
	cp := *proposal
	return &cp, nil
}

func (r *memProposalRepo) Update(ctx context.Context, proposal *models.Proposal) error {
	if _, ok := r.proposals[proposal.ID]; !ok {
		return proposalRepo.ErrNotFound
	}
	r.proposals[proposal.ID] = proposal
	return nil
}

func (r *memProposalRepo) ListByFreelancer(ctx context.Context, freelancerID string) ([]models.Proposal, error) {
	var out []models.Proposal
	for _, p := range r.proposals {
		if p.FreelancerID == freelancerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memProposalRepo) ListByJob(ctx context.Context, jobID string) ([]models.Proposal, error) {
	var out []models.Proposal
	for _, p := range r.proposals {
		if p.JobID == jobID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memProposalRepo) GetByJobAndFreelancer(ctx context.Context, jobID, freelancerID string) (*models.Proposal, error) {
	for _, p := range r.proposals {
		if p.JobID == jobID && p.FreelancerID == freelancerID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

type memContractRepo struct {
	contracts map[string]*models.Contract
}

func (r *memContractRepo) Create(ctx context.Context, contract *models.Contract) error {
	r.contracts[contract.ID] = contract
	return nil
}

func (r *memContractRepo) GetByID(ctx context.Context, id string) (*models.Contract, error) {
	contract, ok := r.contracts[id]
	if !ok {
		return nil, contractRepo.ErrNotFound
	}
	cp := *contract
	return &cp, nil
}

func (r *memContractRepo) Update(ctx context.Context, contract *models.Contract) error {
	if _, ok := r.contracts[contract.ID]; !ok {
		return contractRepo.ErrNotFound
	}
	r.contracts[contract.ID] = contract
	return nil
}

func (r *memContractRepo) ListBySubject(ctx context.Context, subjectID string) ([]models.Contract, error) {
	var out []models.Contract
	for _, c := range r.contracts {
		if c.ClientID == subjectID || c.FreelancerID == subjectID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memContractRepo) EarningsSummary(ctx context.Context, freelancerID string) (*models.EarningsSummary, error) {
	summary := &models.EarningsSummary{FreelancerID: freelancerID}
	for _, c := range r.contracts {
		if c.FreelancerID == freelancerID && c.Status == models.ContractStatusCompleted {
			summary.TotalEarned += c.Amount
			summary.CompletedContracts++
		}
	}
	return summary, nil
}

type memTestimonialRepo struct {
	testimonials map[string]*models.Testimonial
}

func (r *memTestimonialRepo) Create(ctx context.Context, testimonial *models.Testimonial) error {
	r.testimonials[testimonial.ID] = testimonial
	return nil
}

func (r *memTestimonialRepo) ListBySubject(ctx context.Context, subjectID string) ([]models.Testimonial, error) {
	var out []models.Testimonial
	for _, t := range r.testimonials {
		if t.SubjectID == subjectID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *memTestimonialRepo) GetByContractAndAuthor(ctx context.Context, contractID, authorID string) (*models.Testimonial, error) {
	for _, t := range r.testimonials {
		if t.ContractID == contractID && t.AuthorID == authorID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func newTestService() (*DefaultMarketplaceService, *memJobRepo, *memProposalRepo, *memContractRepo, *memTestimonialRepo) {
	jobs := &memJobRepo{jobs: map[string]*models.Job{}}
	proposals := &memProposalRepo{proposals: map[string]*models.Proposal{}}
	contracts := &memContractRepo{contracts: map[string]*models.Contract{}}
	testimonials := &memTestimonialRepo{testimonials: map[string]*models.Testimonial{}}
	svc := &DefaultMarketplaceService{
		Jobs:         jobs,
		Proposals:    proposals,
		Contracts:    contracts,
		Testimonials: testimonials,
	}
	return svc, jobs, proposals, contracts, testimonials
}

func client() Actor     { return Actor{ID: "client-1", Role: policy.RoleClient} }
func freelancer() Actor { return Actor{ID: "fl-1", Role: policy.RoleFreelancer} }
func admin() Actor      { return Actor{ID: "admin-1", Role: policy.RoleAdmin} }

func openJob() *models.Job {
	return &models.Job{ID: "job-1", ClientID: "client-1", Title: "Build an API", Status: models.JobStatusOpen}
}

func TestSubmitProposal(t *testing.T) {
	svc, jobs, _, _, _ := newTestService()
	require.NoError(t, jobs.Create(context.Background(), openJob()))

	in := ProposalInput{JobID: "job-1", CoverLetter: "hi", BidAmount: 500}
	proposal, err := svc.SubmitProposal(context.Background(), "fl-1", in)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusPending, proposal.Status)

	// Duplicate submission is rejected.
	_, err = svc.SubmitProposal(context.Background(), "fl-1", in)
	assert.ErrorIs(t, err, ErrDuplicateProposal)
}

func TestSubmitProposalRejectsOwnJob(t *testing.T) {
	svc, jobs, _, _, _ := newTestService()
	require.NoError(t, jobs.Create(context.Background(), openJob()))

	_, err := svc.SubmitProposal(context.Background(), "client-1", ProposalInput{JobID: "job-1", CoverLetter: "hi", BidAmount: 100})
	assert.ErrorIs(t, err, ErrOwnJob)
}

func TestSubmitProposalRejectsClosedJob(t *testing.T) {
	svc, jobs, _, _, _ := newTestService()
	job := openJob()
	job.Status = models.JobStatusClosed
	require.NoError(t, jobs.Create(context.Background(), job))

	_, err := svc.SubmitProposal(context.Background(), "fl-1", ProposalInput{JobID: "job-1", CoverLetter: "hi", BidAmount: 100})
	assert.ErrorIs(t, err, ErrJobNotOpen)
}

func TestResubmitAfterWithdraw(t *testing.T) {
	svc, jobs, _, _, _ := newTestService()
	require.NoError(t, jobs.Create(context.Background(), openJob()))

	in := ProposalInput{JobID: "job-1", CoverLetter: "hi", BidAmount: 500}
	proposal, err := svc.SubmitProposal(context.Background(), "fl-1", in)
	require.NoError(t, err)
	require.NoError(t, svc.WithdrawProposal(context.Background(), freelancer(), proposal.ID))

	_, err = svc.SubmitProposal(context.Background(), "fl-1", in)
	assert.NoError(t, err)
}

func TestWithdrawProposalAuthorOnly(t *testing.T) {
	svc, jobs, _, _, _ := newTestService()
	require.NoError(t, jobs.Create(context.Background(), openJob()))
	proposal, err := svc.SubmitProposal(context.Background(), "fl-1", ProposalInput{JobID: "job-1", CoverLetter: "hi", BidAmount: 500})
	require.NoError(t, err)

	err = svc.WithdrawProposal(context.Background(), Actor{ID: "fl-2", Role: policy.RoleFreelancer}, proposal.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAcceptProposal(t *testing.T) {
	fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return fixed }
	defer func() { timeNow = time.Now }()

	svc, jobs, proposals, _, _ := newTestService()
	require.NoError(t, jobs.Create(context.Background(), openJob()))

	winning, err := svc.SubmitProposal(context.Background(), "fl-1", ProposalInput{JobID: "job-1", CoverLetter: "pick me", BidAmount: 750})
	require.NoError(t, err)
	losing, err := svc.SubmitProposal(context.Background(), "fl-2", ProposalInput{JobID: "job-1", CoverLetter: "no, me", BidAmount: 600})
	require.NoError(t, err)

	contract, err := svc.AcceptProposal(context.Background(), client(), winning.ID)
	require.NoError(t, err)
	assert.Equal(t, "client-1", contract.ClientID)
	assert.Equal(t, "fl-1", contract.FreelancerID)
	assert.Equal(t, 750.0, contract.Amount)
	assert.Equal(t, models.ContractStatusActive, contract.Status)
	assert.Equal(t, fixed, contract.StartedAt)

	job, err := jobs.GetByID(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFilled, job.Status)

	accepted, err := proposals.GetByID(context.Background(), winning.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusAccepted, accepted.Status)

	rejected, err := proposals.GetByID(context.Background(), losing.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusRejected, rejected.Status)
}

func TestAcceptProposalOwnerOnly(t *testing.T) {
	svc, jobs, _, _, _ := newTestService()
	require.NoError(t, jobs.Create(context.Background(), openJob()))
	proposal, err := svc.SubmitProposal(context.Background(), "fl-1", ProposalInput{JobID: "job-1", CoverLetter: "hi", BidAmount: 500})
	require.NoError(t, err)

	_, err = svc.AcceptProposal(context.Background(), Actor{ID: "client-2", Role: policy.RoleClient}, proposal.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// Admins may accept on the client's behalf.
	_, err = svc.AcceptProposal(context.Background(), admin(), proposal.ID)
	assert.NoError(t, err)
}

func TestCompleteContractAndEarnings(t *testing.T) {
	svc, jobs, _, _, _ := newTestService()
	require.NoError(t, jobs.Create(context.Background(), openJob()))
	proposal, err := svc.SubmitProposal(context.Background(), "fl-1", ProposalInput{JobID: "job-1", CoverLetter: "hi", BidAmount: 500})
	require.NoError(t, err)
	contract, err := svc.AcceptProposal(context.Background(), client(), proposal.ID)
	require.NoError(t, err)

	// Freelancers cannot complete; only the paying client or an admin.
	_, err = svc.CompleteContract(context.Background(), freelancer(), contract.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	completed, err := svc.CompleteContract(context.Background(), client(), contract.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContractStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	// Completing twice fails.
	_, err = svc.CompleteContract(context.Background(), client(), contract.ID)
	assert.ErrorIs(t, err, ErrContractNotActive)

	summary, err := svc.Earnings(context.Background(), "fl-1")
	require.NoError(t, err)
	assert.Equal(t, 500.0, summary.TotalEarned)
	assert.Equal(t, 1, summary.CompletedContracts)
}

func TestGetContractPartyOnly(t *testing.T) {
	svc, _, _, contracts, _ := newTestService()
	require.NoError(t, contracts.Create(context.Background(), &models.Contract{
		ID: "ct-1", ClientID: "client-1", FreelancerID: "fl-1", Status: models.ContractStatusActive,
	}))

	_, err := svc.GetContract(context.Background(), Actor{ID: "outsider", Role: policy.RoleClient}, "ct-1")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.GetContract(context.Background(), freelancer(), "ct-1")
	assert.NoError(t, err)

	_, err = svc.GetContract(context.Background(), admin(), "ct-1")
	assert.NoError(t, err)
}

func TestCreateTestimonial(t *testing.T) {
	svc, _, _, contracts, _ := newTestService()
	now := time.Now()
	require.NoError(t, contracts.Create(context.Background(), &models.Contract{
		ID: "ct-1", ClientID: "client-1", FreelancerID: "fl-1",
		Status: models.ContractStatusCompleted, CompletedAt: &now,
	}))

	in := TestimonialInput{ContractID: "ct-1", Rating: 5, Body: "great work"}
	testimonial, err := svc.CreateTestimonial(context.Background(), "client-1", in)
	require.NoError(t, err)
	assert.Equal(t, "fl-1", testimonial.SubjectID)

	// One testimonial per author per contract.
	_, err = svc.CreateTestimonial(context.Background(), "client-1", in)
	assert.ErrorIs(t, err, ErrDuplicateTestimonial)

	// The other party may still leave theirs.
	back, err := svc.CreateTestimonial(context.Background(), "fl-1", TestimonialInput{ContractID: "ct-1", Rating: 4, Body: "fine client"})
	require.NoError(t, err)
	assert.Equal(t, "client-1", back.SubjectID)
}

func TestCreateTestimonialGuards(t *testing.T) {
	svc, _, _, contracts, _ := newTestService()
	require.NoError(t, contracts.Create(context.Background(), &models.Contract{
		ID: "ct-active", ClientID: "client-1", FreelancerID: "fl-1", Status: models.ContractStatusActive,
	}))
	now := time.Now()
	require.NoError(t, contracts.Create(context.Background(), &models.Contract{
		ID: "ct-done", ClientID: "client-1", FreelancerID: "fl-1",
		Status: models.ContractStatusCompleted, CompletedAt: &now,
	}))

	_, err := svc.CreateTestimonial(context.Background(), "client-1", TestimonialInput{ContractID: "ct-done", Rating: 0, Body: "x"})
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = svc.CreateTestimonial(context.Background(), "client-1", TestimonialInput{ContractID: "ct-active", Rating: 3, Body: "x"})
	assert.ErrorIs(t, err, ErrContractNotCompleted)

	_, err = svc.CreateTestimonial(context.Background(), "outsider", TestimonialInput{ContractID: "ct-done", Rating: 3, Body: "x"})
	assert.ErrorIs(t, err, ErrForbidden)
}
