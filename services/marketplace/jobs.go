package marketplace

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"workhive/models"
	"workhive/utils"
)

// PostJob creates an open job posting owned by the client.
func (s *DefaultMarketplaceService) PostJob(ctx context.Context, clientID string, in JobInput) (*models.Job, error) {
	job := &models.Job{
		ID:          uuid.NewString(),
		ClientID:    clientID,
		Title:       in.Title,
		Description: in.Description,
		Skills:      in.Skills,
		Budget:      in.Budget,
		Status:      models.JobStatusOpen,
	}
	if err := s.Jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	utils.GetLogger().Info("job posted", zap.String("job", job.ID), zap.String("client", clientID))
	return job, nil
}

// GetJob fetches a single job posting.
func (s *DefaultMarketplaceService) GetJob(ctx context.Context, id string) (*models.Job, error) {
	return s.Jobs.GetByID(ctx, id)
}

// ListOpenJobs lists open postings, optionally narrowed to a skill.
func (s *DefaultMarketplaceService) ListOpenJobs(ctx context.Context, skill string) ([]models.Job, error) {
	return s.Jobs.List(ctx, models.JobFilter{Status: models.JobStatusOpen, Skill: skill})
}

// ListJobsByClient lists every posting owned by the client.
func (s *DefaultMarketplaceService) ListJobsByClient(ctx context.Context, clientID string) ([]models.Job, error) {
	return s.Jobs.List(ctx, models.JobFilter{ClientID: clientID})
}

// UpdateJob edits a posting. Only the owning client or an admin may edit.
func (s *DefaultMarketplaceService) UpdateJob(ctx context.Context, actor Actor, jobID string, in JobInput) (*models.Job, error) {
	job, err := s.ownedJob(ctx, actor, jobID)
	if err != nil {
		return nil, err
	}
	job.Title = in.Title
	job.Description = in.Description
	job.Skills = in.Skills
	job.Budget = in.Budget
	if err := s.Jobs.Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// CloseJob marks a posting closed without filling it.
func (s *DefaultMarketplaceService) CloseJob(ctx context.Context, actor Actor, jobID string) error {
	job, err := s.ownedJob(ctx, actor, jobID)
	if err != nil {
		return err
	}
	job.Status = models.JobStatusClosed
	return s.Jobs.Update(ctx, job)
}

// DeleteJob removes a posting. Only the owning client or an admin may delete.
func (s *DefaultMarketplaceService) DeleteJob(ctx context.Context, actor Actor, jobID string) error {
	if _, err := s.ownedJob(ctx, actor, jobID); err != nil {
		return err
	}
	return s.Jobs.Delete(ctx, jobID)
}

func (s *DefaultMarketplaceService) ownedJob(ctx context.Context, actor Actor, jobID string) (*models.Job, error) {
	job, err := s.Jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.ClientID != actor.ID && !actor.isAdmin() {
		return nil, ErrForbidden
	}
	return job, nil
}
