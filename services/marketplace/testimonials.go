package marketplace

import (
	"context"

	"github.com/google/uuid"

	"workhive/models"
)

// CreateTestimonial records feedback on a completed contract. The author must
// be a party to the contract; the testimonial's subject is the other party.
func (s *DefaultMarketplaceService) CreateTestimonial(ctx context.Context, authorID string, in TestimonialInput) (*models.Testimonial, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrInvalidRating
	}

	contract, err := s.Contracts.GetByID(ctx, in.ContractID)
	if err != nil {
		return nil, err
	}
	if contract.Status != models.ContractStatusCompleted {
		return nil, ErrContractNotCompleted
	}

	var subjectID string
	switch authorID {
	case contract.ClientID:
		subjectID = contract.FreelancerID
	case contract.FreelancerID:
		subjectID = contract.ClientID
	default:
		return nil, ErrForbidden
	}

	existing, err := s.Testimonials.GetByContractAndAuthor(ctx, in.ContractID, authorID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateTestimonial
	}

	testimonial := &models.Testimonial{
		ID:         uuid.NewString(),
		ContractID: in.ContractID,
		AuthorID:   authorID,
		SubjectID:  subjectID,
		Rating:     in.Rating,
		Body:       in.Body,
	}
	if err := s.Testimonials.Create(ctx, testimonial); err != nil {
		return nil, err
	}
	return testimonial, nil
}

// ListTestimonials lists feedback left about a subject.
func (s *DefaultMarketplaceService) ListTestimonials(ctx context.Context, subjectID string) ([]models.Testimonial, error) {
	return s.Testimonials.ListBySubject(ctx, subjectID)
}
