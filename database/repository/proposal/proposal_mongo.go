package proposalRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"workhive/database"
	"workhive/models"
)

// ErrNotFound is returned when no proposal document matches the lookup.
var ErrNotFound = errors.New("proposal not found")

// ProposalRepository defines methods for proposal data access.
type ProposalRepository interface {
	Create(ctx context.Context, proposal *models.Proposal) error
	GetByID(ctx context.Context, id string) (*models.Proposal, error)
	Update(ctx context.Context, proposal *models.Proposal) error
	ListByFreelancer(ctx context.Context, freelancerID string) ([]models.Proposal, error)
	ListByJob(ctx context.Context, jobID string) ([]models.Proposal, error)
	// GetByJobAndFreelancer returns an existing proposal for the pair, or nil.
	GetByJobAndFreelancer(ctx context.Context, jobID, freelancerID string) (*models.Proposal, error)
}

// MongoProposalRepo implements ProposalRepository using MongoDB.
type MongoProposalRepo struct {
	coll *mongo.Collection
}

// NewMongoProposalRepo creates a new instance of ProposalRepository using MongoDB.
func NewMongoProposalRepo() ProposalRepository {
	repo := &MongoProposalRepo{coll: database.Collection("proposals")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoProposalRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "job_id", Value: 1}, {Key: "freelancer_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "freelancer_id", Value: 1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoProposalRepo) Create(ctx context.Context, proposal *models.Proposal) error {
	now := time.Now()
	proposal.CreatedAt = now
	proposal.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, proposal); err != nil {
		return fmt.Errorf("failed to create proposal: %w", err)
	}
	return nil
}

func (r *MongoProposalRepo) GetByID(ctx context.Context, id string) (*models.Proposal, error) {
	var p models.Proposal
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch proposal with id %s: %w", id, err)
	}
	return &p, nil
}

func (r *MongoProposalRepo) Update(ctx context.Context, proposal *models.Proposal) error {
	proposal.UpdatedAt = time.Now()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": proposal.ID}, bson.M{"$set": proposal})
	if err != nil {
		return fmt.Errorf("failed to update proposal with id %s: %w", proposal.ID, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoProposalRepo) ListByFreelancer(ctx context.Context, freelancerID string) ([]models.Proposal, error) {
	return r.list(ctx, bson.M{"freelancer_id": freelancerID})
}

func (r *MongoProposalRepo) ListByJob(ctx context.Context, jobID string) ([]models.Proposal, error) {
	return r.list(ctx, bson.M{"job_id": jobID})
}

func (r *MongoProposalRepo) GetByJobAndFreelancer(ctx context.Context, jobID, freelancerID string) (*models.Proposal, error) {
	var p models.Proposal
	err := r.coll.FindOne(ctx, bson.M{"job_id": jobID, "freelancer_id": freelancerID}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch proposal for job %s: %w", jobID, err)
	}
	return &p, nil
}

func (r *MongoProposalRepo) list(ctx context.Context, filter bson.M) ([]models.Proposal, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve proposals: %w", err)
	}
	defer cursor.Close(ctx)

	var proposals []models.Proposal
	for cursor.Next(ctx) {
		var p models.Proposal
		if err := cursor.Decode(&p); err != nil {
			return nil, fmt.Errorf("failed to decode proposal: %w", err)
		}
		proposals = append(proposals, p)
	}
	return proposals, nil
}
