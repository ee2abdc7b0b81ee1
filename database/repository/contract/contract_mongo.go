package contractRepo

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

// ErrNotFound is returned when no contract document matches the lookup.
var ErrNotFound = errors.New("contract not found")

// ContractRepository defines methods for contract data access.
type ContractRepository interface {
	Create(ctx context.Context, contract *models.Contract) error
	GetByID(ctx context.Context, id string) (*models.Contract, error)
	Update(ctx context.Context, contract *models.Contract) error
	// ListBySubject lists contracts where the subject is either party.
	ListBySubject(ctx context.Context, subjectID string) ([]models.Contract, error)
	// EarningsSummary aggregates completed contract amounts for a freelancer.
	EarningsSummary(ctx context.Context, freelancerID string) (*models.EarningsSummary, error)
}

// MongoContractRepo implements ContractRepository using MongoDB.
type MongoContractRepo struct {
	coll *mongo.Collection
}

// NewMongoContractRepo creates a new instance of ContractRepository using MongoDB.
func NewMongoContractRepo() ContractRepository {
	repo := &MongoContractRepo{coll: database.Collection("contracts")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoContractRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "freelancer_id", Value: 1}}},
		{Keys: bson.D{{Key: "client_id", Value: 1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoContractRepo) Create(ctx context.Context, contract *models.Contract) error {
	now := time.Now()
	contract.CreatedAt = now
	contract.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, contract); err != nil {
		return fmt.Errorf("failed to create contract: %w", err)
	}
	return nil
}

func (r *MongoContractRepo) GetByID(ctx context.Context, id string) (*models.Contract, error) {
	var c models.Contract
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch contract with id %s: %w", id, err)
	}
	return &c, nil
}

func (r *MongoContractRepo) Update(ctx context.Context, contract *models.Contract) error {
	contract.UpdatedAt = time.Now()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": contract.ID}, bson.M{"$set": contract})
	if err != nil {
		return fmt.Errorf("failed to update contract with id %s: %w", contract.ID, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoContractRepo) ListBySubject(ctx context.Context, subjectID string) ([]models.Contract, error) {
	filter := bson.M{"$or": []bson.M{
		{"freelancer_id": subjectID},
		{"client_id": subjectID},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve contracts: %w", err)
	}
	defer cursor.Close(ctx)

	var contracts []models.Contract
	for cursor.Next(ctx) {
		var c models.Contract
		if err := cursor.Decode(&c); err != nil {
			return nil, fmt.Errorf("failed to decode contract: %w", err)
		}
		contracts = append(contracts, c)
	}
	return contracts, nil
}

// EarningsSummary sums completed contract amounts for a freelancer. A
// freelancer with no completed contracts gets a zero summary, not an error.
func (r *MongoContractRepo) EarningsSummary(ctx context.Context, freelancerID string) (*models.EarningsSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"freelancer_id": freelancerID,
			"status":        models.ContractStatusCompleted,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":                 "$freelancer_id",
			"total_earned":        bson.M{"$sum": "$amount"},
			"completed_contracts": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate earnings for %s: %w", freelancerID, err)
	}
	defer cursor.Close(ctx)

	if cursor.Next(ctx) {
		var summary models.EarningsSummary
		if err := cursor.Decode(&summary); err != nil {
			return nil, fmt.Errorf("failed to decode earnings summary: %w", err)
		}
		return &summary, nil
	}
	return &models.EarningsSummary{FreelancerID: freelancerID}, nil
}
