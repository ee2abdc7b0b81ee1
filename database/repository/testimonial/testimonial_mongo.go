package testimonialRepo

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

// TestimonialRepository defines methods for testimonial data access.
type TestimonialRepository interface {
	Create(ctx context.Context, testimonial *models.Testimonial) error
	ListBySubject(ctx context.Context, subjectID string) ([]models.Testimonial, error)
	// GetByContractAndAuthor returns an existing testimonial for the pair, or nil.
	GetByContractAndAuthor(ctx context.Context, contractID, authorID string) (*models.Testimonial, error)
}

// MongoTestimonialRepo implements TestimonialRepository using MongoDB.
type MongoTestimonialRepo struct {
	coll *mongo.Collection
}

// NewMongoTestimonialRepo creates a new instance of TestimonialRepository using MongoDB.
func NewMongoTestimonialRepo() TestimonialRepository {
	repo := &MongoTestimonialRepo{coll: database.Collection("testimonials")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoTestimonialRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "contract_id", Value: 1}, {Key: "author_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "subject_id", Value: 1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoTestimonialRepo) Create(ctx context.Context, testimonial *models.Testimonial) error {
	testimonial.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, testimonial); err != nil {
		return fmt.Errorf("failed to create testimonial: %w", err)
	}
	return nil
}

func (r *MongoTestimonialRepo) ListBySubject(ctx context.Context, subjectID string) ([]models.Testimonial, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"subject_id": subjectID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve testimonials: %w", err)
	}
	defer cursor.Close(ctx)

	var testimonials []models.Testimonial
	for cursor.Next(ctx) {
		var tm models.Testimonial
		if err := cursor.Decode(&tm); err != nil {
			return nil, fmt.Errorf("failed to decode testimonial: %w", err)
		}
		testimonials = append(testimonials, tm)
	}
	return testimonials, nil
}

func (r *MongoTestimonialRepo) GetByContractAndAuthor(ctx context.Context, contractID, authorID string) (*models.Testimonial, error) {
	var tm models.Testimonial
	err := r.coll.FindOne(ctx, bson.M{"contract_id": contractID, "author_id": authorID}).Decode(&tm)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch testimonial for contract %s: %w", contractID, err)
	}
	return &tm, nil
}
