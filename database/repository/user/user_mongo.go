package userRepo

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

// ErrNotFound is returned when no user document matches the lookup.
var ErrNotFound = errors.New("user not found")

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo creates a new instance of UserRepository using MongoDB.
func NewMongoUserRepo() UserRepository {
	repo := &MongoUserRepo{coll: database.Collection("users")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// userDocument is the stored shape: the user plus optional sub-profiles.
type userDocument struct {
	models.User       `bson:",inline"`
	FreelancerProfile *models.FreelancerProfile `bson:"freelancer_profile,omitempty"`
	ClientProfile     *models.ClientProfile     `bson:"client_profile,omitempty"`
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoUserRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves a user by its subject identifier.
func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user with id %s: %w", id, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by its email address. Returns nil (no error)
// when no user carries the address.
func (r *MongoUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user with email %s: %w", email, err)
	}
	return &user, nil
}

// Create inserts a new user document.
func (r *MongoUserRepo) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Update modifies an existing user document.
func (r *MongoUserRepo) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	filter := bson.M{"id": user.ID}
	update := bson.M{"$set": user}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update user with id %s: %w", user.ID, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateSet applies a partial $set update to the user document.
func (r *MongoUserRepo) UpdateSet(ctx context.Context, id string, updateDoc bson.M) error {
	updateDoc["updated_at"] = time.Now()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": updateDoc})
	if err != nil {
		return fmt.Errorf("failed to update user with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a user document by its ID.
func (r *MongoUserRepo) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetAll retrieves all users.
func (r *MongoUserRepo) GetAll(ctx context.Context) ([]models.User, error) {
	return r.list(ctx, bson.M{})
}

// ListByRole retrieves users carrying the given role.
func (r *MongoUserRepo) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	return r.list(ctx, bson.M{"role": role})
}

func (r *MongoUserRepo) list(ctx context.Context, filter bson.M) ([]models.User, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	for cursor.Next(ctx) {
		var u models.User
		if err := cursor.Decode(&u); err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}
		users = append(users, u)
	}
	return users, nil
}

// GetFreelancerProfile retrieves the freelancer sub-profile via projection.
func (r *MongoUserRepo) GetFreelancerProfile(ctx context.Context, id string) (*models.FreelancerProfile, error) {
	doc, err := r.getWithProjection(ctx, id, bson.M{"freelancer_profile": 1})
	if err != nil {
		return nil, err
	}
	return doc.FreelancerProfile, nil
}

// GetClientProfile retrieves the client sub-profile via projection.
func (r *MongoUserRepo) GetClientProfile(ctx context.Context, id string) (*models.ClientProfile, error) {
	doc, err := r.getWithProjection(ctx, id, bson.M{"client_profile": 1})
	if err != nil {
		return nil, err
	}
	return doc.ClientProfile, nil
}

func (r *MongoUserRepo) getWithProjection(ctx context.Context, id string, projection bson.M) (*userDocument, error) {
	opts := options.FindOne().SetProjection(projection)
	var doc userDocument
	if err := r.coll.FindOne(ctx, bson.M{"id": id}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user with id %s: %w", id, err)
	}
	return &doc, nil
}

// SetFreelancerProfile replaces the freelancer sub-profile.
func (r *MongoUserRepo) SetFreelancerProfile(ctx context.Context, id string, profile *models.FreelancerProfile) error {
	return r.UpdateSet(ctx, id, bson.M{"freelancer_profile": profile})
}

// SetClientProfile replaces the client sub-profile.
func (r *MongoUserRepo) SetClientProfile(ctx context.Context, id string, profile *models.ClientProfile) error {
	return r.UpdateSet(ctx, id, bson.M{"client_profile": profile})
}
