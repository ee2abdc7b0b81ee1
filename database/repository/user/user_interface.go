package userRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"workhive/models"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by its subject identifier.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail retrieves a user by its email address, or nil when absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.User) error
	// Update modifies an existing user record.
	Update(ctx context.Context, user *models.User) error
	// UpdateSet applies a partial $set update to the user document.
	UpdateSet(ctx context.Context, id string, updateDoc bson.M) error
	// Delete removes a user record by its ID.
	Delete(ctx context.Context, id string) error
	// GetAll retrieves all users.
	GetAll(ctx context.Context) ([]models.User, error)
	// ListByRole retrieves users carrying the given role.
	ListByRole(ctx context.Context, role string) ([]models.User, error)
	// GetFreelancerProfile retrieves the freelancer sub-profile, or nil when unset.
	GetFreelancerProfile(ctx context.Context, id string) (*models.FreelancerProfile, error)
	// GetClientProfile retrieves the client sub-profile, or nil when unset.
	GetClientProfile(ctx context.Context, id string) (*models.ClientProfile, error)
	// SetFreelancerProfile replaces the freelancer sub-profile.
	SetFreelancerProfile(ctx context.Context, id string, profile *models.FreelancerProfile) error
	// SetClientProfile replaces the client sub-profile.
	SetClientProfile(ctx context.Context, id string, profile *models.ClientProfile) error
}
